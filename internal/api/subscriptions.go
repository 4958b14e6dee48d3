package api

import (
	"errors"
	"net/http"

	"github.com/ignite/newsletter/internal/domain"
	"github.com/ignite/newsletter/internal/pkg/httputil"
	"github.com/ignite/newsletter/internal/service/subscription"
)

// handleSubscribe accepts a signup form (email, name) and stores a pending
// subscriber.
func (s *Server) handleSubscribe(w http.ResponseWriter, r *http.Request) {
	if !httputil.ParseForm(w, r) {
		return
	}

	addr, err := domain.ParseEmailAddress(r.PostFormValue("email"))
	if err != nil {
		httputil.BadRequest(w, err.Error())
		return
	}
	name, err := domain.ParseSubscriberName(r.PostFormValue("name"))
	if err != nil {
		httputil.BadRequest(w, err.Error())
		return
	}

	if err := s.subscriptions.Subscribe(r.Context(), addr, name); err != nil {
		httputil.InternalError(w, err)
		return
	}
	httputil.OK(w, map[string]string{"status": "pending_confirmation"})
}

// handleConfirm redeems a confirmation token from the emailed link.
func (s *Server) handleConfirm(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		httputil.BadRequest(w, "token is required")
		return
	}

	err := s.subscriptions.Confirm(r.Context(), token)
	if errors.Is(err, subscription.ErrTokenNotFound) {
		httputil.BadRequest(w, "unknown subscription token")
		return
	}
	if err != nil {
		httputil.InternalError(w, err)
		return
	}
	httputil.OK(w, map[string]string{"status": "confirmed"})
}
