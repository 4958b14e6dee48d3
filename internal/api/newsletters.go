package api

import (
	"errors"
	"net/http"

	"github.com/ignite/newsletter/internal/auth"
	"github.com/ignite/newsletter/internal/domain"
	"github.com/ignite/newsletter/internal/idempotency"
	"github.com/ignite/newsletter/internal/pkg/httputil"
)

// adminNewslettersPath is where a successful publication redirects.
const adminNewslettersPath = "/admin/newsletters"

// handlePublish accepts an issue form and fans it out to the confirmed
// audience, once per idempotency key.
func (s *Server) handlePublish(w http.ResponseWriter, r *http.Request) {
	operatorID, ok := auth.OperatorFromContext(r.Context())
	if !ok {
		httputil.Unauthorized(w, publishRealm)
		return
	}

	if !httputil.ParseForm(w, r) {
		return
	}

	key, err := idempotency.ParseKey(r.PostFormValue("idempotency_key"))
	if err != nil {
		httputil.BadRequest(w, err.Error())
		return
	}
	issue, err := domain.NewIssue(
		r.PostFormValue("title"),
		r.PostFormValue("html_content"),
		r.PostFormValue("text_content"),
	)
	if err != nil {
		httputil.BadRequest(w, err.Error())
		return
	}

	claim, saved, err := s.guard.Begin(r.Context(), operatorID, key)
	if errors.Is(err, idempotency.ErrInFlight) {
		httputil.Conflict(w, "a request with this idempotency key is in progress")
		return
	}
	if err != nil {
		httputil.InternalError(w, err)
		return
	}
	if saved != nil {
		writeResponse(w, saved)
		return
	}

	if _, err := s.newsletters.Publish(r.Context(), issue); err != nil {
		// Free the key so the operator can retry.
		if abortErr := s.guard.Abort(r.Context(), claim); abortErr != nil {
			httputil.InternalError(w, abortErr)
			return
		}
		httputil.InternalError(w, err)
		return
	}

	resp := idempotency.Response{
		StatusCode: http.StatusSeeOther,
		Header:     http.Header{"Location": {adminNewslettersPath}},
	}
	if err := s.guard.Complete(r.Context(), claim, resp); err != nil {
		httputil.InternalError(w, err)
		return
	}
	writeResponse(w, &resp)
}

// handleAdminNewsletters is the landing page a successful publication
// redirects to.
func (s *Server) handleAdminNewsletters(w http.ResponseWriter, r *http.Request) {
	httputil.OK(w, map[string]string{"status": "ready"})
}

func writeResponse(w http.ResponseWriter, resp *idempotency.Response) {
	for name, values := range resp.Header {
		for _, v := range values {
			w.Header().Add(name, v)
		}
	}
	w.WriteHeader(resp.StatusCode)
	if len(resp.Body) > 0 {
		w.Write(resp.Body)
	}
}
