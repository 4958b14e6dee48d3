package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/ignite/newsletter/internal/auth"
	"github.com/ignite/newsletter/internal/pkg/httputil"
)

// publishRealm is the Basic auth realm announced on 401 responses.
const publishRealm = "publish"

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", s.handleHealth)

	r.Post("/subscriptions", s.handleSubscribe)
	r.Get("/subscriptions/confirm", s.handleConfirm)

	r.Group(func(r chi.Router) {
		r.Use(s.requireOperator)
		r.Post("/newsletters", s.handlePublish)
		r.Get("/admin/newsletters", s.handleAdminNewsletters)
	})

	return r
}

// requireOperator authenticates Basic credentials and stores the operator
// id on the request context.
func (s *Server) requireOperator(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		operatorID, err := s.validator.ValidateBasic(r)
		if err != nil {
			httputil.Unauthorized(w, publishRealm)
			return
		}
		next.ServeHTTP(w, r.WithContext(auth.WithOperator(r.Context(), operatorID)))
	})
}
