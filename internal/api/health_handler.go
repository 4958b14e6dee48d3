package api

import (
	"net/http"

	"github.com/ignite/newsletter/internal/pkg/httputil"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	httputil.OK(w, map[string]string{"status": "ok"})
}
