// Command fakemail is a development stand-in for the HTTP mail provider.
// It accepts POST /v3/mail/send requests, keeps them in memory, and shows
// everything it received at GET /.
//
//	fakemail -port 9925
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"html"
	"net/http"
	"os"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/ignite/newsletter/internal/pkg/httputil"
	"github.com/ignite/newsletter/internal/pkg/logger"
)

type mailAddress struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

type personalization struct {
	To []mailAddress `json:"to"`
}

type mailContent struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

type sendRequest struct {
	Personalizations []personalization `json:"personalizations"`
	From             mailAddress       `json:"from"`
	Subject          string            `json:"subject"`
	Content          []mailContent     `json:"content"`
}

type mailbox struct {
	mu     sync.Mutex
	emails []sendRequest
}

func (m *mailbox) add(req sendRequest) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.emails = append(m.emails, req)
}

func (m *mailbox) all() []sendRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]sendRequest(nil), m.emails...)
}

func main() {
	port := flag.Int("port", 9925, "listen port")
	flag.Parse()

	box := &mailbox{}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Post("/v3/mail/send", func(w http.ResponseWriter, req *http.Request) {
		var send sendRequest
		if err := json.NewDecoder(req.Body).Decode(&send); err != nil {
			httputil.BadRequest(w, err.Error())
			return
		}
		box.add(send)
		recipients := 0
		for _, p := range send.Personalizations {
			recipients += len(p.To)
		}
		logger.Info("email received", "subject", send.Subject, "recipients", recipients)
		httputil.OK(w, map[string]string{"status": "stored"})
	})
	r.Get("/", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, "<h1>Stored Emails</h1>")
		for i, e := range box.all() {
			fmt.Fprintf(w, "<h2>Email %d</h2>", i+1)
			fmt.Fprintf(w, "<p><strong>From:</strong> %s</p>", html.EscapeString(e.From.Email))
			fmt.Fprintf(w, "<p><strong>Subject:</strong> %s</p>", html.EscapeString(e.Subject))
			fmt.Fprint(w, "<p><strong>To:</strong></p><ul>")
			for _, p := range e.Personalizations {
				for _, to := range p.To {
					fmt.Fprintf(w, "<li>%s (%s)</li>", html.EscapeString(to.Name), html.EscapeString(to.Email))
				}
			}
			fmt.Fprint(w, "</ul><hr>")
		}
	})

	addr := fmt.Sprintf(":%d", *port)
	logger.Info("fakemail listening", "addr", addr)
	if err := http.ListenAndServe(addr, r); err != nil {
		logger.Error("fakemail exited", "err", err)
		os.Exit(1)
	}
}
