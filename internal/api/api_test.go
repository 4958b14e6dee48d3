package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"

	"github.com/ignite/newsletter/internal/auth"
	"github.com/ignite/newsletter/internal/domain"
	"github.com/ignite/newsletter/internal/email"
	"github.com/ignite/newsletter/internal/idempotency"
	"github.com/ignite/newsletter/internal/service/newsletter"
	"github.com/ignite/newsletter/internal/service/subscription"
)

// memStore backs both service repositories in memory.
type memStore struct {
	mu     sync.Mutex
	subs   map[uuid.UUID]*domain.Subscriber
	tokens map[string]uuid.UUID
}

func newMemStore() *memStore {
	return &memStore{
		subs:   make(map[uuid.UUID]*domain.Subscriber),
		tokens: make(map[string]uuid.UUID),
	}
}

func (m *memStore) CreateWithToken(_ context.Context, sub *domain.Subscriber, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.subs {
		if s.Email == sub.Email {
			return subscription.ErrDuplicateEmail
		}
	}
	cp := *sub
	m.subs[sub.ID] = &cp
	m.tokens[token] = sub.ID
	return nil
}

func (m *memStore) GetByEmail(_ context.Context, addr domain.EmailAddress) (*domain.Subscriber, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.subs {
		if s.Email == addr {
			cp := *s
			return &cp, nil
		}
	}
	return nil, subscription.ErrNotFound
}

func (m *memStore) InsertToken(_ context.Context, id uuid.UUID, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tokens[token] = id
	return nil
}

func (m *memStore) SubscriberIDForToken(_ context.Context, token string) (uuid.UUID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, ok := m.tokens[token]
	if !ok {
		return uuid.Nil, subscription.ErrTokenNotFound
	}
	return id, nil
}

func (m *memStore) Confirm(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.subs[id]; ok {
		s.Status = domain.SubscriberConfirmed
	}
	return nil
}

func (m *memStore) ConfirmedRecipients(_ context.Context) ([]newsletter.Recipient, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []newsletter.Recipient
	for _, s := range m.subs {
		if s.Status == domain.SubscriberConfirmed {
			out = append(out, newsletter.Recipient{Email: s.Email.String(), Name: s.Name.String()})
		}
	}
	return out, nil
}

type captureSender struct {
	mu   sync.Mutex
	sent []email.Email
}

func (c *captureSender) Send(_ context.Context, msg email.Email) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sent = append(c.sent, msg)
	return nil
}

func (c *captureSender) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.sent)
}

func (c *captureSender) last() email.Email {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sent[len(c.sent)-1]
}

type memOperators struct {
	id   uuid.UUID
	user string
	hash string
}

func (m *memOperators) CredentialsByUsername(_ context.Context, username string) (uuid.UUID, string, error) {
	if username != m.user {
		return uuid.Nil, "", auth.ErrUnknownOperator
	}
	return m.id, m.hash, nil
}

type testApp struct {
	server *httptest.Server
	store  *memStore
	sender *captureSender
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	store := newMemStore()
	sender := &captureSender{}
	templates := email.NewTemplateService()
	composer := email.NewConfirmationComposer(templates, "http://localhost:8080")

	hash, err := auth.HashPassword("s3cret")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	validator := auth.NewValidator(&memOperators{id: uuid.New(), user: "editor", hash: hash})

	srv := NewServer("localhost:0",
		subscription.NewService(store, sender, composer),
		newsletter.NewService(store, sender, templates),
		idempotency.NewMemoryGuard(),
		validator,
	)

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return &testApp{server: ts, store: store, sender: sender}
}

func (a *testApp) subscribe(t *testing.T, emailAddr, name string) *http.Response {
	t.Helper()
	form := url.Values{"email": {emailAddr}, "name": {name}}
	resp, err := http.PostForm(a.server.URL+"/subscriptions", form)
	if err != nil {
		t.Fatalf("subscribe request: %v", err)
	}
	resp.Body.Close()
	return resp
}

var tokenRe = regexp.MustCompile(`token=([A-Za-z0-9]+)`)

func (a *testApp) confirmLinkToken(t *testing.T) string {
	t.Helper()
	msg := a.sender.last()
	m := tokenRe.FindStringSubmatch(msg.Text)
	if m == nil {
		t.Fatalf("no confirmation link in email: %s", msg.Text)
	}
	return m[1]
}

func (a *testApp) publish(t *testing.T, form url.Values, withAuth bool) *http.Response {
	t.Helper()
	req, err := http.NewRequest("POST", a.server.URL+"/newsletters", strings.NewReader(form.Encode()))
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if withAuth {
		req.SetBasicAuth("editor", "s3cret")
	}
	client := &http.Client{CheckRedirect: func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}}
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("publish request: %v", err)
	}
	resp.Body.Close()
	return resp
}

func issueForm(key string) url.Values {
	return url.Values{
		"title":           {"Issue #1"},
		"html_content":    {"<p>Hello {{ name }}</p>"},
		"text_content":    {"Hello {{ name }}"},
		"idempotency_key": {key},
	}
}

func TestSubscribeConfirmFlow(t *testing.T) {
	app := newTestApp(t)

	resp := app.subscribe(t, "stan@cat.com", "Stan")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("subscribe status %d", resp.StatusCode)
	}
	if app.sender.count() != 1 {
		t.Fatalf("expected one confirmation email, got %d", app.sender.count())
	}

	token := app.confirmLinkToken(t)
	confirmResp, err := http.Get(app.server.URL + "/subscriptions/confirm?token=" + token)
	if err != nil {
		t.Fatalf("confirm request: %v", err)
	}
	confirmResp.Body.Close()
	if confirmResp.StatusCode != http.StatusOK {
		t.Fatalf("confirm status %d", confirmResp.StatusCode)
	}

	for _, s := range app.store.subs {
		if s.Status != domain.SubscriberConfirmed {
			t.Fatalf("subscriber not confirmed: %s", s.Status)
		}
	}

	// The link stays valid.
	again, err := http.Get(app.server.URL + "/subscriptions/confirm?token=" + token)
	if err != nil {
		t.Fatal(err)
	}
	again.Body.Close()
	if again.StatusCode != http.StatusOK {
		t.Fatalf("second confirm status %d", again.StatusCode)
	}
}

func TestSubscribeRejectsInvalidInput(t *testing.T) {
	app := newTestApp(t)

	cases := []struct {
		name  string
		email string
		sub   string
	}{
		{"missing email", "", "Stan"},
		{"malformed email", "not-an-email", "Stan"},
		{"missing name", "stan@cat.com", ""},
		{"forbidden characters", "stan@cat.com", "<script>"},
	}
	for _, tc := range cases {
		resp := app.subscribe(t, tc.email, tc.sub)
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("%s: status %d, want 400", tc.name, resp.StatusCode)
		}
	}
	if app.sender.count() != 0 {
		t.Fatalf("no email may go out for rejected signups, got %d", app.sender.count())
	}
}

func TestConfirmRejectsUnknownOrMissingToken(t *testing.T) {
	app := newTestApp(t)

	for _, path := range []string{
		"/subscriptions/confirm",
		"/subscriptions/confirm?token=neverissued0123456789abcd",
	} {
		resp, err := http.Get(app.server.URL + path)
		if err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("%s: status %d, want 400", path, resp.StatusCode)
		}
	}
}

func TestPublishRequiresAuth(t *testing.T) {
	app := newTestApp(t)

	resp := app.publish(t, issueForm("key-1"), false)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status %d, want 401", resp.StatusCode)
	}
	if got := resp.Header.Get("WWW-Authenticate"); got != `Basic realm="publish"` {
		t.Fatalf("challenge header %q", got)
	}
}

func TestPublishDeliversToConfirmedOnly(t *testing.T) {
	app := newTestApp(t)

	// One confirmed, one still pending.
	app.subscribe(t, "ann@example.com", "Ann")
	token := app.confirmLinkToken(t)
	resp, err := http.Get(app.server.URL + "/subscriptions/confirm?token=" + token)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	app.subscribe(t, "pending@example.com", "Pat")

	before := app.sender.count()
	pub := app.publish(t, issueForm("key-1"), true)
	if pub.StatusCode != http.StatusSeeOther {
		t.Fatalf("status %d, want 303", pub.StatusCode)
	}
	if got := pub.Header.Get("Location"); got != "/admin/newsletters" {
		t.Fatalf("Location %q", got)
	}

	delivered := app.sender.count() - before
	if delivered != 1 {
		t.Fatalf("expected exactly one delivery, got %d", delivered)
	}
	if app.sender.last().To != "ann@example.com" {
		t.Fatalf("delivered to %s", app.sender.last().To)
	}
	if !strings.Contains(app.sender.last().Text, "Hello Ann") {
		t.Fatalf("content not personalized: %s", app.sender.last().Text)
	}
}

func TestPublishReplaySendsNothingTwice(t *testing.T) {
	app := newTestApp(t)

	app.subscribe(t, "ann@example.com", "Ann")
	token := app.confirmLinkToken(t)
	resp, err := http.Get(app.server.URL + "/subscriptions/confirm?token=" + token)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()

	first := app.publish(t, issueForm("key-1"), true)
	afterFirst := app.sender.count()

	second := app.publish(t, issueForm("key-1"), true)
	if second.StatusCode != first.StatusCode {
		t.Fatalf("replay status %d, first was %d", second.StatusCode, first.StatusCode)
	}
	if second.Header.Get("Location") != first.Header.Get("Location") {
		t.Fatal("replay must carry the same Location")
	}
	if app.sender.count() != afterFirst {
		t.Fatalf("replay must not send again: %d vs %d", app.sender.count(), afterFirst)
	}

	// A different key triggers a fresh fan-out.
	app.publish(t, issueForm("key-2"), true)
	if app.sender.count() != afterFirst+1 {
		t.Fatalf("new key should deliver again, got %d sends", app.sender.count())
	}
}

func TestPublishValidation(t *testing.T) {
	app := newTestApp(t)

	cases := []struct {
		name   string
		mutate func(url.Values)
	}{
		{"missing title", func(f url.Values) { f.Del("title") }},
		{"missing text content", func(f url.Values) { f.Del("text_content") }},
		{"missing html content", func(f url.Values) { f.Del("html_content") }},
		{"missing idempotency key", func(f url.Values) { f.Del("idempotency_key") }},
		{"oversized idempotency key", func(f url.Values) { f.Set("idempotency_key", strings.Repeat("k", 50)) }},
	}
	for _, tc := range cases {
		form := issueForm("key-1")
		tc.mutate(form)
		resp := app.publish(t, form, true)
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("%s: status %d, want 400", tc.name, resp.StatusCode)
		}
	}
}

func TestHealth(t *testing.T) {
	app := newTestApp(t)

	resp, err := http.Get(app.server.URL + "/health")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d", resp.StatusCode)
	}
}
