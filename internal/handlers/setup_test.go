package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"testing/fstest"

	"github.com/go-chi/chi/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/abrezinsky/rollart/internal/auth"
	"github.com/abrezinsky/rollart/internal/catalog"
	"github.com/abrezinsky/rollart/internal/handlers"
	"github.com/abrezinsky/rollart/internal/logger"
	"github.com/abrezinsky/rollart/internal/models"
	"github.com/abrezinsky/rollart/internal/repository"
	"github.com/abrezinsky/rollart/internal/services"
	"github.com/abrezinsky/rollart/internal/testutil"
	"github.com/abrezinsky/rollart/internal/websocket"
	"github.com/abrezinsky/rollart/pkg/livescore"
)

const testPassword = "test-password"

// nopPublisher drops every snapshot
type nopPublisher struct{}

func (nopPublisher) Publish(models.Snapshot) {}

type testSetup struct {
	repo       repository.FullRepository
	handlers   *handlers.Handlers
	router     chi.Router
	authCookie *http.Cookie
	client     *livescore.MockClient
}

func testStaticFS() fstest.MapFS {
	return fstest.MapFS{
		"scoreboard.html":    &fstest.MapFile{Data: []byte(`<html><body>Scoreboard</body></html>`)},
		"css/scoreboard.css": &fstest.MapFile{Data: []byte(`body {}`)},
	}
}

func newTestAuth(t *testing.T) *auth.Auth {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	return auth.NewWithHash(hash)
}

// newTestSetup wires real services over an in-memory repository
func newTestSetup(t *testing.T) *testSetup {
	t.Helper()

	repo := testutil.NewTestRepository(t)
	return newTestSetupWithRepo(t, repo)
}

func newTestSetupWithRepo(t *testing.T, repo repository.FullRepository) *testSetup {
	t.Helper()

	log := logger.Discard()
	cat := catalog.Default()
	pub := nopPublisher{}
	client := livescore.NewMockClient()

	hub := websocket.New(log)
	hub.Start()

	h := handlers.New(handlers.Services{
		Session:  services.NewSessionService(log, repo),
		Category: services.NewCategoryService(log, repo, cat, pub),
		Skater:   services.NewSkaterService(log, repo),
		Program:  services.NewProgramService(log, repo, cat, pub),
		Results:  services.NewResultsService(log, repo),
		Settings: services.NewSettingsService(log, repo, client),
	}, testStaticFS(), newTestAuth(t), hub, handlers.NoopHTTPLogger{})

	token, ok := h.Auth.Login(testPassword)
	if !ok {
		t.Fatal("failed to log in")
	}

	return &testSetup{
		repo:       repo,
		handlers:   h,
		router:     h.Router(),
		authCookie: &http.Cookie{Name: auth.CookieName, Value: token},
		client:     client,
	}
}

// do sends an authenticated request, encoding body as JSON when not nil
func (s *testSetup) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	req := s.newRequest(t, method, path, body)
	req.AddCookie(s.authCookie)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

// doAnon sends a request without the session cookie
func (s *testSetup) doAnon(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, s.newRequest(t, method, path, body))
	return rec
}

func (s *testSetup) newRequest(t *testing.T, method, path string, body interface{}) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if raw, ok := body.(string); ok {
			buf.WriteString(raw)
		} else if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func expectStatus(t *testing.T, rec *httptest.ResponseRecorder, status int) {
	t.Helper()
	if rec.Code != status {
		t.Fatalf("expected status %d, got %d: %s", status, rec.Code, rec.Body.String())
	}
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, target interface{}) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(target); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
}

// expectError checks the status and error code of an API error response
func expectError(t *testing.T, rec *httptest.ResponseRecorder, status int, code string) {
	t.Helper()
	expectStatus(t, rec, status)
	var apiErr handlers.APIError
	decode(t, rec, &apiErr)
	if apiErr.Code != code {
		t.Errorf("expected error code %s, got %s (%s)", code, apiErr.Code, apiErr.Message)
	}
}
