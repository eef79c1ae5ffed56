package handlers_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/abrezinsky/rollart/internal/handlers"
	"github.com/abrezinsky/rollart/internal/logger"
	"github.com/abrezinsky/rollart/internal/scoring"
)

func TestNew_WithoutStaticFS(t *testing.T) {
	h := handlers.New(handlers.Services{}, nil, newTestAuth(t), nil, handlers.NoopHTTPLogger{})
	router := h.Router()

	for _, path := range []string{"/scoreboard", "/ws", "/static/css/scoreboard.css"} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusNotFound {
			t.Errorf("%s: expected 404 without assets or hub, got %d", path, rec.Code)
		}
	}
}

func TestNewStaticServer(t *testing.T) {
	server := handlers.NewStaticServer(testStaticFS())

	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/css/scoreboard.css", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}

func TestRouter_PublicScoreboard(t *testing.T) {
	setup := newTestSetup(t)

	rec := setup.doAnon(t, http.MethodGet, "/scoreboard", nil)
	expectStatus(t, rec, http.StatusOK)
	if !strings.Contains(rec.Body.String(), "Scoreboard") {
		t.Errorf("unexpected scoreboard body: %s", rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("expected HTML, got %s", ct)
	}

	rec = setup.doAnon(t, http.MethodGet, "/static/css/scoreboard.css", nil)
	expectStatus(t, rec, http.StatusOK)

	// A plain GET is not a websocket handshake
	rec = setup.doAnon(t, http.MethodGet, "/ws", nil)
	expectStatus(t, rec, http.StatusBadRequest)
}

func TestRouter_HTTPLoggingToggle(t *testing.T) {
	log := logger.Discard()
	log.EnableHTTPLogging()
	h := handlers.New(handlers.Services{}, testStaticFS(), newTestAuth(t), nil, log)

	rec := httptest.NewRecorder()
	h.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/scoreboard", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200 with HTTP logging on, got %d", rec.Code)
	}
}

func TestAPI_Sessions(t *testing.T) {
	setup := newTestSetup(t)

	rec := setup.do(t, http.MethodGet, "/api/sessions/current", nil)
	expectError(t, rec, http.StatusNotFound, handlers.ErrCodeNotFound)

	rec = setup.do(t, http.MethodPost, "/api/sessions", map[string]string{"name": "  "})
	expectError(t, rec, http.StatusBadRequest, handlers.ErrCodeValidation)

	rec = setup.do(t, http.MethodPost, "/api/sessions", map[string]string{"name": "Regional"})
	expectStatus(t, rec, http.StatusCreated)
	var session scoring.Session
	decode(t, rec, &session)
	if !session.Open || session.ID == 0 {
		t.Fatalf("unexpected session: %+v", session)
	}

	rec = setup.do(t, http.MethodGet, "/api/sessions/current", nil)
	expectStatus(t, rec, http.StatusOK)

	closePath := fmt.Sprintf("/api/sessions/%d/close", session.ID)
	expectStatus(t, setup.do(t, http.MethodPost, closePath, nil), http.StatusOK)
	rec = setup.do(t, http.MethodPost, closePath, nil)
	if rec.Code < 400 {
		t.Errorf("expected closing a closed session to fail, got %d", rec.Code)
	}

	expectStatus(t, setup.do(t, http.MethodPost, fmt.Sprintf("/api/sessions/%d/reopen", session.ID), nil), http.StatusOK)

	rec = setup.do(t, http.MethodGet, "/api/sessions", nil)
	expectStatus(t, rec, http.StatusOK)
	var sessions []scoring.Session
	decode(t, rec, &sessions)
	if len(sessions) != 1 || !sessions[0].Open {
		t.Errorf("expected one open session, got %+v", sessions)
	}

	rec = setup.do(t, http.MethodPost, "/api/sessions/99/close", nil)
	expectError(t, rec, http.StatusNotFound, handlers.ErrCodeNotFound)
}

func TestAPI_CategoryAndSkaterCRUD(t *testing.T) {
	setup := newTestSetup(t)

	// Categories need an open session
	rec := setup.do(t, http.MethodPost, "/api/categories", handlers.CategoryRequest{Name: "Cadetes", Short: true})
	expectError(t, rec, http.StatusNotFound, handlers.ErrCodeNotFound)

	expectStatus(t, setup.do(t, http.MethodPost, "/api/sessions", map[string]string{"name": "Regional"}), http.StatusCreated)

	rec = setup.do(t, http.MethodPost, "/api/categories", handlers.CategoryRequest{Name: "Cadetes"})
	expectError(t, rec, http.StatusBadRequest, handlers.ErrCodeValidation)

	c := setup.createCategory(t, handlers.CategoryRequest{Name: "Cadetes", Short: true})

	rec = setup.do(t, http.MethodPut, fmt.Sprintf("/api/categories/%d", c.ID),
		handlers.CategoryRequest{Name: "Cadetes A", Short: true, Long: true, Order: 3})
	expectStatus(t, rec, http.StatusOK)
	var updated scoring.Category
	decode(t, rec, &updated)
	if updated.Name != "Cadetes A" || !updated.Long || updated.Order != 3 {
		t.Errorf("unexpected updated category: %+v", updated)
	}

	rec = setup.do(t, http.MethodGet, fmt.Sprintf("/api/categories/%d", c.ID), nil)
	expectStatus(t, rec, http.StatusOK)

	// Skaters
	skatersPath := fmt.Sprintf("/api/categories/%d/skaters", c.ID)
	rec = setup.do(t, http.MethodPost, skatersPath, handlers.SkaterRequest{Name: ""})
	expectError(t, rec, http.StatusBadRequest, handlers.ErrCodeValidation)

	rec = setup.do(t, http.MethodPost, skatersPath, handlers.SkaterRequest{Name: "Dana", Team: "Blues"})
	expectStatus(t, rec, http.StatusCreated)
	var dana scoring.Skater
	decode(t, rec, &dana)
	if dana.Order != 1 || dana.Team != "Blues" {
		t.Errorf("unexpected skater: %+v", dana)
	}

	skaterPath := fmt.Sprintf("/api/skaters/%d", dana.ID)
	rec = setup.do(t, http.MethodPut, skaterPath, handlers.SkaterRequest{Name: "Dana B", Team: "Greens", Order: 1})
	expectStatus(t, rec, http.StatusOK)
	rec = setup.do(t, http.MethodGet, skaterPath, nil)
	expectStatus(t, rec, http.StatusOK)
	decode(t, rec, &dana)
	if dana.Name != "Dana B" || dana.Team != "Greens" {
		t.Errorf("expected the update to stick, got %+v", dana)
	}

	rec = setup.do(t, http.MethodGet, skatersPath, nil)
	expectStatus(t, rec, http.StatusOK)
	var skaters []scoring.Skater
	decode(t, rec, &skaters)
	if len(skaters) != 1 {
		t.Errorf("expected 1 skater, got %d", len(skaters))
	}

	expectStatus(t, setup.do(t, http.MethodDelete, skaterPath, nil), http.StatusNoContent)
	expectError(t, setup.do(t, http.MethodGet, skaterPath, nil), http.StatusNotFound, handlers.ErrCodeNotFound)

	rec = setup.do(t, http.MethodGet, "/api/categories", nil)
	expectStatus(t, rec, http.StatusOK)
	var categories []scoring.Category
	decode(t, rec, &categories)
	if len(categories) != 1 {
		t.Errorf("expected 1 category, got %d", len(categories))
	}

	expectStatus(t, setup.do(t, http.MethodDelete, fmt.Sprintf("/api/categories/%d", c.ID), nil), http.StatusNoContent)
	expectError(t, setup.do(t, http.MethodGet, fmt.Sprintf("/api/categories/%d", c.ID), nil),
		http.StatusNotFound, handlers.ErrCodeNotFound)
}

func TestAPI_SegmentResults_UnknownSegment(t *testing.T) {
	setup := newTestSetup(t)
	expectStatus(t, setup.do(t, http.MethodPost, "/api/sessions", map[string]string{"name": "Regional"}), http.StatusCreated)
	c := setup.createCategory(t, handlers.CategoryRequest{Name: "Cadetes", Short: true})

	rec := setup.do(t, http.MethodGet, fmt.Sprintf("/api/categories/%d/results/free", c.ID), nil)

	expectError(t, rec, http.StatusBadRequest, handlers.ErrCodeValidation)
}

func TestAPI_Settings(t *testing.T) {
	setup := newTestSetup(t)

	rec := setup.do(t, http.MethodGet, "/api/settings", nil)
	expectStatus(t, rec, http.StatusOK)
	var settings handlers.SettingsResponse
	decode(t, rec, &settings)
	if settings.BaseURL != "" || settings.ScoreboardURL != "" {
		t.Errorf("expected no base URL yet, got %+v", settings)
	}
	if settings.LiveScoreURL != setup.client.BaseURL() {
		t.Errorf("expected the client endpoint, got %q", settings.LiveScoreURL)
	}

	// No base URL means no QR code
	rec = setup.do(t, http.MethodGet, "/api/scoreboard/qr", nil)
	expectError(t, rec, http.StatusBadRequest, handlers.ErrCodeValidation)

	rec = setup.do(t, http.MethodPut, "/api/settings", map[string]string{
		"base_url":      "http://rink.local:8080/",
		"livescore_url": "http://board.local/data.php",
	})
	expectStatus(t, rec, http.StatusOK)
	if setup.client.BaseURL() != "http://board.local/data.php" {
		t.Errorf("expected the client to follow the setting, got %q", setup.client.BaseURL())
	}

	rec = setup.do(t, http.MethodGet, "/api/settings", nil)
	expectStatus(t, rec, http.StatusOK)
	decode(t, rec, &settings)
	if settings.ScoreboardURL != "http://rink.local:8080/scoreboard" {
		t.Errorf("unexpected scoreboard URL %q", settings.ScoreboardURL)
	}

	rec = setup.do(t, http.MethodGet, "/api/scoreboard/qr", nil)
	expectStatus(t, rec, http.StatusOK)
	if rec.Header().Get("Content-Type") != "image/png" {
		t.Errorf("expected a PNG, got %s", rec.Header().Get("Content-Type"))
	}
}

func TestAPI_ResetDatabase(t *testing.T) {
	setup := newTestSetup(t)
	expectStatus(t, setup.do(t, http.MethodPost, "/api/sessions", map[string]string{"name": "Regional"}), http.StatusCreated)

	rec := setup.do(t, http.MethodPost, "/api/reset-database", handlers.DatabaseResetRequest{})
	expectError(t, rec, http.StatusBadRequest, handlers.ErrCodeValidation)

	rec = setup.do(t, http.MethodPost, "/api/reset-database", handlers.DatabaseResetRequest{Tables: []string{"judges"}})
	expectError(t, rec, http.StatusBadRequest, handlers.ErrCodeValidation)

	rec = setup.do(t, http.MethodPost, "/api/reset-database", handlers.DatabaseResetRequest{Tables: []string{"sessions"}})
	expectStatus(t, rec, http.StatusOK)
	var resp handlers.DatabaseResetResponse
	decode(t, rec, &resp)
	if resp.Tables[len(resp.Tables)-1] != "sessions" {
		t.Errorf("expected dependents before sessions, got %v", resp.Tables)
	}

	expectError(t, setup.do(t, http.MethodGet, "/api/sessions/current", nil), http.StatusNotFound, handlers.ErrCodeNotFound)
}

func TestAPI_TeamsWithoutSession(t *testing.T) {
	setup := newTestSetup(t)

	rec := setup.do(t, http.MethodGet, "/api/teams", nil)

	expectError(t, rec, http.StatusNotFound, handlers.ErrCodeNotFound)
}
