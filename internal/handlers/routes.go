package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// conditionalHTTPLogger only logs HTTP requests when HTTP logging is enabled
func (h *Handlers) conditionalHTTPLogger(next http.Handler) http.Handler {
	logger := middleware.Logger(next)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.Log != nil && h.Log.IsHTTPLoggingEnabled() {
			logger.ServeHTTP(w, r)
		} else {
			next.ServeHTTP(w, r)
		}
	})
}

// Router returns a configured chi router with all routes
func (h *Handlers) Router() chi.Router {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(h.conditionalHTTPLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RedirectSlashes)
	r.Use(middleware.Timeout(60 * time.Second))

	// Scoreboard (public)
	if h.staticServer != nil {
		r.Handle("/static/*", http.StripPrefix("/static/", h.staticServer))
		r.Get("/scoreboard", h.handleScoreboardPage)
	}
	if h.Hub != nil {
		r.Get("/ws", h.Hub.ServeWs)
	}

	// Auth routes (public)
	r.Post("/api/login", h.handleLogin)
	r.Post("/api/logout", h.handleLogout)

	// Operator API (protected)
	r.Group(func(r chi.Router) {
		r.Use(h.Auth.RequireAuthAPI)

		// Sessions
		r.Get("/api/sessions", h.handleListSessions)
		r.Post("/api/sessions", h.handleOpenSession)
		r.Get("/api/sessions/current", h.handleCurrentSession)
		r.Post("/api/sessions/{id}/close", h.handleCloseSession)
		r.Post("/api/sessions/{id}/reopen", h.handleReopenSession)

		// Categories
		r.Get("/api/categories", h.handleListCategories)
		r.Post("/api/categories", h.handleCreateCategory)
		r.Get("/api/categories/board", h.handleCategoryBoard)
		r.Get("/api/categories/{id}", h.handleGetCategory)
		r.Put("/api/categories/{id}", h.handleUpdateCategory)
		r.Delete("/api/categories/{id}", h.handleDeleteCategory)
		r.Post("/api/categories/{id}/resume", h.handleResumeCategory)
		r.Post("/api/categories/{id}/segments/{segment}/start", h.handleStartSegment)
		r.Get("/api/categories/{id}/results/{segment}", h.handleSegmentResults)

		// Skaters
		r.Get("/api/categories/{id}/skaters", h.handleListSkaters)
		r.Post("/api/categories/{id}/skaters", h.handleCreateSkater)
		r.Get("/api/skaters/{id}", h.handleGetSkater)
		r.Put("/api/skaters/{id}", h.handleUpdateSkater)
		r.Delete("/api/skaters/{id}", h.handleDeleteSkater)

		// Programs
		r.Post("/api/programs/solo", h.handleStartSolo)
		r.Get("/api/programs/{id}", h.handleGetProgram)
		r.Post("/api/programs/{id}/start", h.handleStartProgram)
		r.Post("/api/programs/{id}/stop", h.handleStopProgram)
		r.Put("/api/programs/{id}/box-type", h.handleSetBoxType)
		r.Post("/api/programs/{id}/elements", h.handleEnterElement)
		r.Put("/api/programs/{id}/boxes/{order}", h.handleEditBox)
		r.Delete("/api/programs/{id}/boxes/{order}", h.handleRemoveBox)
		r.Put("/api/programs/{id}/boxes/{order}/elements/{index}", h.handleUpdateElement)
		r.Put("/api/programs/{id}/components/{name}", h.handleSetComponent)
		r.Post("/api/programs/{id}/falls", h.handleFall)
		r.Post("/api/programs/{id}/deductions", h.handleDeduct)
		r.Post("/api/programs/{id}/confirm", h.handleConfirmProgram)
		r.Post("/api/programs/{id}/skip", h.handleSkipProgram)

		// Teams
		r.Get("/api/teams", h.handleTeamStandings)

		// Settings
		r.Get("/api/settings", h.handleGetSettings)
		r.Put("/api/settings", h.handleUpdateSettings)
		r.Get("/api/scoreboard/qr", h.handleScoreboardQR)

		// Database Management
		r.Post("/api/reset-database", h.handleResetDatabase)
	})

	return r
}
