package handlers

import (
	"io/fs"
	"net/http"

	"github.com/abrezinsky/rollart/internal/services"
)

// ==================== Settings ====================

func (h *Handlers) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	all, err := h.Settings.AllSettings(ctx)
	if err != nil {
		respondError(w, err)
		return
	}

	resp := SettingsResponse{}
	resp.BaseURL, _ = all[services.SettingBaseURL].(string)
	resp.LiveScoreURL, _ = all[services.SettingLiveScoreURL].(string)
	if resp.BaseURL != "" {
		resp.ScoreboardURL, _ = h.Settings.ScoreboardURL(ctx)
	}
	if h.Hub != nil {
		resp.Viewers = h.Hub.ClientCount()
	}
	respondOK(w, resp)
}

func (h *Handlers) handleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req SettingsUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	err := h.Settings.UpdateSettings(r.Context(), services.Settings{
		BaseURL:      req.BaseURL,
		LiveScoreURL: req.LiveScoreURL,
	})
	if err != nil {
		respondError(w, err)
		return
	}
	respondSuccess(w, "Settings updated")
}

func (h *Handlers) handleScoreboardQR(w http.ResponseWriter, r *http.Request) {
	png, err := h.Settings.ScoreboardQR(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-cache")
	w.Write(png)
}

func (h *Handlers) handleResetDatabase(w http.ResponseWriter, r *http.Request) {
	var req DatabaseResetRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	result, err := h.Settings.ResetTables(r.Context(), req.Tables)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, DatabaseResetResponse{Message: result.Message, Tables: result.Tables})
}

// ==================== Scoreboard ====================

func (h *Handlers) handleScoreboardPage(w http.ResponseWriter, r *http.Request) {
	page, err := fs.ReadFile(h.staticFS, "scoreboard.html")
	if err != nil {
		respondError(w, NotFound("Scoreboard page not found"))
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(page)
}
