package handlers

import "github.com/abrezinsky/rollart/internal/scoring"

// SettingsResponse is the response for settings retrieval
type SettingsResponse struct {
	BaseURL       string `json:"base_url"`
	LiveScoreURL  string `json:"livescore_url"`
	ScoreboardURL string `json:"scoreboard_url,omitempty"`
	Viewers       int    `json:"viewers"`
}

// TeamsResponse is the session-wide team ranking
type TeamsResponse struct {
	Teams []scoring.TeamScore `json:"teams"`
}

// DatabaseResetResponse is the response for database reset
type DatabaseResetResponse struct {
	Message string   `json:"message"`
	Tables  []string `json:"tables"`
}
