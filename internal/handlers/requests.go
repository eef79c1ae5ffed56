package handlers

import "github.com/abrezinsky/rollart/internal/scoring"

// LoginRequest carries the operator password
type LoginRequest struct {
	Password string `json:"password"`
}

// SessionOpenRequest represents a request to open a competition session
type SessionOpenRequest struct {
	Name string `json:"name"`
}

// CategoryRequest represents a request to create or update a category
type CategoryRequest struct {
	Name  string `json:"name"`
	Short bool   `json:"short"`
	Long  bool   `json:"long"`
	Order int    `json:"order"`
}

// SkaterRequest represents a request to create or update a skater
type SkaterRequest struct {
	Name  string `json:"name"`
	Team  string `json:"team"`
	Order int    `json:"order"`
}

// SoloProgramRequest starts a program outside any session
type SoloProgramRequest struct {
	SkaterName  string `json:"skater_name"`
	ProgramName string `json:"program_name"`
}

// BoxTypeRequest chooses the type of the open box
type BoxTypeRequest struct {
	Type string `json:"type"`
}

// ElementRequest enters one element into the box of the given type
type ElementRequest struct {
	BoxType string `json:"box_type"`
	scoring.ElementInput
}

// BoxEditRequest replaces the contents of an existing box
type BoxEditRequest struct {
	Type     string                 `json:"type"`
	Elements []scoring.ElementInput `json:"elements"`
}

// ElementUpdateRequest adjusts an entered element. Nil fields are left
// unchanged.
type ElementUpdateRequest struct {
	Grade *int  `json:"grade"`
	Star  *bool `json:"star"`
	Time  *bool `json:"time"`
}

// ComponentRequest sets one component mark
type ComponentRequest struct {
	Value float64 `json:"value"`
}

// DeductionRequest applies a penalty deduction
type DeductionRequest struct {
	Points float64 `json:"points"`
}

// SettingsUpdateRequest represents a request to update settings. Nil fields
// are left unchanged.
type SettingsUpdateRequest struct {
	BaseURL      *string `json:"base_url"`
	LiveScoreURL *string `json:"livescore_url"`
}

// DatabaseResetRequest represents a request to reset database tables
type DatabaseResetRequest struct {
	Tables []string `json:"tables"`
}
