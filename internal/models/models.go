package models

import "time"

// Snapshot event kinds
const (
	EventProgramOpened = "program_opened"
	EventElement       = "element"
	EventScore         = "score"
	EventConfirmed     = "confirmed"
)

// Snapshot is the live view of the program on the ice, published after
// every element entry and every score recompute.
type Snapshot struct {
	Event      string    `json:"event"`
	ProgramID  int64     `json:"program_id"`
	Category   string    `json:"category,omitempty"`
	Segment    string    `json:"segment"`
	SkaterName string    `json:"skater_name"`
	Team       string    `json:"team,omitempty"`
	Status     string    `json:"status"`
	At         time.Time `json:"at"`

	// Last called element, code plus a non-base value label
	LastElement      string  `json:"last_element,omitempty"`
	LastElementValue float64 `json:"last_element_value,omitempty"`

	RunningScore float64 `json:"running_score"`
	Technical    float64 `json:"technical_score"`
	Components   float64 `json:"components_score"`
	Deductions   float64 `json:"deductions"`
	SegmentScore float64 `json:"segment_score"`
	TotalScore   float64 `json:"total_score"`
	Rank         int     `json:"rank"`

	// TeamTotals maps team names to their cumulative totals
	TeamTotals map[string]float64 `json:"team_totals,omitempty"`
}

// TeamScore returns the running total of the skater's own team
func (s Snapshot) TeamScore() float64 {
	return s.TeamTotals[s.Team]
}

// WSMessage represents a WebSocket message
type WSMessage struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}
