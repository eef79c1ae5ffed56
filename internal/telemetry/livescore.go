package telemetry

import (
	"context"

	"github.com/abrezinsky/rollart/internal/models"
	"github.com/abrezinsky/rollart/pkg/livescore"
)

// LiveScoreSink pushes snapshots to the scoreboard web endpoint
type LiveScoreSink struct {
	client livescore.Client
}

// NewLiveScoreSink creates a sink over a scoreboard client
func NewLiveScoreSink(client livescore.Client) *LiveScoreSink {
	return &LiveScoreSink{client: client}
}

// Name identifies the sink in logs
func (s *LiveScoreSink) Name() string {
	return "livescore"
}

// Send maps the snapshot onto the scoreboard call for its event. It is a
// no-op while no endpoint is configured.
func (s *LiveScoreSink) Send(ctx context.Context, snap models.Snapshot) error {
	if s.client.BaseURL() == "" {
		return nil
	}
	switch snap.Event {
	case models.EventProgramOpened:
		return s.client.Announce(ctx, livescore.Announcement{SkaterName: snap.SkaterName, Team: snap.Team})
	case models.EventElement:
		return s.client.PushElement(ctx, livescore.ElementUpdate{
			Code:         snap.LastElement,
			BaseValue:    snap.LastElementValue,
			RunningScore: snap.RunningScore,
		})
	default:
		return s.client.PushScore(ctx, livescore.ScoreUpdate{
			RunningScore: snap.RunningScore,
			Technical:    snap.Technical,
			Components:   snap.Components,
			Deductions:   snap.Deductions,
			SegmentScore: snap.SegmentScore,
			TotalScore:   snap.TotalScore,
			Rank:         snap.Rank,
			Team:         snap.Team,
			TeamScore:    snap.TeamScore(),
		})
	}
}
