package services

import (
	"context"
	"time"

	"github.com/abrezinsky/rollart/internal/logger"
	"github.com/abrezinsky/rollart/internal/models"
	"github.com/abrezinsky/rollart/internal/scoring"
	"github.com/abrezinsky/rollart/internal/telemetry"
)

// snapshotRepository is what building a live snapshot reads
type snapshotRepository interface {
	GetCategory(ctx context.Context, id int64) (*scoring.Category, error)
	ListPrograms(ctx context.Context, categoryID int64, segment scoring.Segment) ([]*scoring.Program, error)
	ListSessionSkaters(ctx context.Context, sessionID int64) ([]*scoring.Skater, error)
}

// snapshotter builds and publishes live snapshots. Reading rank and team
// context is best effort: a failure only leaves those fields empty.
type snapshotter struct {
	log  logger.Logger
	repo snapshotRepository
	pub  telemetry.Publisher
}

func (s *snapshotter) publish(ctx context.Context, event string, p *scoring.Program) {
	if s.pub == nil {
		return
	}
	s.pub.Publish(s.build(ctx, event, p))
}

func (s *snapshotter) build(ctx context.Context, event string, p *scoring.Program) models.Snapshot {
	snap := models.Snapshot{
		Event:        event,
		ProgramID:    p.ID,
		Segment:      string(p.Segment),
		SkaterName:   p.SkaterName,
		Team:         p.Team,
		Status:       string(p.Status),
		At:           time.Now().UTC(),
		RunningScore: p.TechnicalScore,
		Technical:    p.TechnicalScore,
		Components:   p.ComponentsScore,
		Deductions:   p.Penalization,
		SegmentScore: p.Score,
		TotalScore:   p.TotalScore,
	}
	if el := p.LastElement; el != nil {
		snap.LastElement = el.DisplayCode()
		snap.LastElementValue = el.BaseValue
	}
	if p.CategoryID == 0 {
		return snap
	}

	c, err := s.repo.GetCategory(ctx, p.CategoryID)
	if err != nil {
		s.log.Warn("Snapshot without category context", "program_id", p.ID, "error", err)
		return snap
	}
	snap.Category = c.Name

	if event != models.EventProgramOpened {
		programs, err := s.repo.ListPrograms(ctx, c.ID, p.Segment)
		if err != nil {
			s.log.Warn("Snapshot without rank", "program_id", p.ID, "error", err)
		} else {
			others := make([]*scoring.Program, 0, len(programs))
			for _, other := range programs {
				if other.ID != p.ID {
					others = append(others, other)
				}
			}
			snap.Rank = scoring.RankOf(c, p.Segment, others, scoring.DisplayedScore(c, p.Segment, p))
		}
	}

	skaters, err := s.repo.ListSessionSkaters(ctx, c.SessionID)
	if err != nil {
		s.log.Warn("Snapshot without team totals", "program_id", p.ID, "error", err)
		return snap
	}
	snap.TeamTotals = liveTeamTotals(skaters, p)
	return snap
}

// liveTeamTotals sums team totals with the program on the ice counted at
// its running total.
func liveTeamTotals(skaters []*scoring.Skater, p *scoring.Program) map[string]float64 {
	live := make([]*scoring.Skater, 0, len(skaters))
	for _, sk := range skaters {
		if sk.ID == p.SkaterID {
			cp := *sk
			cp.TotalScore = p.TotalScore
			sk = &cp
		}
		live = append(live, sk)
	}
	standings := scoring.TeamStandings(live)
	if len(standings) == 0 {
		return nil
	}
	totals := make(map[string]float64, len(standings))
	for _, ts := range standings {
		totals[ts.Team] = ts.Score
	}
	return totals
}
