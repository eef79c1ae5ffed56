package services

import (
	"context"

	"github.com/abrezinsky/rollart/internal/logger"
	"github.com/abrezinsky/rollart/internal/repository"
	"github.com/abrezinsky/rollart/internal/scoring"
)

// ResultsServiceRepository defines the repository methods needed by ResultsService
type ResultsServiceRepository interface {
	repository.SessionRepository
	repository.CategoryRepository
	repository.SkaterRepository
	repository.ProgramRepository
}

// ResultsService builds segment result views and team standings
type ResultsService struct {
	log  logger.Logger
	repo ResultsServiceRepository
}

// NewResultsService creates a new ResultsService
func NewResultsService(log logger.Logger, repo ResultsServiceRepository) *ResultsService {
	return &ResultsService{log: log, repo: repo}
}

// SegmentResults is the ranked view of one category segment
type SegmentResults struct {
	Category *scoring.Category `json:"category"`
	Segment  scoring.Segment   `json:"segment"`
	// RankedByTotal is set for the long segment of a long-only category
	RankedByTotal bool `json:"ranked_by_total"`
	// ShowsTotal adds the total column to a long segment after a short one
	ShowsTotal bool               `json:"shows_total"`
	Final      bool               `json:"final"`
	Standings  []scoring.Standing `json:"standings"`
}

// SegmentResults ranks the programs of a category segment
func (s *ResultsService) SegmentResults(ctx context.Context, categoryID int64, segment string) (*SegmentResults, error) {
	seg, err := scoring.ParseSegment(segment)
	if err != nil {
		return nil, err
	}
	c, err := s.repo.GetCategory(ctx, categoryID)
	if err != nil {
		return nil, storageError(err, "category")
	}
	programs, err := s.repo.ListPrograms(ctx, c.ID, seg)
	if err != nil {
		return nil, storageError(err, "programs")
	}

	actions := c.Actions()
	final := actions.CanShowLongResults
	if seg.IsShort() {
		final = actions.CanShowShortResults
	}

	return &SegmentResults{
		Category:      c,
		Segment:       seg,
		RankedByTotal: scoring.DisplaysTotal(c, seg),
		ShowsTotal:    scoring.ShowsTotalColumn(c, seg),
		Final:         final,
		Standings:     scoring.Rank(c, seg, programs),
	}, nil
}

// TeamStandings sums skater totals per team across the open session
func (s *ResultsService) TeamStandings(ctx context.Context) ([]scoring.TeamScore, error) {
	session, err := currentSession(ctx, s.repo)
	if err != nil {
		return nil, err
	}
	skaters, err := s.repo.ListSessionSkaters(ctx, session.ID)
	if err != nil {
		return nil, storageError(err, "skaters")
	}
	standings := scoring.TeamStandings(skaters)
	if standings == nil {
		standings = []scoring.TeamScore{}
	}
	return standings, nil
}
