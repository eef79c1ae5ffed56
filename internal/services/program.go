package services

import (
	"context"
	"strings"

	"github.com/abrezinsky/rollart/internal/errors"
	"github.com/abrezinsky/rollart/internal/logger"
	"github.com/abrezinsky/rollart/internal/models"
	"github.com/abrezinsky/rollart/internal/repository"
	"github.com/abrezinsky/rollart/internal/scoring"
	"github.com/abrezinsky/rollart/internal/telemetry"
)

// ProgramServiceRepository defines the repository methods needed by ProgramService
type ProgramServiceRepository interface {
	repository.CategoryRepository
	repository.SkaterRepository
	repository.ProgramRepository
}

// ProgramService records a program as the technical panel calls it. Every
// command loads the program, applies one mutation, stores it and publishes
// a snapshot.
type ProgramService struct {
	log  logger.Logger
	repo ProgramServiceRepository
	cat  scoring.Catalog
	snap *snapshotter
}

// NewProgramService creates a new ProgramService
func NewProgramService(log logger.Logger, repo ProgramServiceRepository, cat scoring.Catalog, pub telemetry.Publisher) *ProgramService {
	return &ProgramService{
		log:  log,
		repo: repo,
		cat:  cat,
		snap: &snapshotter{log: log, repo: repo, pub: pub},
	}
}

// Settlement is the outcome of confirming or skipping a program. Next is
// the category's new current skater, nil when the segment is over or the
// program is a solo one.
type Settlement struct {
	Program  *scoring.Program  `json:"program"`
	Skater   *scoring.Skater   `json:"skater,omitempty"`
	Category *scoring.Category `json:"category,omitempty"`
	Next     *scoring.Skater   `json:"next_skater,omitempty"`
}

// GetProgram retrieves a program with its boxes
func (s *ProgramService) GetProgram(ctx context.Context, id int64) (*scoring.Program, error) {
	return s.load(ctx, id)
}

// StartSolo creates a program outside any session
func (s *ProgramService) StartSolo(ctx context.Context, skaterName, programName string) (*scoring.Program, error) {
	skaterName = strings.TrimSpace(skaterName)
	programName = strings.TrimSpace(programName)
	if skaterName == "" {
		return nil, errors.Validation("skater name is required")
	}
	if programName == "" {
		return nil, errors.Validation("program name is required")
	}

	p := scoring.NewProgram(skaterName, scoring.Segment(programName))
	p.Calculate(s.cat)
	if err := s.repo.SaveProgram(ctx, p); err != nil {
		return nil, storageError(err, "program")
	}
	s.log.Info("Solo program created", "program_id", p.ID, "skater", skaterName, "program", programName)
	s.snap.publish(ctx, models.EventProgramOpened, p)
	return p, nil
}

// Start begins recording
func (s *ProgramService) Start(ctx context.Context, id int64) (*scoring.Program, error) {
	return s.mutate(ctx, id, models.EventScore, func(p *scoring.Program) error {
		return p.Start()
	})
}

// Stop ends recording
func (s *ProgramService) Stop(ctx context.Context, id int64) (*scoring.Program, error) {
	return s.mutate(ctx, id, models.EventScore, func(p *scoring.Program) error {
		return p.Stop()
	})
}

// SetBoxType declares the call of the trailing box
func (s *ProgramService) SetBoxType(ctx context.Context, id int64, boxType string) (*scoring.Program, error) {
	t, err := scoring.ParseBoxType(boxType)
	if err != nil {
		return nil, err
	}
	return s.mutate(ctx, id, models.EventScore, func(p *scoring.Program) error {
		_, err := p.SetBoxType(t)
		return err
	})
}

// EnterElement records an element into the trailing box
func (s *ProgramService) EnterElement(ctx context.Context, id int64, boxType string, in scoring.ElementInput) (*scoring.Program, error) {
	t, err := scoring.ParseBoxType(boxType)
	if err != nil {
		return nil, err
	}
	return s.mutate(ctx, id, models.EventElement, func(p *scoring.Program) error {
		el, err := p.EnterElement(s.cat, t, in)
		if err == nil {
			s.log.Debug("Element entered", "program_id", id, "code", el.DisplayCode(), "base_value", el.BaseValue)
		}
		return err
	})
}

// EditBox re-declares a box with a complete element list
func (s *ProgramService) EditBox(ctx context.Context, id int64, order int, boxType string, inputs []scoring.ElementInput) (*scoring.Program, error) {
	t, err := scoring.ParseBoxType(boxType)
	if err != nil {
		return nil, err
	}
	return s.mutate(ctx, id, models.EventScore, func(p *scoring.Program) error {
		_, err := p.EditBox(s.cat, order, t, inputs)
		return err
	})
}

// RemoveBox removes the empty trailing box
func (s *ProgramService) RemoveBox(ctx context.Context, id int64, order int) (*scoring.Program, error) {
	return s.mutate(ctx, id, models.EventScore, func(p *scoring.Program) error {
		return p.RemoveBox(order)
	})
}

// SetGrade sets an element's grade of execution
func (s *ProgramService) SetGrade(ctx context.Context, id int64, order, index, grade int) (*scoring.Program, error) {
	return s.mutate(ctx, id, models.EventScore, func(p *scoring.Program) error {
		_, err := p.SetGrade(s.cat, order, index, grade)
		return err
	})
}

// SetStar marks an element as not credited or credits it again
func (s *ProgramService) SetStar(ctx context.Context, id int64, order, index int, star bool) (*scoring.Program, error) {
	return s.mutate(ctx, id, models.EventScore, func(p *scoring.Program) error {
		_, err := p.SetStar(s.cat, order, index, star)
		return err
	})
}

// SetTime flags an element for a timing issue
func (s *ProgramService) SetTime(ctx context.Context, id int64, order, index int, time bool) (*scoring.Program, error) {
	return s.mutate(ctx, id, models.EventScore, func(p *scoring.Program) error {
		_, err := p.SetTime(order, index, time)
		return err
	})
}

// ElementUpdate holds the grade, star and time changes for one element.
// Nil fields are left alone.
type ElementUpdate struct {
	Grade *int
	Star  *bool
	Time  *bool
}

// UpdateElement applies grade, star and time changes to one element as a
// single command
func (s *ProgramService) UpdateElement(ctx context.Context, id int64, order, index int, u ElementUpdate) (*scoring.Program, error) {
	if u.Grade == nil && u.Star == nil && u.Time == nil {
		return nil, errors.Validation("nothing to update")
	}
	return s.mutate(ctx, id, models.EventScore, func(p *scoring.Program) error {
		if u.Grade != nil {
			if _, err := p.SetGrade(s.cat, order, index, *u.Grade); err != nil {
				return err
			}
		}
		if u.Star != nil {
			if _, err := p.SetStar(s.cat, order, index, *u.Star); err != nil {
				return err
			}
		}
		if u.Time != nil {
			if _, err := p.SetTime(order, index, *u.Time); err != nil {
				return err
			}
		}
		return nil
	})
}

// SetComponent sets one component mark
func (s *ProgramService) SetComponent(ctx context.Context, id int64, name string, value float64) (*scoring.Program, error) {
	return s.mutate(ctx, id, models.EventScore, func(p *scoring.Program) error {
		return p.SetComponent(s.cat, name, value)
	})
}

// Fall records a fall
func (s *ProgramService) Fall(ctx context.Context, id int64) (*scoring.Program, error) {
	return s.mutate(ctx, id, models.EventScore, func(p *scoring.Program) error {
		p.Fall(s.cat)
		return nil
	})
}

// Deduct adds an extra deduction
func (s *ProgramService) Deduct(ctx context.Context, id int64, points float64) (*scoring.Program, error) {
	return s.mutate(ctx, id, models.EventScore, func(p *scoring.Program) error {
		return p.Deduct(s.cat, points)
	})
}

// Confirm accepts a stopped program with all component marks and records
// its score for the skater
func (s *ProgramService) Confirm(ctx context.Context, id int64) (*Settlement, error) {
	return s.settle(ctx, id, "confirmed", (*scoring.Program).CanConfirm)
}

// Skip records a stopped program as it stands and moves on
func (s *ProgramService) Skip(ctx context.Context, id int64) (*Settlement, error) {
	return s.settle(ctx, id, "skipped", (*scoring.Program).CanSkip)
}

func (s *ProgramService) settle(ctx context.Context, id int64, action string, check func(*scoring.Program) error) (*Settlement, error) {
	p, err := s.loadUnsettled(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := check(p); err != nil {
		return nil, err
	}
	out := &Settlement{Program: p}

	if p.CategoryID != 0 && p.SkaterID != 0 {
		c, err := s.repo.GetCategory(ctx, p.CategoryID)
		if err != nil {
			return nil, storageError(err, "category")
		}
		skaters, err := s.repo.ListSkaters(ctx, c.ID)
		if err != nil {
			return nil, storageError(err, "skaters")
		}
		var skater *scoring.Skater
		for _, sk := range skaters {
			if sk.ID == p.SkaterID {
				skater = sk
				break
			}
		}
		if skater == nil {
			return nil, errors.NotFoundf("skater %d not found", p.SkaterID)
		}

		out.Next = c.Settle(skaters, skater, p)
		out.Skater = skater
		out.Category = c
		if err := s.repo.SettleSkater(ctx, skater, c.Status); err != nil {
			return nil, storageError(err, "skater")
		}
	}

	s.log.Info("Program "+action, "program_id", p.ID, "skater", p.SkaterName, "segment", p.Segment, "score", p.Score, "total", p.TotalScore)
	s.snap.publish(ctx, models.EventConfirmed, p)
	return out, nil
}

// mutate applies one command to a stored program. A rejected command
// leaves the stored program untouched.
func (s *ProgramService) mutate(ctx context.Context, id int64, event string, fn func(p *scoring.Program) error) (*scoring.Program, error) {
	p, err := s.loadUnsettled(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := fn(p); err != nil {
		return nil, err
	}
	p.Calculate(s.cat)
	if err := s.repo.SaveProgram(ctx, p); err != nil {
		return nil, storageError(err, "program")
	}
	s.snap.publish(ctx, event, p)
	return p, nil
}

// load reads a program and restores its recorded opposite segment score
func (s *ProgramService) load(ctx context.Context, id int64) (*scoring.Program, error) {
	p, _, err := s.loadWithSkater(ctx, id)
	return p, err
}

// loadUnsettled is load for commands that change a program. A category
// program whose skater has already ended that segment is closed: its score
// is part of the skater's total.
func (s *ProgramService) loadUnsettled(ctx context.Context, id int64) (*scoring.Program, error) {
	p, skater, err := s.loadWithSkater(ctx, id)
	if err != nil {
		return nil, err
	}
	if skater != nil && skater.Ended(p.Segment) {
		return nil, errors.Validationf("%s program of %s is already settled", p.Segment, skater.Name)
	}
	return p, nil
}

func (s *ProgramService) loadWithSkater(ctx context.Context, id int64) (*scoring.Program, *scoring.Skater, error) {
	p, err := s.repo.GetProgram(ctx, id)
	if err != nil {
		return nil, nil, storageError(err, "program")
	}
	if p.CategoryID == 0 || p.SkaterID == 0 {
		return p, nil, nil
	}
	c, err := s.repo.GetCategory(ctx, p.CategoryID)
	if err != nil {
		return nil, nil, storageError(err, "category")
	}
	skater, err := s.repo.GetSkater(ctx, p.SkaterID)
	if err != nil {
		return nil, nil, storageError(err, "skater")
	}
	p.PriorScore = skater.PriorScore(c, p.Segment)
	p.Calculate(s.cat)
	return p, skater, nil
}
