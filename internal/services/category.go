package services

import (
	"context"
	stderrors "errors"
	"strings"

	"github.com/abrezinsky/rollart/internal/errors"
	"github.com/abrezinsky/rollart/internal/logger"
	"github.com/abrezinsky/rollart/internal/models"
	"github.com/abrezinsky/rollart/internal/repository"
	"github.com/abrezinsky/rollart/internal/scoring"
	"github.com/abrezinsky/rollart/internal/telemetry"
)

// CategoryServiceRepository defines the repository methods needed by CategoryService
type CategoryServiceRepository interface {
	repository.SessionRepository
	repository.CategoryRepository
	repository.SkaterRepository
	repository.ProgramRepository
}

// CategoryService handles categories and their progression through segments
type CategoryService struct {
	log  logger.Logger
	repo CategoryServiceRepository
	cat  scoring.Catalog
	snap *snapshotter
}

// NewCategoryService creates a new CategoryService
func NewCategoryService(log logger.Logger, repo CategoryServiceRepository, cat scoring.Catalog, pub telemetry.Publisher) *CategoryService {
	return &CategoryService{
		log:  log,
		repo: repo,
		cat:  cat,
		snap: &snapshotter{log: log, repo: repo, pub: pub},
	}
}

// Category represents a category for create/update operations
type Category struct {
	Name  string
	Short bool
	Long  bool
	Order int
}

// CategoryBoard is a category with what the operator can do with it
type CategoryBoard struct {
	Category *scoring.Category `json:"category"`
	Actions  scoring.Actions   `json:"actions"`
	Skaters  int               `json:"skaters"`
	Current  *scoring.Skater   `json:"current_skater,omitempty"`
}

// ResumeResult is where a category stands after resuming it. Program is
// nil once the category has ended.
type ResumeResult struct {
	Category *scoring.Category `json:"category"`
	Skater   *scoring.Skater   `json:"skater,omitempty"`
	Program  *scoring.Program  `json:"program,omitempty"`
	Ended    bool              `json:"ended"`
}

func (in Category) validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return errors.Validation("category name is required")
	}
	if !in.Short && !in.Long {
		return ErrNoSegments
	}
	return nil
}

// CreateCategory adds a category to the open session
func (s *CategoryService) CreateCategory(ctx context.Context, in Category) (*scoring.Category, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	session, err := currentSession(ctx, s.repo)
	if err != nil {
		return nil, err
	}

	order := in.Order
	if order <= 0 {
		existing, err := s.repo.ListCategories(ctx, session.ID)
		if err != nil {
			return nil, storageError(err, "categories")
		}
		order = len(existing) + 1
	}

	c := &scoring.Category{
		SessionID: session.ID,
		Name:      strings.TrimSpace(in.Name),
		Short:     in.Short,
		Long:      in.Long,
		Status:    scoring.CategoryUnstarted,
		Order:     order,
	}
	if _, err := s.repo.CreateCategory(ctx, c); err != nil {
		return nil, storageError(err, "category")
	}
	s.log.Info("Category created", "category_id", c.ID, "name", c.Name, "short", c.Short, "long", c.Long)
	return c, nil
}

// UpdateCategory renames or reorders a category. Segments can only change
// before the category starts.
func (s *CategoryService) UpdateCategory(ctx context.Context, id int64, in Category) (*scoring.Category, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	c, err := s.repo.GetCategory(ctx, id)
	if err != nil {
		return nil, storageError(err, "category")
	}
	if (in.Short != c.Short || in.Long != c.Long) && c.Status != scoring.CategoryUnstarted {
		return nil, errors.Statef("segments of category %s cannot change once started", c.Name)
	}

	c.Name = strings.TrimSpace(in.Name)
	c.Short = in.Short
	c.Long = in.Long
	if in.Order > 0 {
		c.Order = in.Order
	}
	if err := s.repo.UpdateCategory(ctx, c); err != nil {
		return nil, storageError(err, "category")
	}
	return c, nil
}

// DeleteCategory removes a category with its skaters
func (s *CategoryService) DeleteCategory(ctx context.Context, id int64) error {
	if err := s.repo.DeleteCategory(ctx, id); err != nil {
		return storageError(err, "category")
	}
	s.log.Info("Category deleted", "category_id", id)
	return nil
}

// GetCategory retrieves a category by id
func (s *CategoryService) GetCategory(ctx context.Context, id int64) (*scoring.Category, error) {
	c, err := s.repo.GetCategory(ctx, id)
	if err != nil {
		return nil, storageError(err, "category")
	}
	return c, nil
}

// ListCategories returns the categories of the open session in order
func (s *CategoryService) ListCategories(ctx context.Context) ([]*scoring.Category, error) {
	session, err := currentSession(ctx, s.repo)
	if err != nil {
		return nil, err
	}
	categories, err := s.repo.ListCategories(ctx, session.ID)
	if err != nil {
		return nil, storageError(err, "categories")
	}
	return categories, nil
}

// Board returns every category of the open session with its actions,
// skater count and current skater
func (s *CategoryService) Board(ctx context.Context) ([]CategoryBoard, error) {
	categories, err := s.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	board := make([]CategoryBoard, 0, len(categories))
	for _, c := range categories {
		skaters, err := s.repo.ListSkaters(ctx, c.ID)
		if err != nil {
			return nil, storageError(err, "skaters")
		}
		board = append(board, CategoryBoard{
			Category: c,
			Actions:  c.Actions(),
			Skaters:  len(skaters),
			Current:  c.CurrentSkater(skaters),
		})
	}
	return board, nil
}

// Resume advances a category to its current skater and opens that
// skater's program, reusing the stored one after a restart.
func (s *CategoryService) Resume(ctx context.Context, id int64) (*ResumeResult, error) {
	c, err := s.repo.GetCategory(ctx, id)
	if err != nil {
		return nil, storageError(err, "category")
	}
	return s.resume(ctx, c)
}

// StartSegment moves a category into a segment and resumes it
func (s *CategoryService) StartSegment(ctx context.Context, id int64, segment string) (*ResumeResult, error) {
	seg, err := scoring.ParseSegment(segment)
	if err != nil {
		return nil, err
	}
	c, err := s.repo.GetCategory(ctx, id)
	if err != nil {
		return nil, storageError(err, "category")
	}
	before := c.Status
	if err := c.StartSegment(seg); err != nil {
		return nil, err
	}
	if c.Status != before {
		if err := s.repo.SetCategoryStatus(ctx, c.ID, c.Status); err != nil {
			return nil, storageError(err, "category")
		}
		s.log.Info("Segment started", "category_id", c.ID, "segment", seg)
	}
	return s.resume(ctx, c)
}

func (s *CategoryService) resume(ctx context.Context, c *scoring.Category) (*ResumeResult, error) {
	skaters, err := s.repo.ListSkaters(ctx, c.ID)
	if err != nil {
		return nil, storageError(err, "skaters")
	}

	before := c.Status
	skater := c.Resume(skaters)
	if c.Status != before {
		if err := s.repo.SetCategoryStatus(ctx, c.ID, c.Status); err != nil {
			return nil, storageError(err, "category")
		}
		s.log.Info("Category advanced", "category_id", c.ID, "from", before, "to", c.Status)
	}
	if skater == nil {
		return &ResumeResult{Category: c, Ended: true}, nil
	}

	seg, _ := c.ActiveSegment()
	p, err := s.openProgram(ctx, c, skater, seg)
	if err != nil {
		return nil, err
	}
	s.snap.publish(ctx, models.EventProgramOpened, p)
	return &ResumeResult{Category: c, Skater: skater, Program: p}, nil
}

// openProgram returns the skater's stored program for the segment or
// creates it
func (s *CategoryService) openProgram(ctx context.Context, c *scoring.Category, skater *scoring.Skater, seg scoring.Segment) (*scoring.Program, error) {
	p, err := s.repo.FindProgram(ctx, skater.ID, seg)
	if err == nil {
		s.log.Debug("Program reopened", "program_id", p.ID, "skater", skater.Name, "segment", seg)
		return p, nil
	}
	if !stderrors.Is(err, repository.ErrNotFound) {
		return nil, storageError(err, "program")
	}

	p = scoring.NewProgram(skater.Name, seg)
	p.CategoryID = c.ID
	p.SkaterID = skater.ID
	p.Team = skater.TeamName()
	p.PriorScore = skater.PriorScore(c, seg)
	p.Calculate(s.cat)
	if err := s.repo.SaveProgram(ctx, p); err != nil {
		return nil, storageError(err, "program")
	}
	s.log.Info("Program opened", "program_id", p.ID, "skater", skater.Name, "category", c.Name, "segment", seg)
	return p, nil
}
