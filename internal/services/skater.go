package services

import (
	"context"
	"strings"

	"github.com/abrezinsky/rollart/internal/errors"
	"github.com/abrezinsky/rollart/internal/logger"
	"github.com/abrezinsky/rollart/internal/repository"
	"github.com/abrezinsky/rollart/internal/scoring"
)

// SkaterServiceRepository defines the repository methods needed by SkaterService
type SkaterServiceRepository interface {
	repository.CategoryRepository
	repository.SkaterRepository
}

// SkaterService handles skater-related business logic
type SkaterService struct {
	log  logger.Logger
	repo SkaterServiceRepository
}

// NewSkaterService creates a new SkaterService
func NewSkaterService(log logger.Logger, repo SkaterServiceRepository) *SkaterService {
	return &SkaterService{log: log, repo: repo}
}

// Skater represents a skater for create/update operations
type Skater struct {
	Name  string
	Team  string
	Order int
}

// CreateSkater adds a skater to a category, last in starting order unless
// an order is given
func (s *SkaterService) CreateSkater(ctx context.Context, categoryID int64, in Skater) (*scoring.Skater, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, errors.Validation("skater name is required")
	}
	if _, err := s.repo.GetCategory(ctx, categoryID); err != nil {
		return nil, storageError(err, "category")
	}

	order := in.Order
	if order <= 0 {
		existing, err := s.repo.ListSkaters(ctx, categoryID)
		if err != nil {
			return nil, storageError(err, "skaters")
		}
		order = len(existing) + 1
	}

	sk := &scoring.Skater{
		CategoryID: categoryID,
		Name:       name,
		Team:       strings.TrimSpace(in.Team),
		Order:      order,
	}
	if _, err := s.repo.CreateSkater(ctx, sk); err != nil {
		return nil, storageError(err, "skater")
	}
	s.log.Info("Skater created", "skater_id", sk.ID, "name", sk.Name, "category_id", categoryID)
	return sk, nil
}

// UpdateSkater changes name, team and order. Scores are left alone.
func (s *SkaterService) UpdateSkater(ctx context.Context, id int64, in Skater) (*scoring.Skater, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, errors.Validation("skater name is required")
	}
	sk, err := s.repo.GetSkater(ctx, id)
	if err != nil {
		return nil, storageError(err, "skater")
	}
	sk.Name = name
	sk.Team = strings.TrimSpace(in.Team)
	if in.Order > 0 {
		sk.Order = in.Order
	}
	if err := s.repo.UpdateSkater(ctx, sk); err != nil {
		return nil, storageError(err, "skater")
	}
	return sk, nil
}

// DeleteSkater removes a skater
func (s *SkaterService) DeleteSkater(ctx context.Context, id int64) error {
	if err := s.repo.DeleteSkater(ctx, id); err != nil {
		return storageError(err, "skater")
	}
	s.log.Info("Skater deleted", "skater_id", id)
	return nil
}

// GetSkater retrieves a skater by id
func (s *SkaterService) GetSkater(ctx context.Context, id int64) (*scoring.Skater, error) {
	sk, err := s.repo.GetSkater(ctx, id)
	if err != nil {
		return nil, storageError(err, "skater")
	}
	return sk, nil
}

// ListSkaters returns a category's skaters in starting order
func (s *SkaterService) ListSkaters(ctx context.Context, categoryID int64) ([]*scoring.Skater, error) {
	skaters, err := s.repo.ListSkaters(ctx, categoryID)
	if err != nil {
		return nil, storageError(err, "skaters")
	}
	return skaters, nil
}
