package repository

import (
	"context"

	"github.com/abrezinsky/rollart/internal/scoring"
)

// SessionRepository defines competition session data operations
type SessionRepository interface {
	CreateSession(ctx context.Context, s *scoring.Session) (int64, error)
	GetSession(ctx context.Context, id int64) (*scoring.Session, error)
	GetOpenSession(ctx context.Context) (*scoring.Session, error)
	ListSessions(ctx context.Context) ([]*scoring.Session, error)
	SetSessionOpen(ctx context.Context, id int64, open bool) error
	OpenSessionExists(ctx context.Context) (bool, error)
}

// CategoryRepository defines category data operations
type CategoryRepository interface {
	CreateCategory(ctx context.Context, c *scoring.Category) (int64, error)
	UpdateCategory(ctx context.Context, c *scoring.Category) error
	GetCategory(ctx context.Context, id int64) (*scoring.Category, error)
	ListCategories(ctx context.Context, sessionID int64) ([]*scoring.Category, error)
	SetCategoryStatus(ctx context.Context, id int64, status scoring.CategoryStatus) error
	DeleteCategory(ctx context.Context, id int64) error
}

// SkaterRepository defines skater data operations
type SkaterRepository interface {
	CreateSkater(ctx context.Context, s *scoring.Skater) (int64, error)
	UpdateSkater(ctx context.Context, s *scoring.Skater) error
	SettleSkater(ctx context.Context, s *scoring.Skater, status scoring.CategoryStatus) error
	GetSkater(ctx context.Context, id int64) (*scoring.Skater, error)
	ListSkaters(ctx context.Context, categoryID int64) ([]*scoring.Skater, error)
	ListSessionSkaters(ctx context.Context, sessionID int64) ([]*scoring.Skater, error)
	DeleteSkater(ctx context.Context, id int64) error
}

// ProgramRepository defines program data operations. A program is stored
// together with its boxes and elements.
type ProgramRepository interface {
	SaveProgram(ctx context.Context, p *scoring.Program) error
	GetProgram(ctx context.Context, id int64) (*scoring.Program, error)
	FindProgram(ctx context.Context, skaterID int64, segment scoring.Segment) (*scoring.Program, error)
	ListPrograms(ctx context.Context, categoryID int64, segment scoring.Segment) ([]*scoring.Program, error)
	DeleteProgram(ctx context.Context, id int64) error
}

// SettingsRepository defines settings data operations
type SettingsRepository interface {
	GetSetting(ctx context.Context, key string) (string, error)
	SetSetting(ctx context.Context, key, value string) error
	ClearTable(ctx context.Context, table string) error
}

// FullRepository combines all repository interfaces
// Use this when a service needs access to multiple domains
type FullRepository interface {
	SessionRepository
	CategoryRepository
	SkaterRepository
	ProgramRepository
	SettingsRepository
}

// Ensure Repository implements all interfaces
var _ FullRepository = (*Repository)(nil)
