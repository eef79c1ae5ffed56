package mock

import (
	"context"

	"github.com/abrezinsky/rollart/internal/repository"
	"github.com/abrezinsky/rollart/internal/scoring"
)

// Repository wraps a real repository and allows injecting errors for testing.
// This provides a flexible way to test error paths without complex database manipulation.
//
// Usage:
//
//	realRepo := testutil.NewTestRepository(t)
//	mockRepo := mock.NewRepository(realRepo)
//	mockRepo.SaveProgramError = errors.New("database error")
//	svc := services.NewProgramService(log, mockRepo, catalog.Default(), publisher)
//	_, err := svc.Start(ctx, programID)
//	// err will now be a storage error wrapping the injected one
type Repository struct {
	repository.FullRepository

	// ===== Session Errors =====
	CreateSessionError     error
	GetOpenSessionError    error
	SetSessionOpenError    error
	OpenSessionExistsError error

	// ===== Category Errors =====
	CreateCategoryError    error
	GetCategoryError       error
	ListCategoriesError    error
	SetCategoryStatusError error

	// ===== Skater Errors =====
	CreateSkaterError       error
	UpdateSkaterError       error
	SettleSkaterError       error
	GetSkaterError          error
	ListSkatersError        error
	ListSessionSkatersError error

	// ===== Program Errors =====
	SaveProgramError  error
	GetProgramError   error
	FindProgramError  error
	ListProgramsError error

	// ===== Settings Errors =====
	GetSettingError error
	SetSettingError error
	ClearTableError error
}

// NewRepository creates a mock repository wrapping a real one
func NewRepository(real repository.FullRepository) *Repository {
	return &Repository{
		FullRepository: real,
	}
}

// ===== Session Methods =====

func (m *Repository) CreateSession(ctx context.Context, s *scoring.Session) (int64, error) {
	if m.CreateSessionError != nil {
		return 0, m.CreateSessionError
	}
	return m.FullRepository.CreateSession(ctx, s)
}

func (m *Repository) GetOpenSession(ctx context.Context) (*scoring.Session, error) {
	if m.GetOpenSessionError != nil {
		return nil, m.GetOpenSessionError
	}
	return m.FullRepository.GetOpenSession(ctx)
}

func (m *Repository) SetSessionOpen(ctx context.Context, id int64, open bool) error {
	if m.SetSessionOpenError != nil {
		return m.SetSessionOpenError
	}
	return m.FullRepository.SetSessionOpen(ctx, id, open)
}

func (m *Repository) OpenSessionExists(ctx context.Context) (bool, error) {
	if m.OpenSessionExistsError != nil {
		return false, m.OpenSessionExistsError
	}
	return m.FullRepository.OpenSessionExists(ctx)
}

// ===== Category Methods =====

func (m *Repository) CreateCategory(ctx context.Context, c *scoring.Category) (int64, error) {
	if m.CreateCategoryError != nil {
		return 0, m.CreateCategoryError
	}
	return m.FullRepository.CreateCategory(ctx, c)
}

func (m *Repository) GetCategory(ctx context.Context, id int64) (*scoring.Category, error) {
	if m.GetCategoryError != nil {
		return nil, m.GetCategoryError
	}
	return m.FullRepository.GetCategory(ctx, id)
}

func (m *Repository) ListCategories(ctx context.Context, sessionID int64) ([]*scoring.Category, error) {
	if m.ListCategoriesError != nil {
		return nil, m.ListCategoriesError
	}
	return m.FullRepository.ListCategories(ctx, sessionID)
}

func (m *Repository) SetCategoryStatus(ctx context.Context, id int64, status scoring.CategoryStatus) error {
	if m.SetCategoryStatusError != nil {
		return m.SetCategoryStatusError
	}
	return m.FullRepository.SetCategoryStatus(ctx, id, status)
}

// ===== Skater Methods =====

func (m *Repository) CreateSkater(ctx context.Context, s *scoring.Skater) (int64, error) {
	if m.CreateSkaterError != nil {
		return 0, m.CreateSkaterError
	}
	return m.FullRepository.CreateSkater(ctx, s)
}

func (m *Repository) UpdateSkater(ctx context.Context, s *scoring.Skater) error {
	if m.UpdateSkaterError != nil {
		return m.UpdateSkaterError
	}
	return m.FullRepository.UpdateSkater(ctx, s)
}

func (m *Repository) SettleSkater(ctx context.Context, s *scoring.Skater, status scoring.CategoryStatus) error {
	if m.SettleSkaterError != nil {
		return m.SettleSkaterError
	}
	return m.FullRepository.SettleSkater(ctx, s, status)
}

func (m *Repository) GetSkater(ctx context.Context, id int64) (*scoring.Skater, error) {
	if m.GetSkaterError != nil {
		return nil, m.GetSkaterError
	}
	return m.FullRepository.GetSkater(ctx, id)
}

func (m *Repository) ListSkaters(ctx context.Context, categoryID int64) ([]*scoring.Skater, error) {
	if m.ListSkatersError != nil {
		return nil, m.ListSkatersError
	}
	return m.FullRepository.ListSkaters(ctx, categoryID)
}

func (m *Repository) ListSessionSkaters(ctx context.Context, sessionID int64) ([]*scoring.Skater, error) {
	if m.ListSessionSkatersError != nil {
		return nil, m.ListSessionSkatersError
	}
	return m.FullRepository.ListSessionSkaters(ctx, sessionID)
}

// ===== Program Methods =====

func (m *Repository) SaveProgram(ctx context.Context, p *scoring.Program) error {
	if m.SaveProgramError != nil {
		return m.SaveProgramError
	}
	return m.FullRepository.SaveProgram(ctx, p)
}

func (m *Repository) GetProgram(ctx context.Context, id int64) (*scoring.Program, error) {
	if m.GetProgramError != nil {
		return nil, m.GetProgramError
	}
	return m.FullRepository.GetProgram(ctx, id)
}

func (m *Repository) FindProgram(ctx context.Context, skaterID int64, segment scoring.Segment) (*scoring.Program, error) {
	if m.FindProgramError != nil {
		return nil, m.FindProgramError
	}
	return m.FullRepository.FindProgram(ctx, skaterID, segment)
}

func (m *Repository) ListPrograms(ctx context.Context, categoryID int64, segment scoring.Segment) ([]*scoring.Program, error) {
	if m.ListProgramsError != nil {
		return nil, m.ListProgramsError
	}
	return m.FullRepository.ListPrograms(ctx, categoryID, segment)
}

// ===== Settings Methods =====

func (m *Repository) GetSetting(ctx context.Context, key string) (string, error) {
	if m.GetSettingError != nil {
		return "", m.GetSettingError
	}
	return m.FullRepository.GetSetting(ctx, key)
}

func (m *Repository) SetSetting(ctx context.Context, key, value string) error {
	if m.SetSettingError != nil {
		return m.SetSettingError
	}
	return m.FullRepository.SetSetting(ctx, key, value)
}

func (m *Repository) ClearTable(ctx context.Context, table string) error {
	if m.ClearTableError != nil {
		return m.ClearTableError
	}
	return m.FullRepository.ClearTable(ctx, table)
}
