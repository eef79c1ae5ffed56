package services

import (
	"context"

	"github.com/abrezinsky/rollart/internal/scoring"
)

// SessionServicer defines the interface for competition session operations
type SessionServicer interface {
	Open(ctx context.Context, name string) (*scoring.Session, error)
	Current(ctx context.Context) (*scoring.Session, error)
	Close(ctx context.Context, id int64) error
	Reopen(ctx context.Context, id int64) error
	List(ctx context.Context) ([]*scoring.Session, error)
}

// CategoryServicer defines the interface for category operations
type CategoryServicer interface {
	CreateCategory(ctx context.Context, in Category) (*scoring.Category, error)
	UpdateCategory(ctx context.Context, id int64, in Category) (*scoring.Category, error)
	DeleteCategory(ctx context.Context, id int64) error
	GetCategory(ctx context.Context, id int64) (*scoring.Category, error)
	ListCategories(ctx context.Context) ([]*scoring.Category, error)
	Board(ctx context.Context) ([]CategoryBoard, error)
	Resume(ctx context.Context, id int64) (*ResumeResult, error)
	StartSegment(ctx context.Context, id int64, segment string) (*ResumeResult, error)
}

// SkaterServicer defines the interface for skater operations
type SkaterServicer interface {
	CreateSkater(ctx context.Context, categoryID int64, in Skater) (*scoring.Skater, error)
	UpdateSkater(ctx context.Context, id int64, in Skater) (*scoring.Skater, error)
	DeleteSkater(ctx context.Context, id int64) error
	GetSkater(ctx context.Context, id int64) (*scoring.Skater, error)
	ListSkaters(ctx context.Context, categoryID int64) ([]*scoring.Skater, error)
}

// ProgramServicer defines the interface for program recording operations
type ProgramServicer interface {
	GetProgram(ctx context.Context, id int64) (*scoring.Program, error)
	StartSolo(ctx context.Context, skaterName, programName string) (*scoring.Program, error)
	Start(ctx context.Context, id int64) (*scoring.Program, error)
	Stop(ctx context.Context, id int64) (*scoring.Program, error)
	SetBoxType(ctx context.Context, id int64, boxType string) (*scoring.Program, error)
	EnterElement(ctx context.Context, id int64, boxType string, in scoring.ElementInput) (*scoring.Program, error)
	EditBox(ctx context.Context, id int64, order int, boxType string, inputs []scoring.ElementInput) (*scoring.Program, error)
	RemoveBox(ctx context.Context, id int64, order int) (*scoring.Program, error)
	SetGrade(ctx context.Context, id int64, order, index, grade int) (*scoring.Program, error)
	SetStar(ctx context.Context, id int64, order, index int, star bool) (*scoring.Program, error)
	SetTime(ctx context.Context, id int64, order, index int, time bool) (*scoring.Program, error)
	UpdateElement(ctx context.Context, id int64, order, index int, u ElementUpdate) (*scoring.Program, error)
	SetComponent(ctx context.Context, id int64, name string, value float64) (*scoring.Program, error)
	Fall(ctx context.Context, id int64) (*scoring.Program, error)
	Deduct(ctx context.Context, id int64, points float64) (*scoring.Program, error)
	Confirm(ctx context.Context, id int64) (*Settlement, error)
	Skip(ctx context.Context, id int64) (*Settlement, error)
}

// ResultsServicer defines the interface for results operations
type ResultsServicer interface {
	SegmentResults(ctx context.Context, categoryID int64, segment string) (*SegmentResults, error)
	TeamStandings(ctx context.Context) ([]scoring.TeamScore, error)
}

// SettingsServicer defines the interface for settings operations
type SettingsServicer interface {
	GetBaseURL(ctx context.Context) (string, error)
	SetBaseURL(ctx context.Context, url string) error
	ScoreboardURL(ctx context.Context) (string, error)
	ScoreboardQR(ctx context.Context) ([]byte, error)
	GetLiveScoreURL(ctx context.Context) (string, error)
	SetLiveScoreURL(ctx context.Context, url string) error
	LoadLiveScoreURL(ctx context.Context) error
	GetSetting(ctx context.Context, key string) (string, error)
	SetSetting(ctx context.Context, key, value string) error
	AllSettings(ctx context.Context) (map[string]interface{}, error)
	UpdateSettings(ctx context.Context, settings Settings) error
	ResetTables(ctx context.Context, tables []string) (*ResetTablesResult, error)
}

// Ensure concrete types implement interfaces
var (
	_ SessionServicer  = (*SessionService)(nil)
	_ CategoryServicer = (*CategoryService)(nil)
	_ SkaterServicer   = (*SkaterService)(nil)
	_ ProgramServicer  = (*ProgramService)(nil)
	_ ResultsServicer  = (*ResultsService)(nil)
	_ SettingsServicer = (*SettingsService)(nil)
)
