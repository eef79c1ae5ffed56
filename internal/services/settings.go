package services

import (
	"context"
	stderrors "errors"
	"strings"

	"github.com/skip2/go-qrcode"

	"github.com/abrezinsky/rollart/internal/errors"
	"github.com/abrezinsky/rollart/internal/logger"
	"github.com/abrezinsky/rollart/internal/repository"
	"github.com/abrezinsky/rollart/pkg/livescore"
)

// Setting keys
const (
	SettingBaseURL      = "base_url"
	SettingLiveScoreURL = "livescore_url"
)

// SettingsService handles runtime settings
type SettingsService struct {
	log    logger.Logger
	repo   repository.SettingsRepository
	client livescore.Client
}

// NewSettingsService creates a new SettingsService. The scoreboard client's
// endpoint follows the stored livescore URL.
func NewSettingsService(log logger.Logger, repo repository.SettingsRepository, client livescore.Client) *SettingsService {
	return &SettingsService{log: log, repo: repo, client: client}
}

// getOptional reads a setting, treating a missing one as empty
func (s *SettingsService) getOptional(ctx context.Context, key string) (string, error) {
	value, err := s.repo.GetSetting(ctx, key)
	if err != nil {
		if stderrors.Is(err, repository.ErrNotFound) {
			return "", nil // Not configured yet
		}
		return "", storageError(err, "setting "+key)
	}
	return value, nil
}

// GetBaseURL returns the public base URL of the scoreboard page
func (s *SettingsService) GetBaseURL(ctx context.Context) (string, error) {
	return s.getOptional(ctx, SettingBaseURL)
}

// SetBaseURL saves the public base URL
func (s *SettingsService) SetBaseURL(ctx context.Context, url string) error {
	return s.SetSetting(ctx, SettingBaseURL, strings.TrimRight(strings.TrimSpace(url), "/"))
}

// ScoreboardURL is the public address of the live scoreboard page
func (s *SettingsService) ScoreboardURL(ctx context.Context) (string, error) {
	baseURL, err := s.GetBaseURL(ctx)
	if err != nil {
		return "", err
	}
	if baseURL == "" {
		return "", errors.Validation("base URL is not configured")
	}
	return baseURL + "/scoreboard", nil
}

// ScoreboardQR renders a PNG QR code pointing at the scoreboard page
func (s *SettingsService) ScoreboardQR(ctx context.Context) ([]byte, error) {
	url, err := s.ScoreboardURL(ctx)
	if err != nil {
		return nil, err
	}
	return qrcode.Encode(url, qrcode.Medium, 256)
}

// GetLiveScoreURL returns the scoreboard push endpoint
func (s *SettingsService) GetLiveScoreURL(ctx context.Context) (string, error) {
	return s.getOptional(ctx, SettingLiveScoreURL)
}

// SetLiveScoreURL saves the scoreboard push endpoint and points the client
// at it. An empty URL disables pushing.
func (s *SettingsService) SetLiveScoreURL(ctx context.Context, url string) error {
	url = strings.TrimSpace(url)
	if err := s.SetSetting(ctx, SettingLiveScoreURL, url); err != nil {
		return err
	}
	if s.client != nil {
		s.client.SetBaseURL(url)
	}
	s.log.Info("Scoreboard endpoint updated", "url", url)
	return nil
}

// LoadLiveScoreURL applies a stored endpoint to the client. A configured
// endpoint is kept when nothing is stored.
func (s *SettingsService) LoadLiveScoreURL(ctx context.Context) error {
	url, err := s.GetLiveScoreURL(ctx)
	if err != nil {
		return err
	}
	if url != "" && s.client != nil {
		s.client.SetBaseURL(url)
	}
	return nil
}

// GetSetting retrieves an arbitrary setting
func (s *SettingsService) GetSetting(ctx context.Context, key string) (string, error) {
	value, err := s.repo.GetSetting(ctx, key)
	if err != nil {
		return "", storageError(err, "setting "+key)
	}
	return value, nil
}

// SetSetting saves an arbitrary setting
func (s *SettingsService) SetSetting(ctx context.Context, key, value string) error {
	if err := s.repo.SetSetting(ctx, key, value); err != nil {
		return storageError(err, "setting "+key)
	}
	return nil
}

// AllSettings returns the runtime settings as a map
func (s *SettingsService) AllSettings(ctx context.Context) (map[string]interface{}, error) {
	settings := make(map[string]interface{})

	baseURL, err := s.GetBaseURL(ctx)
	if err != nil {
		return nil, err
	}
	settings[SettingBaseURL] = baseURL

	liveScoreURL, err := s.GetLiveScoreURL(ctx)
	if err != nil {
		return nil, err
	}
	if liveScoreURL == "" && s.client != nil {
		liveScoreURL = s.client.BaseURL()
	}
	settings[SettingLiveScoreURL] = liveScoreURL

	return settings, nil
}

// Settings represents application settings for update operations. Nil
// fields are left unchanged.
type Settings struct {
	BaseURL      *string
	LiveScoreURL *string
}

// UpdateSettings updates multiple settings at once
func (s *SettingsService) UpdateSettings(ctx context.Context, settings Settings) error {
	if settings.BaseURL != nil {
		if err := s.SetBaseURL(ctx, *settings.BaseURL); err != nil {
			return err
		}
	}
	if settings.LiveScoreURL != nil {
		if err := s.SetLiveScoreURL(ctx, *settings.LiveScoreURL); err != nil {
			return err
		}
	}
	return nil
}

// ResetTablesResult contains the result of a database reset
type ResetTablesResult struct {
	Tables  []string `json:"tables"`
	Message string   `json:"message"`
}

// ValidTables defines which tables can be reset
var ValidTables = map[string]bool{
	"programs": true, "skaters": true, "categories": true, "sessions": true, "settings": true,
}

// tableDependents lists the tables emptied along with a table, children first
var tableDependents = map[string][]string{
	"programs":   {"elements", "boxes"},
	"skaters":    {"elements", "boxes", "programs"},
	"categories": {"elements", "boxes", "programs", "skaters"},
	"sessions":   {"elements", "boxes", "programs", "skaters", "categories"},
}

// ResetTables validates and empties the given tables together with the
// tables that depend on them
func (s *SettingsService) ResetTables(ctx context.Context, tables []string) (*ResetTablesResult, error) {
	if len(tables) == 0 {
		return nil, ErrNoTablesSpecified
	}

	var tablesToReset []string
	for _, table := range tables {
		if !ValidTables[table] {
			return nil, &InvalidTableError{Table: table}
		}
		for _, dep := range tableDependents[table] {
			if !containsTable(tablesToReset, dep) {
				tablesToReset = append(tablesToReset, dep)
			}
		}
		if !containsTable(tablesToReset, table) {
			tablesToReset = append(tablesToReset, table)
		}
	}

	for _, table := range tablesToReset {
		if err := s.repo.ClearTable(ctx, table); err != nil {
			return nil, storageError(err, "table "+table)
		}
	}

	if containsTable(tablesToReset, "settings") && s.client != nil {
		s.client.SetBaseURL("")
	}

	s.log.Info("Tables reset", "tables", tablesToReset)
	return &ResetTablesResult{
		Tables:  tablesToReset,
		Message: "Tables reset successfully",
	}, nil
}

func containsTable(tables []string, table string) bool {
	for _, t := range tables {
		if t == table {
			return true
		}
	}
	return false
}
