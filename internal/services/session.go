package services

import (
	"context"
	stderrors "errors"

	"github.com/abrezinsky/rollart/internal/logger"
	"github.com/abrezinsky/rollart/internal/repository"
	"github.com/abrezinsky/rollart/internal/scoring"
)

// SessionService handles the competition session lifecycle. At most one
// session is open at a time.
type SessionService struct {
	log  logger.Logger
	repo repository.SessionRepository
}

// NewSessionService creates a new SessionService
func NewSessionService(log logger.Logger, repo repository.SessionRepository) *SessionService {
	return &SessionService{log: log, repo: repo}
}

// Open creates and opens a new session
func (s *SessionService) Open(ctx context.Context, name string) (*scoring.Session, error) {
	session, err := scoring.NewSession(name)
	if err != nil {
		return nil, err
	}
	if err := s.ensureNoneOpen(ctx); err != nil {
		return nil, err
	}
	if _, err := s.repo.CreateSession(ctx, session); err != nil {
		return nil, storageError(err, "session")
	}
	s.log.Info("Session opened", "session_id", session.ID, "name", session.Name)
	return session, nil
}

// Current returns the open session
func (s *SessionService) Current(ctx context.Context) (*scoring.Session, error) {
	return currentSession(ctx, s.repo)
}

// Close closes a session
func (s *SessionService) Close(ctx context.Context, id int64) error {
	session, err := s.repo.GetSession(ctx, id)
	if err != nil {
		return storageError(err, "session")
	}
	if err := session.Close(); err != nil {
		return err
	}
	if err := s.repo.SetSessionOpen(ctx, id, false); err != nil {
		return storageError(err, "session")
	}
	s.log.Info("Session closed", "session_id", id)
	return nil
}

// Reopen makes a closed session the open one again
func (s *SessionService) Reopen(ctx context.Context, id int64) error {
	session, err := s.repo.GetSession(ctx, id)
	if err != nil {
		return storageError(err, "session")
	}
	if err := session.Reopen(); err != nil {
		return err
	}
	if err := s.ensureNoneOpen(ctx); err != nil {
		return err
	}
	if err := s.repo.SetSessionOpen(ctx, id, true); err != nil {
		return storageError(err, "session")
	}
	s.log.Info("Session reopened", "session_id", id)
	return nil
}

// List returns every session, newest first
func (s *SessionService) List(ctx context.Context) ([]*scoring.Session, error) {
	sessions, err := s.repo.ListSessions(ctx)
	if err != nil {
		return nil, storageError(err, "sessions")
	}
	return sessions, nil
}

func (s *SessionService) ensureNoneOpen(ctx context.Context) error {
	exists, err := s.repo.OpenSessionExists(ctx)
	if err != nil {
		return storageError(err, "session")
	}
	if exists {
		return ErrSessionAlreadyOpen
	}
	return nil
}

// currentSession loads the open session or fails with ErrNoOpenSession
func currentSession(ctx context.Context, repo repository.SessionRepository) (*scoring.Session, error) {
	session, err := repo.GetOpenSession(ctx)
	if stderrors.Is(err, repository.ErrNotFound) {
		return nil, ErrNoOpenSession
	}
	if err != nil {
		return nil, storageError(err, "session")
	}
	return session, nil
}
