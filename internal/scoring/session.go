package scoring

import (
	"strings"
	"time"

	"github.com/abrezinsky/rollart/internal/errors"
)

// Session is a competition: an ordered set of categories. At most one
// session is open at a time.
type Session struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Open      bool      `json:"open"`
	CreatedAt time.Time `json:"created_at"`
}

// NewSession returns an open session
func NewSession(name string) (*Session, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.Validation("session name is required")
	}
	return &Session{Name: name, Open: true}, nil
}

// Close ends the session
func (s *Session) Close() error {
	if !s.Open {
		return errors.Statef("session %s is already closed", s.Name)
	}
	s.Open = false
	return nil
}

// Reopen makes a closed session current again
func (s *Session) Reopen() error {
	if s.Open {
		return errors.Statef("session %s is already open", s.Name)
	}
	s.Open = true
	return nil
}
