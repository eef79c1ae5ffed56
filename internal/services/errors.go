package services

import (
	stderrors "errors"
	"fmt"

	"github.com/abrezinsky/rollart/internal/errors"
	"github.com/abrezinsky/rollart/internal/repository"
)

// Service errors
var (
	ErrNoOpenSession      = errors.NotFound("no session is open")
	ErrSessionAlreadyOpen = errors.Conflict("another session is already open")
	ErrNoTablesSpecified  = errors.Validation("no tables specified")
	ErrNoSegments         = errors.Validation("a category needs a short or a long segment")
)

// InvalidTableError represents an invalid table name error
type InvalidTableError struct {
	Table string
}

func (e *InvalidTableError) Error() string {
	return fmt.Sprintf("invalid table name: %s", e.Table)
}

// storageError classifies a repository failure. Missing records become
// NotFound errors, anything else aborts the operation as a storage error.
func storageError(err error, what string) error {
	if stderrors.Is(err, repository.ErrNotFound) {
		return errors.NotFoundf("%s not found", what)
	}
	return errors.Storage(err, "failed to access "+what)
}
