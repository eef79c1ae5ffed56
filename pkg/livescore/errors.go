package livescore

import "errors"

// ErrNotConfigured is returned when no endpoint URL is set
var ErrNotConfigured = errors.New("livescore endpoint not configured")
