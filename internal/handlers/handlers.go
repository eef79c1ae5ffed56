package handlers

import (
	"io/fs"
	"net/http"

	"github.com/abrezinsky/rollart/internal/auth"
	"github.com/abrezinsky/rollart/internal/services"
	"github.com/abrezinsky/rollart/internal/websocket"
)

// NewStaticServer creates a static file server from an fs.FS
func NewStaticServer(staticFS fs.FS) http.Handler {
	return http.FileServer(http.FS(staticFS))
}

// Handlers holds all HTTP handler dependencies
type Handlers struct {
	Session      services.SessionServicer
	Category     services.CategoryServicer
	Skater       services.SkaterServicer
	Program      services.ProgramServicer
	Results      services.ResultsServicer
	Settings     services.SettingsServicer
	Auth         *auth.Auth
	Hub          *websocket.Hub
	Log          HTTPLogger
	staticFS     fs.FS
	staticServer http.Handler
}

// HTTPLogger is an interface for loggers that support HTTP logging control
type HTTPLogger interface {
	IsHTTPLoggingEnabled() bool
}

// Services groups the service layer the handlers call into
type Services struct {
	Session  services.SessionServicer
	Category services.CategoryServicer
	Skater   services.SkaterServicer
	Program  services.ProgramServicer
	Results  services.ResultsServicer
	Settings services.SettingsServicer
}

// New creates a new Handlers instance with all dependencies. staticFS holds
// the scoreboard page and its assets.
func New(svc Services, staticFS fs.FS, operatorAuth *auth.Auth, hub *websocket.Hub, log HTTPLogger) *Handlers {
	h := &Handlers{
		Session:  svc.Session,
		Category: svc.Category,
		Skater:   svc.Skater,
		Program:  svc.Program,
		Results:  svc.Results,
		Settings: svc.Settings,
		Auth:     operatorAuth,
		Hub:      hub,
		Log:      log,
		staticFS: staticFS,
	}
	if staticFS != nil {
		h.staticServer = NewStaticServer(staticFS)
	}
	return h
}

// NoopHTTPLogger is a test logger that always returns false for HTTP logging
type NoopHTTPLogger struct{}

func (NoopHTTPLogger) IsHTTPLoggingEnabled() bool { return false }
