// Package httpapi is the thin HTTP adapter over the authentication core. It
// parses requests, delegates to the services, and translates results into
// status codes, cookies, and JSON bodies. No business rules live here.
package httpapi

import (
	"context"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/mpolonsky/userauth/internal/logging"
	"github.com/mpolonsky/userauth/internal/server/models"
)

// Registry is the slice of the user registry the adapter consumes.
type Registry interface {
	Register(ctx context.Context, displayID, name, rawPassword string) (*models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
}

// Sessions is the slice of the session use cases the adapter consumes.
type Sessions interface {
	Login(ctx context.Context, displayID, password string) (string, error)
	Me(ctx context.Context, credential string) (*models.User, error)
	Logout(ctx context.Context, credential string) error
}

// Server serves the authentication API and the static pages under the
// configured path prefix.
type Server struct {
	address   string
	logger    logging.Logger
	registry  Registry
	sessions  Sessions
	prefix    string
	publicDir string
}

// NewServer constructs a Server. The prefix must carry a leading and a
// trailing slash (config normalizes it).
func NewServer(address string, l logging.Logger, registry Registry, sessions Sessions, prefix, publicDir string) *Server {
	return &Server{
		address:   address,
		logger:    l.With("module", "httpapi"),
		registry:  registry,
		sessions:  sessions,
		prefix:    prefix,
		publicDir: publicDir,
	}
}

// Handler builds the route table. Exported so tests can drive it through
// httptest without a listener.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/register", s.handleRegister)
	mux.HandleFunc("POST /api/login", s.handleLogin)
	mux.HandleFunc("POST /api/logout", s.handleLogout)
	mux.HandleFunc("GET /api/me", s.handleMe)
	mux.HandleFunc("GET /api/users", s.handleUsers)
	mux.HandleFunc("GET /ping", s.handlePing)
	mux.Handle("GET /", http.FileServer(http.Dir(s.publicDir)))

	if s.prefix == "/" {
		return mux
	}
	outer := http.NewServeMux()
	outer.Handle(s.prefix, http.StripPrefix(strings.TrimSuffix(s.prefix, "/"), mux))
	return outer
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.address,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address, "prefix", s.prefix)

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
