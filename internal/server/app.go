// Package server initializes and runs the authentication service. It wires
// the database, repositories, password hasher, and credential manager into
// the services, handles graceful shutdown, and starts the HTTP server.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/mpolonsky/userauth/internal/logging"
	"github.com/mpolonsky/userauth/internal/server/auth"
	"github.com/mpolonsky/userauth/internal/server/config"
	"github.com/mpolonsky/userauth/internal/server/httpapi"
	"github.com/mpolonsky/userauth/internal/server/passhash"
	"github.com/mpolonsky/userauth/internal/server/repositories/repomanager"
	"github.com/mpolonsky/userauth/internal/server/services"
)

type App struct {
	config         *config.Config
	logger         logging.Logger
	db             *sql.DB
	repos          repomanager.RepositoryManager
	userService    *services.UserService
	sessionService *services.SessionService
}

func NewApp(cfg *config.Config) (*App, error) {
	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	repos := repomanager.NewPostgresRepositoryManager()

	hasher := passhash.NewBcrypt(cfg.BcryptCost)
	credentials := auth.NewManager([]byte(cfg.SecretKey), cfg.Issuer, cfg.CredentialLifetime)

	us := services.NewUserService(db, repos, hasher)
	ss := services.NewSessionService(us, credentials)

	return &App{
		config:         cfg,
		logger:         logger,
		db:             db,
		repos:          repos,
		userService:    us,
		sessionService: ss,
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := httpapi.NewServer(
		app.config.EndpointAddr,
		app.logger,
		app.userService,
		app.sessionService,
		app.config.PathPrefix,
		app.config.PublicDir,
	)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	if err := app.repos.RunMigrations(ctx, app.db); err != nil {
		return fmt.Errorf("migration error: %w", err)
	}

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "error closing db", "error", err.Error())
	}
	return nil
}
