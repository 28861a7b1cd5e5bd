// Package server initializes and runs the authentication server. It wires
// the user directory, password hasher, token issuer and HTTP endpoint
// together by explicit construction, runs the admin bootstrap before the
// server accepts requests, and handles graceful shutdown.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/authgate/internal/dbx"
	"github.com/dmitrijs2005/authgate/internal/logging"
	"github.com/dmitrijs2005/authgate/internal/server/auth"
	"github.com/dmitrijs2005/authgate/internal/server/config"
	"github.com/dmitrijs2005/authgate/internal/server/hashing"
	"github.com/dmitrijs2005/authgate/internal/server/httpapi"
	"github.com/dmitrijs2005/authgate/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/authgate/internal/server/repositories/users"
	"github.com/dmitrijs2005/authgate/internal/server/services"
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	hasher      *hashing.BcryptHasher
	repoManager repomanager.RepositoryManager
	httpServer  *httpapi.Server
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {

	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	rm, err := repomanager.NewPostgresRepositoryManager(ctx, cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	issuer, err := auth.NewIssuer(cfg.SecretKey, cfg.AccessTokenValidityDuration)
	if err != nil {
		return nil, fmt.Errorf("token issuer init error: %w", err)
	}

	hasher := hashing.NewBcryptHasher(0)

	authService, err := services.NewAuthService(rm.Users(), hasher, issuer, logger)
	if err != nil {
		return nil, fmt.Errorf("auth service init error: %w", err)
	}

	return &App{
		config:      cfg,
		logger:      logger,
		hasher:      hasher,
		repoManager: rm,
		httpServer:  httpapi.NewServer(cfg.RunAddress, authService, issuer, logger),
	}, nil
}

// runBootstrap seeds the admin user inside a single transaction so the
// check-then-create sequence cannot interleave with a concurrent writer on
// the same connection pool.
func (app *App) runBootstrap(ctx context.Context) error {
	return dbx.WithTx(ctx, app.repoManager.Conn(), nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := users.NewPostgresRepository(tx)
		b := services.NewBootstrap(repo, app.hasher, app.logger)
		return b.Run(ctx, app.config.AdminUsername, app.config.AdminPassword)
	})
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// Run seeds the admin user and serves HTTP until the context is cancelled or
// a signal arrives. A bootstrap failure aborts startup before any request is
// accepted.
func (app *App) Run(ctx context.Context) error {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	if err := app.runBootstrap(ctx); err != nil {
		return fmt.Errorf("bootstrap error: %w", err)
	}

	var wg sync.WaitGroup

	var serveErr error
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := app.httpServer.Run(ctx); err != nil {
			app.logger.Error(ctx, err.Error())
			serveErr = err
			cancelFunc()
		}
	}()

	wg.Wait()

	if err := app.repoManager.Close(); err != nil {
		app.logger.Error(ctx, "db close error", "error", err.Error())
	}

	return serveErr
}
