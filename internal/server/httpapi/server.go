// Package httpapi exposes the authentication flow over HTTP. It is the only
// surface untrusted callers reach; every rejection uses a constant body so
// responses never reveal whether a user exists, is disabled, or mistyped a
// password.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/authgate/internal/logging"
	"github.com/dmitrijs2005/authgate/internal/server/auth"
	"github.com/dmitrijs2005/authgate/internal/server/services"
)

type Server struct {
	address string
	auth    *services.AuthService
	issuer  *auth.Issuer
	logger  logging.Logger
}

func NewServer(address string, authService *services.AuthService, issuer *auth.Issuer, logger logging.Logger) *Server {
	return &Server{
		address: address,
		auth:    authService,
		issuer:  issuer,
		logger:  logger.With("module", "httpapi"),
	}
}

// Handler builds the route table. Split out from Run so tests can drive the
// mux through httptest without binding a socket.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/login", s.handleLogin)
	mux.Handle("GET /auth/me", s.withAuth(http.HandlerFunc(s.handleMe)))
	mux.HandleFunc("GET /health", s.handleHealth)
	return mux
}

func (s *Server) Run(ctx context.Context) error {

	srv := &http.Server{
		Addr:              s.address,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "shutdown error", "error", err.Error())
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
