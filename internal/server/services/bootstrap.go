package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/authgate/internal/common"
	"github.com/dmitrijs2005/authgate/internal/logging"
	"github.com/dmitrijs2005/authgate/internal/server/hashing"
	"github.com/dmitrijs2005/authgate/internal/server/models"
	"github.com/dmitrijs2005/authgate/internal/server/repositories/users"
)

// Bootstrap ensures the administrative user exists before the server starts
// accepting requests. Run is idempotent: restarts and concurrent first starts
// against a shared directory all converge on a single admin row.
type Bootstrap struct {
	repo   users.Repository
	hasher hashing.PasswordHasher
	logger logging.Logger
}

func NewBootstrap(repo users.Repository, hasher hashing.PasswordHasher, logger logging.Logger) *Bootstrap {
	return &Bootstrap{
		repo:   repo,
		hasher: hasher,
		logger: logger.With("module", "bootstrap"),
	}
}

// Run creates the admin user when it is absent and does nothing otherwise.
// Any failure is returned to the caller, which must treat it as fatal.
func (b *Bootstrap) Run(ctx context.Context, adminUsername, adminPassword string) error {
	if adminUsername == "" || adminPassword == "" {
		return errors.New("admin username and password must be configured")
	}

	_, err := b.repo.FindByUsername(ctx, adminUsername)
	if err == nil {
		b.logger.Info(ctx, "admin user already present", "username", adminUsername)
		return nil
	}
	if !errors.Is(err, common.ErrorNotFound) {
		return fmt.Errorf("admin lookup failed: %w", err)
	}

	digest, err := b.hasher.Hash(adminPassword)
	if err != nil {
		return fmt.Errorf("admin password hashing failed: %w", err)
	}

	user := &models.User{
		Username:       adminUsername,
		PasswordDigest: digest,
		Active:         true,
	}

	// Save tolerates a concurrent insert of the same username and returns
	// the persisted row either way.
	if _, err := b.repo.Save(ctx, user); err != nil {
		return fmt.Errorf("admin user creation failed: %w", err)
	}

	exists, err := b.repo.ExistsByUsername(ctx, adminUsername)
	if err != nil {
		return fmt.Errorf("admin verification failed: %w", err)
	}
	if !exists {
		return errors.New("admin user missing after bootstrap")
	}

	b.logger.Info(ctx, "admin user created", "username", adminUsername)
	return nil
}
