// Package services contains the server-side business logic: credential
// verification, the login flow and the admin bootstrap.
package services

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/authgate/internal/common"
	"github.com/dmitrijs2005/authgate/internal/logging"
	"github.com/dmitrijs2005/authgate/internal/server/auth"
	"github.com/dmitrijs2005/authgate/internal/server/hashing"
	"github.com/dmitrijs2005/authgate/internal/server/repositories/users"
)

// Principal is the verified identity produced by a successful credential
// check.
type Principal struct {
	Username string
}

// AuthService verifies username/password credentials against the user
// directory and turns successful logins into signed access tokens.
//
// Unknown user, disabled account and wrong password all surface as
// common.ErrorUnauthorized; the actual cause is logged but never returned.
type AuthService struct {
	repo   users.Repository
	hasher hashing.PasswordHasher
	issuer *auth.Issuer
	logger logging.Logger

	// dummyDigest is compared against when the user is absent so that the
	// absent and wrong-password paths cost the same.
	dummyDigest string
}

func NewAuthService(repo users.Repository, hasher hashing.PasswordHasher, issuer *auth.Issuer, logger logging.Logger) (*AuthService, error) {
	dummy, err := hasher.Hash("authgate-dummy-password")
	if err != nil {
		return nil, err
	}
	return &AuthService{
		repo:        repo,
		hasher:      hasher,
		issuer:      issuer,
		logger:      logger.With("module", "auth_service"),
		dummyDigest: dummy,
	}, nil
}

// Verify checks the credentials and returns the authenticated principal.
func (s *AuthService) Verify(ctx context.Context, username, password string) (*Principal, error) {
	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			// Burn a hash comparison so lookup misses are not faster
			// than password mismatches.
			s.hasher.Check(password, s.dummyDigest)
			s.logger.Info(ctx, "login rejected", "reason", "user not found", "username", username)
			return nil, common.ErrorUnauthorized
		}
		s.logger.Error(ctx, "user lookup failed", "error", err.Error())
		return nil, common.ErrorUnavailable
	}

	match := s.hasher.Check(password, user.PasswordDigest)

	if !user.Active {
		s.logger.Info(ctx, "login rejected", "reason", common.ErrorAccountDisabled.Error(), "username", username)
		return nil, common.ErrorUnauthorized
	}
	if !match {
		s.logger.Info(ctx, "login rejected", "reason", "password mismatch", "username", username)
		return nil, common.ErrorUnauthorized
	}

	return &Principal{Username: user.Username}, nil
}

// Login verifies the credentials and issues an access token for the subject.
// Verification errors propagate unchanged.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, error) {
	principal, err := s.Verify(ctx, username, password)
	if err != nil {
		return "", err
	}

	token, err := s.issuer.Issue(principal.Username)
	if err != nil {
		s.logger.Error(ctx, "token signing failed", "error", err.Error())
		return "", common.ErrorInternal
	}

	s.logger.Info(ctx, "login succeeded", "username", principal.Username)
	return token, nil
}
