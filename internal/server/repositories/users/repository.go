package users

import (
	"context"

	"github.com/dmitrijs2005/authgate/internal/server/models"
)

// Repository is the user directory consumed by the authentication services.
type Repository interface {
	// FindByUsername returns the user with the given username or
	// common.ErrorNotFound when no such user exists.
	FindByUsername(ctx context.Context, username string) (*models.User, error)

	// ExistsByUsername reports whether a user with the given username exists.
	ExistsByUsername(ctx context.Context, username string) (bool, error)

	// Save inserts the user when its ID is empty and updates it otherwise.
	// On insert it assigns the ID and both timestamps; on update it refreshes
	// UpdatedAt. A concurrent insert of the same username degrades to
	// returning the already-persisted row.
	Save(ctx context.Context, user *models.User) (*models.User, error)
}
