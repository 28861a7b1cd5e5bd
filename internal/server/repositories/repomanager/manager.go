package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/authgate/internal/server/repositories/users"
)

// RepositoryManager owns the database handle and hands out repositories
// bound to it.
type RepositoryManager interface {
	RunMigrations(ctx context.Context) error
	Conn() *sql.DB
	Users() users.Repository
	Close() error
}
