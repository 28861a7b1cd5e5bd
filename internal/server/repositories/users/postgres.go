package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/authgate/internal/common"
	"github.com/dmitrijs2005/authgate/internal/dbx"
	"github.com/dmitrijs2005/authgate/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	query :=
		`SELECT id, username, password, is_active, created_at, updated_at FROM users
		 WHERE username = $1
		 `

	user := &models.User{}
	err := r.db.QueryRowContext(ctx, query, username).
		Scan(&user.ID, &user.Username, &user.PasswordDigest, &user.Active, &user.CreatedAt, &user.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

func (r *PostgresRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	query :=
		`SELECT EXISTS (SELECT 1 FROM users WHERE username = $1)
		 `

	var exists bool
	err := r.db.QueryRowContext(ctx, query, username).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}

	return exists, nil
}

// Save persists the user. Inserts carry ON CONFLICT (username) DO NOTHING so
// that two processes bootstrapping against the same directory cannot both
// create the row; the loser re-reads and returns the winner's record.
func (r *PostgresRepository) Save(ctx context.Context, user *models.User) (*models.User, error) {
	if user.ID == "" {
		return r.insert(ctx, user)
	}
	return r.update(ctx, user)
}

func (r *PostgresRepository) insert(ctx context.Context, user *models.User) (*models.User, error) {
	query :=
		`INSERT INTO users (id, username, password, is_active, created_at, updated_at)
         VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (username) DO NOTHING
		 `

	now := time.Now().UTC()
	user.ID = uuid.NewString()
	user.CreatedAt = now
	user.UpdatedAt = now

	res, err := r.db.ExecContext(ctx, query,
		user.ID, user.Username, user.PasswordDigest, user.Active, user.CreatedAt, user.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	if affected == 0 {
		// Lost a duplicate-insert race; the existing row wins.
		return r.FindByUsername(ctx, user.Username)
	}

	return user, nil
}

func (r *PostgresRepository) update(ctx context.Context, user *models.User) (*models.User, error) {
	query :=
		`UPDATE users SET password = $2, is_active = $3, updated_at = $4
		 WHERE id = $1
		 `

	user.UpdatedAt = time.Now().UTC()

	res, err := r.db.ExecContext(ctx, query,
		user.ID, user.PasswordDigest, user.Active, user.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	if affected == 0 {
		return nil, common.ErrorNotFound
	}

	return user, nil
}
