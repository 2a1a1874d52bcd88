package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/ekos-sistemi/ekos-api/internal/models"
)

const userColumns = `id, username, email, password_hash, full_name, role, firma_adi, active, active_session_id, last_login, created_at, updated_at`

// UserRepository persists platform accounts.
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository constructs the repository.
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// FindByUsername returns the account with the given username.
func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	query := "SELECT " + userColumns + " FROM users WHERE username = $1"
	var user models.User
	if err := r.db.GetContext(ctx, &user, query, username); err != nil {
		return nil, fmt.Errorf("find user by username: %w", err)
	}
	return &user, nil
}

// FindByID returns the account with the given id.
func (r *UserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	query := "SELECT " + userColumns + " FROM users WHERE id = $1"
	var user models.User
	if err := r.db.GetContext(ctx, &user, query, id); err != nil {
		return nil, fmt.Errorf("find user by id: %w", err)
	}
	return &user, nil
}

// UpdateActiveSession rotates the account's single active session. Passing
// nil clears it (logout).
func (r *UserRepository) UpdateActiveSession(ctx context.Context, id string, sessionID *string) error {
	const query = `UPDATE users SET active_session_id = $1, updated_at = $2 WHERE id = $3`
	if _, err := r.db.ExecContext(ctx, query, sessionID, time.Now().UTC(), id); err != nil {
		return fmt.Errorf("update active session: %w", err)
	}
	return nil
}

// UpdateLastLogin stamps the most recent successful login.
func (r *UserRepository) UpdateLastLogin(ctx context.Context, id string, ts time.Time) error {
	const query = `UPDATE users SET last_login = $1 WHERE id = $2`
	if _, err := r.db.ExecContext(ctx, query, ts, id); err != nil {
		return fmt.Errorf("update last login: %w", err)
	}
	return nil
}

// UpdatePassword replaces the stored password hash.
func (r *UserRepository) UpdatePassword(ctx context.Context, id, passwordHash string, updatedAt time.Time) error {
	const query = `UPDATE users SET password_hash = $1, updated_at = $2 WHERE id = $3`
	if _, err := r.db.ExecContext(ctx, query, passwordHash, updatedAt, id); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}
