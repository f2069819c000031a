package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/globaltire/storefront/internal/database"
	"github.com/globaltire/storefront/internal/domain"
	apperrors "github.com/globaltire/storefront/internal/errors"
)

// UserRepository implements repository.UserRepository using PostgreSQL.
type UserRepository struct {
	db database.DBTX
}

// NewUserRepository creates a new PostgreSQL-backed user repository.
func NewUserRepository(db database.DBTX) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, username, email, password_hash, display_name, first_name, last_name, avatar_url, role, created_at, updated_at`

// Create inserts a new account into the database.
func (r *UserRepository) Create(ctx context.Context, a *domain.Account) error {
	query := `
		INSERT INTO users (id, username, email, password_hash, display_name, first_name, last_name, avatar_url, role, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err := r.db.Exec(ctx, query,
		a.ID,
		a.Username,
		a.Email,
		a.PasswordHash,
		a.DisplayName,
		a.FirstName,
		a.LastName,
		a.AvatarURL,
		a.Role,
		a.CreatedAt,
		a.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.AlreadyExists("user", "email", a.Email)
		}
		return fmt.Errorf("insert user: %w", err)
	}

	return nil
}

// GetByID retrieves an account by its ID.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return r.scanAccount(ctx, query, id)
}

// GetByLogin retrieves an account by username or email address.
func (r *UserRepository) GetByLogin(ctx context.Context, login string) (*domain.Account, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1 OR email = $1`
	return r.scanAccount(ctx, query, login)
}

// ExistsByUsername reports whether an account with the username exists.
func (r *UserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE username = $1)`, username).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check username exists: %w", err)
	}
	return exists, nil
}

// ExistsByEmail reports whether an account with the email exists.
func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`, email).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check email exists: %w", err)
	}
	return exists, nil
}

// Update modifies an existing account in the database.
func (r *UserRepository) Update(ctx context.Context, a *domain.Account) error {
	a.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE users
		SET email = $1, password_hash = $2, display_name = $3, first_name = $4,
		    last_name = $5, avatar_url = $6, updated_at = $7
		WHERE id = $8`

	ct, err := r.db.Exec(ctx, query,
		a.Email,
		a.PasswordHash,
		a.DisplayName,
		a.FirstName,
		a.LastName,
		a.AvatarURL,
		a.UpdatedAt,
		a.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.AlreadyExists("user", "email", a.Email)
		}
		return fmt.Errorf("update user: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("user", a.ID)
	}

	return nil
}

// scanAccount executes a query expected to return a single user row.
func (r *UserRepository) scanAccount(ctx context.Context, query string, args ...any) (*domain.Account, error) {
	var a domain.Account

	err := r.db.QueryRow(ctx, query, args...).Scan(
		&a.ID,
		&a.Username,
		&a.Email,
		&a.PasswordHash,
		&a.DisplayName,
		&a.FirstName,
		&a.LastName,
		&a.AvatarURL,
		&a.Role,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}

	return &a, nil
}

// isUniqueViolation checks for a PostgreSQL unique constraint violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "23505")
}
