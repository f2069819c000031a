package postgres

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/globaltire/storefront/internal/domain"
	apperrors "github.com/globaltire/storefront/internal/errors"
)

func newUserTestFixture(t *testing.T) (*UserRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	repo := NewUserRepository(mock)
	return repo, mock
}

func sampleAccount() *domain.Account {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &domain.Account{
		ID:           "u-1234",
		Username:     "alice",
		Email:        "alice@example.com",
		PasswordHash: "hash-abc",
		DisplayName:  "alice",
		FirstName:    "alice",
		LastName:     "",
		AvatarURL:    "",
		Role:         domain.RoleCustomer,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func accountColumns() []string {
	return []string{
		"id", "username", "email", "password_hash", "display_name",
		"first_name", "last_name", "avatar_url", "role", "created_at", "updated_at",
	}
}

func accountRow(a *domain.Account) *pgxmock.Rows {
	return pgxmock.NewRows(accountColumns()).AddRow(
		a.ID, a.Username, a.Email, a.PasswordHash, a.DisplayName,
		a.FirstName, a.LastName, a.AvatarURL, a.Role, a.CreatedAt, a.UpdatedAt,
	)
}

// ---------------------------------------------------------------------------
// Create
// ---------------------------------------------------------------------------

func TestUserRepository_Create_Success(t *testing.T) {
	repo, mock := newUserTestFixture(t)
	defer mock.Close()

	a := sampleAccount()

	mock.ExpectExec("INSERT INTO users").
		WithArgs(
			a.ID, a.Username, a.Email, a.PasswordHash, a.DisplayName,
			a.FirstName, a.LastName, a.AvatarURL, a.Role, a.CreatedAt, a.UpdatedAt,
		).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := repo.Create(context.Background(), a)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Create_DuplicateEmail(t *testing.T) {
	repo, mock := newUserTestFixture(t)
	defer mock.Close()

	a := sampleAccount()

	mock.ExpectExec("INSERT INTO users").
		WithArgs(
			a.ID, a.Username, a.Email, a.PasswordHash, a.DisplayName,
			a.FirstName, a.LastName, a.AvatarURL, a.Role, a.CreatedAt, a.UpdatedAt,
		).
		WillReturnError(fmt.Errorf("ERROR: duplicate key value violates unique constraint (SQLSTATE 23505)"))

	err := repo.Create(context.Background(), a)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrAlreadyExists))
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ---------------------------------------------------------------------------
// GetByID / GetByLogin
// ---------------------------------------------------------------------------

func TestUserRepository_GetByID_Success(t *testing.T) {
	repo, mock := newUserTestFixture(t)
	defer mock.Close()

	a := sampleAccount()

	mock.ExpectQuery("SELECT (.+) FROM users WHERE id").
		WithArgs(a.ID).
		WillReturnRows(accountRow(a))

	got, err := repo.GetByID(context.Background(), a.ID)
	require.NoError(t, err)
	assert.Equal(t, a.Username, got.Username)
	assert.Equal(t, a.Email, got.Email)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_GetByID_NotFound(t *testing.T) {
	repo, mock := newUserTestFixture(t)
	defer mock.Close()

	mock.ExpectQuery("SELECT (.+) FROM users WHERE id").
		WithArgs("missing").
		WillReturnRows(pgxmock.NewRows(accountColumns()))

	_, err := repo.GetByID(context.Background(), "missing")
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_GetByLogin_MatchesUsernameOrEmail(t *testing.T) {
	repo, mock := newUserTestFixture(t)
	defer mock.Close()

	a := sampleAccount()

	mock.ExpectQuery("SELECT (.+) FROM users WHERE username").
		WithArgs("alice@example.com").
		WillReturnRows(accountRow(a))

	got, err := repo.GetByLogin(context.Background(), "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, a.ID, got.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ---------------------------------------------------------------------------
// Existence checks
// ---------------------------------------------------------------------------

func TestUserRepository_ExistsByUsername(t *testing.T) {
	repo, mock := newUserTestFixture(t)
	defer mock.Close()

	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("alice").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := repo.ExistsByUsername(context.Background(), "alice")
	require.NoError(t, err)
	assert.True(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_ExistsByEmail_False(t *testing.T) {
	repo, mock := newUserTestFixture(t)
	defer mock.Close()

	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("nobody@example.com").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))

	exists, err := repo.ExistsByEmail(context.Background(), "nobody@example.com")
	require.NoError(t, err)
	assert.False(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ---------------------------------------------------------------------------
// Update
// ---------------------------------------------------------------------------

func TestUserRepository_Update_Success(t *testing.T) {
	repo, mock := newUserTestFixture(t)
	defer mock.Close()

	a := sampleAccount()
	a.FirstName = "Alice"
	a.LastName = "Smith"

	mock.ExpectExec("UPDATE users").
		WithArgs(
			a.Email, a.PasswordHash, a.DisplayName, a.FirstName,
			a.LastName, a.AvatarURL, pgxmock.AnyArg(), a.ID,
		).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := repo.Update(context.Background(), a)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Update_NotFound(t *testing.T) {
	repo, mock := newUserTestFixture(t)
	defer mock.Close()

	a := sampleAccount()

	mock.ExpectExec("UPDATE users").
		WithArgs(
			a.Email, a.PasswordHash, a.DisplayName, a.FirstName,
			a.LastName, a.AvatarURL, pgxmock.AnyArg(), a.ID,
		).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.Update(context.Background(), a)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}
