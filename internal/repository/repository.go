package repository

import (
	"context"

	"github.com/globaltire/storefront/internal/domain"
)

// UserRepository manages platform user accounts.
type UserRepository interface {
	// GetByID retrieves an account by its ID.
	GetByID(ctx context.Context, id string) (*domain.Account, error)

	// GetByLogin retrieves an account by username or email address.
	GetByLogin(ctx context.Context, login string) (*domain.Account, error)

	// ExistsByUsername reports whether an account with the username exists.
	ExistsByUsername(ctx context.Context, username string) (bool, error)

	// ExistsByEmail reports whether an account with the email exists.
	ExistsByEmail(ctx context.Context, email string) (bool, error)

	// Create inserts a new account.
	Create(ctx context.Context, account *domain.Account) error

	// Update modifies an existing account.
	Update(ctx context.Context, account *domain.Account) error
}

// Address kinds stored per user.
const (
	AddressBilling  = "billing"
	AddressShipping = "shipping"
)

// AddressRepository manages billing and shipping addresses attached to accounts.
type AddressRepository interface {
	// Get retrieves the address of the given kind for a user. Returns
	// ErrNotFound when the user has no stored address of that kind.
	Get(ctx context.Context, userID, kind string) (*domain.Address, error)

	// Upsert creates or replaces the address of the given kind for a user.
	Upsert(ctx context.Context, userID, kind string, addr *domain.Address) error
}

// SessionRepository stores per-client cart and login state.
type SessionRepository interface {
	// GetCart retrieves the cart for a client. A missing or unreadable
	// cart yields an empty cart, never an error.
	GetCart(ctx context.Context, clientID string) (*domain.Cart, error)

	// SaveCart persists the cart for a client.
	SaveCart(ctx context.Context, clientID string, cart *domain.Cart) error

	// DeleteCart removes the cart for a client.
	DeleteCart(ctx context.Context, clientID string) error

	// GetSession retrieves the login record for a client, or nil when
	// the client is not logged in.
	GetSession(ctx context.Context, clientID string) (*domain.SessionRecord, error)

	// SaveSession persists the login record for a client.
	SaveSession(ctx context.Context, clientID string, rec *domain.SessionRecord) error

	// DeleteSession removes the login record for a client.
	DeleteSession(ctx context.Context, clientID string) error
}
