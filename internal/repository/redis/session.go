package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/globaltire/storefront/internal/domain"
)

const (
	cartKeyPrefix    = "cart:"
	sessionKeyPrefix = "session:"
)

// SessionRepository implements repository.SessionRepository using Redis.
// State is keyed by the client-supplied identifier.
type SessionRepository struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewSessionRepository creates a new Redis-backed session repository.
func NewSessionRepository(client *redis.Client, ttl time.Duration, logger *slog.Logger) *SessionRepository {
	return &SessionRepository{
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

// GetCart retrieves the cart for a client. A missing key or a payload that
// does not parse yields an empty cart.
func (r *SessionRepository) GetCart(ctx context.Context, clientID string) (*domain.Cart, error) {
	key := cartKeyPrefix + clientID

	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return &domain.Cart{Items: []domain.CartItem{}}, nil
		}
		return nil, fmt.Errorf("redis get cart: %w", err)
	}

	var cart domain.Cart
	if err := json.Unmarshal(data, &cart); err != nil {
		r.logger.WarnContext(ctx, "discarding unreadable cart payload",
			slog.String("client_id", clientID),
			slog.String("error", err.Error()),
		)
		return &domain.Cart{Items: []domain.CartItem{}}, nil
	}
	if cart.Items == nil {
		cart.Items = []domain.CartItem{}
	}

	return &cart, nil
}

// SaveCart persists the cart for a client with the configured TTL.
func (r *SessionRepository) SaveCart(ctx context.Context, clientID string, cart *domain.Cart) error {
	key := cartKeyPrefix + clientID

	data, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("marshal cart: %w", err)
	}

	if err := r.client.Set(ctx, key, data, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set cart: %w", err)
	}

	return nil
}

// DeleteCart removes the cart for a client.
func (r *SessionRepository) DeleteCart(ctx context.Context, clientID string) error {
	if err := r.client.Del(ctx, cartKeyPrefix+clientID).Err(); err != nil {
		return fmt.Errorf("redis del cart: %w", err)
	}
	return nil
}

// GetSession retrieves the login record for a client, or nil when absent.
// An unreadable payload is treated the same as a logged-out client.
func (r *SessionRepository) GetSession(ctx context.Context, clientID string) (*domain.SessionRecord, error) {
	key := sessionKeyPrefix + clientID

	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("redis get session: %w", err)
	}

	var rec domain.SessionRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		r.logger.WarnContext(ctx, "discarding unreadable session payload",
			slog.String("client_id", clientID),
			slog.String("error", err.Error()),
		)
		return nil, nil
	}

	return &rec, nil
}

// SaveSession persists the login record for a client with the configured TTL.
func (r *SessionRepository) SaveSession(ctx context.Context, clientID string, rec *domain.SessionRecord) error {
	key := sessionKeyPrefix + clientID

	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	if err := r.client.Set(ctx, key, data, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set session: %w", err)
	}

	return nil
}

// DeleteSession removes the login record for a client.
func (r *SessionRepository) DeleteSession(ctx context.Context, clientID string) error {
	if err := r.client.Del(ctx, sessionKeyPrefix+clientID).Err(); err != nil {
		return fmt.Errorf("redis del session: %w", err)
	}
	return nil
}
