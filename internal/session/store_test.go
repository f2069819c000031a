package session

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/globaltire/storefront/internal/domain"
	redisrepo "github.com/globaltire/storefront/internal/repository/redis"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	repo := redisrepo.NewSessionRepository(client, time.Hour, slog.Default())
	return NewStore(repo)
}

func tireProduct(id int64, name, price string) *domain.Product {
	return &domain.Product{
		ID:    id,
		Name:  name,
		Price: price,
		Images: []domain.ProductImage{
			{Src: "https://cdn.example.com/tire.jpg", Alt: name},
		},
	}
}

// ============================================================
// AddItem
// ============================================================

func TestStore_AddItem_NewLine(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	cart, err := s.AddItem(ctx, "c1", tireProduct(7, "All-Terrain 265/70R17", "189.99"), 2)
	require.NoError(t, err)

	require.Len(t, cart.Items, 1)
	assert.Equal(t, int64(7), cart.Items[0].ProductID)
	assert.Equal(t, 2, cart.Items[0].Quantity)
	assert.InDelta(t, 189.99, cart.Items[0].Price, 0.001)
	assert.Equal(t, "https://cdn.example.com/tire.jpg", cart.Items[0].Image)
}

func TestStore_AddItem_MergesByProductID(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.AddItem(ctx, "c1", tireProduct(7, "All-Terrain 265/70R17", "189.99"), 2)
	require.NoError(t, err)
	cart, err := s.AddItem(ctx, "c1", tireProduct(7, "All-Terrain 265/70R17", "189.99"), 3)
	require.NoError(t, err)

	require.Len(t, cart.Items, 1)
	assert.Equal(t, 5, cart.Items[0].Quantity)
}

func TestStore_AddItem_QuantityClampedToOne(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	cart, err := s.AddItem(ctx, "c1", tireProduct(7, "All-Terrain 265/70R17", "189.99"), 0)
	require.NoError(t, err)
	assert.Equal(t, 1, cart.Items[0].Quantity)

	cart, err = s.AddItem(ctx, "c2", tireProduct(7, "All-Terrain 265/70R17", "189.99"), -4)
	require.NoError(t, err)
	assert.Equal(t, 1, cart.Items[0].Quantity)
}

func TestStore_AddItem_ParsesFormattedPrice(t *testing.T) {
	s := newTestStore(t)

	cart, err := s.AddItem(context.Background(), "c1", tireProduct(8, "Winter 225/65R17", "$1,049.50"), 1)
	require.NoError(t, err)
	assert.InDelta(t, 1049.50, cart.Items[0].Price, 0.001)
}

// ============================================================
// RemoveItem / SetQuantity / Clear
// ============================================================

func TestStore_RemoveItem(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.AddItem(ctx, "c1", tireProduct(7, "All-Terrain", "100"), 1)
	require.NoError(t, err)
	_, err = s.AddItem(ctx, "c1", tireProduct(8, "Winter", "200"), 1)
	require.NoError(t, err)

	cart, err := s.RemoveItem(ctx, "c1", 7)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, int64(8), cart.Items[0].ProductID)
}

func TestStore_RemoveItem_AbsentIsNoop(t *testing.T) {
	s := newTestStore(t)

	cart, err := s.RemoveItem(context.Background(), "c1", 999)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
}

func TestStore_SetQuantity(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.AddItem(ctx, "c1", tireProduct(7, "All-Terrain", "100"), 1)
	require.NoError(t, err)

	cart, err := s.SetQuantity(ctx, "c1", 7, 4)
	require.NoError(t, err)
	assert.Equal(t, 4, cart.Items[0].Quantity)

	cart, err = s.SetQuantity(ctx, "c1", 7, -2)
	require.NoError(t, err)
	assert.Equal(t, 1, cart.Items[0].Quantity, "quantity below one clamps to one")
}

func TestStore_SetQuantity_MissingItem(t *testing.T) {
	s := newTestStore(t)

	_, err := s.SetQuantity(context.Background(), "c1", 999, 2)
	assert.Error(t, err)
}

func TestStore_Clear(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.AddItem(ctx, "c1", tireProduct(7, "All-Terrain", "100"), 3)
	require.NoError(t, err)
	require.NoError(t, s.Clear(ctx, "c1"))

	cart, err := s.Get(ctx, "c1")
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
}

// ============================================================
// Login state
// ============================================================

func TestStore_UserRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SetUser(ctx, "c1", domain.User{ID: "u-1", Email: "alice@example.com"}))

	user, err := s.GetUser(ctx, "c1")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "u-1", user.ID)

	require.NoError(t, s.ClearUser(ctx, "c1"))

	user, err = s.GetUser(ctx, "c1")
	require.NoError(t, err)
	assert.Nil(t, user)
}

// ============================================================
// Subscriptions
// ============================================================

func TestStore_SubscribersNotifiedOnMutation(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	var notified []string
	unsub := s.Subscribe(func(clientID string) {
		notified = append(notified, clientID)
	})

	_, err := s.AddItem(ctx, "c1", tireProduct(7, "All-Terrain", "100"), 1)
	require.NoError(t, err)
	require.NoError(t, s.Clear(ctx, "c1"))

	assert.Equal(t, []string{"c1", "c1"}, notified)

	unsub()
	_, err = s.AddItem(ctx, "c1", tireProduct(7, "All-Terrain", "100"), 1)
	require.NoError(t, err)
	assert.Len(t, notified, 2, "no notification after unsubscribe")
}

func TestStore_ReadsDoNotNotify(t *testing.T) {
	s := newTestStore(t)

	calls := 0
	s.Subscribe(func(string) { calls++ })

	_, err := s.Get(context.Background(), "c1")
	require.NoError(t, err)
	_, err = s.GetUser(context.Background(), "c1")
	require.NoError(t, err)

	assert.Zero(t, calls)
}
