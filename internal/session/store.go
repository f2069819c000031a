package session

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/globaltire/storefront/internal/domain"
	apperrors "github.com/globaltire/storefront/internal/errors"
	"github.com/globaltire/storefront/internal/repository"
)

// Listener is notified after a client's cart or login state changes.
type Listener func(clientID string)

// Store owns per-client cart and login state. All reads go through Get
// and GetUser; all writes go through the mutation methods, which persist
// the new state and then notify subscribers. State is never mutated in
// place by callers.
type Store struct {
	repo repository.SessionRepository

	mu        sync.Mutex
	listeners map[int]Listener
	nextID    int
}

// NewStore creates a session store over the given repository.
func NewStore(repo repository.SessionRepository) *Store {
	return &Store{
		repo:      repo,
		listeners: make(map[int]Listener),
	}
}

// Subscribe registers a listener for state changes. The returned function
// removes the subscription.
func (s *Store) Subscribe(fn Listener) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	s.listeners[id] = fn

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, id)
	}
}

func (s *Store) notify(clientID string) {
	s.mu.Lock()
	fns := make([]Listener, 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(clientID)
	}
}

// Get returns the current cart for a client.
func (s *Store) Get(ctx context.Context, clientID string) (*domain.Cart, error) {
	return s.repo.GetCart(ctx, clientID)
}

// AddItem adds a product to the cart. If the product is already present
// the quantities are summed; otherwise a new line is appended. Quantity
// is clamped to at least 1.
func (s *Store) AddItem(ctx context.Context, clientID string, product *domain.Product, quantity int) (*domain.Cart, error) {
	if quantity < 1 {
		quantity = 1
	}

	cart, err := s.repo.GetCart(ctx, clientID)
	if err != nil {
		return nil, err
	}

	if idx := cart.FindItemIndex(product.ID); idx >= 0 {
		cart.Items[idx].Quantity += quantity
	} else {
		cart.Items = append(cart.Items, domain.CartItem{
			ProductID: product.ID,
			Name:      product.Name,
			Price:     product.NumericPrice(),
			Image:     product.PrimaryImage(),
			Quantity:  quantity,
			Permalink: product.Permalink,
		})
	}

	if err := s.repo.SaveCart(ctx, clientID, cart); err != nil {
		return nil, err
	}
	s.notify(clientID)
	return cart, nil
}

// RemoveItem removes a product line from the cart. Removing a product
// that is not in the cart is a no-op.
func (s *Store) RemoveItem(ctx context.Context, clientID string, productID int64) (*domain.Cart, error) {
	cart, err := s.repo.GetCart(ctx, clientID)
	if err != nil {
		return nil, err
	}

	idx := cart.FindItemIndex(productID)
	if idx < 0 {
		return cart, nil
	}
	cart.Items = append(cart.Items[:idx], cart.Items[idx+1:]...)

	if err := s.repo.SaveCart(ctx, clientID, cart); err != nil {
		return nil, err
	}
	s.notify(clientID)
	return cart, nil
}

// SetQuantity sets the quantity of a cart line, clamped to at least 1.
// The product must already be in the cart.
func (s *Store) SetQuantity(ctx context.Context, clientID string, productID int64, quantity int) (*domain.Cart, error) {
	if quantity < 1 {
		quantity = 1
	}

	cart, err := s.repo.GetCart(ctx, clientID)
	if err != nil {
		return nil, err
	}

	idx := cart.FindItemIndex(productID)
	if idx < 0 {
		return nil, apperrors.NotFound("cart item", strconv.FormatInt(productID, 10))
	}
	cart.Items[idx].Quantity = quantity

	if err := s.repo.SaveCart(ctx, clientID, cart); err != nil {
		return nil, err
	}
	s.notify(clientID)
	return cart, nil
}

// Clear empties the cart.
func (s *Store) Clear(ctx context.Context, clientID string) error {
	if err := s.repo.DeleteCart(ctx, clientID); err != nil {
		return err
	}
	s.notify(clientID)
	return nil
}

// GetUser returns the logged-in user for a client, or nil.
func (s *Store) GetUser(ctx context.Context, clientID string) (*domain.User, error) {
	rec, err := s.repo.GetSession(ctx, clientID)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, nil
	}
	return &rec.User, nil
}

// SetUser records a login for a client.
func (s *Store) SetUser(ctx context.Context, clientID string, user domain.User) error {
	rec := &domain.SessionRecord{
		User:    user,
		LoginAt: time.Now().UTC(),
	}
	if err := s.repo.SaveSession(ctx, clientID, rec); err != nil {
		return err
	}
	s.notify(clientID)
	return nil
}

// ClearUser removes the login record for a client.
func (s *Store) ClearUser(ctx context.Context, clientID string) error {
	if err := s.repo.DeleteSession(ctx, clientID); err != nil {
		return err
	}
	s.notify(clientID)
	return nil
}

