package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/krale/krale-storefront/internal/app/model"
	"github.com/krale/krale-storefront/internal/app/repository"
	"github.com/krale/krale-storefront/pkg/logger"
)

var (
	ErrInvalidQuantity    = errors.New("quantity must be at least 1")
	ErrVariantUnavailable = errors.New("variant not available for sale")
	ErrCartItemNotFound   = errors.New("cart item not found")
	// ErrCartPersist reports a failed snapshot write. The in-memory
	// mutation it decorates has already been applied and stands.
	ErrCartPersist = errors.New("cart persistence failed")
)

// CartObserver receives the cart snapshot after each completed mutation.
type CartObserver func(model.Cart)

// CartService is the single source of truth for one shopper's cart.
// Mutations are applied in invocation order; each successful mutation
// persists the full snapshot and notifies observers before returning.
type CartService interface {
	Cart() model.Cart
	Totals() (subtotal float64, itemCount int)
	AddItem(product model.Product, variant model.Variant, quantity int) error
	UpdateQuantity(variantID string, quantity int) error
	RemoveItem(variantID string) error
	Clear() error
	// Subscribe registers an observer and returns its unsubscribe func.
	Subscribe(observer CartObserver) func()
}

type cartService struct {
	sessionID string
	repo      repository.CartRepository

	mu        sync.Mutex
	cart      model.Cart
	observers map[int]CartObserver
	nextObsID int
}

// NewCartService rehydrates the session's cart from storage. A failed
// load degrades to an empty cart.
func NewCartService(ctx context.Context, sessionID string, repo repository.CartRepository) CartService {
	cart, err := repo.Load(ctx, sessionID)
	if err != nil {
		logger.Warn("Failed to rehydrate cart, starting empty", map[string]interface{}{
			"session_id": sessionID,
			"error":      err.Error(),
		})
		cart = model.Cart{}
	}
	return &cartService{
		sessionID: sessionID,
		repo:      repo,
		cart:      cart,
		observers: make(map[int]CartObserver),
	}
}

func (s *cartService) Cart() model.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Clone()
}

func (s *cartService) Totals() (float64, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Subtotal(), s.cart.ItemCount()
}

func (s *cartService) AddItem(product model.Product, variant model.Variant, quantity int) error {
	if quantity < 1 {
		logger.Warn("Rejected add to cart: invalid quantity", map[string]interface{}{
			"session_id": s.sessionID,
			"variant_id": variant.ID,
			"quantity":   quantity,
		})
		return ErrInvalidQuantity
	}
	if !variant.AvailableForSale {
		logger.Warn("Rejected add to cart: variant unavailable", map[string]interface{}{
			"session_id": s.sessionID,
			"variant_id": variant.ID,
		})
		return ErrVariantUnavailable
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if idx := s.cart.LineIndex(variant.ID); idx >= 0 {
		s.cart.Lines[idx].Quantity += quantity
	} else {
		s.cart.Lines = append(s.cart.Lines, newLineItem(product, variant, quantity))
	}

	logger.Info("Cart item added", map[string]interface{}{
		"session_id": s.sessionID,
		"variant_id": variant.ID,
		"quantity":   quantity,
	})
	return s.persistAndNotify()
}

func (s *cartService) UpdateQuantity(variantID string, quantity int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.cart.LineIndex(variantID)
	if idx < 0 {
		logger.Warn("Cart item not found for update", map[string]interface{}{
			"session_id": s.sessionID,
			"variant_id": variantID,
		})
		return ErrCartItemNotFound
	}

	if quantity <= 0 {
		s.cart.Lines = append(s.cart.Lines[:idx], s.cart.Lines[idx+1:]...)
	} else {
		s.cart.Lines[idx].Quantity = quantity
	}

	logger.Info("Cart item updated", map[string]interface{}{
		"session_id": s.sessionID,
		"variant_id": variantID,
		"quantity":   quantity,
	})
	return s.persistAndNotify()
}

func (s *cartService) RemoveItem(variantID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.cart.LineIndex(variantID)
	if idx < 0 {
		// Removal is idempotent: an absent line is not an error.
		return nil
	}
	s.cart.Lines = append(s.cart.Lines[:idx], s.cart.Lines[idx+1:]...)

	logger.Info("Cart item removed", map[string]interface{}{
		"session_id": s.sessionID,
		"variant_id": variantID,
	})
	return s.persistAndNotify()
}

func (s *cartService) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cart = model.Cart{}
	logger.Info("Cart cleared", map[string]interface{}{
		"session_id": s.sessionID,
	})
	return s.persistAndNotify()
}

func (s *cartService) Subscribe(observer CartObserver) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextObsID
	s.nextObsID++
	s.observers[id] = observer

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.observers, id)
	}
}

// persistAndNotify runs with s.mu held, so a burst of mutations lands
// in order and the final persisted snapshot equals the final in-memory
// state. Observers see the snapshot even when persistence fails: the
// in-memory cart stays authoritative for the session.
func (s *cartService) persistAndNotify() error {
	snapshot := s.cart.Clone()

	persistErr := s.repo.Save(context.Background(), s.sessionID, snapshot)
	if persistErr != nil {
		logger.Error("Failed to persist cart snapshot", persistErr, map[string]interface{}{
			"session_id": s.sessionID,
		})
	}

	for _, observer := range s.observers {
		observer(snapshot)
	}

	if persistErr != nil {
		return fmt.Errorf("%w: %v", ErrCartPersist, persistErr)
	}
	return nil
}

func newLineItem(product model.Product, variant model.Variant, quantity int) model.LineItem {
	opts := make([]model.SelectedOption, len(variant.SelectedOptions))
	copy(opts, variant.SelectedOptions)

	snapshot := model.ProductSnapshot{
		ID:     product.ID,
		Handle: product.Handle,
		Title:  product.Title,
	}
	if img := product.FeaturedImage(); img != nil {
		snapshot.ImageURL = img.URL
	}

	return model.LineItem{
		VariantID:       variant.ID,
		Product:         snapshot,
		VariantTitle:    variant.Title,
		Price:           variant.Price,
		SelectedOptions: opts,
		Quantity:        quantity,
	}
}

// CartRegistry hands out the per-session cart store, creating and
// rehydrating it on first access. onCreate hooks run once per new
// store, before it is shared; observers wired there see every mutation.
type CartRegistry struct {
	repo     repository.CartRepository
	onCreate []func(sessionID string, cart CartService)

	mu       sync.Mutex
	carts    map[string]CartService
	lastSeen map[string]time.Time
}

func NewCartRegistry(repo repository.CartRepository, onCreate ...func(sessionID string, cart CartService)) *CartRegistry {
	return &CartRegistry{
		repo:     repo,
		onCreate: onCreate,
		carts:    make(map[string]CartService),
		lastSeen: make(map[string]time.Time),
	}
}

func (r *CartRegistry) ForSession(ctx context.Context, sessionID string) CartService {
	r.mu.Lock()
	defer r.mu.Unlock()

	if cart, ok := r.carts[sessionID]; ok {
		r.lastSeen[sessionID] = time.Now()
		return cart
	}
	cart := NewCartService(ctx, sessionID, r.repo)
	for _, hook := range r.onCreate {
		hook(sessionID, cart)
	}
	r.carts[sessionID] = cart
	r.lastSeen[sessionID] = time.Now()
	return cart
}

// EvictIdle drops cart stores untouched for longer than maxIdle and
// returns how many were removed. Every mutation persists the full
// snapshot, so an evicted store rehydrates losslessly on the session's
// next request.
func (r *CartRegistry) EvictIdle(maxIdle time.Duration) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := time.Now().Add(-maxIdle)
	evicted := 0
	for sessionID, seen := range r.lastSeen {
		if seen.Before(cutoff) {
			delete(r.carts, sessionID)
			delete(r.lastSeen, sessionID)
			evicted++
		}
	}
	return evicted
}
