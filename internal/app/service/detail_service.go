package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/krale/krale-storefront/internal/app/model"
	"github.com/krale/krale-storefront/pkg/logger"
)

var (
	ErrNoMatchingVariant = errors.New("no variant matches the selection")
	ErrNoProductLoaded   = errors.New("no product loaded for this session")
	ErrInvalidImageIndex = errors.New("image index out of range")
	// ErrStaleLoad marks a product load superseded by a newer one for
	// the same session; its response was discarded, not applied.
	ErrStaleLoad = errors.New("product load superseded")
)

// DetailView is what the detail page renders: the product, the current
// image and variant selection, and whether purchase is possible.
type DetailView struct {
	Product                *model.Product    `json:"product"`
	ImageIndex             int               `json:"image_index"`
	VariantIndex           int               `json:"variant_index"`
	Variant                *model.Variant    `json:"variant,omitempty"`
	Selections             map[string]string `json:"selections"`
	Available              bool              `json:"available"`
	UnavailableCombination bool              `json:"unavailable_combination"`
}

// detailSession is the per-session selection state of a product detail
// view. It is ephemeral: loading a different handle resets it.
type detailSession struct {
	mu           sync.Mutex
	generation   uint64
	handle       string
	product      *model.Product
	selections   map[string]string
	variantIndex int
	imageIndex   int
	unavailable  bool

	// lastSeen is guarded by DetailService.mu, not sess.mu.
	lastSeen time.Time
}

// DetailService orchestrates catalog, resolver and cart for product
// detail pages, one selection state per shopper session.
type DetailService struct {
	catalog CatalogService

	mu       sync.Mutex
	sessions map[string]*detailSession
}

func NewDetailService(catalog CatalogService) *DetailService {
	return &DetailService{
		catalog:  catalog,
		sessions: make(map[string]*detailSession),
	}
}

func (s *DetailService) session(sessionID string) *detailSession {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[sessionID]
	if !ok {
		sess = &detailSession{variantIndex: -1}
		s.sessions[sessionID] = sess
	}
	sess.lastSeen = time.Now()
	return sess
}

// EvictIdle drops sessions untouched for longer than maxIdle and
// returns how many were removed. Detail state is ephemeral selection
// state; an evicted shopper simply starts from a fresh product load.
func (s *DetailService) EvictIdle(maxIdle time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := time.Now().Add(-maxIdle)
	evicted := 0
	for sessionID, sess := range s.sessions {
		if sess.lastSeen.Before(cutoff) {
			delete(s.sessions, sessionID)
			evicted++
		}
	}
	return evicted
}

// LoadProduct fetches the product for a handle and resets the
// session's selection state to defaults. Loads are guarded by a
// per-session generation counter: a response arriving for a
// superseded load is discarded rather than applied.
func (s *DetailService) LoadProduct(ctx context.Context, sessionID, handle string) (*DetailView, error) {
	sess := s.session(sessionID)

	sess.mu.Lock()
	sess.generation++
	generation := sess.generation
	sess.mu.Unlock()

	// The fetch suspends only this request; other session operations
	// keep interleaving.
	product, err := s.catalog.GetProductByHandle(ctx, handle)

	sess.mu.Lock()
	defer sess.mu.Unlock()

	if sess.generation != generation {
		logger.Debug("Discarding stale product load", map[string]interface{}{
			"session_id": sessionID,
			"handle":     handle,
		})
		return nil, ErrStaleLoad
	}
	if err != nil {
		return nil, err
	}

	sess.handle = handle
	sess.product = product
	sess.selections = model.DefaultSelections(*product)
	sess.imageIndex = 0
	if idx, ok := model.ResolveVariant(*product, sess.selections); ok {
		sess.variantIndex = idx
		sess.unavailable = false
	} else {
		// Incomplete variant matrix: the defaults name a combination
		// the backend has no variant for. Keep index 0 for display but
		// flag the combination so purchase stays disabled.
		sess.variantIndex = 0
		sess.unavailable = true
		logger.Warn("Default selections resolve to no variant", map[string]interface{}{
			"session_id": sessionID,
			"handle":     handle,
		})
	}

	return sess.view(), nil
}

// SelectOption merges the clicked (name, value) pair into the current
// selections, defaulting unchosen axes, and resolves the variant. On
// no-match the prior selection is kept and the view surfaces the
// unavailable-combination state.
func (s *DetailService) SelectOption(sessionID, handle, name, value string) (*DetailView, error) {
	sess := s.session(sessionID)

	sess.mu.Lock()
	defer sess.mu.Unlock()

	if sess.product == nil || sess.handle != handle {
		return nil, ErrNoProductLoaded
	}

	merged := model.MergeSelection(*sess.product, sess.selections, name, value)
	idx, ok := model.ResolveVariant(*sess.product, merged)
	if !ok {
		sess.unavailable = true
		logger.Warn("Selection has no matching variant", map[string]interface{}{
			"session_id": sessionID,
			"handle":     handle,
			"option":     name,
			"value":      value,
		})
		return sess.view(), nil
	}

	sess.selections = merged
	sess.variantIndex = idx
	sess.unavailable = false
	return sess.view(), nil
}

// SelectImage moves the gallery selection.
func (s *DetailService) SelectImage(sessionID, handle string, index int) (*DetailView, error) {
	sess := s.session(sessionID)

	sess.mu.Lock()
	defer sess.mu.Unlock()

	if sess.product == nil || sess.handle != handle {
		return nil, ErrNoProductLoaded
	}
	if index < 0 || index >= len(sess.product.Images) {
		return nil, ErrInvalidImageIndex
	}

	sess.imageIndex = index
	return sess.view(), nil
}

// AddToCart adds the currently resolved variant to the session's cart.
// It is rejected when no variant is resolved or the resolved variant
// is not available for sale.
func (s *DetailService) AddToCart(sessionID, handle string, quantity int, cart CartService) (*DetailView, error) {
	sess := s.session(sessionID)

	sess.mu.Lock()
	defer sess.mu.Unlock()

	if sess.product == nil || sess.handle != handle {
		return nil, ErrNoProductLoaded
	}
	if sess.unavailable || sess.variantIndex < 0 || sess.variantIndex >= len(sess.product.Variants) {
		return nil, ErrNoMatchingVariant
	}

	variant := sess.product.Variants[sess.variantIndex]
	err := cart.AddItem(*sess.product, variant, quantity)
	if err != nil && !errors.Is(err, ErrCartPersist) {
		return nil, err
	}
	// A persistence failure is reported but the mutation stands.
	return sess.view(), err
}

// view runs with sess.mu held.
func (sess *detailSession) view() *DetailView {
	view := &DetailView{
		Product:                sess.product,
		ImageIndex:             sess.imageIndex,
		VariantIndex:           sess.variantIndex,
		Selections:             make(map[string]string, len(sess.selections)),
		UnavailableCombination: sess.unavailable,
	}
	for k, v := range sess.selections {
		view.Selections[k] = v
	}
	if sess.product != nil && !sess.unavailable &&
		sess.variantIndex >= 0 && sess.variantIndex < len(sess.product.Variants) {
		variant := sess.product.Variants[sess.variantIndex]
		view.Variant = &variant
		view.Available = variant.AvailableForSale
	}
	return view
}
