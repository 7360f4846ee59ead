package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/krale/krale-storefront/internal/app/model"
	"github.com/krale/krale-storefront/pkg/logger"
)

var ErrProductNotFound = errors.New("product not found")

// StorefrontClient is the query boundary to the commerce backend.
type StorefrontClient interface {
	FetchCatalog(ctx context.Context, pageSize int) ([]model.Product, error)
	FetchProductByHandle(ctx context.Context, handle string) (*model.Product, error)
}

// CatalogService serves the product grid and single-product lookups.
// The client itself never caches; this layer keeps a warmed catalog
// snapshot (refreshed by the scheduler) so the grid renders without a
// round trip while the snapshot is fresh.
type CatalogService interface {
	ListProducts(ctx context.Context) ([]model.Product, error)
	GetProductByHandle(ctx context.Context, handle string) (*model.Product, error)
	// Warm refreshes the catalog snapshot unconditionally.
	Warm(ctx context.Context) error
}

type catalogService struct {
	client   StorefrontClient
	pageSize int
	cacheTTL time.Duration

	mu       sync.RWMutex
	snapshot []model.Product
	warmedAt time.Time
}

func NewCatalogService(client StorefrontClient, pageSize int, cacheTTL time.Duration) CatalogService {
	return &catalogService{
		client:   client,
		pageSize: pageSize,
		cacheTTL: cacheTTL,
	}
}

func (s *catalogService) ListProducts(ctx context.Context) ([]model.Product, error) {
	s.mu.RLock()
	if s.snapshot != nil && time.Since(s.warmedAt) < s.cacheTTL {
		products := make([]model.Product, len(s.snapshot))
		copy(products, s.snapshot)
		s.mu.RUnlock()
		return products, nil
	}
	s.mu.RUnlock()

	if err := s.Warm(ctx); err != nil {
		// A cold or expired snapshot stays a retryable failure; stale
		// data is never served past its TTL.
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	products := make([]model.Product, len(s.snapshot))
	copy(products, s.snapshot)
	return products, nil
}

// GetProductByHandle always fetches fresh: detail views need current
// price and availability.
func (s *catalogService) GetProductByHandle(ctx context.Context, handle string) (*model.Product, error) {
	product, err := s.client.FetchProductByHandle(ctx, handle)
	if err != nil {
		logger.Error("Failed to fetch product", err, map[string]interface{}{
			"handle": handle,
		})
		return nil, err
	}
	if product == nil {
		logger.Warn("Product not found", map[string]interface{}{
			"handle": handle,
		})
		return nil, ErrProductNotFound
	}
	return product, nil
}

func (s *catalogService) Warm(ctx context.Context) error {
	products, err := s.client.FetchCatalog(ctx, s.pageSize)
	if err != nil {
		logger.Error("Failed to warm catalog snapshot", err, map[string]interface{}{
			"page_size": s.pageSize,
		})
		return err
	}

	s.mu.Lock()
	s.snapshot = products
	s.warmedAt = time.Now()
	s.mu.Unlock()

	logger.Info("Catalog snapshot warmed", map[string]interface{}{
		"count": len(products),
	})
	return nil
}
