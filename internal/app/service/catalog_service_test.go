package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/krale/krale-storefront/internal/app/model"
)

type fakeStorefrontClient struct {
	mu       sync.Mutex
	products []model.Product
	fetches  int
	err      error
}

func (c *fakeStorefrontClient) FetchCatalog(context.Context, int) ([]model.Product, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fetches++
	if c.err != nil {
		return nil, c.err
	}
	products := make([]model.Product, len(c.products))
	copy(products, c.products)
	return products, nil
}

func (c *fakeStorefrontClient) FetchProductByHandle(_ context.Context, handle string) (*model.Product, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fetches++
	if c.err != nil {
		return nil, c.err
	}
	for _, p := range c.products {
		if p.Handle == handle {
			clone := p
			return &clone, nil
		}
	}
	return nil, nil
}

func (c *fakeStorefrontClient) fetchCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fetches
}

func TestCatalogService_ListProducts_WarmsOnce(t *testing.T) {
	client := &fakeStorefrontClient{products: []model.Product{cartTestProduct()}}
	catalog := NewCatalogService(client, 20, time.Minute)

	products, err := catalog.ListProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 1)

	// Second list within the TTL serves the snapshot.
	_, err = catalog.ListProducts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, client.fetchCount())
}

func TestCatalogService_ListProducts_ExpiredSnapshotRefetches(t *testing.T) {
	client := &fakeStorefrontClient{products: []model.Product{cartTestProduct()}}
	catalog := NewCatalogService(client, 20, time.Nanosecond)

	_, err := catalog.ListProducts(context.Background())
	require.NoError(t, err)

	time.Sleep(time.Millisecond)
	_, err = catalog.ListProducts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, client.fetchCount())
}

func TestCatalogService_ListProducts_FetchError(t *testing.T) {
	fetchErr := errors.New("backend down")
	client := &fakeStorefrontClient{err: fetchErr}
	catalog := NewCatalogService(client, 20, time.Minute)

	_, err := catalog.ListProducts(context.Background())
	assert.ErrorIs(t, err, fetchErr)
}

func TestCatalogService_ListProducts_NoStaleDataPastTTL(t *testing.T) {
	client := &fakeStorefrontClient{products: []model.Product{cartTestProduct()}}
	catalog := NewCatalogService(client, 20, time.Nanosecond)

	_, err := catalog.ListProducts(context.Background())
	require.NoError(t, err)

	// Backend goes down after the snapshot expires: the error
	// propagates instead of the stale snapshot being served.
	time.Sleep(time.Millisecond)
	client.mu.Lock()
	client.err = errors.New("backend down")
	client.mu.Unlock()

	_, err = catalog.ListProducts(context.Background())
	assert.Error(t, err)
}

func TestCatalogService_GetProductByHandle_AlwaysFresh(t *testing.T) {
	client := &fakeStorefrontClient{products: []model.Product{cartTestProduct()}}
	catalog := NewCatalogService(client, 20, time.Minute)

	for i := 0; i < 3; i++ {
		product, err := catalog.GetProductByHandle(context.Background(), "under-eye-corrector")
		require.NoError(t, err)
		assert.Equal(t, "under-eye-corrector", product.Handle)
	}
	assert.Equal(t, 3, client.fetchCount())
}

func TestCatalogService_GetProductByHandle_NotFound(t *testing.T) {
	client := &fakeStorefrontClient{products: []model.Product{cartTestProduct()}}
	catalog := NewCatalogService(client, 20, time.Minute)

	_, err := catalog.GetProductByHandle(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestCatalogService_Warm(t *testing.T) {
	client := &fakeStorefrontClient{products: []model.Product{cartTestProduct()}}
	catalog := NewCatalogService(client, 20, time.Minute)

	require.NoError(t, catalog.Warm(context.Background()))

	// The warmed snapshot serves the next list without a fetch.
	_, err := catalog.ListProducts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, client.fetchCount())
}
