package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/krale/krale-storefront/internal/app/model"
	"github.com/krale/krale-storefront/internal/app/service"
	"github.com/krale/krale-storefront/internal/middleware"
	"github.com/krale/krale-storefront/internal/websocket"
	"github.com/krale/krale-storefront/pkg/storefront"
)

const testSessionID = "test-session"

type fakeCatalogService struct {
	mu       sync.Mutex
	products map[string]model.Product
	listErr  error
	fetchErr error
}

func newFakeCatalogService(products ...model.Product) *fakeCatalogService {
	c := &fakeCatalogService{products: make(map[string]model.Product)}
	for _, p := range products {
		c.products[p.Handle] = p
	}
	return c
}

func (c *fakeCatalogService) ListProducts(context.Context) ([]model.Product, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.listErr != nil {
		return nil, c.listErr
	}
	products := make([]model.Product, 0, len(c.products))
	for _, p := range c.products {
		products = append(products, p)
	}
	return products, nil
}

func (c *fakeCatalogService) GetProductByHandle(_ context.Context, handle string) (*model.Product, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fetchErr != nil {
		return nil, c.fetchErr
	}
	p, ok := c.products[handle]
	if !ok {
		return nil, service.ErrProductNotFound
	}
	clone := p
	return &clone, nil
}

func (c *fakeCatalogService) Warm(context.Context) error { return nil }

type memoryCartRepository struct {
	mu    sync.Mutex
	carts map[string]model.Cart
}

func newMemoryCartRepository() *memoryCartRepository {
	return &memoryCartRepository{carts: make(map[string]model.Cart)}
}

func (r *memoryCartRepository) Load(_ context.Context, sessionID string) (model.Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.carts[sessionID].Clone(), nil
}

func (r *memoryCartRepository) Save(_ context.Context, sessionID string, cart model.Cart) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.carts[sessionID] = cart.Clone()
	return nil
}

func (r *memoryCartRepository) Delete(_ context.Context, sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.carts, sessionID)
	return nil
}

func controllerTestProduct() model.Product {
	return model.Product{
		ID:     "gid://shop/Product/1",
		Handle: "under-eye-corrector",
		Title:  "Under-Eye Corrector",
		Options: []model.Option{
			{Name: "Shade", Values: []string{"Fair", "Light"}},
			{Name: "Size", Values: []string{"Standard", "Travel"}},
		},
		Variants: []model.Variant{
			controllerTestVariant("v1", "Fair", "Standard", true),
			controllerTestVariant("v2", "Fair", "Travel", true),
			controllerTestVariant("v3", "Light", "Standard", true),
			// Light / Travel intentionally missing.
		},
		Images: []model.Image{
			{URL: "https://cdn.example.com/front.jpg"},
			{URL: "https://cdn.example.com/swatch.jpg"},
		},
	}
}

func controllerTestVariant(id, shade, size string, available bool) model.Variant {
	return model.Variant{
		ID:               id,
		Title:            shade + " / " + size,
		Price:            model.Money{Amount: 32.00, CurrencyCode: "USD"},
		AvailableForSale: available,
		SelectedOptions: []model.SelectedOption{
			{Name: "Shade", Value: shade},
			{Name: "Size", Value: size},
		},
	}
}

type testEnv struct {
	engine  *gin.Engine
	catalog *fakeCatalogService
	hub     *websocket.Hub
}

func setupControllerTest(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	catalog := newFakeCatalogService(controllerTestProduct())
	detailService := service.NewDetailService(catalog)

	hub := websocket.NewHub()
	go hub.Run()

	cartRegistry := service.NewCartRegistry(
		newMemoryCartRepository(),
		func(sessionID string, cart service.CartService) {
			cart.Subscribe(func(snapshot model.Cart) {
				hub.BroadcastCart(sessionID, snapshot)
			})
		},
	)

	productController := NewProductController(catalog, detailService, cartRegistry)
	cartController := NewCartController(cartRegistry, hub)

	// Register the production routes on a bare engine; the router
	// package itself depends on this one.
	engine := gin.New()
	engine.Use(middleware.SessionMiddleware())

	v1 := engine.Group("/api/v1")
	products := v1.Group("/products")
	products.GET("", productController.ListProducts)
	products.GET("/:handle", productController.GetProductByHandle)
	products.POST("/:handle/option", productController.SelectOption)
	products.POST("/:handle/image", productController.SelectImage)
	products.POST("/:handle/cart", productController.AddToCart)

	cart := v1.Group("/cart")
	cart.GET("", cartController.GetCart)
	cart.GET("/ws", cartController.Subscribe)
	cart.PUT("/:variant_id", cartController.UpdateQuantity)
	cart.DELETE("/:variant_id", cartController.RemoveItem)
	cart.DELETE("", cartController.ClearCart)

	return &testEnv{engine: engine, catalog: catalog, hub: hub}
}

func (env *testEnv) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reqBody *bytes.Buffer
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reqBody = bytes.NewBuffer(data)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(&http.Cookie{Name: middleware.SessionCookie, Value: testSessionID})

	w := httptest.NewRecorder()
	env.engine.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestProductController_ListProducts(t *testing.T) {
	env := setupControllerTest(t)

	w := env.do(t, "GET", "/api/v1/products", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, float64(1), body["count"])
}

func TestProductController_ListProducts_BackendDown(t *testing.T) {
	env := setupControllerTest(t)
	env.catalog.mu.Lock()
	env.catalog.listErr = fmt.Errorf("%w: connection refused", storefront.ErrFetch)
	env.catalog.mu.Unlock()

	w := env.do(t, "GET", "/api/v1/products", nil)

	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, w.Body.String(), "STOREFRONT_FETCH_FAILED")
}

func TestProductController_GetProductByHandle(t *testing.T) {
	env := setupControllerTest(t)

	w := env.do(t, "GET", "/api/v1/products/under-eye-corrector", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, float64(0), body["image_index"])
	assert.Equal(t, true, body["available"])

	selections := body["selections"].(map[string]interface{})
	assert.Equal(t, "Fair", selections["Shade"])
	assert.Equal(t, "Standard", selections["Size"])
}

func TestProductController_GetProductByHandle_NotFound(t *testing.T) {
	env := setupControllerTest(t)

	w := env.do(t, "GET", "/api/v1/products/missing", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "PRODUCT_NOT_FOUND")
}

func TestProductController_SelectOption(t *testing.T) {
	env := setupControllerTest(t)
	require.Equal(t, http.StatusOK, env.do(t, "GET", "/api/v1/products/under-eye-corrector", nil).Code)

	w := env.do(t, "POST", "/api/v1/products/under-eye-corrector/option",
		gin.H{"name": "Size", "value": "Travel"})

	assert.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	variant := body["variant"].(map[string]interface{})
	assert.Equal(t, "v2", variant["id"])
	assert.Equal(t, false, body["unavailable_combination"])
}

func TestProductController_SelectOption_UnavailableCombination(t *testing.T) {
	env := setupControllerTest(t)
	require.Equal(t, http.StatusOK, env.do(t, "GET", "/api/v1/products/under-eye-corrector", nil).Code)
	require.Equal(t, http.StatusOK, env.do(t, "POST", "/api/v1/products/under-eye-corrector/option",
		gin.H{"name": "Size", "value": "Travel"}).Code)

	// Light / Travel does not exist: still a 200, flagged in the view.
	w := env.do(t, "POST", "/api/v1/products/under-eye-corrector/option",
		gin.H{"name": "Shade", "value": "Light"})

	assert.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, true, body["unavailable_combination"])
	assert.Equal(t, false, body["available"])
	assert.Nil(t, body["variant"])
}

func TestProductController_SelectOption_MissingBody(t *testing.T) {
	env := setupControllerTest(t)
	require.Equal(t, http.StatusOK, env.do(t, "GET", "/api/v1/products/under-eye-corrector", nil).Code)

	w := env.do(t, "POST", "/api/v1/products/under-eye-corrector/option", gin.H{"name": "Size"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "VALIDATION_INVALID_INPUT")
}

func TestProductController_SelectOption_NoProductLoaded(t *testing.T) {
	env := setupControllerTest(t)

	w := env.do(t, "POST", "/api/v1/products/under-eye-corrector/option",
		gin.H{"name": "Shade", "value": "Fair"})

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "PRODUCT_NOT_LOADED")
}

func TestProductController_SelectImage(t *testing.T) {
	env := setupControllerTest(t)
	require.Equal(t, http.StatusOK, env.do(t, "GET", "/api/v1/products/under-eye-corrector", nil).Code)

	w := env.do(t, "POST", "/api/v1/products/under-eye-corrector/image", gin.H{"index": 1})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), decodeBody(t, w)["image_index"])

	w = env.do(t, "POST", "/api/v1/products/under-eye-corrector/image", gin.H{"index": 5})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "VALIDATION_INVALID_RANGE")
}

func TestProductController_AddToCart(t *testing.T) {
	env := setupControllerTest(t)
	require.Equal(t, http.StatusOK, env.do(t, "GET", "/api/v1/products/under-eye-corrector", nil).Code)

	w := env.do(t, "POST", "/api/v1/products/under-eye-corrector/cart", gin.H{"quantity": 2})

	assert.Equal(t, http.StatusCreated, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, float64(2), body["item_count"])
	assert.InDelta(t, 64.00, body["subtotal"].(float64), 0.001)
	assert.NotContains(t, body, "warning")
}

func TestProductController_AddToCart_DefaultQuantity(t *testing.T) {
	env := setupControllerTest(t)
	require.Equal(t, http.StatusOK, env.do(t, "GET", "/api/v1/products/under-eye-corrector", nil).Code)

	// Empty body defaults to quantity 1.
	w := env.do(t, "POST", "/api/v1/products/under-eye-corrector/cart", nil)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, float64(1), decodeBody(t, w)["item_count"])
}

func TestProductController_AddToCart_InvalidQuantity(t *testing.T) {
	env := setupControllerTest(t)
	require.Equal(t, http.StatusOK, env.do(t, "GET", "/api/v1/products/under-eye-corrector", nil).Code)

	w := env.do(t, "POST", "/api/v1/products/under-eye-corrector/cart", gin.H{"quantity": 0})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "CART_INVALID_QUANTITY")
}

func TestProductController_AddToCart_UnresolvedCombination(t *testing.T) {
	env := setupControllerTest(t)
	require.Equal(t, http.StatusOK, env.do(t, "GET", "/api/v1/products/under-eye-corrector", nil).Code)
	require.Equal(t, http.StatusOK, env.do(t, "POST", "/api/v1/products/under-eye-corrector/option",
		gin.H{"name": "Size", "value": "Travel"}).Code)
	require.Equal(t, http.StatusOK, env.do(t, "POST", "/api/v1/products/under-eye-corrector/option",
		gin.H{"name": "Shade", "value": "Light"}).Code)

	w := env.do(t, "POST", "/api/v1/products/under-eye-corrector/cart", nil)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "VARIANT_NO_MATCH")
}

func TestProductController_AddToCart_NoProductLoaded(t *testing.T) {
	env := setupControllerTest(t)

	w := env.do(t, "POST", "/api/v1/products/under-eye-corrector/cart", nil)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "PRODUCT_NOT_LOADED")
}
