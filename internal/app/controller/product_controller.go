package controller

import (
	goerrors "errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/krale/krale-storefront/internal/app/service"
	"github.com/krale/krale-storefront/internal/errors"
	"github.com/krale/krale-storefront/internal/middleware"
)

type ProductController struct {
	catalogService service.CatalogService
	detailService  *service.DetailService
	cartRegistry   *service.CartRegistry
}

func NewProductController(
	catalogService service.CatalogService,
	detailService *service.DetailService,
	cartRegistry *service.CartRegistry,
) *ProductController {
	return &ProductController{
		catalogService: catalogService,
		detailService:  detailService,
		cartRegistry:   cartRegistry,
	}
}

type SelectOptionRequest struct {
	Name  string `json:"name" binding:"required"`
	Value string `json:"value" binding:"required"`
}

type SelectImageRequest struct {
	Index *int `json:"index" binding:"required"`
}

type AddToCartRequest struct {
	// Quantity defaults to 1 when omitted.
	Quantity *int `json:"quantity"`
}

// ListProducts returns the featured catalog page
// GET /api/v1/products
func (ctrl *ProductController) ListProducts(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	products, err := ctrl.catalogService.ListProducts(c.Request.Context())
	if err != nil {
		log.Error("Failed to fetch catalog", err, nil)
		errors.Respond(c, err)
		return
	}

	log.Info("Catalog fetched successfully", map[string]interface{}{
		"count": len(products),
	})

	c.JSON(http.StatusOK, gin.H{
		"products": products,
		"count":    len(products),
	})
}

// GetProductByHandle loads a product into the session's detail view
// GET /api/v1/products/:handle
func (ctrl *ProductController) GetProductByHandle(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	sessionID, _ := middleware.GetSessionID(c)
	handle := c.Param("handle")

	view, err := ctrl.detailService.LoadProduct(c.Request.Context(), sessionID, handle)
	if err != nil {
		log.Warn("Product load failed", map[string]interface{}{
			"handle": handle,
			"error":  err.Error(),
		})
		errors.Respond(c, err)
		return
	}

	log.Info("Product loaded", map[string]interface{}{
		"handle":     handle,
		"product_id": view.Product.ID,
	})

	c.JSON(http.StatusOK, view)
}

// SelectOption applies an option click to the session's detail view
// POST /api/v1/products/:handle/option
func (ctrl *ProductController) SelectOption(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	sessionID, _ := middleware.GetSessionID(c)
	handle := c.Param("handle")

	var req SelectOptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid option selection request", map[string]interface{}{
			"handle": handle,
			"error":  err.Error(),
		})
		errors.BadRequest(c, errors.ValidationInvalidInput, "Option name and value are required")
		return
	}

	view, err := ctrl.detailService.SelectOption(sessionID, handle, req.Name, req.Value)
	if err != nil {
		errors.Respond(c, err)
		return
	}

	if view.UnavailableCombination {
		log.Warn("Unavailable option combination", map[string]interface{}{
			"handle": handle,
			"option": req.Name,
			"value":  req.Value,
		})
	}

	c.JSON(http.StatusOK, view)
}

// SelectImage moves the gallery selection
// POST /api/v1/products/:handle/image
func (ctrl *ProductController) SelectImage(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	sessionID, _ := middleware.GetSessionID(c)
	handle := c.Param("handle")

	var req SelectImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid image selection request", map[string]interface{}{
			"handle": handle,
			"error":  err.Error(),
		})
		errors.BadRequest(c, errors.ValidationInvalidInput, "Image index is required")
		return
	}

	view, err := ctrl.detailService.SelectImage(sessionID, handle, *req.Index)
	if err != nil {
		errors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

// AddToCart adds the session's resolved variant to its cart
// POST /api/v1/products/:handle/cart
func (ctrl *ProductController) AddToCart(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	sessionID, _ := middleware.GetSessionID(c)
	handle := c.Param("handle")

	var req AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		log.Warn("Invalid add to cart request", map[string]interface{}{
			"handle": handle,
			"error":  err.Error(),
		})
		errors.BadRequest(c, errors.ValidationInvalidInput, "Invalid request data")
		return
	}
	quantity := 1
	if req.Quantity != nil {
		quantity = *req.Quantity
	}

	cart := ctrl.cartRegistry.ForSession(c.Request.Context(), sessionID)
	view, err := ctrl.detailService.AddToCart(sessionID, handle, quantity, cart)
	if err != nil && !goerrors.Is(err, service.ErrCartPersist) {
		log.Warn("Add to cart rejected", map[string]interface{}{
			"handle":   handle,
			"quantity": quantity,
			"error":    err.Error(),
		})
		errors.Respond(c, err)
		return
	}

	snapshot := cart.Cart()
	response := gin.H{
		"view":       view,
		"lines":      snapshot.Lines,
		"subtotal":   snapshot.Subtotal(),
		"item_count": snapshot.ItemCount(),
	}
	if goerrors.Is(err, service.ErrCartPersist) {
		// Durability failed but the in-memory cart is authoritative;
		// surface a non-blocking warning.
		log.Error("Cart persisted with error", err, map[string]interface{}{
			"handle": handle,
		})
		response["warning"] = errors.CartPersistFailed
	}

	log.Info("Item added to cart", map[string]interface{}{
		"handle":   handle,
		"quantity": quantity,
	})

	c.JSON(http.StatusCreated, response)
}
