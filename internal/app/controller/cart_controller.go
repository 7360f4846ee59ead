package controller

import (
	goerrors "errors"
	"net/http"

	"github.com/gin-gonic/gin"
	gorillaws "github.com/gorilla/websocket"
	"github.com/krale/krale-storefront/internal/app/service"
	"github.com/krale/krale-storefront/internal/errors"
	"github.com/krale/krale-storefront/internal/middleware"
	"github.com/krale/krale-storefront/internal/websocket"
)

type CartController struct {
	cartRegistry *service.CartRegistry
	hub          *websocket.Hub
	upgrader     gorillaws.Upgrader
}

func NewCartController(cartRegistry *service.CartRegistry, hub *websocket.Hub) *CartController {
	return &CartController{
		cartRegistry: cartRegistry,
		hub:          hub,
		upgrader: gorillaws.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Origin is enforced by the CORS middleware upstream.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

type UpdateQuantityRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

// cartResponse renders the cart with its derived totals, optionally
// carrying a non-blocking persistence warning.
func (ctrl *CartController) cartResponse(c *gin.Context, status int, cart service.CartService, persistErr error) {
	snapshot := cart.Cart()
	response := gin.H{
		"lines":      snapshot.Lines,
		"subtotal":   snapshot.Subtotal(),
		"item_count": snapshot.ItemCount(),
	}
	if persistErr != nil {
		response["warning"] = errors.CartPersistFailed
	}
	c.JSON(status, response)
}

// GetCart returns the session's cart
// GET /api/v1/cart
func (ctrl *CartController) GetCart(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	sessionID, _ := middleware.GetSessionID(c)

	cart := ctrl.cartRegistry.ForSession(c.Request.Context(), sessionID)
	subtotal, itemCount := cart.Totals()

	log.Info("Cart fetched successfully", map[string]interface{}{
		"session_id": sessionID,
		"item_count": itemCount,
		"subtotal":   subtotal,
	})

	ctrl.cartResponse(c, http.StatusOK, cart, nil)
}

// UpdateQuantity sets a line's quantity; zero or less removes the line
// PUT /api/v1/cart/:variant_id
func (ctrl *CartController) UpdateQuantity(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	sessionID, _ := middleware.GetSessionID(c)
	variantID := c.Param("variant_id")

	var req UpdateQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid cart update request", map[string]interface{}{
			"variant_id": variantID,
			"error":      err.Error(),
		})
		errors.BadRequest(c, errors.ValidationInvalidInput, "Quantity is required")
		return
	}

	cart := ctrl.cartRegistry.ForSession(c.Request.Context(), sessionID)
	err := cart.UpdateQuantity(variantID, *req.Quantity)
	if err != nil && !goerrors.Is(err, service.ErrCartPersist) {
		errors.Respond(c, err)
		return
	}

	log.Info("Cart item updated", map[string]interface{}{
		"variant_id": variantID,
		"quantity":   *req.Quantity,
	})

	ctrl.cartResponse(c, http.StatusOK, cart, err)
}

// RemoveItem removes a line; absent lines are a successful no-op
// DELETE /api/v1/cart/:variant_id
func (ctrl *CartController) RemoveItem(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	sessionID, _ := middleware.GetSessionID(c)
	variantID := c.Param("variant_id")

	cart := ctrl.cartRegistry.ForSession(c.Request.Context(), sessionID)
	err := cart.RemoveItem(variantID)
	if err != nil && !goerrors.Is(err, service.ErrCartPersist) {
		errors.Respond(c, err)
		return
	}

	log.Info("Cart item removed", map[string]interface{}{
		"variant_id": variantID,
	})

	ctrl.cartResponse(c, http.StatusOK, cart, err)
}

// ClearCart empties the cart
// DELETE /api/v1/cart
func (ctrl *CartController) ClearCart(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	sessionID, _ := middleware.GetSessionID(c)

	cart := ctrl.cartRegistry.ForSession(c.Request.Context(), sessionID)
	err := cart.Clear()
	if err != nil && !goerrors.Is(err, service.ErrCartPersist) {
		errors.Respond(c, err)
		return
	}

	log.Info("Cart cleared", map[string]interface{}{
		"session_id": sessionID,
	})

	ctrl.cartResponse(c, http.StatusOK, cart, err)
}

// Subscribe upgrades to a websocket pushing cart updates for the session
// GET /api/v1/cart/ws
func (ctrl *CartController) Subscribe(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	sessionID, _ := middleware.GetSessionID(c)

	// Ensure the cart exists so its observer feeds the hub.
	ctrl.cartRegistry.ForSession(c.Request.Context(), sessionID)

	conn, err := ctrl.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error("WebSocket upgrade failed", err, map[string]interface{}{
			"session_id": sessionID,
		})
		return
	}

	client := websocket.NewClient(ctrl.hub, conn, sessionID)
	client.Register()

	go client.WritePump()
	go client.ReadPump()
}
