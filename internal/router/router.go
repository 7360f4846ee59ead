package router

import (
	"github.com/gin-gonic/gin"
	"github.com/krale/krale-storefront/config"
	"github.com/krale/krale-storefront/internal/app/controller"
	"github.com/krale/krale-storefront/internal/middleware"
)

type Router struct {
	productController *controller.ProductController
	cartController    *controller.CartController
	config            *config.Config
}

func NewRouter(
	productController *controller.ProductController,
	cartController *controller.CartController,
	cfg *config.Config,
) *Router {
	return &Router{
		productController: productController,
		cartController:    cartController,
		config:            cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(corsMiddleware(r.config.CORS.AllowedOrigins))
	router.Use(middleware.SessionMiddleware())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"message": "KRALE storefront is running",
		})
	})

	v1 := router.Group("/api/v1")
	{
		products := v1.Group("/products")
		{
			products.GET("", r.productController.ListProducts)
			products.GET("/:handle", r.productController.GetProductByHandle)
			products.POST("/:handle/option", r.productController.SelectOption)
			products.POST("/:handle/image", r.productController.SelectImage)
			products.POST("/:handle/cart", r.productController.AddToCart)
		}

		cart := v1.Group("/cart")
		{
			cart.GET("", r.cartController.GetCart)
			cart.GET("/ws", r.cartController.Subscribe)
			cart.PUT("/:variant_id", r.cartController.UpdateQuantity)
			cart.DELETE("/:variant_id", r.cartController.RemoveItem)
			cart.DELETE("", r.cartController.ClearCart)
		}
	}

	return router
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		allowed := false
		for _, allowedOrigin := range allowedOrigins {
			if origin == allowedOrigin || allowedOrigin == "*" {
				allowed = true
				break
			}
		}

		if allowed {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
