// mockshop serves a fixture catalog over the storefront query
// protocol so the server can be developed and demoed without the
// hosted commerce backend.
package main

import (
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/krale/krale-storefront/pkg/logger"
)

type fixtureVariant struct {
	id        string
	title     string
	amount    string
	available bool
	options   map[string]string
	optOrder  []string
}

type fixtureProduct struct {
	id          string
	handle      string
	title       string
	description string
	options     []gin.H
	images      []gin.H
	variants    []fixtureVariant
}

func main() {
	logger.Initialize(logger.Config{Level: "info", Format: "console", EnableColor: true})

	port := os.Getenv("MOCKSHOP_PORT")
	if port == "" {
		port = "9090"
	}

	catalog := fixtureCatalog()

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	router.POST("/api/2024-01/graphql.json", func(c *gin.Context) {
		var req struct {
			Query     string                 `json:"query"`
			Variables map[string]interface{} `json:"variables"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"errors": []gin.H{{"message": "invalid request body"}},
			})
			return
		}

		switch {
		case strings.Contains(req.Query, "productByHandle"):
			handle, _ := req.Variables["handle"].(string)
			var node gin.H
			for _, p := range catalog {
				if p.handle == handle {
					node = productNode(p)
					break
				}
			}
			// Unknown handle is a successful null, not an error.
			c.JSON(http.StatusOK, gin.H{"data": gin.H{"productByHandle": node}})

		case strings.Contains(req.Query, "products("):
			first := len(catalog)
			if f, ok := req.Variables["first"].(float64); ok && int(f) < first {
				first = int(f)
			}
			edges := make([]gin.H, 0, first)
			for _, p := range catalog[:first] {
				edges = append(edges, gin.H{"node": productNode(p)})
			}
			c.JSON(http.StatusOK, gin.H{"data": gin.H{"products": gin.H{"edges": edges}}})

		default:
			c.JSON(http.StatusOK, gin.H{
				"errors": []gin.H{{"message": "unsupported query"}},
			})
		}
	})

	addr := fmt.Sprintf(":%s", port)
	logger.Info("Mock shop listening", map[string]interface{}{
		"address":  addr,
		"products": len(catalog),
	})
	if err := router.Run(addr); err != nil {
		logger.Fatal("Mock shop failed", err)
	}
}

func productNode(p fixtureProduct) gin.H {
	imageEdges := make([]gin.H, 0, len(p.images))
	for _, img := range p.images {
		imageEdges = append(imageEdges, gin.H{"node": img})
	}

	variantEdges := make([]gin.H, 0, len(p.variants))
	for _, v := range p.variants {
		selected := make([]gin.H, 0, len(v.optOrder))
		for _, name := range v.optOrder {
			selected = append(selected, gin.H{"name": name, "value": v.options[name]})
		}
		variantEdges = append(variantEdges, gin.H{"node": gin.H{
			"id":               v.id,
			"title":            v.title,
			"availableForSale": v.available,
			"price":            gin.H{"amount": v.amount, "currencyCode": "USD"},
			"selectedOptions":  selected,
		}})
	}

	return gin.H{
		"id":          p.id,
		"handle":      p.handle,
		"title":       p.title,
		"description": p.description,
		"options":     p.options,
		"images":      gin.H{"edges": imageEdges},
		"variants":    gin.H{"edges": variantEdges},
	}
}

func fixtureCatalog() []fixtureProduct {
	shades := []string{"Fair", "Light", "Medium", "Tan"}
	sizes := []string{"Standard", "Travel"}

	corrector := fixtureProduct{
		id:          "gid://shop/Product/1",
		handle:      "under-eye-corrector",
		title:       "KRALE Under-Eye Corrector",
		description: "Heat-resistant under-eye corrector with buildable, lightweight coverage.",
		options: []gin.H{
			{"name": "Shade", "values": shades},
			{"name": "Size", "values": sizes},
		},
		images: []gin.H{
			{"url": "https://cdn.example.com/corrector-front.jpg", "altText": "Corrector, front"},
			{"url": "https://cdn.example.com/corrector-swatch.jpg", "altText": "Shade swatches"},
		},
	}
	n := 0
	for _, shade := range shades {
		for _, size := range sizes {
			n++
			price := "32.00"
			if size == "Travel" {
				price = "18.00"
			}
			corrector.variants = append(corrector.variants, fixtureVariant{
				id:        fmt.Sprintf("gid://shop/ProductVariant/%d", n),
				title:     fmt.Sprintf("%s / %s", shade, size),
				amount:    price,
				available: !(shade == "Tan" && size == "Travel"), // sold out
				options:   map[string]string{"Shade": shade, "Size": size},
				optOrder:  []string{"Shade", "Size"},
			})
		}
	}

	brush := fixtureProduct{
		id:          "gid://shop/Product/2",
		handle:      "application-brush",
		title:       "Rose Gold Application Brush",
		description: "Ultra-soft synthetic bristles for precise under-eye application.",
		options: []gin.H{
			{"name": "Title", "values": []string{"Default Title"}},
		},
		images: []gin.H{
			{"url": "https://cdn.example.com/brush.jpg", "altText": "Application brush"},
		},
		variants: []fixtureVariant{{
			id:        "gid://shop/ProductVariant/100",
			title:     "Default Title",
			amount:    "14.00",
			available: true,
			options:   map[string]string{"Title": "Default Title"},
			optOrder:  []string{"Title"},
		}},
	}

	return []fixtureProduct{corrector, brush}
}
