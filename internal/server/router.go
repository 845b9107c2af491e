// Package server builds the HTTP router and the gRPC health server.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/fekuna/penstore/internal/app"
	"github.com/fekuna/penstore/internal/auth"
	carth "github.com/fekuna/penstore/internal/cart/handler"
	collectionh "github.com/fekuna/penstore/internal/collection/handler"
	mediah "github.com/fekuna/penstore/internal/media/handler"
	orderh "github.com/fekuna/penstore/internal/order/handler"
	producth "github.com/fekuna/penstore/internal/product/handler"
	stockh "github.com/fekuna/penstore/internal/stock/handler"
	userh "github.com/fekuna/penstore/internal/user/handler"
	"github.com/fekuna/penstore/pkg/logger"
	"github.com/fekuna/penstore/pkg/middleware"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Pinger reports whether the database answers.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type Handlers struct {
	Collections *collectionh.CollectionHandler
	Products    *producth.ProductHandler
	Media       *mediah.MediaHandler
	Orders      *orderh.OrderHandler
	Stock       *stockh.StockHandler
	Users       *userh.UserHandler
	Carts       *carth.CartHandler
}

type RouterConfig struct {
	MediaPrefix string
	MediaDir    string
	Tokens      *auth.TokenManager
	DB          Pinger
	Registry    *prometheus.Registry
}

// NewHandlers builds every HTTP handler from the wired use cases.
func NewHandlers(a *app.App) Handlers {
	log := a.Logger
	return Handlers{
		Collections: collectionh.NewCollectionHandler(a.Collections, log),
		Products:    producth.NewProductHandler(a.Products, log),
		Media:       mediah.NewMediaHandler(a.Media, log),
		Orders:      orderh.NewOrderHandler(a.Orders, log),
		Stock:       stockh.NewStockHandler(a.Stock, log),
		Users:       userh.NewUserHandler(a.Users, log),
		Carts:       carth.NewCartHandler(a.Carts, log),
	}
}

func NewRouter(cfg RouterConfig, h Handlers, log logger.ZapLogger) *gin.Engine {
	r := gin.New()
	metrics := middleware.NewMetrics(cfg.Registry)
	r.Use(gin.Recovery(), middleware.RequestID(), middleware.Logger(log), metrics.Handler())

	r.GET("/health", healthHandler(cfg.DB))
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(cfg.Registry, promhttp.HandlerOpts{})))
	if cfg.MediaDir != "" {
		r.Static(cfg.MediaPrefix, cfg.MediaDir)
	}

	api := r.Group("/api")
	{
		collections := api.Group("/collections")
		collections.GET("", h.Collections.List)
		collections.GET("/featured", h.Collections.Featured)
		collections.GET("/:slug", h.Collections.GetBySlug)
		collections.GET("/:slug/products", h.Products.ByCollection)

		products := api.Group("/products")
		products.GET("", h.Products.List)
		products.GET("/featured", h.Products.Featured)
		products.GET("/search", h.Products.Search)
		products.GET("/:slug", h.Products.GetBySlug)
		products.GET("/:slug/related", h.Products.Related)

		api.POST("/orders", h.Orders.Create)
		api.GET("/orders/:number", h.Orders.GetByNumber)

		carts := api.Group("/cart")
		carts.GET("", h.Carts.Get)
		carts.DELETE("", h.Carts.Clear)
		carts.POST("/items", h.Carts.AddItem)
		carts.PATCH("/items/:productId", h.Carts.UpdateQuantity)
		carts.DELETE("/items/:productId", h.Carts.RemoveItem)
		carts.POST("/checkout", h.Carts.Checkout)

		api.POST("/users/login", h.Users.Login)
	}

	admin := api.Group("/admin", auth.RequireAdmin(cfg.Tokens))
	{
		admin.GET("/collections", h.Collections.List)
		admin.POST("/collections", h.Collections.Create)
		admin.GET("/collections/:id", h.Collections.Get)
		admin.PUT("/collections/:id", h.Collections.Update)
		admin.DELETE("/collections/:id", h.Collections.Delete)

		admin.GET("/products", h.Products.AdminList)
		admin.POST("/products", h.Products.Create)
		admin.GET("/products/:id", h.Products.Get)
		admin.PUT("/products/:id", h.Products.Update)
		admin.DELETE("/products/:id", h.Products.Delete)
		admin.POST("/products/:id/stock", h.Stock.Adjust)

		admin.GET("/orders", h.Orders.List)
		admin.GET("/orders/:id", h.Orders.Get)
		admin.PATCH("/orders/:id", h.Orders.Update)

		admin.GET("/media", h.Media.List)
		admin.POST("/media", h.Media.Upload)
		admin.POST("/media/backfill-blur", h.Media.BackfillBlur)
		admin.GET("/media/:id", h.Media.Get)
		admin.DELETE("/media/:id", h.Media.Delete)

		admin.GET("/stock/movements", h.Stock.ListMovements)
	}

	return r
}

func healthHandler(db Pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if db != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := db.PingContext(ctx); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
