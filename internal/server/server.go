// Package server wires the HTTP routes and owns the http.Server lifecycle.
package server

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/config"
	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/handlers"
	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/metrics"
)

type Server struct {
	config     *config.Config
	router     *gin.Engine
	httpServer *http.Server
}

func New(h *handlers.Handlers, cfg *config.Config) *Server {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(metricsMiddleware())

	s := &Server{
		config: cfg,
		router: router,
	}

	s.setupRoutes(h)

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	return s
}

func (s *Server) setupRoutes(h *handlers.Handlers) {
	s.router.GET("/health", h.Health)
	s.router.GET("/ready", h.Ready)
	s.router.GET("/live", h.Live)
	s.router.GET("/version", h.Version)
	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := s.router.Group("/api/v1")
	v1.Use(h.SessionMiddleware())
	{
		v1.GET("/products", h.ListProducts)
		v1.GET("/products/:id", h.GetProduct)
		v1.GET("/categories", h.ListCategories)

		v1.POST("/auth/login", h.Login)
		v1.POST("/auth/signup", h.Signup)
		v1.POST("/auth/logout", h.Logout)
		v1.GET("/auth/me", h.Me)

		carts := v1.Group("/cart")
		carts.Use(handlers.RequireSession())
		{
			carts.GET("", h.GetCart)
			carts.DELETE("", h.ClearCart)
			carts.POST("/items", h.AddCartItem)
			carts.PUT("/items/:product_id", h.UpdateCartItem)
			carts.DELETE("/items/:product_id", h.RemoveCartItem)
		}

		checkout := v1.Group("/checkout")
		checkout.Use(handlers.RequireSession())
		{
			checkout.POST("/start", h.StartCheckout)
			checkout.GET("", h.GetCheckout)
			checkout.POST("/shipping", h.SubmitShipping)
			checkout.POST("/payment", h.SubmitPayment)
			checkout.POST("/back", h.CheckoutBack)
			checkout.POST("/place", handlers.RequireAuth(), h.PlaceOrder)
		}

		orders := v1.Group("/orders")
		orders.Use(handlers.RequireAuth())
		{
			orders.GET("", h.ListOrders)
			orders.GET("/:id", h.GetOrder)
			orders.PATCH("/:id/status", h.UpdateOrderStatus)
		}
	}
}

func metricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())

		metrics.HTTPRequestsTotal.WithLabelValues(c.Request.Method, route, status).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

func (s *Server) Start() error {
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
