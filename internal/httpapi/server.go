package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"chapkhane/internal/shop"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

type Options struct {
	AllowedOrigins []string
	RequestTimeout time.Duration
	Logger         *zap.Logger
	Now            func() time.Time
}

// Server exposes the storefront over JSON.
type Server struct {
	shop   *shop.Service
	logger *zap.Logger
	now    func() time.Time
	router *gin.Engine
}

func New(svc *shop.Service, opts Options) *Server {
	s := &Server{
		shop:   svc,
		logger: opts.Logger,
		now:    opts.Now,
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	if s.now == nil {
		s.now = time.Now
	}

	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(s.logger))
	if opts.RequestTimeout > 0 {
		r.Use(requestTimeout(opts.RequestTimeout))
	}
	if len(opts.AllowedOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     opts.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
			ExposeHeaders:    []string{"Content-Disposition"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}
	s.routes(r)
	s.router = r
	return s
}

func (s *Server) routes(r *gin.Engine) {
	r.GET("/health", s.health)

	api := r.Group("/api")
	{
		api.GET("/catalog", s.getCatalog)
		api.POST("/catalog/reload", s.reloadCatalog)
		api.POST("/quote", s.quote)

		orders := api.Group("/orders")
		orders.POST("", s.createOrder)
		orders.GET("", s.listOrders)
		orders.GET("/export", s.exportOrders)
		orders.GET("/stats", s.orderStats)
		orders.GET("/:id", s.getOrder)
		orders.GET("/:id/export", s.exportOrder)
		orders.PATCH("/:id/status", s.updateOrderStatus)
		orders.DELETE("/:id", s.deleteOrder)

		services := api.Group("/services")
		services.GET("", s.listServices)
		services.POST("", s.createService)
		services.GET("/:id", s.getService)
		services.PUT("/:id", s.updateService)
		services.DELETE("/:id", s.deleteService)

		messages := api.Group("/messages")
		messages.POST("", s.submitMessage)
		messages.GET("", s.listMessages)
		messages.GET("/:id", s.getMessage)
		messages.POST("/:id/read", s.markMessageRead)
		messages.DELETE("/:id", s.deleteMessage)
	}
}

func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("HTTP server listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}
	return nil
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
