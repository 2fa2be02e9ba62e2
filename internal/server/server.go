// Package server exposes the translator over HTTP for previewing embeds
// and expanding shortcodes in submitted content.
package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"webmap/internal/render"
)

const shutdownTimeout = 5 * time.Second

// Handler serves the render endpoints.
type Handler struct {
	renderer render.Renderer
	val      *validator.Validate
}

// New creates a handler that renders with r.
func New(r render.Renderer) *Handler {
	return &Handler{renderer: r, val: validator.New()}
}

// Router builds the gin engine with all routes registered.
func (h *Handler) Router() *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(gin.Logger())

	engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	engine.GET("/embed", h.Embed)
	engine.POST("/translate", h.Translate)
	engine.POST("/render", h.Render)

	return engine
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (h *Handler) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("serving on %s: %w", addr, err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	return nil
}
