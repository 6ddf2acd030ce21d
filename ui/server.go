package ui

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"time"

	"goincome/internal"
	"goincome/internal/api"
	"goincome/ui/services"

	"github.com/gin-gonic/gin"
)

// ShutdownTimeout bounds how long in-flight requests may drain
const ShutdownTimeout = 10 * time.Second

// Dashboard is the service the pages are rendered from
type Dashboard interface {
	api.Dashboard
	Symbol() string
}

// Server represents the dashboard web server
type Server struct {
	router        *gin.Engine
	dashboard     Dashboard
	hub           *api.SSEHub
	renderer      *services.RenderService
	about         template.HTML
	embeddedFiles fs.FS
	logger        *internal.Logger
}

// NewServer creates a new web server instance. embeddedFiles must contain
// ui/templates and ui/static.
func NewServer(embeddedFiles fs.FS, logger *internal.Logger) *Server {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &Server{
		router:        gin.Default(),
		embeddedFiles: embeddedFiles,
		logger:        logger.With("Server"),
	}
}

// Initialize sets up the server with dependencies. apiHandler is mounted
// under /api when not nil.
func (s *Server) Initialize(dashboard Dashboard, hub *api.SSEHub, apiHandler http.Handler) error {
	s.dashboard = dashboard
	s.hub = hub

	templates, err := s.parseTemplates()
	if err != nil {
		return err
	}
	s.renderer = services.NewRenderService(templates)

	about, err := s.loadAbout()
	if err != nil {
		return err
	}
	s.about = about

	s.setupMiddleware()
	s.setupRoutes(apiHandler)
	return nil
}

// setupRoutes configures the application routes
func (s *Server) setupRoutes(apiHandler http.Handler) {
	s.router.GET("/", s.handleIndex)
	s.router.POST("/filters", s.handleApplyFilters)
	s.router.POST("/filters/clear", s.handleClearFilters)
	s.router.POST("/sort/:key", s.handleToggleSort)
	s.router.GET("/export.xlsx", s.handleExport)
	s.router.GET("/healthz", s.handleHealth)
	if s.hub != nil {
		s.router.GET("/events", s.hub.HandleSSE)
	}
	if apiHandler != nil {
		s.router.Any("/api/*path", gin.WrapH(http.StripPrefix("/api", apiHandler)))
	}
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves on addr until ctx is cancelled, then drains in-flight requests
func (s *Server) Start(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting %s dashboard on http://%s", s.dashboard.Symbol(), addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("dashboard server: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("dashboard shutdown: %w", err)
	}
	return nil
}
