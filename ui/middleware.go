package ui

import (
	"io/fs"
	"net/http"

	"goincome/ui/middleware"
)

// setupMiddleware configures Gin middleware
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.EnsureSession())

	staticFS, err := fs.Sub(s.embeddedFiles, "ui/static")
	if err != nil {
		s.logger.Warn("static files unavailable: %v", err)
		return
	}
	s.router.StaticFS("/static", http.FS(staticFS))
}
