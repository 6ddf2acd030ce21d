package main

import (
	"context"
	"embed"
	"log"
	"net"
	"os"
	"os/signal"
	"syscall"

	"goincome/internal"
	"goincome/internal/config"
	"goincome/internal/container"
	"goincome/ui"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"
)

//go:embed ui/templates/*.html ui/templates/*.md ui/templates/fragments/*.html ui/static
var embeddedFiles embed.FS

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := internal.NewLogger(internal.ParseLogLevel(appConfig.LogLevel))
	internal.DefaultLogger = logger
	gin.SetMode(appConfig.Server.GinMode)

	appContainer, err := container.New(appConfig, logger)
	if err != nil {
		log.Fatalf("Failed to create application container: %v", err)
	}

	server := ui.NewServer(embeddedFiles, logger)
	if err := server.Initialize(appContainer.Dashboard, appContainer.SSEHub, appContainer.API.Routes()); err != nil {
		log.Fatalf("Failed to initialize server: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	appContainer.Start(gctx, g)
	g.Go(func() error {
		defer stop()
		return server.Start(gctx, net.JoinHostPort("", appConfig.Server.Port))
	})

	if err := g.Wait(); err != nil {
		log.Fatalf("Server stopped with error: %v", err)
	}
	logger.Info("shutdown complete")
}
