package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/GriffinCanCode/SpatialOS/backend/internal/infrastructure/config"
	"github.com/GriffinCanCode/SpatialOS/backend/internal/infrastructure/server"
)

func main() {
	// Load configuration (env vars with defaults)
	cfg := config.LoadOrDefault()

	// Parse flags (override env vars)
	port := flag.String("port", cfg.Server.Port, "Server port")
	dev := flag.Bool("dev", cfg.Logging.Development, "Development mode (coloured logs, debug level)")
	catalogPath := flag.String("catalog", cfg.Desktop.CatalogPath, "Application catalog file or directory (YAML/TOML)")
	frameRate := flag.Int("fps", cfg.Desktop.FrameRate, "Physics frame rate")
	flag.Parse()

	cfg.Server.Port = *port
	cfg.Logging.Development = *dev
	if *dev {
		cfg.Logging.Level = "debug"
	}
	cfg.Desktop.CatalogPath = *catalogPath
	if *frameRate > 0 {
		cfg.Desktop.FrameRate = *frameRate
	}

	// Create server
	srv, err := server.NewServer(cfg)
	if err != nil {
		log.Fatalf("Failed to create server: %v", err)
	}
	defer srv.Close()

	// Handle graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := srv.Run(ctx); err != nil {
		log.Printf("Server error: %v", err)
		srv.Close()
		os.Exit(1)
	}
	log.Println("Server stopped")
}
