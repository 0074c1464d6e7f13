package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/Gunvolt24/orders_sync/config"
	"github.com/Gunvolt24/orders_sync/internal/app"
)

func main() {
	os.Exit(run())
}

func run() int {
	_ = godotenv.Load(".env.local")

	cfg, err := config.Load()
	if err != nil {
		log.Printf("load config: %v", err)
		return 1
	}

	// отмена по SIGINT/SIGTERM запускает graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	application, cleanup, err := app.Bootstrap(ctx, &cfg)
	if err != nil {
		log.Printf("bootstrap: %v", err)
		return 1
	}
	defer cleanup()

	if err := application.Run(ctx); err != nil {
		application.Logger.Errorf(ctx, "run: %v", err)
		return 1
	}
	return 0
}
