package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/vinsolit/lendenbook/internal/app"
	"github.com/vinsolit/lendenbook/internal/util/logger"
)

func main() {
	cfg := app.NewConfigFromFlags()

	if err := logger.Init(cfg.LogLevel); err != nil {
		panic(fmt.Sprintf("Failed to init logger: %v", err))
	}
	defer logger.Sync()

	application, err := app.New(cfg)
	if err != nil {
		log.Fatalf("Application initialization failed: %v", err)
	}
	defer application.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		application.Logger.Info("Shutdown signal received", zap.String("signal", sig.String()))
		cancel()
	}()

	application.Logger.Info("Starting HTTP server",
		zap.String("address", cfg.RunAddress))
	if err := application.Run(ctx); err != nil {
		application.Logger.Error("Server shutdown error", zap.Error(err))
	}
}
