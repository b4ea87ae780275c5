package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/furkanczay/better-pay/infra/config"
	"github.com/furkanczay/better-pay/infra/logger"
	"github.com/furkanczay/better-pay/infra/opensearch"
	"github.com/furkanczay/better-pay/provider"
	"github.com/furkanczay/better-pay/router"
)

var (
	port             string
	openSearchLogger *opensearch.Logger
)

func init() {
	// Load Env; a missing .env file is fine in containerized deploys
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}

	port = config.GetEnv("APP_PORT", "9999")

	cfg := config.GetAppConfig()
	if cfg.EnableLogging {
		osClient, err := opensearch.NewClient(cfg)
		if err != nil {
			log.Printf("Failed to initialize OpenSearch client: %v", err)
			log.Println("Continuing without OpenSearch logging...")
		} else {
			openSearchLogger = opensearch.NewLogger(osClient)
			log.Println("OpenSearch logging initialized successfully")
		}
	} else {
		log.Println("OpenSearch logging is disabled")
	}

	logger.InitGlobalLogger(openSearchLogger)
}

func main() {
	providerConfig := config.LoadProviders()

	pay, err := provider.New(providerConfig)
	if err != nil {
		logger.Fatal("Provider configuration invalid", err)
	}

	enabled := pay.GetEnabledProviders()
	if len(enabled) == 0 {
		log.Println("No payment providers configured!")
	}
	for _, name := range enabled {
		log.Printf("Registered payment provider: %s", name)
	}
	if def := pay.DefaultProvider(); def != "" {
		log.Printf("Default payment provider set to: %s", def)
	}

	r := router.New(pay, openSearchLogger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	server := &http.Server{
		Addr:              fmt.Sprintf(":%s", port),
		Handler:           r,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 60 * time.Second,
	}

	go func() {
		err := server.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			log.Fatal(err.Error())
		}
	}()

	log.Println("API is running on", port)

	<-ctx.Done()

	log.Println("Shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
}
