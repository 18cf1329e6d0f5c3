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

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"

	"github.com/mstgnz/monetico/infra/config"
	"github.com/mstgnz/monetico/infra/logger"
	"github.com/mstgnz/monetico/infra/middle"
	"github.com/mstgnz/monetico/infra/opensearch"
	"github.com/mstgnz/monetico/infra/response"
	"github.com/mstgnz/monetico/router"
)

var (
	PORT             string
	openSearchClient *opensearch.Client
	openSearchLogger *opensearch.Logger
)

func init() {
	// Load Env
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Load Env: %v", err)
	}
	// init conf
	_ = config.App()

	PORT = config.GetEnv("APP_PORT", "9999")

	cfg := config.GetAppConfig()

	logger.InitGlobalLogger(logger.SystemLoggerConfig{
		MinLevel:    logger.LogLevel(cfg.LoggingLevel),
		Service:     "monetico",
		Version:     "1.0.0",
		Environment: config.GetEnv("ENVIRONMENT", "development"),
	})

	// Initialize OpenSearch client and logger
	if cfg.EnableLogging {
		osClient, err := opensearch.NewClient(cfg)
		if err != nil {
			log.Printf("Failed to initialize OpenSearch client: %v", err)
			log.Println("Continuing without OpenSearch logging...")
		} else {
			openSearchClient = osClient
			openSearchLogger = opensearch.NewLogger(osClient)
			log.Println("OpenSearch logging initialized successfully")
		}
	} else {
		log.Println("OpenSearch logging is disabled")
	}
}

func main() {
	cfg := config.GetAppConfig()

	merchants, err := config.NewMerchantStore(cfg.MerchantDBPath)
	if err != nil {
		log.Fatalf("Failed to open merchant store: %v", err)
	}
	defer merchants.Close()

	// Chi Define Routes
	r := chi.NewRouter()

	// Basic Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middle.PanicRecoveryMiddleware())
	r.Use(middleware.Timeout(60 * time.Second))

	// OpenSearch Logging Middleware
	if openSearchLogger != nil {
		r.Use(middle.CheckoutLoggingMiddleware(openSearchLogger))
		log.Println("Checkout logging middleware enabled")
	}

	// CORS
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "Origin", "X-Requested-With"},
		ExposedHeaders:   []string{"Link", "Content-Length", "Access-Control-Allow-Origin"},
		AllowCredentials: true,
		MaxAge:           300, // Preflight cache time (second)
	}))

	router.Routes(r, merchants, openSearchClient)

	// Not Found
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		_ = response.WriteJSON(w, http.StatusNotFound, response.Response{Success: false, Message: "Not Found"})
	})

	// Create a context that listens for interrupt and terminate signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	server := &http.Server{
		Addr:              fmt.Sprintf(":%s", PORT),
		Handler:           r,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 60 * time.Second,
	}

	// Run your HTTP server in a goroutine
	go func() {
		err := server.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			log.Fatal(err.Error())
		}
	}()

	log.Println("API is running on", PORT)

	// Block until a signal is received
	<-ctx.Done()

	log.Println("Shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
}
