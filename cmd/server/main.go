/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the bookkeeping API server.
  Handles configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Parse command-line flags
  2. Load configuration (defaults, optional file, environment)
  3. Open the database (SQLite or PostgreSQL) and migrate
  4. Create API handler with the stock ledger and services
  5. Configure HTTP router
  6. Start server with graceful shutdown

COMMAND-LINE FLAGS:
  -config  Optional config file (.env, .yaml, .toml, .json)
  -port    HTTP server port, overrides HTTP_PORT
  -db      Database path or DSN, overrides DATABASE_URL
           Use ":memory:" for an in-memory SQLite database

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (SHUTDOWN_TIMEOUT)
  3. Close database connection
  4. Exit

EXAMPLES:
  # Run with file database
  ./server -db="./data/rks.db"

  # Run against PostgreSQL
  DB_DRIVER=postgres DATABASE_URL=postgres://rks@localhost/rks ./server

  # Refuse sales that would oversell
  STOCK_ALLOW_NEGATIVE=false ./server

SEE ALSO:
  - config/config.go: Configuration keys
  - api/server.go: Router configuration
  - store/sqlite/sqlite.go: Database implementation
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/radhakrishnanganapathy/rksApp-sub000/api"
	"github.com/radhakrishnanganapathy/rksApp-sub000/config"
	"github.com/radhakrishnanganapathy/rksApp-sub000/stock"
	"github.com/radhakrishnanganapathy/rksApp-sub000/store/sqlite"
)

func main() {
	// Flags
	configPath := flag.String("config", "", "Optional config file")
	port := flag.Int("port", 0, "HTTP server port (overrides HTTP_PORT)")
	dbURL := flag.String("db", "", "Database path or DSN (overrides DATABASE_URL)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}
	if *dbURL != "" {
		cfg.Database.URL = *dbURL
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	cfg.LogSummary()

	// Initialize store
	store, err := sqlite.Open(cfg.Database.Driver, cfg.Database.URL)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer store.Close()

	// Initialize handler
	handler := api.NewHandler(store, stock.WithNegativeStock(cfg.Stock.AllowNegative))

	// Create router
	router := api.NewRouter(handler, cfg.Server.AllowedOrigins)

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Server starting on http://localhost:%d", cfg.Server.Port)
		log.Printf("API available at http://localhost:%d/api", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server stopped")
}
