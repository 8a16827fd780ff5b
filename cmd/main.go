package main

//
//  @title           findata API
//  @version         1.0
//  @description     Daily stock price ingestion & statistics service.
//  @termsOfService  https://github.com/guttosm/findata
//  @contact.name    API Support
//  @contact.url     https://github.com/guttosm/findata
//  @contact.email   support@example.com
//  @license.name    MIT
//  @license.url     https://opensource.org/licenses/MIT
//  @host            localhost:8080
//  @BasePath        /
//  @schemes         http
//
//  @tag.name        financial_data
//  @tag.description Endpoints for querying daily prices and statistics
//
//  @tag.name        health
//  @tag.description Liveness and readiness probes

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/guttosm/findata/config"
	_ "github.com/guttosm/findata/docs" // swagger docs
	"github.com/guttosm/findata/internal/app"
	"github.com/guttosm/findata/internal/ingestion"
	"github.com/guttosm/findata/internal/logger"
)

// startServer initializes and starts the HTTP server in a separate goroutine.
//
// Parameters:
//   - router (http.Handler): The HTTP router (Gin Engine) configured with all routes.
//   - port (string): The port where the server will listen for incoming requests.
//
// Returns:
//   - *http.Server: The initialized HTTP server instance.
func startServer(router http.Handler, port string) *http.Server {
	server := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.L().Info().Str("port", port).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.L().Fatal().Err(err).Msg("server failed to start")
		}
	}()

	return server
}

// gracefulShutdown gracefully terminates the HTTP server and cleans up resources
// when an OS interrupt signal (SIGINT, SIGTERM) is received.
//
// Parameters:
//   - ctx (context.Context): A context with timeout for graceful shutdown.
//   - server (*http.Server): The HTTP server instance to shut down.
//   - cleanup (func()): Cleanup callback to release resources (e.g., DB connections).
func gracefulShutdown(ctx context.Context, server *http.Server, cleanup func()) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	<-quit
	logger.L().Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.L().Fatal().Err(err).Msg("server forced to shutdown")
	}

	cleanup()
	logger.L().Info().Msg("server exited gracefully")
}

// main is the entry point of the findata application.
//
// Modes (selected via --mode flag):
//   - ingest: Fetches the recent daily series for each configured symbol
//     from Alpha Vantage and upserts the records.
//   - api:    Starts the REST API to expose financial data and statistics.
//
// Flags:
//   - --mode:    Execution mode ("ingest" or "api"). Default: "ingest".
//   - --symbols: Comma-separated symbols to ingest. Defaults to value from config (INGEST_SYMBOLS).
//   - --port:    Port for the API server. Defaults to value from config (SERVER_PORT).
func main() {
	ctx := context.Background()

	// Load configuration from environment or .env file
	config.LoadConfig()

	// Initialize JSON logger
	logger.Init()

	// Parse CLI flags (override config defaults if provided)
	mode := flag.String("mode", "ingest", "Mode: ingest or api")
	symbolsFlag := flag.String("symbols", "", "Comma-separated symbols to ingest (default from config)")
	port := flag.String("port", config.AppConfig.Server.Port, "Port for API mode")
	flag.Parse()

	switch *mode {
	case "ingest":
		// Ingestion mode: fetch daily series and persist records
		logger.L().Info().Msg("running ingestion")

		if config.AppConfig.Provider.APIKey == "" {
			logger.L().Fatal().Msg("ALPHAVANTAGE_API_KEY is required in ingest mode")
		}

		symbols := config.AppConfig.Ingest.Symbols
		if *symbolsFlag != "" {
			symbols = splitSymbols(*symbolsFlag)
		}
		if len(symbols) == 0 {
			logger.L().Fatal().Msg("no symbols configured for ingestion")
		}

		// Direct DB connection for ingestion
		db, err := app.InitPostgres(config.AppConfig)
		if err != nil {
			logger.L().Fatal().Err(err).Msg("db connect error")
		}
		defer func() { _ = db.Close() }()

		provider := ingestion.NewClient(config.AppConfig.Provider)

		if err := ingestion.Run(ctx, db, provider, symbols); err != nil {
			logger.L().Fatal().Err(err).Msg("ingestion failed")
		}
		logger.L().Info().Msg("ingestion completed successfully")

	case "api":
		// API mode: start the HTTP server
		logger.L().Info().Msg("starting API server")

		router, cleanup, err := app.InitializeApp()
		if err != nil {
			logger.L().Fatal().Err(err).Msg("app init error")
		}

		server := startServer(router, *port)
		gracefulShutdown(ctx, server, cleanup)

	default:
		logger.L().Fatal().Str("mode", *mode).Msg("unknown mode")
	}
}

// splitSymbols splits a comma-separated list, trimming blanks.
func splitSymbols(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
