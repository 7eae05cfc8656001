package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dvloznov/budget-share/internal/api/handlers"
	"github.com/dvloznov/budget-share/internal/api/middleware"
	"github.com/dvloznov/budget-share/internal/config"
	"github.com/dvloznov/budget-share/internal/logger"
	"github.com/dvloznov/budget-share/internal/rules"
	"github.com/dvloznov/budget-share/internal/share"
	"github.com/dvloznov/budget-share/internal/sheets"
	"github.com/dvloznov/budget-share/internal/ynab"
)

func main() {
	cfg := config.Load()

	// Parse command-line flags
	port := flag.String("port", cfg.Port, "HTTP server port (or set PORT env)")
	flag.Parse()

	// Initialize logger
	log := logger.New(logger.ParseLevel(cfg.LogLevel))
	if cfg.LogFile != "" {
		f, err := logger.FileWriter(cfg.LogFile)
		if err != nil {
			log.Fatal().Err(err).Str("path", cfg.LogFile).Msg("Failed to open log file")
		}
		defer f.Close()
		log = logger.NewWithWriter(f, logger.ParseLevel(cfg.LogLevel))
	}

	if err := cfg.RequireServer(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	ctx := logger.WithContext(context.Background(), log)

	// Load the rule tables once at startup. A failure here is not fatal:
	// the server still comes up so /health answers, and the transaction
	// endpoints report the missing resource instead.
	var src rules.RowSource
	if cfg.RulesWorkbook != "" {
		src = sheets.NewWorkbook(cfg.RulesWorkbook)
	} else {
		client, err := sheets.NewClient(ctx, cfg.GoogleCredentialsFile)
		if err != nil {
			log.Error().Err(err).Msg("Failed to create sheets client")
		} else {
			src = client
		}
	}

	var cats *rules.CategoryTable
	var settings *rules.SettingsTable
	if src != nil {
		var err error
		cats, err = rules.LoadCategoryTable(ctx, src, cfg.SpreadsheetID)
		if err != nil {
			log.Error().Err(err).Msg("Failed to load category mappings")
		}
		settings, err = rules.LoadSettingsTable(ctx, src, cfg.SpreadsheetID)
		if err != nil {
			log.Error().Err(err).Msg("Failed to load user settings")
		}
	}

	svc := &share.Service{
		Budgets:  ynab.NewClient(cfg.YNABToken),
		Cats:     cats,
		Settings: settings,
		Workers:  cfg.SplitWorkers,
	}

	// Initialize handlers
	transactionsHandler := handlers.NewTransactionsHandler(svc, log)

	// Create router
	mux := http.NewServeMux()

	// Transactions endpoints
	mux.HandleFunc("/api/transactions/shared", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			transactionsHandler.SharedTransactions(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/transactions/split/preview", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			transactionsHandler.PreviewSplit(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/transactions/split", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			transactionsHandler.Split(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	// Health check endpoint
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		middleware.WriteJSON(w, http.StatusOK, map[string]string{
			"status": "Ok",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// Apply middleware
	handler := middleware.Recovery(log)(
		middleware.Logger(log)(
			middleware.RequestID(
				middleware.WithLogger(log)(
					middleware.CORS(
						middleware.APIKey(cfg.APIKey)(mux),
					),
				),
			),
		),
	)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + *port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info().Str("port", *port).Msg("Starting API server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}
