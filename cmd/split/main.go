package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"time"

	"cloud.google.com/go/civil"

	"github.com/dvloznov/budget-share/internal/config"
	"github.com/dvloznov/budget-share/internal/logger"
	"github.com/dvloznov/budget-share/internal/rules"
	"github.com/dvloznov/budget-share/internal/share"
	"github.com/dvloznov/budget-share/internal/sheets"
	"github.com/dvloznov/budget-share/internal/ynab"
)

func main() {
	cfg := config.Load()

	// Parse CLI flags
	sinceStr := flag.String("since", "", "Include transactions on or after this date, YYYY-MM-DD (default: 7 days ago)")
	dryRun := flag.Bool("dry-run", false, "Dry run mode - print the derived records without writing them")
	workers := flag.Int("workers", cfg.SplitWorkers, "Number of user pairs to split concurrently")
	flag.Parse()

	// Initialize structured logger
	log := logger.New(logger.ParseLevel(cfg.LogLevel))
	if cfg.LogFile != "" {
		f, err := logger.FileWriter(cfg.LogFile)
		if err != nil {
			log.Fatal().Err(err).Str("path", cfg.LogFile).Msg("Failed to open log file")
		}
		defer f.Close()
		log = logger.NewWithWriter(f, logger.ParseLevel(cfg.LogLevel))
	}

	if err := cfg.RequireEngine(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	since := share.DefaultSince(time.Now())
	if *sinceStr != "" {
		parsed, err := civil.ParseDate(*sinceStr)
		if err != nil {
			log.Fatal().Err(err).Str("since", *sinceStr).Msg("Error: invalid since format, expected YYYY-MM-DD")
		}
		since = parsed
	}

	// Create context with timeout so CLI doesn't hang
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	// Add logger to context
	ctx = logger.WithContext(ctx, log)

	log.Info().
		Str("since", since.String()).
		Bool("dry_run", *dryRun).
		Int("workers", *workers).
		Msg("Starting shared-transaction split")

	// The rule tables come from a local workbook when one is configured,
	// otherwise from Google Sheets.
	var src rules.RowSource
	if cfg.RulesWorkbook != "" {
		src = sheets.NewWorkbook(cfg.RulesWorkbook)
	} else {
		client, err := sheets.NewClient(ctx, cfg.GoogleCredentialsFile)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create sheets client")
		}
		src = client
	}

	cats, err := rules.LoadCategoryTable(ctx, src, cfg.SpreadsheetID)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load category mappings")
	}
	settings, err := rules.LoadSettingsTable(ctx, src, cfg.SpreadsheetID)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load user settings")
	}

	svc := &share.Service{
		Budgets:  ynab.NewClient(cfg.YNABToken),
		Cats:     cats,
		Settings: settings,
		Workers:  *workers,
	}

	users, err := svc.CollectShared(ctx, since)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to collect shared transactions")
	}

	groups, err := svc.SplitAll(ctx, users)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to split shared transactions")
	}

	if *dryRun {
		out, err := json.MarshalIndent(groups, "", "  ")
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to encode preview")
		}
		fmt.Println(string(out))
		fmt.Printf("Dry run: derived %d split groups, nothing written.\n", len(groups))
		return
	}

	results := svc.Reconcile(ctx, groups)

	var created, updated int
	for _, res := range results {
		switch res.Action {
		case share.ActionCreate:
			created++
		case share.ActionUpdate:
			updated++
		}
	}

	log.Info().
		Int("groups", len(groups)).
		Int("created", created).
		Int("updated", updated).
		Msg("Reconcile finished")

	fmt.Printf("Split completed: %d groups, %d created, %d updated.\n", len(groups), created, updated)
}
