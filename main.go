package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"card-arbitrage/config"
	"card-arbitrage/models"
	"card-arbitrage/notify"
	"card-arbitrage/pricing"
	"card-arbitrage/scraper"
	"card-arbitrage/scraper/buyee"
	"card-arbitrage/services"
	"card-arbitrage/storage"
	"card-arbitrage/utils"
)

func main() {
	cfg := config.Load()
	logger := utils.NewFileLogger(cfg.LogFilePath)

	logger.Info("=== Card Arbitrage Pipeline starting ===")

	if err := cfg.Validate(); err != nil {
		logger.Error("Invalid configuration: %v", err)
		os.Exit(1)
	}

	rules, err := config.LoadRules(cfg.RulesPath)
	if err != nil {
		logger.Error("Failed to load rules: %v", err)
		os.Exit(1)
	}

	terms := rules.SearchTerms
	if len(os.Args) > 1 {
		terms = os.Args[1:]
	}
	if len(terms) == 0 {
		logger.Error("No search terms configured. Exiting.")
		os.Exit(1)
	}

	logger.Info("Config — terms: %d | concurrency: %d | rate: %dms | threshold: %d",
		len(terms), cfg.MaxConcurrency, cfg.RateLimitMs, rules.Screening.AcceptThreshold)

	jsonWriter, err := storage.NewJSONWriter(cfg.OutputDir)
	if err != nil {
		logger.Error("Failed to create JSON writer: %v", err)
		os.Exit(1)
	}
	logger.Info("Run id: %s", jsonWriter.RunID())

	csvWriter, err := storage.NewCSVWriter(cfg.CSVOutputPath)
	if err != nil {
		logger.Error("Failed to create CSV writer: %v", err)
		os.Exit(1)
	}
	defer csvWriter.Close()

	writers := []storage.ResultWriter{jsonWriter, csvWriter}

	var pgWriter *storage.PostgresWriter
	if cfg.PostgresEnabled {
		pgWriter, err = storage.NewPostgresWriter(cfg.DSN())
		if err != nil {
			logger.Error("Failed to connect to PostgreSQL: %v", err)
			logger.Error("Make sure Docker is running: docker compose up -d")
			os.Exit(1)
		}
		defer pgWriter.Close()
		writers = append(writers, pgWriter)
	}

	var notifier *notify.TelegramNotifier
	if cfg.TelegramToken != "" {
		notifier, err = notify.NewTelegramNotifier(cfg.TelegramToken, cfg.TelegramChatID, logger)
		if err != nil {
			logger.Error("Telegram setup failed: %v", err)
			os.Exit(1)
		}
	}

	timeout := time.Duration(cfg.HTTPTimeoutSec) * time.Second
	var sources []pricing.Source
	if cfg.EbayEnabled {
		sources = append(sources,
			pricing.NewEbaySource(cfg.EbayBaseURL, cfg.EbayAuthToken, timeout, cfg.MaxRetries, logger))
	}
	if cfg.CompsEnabled {
		sources = append(sources,
			pricing.NewCompsSource(cfg.CompsBaseURL, timeout, cfg.MaxRetries, logger))
	}
	aggregator := pricing.NewAggregator(sources, rules.Scoring.QueryQualifier,
		time.Duration(cfg.RateLimitMs)*time.Millisecond, logger)

	pipeline := services.NewPipeline(
		services.NewExtractor(logger),
		services.NewScreener(rules.Screening, logger),
		services.NewScorer(rules.Scoring, logger),
		aggregator,
		cfg.MaxConcurrency, cfg.RateLimitMs, logger,
	)

	var source scraper.Source = buyee.New(cfg, logger)
	ctx := context.Background()

	var allResults []*models.Result
	totalScraped := 0

	for i, term := range terms {
		logger.Info("--- [%d/%d] Searching: %s ---", i+1, len(terms), term)

		listings, err := source.Search(ctx, term, cfg.MaxResultsPerTerm)
		if err != nil {
			logger.Error("Search for %q failed: %v", term, err)
			continue
		}
		totalScraped += len(listings)

		results := pipeline.Process(ctx, term, listings)
		if len(results) == 0 {
			logger.Warn("No listings passed screening for %q", term)
			continue
		}

		for _, w := range writers {
			if err := w.Write(term, results); err != nil {
				logger.Error("Result write failed: %v", err)
			}
		}
		if notifier != nil {
			if err := notifier.NotifyOpportunities(term, results); err != nil {
				logger.Error("Telegram notify failed: %v", err)
			}
		}

		allResults = append(allResults, results...)

		if i < len(terms)-1 {
			time.Sleep(time.Duration(cfg.RateLimitMs) * time.Millisecond)
		}
	}

	reportSvc := services.NewReportService(logger)
	summary := reportSvc.Generate(totalScraped, allResults)
	reportSvc.Print(summary)

	if pgWriter != nil {
		if counts, err := pgWriter.CountByRecommendation(); err == nil {
			logger.Info("PostgreSQL totals — STRONG_BUY: %d | BUY: %d | CONSIDER: %d | PASS: %d",
				counts["STRONG_BUY"], counts["BUY"], counts["CONSIDER"], counts["PASS"])
		} else {
			logger.Error("Failed to read stored totals: %v", err)
		}
	}

	fmt.Printf("  Done. Results → %s (run %s) | CSV → %s\n\n",
		cfg.OutputDir, jsonWriter.RunID(), cfg.CSVOutputPath)
}
