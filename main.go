package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"coinafrique-scraper/config"
	"coinafrique-scraper/metrics"
	"coinafrique-scraper/models"
	"coinafrique-scraper/scraper/coinafrique"
	"coinafrique-scraper/services"
	"coinafrique-scraper/storage"
	"coinafrique-scraper/utils"
)

// go run . -mode=scrape -categories=chiens,moutons -pages=3
// go run . -mode=scrape -all -clean=false
// go run . -mode=webscraper -categories=moutons
// go run . -mode=dashboard
func main() {
	logger := utils.NewLogger()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("Invalid configuration: %v", err)
		os.Exit(1)
	}
	logger.SetLevel(utils.ParseLevel(cfg.LogLevel))

	mode := flag.String("mode", "scrape", "Mode: 'scrape', 'webscraper' or 'dashboard'")
	cats := flag.String("categories", "", "Comma-separated categories (default: from config)")
	pages := flag.Int("pages", cfg.PagesToScrape, "Pages per category (0 = all, up to the safety cap)")
	all := flag.Bool("all", false, "Scrape every page up to the safety cap")
	clean := flag.Bool("clean", true, "Normalise prices and impute missing ones")
	out := flag.String("out", cfg.ExportPath, "CSV export path")
	flag.Parse()

	outSet := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "out" {
			outSet = true
		}
	})

	if *cats != "" {
		cfg.Categories = config.ParseCategories(*cats)
	}
	cfg.PagesToScrape = *pages
	if *all {
		cfg.PagesToScrape = 0
	}
	cfg.ExportPath = *out
	if err := cfg.Validate(); err != nil {
		logger.Error("Invalid configuration: %v", err)
		os.Exit(1)
	}

	if cfg.MetricsPort != "" {
		if err := metrics.Start(cfg.MetricsPort, logger); err != nil {
			logger.Warn("Metrics disabled: %v", err)
		} else {
			logger.Info("Metrics served on :%s/metrics", cfg.MetricsPort)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	switch *mode {
	case "scrape":
		err = runScrape(ctx, cfg, *clean, logger)
	case "webscraper":
		err = runWebScraper(cfg, outSet, logger)
	case "dashboard":
		err = runDashboard(cfg, logger)
	default:
		err = fmt.Errorf("unknown mode %q", *mode)
	}
	if err != nil {
		logger.Error("%v", err)
		os.Exit(1)
	}
}

func runScrape(ctx context.Context, cfg *config.Config, clean bool, logger *utils.Logger) error {
	pagesLabel := "all"
	if cfg.PagesToScrape > 0 {
		pagesLabel = fmt.Sprint(cfg.PagesToScrape)
	}
	logger.Info("=== Coinafrique scrape starting ===")
	logger.Info("Config — categories: %v | pages: %s | safety cap: %d | fetch: %s",
		cfg.Categories, pagesLabel, cfg.MaxPagesLimit, cfg.FetchMode)

	var fetcher coinafrique.Fetcher
	switch cfg.FetchMode {
	case config.FetchModeBrowser:
		bf, err := coinafrique.NewBrowserFetcher(cfg.ChromeBin, cfg.UserAgent, cfg.RequestTimeout)
		if err != nil {
			return err
		}
		defer bf.Close()
		fetcher = bf
	default:
		fetcher = coinafrique.NewHTTPFetcher(cfg.RequestTimeout, cfg.UserAgent)
	}

	sc := coinafrique.New(coinafrique.Options{
		BaseURL:   cfg.BaseURL,
		SafetyCap: cfg.MaxPagesLimit,
		Delay:     time.Duration(cfg.RequestDelayMs) * time.Millisecond,
	}, fetcher, logger)

	results, err := sc.ScrapeCategories(ctx, cfg.Categories, cfg.PagesToScrape)
	if err != nil {
		return fmt.Errorf("scrape failed: %w", err)
	}
	raw := coinafrique.Combine(results)
	logger.Info("Scraped %d raw listings", len(raw))

	w, err := storage.NewCSVWriter(cfg.ExportPath)
	if err != nil {
		return err
	}
	defer w.Close()

	if !clean {
		if err := exportRaw(w, raw); err != nil {
			return err
		}
		logger.Info("Raw listings saved to %s", w.Path())
		return nil
	}

	cleaned := services.NewCleaner(logger).Clean(raw)
	if err := exportListings(w, cleaned); err != nil {
		return err
	}
	logger.Info("Clean listings saved to %s", w.Path())

	for _, cat := range cfg.Categories {
		view, err := services.NewCategoryView(cleaned, cat)
		if err != nil {
			return err
		}
		path := filepath.Join(filepath.Dir(cfg.ExportPath), string(cat)+"_coinafrique_nettoye.csv")
		if err := writeView(path, view); err != nil {
			return err
		}
		logger.Info("%s — %d annonces (%s) → %s", view.Label, len(view.Listings), strings.Join(view.Columns(), ", "), path)
	}
	return nil
}

// runWebScraper re-exports one category's web scraper file. Without an
// explicit -out the copy keeps the raw file name, next to the cleaned export.
func runWebScraper(cfg *config.Config, outSet bool, logger *utils.Logger) error {
	reader := storage.NewWebScraperReader(cfg.WebScraperDir, logger)

	available, err := reader.Available()
	if err != nil {
		return err
	}
	if len(available) == 0 {
		logger.Warn("No CSV file found in %s/", cfg.WebScraperDir)
	}

	cat := cfg.Categories[0]
	raw, err := reader.Load(cat)
	if errors.Is(err, storage.ErrRawCSVNotFound) {
		logger.Warn("No data available for %s (expected %s)", cat, reader.Path(cat))
		return nil
	}
	if err != nil {
		return err
	}
	logger.Info("%s — %d annonces brutes", cat, len(raw))

	path := cfg.ExportPath
	if !outSet {
		path = rawExportPath(cfg.ExportPath, reader.Path(cat))
	}
	w, err := storage.NewCSVWriter(path)
	if err != nil {
		return err
	}
	defer w.Close()
	if err := exportRaw(w, raw); err != nil {
		return err
	}
	logger.Info("Raw listings saved to %s", w.Path())
	return nil
}

// rawExportPath places a raw file under the directory of the cleaned export.
func rawExportPath(exportPath, rawPath string) string {
	return filepath.Join(filepath.Dir(exportPath), filepath.Base(rawPath))
}

func runDashboard(cfg *config.Config, logger *utils.Logger) error {
	reader := storage.NewWebScraperReader(cfg.WebScraperDir, logger)
	raw, err := reader.LoadAll(cfg.Categories)
	if err != nil {
		return err
	}
	if len(raw) == 0 {
		logger.Warn("Add CSV files to %s to feed the dashboard", cfg.WebScraperDir)
		return nil
	}

	cleaned := services.NewCleaner(logger).Clean(raw)
	insights := services.NewInsightService(logger)
	insights.Print(os.Stdout, insights.Generate(cleaned))
	return nil
}

func exportListings(w storage.ListingWriter, listings []*models.Listing) error {
	return w.WriteListings(listings)
}

func exportRaw(w storage.RawListingWriter, listings []*models.RawListing) error {
	return w.WriteRaw(listings)
}

func writeView(path string, view *services.CategoryView) error {
	w, err := storage.NewCSVWriter(path)
	if err != nil {
		return err
	}
	if err := w.WriteCategoryView(view.TitleField, view.Listings); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}
