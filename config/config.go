package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"coinafrique-scraper/models"
)

const (
	FetchModeHTTP    = "http"
	FetchModeBrowser = "browser"

	DefaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 " +
		"(KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

// Config holds all application configuration. Values come from defaults,
// then the optional YAML file, then environment variables.
type Config struct {
	BaseURL    string
	Categories []models.Category

	// PagesToScrape is the requested page count per category; 0 means all
	// pages, bounded only by MaxPagesLimit.
	PagesToScrape  int
	MaxPagesLimit  int
	RequestTimeout time.Duration
	RequestDelayMs int
	UserAgent      string
	FetchMode      string
	ChromeBin      string

	WebScraperDir string
	ExportPath    string

	MetricsPort string
	LogLevel    string
}

// Defaults returns the configuration used when nothing is overridden.
func Defaults() *Config {
	return &Config{
		BaseURL:        "https://sn.coinafrique.com/categorie",
		Categories:     append([]models.Category(nil), models.AllCategories...),
		PagesToScrape:  1,
		MaxPagesLimit:  40,
		RequestTimeout: 20 * time.Second,
		RequestDelayMs: 300,
		UserAgent:      DefaultUserAgent,
		FetchMode:      FetchModeHTTP,
		WebScraperDir:  "data_webscraper",
		ExportPath:     "./output/scrapy_donnees_nettoyees_coinafrique.csv",
		LogLevel:       "info",
	}
}

// Load reads the .env file, the optional YAML config file, and the
// environment, and returns a populated Config.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	cfg := Defaults()

	fc, err := LoadFile(getEnv("CONFIG_FILE", "config.yaml"))
	if err != nil {
		return nil, err
	}
	fc.apply(cfg)

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	cfg.BaseURL = getEnv("BASE_URL", cfg.BaseURL)
	if v := os.Getenv("CATEGORIES"); v != "" {
		cfg.Categories = ParseCategories(v)
	}
	cfg.PagesToScrape = getEnvInt("PAGES_TO_SCRAPE", cfg.PagesToScrape)
	cfg.MaxPagesLimit = getEnvInt("MAX_PAGES_LIMIT", cfg.MaxPagesLimit)
	cfg.RequestTimeout = time.Duration(getEnvInt("REQUEST_TIMEOUT_SEC", int(cfg.RequestTimeout/time.Second))) * time.Second
	cfg.RequestDelayMs = getEnvInt("REQUEST_DELAY_MS", cfg.RequestDelayMs)
	cfg.UserAgent = getEnv("USER_AGENT", cfg.UserAgent)
	cfg.FetchMode = strings.ToLower(getEnv("FETCH_MODE", cfg.FetchMode))
	cfg.ChromeBin = getEnv("CHROME_BIN", cfg.ChromeBin)
	cfg.WebScraperDir = getEnv("WEBSCRAPER_DIR", cfg.WebScraperDir)
	cfg.ExportPath = getEnv("EXPORT_PATH", cfg.ExportPath)
	cfg.MetricsPort = getEnv("METRICS_PORT", cfg.MetricsPort)
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)
}

// Validate rejects settings the scraper cannot run with.
func (c *Config) Validate() error {
	if len(c.Categories) == 0 {
		return fmt.Errorf("config: no categories selected")
	}
	for _, cat := range c.Categories {
		if !cat.Valid() {
			return fmt.Errorf("config: unknown category %q", cat)
		}
	}
	if c.PagesToScrape < 0 {
		return fmt.Errorf("config: pages to scrape must be >= 0, got %d", c.PagesToScrape)
	}
	if c.MaxPagesLimit <= 0 {
		return fmt.Errorf("config: max pages limit must be > 0, got %d", c.MaxPagesLimit)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("config: request timeout must be > 0")
	}
	switch c.FetchMode {
	case FetchModeHTTP, FetchModeBrowser:
	default:
		return fmt.Errorf("config: unknown fetch mode %q", c.FetchMode)
	}
	return nil
}

// ParseCategories splits a comma-separated category list, dropping blanks.
func ParseCategories(s string) []models.Category {
	var out []models.Category
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, models.Category(part))
		}
	}
	return out
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		n, err := strconv.Atoi(val)
		if err == nil {
			return n
		}
	}
	return fallback
}
