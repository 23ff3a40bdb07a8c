package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// FileConfig mirrors config.yaml. Zero values leave the default in place,
// except scrape.pages where an explicit 0 selects every page.
type FileConfig struct {
	BaseURL    string   `yaml:"base_url"`
	Categories []string `yaml:"categories"`

	Scrape struct {
		Pages          *int   `yaml:"pages"`
		MaxPagesLimit  int    `yaml:"max_pages_limit"`
		TimeoutSeconds int    `yaml:"timeout_seconds"`
		DelayMs        int    `yaml:"delay_ms"`
		UserAgent      string `yaml:"user_agent"`
		FetchMode      string `yaml:"fetch_mode"`
	} `yaml:"scrape"`

	WebScraperDir string `yaml:"webscraper_dir"`
	ExportPath    string `yaml:"export_path"`
	MetricsPort   string `yaml:"metrics_port"`
	LogLevel      string `yaml:"log_level"`
}

// LoadFile parses the YAML config at path. A missing file yields an empty
// FileConfig; a file that exists but cannot be parsed is an error.
func LoadFile(path string) (*FileConfig, error) {
	fc := &FileConfig{}
	if path == "" {
		return fc, nil
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return fc, nil
	}
	if err != nil {
		return nil, fmt.Errorf("config: read %q: %w", path, err)
	}

	if err := yaml.Unmarshal(data, fc); err != nil {
		return nil, fmt.Errorf("config: parse %q: %w", path, err)
	}
	return fc, nil
}

func (fc *FileConfig) apply(cfg *Config) {
	if fc.BaseURL != "" {
		cfg.BaseURL = fc.BaseURL
	}
	if len(fc.Categories) > 0 {
		cfg.Categories = cfg.Categories[:0]
		for _, c := range fc.Categories {
			cfg.Categories = append(cfg.Categories, ParseCategories(c)...)
		}
	}
	if fc.Scrape.Pages != nil {
		cfg.PagesToScrape = *fc.Scrape.Pages
	}
	if fc.Scrape.MaxPagesLimit > 0 {
		cfg.MaxPagesLimit = fc.Scrape.MaxPagesLimit
	}
	if fc.Scrape.TimeoutSeconds > 0 {
		cfg.RequestTimeout = time.Duration(fc.Scrape.TimeoutSeconds) * time.Second
	}
	if fc.Scrape.DelayMs > 0 {
		cfg.RequestDelayMs = fc.Scrape.DelayMs
	}
	if fc.Scrape.UserAgent != "" {
		cfg.UserAgent = fc.Scrape.UserAgent
	}
	if fc.Scrape.FetchMode != "" {
		cfg.FetchMode = fc.Scrape.FetchMode
	}
	if fc.WebScraperDir != "" {
		cfg.WebScraperDir = fc.WebScraperDir
	}
	if fc.ExportPath != "" {
		cfg.ExportPath = fc.ExportPath
	}
	if fc.MetricsPort != "" {
		cfg.MetricsPort = fc.MetricsPort
	}
	if fc.LogLevel != "" {
		cfg.LogLevel = fc.LogLevel
	}
}
