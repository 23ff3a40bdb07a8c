package storage

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"coinafrique-scraper/metrics"
	"coinafrique-scraper/models"
	"coinafrique-scraper/utils"
)

// webScraperSuffix ends every file exported by the Web Scraper extension.
const webScraperSuffix = "_coinafrique_webscraper_brut.csv"

var (
	// ErrRawCSVNotFound means no web scraper file exists for a category.
	ErrRawCSVNotFound = errors.New("web scraper csv not found")
	// ErrMalformedCSV means the file exists but cannot be read as listings.
	ErrMalformedCSV = errors.New("malformed web scraper csv")
)

// requiredColumns must appear in a web scraper file's header. A missing
// categorie column is filled from the file's category.
var requiredColumns = []string{"titre", "prix", "adresse", "image_lien"}

// WebScraperReader loads the raw CSV files produced by the Web Scraper
// browser extension from one directory.
type WebScraperReader struct {
	dir    string
	logger *utils.Logger
}

// NewWebScraperReader reads files from dir.
func NewWebScraperReader(dir string, logger *utils.Logger) *WebScraperReader {
	return &WebScraperReader{dir: dir, logger: logger}
}

// Path returns where the file for cat is expected.
func (r *WebScraperReader) Path(cat models.Category) string {
	return filepath.Join(r.dir, string(cat)+webScraperSuffix)
}

// CategoryFromFilename returns the category encoded in a web scraper file
// name, or false if the name does not follow the pattern.
func CategoryFromFilename(name string) (models.Category, bool) {
	base := filepath.Base(name)
	if !strings.HasSuffix(base, webScraperSuffix) {
		return "", false
	}
	cat := strings.TrimSuffix(base, webScraperSuffix)
	if cat == "" {
		return "", false
	}
	return models.Category(cat), true
}

// Available lists the known categories that have a file in the directory.
func (r *WebScraperReader) Available() ([]models.Category, error) {
	entries, err := os.ReadDir(r.dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("webscraper: list %q: %w", r.dir, err)
	}

	var cats []models.Category
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		cat, ok := CategoryFromFilename(e.Name())
		if ok && cat.Valid() {
			cats = append(cats, cat)
		}
	}
	sort.Slice(cats, func(i, j int) bool { return cats[i] < cats[j] })
	return cats, nil
}

// Load reads the web scraper file for cat. It fails with ErrRawCSVNotFound
// when the file is absent and ErrMalformedCSV when a required column is
// missing or a row cannot be parsed.
func (r *WebScraperReader) Load(cat models.Category) ([]*models.RawListing, error) {
	if !cat.Valid() {
		return nil, fmt.Errorf("webscraper: unknown category %q", cat)
	}

	path := r.Path(cat)
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		metrics.RawCSVLoads.WithLabelValues(string(cat), "not_found").Inc()
		return nil, fmt.Errorf("webscraper: %s: %w", path, ErrRawCSVNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("webscraper: open %s: %w", path, err)
	}
	defer f.Close()

	listings, err := r.decode(f, cat)
	if err != nil {
		metrics.RawCSVLoads.WithLabelValues(string(cat), "malformed").Inc()
		return nil, fmt.Errorf("webscraper: %s: %w", path, err)
	}

	metrics.RawCSVLoads.WithLabelValues(string(cat), "ok").Inc()
	r.logger.Info("[webscraper] %s — %d raw listings from %s", cat, len(listings), path)
	return listings, nil
}

// LoadAll concatenates the files of every category in cats, in that order.
// Categories without a file are skipped; any other failure is returned.
func (r *WebScraperReader) LoadAll(cats []models.Category) ([]*models.RawListing, error) {
	var all []*models.RawListing
	for _, cat := range cats {
		listings, err := r.Load(cat)
		if errors.Is(err, ErrRawCSVNotFound) {
			r.logger.Warn("[webscraper] no data available for %s", cat)
			continue
		}
		if err != nil {
			return nil, err
		}
		all = append(all, listings...)
	}
	return all, nil
}

func (r *WebScraperReader) decode(src io.Reader, cat models.Category) ([]*models.RawListing, error) {
	cr := csv.NewReader(src)
	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: empty file", ErrMalformedCSV)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: header: %v", ErrMalformedCSV, err)
	}

	idx := make(map[string]int, len(header))
	for i, h := range header {
		if i == 0 {
			h = strings.TrimPrefix(h, "\ufeff")
		}
		idx[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, col := range requiredColumns {
		if _, ok := idx[col]; !ok {
			return nil, fmt.Errorf("%w: missing column %q", ErrMalformedCSV, col)
		}
	}
	catIdx, hasCat := idx["categorie"]

	listings := make([]*models.RawListing, 0)
	relabelled := 0
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedCSV, err)
		}

		l := &models.RawListing{
			Titre:     row[idx["titre"]],
			Prix:      row[idx["prix"]],
			Adresse:   row[idx["adresse"]],
			ImageLien: row[idx["image_lien"]],
			Categorie: cat,
		}
		if hasCat {
			if v := strings.TrimSpace(row[catIdx]); v != "" && v != string(cat) {
				relabelled++
			}
		}
		listings = append(listings, l)
	}

	if relabelled > 0 {
		r.logger.Warn("[webscraper] %s — %d rows carried another categorie and were relabelled", cat, relabelled)
	}
	return listings, nil
}
