package storage

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"coinafrique-scraper/models"
)

// Columns is the header shared by exports and web scraper files.
var Columns = []string{"titre", "prix", "adresse", "image_lien", "categorie"}

// CSVWriter exports a dataset to a CSV file. It is safe for concurrent use.
type CSVWriter struct {
	mu   sync.Mutex
	path string
	file *os.File
}

// NewCSVWriter creates (or truncates) the CSV file at the given path.
// Intermediate directories are created automatically.
func NewCSVWriter(path string) (*CSVWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("csv: create output dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("csv: create file %q: %w", path, err)
	}
	return &CSVWriter{path: path, file: f}, nil
}

// Path returns the file being written.
func (c *CSVWriter) Path() string { return c.path }

// WriteListings writes a header and one row per cleaned listing.
func (c *CSVWriter) WriteListings(listings []*models.Listing) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return EncodeListings(c.file, listings)
}

// WriteRaw writes a header and one row per raw listing.
func (c *CSVWriter) WriteRaw(listings []*models.RawListing) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return EncodeRaw(c.file, listings)
}

// WriteCategoryView writes a single-category table whose title column is
// named titleField and which omits the categorie column.
func (c *CSVWriter) WriteCategoryView(titleField string, listings []*models.Listing) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return EncodeCategoryView(c.file, titleField, listings)
}

// Close closes the underlying file.
func (c *CSVWriter) Close() error {
	return c.file.Close()
}

// EncodeListings writes cleaned listings as CSV. Missing prices are blank.
func EncodeListings(w io.Writer, listings []*models.Listing) error {
	rows := make([][]string, 0, len(listings))
	for _, l := range listings {
		rows = append(rows, []string{l.Titre, formatPrix(l.Prix), l.Adresse, l.ImageLien, string(l.Categorie)})
	}
	return encode(w, Columns, rows)
}

// EncodeRaw writes raw listings as CSV, prices untouched.
func EncodeRaw(w io.Writer, listings []*models.RawListing) error {
	rows := make([][]string, 0, len(listings))
	for _, l := range listings {
		rows = append(rows, []string{l.Titre, l.Prix, l.Adresse, l.ImageLien, string(l.Categorie)})
	}
	return encode(w, Columns, rows)
}

// EncodeCategoryView writes the per-category projection as CSV.
func EncodeCategoryView(w io.Writer, titleField string, listings []*models.Listing) error {
	rows := make([][]string, 0, len(listings))
	for _, l := range listings {
		rows = append(rows, []string{l.Titre, formatPrix(l.Prix), l.Adresse, l.ImageLien})
	}
	return encode(w, []string{titleField, "prix", "adresse", "image_lien"}, rows)
}

func encode(w io.Writer, header []string, rows [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("csv: write header: %w", err)
	}
	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("csv: write rows: %w", err)
	}
	return nil
}

func formatPrix(p *int64) string {
	if p == nil {
		return ""
	}
	return strconv.FormatInt(*p, 10)
}
