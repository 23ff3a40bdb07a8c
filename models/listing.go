package models

import (
	"strconv"

	"github.com/google/uuid"
)

// Category is one of the fixed animal-listing subsections of the site.
type Category string

const (
	CategoryChiens        Category = "chiens"
	CategoryMoutons       Category = "moutons"
	CategoryPoulesLapins  Category = "poules-lapins-et-pigeons"
	CategoryAutresAnimaux Category = "autres-animaux"
)

// AllCategories lists every category in display order.
var AllCategories = []Category{
	CategoryChiens,
	CategoryMoutons,
	CategoryPoulesLapins,
	CategoryAutresAnimaux,
}

// Valid reports whether c belongs to the fixed category set.
func (c Category) Valid() bool {
	for _, k := range AllCategories {
		if c == k {
			return true
		}
	}
	return false
}

// RawListing holds a listing exactly as extracted from a page or read from a
// web scraper CSV. Prix is free text ("25 000 CFA", "Prix sur demande", "").
type RawListing struct {
	Titre     string
	Prix      string
	Adresse   string
	ImageLien string
	Categorie Category
}

// Listing is a cleaned record. A nil Prix means the price is missing.
type Listing struct {
	Titre     string
	Prix      *int64
	Adresse   string
	ImageLien string
	Categorie Category
}

// HasPrice reports whether the listing carries a numeric price.
func (l *Listing) HasPrice() bool { return l.Prix != nil }

// StopReason explains why the pagination loop ended.
type StopReason string

const (
	StopMaxPages    StopReason = "max_pages"
	StopSafetyCap   StopReason = "safety_cap"
	StopEmptyPage   StopReason = "empty_page"
	StopFetchFailed StopReason = "fetch_failed"
)

// ScrapeResult is the outcome of one category scrape.
type ScrapeResult struct {
	RunID      uuid.UUID
	Category   Category
	Listings   []*RawListing
	Pages      int // pages that contributed records
	StopReason StopReason
}

// CategoryCount is a per-category aggregate used by the dashboard.
type CategoryCount struct {
	Category Category
	Count    int
}

// CategoryPrice is the mean known price of one category.
type CategoryPrice struct {
	Category  Category
	MeanPrice float64
}

// InsightReport holds the dashboard aggregates over a cleaned dataset.
type InsightReport struct {
	TotalListings   int
	CategoriesCount int
	MedianPrice     *float64
	CountByCategory []CategoryCount
	AvgByCategory   []CategoryPrice
	TopByPrice      []*Listing
}

// Raw converts a cleaned listing back to its text form, as it would be read
// from an exported CSV. A missing price becomes "".
func (l *Listing) Raw() *RawListing {
	prix := ""
	if l.Prix != nil {
		prix = strconv.FormatInt(*l.Prix, 10)
	}
	return &RawListing{
		Titre:     l.Titre,
		Prix:      prix,
		Adresse:   l.Adresse,
		ImageLien: l.ImageLien,
		Categorie: l.Categorie,
	}
}
