package coinafrique

import (
	"fmt"
	"strconv"
	"strings"

	"coinafrique-scraper/models"
)

// Selectors locate a listing card and its fields on a category page.
type Selectors struct {
	Card    string
	Title   string
	Price   string
	Address string
	Image   string
}

// CategoryConfig describes how one category is fetched and read.
type CategoryConfig struct {
	Key   models.Category
	Label string
	Path  string
	// TitleField names the title column in the per-category view.
	TitleField string
	Selectors  Selectors
}

// cardSelectors is the listing card layout shared by every animal category.
var cardSelectors = Selectors{
	Card:    "div.card.ad__card",
	Title:   ".ad__card-description a",
	Price:   ".ad__card-price a",
	Address: ".ad__card-location span",
	Image:   "img.ad__card-img",
}

var categories = map[models.Category]CategoryConfig{
	models.CategoryChiens: {
		Key: models.CategoryChiens, Label: "Chiens", Path: "chiens",
		TitleField: "Nom", Selectors: cardSelectors,
	},
	models.CategoryMoutons: {
		Key: models.CategoryMoutons, Label: "Moutons", Path: "moutons",
		TitleField: "Nom", Selectors: cardSelectors,
	},
	models.CategoryPoulesLapins: {
		Key: models.CategoryPoulesLapins, Label: "Poules, lapins et pigeons", Path: "poules-lapins-et-pigeons",
		TitleField: "Details", Selectors: cardSelectors,
	},
	models.CategoryAutresAnimaux: {
		Key: models.CategoryAutresAnimaux, Label: "Autres animaux", Path: "autres-animaux",
		TitleField: "Nom", Selectors: cardSelectors,
	},
}

// Lookup returns the table entry for cat.
func Lookup(cat models.Category) (CategoryConfig, error) {
	cc, ok := categories[cat]
	if !ok {
		return CategoryConfig{}, fmt.Errorf("coinafrique: unknown category %q", cat)
	}
	return cc, nil
}

// CategoryURL joins the site's category root and the category path.
func CategoryURL(baseURL string, cat models.Category) (string, error) {
	cc, err := Lookup(cat)
	if err != nil {
		return "", err
	}
	return strings.TrimRight(baseURL, "/") + "/" + cc.Path, nil
}

// PageURL returns the URL of page n. Page 1 is the bare category URL.
func PageURL(categoryURL string, page int) string {
	if page <= 1 {
		return categoryURL
	}
	sep := "?"
	if strings.Contains(categoryURL, "?") {
		sep = "&"
	}
	return categoryURL + sep + "page=" + strconv.Itoa(page)
}
