package services

import (
	"coinafrique-scraper/models"
	"coinafrique-scraper/scraper/coinafrique"
)

// CategoryView is the per-category table shown to users: only the
// category's listings, with the title column named after the category's
// title field ("Nom" or "Details").
type CategoryView struct {
	Category   models.Category
	Label      string
	TitleField string
	Listings   []*models.Listing
}

// Columns returns the view's header in display order.
func (v *CategoryView) Columns() []string {
	return []string{v.TitleField, "prix", "adresse", "image_lien"}
}

// NewCategoryView selects the listings of cat, keeping their order.
func NewCategoryView(listings []*models.Listing, cat models.Category) (*CategoryView, error) {
	cc, err := coinafrique.Lookup(cat)
	if err != nil {
		return nil, err
	}
	v := &CategoryView{Category: cat, Label: cc.Label, TitleField: cc.TitleField}
	for _, l := range listings {
		if l.Categorie == cat {
			v.Listings = append(v.Listings, l)
		}
	}
	return v, nil
}
