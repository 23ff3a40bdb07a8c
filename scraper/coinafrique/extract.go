package coinafrique

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"coinafrique-scraper/models"
)

// Extract reads every listing card on a category page. A page without cards
// yields an empty slice, which the pagination loop treats as the last page.
func Extract(html string, cat models.Category) ([]*models.RawListing, error) {
	cc, err := Lookup(cat)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("coinafrique: parse html: %w", err)
	}

	sel := cc.Selectors
	var out []*models.RawListing
	doc.Find(sel.Card).Each(func(_ int, card *goquery.Selection) {
		out = append(out, &models.RawListing{
			Titre:     text(card, sel.Title),
			Prix:      text(card, sel.Price),
			Adresse:   text(card, sel.Address),
			ImageLien: image(card, sel.Image),
			Categorie: cat,
		})
	})
	return out, nil
}

// text returns the whitespace-collapsed text of the first match, or "".
func text(s *goquery.Selection, selector string) string {
	return strings.Join(strings.Fields(s.Find(selector).First().Text()), " ")
}

// image prefers src and falls back to the lazy-load data-src attribute.
func image(s *goquery.Selection, selector string) string {
	img := s.Find(selector).First()
	if src, ok := img.Attr("src"); ok && strings.TrimSpace(src) != "" {
		return strings.TrimSpace(src)
	}
	src, _ := img.Attr("data-src")
	return strings.TrimSpace(src)
}
