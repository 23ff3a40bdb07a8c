package services

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"coinafrique-scraper/metrics"
	"coinafrique-scraper/models"
	"coinafrique-scraper/utils"
)

var nonDigitRegexp = regexp.MustCompile(`\D`)

// onRequestMarker flags listings whose price is only given on request
// ("Prix sur demande").
const onRequestMarker = "sur demande"

// Cleaner turns raw listings into listings with a numeric or missing price
// and fills missing prices from the category mean.
type Cleaner struct {
	logger *utils.Logger
}

// NewCleaner creates a Cleaner with the given logger.
func NewCleaner(logger *utils.Logger) *Cleaner {
	return &Cleaner{logger: logger}
}

// Clean parses every price, then imputes missing ones per category. The
// input is not modified and record order is preserved.
func (c *Cleaner) Clean(raw []*models.RawListing) []*models.Listing {
	parsed := make([]*models.Listing, 0, len(raw))
	for _, r := range raw {
		prix, overflow := parsePrice(r.Prix)
		if overflow {
			c.logger.Debug("[cleaner] price %q overflows int64, treated as missing", r.Prix)
		}
		parsed = append(parsed, &models.Listing{
			Titre:     normaliseText(r.Titre),
			Prix:      prix,
			Adresse:   normaliseText(r.Adresse),
			ImageLien: strings.TrimSpace(r.ImageLien),
			Categorie: r.Categorie,
		})
	}
	return c.Impute(parsed)
}

// Impute replaces missing prices with the rounded mean of the known prices
// of the same category. A category with no known price keeps its gaps.
// The returned listings are copies.
func (c *Cleaner) Impute(listings []*models.Listing) []*models.Listing {
	means := CategoryMeans(listings)

	out := make([]*models.Listing, 0, len(listings))
	imputed := 0
	for _, l := range listings {
		cp := *l
		if cp.Prix == nil {
			if mean, ok := means[cp.Categorie]; ok {
				v := int64(math.Round(mean))
				cp.Prix = &v
				imputed++
			}
		} else {
			v := *cp.Prix
			cp.Prix = &v
		}
		out = append(out, &cp)
	}

	metrics.PricesImputed.Add(float64(imputed))
	c.logger.Info("[cleaner] Cleaned %d listings — %d missing prices imputed", len(out), imputed)
	return out
}

// CategoryMeans returns the mean known price of every category that has at
// least one.
func CategoryMeans(listings []*models.Listing) map[models.Category]float64 {
	sums := make(map[models.Category]float64)
	counts := make(map[models.Category]int)
	for _, l := range listings {
		if l.Prix == nil {
			continue
		}
		sums[l.Categorie] += float64(*l.Prix)
		counts[l.Categorie]++
	}

	means := make(map[models.Category]float64, len(counts))
	for cat, n := range counts {
		means[cat] = sums[cat] / float64(n)
	}
	return means
}

// ParsePrice extracts the digits of a price text. It returns nil for an
// on-request price, text without digits, or digits that overflow int64; a
// nil price is later imputed like any other missing one.
// Examples:
//
//	"25 000 CFA"       → 25000
//	"Prix sur demande" → nil
//	""                 → nil
func ParsePrice(raw string) *int64 {
	v, _ := parsePrice(raw)
	return v
}

// parsePrice is ParsePrice that also reports whether digits were dropped
// because they do not fit in an int64.
func parsePrice(raw string) (*int64, bool) {
	if strings.Contains(strings.ToLower(raw), onRequestMarker) {
		return nil, false
	}
	digits := nonDigitRegexp.ReplaceAllString(raw, "")
	if digits == "" {
		return nil, false
	}
	v, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return nil, true
	}
	return &v, false
}

// normaliseText strips leading/trailing whitespace and collapses internal whitespace.
func normaliseText(s string) string {
	fields := strings.FieldsFunc(s, unicode.IsSpace)
	return strings.Join(fields, " ")
}
