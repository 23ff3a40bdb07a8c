package services

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"coinafrique-scraper/models"
	"coinafrique-scraper/utils"
)

// topByPriceLimit caps the "top listings by price" table.
const topByPriceLimit = 50

type InsightService struct {
	logger *utils.Logger
}

func NewInsightService(logger *utils.Logger) *InsightService {
	return &InsightService{logger: logger}
}

// Generate computes the dashboard aggregates over a cleaned dataset.
func (s *InsightService) Generate(listings []*models.Listing) *models.InsightReport {
	report := &models.InsightReport{}
	if len(listings) == 0 {
		return report
	}

	report.TotalListings = len(listings)

	counts := make(map[models.Category]int)
	var priced []*models.Listing
	for _, l := range listings {
		counts[l.Categorie]++
		if l.HasPrice() {
			priced = append(priced, l)
		}
	}
	report.CategoriesCount = len(counts)

	for cat, n := range counts {
		report.CountByCategory = append(report.CountByCategory, models.CategoryCount{Category: cat, Count: n})
	}
	sort.Slice(report.CountByCategory, func(i, j int) bool {
		a, b := report.CountByCategory[i], report.CountByCategory[j]
		if a.Count != b.Count {
			return a.Count < b.Count
		}
		return a.Category < b.Category
	})

	report.MedianPrice = median(priced)

	means := CategoryMeans(listings)
	for _, cat := range orderedCategories(means) {
		report.AvgByCategory = append(report.AvgByCategory, models.CategoryPrice{Category: cat, MeanPrice: means[cat]})
	}

	sort.SliceStable(priced, func(i, j int) bool {
		return *priced[i].Prix > *priced[j].Prix
	})
	if len(priced) > topByPriceLimit {
		priced = priced[:topByPriceLimit]
	}
	report.TopByPrice = priced

	s.logger.Debug("[insights] %d listings across %d categories", report.TotalListings, report.CategoriesCount)
	return report
}

// Print writes the report as a terminal dashboard.
func (s *InsightService) Print(w io.Writer, r *models.InsightReport) {
	sep := strings.Repeat("═", 54)
	thin := strings.Repeat("─", 54)

	fmt.Fprintf(w, "\n\033[1;35m%s\033[0m\n", sep)
	fmt.Fprintf(w, "\033[1;35m  COINAFRIQUE ANIMAUX — DASHBOARD\033[0m\n")
	fmt.Fprintf(w, "\033[1;35m%s\033[0m\n\n", sep)

	fmt.Fprintf(w, "\033[1;33m  Vue d'ensemble\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	fmt.Fprintf(w, "  Annonces    : \033[1m%d\033[0m\n", r.TotalListings)
	fmt.Fprintf(w, "  Categories  : \033[1m%d\033[0m\n", r.CategoriesCount)
	fmt.Fprintf(w, "  Prix median : \033[1;32m%s\033[0m\n\n", FormatPrice(r.MedianPrice))

	fmt.Fprintf(w, "\033[1;33m  Nombre d'annonces par categorie\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	if len(r.CountByCategory) == 0 {
		fmt.Fprintf(w, "  Aucune annonce\n")
	}
	maxCount := 0
	for _, cc := range r.CountByCategory {
		if cc.Count > maxCount {
			maxCount = cc.Count
		}
	}
	for _, cc := range r.CountByCategory {
		fmt.Fprintf(w, "  %-26s %s (%d)\n", cc.Category, bar(cc.Count, maxCount, 20), cc.Count)
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "\033[1;33m  Prix moyen par categorie\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	if len(r.AvgByCategory) == 0 {
		fmt.Fprintf(w, "  Pas assez de prix numeriques\n")
	}
	for _, cp := range r.AvgByCategory {
		mean := cp.MeanPrice
		fmt.Fprintf(w, "  %-26s %s\n", cp.Category, FormatPrice(&mean))
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "\033[1;33m  Top annonces par prix\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	for i, l := range r.TopByPrice {
		if i == 10 {
			fmt.Fprintf(w, "  ... %d de plus\n", len(r.TopByPrice)-10)
			break
		}
		p := float64(*l.Prix)
		fmt.Fprintf(w, "  \033[1m%2d.\033[0m %-34s %s\n", i+1, truncate(l.Titre, 32), FormatPrice(&p))
	}

	fmt.Fprintf(w, "\n\033[1;35m%s\033[0m\n\n", sep)
}

// FormatPrice renders a price as "12 500 CFA", or "N/A" when missing.
func FormatPrice(v *float64) string {
	if v == nil {
		return "N/A"
	}
	digits := strconv.FormatInt(int64(*v), 10)
	neg := strings.HasPrefix(digits, "-")
	digits = strings.TrimPrefix(digits, "-")

	var sb strings.Builder
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			sb.WriteByte(' ')
		}
		sb.WriteRune(d)
	}
	out := sb.String() + " CFA"
	if neg {
		out = "-" + out
	}
	return out
}

func median(priced []*models.Listing) *float64 {
	if len(priced) == 0 {
		return nil
	}
	vals := make([]int64, 0, len(priced))
	for _, l := range priced {
		vals = append(vals, *l.Prix)
	}
	sort.Slice(vals, func(i, j int) bool { return vals[i] < vals[j] })

	mid := len(vals) / 2
	m := float64(vals[mid])
	if len(vals)%2 == 0 {
		m = (float64(vals[mid-1]) + float64(vals[mid])) / 2
	}
	return &m
}

// orderedCategories lists the keys of means in the fixed category order,
// followed by any unknown category alphabetically.
func orderedCategories(means map[models.Category]float64) []models.Category {
	var out []models.Category
	seen := make(map[models.Category]bool)
	for _, cat := range models.AllCategories {
		if _, ok := means[cat]; ok {
			out = append(out, cat)
			seen[cat] = true
		}
	}
	var rest []models.Category
	for cat := range means {
		if !seen[cat] {
			rest = append(rest, cat)
		}
	}
	sort.Slice(rest, func(i, j int) bool { return rest[i] < rest[j] })
	return append(out, rest...)
}

func bar(n, max, width int) string {
	if max == 0 {
		return ""
	}
	w := n * width / max
	if w == 0 && n > 0 {
		w = 1
	}
	return strings.Repeat("█", w)
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
