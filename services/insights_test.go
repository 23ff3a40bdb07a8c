package services

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coinafrique-scraper/models"
)

func sampleListings() []*models.Listing {
	return []*models.Listing{
		{Titre: "Berger A", Prix: price(200000), Adresse: "Dakar", Categorie: models.CategoryChiens},
		{Titre: "Caniche B", Prix: price(50000), Adresse: "Thies", Categorie: models.CategoryChiens},
		{Titre: "Ladoum C", Prix: price(1500000), Adresse: "Dakar", Categorie: models.CategoryMoutons},
		{Titre: "Poules D", Prix: price(5000), Adresse: "Rufisque", Categorie: models.CategoryPoulesLapins},
		{Titre: "Tortue E", Prix: nil, Adresse: "Mbour", Categorie: models.CategoryAutresAnimaux},
	}
}

func TestInsightCounts(t *testing.T) {
	svc := NewInsightService(newTestLogger())
	r := svc.Generate(sampleListings())

	assert.Equal(t, 5, r.TotalListings)
	assert.Equal(t, 4, r.CategoriesCount)
	require.Len(t, r.CountByCategory, 4)
	// ascending by count, ties by name
	assert.Equal(t, models.CategoryAutresAnimaux, r.CountByCategory[0].Category)
	assert.Equal(t, models.CategoryChiens, r.CountByCategory[3].Category)
	assert.Equal(t, 2, r.CountByCategory[3].Count)
}

func TestInsightMedian(t *testing.T) {
	svc := NewInsightService(newTestLogger())
	r := svc.Generate(sampleListings())

	require.NotNil(t, r.MedianPrice)
	// known prices 5000, 50000, 200000, 1500000
	assert.Equal(t, 125000.0, *r.MedianPrice)
}

func TestInsightAverageByCategory(t *testing.T) {
	svc := NewInsightService(newTestLogger())
	r := svc.Generate(sampleListings())

	assert.Equal(t, []models.CategoryPrice{
		{Category: models.CategoryChiens, MeanPrice: 125000},
		{Category: models.CategoryMoutons, MeanPrice: 1500000},
		{Category: models.CategoryPoulesLapins, MeanPrice: 5000},
	}, r.AvgByCategory)
}

func TestInsightTopByPrice(t *testing.T) {
	svc := NewInsightService(newTestLogger())
	r := svc.Generate(sampleListings())

	require.Len(t, r.TopByPrice, 4)
	assert.Equal(t, "Ladoum C", r.TopByPrice[0].Titre)
	assert.Equal(t, "Poules D", r.TopByPrice[3].Titre)
}

func TestInsightTopByPriceIsCapped(t *testing.T) {
	var many []*models.Listing
	for i := 0; i < 80; i++ {
		many = append(many, &models.Listing{Prix: price(int64(i)), Categorie: models.CategoryChiens})
	}

	r := NewInsightService(newTestLogger()).Generate(many)
	require.Len(t, r.TopByPrice, 50)
	assert.Equal(t, int64(79), *r.TopByPrice[0].Prix)
}

func TestInsightEmptyInput(t *testing.T) {
	r := NewInsightService(newTestLogger()).Generate(nil)
	assert.Equal(t, 0, r.TotalListings)
	assert.Nil(t, r.MedianPrice)
}

func TestInsightNoPrices(t *testing.T) {
	r := NewInsightService(newTestLogger()).Generate([]*models.Listing{
		{Titre: "x", Categorie: models.CategoryMoutons},
	})
	assert.Nil(t, r.MedianPrice)
	assert.Empty(t, r.AvgByCategory)
	assert.Empty(t, r.TopByPrice)
}

func TestInsightPrint(t *testing.T) {
	svc := NewInsightService(newTestLogger())
	var buf bytes.Buffer
	svc.Print(&buf, svc.Generate(sampleListings()))

	out := buf.String()
	assert.Contains(t, out, "125 000 CFA")
	assert.Contains(t, out, "Ladoum C")
	assert.Contains(t, out, "poules-lapins-et-pigeons")
}

func TestFormatPrice(t *testing.T) {
	f := func(v float64) *float64 { return &v }
	tests := []struct {
		in   *float64
		want string
	}{
		{nil, "N/A"},
		{f(0), "0 CFA"},
		{f(950), "950 CFA"},
		{f(12500), "12 500 CFA"},
		{f(1500000), "1 500 000 CFA"},
		{f(1234.9), "1 234 CFA"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatPrice(tt.in))
	}
}
