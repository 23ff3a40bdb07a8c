package services

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coinafrique-scraper/models"
	"coinafrique-scraper/utils"
)

func newTestLogger() *utils.Logger {
	return utils.NewLoggerTo(io.Discard, io.Discard, utils.LevelError)
}

func price(v int64) *int64 { return &v }

// prices flattens the price column, using -1 for missing values.
func prices(listings []*models.Listing) []int64 {
	out := make([]int64, 0, len(listings))
	for _, l := range listings {
		if l.Prix == nil {
			out = append(out, -1)
			continue
		}
		out = append(out, *l.Prix)
	}
	return out
}

func rawWithPrices(cat models.Category, ps ...string) []*models.RawListing {
	out := make([]*models.RawListing, 0, len(ps))
	for _, p := range ps {
		out = append(out, &models.RawListing{Titre: "annonce", Prix: p, Categorie: cat})
	}
	return out
}

func TestParsePrice(t *testing.T) {
	tests := []struct {
		raw  string
		want *int64
	}{
		{"25 000 CFA", price(25000)},
		{"1.500.000 F CFA", price(1500000)},
		{"75000", price(75000)},
		{"Prix sur demande", nil},
		{"PRIX SUR DEMANDE", nil},
		{"prix sur demande 5000", nil},
		{"", nil},
		{"gratuit", nil},
		{"99999999999999999999999", nil},
	}

	for _, tt := range tests {
		got := ParsePrice(tt.raw)
		if tt.want == nil {
			assert.Nil(t, got, "ParsePrice(%q)", tt.raw)
			continue
		}
		require.NotNil(t, got, "ParsePrice(%q)", tt.raw)
		assert.Equal(t, *tt.want, *got, "ParsePrice(%q)", tt.raw)
	}
}

func TestCleanOverflowingPriceIsImputedAndLogged(t *testing.T) {
	var debug bytes.Buffer
	c := NewCleaner(utils.NewLoggerTo(&debug, io.Discard, utils.LevelDebug))
	raw := rawWithPrices(models.CategoryChiens, "10", "99 999 999 999 999 999 999 CFA")

	got := c.Clean(raw)
	assert.Equal(t, []int64{10, 10}, prices(got))
	assert.Contains(t, debug.String(), "overflows int64")
	assert.Contains(t, debug.String(), "99 999 999 999 999 999 999 CFA")
}

func TestCleanImputesCategoryMean(t *testing.T) {
	c := NewCleaner(newTestLogger())
	raw := rawWithPrices(models.CategoryChiens, "100 CFA", "Prix sur demande", "300 CFA")

	got := c.Clean(raw)
	assert.Equal(t, []int64{100, 200, 300}, prices(got))
}

func TestCleanImputesPerCategory(t *testing.T) {
	c := NewCleaner(newTestLogger())
	raw := append(
		rawWithPrices(models.CategoryChiens, "10", ""),
		rawWithPrices(models.CategoryMoutons, "1000", "sur demande")...,
	)

	got := c.Clean(raw)
	assert.Equal(t, []int64{10, 10, 1000, 1000}, prices(got))
}

func TestCleanRoundsMean(t *testing.T) {
	c := NewCleaner(newTestLogger())
	raw := rawWithPrices(models.CategoryMoutons, "100", "101", "")

	got := c.Clean(raw)
	assert.Equal(t, []int64{100, 101, 101}, prices(got))
}

func TestCleanNoKnownPricesStaysMissing(t *testing.T) {
	c := NewCleaner(newTestLogger())
	raw := rawWithPrices(models.CategoryAutresAnimaux, "Prix sur demande", "", "à débattre")

	got := c.Clean(raw)
	assert.Equal(t, []int64{-1, -1, -1}, prices(got))
}

func TestCleanEmptyCategoryDoesNotBorrow(t *testing.T) {
	c := NewCleaner(newTestLogger())
	raw := append(
		rawWithPrices(models.CategoryChiens, "500"),
		rawWithPrices(models.CategoryMoutons, "Prix sur demande")...,
	)

	got := c.Clean(raw)
	assert.Equal(t, []int64{500, -1}, prices(got))
}

func TestCleanNormalisesText(t *testing.T) {
	c := NewCleaner(newTestLogger())
	raw := []*models.RawListing{{
		Titre:     "  Berger   allemand\n pure race ",
		Prix:      "50 000",
		Adresse:   "\tDakar ,  Almadies ",
		ImageLien: " https://img.example/1.jpg ",
		Categorie: models.CategoryChiens,
	}}

	got := c.Clean(raw)
	require.Len(t, got, 1)
	assert.Equal(t, "Berger allemand pure race", got[0].Titre)
	assert.Equal(t, "Dakar , Almadies", got[0].Adresse)
	assert.Equal(t, "https://img.example/1.jpg", got[0].ImageLien)
	assert.Equal(t, models.CategoryChiens, got[0].Categorie)
}

func TestCleanKeepsOrderAndDuplicates(t *testing.T) {
	c := NewCleaner(newTestLogger())
	raw := []*models.RawListing{
		{Titre: "B", Prix: "2", Categorie: models.CategoryChiens},
		{Titre: "A", Prix: "1", Categorie: models.CategoryChiens},
		{Titre: "A", Prix: "1", Categorie: models.CategoryChiens},
	}

	got := c.Clean(raw)
	require.Len(t, got, 3)
	assert.Equal(t, "B", got[0].Titre)
	assert.Equal(t, "A", got[1].Titre)
	assert.Equal(t, "A", got[2].Titre)
}

func TestCleanIsIdempotent(t *testing.T) {
	c := NewCleaner(newTestLogger())
	raw := append(
		rawWithPrices(models.CategoryChiens, "15 000 CFA", "Prix sur demande", "20 001 CFA"),
		rawWithPrices(models.CategoryPoulesLapins, "", "3 500")...,
	)

	once := c.Clean(raw)
	again := make([]*models.RawListing, 0, len(once))
	for _, l := range once {
		again = append(again, l.Raw())
	}
	twice := c.Clean(again)

	assert.Equal(t, prices(once), prices(twice))
	assert.Equal(t, prices(once), prices(c.Impute(once)))
}

func TestImputeDoesNotMutateInput(t *testing.T) {
	c := NewCleaner(newTestLogger())
	in := []*models.Listing{
		{Prix: price(100), Categorie: models.CategoryChiens},
		{Prix: nil, Categorie: models.CategoryChiens},
	}

	out := c.Impute(in)
	assert.Nil(t, in[1].Prix)
	require.NotNil(t, out[1].Prix)
	assert.Equal(t, int64(100), *out[1].Prix)

	*out[0].Prix = 7
	assert.Equal(t, int64(100), *in[0].Prix)
}

func TestCategoryMeans(t *testing.T) {
	means := CategoryMeans([]*models.Listing{
		{Prix: price(10), Categorie: models.CategoryChiens},
		{Prix: price(20), Categorie: models.CategoryChiens},
		{Prix: nil, Categorie: models.CategoryMoutons},
	})

	assert.Equal(t, map[models.Category]float64{models.CategoryChiens: 15}, means)
}
