package coinafrique

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coinafrique-scraper/models"
)

// pageHTML renders n listing cards labelled with prefix.
func pageHTML(prefix string, n int) string {
	var sb strings.Builder
	sb.WriteString("<html><body><div class=\"row\">")
	for i := 1; i <= n; i++ {
		fmt.Fprintf(&sb, `
<div class="col s6 m4 l3">
  <div class="card ad__card">
    <a href="/annonce/%[1]s-%[2]d"><img class="ad__card-img" src="https://img.example/%[1]s-%[2]d.jpg"></a>
    <p class="ad__card-description"><a href="/annonce/%[1]s-%[2]d">  %[1]s   numero %[2]d </a></p>
    <p class="ad__card-price"><a href="/annonce/%[1]s-%[2]d">%[2]d0 000 CFA</a></p>
    <p class="ad__card-location"><span class="valign-wrapper">Dakar,
       Sénégal</span></p>
  </div>
</div>`, prefix, i)
	}
	sb.WriteString("</div></body></html>")
	return sb.String()
}

func TestExtractCards(t *testing.T) {
	got, err := Extract(pageHTML("berger", 2), models.CategoryChiens)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, &models.RawListing{
		Titre:     "berger numero 1",
		Prix:      "10 000 CFA",
		Adresse:   "Dakar, Sénégal",
		ImageLien: "https://img.example/berger-1.jpg",
		Categorie: models.CategoryChiens,
	}, got[0])
	assert.Equal(t, "berger numero 2", got[1].Titre)
}

func TestExtractNoCardsIsEmpty(t *testing.T) {
	got, err := Extract("<html><body><p>Aucune annonce</p></body></html>", models.CategoryMoutons)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestExtractMissingFieldsAreBlank(t *testing.T) {
	html := `<div class="card ad__card"><p class="ad__card-price"><a>Prix sur demande</a></p></div>`

	got, err := Extract(html, models.CategoryAutresAnimaux)
	require.NoError(t, err)
	require.Len(t, got, 1)

	assert.Equal(t, "", got[0].Titre)
	assert.Equal(t, "Prix sur demande", got[0].Prix)
	assert.Equal(t, "", got[0].Adresse)
	assert.Equal(t, "", got[0].ImageLien)
	assert.Equal(t, models.CategoryAutresAnimaux, got[0].Categorie)
}

func TestExtractImageFallsBackToDataSrc(t *testing.T) {
	html := `<div class="card ad__card"><img class="ad__card-img" data-src="https://img.example/lazy.jpg"></div>`

	got, err := Extract(html, models.CategoryPoulesLapins)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "https://img.example/lazy.jpg", got[0].ImageLien)
}

func TestExtractUnknownCategory(t *testing.T) {
	_, err := Extract(pageHTML("x", 1), models.Category("chats"))
	assert.Error(t, err)
}
