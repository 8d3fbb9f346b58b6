package parser

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/itcaat/olxscraper/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test helper: parse an HTML fragment and return the first item card
func firstItem(t *testing.T, html string) *goquery.Selection {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	item := doc.Find(DefaultRules().Item).First()
	require.Equal(t, 1, item.Length(), "fixture should contain an item card")
	return item
}

func TestExtract_Complete(t *testing.T) {
	item := firstItem(t, `<ul>
	<li data-aut-id="itemBox">
		<a href="/item/royal-enfield-classic-iid-1700">
			<img src="https://apollo.olxcdn.com/v1/files/abc/image">
			<span data-aut-id="itemPrice">  ₹ 1,20,000 </span>
			<span data-aut-id="itemTitle">Royal Enfield Classic 350</span>
			<span data-aut-id="item-location">Koramangala, Bengaluru</span>
		</a>
	</li>
	</ul>`)

	listing := DefaultRules().Extract(item, "https://www.olx.in")

	assert.Equal(t, models.Listing{
		Title:    "Royal Enfield Classic 350",
		Price:    "₹ 1,20,000",
		Location: "Koramangala, Bengaluru",
		URL:      "https://www.olx.in/item/royal-enfield-classic-iid-1700",
		ImageURL: "https://apollo.olxcdn.com/v1/files/abc/image",
	}, listing)
}

func TestExtract_MissingFields(t *testing.T) {
	item := firstItem(t, `<ul><li data-aut-id="itemBox"><div>nothing useful</div></li></ul>`)

	listing := DefaultRules().Extract(item, "https://www.olx.in")

	for _, v := range listing.Values() {
		assert.Equal(t, models.NotAvailable, v)
	}
}

func TestExtract_AnchorWithoutHref(t *testing.T) {
	item := firstItem(t, `<ul><li data-aut-id="itemBox">
		<a name="top"><span data-aut-id="itemTitle">Bike</span></a>
		<a href="/item/second">second link</a>
		<img alt="no source">
	</li></ul>`)

	listing := DefaultRules().Extract(item, "https://www.olx.in")

	assert.Equal(t, "Bike", listing.Title)
	assert.Equal(t, models.NotAvailable, listing.URL, "only the first anchor is considered")
	assert.Equal(t, models.NotAvailable, listing.ImageURL)
}

func TestExtract_EmptyTextIsKept(t *testing.T) {
	item := firstItem(t, `<ul><li data-aut-id="itemBox">
		<span data-aut-id="itemPrice">   </span>
	</li></ul>`)

	listing := DefaultRules().Extract(item, "https://www.olx.in")

	assert.Equal(t, "", listing.Price, "present but blank element yields empty text")
	assert.Equal(t, models.NotAvailable, listing.Title)
}

func TestExtract_RelativeImageKeptAsIs(t *testing.T) {
	item := firstItem(t, `<ul><li data-aut-id="itemBox"><img src="/static/thumb.webp"></li></ul>`)

	listing := DefaultRules().Extract(item, "https://www.olx.in")

	assert.Equal(t, "/static/thumb.webp", listing.ImageURL)
}

func TestExtract_CustomRules(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(`
	<div class="card" data-id="77">
		<h2>Honda Activa</h2>
		<b class="cost">₹ 45,000</b>
		<p class="where">Pune</p>
		<a class="more" data-href="/ad/77">details</a>
	</div>`))
	require.NoError(t, err)

	rules := Rules{
		Item:     "div.card",
		Title:    Rule{Selector: "h2"},
		Price:    Rule{Selector: ".cost"},
		Location: Rule{Selector: ".where"},
		URL:      Rule{Selector: "a.more", Attr: "data-href", Resolve: true},
		ImageURL: Rule{Selector: "img", Attr: "src"},
	}
	require.NoError(t, rules.Validate())

	listing := rules.Extract(doc.Find(rules.Item).First(), "http://example.com")

	assert.Equal(t, "Honda Activa", listing.Title)
	assert.Equal(t, "₹ 45,000", listing.Price)
	assert.Equal(t, "Pune", listing.Location)
	assert.Equal(t, "http://example.com/ad/77", listing.URL)
	assert.Equal(t, models.NotAvailable, listing.ImageURL)
}

func TestRulesValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(r *Rules)
		wantErr string
	}{
		{"defaults", func(r *Rules) {}, ""},
		{"no item", func(r *Rules) { r.Item = " " }, "item selector is empty"},
		{"no price", func(r *Rules) { r.Price.Selector = "" }, "price selector is empty"},
		{"no image", func(r *Rules) { r.ImageURL = Rule{} }, "image_url selector is empty"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rules := DefaultRules()
			tt.mutate(&rules)

			err := rules.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestResolveURL(t *testing.T) {
	tests := []struct {
		origin string
		href   string
		want   string
	}{
		{"https://www.olx.in", "/item/bike-iid-1", "https://www.olx.in/item/bike-iid-1"},
		{"https://www.olx.in", "https://www.olx.in/item/x", "https://www.olx.in/item/x"},
		{"https://www.olx.in", "//statics.olx.in/a.png", "https://statics.olx.in/a.png"},
		{"http://127.0.0.1:8080", "//cdn/a.png", "http://cdn/a.png"},
		{"https://www.olx.in", "", "https://www.olx.in"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, resolveURL(tt.origin, tt.href), "href %q", tt.href)
	}
}
