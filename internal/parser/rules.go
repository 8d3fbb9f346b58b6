package parser

import (
	"errors"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/itcaat/olxscraper/internal/models"
)

// Rule describes how one listing field is read from an item card.
type Rule struct {
	Selector string `yaml:"selector"`
	// Attr names the attribute to read. Empty means the element text.
	Attr string `yaml:"attr,omitempty"`
	// Resolve makes the value an absolute URL on the site origin.
	Resolve bool `yaml:"resolve,omitempty"`
}

// Rules maps the item card marker and every Listing field to a Rule.
type Rules struct {
	Item     string `yaml:"item"`
	Title    Rule   `yaml:"title"`
	Price    Rule   `yaml:"price"`
	Location Rule   `yaml:"location"`
	URL      Rule   `yaml:"url"`
	ImageURL Rule   `yaml:"image_url"`
}

// DefaultRules returns the selectors matching the current olx.in results
// markup.
func DefaultRules() Rules {
	return Rules{
		Item:     `li[data-aut-id="itemBox"]`,
		Title:    Rule{Selector: `[data-aut-id="itemTitle"]`},
		Price:    Rule{Selector: `[data-aut-id="itemPrice"]`},
		Location: Rule{Selector: `[data-aut-id="item-location"]`},
		URL:      Rule{Selector: "a", Attr: "href", Resolve: true},
		ImageURL: Rule{Selector: "img", Attr: "src"},
	}
}

// Validate reports the first rule that has no selector.
func (r Rules) Validate() error {
	if strings.TrimSpace(r.Item) == "" {
		return errors.New("item selector is empty")
	}

	fields := []struct {
		name string
		rule Rule
	}{
		{"title", r.Title},
		{"price", r.Price},
		{"location", r.Location},
		{"url", r.URL},
		{"image_url", r.ImageURL},
	}
	for _, f := range fields {
		if strings.TrimSpace(f.rule.Selector) == "" {
			return fmt.Errorf("%s selector is empty", f.name)
		}
	}

	return nil
}

// Extract builds a Listing from one item card. Every field ends up either
// with the extracted value or with models.NotAvailable.
func (r Rules) Extract(item *goquery.Selection, origin string) models.Listing {
	return models.Listing{
		Title:    r.Title.apply(item, origin),
		Price:    r.Price.apply(item, origin),
		Location: r.Location.apply(item, origin),
		URL:      r.URL.apply(item, origin),
		ImageURL: r.ImageURL.apply(item, origin),
	}
}

func (r Rule) apply(item *goquery.Selection, origin string) string {
	node := item.Find(r.Selector).First()
	if node.Length() == 0 {
		return models.NotAvailable
	}

	if r.Attr == "" {
		return strings.TrimSpace(node.Text())
	}

	value, exists := node.Attr(r.Attr)
	if !exists {
		return models.NotAvailable
	}
	if r.Resolve {
		return resolveURL(origin, value)
	}
	return value
}

// resolveURL makes href absolute against origin. Hrefs that already carry a
// scheme or are protocol-relative are kept; anything else is appended to the
// origin as is.
func resolveURL(origin, href string) string {
	switch {
	case strings.HasPrefix(href, "http://"), strings.HasPrefix(href, "https://"):
		return href
	case strings.HasPrefix(href, "//"):
		scheme := "https:"
		if strings.HasPrefix(origin, "http://") {
			scheme = "http:"
		}
		return scheme + href
	}
	return origin + href
}
