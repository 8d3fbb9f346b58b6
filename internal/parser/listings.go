package parser

import (
	"fmt"
	"io"
	"log"
	"math/rand"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/gocolly/colly/v2"
	"github.com/itcaat/olxscraper/internal/models"
)

const (
	// DefaultOrigin is the marketplace the collector talks to.
	DefaultOrigin = "https://www.olx.in"
	// DefaultUserAgent is sent with every page request.
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"
)

// Options configures a Collector. Zero values fall back to the defaults
// above, except the delays: zero delays mean no pause at all.
type Options struct {
	Origin    string
	UserAgent string
	MinDelay  time.Duration
	MaxDelay  time.Duration
	Rules     Rules
	// Out receives the per-page status lines. Defaults to os.Stdout.
	Out io.Writer
	// Logger receives request diagnostics. Defaults to a discarding logger.
	Logger *log.Logger
}

// Collector walks the paginated search results for a query.
type Collector struct {
	origin    string
	userAgent string
	minDelay  time.Duration
	maxDelay  time.Duration
	rules     Rules
	out       io.Writer
	logger    *log.Logger
	sleep     func(time.Duration)
}

// NewCollector creates a Collector from opts.
func NewCollector(opts Options) (*Collector, error) {
	if opts.Origin == "" {
		opts.Origin = DefaultOrigin
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	if opts.Rules == (Rules{}) {
		opts.Rules = DefaultRules()
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard, "", 0)
	}

	if err := opts.Rules.Validate(); err != nil {
		return nil, fmt.Errorf("invalid extraction rules: %w", err)
	}
	if opts.MinDelay < 0 || opts.MaxDelay < 0 {
		return nil, fmt.Errorf("delays must not be negative")
	}
	if opts.MaxDelay < opts.MinDelay {
		return nil, fmt.Errorf("max delay %v is shorter than min delay %v", opts.MaxDelay, opts.MinDelay)
	}

	origin, err := url.Parse(opts.Origin)
	if err != nil {
		return nil, fmt.Errorf("invalid origin: %w", err)
	}
	if origin.Scheme == "" || origin.Host == "" {
		return nil, fmt.Errorf("origin %q must be an absolute URL", opts.Origin)
	}

	return &Collector{
		origin:    strings.TrimSuffix(opts.Origin, "/"),
		userAgent: opts.UserAgent,
		minDelay:  opts.MinDelay,
		maxDelay:  opts.MaxDelay,
		rules:     opts.Rules,
		out:       opts.Out,
		logger:    opts.Logger,
		sleep:     time.Sleep,
	}, nil
}

// SearchURL returns the results URL for query, without the page parameter.
func (c *Collector) SearchURL(query string) string {
	slug := strings.ReplaceAll(query, " ", "-")
	return c.origin + "/items/q-" + url.PathEscape(slug)
}

// Collect fetches up to pages result pages for query and returns every
// listing found, page order first and document order within a page.
//
// The loop stops early on the first failed fetch or the first page without
// items. Listings from pages already processed are always returned; fetch
// failures are reported on the status writer, never to the caller.
func (c *Collector) Collect(query string, pages int) []models.Listing {
	baseURL := c.SearchURL(query)
	var (
		all   []models.Listing
		batch []models.Listing
	)

	col := c.newColly()
	col.OnHTML(c.rules.Item, func(e *colly.HTMLElement) {
		batch = append(batch, c.rules.Extract(e.DOM, c.origin))
	})

	for page := 1; page <= pages; page++ {
		fmt.Fprintf(c.out, "Scraping page %d/%d...\n", page, pages)
		batch = batch[:0]

		pageURL := fmt.Sprintf("%s?page=%d", baseURL, page)
		if err := col.Visit(pageURL); err != nil {
			fmt.Fprintf(c.out, "Error: %v\n", fmt.Errorf("fetch page %d: %w", page, err))
			break
		}

		if len(batch) == 0 {
			fmt.Fprintf(c.out, "No items found on page %d. Stopping.\n", page)
			break
		}

		all = append(all, batch...)
		fmt.Fprintf(c.out, "Found %d listings on page %d\n", len(batch), page)
	}

	return all
}

func (c *Collector) newColly() *colly.Collector {
	col := colly.NewCollector(
		colly.UserAgent(c.userAgent),
		colly.AllowedDomains(c.allowedDomains()...),
		colly.MaxDepth(1),
	)

	col.OnRequest(func(r *colly.Request) {
		c.pause()
		c.logger.Println("Visiting", r.URL)
	})

	col.OnResponse(func(r *colly.Response) {
		c.logger.Printf("Received response from %s, status %d, size: %d bytes", r.Request.URL, r.StatusCode, len(r.Body))
	})

	col.OnError(func(r *colly.Response, err error) {
		c.logger.Printf("Error visiting %s: status=%d err=%v", r.Request.URL, r.StatusCode, err)
	})

	return col
}

// allowedDomains lists the origin host both with and without its port so the
// domain filter accepts it either way.
func (c *Collector) allowedDomains() []string {
	u, err := url.Parse(c.origin)
	if err != nil {
		return nil
	}
	domains := []string{u.Hostname()}
	if u.Host != u.Hostname() {
		domains = append(domains, u.Host)
	}
	return domains
}

// pause sleeps for a random duration in [minDelay, maxDelay).
func (c *Collector) pause() {
	d := c.minDelay
	if spread := c.maxDelay - c.minDelay; spread > 0 {
		d += time.Duration(rand.Int63n(int64(spread)))
	}
	if d > 0 {
		c.sleep(d)
	}
}
