package collector

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/vishvasmca-cmd/careerraah-react-sub000/internal/config"
	"github.com/vishvasmca-cmd/careerraah-react-sub000/internal/domain"
)

const (
	listingTimeout   = 20 * time.Second
	listingUserAgent = "careerraah-ingestd/1.0"
)

// ListingCollector scrapes a portal's announcement listing page with
// configured selectors. One instance per configured source.
type ListingCollector struct {
	cfg    config.SourceConfig
	client *http.Client
}

// NewListing creates a collector for one configured listing page.
func NewListing(cfg config.SourceConfig) *ListingCollector {
	return &ListingCollector{
		cfg:    cfg,
		client: &http.Client{Timeout: listingTimeout},
	}
}

// FromConfig builds one collector per configured source.
func FromConfig(sources []config.SourceConfig) []Collector {
	collectors := make([]Collector, 0, len(sources))
	for _, src := range sources {
		collectors = append(collectors, NewListing(src))
	}
	return collectors
}

// Name returns the configured source name.
func (c *ListingCollector) Name() string {
	return c.cfg.Name
}

// Collect fetches the listing page and extracts one notice per matched row.
// Rows without a usable link or title are dropped silently — listing pages
// carry navigation rows that match broad selectors.
func (c *ListingCollector) Collect(ctx context.Context) ([]domain.Notice, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.URL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", listingUserAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch listing %s: %w", c.cfg.URL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch listing %s: unexpected status %d", c.cfg.URL, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse listing: %w", err)
	}

	base, err := url.Parse(c.cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}

	var notices []domain.Notice
	doc.Find(c.cfg.RowSelector).Each(func(_ int, row *goquery.Selection) {
		link := row.Find(c.cfg.LinkSelector).First()
		href, ok := link.Attr("href")
		if !ok {
			return
		}

		title := strings.TrimSpace(link.Text())
		if title == "" {
			title = strings.TrimSpace(row.Text())
		}
		if title == "" {
			return
		}

		resolved := resolveURL(base, href)
		if resolved == "" {
			return
		}

		notices = append(notices, domain.Notice{
			Title:      title,
			URL:        resolved,
			Source:     c.cfg.Name,
			Department: c.cfg.Department,
		})
	})

	return notices, nil
}

func resolveURL(base *url.URL, href string) string {
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return ""
	}

	resolved := base.ResolveReference(ref)
	if resolved.Scheme != "http" && resolved.Scheme != "https" {
		return ""
	}

	return resolved.String()
}
