package crawler

import (
	"context"
	"io"
)

// RawItem is one listing entry as found in the page markup
type RawItem struct {
	ChannelCode string
	Time        string
	Title       string
	Link        string
}

// Crawler interface defines the contract for a listing source
type Crawler interface {
	// FetchListing fetches and parses the listing page for one date and category.
	// A non-nil error means the whole page was lost; malformed items are
	// skipped without an error.
	FetchListing(ctx context.Context, date, categoryCode string, onlyLive bool) ([]RawItem, error)

	// GetName returns the crawler's name for logging and identification
	GetName() string
}

// ListingParser extracts raw items from one fetched listing page
type ListingParser interface {
	Parse(body io.Reader, pageURL string, onlyLive bool) ([]RawItem, error)
}

// Selectors contains CSS selectors for the elements of a listing page
type Selectors struct {
	ItemList string
	Time     string
	Logo     string
	// LogoClassPrefix marks the logo class token carrying the channel code
	LogoClassPrefix string
	Title           string
	Link            string
}

// LivehsSelectors matches the m.livehs.co.kr schedule list markup
var LivehsSelectors = Selectors{
	ItemList:        "li.schedule-product",
	Time:            ".date",
	Logo:            ".sprite-site-logo-s",
	LogoClassPrefix: "sprite-site-logo-s-",
	Title:           ".title",
	Link:            "a",
}

// CrawlerConfig contains configuration for a crawler
type CrawlerConfig struct {
	ListingURL string
	BaseURL    string
	Source     string
	Selectors  Selectors
}
