package crawler

import (
	"context"
	"io"
	"net/http"
	"net/url"

	"sjsage522/livehsworker/helpers"
	"sjsage522/livehsworker/internal/metrics"
	"sjsage522/livehsworker/pkg/errors"
	"sjsage522/livehsworker/services/cache"
)

// BaseCrawler provides the fetch side shared by listing crawlers
type BaseCrawler struct {
	Source  string
	Client  *http.Client
	Guard   *cache.RateLimitGuard
	Metrics *metrics.Metrics
}

// fetchWithCache performs one fetch attempt, short-circuiting while the
// rate-limit marker is set and setting it when the site rate limits us
func (c *BaseCrawler) fetchWithCache(ctx context.Context, pageURL string) (io.Reader, error) {
	if c.Guard.Blocked() {
		c.Metrics.PageFetched(string(errors.ErrorTypeRateLimit))
		return nil, errors.NewRateLimit(c.Source, c.Guard.BlockTime())
	}

	body, err := helpers.FetchWithRandomHeaders(ctx, c.Client, pageURL)
	if err != nil {
		if errors.IsType(err, errors.ErrorTypeRateLimit) {
			c.Guard.Block()
		}
		c.Metrics.PageFetched(string(errors.TypeOf(err)))
		return nil, err
	}

	return body, nil
}

// BuildListingURL returns the list-view schedule URL for a date and category
func BuildListingURL(listingURL, date, categoryCode string) (string, error) {
	u, err := url.Parse(listingURL)
	if err != nil {
		return "", errors.NewValidation("crawler", "invalid listing URL "+listingURL)
	}
	q := u.Query()
	q.Set("date", date)
	q.Set("category_code", categoryCode)
	q.Set("list_type", "list")
	u.RawQuery = q.Encode()
	return u.String(), nil
}
