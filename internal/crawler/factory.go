package crawler

import (
	"net/http"

	"sjsage522/livehsworker/config"
	"sjsage522/livehsworker/helpers"
	"sjsage522/livehsworker/internal/channel"
	"sjsage522/livehsworker/internal/metrics"
	"sjsage522/livehsworker/logger"
	"sjsage522/livehsworker/services/cache"
)

// rateLimitCacheKey marks the listing host as blocked in the cache
const rateLimitCacheKey = "livehs_rate_limited"

// CreateCrawler builds the livehs crawler from the application configuration.
// cacheSvc may be nil, which disables the rate-limit guard.
func CreateCrawler(cfg *config.Config, registry *channel.Registry, cacheSvc cache.CacheService, m *metrics.Metrics) (Crawler, error) {
	return NewCrawler(CrawlerConfig{
		ListingURL: cfg.ListingURL,
		BaseURL:    cfg.BaseURL,
		Source:     "Livehs",
		Selectors:  LivehsSelectors,
	}, helpers.NewClient(cfg.FetchTimeout), newGuard(cacheSvc, cfg), registry, m)
}

// NewCrawler wires a parser and a fetcher for one listing configuration
func NewCrawler(crawlerCfg CrawlerConfig, client *http.Client, guard *cache.RateLimitGuard, registry *channel.Registry, m *metrics.Metrics) (*LivehsCrawler, error) {
	parser, err := NewLivehsParser(crawlerCfg.BaseURL, crawlerCfg.Selectors, registry, m)
	if err != nil {
		return nil, err
	}

	c := NewLivehsCrawler(crawlerCfg, client, guard, parser, m)
	logger.Info("Created %s for %s", c.GetName(), crawlerCfg.ListingURL)
	return c, nil
}

func newGuard(cacheSvc cache.CacheService, cfg *config.Config) *cache.RateLimitGuard {
	if cacheSvc == nil {
		return nil
	}
	return cache.NewRateLimitGuard(cacheSvc, rateLimitCacheKey, cfg.RateLimitBlock)
}
