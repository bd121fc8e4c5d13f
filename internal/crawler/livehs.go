package crawler

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"sjsage522/livehsworker/helpers"
	"sjsage522/livehsworker/internal/channel"
	"sjsage522/livehsworker/internal/metrics"
	"sjsage522/livehsworker/logger"
	"sjsage522/livehsworker/pkg/errors"
	"sjsage522/livehsworker/services/cache"
)

// skip reasons reported to metrics
const (
	skipNoLogo    = "no_logo"
	skipNoCode    = "no_channel_code"
	skipMalformed = "malformed"
	skipNotLive   = "only_live"
)

// LivehsParser parses m.livehs.co.kr schedule list pages
type LivehsParser struct {
	baseURL   *url.URL
	selectors Selectors
	registry  *channel.Registry
	metrics   *metrics.Metrics
	log       *logger.Logger
}

// NewLivehsParser creates a parser resolving item links against baseURL
func NewLivehsParser(baseURL string, selectors Selectors, registry *channel.Registry, m *metrics.Metrics) (*LivehsParser, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, errors.NewConfiguration("invalid base URL "+baseURL, err)
	}
	return &LivehsParser{
		baseURL:   base,
		selectors: selectors,
		registry:  registry,
		metrics:   m,
		log:       logger.ForCrawler("livehs"),
	}, nil
}

// Parse extracts every genuine schedule item from the page
func (p *LivehsParser) Parse(body io.Reader, pageURL string, onlyLive bool) ([]RawItem, error) {
	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return nil, errors.NewParsing("livehs", "HTML parsing failed for "+pageURL, err)
	}

	var items []RawItem
	doc.Find(p.selectors.ItemList).Each(func(i int, s *goquery.Selection) {
		item, reason, err := p.processItemSafely(s)
		if err != nil {
			p.log.Warn().Err(err).Str("url", pageURL).Int("index", i).Msg("Skipping malformed item")
			p.metrics.ItemSkipped(reason)
			return
		}
		if item == nil {
			p.metrics.ItemSkipped(reason)
			return
		}
		if onlyLive && p.registry.Classify(p.registry.ResolveName(item.ChannelCode)) != channel.Live {
			p.metrics.ItemSkipped(skipNotLive)
			return
		}
		items = append(items, *item)
	})

	return items, nil
}

// processItemSafely keeps a panic inside one item from losing the page
func (p *LivehsParser) processItemSafely(s *goquery.Selection) (item *RawItem, reason string, err error) {
	defer func() {
		if r := recover(); r != nil {
			item, reason, err = nil, skipMalformed, errors.NewParsing("livehs", fmt.Sprintf("panic while parsing item: %v", r), nil)
		}
	}()
	return p.processItem(s)
}

// processItem returns (nil, reason, nil) for nodes that are not schedule entries
func (p *LivehsParser) processItem(s *goquery.Selection) (*RawItem, string, error) {
	timeSel := s.Find(p.selectors.Time).First()
	if timeSel.Length() == 0 {
		return nil, skipMalformed, errors.NewParsing("livehs", "time element not found", nil)
	}
	timeText := strippedText(timeSel)

	logo := s.Find(p.selectors.Logo).First()
	if logo.Length() == 0 {
		return nil, skipNoLogo, nil
	}

	code := p.channelCode(logo)
	if code == "" {
		classes, _ := logo.Attr("class")
		return nil, skipNoCode, errors.NewParsing("livehs", fmt.Sprintf("channel code not found in classes %q", classes), nil)
	}

	titleSel := s.Find(p.selectors.Title).First()
	if titleSel.Length() == 0 {
		return nil, skipMalformed, errors.NewParsing("livehs", "title element not found", nil)
	}
	title := strippedText(titleSel)

	link, err := p.resolveLink(s)
	if err != nil {
		return nil, skipMalformed, err
	}

	return &RawItem{
		ChannelCode: code,
		Time:        timeText,
		Title:       title,
		Link:        link,
	}, "", nil
}

// strippedText trims every text fragment under the selection and joins them
// without separators
func strippedText(sel *goquery.Selection) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(strings.TrimSpace(n.Data))
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range sel.Nodes {
		walk(n)
	}
	return b.String()
}

// channelCode takes the suffix of the first class token carrying the logo prefix
func (p *LivehsParser) channelCode(logo *goquery.Selection) string {
	classes, _ := logo.Attr("class")
	for _, class := range strings.Fields(classes) {
		if strings.HasPrefix(class, p.selectors.LogoClassPrefix) {
			return helpers.LastSplitPart(class, "-")
		}
	}
	return ""
}

func (p *LivehsParser) resolveLink(s *goquery.Selection) (string, error) {
	href, exists := s.Find(p.selectors.Link).First().Attr("href")
	href = strings.TrimSpace(href)
	if !exists || href == "" {
		return "", nil
	}
	ref, err := url.Parse(href)
	if err != nil {
		return "", errors.NewParsing("livehs", "invalid item link "+href, err)
	}
	return p.baseURL.ResolveReference(ref).String(), nil
}

// LivehsCrawler fetches and parses livehs schedule pages
type LivehsCrawler struct {
	BaseCrawler
	listingURL string
	parser     ListingParser
}

// NewLivehsCrawler creates a crawler for the given listing endpoint
func NewLivehsCrawler(config CrawlerConfig, client *http.Client, guard *cache.RateLimitGuard, parser ListingParser, m *metrics.Metrics) *LivehsCrawler {
	return &LivehsCrawler{
		BaseCrawler: BaseCrawler{
			Source:  config.Source,
			Client:  client,
			Guard:   guard,
			Metrics: m,
		},
		listingURL: config.ListingURL,
		parser:     parser,
	}
}

// GetName returns the crawler name
func (c *LivehsCrawler) GetName() string {
	return "LivehsCrawler"
}

// FetchListing fetches one listing page and parses it
func (c *LivehsCrawler) FetchListing(ctx context.Context, date, categoryCode string, onlyLive bool) ([]RawItem, error) {
	pageURL, err := BuildListingURL(c.listingURL, date, categoryCode)
	if err != nil {
		return nil, err
	}

	body, err := c.fetchWithCache(ctx, pageURL)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", pageURL, err)
	}

	items, err := c.parser.Parse(body, pageURL, onlyLive)
	if err != nil {
		c.Metrics.PageFetched(string(errors.ErrorTypeParsing))
		return nil, fmt.Errorf("parse %s: %w", pageURL, err)
	}

	c.Metrics.PageFetched("ok")
	return items, nil
}
