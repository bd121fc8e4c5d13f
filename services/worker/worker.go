package worker

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"sjsage522/livehsworker/config"
	"sjsage522/livehsworker/internal/channel"
	"sjsage522/livehsworker/internal/crawler"
	"sjsage522/livehsworker/internal/metrics"
	"sjsage522/livehsworker/internal/schedule"
	"sjsage522/livehsworker/logger"
	"sjsage522/livehsworker/pkg/errors"
	"sjsage522/livehsworker/services/sink"
)

// RunIDLayout formats the run start time into the run identifier
const RunIDLayout = "20060102150405"

// Options controls the crawl window and catalog
type Options struct {
	DaysBefore  int
	DaysAfter   int
	Categories  []config.Category
	OnlyLive    bool
	Concurrency int
	Location    *time.Location
}

// Run is the result of one full crawl
type Run struct {
	ID        string
	StartedAt time.Time
	Records   []schedule.Record
	// RateLimitedPages counts pages skipped because the site rate limited us
	RateLimitedPages int
}

// Count returns the number of records collected by the run
func (r *Run) Count() int {
	return len(r.Records)
}

// Worker drives the date × category crawl and hands the result to the sink
type Worker struct {
	crawler  crawler.Crawler
	registry *channel.Registry
	sink     sink.Sink
	metrics  *metrics.Metrics
	opts     Options
	now      func() time.Time
	log      *logger.Logger

	rateLimited atomic.Int64
}

// NewWorker creates a new worker
func NewWorker(
	c crawler.Crawler,
	registry *channel.Registry,
	s sink.Sink,
	m *metrics.Metrics,
	opts Options,
) *Worker {
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.DaysBefore < 0 {
		opts.DaysBefore = 0
	}
	if opts.DaysAfter < 0 {
		opts.DaysAfter = 0
	}
	return &Worker{
		crawler:  c,
		registry: registry,
		sink:     s,
		metrics:  m,
		opts:     opts,
		now:      time.Now,
		log:      logger.ForWorker(),
	}
}

// Dates returns the YYYYMMDD days from DaysBefore days ago to DaysAfter days ahead, inclusive
func (w *Worker) Dates(now time.Time) []string {
	today := now.In(w.opts.Location)
	dates := make([]string, 0, w.opts.DaysBefore+w.opts.DaysAfter+1)
	for offset := -w.opts.DaysBefore; offset <= w.opts.DaysAfter; offset++ {
		dates = append(dates, today.AddDate(0, 0, offset).Format(schedule.DateLayout))
	}
	return dates
}

// CrawlOne fetches one listing page and returns its records, deduplicated in
// first-seen order. Fetch and parse failures are logged and yield no records.
func (w *Worker) CrawlOne(ctx context.Context, date, categoryCode, categoryLabel string, onlyLive bool) []schedule.Record {
	log := w.log.WithFields(logger.Fields{"date": date, "category": categoryLabel})

	items, err := w.crawler.FetchListing(ctx, date, categoryCode, onlyLive)
	if err != nil {
		log.WithError(err).Error().Str("error_type", string(errors.TypeOf(err))).Msg("Listing page skipped")
		if errors.IsType(err, errors.ErrorTypeRateLimit) {
			w.rateLimited.Add(1)
		}
		return []schedule.Record{}
	}

	records := make([]schedule.Record, 0, len(items))
	seen := schedule.NewDeduper()
	for _, item := range items {
		record, err := schedule.Normalize(w.registry, date, item.ChannelCode, item.Time, item.Title, item.Link, categoryLabel)
		if err != nil {
			log.Warn().Err(err).Str("title", item.Title).Msg("Skipping item")
			continue
		}
		if seen.Add(record) {
			records = append(records, record)
		}
	}

	w.metrics.RecordsAdded(categoryLabel, len(records))
	log.Debug().Int("items", len(items)).Int("records", len(records)).Msg("Listing page crawled")
	return records
}

type pair struct {
	date     string
	category config.Category
}

// Collect crawls every (category, date) pair and concatenates the results
// in enumeration order. Records are not deduplicated across pairs.
func (w *Worker) Collect(ctx context.Context, dates []string) []schedule.Record {
	var pairs []pair
	for _, category := range w.opts.Categories {
		for _, date := range dates {
			pairs = append(pairs, pair{date: date, category: category})
		}
	}

	results := make([][]schedule.Record, len(pairs))
	sem := make(chan struct{}, w.opts.Concurrency)
	var wg sync.WaitGroup
	for i, p := range pairs {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, p pair) {
			defer wg.Done()
			defer func() { <-sem }()
			results[i] = w.CrawlOne(ctx, p.date, p.category.Code, p.category.Label, w.opts.OnlyLive)
			w.log.Info().
				Str("date", p.date).
				Str("category", p.category.Label).
				Int("records", len(results[i])).
				Msg("Collected schedules")
		}(i, p)
	}
	wg.Wait()

	var all []schedule.Record
	for _, records := range results {
		all = append(all, records...)
	}
	return all
}

// Run performs one full crawl and persists the result exactly once.
// Only a sink failure is returned as an error.
func (w *Worker) Run(ctx context.Context) (*Run, error) {
	startedAt := w.now().In(w.opts.Location)
	run := &Run{
		ID:        startedAt.Format(RunIDLayout),
		StartedAt: startedAt,
	}

	dates := w.Dates(startedAt)
	w.log.Info().
		Str("run_id", run.ID).
		Str("from", dates[0]).
		Str("to", dates[len(dates)-1]).
		Int("categories", len(w.opts.Categories)).
		Msg("Starting crawl run")

	w.rateLimited.Store(0)
	run.Records = w.Collect(ctx, dates)
	run.RateLimitedPages = int(w.rateLimited.Load())
	if run.RateLimitedPages > 0 {
		w.log.Warn().
			Str("run_id", run.ID).
			Int("rate_limited_pages", run.RateLimitedPages).
			Msg("Pages skipped while rate limited, run is incomplete")
	}

	w.log.Info().Str("run_id", run.ID).Int("total", run.Count()).Msg("Handing records to sink")
	if err := w.sink.Persist(ctx, run.ID, run.Records); err != nil {
		return run, errors.NewSink("worker", "persist run "+run.ID, err)
	}

	if w.metrics != nil {
		w.metrics.RunRecords.Set(float64(run.Count()))
		w.metrics.RunDuration.Set(w.now().Sub(startedAt).Seconds())
	}
	w.log.Info().Str("run_id", run.ID).Int("total", run.Count()).Msg("Crawl run finished")
	return run, nil
}
