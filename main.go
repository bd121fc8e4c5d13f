package main

import (
	"context"
	"time"

	"sjsage522/livehsworker/config"
	"sjsage522/livehsworker/internal/channel"
	"sjsage522/livehsworker/internal/crawler"
	"sjsage522/livehsworker/internal/metrics"
	"sjsage522/livehsworker/logger"
	"sjsage522/livehsworker/pkg/errors"
	"sjsage522/livehsworker/services/cache"
	"sjsage522/livehsworker/services/sink"
	"sjsage522/livehsworker/services/worker"

	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables
	godotenv.Load()

	// Initialize logger first
	logger.Init()
	log := logger.Default

	// Load and validate configuration
	cfg := config.LoadConfig()
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	log.Info().
		Str("environment", cfg.Environment).
		Str("sink", cfg.Sink).
		Int("days_before", cfg.DaysBefore).
		Int("days_after", cfg.DaysAfter).
		Int("categories", len(cfg.Categories)).
		Bool("only_live", cfg.OnlyLive).
		Msg("Starting application")

	ctx := context.Background()

	// Without a storage destination no schedules may be collected
	services, err := initializeServices(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize services")
	}
	defer services.Cleanup()

	registry := channel.DefaultRegistry()
	log.Debug().Strs("channels", registry.Codes()).Msg("Channel registry loaded")
	m := metrics.New()

	c, err := crawler.CreateCrawler(cfg, registry, services.Cache, m)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create crawler")
	}

	w := worker.NewWorker(c, registry, services.Sink, m, worker.Options{
		DaysBefore:  cfg.DaysBefore,
		DaysAfter:   cfg.DaysAfter,
		Categories:  cfg.Categories,
		OnlyLive:    cfg.OnlyLive,
		Concurrency: cfg.Concurrency,
		Location:    cfg.Location(),
	})

	start := time.Now()
	run, err := w.Run(ctx)
	if errors.IsFatal(err) {
		services.Cleanup()
		log.Fatal().Err(err).Msg("Crawl run failed")
	}
	if err != nil {
		log.Warn().Err(err).Msg("Crawl run finished with errors")
	}

	log.Info().
		Str("run_id", run.ID).
		Int("total", run.Count()).
		Int("rate_limited_pages", run.RateLimitedPages).
		Dur("elapsed", time.Since(start)).
		Msg("All work done")

	if cfg.PushgatewayURL != "" {
		if err := m.Push(cfg.PushgatewayURL, "livehs_crawl"); err != nil {
			logger.LogError("metrics", err, "Failed to push metrics to %s", cfg.PushgatewayURL)
		}
	}
}

// Services holds all the initialized services
type Services struct {
	Cache cache.CacheService
	Sink  sink.Sink
}

// Cleanup cleans up all services
func (s *Services) Cleanup() {
	if s.Sink != nil {
		s.Sink.Close()
		s.Sink = nil
	}
}

// initializeServices initializes the sink (required) and the cache (optional)
func initializeServices(ctx context.Context, cfg *config.Config) (*Services, error) {
	services := &Services{}

	switch cfg.Sink {
	case "postgres":
		if cfg.RunMigrations {
			if err := sink.RunMigrations(cfg.DatabaseURL); err != nil {
				return nil, err
			}
		}
		pg, err := sink.NewPostgresSink(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		services.Sink = pg
		logger.Info("Connected to Postgres")
	case "redis":
		rs, err := sink.NewRedisSink(ctx, cfg.RedisAddr, cfg.RedisDB, cfg.RedisStream, cfg.RedisStreamMaxLength)
		if err != nil {
			return nil, err
		}
		services.Sink = rs
		logger.Info("Connected to Redis at %s (DB: %d, Stream: %s)", cfg.RedisAddr, cfg.RedisDB, cfg.RedisStream)
	}

	if cfg.MemcacheAddr != "" {
		mc, err := cache.NewMemcacheService(cfg.MemcacheAddr, time.Second)
		if err != nil {
			logger.ForCache().Warn().Err(err).Str("addr", cfg.MemcacheAddr).Msg("Memcache unavailable, rate limit guard disabled")
		} else {
			services.Cache = mc
			logger.Info("Connected to Memcache at %s", cfg.MemcacheAddr)
		}
	}

	return services, nil
}
