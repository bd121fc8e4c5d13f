package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"sjsage522/livehsworker/pkg/errors"
)

const defaultCategories = "H10:렌탈,H03:리빙,H09:여행,H01:여성패션,H11:남성패션,H12:언더웨어,H13:명품"

// Category is one entry of the category catalog
type Category struct {
	Code  string
	Label string
}

// Config represents the application configuration
type Config struct {
	// Listing site
	ListingURL   string
	BaseURL      string
	FetchTimeout time.Duration

	// Crawl window and catalog
	DaysBefore  int
	DaysAfter   int
	Categories  []Category
	OnlyLive    bool
	Concurrency int
	Timezone    string

	// Sink selection: "postgres" or "redis"
	Sink          string
	DatabaseURL   string
	RunMigrations bool

	// Redis configuration
	RedisAddr            string
	RedisDB              int
	RedisStream          string
	RedisStreamMaxLength int

	// Memcache configuration, empty address disables the rate-limit guard
	MemcacheAddr   string
	RateLimitBlock time.Duration

	PushgatewayURL string

	// Environment
	Environment string
}

// LoadConfig loads the configuration from environment variables with defaults
func LoadConfig() *Config {
	fetchTimeout, _ := strconv.Atoi(getEnv("FETCH_TIMEOUT_SECONDS", "10"))
	daysBefore, _ := strconv.Atoi(getEnv("DAYS_BEFORE", "1"))
	daysAfter, _ := strconv.Atoi(getEnv("DAYS_AFTER", "7"))
	concurrency, _ := strconv.Atoi(getEnv("CONCURRENCY", "1"))
	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	streamMaxLength, _ := strconv.Atoi(getEnv("REDIS_STREAM_MAX_LENGTH", "100000"))
	blockSeconds, _ := strconv.Atoi(getEnv("RATE_LIMIT_BLOCK_SECONDS", "500"))
	onlyLive, _ := strconv.ParseBool(getEnv("ONLY_LIVE", "false"))
	runMigrations, _ := strconv.ParseBool(getEnv("RUN_MIGRATIONS", "true"))

	return &Config{
		ListingURL:           getEnv("LISTING_URL", "https://m.livehs.co.kr/schedule"),
		BaseURL:              getEnv("BASE_URL", "https://m.livehs.co.kr"),
		FetchTimeout:         time.Duration(fetchTimeout) * time.Second,
		DaysBefore:           daysBefore,
		DaysAfter:            daysAfter,
		Categories:           ParseCategories(getEnv("CATEGORIES", defaultCategories)),
		OnlyLive:             onlyLive,
		Concurrency:          concurrency,
		Timezone:             getEnv("TIMEZONE", "Asia/Seoul"),
		Sink:                 getEnv("SINK", "postgres"),
		DatabaseURL:          os.Getenv("DATABASE_URL"),
		RunMigrations:        runMigrations,
		RedisAddr:            getEnv("REDIS_ADDR", "localhost:6379"),
		RedisDB:              redisDB,
		RedisStream:          getEnv("REDIS_STREAM", "livehs:schedules"),
		RedisStreamMaxLength: streamMaxLength,
		MemcacheAddr:         os.Getenv("MEMCACHE_ADDR"),
		RateLimitBlock:       time.Duration(blockSeconds) * time.Second,
		PushgatewayURL:       os.Getenv("PUSHGATEWAY_URL"),
		Environment:          getEnv("LIVEHS_ENVIRONMENT", "development"),
	}
}

// ParseCategories parses "CODE:label,CODE:label" into an ordered catalog.
// Malformed entries are dropped.
func ParseCategories(raw string) []Category {
	var categories []Category
	for _, entry := range strings.Split(raw, ",") {
		code, label, ok := strings.Cut(strings.TrimSpace(entry), ":")
		code, label = strings.TrimSpace(code), strings.TrimSpace(label)
		if !ok || code == "" || label == "" {
			continue
		}
		categories = append(categories, Category{Code: code, Label: label})
	}
	return categories
}

// Location returns the configured timezone, falling back to local time
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// Validate checks the configuration before any component is built
func (c *Config) Validate() error {
	if c.ListingURL == "" || c.BaseURL == "" {
		return errors.NewConfiguration("LISTING_URL and BASE_URL are required", nil)
	}
	if c.FetchTimeout <= 0 {
		return errors.NewConfiguration("FETCH_TIMEOUT_SECONDS must be positive", nil)
	}
	if c.DaysBefore < 0 || c.DaysAfter < 0 {
		return errors.NewConfiguration("DAYS_BEFORE and DAYS_AFTER must not be negative", nil)
	}
	if len(c.Categories) == 0 {
		return errors.NewConfiguration("CATEGORIES must name at least one CODE:label pair", nil)
	}
	codes := make(map[string]bool, len(c.Categories))
	labels := make(map[string]bool, len(c.Categories))
	for _, category := range c.Categories {
		if codes[category.Code] {
			return errors.NewConfiguration(fmt.Sprintf("duplicate category code %q in CATEGORIES", category.Code), nil)
		}
		if labels[category.Label] {
			return errors.NewConfiguration(fmt.Sprintf("duplicate category label %q in CATEGORIES", category.Label), nil)
		}
		codes[category.Code] = true
		labels[category.Label] = true
	}
	if c.Concurrency < 1 {
		return errors.NewConfiguration("CONCURRENCY must be at least 1", nil)
	}

	switch c.Sink {
	case "postgres":
		if c.DatabaseURL == "" {
			return errors.NewConfiguration("DATABASE_URL is required for the postgres sink", nil)
		}
	case "redis":
		if c.RedisAddr == "" {
			return errors.NewConfiguration("REDIS_ADDR is required for the redis sink", nil)
		}
	default:
		return errors.NewConfiguration(fmt.Sprintf("unknown SINK %q", c.Sink), nil)
	}
	return nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
