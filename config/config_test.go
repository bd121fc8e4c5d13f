package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	// Test with default values
	config := LoadConfig()
	assert.Equal(t, "https://m.livehs.co.kr/schedule", config.ListingURL)
	assert.Equal(t, 10*time.Second, config.FetchTimeout)
	assert.Equal(t, 1, config.DaysBefore)
	assert.Equal(t, 7, config.DaysAfter)
	assert.Equal(t, 1, config.Concurrency)
	assert.False(t, config.OnlyLive)
	assert.Equal(t, "postgres", config.Sink)
	assert.Len(t, config.Categories, 7)
	assert.Equal(t, Category{Code: "H10", Label: "렌탈"}, config.Categories[0])
	assert.Equal(t, 500*time.Second, config.RateLimitBlock)

	// Test with environment variables
	t.Setenv("FETCH_TIMEOUT_SECONDS", "3")
	t.Setenv("DAYS_AFTER", "2")
	t.Setenv("ONLY_LIVE", "true")
	t.Setenv("CATEGORIES", "H03:리빙")
	t.Setenv("SINK", "redis")
	t.Setenv("MEMCACHE_ADDR", "memcache.example.com:11211")

	config = LoadConfig()
	assert.Equal(t, 3*time.Second, config.FetchTimeout)
	assert.Equal(t, 2, config.DaysAfter)
	assert.True(t, config.OnlyLive)
	assert.Equal(t, []Category{{Code: "H03", Label: "리빙"}}, config.Categories)
	assert.Equal(t, "redis", config.Sink)
	assert.Equal(t, "memcache.example.com:11211", config.MemcacheAddr)
}

func TestParseCategories(t *testing.T) {
	categories := ParseCategories(" H10:렌탈 , broken, :empty, H13:명품")
	assert.Equal(t, []Category{
		{Code: "H10", Label: "렌탈"},
		{Code: "H13", Label: "명품"},
	}, categories)

	assert.Empty(t, ParseCategories(""))
}

func TestValidate(t *testing.T) {
	config := LoadConfig()
	assert.Error(t, config.Validate(), "postgres sink without DATABASE_URL")

	config.DatabaseURL = "postgres://localhost/livehs"
	assert.NoError(t, config.Validate())

	config.Sink = "firestore"
	assert.Error(t, config.Validate())

	config.Sink = "redis"
	config.Concurrency = 0
	assert.Error(t, config.Validate())

	config.Concurrency = 4
	config.Categories = nil
	assert.Error(t, config.Validate())
}

func TestValidateRejectsDuplicateCategories(t *testing.T) {
	config := LoadConfig()
	config.DatabaseURL = "postgres://localhost/livehs"

	// the same page crawled twice yields identical fingerprints in one run
	config.Categories = ParseCategories("H10:렌탈,H10:렌탈")
	err := config.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate category code")

	config.Categories = ParseCategories("H10:렌탈,H03:렌탈")
	err = config.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate category label")

	config.Categories = ParseCategories("H10:렌탈,H03:리빙")
	assert.NoError(t, config.Validate())
}

func TestLocation(t *testing.T) {
	config := &Config{Timezone: "Not/AZone"}
	assert.Equal(t, time.Local, config.Location())
}
