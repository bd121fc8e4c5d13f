package cache

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type mapCache struct {
	data map[string][]byte
}

func (m *mapCache) Get(key string) ([]byte, error) {
	if v, ok := m.data[key]; ok {
		return v, nil
	}
	return nil, errors.New("cache miss")
}

func (m *mapCache) Set(key string, value []byte, expiration time.Duration) error {
	m.data[key] = value
	return nil
}

func (m *mapCache) Delete(key string) error {
	delete(m.data, key)
	return nil
}

func TestRateLimitGuard(t *testing.T) {
	store := &mapCache{data: map[string][]byte{}}
	guard := NewRateLimitGuard(store, "livehs_rate_limited", 500*time.Second)

	assert.False(t, guard.Blocked())

	guard.Block()
	assert.True(t, guard.Blocked())
	assert.Equal(t, "500", string(store.data["livehs_rate_limited"]))
	assert.Equal(t, 500*time.Second, guard.BlockTime())
}

func TestRateLimitGuardDisabled(t *testing.T) {
	var guard *RateLimitGuard
	guard.Block()
	assert.False(t, guard.Blocked())

	guard = NewRateLimitGuard(nil, "k", time.Second)
	guard.Block()
	assert.False(t, guard.Blocked())
}
