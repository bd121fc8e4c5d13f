package cache

import (
	"time"

	"github.com/bradfitz/gomemcache/memcache"

	"sjsage522/livehsworker/pkg/errors"
)

// MemcacheService implements CacheService using memcache
type MemcacheService struct {
	client *memcache.Client
}

// NewMemcacheService creates a memcache service and checks the server is reachable
func NewMemcacheService(serverAddr string, timeout time.Duration) (*MemcacheService, error) {
	client := memcache.New(serverAddr)
	client.Timeout = timeout
	if err := client.Ping(); err != nil {
		return nil, errors.NewCache("memcache", "ping "+serverAddr, err)
	}
	return &MemcacheService{client: client}, nil
}

// Get retrieves a value from memcache
func (m *MemcacheService) Get(key string) ([]byte, error) {
	item, err := m.client.Get(key)
	if err != nil {
		return nil, err
	}
	return item.Value, nil
}

// Set stores a value in memcache, rounding the expiration down to whole seconds
func (m *MemcacheService) Set(key string, value []byte, expiration time.Duration) error {
	return m.client.Set(&memcache.Item{
		Key:        key,
		Value:      value,
		Expiration: int32(expiration / time.Second),
	})
}

// Delete removes a value from memcache; a missing key is not an error
func (m *MemcacheService) Delete(key string) error {
	if err := m.client.Delete(key); err != nil && err != memcache.ErrCacheMiss {
		return err
	}
	return nil
}
