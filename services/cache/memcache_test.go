package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// This test requires a running memcached instance
// If memcached is not available, the test will be skipped
func TestMemcacheService(t *testing.T) {
	mc, err := NewMemcacheService("localhost:11211", 100*time.Millisecond)
	if err != nil {
		t.Skip("Memcached is not available, skipping test")
	}

	err = mc.Set("livehs_test_key", []byte("test_value"), 2*time.Second)
	assert.NoError(t, err)

	value, err := mc.Get("livehs_test_key")
	assert.NoError(t, err)
	assert.Equal(t, "test_value", string(value))

	assert.NoError(t, mc.Delete("livehs_test_key"))
	assert.NoError(t, mc.Delete("livehs_test_key"))

	_, err = mc.Get("livehs_test_key")
	assert.Error(t, err)
}
