package persistence

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHireListCache_DisabledWithoutClient(t *testing.T) {
	cache := NewHireListCache(nil, 0)

	payload, warm := cache.Get(context.Background())
	assert.False(t, warm)
	assert.Nil(t, payload)

	// No-ops, must not panic.
	cache.Set(context.Background(), []byte("x"))
	cache.Invalidate(context.Background())

	_, warm = cache.Get(context.Background())
	assert.False(t, warm)
}

func TestHireListCache_NilReceiverIsSafe(t *testing.T) {
	var cache *HireListCache

	_, warm := cache.Get(context.Background())
	assert.False(t, warm)
	cache.Set(context.Background(), nil)
	cache.Invalidate(context.Background())
}
