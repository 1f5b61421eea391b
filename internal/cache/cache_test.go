package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSetGetDelete(t *testing.T) {
	c := New(true)

	etag := c.Set("k", []byte("v"), time.Minute)
	assert.NotEmpty(t, etag)

	data, got, ok := c.Get("k")
	assert.True(t, ok)
	assert.Equal(t, []byte("v"), data)
	assert.Equal(t, etag, got)

	c.Delete("k")
	_, _, ok = c.Get("k")
	assert.False(t, ok)
}

func TestExpiry(t *testing.T) {
	c := New(true)
	c.Set("k", []byte("v"), -time.Second)
	_, _, ok := c.Get("k")
	assert.False(t, ok)
}

func TestDisabledCacheIsNoOp(t *testing.T) {
	c := New(false)
	etag := c.Set("k", []byte("v"), time.Minute)
	assert.NotEmpty(t, etag) // ETag still computed for handlers
	_, _, ok := c.Get("k")
	assert.False(t, ok)
}

func TestETagMatch(t *testing.T) {
	etag := ComputeETag([]byte("body"))
	assert.True(t, CheckETagMatch(etag, etag))
	assert.True(t, CheckETagMatch("*", etag))
	assert.False(t, CheckETagMatch("", etag))
	assert.False(t, CheckETagMatch(`W/"other"`, etag))
}
