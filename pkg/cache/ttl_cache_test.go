package cache

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestGetSetDelete(t *testing.T) {
	c := New[string, int](time.Minute, time.Minute)
	defer c.Close()

	_, ok := c.Get("a")
	assert.False(t, ok)

	c.Set("a", 1)
	v, ok := c.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 1, v)

	c.Delete("a")
	_, ok = c.Get("a")
	assert.False(t, ok)
}

func TestExpiry(t *testing.T) {
	c := New[string, int](10*time.Millisecond, 5*time.Millisecond)
	defer c.Close()

	c.Set("a", 1)
	assert.Eventually(t, func() bool {
		_, ok := c.Get("a")
		return !ok
	}, time.Second, 5*time.Millisecond)

	assert.Eventually(t, func() bool {
		return c.Len() == 0
	}, time.Second, 5*time.Millisecond, "cleanup should evict expired entries")
}

func TestDeleteFunc(t *testing.T) {
	c := New[string, string](time.Minute, time.Minute)
	defer c.Close()

	c.Set("user:1", "a")
	c.Set("user:2", "b")
	c.Set("company:1", "c")

	c.DeleteFunc(func(key string) bool { return strings.HasPrefix(key, "user:") })

	assert.Equal(t, 1, c.Len())
	_, ok := c.Get("company:1")
	assert.True(t, ok)
}

func TestCloseIsIdempotent(t *testing.T) {
	c := New[int, int](time.Minute, time.Minute)
	c.Close()
	assert.NotPanics(t, c.Close)
}
