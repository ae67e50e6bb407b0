package notify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishAndActive(t *testing.T) {
	c := NewCenter()
	id := c.Publish(Success, "added to cart", 0)
	require.NotEmpty(t, id)

	active := c.Active()
	require.Len(t, active, 1)
	assert.Equal(t, "added to cart", active[0].Message)
	assert.Equal(t, Success, active[0].Level)
}

func TestExpiryPrunes(t *testing.T) {
	c := NewCenter()
	now := time.Now()
	c.now = func() time.Time { return now }

	c.Publish(Info, "short lived", 100*time.Millisecond)
	require.Len(t, c.Active(), 1)

	now = now.Add(time.Second)
	assert.Empty(t, c.Active())
}

func TestDismiss(t *testing.T) {
	c := NewCenter()
	id := c.Publish(Error, "could not update cart", time.Minute)
	c.Publish(Info, "unrelated", time.Minute)

	c.Dismiss(id)
	active := c.Active()
	require.Len(t, active, 1)
	assert.Equal(t, "unrelated", active[0].Message)
}

func TestSubscribeReceives(t *testing.T) {
	c := NewCenter()
	ch, cancel := c.Subscribe()
	defer cancel()

	c.Publish(Warning, "backend unreachable", time.Minute)

	select {
	case n := <-ch:
		assert.Equal(t, Warning, n.Level)
	case <-time.After(time.Second):
		t.Fatal("no notification delivered")
	}
}

func TestCancelClosesChannel(t *testing.T) {
	c := NewCenter()
	ch, cancel := c.Subscribe()
	cancel()

	_, ok := <-ch
	assert.False(t, ok)
	// publishing after cancel must not panic
	c.Publish(Info, "after cancel", time.Minute)
}
