package espnow

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock is a crypto.TimeProvider double that only advances when told
// to, letting onlineWindow expiry be tested without sleeping.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Since(t time.Time) time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now.Sub(t)
}

func (c *fakeClock) advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func TestOnlineWindowExpiresOnFakeClock(t *testing.T) {
	medium := NewMedium()
	mac := MAC{0x02, 0, 0, 0, 0, 9}
	radio := medium.NewRadio(mac)
	clock := &fakeClock{now: time.Unix(1000, 0)}

	tr, err := newTransport(radio, clock)
	require.NoError(t, err)
	defer tr.Close()

	assert.False(t, tr.online())

	tr.mu.Lock()
	tr.lastOnlinePong = clock.Now()
	tr.mu.Unlock()
	assert.True(t, tr.online())

	clock.advance(onlineWindow + time.Second)
	assert.False(t, tr.online())
}
