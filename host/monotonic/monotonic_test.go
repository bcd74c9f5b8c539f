package monotonic

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bootclock/core"
)

func TestMonotonicSource(t *testing.T) {
	cs, err := NewSource("mono", 3600, 100)
	require.NoError(t, err)
	assert.Equal(t, ^uint64(0), cs.Mask)

	c := core.NewClock(core.Options{})
	installed, err := c.Register(cs)
	require.NoError(t, err)
	require.True(t, installed)
	assert.Equal(t, core.StateSourceActive, c.State())

	var last uint64
	for i := 0; i < 1000; i++ {
		now := c.GetTimeNs()
		require.GreaterOrEqual(t, now, last)
		last = now
	}
}

func TestMonotonicSourceTracksWallDuration(t *testing.T) {
	cs, err := NewSource("mono", 3600, 100)
	require.NoError(t, err)

	c := core.NewClock(core.Options{DisableDummy: true})
	_, err = c.Register(cs)
	require.NoError(t, err)

	begin := time.Now()
	start := c.GetTimeNs()
	c.MdelayNonInterruptible(5)
	elapsed := c.GetTimeNs() - start

	assert.GreaterOrEqual(t, elapsed, uint64(5*time.Millisecond))
	assert.GreaterOrEqual(t, time.Since(begin), 5*time.Millisecond)
}
