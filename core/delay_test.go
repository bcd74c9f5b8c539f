package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// steppedClock returns a clock whose time moves stepNs forward per read.
func steppedClock(t *testing.T, stepNs uint64) *Clock {
	t.Helper()

	c := NewClock(Options{DisableDummy: true})
	_, err := c.Register(nsSource("step", &stepCounter{step: stepNs}, 0))
	require.NoError(t, err)
	return c
}

func TestIsTimeoutNonInterruptible(t *testing.T) {
	c := steppedClock(t, 100)

	start := c.GetTimeNs()
	assert.False(t, c.IsTimeoutNonInterruptible(start, 1000))

	for !c.IsTimeoutNonInterruptible(start, 1000) {
	}
	assert.Greater(t, c.GetTimeNs()-start, uint64(1000))
}

func TestZeroTimeoutExpiresImmediately(t *testing.T) {
	// time does not move at all
	c := NewClock(Options{DisableDummy: true})
	_, err := c.Register(nsSource("frozen", &manualCounter{value: 7}, 0))
	require.NoError(t, err)

	start := c.GetTimeNs()
	assert.True(t, c.IsTimeoutNonInterruptible(start, 0))
	assert.True(t, c.IsTimeout(start, 0))
}

func TestIsTimeoutHandlesNanosecondWrap(t *testing.T) {
	c := steppedClock(t, 10)

	// a start just below the top of the range still expires correctly
	start := c.GetTimeNs() - 50
	assert.True(t, c.IsTimeoutNonInterruptible(start, 20))
	assert.False(t, c.IsTimeoutNonInterruptible(start, NSecPerSec))

	start = ^uint64(0) - 5
	assert.True(t, c.IsTimeoutNonInterruptible(start, 1))
}

func TestIsTimeoutYieldsOnlyForLongWaits(t *testing.T) {
	c := steppedClock(t, 10)

	yields := 0
	c.SetYield(func() { yields++ })

	start := c.GetTimeNs()
	c.IsTimeout(start, YieldThreshold-1)
	assert.Zero(t, yields)

	c.IsTimeout(start, YieldThreshold)
	assert.Equal(t, 1, yields)
}

func TestYieldDoesNotChangeResult(t *testing.T) {
	plain := steppedClock(t, 1000)
	yielding := steppedClock(t, 1000)
	yielding.SetYield(func() {})

	start := plain.GetTimeNs()
	yielding.GetTimeNs()

	for i := 0; i < 300; i++ {
		a := plain.IsTimeoutNonInterruptible(start, 200*NSecPerUSec)
		b := yielding.IsTimeout(start, 200*NSecPerUSec)
		require.Equal(t, a, b, "poll %d", i)
	}
}

func TestUdelayYields(t *testing.T) {
	c := steppedClock(t, 1000)

	yields := 0
	c.SetYield(func() { yields++ })

	start := c.GetTimeNs()
	c.Udelay(150)
	assert.GreaterOrEqual(t, yields, 1)
	assert.GreaterOrEqual(t, c.GetTimeNs()-start, uint64(150*NSecPerUSec))
}

func TestNdelayNeverYields(t *testing.T) {
	c := steppedClock(t, 1000)

	yields := 0
	c.SetYield(func() { yields++ })

	start := c.GetTimeNs()
	c.Ndelay(150000)
	assert.Zero(t, yields)
	assert.GreaterOrEqual(t, c.GetTimeNs()-start, uint64(150000))
}

func TestUdelayBelowThresholdDoesNotYield(t *testing.T) {
	c := steppedClock(t, 1000)

	yields := 0
	c.SetYield(func() { yields++ })

	c.Udelay(99)
	assert.Zero(t, yields)
}

func TestMdelay(t *testing.T) {
	c := steppedClock(t, 50*NSecPerUSec)

	yields := 0
	c.SetYield(func() { yields++ })

	start := c.GetTimeNs()
	c.Mdelay(3)
	assert.GreaterOrEqual(t, c.GetTimeNs()-start, uint64(3*NSecPerMSec))
	assert.NotZero(t, yields)
}

func TestMdelayNonInterruptible(t *testing.T) {
	c := steppedClock(t, 50*NSecPerUSec)

	yields := 0
	c.SetYield(func() { yields++ })

	start := c.GetTimeNs()
	c.MdelayNonInterruptible(3)
	assert.GreaterOrEqual(t, c.GetTimeNs()-start, uint64(3*NSecPerMSec))
	assert.Zero(t, yields)
}

func TestDelaysOnDummyTerminate(t *testing.T) {
	c := NewClock(Options{})

	start := c.GetTimeNs()
	c.Mdelay(1)
	c.Ndelay(5000)
	assert.Greater(t, c.GetTimeNs()-start, uint64(NSecPerMSec))
}

func TestWaitOnTimeout(t *testing.T) {
	c := steppedClock(t, 10*NSecPerUSec)

	polls := 0
	err := c.WaitOnTimeout(NSecPerMSec, func() bool {
		polls++
		return polls == 5
	})
	require.NoError(t, err)
	assert.Equal(t, 5, polls)

	err = c.WaitOnTimeout(NSecPerMSec, func() bool { return false })
	assert.ErrorIs(t, err, ErrTimeout)
}

func TestWaitOnTimeoutYieldsForLongWaits(t *testing.T) {
	c := steppedClock(t, 10*NSecPerUSec)

	yields := 0
	c.SetYield(func() { yields++ })

	err := c.WaitOnTimeout(NSecPerMSec, func() bool { return yields >= 3 })
	require.NoError(t, err)
	assert.Equal(t, 3, yields)
}

func TestSetYieldNil(t *testing.T) {
	c := steppedClock(t, 1000)
	c.SetYield(nil)

	assert.NotPanics(t, func() { c.Udelay(200) })
}
