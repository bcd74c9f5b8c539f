package metrics

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bootclock/core"
)

func newTestExporter(t *testing.T, c *core.Clock) *Exporter {
	t.Helper()

	e, err := NewExporter(c, prometheus.NewRegistry())
	require.NoError(t, err)
	return e
}

func TestSampleOnDummy(t *testing.T) {
	c := core.NewClock(core.Options{})
	e := newTestExporter(t, c)

	e.Sample()

	assert.Equal(t, 1.0, testutil.ToFloat64(e.state.WithLabelValues("dummy")))
	assert.Equal(t, 0.0, testutil.ToFloat64(e.state.WithLabelValues("active")))
	assert.Equal(t, float64(core.DummyPriority), testutil.ToFloat64(e.priority))
	assert.Equal(t, 1.0, testutil.ToFloat64(e.samples))
	// the dummy advances by its rate on each of the two reads
	assert.Equal(t, float64(2*core.DefaultDummyRate)/core.NSecPerSec, testutil.ToFloat64(e.timeSeconds))
}

func TestSampleAfterInstall(t *testing.T) {
	c := core.NewClock(core.Options{})
	e := newTestExporter(t, c)

	var ticks uint64
	cs, err := core.NewClockSource("counter", core.CounterFunc(func() uint64 {
		ticks += 1000
		return ticks
	}), 1000000, 32, 3600, 50)
	require.NoError(t, err)
	_, err = c.Register(cs)
	require.NoError(t, err)

	e.Sample()
	e.Sample()

	assert.Equal(t, 1.0, testutil.ToFloat64(e.state.WithLabelValues("active")))
	assert.Equal(t, 0.0, testutil.ToFloat64(e.state.WithLabelValues("dummy")))
	assert.Equal(t, 50.0, testutil.ToFloat64(e.priority))
	assert.Equal(t, 2.0, testutil.ToFloat64(e.samples))
	assert.Equal(t, 1, testutil.CollectAndCount(e.source))
	assert.Equal(t, 1.0, testutil.ToFloat64(e.events.WithLabelValues("INSTALLED")))

	// four reads of 1000 cycles at 1 MHz
	assert.InDelta(t, 0.004, testutil.ToFloat64(e.timeSeconds), 1e-9)
}

func TestNewExporterRejectsDuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := core.NewClock(core.Options{})

	_, err := NewExporter(c, reg)
	require.NoError(t, err)
	_, err = NewExporter(c, reg)
	assert.Error(t, err)
}

func TestRunStopsOnCancel(t *testing.T) {
	c := core.NewClock(core.Options{})
	e := newTestExporter(t, c)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		e.Run(ctx, time.Millisecond)
		close(done)
	}()

	require.Eventually(t, func() bool {
		return testutil.ToFloat64(e.samples) >= 2
	}, time.Second, time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
