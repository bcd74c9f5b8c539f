package rtc

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"tinygo.org/x/drivers/ds3231"
	"tinygo.org/x/drivers/tester"

	"bootclock/core"
)

const regControl = ds3231.REG_CONTROL

func bcd(v int) uint8 {
	return uint8(v/10<<4 | v%10)
}

// setTime writes dt into the mock device's time registers
func setTime(dev *tester.I2CDevice8, dt time.Time) {
	dev.Registers[0] = bcd(dt.Second())
	dev.Registers[1] = bcd(dt.Minute())
	dev.Registers[2] = bcd(dt.Hour())
	dev.Registers[3] = bcd(int(dt.Weekday()))
	dev.Registers[4] = bcd(dt.Day())
	dev.Registers[5] = bcd(int(dt.Month()))
	dev.Registers[6] = bcd(dt.Year() - 2000)
}

func TestCounterReadsSeconds(t *testing.T) {
	bus := tester.NewI2CBus(t)
	dev := bus.NewDevice(ds3231.Address)

	start := time.Date(2024, time.March, 9, 13, 45, 10, 0, time.UTC)
	setTime(dev, start)

	counter := NewCounter(bus)
	require.NoError(t, counter.Init())
	assert.Equal(t, uint64(start.Unix()), counter.Read())

	setTime(dev, start.Add(61*time.Second))
	assert.Equal(t, uint64(start.Unix())+61, counter.Read())
	assert.NoError(t, counter.LastError())
}

func TestInitStartsStoppedOscillator(t *testing.T) {
	bus := tester.NewI2CBus(t)
	dev := bus.NewDevice(ds3231.Address)
	setTime(dev, time.Date(2030, time.January, 1, 0, 0, 0, 0, time.UTC))
	dev.Registers[regControl] = 1 << ds3231.EOSC

	counter := NewCounter(bus)
	require.NoError(t, counter.Init())
	assert.Zero(t, dev.Registers[regControl]&(1<<ds3231.EOSC))
}

func TestInitFailsOnBusError(t *testing.T) {
	bus := tester.NewI2CBus(t)
	dev := bus.NewDevice(ds3231.Address)
	dev.Err = errors.New("nack")

	counter := NewCounter(bus)
	assert.Error(t, counter.Init())
}

func TestRTCSourceInClock(t *testing.T) {
	bus := tester.NewI2CBus(t)
	dev := bus.NewDevice(0x57)

	start := time.Date(2024, time.June, 1, 8, 0, 0, 0, time.UTC)
	setTime(dev, start)

	cs, err := NewSource("ds3231", bus, 0x57, 3600, 10)
	require.NoError(t, err)
	assert.Equal(t, uint32(4000000000), cs.Mult)
	assert.Equal(t, uint32(2), cs.Shift)

	c := core.NewClock(core.Options{})
	installed, err := c.Register(cs)
	require.NoError(t, err)
	require.True(t, installed)

	// only the seconds counted after install show up
	assert.Equal(t, uint64(0), c.GetTimeNs())
	setTime(dev, start.Add(3*time.Second))
	assert.Equal(t, uint64(3*core.NSecPerSec), c.GetTimeNs())
}

func TestRTCInitFailureKeepsPreviousSource(t *testing.T) {
	bus := tester.NewI2CBus(t)
	dev := bus.NewDevice(ds3231.Address)
	dev.Err = errors.New("bus stuck")

	cs, err := NewSource("ds3231", bus, ds3231.Address, 3600, 10)
	require.NoError(t, err)

	c := core.NewClock(core.Options{})
	installed, err := c.Register(cs)
	assert.False(t, installed)
	assert.ErrorIs(t, err, core.ErrHardwareInit)
	assert.Equal(t, core.StateDummyActive, c.State())
}
