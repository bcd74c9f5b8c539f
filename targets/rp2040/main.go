//go:build rp2040 || rp2350

package main

import (
	"machine"

	"bootclock/core"
	"bootclock/sources/rtc"
)

const (
	rtcPriority    = 10
	heartbeatNs    = 500 * core.NSecPerMSec
	statusPeriodNs = 10 * core.NSecPerSec
)

var (
	clock     *core.Clock
	scheduler *core.Scheduler

	heartbeats uint32
)

func main() {
	// Disable watchdog on boot to clear any previous state
	err := machine.Watchdog.Configure(machine.WatchdogConfig{TimeoutMillis: 0})
	if err != nil {
		return
	}

	InitDebug()

	// Delays work from here on, driven by the dummy counter
	clock = core.NewClock(core.Options{})
	core.SetSystemClock(clock)
	scheduler = core.NewScheduler(clock)

	registerClocksources()
	clock.WarnIfDummy()

	machine.LED.Configure(machine.PinConfig{Mode: machine.PinOutput})
	scheduler.ScheduleIn(&core.Timer{Handler: heartbeatEvent}, heartbeatNs)
	scheduler.ScheduleIn(&core.Timer{Handler: statusEvent}, statusPeriodNs)

	for {
		runLoop()
	}
}

// runLoop delays in 1 ms steps; the scheduler runs from the delay's yields.
func runLoop() {
	defer func() {
		if r := recover(); r != nil {
			if r == core.ErrNoClock {
				haltNoClock()
			}
			DebugPrintln("[MAIN] recovered from panic")
		}
	}()

	core.Mdelay(1)
}

// registerClocksources offers every clocksource the board has, lowest
// priority first.
func registerClocksources() {
	// A DS3231 on I2C0 is optional
	if err := machine.I2C0.Configure(machine.I2CConfig{Frequency: 100 * machine.KHz}); err == nil {
		cs, err := rtc.NewSource("ds3231", machine.I2C0, 0x68, 3600, rtcPriority)
		if err == nil {
			_, err = core.RegisterClockSource(cs)
		}
		if err != nil {
			DebugPrintln("[MAIN] ds3231: " + err.Error())
		}
	}

	cs, err := newTimerSource()
	if err == nil {
		_, err = core.RegisterClockSource(cs)
	}
	if err != nil {
		DebugPrintln("[MAIN] timer: " + err.Error())
	}
}

func heartbeatEvent(t *core.Timer) uint8 {
	heartbeats++
	machine.LED.Set(heartbeats&1 == 1)
	t.WakeTime += heartbeatNs
	return core.SF_RESCHEDULE
}

func statusEvent(t *core.Timer) uint8 {
	DebugPrintln("[MAIN] uptime_ms=" + utoa(core.GetTimeNs()/core.NSecPerMSec) +
		" heartbeats=" + utoa(uint64(heartbeats)))
	if core.IsDebugEnabled() {
		clock.DumpEvents()
	}
	t.WakeTime += statusPeriodNs
	return core.SF_RESCHEDULE
}

// haltNoClock stops the firmware when time was requested before any
// clocksource existed. There is nothing to delay with, so spin.
func haltNoClock() {
	DebugPrintln("FATAL: no clocksource")
	for {
	}
}
