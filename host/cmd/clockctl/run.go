package main

import (
	"time"

	"github.com/spf13/cobra"

	"bootclock/core"
	"bootclock/host/board"
)

type runOpts struct {
	configPath string
	duration   time.Duration
	heartbeat  time.Duration
	dump       bool
}

func newRunCmd() *cobra.Command {
	var opts runOpts

	cmd := &cobra.Command{
		Use:     "run",
		Short:   "Bring up a board clock and busy-wait on it",
		Example: "clockctl run --config board.json --duration 2s",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := runBoard(opts)
			return err
		},
	}

	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "", "Board config file (default: host monotonic clock)")
	cmd.Flags().DurationVarP(&opts.duration, "duration", "d", time.Second, "How long to run the delay loop")
	cmd.Flags().DurationVar(&opts.heartbeat, "heartbeat", 100*time.Millisecond, "Interval of the heartbeat timer")
	cmd.Flags().BoolVar(&opts.dump, "dump", false, "Log the clock event ring on exit")

	return cmd
}

// runBoard builds the configured board, runs 1 ms delays until opts.duration
// of clock time passed and returns the number of heartbeats the scheduler
// fired from the delay loop's yields.
func runBoard(opts runOpts) (int, error) {
	cfg, err := loadBoard(opts.configPath)
	if err != nil {
		return 0, err
	}

	b, err := board.Build(cfg)
	if err != nil {
		return 0, err
	}
	defer b.Close()

	logRegistrations(b)
	b.Clock.WarnIfDummy()

	beats := 0
	interval := uint64(opts.heartbeat)
	if interval > 0 {
		heartbeat := &core.Timer{Handler: func(t *core.Timer) uint8 {
			beats++
			logger.Debug().Int("beat", beats).Uint64("time_ns", t.WakeTime).Msg("heartbeat")
			t.WakeTime += interval
			return core.SF_RESCHEDULE
		}}
		b.Scheduler.ScheduleIn(heartbeat, interval)
	}

	wallStart := time.Now()
	start := b.Clock.GetTimeNs()
	for !b.Clock.IsTimeoutNonInterruptible(start, uint64(opts.duration)) {
		b.Clock.Mdelay(1)
	}
	elapsed := b.Clock.GetTimeNs() - start

	logger.Info().
		Str("board", b.Name).
		Str("state", b.Clock.State().String()).
		Dur("clock", time.Duration(elapsed)).
		Dur("wall", time.Since(wallStart)).
		Int("heartbeats", beats).
		Uint64("yields", b.Scheduler.Yields()).
		Msg("run complete")

	if opts.dump {
		for _, evt := range b.Clock.Events() {
			logger.Info().
				Str("event", core.EventName(evt.EventType)).
				Str("source", evt.Source).
				Int32("priority", evt.Priority).
				Uint64("time_ns", evt.TimeNs).
				Msg("clock event")
		}
	}
	return beats, nil
}

func logRegistrations(b *board.Board) {
	for _, r := range b.Results {
		evt := logger.Info()
		if r.Err != nil {
			evt = logger.Warn().Err(r.Err)
		}
		evt.Str("source", r.Name).
			Str("kind", r.Kind).
			Int32("priority", r.Priority).
			Bool("installed", r.Installed).
			Msg("clocksource registered")
	}
}
