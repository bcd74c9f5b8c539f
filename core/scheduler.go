package core

// Timer represents a scheduled poller run from the cooperative scheduler
type Timer struct {
	WakeTime uint64 // clock time in ns
	Handler  func(*Timer) uint8
	Next     *Timer
}

const (
	SF_DONE       = 0
	SF_RESCHEDULE = 1
)

// Scheduler is a minimal cooperative scheduler: timers run in WakeTime
// order whenever the clock yields. Handlers run to completion.
type Scheduler struct {
	clock     *Clock
	timerList *Timer
	running   bool
	yields    uint64
}

// NewScheduler creates a scheduler driven by c and installs its Yield as
// the clock's yield hook.
func NewScheduler(c *Clock) *Scheduler {
	s := &Scheduler{clock: c}
	c.SetYield(s.Yield)
	return s
}

// ScheduleTimer adds a timer to the schedule
func (s *Scheduler) ScheduleTimer(t *Timer) {
	state := disableInterrupts()
	defer restoreInterrupts(state)

	s.insertTimer(t)
}

// ScheduleIn schedules t to run delayNs nanoseconds from now.
func (s *Scheduler) ScheduleIn(t *Timer, delayNs uint64) {
	t.WakeTime = s.clock.GetTimeNs() + delayNs
	s.ScheduleTimer(t)
}

// CancelTimer removes t from the schedule. It reports whether t was queued.
func (s *Scheduler) CancelTimer(t *Timer) bool {
	state := disableInterrupts()
	defer restoreInterrupts(state)

	if s.timerList == t {
		s.timerList = t.Next
		t.Next = nil
		return true
	}
	for cur := s.timerList; cur != nil; cur = cur.Next {
		if cur.Next == t {
			cur.Next = t.Next
			t.Next = nil
			return true
		}
	}
	return false
}

// insertTimer inserts a timer in sorted order by WakeTime
func (s *Scheduler) insertTimer(t *Timer) {
	if s.timerList == nil || t.WakeTime < s.timerList.WakeTime {
		t.Next = s.timerList
		s.timerList = t
		return
	}

	current := s.timerList
	for current.Next != nil && current.Next.WakeTime <= t.WakeTime {
		current = current.Next
	}

	t.Next = current.Next
	current.Next = t
}

// Pending returns the number of queued timers.
func (s *Scheduler) Pending() int {
	n := 0
	for t := s.timerList; t != nil; t = t.Next {
		n++
	}
	return n
}

// Yields returns how many times Yield has been entered.
func (s *Scheduler) Yields() uint64 {
	return s.yields
}

// Yield runs every timer that is due. A delay inside a handler may yield
// again; that nested yield returns immediately so handlers never nest.
func (s *Scheduler) Yield() {
	s.yields++
	if s.running {
		return
	}
	s.running = true
	defer func() { s.running = false }()

	s.dispatch(s.clock.GetTimeNs())
}

// dispatch processes due timers. Handlers run with interrupts enabled;
// only the list manipulation is a critical section.
func (s *Scheduler) dispatch(now uint64) {
	// Rescheduled timers are queued after the pass, so a handler that
	// reschedules into the past runs once per yield instead of forever.
	var again *Timer

	for {
		timer := s.popDue(now)
		if timer == nil {
			break
		}

		if timer.Handler(timer) == SF_RESCHEDULE {
			timer.Next = again
			again = timer
		}
	}

	if again == nil {
		return
	}

	state := disableInterrupts()
	for again != nil {
		timer := again
		again = timer.Next
		s.insertTimer(timer)
	}
	restoreInterrupts(state)
}

// popDue unlinks the first timer if it is due at now
func (s *Scheduler) popDue(now uint64) *Timer {
	state := disableInterrupts()
	defer restoreInterrupts(state)

	timer := s.timerList
	if timer == nil || timer.WakeTime > now {
		return nil
	}
	s.timerList = timer.Next
	timer.Next = nil // Clear Next pointer to avoid circular references
	return timer
}
