package core

import "errors"

// Sentinel errors returned by the clock core.
var (
	// ErrConfiguration is returned when the scale calculator or the
	// registry is handed degenerate input, such as a zero frequency.
	ErrConfiguration = errors.New("clock: invalid configuration")

	// ErrInvalidSource is returned by Register for a clocksource that
	// cannot be read or scaled.
	ErrInvalidSource error = &wrapError{msg: "clock: invalid clocksource", err: ErrConfiguration}

	// ErrHardwareInit matches every *InitError.
	ErrHardwareInit = errors.New("clock: clocksource init failed")

	// ErrNoClock is the panic value of GetTimeNs when no clocksource has
	// been installed. There is no time to return, so execution halts.
	ErrNoClock = errors.New("clock: no clocksource has been initialized")

	// ErrTimeout is returned by WaitOnTimeout when the condition did not
	// become true in time.
	ErrTimeout = errors.New("clock: timeout")
)

// InitError reports a failed Init hook during Register. The previously
// active clocksource is still in place when this is returned.
type InitError struct {
	Source string
	Err    error
}

func (e *InitError) Error() string {
	msg := ErrHardwareInit.Error()
	if e.Source != "" {
		msg += " (" + e.Source + ")"
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap exposes both ErrHardwareInit and the hook's own error to errors.Is.
func (e *InitError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrHardwareInit}
	}
	return []error{ErrHardwareInit, e.Err}
}

// wrapError is a fixed message that also matches a broader sentinel.
type wrapError struct {
	msg string
	err error
}

func (e *wrapError) Error() string { return e.msg }
func (e *wrapError) Unwrap() error { return e.err }
