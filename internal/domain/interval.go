package domain

import "time"

// Reserved process names for the synthetic locked/idle states. Rows carrying
// these names always have an empty window title.
const (
	ProcessLocked = "LOCKED"
	ProcessIdle   = "IDLE"
)

// Classification is the sampled identity of one poll tick: the foreground
// window, or one of the synthetic locked/idle states. Locked and Idle are
// mutually exclusive; when either is set, ProcessName is the matching
// reserved value.
type Classification struct {
	ProcessName string
	WindowTitle string
	Locked      bool
	Idle        bool
}

// ClassifyLocked returns the classification for a locked session.
func ClassifyLocked() Classification {
	return Classification{ProcessName: ProcessLocked, Locked: true}
}

// ClassifyIdle returns the classification for an idle user.
func ClassifyIdle() Classification {
	return Classification{ProcessName: ProcessIdle, Idle: true}
}

// ClassifyActive returns the classification for a foreground window. An
// unavailable probe maps to empty process and title, not an error.
func ClassifyActive(processName, windowTitle string) Classification {
	return Classification{ProcessName: processName, WindowTitle: windowTitle}
}

// Interval is a maximal span of time during which the sampled state was
// constant. End stays zero while the interval is open; it is set exactly once
// when the interval closes, after which ownership transfers to the log store
// and observers.
type Interval struct {
	Start       time.Time
	End         time.Time
	ProcessName string
	WindowTitle string
	Locked      bool
	Idle        bool
}

// OpenInterval starts a new interval at the given instant.
func OpenInterval(start time.Time, c Classification) *Interval {
	return &Interval{
		Start:       start,
		ProcessName: c.ProcessName,
		WindowTitle: c.WindowTitle,
		Locked:      c.Locked,
		Idle:        c.Idle,
	}
}

// Closed reports whether the interval has an end timestamp.
func (iv *Interval) Closed() bool {
	return !iv.End.IsZero()
}

// Close sets the end timestamp. Closing an already-closed interval is a no-op
// so the first end wins.
func (iv *Interval) Close(end time.Time) {
	if iv.Closed() {
		return
	}
	iv.End = end
}

// Duration returns End-Start for a closed interval and zero for an open one.
func (iv *Interval) Duration() time.Duration {
	if !iv.Closed() {
		return 0
	}
	return iv.End.Sub(iv.Start)
}

// Classification returns the identity fields of the interval.
func (iv *Interval) Classification() Classification {
	return Classification{
		ProcessName: iv.ProcessName,
		WindowTitle: iv.WindowTitle,
		Locked:      iv.Locked,
		Idle:        iv.Idle,
	}
}

// Matches reports whether the interval's identity equals c field by field.
// String fields compare exactly; a title-only change is a state change.
func (iv *Interval) Matches(c Classification) bool {
	return iv.Locked == c.Locked &&
		iv.Idle == c.Idle &&
		iv.ProcessName == c.ProcessName &&
		iv.WindowTitle == c.WindowTitle
}
