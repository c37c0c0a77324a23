// Package probe answers "what is focused, how idle is the user, is the
// session locked" for the current OS session. The core only consumes the
// interfaces; platform adapters live behind build tags.
package probe

import "time"

// WindowInfo identifies the foreground window.
type WindowInfo struct {
	ProcessName string
	WindowTitle string
}

// Prober reports the current foreground window and idle time. A failed query
// is reported through the ok flag, never as an error: the tracker degrades to
// an empty identity rather than stopping.
type Prober interface {
	// ForegroundWindow returns the focused window identity. ok is false when
	// the query fails or nothing has focus.
	ForegroundWindow() (info WindowInfo, ok bool)

	// IdleDuration returns the time since the last user input.
	IdleDuration() time.Duration
}

// SessionState reports whether the interactive session is locked and
// notifies subscribers on lock transitions.
type SessionState interface {
	Locked() bool

	// Subscribe registers fn for lock-state transitions and returns a cancel
	// function. fn runs on the monitor's goroutine and must not block.
	Subscribe(fn func(locked bool)) (cancel func())
}

// NewSystemProber returns the platform prober for this build. On platforms
// without an adapter every query reports unavailable.
func NewSystemProber() Prober {
	return newPlatformProber()
}
