package engine

import "time"

// Clock provides the engine's notion of time.
// This interface allows interval boundaries to be controlled in tests.
type Clock interface {
	Now() time.Time
}

// systemClock provides actual system time.
type systemClock struct{}

// Now returns the current system time.
func (systemClock) Now() time.Time {
	return time.Now()
}
