//go:build !windows

package probe

import "time"

// unsupportedProber reports every query as unavailable. The engine records
// empty identities until a platform adapter exists for this OS.
type unsupportedProber struct{}

func newPlatformProber() Prober {
	return unsupportedProber{}
}

func (unsupportedProber) ForegroundWindow() (WindowInfo, bool) {
	return WindowInfo{}, false
}

func (unsupportedProber) IdleDuration() time.Duration {
	return 0
}

func sessionLocked() (locked bool, supported bool) {
	return false, false
}
