//go:build windows

package probe

import (
	"path/filepath"
	"strings"
	"time"
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	user32                       = windows.NewLazySystemDLL("user32.dll")
	kernel32                     = windows.NewLazySystemDLL("kernel32.dll")
	procGetForegroundWindow      = user32.NewProc("GetForegroundWindow")
	procGetWindowTextW           = user32.NewProc("GetWindowTextW")
	procGetWindowThreadProcessId = user32.NewProc("GetWindowThreadProcessId")
	procGetLastInputInfo         = user32.NewProc("GetLastInputInfo")
	procOpenInputDesktop         = user32.NewProc("OpenInputDesktop")
	procSwitchDesktop            = user32.NewProc("SwitchDesktop")
	procCloseDesktop             = user32.NewProc("CloseDesktop")
	procGetTickCount             = kernel32.NewProc("GetTickCount")
)

type lastInputInfo struct {
	cbSize uint32
	dwTime uint32
}

type windowsProber struct{}

func newPlatformProber() Prober {
	return windowsProber{}
}

func (windowsProber) ForegroundWindow() (WindowInfo, bool) {
	hwnd, _, _ := procGetForegroundWindow.Call()
	if hwnd == 0 {
		return WindowInfo{}, false
	}

	var info WindowInfo

	var title [512]uint16
	if n, _, _ := procGetWindowTextW.Call(hwnd, uintptr(unsafe.Pointer(&title[0])), uintptr(len(title))); n > 0 {
		info.WindowTitle = windows.UTF16ToString(title[:n])
	}

	var pid uint32
	procGetWindowThreadProcessId.Call(hwnd, uintptr(unsafe.Pointer(&pid)))
	if pid != 0 {
		info.ProcessName = processBaseName(pid)
	}

	return info, true
}

// processBaseName resolves a pid to its executable name without the .exe
// suffix, matching the identity recorded in existing logs.
func processBaseName(pid uint32) string {
	h, err := windows.OpenProcess(windows.PROCESS_QUERY_LIMITED_INFORMATION, false, pid)
	if err != nil {
		return ""
	}
	defer windows.CloseHandle(h)

	var buf [windows.MAX_PATH]uint16
	size := uint32(len(buf))
	if err := windows.QueryFullProcessImageName(h, 0, &buf[0], &size); err != nil {
		return ""
	}
	name := filepath.Base(windows.UTF16ToString(buf[:size]))
	return strings.TrimSuffix(name, ".exe")
}

func (windowsProber) IdleDuration() time.Duration {
	lii := lastInputInfo{cbSize: uint32(unsafe.Sizeof(lastInputInfo{}))}
	ok, _, _ := procGetLastInputInfo.Call(uintptr(unsafe.Pointer(&lii)))
	if ok == 0 {
		return 0
	}
	tick, _, _ := procGetTickCount.Call()
	// 32-bit tick arithmetic so the ~49 day wraparound cancels out.
	idleTicks := uint32(tick) - lii.dwTime
	return time.Duration(idleTicks) * time.Millisecond
}

// sessionLocked reports whether the input desktop is switchable. When the
// workstation is locked the secure desktop holds input and the switch fails.
func sessionLocked() (locked bool, supported bool) {
	const desktopSwitchDesktop = 0x0100
	hdesk, _, _ := procOpenInputDesktop.Call(0, 0, desktopSwitchDesktop)
	if hdesk == 0 {
		return true, true
	}
	defer procCloseDesktop.Call(hdesk)
	ok, _, _ := procSwitchDesktop.Call(hdesk)
	return ok == 0, true
}
