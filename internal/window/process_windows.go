//go:build windows

package window

import (
	"fmt"

	"golang.org/x/sys/windows"
)

// stillActive is the exit code Windows reports for running processes.
const stillActive = 259

// Alive reports whether the process is still running.
func Alive(pid uint32) bool {
	h, err := windows.OpenProcess(windows.PROCESS_QUERY_LIMITED_INFORMATION, false, pid)
	if err != nil {
		// Can't open it, assume it's gone.
		return false
	}
	defer windows.CloseHandle(h)
	var code uint32
	if err := windows.GetExitCodeProcess(h, &code); err != nil {
		return false
	}
	return code == stillActive
}

// WatchExit waits on the process from a background goroutine and closes
// the returned channel when it exits. The close is the only signal;
// window state must not be touched from that goroutine. If the wait
// itself fails the channel stays open and the window poll is left to
// detect the exit.
func WatchExit(pid uint32) (<-chan struct{}, error) {
	h, err := windows.OpenProcess(windows.SYNCHRONIZE, false, pid)
	if err != nil {
		return nil, fmt.Errorf("OpenProcess %d: %w", pid, err)
	}
	done := make(chan struct{})
	go func() {
		defer windows.CloseHandle(h)
		if exitObserved(windows.WaitForSingleObject(h, windows.INFINITE)) {
			close(done)
		}
	}()
	return done, nil
}

// exitObserved reports whether a wait result really means the process
// ended. A failed or abandoned wait must not read as an exit: the
// channel close can trigger termination of the target.
func exitObserved(event uint32, err error) bool {
	return err == nil && event == windows.WAIT_OBJECT_0
}

// Terminate force-kills the process.
func Terminate(pid uint32) error {
	h, err := windows.OpenProcess(windows.PROCESS_TERMINATE, false, pid)
	if err != nil {
		return fmt.Errorf("OpenProcess %d: %w", pid, err)
	}
	defer windows.CloseHandle(h)
	if err := windows.TerminateProcess(h, 1); err != nil {
		return fmt.Errorf("TerminateProcess %d: %w", pid, err)
	}
	return nil
}
