//go:build windows

package window

import (
	"fmt"
	"strings"
	"sync"
	"syscall"
	"unsafe"
)

var (
	user32 = syscall.NewLazyDLL("user32.dll")

	procFindWindow               = user32.NewProc("FindWindowW")
	procEnumWindows              = user32.NewProc("EnumWindows")
	procIsWindow                 = user32.NewProc("IsWindow")
	procIsWindowVisible          = user32.NewProc("IsWindowVisible")
	procGetWindowText            = user32.NewProc("GetWindowTextW")
	procGetWindowThreadProcessId = user32.NewProc("GetWindowThreadProcessId")
	procGetWindowRect            = user32.NewProc("GetWindowRect")
	procGetClientRect            = user32.NewProc("GetClientRect")
	procGetWindowLongPtr         = user32.NewProc("GetWindowLongPtrW")
	procSetWindowLongPtr         = user32.NewProc("SetWindowLongPtrW")
	procSetParent                = user32.NewProc("SetParent")
	procMoveWindow               = user32.NewProc("MoveWindow")
	procSetWindowPos             = user32.NewProc("SetWindowPos")
	procShowWindow               = user32.NewProc("ShowWindow")
)

// GWL_STYLE = -16, converted through int32 so the sign extends correctly.
var gwlStyle int32 = -16

const (
	WS_CHILD        = uintptr(0x40000000)
	WS_VISIBLE      = uintptr(0x10000000)
	WS_POPUP        = uintptr(0x80000000)
	WS_BORDER       = uintptr(0x00800000)
	WS_CAPTION      = uintptr(0x00C00000)
	WS_DLGFRAME     = uintptr(0x00400000)
	WS_THICKFRAME   = uintptr(0x00040000)
	WS_SYSMENU      = uintptr(0x00080000)
	WS_MINIMIZEBOX  = uintptr(0x00020000)
	WS_MAXIMIZEBOX  = uintptr(0x00010000)
	WS_CLIPCHILDREN = uintptr(0x02000000)

	SWP_NOSIZE       = 0x0001
	SWP_NOMOVE       = 0x0002
	SWP_NOZORDER     = 0x0004
	SWP_NOACTIVATE   = 0x0010
	SWP_FRAMECHANGED = 0x0020

	SW_SHOW = 5
)

// decorations are the style bits removed from an embedded target.
const decorations = WS_POPUP | WS_BORDER | WS_CAPTION | WS_DLGFRAME |
	WS_THICKFRAME | WS_SYSMENU | WS_MINIMIZEBOX | WS_MAXIMIZEBOX

type rect struct {
	Left, Top, Right, Bottom int32
}

type winManager struct {
	// Styles captured at Embed time, so Release can restore them.
	saved map[Handle]uintptr
}

func newManager() Manager {
	return &winManager{saved: make(map[Handle]uintptr)}
}

// Enumeration state shared with the EnumWindows callback. The callback is
// registered once at init: callbacks handed to the runtime are never
// released, so per-call creation would leak callback slots.
var (
	enumMu    sync.Mutex
	enumTitle string
	enumPID   uint32
	enumFound Handle
)

var enumCallback = syscall.NewCallback(func(hwnd syscall.Handle, lparam uintptr) uintptr {
	if visible, _, _ := procIsWindowVisible.Call(uintptr(hwnd)); visible == 0 {
		return 1
	}
	if enumPID != 0 {
		var pid uint32
		procGetWindowThreadProcessId.Call(uintptr(hwnd), uintptr(unsafe.Pointer(&pid)))
		if pid == enumPID {
			enumFound = Handle(hwnd)
			return 0
		}
		return 1
	}
	buf := make([]uint16, 512)
	n, _, _ := procGetWindowText.Call(uintptr(hwnd), uintptr(unsafe.Pointer(&buf[0])), uintptr(len(buf)))
	if n == 0 {
		return 1
	}
	if strings.Contains(strings.ToLower(syscall.UTF16ToString(buf)), enumTitle) {
		enumFound = Handle(hwnd)
		return 0
	}
	return 1
})

// enumFind scans visible top-level windows for a title substring (already
// lowercased) or an owning pid. Exactly one of the two is set.
func enumFind(titleLower string, pid uint32) Handle {
	enumMu.Lock()
	defer enumMu.Unlock()
	enumTitle, enumPID, enumFound = titleLower, pid, 0
	procEnumWindows.Call(enumCallback, 0)
	return enumFound
}

func (m *winManager) FindByTitle(title string) (Handle, error) {
	ptr, err := syscall.UTF16PtrFromString(title)
	if err != nil {
		return 0, fmt.Errorf("window title %q: %w", title, err)
	}
	if h, _, _ := procFindWindow.Call(0, uintptr(unsafe.Pointer(ptr))); h != 0 {
		return Handle(h), nil
	}
	// No exact match; fall back to a case-insensitive substring scan.
	if h := enumFind(strings.ToLower(title), 0); h != 0 {
		return h, nil
	}
	return 0, fmt.Errorf("window title %q: %w", title, ErrNotFound)
}

func (m *winManager) FromHandle(raw uint64) (Handle, error) {
	h := Handle(uintptr(raw))
	if h == 0 || !m.IsAlive(h) {
		return 0, fmt.Errorf("window handle %#x: %w", raw, ErrNotFound)
	}
	return h, nil
}

func (m *winManager) IsAlive(h Handle) bool {
	ret, _, _ := procIsWindow.Call(uintptr(h))
	return ret != 0
}

func (m *winManager) Title(h Handle) string {
	buf := make([]uint16, 512)
	n, _, _ := procGetWindowText.Call(uintptr(h), uintptr(unsafe.Pointer(&buf[0])), uintptr(len(buf)))
	if n == 0 {
		return ""
	}
	return syscall.UTF16ToString(buf)
}

func (m *winManager) OwnerPID(h Handle) (uint32, error) {
	var pid uint32
	tid, _, _ := procGetWindowThreadProcessId.Call(uintptr(h), uintptr(unsafe.Pointer(&pid)))
	if tid == 0 || pid == 0 {
		return 0, fmt.Errorf("owner pid of %#x: %w", uintptr(h), ErrNotFound)
	}
	return pid, nil
}

func (m *winManager) OuterSize(h Handle) (int, int, error) {
	var r rect
	if ret, _, callErr := procGetWindowRect.Call(uintptr(h), uintptr(unsafe.Pointer(&r))); ret == 0 {
		return 0, 0, fmt.Errorf("GetWindowRect: %v", callErr)
	}
	return int(r.Right - r.Left), int(r.Bottom - r.Top), nil
}

func (m *winManager) ClientSize(h Handle) (int, int, error) {
	var r rect
	if ret, _, callErr := procGetClientRect.Call(uintptr(h), uintptr(unsafe.Pointer(&r))); ret == 0 {
		return 0, 0, fmt.Errorf("GetClientRect: %v", callErr)
	}
	return int(r.Right - r.Left), int(r.Bottom - r.Top), nil
}

func (m *winManager) Embed(target, host Handle) error {
	style, _, callErr := procGetWindowLongPtr.Call(uintptr(target), uintptr(gwlStyle))
	if style == 0 {
		return fmt.Errorf("GetWindowLongPtr: %v", callErr)
	}
	m.saved[target] = style

	stripped := style&^decorations | WS_CHILD | WS_VISIBLE
	procSetWindowLongPtr.Call(uintptr(target), uintptr(gwlStyle), stripped)

	if ret, _, callErr := procSetParent.Call(uintptr(target), uintptr(host)); ret == 0 {
		// Undo the style change; the target stays on the desktop.
		procSetWindowLongPtr.Call(uintptr(target), uintptr(gwlStyle), style)
		delete(m.saved, target)
		return fmt.Errorf("SetParent: %v", callErr)
	}

	// The host must not paint over the child's region.
	if hostStyle, _, _ := procGetWindowLongPtr.Call(uintptr(host), uintptr(gwlStyle)); hostStyle != 0 {
		procSetWindowLongPtr.Call(uintptr(host), uintptr(gwlStyle), hostStyle|WS_CLIPCHILDREN)
	}

	// Style changes only take effect once the frame change is announced.
	procSetWindowPos.Call(uintptr(target), 0, 0, 0, 0, 0,
		SWP_NOMOVE|SWP_NOSIZE|SWP_NOZORDER|SWP_NOACTIVATE|SWP_FRAMECHANGED)
	procShowWindow.Call(uintptr(target), SW_SHOW)
	return nil
}

func (m *winManager) Place(target Handle, r Rect) error {
	ret, _, callErr := procMoveWindow.Call(uintptr(target),
		uintptr(r.X), uintptr(r.Y), uintptr(r.W), uintptr(r.H), 1)
	if ret == 0 {
		return fmt.Errorf("MoveWindow: %v", callErr)
	}
	return nil
}

func (m *winManager) Release(target Handle) error {
	style, ok := m.saved[target]
	if !ok {
		return fmt.Errorf("release %#x: not embedded", uintptr(target))
	}
	delete(m.saved, target)
	if !m.IsAlive(target) {
		return nil
	}
	procSetWindowLongPtr.Call(uintptr(target), uintptr(gwlStyle), style)
	if ret, _, callErr := procSetParent.Call(uintptr(target), 0); ret == 0 {
		return fmt.Errorf("SetParent: %v", callErr)
	}
	procSetWindowPos.Call(uintptr(target), 0, 0, 0, 0, 0,
		SWP_NOMOVE|SWP_NOSIZE|SWP_NOZORDER|SWP_NOACTIVATE|SWP_FRAMECHANGED)
	procShowWindow.Call(uintptr(target), SW_SHOW)
	return nil
}

func (m *winManager) HostHandle(pid int) (Handle, error) {
	if h := enumFind("", uint32(pid)); h != 0 {
		return h, nil
	}
	return 0, fmt.Errorf("no visible window for pid %d: %w", pid, ErrNotFound)
}
