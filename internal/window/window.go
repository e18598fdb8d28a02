// Package window wraps the platform window manager behind an opaque
// handle type so the rest of the app never touches raw pointers.
package window

import "errors"

// Handle identifies a window owned by the platform window manager.
// The zero value is never a valid window.
type Handle uintptr

// Rect is a window rectangle in pixels. For child windows X/Y are
// relative to the parent's client area.
type Rect struct {
	X, Y, W, H int
}

var (
	// ErrNotFound is returned when no window matches a lookup.
	ErrNotFound = errors.New("window not found")

	// ErrUnsupported is returned on platforms without window embedding.
	ErrUnsupported = errors.New("window embedding not supported on this platform")
)

// Manager performs window-manager operations. All methods must be called
// from the UI goroutine; implementations do not lock.
type Manager interface {
	// FindByTitle resolves a visible top-level window by title, trying an
	// exact match before a case-insensitive substring match.
	FindByTitle(title string) (Handle, error)

	// FromHandle validates a raw numeric handle and wraps it.
	FromHandle(raw uint64) (Handle, error)

	// IsAlive reports whether the handle still names a window.
	IsAlive(h Handle) bool

	// Title returns the window's current title, or "" if unavailable.
	Title(h Handle) string

	// OwnerPID returns the id of the process that owns the window.
	OwnerPID(h Handle) (uint32, error)

	// OuterSize returns the window's outer bounds size in pixels.
	OuterSize(h Handle) (int, int, error)

	// ClientSize returns the window's client area size in pixels.
	ClientSize(h Handle) (int, int, error)

	// Embed strips the target's decorations and re-parents it under the
	// host window. The original style is retained for Release.
	Embed(target, host Handle) error

	// Place moves and resizes an embedded target within the host's
	// client area and forces a repaint.
	Place(target Handle, r Rect) error

	// Release restores the target's original style and detaches it from
	// the host, returning it to the desktop as a top-level window.
	Release(target Handle) error

	// HostHandle resolves the visible top-level window owned by the
	// given process, used to find our own host window.
	HostHandle(pid int) (Handle, error)
}

// New returns the Manager for the current platform.
func New() Manager {
	return newManager()
}
