package window

// ResolveSize maps the requested width/height sentinels onto concrete
// pixel dimensions. Per axis: -1 keeps the target's current size, 0
// fills the host's client area, and a positive value is used as-is.
func ResolveSize(reqW, reqH, curW, curH, hostW, hostH int) (int, int) {
	return resolveAxis(reqW, curW, hostW), resolveAxis(reqH, curH, hostH)
}

func resolveAxis(req, cur, host int) int {
	switch {
	case req > 0:
		return req
	case req == 0:
		return host
	default:
		return cur
	}
}

// Center returns the position that centers a w x h rectangle inside the
// host's client area. Integer division truncates toward zero, matching
// how the window manager rounds child coordinates. Coordinates may be
// negative when the target is larger than the host.
func Center(hostW, hostH, w, h int) (int, int) {
	return (hostW - w) / 2, (hostH - h) / 2
}
