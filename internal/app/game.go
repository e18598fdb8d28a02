package app

import (
	"errors"
	"fmt"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"go.uber.org/zap"

	"windowbox/internal/backdrop"
	"windowbox/internal/window"
)

// attachGrace is how many ticks the host window gets to become visible
// and enumerable before a missing host is treated as an error.
const attachGrace = 120

type state int

const (
	stateAttach state = iota
	stateTrack
	stateClosing
)

// Options carries the App dependencies.
type Options struct {
	Manager  window.Manager
	Target   window.Handle
	Exit     <-chan struct{} // closed when the target's process exits
	Backdrop *backdrop.Backdrop

	// Desired target size: -1 keeps the current size, 0 fills the host
	// client area, positive values are explicit pixels. Per axis.
	Width, Height int

	PollTicks   int // update ticks between rectangle polls
	HostPID     int // pid owning the host window (our own process)
	ShowOverlay bool
	Log         *zap.SugaredLogger
}

// App implements ebiten.Game. It embeds the target window beneath the
// host once, then keeps it centered over the backdrop until either side
// goes away. Every window-manager call happens on the update goroutine;
// the process watcher only ever closes the Exit channel.
type App struct {
	mgr      window.Manager
	target   window.Handle
	host     window.Handle
	exit     <-chan struct{}
	backdrop *backdrop.Backdrop
	log      *zap.SugaredLogger

	state       state
	embedded    bool
	attachTries int
	title       string

	wantW, wantH int
	hostPID      int

	pollTicks int
	tick      int

	trackW, trackH int // tracked target size
	hostW, hostH   int // host client area, device pixels

	// Counters shown in the debug overlay.
	polls    int
	moves    int
	repaints int
	closes   int

	overlay bool
}

// New creates the App around an already-located target window.
func New(opts Options) *App {
	ticks := opts.PollTicks
	if ticks < 1 {
		ticks = 1
	}
	return &App{
		mgr:       opts.Manager,
		target:    opts.Target,
		exit:      opts.Exit,
		backdrop:  opts.Backdrop,
		log:       opts.Log,
		wantW:     opts.Width,
		wantH:     opts.Height,
		hostPID:   opts.HostPID,
		pollTicks: ticks,
		overlay:   opts.ShowOverlay,
	}
}

// TicksFor converts a wall-clock interval into update ticks at the
// current tick rate, never below one tick.
func TicksFor(d time.Duration) int {
	n := int(d.Seconds() * float64(ebiten.TPS()))
	if n < 1 {
		return 1
	}
	return n
}

// Embedded reports whether the target was re-parented under the host.
// Teardown only touches the target when this is true.
func (a *App) Embedded() bool {
	return a.embedded
}

func (a *App) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		a.close("escape pressed")
		return ebiten.Termination
	}
	// Alt+Enter toggles fullscreen
	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) && ebiten.IsKeyPressed(ebiten.KeyAlt) {
		ebiten.SetFullscreen(!ebiten.IsFullscreen())
	}
	// F12 toggles debug overlay
	if inpututil.IsKeyJustPressed(ebiten.KeyF12) {
		a.overlay = !a.overlay
	}

	done, err := a.step()
	if err != nil {
		return err
	}
	if done {
		return ebiten.Termination
	}
	return nil
}

// step advances the state machine by one tick. It makes no ebiten calls
// so tests can drive it against a fake manager.
func (a *App) step() (bool, error) {
	switch a.state {
	case stateClosing:
		return true, nil
	case stateAttach:
		err := a.attach()
		if err == nil {
			a.state = stateTrack
			return false, nil
		}
		// The host window can lag its first frame; give lookups a
		// grace period before treating not-found as an error.
		if errors.Is(err, window.ErrNotFound) && a.attachTries < attachGrace {
			a.attachTries++
			return false, nil
		}
		return false, err
	}

	// The watcher goroutine closes the exit channel; consuming it here
	// keeps all window state on this goroutine.
	select {
	case <-a.exit:
		a.close("target process exited")
		return true, nil
	default:
	}

	a.tick++
	if a.tick%a.pollTicks == 0 {
		a.poll()
	}
	return a.state == stateClosing, nil
}

// attach resolves the host window, embeds the target beneath it and
// applies the initial layout. Any failure here is fatal.
func (a *App) attach() error {
	host, err := a.mgr.HostHandle(a.hostPID)
	if err != nil {
		return fmt.Errorf("locate host window: %w", err)
	}
	a.host = host
	a.title = a.mgr.Title(a.target)

	// Current size must be read before Embed: stripping the frame
	// styles can change the outer rectangle.
	curW, curH, err := a.mgr.OuterSize(a.target)
	if err != nil {
		return fmt.Errorf("read target size: %w", err)
	}

	if err := a.mgr.Embed(a.target, host); err != nil {
		return fmt.Errorf("embed target: %w", err)
	}
	a.embedded = true

	hw, hh, err := a.mgr.ClientSize(host)
	if err != nil {
		return fmt.Errorf("read host client area: %w", err)
	}
	a.hostW, a.hostH = hw, hh

	a.trackW, a.trackH = window.ResolveSize(a.wantW, a.wantH, curW, curH, hw, hh)
	a.place()
	a.log.Infow("target embedded",
		"target", fmt.Sprintf("%#x", uintptr(a.target)),
		"title", a.title,
		"host", fmt.Sprintf("%#x", uintptr(host)),
		"size", fmt.Sprintf("%dx%d", a.trackW, a.trackH))
	return nil
}

// poll compares the target and host rectangles against the tracked
// values and re-centers on drift. One drift is one move and one
// backdrop repaint.
func (a *App) poll() {
	a.polls++

	if !a.mgr.IsAlive(a.target) {
		a.close("target window gone")
		return
	}

	tw, th, err := a.mgr.OuterSize(a.target)
	if err != nil {
		a.log.Warnw("read target size", "error", err)
		return
	}
	hw, hh, err := a.mgr.ClientSize(a.host)
	if err != nil {
		a.log.Warnw("read host client area", "error", err)
		return
	}
	if tw == a.trackW && th == a.trackH && hw == a.hostW && hh == a.hostH {
		return
	}

	a.log.Debugw("layout drift",
		"target", fmt.Sprintf("%dx%d", tw, th),
		"tracked", fmt.Sprintf("%dx%d", a.trackW, a.trackH),
		"host", fmt.Sprintf("%dx%d", hw, hh))
	a.trackW, a.trackH = tw, th
	a.hostW, a.hostH = hw, hh
	a.place()
}

// place centers the target in the host client area and invalidates the
// backdrop so the next frame repaints around the new rectangle.
func (a *App) place() {
	x, y := window.Center(a.hostW, a.hostH, a.trackW, a.trackH)
	if err := a.mgr.Place(a.target, window.Rect{X: x, Y: y, W: a.trackW, H: a.trackH}); err != nil {
		a.log.Warnw("move target", "error", err)
		return
	}
	a.moves++
	a.backdrop.Invalidate()
	a.repaints++
}

// close transitions to the closing state exactly once, no matter how
// many times a close condition fires.
func (a *App) close(reason string) {
	if a.state == stateClosing {
		return
	}
	a.state = stateClosing
	a.closes++
	a.log.Infow("closing host window", "reason", reason)
}

func (a *App) Draw(screen *ebiten.Image) {
	a.backdrop.Draw(screen)
	if a.overlay {
		msg := fmt.Sprintf("windowbox %q target=%#x host=%#x\ntarget %dx%d in host %dx%d\npolls=%d moves=%d repaints=%d",
			a.title, uintptr(a.target), uintptr(a.host),
			a.trackW, a.trackH, a.hostW, a.hostH,
			a.polls, a.moves, a.repaints)
		ebitenutil.DebugPrintAt(screen, msg, 8, 8)
	}
}

func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	return outsideWidth, outsideHeight
}
