package app

import (
	"errors"
	"fmt"
	"image/color"
	"testing"

	"go.uber.org/zap"

	"windowbox/internal/backdrop"
	"windowbox/internal/window"
)

// fakeManager scripts window-manager behavior for the state machine
// tests. Sizes are mutated mid-test to simulate drift.
type fakeManager struct {
	targetW, targetH int
	hostW, hostH     int
	alive            bool
	embedErr         error
	placeErr         error
	hostMisses       int

	embeds   int
	released int
	placed   []window.Rect
}

func (f *fakeManager) FindByTitle(string) (window.Handle, error) {
	return 0, window.ErrNotFound
}

func (f *fakeManager) FromHandle(raw uint64) (window.Handle, error) {
	return window.Handle(raw), nil
}

func (f *fakeManager) IsAlive(window.Handle) bool { return f.alive }

func (f *fakeManager) Title(window.Handle) string { return "Fake Game" }

func (f *fakeManager) OwnerPID(window.Handle) (uint32, error) { return 4242, nil }

func (f *fakeManager) OuterSize(window.Handle) (int, int, error) {
	return f.targetW, f.targetH, nil
}

func (f *fakeManager) ClientSize(window.Handle) (int, int, error) {
	return f.hostW, f.hostH, nil
}

func (f *fakeManager) Embed(target, host window.Handle) error {
	if f.embedErr != nil {
		return f.embedErr
	}
	f.embeds++
	return nil
}

func (f *fakeManager) Place(target window.Handle, r window.Rect) error {
	if f.placeErr != nil {
		return f.placeErr
	}
	f.placed = append(f.placed, r)
	return nil
}

func (f *fakeManager) Release(window.Handle) error {
	f.released++
	return nil
}

func (f *fakeManager) HostHandle(pid int) (window.Handle, error) {
	if f.hostMisses > 0 {
		f.hostMisses--
		return 0, fmt.Errorf("no visible window for pid %d: %w", pid, window.ErrNotFound)
	}
	return window.Handle(0x1), nil
}

func testApp(t *testing.T, f *fakeManager, exit <-chan struct{}, w, h int) *App {
	t.Helper()
	return New(Options{
		Manager:   f,
		Target:    window.Handle(0x2a),
		Exit:      exit,
		Backdrop:  backdrop.New(backdrop.Solid(color.RGBA{})),
		Width:     w,
		Height:    h,
		PollTicks: 1,
		HostPID:   1234,
		Log:       zap.NewNop().Sugar(),
	})
}

func TestAttachCentersTarget(t *testing.T) {
	f := &fakeManager{targetW: 800, targetH: 600, hostW: 1920, hostH: 1080, alive: true}
	a := testApp(t, f, make(chan struct{}), -1, -1)

	done, err := a.step()
	if err != nil {
		t.Fatalf("attach step: %v", err)
	}
	if done {
		t.Fatalf("attach step reported done")
	}
	if f.embeds != 1 {
		t.Fatalf("expected 1 embed, got %d", f.embeds)
	}
	if !a.Embedded() {
		t.Fatalf("expected Embedded() after attach")
	}
	// (1920-800)/2 = 560, (1080-600)/2 = 240
	want := window.Rect{X: 560, Y: 240, W: 800, H: 600}
	if len(f.placed) != 1 || f.placed[0] != want {
		t.Fatalf("expected placement %+v, got %+v", want, f.placed)
	}
}

func TestSizeSentinels(t *testing.T) {
	cases := []struct {
		name string
		w, h int
		want window.Rect
	}{
		{"keep current", -1, -1, window.Rect{X: 560, Y: 240, W: 800, H: 600}},
		{"fill host", 0, 0, window.Rect{X: 0, Y: 0, W: 1920, H: 1080}},
		{"explicit", 1280, 720, window.Rect{X: 320, Y: 180, W: 1280, H: 720}},
		{"mixed fill and keep", 0, -1, window.Rect{X: 0, Y: 240, W: 1920, H: 600}},
		{"oversized goes negative", 2240, 1440, window.Rect{X: -160, Y: -180, W: 2240, H: 1440}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := &fakeManager{targetW: 800, targetH: 600, hostW: 1920, hostH: 1080, alive: true}
			a := testApp(t, f, make(chan struct{}), tc.w, tc.h)
			if _, err := a.step(); err != nil {
				t.Fatalf("attach step: %v", err)
			}
			if f.placed[0] != tc.want {
				t.Fatalf("expected placement %+v, got %+v", tc.want, f.placed[0])
			}
		})
	}
}

func TestDriftRecentersExactlyOnce(t *testing.T) {
	f := &fakeManager{targetW: 800, targetH: 600, hostW: 1920, hostH: 1080, alive: true}
	a := testApp(t, f, make(chan struct{}), -1, -1)
	if _, err := a.step(); err != nil {
		t.Fatalf("attach step: %v", err)
	}

	// Quiet ticks poll but never move.
	for i := 0; i < 5; i++ {
		if _, err := a.step(); err != nil {
			t.Fatalf("step: %v", err)
		}
	}
	if a.polls != 5 {
		t.Fatalf("expected 5 polls, got %d", a.polls)
	}
	if a.moves != 1 || a.repaints != 1 {
		t.Fatalf("expected no moves while quiet, got moves=%d repaints=%d", a.moves, a.repaints)
	}

	// The target resizes itself once.
	f.targetW, f.targetH = 1024, 768
	if _, err := a.step(); err != nil {
		t.Fatalf("step: %v", err)
	}
	if a.moves != 2 || a.repaints != 2 {
		t.Fatalf("expected exactly one move and one repaint after drift, got moves=%d repaints=%d", a.moves, a.repaints)
	}
	// (1920-1024)/2 = 448, (1080-768)/2 = 156
	want := window.Rect{X: 448, Y: 156, W: 1024, H: 768}
	if got := f.placed[len(f.placed)-1]; got != want {
		t.Fatalf("expected placement %+v, got %+v", want, got)
	}

	// Back to quiescence afterwards.
	for i := 0; i < 5; i++ {
		if _, err := a.step(); err != nil {
			t.Fatalf("step: %v", err)
		}
	}
	if a.moves != 2 || a.repaints != 2 {
		t.Fatalf("expected no further moves, got moves=%d repaints=%d", a.moves, a.repaints)
	}
}

func TestHostResizeRecenters(t *testing.T) {
	f := &fakeManager{targetW: 800, targetH: 600, hostW: 1920, hostH: 1080, alive: true}
	a := testApp(t, f, make(chan struct{}), -1, -1)
	if _, err := a.step(); err != nil {
		t.Fatalf("attach step: %v", err)
	}

	f.hostW, f.hostH = 2560, 1440
	if _, err := a.step(); err != nil {
		t.Fatalf("step: %v", err)
	}
	// (2560-800)/2 = 880, (1440-600)/2 = 420
	want := window.Rect{X: 880, Y: 420, W: 800, H: 600}
	if got := f.placed[len(f.placed)-1]; got != want {
		t.Fatalf("expected placement %+v, got %+v", want, got)
	}
}

func TestExitEventClosesHostOnce(t *testing.T) {
	f := &fakeManager{targetW: 800, targetH: 600, hostW: 1920, hostH: 1080, alive: true}
	exit := make(chan struct{})
	a := testApp(t, f, exit, -1, -1)
	if _, err := a.step(); err != nil {
		t.Fatalf("attach step: %v", err)
	}

	// A closed channel keeps delivering; the close must not repeat.
	close(exit)
	for i := 0; i < 4; i++ {
		done, err := a.step()
		if err != nil {
			t.Fatalf("step: %v", err)
		}
		if !done {
			t.Fatalf("expected done after exit event, step %d", i)
		}
	}
	if a.closes != 1 {
		t.Fatalf("expected exactly one close, got %d", a.closes)
	}
}

func TestVanishedTargetClosesOnce(t *testing.T) {
	f := &fakeManager{targetW: 800, targetH: 600, hostW: 1920, hostH: 1080, alive: true}
	a := testApp(t, f, make(chan struct{}), -1, -1)
	if _, err := a.step(); err != nil {
		t.Fatalf("attach step: %v", err)
	}
	placements := len(f.placed)

	f.alive = false
	for i := 0; i < 4; i++ {
		done, err := a.step()
		if err != nil {
			t.Fatalf("step: %v", err)
		}
		if !done {
			t.Fatalf("expected done after target vanished, step %d", i)
		}
	}
	if a.closes != 1 {
		t.Fatalf("expected exactly one close, got %d", a.closes)
	}
	if len(f.placed) != placements {
		t.Fatalf("expected no placement after target vanished, got %d extra", len(f.placed)-placements)
	}
}

func TestAttachWaitsForHostWindow(t *testing.T) {
	f := &fakeManager{targetW: 800, targetH: 600, hostW: 1920, hostH: 1080, alive: true, hostMisses: 3}
	a := testApp(t, f, make(chan struct{}), -1, -1)

	for i := 0; i < 3; i++ {
		done, err := a.step()
		if err != nil {
			t.Fatalf("expected retry while host missing, got error: %v", err)
		}
		if done {
			t.Fatalf("unexpected done during attach retry, step %d", i)
		}
	}
	if a.Embedded() {
		t.Fatalf("embedded before the host appeared")
	}
	if _, err := a.step(); err != nil {
		t.Fatalf("attach step: %v", err)
	}
	if !a.Embedded() {
		t.Fatalf("expected embed once the host appeared")
	}
}

func TestAttachGraceExpires(t *testing.T) {
	f := &fakeManager{targetW: 800, targetH: 600, hostW: 1920, hostH: 1080, alive: true, hostMisses: 1}
	a := testApp(t, f, make(chan struct{}), -1, -1)
	a.attachTries = attachGrace

	if _, err := a.step(); err == nil {
		t.Fatalf("expected error once the attach grace period is spent")
	}
}

func TestEmbedFailureIsFatal(t *testing.T) {
	f := &fakeManager{targetW: 800, targetH: 600, hostW: 1920, hostH: 1080, alive: true}
	f.embedErr = errors.New("access denied")
	a := testApp(t, f, make(chan struct{}), -1, -1)

	if _, err := a.step(); err == nil {
		t.Fatalf("expected attach error when embed fails")
	}
	if a.Embedded() {
		t.Fatalf("expected Embedded() false after failed embed")
	}
	if len(f.placed) != 0 {
		t.Fatalf("expected no placement after failed embed, got %d", len(f.placed))
	}
}

func TestMoveFailureIsNotCounted(t *testing.T) {
	f := &fakeManager{targetW: 800, targetH: 600, hostW: 1920, hostH: 1080, alive: true}
	a := testApp(t, f, make(chan struct{}), -1, -1)
	if _, err := a.step(); err != nil {
		t.Fatalf("attach step: %v", err)
	}
	if a.moves != 1 || a.repaints != 1 {
		t.Fatalf("expected one move after attach, got moves=%d repaints=%d", a.moves, a.repaints)
	}

	f.placeErr = errors.New("access denied")
	f.targetW, f.targetH = 1024, 768
	if _, err := a.step(); err != nil {
		t.Fatalf("step: %v", err)
	}
	if a.moves != 1 || a.repaints != 1 {
		t.Fatalf("expected counters unchanged after failed move, got moves=%d repaints=%d", a.moves, a.repaints)
	}

	// The loop keeps running; the next successful move counts again.
	f.placeErr = nil
	f.targetW, f.targetH = 800, 600
	if _, err := a.step(); err != nil {
		t.Fatalf("step: %v", err)
	}
	if a.moves != 2 || a.repaints != 2 {
		t.Fatalf("expected move counted once placement recovers, got moves=%d repaints=%d", a.moves, a.repaints)
	}
}

func TestPollThrottle(t *testing.T) {
	f := &fakeManager{targetW: 800, targetH: 600, hostW: 1920, hostH: 1080, alive: true}
	a := testApp(t, f, make(chan struct{}), -1, -1)
	a.pollTicks = 10
	if _, err := a.step(); err != nil {
		t.Fatalf("attach step: %v", err)
	}

	for i := 0; i < 9; i++ {
		if _, err := a.step(); err != nil {
			t.Fatalf("step: %v", err)
		}
	}
	if a.polls != 0 {
		t.Fatalf("expected no poll before tick 10, got %d", a.polls)
	}
	if _, err := a.step(); err != nil {
		t.Fatalf("step: %v", err)
	}
	if a.polls != 1 {
		t.Fatalf("expected 1 poll at tick 10, got %d", a.polls)
	}
}
