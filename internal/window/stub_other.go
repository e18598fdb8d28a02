//go:build !windows

package window

// Foreign-window re-parenting only exists on Windows. Other platforms get
// a stub manager so the binary still builds and the pure logic runs.

type stubManager struct{}

func newManager() Manager { return stubManager{} }

func (stubManager) FindByTitle(string) (Handle, error) { return 0, ErrUnsupported }

func (stubManager) FromHandle(uint64) (Handle, error) { return 0, ErrUnsupported }

func (stubManager) IsAlive(Handle) bool { return false }

func (stubManager) Title(Handle) string { return "" }

func (stubManager) OwnerPID(Handle) (uint32, error) { return 0, ErrUnsupported }

func (stubManager) OuterSize(Handle) (int, int, error) { return 0, 0, ErrUnsupported }

func (stubManager) ClientSize(Handle) (int, int, error) { return 0, 0, ErrUnsupported }

func (stubManager) Embed(Handle, Handle) error { return ErrUnsupported }

func (stubManager) Place(Handle, Rect) error { return ErrUnsupported }

func (stubManager) Release(Handle) error { return ErrUnsupported }

func (stubManager) HostHandle(int) (Handle, error) { return 0, ErrUnsupported }

// Alive reports whether the process is still running.
func Alive(uint32) bool { return false }

// WatchExit is unavailable without a process wait primitive.
func WatchExit(uint32) (<-chan struct{}, error) { return nil, ErrUnsupported }

// Terminate is unavailable on this platform.
func Terminate(uint32) error { return ErrUnsupported }
