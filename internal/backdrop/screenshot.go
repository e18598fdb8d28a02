package backdrop

import (
	"errors"
	"fmt"

	"github.com/kbinani/screenshot"
)

// CaptureScreen grabs the primary display for use as the backdrop. Must
// run before the host window appears so the host is not in the shot.
func CaptureScreen(fit string) (Spec, error) {
	if screenshot.NumActiveDisplays() == 0 {
		return Spec{}, errors.New("screenshot: no active displays")
	}
	img, err := screenshot.CaptureRect(screenshot.GetDisplayBounds(0))
	if err != nil {
		return Spec{}, fmt.Errorf("screenshot: %w", err)
	}
	return FromImage(img, fit), nil
}
