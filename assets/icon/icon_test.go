package icon

import (
	"image"
	"testing"
)

func TestGenerate(t *testing.T) {
	imgs := Generate()
	if len(imgs) != 2 {
		t.Fatalf("expected 2 icon sizes, got %d", len(imgs))
	}
	for i, want := range []int{64, 32} {
		b := imgs[i].Bounds()
		if b.Dx() != want || b.Dy() != want {
			t.Fatalf("icon %d: expected %dx%d, got %dx%d", i, want, want, b.Dx(), b.Dy())
		}
	}

	rgba, ok := imgs[0].(*image.RGBA)
	if !ok {
		t.Fatalf("expected *image.RGBA, got %T", imgs[0])
	}
	if got := rgba.RGBAAt(32, 32); got != paneLight {
		t.Fatalf("center pixel: expected pane color %v, got %v", paneLight, got)
	}
	if got := rgba.RGBAAt(1, 1); got != frameBlue {
		t.Fatalf("edge pixel: expected frame color %v, got %v", frameBlue, got)
	}
}
