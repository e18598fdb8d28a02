// Package backdrop builds the background surface painted behind the
// embedded window.
package backdrop

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/jpeg"
	_ "image/png"
	"math"
	"os"
	"strconv"
	"strings"

	xdraw "golang.org/x/image/draw"

	_ "golang.org/x/image/bmp"
)

// Fit modes for image backdrops.
const (
	FitStretch = "stretch" // distort to cover the host exactly
	FitFit     = "fit"     // largest scale that keeps the whole image visible
	FitFill    = "fill"    // smallest scale that covers the host, cropping edges
	FitCenter  = "center"  // no scaling, centered
)

type kind int

const (
	kindSolid kind = iota
	kindGradient
	kindImage
)

// Source names a backdrop input. Several can be configured at once;
// PickSource decides which one wins.
type Source int

const (
	SourceBlack Source = iota
	SourceColor
	SourceGradient
	SourceScreenshot
	SourceImage
)

// PickSource applies the backdrop precedence: an image file wins over a
// screenshot, which wins over a gradient, which wins over a solid
// color. With nothing configured the backdrop is plain black.
func PickSource(imagePath string, screenshot bool, gradient, colorHex string) Source {
	switch {
	case imagePath != "":
		return SourceImage
	case screenshot:
		return SourceScreenshot
	case gradient != "":
		return SourceGradient
	case colorHex != "":
		return SourceColor
	}
	return SourceBlack
}

// Spec describes a backdrop source. The zero value renders solid black.
type Spec struct {
	kind     kind
	from, to color.RGBA // solid uses from only
	img      image.Image
	fit      string
}

// Solid is a single-color backdrop.
func Solid(c color.RGBA) Spec {
	c.A = 0xFF
	return Spec{kind: kindSolid, from: c}
}

// Gradient is a vertical two-color backdrop, top to bottom.
func Gradient(top, bottom color.RGBA) Spec {
	return Spec{kind: kindGradient, from: top, to: bottom}
}

// FromImage is an image backdrop placed per the fit mode.
func FromImage(img image.Image, fit string) Spec {
	return Spec{kind: kindImage, img: img, fit: fit}
}

// LoadFile decodes a png, jpeg or bmp backdrop image.
func LoadFile(path, fit string) (Spec, error) {
	f, err := os.Open(path)
	if err != nil {
		return Spec{}, fmt.Errorf("background image: %w", err)
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return Spec{}, fmt.Errorf("background image %s: %w", path, err)
	}
	return FromImage(img, fit), nil
}

// ParseHexColor parses a color given as exactly six hex digits (RRGGBB),
// upper or lower case. Anything else is rejected.
func ParseHexColor(s string) (color.RGBA, error) {
	if len(s) != 6 {
		return color.RGBA{}, fmt.Errorf("color %q: want exactly 6 hex digits", s)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("color %q: not a hex color", s)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xFF}, nil
}

// ParseGradient parses "RRGGBB;RRGGBB" into top and bottom colors.
func ParseGradient(s string) (color.RGBA, color.RGBA, error) {
	parts := strings.Split(s, ";")
	if len(parts) != 2 {
		return color.RGBA{}, color.RGBA{}, fmt.Errorf("gradient %q: want two colors separated by ';'", s)
	}
	top, err := ParseHexColor(parts[0])
	if err != nil {
		return color.RGBA{}, color.RGBA{}, fmt.Errorf("gradient: %w", err)
	}
	bottom, err := ParseHexColor(parts[1])
	if err != nil {
		return color.RGBA{}, color.RGBA{}, fmt.Errorf("gradient: %w", err)
	}
	return top, bottom, nil
}

// ValidFit reports whether s names a known image fit mode.
func ValidFit(s string) bool {
	switch s {
	case FitStretch, FitFit, FitFill, FitCenter:
		return true
	}
	return false
}

// Render draws the backdrop at the given size. Area an image does not
// cover stays black.
func (s Spec) Render(w, h int) *image.RGBA {
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	switch s.kind {
	case kindGradient:
		for y := 0; y < h; y++ {
			c := lerp(s.from, s.to, y, h)
			for x := 0; x < w; x++ {
				dst.SetRGBA(x, y, c)
			}
		}
	case kindImage:
		draw.Draw(dst, dst.Bounds(), image.NewUniform(color.Black), image.Point{}, draw.Src)
		dr := fitRect(s.img.Bounds().Dx(), s.img.Bounds().Dy(), w, h, s.fit)
		xdraw.ApproxBiLinear.Scale(dst, dr, s.img, s.img.Bounds(), xdraw.Src, nil)
	default:
		c := s.from
		c.A = 0xFF
		draw.Draw(dst, dst.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
	}
	return dst
}

// lerp interpolates row y of n rows between the gradient stops: row 0 is
// exactly from, row n-1 exactly to.
func lerp(from, to color.RGBA, y, n int) color.RGBA {
	if n <= 1 {
		return from
	}
	mix := func(a, b uint8) uint8 {
		return uint8(int(a) + (int(b)-int(a))*y/(n-1))
	}
	return color.RGBA{R: mix(from.R, to.R), G: mix(from.G, to.G), B: mix(from.B, to.B), A: 0xFF}
}

// fitRect computes where a srcW x srcH image lands on a dstW x dstH
// canvas for the given fit mode. The rectangle may exceed the canvas;
// drawing clips to it.
func fitRect(srcW, srcH, dstW, dstH int, fit string) image.Rectangle {
	switch fit {
	case FitStretch:
		return image.Rect(0, 0, dstW, dstH)
	case FitCenter:
		x := (dstW - srcW) / 2
		y := (dstH - srcH) / 2
		return image.Rect(x, y, x+srcW, y+srcH)
	}
	if srcW < 1 || srcH < 1 {
		return image.Rect(0, 0, dstW, dstH)
	}
	sx := float64(dstW) / float64(srcW)
	sy := float64(dstH) / float64(srcH)
	scale := math.Min(sx, sy)
	if fit == FitFill {
		scale = math.Max(sx, sy)
	}
	w := int(math.Round(float64(srcW) * scale))
	h := int(math.Round(float64(srcH) * scale))
	x := (dstW - w) / 2
	y := (dstH - h) / 2
	return image.Rect(x, y, x+w, y+h)
}
