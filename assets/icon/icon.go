package icon

import (
	"image"
	"image/color"
)

// Theme colors for the generated icon.
var (
	gradTop    = color.RGBA{R: 0x1B, G: 0x26, B: 0x3B, A: 0xFF}
	gradBottom = color.RGBA{R: 0x0E, G: 0x12, B: 0x1E, A: 0xFF}
	frameBlue  = color.RGBA{R: 0x4F, G: 0x8F, B: 0xC0, A: 0xFF}
	paneLight  = color.RGBA{R: 0xE8, G: 0xEE, B: 0xF4, A: 0xFF}
	paneBar    = color.RGBA{R: 0x6F, G: 0xA8, B: 0xD8, A: 0xFF}
)

// Generate returns 64x64 and 32x32 icon images for use with ebiten.SetWindowIcon.
func Generate() []image.Image {
	return []image.Image{
		generate(64),
		generate(32),
	}
}

// generate draws the app motif: a small window pane centered inside a
// framed, gradient-filled host.
func generate(size int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	s := float64(size)

	// Gradient backdrop
	fillGradient(img, size)

	// Host frame along the icon edge
	frame := s * 0.05
	drawFrame(img, s, frame, frameBlue)

	// Centered target pane, roughly half the host size
	pw := s * 0.50
	ph := s * 0.42
	px := (s - pw) / 2
	py := (s - ph) / 2
	fillRect(img, px, py, pw, ph, paneLight)

	// Title bar strip across the pane top
	fillRect(img, px, py, pw, s*0.08, paneBar)

	return img
}

// fillGradient paints a vertical blend from gradTop to gradBottom.
func fillGradient(img *image.RGBA, size int) {
	for y := 0; y < size; y++ {
		c := color.RGBA{
			R: lerp(gradTop.R, gradBottom.R, y, size),
			G: lerp(gradTop.G, gradBottom.G, y, size),
			B: lerp(gradTop.B, gradBottom.B, y, size),
			A: 0xFF,
		}
		for x := 0; x < size; x++ {
			img.SetRGBA(x, y, c)
		}
	}
}

func lerp(a, b uint8, y, size int) uint8 {
	if size <= 1 {
		return a
	}
	return uint8(int(a) + (int(b)-int(a))*y/(size-1))
}

// drawFrame draws a border of the given thickness along all four edges.
func drawFrame(img *image.RGBA, s, thickness float64, c color.RGBA) {
	fillRect(img, 0, 0, s, thickness, c)
	fillRect(img, 0, s-thickness, s, thickness, c)
	fillRect(img, 0, 0, thickness, s, c)
	fillRect(img, s-thickness, 0, thickness, s, c)
}

func fillRect(img *image.RGBA, xf, yf, wf, hf float64, c color.RGBA) {
	bounds := img.Bounds()
	x0, y0 := int(xf), int(yf)
	x1, y1 := int(xf+wf), int(yf+hf)
	for y := y0; y < y1 && y < bounds.Max.Y; y++ {
		for x := x0; x < x1 && x < bounds.Max.X; x++ {
			if x >= 0 && y >= 0 {
				img.SetRGBA(x, y, c)
			}
		}
	}
}
