package backdrop

import "github.com/hajimehoshi/ebiten/v2"

// Backdrop owns the rendered background surface for the host window. The
// surface is rebuilt lazily on the next Draw after an Invalidate or a
// host size change.
type Backdrop struct {
	spec  Spec
	cache *ebiten.Image
	w, h  int
	dirty bool
}

// New wraps a Spec. Nothing is rendered until the first Draw, so it is
// safe to construct before the graphics context exists.
func New(spec Spec) *Backdrop {
	return &Backdrop{spec: spec, dirty: true}
}

// Invalidate forces a re-render on the next Draw.
func (b *Backdrop) Invalidate() {
	b.dirty = true
}

// Draw paints the backdrop over the whole screen.
func (b *Backdrop) Draw(screen *ebiten.Image) {
	w, h := screen.Bounds().Dx(), screen.Bounds().Dy()
	if b.cache == nil || b.dirty || w != b.w || h != b.h {
		if b.cache != nil {
			b.cache.Deallocate()
		}
		b.cache = ebiten.NewImageFromImage(b.spec.Render(w, h))
		b.w, b.h = w, h
		b.dirty = false
	}
	screen.DrawImage(b.cache, nil)
}
