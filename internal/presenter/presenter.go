package presenter

import (
	"fmt"
	"image/color"

	"github.com/junsooki/framepace/internal/frame"
)

// Surface is the rendering target a frame is handed to.
type Surface interface {
	PresentTexture(pix []byte, width, height int) error
	DrawRect(o Overlay) error
}

// Overlay is a rectangle annotation drawn at a fixed screen position.
type Overlay struct {
	X, Y          float32
	Width, Height float32
	StrokeWidth   float32
	Stroke        color.Color
	Fill          color.Color
}

// DefaultOverlay is a 100x100 black outline with a transparent fill at the origin.
func DefaultOverlay() Overlay {
	return Overlay{
		Width:       100,
		Height:      100,
		StrokeWidth: 2,
		Stroke:      color.Black,
		Fill:        color.Transparent,
	}
}

// Presenter draws frames and the overlay onto a Surface. It keeps no timing state.
type Presenter struct {
	surface Surface
	overlay Overlay
}

func New(surface Surface, overlay Overlay) *Presenter {
	return &Presenter{surface: surface, overlay: overlay}
}

// Present hands f to the surface, then draws the overlay on top.
func (p *Presenter) Present(f frame.Canonical) error {
	if err := p.surface.PresentTexture(f.Pix, f.Width, f.Height); err != nil {
		return fmt.Errorf("present texture: %w", err)
	}
	if err := p.surface.DrawRect(p.overlay); err != nil {
		return fmt.Errorf("draw overlay: %w", err)
	}
	return nil
}
