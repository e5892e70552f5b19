package display

import (
	"fmt"
	"image/color"
	"math"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"

	"github.com/junsooki/framepace/internal/frame"
	"github.com/junsooki/framepace/internal/pipeline"
	"github.com/junsooki/framepace/internal/presenter"
)

// EbitenDisplay is the playback window. It implements presenter.Surface for
// the pipeline and ebiten.Game for the window loop.
type EbitenDisplay struct {
	cfg    Config
	ticker Ticker
	now    func() time.Time

	texture *ebiten.Image
	rgba    []byte
	lastPix []byte
	frameW  int
	frameH  int

	overlay    presenter.Overlay
	hasOverlay bool
	face       *text.GoXFace

	err error
}

var _ presenter.Surface = (*EbitenDisplay)(nil)

// NewEbitenDisplay creates the display. Nothing is shown until Run.
func NewEbitenDisplay(cfg Config) *EbitenDisplay {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		cfg.Width, cfg.Height = 960, 1036
	}
	return &EbitenDisplay{
		cfg:  cfg,
		now:  time.Now,
		face: text.NewGoXFace(basicfont.Face7x13),
	}
}

// Run starts the window loop and blocks until playback ends or the window is
// closed. It must be called from the main goroutine. The returned error is the
// one that ended the session, or nil for a clean finish.
func (d *EbitenDisplay) Run(t Ticker) error {
	d.ticker = t
	ebiten.SetWindowSize(d.cfg.Width, d.cfg.Height)
	ebiten.SetWindowTitle(d.cfg.Title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	if err := ebiten.RunGame(d); err != nil {
		return err
	}
	return d.err
}

// PresentTexture uploads a packed RGB frame. Re-presenting the same buffer
// skips the upload.
func (d *EbitenDisplay) PresentTexture(pix []byte, width, height int) error {
	if n, ok := frame.BufferSize(width, height, 3); !ok || len(pix) != n {
		return fmt.Errorf("texture %dx%d does not match %d bytes", width, height, len(pix))
	}
	if sameBuffer(pix, d.lastPix) && width == d.frameW && height == d.frameH {
		return nil
	}

	if d.texture == nil || d.frameW != width || d.frameH != height {
		if d.texture != nil {
			d.texture.Deallocate()
		}
		d.texture = ebiten.NewImage(width, height)
		d.frameW, d.frameH = width, height
	}
	d.rgba = rgbToRGBA(d.rgba, pix)
	d.texture.WritePixels(d.rgba)
	d.lastPix = pix
	return nil
}

// DrawRect records the overlay drawn over every frame.
func (d *EbitenDisplay) DrawRect(o presenter.Overlay) error {
	if o.StrokeWidth < 0 || o.Width < 0 || o.Height < 0 {
		return fmt.Errorf("invalid overlay geometry %+v", o)
	}
	d.overlay = o
	d.hasOverlay = true
	return nil
}

// --- ebiten.Game interface ---

func (d *EbitenDisplay) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyQ) {
		return ebiten.Termination
	}
	if d.ticker == nil {
		return nil
	}
	outcome, err := d.ticker.Tick(d.now())
	if err != nil {
		d.err = err
		return ebiten.Termination
	}
	if outcome == pipeline.OutcomeExhausted {
		return ebiten.Termination
	}
	return nil
}

func (d *EbitenDisplay) Draw(screen *ebiten.Image) {
	if d.texture == nil {
		return
	}

	sw, sh := screen.Bounds().Dx(), screen.Bounds().Dy()
	scale, offsetX, offsetY := aspectFitTransform(float64(sw), float64(sh), float64(d.frameW), float64(d.frameH))

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(scale, scale)
	op.GeoM.Translate(offsetX, offsetY)
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(d.texture, op)

	if !d.hasOverlay {
		return
	}
	o := d.overlay
	if o.Fill != nil {
		if _, _, _, a := o.Fill.RGBA(); a > 0 {
			vector.DrawFilledRect(screen, o.X, o.Y, o.Width, o.Height, o.Fill, false)
		}
	}
	if o.Stroke != nil && o.StrokeWidth > 0 {
		vector.StrokeRect(screen, o.X, o.Y, o.Width, o.Height, o.StrokeWidth, o.Stroke, true)
	}

	if d.ticker != nil {
		lx, ly := labelPosition(o)
		lop := &text.DrawOptions{}
		lop.GeoM.Translate(lx, ly)
		lop.ColorScale.ScaleWithColor(labelColor(o))
		text.Draw(screen, fmt.Sprintf("frame %d", d.ticker.FrameIndex()), d.face, lop)
	}
}

func (d *EbitenDisplay) Layout(outsideWidth, outsideHeight int) (int, int) {
	return outsideWidth, outsideHeight
}

// aspectFitTransform returns scale and offsets to fit frame into view with letterboxing.
func aspectFitTransform(viewW, viewH, frameW, frameH float64) (scale, offsetX, offsetY float64) {
	if frameW <= 0 || frameH <= 0 {
		return 1, 0, 0
	}
	scale = math.Min(viewW/frameW, viewH/frameH)
	offsetX = (viewW - frameW*scale) / 2
	offsetY = (viewH - frameH*scale) / 2
	return
}

// labelPosition places the frame counter just inside the overlay's top-left corner.
func labelPosition(o presenter.Overlay) (float64, float64) {
	pad := float64(o.StrokeWidth) + 3
	return float64(o.X) + pad, float64(o.Y) + pad
}

func labelColor(o presenter.Overlay) color.Color {
	if o.Stroke == nil {
		return color.White
	}
	return o.Stroke
}

// rgbToRGBA expands packed RGB into opaque RGBA, reusing dst when it is large enough.
func rgbToRGBA(dst, src []byte) []byte {
	n := len(src) / 3 * 4
	if cap(dst) < n {
		dst = make([]byte, n)
	}
	dst = dst[:n]
	for i, j := 0, 0; i+2 < len(src); i, j = i+3, j+4 {
		dst[j] = src[i]
		dst[j+1] = src[i+1]
		dst[j+2] = src[i+2]
		dst[j+3] = 0xff
	}
	return dst
}

func sameBuffer(a, b []byte) bool {
	return len(a) > 0 && len(a) == len(b) && &a[0] == &b[0]
}
