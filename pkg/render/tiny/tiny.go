// Package tiny paints a scene.Drawing onto small TinyGo displays through the
// drivers.Displayer interface. Importing it registers the "tiny" backend,
// which draws into an in-memory Framebuffer and writes it out as PNG.
package tiny

import (
	"fmt"
	"image/color"
	"io"
	"math"

	"tinygo.org/x/drivers"
	"tinygo.org/x/tinydraw"
	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/proggy"

	"github.com/roffe/txgauge/pkg/scene"
)

const (
	DefaultWidth  = 160
	DefaultHeight = 96

	arcSegments = 48
)

func init() {
	scene.Register("tiny", func() scene.Backend {
		return NewFramebufferBackend(DefaultWidth, DefaultHeight)
	})
}

// Renderer draws onto any display. The drawing is scaled uniformly to fit and
// centred.
type Renderer struct {
	display    drivers.Displayer
	font       tinyfont.Fonter
	background color.RGBA
}

type Option func(*Renderer)

func WithFont(f tinyfont.Fonter) Option {
	return func(r *Renderer) { r.font = f }
}

func WithBackground(c color.RGBA) Option {
	return func(r *Renderer) { r.background = c }
}

func NewRenderer(display drivers.Displayer, opts ...Option) *Renderer {
	r := &Renderer{
		display:    display,
		font:       &proggy.TinySZ8pt7b,
		background: color.RGBA{0xff, 0xff, 0xff, 0xff},
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

type transform struct {
	scale, dx, dy float64
}

func (t transform) apply(p scene.Point) (int16, int16) {
	return int16(math.Round(p.X*t.scale + t.dx)), int16(math.Round(p.Y*t.scale + t.dy))
}

func (r *Renderer) fit(d *scene.Drawing) (transform, error) {
	w, h := r.display.Size()
	if w <= 0 || h <= 0 {
		return transform{}, fmt.Errorf("tiny: display has no area (%dx%d)", w, h)
	}
	if d.Width <= 0 || d.Height <= 0 {
		return transform{}, fmt.Errorf("tiny: invalid drawing size %vx%v", d.Width, d.Height)
	}
	s := math.Min(float64(w)/d.Width, float64(h)/d.Height)
	return transform{
		scale: s,
		dx:    (float64(w) - d.Width*s) / 2,
		dy:    (float64(h) - d.Height*s) / 2,
	}, nil
}

// Render clears the display, paints d and calls Display. Shapes with
// non-finite coordinates are skipped.
func (r *Renderer) Render(d *scene.Drawing) error {
	tr, err := r.fit(d)
	if err != nil {
		return err
	}
	r.clear()
	for _, shape := range d.Shapes {
		switch shape := shape.(type) {
		case *scene.Arc:
			r.arc(tr, shape)
		case *scene.Line:
			p1, p2 := shape.Endpoints()
			r.segment(tr, p1, p2, shape.Stroke)
		case *scene.Text:
			r.text(tr, shape)
		default:
			return fmt.Errorf("tiny: unsupported shape %T", shape)
		}
	}
	return r.display.Display()
}

func (r *Renderer) clear() {
	w, h := r.display.Size()
	for y := int16(0); y < h; y++ {
		for x := int16(0); x < w; x++ {
			r.display.SetPixel(x, y, r.background)
		}
	}
}

func (r *Renderer) arc(tr transform, a *scene.Arc) {
	pts := a.Points(arcSegments)
	for i := 1; i < len(pts); i++ {
		r.segment(tr, pts[i-1], pts[i], a.Stroke)
	}
}

// segment draws a line as parallel one pixel lines to approximate its width.
func (r *Renderer) segment(tr transform, p1, p2 scene.Point, st scene.Stroke) {
	if !p1.Finite() || !p2.Finite() {
		return
	}
	x0, y0 := tr.apply(p1)
	x1, y1 := tr.apply(p2)
	tinydraw.Line(r.display, x0, y0, x1, y1, st.Color)

	width := int(math.Round(st.Width * tr.scale))
	if width <= 1 {
		return
	}
	// unit normal of the segment
	dx, dy := p2.X-p1.X, p2.Y-p1.Y
	l := math.Hypot(dx, dy)
	if l == 0 {
		return
	}
	nx, ny := -dy/l, dx/l
	for i := 1; i < width; i++ {
		off := float64((i+1)/2) * float64(1-2*(i%2)) // 1, -1, 2, -2, ...
		ox, oy := int16(math.Round(nx*off)), int16(math.Round(ny*off))
		tinydraw.Line(r.display, x0+ox, y0+oy, x1+ox, y1+oy, st.Color)
	}
}

func (r *Renderer) text(tr transform, t *scene.Text) {
	if t.Text == "" {
		return
	}
	x, y := tr.apply(scene.Point{X: t.X, Y: t.Y})
	_, outbox := tinyfont.LineWidth(r.font, t.Text)
	switch t.Anchor {
	case scene.AnchorMiddle:
		x -= int16(outbox / 2)
	case scene.AnchorEnd:
		x -= int16(outbox)
	}
	tinyfont.WriteLine(r.display, r.font, x, y, t.Text, t.Color)
}

var _ scene.WriterBackend = (*FramebufferBackend)(nil)

// FramebufferBackend renders into its own Framebuffer.
type FramebufferBackend struct {
	*Renderer
	fb *Framebuffer
}

func NewFramebufferBackend(width, height int16, opts ...Option) *FramebufferBackend {
	fb := NewFramebuffer(width, height)
	return &FramebufferBackend{Renderer: NewRenderer(fb, opts...), fb: fb}
}

func (b *FramebufferBackend) Framebuffer() *Framebuffer { return b.fb }

func (b *FramebufferBackend) Extension() string { return "png" }

func (b *FramebufferBackend) WriteTo(w io.Writer) (int64, error) {
	return b.fb.WriteTo(w)
}
