// Package raster paints a scene.Drawing into an image with gogpu/gg.
// Importing it registers the "png" backend.
package raster

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"math"
	"sync"

	"github.com/gogpu/gg"
	"github.com/gogpu/gg/text"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/roffe/txgauge/pkg/common"
	"github.com/roffe/txgauge/pkg/scene"
)

func init() {
	scene.Register("png", func() scene.Backend {
		return NewBackend(Options{})
	})
}

const DefaultScale = 2.0

type Options struct {
	// Scale multiplies the drawing size. Zero means DefaultScale.
	Scale float64
	// Background is painted first. The zero value is white.
	Background color.Color
}

var _ scene.WriterBackend = (*Backend)(nil)

type Backend struct {
	opts Options
	img  image.Image
}

func NewBackend(opts Options) *Backend {
	if opts.Scale <= 0 {
		opts.Scale = DefaultScale
	}
	if opts.Background == nil {
		opts.Background = color.White
	}
	return &Backend{opts: opts}
}

// SetScale changes the scale used by the next Render.
func (b *Backend) SetScale(scale float64) {
	if scale > 0 {
		b.opts.Scale = scale
	}
}

var (
	fontOnce   sync.Once
	fontSource *text.FontSource
	fontErr    error
)

func regular() (*text.FontSource, error) {
	fontOnce.Do(func() {
		fontSource, fontErr = text.NewFontSource(goregular.TTF)
	})
	return fontSource, fontErr
}

// Render paints d. Shapes with non-finite coordinates are skipped.
func (b *Backend) Render(d *scene.Drawing) error {
	s := b.opts.Scale
	w := int(math.Ceil(d.Width * s))
	h := int(math.Ceil(d.Height * s))
	if w <= 0 || h <= 0 {
		return fmt.Errorf("raster: invalid drawing size %vx%v", d.Width, d.Height)
	}

	dc := gg.NewContext(w, h)
	defer dc.Close()
	dc.ClearWithColor(gg.FromColor(b.opts.Background))

	for _, shape := range d.Shapes {
		var err error
		switch shape := shape.(type) {
		case *scene.Arc:
			err = b.arc(dc, shape)
		case *scene.Line:
			err = b.line(dc, shape)
		case *scene.Text:
			err = b.text(dc, shape)
		default:
			err = fmt.Errorf("unsupported shape %T", shape)
		}
		if err != nil {
			return fmt.Errorf("raster: %w", err)
		}
	}
	b.img = dc.Image()
	return nil
}

func (b *Backend) stroke(dc *gg.Context, st scene.Stroke) error {
	dc.SetColor(st.Color)
	dc.SetLineWidth(math.Max(1, st.Width*b.opts.Scale))
	return dc.Stroke()
}

func (b *Backend) arc(dc *gg.Context, a *scene.Arc) error {
	s := b.opts.Scale
	if !(scene.Point{X: a.CX, Y: a.CY}).Finite() {
		return nil
	}
	// gg measures angles clockwise on screen, scene counter-clockwise
	a1, a2 := -common.Deg2Rad(a.Start), -common.Deg2Rad(a.End)
	if a2 < a1 {
		a1, a2 = a2, a1
	}
	dc.ClearPath()
	dc.DrawArc(a.CX*s, a.CY*s, a.R*s, a1, a2)
	return b.stroke(dc, a.Stroke)
}

func (b *Backend) line(dc *gg.Context, l *scene.Line) error {
	s := b.opts.Scale
	p1, p2 := l.Endpoints()
	if !p1.Finite() || !p2.Finite() {
		return nil
	}
	dc.ClearPath()
	dc.DrawLine(p1.X*s, p1.Y*s, p2.X*s, p2.Y*s)
	return b.stroke(dc, l.Stroke)
}

func (b *Backend) text(dc *gg.Context, t *scene.Text) error {
	if t.Text == "" {
		return nil
	}
	src, err := regular()
	if err != nil {
		return fmt.Errorf("load font: %w", err)
	}
	s := b.opts.Scale
	dc.SetFont(src.Face(t.Size * s))
	dc.SetColor(t.Color)
	var ax float64
	switch t.Anchor {
	case scene.AnchorMiddle:
		ax = common.OneHalf
	case scene.AnchorEnd:
		ax = 1
	}
	dc.DrawStringAnchored(t.Text, t.X*s, t.Y*s, ax, 0)
	return nil
}

// Image returns the result of the last Render, or nil.
func (b *Backend) Image() image.Image { return b.img }

func (b *Backend) Extension() string { return "png" }

func (b *Backend) WriteTo(w io.Writer) (int64, error) {
	if b.img == nil {
		return 0, fmt.Errorf("raster: nothing rendered")
	}
	cw := &countingWriter{w: w}
	err := encodePNG(cw, b.img)
	return cw.n, err
}
