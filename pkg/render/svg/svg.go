// Package svg serialises a scene.Drawing to SVG markup. Importing it
// registers the "svg" backend.
package svg

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/roffe/txgauge/pkg/scene"
)

func init() {
	scene.Register("svg", func() scene.Backend {
		return NewBackend()
	})
}

var _ scene.WriterBackend = (*Backend)(nil)

type Backend struct {
	buf bytes.Buffer
}

func NewBackend() *Backend {
	return &Backend{}
}

func (b *Backend) Render(d *scene.Drawing) error {
	b.buf.Reset()
	return Encode(&b.buf, d)
}

func (b *Backend) Bytes() []byte { return b.buf.Bytes() }

func (b *Backend) Extension() string { return "svg" }

func (b *Backend) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(b.buf.Bytes())
	return int64(n), err
}

// Encode writes d as a standalone SVG document. Non-finite coordinates are
// written as they are.
func Encode(w io.Writer, d *scene.Drawing) error {
	e := &encoder{w: w}
	e.printf(`<svg xmlns="http://www.w3.org/2000/svg" width="%s" height="%s" viewBox="0 0 %s %s">`+"\n",
		num(d.Width), num(d.Height), num(d.Width), num(d.Height))
	for _, s := range d.Shapes {
		switch s := s.(type) {
		case *scene.Arc:
			e.arc(s)
		case *scene.Line:
			e.line(s)
		case *scene.Text:
			e.text(s)
		default:
			return fmt.Errorf("svg: unsupported shape %T", s)
		}
	}
	e.printf("</svg>\n")
	return e.err
}

type encoder struct {
	w   io.Writer
	err error
}

func (e *encoder) printf(format string, args ...any) {
	if e.err != nil {
		return
	}
	_, e.err = fmt.Fprintf(e.w, format, args...)
}

func (e *encoder) arc(a *scene.Arc) {
	sp, ep := a.StartPoint(), a.EndPoint()
	large := 0
	if math.Abs(a.End-a.Start) > 180 {
		large = 1
	}
	// decreasing angles run clockwise on screen
	sweep := 0
	if a.End < a.Start {
		sweep = 1
	}
	e.printf(`  <path d="M %s %s A %s %s 0 %d %d %s %s" fill="none" stroke="%s" stroke-width="%s"/>`+"\n",
		num(sp.X), num(sp.Y), num(a.R), num(a.R), large, sweep, num(ep.X), num(ep.Y),
		scene.HexString(a.Stroke.Color), num(a.Stroke.Width))
}

func (e *encoder) line(l *scene.Line) {
	e.printf(`  <line x1="%s" y1="%s" x2="%s" y2="%s" stroke="%s" stroke-width="%s"`,
		num(l.X1), num(l.Y1), num(l.X2), num(l.Y2),
		scene.HexString(l.Stroke.Color), num(l.Stroke.Width))
	if r := l.Rotate; r != nil {
		// the pivot lives in the attribute; CSS keeps its 0 0 origin so the
		// two are not composed
		e.printf(` transform="rotate(%s %s %s)"`, num(r.Angle), num(r.OX), num(r.OY))
		if t := l.Transition; t != nil {
			e.printf(` style="transition: %s %ss cubic-bezier(%s, %s, %s, %s)"`,
				t.Property, num(t.Duration.Seconds()),
				num(t.Easing.X1), num(t.Easing.Y1), num(t.Easing.X2), num(t.Easing.Y2))
		}
	}
	e.printf("/>\n")
}

func (e *encoder) text(t *scene.Text) {
	anchor := "start"
	switch t.Anchor {
	case scene.AnchorMiddle:
		anchor = "middle"
	case scene.AnchorEnd:
		anchor = "end"
	}
	e.printf(`  <text x="%s" y="%s" text-anchor="%s" font-family="sans-serif" font-size="%s" fill="%s">`,
		num(t.X), num(t.Y), anchor, num(t.Size), scene.HexString(t.Color))
	if e.err == nil {
		e.err = xml.EscapeText(e.w, []byte(t.Text))
	}
	e.printf("</text>\n")
}

// num prints v with at most four decimals and no trailing zeros.
func num(v float64) string {
	if !math.IsNaN(v) && !math.IsInf(v, 0) {
		v = math.Round(v*1e4) / 1e4
		if v == 0 {
			v = 0 // drop negative zero
		}
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
