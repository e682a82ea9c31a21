// Package scene describes a static vector drawing as an ordered list of
// shape records. A Drawing carries no behaviour of its own; backends
// registered with Register turn it into pixels or markup.
package scene

import (
	"image/color"
	"math"
	"time"
)

type Kind int

const (
	KindArc Kind = iota
	KindLine
	KindText
)

func (k Kind) String() string {
	switch k {
	case KindArc:
		return "arc"
	case KindLine:
		return "line"
	case KindText:
		return "text"
	}
	return "unknown"
}

// Shape is implemented by *Arc, *Line and *Text.
type Shape interface {
	Kind() Kind
}

type Point struct {
	X, Y float64
}

// Finite reports whether both coordinates are real numbers.
func (p Point) Finite() bool {
	return !math.IsNaN(p.X) && !math.IsNaN(p.Y) && !math.IsInf(p.X, 0) && !math.IsInf(p.Y, 0)
}

type Stroke struct {
	Color color.RGBA
	Width float64
}

// Arc is a circular arc around (CX, CY). Start and End are drawing-space
// angles in degrees measured counter-clockwise from 3 o'clock with the y axis
// pointing down, so the upper semicircle runs from 180 to 0.
type Arc struct {
	CX, CY, R  float64
	Start, End float64
	Stroke     Stroke
}

func (*Arc) Kind() Kind { return KindArc }

// StartPoint and EndPoint are the arc's end coordinates.
func (a *Arc) StartPoint() Point { return a.at(a.Start) }
func (a *Arc) EndPoint() Point   { return a.at(a.End) }

func (a *Arc) at(deg float64) Point {
	s, c := math.Sincos(deg * math.Pi / 180)
	return Point{X: a.CX + a.R*c, Y: a.CY - a.R*s}
}

// Points flattens the arc into segments+1 points from Start to End.
func (a *Arc) Points(segments int) []Point {
	if segments < 1 {
		segments = 1
	}
	pts := make([]Point, 0, segments+1)
	step := (a.End - a.Start) / float64(segments)
	for i := 0; i <= segments; i++ {
		pts = append(pts, a.at(a.Start+step*float64(i)))
	}
	return pts
}

// Rotation turns a shape by Angle degrees clockwise around (OX, OY).
type Rotation struct {
	Angle  float64
	OX, OY float64
}

// Apply returns p rotated around the pivot.
func (r *Rotation) Apply(p Point) Point {
	if r == nil {
		return p
	}
	s, c := math.Sincos(r.Angle * math.Pi / 180)
	dx, dy := p.X-r.OX, p.Y-r.OY
	return Point{
		X: r.OX + dx*c - dy*s,
		Y: r.OY + dx*s + dy*c,
	}
}

// Easing is a CSS cubic-bezier timing function.
type Easing struct {
	X1, Y1, X2, Y2 float64
}

// Transition asks the host to interpolate Property over Duration when it
// changes between two renders.
type Transition struct {
	Property string
	Duration time.Duration
	Easing   Easing
}

type Line struct {
	X1, Y1, X2, Y2 float64
	Stroke         Stroke
	Rotate         *Rotation
	Transition     *Transition
}

func (*Line) Kind() Kind { return KindLine }

// Endpoints returns the line's end coordinates after the rotation is applied.
func (l *Line) Endpoints() (Point, Point) {
	p1 := Point{X: l.X1, Y: l.Y1}
	p2 := Point{X: l.X2, Y: l.Y2}
	return l.Rotate.Apply(p1), l.Rotate.Apply(p2)
}

type Anchor int

const (
	AnchorStart Anchor = iota
	AnchorMiddle
	AnchorEnd
)

// Text is a single line of text whose baseline starts at Y.
type Text struct {
	X, Y   float64
	Text   string
	Size   float64
	Color  color.RGBA
	Anchor Anchor
}

func (*Text) Kind() Kind { return KindText }

type Drawing struct {
	Width, Height float64
	Shapes        []Shape
}

func New(width, height float64) *Drawing {
	return &Drawing{Width: width, Height: height}
}

func (d *Drawing) Add(shapes ...Shape) *Drawing {
	d.Shapes = append(d.Shapes, shapes...)
	return d
}

// Count returns the number of shapes of kind k.
func (d *Drawing) Count(k Kind) int {
	var n int
	for _, s := range d.Shapes {
		if s.Kind() == k {
			n++
		}
	}
	return n
}
