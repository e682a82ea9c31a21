// Package gauge computes the geometry of a semicircular gauge and emits it as
// a scene.Drawing: a grey arc, NumTicks coloured tick marks, a needle rotated
// to the value and a text label.
//
// Everything here is pure arithmetic. Inputs are not validated; Min == Max or
// NumTicks == 1 produce NaN or Inf coordinates instead of an error.
package gauge

import (
	"image/color"
	"math"

	"github.com/roffe/txgauge/pkg/common"
	"github.com/roffe/txgauge/pkg/scene"
)

const (
	Width   = 200.0
	Height  = 100.0
	CenterX = Width * common.OneHalf
	CenterY = Height
	Radius  = 80.0
	Sweep   = 180.0

	// LabelBand is the strip below the canvas that holds the value label.
	LabelBand = 20.0
	LabelSize = 14.0

	DefaultNumTicks = 11

	tickInner   = Radius * 0.85
	tickOuter   = Radius * 0.95
	needleReach = Radius * 0.8
)

var (
	ArcColor    = color.RGBA{0xaa, 0xaa, 0xaa, 0xff}
	NeedleColor = color.RGBA{0xff, 0x63, 0x47, 0xff} // tomato
	LabelColor  = color.RGBA{0x00, 0x00, 0x00, 0xff}

	TickGreen       = color.RGBA{0x4c, 0xaf, 0x50, 0xff}
	TickYellowGreen = color.RGBA{0xcd, 0xdc, 0x39, 0xff}
	TickDeepOrange  = color.RGBA{0xd8, 0x43, 0x15, 0xff}
)

// Props is the input of one render. NumTicks 0 is the unset zero value and
// selects DefaultNumTicks; a negative NumTicks draws no ticks.
type Props struct {
	Value    float64
	Min, Max float64
	NumTicks int
}

func (p Props) ticks() int {
	if p.NumTicks == 0 {
		return DefaultNumTicks
	}
	return p.NumTicks
}

type Segment struct {
	X1, Y1, X2, Y2 float64
}

type Tick struct {
	Index int
	Value float64
	// Angle uses the needle convention: -90 left, 0 up, +90 right.
	Angle float64
	// DrawAngle is Angle converted to drawing space (90 - Angle).
	DrawAngle float64
	Segment   Segment
	Color     color.RGBA
}

type Geometry struct {
	Percentage  float64
	NeedleAngle float64
	// Needle is the unrotated needle, pointing straight up from the pivot.
	Needle Segment
	Ticks  []Tick
	Label  string
}

// Percentage is the position of value within [min, max]. It is not clamped.
func Percentage(value, min, max float64) float64 {
	return (value - min) / (max - min)
}

// NeedleAngle maps value to degrees, -90 at min and +90 at max.
func NeedleAngle(value, min, max float64) float64 {
	return Percentage(value, min, max)*Sweep - 90
}

// TickValue is the scale value of tick i out of n evenly spaced ticks.
func TickValue(i, n int, min, max float64) float64 {
	return min + (max-min)/float64(n-1)*float64(i)
}

// TickColor depends on the index alone: 0-3 green, 4-6 yellow-green, 7 and
// up deep orange, whatever the tick count.
func TickColor(index int) color.RGBA {
	switch {
	case index <= 3:
		return TickGreen
	case index < 7:
		return TickYellowGreen
	default:
		return TickDeepOrange
	}
}

// TickSegment returns the radial tick mark for a needle-convention angle.
func TickSegment(angle float64) Segment {
	s, c := math.Sincos((90 - angle) * common.PiDiv180)
	return Segment{
		X1: CenterX + tickInner*c,
		Y1: CenterY - tickInner*s,
		X2: CenterX + tickOuter*c,
		Y2: CenterY - tickOuter*s,
	}
}

func Compute(p Props) Geometry {
	n := p.ticks()
	g := Geometry{
		Percentage:  Percentage(p.Value, p.Min, p.Max),
		NeedleAngle: NeedleAngle(p.Value, p.Min, p.Max),
		Needle:      Segment{X1: CenterX, Y1: CenterY, X2: CenterX, Y2: CenterY - needleReach},
		Label:       FormatValue(p.Value),
	}
	if n > 0 {
		g.Ticks = make([]Tick, 0, n)
	}
	for i := 0; i < n; i++ {
		v := TickValue(i, n, p.Min, p.Max)
		a := NeedleAngle(v, p.Min, p.Max)
		g.Ticks = append(g.Ticks, Tick{
			Index:     i,
			Value:     v,
			Angle:     a,
			DrawAngle: 90 - a,
			Segment:   TickSegment(a),
			Color:     TickColor(i),
		})
	}
	return g
}

// Render returns the drawing for p. The drawing is Width wide and
// Height+LabelBand tall; shapes are ordered arc, ticks, needle, label.
func Render(p Props) *scene.Drawing {
	return Compute(p).Drawing()
}

func (g Geometry) Drawing() *scene.Drawing {
	d := scene.New(Width, Height+LabelBand)
	d.Add(&scene.Arc{
		CX: CenterX, CY: CenterY, R: Radius,
		Start: 180, End: 0,
		Stroke: scene.Stroke{Color: ArcColor, Width: 4},
	})
	for _, t := range g.Ticks {
		d.Add(&scene.Line{
			X1: t.Segment.X1, Y1: t.Segment.Y1,
			X2: t.Segment.X2, Y2: t.Segment.Y2,
			Stroke: scene.Stroke{Color: t.Color, Width: 1},
		})
	}
	tr := NeedleTransition()
	d.Add(&scene.Line{
		X1: g.Needle.X1, Y1: g.Needle.Y1,
		X2: g.Needle.X2, Y2: g.Needle.Y2,
		Stroke:     scene.Stroke{Color: NeedleColor, Width: 2},
		Rotate:     &scene.Rotation{Angle: g.NeedleAngle, OX: CenterX, OY: CenterY},
		Transition: &tr,
	})
	d.Add(&scene.Text{
		X:      CenterX,
		Y:      Height + LabelBand*0.75,
		Text:   g.Label,
		Size:   LabelSize,
		Color:  LabelColor,
		Anchor: scene.AnchorMiddle,
	})
	return d
}
