package gauge

import (
	"math"
	"time"

	"github.com/roffe/txgauge/pkg/scene"
)

const TransitionDuration = 600 * time.Millisecond

// StandardEasing is cubic-bezier(0.4, 0, 0.2, 1).
var StandardEasing = CubicBezier{X1: 0.4, Y1: 0, X2: 0.2, Y2: 1}

// NeedleTransition is the hint attached to the needle: rotate over
// TransitionDuration with StandardEasing.
func NeedleTransition() scene.Transition {
	return scene.Transition{
		Property: "transform",
		Duration: TransitionDuration,
		Easing:   scene.Easing(StandardEasing),
	}
}

// CubicBezier is a timing curve through (0,0), (X1,Y1), (X2,Y2), (1,1).
type CubicBezier struct {
	X1, Y1, X2, Y2 float64
}

func bezier(a, b, t float64) float64 {
	// B(t) for control values 0, a, b, 1
	mt := 1 - t
	return 3*mt*mt*t*a + 3*mt*t*t*b + t*t*t
}

func bezierSlope(a, b, t float64) float64 {
	mt := 1 - t
	return 3*mt*mt*a + 6*mt*t*(b-a) + 3*t*t*(1-b)
}

// Ease maps progress x in [0,1] to eased progress. Values outside the unit
// interval are clamped.
func (c CubicBezier) Ease(x float64) float64 {
	if x <= 0 {
		return 0
	}
	if x >= 1 {
		return 1
	}
	t := c.solveX(x)
	return bezier(c.Y1, c.Y2, t)
}

// solveX finds t with X(t) = x: Newton first, bisection when the slope
// flattens out.
func (c CubicBezier) solveX(x float64) float64 {
	const epsilon = 1e-7

	t := x
	for range 8 {
		dx := bezier(c.X1, c.X2, t) - x
		if math.Abs(dx) < epsilon {
			return t
		}
		d := bezierSlope(c.X1, c.X2, t)
		if math.Abs(d) < 1e-6 {
			break
		}
		t -= dx / d
	}

	lo, hi := 0.0, 1.0
	t = x
	for range 64 {
		v := bezier(c.X1, c.X2, t)
		if math.Abs(v-x) < epsilon {
			break
		}
		if v < x {
			lo = t
		} else {
			hi = t
		}
		t = (lo + hi) * 0.5
	}
	return t
}

// Animation interpolates the needle between two renders.
type Animation struct {
	From, To float64
	Duration time.Duration
	Easing   CubicBezier
}

// Animate builds the needle animation from prev to next.
func Animate(prev, next Props) Animation {
	return Animation{
		From:     NeedleAngle(prev.Value, prev.Min, prev.Max),
		To:       NeedleAngle(next.Value, next.Min, next.Max),
		Duration: TransitionDuration,
		Easing:   StandardEasing,
	}
}

// At returns the needle angle at progress p in [0,1].
func (a Animation) At(p float64) float64 {
	e := a.Easing.Ease(p)
	return a.From + (a.To-a.From)*e
}

// AtTime returns the needle angle after elapsed time.
func (a Animation) AtTime(elapsed time.Duration) float64 {
	if a.Duration <= 0 {
		return a.To
	}
	return a.At(float64(elapsed) / float64(a.Duration))
}

// Finite reports whether both ends are real angles; hosts should jump
// instead of animating otherwise.
func (a Animation) Finite() bool {
	return !math.IsNaN(a.From) && !math.IsNaN(a.To) && !math.IsInf(a.From, 0) && !math.IsInf(a.To, 0)
}
