// Package gauge is the fyne widget for a semicircular gauge. It draws the
// scene produced by the gauge renderer and animates the needle between
// values.
package gauge

import (
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/widget"

	"github.com/roffe/txgauge/pkg/common"
	core "github.com/roffe/txgauge/pkg/gauge"
	"github.com/roffe/txgauge/pkg/scene"
)

const (
	arcSegments = 36
	titleBand   = 20.0
	titleSize   = 14.0
)

type Config struct {
	Title            string
	Min, Max         float64
	NumTicks         int
	MinSize          fyne.Size
	DisableAnimation bool
}

// part holds the canvas objects of one scene shape.
type part struct {
	lines []*canvas.Line
	text  *canvas.Text
}

type Gauge struct {
	widget.BaseWidget

	cfg *Config

	mu      sync.Mutex
	value   float64
	drawing *scene.Drawing
	angle   float64 // displayed needle angle
	anim    *fyne.Animation

	parts     []part
	needleIdx int
	titleText *canvas.Text

	size    fyne.Size
	minsize fyne.Size
	scale   float32
	origin  fyne.Position
}

func New(cfg *Config) *Gauge {
	g := &Gauge{
		cfg:       cfg,
		needleIdx: -1,
		minsize:   fyne.NewSize(core.Width, core.Height+core.LabelBand),
		scale:     1,
	}
	g.ExtendBaseWidget(g)

	if cfg.Title != "" {
		g.minsize.Height += titleBand
		g.titleText = &canvas.Text{Text: cfg.Title, Color: core.LabelColor, TextSize: titleSize}
		g.titleText.TextStyle.Bold = true
		g.titleText.Alignment = fyne.TextAlignCenter
	}
	if cfg.MinSize.Width > 0 && cfg.MinSize.Height > 0 {
		g.minsize = cfg.MinSize
	}

	g.value = cfg.Min
	g.drawing = core.Render(g.props())
	g.angle = core.NeedleAngle(g.value, cfg.Min, cfg.Max)
	g.build()
	g.place()
	return g
}

func (g *Gauge) props() core.Props {
	return core.Props{Value: g.value, Min: g.cfg.Min, Max: g.cfg.Max, NumTicks: g.cfg.NumTicks}
}

// build creates canvas objects matching the shapes of the current drawing.
// The shape list only depends on NumTicks, so it is built once.
func (g *Gauge) build() {
	g.parts = make([]part, len(g.drawing.Shapes))
	for i, shape := range g.drawing.Shapes {
		switch s := shape.(type) {
		case *scene.Arc:
			lines := make([]*canvas.Line, arcSegments)
			for j := range lines {
				lines[j] = &canvas.Line{StrokeColor: s.Stroke.Color}
			}
			g.parts[i].lines = lines
		case *scene.Line:
			g.parts[i].lines = []*canvas.Line{{StrokeColor: s.Stroke.Color}}
			if s.Rotate != nil {
				g.needleIdx = i
			}
		case *scene.Text:
			t := &canvas.Text{Color: s.Color}
			switch s.Anchor {
			case scene.AnchorMiddle:
				t.Alignment = fyne.TextAlignCenter
			case scene.AnchorEnd:
				t.Alignment = fyne.TextAlignTrailing
			}
			g.parts[i].text = t
		}
	}
}

func (g *Gauge) top() float32 {
	if g.titleText != nil {
		return titleBand
	}
	return 0
}

func (g *Gauge) pos(p scene.Point) fyne.Position {
	return fyne.Position{
		X: g.origin.X + float32(p.X)*g.scale,
		Y: g.origin.Y + (g.top()+float32(p.Y))*g.scale,
	}
}

func (g *Gauge) setLine(l *canvas.Line, p1, p2 scene.Point, width float64) {
	if !p1.Finite() || !p2.Finite() {
		l.Hide()
		return
	}
	l.Show()
	l.Position1 = g.pos(p1)
	l.Position2 = g.pos(p2)
	l.StrokeWidth = max(1, float32(width)*g.scale)
}

// place positions every object for the current drawing, size and needle
// angle. Callers hold mu.
func (g *Gauge) place() {
	for i, shape := range g.drawing.Shapes {
		p := g.parts[i]
		switch s := shape.(type) {
		case *scene.Arc:
			pts := s.Points(len(p.lines))
			for j, l := range p.lines {
				g.setLine(l, pts[j], pts[j+1], s.Stroke.Width)
			}
		case *scene.Line:
			if i == g.needleIdx {
				g.placeNeedle()
				continue
			}
			p1, p2 := s.Endpoints()
			g.setLine(p.lines[0], p1, p2, s.Stroke.Width)
		case *scene.Text:
			g.placeText(p.text, s)
		}
	}
	if g.titleText != nil {
		g.titleText.TextSize = titleSize * g.scale
		g.titleText.Move(fyne.Position{X: g.origin.X, Y: g.origin.Y + titleBand*common.OneTenth*g.scale})
		g.titleText.Resize(fyne.NewSize(core.Width*g.scale, titleSize*g.scale))
	}
}

func (g *Gauge) placeNeedle() {
	if g.needleIdx < 0 {
		return
	}
	s := g.drawing.Shapes[g.needleIdx].(*scene.Line)
	needle := *s
	rot := *s.Rotate
	rot.Angle = g.angle
	needle.Rotate = &rot
	p1, p2 := needle.Endpoints()
	g.setLine(g.parts[g.needleIdx].lines[0], p1, p2, s.Stroke.Width)
}

// placeText maps a baseline anchored label onto a fyne text box the width of
// the drawing.
func (g *Gauge) placeText(t *canvas.Text, s *scene.Text) {
	t.Text = s.Text
	t.TextSize = float32(s.Size) * g.scale
	w := float32(g.drawing.Width) * g.scale
	pos := g.pos(scene.Point{X: s.X, Y: s.Y})
	pos.Y -= t.TextSize
	switch s.Anchor {
	case scene.AnchorMiddle:
		pos.X -= w * common.OneHalf
	case scene.AnchorEnd:
		pos.X -= w
	}
	t.Move(pos)
	t.Resize(fyne.NewSize(w, t.TextSize*1.2))
}

func (g *Gauge) GetConfig() *Config { return g.cfg }

func (g *Gauge) Value() float64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.value
}

// Angle is the needle angle currently on screen, which trails the value
// while an animation runs.
func (g *Gauge) Angle() float64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.angle
}

// SetValue may be called from any goroutine.
func (g *Gauge) SetValue(value float64) {
	g.mu.Lock()
	if value == g.value {
		g.mu.Unlock()
		return
	}
	g.value = value
	g.drawing = core.Render(g.props())

	move := core.Animation{
		From:     g.angle,
		To:       core.NeedleAngle(value, g.cfg.Min, g.cfg.Max),
		Duration: core.TransitionDuration,
		Easing:   core.StandardEasing,
	}
	prev := g.anim
	g.anim = nil
	if g.cfg.DisableAnimation || !move.Finite() || fyne.CurrentApp() == nil {
		g.angle = move.To
	} else {
		g.anim = g.newAnimation(move)
	}
	next := g.anim
	g.place()
	g.mu.Unlock()

	do(func() {
		if prev != nil {
			prev.Stop()
		}
		g.refreshObjects()
		if next != nil {
			next.Start()
		}
	})
}

// do runs fn on the fyne thread, or inline when no app is running.
func do(fn func()) {
	if fyne.CurrentApp() == nil {
		fn()
		return
	}
	fyne.Do(fn)
}

func (g *Gauge) newAnimation(move core.Animation) *fyne.Animation {
	var a *fyne.Animation
	a = fyne.NewAnimation(move.Duration, func(p float32) {
		if g.tick(a, move, float64(p)) {
			canvas.Refresh(g.needle())
		}
	})
	a.Curve = func(p float32) float32 {
		return float32(move.Easing.Ease(float64(p)))
	}
	return a
}

// tick moves the needle to eased progress p. It returns false when a is no
// longer the running animation.
func (g *Gauge) tick(a *fyne.Animation, move core.Animation, p float64) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.anim != a {
		return false
	}
	g.angle = move.From + (move.To-move.From)*p
	if p >= 1 {
		g.angle = move.To
		g.anim = nil
	}
	g.placeNeedle()
	return true
}

func (g *Gauge) needle() fyne.CanvasObject {
	if g.needleIdx < 0 {
		return nil
	}
	return g.parts[g.needleIdx].lines[0]
}

func (g *Gauge) refreshObjects() {
	for _, p := range g.parts {
		for _, l := range p.lines {
			canvas.Refresh(l)
		}
		if p.text != nil {
			canvas.Refresh(p.text)
		}
	}
}

func (g *Gauge) CreateRenderer() fyne.WidgetRenderer { return &GaugeRenderer{Gauge: g} }

type GaugeRenderer struct {
	*Gauge
	objects []fyne.CanvasObject
}

func (r *GaugeRenderer) Layout(space fyne.Size) {
	r.mu.Lock()
	if r.size == space {
		r.mu.Unlock()
		return
	}
	r.size = space

	w := float32(r.drawing.Width)
	h := float32(r.drawing.Height) + r.top()
	r.scale = fyne.Min(space.Width/w, space.Height/h)
	r.origin = fyne.Position{
		X: (space.Width - w*r.scale) * common.OneHalf,
		Y: (space.Height - h*r.scale) * common.OneHalf,
	}
	r.place()
	r.mu.Unlock()

	for _, o := range r.Objects() {
		canvas.Refresh(o)
	}
}

func (r *GaugeRenderer) MinSize() fyne.Size { return r.minsize }

func (r *GaugeRenderer) Refresh() {
	r.mu.Lock()
	r.place()
	r.mu.Unlock()
	r.refreshObjects()
}

func (r *GaugeRenderer) Destroy() {
	r.mu.Lock()
	a := r.anim
	r.anim = nil
	r.mu.Unlock()
	if a != nil {
		a.Stop()
	}
}

func (r *GaugeRenderer) Objects() []fyne.CanvasObject {
	if r.objects == nil {
		objs := make([]fyne.CanvasObject, 0, len(r.parts)+arcSegments+1)
		for _, p := range r.parts {
			for _, l := range p.lines {
				objs = append(objs, l)
			}
			if p.text != nil {
				objs = append(objs, p.text)
			}
		}
		if r.titleText != nil {
			objs = append(objs, r.titleText)
		}
		r.objects = objs
	}
	return r.objects
}
