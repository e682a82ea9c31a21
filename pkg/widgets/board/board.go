// Package board lays out one gauge widget per board entry and feeds each from
// its bus topic.
package board

import (
	"fmt"
	"log"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/roffe/txgauge/pkg/config"
	"github.com/roffe/txgauge/pkg/ebus"
	"github.com/roffe/txgauge/pkg/layout"
	"github.com/roffe/txgauge/pkg/widgets/gauge"
)

const (
	cellPadding  = 4
	sliderSteps  = 100
	cellMinWidth = 200
)

type Options struct {
	// Sliders adds a slider under each gauge that publishes to its topic.
	Sliders          bool
	DisableAnimation bool
}

type Board struct {
	cfg  *config.Config
	bus  *ebus.Bus
	opts Options

	gauges  map[string]*gauge.Gauge
	cancels []func()
	content *fyne.Container
}

func New(cfg *config.Config, bus *ebus.Bus, opts Options) *Board {
	b := &Board{
		cfg:    cfg,
		bus:    bus,
		opts:   opts,
		gauges: make(map[string]*gauge.Gauge, len(cfg.Gauges)),
	}
	cells := make([]fyne.CanvasObject, 0, len(cfg.Gauges))
	for _, g := range cfg.Gauges {
		w, cancels := NewGauge(g, bus, opts.DisableAnimation)
		b.gauges[g.Name] = w
		b.cancels = append(b.cancels, cancels...)
		if opts.Sliders {
			cells = append(cells, container.New(&layout.Cell{}, w, b.slider(g)))
		} else {
			cells = append(cells, w)
		}
	}
	b.content = container.New(layout.NewGrid(cfg.Board.Columns, cellPadding), cells...)
	return b
}

// NewGauge creates the widget for g and subscribes it to the bus. The
// returned functions cancel the subscriptions.
func NewGauge(g config.Gauge, bus *ebus.Bus, disableAnimation bool) (*gauge.Gauge, []func()) {
	title := g.Title
	if title == "" {
		title = g.Name
	}
	w := gauge.New(&gauge.Config{
		Title:            title,
		Min:              g.Min,
		Max:              g.Max,
		NumTicks:         g.Ticks,
		DisableAnimation: disableAnimation,
	})
	w.SetValue(g.Value)
	cancel := bus.SubscribeFunc(g.TopicName(), w.SetValue)
	return w, []func(){cancel}
}

func (b *Board) slider(g config.Gauge) fyne.CanvasObject {
	if !(g.Min < g.Max) {
		return widget.NewLabel(fmt.Sprintf("%s: empty range", g.Name))
	}
	s := widget.NewSlider(g.Min, g.Max)
	s.Step = (g.Max - g.Min) / sliderSteps
	s.Value = g.Value
	topic := g.TopicName()
	s.OnChanged = func(v float64) {
		if err := b.bus.Publish(topic, v); err != nil {
			log.Printf("board: publish %s: %v", topic, err)
		}
	}
	return s
}

func (b *Board) Content() fyne.CanvasObject { return b.content }

func (b *Board) Title() string { return b.cfg.Board.Title }

// Gauge returns the widget for the named board entry, or nil.
func (b *Board) Gauge(name string) *gauge.Gauge { return b.gauges[name] }

// Close cancels every bus subscription.
func (b *Board) Close() {
	for _, c := range b.cancels {
		c()
	}
	b.cancels = nil
}
