package main

import (
	"context"
	"log"
	"os"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"

	"github.com/roffe/txgauge/pkg/config"
	"github.com/roffe/txgauge/pkg/ebus"
	"github.com/roffe/txgauge/pkg/theme"
	"github.com/roffe/txgauge/pkg/widgets/board"
)

const demoBoard = `
board:
  title: Demo
  columns: 3
gauges:
  - name: boost
    title: Boost bar
    value: 0.2
    min: -1
    max: 2
  - name: rpm
    title: RPM
    value: 900
    max: 8000
    ticks: 9
  - name: coolant
    title: Coolant
    value: 85
    min: 40
    max: 130
`

func init() {
	log.SetFlags(log.LstdFlags | log.Lshortfile | log.Lmicroseconds)
}

func main() {
	a := app.NewWithID("com.roffe.txgauge")
	a.Settings().SetTheme(&theme.GaugeTheme{})

	var filename string
	if len(os.Args) > 1 {
		filename = os.Args[1]
	}
	cfg, err := loadBoard(filename)
	if err != nil {
		log.Fatal(err)
	}

	bus := ebus.Default()
	w := a.NewWindow(windowTitle(cfg))
	var mu sync.Mutex
	current := board.New(cfg, bus, board.Options{Sliders: true})
	w.SetContent(current.Content())
	w.Resize(fyne.NewSize(800, 480))

	if filename != "" {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go func() {
			err := config.Watch(ctx, filename, func(cfg *config.Config) {
				next := board.New(cfg, bus, board.Options{Sliders: true})
				mu.Lock()
				defer mu.Unlock()
				current.Close()
				current = next
				content := current.Content()
				fyne.Do(func() {
					w.SetTitle(windowTitle(cfg))
					w.SetContent(content)
				})
			})
			if err != nil {
				log.Printf("watch %s: %v", filename, err)
			}
		}()
	}

	w.ShowAndRun()
	mu.Lock()
	current.Close()
	mu.Unlock()
}

func loadBoard(filename string) (*config.Config, error) {
	if filename == "" {
		return config.Parse([]byte(demoBoard))
	}
	return config.Load(filename)
}

func windowTitle(cfg *config.Config) string {
	if cfg.Board.Title == "" {
		return "txgauge"
	}
	return "txgauge - " + cfg.Board.Title
}
