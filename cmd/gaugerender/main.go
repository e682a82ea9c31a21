// Command gaugerender writes gauges to SVG or PNG files, either one gauge
// from flags or every gauge of a board file.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/skratchdot/open-golang/open"

	"github.com/roffe/txgauge/pkg/config"
	"github.com/roffe/txgauge/pkg/gauge"
	"github.com/roffe/txgauge/pkg/scene"

	_ "github.com/roffe/txgauge/pkg/render/raster"
	_ "github.com/roffe/txgauge/pkg/render/svg"
	_ "github.com/roffe/txgauge/pkg/render/tiny"
)

var (
	value, minValue, maxValue float64
	ticks                     int
	format, output            string
	scale                     float64
	configFile                string
	watch, openOutput, list   bool
)

func init() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	flag.Float64Var(&value, "value", 0, "gauge value")
	flag.Float64Var(&minValue, "min", 0, "scale minimum")
	flag.Float64Var(&maxValue, "max", 100, "scale maximum")
	flag.IntVar(&ticks, "ticks", gauge.DefaultNumTicks, "number of tick marks")
	flag.StringVar(&format, "format", config.DefaultFormat, "output backend, see -list")
	flag.StringVar(&output, "o", "", "output file, - for stdout (default gauge.<ext>)")
	flag.Float64Var(&scale, "scale", config.DefaultScale, "scale for raster output")
	flag.StringVar(&configFile, "config", "", "board file, renders every gauge")
	flag.BoolVar(&watch, "watch", false, "re-render the board when -config changes")
	flag.BoolVar(&openOutput, "open", false, "open the output with the default viewer")
	flag.BoolVar(&list, "list", false, "list output backends")
}

func main() {
	flag.Parse()

	if list {
		for _, name := range scene.Backends() {
			fmt.Println(name)
		}
		return
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if configFile == "" {
		p := gauge.Props{Value: value, Min: minValue, Max: maxValue, NumTicks: ticks}
		path, err := renderOne(p, format, scale, output)
		if err != nil {
			log.Fatalf("render: %v", err)
		}
		if path != "" {
			log.Println("wrote", path)
			openFiles(path)
		}
		return
	}

	cfg, err := config.Load(configFile)
	if err != nil {
		log.Fatal(err)
	}
	paths, err := renderBoard(ctx, cfg)
	if err != nil {
		log.Fatalf("render board: %v", err)
	}
	log.Printf("wrote %d gauges to %s", len(paths), cfg.Board.OutputDir)
	openFiles(paths...)

	if !watch {
		return
	}
	err = config.Watch(ctx, configFile, func(cfg *config.Config) {
		paths, err := renderBoard(ctx, cfg)
		if err != nil {
			log.Printf("render board: %v", err)
			return
		}
		log.Printf("re-rendered %d gauges", len(paths))
	})
	if err != nil {
		log.Fatalf("watch: %v", err)
	}
}

func openFiles(paths ...string) {
	if !openOutput {
		return
	}
	for _, p := range paths {
		if err := open.Run(p); err != nil {
			log.Printf("open %s: %v", p, err)
		}
	}
}
