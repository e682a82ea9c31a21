// Package config loads board files: a YAML list of gauges plus the settings
// used to render or display them.
package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/roffe/txgauge/pkg/gauge"
)

const (
	DefaultColumns   = 3
	DefaultFormat    = "svg"
	DefaultScale     = 2.0
	DefaultOutputDir = "."
)

// Formats lists the output formats a board may select.
var Formats = []string{"svg", "png", "tiny"}

// ErrInvalid marks a file that parsed but failed validation.
var ErrInvalid = errors.New("invalid board")

type Config struct {
	Board  Board   `yaml:"board"`
	Gauges []Gauge `yaml:"gauges"`
}

type Board struct {
	Title     string  `yaml:"title"`
	Columns   int     `yaml:"columns"`
	OutputDir string  `yaml:"output_dir"`
	Format    string  `yaml:"format"`
	Scale     float64 `yaml:"scale"`
}

type Gauge struct {
	// Name identifies the gauge and names its output file.
	Name  string `yaml:"name"`
	Title string `yaml:"title"`
	// Topic is the bus topic feeding the gauge. Empty means Name.
	Topic string  `yaml:"topic"`
	Value float64 `yaml:"value"`
	Min   float64 `yaml:"min"`
	Max   float64 `yaml:"max"`
	// Ticks 0 selects the renderer default.
	Ticks int `yaml:"ticks"`
}

func (g Gauge) Props() gauge.Props {
	return gauge.Props{Value: g.Value, Min: g.Min, Max: g.Max, NumTicks: g.Ticks}
}

func (g Gauge) TopicName() string {
	if g.Topic == "" {
		return g.Name
	}
	return g.Topic
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read file: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (*Config, error) {
	cfg := defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse yaml: %w", err)
	}
	fill(cfg)
	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("config: %w: %w", ErrInvalid, err)
	}
	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Board: Board{
			Columns:   DefaultColumns,
			Format:    DefaultFormat,
			Scale:     DefaultScale,
			OutputDir: DefaultOutputDir,
		},
	}
}

// fill restores defaults for keys present but left empty.
func fill(cfg *Config) {
	d := defaults().Board
	if cfg.Board.Columns <= 0 {
		cfg.Board.Columns = d.Columns
	}
	if cfg.Board.Format == "" {
		cfg.Board.Format = d.Format
	}
	if cfg.Board.Scale <= 0 {
		cfg.Board.Scale = d.Scale
	}
	if cfg.Board.OutputDir == "" {
		cfg.Board.OutputDir = d.OutputDir
	}
}

func validate(cfg *Config) error {
	if !slices.Contains(Formats, cfg.Board.Format) {
		return fmt.Errorf("board.format: unknown format %q", cfg.Board.Format)
	}
	seen := make(map[string]bool, len(cfg.Gauges))
	for i, g := range cfg.Gauges {
		if g.Name == "" {
			return fmt.Errorf("gauges[%d]: name is required", i)
		}
		if seen[g.Name] {
			return fmt.Errorf("gauges[%d] %q: duplicate name", i, g.Name)
		}
		// names become output file names
		if strings.ContainsAny(g.Name, `/\`) || g.Name == "." || g.Name == ".." {
			return fmt.Errorf("gauges[%d] %q: name must not be a path", i, g.Name)
		}
		seen[g.Name] = true
		if g.Ticks < 0 {
			return fmt.Errorf("gauges[%d] %q: ticks must not be negative", i, g.Name)
		}
		// the renderer tolerates these, it just draws NaN
		if g.Min >= g.Max {
			log.Printf("config: gauge %q has an empty range [%v, %v]", g.Name, g.Min, g.Max)
		}
		if g.Ticks == 1 {
			log.Printf("config: gauge %q has a single tick", g.Name)
		}
	}
	return nil
}
