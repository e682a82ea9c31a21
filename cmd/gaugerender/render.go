package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/roffe/txgauge/pkg/config"
	"github.com/roffe/txgauge/pkg/gauge"
	"github.com/roffe/txgauge/pkg/scene"
)

type scaler interface {
	SetScale(float64)
}

func newBackend(format string, scale float64) (scene.WriterBackend, error) {
	b, err := scene.NewBackend(format)
	if err != nil {
		return nil, err
	}
	wb, ok := b.(scene.WriterBackend)
	if !ok {
		return nil, fmt.Errorf("backend %q cannot write files", format)
	}
	if s, ok := b.(scaler); ok {
		s.SetScale(scale)
	}
	return wb, nil
}

func render(b scene.WriterBackend, p gauge.Props, w io.Writer) error {
	if err := b.Render(gauge.Render(p)); err != nil {
		return err
	}
	_, err := b.WriteTo(w)
	return err
}

func writeFile(b scene.WriterBackend, p gauge.Props, path string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return render(b, p, f)
}

// renderOne renders a single gauge to out and returns the file written, which
// is empty for stdout.
func renderOne(p gauge.Props, format string, scale float64, out string) (string, error) {
	b, err := newBackend(format, scale)
	if err != nil {
		return "", err
	}
	if out == "-" {
		return "", render(b, p, os.Stdout)
	}
	if out == "" {
		out = "gauge." + b.Extension()
	}
	if err := writeFile(b, p, out); err != nil {
		return "", fmt.Errorf("%s: %w", out, err)
	}
	return out, nil
}

// renderBoard renders every gauge of cfg into its output directory in
// parallel, one backend per gauge.
func renderBoard(ctx context.Context, cfg *config.Config) ([]string, error) {
	if err := os.MkdirAll(cfg.Board.OutputDir, 0o755); err != nil {
		return nil, err
	}
	paths := make([]string, len(cfg.Gauges))
	errg, ctx := errgroup.WithContext(ctx)
	for i, g := range cfg.Gauges {
		errg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			b, err := newBackend(cfg.Board.Format, cfg.Board.Scale)
			if err != nil {
				return err
			}
			path := filepath.Join(cfg.Board.OutputDir, g.Name+"."+b.Extension())
			if err := writeFile(b, g.Props(), path); err != nil {
				return fmt.Errorf("gauge %q: %w", g.Name, err)
			}
			paths[i] = path
			return nil
		})
	}
	if err := errg.Wait(); err != nil {
		return nil, err
	}
	return paths, nil
}
