package main

import (
	"bytes"
	"context"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/roffe/txgauge/pkg/config"
	"github.com/roffe/txgauge/pkg/gauge"
)

func TestRender(t *testing.T) {
	tests := []struct {
		name    string
		format  string
		ext     string
		wantErr bool
	}{
		{name: "svg", format: "svg", ext: "svg"},
		{name: "png", format: "png", ext: "png"},
		{name: "tiny", format: "tiny", ext: "png"},
		{name: "unknown", format: "gif", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, gotErr := newBackend(tt.format, 1)
			if gotErr != nil {
				if !tt.wantErr {
					t.Errorf("newBackend() failed: %v", gotErr)
				}
				return
			}
			if tt.wantErr {
				t.Fatal("newBackend() succeeded unexpectedly")
			}
			if b.Extension() != tt.ext {
				t.Errorf("Extension() = %q, want %q", b.Extension(), tt.ext)
			}
			var buf bytes.Buffer
			if err := render(b, gauge.Props{Value: 50, Min: 0, Max: 100}, &buf); err != nil {
				t.Fatalf("render() failed: %v", err)
			}
			if buf.Len() == 0 {
				t.Fatal("render() wrote nothing")
			}
		})
	}
}

func TestRenderOne(t *testing.T) {
	out := filepath.Join(t.TempDir(), "speed.png")
	path, err := renderOne(gauge.Props{Value: 120, Min: 0, Max: 240}, "png", 1, out)
	if err != nil {
		t.Fatalf("renderOne() failed: %v", err)
	}
	if path != out {
		t.Errorf("path = %q, want %q", path, out)
	}
	f, err := os.Open(out)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("png.Decode() failed: %v", err)
	}
	if img.Bounds().Dx() != 200 {
		t.Errorf("width = %d, want 200", img.Bounds().Dx())
	}
}

func TestRenderBoard(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	cfg, err := config.Parse([]byte(`
board:
  output_dir: ` + dir + `
gauges:
  - name: boost
    value: 1
    min: -1
    max: 2
  - name: rpm
    value: 3000
    max: 8000
    ticks: 9
`))
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}
	paths, err := renderBoard(context.Background(), cfg)
	if err != nil {
		t.Fatalf("renderBoard() failed: %v", err)
	}
	want := []string{filepath.Join(dir, "boost.svg"), filepath.Join(dir, "rpm.svg")}
	if len(paths) != len(want) {
		t.Fatalf("paths = %v, want %v", paths, want)
	}
	for i, p := range paths {
		if p != want[i] {
			t.Errorf("paths[%d] = %q, want %q", i, p, want[i])
		}
		data, err := os.ReadFile(p)
		if err != nil {
			t.Fatal(err)
		}
		if !strings.HasPrefix(string(data), "<svg") {
			t.Errorf("%s does not start with <svg", p)
		}
	}
	rpm, _ := os.ReadFile(want[1])
	if !strings.Contains(string(rpm), ">3000</text>") {
		t.Error("rpm label missing")
	}
}

func TestRenderBoardCancelled(t *testing.T) {
	cfg, err := config.Parse([]byte("board:\n  output_dir: " + t.TempDir() + "\ngauges:\n  - name: a\n    max: 1\n"))
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := renderBoard(ctx, cfg); err == nil {
		t.Fatal("renderBoard() succeeded on a cancelled context")
	}
}
