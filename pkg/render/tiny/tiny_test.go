package tiny_test

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/roffe/txgauge/pkg/gauge"
	"github.com/roffe/txgauge/pkg/render/tiny"
	"github.com/roffe/txgauge/pkg/scene"
)

var white = color.RGBA{0xff, 0xff, 0xff, 0xff}

func painted(img *image.RGBA, x, y int) bool {
	return img.RGBAAt(x, y) != white
}

func TestRenderFramebuffer(t *testing.T) {
	b := tiny.NewFramebufferBackend(tiny.DefaultWidth, tiny.DefaultHeight)
	if err := b.Render(gauge.Render(gauge.Props{Value: 50, Min: 0, Max: 100})); err != nil {
		t.Fatalf("Render() failed: %v", err)
	}
	fb := b.Framebuffer()
	img := fb.Image()

	tests := []struct {
		name string
		x, y int
		want bool
	}{
		{name: "arc top", x: 80, y: 16, want: true},
		{name: "needle", x: 80, y: 50, want: true},
		{name: "corner", x: 1, y: 1, want: false},
		{name: "right of needle", x: 100, y: 60, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := painted(img, tt.x, tt.y); got != tt.want {
				t.Errorf("painted(%d, %d) = %v, want %v", tt.x, tt.y, got, tt.want)
			}
		})
	}
	if fb.Flushes() != 1 {
		t.Errorf("Display called %d times, want 1", fb.Flushes())
	}
}

func TestRenderLabel(t *testing.T) {
	b := tiny.NewFramebufferBackend(tiny.DefaultWidth, tiny.DefaultHeight)
	if err := b.Render(gauge.Render(gauge.Props{Value: 50, Min: 0, Max: 100})); err != nil {
		t.Fatalf("Render() failed: %v", err)
	}
	img := b.Framebuffer().Image()
	for y := 82; y < tiny.DefaultHeight; y++ {
		for x := 60; x < 100; x++ {
			if img.RGBAAt(x, y) == (color.RGBA{0, 0, 0, 0xff}) {
				return
			}
		}
	}
	t.Error("no label pixels below the pivot")
}

func TestRenderClearsPreviousFrame(t *testing.T) {
	b := tiny.NewFramebufferBackend(tiny.DefaultWidth, tiny.DefaultHeight)
	if err := b.Render(gauge.Render(gauge.Props{Value: 100, Min: 0, Max: 100})); err != nil {
		t.Fatalf("Render() failed: %v", err)
	}
	if err := b.Render(scene.New(200, 120)); err != nil {
		t.Fatalf("Render() failed: %v", err)
	}
	img := b.Framebuffer().Image()
	for y := 0; y < tiny.DefaultHeight; y++ {
		for x := 0; x < tiny.DefaultWidth; x++ {
			if painted(img, x, y) {
				t.Fatalf("pixel (%d, %d) left over from previous frame", x, y)
			}
		}
	}
}

func TestRenderErrors(t *testing.T) {
	tests := []struct {
		name    string
		w, h    int16
		drawing *scene.Drawing
	}{
		{name: "empty display", w: 0, h: 10, drawing: scene.New(200, 120)},
		{name: "empty drawing", w: 10, h: 10, drawing: scene.New(0, 0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := tiny.NewFramebufferBackend(tt.w, tt.h)
			if err := b.Render(tt.drawing); err == nil {
				t.Fatal("Render() succeeded unexpectedly")
			}
		})
	}
}

func TestRenderDegenerate(t *testing.T) {
	b := tiny.NewFramebufferBackend(tiny.DefaultWidth, tiny.DefaultHeight)
	if err := b.Render(gauge.Render(gauge.Props{Value: 3, Min: 3, Max: 3})); err != nil {
		t.Fatalf("Render() failed: %v", err)
	}
}

func TestFramebufferSetPixelOutOfBounds(t *testing.T) {
	fb := tiny.NewFramebuffer(4, 4)
	fb.SetPixel(-1, 2, white)
	fb.SetPixel(4, 0, white)
	fb.SetPixel(1, 1, white)
	if fb.Image().RGBAAt(1, 1) != white {
		t.Error("in-bounds pixel not set")
	}
	if x, y := fb.Size(); x != 4 || y != 4 {
		t.Errorf("Size() = %d, %d", x, y)
	}
}

func TestWriteTo(t *testing.T) {
	b := tiny.NewFramebufferBackend(40, 24)
	if err := b.Render(gauge.Render(gauge.Props{Value: 1, Min: 0, Max: 2})); err != nil {
		t.Fatalf("Render() failed: %v", err)
	}
	var buf bytes.Buffer
	n, err := b.WriteTo(&buf)
	if err != nil {
		t.Fatalf("WriteTo() failed: %v", err)
	}
	if n != int64(buf.Len()) {
		t.Errorf("WriteTo() reported %d bytes, wrote %d", n, buf.Len())
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("png.Decode() failed: %v", err)
	}
	if img.Bounds() != image.Rect(0, 0, 40, 24) {
		t.Errorf("decoded bounds = %v", img.Bounds())
	}
}

func TestRegistered(t *testing.T) {
	b, err := scene.NewBackend("tiny")
	if err != nil {
		t.Fatalf("NewBackend() failed: %v", err)
	}
	wb, ok := b.(scene.WriterBackend)
	if !ok {
		t.Fatal("tiny backend does not implement WriterBackend")
	}
	if wb.Extension() != "png" {
		t.Errorf("Extension() = %q", wb.Extension())
	}
}
