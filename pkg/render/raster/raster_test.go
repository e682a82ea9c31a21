package raster_test

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/roffe/txgauge/pkg/gauge"
	"github.com/roffe/txgauge/pkg/render/raster"
	"github.com/roffe/txgauge/pkg/scene"
)

func isWhite(c color.Color) bool {
	r, g, b, _ := c.RGBA()
	return r > 0xf000 && g > 0xf000 && b > 0xf000
}

func TestRenderSize(t *testing.T) {
	tests := []struct {
		name         string
		scale        float64
		wantW, wantH int
	}{
		{name: "default scale", scale: 0, wantW: 400, wantH: 240},
		{name: "unit scale", scale: 1, wantW: 200, wantH: 120},
		{name: "triple", scale: 3, wantW: 600, wantH: 360},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := raster.NewBackend(raster.Options{Scale: tt.scale})
			if err := b.Render(gauge.Render(gauge.Props{Value: 30, Min: 0, Max: 100})); err != nil {
				t.Fatalf("Render() failed: %v", err)
			}
			bounds := b.Image().Bounds()
			if bounds.Dx() != tt.wantW || bounds.Dy() != tt.wantH {
				t.Errorf("image is %dx%d, want %dx%d", bounds.Dx(), bounds.Dy(), tt.wantW, tt.wantH)
			}
		})
	}
}

func TestRenderPaintsShapes(t *testing.T) {
	b := raster.NewBackend(raster.Options{Scale: 1})
	if err := b.Render(gauge.Render(gauge.Props{Value: 50, Min: 0, Max: 100})); err != nil {
		t.Fatalf("Render() failed: %v", err)
	}
	img := b.Image()

	// top of the arc
	if isWhite(img.At(100, 20)) {
		t.Error("arc not painted at (100, 20)")
	}
	// needle points straight up at the midpoint value
	if isWhite(img.At(100, 60)) {
		t.Error("needle not painted at (100, 60)")
	}
	// corner is background
	if !isWhite(img.At(2, 2)) {
		t.Errorf("corner painted: %v", img.At(2, 2))
	}
}

func TestRenderBackground(t *testing.T) {
	b := raster.NewBackend(raster.Options{Scale: 1, Background: color.Black})
	if err := b.Render(scene.New(10, 10)); err != nil {
		t.Fatalf("Render() failed: %v", err)
	}
	r, g, bl, a := b.Image().At(5, 5).RGBA()
	if r != 0 || g != 0 || bl != 0 || a != 0xffff {
		t.Errorf("background = %v %v %v %v, want opaque black", r, g, bl, a)
	}
}

func TestRenderDegenerateDoesNotFail(t *testing.T) {
	b := raster.NewBackend(raster.Options{Scale: 1})
	if err := b.Render(gauge.Render(gauge.Props{Value: 1, Min: 1, Max: 1})); err != nil {
		t.Fatalf("Render() failed: %v", err)
	}
}

func TestRenderInvalidSize(t *testing.T) {
	b := raster.NewBackend(raster.Options{})
	if err := b.Render(scene.New(0, 10)); err == nil {
		t.Fatal("Render() succeeded unexpectedly")
	}
}

func TestWriteTo(t *testing.T) {
	b := raster.NewBackend(raster.Options{Scale: 1})
	var buf bytes.Buffer
	if _, err := b.WriteTo(&buf); err == nil {
		t.Fatal("WriteTo() before Render succeeded unexpectedly")
	}
	if err := b.Render(gauge.Render(gauge.Props{Value: 5, Min: 0, Max: 10})); err != nil {
		t.Fatalf("Render() failed: %v", err)
	}
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
	if img.Bounds() != image.Rect(0, 0, 200, 120) {
		t.Errorf("decoded bounds = %v", img.Bounds())
	}
	if b.Extension() != "png" {
		t.Errorf("Extension() = %q", b.Extension())
	}
}

func TestRegistered(t *testing.T) {
	if !scene.IsRegistered("png") {
		t.Fatal("png backend not registered")
	}
}
