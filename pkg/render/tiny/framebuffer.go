package tiny

import (
	"image"
	"image/color"
	"image/png"
	"io"

	"tinygo.org/x/drivers"
)

var _ drivers.Displayer = (*Framebuffer)(nil)

// Framebuffer is an in-memory RGBA display.
type Framebuffer struct {
	img     *image.RGBA
	flushes int
}

func NewFramebuffer(width, height int16) *Framebuffer {
	return &Framebuffer{img: image.NewRGBA(image.Rect(0, 0, int(width), int(height)))}
}

func (f *Framebuffer) Size() (x, y int16) {
	b := f.img.Bounds()
	return int16(b.Dx()), int16(b.Dy())
}

func (f *Framebuffer) SetPixel(x, y int16, c color.RGBA) {
	if !(image.Point{X: int(x), Y: int(y)}).In(f.img.Bounds()) {
		return
	}
	f.img.SetRGBA(int(x), int(y), c)
}

func (f *Framebuffer) Display() error {
	f.flushes++
	return nil
}

// Flushes counts calls to Display.
func (f *Framebuffer) Flushes() int { return f.flushes }

func (f *Framebuffer) Image() *image.RGBA { return f.img }

func (f *Framebuffer) WriteTo(w io.Writer) (int64, error) {
	cw := &countingWriter{w: w}
	err := png.Encode(cw, f.img)
	return cw.n, err
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
