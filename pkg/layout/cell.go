package layout

import (
	"fyne.io/fyne/v2"
)

// Cell stretches every object but the last over the cell and docks the last
// one at the bottom at its minimum height.
type Cell struct{}

func (l *Cell) Layout(objects []fyne.CanvasObject, size fyne.Size) {
	if len(objects) == 0 {
		return
	}
	last := objects[len(objects)-1]
	footer := last.MinSize().Height
	last.Move(fyne.NewPos(0, size.Height-footer))
	last.Resize(fyne.NewSize(size.Width, footer))

	body := fyne.NewSize(size.Width, max(size.Height-footer, 0))
	for _, o := range objects[:len(objects)-1] {
		o.Move(fyne.NewPos(0, 0))
		o.Resize(body)
	}
}

func (l *Cell) MinSize(objects []fyne.CanvasObject) fyne.Size {
	if len(objects) == 0 {
		return fyne.Size{}
	}
	var body fyne.Size
	for _, o := range objects[:len(objects)-1] {
		body = body.Max(o.MinSize())
	}
	footer := objects[len(objects)-1].MinSize()
	return fyne.NewSize(max(body.Width, footer.Width), body.Height+footer.Height)
}
