// Package layout holds the fyne layouts used by the gauge board.
package layout

import (
	"fyne.io/fyne/v2"
)

// Grid places objects row by row in Cols equal cells. The row count follows
// the number of objects.
type Grid struct {
	Cols    int
	Padding float32

	lastSize  fyne.Size
	lastCount int
}

// NewGrid creates a new Grid layout with the specified number of columns
func NewGrid(cols int, padding float32) *Grid {
	return &Grid{
		Cols:    max(cols, 1),
		Padding: padding,
	}
}

func (g *Grid) rows(n int) int {
	return max((n+g.Cols-1)/g.Cols, 1)
}

func (g *Grid) Layout(objects []fyne.CanvasObject, size fyne.Size) {
	if size == g.lastSize && len(objects) == g.lastCount {
		return
	}
	g.lastSize = size
	g.lastCount = len(objects)

	rows := g.rows(len(objects))
	padding2 := g.Padding * 2
	cellWidth := (size.Width - float32(g.Cols)*padding2) / float32(g.Cols)
	cellHeight := (size.Height - float32(rows)*padding2) / float32(rows)

	for i, obj := range objects {
		row := i / g.Cols
		col := i % g.Cols
		obj.Move(fyne.NewPos(
			float32(col)*(cellWidth+padding2)+g.Padding,
			float32(row)*(cellHeight+padding2)+g.Padding,
		))
		obj.Resize(fyne.Size{Width: cellWidth, Height: cellHeight})
	}
}

// MinSize is the largest child minimum times the grid dimensions.
func (g *Grid) MinSize(objects []fyne.CanvasObject) fyne.Size {
	var cell fyne.Size
	for _, o := range objects {
		cell = cell.Max(o.MinSize())
	}
	w := cell.Width + 2*g.Padding
	h := cell.Height + 2*g.Padding
	cols := min(g.Cols, max(len(objects), 1))
	return fyne.Size{Width: w * float32(cols), Height: h * float32(g.rows(len(objects)))}
}
