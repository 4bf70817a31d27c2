// Package layout computes screen geometry shared by the renderer and the
// mouse handler, so the drawn button and its click region always agree.
package layout

import (
	"github.com/nick/transcriber/internal/app"
	"github.com/nick/transcriber/internal/config"
)

// Rect is a cell rectangle. The right and bottom edges are exclusive.
type Rect struct {
	X, Y          int
	Width, Height int
}

func (r Rect) Empty() bool { return r.Width <= 0 || r.Height <= 0 }

func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.Width && y >= r.Y && y < r.Y+r.Height
}

// Split divides the viewport into the control pane and the output pane.
func Split(vp app.Viewport) (top, bottom Rect) {
	h := max(vp.Height, 0)
	w := max(vp.Width, 0)
	topHeight := h / 2
	top = Rect{X: 0, Y: 0, Width: w, Height: topHeight}
	bottom = Rect{X: 0, Y: topHeight, Width: w, Height: h - topHeight}
	return top, bottom
}

// Button places the button centred horizontally and in the vertical middle
// of the control pane. It is clipped to the viewport.
func Button(vp app.Viewport, cfg config.LayoutConfig) Rect {
	top, _ := Split(vp)
	w := cfg.ButtonWidth
	h := cfg.ButtonHeight

	x := max(vp.Width-w, 0) / 2
	y := top.Y + top.Height/2

	w = min(w, max(vp.Width-x, 0))
	h = min(h, max(vp.Height-y, 0))
	return Rect{X: x, Y: y, Width: w, Height: h}
}
