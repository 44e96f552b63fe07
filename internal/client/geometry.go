package client

import "image"

// Rect is an allocation in surface coordinates.
type Rect struct {
	X, Y, Width, Height int
}

// Image converts to a standard rectangle for drawing.
func (r Rect) Image() image.Rectangle {
	return image.Rect(r.X, r.Y, r.X+r.Width, r.Y+r.Height)
}

// Frame metrics. The margin surrounds the whole window (it holds the
// drop shadow and the resize grips); the titlebar band sits below the
// top margin.
const (
	defaultMargin  = 16
	gripSize       = 8
	titlebarHeight = 50

	// Total size consumed beyond the margins by the frame: the side
	// trim splits across left and right, the vertical trim covers the
	// titlebar plus the bottom rail.
	frameTrimX = 8
	frameTrimY = 88

	// Child content offsets from the window origin, inside the margin.
	childOffsetX = 10
	childOffsetY = 50
)

// Location classifies a surface coordinate against the window frame.
// The resize values double as protocol edge masks, so corners are the
// sum of their edges.
type Location int

const (
	LocationInterior            Location = 0
	LocationResizingTop         Location = 1
	LocationResizingBottom      Location = 2
	LocationResizingLeft        Location = 4
	LocationResizingTopLeft     Location = 5
	LocationResizingBottomLeft  Location = 6
	LocationResizingRight       Location = 8
	LocationResizingTopRight    Location = 9
	LocationResizingBottomRight Location = 10
	locationResizingMask        Location = 15
	LocationExterior            Location = 16
	LocationTitlebar            Location = 17
	LocationClientArea          Location = 18
)

func (l Location) isResizing() bool {
	return l != LocationInterior && l&^locationResizingMask == 0
}

func (l Location) String() string {
	switch l {
	case LocationInterior:
		return "interior"
	case LocationResizingTop:
		return "top"
	case LocationResizingBottom:
		return "bottom"
	case LocationResizingLeft:
		return "left"
	case LocationResizingTopLeft:
		return "top-left"
	case LocationResizingBottomLeft:
		return "bottom-left"
	case LocationResizingRight:
		return "right"
	case LocationResizingTopRight:
		return "top-right"
	case LocationResizingBottomRight:
		return "bottom-right"
	case LocationExterior:
		return "exterior"
	case LocationTitlebar:
		return "titlebar"
	case LocationClientArea:
		return "client-area"
	default:
		return "unknown"
	}
}

// locate runs the frame hit-test grid. Coordinates are surface-local.
func (w *Window) locate(x, y int) Location {
	if !w.decorated() {
		return LocationClientArea
	}

	m := w.margin
	var loc Location
	exterior := false

	switch {
	case x < m:
		exterior = true
	case x < m+gripSize:
		loc |= LocationResizingLeft
	case x < w.alloc.Width-m-gripSize:
		// interior in x
	case x < w.alloc.Width-m:
		loc |= LocationResizingRight
	default:
		exterior = true
	}

	switch {
	case y < m:
		exterior = true
	case y < m+gripSize:
		loc |= LocationResizingTop
	case y < w.alloc.Height-m-gripSize:
		// interior in y
	case y < w.alloc.Height-m:
		loc |= LocationResizingBottom
	default:
		exterior = true
	}

	if exterior {
		return LocationExterior
	}
	if loc != LocationInterior {
		return loc
	}
	if y < m+titlebarHeight {
		return LocationTitlebar
	}
	return LocationClientArea
}

// decorated reports whether the frame is drawn; fullscreen suppresses
// decorations without forgetting the flag.
func (w *Window) decorated() bool {
	return w.decoration && w.windowType != TypeFullscreen
}

// childSizeFor maps a window size to the content size under the current
// decoration state.
func (w *Window) childSizeFor(width, height int) (int, int) {
	if !w.decorated() {
		return width, height
	}
	return width - 2*w.margin - frameTrimX, height - 2*w.margin - frameTrimY
}

// ChildAllocation returns the content rectangle applications draw into.
func (w *Window) ChildAllocation() Rect {
	if !w.decorated() {
		return Rect{0, 0, w.alloc.Width, w.alloc.Height}
	}
	cw, ch := w.childSizeFor(w.alloc.Width, w.alloc.Height)
	return Rect{
		X:      w.margin + childOffsetX,
		Y:      w.margin + childOffsetY,
		Width:  cw,
		Height: ch,
	}
}

// SetChildSize resizes the window so the content rectangle gets the
// given size. The window position is preserved.
func (w *Window) SetChildSize(width, height int) {
	if w.decorated() {
		width += 2*w.margin + frameTrimX
		height += 2*w.margin + frameTrimY
	}
	w.alloc.Width = width
	w.alloc.Height = height
}
