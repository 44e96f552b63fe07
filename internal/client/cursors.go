package client

// Cursor selects one of the pointer images loaded from the cursor
// theme. CursorDefault hands the pointer back to the compositor.
type Cursor int

const (
	CursorBottomLeft Cursor = iota
	CursorBottomRight
	CursorBottom
	CursorDragging
	CursorLeftPtr
	CursorLeft
	CursorRight
	CursorTopLeft
	CursorTopRight
	CursorTop
	CursorIBeam
	CursorHand
	cursorCount

	CursorDefault Cursor = 100
	cursorUnset   Cursor = -1
)

// cursorNames maps pointer images to X cursor theme entries.
var cursorNames = [cursorCount]string{
	CursorBottomLeft:  "bottom_left_corner",
	CursorBottomRight: "bottom_right_corner",
	CursorBottom:      "bottom_side",
	CursorDragging:    "grabbing",
	CursorLeftPtr:     "left_ptr",
	CursorLeft:        "left_side",
	CursorRight:       "right_side",
	CursorTopLeft:     "top_left_corner",
	CursorTopRight:    "top_right_corner",
	CursorTop:         "top_side",
	CursorIBeam:       "xterm",
	CursorHand:        "hand1",
}

func (c Cursor) String() string {
	switch {
	case c == CursorDefault:
		return "default"
	case c == cursorUnset:
		return "unset"
	case c >= 0 && c < cursorCount:
		return cursorNames[c]
	default:
		return "invalid"
	}
}

// cursorForResize maps a resize location to the matching grip cursor.
func cursorForResize(loc Location) Cursor {
	switch loc {
	case LocationResizingTop:
		return CursorTop
	case LocationResizingBottom:
		return CursorBottom
	case LocationResizingLeft:
		return CursorLeft
	case LocationResizingRight:
		return CursorRight
	case LocationResizingTopLeft:
		return CursorTopLeft
	case LocationResizingTopRight:
		return CursorTopRight
	case LocationResizingBottomLeft:
		return CursorBottomLeft
	case LocationResizingBottomRight:
		return CursorBottomRight
	default:
		return CursorLeftPtr
	}
}
