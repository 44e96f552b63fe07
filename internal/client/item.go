package client

// Item is a rectangular region of a window that can take pointer focus,
// for widgets layered on top of the content area. Items do not draw
// themselves; the redraw handler is expected to paint them.
type Item struct {
	window   *Window
	alloc    Rect
	userData any
}

// AddItem registers a new item on the window. The item starts with an
// empty allocation.
func (w *Window) AddItem(data any) *Item {
	it := &Item{window: w, userData: data}
	w.items = append(w.items, it)
	return it
}

// SetAllocation places the item, in surface coordinates.
func (it *Item) SetAllocation(r Rect) { it.alloc = r }

// Allocation returns the item's rectangle in surface coordinates.
func (it *Item) Allocation() Rect { return it.alloc }

// UserData returns the value passed to AddItem.
func (it *Item) UserData() any { return it.userData }

// FocusItem returns the item under pointer focus, or nil.
func (w *Window) FocusItem() *Item { return w.focusItem }

// findItem scans the item list in registration order and returns the
// first item containing the point, or nil.
func (w *Window) findItem(x, y int) *Item {
	for _, it := range w.items {
		a := it.alloc
		if x >= a.X && x < a.X+a.Width && y >= a.Y && y < a.Y+a.Height {
			return it
		}
	}
	return nil
}

// setItemFocus moves item focus, notifying the handler only on an
// actual change.
func (w *Window) setItemFocus(it *Item) {
	if w.focusItem == it {
		return
	}
	w.focusItem = it
	if w.caps.itemFocus != nil {
		w.caps.itemFocus.ItemFocus(w, it)
	}
}
