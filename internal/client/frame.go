package client

import (
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/christianrauch/weston-clients/internal/bgra"
)

// Frame tints, premultiplied ARGB. The translucent pair is for windows
// that use the alpha channel; the opaque pair carries the same hues at
// full coverage.
const (
	frameActive         = 0xE6B8B85C
	frameInactive       = 0xE68A8A8A
	frameOpaqueActive   = 0xFFCCCC66
	frameOpaqueInactive = 0xFF999999
)

// fillRect paints a premultiplied ARGB color, taking the direct path
// when the canvas is our own image type.
func fillRect(dst draw.Image, r image.Rectangle, argb uint32) {
	if img, ok := dst.(*bgra.Image); ok {
		img.Fill(r, argb)
		return
	}
	c := color.RGBA{
		R: uint8(argb >> 16),
		G: uint8(argb >> 8),
		B: uint8(argb),
		A: uint8(argb >> 24),
	}
	draw.Draw(dst, r, image.NewUniform(c), image.Point{}, draw.Src)
}

func borderRect(dst draw.Image, r image.Rectangle, argb uint32) {
	if img, ok := dst.(*bgra.Image); ok {
		img.Border(r, argb)
		return
	}
	fillRect(dst, image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+1), argb)
	fillRect(dst, image.Rect(r.Min.X, r.Max.Y-1, r.Max.X, r.Max.Y), argb)
	fillRect(dst, image.Rect(r.Min.X, r.Min.Y, r.Min.X+1, r.Max.Y), argb)
	fillRect(dst, image.Rect(r.Max.X-1, r.Min.Y, r.Max.X, r.Max.Y), argb)
}

// drawDecorations paints the margin shadow, the frame slab and the
// title. The content area is painted over by the redraw handler.
func (w *Window) drawDecorations() {
	dst := w.current.canvas()
	m := w.margin
	outer := image.Rect(0, 0, w.alloc.Width, w.alloc.Height)

	// Clear the margin ring so stale pixels never show in the shadow.
	fillRect(dst, image.Rect(0, 0, outer.Max.X, m), 0)
	fillRect(dst, image.Rect(0, outer.Max.Y-m, outer.Max.X, outer.Max.Y), 0)
	fillRect(dst, image.Rect(0, m, m, outer.Max.Y-m), 0)
	fillRect(dst, image.Rect(outer.Max.X-m, m, outer.Max.X, outer.Max.Y-m), 0)

	for i := 0; i < 4; i++ {
		alpha := uint32(0x10+0x10*i) << 24
		borderRect(dst, outer.Inset(m-4+i), alpha)
	}

	active := w.keyboardIn != nil
	var tint uint32
	switch {
	case w.transparent && active:
		tint = frameActive
	case w.transparent:
		tint = frameInactive
	case active:
		tint = frameOpaqueActive
	default:
		tint = frameOpaqueInactive
	}
	fillRect(dst, outer.Inset(m), tint)

	if w.title != "" {
		w.drawTitle(dst, active)
	}
}

func (w *Window) drawTitle(dst draw.Image, active bool) {
	col := color.RGBA{A: 0xFF}
	if !active {
		col = color.RGBA{R: 0x33, G: 0x33, B: 0x33, A: 0xFF}
	}
	d := font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(col),
		Face: basicfont.Face7x13,
	}
	width := d.MeasureString(w.title).Ceil()
	d.Dot = fixed.P((w.alloc.Width-width)/2, w.margin+30)
	d.DrawString(w.title)
}
