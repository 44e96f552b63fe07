// Package bgra provides an image type over the 32-bit little-endian pixel
// layout the display server consumes: bytes B, G, R, A with premultiplied
// alpha. Buffers are caller-supplied so the same type works over mmapped
// pool memory and plain heap allocations.
package bgra

import (
	"image"
	"image/color"
	"image/draw"
)

// Stride returns the byte stride of a row of the given width.
func Stride(width int) int {
	return width * 4
}

// Image is a premultiplied BGRA image backed by Pix. It implements
// draw.Image, so the standard library's drawing and font machinery can
// target pool memory directly.
type Image struct {
	Pix    []byte
	Rect   image.Rectangle
	stride int
}

// New allocates an Image of the given size on the heap.
func New(width, height int) *Image {
	return &Image{
		Pix:    make([]byte, Stride(width)*height),
		Rect:   image.Rect(0, 0, width, height),
		stride: Stride(width),
	}
}

// FromBytes wraps an existing buffer, typically an mmapped pool slice.
// The buffer must hold at least Stride(width)*height bytes.
func FromBytes(pix []byte, width, height int) *Image {
	return &Image{
		Pix:    pix,
		Rect:   image.Rect(0, 0, width, height),
		stride: Stride(width),
	}
}

func (m *Image) ColorModel() color.Model { return color.RGBAModel }

func (m *Image) Bounds() image.Rectangle { return m.Rect }

func (m *Image) PixOffset(x, y int) int {
	return (y-m.Rect.Min.Y)*m.stride + (x-m.Rect.Min.X)*4
}

func (m *Image) At(x, y int) color.Color {
	if !(image.Point{x, y}.In(m.Rect)) {
		return color.RGBA{}
	}
	i := m.PixOffset(x, y)
	return color.RGBA{R: m.Pix[i+2], G: m.Pix[i+1], B: m.Pix[i+0], A: m.Pix[i+3]}
}

func (m *Image) Set(x, y int, c color.Color) {
	if !(image.Point{x, y}.In(m.Rect)) {
		return
	}
	i := m.PixOffset(x, y)
	r := color.RGBAModel.Convert(c).(color.RGBA)
	m.Pix[i+0] = r.B
	m.Pix[i+1] = r.G
	m.Pix[i+2] = r.R
	m.Pix[i+3] = r.A
}

// Fill sets every pixel of r (clipped to the image) to the ARGB value.
// The value is written as-is, so callers pass premultiplied components.
func (m *Image) Fill(r image.Rectangle, argb uint32) {
	r = r.Intersect(m.Rect)
	if r.Empty() {
		return
	}
	b := byte(argb)
	g := byte(argb >> 8)
	red := byte(argb >> 16)
	a := byte(argb >> 24)
	for y := r.Min.Y; y < r.Max.Y; y++ {
		i := m.PixOffset(r.Min.X, y)
		for x := r.Min.X; x < r.Max.X; x++ {
			m.Pix[i+0] = b
			m.Pix[i+1] = g
			m.Pix[i+2] = red
			m.Pix[i+3] = a
			i += 4
		}
	}
}

// Border fills the one-pixel-wide inset frame of r.
func (m *Image) Border(r image.Rectangle, argb uint32) {
	if r.Dx() <= 0 || r.Dy() <= 0 {
		return
	}
	m.Fill(image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+1), argb)
	m.Fill(image.Rect(r.Min.X, r.Max.Y-1, r.Max.X, r.Max.Y), argb)
	m.Fill(image.Rect(r.Min.X, r.Min.Y, r.Min.X+1, r.Max.Y), argb)
	m.Fill(image.Rect(r.Max.X-1, r.Min.Y, r.Max.X, r.Max.Y), argb)
}

// SetARGB writes one premultiplied ARGB pixel without a color conversion.
func (m *Image) SetARGB(x, y int, argb uint32) {
	if !(image.Point{x, y}.In(m.Rect)) {
		return
	}
	i := m.PixOffset(x, y)
	m.Pix[i+0] = byte(argb)
	m.Pix[i+1] = byte(argb >> 8)
	m.Pix[i+2] = byte(argb >> 16)
	m.Pix[i+3] = byte(argb >> 24)
}

var _ draw.Image = (*Image)(nil)
