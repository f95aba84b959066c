package texture

import (
	"fmt"
	"image"

	"golang.org/x/image/draw"
)

// Image is a tightly packed RGBA8 pixel buffer, rows top to bottom.
// len(Pix) == Width*Height*4.
type Image struct {
	Width  int
	Height int
	Pix    []byte
}

// NewImage allocates a transparent image.
func NewImage(width, height int) *Image {
	return &Image{Width: width, Height: height, Pix: make([]byte, width*height*4)}
}

// FromImage converts any decoded image to an Image.
func FromImage(src image.Image) *Image {
	b := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	return fromRGBA(dst)
}

// fromRGBA wraps an origin-anchored *image.RGBA without copying.
func fromRGBA(img *image.RGBA) *Image {
	return &Image{Width: img.Rect.Dx(), Height: img.Rect.Dy(), Pix: img.Pix}
}

// RGBA returns a view of the image sharing its pixels.
func (m *Image) RGBA() *image.RGBA {
	return &image.RGBA{
		Pix:    m.Pix,
		Stride: m.Width * 4,
		Rect:   image.Rect(0, 0, m.Width, m.Height),
	}
}

// At returns the pixel at (x, y).
func (m *Image) At(x, y int) [4]byte {
	i := (y*m.Width + x) * 4
	return [4]byte(m.Pix[i : i+4])
}

func (m *Image) set(x, y int, px [4]byte) {
	i := (y*m.Width + x) * 4
	copy(m.Pix[i:i+4], px[:])
}

// remap builds a new w x h image where each source pixel (x, y) moves to
// to(x, y).
func (m *Image) remap(w, h int, to func(x, y int) (int, int)) *Image {
	out := NewImage(w, h)
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			dx, dy := to(x, y)
			out.set(dx, dy, m.At(x, y))
		}
	}
	return out
}

// Rotate180 returns the image turned upside down.
func (m *Image) Rotate180() *Image {
	return m.remap(m.Width, m.Height, func(x, y int) (int, int) {
		return m.Width - 1 - x, m.Height - 1 - y
	})
}

// Rotate90 returns the image turned a quarter counter-clockwise.
func (m *Image) Rotate90() *Image {
	return m.remap(m.Height, m.Width, func(x, y int) (int, int) {
		return y, m.Width - 1 - x
	})
}

// Rotate270 returns the image turned a quarter clockwise.
func (m *Image) Rotate270() *Image {
	return m.remap(m.Height, m.Width, func(x, y int) (int, int) {
		return m.Height - 1 - y, x
	})
}

// FlipHorizontal returns the image mirrored left to right.
func (m *Image) FlipHorizontal() *Image {
	return m.remap(m.Width, m.Height, func(x, y int) (int, int) {
		return m.Width - 1 - x, y
	})
}

// Resize returns the image scaled to width x height. An image already at
// that size is returned as is.
func (m *Image) Resize(width, height int) *Image {
	if m.Width == width && m.Height == height {
		return m
	}
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), m.RGBA(), m.RGBA().Bounds(), draw.Src, nil)
	return fromRGBA(dst)
}

// Composite draws fg over a copy of bg using alpha blending. fg is scaled
// to the size of bg first.
func Composite(bg, fg *Image) (*Image, error) {
	if bg == nil || fg == nil {
		return nil, fmt.Errorf("texture: composite of nil image")
	}
	out := NewImage(bg.Width, bg.Height)
	copy(out.Pix, bg.Pix)

	fg = fg.Resize(bg.Width, bg.Height)
	dst := out.RGBA()
	draw.Draw(dst, dst.Bounds(), fg.RGBA(), image.Point{}, draw.Over)
	return out, nil
}
