package pipemagic

import (
	"image"
	"image/color"
	"image/draw"
)

var (
	_ image.Image = (*Bitmap)(nil)
	_ draw.Image  = (*Bitmap)(nil)
)

// Bitmap is a rectangular RGBA8 pixel buffer, the pixel storage behind an
// ImageFrame. It implements image.Image and draw.Image so it interoperates
// with the standard library's decode/encode/draw machinery, and is always
// replaced wholesale rather than mutated once handed to an ImageFrame.
type Bitmap struct {
	width  int
	height int
	pix    []uint8 // RGBA, 4 bytes per pixel, row-major
}

// NewBitmap allocates a zeroed (fully transparent black) bitmap.
func NewBitmap(width, height int) *Bitmap {
	return &Bitmap{
		width:  width,
		height: height,
		pix:    make([]uint8, width*height*4),
	}
}

// Width returns the bitmap width in pixels.
func (b *Bitmap) Width() int { return b.width }

// Height returns the bitmap height in pixels.
func (b *Bitmap) Height() int { return b.height }

// Pix returns the raw RGBA pixel bytes.
func (b *Bitmap) Pix() []uint8 { return b.pix }

// GetRGBA returns the raw byte components at (x, y). Out-of-bounds reads
// return fully transparent.
func (b *Bitmap) GetRGBA(x, y int) (r, g, bl, a uint8) {
	if x < 0 || x >= b.width || y < 0 || y >= b.height {
		return 0, 0, 0, 0
	}
	i := (y*b.width + x) * 4
	return b.pix[i], b.pix[i+1], b.pix[i+2], b.pix[i+3]
}

// SetRGBA writes the raw byte components at (x, y). Out-of-bounds writes
// are silently dropped.
func (b *Bitmap) SetRGBA(x, y int, r, g, bl, a uint8) {
	if x < 0 || x >= b.width || y < 0 || y >= b.height {
		return
	}
	i := (y*b.width + x) * 4
	b.pix[i], b.pix[i+1], b.pix[i+2], b.pix[i+3] = r, g, bl, a
}

// Clear fills the entire bitmap with c.
func (b *Bitmap) Clear(c RGBA) {
	nc := color.NRGBAModel.Convert(c.Color()).(color.NRGBA)
	for i := 0; i < len(b.pix); i += 4 {
		b.pix[i], b.pix[i+1], b.pix[i+2], b.pix[i+3] = nc.R, nc.G, nc.B, nc.A
	}
}

// ToImage converts the bitmap to a stdlib *image.NRGBA, sharing no memory.
func (b *Bitmap) ToImage() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, b.width, b.height))
	copy(img.Pix, b.pix)
	return img
}

// FromImage builds a Bitmap from any image.Image, resampling through
// image.Image.At (no geometry change, just format normalization).
func FromImage(img image.Image) *Bitmap {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	bm := NewBitmap(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := color.NRGBAModel.Convert(img.At(bounds.Min.X+x, bounds.Min.Y+y)).(color.NRGBA)
			bm.SetRGBA(x, y, c.R, c.G, c.B, c.A)
		}
	}
	return bm
}

// At implements image.Image.
func (b *Bitmap) At(x, y int) color.Color {
	r, g, bl, a := b.GetRGBA(x, y)
	return color.NRGBA{R: r, G: g, B: bl, A: a}
}

// Set implements draw.Image.
func (b *Bitmap) Set(x, y int, c color.Color) {
	nc := color.NRGBAModel.Convert(c).(color.NRGBA)
	b.SetRGBA(x, y, nc.R, nc.G, nc.B, nc.A)
}

// Bounds implements image.Image.
func (b *Bitmap) Bounds() image.Rectangle {
	return image.Rect(0, 0, b.width, b.height)
}

// ColorModel implements image.Image.
func (b *Bitmap) ColorModel() color.Model { return color.NRGBAModel }

// Clone returns a deep copy, used by executors that must not mutate an
// upstream frame's bitmap in place.
func (b *Bitmap) Clone() *Bitmap {
	out := &Bitmap{width: b.width, height: b.height, pix: make([]uint8, len(b.pix))}
	copy(out.pix, b.pix)
	return out
}
