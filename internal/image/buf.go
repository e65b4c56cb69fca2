// Package image provides the pixel storage and sampling used by the native
// brush engine.
//
// Pixels are stored as premultiplied 8-bit RGBA, the same layout as the
// standard library's *image.RGBA, so buffers convert to and from it without
// any per-pixel math.
package image

import (
	"errors"
	stdimage "image"
)

// Common errors for buffer operations.
var (
	// ErrInvalidDimensions is returned when width or height is non-positive.
	ErrInvalidDimensions = errors.New("image: invalid dimensions")

	// ErrOutOfBounds is returned when pixel coordinates are outside the buffer.
	ErrOutOfBounds = errors.New("image: coordinates out of bounds")
)

const bytesPerPixel = 4

// Buf is a premultiplied RGBA pixel buffer.
//
// Buf is safe for concurrent reads. Writes need external synchronization.
type Buf struct {
	pix    []byte
	width  int
	height int
	stride int
}

// NewBuf creates a transparent buffer of the given size.
func NewBuf(width, height int) (*Buf, error) {
	if width <= 0 || height <= 0 {
		return nil, ErrInvalidDimensions
	}
	stride := width * bytesPerPixel
	return &Buf{
		pix:    make([]byte, stride*height),
		width:  width,
		height: height,
		stride: stride,
	}, nil
}

// FromRGBA copies src into a new buffer. The copy starts at src.Bounds().Min.
func FromRGBA(src *stdimage.RGBA) (*Buf, error) {
	r := src.Bounds()
	b, err := NewBuf(r.Dx(), r.Dy())
	if err != nil {
		return nil, err
	}
	for y := 0; y < b.height; y++ {
		off := src.PixOffset(r.Min.X, r.Min.Y+y)
		copy(b.pix[y*b.stride:(y+1)*b.stride], src.Pix[off:off+b.stride])
	}
	return b, nil
}

// Width returns the buffer width in pixels.
func (b *Buf) Width() int { return b.width }

// Height returns the buffer height in pixels.
func (b *Buf) Height() int { return b.height }

// Bounds returns width and height.
func (b *Buf) Bounds() (int, int) { return b.width, b.height }

// RGBA returns the premultiplied pixel at (x, y).
// Coordinates outside the buffer return transparent black.
func (b *Buf) RGBA(x, y int) (r, g, bl, a uint8) {
	if x < 0 || y < 0 || x >= b.width || y >= b.height {
		return 0, 0, 0, 0
	}
	i := y*b.stride + x*bytesPerPixel
	return b.pix[i], b.pix[i+1], b.pix[i+2], b.pix[i+3]
}

// SetRGBA stores a premultiplied pixel at (x, y).
func (b *Buf) SetRGBA(x, y int, r, g, bl, a uint8) error {
	if x < 0 || y < 0 || x >= b.width || y >= b.height {
		return ErrOutOfBounds
	}
	i := y*b.stride + x*bytesPerPixel
	b.pix[i], b.pix[i+1], b.pix[i+2], b.pix[i+3] = r, g, bl, a
	return nil
}

// Fill sets every pixel to the given premultiplied color.
func (b *Buf) Fill(r, g, bl, a uint8) {
	for i := 0; i < len(b.pix); i += bytesPerPixel {
		b.pix[i], b.pix[i+1], b.pix[i+2], b.pix[i+3] = r, g, bl, a
	}
}

// Clone returns a deep copy of the buffer.
func (b *Buf) Clone() *Buf {
	pix := make([]byte, len(b.pix))
	copy(pix, b.pix)
	return &Buf{pix: pix, width: b.width, height: b.height, stride: b.stride}
}

// ToRGBA copies the buffer into a new *image.RGBA anchored at the origin.
func (b *Buf) ToRGBA() *stdimage.RGBA {
	dst := stdimage.NewRGBA(stdimage.Rect(0, 0, b.width, b.height))
	copy(dst.Pix, b.pix)
	return dst
}
