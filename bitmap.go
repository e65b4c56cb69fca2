// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package canvas

import (
	"fmt"
	stdimage "image"
	"io"
	"sync/atomic"

	// Decoders registered for LoadBitmap.
	_ "image/jpeg"
	_ "image/png"

	"github.com/anthonynsimon/bild/clone"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"github.com/gogpu/gputypes"

	pixbuf "github.com/gogpu/canvas/internal/image"
	"github.com/gogpu/canvas/internal/native"
)

// Image is anything that can be drawn: bitmaps and effects.
// The interface is sealed; only types in this package implement it.
type Image interface {
	nativeImage(d *Device) (native.Image, error)
}

// Bitmap is a device-bound pixel image.
type Bitmap struct {
	device *Device
	native *native.Bitmap
	dpi    float32
	format gputypes.TextureFormat
	closed atomic.Bool
}

// CreateBitmap creates a transparent bitmap of width x height pixels.
// dpi <= 0 uses the device DPI.
func CreateBitmap(rc ResourceCreator, width, height int, dpi float32) (*Bitmap, error) {
	if rc == nil {
		return nil, fmt.Errorf("%w: nil resource creator", ErrInvalidArgument)
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: bitmap size %dx%d", ErrInvalidArgument, width, height)
	}
	d := rc.Device()
	if err := d.EnsureNotClosed(); err != nil {
		return nil, err
	}
	buf, err := pixbuf.FromRGBA(stdimage.NewRGBA(stdimage.Rect(0, 0, width, height)))
	if err != nil {
		return nil, fmt.Errorf("canvas: create bitmap: %w", err)
	}
	return newBitmap(d, buf, dpi, d.format)
}

// CreateBitmapFromImage copies img into a new bitmap. dpi <= 0 uses the
// device DPI.
func CreateBitmapFromImage(rc ResourceCreator, img stdimage.Image, dpi float32) (*Bitmap, error) {
	if rc == nil || img == nil {
		return nil, fmt.Errorf("%w: nil resource creator or image", ErrInvalidArgument)
	}
	d := rc.Device()
	if err := d.EnsureNotClosed(); err != nil {
		return nil, err
	}
	buf, err := pixbuf.FromRGBA(clone.AsRGBA(img))
	if err != nil {
		return nil, fmt.Errorf("canvas: create bitmap: %w", err)
	}
	return newBitmap(d, buf, dpi, d.format)
}

// CreateBitmapFromBytes creates a bitmap from tightly packed 8-bit pixels in
// the given format (RGBA8Unorm or BGRA8Unorm, premultiplied alpha).
func CreateBitmapFromBytes(rc ResourceCreator, pix []byte, width, height int, format gputypes.TextureFormat, dpi float32) (*Bitmap, error) {
	if rc == nil {
		return nil, fmt.Errorf("%w: nil resource creator", ErrInvalidArgument)
	}
	d := rc.Device()
	if err := d.EnsureNotClosed(); err != nil {
		return nil, err
	}
	if !supportedFormat(format) {
		return nil, fmt.Errorf("%w: unsupported pixel format %v", ErrInvalidArgument, format)
	}
	if width <= 0 || height <= 0 || len(pix) < width*height*4 {
		return nil, fmt.Errorf("%w: %d bytes for %dx%d bitmap", ErrInvalidArgument, len(pix), width, height)
	}

	rgba := stdimage.NewRGBA(stdimage.Rect(0, 0, width, height))
	copy(rgba.Pix, pix[:width*height*4])
	if format == gputypes.TextureFormatBGRA8Unorm {
		for i := 0; i < len(rgba.Pix); i += 4 {
			rgba.Pix[i], rgba.Pix[i+2] = rgba.Pix[i+2], rgba.Pix[i]
		}
	}
	buf, err := pixbuf.FromRGBA(rgba)
	if err != nil {
		return nil, fmt.Errorf("canvas: create bitmap: %w", err)
	}
	return newBitmap(d, buf, dpi, format)
}

// LoadBitmap decodes a PNG, JPEG, BMP or WebP stream into a bitmap.
func LoadBitmap(rc ResourceCreator, r io.Reader, dpi float32) (*Bitmap, error) {
	if r == nil {
		return nil, fmt.Errorf("%w: nil reader", ErrInvalidArgument)
	}
	img, _, err := stdimage.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("canvas: decode bitmap: %w", err)
	}
	return CreateBitmapFromImage(rc, img, dpi)
}

func newBitmap(d *Device, buf *pixbuf.Buf, dpi float32, format gputypes.TextureFormat) (*Bitmap, error) {
	if dpi <= 0 {
		dpi = d.dpi
	}
	nb, err := d.native.CreateBitmap(buf, dpi)
	if err != nil {
		return nil, fmt.Errorf("canvas: create bitmap: %w", err)
	}
	b := &Bitmap{device: d, native: nb, dpi: dpi, format: format}
	RegisterResource(d, nb, b)
	return b, nil
}

// Device returns the owning device.
func (b *Bitmap) Device() *Device { return b.device }

// DPI returns the bitmap's dots per inch.
func (b *Bitmap) DPI() float32 { return b.dpi }

// Format returns the pixel format the bitmap was created with.
func (b *Bitmap) Format() gputypes.TextureFormat { return b.format }

// SizeInPixels returns the size in pixels.
func (b *Bitmap) SizeInPixels() (width, height int) {
	return b.native.Size()
}

// Size returns the size in device-independent pixels.
func (b *Bitmap) Size() (width, height float32) {
	w, h := b.native.Size()
	scale := DefaultDPI / b.dpi
	return float32(w) * scale, float32(h) * scale
}

// Image returns a copy of the pixels.
func (b *Bitmap) Image() (*stdimage.RGBA, error) {
	if err := b.ensureOpen(); err != nil {
		return nil, err
	}
	return b.native.Pixels().ToRGBA(), nil
}

// Close releases the bitmap. Brushes already bound to it keep drawing it.
func (b *Bitmap) Close() error {
	if b.closed.Swap(true) {
		return nil
	}
	b.device.UnregisterResource(b.native)
	return nil
}

func (b *Bitmap) ensureOpen() error {
	if b.closed.Load() {
		return ErrClosed
	}
	return b.device.EnsureNotClosed()
}

func (b *Bitmap) nativeBitmap(d *Device) (*native.Bitmap, error) {
	if err := b.ensureOpen(); err != nil {
		return nil, err
	}
	if b.device != d {
		return nil, ErrDeviceMismatch
	}
	return b.native, nil
}

func (b *Bitmap) nativeImage(d *Device) (native.Image, error) {
	nb, err := b.nativeBitmap(d)
	if err != nil {
		return nil, err
	}
	return nb, nil
}
