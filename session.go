// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package canvas

import (
	"fmt"
	stdimage "image"
	"image/color"
	"math"
	"sync"

	"golang.org/x/image/draw"

	pixbuf "github.com/gogpu/canvas/internal/image"
	"github.com/gogpu/canvas/internal/native"
	"github.com/gogpu/canvas/internal/parallel"
)

// minBandRows is the smallest band height worth handing to another worker.
const minBandRows = 32

// DrawingSession draws into a CPU-backed *image.RGBA target.
//
// Coordinates passed to the session are device-independent pixels; the
// session scales them by DPI/96 to reach target pixels.
//
// Example:
//
//	target := image.NewRGBA(image.Rect(0, 0, 256, 256))
//	ds, _ := canvas.NewDrawingSession(dev, target, 96)
//	ds.FillRectangle(canvas.NewRect(0, 0, 256, 256), brush)
type DrawingSession struct {
	device *Device
	target *stdimage.RGBA
	dpi    float32

	mu     sync.Mutex
	flags  BrushFlags
	closed bool
}

// NewDrawingSession creates a session on target. dpi <= 0 uses the device DPI.
func NewDrawingSession(device *Device, target *stdimage.RGBA, dpi float32) (*DrawingSession, error) {
	if device == nil || target == nil {
		return nil, fmt.Errorf("%w: nil device or target", ErrInvalidArgument)
	}
	if err := device.EnsureNotClosed(); err != nil {
		return nil, err
	}
	if dpi <= 0 {
		dpi = device.dpi
	}
	return &DrawingSession{device: device, target: target, dpi: dpi}, nil
}

// Device implements ResourceCreator.
func (ds *DrawingSession) Device() *Device { return ds.device }

// DPI returns the session DPI.
func (ds *DrawingSession) DPI() float32 { return ds.dpi }

// Target returns the image being drawn into.
func (ds *DrawingSession) Target() *stdimage.RGBA { return ds.target }

// SetForceDPICompensation makes every fill resolve brushes with
// [BrushAlwaysInsertDPICompensation].
func (ds *DrawingSession) SetForceDPICompensation(force bool) {
	ds.mu.Lock()
	defer ds.mu.Unlock()
	if force {
		ds.flags |= BrushAlwaysInsertDPICompensation
	} else {
		ds.flags &^= BrushAlwaysInsertDPICompensation
	}
}

// Clear fills the whole target with c, replacing existing pixels.
func (ds *DrawingSession) Clear(c color.Color) error {
	ds.mu.Lock()
	defer ds.mu.Unlock()
	if err := ds.ensureOpen(); err != nil {
		return err
	}
	draw.Draw(ds.target, ds.target.Bounds(), stdimage.NewUniform(c), stdimage.Point{}, draw.Src)
	return nil
}

// FillRectangle composites the brush over r using source-over blending.
func (ds *DrawingSession) FillRectangle(r Rect, b Brush) error {
	if b == nil {
		return fmt.Errorf("%w: nil brush", ErrInvalidArgument)
	}
	if err := r.Validate(); err != nil {
		return err
	}

	ds.mu.Lock()
	defer ds.mu.Unlock()
	if err := ds.ensureOpen(); err != nil {
		return err
	}

	px := ds.toPixels(r).Intersect(ds.target.Bounds())
	if px.Empty() {
		return nil
	}

	return b.Paint(ds, ds.flags, func(nb native.Brush) error {
		src := &brushImage{
			sampler: nb.Sampler(),
			bounds:  px,
			scale:   float64(DefaultDPI / ds.dpi),
		}
		ds.composite(px, src)
		return nil
	})
}

// composite blends src over px, splitting px into row bands when the device
// has a worker pool. Bands never overlap, so workers write disjoint pixels.
func (ds *DrawingSession) composite(px stdimage.Rectangle, src stdimage.Image) {
	pool := ds.device.pool
	if pool == nil {
		draw.Draw(ds.target, px, src, px.Min, draw.Over)
		return
	}
	bands := parallel.Bands(px, pool.Workers(), minBandRows)
	if len(bands) <= 1 {
		draw.Draw(ds.target, px, src, px.Min, draw.Over)
		return
	}
	work := make([]func(), len(bands))
	for i, band := range bands {
		work[i] = func() {
			draw.Draw(ds.target, band, src, band.Min, draw.Over)
		}
	}
	pool.ExecuteAll(work)
}

// Close ends the session. The target stays valid.
func (ds *DrawingSession) Close() error {
	ds.mu.Lock()
	defer ds.mu.Unlock()
	ds.closed = true
	return nil
}

func (ds *DrawingSession) ensureOpen() error {
	if ds.closed {
		return ErrClosed
	}
	return ds.device.EnsureNotClosed()
}

func (ds *DrawingSession) toPixels(r Rect) stdimage.Rectangle {
	s := float64(ds.dpi / DefaultDPI)
	return stdimage.Rect(
		int(math.Round(float64(r.X)*s)),
		int(math.Round(float64(r.Y)*s)),
		int(math.Round(float64(r.X+r.Width)*s)),
		int(math.Round(float64(r.Y+r.Height)*s)),
	)
}

// brushImage exposes a native brush as an image.Image over the fill area.
// Pixel (x, y) samples the brush at its center in device-independent pixels.
type brushImage struct {
	sampler *pixbuf.Sampler
	bounds  stdimage.Rectangle
	scale   float64
}

func (b *brushImage) ColorModel() color.Model    { return color.RGBAModel }
func (b *brushImage) Bounds() stdimage.Rectangle { return b.bounds }

func (b *brushImage) At(x, y int) color.Color {
	return b.RGBAAt(x, y)
}

func (b *brushImage) RGBAAt(x, y int) color.RGBA {
	r, g, bl, a := b.sampler.Sample((float64(x)+0.5)*b.scale, (float64(y)+0.5)*b.scale)
	return color.RGBA{R: r, G: g, B: bl, A: a}
}
