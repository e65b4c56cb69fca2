// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package canvas

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/gogpu/canvas/internal/native"
)

// recordBrush paints with a fixed native brush and records the flags it was
// resolved with.
type recordBrush struct {
	nb    native.Brush
	err   error
	calls int
	flags BrushFlags
}

func (b *recordBrush) Paint(_ *DrawingSession, flags BrushFlags, fn func(native.Brush) error) error {
	b.calls++
	b.flags = flags
	if b.err != nil {
		return b.err
	}
	return fn(b.nb)
}

func (b *recordBrush) Close() error { return nil }

func solidBrush(t *testing.T, d *Device, c color.RGBA) *recordBrush {
	t.Helper()
	bm, err := CreateBitmapFromImage(d, solidRGBA(2, 2, c), 0)
	if err != nil {
		t.Fatal(err)
	}
	nb, err := d.Native().CreateBitmapBrush(bm.native)
	if err != nil {
		t.Fatal(err)
	}
	return &recordBrush{nb: nb}
}

func TestNewDrawingSession(t *testing.T) {
	d := newTestDevice(t, WithDPI(120))
	target := image.NewRGBA(image.Rect(0, 0, 4, 4))

	ds, err := NewDrawingSession(d, target, 0)
	if err != nil {
		t.Fatal(err)
	}
	if ds.DPI() != 120 {
		t.Errorf("DPI() = %v, want device DPI 120", ds.DPI())
	}
	if ds.Target() != target || ds.Device() != d {
		t.Error("session does not expose its target and device")
	}

	if _, err := NewDrawingSession(nil, target, 0); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("nil device: err = %v", err)
	}
	if _, err := NewDrawingSession(d, nil, 0); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("nil target: err = %v", err)
	}
}

func TestFillRectangleScalesToDPI(t *testing.T) {
	d := newTestDevice(t)
	red := color.RGBA{R: 255, A: 255}
	target := image.NewRGBA(image.Rect(0, 0, 8, 8))
	ds, _ := NewDrawingSession(d, target, 192)

	if err := ds.FillRectangle(NewRect(0, 0, 2, 2), solidBrush(t, d, red)); err != nil {
		t.Fatalf("FillRectangle: %v", err)
	}
	for _, p := range []image.Point{{0, 0}, {3, 3}} {
		if got := target.RGBAAt(p.X, p.Y); got != red {
			t.Errorf("pixel %v = %v, want red", p, got)
		}
	}
	if got := target.RGBAAt(4, 4); got != (color.RGBA{}) {
		t.Errorf("pixel (4,4) = %v, want untouched", got)
	}
}

func TestFillRectangleBlendsOver(t *testing.T) {
	d := newTestDevice(t)
	target := image.NewRGBA(image.Rect(0, 0, 2, 2))
	ds, _ := NewDrawingSession(d, target, 0)
	if err := ds.Clear(color.RGBA{B: 255, A: 255}); err != nil {
		t.Fatal(err)
	}

	b := solidBrush(t, d, color.RGBA{R: 255, A: 255})
	b.nb.SetOpacity(0)
	if err := ds.FillRectangle(NewRect(0, 0, 2, 2), b); err != nil {
		t.Fatal(err)
	}
	if got := target.RGBAAt(1, 1); got != (color.RGBA{B: 255, A: 255}) {
		t.Errorf("transparent fill changed the target: %v", got)
	}
}

func TestFillRectangleErrors(t *testing.T) {
	d := newTestDevice(t)
	ds, _ := NewDrawingSession(d, image.NewRGBA(image.Rect(0, 0, 2, 2)), 0)
	b := solidBrush(t, d, color.RGBA{A: 255})

	if err := ds.FillRectangle(NewRect(0, 0, 1, 1), nil); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("nil brush: err = %v", err)
	}
	if err := ds.FillRectangle(NewRect(0, 0, -1, 1), b); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("negative rect: err = %v", err)
	}

	// Fills outside the target never reach the brush.
	if err := ds.FillRectangle(NewRect(10, 10, 1, 1), b); err != nil || b.calls != 0 {
		t.Errorf("offscreen fill: err = %v, calls = %d", err, b.calls)
	}

	want := errors.New("paint failed")
	b.err = want
	if err := ds.FillRectangle(NewRect(0, 0, 1, 1), b); !errors.Is(err, want) {
		t.Errorf("brush error not propagated: %v", err)
	}

	_ = ds.Close()
	if err := ds.FillRectangle(NewRect(0, 0, 1, 1), b); !errors.Is(err, ErrClosed) {
		t.Errorf("closed session: err = %v", err)
	}
	if err := ds.Clear(color.Black); !errors.Is(err, ErrClosed) {
		t.Errorf("Clear on closed session: err = %v", err)
	}
}

func TestForceDPICompensationFlag(t *testing.T) {
	d := newTestDevice(t)
	ds, _ := NewDrawingSession(d, image.NewRGBA(image.Rect(0, 0, 2, 2)), 0)
	b := solidBrush(t, d, color.RGBA{A: 255})

	_ = ds.FillRectangle(NewRect(0, 0, 1, 1), b)
	if b.flags.Has(BrushAlwaysInsertDPICompensation) {
		t.Error("compensation requested by default")
	}

	ds.SetForceDPICompensation(true)
	_ = ds.FillRectangle(NewRect(0, 0, 1, 1), b)
	if !b.flags.Has(BrushAlwaysInsertDPICompensation) {
		t.Error("SetForceDPICompensation(true) not forwarded to the brush")
	}

	ds.SetForceDPICompensation(false)
	_ = ds.FillRectangle(NewRect(0, 0, 1, 1), b)
	if b.flags != BrushNone {
		t.Errorf("flags = %v after reset, want none", b.flags)
	}
}

func TestFillRectangleParallelMatchesSerial(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for y := range 4 {
		for x := range 4 {
			src.SetRGBA(x, y, color.RGBA{R: uint8(x * 60), G: uint8(y * 60), B: 90, A: 255})
		}
	}

	fill := func(opts ...DeviceOption) *image.RGBA {
		d := newTestDevice(t, opts...)
		bm, err := CreateBitmapFromImage(d, src, 0)
		if err != nil {
			t.Fatal(err)
		}
		nb, err := d.Native().CreateBitmapBrush(bm.native)
		if err != nil {
			t.Fatal(err)
		}
		target := image.NewRGBA(image.Rect(0, 0, 200, 200))
		ds, _ := NewDrawingSession(d, target, 0)
		if err := ds.FillRectangle(NewRect(3, 5, 190, 180), &recordBrush{nb: nb}); err != nil {
			t.Fatal(err)
		}
		return target
	}

	serial := fill()
	par := fill(WithWorkers(4))
	if !bytes.Equal(serial.Pix, par.Pix) {
		t.Error("parallel fill differs from serial fill")
	}
}

func TestDeviceWorkers(t *testing.T) {
	if got := newTestDevice(t).Workers(); got != 1 {
		t.Errorf("default Workers() = %d, want 1", got)
	}
	d := newTestDevice(t, WithWorkers(3))
	if got := d.Workers(); got != 3 {
		t.Errorf("Workers() = %d, want 3", got)
	}
	_ = d.Close()
	if d.pool.IsRunning() {
		t.Error("pool still running after device Close")
	}
}
