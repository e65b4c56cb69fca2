// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package native is the software rendering engine behind the canvas
// bindings. It provides bitmaps, effect nodes and the two brush primitives
// (a bitmap-tiling brush and a general image brush) that the public brush
// types wrap.
//
// Native objects carry no locks. They are owned by exactly one wrapper which
// serializes access to them.
package native

import (
	"errors"
	"sync/atomic"

	"github.com/gogpu/canvas/internal/image"
)

// Engine errors.
var (
	// ErrDeviceClosed is returned when creating objects on a closed device.
	ErrDeviceClosed = errors.New("native: device closed")

	// ErrWrongDevice is returned when an image is bound to a brush of another device.
	ErrWrongDevice = errors.New("native: image belongs to a different device")

	// ErrNilBuffer is returned when creating a bitmap without pixels.
	ErrNilBuffer = errors.New("native: nil pixel buffer")
)

// Type aliases shared with the pixel layer so callers need one import.
type (
	ExtendMode    = image.ExtendMode
	Interpolation = image.Interpolation
	Affine        = image.Affine
	RectF         = image.RectF
)

// BrushFactory creates native brushes. *Device implements it; wrappers accept
// the interface so tests can inject failures.
type BrushFactory interface {
	CreateBitmapBrush(bitmap *Bitmap) (*BitmapBrush, error)
	CreateImageBrush(img Image) (*ImageBrush, error)
}

var nextDeviceID atomic.Uint64

// Device owns native objects. Objects created on one device cannot be used
// with another.
type Device struct {
	id     uint64
	closed atomic.Bool
	live   atomic.Int64
}

// NewDevice creates a device with a process-unique id.
func NewDevice() *Device {
	return &Device{id: nextDeviceID.Add(1)}
}

// ID returns the device id.
func (d *Device) ID() uint64 { return d.id }

// Close marks the device closed. Existing objects stay readable.
func (d *Device) Close() { d.closed.Store(true) }

// Closed reports whether Close was called.
func (d *Device) Closed() bool { return d.closed.Load() }

// LiveBrushes returns the number of brushes created and not yet released.
func (d *Device) LiveBrushes() int { return int(d.live.Load()) }

// CreateBitmap wraps buf as a bitmap owned by d.
func (d *Device) CreateBitmap(buf *image.Buf, dpi float32) (*Bitmap, error) {
	if d.Closed() {
		return nil, ErrDeviceClosed
	}
	if buf == nil {
		return nil, ErrNilBuffer
	}
	return &Bitmap{owner: d, buf: buf, dpi: dpi}, nil
}

// CreateEffectNode creates an effect node with no output yet.
func (d *Device) CreateEffectNode() (*EffectNode, error) {
	if d.Closed() {
		return nil, ErrDeviceClosed
	}
	return &EffectNode{owner: d}, nil
}

// CreateBitmapBrush creates a bitmap brush bound to bitmap, which may be nil.
func (d *Device) CreateBitmapBrush(bitmap *Bitmap) (*BitmapBrush, error) {
	if d.Closed() {
		return nil, ErrDeviceClosed
	}
	if bitmap != nil && bitmap.owner != d {
		return nil, ErrWrongDevice
	}
	d.live.Add(1)
	return &BitmapBrush{props: newProps(d), bitmap: bitmap}, nil
}

// CreateImageBrush creates a general image brush bound to img, which may be
// nil. The source rectangle starts empty.
func (d *Device) CreateImageBrush(img Image) (*ImageBrush, error) {
	if d.Closed() {
		return nil, ErrDeviceClosed
	}
	if img != nil && img.Owner() != d {
		return nil, ErrWrongDevice
	}
	d.live.Add(1)
	return &ImageBrush{props: newProps(d), image: img}, nil
}
