// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package canvas

import (
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"

	"github.com/gogpu/canvas/internal/native"
	"github.com/gogpu/canvas/internal/parallel"
)

// DeviceHandle provides GPU device access from the host application.
//
// Key principle: canvas RECEIVES the device from the host, it does NOT create
// one. A nil handle, or [NullDeviceHandle], selects CPU-only operation.
//
// DeviceHandle is an alias for gpucontext.DeviceProvider.
type DeviceHandle = gpucontext.DeviceProvider

// NullDeviceHandle is a DeviceHandle that provides nil implementations.
// Used for CPU-only rendering where no GPU is available.
type NullDeviceHandle struct{}

// Device returns nil for the null device.
func (NullDeviceHandle) Device() gpucontext.Device { return nil }

// Queue returns nil for the null device.
func (NullDeviceHandle) Queue() gpucontext.Queue { return nil }

// Adapter returns nil for the null device.
func (NullDeviceHandle) Adapter() gpucontext.Adapter { return nil }

// AdapterInfo returns empty adapter metadata for the null device.
func (NullDeviceHandle) AdapterInfo() gpucontext.AdapterInfo {
	return gpucontext.AdapterInfo{}
}

// SurfaceFormat returns undefined format for the null device.
func (NullDeviceHandle) SurfaceFormat() gputypes.TextureFormat {
	return gputypes.TextureFormatUndefined
}

var _ DeviceHandle = NullDeviceHandle{}

// ResourceCreator is anything resources can be created from: a Device, or a
// DrawingSession (which creates on its device).
type ResourceCreator interface {
	Device() *Device
}

// Device owns native resources. Every bitmap, effect realization and brush
// is bound to exactly one device and cannot be used with another.
//
// A Device is safe for concurrent use.
type Device struct {
	handle  DeviceHandle
	native  *native.Device
	factory native.BrushFactory
	dpi     float32
	format  gputypes.TextureFormat
	log     *slog.Logger
	pool    *parallel.WorkerPool // nil for serial fills

	mu        sync.Mutex
	resources map[any]resourceRef // native object -> weak wrapper

	closed atomic.Bool
}

// NewDevice creates a device on top of the host handle. handle may be nil.
func NewDevice(handle DeviceHandle, opts ...DeviceOption) (*Device, error) {
	o := defaultDeviceOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if handle == nil {
		handle = NullDeviceHandle{}
	}

	format := o.format
	if format == gputypes.TextureFormatUndefined {
		format = handle.SurfaceFormat()
	}
	if format == gputypes.TextureFormatUndefined {
		format = gputypes.TextureFormatRGBA8Unorm
	}
	if !supportedFormat(format) {
		return nil, fmt.Errorf("%w: unsupported pixel format %v", ErrInvalidArgument, format)
	}

	nd := o.native
	if nd == nil {
		nd = native.NewDevice()
	}
	factory := o.factory
	if factory == nil {
		factory = nd
	}

	d := &Device{
		handle:    handle,
		native:    nd,
		factory:   factory,
		dpi:       o.dpi,
		format:    format,
		log:       o.logger,
		resources: make(map[any]resourceRef),
	}
	if o.workers > 1 {
		d.pool = parallel.NewWorkerPool(o.workers)
	}
	d.logger().Info("canvas: device created",
		"id", nd.ID(), "dpi", d.dpi, "format", format, "gpu", handle.Device() != nil,
		"adapter", handle.AdapterInfo().Name,
		"workers", d.Workers())
	return d, nil
}

func supportedFormat(f gputypes.TextureFormat) bool {
	return f == gputypes.TextureFormatRGBA8Unorm || f == gputypes.TextureFormatBGRA8Unorm
}

// Device implements ResourceCreator.
func (d *Device) Device() *Device { return d }

// Handle returns the host handle the device was created with.
func (d *Device) Handle() DeviceHandle { return d.handle }

// DPI returns the default DPI.
func (d *Device) DPI() float32 { return d.dpi }

// Format returns the default bitmap pixel format.
func (d *Device) Format() gputypes.TextureFormat { return d.format }

// Native returns the engine device.
func (d *Device) Native() *native.Device { return d.native }

// BrushFactory returns the factory used to create native brushes.
func (d *Device) BrushFactory() native.BrushFactory { return d.factory }

// Logger returns the device logger, falling back to the package logger.
func (d *Device) Logger() *slog.Logger { return d.logger() }

func (d *Device) logger() *slog.Logger {
	if d.log != nil {
		return d.log
	}
	return Logger()
}

// Workers returns the number of goroutines used for fills.
func (d *Device) Workers() int {
	if d.pool == nil {
		return 1
	}
	return d.pool.Workers()
}

// Closed reports whether Close was called.
func (d *Device) Closed() bool { return d.closed.Load() }

// EnsureNotClosed returns ErrClosed once the device is closed.
func (d *Device) EnsureNotClosed() error {
	if d == nil || d.closed.Load() {
		return ErrClosed
	}
	return nil
}

// Close closes the device. Resources created on it become unusable.
// Calling Close more than once is safe.
func (d *Device) Close() error {
	if d.closed.Swap(true) {
		return nil
	}
	d.native.Close()
	if d.pool != nil {
		d.pool.Close()
	}

	d.mu.Lock()
	n := len(d.resources)
	clear(d.resources)
	d.mu.Unlock()

	d.logger().Info("canvas: device closed", "id", d.native.ID(), "resources", n)
	return nil
}

// LookupImage returns the wrapper registered for a native image without
// creating one, or nil.
func (d *Device) LookupImage(n native.Image) Image {
	if n == nil {
		return nil
	}
	img, _ := d.LookupResource(n).(Image)
	return img
}

// NativeImage resolves img to the engine image drawn by general image
// brushes on this device.
func (d *Device) NativeImage(img Image) (native.Image, error) {
	if err := d.EnsureNotClosed(); err != nil {
		return nil, err
	}
	if img == nil {
		return nil, fmt.Errorf("%w: nil image", ErrInvalidArgument)
	}
	return img.nativeImage(d)
}

// NativeBitmap returns the engine bitmap behind b after checking that b
// belongs to this device.
func (d *Device) NativeBitmap(b *Bitmap) (*native.Bitmap, error) {
	if err := d.EnsureNotClosed(); err != nil {
		return nil, err
	}
	if b == nil {
		return nil, fmt.Errorf("%w: nil bitmap", ErrInvalidArgument)
	}
	return b.nativeBitmap(d)
}

// ImageFor returns the wrapper for a native image, creating a Bitmap wrapper
// for native bitmaps that have none.
func (d *Device) ImageFor(n native.Image) (Image, error) {
	if err := d.EnsureNotClosed(); err != nil {
		return nil, err
	}
	if n == nil {
		return nil, nil
	}
	if n.Owner() != d.native {
		return nil, ErrDeviceMismatch
	}

	d.mu.Lock()
	if w, ok := d.lookupLocked(n).(Image); ok {
		d.mu.Unlock()
		return w, nil
	}
	nb, ok := n.(*native.Bitmap)
	if !ok {
		d.mu.Unlock()
		return nil, fmt.Errorf("%w: native image %T has no wrapper", ErrInvalidArgument, n)
	}
	b := &Bitmap{device: d, native: nb, dpi: nb.DPI(), format: d.format}
	d.resources[n] = weakRef(b)
	d.mu.Unlock()

	watchResource(d, n, b)
	return b, nil
}
