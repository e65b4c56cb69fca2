// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package canvas

import (
	"log/slog"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/canvas/internal/native"
)

// DefaultDPI is the DPI at which one device-independent pixel is one pixel.
const DefaultDPI float32 = 96

// DeviceOption configures a Device during creation.
//
// Example:
//
//	dev, err := canvas.NewDevice(nil, canvas.WithDPI(144))
type DeviceOption func(*deviceOptions)

type deviceOptions struct {
	dpi     float32
	format  gputypes.TextureFormat
	native  *native.Device
	factory native.BrushFactory
	logger  *slog.Logger
	workers int
}

func defaultDeviceOptions() deviceOptions {
	return deviceOptions{
		dpi:    DefaultDPI,
		format: gputypes.TextureFormatUndefined, // resolved from the handle
	}
}

// WithDPI sets the default DPI for drawing sessions and new bitmaps.
// Non-positive values are ignored.
func WithDPI(dpi float32) DeviceOption {
	return func(o *deviceOptions) {
		if dpi > 0 {
			o.dpi = dpi
		}
	}
}

// WithFormat sets the pixel format reported for bitmaps created without an
// explicit format. Only RGBA8Unorm and BGRA8Unorm are supported.
func WithFormat(format gputypes.TextureFormat) DeviceOption {
	return func(o *deviceOptions) {
		o.format = format
	}
}

// WithLogger sets a device-specific logger instead of the package logger.
func WithLogger(l *slog.Logger) DeviceOption {
	return func(o *deviceOptions) {
		o.logger = l
	}
}

// WithNativeDevice uses an existing engine device.
func WithNativeDevice(d *native.Device) DeviceOption {
	return func(o *deviceOptions) {
		o.native = d
	}
}

// WithBrushFactory overrides how native brushes are created. The factory must
// create brushes on the device's native device.
func WithBrushFactory(f native.BrushFactory) DeviceOption {
	return func(o *deviceOptions) {
		o.factory = f
	}
}

// WithWorkers fills large rectangles on n goroutines. n <= 1 keeps fills on
// the calling goroutine, which is the default.
func WithWorkers(n int) DeviceOption {
	return func(o *deviceOptions) {
		o.workers = n
	}
}
