// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package canvas

import "errors"

// Sentinel errors. Operations wrap them with context; test with errors.Is.
var (
	// ErrClosed is returned by any operation on a closed resource or on a
	// resource whose device has been closed.
	ErrClosed = errors.New("canvas: use after close")

	// ErrInvalidArgument is returned for nil required inputs, out-of-range
	// enum values and malformed rectangles.
	ErrInvalidArgument = errors.New("canvas: invalid argument")

	// ErrInvalidConfiguration is returned when a general image brush is
	// drawn without a source rectangle.
	ErrInvalidConfiguration = errors.New("canvas: image brush requires a source rectangle")

	// ErrDeviceMismatch is returned when a resource is used with a device
	// other than the one that created it.
	ErrDeviceMismatch = errors.New("canvas: resource belongs to a different device")

	// ErrUnsupportedResource is returned by interop queries for a native
	// resource kind the object cannot provide.
	ErrUnsupportedResource = errors.New("canvas: unsupported native resource kind")
)
