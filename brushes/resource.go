// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package brushes

import (
	"github.com/gogpu/canvas"
)

// resource tracks which native object a brush exposes through its device's
// registry, and whether the brush has been closed. The registry holds the
// brush weakly. Callers hold the brush lock.
type resource struct {
	device  *canvas.Device
	owner   *ImageBrush
	current any
	closed  bool
}

// set makes obj the object registered for the owner.
func (r *resource) set(obj any) {
	if r.current != nil {
		r.device.UnregisterResource(r.current)
	}
	r.current = obj
	canvas.RegisterResource(r.device, obj, r.owner)
}

// close unregisters the current object and marks the owner closed.
func (r *resource) close() {
	if r.current != nil {
		r.device.UnregisterResource(r.current)
		r.current = nil
	}
	r.closed = true
}

// ensureOpen fails once either the owner or its device is closed.
func (r *resource) ensureOpen() error {
	if r.closed {
		return canvas.ErrClosed
	}
	return r.device.EnsureNotClosed()
}
