// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package canvas

import (
	"runtime"
	"weak"
)

// resourceRef weakly references the wrapper registered for a native object.
// It returns nil once the wrapper has been collected.
type resourceRef func() any

func weakRef[T any](wrapper *T) resourceRef {
	w := weak.Make(wrapper)
	return func() any {
		if p := w.Value(); p != nil {
			return p
		}
		return nil
	}
}

// RegisterResource associates a native object with the wrapper that exposes
// it, so the wrapper can be found again from the native object.
//
// The registry does not keep wrapper alive. Once it is collected the entry is
// dropped and the native object is released by the registry.
func RegisterResource[T any](d *Device, nativeObj any, wrapper *T) {
	if nativeObj == nil || wrapper == nil {
		return
	}
	d.mu.Lock()
	if d.closed.Load() {
		d.mu.Unlock()
		return
	}
	d.resources[nativeObj] = weakRef(wrapper)
	d.mu.Unlock()

	watchResource(d, nativeObj, wrapper)
}

// watchResource drops the entry for nativeObj after wrapper is collected.
// The cleanup holds only the key, never the wrapper.
func watchResource[T any](d *Device, nativeObj any, wrapper *T) {
	runtime.AddCleanup(wrapper, d.pruneResource, nativeObj)
}

// pruneResource removes nativeObj if its wrapper is gone. A wrapper
// registered again under the same key in the meantime is kept.
func (d *Device) pruneResource(nativeObj any) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if ref, ok := d.resources[nativeObj]; ok && ref() == nil {
		delete(d.resources, nativeObj)
	}
}

// UnregisterResource removes the association for nativeObj.
func (d *Device) UnregisterResource(nativeObj any) {
	if nativeObj == nil {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.resources, nativeObj)
}

// LookupResource returns the wrapper registered for nativeObj, or nil.
func (d *Device) LookupResource(nativeObj any) any {
	if nativeObj == nil {
		return nil
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.lookupLocked(nativeObj)
}

// lookupLocked returns the live wrapper for nativeObj, dropping the entry if
// the wrapper was collected. d.mu is held.
func (d *Device) lookupLocked(nativeObj any) any {
	ref, ok := d.resources[nativeObj]
	if !ok {
		return nil
	}
	w := ref()
	if w == nil {
		delete(d.resources, nativeObj)
	}
	return w
}
