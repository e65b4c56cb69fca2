// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package native

import (
	"sync"

	"github.com/gogpu/canvas/internal/image"
)

// Image is anything a general image brush can draw.
type Image interface {
	// Owner returns the device the image was created on.
	Owner() *Device

	// Pixels returns the current content, or nil if there is none yet.
	Pixels() *image.Buf
}

// Bitmap is an immutable pixel image.
type Bitmap struct {
	owner *Device
	buf   *image.Buf
	dpi   float32
}

// Owner implements Image.
func (b *Bitmap) Owner() *Device { return b.owner }

// Pixels implements Image.
func (b *Bitmap) Pixels() *image.Buf { return b.buf }

// DPI returns the bitmap's dots per inch.
func (b *Bitmap) DPI() float32 { return b.dpi }

// Size returns the size in pixels.
func (b *Bitmap) Size() (int, int) { return b.buf.Bounds() }

// EffectNode is the output of an effect realized for a particular DPI.
// Its content is replaced each time the owning effect is realized.
type EffectNode struct {
	owner *Device

	mu           sync.RWMutex
	output       *image.Buf
	dpi          float32
	realizations int
}

// Owner implements Image.
func (n *EffectNode) Owner() *Device { return n.owner }

// Pixels implements Image.
func (n *EffectNode) Pixels() *image.Buf {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.output
}

// SetOutput stores the realized content and the DPI it was realized for.
func (n *EffectNode) SetOutput(buf *image.Buf, dpi float32) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.output = buf
	n.dpi = dpi
	n.realizations++
}

// Realized returns the DPI of the last realization and whether there was one.
func (n *EffectNode) Realized() (dpi float32, ok bool) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.dpi, n.realizations > 0
}

// Realizations returns how many times SetOutput was called.
func (n *EffectNode) Realizations() int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.realizations
}
