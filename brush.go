// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package canvas

import "github.com/gogpu/canvas/internal/native"

// BrushFlags modify how a brush is resolved for drawing.
type BrushFlags uint8

const (
	// BrushNone requests default resolution.
	BrushNone BrushFlags = 0

	// BrushNoValidation skips configuration checks. Property accessors use it
	// to reach the native brush outside of drawing.
	BrushNoValidation BrushFlags = 1 << (iota - 1)

	// BrushAlwaysInsertDPICompensation realizes effect inputs at
	// [ForceDPICompensation] instead of the session DPI.
	BrushAlwaysInsertDPICompensation
)

// Has reports whether all bits of f2 are set in f.
func (f BrushFlags) Has(f2 BrushFlags) bool {
	return f&f2 == f2
}

// ForceDPICompensation is passed to [Effect.RealizeEffectNode] in place of a
// real DPI to force bitmap inputs to be resampled to the session DPI even
// when their DPI already matches.
const ForceDPICompensation float32 = -1

// Brush is what a DrawingSession fills with.
//
// Paint resolves the native brush for drawing into ds and calls fn with it.
// Implementations hold their lock while fn runs so the native brush cannot
// change mid-fill; fn must not call back into the brush.
type Brush interface {
	Paint(ds *DrawingSession, flags BrushFlags, fn func(native.Brush) error) error
	Close() error
}

// ResourceKind names the native interface requested from an interop query.
type ResourceKind uint8

const (
	// ResourceAnyBrush accepts whichever native brush is live.
	ResourceAnyBrush ResourceKind = iota

	// ResourceBitmapBrush requires the bitmap-tiling brush.
	ResourceBitmapBrush

	// ResourceImageBrush requires the general image brush.
	ResourceImageBrush
)

// String returns the name of the resource kind.
func (k ResourceKind) String() string {
	switch k {
	case ResourceAnyBrush:
		return "AnyBrush"
	case ResourceBitmapBrush:
		return "BitmapBrush"
	case ResourceImageBrush:
		return "ImageBrush"
	default:
		return "Unknown"
	}
}
