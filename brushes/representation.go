// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package brushes

import (
	"github.com/gogpu/canvas/internal/native"
)

// repKind tags which native brush an ImageBrush currently holds.
type repKind uint8

const (
	repNone repKind = iota // only after Close
	repBitmap
	repGeneral
)

func (k repKind) String() string {
	switch k {
	case repBitmap:
		return "bitmap"
	case repGeneral:
		return "image"
	default:
		return "none"
	}
}

// representation holds exactly one native brush. It is built only through
// bitmapRep and generalRep, so the tag always matches the payload.
type representation struct {
	kind  repKind
	brush native.Brush
}

func bitmapRep(b *native.BitmapBrush) representation {
	return representation{kind: repBitmap, brush: b}
}

func generalRep(b *native.ImageBrush) representation {
	return representation{kind: repGeneral, brush: b}
}

func (r representation) asBitmap() (*native.BitmapBrush, bool) {
	if r.kind != repBitmap {
		return nil, false
	}
	return r.brush.(*native.BitmapBrush), true
}

func (r representation) asGeneral() (*native.ImageBrush, bool) {
	if r.kind != repGeneral {
		return nil, false
	}
	return r.brush.(*native.ImageBrush), true
}

// image returns the image bound to the live brush, or nil.
func (r representation) image() native.Image {
	switch r.kind {
	case repBitmap:
		if bm := r.brush.(*native.BitmapBrush).Bitmap(); bm != nil {
			return bm
		}
	case repGeneral:
		return r.brush.(*native.ImageBrush).Image()
	}
	return nil
}

// clearImage unbinds the image from the live brush without switching.
func (r representation) clearImage() {
	switch r.kind {
	case repBitmap:
		r.brush.(*native.BitmapBrush).SetBitmap(nil)
	case repGeneral:
		r.brush.(*native.ImageBrush).SetImage(nil)
	}
}
