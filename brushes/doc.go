// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package brushes provides brushes that paint with images.
//
// [ImageBrush] accepts any [canvas.Image]. Plain bitmaps are drawn with a
// fast tiling brush; effects, and bitmaps cropped with a source rectangle,
// use a general image brush. The switch between the two is invisible to
// callers: extend modes, interpolation, opacity and transform carry over.
//
// Example:
//
//	bmp, _ := canvas.LoadBitmap(dev, f, 0)
//	b, _ := brushes.NewImageBrush(dev, bmp)
//	b.SetExtendX(canvas.EdgeBehaviorWrap)
//	b.SetExtendY(canvas.EdgeBehaviorWrap)
//	ds.FillRectangle(canvas.NewRect(0, 0, 512, 512), b)
//
// Build with -tags canvasdebug to turn internal invariant checks into panics.
package brushes
