// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package native

import (
	"github.com/gogpu/canvas/internal/image"
)

// Brush is the property surface both native brush types share.
type Brush interface {
	Owner() *Device

	ExtendModeX() ExtendMode
	SetExtendModeX(ExtendMode)
	ExtendModeY() ExtendMode
	SetExtendModeY(ExtendMode)
	InterpolationMode() Interpolation
	SetInterpolationMode(Interpolation)
	Opacity() float32
	SetOpacity(float32)
	Transform() Affine
	SetTransform(Affine)

	// Sampler snapshots the brush for filling.
	Sampler() *image.Sampler

	// Release frees the brush. Further use is a programming error.
	Release()
	Released() bool
}

// props holds the state common to both brush types.
type props struct {
	owner     *Device
	extendX   ExtendMode
	extendY   ExtendMode
	interp    Interpolation
	opacity   float32
	transform Affine
	released  bool
}

// newProps returns the engine defaults: clamp, linear, opaque, identity.
func newProps(owner *Device) props {
	return props{
		owner:     owner,
		extendX:   image.ExtendClamp,
		extendY:   image.ExtendClamp,
		interp:    image.InterpLinear,
		opacity:   1,
		transform: image.Identity(),
	}
}

func (p *props) Owner() *Device                       { return p.owner }
func (p *props) ExtendModeX() ExtendMode              { return p.extendX }
func (p *props) SetExtendModeX(m ExtendMode)          { p.extendX = m }
func (p *props) ExtendModeY() ExtendMode              { return p.extendY }
func (p *props) SetExtendModeY(m ExtendMode)          { p.extendY = m }
func (p *props) InterpolationMode() Interpolation     { return p.interp }
func (p *props) SetInterpolationMode(m Interpolation) { p.interp = m }
func (p *props) Opacity() float32                     { return p.opacity }
func (p *props) Transform() Affine                    { return p.transform }
func (p *props) SetTransform(m Affine)                { p.transform = m }
func (p *props) Released() bool                       { return p.released }

// SetOpacity clamps to [0, 1].
func (p *props) SetOpacity(v float32) {
	p.opacity = min(max(v, 0), 1)
}

// Release decrements the owner's live count once.
func (p *props) Release() {
	if p.released {
		return
	}
	p.released = true
	p.owner.live.Add(-1)
}

func (p *props) sampler(buf *image.Buf, tile RectF) *image.Sampler {
	return image.NewSampler(buf, tile, p.extendX, p.extendY, p.interp, float64(p.opacity), p.transform)
}

// BitmapBrush tiles a bitmap. It has no source rectangle: the tile is always
// the whole bitmap.
type BitmapBrush struct {
	props
	bitmap *Bitmap
}

// Bitmap returns the bound bitmap, or nil.
func (b *BitmapBrush) Bitmap() *Bitmap { return b.bitmap }

// SetBitmap rebinds the brush. nil clears it.
func (b *BitmapBrush) SetBitmap(bitmap *Bitmap) { b.bitmap = bitmap }

// Sampler implements Brush.
func (b *BitmapBrush) Sampler() *image.Sampler {
	if b.bitmap == nil {
		return image.NewSampler(nil, RectF{}, b.extendX, b.extendY, b.interp, 0, b.transform)
	}
	w, h := b.bitmap.Size()
	return b.sampler(b.bitmap.buf, RectF{W: float64(w), H: float64(h)})
}

// ImageBrush draws the source rectangle of any image. An empty source
// rectangle draws nothing.
type ImageBrush struct {
	props
	image      Image
	sourceRect RectF
}

// Image returns the bound image, or nil.
func (b *ImageBrush) Image() Image { return b.image }

// SetImage rebinds the brush. nil clears it.
func (b *ImageBrush) SetImage(img Image) { b.image = img }

// SourceRectangle returns the tile in image pixels.
func (b *ImageBrush) SourceRectangle() RectF { return b.sourceRect }

// SetSourceRectangle sets the tile in image pixels.
func (b *ImageBrush) SetSourceRectangle(r RectF) { b.sourceRect = r }

// Sampler implements Brush.
func (b *ImageBrush) Sampler() *image.Sampler {
	var buf *image.Buf
	if b.image != nil {
		buf = b.image.Pixels()
	}
	return b.sampler(buf, b.sourceRect)
}

// Style is the set of properties both brush types support.
type Style struct {
	ExtendX       ExtendMode
	ExtendY       ExtendMode
	Interpolation Interpolation
	Opacity       float32
	Transform     Affine
}

// ReadStyle captures the shared properties of b.
func ReadStyle(b Brush) Style {
	return Style{
		ExtendX:       b.ExtendModeX(),
		ExtendY:       b.ExtendModeY(),
		Interpolation: b.InterpolationMode(),
		Opacity:       b.Opacity(),
		Transform:     b.Transform(),
	}
}

// Apply writes the style to b in a fixed order: extend X, extend Y,
// interpolation, opacity, transform.
func (s Style) Apply(b Brush) {
	b.SetExtendModeX(s.ExtendX)
	b.SetExtendModeY(s.ExtendY)
	b.SetInterpolationMode(s.Interpolation)
	b.SetOpacity(s.Opacity)
	b.SetTransform(s.Transform)
}

var (
	_ Brush = (*BitmapBrush)(nil)
	_ Brush = (*ImageBrush)(nil)
)
