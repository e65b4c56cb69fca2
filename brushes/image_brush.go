// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package brushes

import (
	"errors"
	"fmt"
	"sync"

	"github.com/gogpu/canvas"
	"github.com/gogpu/canvas/internal/native"
)

// ImageBrush paints with a bitmap or with any other image, including effects.
//
// Internally it holds one of two native brushes. A bitmap-tiling brush is
// used while the image is a plain *canvas.Bitmap and no source rectangle is
// set. Anything else needs the general image brush. The brush switches
// between them as the image and source rectangle change, carrying over
// extend modes, interpolation, opacity and transform.
//
// A general image brush can only be drawn once a source rectangle is set.
//
// ImageBrush is safe for concurrent use.
type ImageBrush struct {
	device *canvas.Device

	mu            sync.Mutex
	rep           representation
	sourceRectSet bool
	pendingDPI    canvas.Effect // effect to realize at draw time, if any
	res           resource
}

var _ canvas.Brush = (*ImageBrush)(nil)

// NewImageBrush creates a brush on the creator's device. img may be nil, in
// which case the brush starts as an empty bitmap brush.
func NewImageBrush(rc canvas.ResourceCreator, img canvas.Image) (*ImageBrush, error) {
	if rc == nil {
		return nil, fmt.Errorf("%w: nil resource creator", canvas.ErrInvalidArgument)
	}
	d := rc.Device()
	if err := d.EnsureNotClosed(); err != nil {
		return nil, err
	}

	b := &ImageBrush{device: d}
	b.res = resource{device: d, owner: b}

	var err error
	if img != nil {
		err = b.setImage(img)
	} else {
		err = b.switchToBitmap(nil)
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

// WrapNativeImageBrush adopts an existing native image brush. The brush is
// treated as having a source rectangle, so it starts as a general image brush
// and can be drawn immediately. The ImageBrush takes ownership: Close releases
// nb.
func WrapNativeImageBrush(device *canvas.Device, nb *native.ImageBrush) (*ImageBrush, error) {
	if device == nil || nb == nil {
		return nil, fmt.Errorf("%w: nil device or native brush", canvas.ErrInvalidArgument)
	}
	if err := device.EnsureNotClosed(); err != nil {
		return nil, err
	}
	if nb.Released() {
		return nil, fmt.Errorf("%w: native brush already released", canvas.ErrClosed)
	}
	if nb.Owner() != device.Native() {
		return nil, canvas.ErrDeviceMismatch
	}

	b := &ImageBrush{device: device, rep: generalRep(nb), sourceRectSet: true}
	b.res = resource{device: device, owner: b}
	b.res.set(nb)
	if effect, ok := device.LookupImage(nb.Image()).(canvas.Effect); ok {
		b.pendingDPI = effect
	}
	return b, nil
}

// Device returns the owning device.
func (b *ImageBrush) Device() (*canvas.Device, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.res.ensureOpen(); err != nil {
		return nil, err
	}
	return b.device, nil
}

// Image returns the bound image, or nil if none is bound.
func (b *ImageBrush) Image() (canvas.Image, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.res.ensureOpen(); err != nil {
		return nil, err
	}
	return b.device.ImageFor(b.rep.image())
}

// SetImage binds img. nil unbinds the current image without changing the
// source rectangle.
func (b *ImageBrush) SetImage(img canvas.Image) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.res.ensureOpen(); err != nil {
		return err
	}
	return b.setImage(img)
}

func (b *ImageBrush) setImage(img canvas.Image) (err error) {
	prevFixup := b.pendingDPI
	b.pendingDPI = nil
	defer func() {
		if err != nil {
			b.pendingDPI = prevFixup
		}
	}()

	if img == nil {
		b.rep.clearImage()
		return nil
	}

	if bitmap, ok := img.(*canvas.Bitmap); ok && !b.sourceRectSet {
		nb, err := b.device.NativeBitmap(bitmap)
		if err != nil {
			return err
		}
		if bb, ok := b.rep.asBitmap(); ok {
			bb.SetBitmap(nb)
			return nil
		}
		return b.switchToBitmap(nb)
	}

	ni, err := b.device.NativeImage(img)
	if err != nil {
		return err
	}
	if ib, ok := b.rep.asGeneral(); ok {
		ib.SetImage(ni)
	} else if err := b.switchToGeneral(ni); err != nil {
		return err
	}

	// Effects depend on the target DPI, which is only known when drawing.
	if effect, ok := img.(canvas.Effect); ok {
		b.pendingDPI = effect
	}
	return nil
}

// ExtendX returns the horizontal edge behavior.
func (b *ImageBrush) ExtendX() (canvas.EdgeBehavior, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.res.ensureOpen(); err != nil {
		return 0, err
	}
	return canvas.EdgeBehavior(b.rep.brush.ExtendModeX()), nil
}

// SetExtendX sets the horizontal edge behavior.
func (b *ImageBrush) SetExtendX(v canvas.EdgeBehavior) error {
	if !v.Valid() {
		return fmt.Errorf("%w: %v", canvas.ErrInvalidArgument, v)
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.res.ensureOpen(); err != nil {
		return err
	}
	b.rep.brush.SetExtendModeX(v.Native())
	return nil
}

// ExtendY returns the vertical edge behavior.
func (b *ImageBrush) ExtendY() (canvas.EdgeBehavior, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.res.ensureOpen(); err != nil {
		return 0, err
	}
	return canvas.EdgeBehavior(b.rep.brush.ExtendModeY()), nil
}

// SetExtendY sets the vertical edge behavior.
func (b *ImageBrush) SetExtendY(v canvas.EdgeBehavior) error {
	if !v.Valid() {
		return fmt.Errorf("%w: %v", canvas.ErrInvalidArgument, v)
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.res.ensureOpen(); err != nil {
		return err
	}
	b.rep.brush.SetExtendModeY(v.Native())
	return nil
}

// Interpolation returns the resampling mode.
func (b *ImageBrush) Interpolation() (canvas.ImageInterpolation, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.res.ensureOpen(); err != nil {
		return 0, err
	}
	return canvas.ImageInterpolation(b.rep.brush.InterpolationMode()), nil
}

// SetInterpolation sets the resampling mode.
func (b *ImageBrush) SetInterpolation(v canvas.ImageInterpolation) error {
	if !v.Valid() {
		return fmt.Errorf("%w: %v", canvas.ErrInvalidArgument, v)
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.res.ensureOpen(); err != nil {
		return err
	}
	b.rep.brush.SetInterpolationMode(v.Native())
	return nil
}

// SourceRectangle returns the explicitly set source rectangle in image
// pixels, or nil if none is set.
func (b *ImageBrush) SourceRectangle() (*canvas.Rect, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.res.ensureOpen(); err != nil {
		return nil, err
	}

	ib, ok := b.rep.asGeneral()
	if !ok || !b.sourceRectSet {
		return nil, nil
	}
	r := canvas.RectFromNative(ib.SourceRectangle())
	return &r, nil
}

// SetSourceRectangle restricts drawing to r, in image pixels. Setting a
// rectangle switches to the general image brush. nil clears it and returns
// to the bitmap brush when the bound image allows.
func (b *ImageBrush) SetSourceRectangle(r *canvas.Rect) error {
	if r != nil {
		if err := r.Validate(); err != nil {
			return err
		}
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.res.ensureOpen(); err != nil {
		return err
	}

	if bb, ok := b.rep.asBitmap(); ok {
		assertf(!b.sourceRectSet, "bitmap brush with a source rectangle")
		if r == nil {
			return nil
		}

		var img native.Image
		if bm := bb.Bitmap(); bm != nil {
			img = bm
		}
		if err := b.switchToGeneral(img); err != nil {
			return err
		}
		ib, _ := b.rep.asGeneral()
		ib.SetSourceRectangle(r.Native())
		b.sourceRectSet = true
		return nil
	}

	ib, _ := b.rep.asGeneral()
	if r != nil {
		ib.SetSourceRectangle(r.Native())
		b.sourceRectSet = true
		return nil
	}

	ib.SetSourceRectangle(native.RectF{})
	b.sourceRectSet = false
	b.trySwitchFromGeneralToBitmap()
	return nil
}

// Opacity returns the brush opacity in [0, 1].
func (b *ImageBrush) Opacity() (float32, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	nb, err := b.resolve(nil, canvas.BrushNoValidation)
	if err != nil {
		return 0, err
	}
	return nb.Opacity(), nil
}

// SetOpacity sets the brush opacity, clamped to [0, 1].
func (b *ImageBrush) SetOpacity(v float32) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	nb, err := b.resolve(nil, canvas.BrushNoValidation)
	if err != nil {
		return err
	}
	nb.SetOpacity(v)
	return nil
}

// Transform returns the brush transform.
func (b *ImageBrush) Transform() (canvas.Matrix, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	nb, err := b.resolve(nil, canvas.BrushNoValidation)
	if err != nil {
		return canvas.Matrix{}, err
	}
	return canvas.MatrixFromNative(nb.Transform()), nil
}

// SetTransform sets the brush transform, mapping image space to drawing space.
func (b *ImageBrush) SetTransform(m canvas.Matrix) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	nb, err := b.resolve(nil, canvas.BrushNoValidation)
	if err != nil {
		return err
	}
	nb.SetTransform(m.Native())
	return nil
}

// Close releases the native brush. Every later call fails with
// canvas.ErrClosed; closing again is a no-op.
func (b *ImageBrush) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.res.closed {
		return nil
	}
	if b.rep.brush != nil {
		b.rep.brush.Release()
	}
	b.rep = representation{}
	b.sourceRectSet = false
	b.pendingDPI = nil
	b.res.close()
	return nil
}

// ResolveForDrawing returns the native brush to draw into ds with.
//
// A bitmap brush is always ready. A general image brush fails with
// canvas.ErrInvalidConfiguration when no source rectangle is set, unless
// flags has canvas.BrushNoValidation. If the bound image is an effect and ds
// is non-nil, the effect is realized for the session DPI first.
//
// The result is only valid until the next call that may switch
// representation; do not cache it.
func (b *ImageBrush) ResolveForDrawing(ds *canvas.DrawingSession, flags canvas.BrushFlags) (native.Brush, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.resolve(ds, flags)
}

// Paint implements canvas.Brush. fn runs with the brush locked.
func (b *ImageBrush) Paint(ds *canvas.DrawingSession, flags canvas.BrushFlags, fn func(native.Brush) error) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	nb, err := b.resolve(ds, flags)
	if err != nil {
		return err
	}
	return fn(nb)
}

func (b *ImageBrush) resolve(ds *canvas.DrawingSession, flags canvas.BrushFlags) (native.Brush, error) {
	if err := b.res.ensureOpen(); err != nil {
		return nil, err
	}
	if ds != nil && ds.Device() != b.device {
		return nil, canvas.ErrDeviceMismatch
	}

	if bb, ok := b.rep.asBitmap(); ok {
		return bb, nil
	}

	ib, _ := b.rep.asGeneral()
	if !flags.Has(canvas.BrushNoValidation) && !b.sourceRectSet {
		return nil, canvas.ErrInvalidConfiguration
	}

	if b.pendingDPI != nil && ds != nil {
		dpi := ds.DPI()
		if flags.Has(canvas.BrushAlwaysInsertDPICompensation) {
			dpi = canvas.ForceDPICompensation
		}
		if err := b.pendingDPI.RealizeEffectNode(ds, dpi); err != nil {
			return nil, fmt.Errorf("brushes: realize effect: %w", err)
		}
	}
	return ib, nil
}

// UnderlyingImage returns the native image bound to the live brush, or nil.
func (b *ImageBrush) UnderlyingImage() (native.Image, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.res.ensureOpen(); err != nil {
		return nil, err
	}
	return b.rep.image(), nil
}

// NativeResource returns the live native brush for interop after checking
// that device owns this brush. kind selects which native brush type the
// caller can accept.
//
// The DPI argument is not forwarded to a bound effect; effects are only
// realized while drawing.
func (b *ImageBrush) NativeResource(device *canvas.Device, _ float32, kind canvas.ResourceKind) (native.Brush, error) {
	if device == nil {
		return nil, fmt.Errorf("%w: nil device", canvas.ErrInvalidArgument)
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.res.ensureOpen(); err != nil {
		return nil, err
	}
	if device != b.device {
		return nil, canvas.ErrDeviceMismatch
	}

	switch kind {
	case canvas.ResourceAnyBrush:
		return b.rep.brush, nil
	case canvas.ResourceBitmapBrush:
		if bb, ok := b.rep.asBitmap(); ok {
			return bb, nil
		}
	case canvas.ResourceImageBrush:
		if ib, ok := b.rep.asGeneral(); ok {
			return ib, nil
		}
	}
	return nil, fmt.Errorf("%w: %v from %v brush", canvas.ErrUnsupportedResource, kind, b.rep.kind)
}

// switchToGeneral replaces the live brush with a general image brush bound
// to img. The new brush is created before anything is changed.
func (b *ImageBrush) switchToGeneral(img native.Image) error {
	assertf(b.rep.kind != repGeneral, "switch to image brush while already one")

	next, err := b.device.BrushFactory().CreateImageBrush(img)
	if err != nil {
		return fmt.Errorf("brushes: create image brush: %w", nativeError(err))
	}
	b.replace(generalRep(next))
	return nil
}

// switchToBitmap replaces the live brush with a bitmap brush bound to bitmap,
// which may be nil.
func (b *ImageBrush) switchToBitmap(bitmap *native.Bitmap) error {
	assertf(b.rep.kind != repBitmap, "switch to bitmap brush while already one")
	assertf(!b.sourceRectSet, "switch to bitmap brush with a source rectangle")

	next, err := b.device.BrushFactory().CreateBitmapBrush(bitmap)
	if err != nil {
		return fmt.Errorf("brushes: create bitmap brush: %w", nativeError(err))
	}
	b.replace(bitmapRep(next))
	return nil
}

// replace copies the shared style from the old brush, releases it and
// registers the new one.
func (b *ImageBrush) replace(next representation) {
	prev := b.rep
	if prev.brush != nil {
		native.ReadStyle(prev.brush).Apply(next.brush)
		prev.brush.Release()
	}
	b.rep = next
	b.res.set(next.brush)

	b.device.Logger().Debug("brushes: image brush switched",
		"from", prev.kind, "to", next.kind, "sourceRect", b.sourceRectSet)
}

// trySwitchFromGeneralToBitmap returns to the bitmap brush when the bound
// image is a plain bitmap or nothing. It is only an optimization, so a
// failure leaves the general brush in place.
func (b *ImageBrush) trySwitchFromGeneralToBitmap() {
	ib, ok := b.rep.asGeneral()
	assertf(ok, "downgrade from %v brush", b.rep.kind)
	assertf(!b.sourceRectSet, "downgrade with a source rectangle")

	var bitmap *native.Bitmap
	if img := ib.Image(); img != nil {
		bitmap, ok = img.(*native.Bitmap)
		if !ok {
			return
		}
	}

	if err := b.switchToBitmap(bitmap); err != nil {
		b.device.Logger().Warn("brushes: keeping image brush", "err", err)
	}
}

// nativeError maps engine errors onto the public taxonomy.
func nativeError(err error) error {
	switch {
	case errors.Is(err, native.ErrWrongDevice):
		return fmt.Errorf("%w: %w", canvas.ErrDeviceMismatch, err)
	case errors.Is(err, native.ErrDeviceClosed):
		return fmt.Errorf("%w: %w", canvas.ErrClosed, err)
	default:
		return err
	}
}
