// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package canvas

import (
	"errors"
	"fmt"
	stdimage "image"
	"sync"

	"github.com/anthonynsimon/bild/blur"
	"github.com/anthonynsimon/bild/clone"
	"github.com/anthonynsimon/bild/transform"
	"github.com/chewxy/math32"

	"github.com/gogpu/canvas/internal/cache"
	pixbuf "github.com/gogpu/canvas/internal/image"
	"github.com/gogpu/canvas/internal/native"
)

// Effect is an image computed from other images. Its output depends on the
// DPI of the target it is drawn onto, so it is realized lazily, once the
// target DPI is known.
type Effect interface {
	Image

	// RealizeEffectNode configures the effect for drawing into ds at
	// targetDPI. targetDPI may be [ForceDPICompensation]. Realizing again
	// with unchanged inputs is cheap.
	RealizeEffectNode(ds *DrawingSession, targetDPI float32) error
}

// errNoSource is wrapped when an effect is realized without a source.
var errNoSource = errors.New("effect source is not set")

// outputCacheSize is how many realizations an effect keeps. Sessions at a
// few different DPIs can alternate without recomputing.
const outputCacheSize = 4

// outputKey identifies one realization of an effect.
type outputKey struct {
	dpi   float32
	force bool
}

// effectNode is the state shared by all effects: the engine node on the
// device the effect was first used with, and its recent outputs.
type effectNode struct {
	mu      sync.Mutex
	device  *Device
	node    *native.EffectNode
	source  Image
	dirty   bool
	outputs *cache.LRU[outputKey, *pixbuf.Buf]
	current outputKey // key of the output held by node
	valid   bool      // current is meaningful
}

// effectOwner is a concrete effect that can register itself as the wrapper
// of its engine node.
type effectOwner interface {
	Effect
	register(d *Device, n *native.EffectNode)
}

// graphMu serializes source changes so that concurrent SetSource calls
// cannot close a cycle between them.
var graphMu sync.Mutex

// nodeFor returns the engine node, creating it on first use. An effect is
// bound to the first device it is used with.
func (e *effectNode) nodeFor(d *Device, owner effectOwner) (*native.EffectNode, error) {
	if e.node != nil {
		if e.device != d {
			return nil, ErrDeviceMismatch
		}
		return e.node, nil
	}
	n, err := d.native.CreateEffectNode()
	if err != nil {
		return nil, fmt.Errorf("canvas: create effect node: %w", err)
	}
	e.device, e.node = d, n
	owner.register(d, n)
	return n, nil
}

// setSource replaces the input of owner. A source that already depends on
// owner would make realization recurse forever, so it is rejected.
func (e *effectNode) setSource(owner Effect, src Image) error {
	graphMu.Lock()
	defer graphMu.Unlock()
	for cur := src; cur != nil; {
		if cur == owner {
			return fmt.Errorf("%w: effect source forms a cycle", ErrInvalidArgument)
		}
		s, ok := cur.(interface{ Source() Image })
		if !ok {
			break
		}
		cur = s.Source()
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.source = src
	e.dirty = true
	return nil
}

func (e *effectNode) Source() Image {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.source
}

func (e *effectNode) invalidate() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.dirty = true
}

// realize runs op over the source pixels and stores the result in the node,
// unless the node is already up to date for targetDPI.
func (e *effectNode) realize(owner effectOwner, ds *DrawingSession, targetDPI float32, op func(src *stdimage.RGBA, dpi float32) *stdimage.RGBA) error {
	if ds == nil {
		return fmt.Errorf("%w: nil drawing session", ErrInvalidArgument)
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	d := ds.Device()
	if err := d.EnsureNotClosed(); err != nil {
		return err
	}
	node, err := e.nodeFor(d, owner)
	if err != nil {
		return err
	}
	dpi := targetDPI
	force := targetDPI == ForceDPICompensation
	if force {
		dpi = ds.DPI()
	}

	if e.outputs == nil {
		e.outputs = cache.NewLRU[outputKey, *pixbuf.Buf](outputCacheSize)
	}
	// Effect inputs may have changed since the last realization, so only
	// bitmap-fed effects are served from cached outputs.
	_, chained := e.source.(Effect)
	if e.dirty || chained {
		e.outputs.Clear()
		e.valid = false
	}
	key := outputKey{dpi: dpi, force: force}
	if e.valid && e.current == key {
		return nil
	}
	if buf, ok := e.outputs.Get(key); ok {
		node.SetOutput(buf, dpi)
		e.current, e.valid = key, true
		return nil
	}

	src, err := sourcePixels(ds, e.source, targetDPI, dpi, force)
	if err != nil {
		return err
	}
	out := op(src, dpi)

	buf, err := pixbuf.FromRGBA(out)
	if err != nil {
		return fmt.Errorf("canvas: realize effect: %w", err)
	}
	e.outputs.Put(key, buf)
	node.SetOutput(buf, dpi)
	e.current, e.valid, e.dirty = key, true, false

	d.logger().Debug("canvas: effect realized",
		"effect", fmt.Sprintf("%T", owner), "dpi", dpi, "forced", force,
		"width", out.Bounds().Dx(), "height", out.Bounds().Dy())
	return nil
}

func (e *effectNode) nativeImage(d *Device, owner effectOwner) (native.Image, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	n, err := e.nodeFor(d, owner)
	if err != nil {
		return nil, err
	}
	return n, nil
}

// sourcePixels produces the input of an effect at dpi. Bitmap inputs whose
// DPI differs from dpi are resampled; with force they are resampled always.
func sourcePixels(ds *DrawingSession, src Image, targetDPI, dpi float32, force bool) (*stdimage.RGBA, error) {
	d := ds.Device()
	switch s := src.(type) {
	case nil:
		return nil, fmt.Errorf("%w: %w", ErrInvalidArgument, errNoSource)
	case *Bitmap:
		nb, err := d.NativeBitmap(s)
		if err != nil {
			return nil, err
		}
		rgba := nb.Pixels().ToRGBA()
		if !force && s.DPI() == dpi {
			return rgba, nil
		}
		scale := dpi / s.DPI()
		w := max(1, int(math32.Round(float32(rgba.Bounds().Dx())*scale)))
		h := max(1, int(math32.Round(float32(rgba.Bounds().Dy())*scale)))
		return transform.Resize(rgba, w, h, transform.Linear), nil
	case Effect:
		if err := s.RealizeEffectNode(ds, targetDPI); err != nil {
			return nil, err
		}
		n, err := d.NativeImage(s)
		if err != nil {
			return nil, err
		}
		if n.Pixels() == nil {
			return nil, fmt.Errorf("%w: effect input produced no pixels", ErrInvalidArgument)
		}
		return n.Pixels().ToRGBA(), nil
	default:
		return nil, fmt.Errorf("%w: unsupported effect source %T", ErrInvalidArgument, src)
	}
}

// GaussianBlurEffect blurs its source. The blur amount is in
// device-independent pixels and is scaled to the target DPI.
type GaussianBlurEffect struct {
	effectNode
	amount float32
}

// NewGaussianBlurEffect creates a blur of source by amount DIPs.
func NewGaussianBlurEffect(source Image, amount float32) *GaussianBlurEffect {
	e := &GaussianBlurEffect{amount: amount}
	e.source, e.dirty = source, true
	return e
}

// SetSource replaces the input image. It fails with ErrInvalidArgument if
// src depends on e.
func (e *GaussianBlurEffect) SetSource(src Image) error { return e.setSource(e, src) }

// BlurAmount returns the blur radius in DIPs.
func (e *GaussianBlurEffect) BlurAmount() float32 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.amount
}

// SetBlurAmount sets the blur radius in DIPs.
func (e *GaussianBlurEffect) SetBlurAmount(amount float32) {
	e.mu.Lock()
	e.amount = amount
	e.mu.Unlock()
	e.invalidate()
}

// RealizeEffectNode implements Effect.
func (e *GaussianBlurEffect) RealizeEffectNode(ds *DrawingSession, targetDPI float32) error {
	return e.realize(e, ds, targetDPI, func(src *stdimage.RGBA, dpi float32) *stdimage.RGBA {
		radius := e.amount * dpi / DefaultDPI
		if radius <= 0 {
			return clone.AsRGBA(src)
		}
		return blur.Gaussian(src, float64(radius))
	})
}

func (e *GaussianBlurEffect) nativeImage(d *Device) (native.Image, error) {
	return e.effectNode.nativeImage(d, e)
}

func (e *GaussianBlurEffect) register(d *Device, n *native.EffectNode) { RegisterResource(d, n, e) }

// ScaleEffect resizes its source by a factor on each axis.
type ScaleEffect struct {
	effectNode
	sx, sy float32
}

// NewScaleEffect creates a resize of source by (sx, sy).
func NewScaleEffect(source Image, sx, sy float32) *ScaleEffect {
	e := &ScaleEffect{sx: sx, sy: sy}
	e.source, e.dirty = source, true
	return e
}

// SetSource replaces the input image. It fails with ErrInvalidArgument if
// src depends on e.
func (e *ScaleEffect) SetSource(src Image) error { return e.setSource(e, src) }

// Scale returns the scale factors.
func (e *ScaleEffect) Scale() (sx, sy float32) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.sx, e.sy
}

// SetScale sets the scale factors.
func (e *ScaleEffect) SetScale(sx, sy float32) {
	e.mu.Lock()
	e.sx, e.sy = sx, sy
	e.mu.Unlock()
	e.invalidate()
}

// RealizeEffectNode implements Effect.
func (e *ScaleEffect) RealizeEffectNode(ds *DrawingSession, targetDPI float32) error {
	return e.realize(e, ds, targetDPI, func(src *stdimage.RGBA, _ float32) *stdimage.RGBA {
		w := max(1, int(math32.Round(float32(src.Bounds().Dx())*math32.Abs(e.sx))))
		h := max(1, int(math32.Round(float32(src.Bounds().Dy())*math32.Abs(e.sy))))
		return transform.Resize(src, w, h, transform.Linear)
	})
}

func (e *ScaleEffect) nativeImage(d *Device) (native.Image, error) {
	return e.effectNode.nativeImage(d, e)
}

func (e *ScaleEffect) register(d *Device, n *native.EffectNode) { RegisterResource(d, n, e) }

// OpacityEffect multiplies its source by a constant opacity in [0, 1].
type OpacityEffect struct {
	effectNode
	opacity float32
}

// NewOpacityEffect creates a fade of source to opacity.
func NewOpacityEffect(source Image, opacity float32) *OpacityEffect {
	e := &OpacityEffect{opacity: clamp01(opacity)}
	e.source, e.dirty = source, true
	return e
}

// SetSource replaces the input image. It fails with ErrInvalidArgument if
// src depends on e.
func (e *OpacityEffect) SetSource(src Image) error { return e.setSource(e, src) }

// Opacity returns the opacity.
func (e *OpacityEffect) Opacity() float32 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.opacity
}

// SetOpacity sets the opacity, clamped to [0, 1].
func (e *OpacityEffect) SetOpacity(opacity float32) {
	e.mu.Lock()
	e.opacity = clamp01(opacity)
	e.mu.Unlock()
	e.invalidate()
}

// RealizeEffectNode implements Effect.
func (e *OpacityEffect) RealizeEffectNode(ds *DrawingSession, targetDPI float32) error {
	return e.realize(e, ds, targetDPI, func(src *stdimage.RGBA, _ float32) *stdimage.RGBA {
		out := clone.AsRGBA(src)
		if e.opacity == 1 {
			return out
		}
		// Pixels are premultiplied, so every channel scales alike.
		for i, v := range out.Pix {
			out.Pix[i] = uint8(math32.Round(float32(v) * e.opacity))
		}
		return out
	})
}

func (e *OpacityEffect) nativeImage(d *Device) (native.Image, error) {
	return e.effectNode.nativeImage(d, e)
}

func (e *OpacityEffect) register(d *Device, n *native.EffectNode) { RegisterResource(d, n, e) }

func clamp01(v float32) float32 {
	return math32.Max(0, math32.Min(1, v))
}

var (
	_ effectOwner = (*GaussianBlurEffect)(nil)
	_ effectOwner = (*ScaleEffect)(nil)
	_ effectOwner = (*OpacityEffect)(nil)
)
