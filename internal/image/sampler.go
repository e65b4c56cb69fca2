package image

// RectF is an axis-aligned rectangle in pixel units.
type RectF struct {
	X, Y, W, H float64
}

// Empty reports whether the rectangle has no area.
func (r RectF) Empty() bool {
	return r.W <= 0 || r.H <= 0
}

// Sampler maps brush-space points onto a tile of a pixel buffer.
//
// The sampling process:
//  1. Apply the inverse brush transform to reach image space
//  2. Express the point relative to the tile and apply the per-axis extend mode
//  3. Interpolate the buffer at the resulting pixel position
//  4. Scale by opacity
type Sampler struct {
	buf     *Buf
	tile    RectF
	extendX ExtendMode
	extendY ExtendMode
	interp  Interpolation
	opacity float64
	inverse Affine
	ok      bool
}

// NewSampler prepares a sampler over tile of buf. A nil buffer, an empty tile
// or a singular transform produce a sampler that always returns transparent.
func NewSampler(buf *Buf, tile RectF, extendX, extendY ExtendMode, interp Interpolation, opacity float64, transform Affine) *Sampler {
	inv, invertible := transform.Invert()
	return &Sampler{
		buf:     buf,
		tile:    tile,
		extendX: extendX,
		extendY: extendY,
		interp:  interp,
		opacity: clampFloat(opacity, 0, 1),
		inverse: inv,
		ok:      buf != nil && !tile.Empty() && invertible,
	}
}

// Sample returns the premultiplied color at brush-space point (x, y).
func (s *Sampler) Sample(x, y float64) (r, g, b, a uint8) {
	if s == nil || !s.ok || s.opacity == 0 {
		return 0, 0, 0, 0
	}

	u, v := s.inverse.TransformPoint(x, y)

	tu := s.extendX.apply((u - s.tile.X) / s.tile.W)
	tv := s.extendY.apply((v - s.tile.Y) / s.tile.H)

	// Keep the sample position inside the tile so clamped and wrapped
	// samples never read the column or row just past its edge.
	px := clampFloat(s.tile.X+tu*s.tile.W, s.tile.X, s.tile.X+s.tile.W-1e-6)
	py := clampFloat(s.tile.Y+tv*s.tile.H, s.tile.Y, s.tile.Y+s.tile.H-1e-6)

	r, g, b, a = SampleAt(s.buf, px, py, s.interp)

	if s.opacity < 1 {
		r = toByte(float64(r) * s.opacity)
		g = toByte(float64(g) * s.opacity)
		b = toByte(float64(b) * s.opacity)
		a = toByte(float64(a) * s.opacity)
	}
	return r, g, b, a
}
