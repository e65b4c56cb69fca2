package image

import "math"

// ExtendMode determines how a brush samples outside its tile.
// Values match the engine's numeric extend modes.
type ExtendMode uint8

const (
	// ExtendClamp repeats the edge pixels.
	ExtendClamp ExtendMode = iota

	// ExtendWrap tiles the image.
	ExtendWrap

	// ExtendMirror tiles the image, flipping every other tile.
	ExtendMirror
)

// String returns a string representation of the extend mode.
func (m ExtendMode) String() string {
	switch m {
	case ExtendClamp:
		return "Clamp"
	case ExtendWrap:
		return "Wrap"
	case ExtendMirror:
		return "Mirror"
	default:
		return unknownMode
	}
}

// Valid reports whether m is one of the defined modes.
func (m ExtendMode) Valid() bool {
	return m <= ExtendMirror
}

// apply maps a tile-relative coordinate onto [0, 1].
func (m ExtendMode) apply(t float64) float64 {
	switch m {
	case ExtendWrap:
		return t - math.Floor(t)
	case ExtendMirror:
		return reflectCoord(t)
	default:
		return clampFloat(t, 0, 1)
	}
}

// reflectCoord mirrors t at each integer boundary.
func reflectCoord(t float64) float64 {
	ti := math.Floor(t)
	tf := t - ti
	if int64(ti)%2 != 0 {
		return 1.0 - tf
	}
	return tf
}
