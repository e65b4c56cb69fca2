package image

import "math"

// Interpolation selects the resampling filter. Values match the engine's
// numeric interpolation modes.
type Interpolation uint8

const (
	// InterpNearestNeighbor picks the closest pixel.
	InterpNearestNeighbor Interpolation = iota

	// InterpLinear blends the four nearest pixels.
	InterpLinear

	// InterpCubic uses a 4x4 Catmull-Rom kernel.
	InterpCubic

	// InterpMultiSampleLinear is sampled as InterpLinear.
	InterpMultiSampleLinear

	// InterpAnisotropic is sampled as InterpLinear.
	InterpAnisotropic

	// InterpHighQualityCubic is sampled as InterpCubic.
	InterpHighQualityCubic
)

const unknownMode = "Unknown"

// String returns a string representation of the interpolation mode.
func (m Interpolation) String() string {
	switch m {
	case InterpNearestNeighbor:
		return "NearestNeighbor"
	case InterpLinear:
		return "Linear"
	case InterpCubic:
		return "Cubic"
	case InterpMultiSampleLinear:
		return "MultiSampleLinear"
	case InterpAnisotropic:
		return "Anisotropic"
	case InterpHighQualityCubic:
		return "HighQualityCubic"
	default:
		return unknownMode
	}
}

// Valid reports whether m is one of the defined modes.
func (m Interpolation) Valid() bool {
	return m <= InterpHighQualityCubic
}

// SampleAt samples img at continuous pixel coordinates (x, y), where pixel
// (i, j) covers [i, i+1) x [j, j+1). Neighbours outside the buffer are
// clamped to the edge.
func SampleAt(img *Buf, x, y float64, mode Interpolation) (r, g, b, a uint8) {
	switch mode {
	case InterpNearestNeighbor:
		return sampleNearest(img, x, y)
	case InterpLinear, InterpMultiSampleLinear, InterpAnisotropic:
		return sampleBilinear(img, x, y)
	case InterpCubic, InterpHighQualityCubic:
		return sampleBicubic(img, x, y)
	default:
		return 0, 0, 0, 0
	}
}

func sampleNearest(img *Buf, x, y float64) (r, g, b, a uint8) {
	w, h := img.Bounds()
	px := clamp(int(math.Floor(x)), 0, w-1)
	py := clamp(int(math.Floor(y)), 0, h-1)
	return img.RGBA(px, py)
}

func sampleBilinear(img *Buf, x, y float64) (r, g, b, a uint8) {
	w, h := img.Bounds()

	fx := x - 0.5
	fy := y - 0.5
	x0 := int(math.Floor(fx))
	y0 := int(math.Floor(fy))
	tx := fx - float64(x0)
	ty := fy - float64(y0)

	x1 := clamp(x0+1, 0, w-1)
	y1 := clamp(y0+1, 0, h-1)
	x0 = clamp(x0, 0, w-1)
	y0 = clamp(y0, 0, h-1)

	r00, g00, b00, a00 := img.RGBA(x0, y0)
	r10, g10, b10, a10 := img.RGBA(x1, y0)
	r01, g01, b01, a01 := img.RGBA(x0, y1)
	r11, g11, b11, a11 := img.RGBA(x1, y1)

	r = toByte(lerp2D(float64(r00), float64(r10), float64(r01), float64(r11), tx, ty))
	g = toByte(lerp2D(float64(g00), float64(g10), float64(g01), float64(g11), tx, ty))
	b = toByte(lerp2D(float64(b00), float64(b10), float64(b01), float64(b11), tx, ty))
	a = toByte(lerp2D(float64(a00), float64(a10), float64(a01), float64(a11), tx, ty))
	return r, g, b, a
}

func sampleBicubic(img *Buf, x, y float64) (r, g, b, a uint8) {
	w, h := img.Bounds()

	fx := x - 0.5
	fy := y - 0.5
	x0 := int(math.Floor(fx))
	y0 := int(math.Floor(fy))
	tx := fx - float64(x0)
	ty := fy - float64(y0)

	var rv, gv, bv, av [4][4]float64
	for dy := -1; dy <= 2; dy++ {
		py := clamp(y0+dy, 0, h-1)
		for dx := -1; dx <= 2; dx++ {
			px := clamp(x0+dx, 0, w-1)
			pr, pg, pb, pa := img.RGBA(px, py)
			rv[dy+1][dx+1] = float64(pr)
			gv[dy+1][dx+1] = float64(pg)
			bv[dy+1][dx+1] = float64(pb)
			av[dy+1][dx+1] = float64(pa)
		}
	}

	a = toByte(bicubicInterp(av, tx, ty))
	// Premultiplied color must not exceed alpha after overshoot.
	r = min(toByte(bicubicInterp(rv, tx, ty)), a)
	g = min(toByte(bicubicInterp(gv, tx, ty)), a)
	b = min(toByte(bicubicInterp(bv, tx, ty)), a)
	return r, g, b, a
}

func clamp(val, lo, hi int) int {
	if val < lo {
		return lo
	}
	if val > hi {
		return hi
	}
	return val
}

func clampFloat(val, lo, hi float64) float64 {
	if val < lo {
		return lo
	}
	if val > hi {
		return hi
	}
	return val
}

func toByte(v float64) uint8 {
	return uint8(clampFloat(math.Round(v), 0, 255))
}

func lerp(a, b, t float64) float64 {
	return a*(1-t) + b*t
}

func lerp2D(v00, v10, v01, v11, tx, ty float64) float64 {
	return lerp(lerp(v00, v10, tx), lerp(v01, v11, tx), ty)
}

// cubicWeight is the Catmull-Rom kernel.
func cubicWeight(t float64) float64 {
	at := math.Abs(t)
	if at < 1 {
		return 1.5*at*at*at - 2.5*at*at + 1.0
	}
	if at < 2 {
		return -0.5*at*at*at + 2.5*at*at - 4.0*at + 2.0
	}
	return 0
}

func bicubicInterp(vals [4][4]float64, tx, ty float64) float64 {
	wx := [4]float64{cubicWeight(tx + 1), cubicWeight(tx), cubicWeight(tx - 1), cubicWeight(tx - 2)}
	wy := [4]float64{cubicWeight(ty + 1), cubicWeight(ty), cubicWeight(ty - 1), cubicWeight(ty - 2)}

	var sum float64
	for i := range 4 {
		for j := range 4 {
			sum += vals[i][j] * wx[j] * wy[i]
		}
	}
	return sum
}
