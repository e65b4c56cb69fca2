package image

import (
	"math"
	"testing"
)

const epsilon = 1e-10

func TestIdentity(t *testing.T) {
	m := Identity()
	x, y := m.TransformPoint(10, 20)
	if math.Abs(x-10) > epsilon || math.Abs(y-20) > epsilon {
		t.Errorf("Identity().TransformPoint(10, 20) = (%f, %f), want (10, 20)", x, y)
	}
	if !m.IsIdentity() {
		t.Error("Identity().IsIdentity() = false")
	}
}

func TestTransformPoint(t *testing.T) {
	tests := []struct {
		name       string
		m          Affine
		inX, inY   float64
		outX, outY float64
	}{
		{"translate", Translate(5, -3), 1, 1, 6, -2},
		{"scale", Scale(2, 0.5), 4, 10, 8, 5},
		{"flip", Scale(-1, 1), 5, 10, -5, 10},
		{"general", NewAffine(1, 2, 3, 4, 5, 6), 1, 1, 6, 15},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, y := tt.m.TransformPoint(tt.inX, tt.inY)
			if math.Abs(x-tt.outX) > epsilon || math.Abs(y-tt.outY) > epsilon {
				t.Errorf("TransformPoint(%f, %f) = (%f, %f), want (%f, %f)",
					tt.inX, tt.inY, x, y, tt.outX, tt.outY)
			}
		})
	}
}

func TestMultiplyOrder(t *testing.T) {
	// Scale first, then translate.
	m := Translate(10, 0).Multiply(Scale(2, 2))
	x, y := m.TransformPoint(1, 1)
	if math.Abs(x-12) > epsilon || math.Abs(y-2) > epsilon {
		t.Errorf("got (%f, %f), want (12, 2)", x, y)
	}
}

func TestInvert(t *testing.T) {
	m := NewAffine(2, 1, 3, 0.5, 4, -2)
	inv, ok := m.Invert()
	if !ok {
		t.Fatal("Invert() reported singular matrix")
	}
	x, y := inv.TransformPoint(m.TransformPoint(7, -3))
	if math.Abs(x-7) > 1e-9 || math.Abs(y+3) > 1e-9 {
		t.Errorf("round trip = (%f, %f), want (7, -3)", x, y)
	}
}

func TestInvertSingular(t *testing.T) {
	if _, ok := Scale(0, 1).Invert(); ok {
		t.Error("Invert() of singular matrix should fail")
	}
}

func TestElements(t *testing.T) {
	a, b, c, d, e, f := NewAffine(1, 2, 3, 4, 5, 6).Elements()
	if a != 1 || b != 2 || c != 3 || d != 4 || e != 5 || f != 6 {
		t.Errorf("Elements() = %v %v %v %v %v %v", a, b, c, d, e, f)
	}
}
