// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package canvas

import (
	"fmt"
	"math"

	"github.com/gogpu/canvas/internal/image"
	"github.com/gogpu/canvas/internal/native"
)

// Rect is an axis-aligned rectangle.
type Rect struct {
	X, Y          float32
	Width, Height float32
}

// NewRect creates a rectangle.
func NewRect(x, y, width, height float32) Rect {
	return Rect{X: x, Y: y, Width: width, Height: height}
}

// Empty reports whether the rectangle has no area.
func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Validate rejects negative sizes and non-finite values.
func (r Rect) Validate() error {
	for _, v := range [...]float32{r.X, r.Y, r.Width, r.Height} {
		f := float64(v)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return fmt.Errorf("%w: rectangle %v is not finite", ErrInvalidArgument, r)
		}
	}
	if r.Width < 0 || r.Height < 0 {
		return fmt.Errorf("%w: rectangle %v has negative size", ErrInvalidArgument, r)
	}
	return nil
}

// Native converts to the engine rectangle.
func (r Rect) Native() native.RectF {
	return native.RectF{X: float64(r.X), Y: float64(r.Y), W: float64(r.Width), H: float64(r.Height)}
}

// RectFromNative converts an engine rectangle.
func RectFromNative(r native.RectF) Rect {
	return Rect{X: float32(r.X), Y: float32(r.Y), Width: float32(r.W), Height: float32(r.H)}
}

// Matrix represents a 2D affine transformation matrix.
// It uses a 2x3 matrix in row-major order:
//
//	| a  b  c |
//	| d  e  f |
//
// This represents the transformation:
//
//	x' = a*x + b*y + c
//	y' = d*x + e*y + f
type Matrix struct {
	A, B, C float64
	D, E, F float64
}

// Identity returns the identity transformation matrix.
func Identity() Matrix {
	return Matrix{A: 1, E: 1}
}

// Translate creates a translation matrix.
func Translate(x, y float64) Matrix {
	return Matrix{A: 1, C: x, E: 1, F: y}
}

// Scale creates a scaling matrix.
func Scale(x, y float64) Matrix {
	return Matrix{A: x, E: y}
}

// Rotate creates a rotation matrix (angle in radians).
func Rotate(angle float64) Matrix {
	cos := math.Cos(angle)
	sin := math.Sin(angle)
	return Matrix{
		A: cos, B: -sin,
		D: sin, E: cos,
	}
}

// Multiply multiplies two matrices (m * other).
func (m Matrix) Multiply(other Matrix) Matrix {
	return MatrixFromNative(m.Native().Multiply(other.Native()))
}

// TransformPoint applies the transformation to a point.
func (m Matrix) TransformPoint(x, y float64) (float64, float64) {
	return m.A*x + m.B*y + m.C, m.D*x + m.E*y + m.F
}

// IsIdentity returns true if the matrix is the identity matrix.
func (m Matrix) IsIdentity() bool {
	return m == Identity()
}

// Native converts to the engine transform.
func (m Matrix) Native() native.Affine {
	return image.NewAffine(m.A, m.B, m.C, m.D, m.E, m.F)
}

// MatrixFromNative converts an engine transform.
func MatrixFromNative(a native.Affine) Matrix {
	var m Matrix
	m.A, m.B, m.C, m.D, m.E, m.F = a.Elements()
	return m
}
