// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package canvas

import (
	"fmt"
	"strings"

	"github.com/gogpu/canvas/internal/native"
)

// EdgeBehavior controls how an image brush fills area outside its tile.
// Values are passed to the engine unchanged.
type EdgeBehavior uint8

const (
	// EdgeBehaviorClamp repeats the edge pixels.
	EdgeBehaviorClamp EdgeBehavior = iota

	// EdgeBehaviorWrap tiles the image.
	EdgeBehaviorWrap

	// EdgeBehaviorMirror tiles the image, flipping alternate tiles.
	EdgeBehaviorMirror
)

var edgeBehaviorNames = [...]string{"Clamp", "Wrap", "Mirror"}

// String returns the name of the edge behavior.
func (e EdgeBehavior) String() string {
	if !e.Valid() {
		return fmt.Sprintf("EdgeBehavior(%d)", e)
	}
	return edgeBehaviorNames[e]
}

// Valid reports whether e is a defined value.
func (e EdgeBehavior) Valid() bool {
	return int(e) < len(edgeBehaviorNames)
}

// Native returns the engine extend mode.
func (e EdgeBehavior) Native() native.ExtendMode {
	return native.ExtendMode(e)
}

// ParseEdgeBehavior parses a name case-insensitively.
func ParseEdgeBehavior(s string) (EdgeBehavior, error) {
	for i, name := range edgeBehaviorNames {
		if strings.EqualFold(s, name) {
			return EdgeBehavior(i), nil
		}
	}
	return 0, fmt.Errorf("%w: unknown edge behavior %q", ErrInvalidArgument, s)
}

// ImageInterpolation selects how an image is resampled.
// Values are passed to the engine unchanged.
type ImageInterpolation uint8

const (
	// ImageInterpolationNearestNeighbor picks the closest pixel.
	ImageInterpolationNearestNeighbor ImageInterpolation = iota

	// ImageInterpolationLinear blends the four nearest pixels.
	ImageInterpolationLinear

	// ImageInterpolationCubic uses a 4x4 cubic kernel.
	ImageInterpolationCubic

	// ImageInterpolationMultiSampleLinear averages linear samples.
	ImageInterpolationMultiSampleLinear

	// ImageInterpolationAnisotropic adapts to the sampling footprint.
	ImageInterpolationAnisotropic

	// ImageInterpolationHighQualityCubic is the slowest, sharpest filter.
	ImageInterpolationHighQualityCubic
)

var interpolationNames = [...]string{
	"NearestNeighbor", "Linear", "Cubic", "MultiSampleLinear", "Anisotropic", "HighQualityCubic",
}

// String returns the name of the interpolation mode.
func (m ImageInterpolation) String() string {
	if !m.Valid() {
		return fmt.Sprintf("ImageInterpolation(%d)", m)
	}
	return interpolationNames[m]
}

// Valid reports whether m is a defined value.
func (m ImageInterpolation) Valid() bool {
	return int(m) < len(interpolationNames)
}

// Native returns the engine interpolation mode.
func (m ImageInterpolation) Native() native.Interpolation {
	return native.Interpolation(m)
}

// ParseImageInterpolation parses a name case-insensitively.
func ParseImageInterpolation(s string) (ImageInterpolation, error) {
	for i, name := range interpolationNames {
		if strings.EqualFold(s, name) {
			return ImageInterpolation(i), nil
		}
	}
	return 0, fmt.Errorf("%w: unknown interpolation %q", ErrInvalidArgument, s)
}
