// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package lightning

import "math"

// Default parameter values.
const (
	DefaultHue       = 230
	DefaultXOffset   = 0
	DefaultSpeed     = 1
	DefaultIntensity = 1
	DefaultSize      = 1
)

// RenderParameters are the host-supplied styling inputs of the effect.
// A Renderer holds an immutable snapshot; updates replace it wholesale.
type RenderParameters struct {
	// Hue of the base color in degrees. Wrapped into [0, 360).
	Hue float32

	// XOffset shifts the filament horizontally in normalized device
	// coordinates (the full width spans 2 units times the aspect ratio).
	XOffset float32

	// Speed multiplies time inside the shader. Zero freezes the animation.
	Speed float32

	// Intensity scales brightness. Negative values are clamped to zero.
	Intensity float32

	// Size multiplies the noise spatial frequency.
	Size float32
}

// DefaultParameters returns the parameters used when the host supplies none.
func DefaultParameters() RenderParameters {
	return RenderParameters{
		Hue:       DefaultHue,
		XOffset:   DefaultXOffset,
		Speed:     DefaultSpeed,
		Intensity: DefaultIntensity,
		Size:      DefaultSize,
	}
}

// Normalized returns p with out-of-range values brought into the domain
// the shader expects: hue wraps modulo 360, negative intensity becomes 0,
// and NaN or infinite fields fall back to their defaults. Speed, size and
// xOffset otherwise pass through unchanged, so negative speed runs the
// animation backwards and negative size mirrors the noise field.
func (p RenderParameters) Normalized() RenderParameters {
	p.Hue = finiteOr(p.Hue, DefaultHue)
	p.XOffset = finiteOr(p.XOffset, DefaultXOffset)
	p.Speed = finiteOr(p.Speed, DefaultSpeed)
	p.Intensity = finiteOr(p.Intensity, DefaultIntensity)
	p.Size = finiteOr(p.Size, DefaultSize)

	p.Hue = WrapHue(p.Hue)
	if p.Intensity < 0 {
		p.Intensity = 0
	}
	return p
}

// WrapHue maps any finite angle in degrees into [0, 360).
func WrapHue(h float32) float32 {
	w := float32(math.Mod(float64(h), 360))
	if w < 0 {
		w += 360
	}
	// -1e-9 + 360 rounds to 360 in float32.
	if w >= 360 {
		w = 0
	}
	return w
}

func finiteOr(v, fallback float32) float32 {
	f := float64(v)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return fallback
	}
	return v
}
