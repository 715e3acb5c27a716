// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package shade is the CPU rendition of the lightning fragment shader.
//
// Every function mirrors its WGSL counterpart in shaders/lightning_fs.wgsl
// operation for operation in float32, so CPU and GPU output agree up to
// the precision of the device's transcendental functions.
package shade

import "math"

// Shader constants.
const (
	OctaveCount = 10
	Rotation    = 0.45
	MinDistance = 0.02
	Saturation  = 0.7
	Value       = 0.8
	MaxFlicker  = 0.07
	AlphaGain   = 6
	TimeScale   = 0.8
)

var (
	rotCos = float32(math.Cos(Rotation))
	rotSin = float32(math.Sin(Rotation))
)

// Uniforms mirrors the WGSL Uniforms struct.
type Uniforms struct {
	Resolution [2]float32
	Time       float32
	Hue        float32
	XOffset    float32
	Speed      float32
	Intensity  float32
	Size       float32
}

// Hash11 maps a scalar seed to a pseudo-random value in [0, 1).
func Hash11(seed float32) float32 {
	p := fract(seed * 0.1031)
	p = p * (p + 33.33)
	p = p * (p + p)
	return fract(p)
}

// Hash12 maps a 2-D coordinate to a pseudo-random value in [0, 1).
func Hash12(x, y float32) float32 {
	p0 := fract(x * 0.1031)
	p1 := fract(y * 0.1031)
	p2 := fract(x * 0.1031)
	d := p0*(p1+33.33) + p1*(p2+33.33) + p2*(p0+33.33)
	p0 += d
	p1 += d
	p2 += d
	return fract((p0 + p1) * p2)
}

// Noise is smoothed value noise: Hash12 at the four surrounding lattice
// corners blended with a smoothstep weight.
func Noise(x, y float32) float32 {
	ix, iy := floor(x), floor(y)
	fx, fy := x-ix, y-iy
	a := Hash12(ix, iy)
	b := Hash12(ix+1, iy)
	c := Hash12(ix, iy+1)
	d := Hash12(ix+1, iy+1)
	tx, ty := smoothstep(fx), smoothstep(fy)
	return mix(mix(a, b, tx), mix(c, d, tx), ty)
}

// FBM sums OctaveCount octaves of Noise. Amplitude starts at 0.5 and
// halves per octave; the coordinate is rotated by Rotation radians and
// doubled between octaves. The result lies in [0, 1).
func FBM(x, y float32) float32 {
	var value float32
	amplitude := float32(0.5)
	for range OctaveCount {
		value += amplitude * Noise(x, y)
		x, y = (rotCos*x-rotSin*y)*2, (rotSin*x+rotCos*y)*2
		amplitude *= 0.5
	}
	return value
}

// HSVToRGB converts hue (in turns), saturation and value to RGB. Hue
// wraps with a floored modulo so any real hue is valid.
func HSVToRGB(h, s, v float32) [3]float32 {
	var rgb [3]float32
	for i, k := range [3]float32{0, 4, 2} {
		c := modFloor(h*6+k, 6)
		c = clamp(abs(c-3)-1, 0, 1)
		rgb[i] = v * mix(1, c, s)
	}
	return rgb
}

// BaseColor returns the filament color for hue in degrees.
func BaseColor(hue float32) [3]float32 {
	return HSVToRGB(hue/360, Saturation, Value)
}

// Flicker returns the global brightness factor for one frame.
func Flicker(time, speed float32) float32 {
	return mix(0, MaxFlicker, Hash11(time*speed))
}

// Warp returns the domain-warped coordinate for a fragment. fragX and
// fragY use a bottom-left origin in device pixels.
func Warp(u Uniforms, fragX, fragY float32) (x, y float32) {
	x = fragX / u.Resolution[0]
	y = fragY / u.Resolution[1]
	x = 2*x - 1
	y = 2*y - 1
	x *= u.Resolution[0] / u.Resolution[1]
	x += u.XOffset

	t := TimeScale * u.Time * u.Speed
	w := 2*FBM(x*u.Size+t, y*u.Size+t) - 1
	return x + w, y + w
}

// Fragment evaluates the shader for one fragment and returns straight
// (non-premultiplied) RGBA. Color channels may exceed 1.
func Fragment(u Uniforms, fragX, fragY float32) [4]float32 {
	x, _ := Warp(u, fragX, fragY)
	dist := abs(x)
	base := BaseColor(u.Hue)
	k := u.Intensity * Flicker(u.Time, u.Speed) / max(dist, MinDistance)

	r, g, b := base[0]*k, base[1]*k, base[2]*k
	alpha := clamp(length3(r, g, b)*AlphaGain, 0, 1)
	return [4]float32{r, g, b, alpha}
}

func floor(x float32) float32 { return float32(math.Floor(float64(x))) }

func fract(x float32) float32 { return x - floor(x) }

func abs(x float32) float32 { return float32(math.Abs(float64(x))) }

func modFloor(x, y float32) float32 { return x - y*floor(x/y) }

func mix(a, b, t float32) float32 { return a*(1-t) + b*t }

func clamp(x, lo, hi float32) float32 { return min(max(x, lo), hi) }

func smoothstep(x float32) float32 {
	t := clamp(x, 0, 1)
	return t * t * (3 - 2*t)
}

func length3(x, y, z float32) float32 {
	return float32(math.Sqrt(float64(x*x + y*y + z*z)))
}
