// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package lightning

import (
	"github.com/gogpu/lightning/internal/parallel"
	"github.com/gogpu/lightning/internal/shade"
)

// bandRows is the number of rows one software task renders.
const bandRows = 16

// SoftwareRenderer renders frames on the CPU with the same fragment math
// and blending as the GPU pipeline. It serves as the fallback when no GPU
// adapter is available and as the reference for GPU output.
//
// A SoftwareRenderer is safe for concurrent use. Close releases its
// worker goroutines.
type SoftwareRenderer struct {
	pool *parallel.Pool
}

// NewSoftwareRenderer starts a renderer with the given number of worker
// goroutines. A non-positive count selects GOMAXPROCS.
func NewSoftwareRenderer(workers int) *SoftwareRenderer {
	return &SoftwareRenderer{pool: parallel.NewPool(workers)}
}

// Render draws one frame of size st at elapsed seconds into dst,
// reallocating dst when its size differs. It returns the frame written.
func (s *SoftwareRenderer) Render(dst *Frame, st SurfaceState, elapsed float64, p RenderParameters) *Frame {
	if dst == nil || dst.Width != st.Width || dst.Height != st.Height {
		dst = NewFrame(st.Width, st.Height)
	}
	u := frameUniforms(st, elapsed, p)

	s.pool.Bands(st.Height, bandRows, func(lo, hi int) {
		for row := lo; row < hi; row++ {
			// Rows are stored top-down; fragment coordinates count from the bottom.
			fy := float32(st.Height-row) - 0.5
			i := row * st.Width * 4
			for col := 0; col < st.Width; col++ {
				px := blendOverClear(shade.Fragment(u, float32(col)+0.5, fy))
				copy(dst.Pix[i:i+4], px[:])
				i += 4
			}
		}
	})
	return dst
}

// RenderSize is a convenience wrapper around Render for a fresh frame of
// width x height device pixels.
func (s *SoftwareRenderer) RenderSize(width, height int, elapsed float64, p RenderParameters) *Frame {
	st := SurfaceState{Width: max(1, width), Height: max(1, height), DevicePixelRatio: 1}
	return s.Render(nil, st, elapsed, p)
}

// Close stops the worker goroutines.
func (s *SoftwareRenderer) Close() {
	s.pool.Close()
}

// frameUniforms builds the per-frame shader inputs shared by the GPU
// binder and the software renderer.
func frameUniforms(st SurfaceState, elapsed float64, p RenderParameters) shade.Uniforms {
	p = p.Normalized()
	return shade.Uniforms{
		Resolution: [2]float32{float32(st.Width), float32(st.Height)},
		Time:       float32(elapsed),
		Hue:        p.Hue,
		XOffset:    p.XOffset,
		Speed:      p.Speed,
		Intensity:  p.Intensity,
		Size:       p.Size,
	}
}

// blendOverClear applies src-alpha, one-minus-src-alpha blending of a
// fragment onto the transparent clear color, after the clamp a unorm
// attachment applies to fragment outputs.
func blendOverClear(src [4]float32) [4]uint8 {
	a := min(max(src[3], 0), 1)
	var out [4]uint8
	for i := range 3 {
		c := min(max(src[i], 0), 1)
		out[i] = unorm8(c * a)
	}
	out[3] = unorm8(a * a)
	return out
}

func unorm8(v float32) uint8 {
	return uint8(v*255 + 0.5)
}
