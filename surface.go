// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package lightning

import (
	"math"
	"sync"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// Sizer reports the host drawable's logical size and device pixel ratio.
// The renderer reads these values but never controls them.
type Sizer interface {
	// LogicalSize returns the drawable size in logical (CSS-like) units.
	LogicalSize() (width, height float64)

	// DevicePixelRatio returns physical pixels per logical unit.
	DevicePixelRatio() float64
}

// Surface is the host-provided drawable a Renderer is bound to.
//
// The embedded DeviceProvider supplies the surface format. The GPU device
// itself is reached through the HAL accessors
//
//	HalDevice() any // hal.Device
//	HalQueue() any  // hal.Queue
//
// which gogpu's provider and [HeadlessSurface] implement.
//
// A Surface may additionally implement [TargetViewer] to have frames drawn
// straight into its current texture view. Otherwise the Renderer draws into
// an offscreen texture that can be read back with [Renderer.ReadPixels].
type Surface interface {
	gpucontext.DeviceProvider
	Sizer
}

// TargetViewer is implemented by surfaces that own a presentable view.
// TargetView is called once per frame; a nil view skips the frame.
type TargetViewer interface {
	TargetView() hal.TextureView
}

// SurfaceState is the drawable size in device pixels. Width and Height are
// always at least 1.
type SurfaceState struct {
	Width            int
	Height           int
	DevicePixelRatio float64
}

// ComputeSize returns the drawable size in device pixels:
// max(1, round(logical * dpr)) per axis. Non-finite or negative logical
// sizes count as zero and a non-positive or non-finite ratio counts as 1.
func ComputeSize(s Sizer) (width, height int) {
	st := computeState(s)
	return st.Width, st.Height
}

func computeState(s Sizer) SurfaceState {
	w, h := s.LogicalSize()
	dpr := s.DevicePixelRatio()
	if !(dpr > 0) || math.IsInf(dpr, 0) {
		dpr = 1
	}
	return SurfaceState{
		Width:            devicePixels(w, dpr),
		Height:           devicePixels(h, dpr),
		DevicePixelRatio: dpr,
	}
}

func devicePixels(logical, dpr float64) int {
	if !(logical > 0) || math.IsInf(logical, 0) {
		return 1
	}
	px := math.Round(logical * dpr)
	switch {
	case px < 1:
		return 1
	case px > math.MaxInt32:
		return math.MaxInt32
	}
	return int(px)
}

// HeadlessSurface is a Surface backed by a caller-owned HAL device and
// queue. It has no presentable view, so frames land in the Renderer's
// offscreen target.
//
// The logical size and pixel ratio may be changed from any goroutine; the
// Renderer picks them up on its next tick.
type HeadlessSurface struct {
	device hal.Device
	queue  hal.Queue
	format gputypes.TextureFormat

	mu     sync.Mutex
	width  float64
	height float64
	dpr    float64
}

// NewHeadlessSurface wraps device and queue as a drawable of the given
// logical size. A zero format selects BGRA8Unorm.
func NewHeadlessSurface(device hal.Device, queue hal.Queue, format gputypes.TextureFormat, width, height, dpr float64) *HeadlessSurface {
	if format == gputypes.TextureFormatUndefined {
		format = gputypes.TextureFormatBGRA8Unorm
	}
	return &HeadlessSurface{
		device: device,
		queue:  queue,
		format: format,
		width:  width,
		height: height,
		dpr:    dpr,
	}
}

// Device returns nil: HeadlessSurface exposes its device through HalDevice.
func (s *HeadlessSurface) Device() gpucontext.Device { return nil }

// Queue returns nil: HeadlessSurface exposes its queue through HalQueue.
func (s *HeadlessSurface) Queue() gpucontext.Queue { return nil }

// Adapter returns nil.
func (s *HeadlessSurface) Adapter() gpucontext.Adapter { return nil }

// SurfaceFormat returns the target texture format.
func (s *HeadlessSurface) SurfaceFormat() gputypes.TextureFormat { return s.format }

// HalDevice returns the wrapped hal.Device.
func (s *HeadlessSurface) HalDevice() any { return s.device }

// HalQueue returns the wrapped hal.Queue.
func (s *HeadlessSurface) HalQueue() any { return s.queue }

// LogicalSize implements Sizer.
func (s *HeadlessSurface) LogicalSize() (width, height float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.width, s.height
}

// DevicePixelRatio implements Sizer.
func (s *HeadlessSurface) DevicePixelRatio() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dpr
}

// SetLogicalSize changes the logical size, as a host layout pass would.
func (s *HeadlessSurface) SetLogicalSize(width, height float64) {
	s.mu.Lock()
	s.width, s.height = width, height
	s.mu.Unlock()
}

// SetDevicePixelRatio changes the pixel ratio, as moving a window between
// monitors would.
func (s *HeadlessSurface) SetDevicePixelRatio(dpr float64) {
	s.mu.Lock()
	s.dpr = dpr
	s.mu.Unlock()
}
