// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package lightning

import (
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// halProvider is the optional accessor pair a Surface uses to expose its
// HAL device and queue.
type halProvider interface {
	HalDevice() any
	HalQueue() any
}

// gpuContext is the acquired drawing context: device, queue, the target
// format and the fixed per-frame render state.
type gpuContext struct {
	device hal.Device
	queue  hal.Queue
	format gputypes.TextureFormat
	blend  gputypes.BlendState
	clear  gputypes.Color
}

// acquire obtains a GPU context from s. A non-zero override replaces the
// surface format. It fails with ErrContextUnavailable when the surface has
// no HAL device or queue or its format cannot hold alpha.
func acquire(s Surface, override gputypes.TextureFormat) (*gpuContext, error) {
	if s == nil {
		return nil, ErrContextUnavailable
	}
	hp, ok := s.(halProvider)
	if !ok {
		return nil, ErrContextUnavailable
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return nil, ErrContextUnavailable
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return nil, ErrContextUnavailable
	}

	format := override
	if format == gputypes.TextureFormatUndefined {
		format = s.SurfaceFormat()
	}
	if format == gputypes.TextureFormatUndefined {
		format = gputypes.TextureFormatBGRA8Unorm
	}
	if !alphaCapable(format) {
		return nil, ErrContextUnavailable
	}

	return &gpuContext{
		device: device,
		queue:  queue,
		format: format,
		blend:  alphaBlend(),
		clear:  gputypes.Color{R: 0, G: 0, B: 0, A: 0},
	}, nil
}

// alphaCapable reports whether format is an 8-bit four-channel color
// format the renderer can draw into and read back.
func alphaCapable(format gputypes.TextureFormat) bool {
	switch format {
	case gputypes.TextureFormatBGRA8Unorm, gputypes.TextureFormatBGRA8UnormSrgb,
		gputypes.TextureFormatRGBA8Unorm, gputypes.TextureFormatRGBA8UnormSrgb:
		return true
	}
	return false
}

// alphaBlend is source-alpha, one-minus-source-alpha for color and alpha.
func alphaBlend() gputypes.BlendState {
	c := gputypes.BlendComponent{
		SrcFactor: gputypes.BlendFactorSrcAlpha,
		DstFactor: gputypes.BlendFactorOneMinusSrcAlpha,
		Operation: gputypes.BlendOperationAdd,
	}
	return gputypes.BlendState{Color: c, Alpha: c}
}

// isBGRA reports whether format stores blue first.
func isBGRA(format gputypes.TextureFormat) bool {
	return format == gputypes.TextureFormatBGRA8Unorm || format == gputypes.TextureFormatBGRA8UnormSrgb
}
