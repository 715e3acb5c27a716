// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package lightning

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// offscreenTarget is the single-sample color texture frames are drawn into
// when the surface has no presentable view. It can be copied out for
// readback.
type offscreenTarget struct {
	tex    hal.Texture
	view   hal.TextureView
	width  uint32
	height uint32
}

// ensureTarget creates or recreates the offscreen target when the requested
// size differs from the current one.
func (r *gpuResources) ensureTarget(format gputypes.TextureFormat, w, h uint32) error {
	if t := r.target; t != nil && t.width == w && t.height == h {
		return nil
	}
	if r.target != nil {
		r.drainFrames()
		r.target.destroy(r)
		r.target = nil
	}

	t := &offscreenTarget{width: w, height: h}
	tex, err := r.device.CreateTexture(&hal.TextureDescriptor{
		Label:         "lightning_target",
		Size:          hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        format,
		Usage:         gputypes.TextureUsageRenderAttachment | gputypes.TextureUsageCopySrc,
	})
	if err != nil {
		return fmt.Errorf("create target texture: %w", err)
	}
	t.tex = tex

	view, err := r.device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label: "lightning_target_view",
	})
	if err != nil {
		t.destroy(r)
		return fmt.Errorf("create target view: %w", err)
	}
	t.view = view
	r.target = t
	return nil
}

func (t *offscreenTarget) destroy(r *gpuResources) {
	d := r.device
	if t.view != nil {
		r.safeDestroy("target view", func() { d.DestroyTextureView(t.view) })
		t.view = nil
	}
	if t.tex != nil {
		r.safeDestroy("target texture", func() { d.DestroyTexture(t.tex) })
		t.tex = nil
	}
}
