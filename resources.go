// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package lightning

import (
	"fmt"
	"log/slog"

	"github.com/gogpu/wgpu/hal"
)

// gpuResources holds every GPU object a running renderer owns. Handles are
// recorded as soon as they are created so a failed Start and Close share
// one release path.
type gpuResources struct {
	device hal.Device
	log    *slog.Logger

	vertexShader   hal.ShaderModule
	fragmentShader hal.ShaderModule
	bindLayout     hal.BindGroupLayout
	pipeLayout     hal.PipelineLayout
	pipeline       hal.RenderPipeline
	vertexBuffer   hal.Buffer
	uniformBuffer  hal.Buffer
	bindGroup      hal.BindGroup
	uniforms       *uniformBinder

	target   *offscreenTarget
	inflight []frameSubmission
}

func newGPUResources(device hal.Device, log *slog.Logger) *gpuResources {
	return &gpuResources{device: device, log: log}
}

// release destroys every recorded handle exactly once. A panic in one
// destroy is logged and does not stop the rest.
func (r *gpuResources) release() {
	d := r.device
	if len(r.inflight) > 0 {
		r.safeDestroy("in-flight frames", r.drainFrames)
		r.inflight = nil
	}
	if r.pipeline != nil {
		r.safeDestroy("pipeline", func() { d.DestroyRenderPipeline(r.pipeline) })
		r.pipeline = nil
	}
	if r.pipeLayout != nil {
		r.safeDestroy("pipeline layout", func() { d.DestroyPipelineLayout(r.pipeLayout) })
		r.pipeLayout = nil
	}
	if r.vertexShader != nil {
		r.safeDestroy("vertex shader", func() { d.DestroyShaderModule(r.vertexShader) })
		r.vertexShader = nil
	}
	if r.fragmentShader != nil {
		r.safeDestroy("fragment shader", func() { d.DestroyShaderModule(r.fragmentShader) })
		r.fragmentShader = nil
	}
	if r.vertexBuffer != nil {
		r.safeDestroy("vertex buffer", func() { d.DestroyBuffer(r.vertexBuffer) })
		r.vertexBuffer = nil
	}
	if r.bindGroup != nil {
		r.safeDestroy("bind group", func() { d.DestroyBindGroup(r.bindGroup) })
		r.bindGroup = nil
	}
	if r.uniformBuffer != nil {
		r.safeDestroy("uniform buffer", func() { d.DestroyBuffer(r.uniformBuffer) })
		r.uniformBuffer = nil
	}
	if r.bindLayout != nil {
		r.safeDestroy("bind group layout", func() { d.DestroyBindGroupLayout(r.bindLayout) })
		r.bindLayout = nil
	}
	if r.target != nil {
		r.target.destroy(r)
		r.target = nil
	}
	r.uniforms = nil
}

func (r *gpuResources) safeDestroy(what string, fn func()) {
	defer func() {
		if p := recover(); p != nil {
			r.log.Warn("lightning: release failed", "resource", what, "panic", fmt.Sprint(p))
		}
	}()
	fn()
}
