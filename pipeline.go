// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package lightning

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/naga"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/lightning/internal/wgsl"
)

// Uniform block location shared by the binder and the bind group layout.
const (
	uniformGroup   = 0
	uniformBinding = 0
)

// compileStage validates source with naga and creates the shader module.
func (r *gpuResources) compileStage(stage Stage, source string) (hal.ShaderModule, error) {
	if _, err := naga.Compile(source); err != nil {
		return nil, &ShaderCompileError{Stage: stage, Log: err.Error(), Err: err}
	}
	module, err := r.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  "lightning_" + stage.String(),
		Source: hal.ShaderSource{WGSL: source},
	})
	if err != nil {
		return nil, &ShaderCompileError{Stage: stage, Log: err.Error(), Err: err}
	}
	return module, nil
}

// compile builds both stages, vertex first. A fragment failure leaves the
// vertex module recorded for release.
func (r *gpuResources) compile(vertexSrc, fragmentSrc string) error {
	vs, err := r.compileStage(StageVertex, vertexSrc)
	if err != nil {
		return err
	}
	r.vertexShader = vs

	fs, err := r.compileStage(StageFragment, fragmentSrc)
	if err != nil {
		return err
	}
	r.fragmentShader = fs
	return nil
}

// linkInterface checks the stages expose the entry points and uniform
// block the pipeline is built around and returns the uniform layout.
func linkInterface(vertexSrc, fragmentSrc string) (wgsl.Layout, error) {
	vm, err := wgsl.Reflect(vertexSrc)
	if err != nil {
		return wgsl.Layout{}, &ProgramLinkError{Log: err.Error(), Err: err}
	}
	if !vm.HasEntryPoint(wgsl.StageVertex, vertexEntryPoint) {
		return wgsl.Layout{}, &ProgramLinkError{Log: "missing @vertex entry point " + vertexEntryPoint}
	}

	fm, err := wgsl.Reflect(fragmentSrc)
	if err != nil {
		return wgsl.Layout{}, &ProgramLinkError{Log: err.Error(), Err: err}
	}
	if !fm.HasEntryPoint(wgsl.StageFragment, fragmentEntryPoint) {
		return wgsl.Layout{}, &ProgramLinkError{Log: "missing @fragment entry point " + fragmentEntryPoint}
	}

	b, ok := fm.Binding(uniformGroup, uniformBinding)
	if !ok || b.AddressSpace != "uniform" {
		return wgsl.Layout{}, &ProgramLinkError{
			Log: fmt.Sprintf("no uniform block at group %d binding %d", uniformGroup, uniformBinding),
		}
	}
	layout, ok := fm.StructLayout(b.Type)
	if !ok {
		return wgsl.Layout{}, &ProgramLinkError{Log: "uniform block type " + b.Type + " is not a struct"}
	}
	return layout, nil
}

// link creates the bind group layout, pipeline layout and render pipeline
// for the compiled stages and prepares the uniform binder.
func (r *gpuResources) link(ctx *gpuContext, vertexSrc, fragmentSrc string) error {
	layout, err := linkInterface(vertexSrc, fragmentSrc)
	if err != nil {
		return err
	}
	r.uniforms = newUniformBinder(layout)

	bindLayout, err := r.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "lightning_uniform_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{
				Binding:    uniformBinding,
				Visibility: gputypes.ShaderStageFragment,
				Buffer: &gputypes.BufferBindingLayout{
					Type: gputypes.BufferBindingTypeUniform,
				},
			},
		},
	})
	if err != nil {
		return &ProgramLinkError{Log: "create bind group layout: " + err.Error(), Err: err}
	}
	r.bindLayout = bindLayout

	pipeLayout, err := r.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            "lightning_pipe_layout",
		BindGroupLayouts: []hal.BindGroupLayout{r.bindLayout},
	})
	if err != nil {
		return &ProgramLinkError{Log: "create pipeline layout: " + err.Error(), Err: err}
	}
	r.pipeLayout = pipeLayout

	blend := ctx.blend
	pipeline, err := r.device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  "lightning_pipeline",
		Layout: r.pipeLayout,
		Vertex: hal.VertexState{
			Module:     r.vertexShader,
			EntryPoint: vertexEntryPoint,
			Buffers:    quadVertexLayout(),
		},
		Fragment: &hal.FragmentState{
			Module:     r.fragmentShader,
			EntryPoint: fragmentEntryPoint,
			Targets: []gputypes.ColorTargetState{
				{
					Format:    ctx.format,
					Blend:     &blend,
					WriteMask: gputypes.ColorWriteMaskAll,
				},
			},
		},
		Primitive: gputypes.PrimitiveState{
			Topology: gputypes.PrimitiveTopologyTriangleList,
			CullMode: gputypes.CullModeNone,
		},
		Multisample: gputypes.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return &ProgramLinkError{Log: "create render pipeline: " + err.Error(), Err: err}
	}
	r.pipeline = pipeline
	return nil
}
