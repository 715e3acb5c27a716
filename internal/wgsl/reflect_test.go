// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package wgsl

import "testing"

const sampleSource = `
// Camera data.
struct Camera {
    view: mat4x4<f32>,
    eye: vec3<f32>,
    exposure: f32,
}

/* Lights are packed
   /* nested */ densely. */
struct Light {
    color: vec3<f32>,
    radius: f32,
}

struct Scene {
    camera: Camera,
    lights: array<Light, 4>,
    count: u32,
}

struct VertexOutput {
    @builtin(position) position: vec4<f32>,
    @location(0) uv: vec2<f32>,
}

@group(0) @binding(0) var<uniform> scene: Scene;
@group(0) @binding(1) var<storage, read> weights: array<f32>;
@group(1) @binding(0) var albedo: texture_2d<f32>;

@vertex
fn vs_main(@location(0) p: vec2<f32>) -> VertexOutput {
    var out: VertexOutput;
    out.position = vec4<f32>(p, 0.0, 1.0);
    out.uv = p;
    return out;
}

@fragment
fn fs_main(in: VertexOutput) -> @location(0) vec4<f32> {
    return vec4<f32>(in.uv, 0.0, 1.0); // @fragment fn not_an_entry
}
`

func TestReflectEntryPoints(t *testing.T) {
	m, err := Reflect(sampleSource)
	if err != nil {
		t.Fatalf("Reflect: %v", err)
	}
	if !m.HasEntryPoint(StageVertex, "vs_main") {
		t.Error("missing vertex entry vs_main")
	}
	if !m.HasEntryPoint(StageFragment, "fs_main") {
		t.Error("missing fragment entry fs_main")
	}
	if m.HasEntryPoint(StageFragment, "not_an_entry") {
		t.Error("entry point inside a comment was reflected")
	}
	if got := m.EntryPoints(StageCompute); len(got) != 0 {
		t.Errorf("compute entries = %v, want none", got)
	}
}

func TestReflectBindings(t *testing.T) {
	m, err := Reflect(sampleSource)
	if err != nil {
		t.Fatalf("Reflect: %v", err)
	}
	if n := len(m.Bindings()); n != 3 {
		t.Fatalf("len(Bindings) = %d, want 3", n)
	}

	tests := []struct {
		group, binding uint32
		space, name    string
		typ            string
	}{
		{0, 0, "uniform", "scene", "Scene"},
		{0, 1, "storage, read", "weights", "array<f32>"},
		{1, 0, "", "albedo", "texture_2d<f32>"},
	}
	for _, tt := range tests {
		b, ok := m.Binding(tt.group, tt.binding)
		if !ok {
			t.Errorf("Binding(%d,%d) not found", tt.group, tt.binding)
			continue
		}
		if b.AddressSpace != tt.space || b.Name != tt.name || b.Type != tt.typ {
			t.Errorf("Binding(%d,%d) = %+v", tt.group, tt.binding, b)
		}
	}
	if _, ok := m.Binding(2, 0); ok {
		t.Error("Binding(2,0) should not exist")
	}
}

func TestStructLayout(t *testing.T) {
	m, err := Reflect(sampleSource)
	if err != nil {
		t.Fatalf("Reflect: %v", err)
	}

	tests := []struct {
		structName string
		size       uint64
		align      uint64
		fields     map[string]uint64 // name -> offset
	}{
		{"Camera", 80, 16, map[string]uint64{"view": 0, "eye": 64, "exposure": 76}},
		{"Light", 16, 16, map[string]uint64{"color": 0, "radius": 12}},
		{"Scene", 160, 16, map[string]uint64{"camera": 0, "lights": 80, "count": 144}},
		{"VertexOutput", 32, 16, map[string]uint64{"position": 0, "uv": 16}},
	}
	for _, tt := range tests {
		t.Run(tt.structName, func(t *testing.T) {
			l, ok := m.StructLayout(tt.structName)
			if !ok {
				t.Fatalf("StructLayout(%s) not found", tt.structName)
			}
			if l.Size != tt.size || l.Align != tt.align {
				t.Errorf("size/align = %d/%d, want %d/%d", l.Size, l.Align, tt.size, tt.align)
			}
			for name, off := range tt.fields {
				f, ok := l.Field(name)
				if !ok {
					t.Errorf("field %s missing", name)
					continue
				}
				if f.Offset != off {
					t.Errorf("field %s offset = %d, want %d", name, f.Offset, off)
				}
			}
		})
	}
}

func TestReflectUnresolvableStruct(t *testing.T) {
	_, err := Reflect(`struct Broken { a: Missing, }`)
	if err == nil {
		t.Fatal("expected error for unknown member type")
	}
}

func TestSplitAtTopLevelCommas(t *testing.T) {
	got := splitAtTopLevelCommas("a: f32, b: array<vec2<f32>, 3>, c: u32")
	if len(got) != 3 {
		t.Fatalf("got %d parts: %q", len(got), got)
	}
	if got[1] != " b: array<vec2<f32>, 3>" {
		t.Errorf("part 1 = %q", got[1])
	}
}
