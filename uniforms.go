// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package lightning

import (
	"encoding/binary"
	"fmt"
	"math"
	"sync"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/lightning/internal/shade"
	"github.com/gogpu/lightning/internal/wgsl"
)

// Uniforms are the per-frame values pushed to the fragment stage.
type Uniforms = shade.Uniforms

// Uniform member names and the component count each expects.
var uniformMembers = []struct {
	name       string
	components int
}{
	{"resolution", 2},
	{"time", 1},
	{"hue", 1},
	{"xOffset", 1},
	{"speed", 1},
	{"intensity", 1},
	{"size", 1},
}

// minUniformBufferSize is the smallest uniform binding WebGPU accepts.
const minUniformBufferSize = 16

type uniformSlot struct {
	offset     uint64
	components int
}

// uniformBinder packs per-frame values into the uniform block layout the
// fragment stage declares. Members the block lacks are skipped.
type uniformBinder struct {
	size  uint64
	slots map[string]uniformSlot
	data  []byte

	mu   sync.Mutex
	last shade.Uniforms
}

func newUniformBinder(layout wgsl.Layout) *uniformBinder {
	b := &uniformBinder{
		size:  max(layout.Size, minUniformBufferSize),
		slots: make(map[string]uniformSlot, len(uniformMembers)),
	}
	for _, m := range uniformMembers {
		f, ok := layout.Field(m.name)
		if !ok || f.Size != uint64(4*m.components) {
			continue
		}
		b.slots[m.name] = uniformSlot{offset: f.Offset, components: m.components}
	}
	b.data = make([]byte, b.size)
	return b
}

// has reports whether the block declares the named member.
func (b *uniformBinder) has(name string) bool {
	_, ok := b.slots[name]
	return ok
}

// pack encodes u into the block layout. The returned slice is reused by the
// next call.
func (b *uniformBinder) pack(u shade.Uniforms) []byte {
	b.put("resolution", u.Resolution[0], u.Resolution[1])
	b.put("time", u.Time)
	b.put("hue", u.Hue)
	b.put("xOffset", u.XOffset)
	b.put("speed", u.Speed)
	b.put("intensity", u.Intensity)
	b.put("size", u.Size)
	return b.data
}

func (b *uniformBinder) put(name string, values ...float32) {
	slot, ok := b.slots[name]
	if !ok {
		return
	}
	for i := 0; i < slot.components && i < len(values); i++ {
		off := slot.offset + uint64(4*i)
		binary.LittleEndian.PutUint32(b.data[off:], math.Float32bits(values[i]))
	}
}

// upload packs u and writes it to buf.
func (b *uniformBinder) upload(queue hal.Queue, buf hal.Buffer, u shade.Uniforms) {
	queue.WriteBuffer(buf, 0, b.pack(u))
	b.mu.Lock()
	b.last = u
	b.mu.Unlock()
}

// lastUploaded returns the most recently uploaded values.
func (b *uniformBinder) lastUploaded() shade.Uniforms {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.last
}

// createUniforms allocates the uniform buffer and the bind group that
// exposes it at group 0, binding 0.
func (r *gpuResources) createUniforms() error {
	size := r.uniforms.size
	buf, err := r.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "lightning_uniforms",
		Size:  size,
		Usage: gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("create uniform buffer: %w", err)
	}
	r.uniformBuffer = buf

	bg, err := r.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  "lightning_uniforms_bg",
		Layout: r.bindLayout,
		Entries: []gputypes.BindGroupEntry{
			{
				Binding: uniformBinding,
				Resource: gputypes.BufferBinding{
					Buffer: buf.NativeHandle(),
					Offset: 0,
					Size:   size,
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("create uniform bind group: %w", err)
	}
	r.bindGroup = bg
	return nil
}
