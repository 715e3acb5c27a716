// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package lightning

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// quadVertices covers clip space with two triangles.
var quadVertices = [...][2]float32{
	{-1, -1}, {1, -1}, {-1, 1},
	{-1, 1}, {1, -1}, {1, 1},
}

// quadVertexCount is the vertex count of one draw.
const quadVertexCount = uint32(len(quadVertices))

// quadVertexStride is the size of one vec2<f32> position.
const quadVertexStride = 8

func quadVertexLayout() []gputypes.VertexBufferLayout {
	return []gputypes.VertexBufferLayout{
		{
			ArrayStride: quadVertexStride,
			StepMode:    gputypes.VertexStepModeVertex,
			Attributes: []gputypes.VertexAttribute{
				{Format: gputypes.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 0},
			},
		},
	}
}

func quadVertexBytes() []byte {
	buf := make([]byte, len(quadVertices)*quadVertexStride)
	for i, v := range quadVertices {
		binary.LittleEndian.PutUint32(buf[i*8:], math.Float32bits(v[0]))
		binary.LittleEndian.PutUint32(buf[i*8+4:], math.Float32bits(v[1]))
	}
	return buf
}

// uploadGeometry creates the static quad buffer. It is written once and
// never modified.
func (r *gpuResources) uploadGeometry(queue hal.Queue) error {
	data := quadVertexBytes()
	buf, err := r.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "lightning_quad",
		Size:  uint64(len(data)),
		Usage: gputypes.BufferUsageVertex | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("create vertex buffer: %w", err)
	}
	r.vertexBuffer = buf
	queue.WriteBuffer(buf, 0, data)
	return nil
}
