// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package lightning

import (
	"errors"
	"testing"

	"github.com/gogpu/gputypes"
)

func TestAlphaCapable(t *testing.T) {
	tests := []struct {
		format gputypes.TextureFormat
		want   bool
	}{
		{gputypes.TextureFormatBGRA8Unorm, true},
		{gputypes.TextureFormatBGRA8UnormSrgb, true},
		{gputypes.TextureFormatRGBA8Unorm, true},
		{gputypes.TextureFormatRGBA8UnormSrgb, true},
		{gputypes.TextureFormatDepth24PlusStencil8, false},
		{gputypes.TextureFormatUndefined, false},
	}
	for _, tt := range tests {
		if got := alphaCapable(tt.format); got != tt.want {
			t.Errorf("alphaCapable(%v) = %v, want %v", tt.format, got, tt.want)
		}
	}
}

func TestAcquire(t *testing.T) {
	device, queue, cleanup := createNoopDevice(t)
	defer cleanup()

	t.Run("default format", func(t *testing.T) {
		ctx, err := acquire(NewHeadlessSurface(device, queue, gputypes.TextureFormatUndefined, 10, 10, 1), 0)
		if err != nil {
			t.Fatalf("acquire: %v", err)
		}
		if ctx.format != gputypes.TextureFormatBGRA8Unorm {
			t.Errorf("format = %v, want BGRA8Unorm", ctx.format)
		}
		if ctx.clear != (gputypes.Color{}) {
			t.Errorf("clear = %+v, want transparent", ctx.clear)
		}
		c := ctx.blend.Color
		if c.SrcFactor != gputypes.BlendFactorSrcAlpha || c.DstFactor != gputypes.BlendFactorOneMinusSrcAlpha {
			t.Errorf("blend = %+v, want src-alpha/one-minus-src-alpha", c)
		}
		if ctx.blend.Alpha != c {
			t.Errorf("alpha blend %+v differs from color blend %+v", ctx.blend.Alpha, c)
		}
	})

	t.Run("override wins", func(t *testing.T) {
		surf := NewHeadlessSurface(device, queue, gputypes.TextureFormatBGRA8Unorm, 10, 10, 1)
		ctx, err := acquire(surf, gputypes.TextureFormatRGBA8Unorm)
		if err != nil {
			t.Fatalf("acquire: %v", err)
		}
		if ctx.format != gputypes.TextureFormatRGBA8Unorm {
			t.Errorf("format = %v, want RGBA8Unorm", ctx.format)
		}
	})

	t.Run("missing queue", func(t *testing.T) {
		surf := NewHeadlessSurface(device, nil, 0, 10, 10, 1)
		if _, err := acquire(surf, 0); !errors.Is(err, ErrContextUnavailable) {
			t.Errorf("acquire = %v, want ErrContextUnavailable", err)
		}
	})
}

func TestSwapRedBlue(t *testing.T) {
	pix := []byte{1, 2, 3, 4, 5, 6, 7, 8}
	swapRedBlue(pix)
	want := []byte{3, 2, 1, 4, 7, 6, 5, 8}
	for i := range pix {
		if pix[i] != want[i] {
			t.Fatalf("swapRedBlue = %v, want %v", pix, want)
		}
	}
}

func TestQuadVertices(t *testing.T) {
	if quadVertexCount != 6 {
		t.Fatalf("quad has %d vertices, want 6", quadVertexCount)
	}
	data := quadVertexBytes()
	if len(data) != 48 {
		t.Errorf("vertex data = %d bytes, want 48", len(data))
	}
	// Both triangles together cover the clip-space square.
	var area float32
	for i := 0; i < len(quadVertices); i += 3 {
		a, b, c := quadVertices[i], quadVertices[i+1], quadVertices[i+2]
		area += ((b[0]-a[0])*(c[1]-a[1]) - (c[0]-a[0])*(b[1]-a[1])) / 2
	}
	if area != 4 && area != -4 {
		t.Errorf("signed quad area = %v, want 4", area)
	}
}
