// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package lightning

import (
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func scenarioParameters() RenderParameters {
	return RenderParameters{Hue: 50, XOffset: -0.7, Speed: 1, Intensity: 1, Size: 1}
}

func TestSoftwareRenderer_Deterministic(t *testing.T) {
	sr := NewSoftwareRenderer(4)
	defer sr.Close()

	a := sr.RenderSize(96, 64, 1.75, scenarioParameters())
	b := sr.RenderSize(96, 64, 1.75, scenarioParameters())
	if !a.Equal(b) {
		t.Error("two renders with identical inputs differ")
	}
}

func TestSoftwareRenderer_WorkerCountIndependent(t *testing.T) {
	one := NewSoftwareRenderer(1)
	defer one.Close()
	many := NewSoftwareRenderer(8)
	defer many.Close()

	a := one.RenderSize(80, 60, 2.5, DefaultParameters())
	b := many.RenderSize(80, 60, 2.5, DefaultParameters())
	if !a.Equal(b) {
		t.Error("output depends on worker count")
	}
}

func TestSoftwareRenderer_Freeze(t *testing.T) {
	sr := NewSoftwareRenderer(0)
	defer sr.Close()

	p := scenarioParameters()
	p.Speed = 0
	a := sr.RenderSize(64, 48, 0.3, p)
	b := sr.RenderSize(64, 48, 42.0, p)
	if !a.Equal(b) {
		t.Error("frames differ across time with speed 0")
	}
}

func TestSoftwareRenderer_TimeChangesOutput(t *testing.T) {
	sr := NewSoftwareRenderer(0)
	defer sr.Close()

	a := sr.RenderSize(64, 48, 1.0, scenarioParameters())
	b := sr.RenderSize(64, 48, 2.0, scenarioParameters())
	if a.Equal(b) {
		t.Error("frames at different times should differ when speed is 1")
	}
}

func TestSoftwareRenderer_Scenario(t *testing.T) {
	sr := NewSoftwareRenderer(0)
	defer sr.Close()

	const w, h = 160, 120
	f := sr.RenderSize(w, h, 2.0, scenarioParameters())

	for y := 0; y < h; y++ {
		var peak float32
		for x := 0; x < w; x++ {
			peak = max(peak, f.Alpha(x, y))
		}
		if peak < 0.98 {
			t.Fatalf("row %d peak alpha = %v, want filament >= 0.98", y, peak)
		}
	}
	if a := f.Alpha(0, 0); a >= 0.25 {
		t.Errorf("top-left alpha = %v, want background < 0.25", a)
	}
}

func TestSoftwareRenderer_ScenarioFirstFrameCenter(t *testing.T) {
	sr := NewSoftwareRenderer(0)
	defer sr.Close()

	const w, h = 160, 120
	f := sr.RenderSize(w, h, 0.016, scenarioParameters())
	if a := f.Alpha(w/2, h/2); a >= 0.05 {
		t.Errorf("center alpha = %v, want background < 0.05", a)
	}
}

func TestSoftwareRenderer_ReusesFrame(t *testing.T) {
	sr := NewSoftwareRenderer(2)
	defer sr.Close()

	st := SurfaceState{Width: 32, Height: 16, DevicePixelRatio: 1}
	dst := NewFrame(32, 16)
	got := sr.Render(dst, st, 1, DefaultParameters())
	if got != dst {
		t.Error("Render should draw into a frame of matching size")
	}

	st.Width = 40
	got = sr.Render(dst, st, 1, DefaultParameters())
	if got == dst || got.Width != 40 {
		t.Error("Render should reallocate on size change")
	}
}

func TestBlendOverClear(t *testing.T) {
	tests := []struct {
		name string
		src  [4]float32
		want [4]uint8
	}{
		{"transparent", [4]float32{0, 0, 0, 0}, [4]uint8{0, 0, 0, 0}},
		{"opaque", [4]float32{1, 0.5, 0, 1}, [4]uint8{255, 128, 0, 255}},
		{"half", [4]float32{1, 1, 1, 0.5}, [4]uint8{128, 128, 128, 64}},
		{"overbright clamps", [4]float32{3, 2, 0.5, 1}, [4]uint8{255, 255, 128, 255}},
		{"negative clamps", [4]float32{-1, 0, 0, -0.2}, [4]uint8{0, 0, 0, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := blendOverClear(tt.src); got != tt.want {
				t.Errorf("blendOverClear(%v) = %v, want %v", tt.src, got, tt.want)
			}
		})
	}
}

func TestFrameToImage(t *testing.T) {
	f := NewFrame(2, 1)
	copy(f.Pix, []uint8{64, 32, 0, 128, 200, 10, 10, 100})

	img := f.ToImage()
	if c := img.NRGBAAt(0, 0); c.R != 128 || c.G != 64 || c.B != 0 || c.A != 128 {
		t.Errorf("pixel 0 = %+v, want {128 64 0 128}", c)
	}
	// Color above alpha saturates instead of wrapping.
	if c := img.NRGBAAt(1, 0); c.R != 255 || c.A != 100 {
		t.Errorf("pixel 1 = %+v, want R=255 A=100", c)
	}
	if c := f.At(5, 5); c != (color.NRGBA{}) {
		t.Errorf("out of bounds At = %v, want transparent", c)
	}
}

func TestFrameSavePNG(t *testing.T) {
	sr := NewSoftwareRenderer(0)
	defer sr.Close()
	f := sr.RenderSize(24, 16, 1.5, DefaultParameters())

	path := filepath.Join(t.TempDir(), "frame.png")
	if err := f.SavePNG(path); err != nil {
		t.Fatalf("SavePNG: %v", err)
	}

	in, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer in.Close()
	img, err := png.Decode(in)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 24 || b.Dy() != 16 {
		t.Errorf("decoded bounds = %v, want 24x16", b)
	}
}
