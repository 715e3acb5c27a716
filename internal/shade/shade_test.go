// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package shade

import (
	"math"
	"testing"
)

// =============================================================================
// Primitives
// =============================================================================

func TestHashRange(t *testing.T) {
	for i := -500; i < 500; i++ {
		s := float32(i) * 0.731
		if h := Hash11(s); h < 0 || h >= 1 {
			t.Fatalf("Hash11(%v) = %v, outside [0,1)", s, h)
		}
		if h := Hash12(s, -s*1.7); h < 0 || h >= 1 {
			t.Fatalf("Hash12(%v) = %v, outside [0,1)", s, h)
		}
	}
}

func TestHash11Zero(t *testing.T) {
	if got := Hash11(0); got != 0 {
		t.Errorf("Hash11(0) = %v, want 0", got)
	}
}

func TestNoiseLattice(t *testing.T) {
	// At integer coordinates the smoothstep weight is zero, so noise
	// collapses to the corner hash.
	for _, p := range [][2]float32{{0, 0}, {3, -2}, {17, 41}} {
		if got, want := Noise(p[0], p[1]), Hash12(p[0], p[1]); got != want {
			t.Errorf("Noise(%v) = %v, want Hash12 = %v", p, got, want)
		}
	}
}

func TestFBMRange(t *testing.T) {
	for x := float32(-4); x < 4; x += 0.173 {
		for y := float32(-4); y < 4; y += 0.211 {
			v := FBM(x, y)
			if v < 0 || v >= 1 {
				t.Fatalf("FBM(%v,%v) = %v, outside [0,1)", x, y, v)
			}
		}
	}
}

func TestHSVToRGB(t *testing.T) {
	tests := []struct {
		name    string
		h, s, v float32
		want    [3]float32
	}{
		{"red", 0, 1, 1, [3]float32{1, 0, 0}},
		{"green", 1.0 / 3, 1, 1, [3]float32{0, 1, 0}},
		{"blue", 2.0 / 3, 1, 1, [3]float32{0, 0, 1}},
		{"grey", 0.4, 0, 0.5, [3]float32{0.5, 0.5, 0.5}},
		{"negative hue wraps", -1.0 / 3, 1, 1, [3]float32{0, 0, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := HSVToRGB(tt.h, tt.s, tt.v)
			for i := range got {
				if math.Abs(float64(got[i]-tt.want[i])) > 1e-5 {
					t.Fatalf("HSVToRGB(%v,%v,%v) = %v, want %v", tt.h, tt.s, tt.v, got, tt.want)
				}
			}
		})
	}
}

func TestBaseColorHuePeriodic(t *testing.T) {
	if a, b := BaseColor(0), BaseColor(360); a != b {
		t.Errorf("BaseColor(0) = %v, BaseColor(360) = %v, want equal", a, b)
	}
	for _, h := range []float32{50, 120, 230} {
		a, b := BaseColor(h), BaseColor(h+360)
		for i := range a {
			if math.Abs(float64(a[i]-b[i])) > 1e-4 {
				t.Errorf("BaseColor(%v) = %v, BaseColor(%v) = %v", h, a, h+360, b)
			}
		}
	}
}

// =============================================================================
// Fragment
// =============================================================================

func scenarioUniforms(w, h, time float32) Uniforms {
	return Uniforms{
		Resolution: [2]float32{w, h},
		Time:       time,
		Hue:        50,
		XOffset:    -0.7,
		Speed:      1,
		Intensity:  1,
		Size:       1,
	}
}

func TestFragmentDeterministic(t *testing.T) {
	u := scenarioUniforms(160, 120, 1.25)
	for y := float32(0.5); y < 120; y += 13 {
		for x := float32(0.5); x < 160; x += 11 {
			if a, b := Fragment(u, x, y), Fragment(u, x, y); a != b {
				t.Fatalf("Fragment(%v,%v) not deterministic: %v vs %v", x, y, a, b)
			}
		}
	}
}

func TestFragmentFreeze(t *testing.T) {
	u1 := scenarioUniforms(160, 120, 0.5)
	u1.Speed = 0
	u2 := u1
	u2.Time = 97.25

	for y := float32(0.5); y < 120; y += 7 {
		for x := float32(0.5); x < 160; x += 5 {
			wx1, wy1 := Warp(u1, x, y)
			wx2, wy2 := Warp(u2, x, y)
			if wx1 != wx2 || wy1 != wy2 {
				t.Fatalf("Warp differs across time with speed 0 at (%v,%v)", x, y)
			}
			if Fragment(u1, x, y) != Fragment(u2, x, y) {
				t.Fatalf("Fragment differs across time with speed 0 at (%v,%v)", x, y)
			}
		}
	}
}

func TestFragmentTransparentWithoutFlicker(t *testing.T) {
	// hash11(0) is 0 so the first frame carries no energy.
	u := scenarioUniforms(64, 48, 0)
	for x := float32(0.5); x < 64; x++ {
		if px := Fragment(u, x, 24.5); px[3] != 0 {
			t.Fatalf("alpha at t=0 = %v, want 0", px[3])
		}
	}
}

func TestFragmentZeroIntensity(t *testing.T) {
	u := scenarioUniforms(64, 48, 2)
	u.Intensity = 0
	if px := Fragment(u, 32, 24); px != [4]float32{} {
		t.Errorf("Fragment with zero intensity = %v, want transparent black", px)
	}
}

func TestFragmentDistanceGuard(t *testing.T) {
	// Brightness saturates at the guard distance instead of diverging.
	u := scenarioUniforms(160, 120, 2)
	limit := u.Intensity * Flicker(u.Time, u.Speed) / MinDistance
	base := BaseColor(u.Hue)
	for y := float32(0.5); y < 120; y++ {
		for x := float32(0.5); x < 160; x++ {
			px := Fragment(u, x, y)
			for i := range 3 {
				if px[i] > base[i]*limit*1.0001 {
					t.Fatalf("channel %d = %v exceeds guard limit %v", i, px[i], base[i]*limit)
				}
			}
		}
	}
}

func TestFragmentScenarioFirstFrame(t *testing.T) {
	// One refresh after start the flicker is near zero and the image
	// center lies off the warped centerline.
	for _, time := range []float32{0, 0.016} {
		u := scenarioUniforms(800, 600, time)
		if x, _ := Warp(u, 400, 300); abs(x) < 0.5 {
			t.Errorf("t=%v: warped x at center = %v, want away from the filament", time, x)
		}
		if a := Fragment(u, 400, 300)[3]; a >= 0.05 {
			t.Errorf("t=%v: center alpha = %v, want background < 0.05", time, a)
		}
	}
}

func TestFragmentScenario(t *testing.T) {
	const w, h = 160, 120
	u := scenarioUniforms(w, h, 2)

	// The filament crosses every row.
	for row := 0; row < h; row++ {
		var best float32
		for col := 0; col < w; col++ {
			a := Fragment(u, float32(col)+0.5, float32(row)+0.5)[3]
			best = max(best, a)
		}
		if best < 0.99 {
			t.Fatalf("row %d peak alpha = %v, want >= 0.99", row, best)
		}
	}

	// Far from the filament the output fades out.
	if a := Fragment(u, 0.5, h-0.5)[3]; a >= 0.5 {
		t.Errorf("top-left alpha = %v, want < 0.5", a)
	}
}

func TestFragmentCenteredFilament(t *testing.T) {
	u := Uniforms{Resolution: [2]float32{800, 600}, Time: 2, Hue: 230, Speed: 1, Intensity: 1, Size: 1}
	if a := Fragment(u, 400, 300)[3]; a < 0.99 {
		t.Errorf("center alpha with default parameters = %v, want >= 0.99", a)
	}
}
