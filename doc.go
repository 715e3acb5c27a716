// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package lightning renders an animated procedural lightning filament with
// a WebGPU-style fragment shader.
//
// # Overview
//
// A Renderer binds to a host-owned [Surface], compiles a fullscreen-quad
// vertex stage and a value-noise fragment stage, and redraws the filament
// once per scheduled frame. The background stays transparent so the
// filament composites over whatever the host draws beneath it.
//
// # Quick Start
//
//	surf := lightning.NewHeadlessSurface(device, queue, 0, 800, 600, 1)
//	r := lightning.New(surf, lightning.RenderParameters{
//		Hue: 50, XOffset: -0.7, Speed: 1, Intensity: 1, Size: 1,
//	})
//	if err := r.Start(); err != nil {
//		log.Fatal(err)
//	}
//	defer r.Close()
//
//	loop := r.Scheduler().(*lightning.FrameLoop)
//	loop.Pump()
//	frame, _ := r.ReadPixels()
//	_ = frame.SavePNG("lightning.png")
//
// # Renderers
//
// The GPU path runs on any github.com/gogpu/wgpu/hal device. [SoftwareRenderer]
// evaluates the same fragment math on the CPU and is used when no adapter
// is available.
//
// # Coordinate System
//
// Shader coordinates follow the bottom-left origin convention: fragment
// (0.5, 0.5) is the bottom-left pixel. [Frame] rows are stored top row
// first.
package lightning

// Version information
const (
	// Version is the current version of the library
	Version = "0.1.0"

	// VersionMajor is the major version
	VersionMajor = 0

	// VersionMinor is the minor version
	VersionMinor = 1

	// VersionPatch is the patch version
	VersionPatch = 0
)
