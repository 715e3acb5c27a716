// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package lightning

import (
	_ "embed"
)

// Embedded WGSL shader sources.

//go:embed shaders/lightning_vs.wgsl
var vertexShaderSource string

//go:embed shaders/lightning_fs.wgsl
var fragmentShaderSource string

// Entry points the pipeline links against.
const (
	vertexEntryPoint   = "vs_main"
	fragmentEntryPoint = "fs_main"
)

// VertexShaderSource returns the WGSL source of the fullscreen quad stage.
func VertexShaderSource() string {
	return vertexShaderSource
}

// FragmentShaderSource returns the WGSL source of the lightning stage.
func FragmentShaderSource() string {
	return fragmentShaderSource
}
