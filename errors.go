// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package lightning

import (
	"errors"
	"fmt"
)

var (
	// ErrContextUnavailable is returned by Start when the surface cannot
	// supply a GPU device, queue and alpha-capable target format.
	ErrContextUnavailable = errors.New("lightning: graphics context unavailable")

	// ErrRendererState is returned by Start on a renderer that is already
	// running or has been cancelled.
	ErrRendererState = errors.New("lightning: renderer is not in the uninitialized state")

	// ErrNoOffscreenTarget is returned by ReadPixels when frames are drawn
	// into a host-provided view or no frame has been drawn yet.
	ErrNoOffscreenTarget = errors.New("lightning: no offscreen target to read")
)

// Stage identifies a programmable pipeline stage.
type Stage int

const (
	StageVertex Stage = iota
	StageFragment
)

// String returns the lower-case stage name.
func (s Stage) String() string {
	switch s {
	case StageVertex:
		return "vertex"
	case StageFragment:
		return "fragment"
	default:
		return fmt.Sprintf("Stage(%d)", int(s))
	}
}

// ShaderCompileError reports a shader stage that failed to compile.
// Log carries the compiler diagnostic.
type ShaderCompileError struct {
	Stage Stage
	Log   string
	Err   error
}

func (e *ShaderCompileError) Error() string {
	return fmt.Sprintf("lightning: compile %s shader: %s", e.Stage, e.Log)
}

func (e *ShaderCompileError) Unwrap() error { return e.Err }

// ProgramLinkError reports a failure to link compiled stages into a
// render pipeline.
type ProgramLinkError struct {
	Log string
	Err error
}

func (e *ProgramLinkError) Error() string {
	return "lightning: link program: " + e.Log
}

func (e *ProgramLinkError) Unwrap() error { return e.Err }
