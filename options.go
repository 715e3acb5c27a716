// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package lightning

import (
	"log/slog"
	"time"

	"github.com/gogpu/gputypes"
)

// Clock supplies the wall time animation is measured against.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to Clock.
type ClockFunc func() time.Time

// Now calls f.
func (f ClockFunc) Now() time.Time { return f() }

type options struct {
	clock     Clock
	scheduler FrameScheduler
	vertex    string
	fragment  string
	logger    *slog.Logger
	format    gputypes.TextureFormat
}

func defaultOptions() options {
	return options{
		clock:    ClockFunc(time.Now),
		vertex:   vertexShaderSource,
		fragment: fragmentShaderSource,
	}
}

// Option configures a Renderer.
type Option func(*options)

// WithClock sets the time source. The default is time.Now.
func WithClock(c Clock) Option {
	return func(o *options) {
		if c != nil {
			o.clock = c
		}
	}
}

// WithScheduler sets the frame scheduler. The default is a private
// FrameLoop reachable through Renderer.Scheduler.
func WithScheduler(s FrameScheduler) Option {
	return func(o *options) {
		o.scheduler = s
	}
}

// WithShaderSources replaces the WGSL sources of both stages. The fragment
// stage must declare its parameters in a uniform struct at group 0,
// binding 0.
func WithShaderSources(vertex, fragment string) Option {
	return func(o *options) {
		o.vertex = vertex
		o.fragment = fragment
	}
}

// WithLogger sets a renderer-scoped logger in place of the package logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithTargetFormat overrides the surface format.
func WithTargetFormat(f gputypes.TextureFormat) Option {
	return func(o *options) {
		o.format = f
	}
}
