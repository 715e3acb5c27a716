// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package lightning

import (
	"log/slog"
	"testing"
	"time"

	"github.com/gogpu/gputypes"
)

func TestDefaultOptions(t *testing.T) {
	o := defaultOptions()
	if o.clock == nil {
		t.Error("default clock is nil")
	}
	if o.vertex != VertexShaderSource() || o.fragment != FragmentShaderSource() {
		t.Error("default shader sources are not the built-in stages")
	}
	if o.scheduler != nil || o.logger != nil {
		t.Error("scheduler and logger should default to nil")
	}
	if o.format != gputypes.TextureFormatUndefined {
		t.Errorf("format = %v, want undefined", o.format)
	}
}

func TestOptions(t *testing.T) {
	fixed := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	loop := NewFrameLoop()
	logger := slog.New(slog.DiscardHandler)

	r := New(nil, DefaultParameters(),
		WithClock(ClockFunc(func() time.Time { return fixed })),
		WithScheduler(loop),
		WithShaderSources("vs", "fs"),
		WithLogger(logger),
		WithTargetFormat(gputypes.TextureFormatRGBA8Unorm),
	)

	if got := r.opts.clock.Now(); !got.Equal(fixed) {
		t.Errorf("clock = %v, want %v", got, fixed)
	}
	if r.Scheduler() != FrameScheduler(loop) {
		t.Error("WithScheduler not applied")
	}
	if r.opts.vertex != "vs" || r.opts.fragment != "fs" {
		t.Error("WithShaderSources not applied")
	}
	if r.logger() != logger {
		t.Error("WithLogger not applied")
	}
	if r.opts.format != gputypes.TextureFormatRGBA8Unorm {
		t.Errorf("format = %v, want RGBA8Unorm", r.opts.format)
	}
}

func TestWithClockNilKeepsDefault(t *testing.T) {
	r := New(nil, DefaultParameters(), WithClock(nil))
	if r.opts.clock == nil {
		t.Fatal("WithClock(nil) cleared the clock")
	}
}

func TestNewCreatesPrivateLoop(t *testing.T) {
	a := New(nil, DefaultParameters())
	b := New(nil, DefaultParameters())
	la, ok := a.Scheduler().(*FrameLoop)
	if !ok {
		t.Fatalf("Scheduler() = %T, want *FrameLoop", a.Scheduler())
	}
	if la == b.Scheduler().(*FrameLoop) {
		t.Error("renderers share a frame loop")
	}
}

func TestRendererPackageLoggerFallback(t *testing.T) {
	r := New(nil, DefaultParameters())
	if r.logger() != Logger() {
		t.Error("renderer without WithLogger should use the package logger")
	}
}
