// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package main

import (
	"fmt"
	"image"
	"sync"
	"time"

	"golang.org/x/image/draw"

	"github.com/gogpu/lightning"
)

// frameSource renders the animation at a given time.
type frameSource interface {
	Render(t float64) (*lightning.Frame, error)
	Name() string
	Close()
}

// fixedSize is a Sizer with constant values.
type fixedSize struct {
	width, height, dpr float64
}

func (s fixedSize) LogicalSize() (width, height float64) { return s.width, s.height }
func (s fixedSize) DevicePixelRatio() float64            { return s.dpr }

// cpuSource renders with the software renderer.
type cpuSource struct {
	sr     *lightning.SoftwareRenderer
	state  lightning.SurfaceState
	params lightning.RenderParameters
}

func newCPUSource(cfg config) *cpuSource {
	w, h := lightning.ComputeSize(fixedSize{float64(cfg.Width), float64(cfg.Height), cfg.DPR})
	return &cpuSource{
		sr:     lightning.NewSoftwareRenderer(cfg.Workers),
		state:  lightning.SurfaceState{Width: w, Height: h, DevicePixelRatio: cfg.DPR},
		params: cfg.parameters(),
	}
}

func (s *cpuSource) Render(t float64) (*lightning.Frame, error) {
	return s.sr.Render(nil, s.state, t, s.params), nil
}

func (s *cpuSource) Name() string { return "software" }

func (s *cpuSource) Close() { s.sr.Close() }

// stepClock reports a base time plus a settable offset, so each GPU frame
// lands on an exact animation time.
type stepClock struct {
	mu     sync.Mutex
	base   time.Time
	offset time.Duration
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.base.Add(c.offset)
}

func (c *stepClock) set(seconds float64) {
	c.mu.Lock()
	c.offset = time.Duration(seconds * float64(time.Second))
	c.mu.Unlock()
}

// gpuSource drives a Renderer on a headless device and reads each frame
// back.
type gpuSource struct {
	dev   *gpuDevice
	r     *lightning.Renderer
	loop  *lightning.FrameLoop
	clock *stepClock
}

func newGPUSource(cfg config) (*gpuSource, error) {
	dev, err := openDevice()
	if err != nil {
		return nil, err
	}
	surf := lightning.NewHeadlessSurface(dev.device, dev.queue, 0, float64(cfg.Width), float64(cfg.Height), cfg.DPR)
	clock := &stepClock{base: time.Now()}
	loop := lightning.NewFrameLoop()
	r := lightning.New(surf, cfg.parameters(), lightning.WithClock(clock), lightning.WithScheduler(loop))
	if err := r.Start(); err != nil {
		dev.Close()
		return nil, err
	}
	return &gpuSource{dev: dev, r: r, loop: loop, clock: clock}, nil
}

func (s *gpuSource) Render(t float64) (*lightning.Frame, error) {
	s.clock.set(t)
	failed := s.r.FrameErrors()
	if s.loop.Pump() == 0 {
		return nil, fmt.Errorf("renderer stopped (%v)", s.r.State())
	}
	if s.r.FrameErrors() != failed {
		return nil, fmt.Errorf("frame at t=%.3f failed on %s", t, s.dev.name)
	}
	return s.r.ReadPixels()
}

func (s *gpuSource) Name() string { return "gpu (" + s.dev.name + ")" }

func (s *gpuSource) Close() {
	s.r.Close()
	s.dev.Close()
}

// toLogical converts a device-pixel frame to a straight-alpha image of the
// logical size, downsampling with Catmull-Rom when dpr is not 1.
func toLogical(f *lightning.Frame, width, height int) *image.NRGBA {
	img := f.ToImage()
	if f.Width == width && f.Height == height {
		return img
	}
	dst := image.NewNRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
	return dst
}
