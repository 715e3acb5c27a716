// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package lightning

import (
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// State is the lifecycle state of a Renderer.
type State int32

const (
	StateUninitialized State = iota
	StateRunning
	StateCancelled
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateRunning:
		return "running"
	case StateCancelled:
		return "cancelled"
	default:
		return fmt.Sprintf("State(%d)", int32(s))
	}
}

// Renderer draws the animated lightning filament onto a Surface once per
// scheduled frame.
//
// A Renderer moves from StateUninitialized to StateRunning on a successful
// Start and to StateCancelled on Cancel or Close. All GPU work happens on
// the goroutine that pumps its FrameScheduler. SetParameters and Cancel may
// be called from any goroutine.
//
// Example:
//
//	r := lightning.New(surface, lightning.DefaultParameters())
//	if err := r.Start(); err != nil {
//		return err
//	}
//	defer r.Close()
//	return r.Scheduler().(*lightning.FrameLoop).Run(ctx, time.Second/60)
type Renderer struct {
	surface   Surface
	opts      options
	scheduler FrameScheduler

	state     atomic.Int32
	params    atomic.Pointer[RenderParameters]
	scheduled atomic.Bool
	handle    atomic.Uint64

	frames      atomic.Uint64
	frameErrors atomic.Uint64

	mu        sync.Mutex
	ctx       *gpuContext
	res       *gpuResources
	start     time.Time
	surfState SurfaceState

	closeOnce sync.Once
}

// New creates a renderer bound to surface. No GPU work happens until Start.
func New(surface Surface, params RenderParameters, opts ...Option) *Renderer {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.scheduler == nil {
		o.scheduler = NewFrameLoop()
	}
	r := &Renderer{
		surface:   surface,
		opts:      o,
		scheduler: o.scheduler,
	}
	r.params.Store(&params)
	return r
}

func (r *Renderer) logger() *slog.Logger {
	if r.opts.logger != nil {
		return r.opts.logger
	}
	return Logger()
}

// Start acquires the GPU context, builds the pipeline and geometry and
// schedules the first frame. On failure every object created so far is
// released, the error is logged and the renderer stays uninitialized.
//
// Start returns ErrContextUnavailable, a *ShaderCompileError, a
// *ProgramLinkError, or ErrRendererState when called twice or after Cancel.
func (r *Renderer) Start() (err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.State() != StateUninitialized {
		return ErrRendererState
	}
	log := r.logger()

	ctx, err := acquire(r.surface, r.opts.format)
	if err != nil {
		log.Error("lightning: acquire context", "err", err)
		return err
	}

	res := newGPUResources(ctx.device, log)
	defer func() {
		if err != nil {
			res.release()
			log.Error("lightning: start failed", "err", err)
		}
	}()

	if err := res.compile(r.opts.vertex, r.opts.fragment); err != nil {
		return err
	}
	if err := res.link(ctx, r.opts.vertex, r.opts.fragment); err != nil {
		return err
	}
	for _, m := range uniformMembers {
		if !res.uniforms.has(m.name) {
			log.Debug("lightning: uniform not declared, skipping", "name", m.name)
		}
	}
	if err := res.uploadGeometry(ctx.queue); err != nil {
		return err
	}
	if err := res.createUniforms(); err != nil {
		return err
	}

	r.ctx, r.res = ctx, res
	r.surfState = computeState(r.surface)
	r.start = r.opts.clock.Now()
	if !r.state.CompareAndSwap(int32(StateUninitialized), int32(StateRunning)) {
		// Cancelled while starting.
		r.ctx, r.res = nil, nil
		return ErrRendererState
	}
	log.Info("lightning: renderer started",
		"format", ctx.format,
		"width", r.surfState.Width,
		"height", r.surfState.Height)
	r.schedule()
	return nil
}

func (r *Renderer) schedule() {
	if r.scheduled.Swap(true) {
		return
	}
	h := r.scheduler.RequestFrame(r.tick)
	r.handle.Store(uint64(h))
	// A Cancel that ran before the Store found no handle to cancel.
	if r.State() != StateRunning {
		if h := r.handle.Swap(0); h != 0 {
			r.scheduler.CancelFrame(FrameHandle(h))
		}
	}
}

// tick draws one frame and schedules the next while running.
func (r *Renderer) tick() {
	r.scheduled.Store(false)
	r.handle.Store(0)
	if r.State() != StateRunning {
		return
	}

	r.mu.Lock()
	if r.res != nil {
		if err := r.drawFrame(); err != nil {
			r.frameErrors.Add(1)
			r.logger().Warn("lightning: frame failed", "err", err)
		}
	}
	r.mu.Unlock()

	if r.State() == StateRunning {
		r.schedule()
	}
}

// drawFrame must be called with r.mu held.
func (r *Renderer) drawFrame() error {
	st := computeState(r.surface)
	if st != r.surfState {
		r.logger().Debug("lightning: surface resized", "width", st.Width, "height", st.Height, "dpr", st.DevicePixelRatio)
		r.surfState = st
	}

	view, err := r.targetView(st)
	if err != nil {
		return err
	}
	if view == nil {
		return nil
	}

	res, ctx := r.res, r.ctx
	u := frameUniforms(st, r.opts.clock.Now().Sub(r.start).Seconds(), *r.params.Load())
	res.uniforms.upload(ctx.queue, res.uniformBuffer, u)

	encoder, err := ctx.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{
		Label: "lightning_encoder",
	})
	if err != nil {
		return fmt.Errorf("create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("lightning_frame"); err != nil {
		return fmt.Errorf("begin encoding: %w", err)
	}

	rp := encoder.BeginRenderPass(&hal.RenderPassDescriptor{
		Label: "lightning_pass",
		ColorAttachments: []hal.RenderPassColorAttachment{{
			View:       view,
			LoadOp:     gputypes.LoadOpClear,
			StoreOp:    gputypes.StoreOpStore,
			ClearValue: ctx.clear,
		}},
	})
	setViewport(rp, st)
	rp.SetPipeline(res.pipeline)
	rp.SetBindGroup(0, res.bindGroup, nil)
	rp.SetVertexBuffer(0, res.vertexBuffer, 0)
	rp.Draw(quadVertexCount, 1, 0, 0)
	rp.End()

	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return fmt.Errorf("end encoding: %w", err)
	}
	if err := res.submitFrame(ctx.queue, cmdBuf); err != nil {
		return err
	}
	r.frames.Add(1)
	return nil
}

// targetView returns the view to draw into: the surface's own view when it
// has one, otherwise the offscreen target sized to st.
func (r *Renderer) targetView(st SurfaceState) (hal.TextureView, error) {
	if tv, ok := r.surface.(TargetViewer); ok {
		return tv.TargetView(), nil
	}
	if err := r.res.ensureTarget(r.ctx.format, uint32(st.Width), uint32(st.Height)); err != nil {
		return nil, err
	}
	return r.res.target.view, nil
}

// setViewport covers the whole drawable on passes that support it.
func setViewport(rp hal.RenderPassEncoder, st SurfaceState) {
	type viewportSetter interface {
		SetViewport(x, y, width, height, minDepth, maxDepth float32)
	}
	if vs, ok := rp.(viewportSetter); ok {
		vs.SetViewport(0, 0, float32(st.Width), float32(st.Height), 0, 1)
	}
}

// SetParameters replaces the parameters used from the next frame on. It
// never recompiles shaders and may be called from any goroutine.
func (r *Renderer) SetParameters(p RenderParameters) {
	r.params.Store(&p)
}

// Parameters returns the current parameter snapshot.
func (r *Renderer) Parameters() RenderParameters {
	return *r.params.Load()
}

// Resize recomputes the drawable size immediately instead of at the next
// frame.
func (r *Renderer) Resize() {
	r.mu.Lock()
	defer r.mu.Unlock()
	st := computeState(r.surface)
	if st != r.surfState {
		r.logger().Debug("lightning: resize", "width", st.Width, "height", st.Height)
	}
	r.surfState = st
}

// Cancel stops the render loop before its next frame. A frame already in
// flight completes. Cancel is idempotent.
func (r *Renderer) Cancel() {
	for {
		s := r.state.Load()
		if State(s) == StateCancelled {
			break
		}
		if r.state.CompareAndSwap(s, int32(StateCancelled)) {
			break
		}
	}
	if h := r.handle.Swap(0); h != 0 {
		r.scheduler.CancelFrame(FrameHandle(h))
	}
}

// Close cancels the loop and releases every GPU object the renderer owns.
// Only the first call has an effect.
func (r *Renderer) Close() {
	r.closeOnce.Do(func() {
		r.Cancel()

		r.mu.Lock()
		defer r.mu.Unlock()
		if r.res != nil {
			r.res.release()
			r.res = nil
		}
		r.logger().Info("lightning: renderer closed", "frames", r.frames.Load(), "frame_errors", r.frameErrors.Load())
	})
}

// State returns the lifecycle state.
func (r *Renderer) State() State {
	return State(r.state.Load())
}

// SurfaceState returns the drawable size used by the latest frame.
func (r *Renderer) SurfaceState() SurfaceState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.surfState
}

// Frames returns the number of frames submitted.
func (r *Renderer) Frames() uint64 {
	return r.frames.Load()
}

// FrameErrors returns the number of frames that failed to encode or submit.
func (r *Renderer) FrameErrors() uint64 {
	return r.frameErrors.Load()
}

// LastUniforms returns the values pushed with the latest frame. It reports
// false before the first frame or after Close.
func (r *Renderer) LastUniforms() (Uniforms, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.res == nil || r.res.uniforms == nil || r.frames.Load() == 0 {
		return Uniforms{}, false
	}
	return r.res.uniforms.lastUploaded(), true
}

// Scheduler returns the scheduler driving the renderer. Unless WithScheduler
// was given it is a *FrameLoop the caller pumps.
func (r *Renderer) Scheduler() FrameScheduler {
	return r.scheduler
}
