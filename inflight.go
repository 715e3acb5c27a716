// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package lightning

import (
	"fmt"

	"github.com/gogpu/wgpu/hal"
)

// maxFramesInFlight bounds how many submitted frames may be pending on the
// GPU before the next submission waits for the oldest one.
const maxFramesInFlight = 3

// frameSubmission is a submitted frame. Its command buffer and fence are
// released once the fence signals.
type frameSubmission struct {
	fence  hal.Fence
	cmdBuf hal.CommandBuffer
}

// fenceStatusQuerier is implemented by devices that can report fence
// completion without blocking.
type fenceStatusQuerier interface {
	GetFenceStatus(fence hal.Fence) (bool, error)
}

// submitFrame submits cmdBuf without waiting for it. Ownership of cmdBuf
// passes to r in every case.
func (r *gpuResources) submitFrame(queue hal.Queue, cmdBuf hal.CommandBuffer) error {
	if err := r.retireFrames(false); err != nil {
		r.device.FreeCommandBuffer(cmdBuf)
		return err
	}

	fence, err := r.device.CreateFence()
	if err != nil {
		r.device.FreeCommandBuffer(cmdBuf)
		return fmt.Errorf("create fence: %w", err)
	}
	if err := queue.Submit([]hal.CommandBuffer{cmdBuf}, fence, 1); err != nil {
		r.device.DestroyFence(fence)
		r.device.FreeCommandBuffer(cmdBuf)
		return fmt.Errorf("submit: %w", err)
	}
	r.inflight = append(r.inflight, frameSubmission{fence: fence, cmdBuf: cmdBuf})
	return nil
}

// retireFrames releases submitted frames whose fence has signaled, oldest
// first. With wait set it blocks until every frame is done; otherwise it
// blocks only while maxFramesInFlight frames are still pending.
func (r *gpuResources) retireFrames(wait bool) error {
	for len(r.inflight) > 0 {
		s := r.inflight[0]
		done := r.fenceSignaled(s.fence)
		if !done && (wait || len(r.inflight) >= maxFramesInFlight) {
			ok, err := r.device.Wait(s.fence, 1, gpuWaitTimeout)
			if err != nil {
				return fmt.Errorf("wait for GPU: %w", err)
			}
			if !ok {
				return fmt.Errorf("wait for GPU: timed out after %v", gpuWaitTimeout)
			}
			done = true
		}
		if !done {
			return nil
		}
		r.device.FreeCommandBuffer(s.cmdBuf)
		r.device.DestroyFence(s.fence)
		r.inflight = r.inflight[1:]
	}
	r.inflight = nil
	return nil
}

func (r *gpuResources) fenceSignaled(fence hal.Fence) bool {
	q, ok := r.device.(fenceStatusQuerier)
	if !ok {
		return false
	}
	done, err := q.GetFenceStatus(fence)
	return err == nil && done
}

// drainFrames waits for every submitted frame and releases it. Frames that
// cannot be waited on are released anyway.
func (r *gpuResources) drainFrames() {
	if err := r.retireFrames(true); err != nil {
		r.log.Warn("lightning: drain in-flight frames", "err", err)
	}
	for _, s := range r.inflight {
		r.device.FreeCommandBuffer(s.cmdBuf)
		r.device.DestroyFence(s.fence)
	}
	r.inflight = nil
}
