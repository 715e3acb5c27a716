// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build nogpu

package main

import (
	"errors"

	"github.com/gogpu/wgpu/hal"
)

type gpuDevice struct {
	device hal.Device
	queue  hal.Queue
	name   string
}

func openDevice() (*gpuDevice, error) {
	return nil, errors.New("built with nogpu")
}

func (d *gpuDevice) Close() {}
