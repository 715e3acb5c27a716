// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package lightning

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
)

// Frame is a rendered image in framebuffer layout: 8-bit RGBA, row-major,
// top row first, holding the values blending wrote into the target.
// Color is therefore scaled by alpha but may exceed it.
type Frame struct {
	Width  int
	Height int
	Pix    []uint8
}

// NewFrame allocates a transparent frame.
func NewFrame(width, height int) *Frame {
	return &Frame{
		Width:  width,
		Height: height,
		Pix:    make([]uint8, width*height*4),
	}
}

// RGBA returns the stored channels of pixel (x, y).
func (f *Frame) RGBA(x, y int) (r, g, b, a uint8) {
	i := (y*f.Width + x) * 4
	return f.Pix[i], f.Pix[i+1], f.Pix[i+2], f.Pix[i+3]
}

// Alpha returns the alpha of pixel (x, y) in [0, 1].
func (f *Frame) Alpha(x, y int) float32 {
	return float32(f.Pix[(y*f.Width+x)*4+3]) / 255
}

// Equal reports whether two frames have identical size and pixels.
func (f *Frame) Equal(o *Frame) bool {
	return f.Width == o.Width && f.Height == o.Height && bytes.Equal(f.Pix, o.Pix)
}

// At implements image.Image, returning the pixel as straight alpha.
func (f *Frame) At(x, y int) color.Color {
	if x < 0 || y < 0 || x >= f.Width || y >= f.Height {
		return color.NRGBA{}
	}
	r, g, b, a := f.RGBA(x, y)
	return unpremultiply(r, g, b, a)
}

// Bounds implements image.Image.
func (f *Frame) Bounds() image.Rectangle {
	return image.Rect(0, 0, f.Width, f.Height)
}

// ColorModel implements image.Image.
func (f *Frame) ColorModel() color.Model {
	return color.NRGBAModel
}

// ToImage converts the frame to a straight-alpha image.
func (f *Frame) ToImage() *image.NRGBA {
	img := image.NewNRGBA(f.Bounds())
	for i := 0; i < len(f.Pix); i += 4 {
		c := unpremultiply(f.Pix[i], f.Pix[i+1], f.Pix[i+2], f.Pix[i+3])
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	return img
}

// SavePNG writes the frame to a PNG file.
func (f *Frame) SavePNG(path string) error {
	out, err := os.Create(path) //nolint:gosec // path is caller-provided
	if err != nil {
		return err
	}
	defer func() {
		_ = out.Close()
	}()
	return png.Encode(out, f.ToImage())
}

func unpremultiply(r, g, b, a uint8) color.NRGBA {
	if a == 0 {
		return color.NRGBA{}
	}
	div := func(c uint8) uint8 {
		v := (uint32(c)*255 + uint32(a)/2) / uint32(a)
		return uint8(min(v, 255))
	}
	return color.NRGBA{R: div(r), G: div(g), B: div(b), A: a}
}
