// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package main

import (
	"bytes"
	"fmt"
	"image"
	"image/color"

	"github.com/go-text/typesetting/di"
	gotext "github.com/go-text/typesetting/font"
	tslang "github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	captionHeight = 18
	captionSize   = 12
	sheetGap      = 4
)

var (
	sheetBackground = color.RGBA{R: 10, G: 12, B: 24, A: 255}
	captionColor    = color.RGBA{R: 200, G: 205, B: 220, A: 255}
)

// sheetCell is one captioned frame of a contact sheet.
type sheetCell struct {
	img   image.Image
	label string
}

// captionPrinter formats captions and summaries with English digit
// grouping.
var captionPrinter = message.NewPrinter(language.English)

func frameCaption(index int, t float64) string {
	return captionPrinter.Sprintf("#%d  t=%.2fs", index+1, t)
}

func newCaptionFace() (font.Face, error) {
	f, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse caption font: %w", err)
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    captionSize,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("create caption face: %w", err)
	}
	return face, nil
}

// captionShaper measures caption advances with HarfBuzz shaping so
// captions can be centered under their cell.
type captionShaper struct {
	face *gotext.Face
	hb   shaping.HarfbuzzShaper
}

func newCaptionShaper() (*captionShaper, error) {
	face, err := gotext.ParseTTF(bytes.NewReader(goregular.TTF))
	if err != nil {
		return nil, fmt.Errorf("parse caption font: %w", err)
	}
	return &captionShaper{face: face}, nil
}

// advance returns the shaped width of label at captionSize.
func (s *captionShaper) advance(label string) fixed.Int26_6 {
	runes := []rune(label)
	if len(runes) == 0 {
		return 0
	}
	out := s.hb.Shape(shaping.Input{
		Text:      runes,
		RunStart:  0,
		RunEnd:    len(runes),
		Direction: di.DirectionLTR,
		Face:      s.face,
		Size:      fixed.I(captionSize),
		Script:    tslang.Latin,
		Language:  tslang.NewLanguage("en"),
	})
	return out.Advance
}

// captionX returns the left edge of a label centered in a cell starting at
// x, falling back to a small left margin when the label is too wide.
func captionX(x, cellW int, adv fixed.Int26_6) int {
	if off := (cellW - adv.Ceil()) / 2; off > 2 {
		return x + off
	}
	return x + 2
}

// buildSheet lays cells out in a grid of the given column count over a dark
// background, each with its label below it.
func buildSheet(cells []sheetCell, cellW, cellH, columns int) (*image.RGBA, error) {
	if len(cells) == 0 {
		return nil, fmt.Errorf("no frames for contact sheet")
	}
	columns = min(columns, len(cells))
	rows := (len(cells) + columns - 1) / columns
	pitchX := cellW + sheetGap
	pitchY := cellH + captionHeight + sheetGap

	sheet := image.NewRGBA(image.Rect(0, 0, columns*pitchX+sheetGap, rows*pitchY+sheetGap))
	draw.Draw(sheet, sheet.Bounds(), image.NewUniform(sheetBackground), image.Point{}, draw.Src)

	face, err := newCaptionFace()
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = face.Close()
	}()

	d := &font.Drawer{
		Dst:  sheet,
		Src:  image.NewUniform(captionColor),
		Face: face,
	}
	ascent := face.Metrics().Ascent.Ceil()
	shaper, err := newCaptionShaper()
	if err != nil {
		return nil, err
	}

	for i, c := range cells {
		x := sheetGap + (i%columns)*pitchX
		y := sheetGap + (i/columns)*pitchY
		r := image.Rect(x, y, x+cellW, y+cellH)
		draw.Draw(sheet, r, c.img, c.img.Bounds().Min, draw.Over)

		d.Dot = fixed.P(captionX(x, cellW, shaper.advance(c.label)), y+cellH+(captionHeight-ascent)/2+ascent-1)
		d.DrawString(c.label)
	}
	return sheet, nil
}
