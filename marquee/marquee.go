// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package marquee renders text for LED matrices 8 pixels high and scrolls
// images wider than a display across it.
package marquee

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"
	"time"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"github.com/jonboulle/clockwork"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"periph.io/x/conn/v3/display"
	"periph.io/x/devices/v3/ssd1306/image1bit"
)

// Height is the number of rows rendered by Text.
const Height = 8

// DefaultInterval is the time a scroll step stays on the display.
const DefaultInterval = 100 * time.Millisecond

// DefaultFace returns Go Regular sized so capitals fit in Height rows.
func DefaultFace() (font.Face, error) {
	f, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("marquee: %w", err)
	}
	return truetype.NewFace(f, &truetype.Options{Size: 9, DPI: 72, Hinting: font.HintingFull}), nil
}

// LoadFace loads a TrueType font file at the given size in points.
func LoadFace(path string, points float64) (font.Face, error) {
	face, err := gg.LoadFontFace(path, points)
	if err != nil {
		return nil, fmt.Errorf("marquee: %w", err)
	}
	return face, nil
}

// Text renders s on a Height pixels high image with pad blank columns on
// each side. The baseline is on the last row, leaving it for descenders.
func Text(s string, face font.Face, pad int) *image1bit.VerticalLSB {
	m := gg.NewContext(1, Height)
	m.SetFontFace(face)
	w, _ := m.MeasureString(s)
	width := max(int(math.Ceil(w))+2*pad, 1)

	dc := gg.NewContext(width, Height)
	dc.SetColor(color.Black)
	dc.Clear()
	dc.SetFontFace(face)
	dc.SetColor(color.White)
	dc.DrawString(s, float64(pad), Height-1)

	img := image1bit.NewVerticalLSB(image.Rect(0, 0, width, Height))
	draw.Draw(img, img.Bounds(), dc.Image(), image.Point{}, draw.Src)
	return img
}

// Scroller moves an image across a display, one column at a time.
type Scroller struct {
	// Dev is the display scrolled onto.
	Dev display.Drawer
	// Clock defaults to the real clock.
	Clock clockwork.Clock
	// Interval defaults to DefaultInterval.
	Interval time.Duration
}

// Run draws img through a window the size of the display, moving it one
// column to the right of img every interval, until the right edges meet.
// This is repeated loops times, forever when loops <= 0.
//
// It returns ctx.Err() when ctx is done first.
func (s *Scroller) Run(ctx context.Context, img image.Image, loops int) error {
	clock := s.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	interval := s.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	src := img.Bounds()
	win := s.Dev.Bounds()
	steps := max(src.Dx()-win.Dx()+1, 1)
	for loop := 0; loops <= 0 || loop < loops; loop++ {
		for x := range steps {
			if err := s.Dev.Draw(win, img, image.Pt(src.Min.X+x, src.Min.Y)); err != nil {
				return err
			}
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-clock.After(interval):
			}
		}
	}
	return nil
}
