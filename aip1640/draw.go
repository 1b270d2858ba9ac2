// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package aip1640

import (
	"image"
	"image/color"
	"image/draw"

	"periph.io/x/conn/v3/display"
	"periph.io/x/devices/v3/ssd1306/image1bit"
)

// ColorModel implements display.Drawer.
//
// It is a 1 bit color model, colors are converted by luminance.
func (d *Dev) ColorModel() color.Model {
	return image1bit.BitModel
}

// Bounds implements display.Drawer. Min is guaranteed to be {0, 0}.
func (d *Dev) Bounds() image.Rectangle {
	return image.Rect(0, 0, Columns, Rows)
}

// Draw implements display.Drawer.
//
// Every column intersecting r is rewritten in full: rows outside r in these
// columns are turned off, since the driver has no copy of the display memory.
func (d *Dev) Draw(r image.Rectangle, src image.Image, sp image.Point) error {
	c := r.Intersect(d.Bounds())
	if c.Empty() {
		return nil
	}
	// A VerticalLSB image 8 pixels high stores exactly one byte per column,
	// bit 0 on top, which is the controller's memory layout.
	img := image1bit.NewVerticalLSB(d.Bounds())
	// draw.Draw clips r and moves sp along with it.
	draw.Draw(img, r, src, sp, draw.Src)
	return d.WriteBuffer(img.Pix[c.Min.X:c.Max.X], byte(c.Min.X))
}

var _ display.Drawer = &Dev{}
