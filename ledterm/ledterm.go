// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package ledterm implements a display.Drawer emulating a monochrome LED
// matrix on the terminal (stdout) using ANSI color codes.
//
// Useful to preview animations before the matrix is wired, together with
// aip1640test.Emulator.
package ledterm

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"io"
	"os"

	"github.com/maruel/ansi256"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"periph.io/x/conn/v3/display"
	"periph.io/x/devices/v3/ssd1306/image1bit"
)

// Opts represents the options available for this display.
type Opts struct {
	// X and Y are the number of columns and rows of LEDs.
	X int
	Y int
	// Palette defaults to ansi256.Default.
	Palette *ansi256.Palette
	// Lit is the color of an LED at full brightness. Defaults to blue.
	Lit color.NRGBA
	// W defaults to stdout.
	W io.Writer
	// ASCII draws '#' and '.' instead of colored blocks. It is forced when W
	// is nil and stdout is not a terminal.
	ASCII bool

	_ struct{}
}

// MaxBrightness is the highest level accepted by WriteColumns.
const MaxBrightness = 7

var (
	defaultLit = color.NRGBA{0x30, 0x70, 0xff, 0xff}
	unlit      = color.NRGBA{0x14, 0x14, 0x1c, 0xff}
)

// Dev is an LED matrix emulator that outputs to the console.
type Dev struct {
	w       io.Writer
	palette ansi256.Palette
	lit     color.NRGBA
	ascii   bool

	img        *image1bit.VerticalLSB
	on         bool
	brightness byte
	drawn      bool
	buf        bytes.Buffer
}

// New returns a Dev that displays at the console, all LEDs off.
func New(opts *Opts) *Dev {
	p := opts.Palette
	if p == nil {
		p = ansi256.Default
	}
	d := &Dev{
		w:          opts.W,
		palette:    *p,
		lit:        opts.Lit,
		ascii:      opts.ASCII,
		img:        image1bit.NewVerticalLSB(image.Rect(0, 0, opts.X, opts.Y)),
		on:         true,
		brightness: MaxBrightness,
	}
	if d.w == nil {
		d.w = colorable.NewColorableStdout()
		fd := os.Stdout.Fd()
		if !isatty.IsTerminal(fd) && !isatty.IsCygwinTerminal(fd) {
			d.ascii = true
		}
	}
	if d.lit == (color.NRGBA{}) {
		d.lit = defaultLit
	}
	return d
}

func (d *Dev) String() string {
	return "LEDTerm"
}

// Halt implements conn.Resource.
//
// It resets the terminal colors so the console is not corrupted.
func (d *Dev) Halt() error {
	if d.ascii {
		return nil
	}
	_, err := d.w.Write([]byte("\033[0m"))
	return err
}

// ColorModel implements display.Drawer.
func (d *Dev) ColorModel() color.Model {
	return image1bit.BitModel
}

// Bounds implements display.Drawer.
func (d *Dev) Bounds() image.Rectangle {
	return d.img.Bounds()
}

// Draw implements display.Drawer.
//
// Pixels are converted by luminance. Drawing lights the display, like the
// real controller does after a write.
func (d *Dev) Draw(r image.Rectangle, src image.Image, sp image.Point) error {
	if r.Intersect(d.Bounds()).Empty() {
		return nil
	}
	draw.Draw(d.img, r, src, sp, draw.Src)
	d.on = true
	return d.refresh()
}

// WriteColumns replaces the matrix content with one byte per column, bit 0
// being the top row, and renders it.
//
// on false shows every LED unlit without losing the content. brightness is
// masked to MaxBrightness.
func (d *Dev) WriteColumns(cols []byte, on bool, brightness byte) error {
	b := d.Bounds()
	for x := 0; x < b.Dx() && x < len(cols); x++ {
		for y := 0; y < b.Dy() && y < 8; y++ {
			bit := image1bit.Off
			if cols[x]&(1<<y) != 0 {
				bit = image1bit.On
			}
			d.img.Set(x, y, bit)
		}
	}
	d.on = on
	d.brightness = brightness & MaxBrightness
	return d.refresh()
}

// litColor scales the lit color by the brightness, keeping the dimmest
// level visible.
func (d *Dev) litColor() color.NRGBA {
	scale := func(v uint8) uint8 {
		return uint8(int(v) * (int(d.brightness) + 1) / (MaxBrightness + 1))
	}
	return color.NRGBA{scale(d.lit.R), scale(d.lit.G), scale(d.lit.B), 0xff}
}

func (d *Dev) refresh() error {
	// This code is designed to minimize the amount of memory allocated per call.
	b := d.Bounds()
	d.buf.Reset()
	if d.drawn && !d.ascii {
		// Redraw in place.
		_, _ = fmt.Fprintf(&d.buf, "\033[%dA", b.Dy())
	}
	lit := d.palette.Block(d.litColor())
	off := d.palette.Block(unlit)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		if !d.ascii {
			_, _ = d.buf.WriteString("\r\033[0m")
		}
		for x := b.Min.X; x < b.Max.X; x++ {
			isLit := d.on && d.img.At(x, y) == image1bit.On
			switch {
			case d.ascii && isLit:
				_ = d.buf.WriteByte('#')
			case d.ascii:
				_ = d.buf.WriteByte('.')
			case isLit:
				_, _ = d.buf.WriteString(lit)
			default:
				_, _ = d.buf.WriteString(off)
			}
		}
		if !d.ascii {
			_, _ = d.buf.WriteString("\033[0m")
		}
		_ = d.buf.WriteByte('\n')
	}
	if d.ascii {
		_ = d.buf.WriteByte('\n')
	}
	d.drawn = true
	_, err := d.buf.WriteTo(d.w)
	return err
}

var _ display.Drawer = &Dev{}
var _ fmt.Stringer = &Dev{}
