// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ledterm

import (
	"bytes"
	"image"
	"image/color"
	"strings"
	"testing"

	"github.com/maruel/ansi256"
)

func TestASCII(t *testing.T) {
	var out bytes.Buffer
	d := New(&Opts{X: 4, Y: 3, W: &out, ASCII: true})
	if d.String() != "LEDTerm" {
		t.Errorf("unexpected String() %q", d.String())
	}
	if b := d.Bounds(); b != image.Rect(0, 0, 4, 3) {
		t.Fatalf("unexpected bounds %v", b)
	}
	if err := d.WriteColumns([]byte{0x01, 0x02, 0x04, 0x07}, true, 3); err != nil {
		t.Fatal(err)
	}
	expected := "#..#\n.#.#\n..##\n\n"
	if out.String() != expected {
		t.Errorf("expected %q found %q", expected, out.String())
	}

	out.Reset()
	if err := d.WriteColumns([]byte{0x01, 0x02, 0x04, 0x07}, false, 3); err != nil {
		t.Fatal(err)
	}
	expected = "....\n....\n....\n\n"
	if out.String() != expected {
		t.Errorf("display off: expected %q found %q", expected, out.String())
	}
	if err := d.Halt(); err != nil {
		t.Error(err)
	}
}

func TestDraw(t *testing.T) {
	var out bytes.Buffer
	d := New(&Opts{X: 3, Y: 2, W: &out, ASCII: true})
	src := image.NewGray(image.Rect(0, 0, 3, 2))
	src.SetGray(1, 1, color.Gray{Y: 0xff})
	if err := d.Draw(d.Bounds(), src, image.Point{}); err != nil {
		t.Fatal(err)
	}
	expected := "...\n.#.\n\n"
	if out.String() != expected {
		t.Errorf("expected %q found %q", expected, out.String())
	}

	out.Reset()
	if err := d.Draw(image.Rect(5, 5, 6, 6), src, image.Point{}); err != nil {
		t.Fatal(err)
	}
	if out.Len() != 0 {
		t.Error("drawing outside the bounds must not render")
	}
}

func TestANSI(t *testing.T) {
	var out bytes.Buffer
	d := New(&Opts{X: 2, Y: 1, W: &out})
	if err := d.WriteColumns([]byte{0x01, 0x00}, true, MaxBrightness); err != nil {
		t.Fatal(err)
	}
	lit := ansi256.Default.Block(defaultLit)
	off := ansi256.Default.Block(unlit)
	first := out.String()
	if !strings.Contains(first, lit+off) {
		t.Errorf("expected a lit then an unlit block in %q", first)
	}
	if strings.Contains(first, "\033[1A") {
		t.Error("the first frame must not move the cursor up")
	}

	out.Reset()
	if err := d.WriteColumns([]byte{0x01, 0x00}, true, MaxBrightness); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out.String(), "\033[1A") {
		t.Errorf("expected the frame to be redrawn in place, found %q", out.String())
	}

	out.Reset()
	if err := d.Halt(); err != nil {
		t.Fatal(err)
	}
	if out.String() != "\033[0m" {
		t.Errorf("unexpected Halt() output %q", out.String())
	}
}

func TestBrightness(t *testing.T) {
	d := New(&Opts{X: 1, Y: 1, W: &bytes.Buffer{}, Lit: color.NRGBA{0x80, 0x40, 0xff, 0xff}})
	_ = d.WriteColumns([]byte{1}, true, 0xff)
	if c := d.litColor(); c != (color.NRGBA{0x80, 0x40, 0xff, 0xff}) {
		t.Errorf("brightness 7: unexpected color %v", c)
	}
	_ = d.WriteColumns([]byte{1}, true, 0)
	if c := d.litColor(); c != (color.NRGBA{0x10, 0x08, 0x1f, 0xff}) {
		t.Errorf("brightness 0: unexpected color %v", c)
	}
}

func TestDrawClippedOrigin(t *testing.T) {
	var out bytes.Buffer
	d := New(&Opts{X: 4, Y: 1, W: &out, ASCII: true})
	src := image.NewGray(image.Rect(0, 0, 4, 1))
	src.SetGray(2, 0, color.Gray{Y: 0xff})
	if err := d.Draw(image.Rect(-2, 0, 2, 1), src, image.Point{}); err != nil {
		t.Fatal(err)
	}
	expected := "#...\n\n"
	if out.String() != expected {
		t.Errorf("expected %q found %q", expected, out.String())
	}
}
