// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package aip1640test

import (
	"fmt"
	"strings"

	"periph.io/x/conn/v3/gpio"
)

// Frame is the bytes received between a start and a stop condition.
type Frame []byte

func (f Frame) String() string {
	parts := make([]string, len(f))
	for i, b := range f {
		parts[i] = fmt.Sprintf("0x%02X", b)
	}
	return "[" + strings.Join(parts, " ") + "]"
}

// Decoder rebuilds frames from line transitions the way the controller sees
// them. Both lines are assumed low initially.
//
// DIN falling while SCLK is high starts a frame, DIN rising while SCLK is
// high ends it. In a frame, DIN is sampled on each rising SCLK edge, least
// significant bit first. Bits that do not complete a byte when the frame
// ends are dropped.
type Decoder struct {
	clk     gpio.Level
	din     gpio.Level
	inFrame bool
	cur     byte
	bits    int
	frame   Frame
}

// Feed processes one transition. It returns the completed frame when t is a
// stop condition.
func (d *Decoder) Feed(t Transition) (Frame, bool) {
	switch t.Line {
	case Clock:
		rising := d.clk == gpio.Low && t.Level == gpio.High
		d.clk = t.Level
		if rising && d.inFrame {
			if d.din {
				d.cur |= 1 << d.bits
			}
			d.bits++
			if d.bits == 8 {
				d.frame = append(d.frame, d.cur)
				d.cur = 0
				d.bits = 0
			}
		}
	case Data:
		prev := d.din
		d.din = t.Level
		if d.clk == gpio.Low || prev == t.Level {
			return nil, false
		}
		if t.Level == gpio.Low {
			d.inFrame = true
			d.frame = Frame{}
			d.cur = 0
			d.bits = 0
			return nil, false
		}
		if d.inFrame {
			d.inFrame = false
			f := d.frame
			d.frame = nil
			return f, true
		}
	}
	return nil, false
}

// Decode returns every complete frame found in ts.
func Decode(ts []Transition) []Frame {
	var d Decoder
	var out []Frame
	for _, t := range ts {
		if f, ok := d.Feed(t); ok {
			out = append(out, f)
		}
	}
	return out
}

// Conditions counts the start and stop conditions in ts.
func Conditions(ts []Transition) (starts, stops int) {
	var clk, din gpio.Level
	for _, t := range ts {
		if t.Line == Clock {
			clk = t.Level
			continue
		}
		if clk == gpio.High && din != t.Level {
			if din {
				starts++
			} else {
				stops++
			}
		}
		din = t.Level
	}
	return starts, stops
}
