// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package aip1640

import (
	"fmt"
	"time"

	"periph.io/x/conn/v3/gpio"
)

// bus bit-bangs the AiP1640 framing on two output lines.
//
// Every line transition is followed by the settle delay. The first pin error
// aborts the transmission.
type bus struct {
	clk    gpio.PinOut
	din    gpio.PinOut
	settle time.Duration
	delay  func(time.Duration)
}

func (b *bus) out(p gpio.PinOut, l gpio.Level) error {
	if err := p.Out(l); err != nil {
		return fmt.Errorf("aip1640: %s: %w", p, err)
	}
	b.delay(b.settle)
	return nil
}

// sequence drives the lines through the given (pin, level) steps.
func (b *bus) sequence(steps ...step) error {
	for _, s := range steps {
		if err := b.out(s.p, s.l); err != nil {
			return err
		}
	}
	return nil
}

type step struct {
	p gpio.PinOut
	l gpio.Level
}

// start pulls DIN from high to low while SCLK is high.
func (b *bus) start() error {
	return b.sequence(
		step{b.clk, gpio.Low},
		step{b.din, gpio.High},
		step{b.clk, gpio.High},
		step{b.din, gpio.Low},
	)
}

// stop pulls DIN from low to high while SCLK is high.
func (b *bus) stop() error {
	return b.sequence(
		step{b.clk, gpio.Low},
		step{b.din, gpio.Low},
		step{b.clk, gpio.High},
		step{b.din, gpio.High},
	)
}

// writeByte shifts v out LSB first. DIN is latched on the rising clock edge.
func (b *bus) writeByte(v byte) error {
	for range Rows {
		if err := b.sequence(
			step{b.clk, gpio.Low},
			step{b.din, gpio.Level(v&0x01 != 0)},
			step{b.clk, gpio.High},
		); err != nil {
			return err
		}
		v >>= 1
	}
	return nil
}

// send wraps cmd and data in a single start/stop frame.
func (b *bus) send(cmd byte, data ...byte) error {
	if err := b.start(); err != nil {
		return err
	}
	if err := b.writeByte(cmd); err != nil {
		return err
	}
	for _, v := range data {
		if err := b.writeByte(v); err != nil {
			return err
		}
	}
	return b.stop()
}
