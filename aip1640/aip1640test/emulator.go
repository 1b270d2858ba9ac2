// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package aip1640test

import (
	"sync"
)

// Columns is the size of the controller memory.
const Columns = 16

// State is a snapshot of the emulated controller.
type State struct {
	// RAM holds one byte per column, bit 0 being the top row.
	RAM [Columns]byte
	// On is true when the display is lit.
	On bool
	// Contrast is the last level received with a display on command.
	Contrast byte
	// Fixed is true in fixed address mode, false in auto increment mode.
	Fixed bool
}

// Emulator behaves like an AiP1640 wired to its two pins.
//
// Writes past the last column are ignored.
type Emulator struct {
	// Changed, when set, is called with the new state after every frame. It
	// is called without any lock held.
	Changed func(State)

	mu    sync.Mutex
	dec   Decoder
	state State
	clk   *Pin
	din   *Pin
}

// NewEmulator returns an emulated controller, blank and off.
func NewEmulator() *Emulator {
	e := &Emulator{}
	e.clk = &Pin{name: "AIP1640_SCLK", number: 2, line: Clock, sink: e.feed}
	e.din = &Pin{name: "AIP1640_DIN", number: 3, line: Data, sink: e.feed}
	return e
}

// Clock returns the serial clock input.
func (e *Emulator) Clock() *Pin {
	return e.clk
}

// Data returns the data input.
func (e *Emulator) Data() *Pin {
	return e.din
}

// State returns a snapshot of the controller.
func (e *Emulator) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

func (e *Emulator) feed(t Transition) {
	e.mu.Lock()
	f, ok := e.dec.Feed(t)
	if ok {
		e.apply(f)
	}
	s := e.state
	e.mu.Unlock()
	if ok && e.Changed != nil {
		e.Changed(s)
	}
}

// Apply processes a frame as if it had been received on the lines.
func (e *Emulator) Apply(f Frame) {
	e.mu.Lock()
	e.apply(f)
	s := e.state
	e.mu.Unlock()
	if e.Changed != nil {
		e.Changed(s)
	}
}

func (e *Emulator) apply(f Frame) {
	if len(f) == 0 {
		return
	}
	cmd := f[0]
	switch cmd & 0xc0 {
	case 0x40:
		e.state.Fixed = cmd&0x04 != 0
	case 0xc0:
		addr := int(cmd & 0x0f)
		for _, v := range f[1:] {
			if addr < Columns {
				e.state.RAM[addr] = v
			}
			if !e.state.Fixed {
				addr++
			}
		}
	case 0x80:
		e.state.On = cmd&0x08 != 0
		if e.state.On {
			e.state.Contrast = cmd & 0x07
		}
	}
}
