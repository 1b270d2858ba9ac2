// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package aip1640test implements test doubles for the aip1640 bus: a
// Recorder capturing every line transition, a Decoder reassembling frames
// from transitions and an Emulator modelling the controller.
package aip1640test

import (
	"fmt"
	"sync"
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
)

// Line identifies one of the two bus lines.
type Line int

const (
	Clock Line = iota
	Data
)

func (l Line) String() string {
	if l == Clock {
		return "SCLK"
	}
	return "DIN"
}

// Transition is a level written to a line.
type Transition struct {
	Line  Line
	Level gpio.Level
}

func (t Transition) String() string {
	return fmt.Sprintf("%s=%s", t.Line, t.Level)
}

// Pin is an output pin forwarding every write to its owner.
//
// Setting Err makes Out fail without forwarding anything.
type Pin struct {
	Err error

	name   string
	number int
	line   Line
	sink   func(Transition)
}

// Halt implements conn.Resource.
func (p *Pin) Halt() error {
	return nil
}

// Name returns the name of the pin.
func (p *Pin) Name() string {
	return p.name
}

// Number returns the number of the pin.
func (p *Pin) Number() int {
	return p.number
}

// Deprecated: returns "Out"
func (p *Pin) Function() string {
	return "Out"
}

// Out implements gpio.PinOut.
func (p *Pin) Out(l gpio.Level) error {
	if p.Err != nil {
		return p.Err
	}
	p.sink(Transition{Line: p.line, Level: l})
	return nil
}

// PWM is not supported.
func (p *Pin) PWM(duty gpio.Duty, f physic.Frequency) error {
	return fmt.Errorf("aip1640test: %s: PWM not supported", p.name)
}

func (p *Pin) String() string {
	return p.name
}

// Recorder records every level written to its two lines and every delay
// requested between them.
type Recorder struct {
	mu          sync.Mutex
	transitions []Transition
	delays      []time.Duration
	clk         *Pin
	din         *Pin
}

// NewRecorder returns an empty Recorder. Its pins are numbered like the
// driver's default pins.
func NewRecorder() *Recorder {
	r := &Recorder{}
	r.clk = &Pin{name: "SCLK", number: 2, line: Clock, sink: r.record}
	r.din = &Pin{name: "DIN", number: 3, line: Data, sink: r.record}
	return r
}

func (r *Recorder) record(t Transition) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.transitions = append(r.transitions, t)
}

// Clock returns the serial clock pin.
func (r *Recorder) Clock() *Pin {
	return r.clk
}

// Data returns the data pin.
func (r *Recorder) Data() *Pin {
	return r.din
}

// Delay records d without waiting. It is meant for aip1640.Opts.Delay.
func (r *Recorder) Delay(d time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.delays = append(r.delays, d)
}

// Transitions returns a copy of the transitions recorded so far.
func (r *Recorder) Transitions() []Transition {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Transition(nil), r.transitions...)
}

// Delays returns a copy of the delays recorded so far.
func (r *Recorder) Delays() []time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]time.Duration(nil), r.delays...)
}

// Frames decodes the transitions recorded so far.
func (r *Recorder) Frames() []Frame {
	return Decode(r.Transitions())
}

// Reset forgets everything recorded. The line levels are not reset.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.transitions = nil
	r.delays = nil
}

var _ gpio.PinOut = &Pin{}
