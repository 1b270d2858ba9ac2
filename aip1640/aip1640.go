// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package aip1640

import (
	"errors"
	"fmt"
	"time"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3/cpu"
)

const (
	// Rows is the number of LEDs in a column, one per bit of a data byte.
	Rows = 8
	// Columns is the number of addressable column bytes.
	Columns = 16

	// MinContrast is the dimmest level the display can be lit at.
	MinContrast byte = 0
	// MaxContrast is the brightest level. It doubles as the contrast mask.
	MaxContrast byte = 7
	// DefaultContrast is the level applied by Init.
	DefaultContrast byte = 3

	// DefaultClockPin and DefaultDataPin are used by NewByName when a pin
	// name is empty.
	DefaultClockPin = "2"
	DefaultDataPin  = "3"

	// DefaultSettle is the time the controller needs after each line change.
	DefaultSettle = 3 * time.Microsecond
)

// Command bytes are a category in the upper bits OR-ed with a sub-field.
const (
	cmdData   byte = 0x40
	dataAuto  byte = 0x00 // address incremented after each byte
	dataFixed byte = 0x04
	dataTest  byte = 0x08 // factory test mode, never used

	cmdAddr byte = 0xc0
	addrMax byte = 0x0f

	cmdDisplay byte = 0x80
	displayOff byte = 0x00
	displayOn  byte = 0x08 // OR-ed with the contrast level
)

var (
	// ErrOutOfRange is returned in strict mode for an address, contrast or
	// buffer length the controller cannot take.
	ErrOutOfRange = errors.New("aip1640: value out of range")

	errNilPin  = errors.New("aip1640: clock and data pins are required")
	errSamePin = errors.New("aip1640: clock and data must be different pins")
)

// Opts holds the optional configuration of a Dev.
type Opts struct {
	// Settle is the delay after every line transition. Zero means
	// DefaultSettle; to skip settling entirely, pass a Delay that does
	// nothing.
	Settle time.Duration
	// Delay waits for the settle time. Defaults to a busy-wait, since the
	// delays are far below the scheduler resolution.
	Delay func(time.Duration)
	// Strict rejects out of range arguments with ErrOutOfRange instead of
	// silently clamping or masking them.
	Strict bool
}

// Dev is a handle to an AiP1640 controller.
//
// Dev is not safe for concurrent use: interleaved calls would mix bit
// transfers on the lines. Serialize access to it.
type Dev struct {
	bus      bus
	strict   bool
	contrast byte
	on       bool
}

// New returns a Dev using clk as the serial clock and din as the data line.
//
// It does not touch the lines. Call Init before any other operation.
func New(clk, din gpio.PinOut, opts *Opts) (*Dev, error) {
	if clk == nil || din == nil {
		return nil, errNilPin
	}
	if clk.String() == din.String() {
		return nil, errSamePin
	}
	if opts == nil {
		opts = &Opts{}
	}
	d := &Dev{
		bus: bus{
			clk:    clk,
			din:    din,
			settle: opts.Settle,
			delay:  opts.Delay,
		},
		strict: opts.Strict,
		on:     true,
	}
	if d.bus.settle == 0 {
		d.bus.settle = DefaultSettle
	}
	if d.bus.delay == nil {
		d.bus.delay = cpu.Nanospin
	}
	return d, nil
}

// NewByName looks up the clock and data pins in gpioreg and returns a Dev
// using them. Empty names select DefaultClockPin and DefaultDataPin.
func NewByName(clk, din string, opts *Opts) (*Dev, error) {
	if clk == "" {
		clk = DefaultClockPin
	}
	if din == "" {
		din = DefaultDataPin
	}
	c := gpioreg.ByName(clk)
	if c == nil {
		return nil, fmt.Errorf("aip1640: unknown clock pin %q", clk)
	}
	p := gpioreg.ByName(din)
	if p == nil {
		return nil, fmt.Errorf("aip1640: unknown data pin %q", din)
	}
	return New(c, p, opts)
}

// Init drives both lines low, clears the display and lights it at
// DefaultContrast.
func (d *Dev) Init() error {
	if err := d.bus.out(d.bus.clk, gpio.Low); err != nil {
		return err
	}
	if err := d.bus.out(d.bus.din, gpio.Low); err != nil {
		return err
	}
	if err := d.Clear(); err != nil {
		return err
	}
	return d.SetContrast(DefaultContrast)
}

// On lights the display at the current contrast.
func (d *Dev) On() error {
	if err := d.bus.send(cmdDisplay | displayOn | d.contrast); err != nil {
		return err
	}
	d.on = true
	return nil
}

// Off blanks the display. The controller keeps its memory.
func (d *Dev) Off() error {
	if err := d.bus.send(cmdDisplay | displayOff); err != nil {
		return err
	}
	d.on = false
	return nil
}

// Toggle turns the display off if it is on, and on otherwise.
func (d *Dev) Toggle() error {
	if d.on {
		return d.Off()
	}
	return d.On()
}

// WriteBuffer streams buf to consecutive columns starting at start, then
// turns the display on.
//
// Bytes that would land past the last column are dropped and start is
// clamped to the last column, unless the Dev is strict.
func (d *Dev) WriteBuffer(buf []byte, start byte) error {
	if start > addrMax {
		if d.strict {
			return fmt.Errorf("%w: start address %d", ErrOutOfRange, start)
		}
		start = addrMax
	}
	n := min(len(buf), Columns-int(start))
	if n < len(buf) && d.strict {
		return fmt.Errorf("%w: %d bytes at address %d", ErrOutOfRange, len(buf), start)
	}
	if err := d.bus.send(cmdData | dataAuto); err != nil {
		return err
	}
	if err := d.bus.send(cmdAddr|start, buf[:n]...); err != nil {
		return err
	}
	return d.On()
}

// WriteColumn sets the column at address to value, then turns the display
// on. Bit 0 of value is the top row.
func (d *Dev) WriteColumn(value, address byte) error {
	if address > addrMax {
		if d.strict {
			return fmt.Errorf("%w: address %d", ErrOutOfRange, address)
		}
		address = addrMax
	}
	if err := d.bus.send(cmdData | dataFixed); err != nil {
		return err
	}
	if err := d.bus.send(cmdAddr|address, value); err != nil {
		return err
	}
	return d.On()
}

// Fill sets every column to value, then turns the display on.
func (d *Dev) Fill(value byte) error {
	var buf [Columns]byte
	for i := range buf {
		buf[i] = value
	}
	if err := d.bus.send(cmdData | dataAuto); err != nil {
		return err
	}
	if err := d.bus.send(cmdAddr, buf[:]...); err != nil {
		return err
	}
	return d.On()
}

// Clear turns every LED off and the display on.
func (d *Dev) Clear() error {
	return d.Fill(0x00)
}

// Write implements io.Writer. p is streamed from the first column; it
// returns the number of columns written.
func (d *Dev) Write(p []byte) (int, error) {
	if err := d.WriteBuffer(p, 0); err != nil {
		return 0, err
	}
	return min(len(p), Columns), nil
}

// SetContrast stores level masked to MaxContrast and turns the display on
// at that level.
func (d *Dev) SetContrast(level byte) error {
	if level > MaxContrast && d.strict {
		return fmt.Errorf("%w: contrast %d", ErrOutOfRange, level)
	}
	d.contrast = level & MaxContrast
	return d.On()
}

// SetContrastMin lights the display at the dimmest level.
func (d *Dev) SetContrastMin() error {
	return d.SetContrast(MinContrast)
}

// SetContrastMax lights the display at the brightest level.
func (d *Dev) SetContrastMax() error {
	return d.SetContrast(MaxContrast)
}

// IsOn reports whether the last display command turned the display on.
func (d *Dev) IsOn() bool {
	return d.on
}

// IsOff is the opposite of IsOn.
func (d *Dev) IsOff() bool {
	return !d.on
}

// Contrast returns the current contrast level.
func (d *Dev) Contrast() byte {
	return d.contrast
}

// ContrastMin returns MinContrast.
func (d *Dev) ContrastMin() byte {
	return MinContrast
}

// ContrastMax returns MaxContrast.
func (d *Dev) ContrastMax() byte {
	return MaxContrast
}

// Halt implements conn.Resource.
//
// It turns the display off.
func (d *Dev) Halt() error {
	return d.Off()
}

func (d *Dev) String() string {
	return "AiP1640"
}

var _ conn.Resource = &Dev{}
