// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package rpiopin exposes Raspberry Pi GPIOs driven through go-rpio as
// gpio.PinOut, for hosts where periph's own drivers are not loaded.
//
// Open must be called once before any pin is written.
package rpiopin

import (
	"errors"
	"fmt"
	"sync"

	"github.com/stianeikeland/go-rpio"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
)

var (
	// ErrNotOpen is returned when writing a pin before Open.
	ErrNotOpen = errors.New("rpiopin: gpio memory not mapped, call Open")
	// ErrNotImplemented is returned by PWM.
	ErrNotImplemented = errors.New("rpiopin: not implemented")
)

var (
	mu     sync.Mutex
	mapped bool
)

// Open maps the GPIO registers.
func Open() error {
	mu.Lock()
	defer mu.Unlock()
	if mapped {
		return nil
	}
	if err := rpio.Open(); err != nil {
		return fmt.Errorf("rpiopin: %w", err)
	}
	mapped = true
	return nil
}

// Close unmaps the GPIO registers.
func Close() error {
	mu.Lock()
	defer mu.Unlock()
	if !mapped {
		return nil
	}
	mapped = false
	return rpio.Close()
}

// Pin is a BCM numbered GPIO.
type Pin struct {
	pin    rpio.Pin
	name   string
	output bool
}

// New returns the pin with the given BCM number. The pin is switched to
// output on the first write.
func New(bcm int) *Pin {
	return &Pin{pin: rpio.Pin(bcm), name: fmt.Sprintf("BCM%d", bcm)}
}

// Halt implements conn.Resource.
func (p *Pin) Halt() error {
	return nil
}

// Name returns the name of the GPIO pin.
func (p *Pin) Name() string {
	return p.name
}

// Number returns the BCM number of the GPIO pin.
func (p *Pin) Number() int {
	return int(p.pin)
}

// Deprecated: returns "Out" once written, "" before.
func (p *Pin) Function() string {
	if p.output {
		return "Out"
	}
	return ""
}

// Out writes the specified gpio.Level to the pin.
func (p *Pin) Out(l gpio.Level) error {
	mu.Lock()
	ok := mapped
	mu.Unlock()
	if !ok {
		return ErrNotOpen
	}
	if !p.output {
		p.pin.Output()
		p.output = true
	}
	if l {
		p.pin.High()
	} else {
		p.pin.Low()
	}
	return nil
}

// PWM is not supported.
func (p *Pin) PWM(duty gpio.Duty, f physic.Frequency) error {
	return ErrNotImplemented
}

func (p *Pin) String() string {
	return p.name
}

var _ gpio.PinOut = &Pin{}
