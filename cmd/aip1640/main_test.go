// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/GermanBionicSystems/ledmatrix/aip1640"
	"github.com/GermanBionicSystems/ledmatrix/aip1640/aip1640test"
	"github.com/GermanBionicSystems/ledmatrix/marquee"
	"github.com/jonboulle/clockwork"
)

// resetFlags restores the demo flags to a state where run only initializes
// the display.
func resetFlags() {
	*sim = false
	*backend = "periph"
	*clkName = aip1640.DefaultClockPin
	*dinName = aip1640.DefaultDataPin
	*fill = ""
	*sweep = false
	*blink = 0
	*text = ""
	*fontPath = ""
	*loops = 1
	*interval = marquee.DefaultInterval
	*contrast = aip1640.DefaultContrast
}

func TestRunSimulated(t *testing.T) {
	resetFlags()
	defer resetFlags()
	*sim = true
	*fill = "0x81"
	*sweep = true
	*blink = 1
	*pause = time.Millisecond
	*contrast = 5
	dev, release, err := openDev()
	if err != nil {
		t.Fatal(err)
	}
	defer release()
	if err := run(context.Background(), dev, clockwork.NewRealClock()); err != nil {
		t.Fatal(err)
	}
	if !dev.IsOn() || dev.Contrast() != 5 {
		t.Errorf("expected the display on at contrast 5, found on=%t contrast=%d", dev.IsOn(), dev.Contrast())
	}

	*fill = "0x100"
	if err := run(context.Background(), dev, clockwork.NewRealClock()); err == nil {
		t.Error("expected an error for a fill value above 0xff")
	}
}

func TestRunText(t *testing.T) {
	resetFlags()
	defer resetFlags()
	*text = "Hi"
	*interval = 50 * time.Millisecond

	emu := aip1640test.NewEmulator()
	dev, err := aip1640.New(emu.Clock(), emu.Data(), &aip1640.Opts{Delay: func(time.Duration) {}})
	if err != nil {
		t.Fatal(err)
	}
	face, err := marquee.DefaultFace()
	if err != nil {
		t.Fatal(err)
	}
	steps := marquee.Text(*text, face, aip1640.Columns).Bounds().Dx() - aip1640.Columns + 1
	_ = face.Close()

	fc := clockwork.NewFakeClock()
	var waits atomic.Int32
	step := *interval
	// Left blocked once run returns, the goroutine ends with the test binary.
	go func() {
		for {
			fc.BlockUntil(1)
			waits.Add(1)
			fc.Advance(step)
		}
	}()
	if err := run(context.Background(), dev, fc); err != nil {
		t.Fatal(err)
	}
	if n := int(waits.Load()); n != steps {
		t.Errorf("expected %d scroll steps, found %d", steps, n)
	}
	s := emu.State()
	if s.RAM != ([aip1640.Columns]byte{}) {
		t.Errorf("expected a blank display after scrolling, found % x", s.RAM)
	}
	if !s.On || s.Contrast != aip1640.DefaultContrast {
		t.Errorf("unexpected state %+v", s)
	}
}

func TestRPIOSamePinReleases(t *testing.T) {
	resetFlags()
	defer resetFlags()
	origOpen, origClose := openRPIO, closeRPIO
	defer func() {
		openRPIO, closeRPIO = origOpen, origClose
	}()
	opened, closed := 0, 0
	openRPIO = func() error { opened++; return nil }
	closeRPIO = func() error { closed++; return nil }
	*backend = "rpio"
	*clkName = "2"
	*dinName = "2"
	if _, _, err := openDev(); err == nil {
		t.Fatal("expected an error when both lines use the same pin")
	}
	if opened != 1 || closed != 1 {
		t.Errorf("expected the mapping opened and closed once, found %d and %d", opened, closed)
	}

	*dinName = "3"
	_, release, err := openDev()
	if err != nil {
		t.Fatal(err)
	}
	if err := release(); err != nil {
		t.Fatal(err)
	}
	if opened != 2 || closed != 2 {
		t.Errorf("expected release to close the mapping, found %d opens and %d closes", opened, closed)
	}
}

func TestUnknownBackend(t *testing.T) {
	resetFlags()
	defer resetFlags()
	*backend = "nope"
	if _, _, err := openDev(); err == nil {
		t.Error("expected an error for an unknown backend")
	}
}
