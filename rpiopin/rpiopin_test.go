// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package rpiopin

import (
	"errors"
	"testing"

	"periph.io/x/conn/v3/gpio"
)

func TestPin(t *testing.T) {
	p := New(17)
	if p.Name() != "BCM17" || p.String() != p.Name() {
		t.Errorf("unexpected name %q / %q", p.Name(), p.String())
	}
	if p.Number() != 17 {
		t.Errorf("expected number 17, found %d", p.Number())
	}
	if p.Function() != "" {
		t.Errorf("unexpected function %q before any write", p.Function())
	}
	if err := p.PWM(gpio.DutyHalf, 0); !errors.Is(err, ErrNotImplemented) {
		t.Errorf("PWM() expected ErrNotImplemented, got %v", err)
	}
	if err := p.Halt(); err != nil {
		t.Error(err)
	}
}

func TestOutBeforeOpen(t *testing.T) {
	if err := New(2).Out(gpio.High); !errors.Is(err, ErrNotOpen) {
		t.Errorf("expected ErrNotOpen, got %v", err)
	}
	if err := Close(); err != nil {
		t.Errorf("Close() without Open(): %v", err)
	}
}
