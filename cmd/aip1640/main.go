// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// aip1640 drives an AiP1640 LED matrix: fills, contrast sweeps, blinking and
// scrolling text. With --sim the matrix is emulated on the terminal.
package main

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log"
	"os"
	"os/signal"
	"strconv"
	"time"

	"github.com/GermanBionicSystems/ledmatrix/aip1640"
	"github.com/GermanBionicSystems/ledmatrix/aip1640/aip1640test"
	"github.com/GermanBionicSystems/ledmatrix/ledterm"
	"github.com/GermanBionicSystems/ledmatrix/marquee"
	"github.com/GermanBionicSystems/ledmatrix/rpiopin"
	"github.com/jonboulle/clockwork"
	flag "github.com/spf13/pflag"
	"golang.org/x/image/font"
	"gopkg.in/natefinch/lumberjack.v2"
	"periph.io/x/host/v3"
)

var (
	clkName  = flag.String("clk", aip1640.DefaultClockPin, "serial clock (SCLK) pin")
	dinName  = flag.String("din", aip1640.DefaultDataPin, "data (DIN) pin")
	backend  = flag.String("backend", "periph", "GPIO backend: periph or rpio (BCM numbers)")
	sim      = flag.Bool("sim", false, "emulate the matrix on the terminal instead of driving GPIOs")
	strict   = flag.Bool("strict", false, "reject out of range values instead of clamping them")
	contrast = flag.Uint8("contrast", aip1640.DefaultContrast, "contrast level, 0-7")
	fill     = flag.String("fill", "", "fill every column with this byte, e.g. 0xff")
	sweep    = flag.Bool("sweep", false, "cycle through every contrast level")
	blink    = flag.Int("blink", 0, "blink the display this many times")
	text     = flag.String("text", "", "text to scroll")
	fontPath = flag.String("font", "", "TrueType font for --text, defaults to Go Regular")
	fontSize = flag.Float64("size", 9, "font size in points, with --font")
	interval = flag.Duration("interval", marquee.DefaultInterval, "scroll step duration")
	loops    = flag.Int("loops", 1, "number of times the text is scrolled, 0 for ever")
	pause    = flag.Duration("pause", 500*time.Millisecond, "pause between sweep and blink steps")
	logFile  = flag.String("log-file", "", "log to this file, rotated, instead of stderr")
)

var (
	openRPIO  = rpiopin.Open
	closeRPIO = rpiopin.Close
)

// openDev returns the driver on the selected backend and a function
// releasing the backend.
func openDev() (*aip1640.Dev, func() error, error) {
	opts := &aip1640.Opts{Strict: *strict}
	nop := func() error { return nil }
	if *sim {
		emu := aip1640test.NewEmulator()
		screen := ledterm.New(&ledterm.Opts{X: aip1640.Columns, Y: aip1640.Rows})
		emu.Changed = func(s aip1640test.State) {
			if err := screen.WriteColumns(s.RAM[:], s.On, s.Contrast); err != nil {
				log.Printf("screen: %v", err)
			}
		}
		// The emulator does not need settling time.
		opts.Delay = func(time.Duration) {}
		dev, err := aip1640.New(emu.Clock(), emu.Data(), opts)
		return dev, screen.Halt, err
	}
	switch *backend {
	case "periph":
		if _, err := host.Init(); err != nil {
			return nil, nil, err
		}
		dev, err := aip1640.NewByName(*clkName, *dinName, opts)
		return dev, nop, err
	case "rpio":
		c, err := strconv.Atoi(*clkName)
		if err != nil {
			return nil, nil, fmt.Errorf("--clk must be a BCM number with the rpio backend: %w", err)
		}
		d, err := strconv.Atoi(*dinName)
		if err != nil {
			return nil, nil, fmt.Errorf("--din must be a BCM number with the rpio backend: %w", err)
		}
		if err := openRPIO(); err != nil {
			return nil, nil, err
		}
		dev, err := aip1640.New(rpiopin.New(c), rpiopin.New(d), opts)
		if err != nil {
			_ = closeRPIO()
			return nil, nil, err
		}
		return dev, closeRPIO, nil
	default:
		return nil, nil, fmt.Errorf("unknown backend %q", *backend)
	}
}

func wait(ctx context.Context, clock clockwork.Clock, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-clock.After(d):
		return nil
	}
}

func scroll(ctx context.Context, dev *aip1640.Dev, clock clockwork.Clock) error {
	var face font.Face
	var err error
	if *fontPath != "" {
		face, err = marquee.LoadFace(*fontPath, *fontSize)
	} else {
		face, err = marquee.DefaultFace()
	}
	if err != nil {
		return err
	}
	defer face.Close()
	img := marquee.Text(*text, face, aip1640.Columns)
	log.Printf("scrolling %q, %d columns", *text, img.Bounds().Dx())
	s := marquee.Scroller{Dev: dev, Clock: clock, Interval: *interval}
	if err := s.Run(ctx, img, *loops); err != nil {
		return err
	}
	// Leave the display blank once the text is gone.
	return dev.Draw(dev.Bounds(), image.Black, image.Point{})
}

func run(ctx context.Context, dev *aip1640.Dev, clock clockwork.Clock) error {
	if err := dev.Init(); err != nil {
		return err
	}
	log.Printf("%s initialized, contrast %d", dev, dev.Contrast())
	if err := dev.SetContrast(*contrast); err != nil {
		return err
	}
	if *fill != "" {
		v, err := strconv.ParseUint(*fill, 0, 8)
		if err != nil {
			return fmt.Errorf("--fill: %w", err)
		}
		log.Printf("fill 0x%02x", v)
		if err := dev.Fill(byte(v)); err != nil {
			return err
		}
	}
	if *sweep {
		for c := dev.ContrastMin(); c <= dev.ContrastMax(); c++ {
			log.Printf("contrast %d", c)
			if err := dev.SetContrast(c); err != nil {
				return err
			}
			if err := wait(ctx, clock, *pause); err != nil {
				return err
			}
		}
		if err := dev.SetContrast(*contrast); err != nil {
			return err
		}
	}
	for i := 0; i < 2*(*blink); i++ {
		if err := dev.Toggle(); err != nil {
			return err
		}
		if err := wait(ctx, clock, *pause); err != nil {
			return err
		}
	}
	if *text != "" {
		return scroll(ctx, dev, clock)
	}
	return nil
}

func mainImpl() error {
	flag.Parse()
	if flag.NArg() != 0 {
		return fmt.Errorf("unexpected argument: %v", flag.Args())
	}
	if *logFile != "" {
		l := &lumberjack.Logger{Filename: *logFile, MaxSize: 1, MaxBackups: 3}
		defer l.Close()
		log.SetOutput(l)
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	dev, release, err := openDev()
	if err != nil {
		return err
	}
	defer func() {
		if err := release(); err != nil {
			log.Printf("release: %v", err)
		}
	}()
	err = run(ctx, dev, clockwork.NewRealClock())
	if errors.Is(err, context.Canceled) {
		err = nil
	}
	if herr := dev.Halt(); err == nil {
		err = herr
	}
	return err
}

func main() {
	if err := mainImpl(); err != nil {
		fmt.Fprintf(os.Stderr, "aip1640: %s.\n", err)
		os.Exit(1)
	}
}
