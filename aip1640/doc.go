// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package aip1640 drives an 8x16 LED matrix controlled by the AiP1640 chip,
// as found on the WMA451 module.
//
// The datasheet calls the interface I²C but it is not: there is no device
// address and no acknowledgment. The chip listens on two lines, a serial
// clock (SCLK) and data input (DIN). A transmission is framed by a start
// condition (DIN falls while SCLK is high) and a stop condition (DIN rises
// while SCLK is high). In between, bytes are shifted least significant bit
// first, DIN being sampled on the rising edge of SCLK.
//
// Each of the 16 addresses holds one column of 8 LEDs; bit 0 is the top row.
// The chip keeps the last value written to each address, the driver keeps no
// copy of it.
package aip1640
