// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package ledmatrix is a container for the AiP1640 LED matrix driver and the
// host side tools built around it.
//
// See aip1640 for the driver, ledterm and marquee for previews and
// animations, and cmd/aip1640 for a command line front end.
package ledmatrix
