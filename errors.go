// SPDX-License-Identifier: GPL-2.0-only

package lzo1x

import "errors"

// Sentinel errors for compression and decompression, named after the
// format's error taxonomy. Use errors.Is to check for a specific kind.
var (
	// ErrOutputOverrun is returned when a caller-supplied compression output
	// buffer is too small to hold the encoded stream.
	ErrOutputOverrun = errors.New("lzo1x: output overrun")
	// ErrInputOverrun is returned when the decoder's reader runs out of
	// bytes in the middle of an opcode.
	ErrInputOverrun = errors.New("lzo1x: input overrun")
	// ErrLookbehindOverrun is returned when a decoded back-reference points
	// before the start of the output produced so far.
	ErrLookbehindOverrun = errors.New("lzo1x: lookbehind overrun")
	// ErrInputNotConsumed is returned when the decoder reaches the
	// terminating M4 opcode but bytes remain in the reader.
	ErrInputNotConsumed = errors.New("lzo1x: input not fully consumed")
	// ErrFraming is returned when the decoder reads a terminating M4 opcode
	// (zero distance field) whose length is not the terminator's. A stream
	// that ends before any terminator yields ErrInputOverrun instead.
	ErrFraming = errors.New("lzo1x: malformed stream terminator")
	// ErrCompressInternal is returned when the compressor hits an internal
	// invariant violation (a bug, not a property of the input data).
	ErrCompressInternal = errors.New("lzo1x: internal compressor error")
)
