// SPDX-License-Identifier: MIT

package lzo1x

// WorstCaseSize returns the largest number of bytes Compress could possibly
// produce for an input of length n (spec.md §5).
func WorstCaseSize(n int) int {
	return n + n/16 + 64 + 3
}

// Compress encodes src as an LZO1X stream, allocating a pooled Dict
// internally. Empty input produces empty output with no error and no
// terminator (spec.md §6.1, §8).
func Compress(src []byte) ([]byte, error) {
	if len(src) == 0 {
		return nil, nil
	}

	dict := acquireDict()
	defer releaseDict(dict)
	return compress(src, dict)
}

// CompressDict encodes src as an LZO1X stream using the caller-supplied
// dictionary, which is reset before use. Reusing a Dict across sequential
// calls avoids repeated allocation of its sliding window and hash tables
// (spec.md §3 "Lifecycles", §5).
func CompressDict(src []byte, dict *Dict) ([]byte, error) {
	if len(src) == 0 {
		return nil, nil
	}
	if dict == nil {
		dict = NewDict()
	} else {
		dict.Reset()
	}
	return compress(src, dict)
}

// CompressInto encodes src into dst, returning the number of bytes written.
// It returns ErrOutputOverrun (with the partial byte count still available
// in the returned int) if dst is too small to hold the encoded stream. dict
// may be nil, in which case a pooled dictionary is used.
func CompressInto(dst, src []byte, dict *Dict) (int, error) {
	if len(src) == 0 {
		return 0, nil
	}

	owned := dict == nil
	if owned {
		dict = acquireDict()
		defer releaseDict(dict)
	} else {
		dict.Reset()
	}

	return encodeInto(dst, src, dict)
}

// compress is the allocating path shared by Compress and CompressDict.
func compress(src []byte, dict *Dict) ([]byte, error) {
	out := make([]byte, WorstCaseSize(len(src)))
	n, err := encodeInto(out, src, dict)
	if err != nil {
		return nil, err
	}
	return out[:n], nil
}

// encodeInto runs the match finder and opcode emitter over src, writing the
// encoded stream into out and returning the number of bytes written
// (spec.md §4.6 "Opcode emitter — encoder main loop").
func encodeInto(out, src []byte, dict *Dict) (int, error) {
	var s windowState
	dict.initWindow(&s, src)

	outPos := 0
	litLen := 0
	litStart := s.bufPos
	var bestOffByLen [bestTableSize]int

	matchOff, matchLen := dict.advance(&s, 0, &bestOffByLen, false)

	for s.bufSize > 0 {
		if litLen == 0 {
			litStart = s.bufPos
		}

		if matchLen < 2 ||
			(matchLen == 2 && (matchOff > m1MaxOffset || litLen == 0 || litLen >= 4)) ||
			(matchLen == 2 && outPos == 0) ||
			(outPos == 0 && litLen == 0) {
			matchLen = 0
		} else if matchLen == m2MinLen && matchOff > mxMaxOffset && litLen >= 4 {
			matchLen = 0
		}

		if matchLen == 0 {
			litLen++
			matchOff, matchLen = dict.advance(&s, 0, &bestOffByLen, false)
			continue
		}

		matchLen, matchOff = rewriteForCheaperOpcode(&bestOffByLen, matchLen, matchOff)

		var err error
		outPos, err = emitLiteralRun(out, outPos, src, litStart, litLen)
		if err != nil {
			return outPos, err
		}
		outPos, err = emitMatch(out, outPos, matchLen, matchOff, litLen)
		if err != nil {
			return outPos, err
		}

		litLen = 0
		prevLen := matchLen
		matchOff, matchLen = dict.advance(&s, prevLen, &bestOffByLen, true)
	}

	var err error
	outPos, err = emitLiteralRun(out, outPos, src, litStart, litLen)
	if err != nil {
		return outPos, err
	}

	if outPos+3 > len(out) {
		return outPos, ErrOutputOverrun
	}
	out[outPos] = m4Marker | 1
	out[outPos+1] = 0
	out[outPos+2] = 0
	outPos += 3

	return outPos, nil
}

// emitLiteralRun writes the pending literal run [litStart, litStart+litLen)
// of src, choosing among the initial-long-literal, short-carry, medium, and
// long-run encodings (spec.md §4.7).
func emitLiteralRun(out []byte, outPos int, src []byte, litStart, litLen int) (int, error) {
	if litLen == 0 {
		return outPos, nil
	}

	var err error
	switch {
	case outPos == 0 && litLen <= 238:
		outPos, err = writeByte(out, outPos, opcodeByte(17+litLen))

	case litLen <= 3:
		if outPos < 2 {
			return outPos, ErrCompressInternal
		}
		out[outPos-2] |= opcodeByte(litLen)

	case litLen <= 18:
		outPos, err = writeByte(out, outPos, opcodeByte(litLen-3))

	default:
		outPos, err = writeByte(out, outPos, 0)
		if err == nil {
			outPos, err = writeRunExtension(out, outPos, litLen-18)
		}
	}
	if err != nil {
		return outPos, err
	}

	return writeSlice(out, outPos, src[litStart:litStart+litLen])
}

// emitMatch writes one back-reference opcode for (matchLen, matchOff),
// choosing the M1–M4 family per their offset/length ranges (spec.md §4.7).
// lastLitLen is the literal-run length that immediately preceded this match,
// needed to disambiguate the M1-after-four-literals special case.
func emitMatch(out []byte, outPos, matchLen, matchOff, lastLitLen int) (int, error) {
	switch {
	case matchLen == 2:
		matchOff--
		outPos, err := writeByte(out, outPos, opcodeByte(m1Marker|((matchOff&3)<<2)))
		if err != nil {
			return outPos, err
		}
		return writeByte(out, outPos, opcodeByte(matchOff>>2))

	case matchLen <= m2MaxLen && matchOff <= m2MaxOffset:
		matchOff--
		outPos, err := writeByte(out, outPos, opcodeByte((matchLen-1)<<5|((matchOff&7)<<2)))
		if err != nil {
			return outPos, err
		}
		return writeByte(out, outPos, opcodeByte(matchOff>>3))

	case matchLen == m2MinLen && matchOff <= mxMaxOffset && lastLitLen >= 4:
		matchOff -= 1 + m2MaxOffset
		outPos, err := writeByte(out, outPos, opcodeByte(m1Marker|((matchOff&3)<<2)))
		if err != nil {
			return outPos, err
		}
		return writeByte(out, outPos, opcodeByte(matchOff>>2))

	case matchOff <= m3MaxOffset:
		matchOff--
		var err error
		if matchLen <= m3MaxLen {
			outPos, err = writeByte(out, outPos, opcodeByte(m3Marker|(matchLen-2)))
		} else {
			outPos, err = writeByte(out, outPos, m3Marker)
			if err == nil {
				outPos, err = writeRunExtension(out, outPos, matchLen-m3MaxLen)
			}
		}
		if err != nil {
			return outPos, err
		}
		outPos, err = writeByte(out, outPos, opcodeByte((matchOff&0x3f)<<2))
		if err != nil {
			return outPos, err
		}
		return writeByte(out, outPos, opcodeByte(matchOff>>6))

	case matchOff <= m4MaxOffset:
		matchOff -= 0x4000
		head := (matchOff & 0x4000) >> 11
		var err error
		if matchLen <= m4MaxLen {
			outPos, err = writeByte(out, outPos, opcodeByte(m4Marker|head|(matchLen-2)))
		} else {
			outPos, err = writeByte(out, outPos, opcodeByte(m4Marker|head))
			if err == nil {
				outPos, err = writeRunExtension(out, outPos, matchLen-m4MaxLen)
			}
		}
		if err != nil {
			return outPos, err
		}
		outPos, err = writeByte(out, outPos, opcodeByte((matchOff&0x3f)<<2))
		if err != nil {
			return outPos, err
		}
		return writeByte(out, outPos, opcodeByte(matchOff>>6))

	default:
		return outPos, ErrCompressInternal
	}
}

// writeRunExtension writes the zero-byte-run length extension shared by
// long literal runs and long M3/M4 matches: (length-1)/255 zero bytes followed
// by the remainder as a final byte in 1..255 (spec.md §4.7).
func writeRunExtension(out []byte, outPos, length int) (int, error) {
	var err error
	for length > 255 {
		outPos, err = writeByte(out, outPos, 0)
		if err != nil {
			return outPos, err
		}
		length -= 255
	}
	return writeByte(out, outPos, opcodeByte(length))
}

func writeByte(out []byte, outPos int, b byte) (int, error) {
	if outPos >= len(out) {
		return outPos, ErrOutputOverrun
	}
	out[outPos] = b
	return outPos + 1, nil
}

func writeSlice(out []byte, outPos int, data []byte) (int, error) {
	if len(data) > len(out)-outPos {
		return outPos, ErrOutputOverrun
	}
	copy(out[outPos:outPos+len(data)], data)
	return outPos + len(data), nil
}
