// SPDX-License-Identifier: MIT

package lzo1x

import "math/bits"

// advance is the match finder's core step (spec.md §4.4). When skip is true
// it first fast-forwards over prevLen-1 already-covered positions. It then
// searches both hash indices for the longest back-reference starting at the
// current window position, and finally advances the window by one position.
//
// It returns the chosen (matchLen, matchOff) and fills bestOffByLen with,
// for each candidate length L in [2, m3MaxLen], the offset of the first
// match of length >= L found along the chain walk (0 if none) — input to
// the better-match rewriter.
func (d *Dict) advance(s *windowState, prevLen int, bestOffByLen *[bestTableSize]int, skip bool) (matchOff, matchLen int) {
	if skip && prevLen > 1 {
		for range prevLen - 1 {
			d.resetNextInputEntry(s)
			d.match3.skipAdvance(s, &d.buffer)
			d.match2.add(s.windB, &d.buffer)
			s.getByte(&d.buffer)
		}
	}

	matchLen = 1
	matchOff = 0
	matchPos := 0
	var bestPosByLen [bestTableSize]int

	head, count := d.match3.advance(s, &d.buffer)

	stop := false
	if matchLen >= s.windSize {
		if s.windSize == 0 {
			stop = true
		}
		d.match3.bestLen[s.windB] = lookaheadMax + 1
	} else {
		if s.windSize >= 3 {
			d.match2.search(s, &d.buffer, &matchPos, &matchLen, &bestPosByLen)

			scanPos := s.windB
			scanLimit := scanPos + s.windSize
			node := int(head)
			currentBest := matchLen
			probeByte := d.buffer[scanPos+currentBest-1]

			for i := 0; i < count; i++ {
				if node < 0 || node >= bufferSize {
					break
				}
				if currentBest >= s.windSize {
					break
				}

				if d.buffer[node+currentBest-1] == probeByte &&
					d.buffer[node+currentBest] == d.buffer[scanPos+currentBest] &&
					d.buffer[node] == d.buffer[scanPos] &&
					d.buffer[node+1] == d.buffer[scanPos+1] {

					matched := matchedLength(&d.buffer, scanPos, node, 2, scanLimit)

					if matched >= 2 {
						if matched < bestTableSize && bestPosByLen[matched] == 0 {
							bestPosByLen[matched] = node + 1
						}

						if matched > matchLen {
							matchLen = matched
							matchPos = node
							currentBest = matched

							if matched == s.windSize || matched > int(d.match3.bestLen[node]) {
								break
							}
							probeByte = d.buffer[scanPos+currentBest-1]
						}
					}
				}

				next := d.match3.chain[node]
				if next == nilNode {
					break
				}
				node = int(next)
			}
		}

		if matchLen > 1 {
			matchOff = s.posToOffset(matchPos)
		}

		d.match3.bestLen[s.windB] = uint16(matchLen)
		for i := 2; i < bestTableSize; i++ {
			if bestPosByLen[i] > 0 {
				bestOffByLen[i] = s.posToOffset(bestPosByLen[i] - 1)
			} else {
				bestOffByLen[i] = 0
			}
		}
	}

	d.resetNextInputEntry(s)
	d.match2.add(s.windB, &d.buffer)
	s.getByte(&d.buffer)

	if stop {
		s.bufSize = 0
		matchLen = 0
	} else {
		s.bufSize = s.windSize + 1
	}
	s.bufPos = s.inPos - s.bufSize

	return matchOff, matchLen
}

// matchedLength extends an already-verified 2-byte prefix match between
// leftPos and rightPos and returns the total matched length, capped at
// leftLimit. It compares 8 bytes at a time via the mirrored tail guard so
// neither side needs explicit wrap handling.
func matchedLength(buffer *[bufferGuard]byte, leftPos, rightPos, matched, leftLimit int) int {
	for leftPos+matched+8 <= leftLimit && rightPos+matched+8 <= bufferGuard {
		left := beUint64(buffer[leftPos+matched:])
		right := beUint64(buffer[rightPos+matched:])
		if left == right {
			matched += 8
			continue
		}
		diff := left ^ right
		matched += bits.LeadingZeros64(diff) >> 3
		return matched
	}

	for leftPos+matched < leftLimit &&
		rightPos+matched < bufferGuard &&
		buffer[leftPos+matched] == buffer[rightPos+matched] {
		matched++
	}

	return matched
}

// beUint64 reads 8 bytes as a big-endian uint64 so the first differing byte
// corresponds to the highest-order differing bits, letting matchedLength
// locate it with LeadingZeros64 instead of a branchy byte loop.
func beUint64(b []byte) uint64 {
	_ = b[7]
	return uint64(b[0])<<56 | uint64(b[1])<<48 | uint64(b[2])<<40 | uint64(b[3])<<32 |
		uint64(b[4])<<24 | uint64(b[5])<<16 | uint64(b[6])<<8 | uint64(b[7])
}
