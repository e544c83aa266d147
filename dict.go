// SPDX-License-Identifier: MIT

package lzo1x

import "sync"

// match3Index is the 3-byte hash index (spec.md §3 "3-byte index (Match3)").
// head maps a 14-bit hash key to the most recently inserted window position
// with that key; chain links each position back to the previous position
// sharing its key, forming the hash chain the match finder walks. slotKey
// records which key a ring slot was inserted under, so eviction can find the
// right chain to shrink without recomputing the hash from possibly
// already-overwritten bytes. bestLen memoises the longest match length ever
// found starting at a position, bounding the chain walk's useful depth.
type match3Index struct {
	head    [match3HashSize]uint16
	chainSz [match3HashSize]uint16
	chain   [bufferSize]uint16
	slotKey [bufferSize]uint16
	bestLen [bufferSize]uint16
}

// match2Index is the 2-byte hash index (spec.md §3 "2-byte index (Match2)").
// It tracks only the single most recent position per key; unlike match3 it
// carries no chain.
type match2Index struct {
	head [1 << 16]uint16
}

// Dict is the exclusively-owned working memory of one Compress call: the
// sliding window buffer plus both hash indices. Reuse a Dict across
// sequential calls (via CompressDict or the package pool) to amortize its
// allocation; Reset returns it to its initial state. A Dict must not be used
// by more than one call concurrently (spec.md §5).
type Dict struct {
	match3 match3Index
	match2 match2Index
	buffer [bufferGuard]byte
}

// NewDict allocates a fresh, ready-to-use dictionary.
func NewDict() *Dict {
	d := &Dict{}
	d.Reset()
	return d
}

// Reset restores d to its initial empty state so it can be reused for a new
// Compress call. The window buffer contents are left as-is; they are fully
// overwritten on the next compress before being read.
func (d *Dict) Reset() {
	d.match3.init()
	d.match2.init()
}

var dictPool = sync.Pool{
	New: func() any { return NewDict() },
}

// acquireDict returns a reset dictionary from the shared pool.
func acquireDict() *Dict {
	d := dictPool.Get().(*Dict)
	d.Reset()
	return d
}

// releaseDict returns a dictionary to the shared pool.
func releaseDict(d *Dict) {
	if d == nil {
		return
	}
	dictPool.Put(d)
}

// windowState is the encoder's cursor state over the circular window
// (spec.md §3 "Encoder state"). It is small and reset per call, unlike Dict
// which owns the large backing arrays.
type windowState struct {
	src   []byte // full input being compressed
	inPos int    // next unread source byte index

	windSize int // valid lookahead length from windB
	windB    int // current parse position in the ring
	windE    int // next ring position to receive an input byte

	cycleCountdown int // delays eviction until the ring is fully primed

	bufPos  int // absolute source offset the current step's lookahead starts at
	bufSize int // remaining parse positions available this step
}

// initWindow primes the window with up to lookaheadMax bytes of input and
// arms the eviction countdown (spec.md §4.1 "Initialise").
func (d *Dict) initWindow(s *windowState, src []byte) {
	s.src = src
	s.inPos = 0
	s.cycleCountdown = windowSize
	s.windSize = min(len(src), lookaheadMax)
	s.windB = 0
	s.windE = s.windSize

	if s.windSize > 0 {
		copy(d.buffer[:s.windSize], src[:s.windSize])
	}
	s.inPos += s.windSize

	if s.windSize < 3 {
		start := s.windB + s.windSize
		for i := start; i < start+3-s.windSize; i++ {
			d.buffer[i] = 0
		}
	}
}

// getByte pulls the next input byte into the window at windE (mirroring it
// into the tail guard region when windE falls in the first lookaheadMax
// slots), or writes a zero and shrinks windSize once input is exhausted
// (spec.md §4.1 "GetByte").
func (s *windowState) getByte(buffer *[bufferGuard]byte) {
	var b byte
	if s.inPos < len(s.src) {
		b = s.src[s.inPos]
		s.inPos++
	} else if s.windSize > 0 {
		s.windSize--
	}

	buffer[s.windE] = b
	if s.windE < lookaheadMax {
		buffer[bufferSize+s.windE] = b
	}

	s.windE++
	if s.windE == bufferSize {
		s.windE = 0
	}
	s.windB++
	if s.windB == bufferSize {
		s.windB = 0
	}
}

// posToOffset converts a ring position into a backward match distance from
// the current parse position (spec.md §4.1 "Pos→Offset").
func (s *windowState) posToOffset(pos int) int {
	if s.windB > pos {
		return s.windB - pos
	}
	return bufferSize - (pos - s.windB)
}

// resetNextInputEntry evicts the hash-chain entry for the slot about to be
// overwritten, once the window has been primed past its first full cycle
// (spec.md §3 "cycle1_countdown").
func (d *Dict) resetNextInputEntry(s *windowState) {
	if s.cycleCountdown == 0 {
		d.match3.remove(s.windE)
		d.match2.remove(s.windE, &d.buffer)
	} else {
		s.cycleCountdown--
	}
}

// match3Key computes the 14-bit hash of the 3 bytes at pos using the format's
// fixed hash function (spec.md §3 "Hash").
func match3Key(buffer *[bufferGuard]byte, pos int) int {
	b0, b1, b2 := int(buffer[pos]), int(buffer[pos+1]), int(buffer[pos+2])
	key := (0x9f5f * ((((b0 << 5) ^ b1) << 5) ^ b2)) >> 5
	return key & (match3HashSize - 1)
}

// match2Key computes the 16-bit key of the 2 bytes at pos (spec.md §3
// "2-byte index").
func match2Key(buffer *[bufferGuard]byte, pos int) int {
	return int(buffer[pos]) ^ (int(buffer[pos+1]) << 8)
}

// init clears the 3-byte chain occupancy counts for a fresh compression run.
func (m *match3Index) init() {
	clear(m.chainSz[:])
}

// remove decrements the chain-length count for the key at pos, called when
// the slot at pos is about to be overwritten (spec.md §4.2 "Remove").
func (m *match3Index) remove(pos int) {
	key := int(m.slotKey[pos])
	m.chainSz[key]--
}

// advance links windB into the hash chain for its 3-byte key, returning the
// previous chain head and a probe count capped at match3ChainCap (spec.md
// §4.2 "Advance").
func (m *match3Index) advance(s *windowState, buffer *[bufferGuard]byte) (head uint16, count int) {
	key := match3Key(buffer, s.windB)

	count = int(m.chainSz[key])
	head = m.head[key]

	m.chain[s.windB] = head
	m.slotKey[s.windB] = uint16(key)
	m.head[key] = uint16(s.windB)
	m.chainSz[key]++

	if count > match3ChainCap {
		count = match3ChainCap
	}
	return head, count
}

// skipAdvance links windB into the hash chain without searching from it: its
// bestLen is set to lookaheadMax+1, above any reachable match length, so the
// chain walk's early-termination test never fires at this position (spec.md
// §4.2 "SkipAdvance").
func (m *match3Index) skipAdvance(s *windowState, buffer *[bufferGuard]byte) {
	key := match3Key(buffer, s.windB)
	head := m.head[key]

	m.chain[s.windB] = head
	m.slotKey[s.windB] = uint16(key)
	m.head[key] = uint16(s.windB)
	m.bestLen[s.windB] = lookaheadMax + 1
	m.chainSz[key]++
}

// init resets the 2-byte head table to all-empty for a fresh compression run.
func (m *match2Index) init() {
	for i := range m.head {
		m.head[i] = nilNode
	}
}

// add records windB as the most recent position for its 2-byte key
// (spec.md §4.3 "Add").
func (m *match2Index) add(pos int, buffer *[bufferGuard]byte) {
	m.head[match2Key(buffer, pos)] = uint16(pos)
}

// remove clears the head entry for pos's 2-byte key, but only if it still
// points at pos: a later Add may have already overwritten it with a newer
// position sharing the same key, and that entry must survive eviction of the
// older slot (spec.md §4.3 "Remove"). pos's bytes must not yet have been
// overwritten when this is called, since the key is recomputed from them.
func (m *match2Index) remove(pos int, buffer *[bufferGuard]byte) {
	key := match2Key(buffer, pos)
	if int(m.head[key]) == pos {
		m.head[key] = nilNode
	}
}

// search reports a length-2 candidate at the current position's 2-byte key,
// if one exists, seeding matchLen/matchPos and bestPos[2] when they are
// still empty (spec.md §4.3 "Search").
func (m *match2Index) search(s *windowState, buffer *[bufferGuard]byte, matchPos, matchLen *int, bestPos *[bestTableSize]int) bool {
	key := match2Key(buffer, s.windB)
	head := m.head[key]
	if head == nilNode {
		return false
	}

	pos := int(head)
	if bestPos[2] == 0 {
		bestPos[2] = pos + 1
	}
	if *matchLen < 2 {
		*matchLen = 2
		*matchPos = pos
	}
	return true
}
