package lzo1x

import (
	"bytes"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestDecompress_CanonicalStream decodes the lzokay-rs documentation example
// stream, which expands to 512 zero bytes.
func TestDecompress_CanonicalStream(t *testing.T) {
	compressed := []byte{0x12, 0x00, 0x20, 0x00, 0xdf, 0x00, 0x00, 0x11, 0x00, 0x00}
	expected := make([]byte, 512)

	out, err := Decompress(bytes.NewReader(compressed), WithSizeHint(512))
	require.NoError(t, err)
	require.Equal(t, expected, out)
}

func TestDecompress_TruncatedInputAlwaysFails(t *testing.T) {
	data := bytes.Repeat([]byte("0123456789abcdef"), 256)
	cmp, err := Compress(data)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(cmp), 4)

	maxCut := min(32, len(cmp)-1)
	for cut := 1; cut <= maxCut; cut++ {
		truncated := cmp[:len(cmp)-cut]
		_, err := Decompress(bytes.NewReader(truncated))
		require.Error(t, err, "expected error for cut=%d", cut)
	}
}

func TestDecompress_RejectsTrailingBytes(t *testing.T) {
	data := bytes.Repeat([]byte("trailing-bytes-check"), 64)
	cmp, err := Compress(data)
	require.NoError(t, err)

	withTail := append(append([]byte{}, cmp...), []byte("garbage")...)
	_, err = Decompress(bytes.NewReader(withTail))
	require.ErrorIs(t, err, ErrInputNotConsumed)
}

func TestDecompress_RejectsTruncatedTerminator(t *testing.T) {
	data := []byte("short stream, deliberately truncated terminator")
	cmp, err := Compress(data)
	require.NoError(t, err)
	require.Equal(t, byte(0x11), cmp[len(cmp)-3])

	truncated := cmp[:len(cmp)-1]
	_, err = Decompress(bytes.NewReader(truncated))
	require.Error(t, err)
}

func TestDecompress_M2ToM3OffsetBoundary(t *testing.T) {
	// Force a match whose offset straddles the M2/M3 boundary (m2MaxOffset)
	// by repeating a block slightly larger than the window's short-offset
	// range between two copies of a marker prefix.
	prefix := []byte("boundary-marker-0123456789")
	filler := bytes.Repeat([]byte{0x5a}, m2MaxOffset+64)

	data := append(append(append([]byte{}, prefix...), filler...), prefix...)

	cmp, err := Compress(data)
	require.NoError(t, err)

	out := decompressAll(t, cmp, len(data))
	require.Equal(t, data, out)
}

func TestDecompress_PureRunOfIdenticalBytes(t *testing.T) {
	data := bytes.Repeat([]byte{0x00}, 70000)

	cmp, err := Compress(data)
	require.NoError(t, err)

	out := decompressAll(t, cmp, len(data))
	require.Equal(t, data, out)
}

func TestDecompress_RoundTripAcrossWindowWrap(t *testing.T) {
	// bufferSize bytes is one full ring cycle; windowSize+20000 bytes runs
	// past it, so pseudo-random content beyond that point forces
	// resetNextInputEntry to evict stale Match2/Match3
	// entries whose old bytes have since been overwritten. Identical-byte
	// runs beyond the window (e.g. TestDecompress_PureRunOfIdenticalBytes)
	// can't catch a stale Match2 head, since every byte matches regardless;
	// varied content can.
	rnd := rand.New(rand.NewSource(7))
	data := make([]byte, windowSize+20000)
	rnd.Read(data)
	// Sprinkle short repeated fragments throughout so the encoder actually
	// exercises Match2/Match3 lookups instead of emitting pure literals.
	for i := 0; i+8 <= len(data); i += 4096 {
		copy(data[i:i+8], []byte("repeat!!"))
	}

	cmp, err := Compress(data)
	require.NoError(t, err)

	out := decompressAll(t, cmp, len(data))
	require.Equal(t, data, out)
}

func TestDecompress_SingleLiteralRun(t *testing.T) {
	data := []byte("no-repeats-here")

	cmp, err := Compress(data)
	require.NoError(t, err)

	out := decompressAll(t, cmp, len(data))
	require.Equal(t, data, out)
}

func TestDecompress_LookbehindOverrun(t *testing.T) {
	// A match opcode (M2 family) whose offset reaches before the start of
	// the output must be rejected, not read out of bounds.
	malformed := []byte{
		0x12, 0xAB, // literal run of length 1: the byte 0xAB
		0x40, 0xFF, // M2 match, length 3, offset reaching past start
	}

	_, err := Decompress(bytes.NewReader(malformed))
	require.ErrorIs(t, err, ErrLookbehindOverrun)
}

func TestDecompress_FirstByteBelow18DispatchesAsOpcode(t *testing.T) {
	// Byte 5 is not a bootstrap literal run (those start at 18): it is an
	// ordinary literal-run opcode of length 5+3=8, per the fresh-opcode
	// dispatch every other position in the stream uses (spec.md §4.8). With
	// no bytes left to supply the 8 literals, decoding must fail on the
	// resulting short read, not reject the byte outright.
	_, err := Decompress(bytes.NewReader([]byte{0x05}))
	require.ErrorIs(t, err, ErrInputOverrun)
}
