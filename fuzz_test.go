package lzo1x

import (
	"bytes"
	"testing"
)

// FuzzRoundTrip checks that every input Compress accepts, Decompress can
// reconstruct exactly.
func FuzzRoundTrip(f *testing.F) {
	for _, in := range testInputSet() {
		f.Add(in.data)
	}

	f.Fuzz(func(t *testing.T, data []byte) {
		cmp, err := Compress(data)
		if err != nil {
			t.Fatalf("Compress failed: %v", err)
		}

		out, err := Decompress(bytes.NewReader(cmp), WithSizeHint(len(data)))
		if err != nil {
			t.Fatalf("Decompress failed: %v", err)
		}

		if !bytes.Equal(out, data) {
			t.Fatalf("round-trip mismatch: in=%d out=%d", len(data), len(out))
		}
	})
}

// FuzzDecompressNeverPanics checks that Decompress only ever returns an
// error on arbitrary (possibly malformed) input, never panics or reads out
// of bounds.
func FuzzDecompressNeverPanics(f *testing.F) {
	seed, err := Compress(bytes.Repeat([]byte("seed corpus payload"), 40))
	if err != nil {
		f.Fatalf("seed Compress failed: %v", err)
	}
	f.Add(seed)
	f.Add([]byte{0x11, 0x00, 0x00})
	f.Add([]byte{})

	f.Fuzz(func(t *testing.T, data []byte) {
		_, _ = Decompress(bytes.NewReader(data))
	})
}
