// SPDX-License-Identifier: GPL-2.0-only

/*
Package lzo1x implements the LZO1X codec: a byte-oriented LZ77-family
compressor and decompressor, bitstream-compatible with reference LZO1X
encoders and decoders.

The format uses four back-reference instruction families, M1 through M4,
distinguished by their offset and length ranges, plus a literal-run
encoding. Every non-empty stream ends with a terminating M4 opcode (distance
0x4000, length bits 1, which decode as length 3), encoded as the three bytes
0x11 0x00 0x00.

# Compress

	out, err := lzo1x.Compress(data)

Dictionary reuse across sequential calls avoids repeated allocation of the
sliding window and hash tables:

	dict := lzo1x.NewDict()
	for _, chunk := range chunks {
		out, err := lzo1x.CompressDict(chunk, dict)
		...
	}

# Decompress

Decompress reads a seekable stream and returns the reconstructed bytes. A
size hint avoids buffer growth when the decompressed length is known:

	out, err := lzo1x.Decompress(bytes.NewReader(compressed), lzo1x.WithSizeHint(len(original)))
*/
package lzo1x
