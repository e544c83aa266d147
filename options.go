// SPDX-License-Identifier: MIT

package lzo1x

// DecompressOption configures a Decompress call.
type DecompressOption func(*decodeConfig)

type decodeConfig struct {
	sizeHint int
}

// WithSizeHint pre-allocates the output buffer to n bytes, avoiding
// reallocation during decode when the caller already knows (or can
// estimate) the decompressed size.
func WithSizeHint(n int) DecompressOption {
	return func(c *decodeConfig) {
		if n > 0 {
			c.sizeHint = n
		}
	}
}
