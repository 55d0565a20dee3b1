// SPDX-License-Identifier: MIT
// Copyright (c) 2026 Nanoris
// Source: github.com/nanoris/arcdec

package arcdec

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/zlib"
)

// inflate decompresses one zlib-style deflate stream. sizeHint is the
// expected original size when known (zero means unknown) and only
// tunes buffer growth, never truncates output.
func inflate(data []byte, sizeHint int) ([]byte, error) {
	zr, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: bad zlib stream: %w", ErrCorruptData, err)
	}
	defer func() { _ = zr.Close() }()

	var buf bytes.Buffer
	if sizeHint > 0 {
		buf.Grow(sizeHint)
	}

	if _, err := io.Copy(&buf, zr); err != nil {
		return nil, fmt.Errorf("%w: zlib inflate: %w", ErrCorruptData, err)
	}

	return buf.Bytes(), nil
}
