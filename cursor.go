// SPDX-License-Identifier: MIT
// Copyright (c) 2026 Nanoris
// Source: github.com/nanoris/arcdec

package arcdec

import (
	"encoding/binary"
	"fmt"
	"math"
)

// cursor is a bounds-checked little-endian reader over an in-memory
// byte buffer. Out-of-bounds reads fail with ErrCorruptData instead of
// panicking, since every buffer parsed here is untrusted.
type cursor struct {
	data []byte
	pos  int
}

// newCursor wraps data in a cursor positioned at offset zero.
func newCursor(data []byte) *cursor {
	return &cursor{data: data}
}

// size returns total buffer length in bytes.
func (c *cursor) size() int {
	return len(c.data)
}

// tell returns the current read offset.
func (c *cursor) tell() int {
	return c.pos
}

// remaining returns the number of unread bytes.
func (c *cursor) remaining() int {
	return len(c.data) - c.pos
}

// seek moves the read offset to an absolute position.
func (c *cursor) seek(off int) error {
	if off < 0 || off > len(c.data) {
		return fmt.Errorf("%w: seek to offset %d outside %d-byte buffer", ErrCorruptData, off, len(c.data))
	}

	c.pos = off
	return nil
}

// skip advances the read offset by n bytes.
func (c *cursor) skip(n int) error {
	if n < 0 || n > c.remaining() {
		return fmt.Errorf("%w: skip %d bytes at offset %d of %d", ErrCorruptData, n, c.pos, len(c.data))
	}

	c.pos += n
	return nil
}

// readBytes returns the next n bytes as a subslice of the underlying
// buffer. Callers must not mutate the result.
func (c *cursor) readBytes(n int) ([]byte, error) {
	if n < 0 || n > c.remaining() {
		return nil, fmt.Errorf("%w: read %d bytes at offset %d of %d", ErrCorruptData, n, c.pos, len(c.data))
	}

	out := c.data[c.pos : c.pos+n]
	c.pos += n
	return out, nil
}

// readToEnd returns all bytes from the current position to the end.
func (c *cursor) readToEnd() []byte {
	out := c.data[c.pos:]
	c.pos = len(c.data)
	return out
}

// readU8 reads one byte.
func (c *cursor) readU8() (byte, error) {
	b, err := c.readBytes(1)
	if err != nil {
		return 0, err
	}

	return b[0], nil
}

// readU16 reads a 16-bit little-endian unsigned integer.
func (c *cursor) readU16() (uint16, error) {
	b, err := c.readBytes(2)
	if err != nil {
		return 0, err
	}

	return binary.LittleEndian.Uint16(b), nil
}

// readU32 reads a 32-bit little-endian unsigned integer.
func (c *cursor) readU32() (uint32, error) {
	b, err := c.readBytes(4)
	if err != nil {
		return 0, err
	}

	return binary.LittleEndian.Uint32(b), nil
}

// readU64 reads a 64-bit little-endian unsigned integer.
func (c *cursor) readU64() (uint64, error) {
	b, err := c.readBytes(8)
	if err != nil {
		return 0, err
	}

	return binary.LittleEndian.Uint64(b), nil
}

// checkedU64ToInt converts an on-disk u64 size or offset to int with a
// platform-safe overflow check.
func checkedU64ToInt(v uint64) (int, error) {
	if v > uint64(math.MaxInt) {
		return 0, fmt.Errorf("%w: %d", ErrSizeOverflow, v)
	}

	return int(v), nil
}
