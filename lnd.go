// SPDX-License-Identifier: MIT
// Copyright (c) 2026 Nanoris
// Source: github.com/nanoris/arcdec

package arcdec

import (
	"bytes"
	"fmt"
)

// lndMagic is the LND file signature: three ASCII letters plus NUL.
var lndMagic = []byte{'l', 'n', 'd', 0x00}

// LND on-disk layout: magic(4) | reserved(4) | originalSize:u32le | reserved(4) | payload.
const lndHeaderSize = 16

// LNDDecoder decodes LND compressed files (kid/lnd).
type LNDDecoder struct{}

// Tag returns the registry tag of the LND format.
func (LNDDecoder) Tag() string {
	return "kid/lnd"
}

// Recognize reports whether the file starts with the LND signature.
func (LNDDecoder) Recognize(f *File) bool {
	return f != nil && bytes.HasPrefix(f.Data, lndMagic)
}

// Decode decompresses one LND file into a new File with the same name.
func (d LNDDecoder) Decode(f *File) (*File, error) {
	if f == nil {
		return nil, ErrNilFile
	}
	if !d.Recognize(f) {
		return nil, fmt.Errorf("%w: not an LND stream", ErrUnrecognizedFormat)
	}
	if len(f.Data) < lndHeaderSize {
		return nil, fmt.Errorf("%w: short LND header", ErrCorruptData)
	}

	c := newCursor(f.Data)
	_ = c.skip(len(lndMagic))
	_ = c.skip(4) // reserved

	sizeOrig, err := c.readU32()
	if err != nil {
		return nil, fmt.Errorf("read LND original size: %w", err)
	}

	_ = c.skip(4) // reserved
	payload := c.readToEnd()

	return NewFile(f.Name, DecompressRaw(payload, int(sizeOrig))), nil
}

// DecompressRaw decodes the custom LND byte-oriented LZ codec. It
// interprets input as a stream of control-byte-prefixed operations and
// produces at most sizeOrig output bytes. Decoding stops when the
// output is full or the input is exhausted; a truncated final
// operation stops early and is not an error.
func DecompressRaw(input []byte, sizeOrig int) []byte {
	if sizeOrig < 0 {
		sizeOrig = 0
	}

	out := make([]byte, sizeOrig)
	op := 0
	ip := 0

	for op < len(out) && ip < len(input) {
		ctrl := input[ip]
		ip++

		switch {
		case ctrl&0xC0 == 0xC0:
			// Fill-run: one value byte written (ctrl&0x1F)+2 times,
			// optionally extended by an extra length byte.
			n := int(ctrl&0x1F) + 2
			if ctrl&0x20 != 0 {
				if ip >= len(input) {
					return out[:op]
				}

				n += int(input[ip]) << 5
				ip++
			}
			if ip >= len(input) {
				return out[:op]
			}

			v := input[ip]
			for i := 0; i < n && op < len(out); i++ {
				out[op] = v
				op++
			}
			// The value byte is consumed exactly once after the run,
			// even when the output filled early.
			ip++
		case ctrl&0x80 != 0:
			// Back-reference: overlapping byte-by-byte copy from
			// already produced output. Distance is bias-shifted by +1
			// and therefore always >= 1; no clamping.
			if ip >= len(input) {
				return out[:op]
			}

			n := int((ctrl>>2)&0xF) + 2
			dist := int(ctrl&3)<<8 + int(input[ip]) + 1
			ip++

			for i := 0; i < n && op < len(out); i++ {
				var v byte
				if src := op - dist; src >= 0 {
					// References before the start of the output read zero.
					v = out[src]
				}

				out[op] = v
				op++
			}
		case ctrl&0x40 != 0:
			// Additive blend: a window of (ctrl&0x3F)+2 input bytes is
			// overlaid additively onto the same output span, once per
			// repetition; positions advance only after all repeats.
			if ip >= len(input) {
				return out[:op]
			}

			repeats := int(input[ip]) + 1
			ip++
			block := int(ctrl&0x3F) + 2

			window := input[ip:min(ip+block, len(input))]
			for r := 0; r < repeats; r++ {
				for i := 0; i < len(window) && op+i < len(out); i++ {
					out[op+i] += window[i]
				}
			}

			op = min(op+block, len(out))
			ip = min(ip+block, len(input))
		default:
			// Literal copy: verbatim bytes from input to output,
			// optionally extended by an extra length byte.
			n := int(ctrl&0x1F) + 1
			if ctrl&0x20 != 0 {
				if ip >= len(input) {
					return out[:op]
				}

				n += int(input[ip]) << 5
				ip++
			}

			for i := 0; i < n && op < len(out) && ip < len(input); i++ {
				out[op] = input[ip]
				op++
				ip++
			}
		}
	}

	return out[:op]
}
