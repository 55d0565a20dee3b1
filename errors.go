// SPDX-License-Identifier: MIT
// Copyright (c) 2026 Nanoris
// Source: github.com/nanoris/arcdec

package arcdec

import "errors"

// Sentinel errors for decode operations. Use errors.Is in callers.
var (
	// ErrUnrecognizedFormat means no decoder recognized the input bytes.
	// It is not fatal during probing: the registry tries the next candidate.
	ErrUnrecognizedFormat = errors.New("unrecognized format")
	// ErrCorruptData means a structural invariant of the format was violated.
	// It is fatal to the current decode or unpack call.
	ErrCorruptData = errors.New("corrupt data")
	// ErrNilFile means a nil file was passed to a decoder or sink.
	ErrNilFile = errors.New("file is nil")
	// ErrNilSink means unpack was called without a destination sink.
	ErrNilSink = errors.New("sink is nil")
	// ErrDuplicateTag means a decoder tag is already registered.
	ErrDuplicateTag = errors.New("decoder tag already registered")
	// ErrUnknownTag means no decoder is registered under the requested tag.
	ErrUnknownTag = errors.New("unknown decoder tag")
	// ErrInvalidTag means a decoder tag or factory is empty or nil.
	ErrInvalidTag = errors.New("invalid decoder registration")
	// ErrInvalidSelectPattern means one or more entry selection rules are invalid.
	ErrInvalidSelectPattern = errors.New("invalid entry selection rules")
	// ErrInvalidEntryPath means an entry name is invalid as an output path.
	ErrInvalidEntryPath = errors.New("invalid entry path")
	// ErrSizeOverflow means a declared size does not fit addressable memory.
	ErrSizeOverflow = errors.New("declared size exceeds addressable range")
)
