// SPDX-License-Identifier: MIT
// Copyright (c) 2026 Nanoris
// Source: github.com/nanoris/arcdec

package arcdec

import (
	"github.com/woozymasta/pathrules"
)

// File is one logical decoded unit: a named, owned byte buffer.
// Each File is owned by whichever stage currently holds it and is
// handed off between stages, never aliased.
type File struct {
	// Name is a path-like text identifier of the file.
	Name string `json:"name" yaml:"name"`
	// Data is the file content.
	Data []byte `json:"-" yaml:"-"`
}

// NewFile builds a File from a name and its content.
func NewFile(name string, data []byte) *File {
	return &File{Name: name, Data: data}
}

// Decoder is the minimal capability shared by all format decoders.
type Decoder interface {
	// Tag returns the registry tag of the format, e.g. "krkr/xp3".
	Tag() string
	// Recognize reports whether the file starts with this format's
	// magic signature. Signature bytes are compared exactly.
	Recognize(f *File) bool
}

// FileDecoder decodes one recognized file into a new plain file.
type FileDecoder interface {
	Decoder
	// Decode transforms the file and returns a new File with the
	// same name and the decoded content.
	Decode(f *File) (*File, error)
}

// ArchiveDecoder enumerates logical archive entries into a sink.
type ArchiveDecoder interface {
	Decoder
	// Unpack parses the archive and pushes each decoded entry to the
	// sink in table order. Any structural failure aborts the whole
	// unpack; entries already saved are not rolled back.
	Unpack(f *File, sink Sink, opts UnpackOptions) error
}

// Sink receives decoded files, one call per archive entry.
type Sink interface {
	Save(f *File) error
}

// UnpackOptions configures archive unpack behavior.
type UnpackOptions struct {
	// FilterTitle selects the per-title decryption filter. Empty means
	// derive the title from the archive file name.
	FilterTitle string `json:"filter_title,omitempty" yaml:"filter_title,omitempty"`
	// Select defines ordered path rules limiting emitted entries.
	// Empty rule set emits every entry.
	Select []pathrules.Rule `json:"select,omitempty" yaml:"select,omitempty"`
	// SelectMatcherOptions control selection rule matching.
	SelectMatcherOptions pathrules.MatcherOptions `json:"select_matcher_options,omitzero" yaml:"select_matcher_options,omitzero"`
}

// applyDefaults fills zero-valued unpack options with defaults.
func (opts *UnpackOptions) applyDefaults() {
	if opts.SelectMatcherOptions == (pathrules.MatcherOptions{}) {
		opts.SelectMatcherOptions = pathrules.MatcherOptions{
			CaseInsensitive: true,
			DefaultAction:   pathrules.ActionExclude,
		}
	}

	if opts.SelectMatcherOptions.DefaultAction == pathrules.ActionUnknown {
		opts.SelectMatcherOptions.DefaultAction = pathrules.ActionExclude
	}
}
