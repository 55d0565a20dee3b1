// SPDX-License-Identifier: MIT
// Copyright (c) 2026 Nanoris
// Source: github.com/nanoris/arcdec

package arcdec

import "fmt"

// DecoderFactory builds one fresh decoder instance.
type DecoderFactory func() Decoder

// Registry maps format tags to decoder factories and probes files
// against every registered decoder. It is populated once at startup
// and read-only afterwards, so concurrent reads need no locking.
type Registry struct {
	tags      []string
	factories map[string]DecoderFactory
}

// NewRegistry builds an empty decoder registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]DecoderFactory)}
}

// DefaultRegistry builds a registry with all built-in decoders.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	// Registration errors are impossible for the fixed built-in set.
	_ = r.Register("kid/lnd", func() Decoder { return LNDDecoder{} })
	_ = r.Register("krkr/xp3", func() Decoder { return NewXP3Decoder() })
	return r
}

// Register adds a decoder factory under a format tag. Probe order
// follows registration order.
func (r *Registry) Register(tag string, factory DecoderFactory) error {
	if tag == "" || factory == nil {
		return ErrInvalidTag
	}
	if _, exists := r.factories[tag]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateTag, tag)
	}

	r.tags = append(r.tags, tag)
	r.factories[tag] = factory
	return nil
}

// Lookup builds the decoder registered under a tag.
func (r *Registry) Lookup(tag string) (Decoder, error) {
	factory, ok := r.factories[tag]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTag, tag)
	}

	return factory(), nil
}

// Probe tries every registered decoder in registration order and
// returns the first one that recognizes the file.
func (r *Registry) Probe(f *File) (Decoder, error) {
	if f == nil {
		return nil, ErrNilFile
	}

	for _, tag := range r.tags {
		dec := r.factories[tag]()
		if dec.Recognize(f) {
			return dec, nil
		}
	}

	return nil, fmt.Errorf("%w: %s", ErrUnrecognizedFormat, f.Name)
}

// Tags returns registered format tags in registration order.
func (r *Registry) Tags() []string {
	out := make([]string, len(r.tags))
	copy(out, r.tags)
	return out
}
