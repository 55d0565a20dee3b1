// SPDX-License-Identifier: MIT
// Copyright (c) 2026 Nanoris
// Source: github.com/nanoris/arcdec

package arcdec

import (
	"sort"
	"strings"
)

// FilterFunc reverses per-title obfuscation of one assembled entry in
// place. key is the entry's ADLR value.
type FilterFunc func(data []byte, key uint32)

// FilterRegistry maps a title/context string to a decryption strategy.
// It is populated once before decoding begins and read-only afterwards.
type FilterRegistry struct {
	filters map[string]FilterFunc
}

// NewFilterRegistry builds an empty filter registry.
func NewFilterRegistry() *FilterRegistry {
	return &FilterRegistry{filters: make(map[string]FilterFunc)}
}

// DefaultFilters builds a registry with all built-in filters.
func DefaultFilters() *FilterRegistry {
	r := NewFilterRegistry()
	r.Register("fsn", FilterFSN)
	return r
}

// Register adds one filter under a title. Titles are matched
// case-insensitively; a later registration replaces an earlier one.
func (r *FilterRegistry) Register(title string, fn FilterFunc) {
	if r == nil || title == "" || fn == nil {
		return
	}

	r.filters[normalizeFilterTitle(title)] = fn
}

// Resolve returns the filter for a title, or nil when no filter is
// registered for it. A nil filter means entry data passes unchanged.
func (r *FilterRegistry) Resolve(title string) FilterFunc {
	if r == nil {
		return nil
	}

	return r.filters[normalizeFilterTitle(title)]
}

// Titles returns all registered titles in sorted order.
func (r *FilterRegistry) Titles() []string {
	if r == nil {
		return nil
	}

	titles := make([]string, 0, len(r.filters))
	for title := range r.filters {
		titles = append(titles, title)
	}

	sort.Strings(titles)
	return titles
}

// normalizeFilterTitle canonicalizes a title for lookup.
func normalizeFilterTitle(title string) string {
	return strings.ToLower(strings.TrimSpace(title))
}

// Fixed correction offsets of the FSN filter.
const (
	fsnFixupOffsetHigh = 0x2ea29
	fsnFixupOffsetLow  = 0x13
)

// FilterFSN reverses the Fate/stay night XP3 obfuscation: a uniform
// XOR over the whole buffer plus two fixed-offset corrections applied
// only when the buffer is long enough to contain the offset.
func FilterFSN(data []byte, _ uint32) {
	for i := range data {
		data[i] ^= 0x36
	}

	if len(data) > fsnFixupOffsetHigh {
		data[fsnFixupOffsetHigh] ^= 3
	}

	if len(data) > fsnFixupOffsetLow {
		data[fsnFixupOffsetLow] ^= 1
	}
}
