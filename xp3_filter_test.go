// SPDX-License-Identifier: MIT
// Copyright (c) 2026 Nanoris
// Source: github.com/nanoris/arcdec

package arcdec

import (
	"testing"
)

func TestFilterRegistryResolve(t *testing.T) {
	t.Parallel()

	r := DefaultFilters()

	if r.Resolve("fsn") == nil {
		t.Fatal("fsn filter not registered by default")
	}
	if r.Resolve("  FSN ") == nil {
		t.Fatal("title matching must be case-insensitive and trimmed")
	}
	if r.Resolve("unknown-title") != nil {
		t.Fatal("unknown title must resolve to nil (identity)")
	}

	var nilRegistry *FilterRegistry
	if nilRegistry.Resolve("fsn") != nil {
		t.Fatal("nil registry must resolve to nil")
	}
}

func TestFilterRegistryTitles(t *testing.T) {
	t.Parallel()

	r := NewFilterRegistry()
	r.Register("zeta", func([]byte, uint32) {})
	r.Register("alpha", func([]byte, uint32) {})

	got := r.Titles()
	if len(got) != 2 || got[0] != "alpha" || got[1] != "zeta" {
		t.Fatalf("Titles()=%v, want [alpha zeta]", got)
	}
}

func TestFilterFSNUniformXOR(t *testing.T) {
	t.Parallel()

	data := []byte{0x00, 0x36, 0xFF}
	FilterFSN(data, 0)

	want := []byte{0x36, 0x00, 0xC9}
	for i := range want {
		if data[i] != want[i] {
			t.Fatalf("data[%d]=%#x, want %#x", i, data[i], want[i])
		}
	}
}

func TestFilterFSNOffsetCorrections(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name   string
		size   int
		offset int
		extra  byte
	}{
		{name: "high offset applied", size: 0x2ea30, offset: 0x2ea29, extra: 3},
		{name: "low offset applied", size: 0x14, offset: 0x13, extra: 1},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			data := make([]byte, tc.size)
			FilterFSN(data, 0)

			want := byte(0x36) ^ tc.extra
			if data[tc.offset] != want {
				t.Fatalf("data[%#x]=%#x, want %#x", tc.offset, data[tc.offset], want)
			}
		})
	}
}

func TestFilterFSNHighOffsetBoundary(t *testing.T) {
	t.Parallel()

	// One byte short of containing the high fixup offset: only the
	// uniform XOR applies, never the extra correction.
	data := make([]byte, 0x2ea29)
	FilterFSN(data, 0)

	if data[len(data)-1] != 0x36 {
		t.Fatalf("data[last]=%#x, want 0x36", data[len(data)-1])
	}

	// Exactly containing it: both transformations apply.
	data = make([]byte, 0x2ea29+1)
	FilterFSN(data, 0)

	if data[0x2ea29] != 0x36^3 {
		t.Fatalf("data[0x2ea29]=%#x, want %#x", data[0x2ea29], 0x36^3)
	}
}

func TestFilterFSNLowOffsetBoundary(t *testing.T) {
	t.Parallel()

	data := make([]byte, 0x13)
	FilterFSN(data, 0)

	for i, b := range data {
		if b != 0x36 {
			t.Fatalf("data[%d]=%#x, want plain 0x36", i, b)
		}
	}
}
