// SPDX-License-Identifier: MIT
// Copyright (c) 2026 Nanoris
// Source: github.com/nanoris/arcdec

package arcdec

import (
	"errors"
	"testing"
)

func TestNormalizePath(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name string
		in   string
		want string
	}{
		{name: "empty", in: "", want: ""},
		{name: "slash", in: "/", want: ""},
		{name: "clean", in: "data/scenario/first.ks", want: "data/scenario/first.ks"},
		{name: "windows", in: `.\data\scenario\first.ks`, want: "data/scenario/first.ks"},
		{name: "trailing separator", in: `data\bgimage\`, want: "data/bgimage"},
		{name: "dot segments", in: "./a/../b//c.tjs", want: "b/c.tjs"},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got := NormalizePath(tc.in)
			if got != tc.want {
				t.Fatalf("NormalizePath(%q)=%q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestNormalizeSinkEntryPath(t *testing.T) {
	t.Parallel()

	t.Run("valid", func(t *testing.T) {
		t.Parallel()

		got, err := normalizeSinkEntryPath(`.\data/scenario\first.ks`)
		if err != nil {
			t.Fatalf("normalizeSinkEntryPath: %v", err)
		}

		want := "data/scenario/first.ks"
		if got != want {
			t.Fatalf("normalizeSinkEntryPath=%q, want %q", got, want)
		}
	})

	t.Run("invalid", func(t *testing.T) {
		t.Parallel()

		testCases := []struct {
			name string
			in   string
		}{
			{name: "empty", in: ""},
			{name: "blank", in: "   "},
			{name: "root", in: "/"},
			{name: "absolute", in: "/etc/passwd"},
			{name: "backslash root", in: `\data\first.ks`},
			{name: "drive prefix", in: `C:\data\first.ks`},
			{name: "traversal", in: "../first.ks"},
			{name: "inner traversal", in: "data/../../first.ks"},
			{name: "nul byte", in: "data/fi\x00rst.ks"},
			{name: "only dots", in: "./."},
		}

		for _, tc := range testCases {
			tc := tc
			t.Run(tc.name, func(t *testing.T) {
				t.Parallel()

				_, err := normalizeSinkEntryPath(tc.in)
				if !errors.Is(err, ErrInvalidEntryPath) {
					t.Fatalf("normalizeSinkEntryPath(%q): expected ErrInvalidEntryPath, got %v", tc.in, err)
				}
			})
		}
	})
}
