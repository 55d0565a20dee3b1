// SPDX-License-Identifier: MIT
// Copyright (c) 2026 Nanoris
// Source: github.com/nanoris/arcdec

package arcdec

import (
	"fmt"

	"github.com/woozymasta/pathrules"
)

// entrySelector holds compiled rules limiting which archive entries
// reach the sink.
type entrySelector struct {
	matcher *pathrules.Matcher
}

// newEntrySelector compiles entry selection rules. An empty rule set
// returns a nil selector, which means every entry is emitted.
func newEntrySelector(rules []pathrules.Rule, opts pathrules.MatcherOptions) (*entrySelector, error) {
	rules = normalizeSelectRules(rules)
	if len(rules) == 0 {
		return nil, nil
	}

	matcher, err := pathrules.NewMatcher(rules, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: compile rules: %w", ErrInvalidSelectPattern, err)
	}

	return &entrySelector{matcher: matcher}, nil
}

// normalizeSelectRules normalizes rule patterns and drops empty patterns.
func normalizeSelectRules(rules []pathrules.Rule) []pathrules.Rule {
	normalized := make([]pathrules.Rule, 0, len(rules))
	for _, rule := range rules {
		pattern := normalizePathForMatching(rule.Pattern)
		if pattern == "" {
			continue
		}

		normalized = append(normalized, pathrules.Rule{
			Action:  rule.Action,
			Pattern: pattern,
		})
	}

	return normalized
}

// Match reports whether an entry name is included by the rules.
func (s *entrySelector) Match(name string) bool {
	if s == nil || s.matcher == nil {
		return true
	}

	candidate := NormalizePath(name)
	if candidate == "" {
		return false
	}

	return s.matcher.Included(candidate, false)
}
