// Package signature classifies log lines against an ordered list of keyword
// signatures. The first signature whose keyword appears in a line decides the
// line's category; later signatures are never consulted for that line.
package signature

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalid reports a signature set that cannot be used for classification.
var ErrInvalid = errors.New("invalid signature set")

// Signature pairs a keyword with the category recorded when it matches.
type Signature struct {
	Keyword  string `toml:"keyword"`
	Category string `toml:"category"`
}

// Set is an ordered list of signatures. Order is priority.
type Set []Signature

// Default returns the built-in signature set.
func Default() Set {
	return Set{
		{Keyword: "malicious", Category: "malicious"},
		{Keyword: "attack", Category: "attack"},
	}
}

// Match returns the category of the first signature whose keyword is a
// case-sensitive substring of line.
func (s Set) Match(line string) (string, bool) {
	for _, sig := range s {
		if strings.Contains(line, sig.Keyword) {
			return sig.Category, true
		}
	}
	return "", false
}

// Categories returns the distinct categories in priority order.
func (s Set) Categories() []string {
	seen := make(map[string]struct{}, len(s))
	out := make([]string, 0, len(s))
	for _, sig := range s {
		if _, ok := seen[sig.Category]; ok {
			continue
		}
		seen[sig.Category] = struct{}{}
		out = append(out, sig.Category)
	}
	return out
}

// Validate checks that the set can be evaluated. Several keywords may share a
// category, but a repeated keyword can never match and is rejected.
func (s Set) Validate() error {
	if len(s) == 0 {
		return fmt.Errorf("%w: no signatures defined", ErrInvalid)
	}
	keywords := make(map[string]int, len(s))
	for i, sig := range s {
		if sig.Keyword == "" {
			return fmt.Errorf("%w: signature %d has an empty keyword", ErrInvalid, i+1)
		}
		if strings.TrimSpace(sig.Category) == "" {
			return fmt.Errorf("%w: signature %d (%q) has an empty category", ErrInvalid, i+1, sig.Keyword)
		}
		if prev, ok := keywords[sig.Keyword]; ok {
			return fmt.Errorf("%w: keyword %q repeated in signatures %d and %d", ErrInvalid, sig.Keyword, prev, i+1)
		}
		keywords[sig.Keyword] = i + 1
	}
	return nil
}

// Clone returns an independent copy of the set.
func (s Set) Clone() Set {
	if s == nil {
		return nil
	}
	dup := make(Set, len(s))
	copy(dup, s)
	return dup
}
