package domain

import (
	"maps"
	"slices"
)

// CodeSet is an unordered set of message codes.
type CodeSet map[string]struct{}

// NewCodeSet builds a set from the given codes, dropping duplicates.
func NewCodeSet(codes ...string) CodeSet {
	s := make(CodeSet, len(codes))
	for _, code := range codes {
		s[code] = struct{}{}
	}
	return s
}

// Has reports membership. A nil set contains nothing.
func (s CodeSet) Has(code string) bool {
	_, ok := s[code]
	return ok
}

func (s CodeSet) Len() int { return len(s) }

// Sorted returns the codes in ascending string order.
func (s CodeSet) Sorted() []string {
	return slices.Sorted(maps.Keys(s))
}
