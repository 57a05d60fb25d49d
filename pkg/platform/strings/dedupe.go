// Package strings provides ordered-set operations on string slices. The
// visibility resolver and role management both treat slices as ordered sets,
// so order preservation is part of every contract here.
package strings

import (
	"strings"
)

// DedupeAndTrim removes duplicates and empty strings from a slice,
// trimming whitespace from each element. Order is preserved.
//
// Example:
//
//	DedupeAndTrim([]string{"  foo ", "bar", "foo", "", "  "})
//	// Returns: []string{"foo", "bar"}
func DedupeAndTrim(values []string) []string {
	if len(values) == 0 {
		return values
	}

	seen := make(map[string]struct{}, len(values))
	result := make([]string, 0, len(values))

	for _, v := range values {
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			continue
		}
		if _, ok := seen[trimmed]; !ok {
			seen[trimmed] = struct{}{}
			result = append(result, trimmed)
		}
	}

	return result
}

// Union merges b into a as an ordered set: elements of a first, then
// elements of b not already present.
func Union(a, b []string) []string {
	result := make([]string, 0, len(a)+len(b))
	seen := make(map[string]struct{}, len(a)+len(b))
	for _, v := range a {
		if _, ok := seen[v]; !ok {
			seen[v] = struct{}{}
			result = append(result, v)
		}
	}
	for _, v := range b {
		if _, ok := seen[v]; !ok {
			seen[v] = struct{}{}
			result = append(result, v)
		}
	}
	return result
}

// SymmetricDiff returns the elements present in exactly one of a and b,
// a's survivors first, preserving order within each input.
func SymmetricDiff(a, b []string) []string {
	inA := make(map[string]struct{}, len(a))
	for _, v := range a {
		inA[v] = struct{}{}
	}
	inB := make(map[string]struct{}, len(b))
	for _, v := range b {
		inB[v] = struct{}{}
	}

	result := make([]string, 0, len(a)+len(b))
	for _, v := range a {
		if _, ok := inB[v]; !ok {
			result = append(result, v)
		}
	}
	for _, v := range b {
		if _, ok := inA[v]; !ok {
			result = append(result, v)
		}
	}
	return result
}

// Contains reports whether values contains v.
func Contains(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}
