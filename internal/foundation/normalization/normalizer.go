// Package normalization maps loosely written configuration strings onto enum values.
package normalization

import (
	"fmt"
	"maps"
	"slices"
	"strings"
)

// Normalizer folds case and surrounding space before looking a value up.
type Normalizer[T comparable] struct {
	name     string
	values   map[string]T
	fallback T
}

// NewNormalizer creates a Normalizer for the enum called name. Aliases are
// allowed: several keys may map to the same value.
func NewNormalizer[T comparable](name string, values map[string]T, fallback T) *Normalizer[T] {
	folded := make(map[string]T, len(values))
	for k, v := range values {
		folded[fold(k)] = v
	}
	return &Normalizer[T]{name: name, values: folded, fallback: fallback}
}

// Normalize returns the value for raw, or the fallback when raw is unknown.
func (n *Normalizer[T]) Normalize(raw string) T {
	if v, ok := n.values[fold(raw)]; ok {
		return v
	}
	return n.fallback
}

// Parse is Normalize with an error for unknown input.
func (n *Normalizer[T]) Parse(raw string) (T, error) {
	if v, ok := n.values[fold(raw)]; ok {
		return v, nil
	}
	return n.fallback, fmt.Errorf("invalid %s %q, valid options: %s", n.name, raw, strings.Join(n.Keys(), ", "))
}

// Keys lists the accepted spellings in sorted order.
func (n *Normalizer[T]) Keys() []string {
	return slices.Sorted(maps.Keys(n.values))
}

func fold(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
