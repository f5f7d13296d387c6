// Package extension tracks which optional extensions the application enabled
// for this layer, and splits an application's request between this layer and
// the layers below it.
package extension

import "slices"

// Set is an ordered, immutable list of accepted extension names.
// The zero value is the empty set.
type Set struct {
	names []string
}

// NewSet returns a Set holding names in the given order.
func NewSet(names ...string) Set {
	return Set{names: slices.Clone(names)}
}

// Enabled reports whether name is in the set. Comparison is byte for byte.
func (s Set) Enabled(name string) bool {
	return slices.Contains(s.names, name)
}

// Names returns a copy of the accepted names in order.
func (s Set) Names() []string {
	return slices.Clone(s.names)
}

// Len returns the number of accepted names.
func (s Set) Len() int {
	return len(s.names)
}

// Partition splits requested into the names this layer implements and the
// names that must be passed further down the chain. Both results keep the
// order of requested; duplicates are kept as requested.
func Partition(requested, implemented []string) (accepted Set, passthrough []string) {
	passthrough = make([]string, 0, len(requested))
	var ours []string
	for _, name := range requested {
		if slices.Contains(implemented, name) {
			ours = append(ours, name)
		} else {
			passthrough = append(passthrough, name)
		}
	}
	return Set{names: ours}, passthrough
}
