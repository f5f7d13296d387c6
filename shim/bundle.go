package shim

// Bundle is a pre-configured set of related shims.
// Bundles allow declaring multiple entries at once.
type Bundle interface {
	// Entries returns the entries of the bundle.
	Entries() []Entry
}

// staticBundle implements Bundle with a fixed set of entries.
type staticBundle struct {
	entries []Entry
}

func (b *staticBundle) Entries() []Entry {
	return b.entries
}

// NewBundle returns a Bundle holding entries in the given order.
func NewBundle(entries ...Entry) Bundle {
	return &staticBundle{entries: append([]Entry(nil), entries...)}
}

// compositeBundle combines multiple bundles into one.
type compositeBundle struct {
	bundles []Bundle
}

func (b *compositeBundle) Entries() []Entry {
	var result []Entry
	for _, bundle := range b.bundles {
		result = append(result, bundle.Entries()...)
	}
	return result
}

// Combine returns a Bundle containing the entries of every given bundle.
// Name clashes between bundles are reported by NewRegistry.
func Combine(bundles ...Bundle) Bundle {
	return &compositeBundle{bundles: bundles}
}

// WithBundle declares all entries from a bundle.
func WithBundle(bundle Bundle) RegistryOption {
	return func(b *registryBuilder) {
		for _, e := range bundle.Entries() {
			if err := b.addEntry(e); err != nil {
				b.errors = append(b.errors, err)
			}
		}
	}
}
