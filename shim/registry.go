package shim

import (
	"errors"
	"fmt"
	"reflect"
	"sort"

	"github.com/reglet-dev/xrlayer/domain/entities"
	domainerrors "github.com/reglet-dev/xrlayer/domain/errors"
	"github.com/reglet-dev/xrlayer/extension"
)

// Entry is one locally implemented entry point.
type Entry struct {
	// Name is the entry-point name; it identifies the entry.
	Name string

	// Local is this layer's implementation. It must be a non-nil typed func.
	Local entities.VoidFunction

	// Requires names the extension that gates this entry. Empty means the
	// entry is always registered.
	Requires string
}

// Gated reports whether the entry depends on an extension.
func (e Entry) Gated() bool {
	return e.Requires != ""
}

// Registry is an immutable collection of shims.
// Once created via NewRegistry, entries cannot be added or removed, so
// lookups need no locking.
type Registry struct {
	entries map[string]Entry
	names   []string // sorted for consistent iteration
	skipped []string
}

// registryBuilder accumulates configuration during registry construction.
type registryBuilder struct {
	candidates []Entry
	seen       map[string]struct{}
	enabled    extension.Set
	disabled   func(name string) bool
	middleware []Middleware
	errors     []error
}

// RegistryOption is a functional option for configuring a Registry.
type RegistryOption func(*registryBuilder)

// NewRegistry creates an immutable Registry with the given options.
// Returns an error if a name is registered twice or an entry is malformed.
//
// Example usage:
//
//	registry, err := NewRegistry(
//	    WithExtensions(accepted),
//	    WithMiddleware(RecoveryMiddleware(logger)),
//	    WithBundle(coreBundle),
//	    WithGatedShim("XR_TEST_test_me", "xrTestMeTEST", testMe),
//	)
func NewRegistry(opts ...RegistryOption) (*Registry, error) {
	b := &registryBuilder{
		seen: make(map[string]struct{}),
	}

	for _, opt := range opts {
		opt(b)
	}

	if len(b.errors) > 0 {
		return nil, errors.Join(b.errors...)
	}

	entries := make(map[string]Entry, len(b.candidates))
	var skipped []string
	for _, e := range b.candidates {
		if e.Gated() && !b.enabled.Enabled(e.Requires) {
			skipped = append(skipped, e.Name)
			continue
		}
		if b.disabled != nil && b.disabled(e.Name) {
			skipped = append(skipped, e.Name)
			continue
		}

		// Apply middleware in reverse order so first middleware wraps outermost
		local := e.Local
		for i := len(b.middleware) - 1; i >= 0; i-- {
			local = b.middleware[i](e.Name, local)
		}
		e.Local = local
		entries[e.Name] = e
	}

	names := make([]string, 0, len(entries))
	for name := range entries {
		names = append(names, name)
	}
	sort.Strings(names)
	sort.Strings(skipped)

	return &Registry{
		entries: entries,
		names:   names,
		skipped: skipped,
	}, nil
}

// Lookup returns the entry registered under name.
func (r *Registry) Lookup(name string) (Entry, bool) {
	e, ok := r.entries[name]
	return e, ok
}

// Has returns true if a shim with the given name is registered.
func (r *Registry) Has(name string) bool {
	_, ok := r.entries[name]
	return ok
}

// Names returns a sorted list of all registered shim names.
func (r *Registry) Names() []string {
	result := make([]string, len(r.names))
	copy(result, r.names)
	return result
}

// Skipped returns the sorted names that were declared but not registered,
// because their extension was not enabled or they were disabled.
func (r *Registry) Skipped() []string {
	result := make([]string, len(r.skipped))
	copy(result, r.skipped)
	return result
}

// Entries returns the registered entries in name order.
func (r *Registry) Entries() []Entry {
	result := make([]Entry, 0, len(r.names))
	for _, name := range r.names {
		result = append(result, r.entries[name])
	}
	return result
}

// Len returns the number of registered shims.
func (r *Registry) Len() int {
	return len(r.entries)
}

// addEntry records a candidate entry.
// Returns an error if the entry is malformed or its name was already declared.
func (b *registryBuilder) addEntry(e Entry) error {
	if e.Name == "" {
		return &domainerrors.RegistrationError{Err: errors.New("shim name cannot be empty")}
	}
	if entities.IsNilFunction(e.Local) {
		return &domainerrors.RegistrationError{Name: e.Name, Err: errors.New("local function cannot be nil")}
	}
	if reflect.TypeOf(e.Local).Kind() != reflect.Func {
		return &domainerrors.RegistrationError{Name: e.Name, Err: fmt.Errorf("local function has non-function type %T", e.Local)}
	}
	if _, exists := b.seen[e.Name]; exists {
		return &domainerrors.RegistrationError{Name: e.Name, Err: errors.New("duplicate shim name")}
	}
	b.seen[e.Name] = struct{}{}
	b.candidates = append(b.candidates, e)
	return nil
}

// WithEntry declares a single entry.
func WithEntry(e Entry) RegistryOption {
	return func(b *registryBuilder) {
		if err := b.addEntry(e); err != nil {
			b.errors = append(b.errors, err)
		}
	}
}

// WithShim declares an unconditional shim.
func WithShim(name string, local entities.VoidFunction) RegistryOption {
	return WithEntry(Entry{Name: name, Local: local})
}

// WithGatedShim declares a shim registered only when ext is enabled.
func WithGatedShim(ext, name string, local entities.VoidFunction) RegistryOption {
	return WithEntry(Entry{Name: name, Local: local, Requires: ext})
}

// WithExtensions sets the extensions accepted for this instance.
// Gated entries whose extension is not in set are left out.
func WithExtensions(set extension.Set) RegistryOption {
	return func(b *registryBuilder) {
		b.enabled = set
	}
}

// WithDisabled sets a predicate naming shims that must never be registered.
func WithDisabled(disabled func(name string) bool) RegistryOption {
	return func(b *registryBuilder) {
		b.disabled = disabled
	}
}

// WithMiddleware adds middleware to the registry.
// Middleware executes in FIFO order (first added wraps first).
func WithMiddleware(mw ...Middleware) RegistryOption {
	return func(b *registryBuilder) {
		b.middleware = append(b.middleware, mw...)
	}
}
