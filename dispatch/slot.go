package dispatch

import (
	"errors"
	"sort"
	"sync"

	"github.com/reglet-dev/xrlayer/domain/entities"
	domainerrors "github.com/reglet-dev/xrlayer/domain/errors"
	"github.com/reglet-dev/xrlayer/domain/ports"
	"github.com/reglet-dev/xrlayer/shim"
)

// Slot owns at most one live Context.
type Slot struct {
	mu   sync.Mutex
	live *Context
}

// NewSlot returns an empty Slot.
func NewSlot() *Slot {
	return &Slot{}
}

// Acquire constructs the Context for a new chain instance.
// It fails with *errors.DuplicateContextError, leaving the live Context
// untouched, if one already exists.
func (s *Slot) Acquire(resolver ports.Resolver, registry *shim.Registry, opts ...ContextOption) (*Context, error) {
	if resolver == nil {
		return nil, errors.New("dispatch: next layer resolver is required")
	}
	if registry == nil {
		return nil, errors.New("dispatch: shim registry is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.live != nil {
		return nil, &domainerrors.DuplicateContextError{Live: s.live.Instance()}
	}

	c := newContext(resolver, registry, opts...)
	s.live = c
	return c, nil
}

// Release clears the slot if c is the live Context.
// It reports whether c was live.
func (s *Slot) Release(c *Context) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c == nil || s.live != c {
		return false
	}
	s.live = nil
	return true
}

// Live returns the live Context or errors.ErrNoLiveContext.
func (s *Slot) Live() (*Context, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.live == nil {
		return nil, domainerrors.ErrNoLiveContext
	}
	return s.live, nil
}

// Next returns the next layer's implementation of a shimmed name through the
// live Context. It implements ports.Upstream for shims.
func (s *Slot) Next(name string) (entities.VoidFunction, error) {
	c, err := s.Live()
	if err != nil {
		return nil, err
	}
	return c.Next(name)
}

// NextAs is Next followed by a conversion to the typed entry point.
func NextAs[F any](up ports.Upstream, name string) (F, error) {
	var zero F
	fn, err := up.Next(name)
	if err != nil {
		return zero, err
	}
	return entities.FunctionAs[F](fn)
}

func sortedNames(rows map[string]*row) []string {
	names := make([]string, 0, len(rows))
	for name := range rows {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
