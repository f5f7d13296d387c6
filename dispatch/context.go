package dispatch

import (
	"context"
	"log/slog"
	"sync"

	"github.com/reglet-dev/xrlayer/domain/entities"
	domainerrors "github.com/reglet-dev/xrlayer/domain/errors"
	"github.com/reglet-dev/xrlayer/domain/ports"
	"github.com/reglet-dev/xrlayer/extension"
	"github.com/reglet-dev/xrlayer/shim"
)

// Entry is a snapshot of one row of the dispatch table.
type Entry struct {
	Name     string
	Local    entities.VoidFunction
	Upstream entities.VoidFunction
	Requires string
}

// Resolved reports whether the next layer's implementation is known.
func (e Entry) Resolved() bool {
	return e.Upstream != nil
}

type row struct {
	local    entities.VoidFunction
	upstream entities.VoidFunction
	requires string
}

// Context is the dispatch state of one live chain instance.
// Contexts are created by Slot.Acquire only.
type Context struct {
	resolver   ports.Resolver
	extensions extension.Set
	logger     *slog.Logger
	observer   ports.Observer

	mu       sync.RWMutex
	instance entities.Instance
	loaded   bool
	rows     map[string]*row
}

// contextConfig holds optional Context settings.
type contextConfig struct {
	extensions extension.Set
	logger     *slog.Logger
	observer   ports.Observer
}

// ContextOption configures a Context at acquisition.
type ContextOption func(*contextConfig)

// WithExtensions records the extensions accepted for the instance.
func WithExtensions(set extension.Set) ContextOption {
	return func(c *contextConfig) {
		c.extensions = set
	}
}

// WithLogger sets the logger; the default is slog.Default().
func WithLogger(logger *slog.Logger) ContextOption {
	return func(c *contextConfig) {
		c.logger = logger
	}
}

// WithObserver sets the observer notified of resolutions and missing upstreams.
func WithObserver(obs ports.Observer) ContextOption {
	return func(c *contextConfig) {
		c.observer = obs
	}
}

func newContext(resolver ports.Resolver, registry *shim.Registry, opts ...ContextOption) *Context {
	cfg := contextConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.logger == nil {
		cfg.logger = slog.Default()
	}
	if cfg.observer == nil {
		cfg.observer = ports.NopObserver{}
	}

	rows := make(map[string]*row, registry.Len())
	for _, e := range registry.Entries() {
		rows[e.Name] = &row{local: e.Local, requires: e.Requires}
	}

	return &Context{
		resolver:   resolver,
		extensions: cfg.extensions,
		logger:     cfg.logger,
		observer:   cfg.observer,
		instance:   entities.NullInstance,
		rows:       rows,
	}
}

// Resolve serves a name lookup. A shimmed name returns the local entry point
// without consulting the next layer; any other name is forwarded verbatim and
// the next layer's answer is returned unchanged.
func (c *Context) Resolve(instance entities.Instance, name string) (entities.VoidFunction, entities.Result) {
	c.mu.RLock()
	r, ok := c.rows[name]
	c.mu.RUnlock()

	if ok {
		c.observer.ObserveResolution(name, ports.OutcomeLocal)
		return r.local, entities.Success
	}

	fn, res := c.resolver.Resolve(instance, name)
	if res.Failed() {
		c.observer.ObserveResolution(name, ports.OutcomeFailed)
	} else {
		c.observer.ObserveResolution(name, ports.OutcomeForwarded)
	}
	return fn, res
}

// LoadDispatchTable asks the next layer for every shimmed name and stores the
// answers. It records instance as the chain instance the table belongs to.
// Names the next layer does not provide keep a nil upstream and are returned.
func (c *Context) LoadDispatchTable(instance entities.Instance) []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.instance = instance
	c.loaded = true

	var missing []string
	for _, name := range sortedNames(c.rows) {
		fn, res := c.resolver.Resolve(instance, name)
		if res.Failed() || entities.IsNilFunction(fn) {
			missing = append(missing, name)
			c.observer.ObserveUpstreamMissing(name)
			level := slog.LevelWarn
			if c.rows[name].requires != "" {
				// Extension functions are usually implemented here only.
				level = slog.LevelDebug
			}
			c.logger.Log(context.Background(), level, "next layer does not provide shimmed function",
				"function", name,
				"result", res.String(),
			)
			continue
		}
		c.rows[name].upstream = fn
	}
	return missing
}

// Next returns the next layer's implementation of a shimmed name, resolving
// and caching it if the eager load did not find it. It implements ports.Upstream.
func (c *Context) Next(name string) (entities.VoidFunction, error) {
	c.mu.RLock()
	r, ok := c.rows[name]
	var cached entities.VoidFunction
	if ok {
		cached = r.upstream
	}
	loaded, instance := c.loaded, c.instance
	c.mu.RUnlock()

	if !ok {
		return nil, &domainerrors.UnknownShimError{Name: name}
	}
	if cached != nil {
		return cached, nil
	}
	if !loaded {
		return nil, &domainerrors.MissingUpstreamError{Name: name}
	}

	fn, res := c.resolver.Resolve(instance, name)
	if res.Failed() || entities.IsNilFunction(fn) {
		return nil, &domainerrors.MissingUpstreamError{Name: name, Status: res}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if r.upstream == nil {
		r.upstream = fn
	}
	return r.upstream, nil
}

// Instance returns the chain instance recorded by LoadDispatchTable.
func (c *Context) Instance() entities.Instance {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.instance
}

// Extensions returns the extensions accepted for the instance.
func (c *Context) Extensions() extension.Set {
	return c.extensions
}

// Has reports whether name is shimmed by this context.
func (c *Context) Has(name string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.rows[name]
	return ok
}

// Entries returns a snapshot of the table in name order.
func (c *Context) Entries() []Entry {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]Entry, 0, len(c.rows))
	for _, name := range sortedNames(c.rows) {
		r := c.rows[name]
		out = append(out, Entry{Name: name, Local: r.local, Upstream: r.upstream, Requires: r.requires})
	}
	return out
}
