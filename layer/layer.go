package layer

import (
	"log/slog"

	"github.com/reglet-dev/xrlayer/application/config"
	"github.com/reglet-dev/xrlayer/dispatch"
	"github.com/reglet-dev/xrlayer/domain/entities"
	domainerrors "github.com/reglet-dev/xrlayer/domain/errors"
	"github.com/reglet-dev/xrlayer/domain/ports"
	"github.com/reglet-dev/xrlayer/extension"
	"github.com/reglet-dev/xrlayer/shim"
)

// Layer is one API layer: its configuration, its shims and the slot holding
// the dispatch context of the chain instance it is part of.
type Layer struct {
	cfg        entities.LayerConfig
	logger     *slog.Logger
	observer   ports.Observer
	slot       *dispatch.Slot
	bundles    []shim.Bundle
	middleware []shim.Middleware
	disabled   func(name string) bool
}

// Option configures a Layer.
type Option func(*Layer)

// WithLogger sets the logger; the default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(l *Layer) {
		l.logger = logger
	}
}

// WithObserver sets the observer notified of resolutions and shim calls.
func WithObserver(obs ports.Observer) Option {
	return func(l *Layer) {
		l.observer = obs
	}
}

// WithSlot injects the slot holding the dispatch context.
// Layers sharing a slot cannot both have a live instance.
func WithSlot(slot *dispatch.Slot) Option {
	return func(l *Layer) {
		l.slot = slot
	}
}

// WithBundle adds shims registered next to the built-in ones.
func WithBundle(b shim.Bundle) Option {
	return func(l *Layer) {
		l.bundles = append(l.bundles, b)
	}
}

// WithMiddleware appends middleware applied inside the built-in
// recovery, observer and logging middleware.
func WithMiddleware(mw ...shim.Middleware) Option {
	return func(l *Layer) {
		l.middleware = append(l.middleware, mw...)
	}
}

// New creates a Layer for cfg.
func New(cfg entities.LayerConfig, opts ...Option) *Layer {
	l := &Layer{cfg: cfg}
	for _, opt := range opts {
		opt(l)
	}
	if l.logger == nil {
		l.logger = slog.Default()
	}
	if l.observer == nil {
		l.observer = ports.NopObserver{}
	}
	if l.slot == nil {
		l.slot = dispatch.NewSlot()
	}
	l.logger = l.logger.With("layer", cfg.Name)

	filter := config.ShimFilter(&l.cfg)
	l.disabled = func(name string) bool {
		// The destroy shim releases the dispatch context and is never disabled.
		return name != entities.FuncDestroyInstance && filter(name)
	}

	l.logger.Info("api layer library initialized")
	return l
}

// Name returns the name the loader must negotiate with.
func (l *Layer) Name() string {
	return l.cfg.Name
}

// Config returns the layer configuration.
func (l *Layer) Config() entities.LayerConfig {
	return l.cfg
}

// Slot returns the slot holding the layer's dispatch context.
func (l *Layer) Slot() *dispatch.Slot {
	return l.slot
}

// GetInstanceProcAddr resolves name for instance through the live dispatch
// context. Shimmed names return the local shim; any other name is forwarded
// to the next layer unchanged. With no live context it fails with
// ErrorInitializationFailed.
func (l *Layer) GetInstanceProcAddr(instance entities.Instance, name string) (entities.VoidFunction, entities.Result) {
	c, err := l.slot.Live()
	if err != nil {
		l.observer.ObserveResolution(name, ports.OutcomeNoContext)
		l.logger.Debug("lookup without live dispatch context", "function", name)
		return nil, domainerrors.ResultOf(err)
	}
	return c.Resolve(instance, name)
}

// DestroyInstance tears down the chain instance through the xrDestroyInstance
// shim, exactly as a host calling the resolved function would.
func (l *Layer) DestroyInstance(instance entities.Instance) entities.Result {
	fn, res := l.GetInstanceProcAddr(instance, entities.FuncDestroyInstance)
	if res.Failed() {
		return res
	}
	destroy, err := entities.FunctionAs[entities.DestroyInstanceFunc](fn)
	if err != nil {
		l.logger.Error("resolved destroy function has wrong type", "error", err)
		return entities.ErrorRuntimeFailure
	}
	return destroy(instance)
}

func (l *Layer) buildRegistry(accepted extension.Set) (*shim.Registry, error) {
	opts := []shim.RegistryOption{
		shim.WithBundle(l.gate(l.builtinShims())),
	}
	for _, b := range l.bundles {
		opts = append(opts, shim.WithBundle(l.gate(b)))
	}
	opts = append(opts,
		shim.WithExtensions(accepted),
		shim.WithDisabled(l.disabled),
		shim.WithMiddleware(
			shim.RecoveryMiddleware(l.logger),
			shim.ObserverMiddleware(l.observer),
			shim.LoggingMiddleware(l.logger),
		),
		shim.WithMiddleware(l.middleware...),
	)
	return shim.NewRegistry(opts...)
}

// gate ties every entry named among a declared extension's entry points to
// that extension.
func (l *Layer) gate(b shim.Bundle) shim.Bundle {
	entries := b.Entries()
	gated := make([]shim.Entry, 0, len(entries))
	for _, e := range entries {
		if ext, ok := l.cfg.ExtensionFor(e.Name); ok {
			e.Requires = ext
		}
		gated = append(gated, e)
	}
	return shim.NewBundle(gated...)
}
