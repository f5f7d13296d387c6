// Package loader simulates the host loader: it negotiates with each layer,
// links them above a runtime, creates chain instances and tears them down.
package loader

import (
	"fmt"
	"log/slog"

	"github.com/reglet-dev/xrlayer/domain/entities"
)

// Terminal is the runtime at the bottom of the chain.
type Terminal interface {
	GetInstanceProcAddr(instance entities.Instance, name string) (entities.VoidFunction, entities.Result)
	CreateAPILayerInstance(info *entities.InstanceCreateInfo, layerInfo *entities.APILayerCreateInfo) (entities.Instance, entities.Result)
}

// Manifest describes one layer as the loader finds it.
type Manifest struct {
	// Name is the layer name from the manifest.
	Name string
	// Negotiate is the layer's exported negotiation entry point.
	Negotiate entities.NegotiateLoaderAPILayerInterfaceFunc
}

type negotiated struct {
	name    string
	request *entities.APILayerRequest
}

// Loader assembles chains from negotiated layers.
type Loader struct {
	terminal     Terminal
	logger       *slog.Logger
	minInterface uint32
	maxInterface uint32
	minAPI       entities.Version
	maxAPI       entities.Version
	layers       []negotiated
}

// Option configures a Loader.
type Option func(*Loader)

// WithLogger sets the logger; the default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loader) {
		l.logger = logger
	}
}

// WithInterfaceWindow sets the loader interface versions offered at negotiation.
func WithInterfaceWindow(minVersion, maxVersion uint32) Option {
	return func(l *Loader) {
		l.minInterface, l.maxInterface = minVersion, maxVersion
	}
}

// WithAPIWindow sets the API versions offered at negotiation.
func WithAPIWindow(minVersion, maxVersion entities.Version) Option {
	return func(l *Loader) {
		l.minAPI, l.maxAPI = minVersion, maxVersion
	}
}

// New creates a Loader above terminal offering the current versions.
func New(terminal Terminal, opts ...Option) *Loader {
	l := &Loader{
		terminal:     terminal,
		logger:       slog.Default(),
		minInterface: entities.CurrentLoaderAPILayerVersion,
		maxInterface: entities.CurrentLoaderAPILayerVersion,
		minAPI:       entities.CurrentAPIVersion,
		maxAPI:       entities.CurrentAPIVersion,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load negotiates with a layer and appends it below the layers already
// loaded. The first loaded layer is the one closest to the application.
func (l *Loader) Load(m Manifest) entities.Result {
	if m.Negotiate == nil {
		return entities.ErrorLayerInvalid
	}

	info := entities.NewLoaderInfo(l.minInterface, l.maxInterface, l.minAPI, l.maxAPI)
	req := entities.NewAPILayerRequest()
	res := m.Negotiate(info, m.Name, req)
	if res.Failed() {
		l.logger.Warn("layer negotiation failed", "layer", m.Name, "result", res.String())
		return res
	}
	if req.GetInstanceProcAddr == nil || req.CreateAPILayerInstance == nil {
		l.logger.Warn("layer returned incomplete request", "layer", m.Name)
		return entities.ErrorLayerInvalid
	}

	l.layers = append(l.layers, negotiated{name: m.Name, request: req})
	l.logger.Debug("layer negotiated",
		"layer", m.Name,
		"interface_version", req.LayerInterfaceVersion,
		"api_version", req.LayerAPIVersion.String(),
	)
	return entities.Success
}

// Layers returns the names of the loaded layers, top first.
func (l *Loader) Layers() []string {
	names := make([]string, 0, len(l.layers))
	for _, n := range l.layers {
		names = append(names, n.name)
	}
	return names
}

// Chain is one created chain instance.
type Chain struct {
	Instance            entities.Instance
	GetInstanceProcAddr entities.GetInstanceProcAddrFunc
}

// CreateInstance links every loaded layer above the terminal and creates an
// instance through the top of the chain.
func (l *Loader) CreateInstance(info *entities.InstanceCreateInfo) (*Chain, entities.Result) {
	if len(l.layers) == 0 {
		instance, res := l.terminal.CreateAPILayerInstance(info, entities.NewAPILayerCreateInfo(nil))
		if res.Failed() {
			return nil, res
		}
		return &Chain{Instance: instance, GetInstanceProcAddr: l.terminal.GetInstanceProcAddr}, res
	}

	// Build links bottom-up: link i names layer i and points at what is below it.
	var next *entities.APILayerNextInfo
	gipa := entities.GetInstanceProcAddrFunc(l.terminal.GetInstanceProcAddr)
	create := entities.CreateAPILayerInstanceFunc(l.terminal.CreateAPILayerInstance)
	for i := len(l.layers) - 1; i >= 0; i-- {
		n := l.layers[i]
		next = entities.NewAPILayerNextInfo(n.name, gipa, create, next)
		gipa = n.request.GetInstanceProcAddr
		create = n.request.CreateAPILayerInstance
	}

	instance, res := create(info, entities.NewAPILayerCreateInfo(next))
	if res.Failed() {
		l.logger.Warn("instance creation failed", "result", res.String())
		return nil, res
	}
	return &Chain{Instance: instance, GetInstanceProcAddr: gipa}, res
}

// Resolve looks name up through the top of the chain.
func (c *Chain) Resolve(name string) (entities.VoidFunction, entities.Result) {
	return c.GetInstanceProcAddr(c.Instance, name)
}

// Destroy resolves xrDestroyInstance through the chain and calls it.
func (c *Chain) Destroy() entities.Result {
	fn, res := c.Resolve(entities.FuncDestroyInstance)
	if res.Failed() {
		return res
	}
	destroy, err := entities.FunctionAs[entities.DestroyInstanceFunc](fn)
	if err != nil {
		return entities.ErrorRuntimeFailure
	}
	return destroy(c.Instance)
}

// ResolveAs resolves name through c and converts it to F.
func ResolveAs[F any](c *Chain, name string) (F, entities.Result) {
	var zero F
	fn, res := c.Resolve(name)
	if res.Failed() {
		return zero, res
	}
	typed, err := entities.FunctionAs[F](fn)
	if err != nil {
		return zero, entities.ErrorRuntimeFailure
	}
	return typed, res
}

// String describes the chain for logs.
func (c *Chain) String() string {
	return fmt.Sprintf("chain(instance=%#x)", uint64(c.Instance))
}
