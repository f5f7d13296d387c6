// Package runtime is an in-process stand-in for the runtime at the bottom of
// a layer chain. It creates instances, serves a few entry points and records
// what reached it, so tests and the simulate command can observe exactly what
// the layers above passed down.
package runtime

import (
	"slices"
	"sync"

	"github.com/reglet-dev/xrlayer/domain/entities"
)

// Runtime is the terminal link of a chain.
type Runtime struct {
	mu           sync.Mutex
	nextHandle   entities.Instance
	instances    map[entities.Instance]*entities.InstanceCreateInfo
	extensions   []string
	omitted      map[string]bool
	createResult entities.Result
	frames       []entities.FrameEndInfo
	events       []entities.EventDataBuffer
	calls        map[string]int
}

// Option configures a Runtime.
type Option func(*Runtime)

// WithSupportedExtensions sets the extensions the runtime implements.
// Creating an instance that requests any other extension fails with
// ErrorExtensionNotPresent.
func WithSupportedExtensions(names ...string) Option {
	return func(r *Runtime) {
		r.extensions = append(r.extensions, names...)
	}
}

// WithoutFunctions makes lookups of names fail with ErrorFunctionUnsupported.
func WithoutFunctions(names ...string) Option {
	return func(r *Runtime) {
		for _, n := range names {
			r.omitted[n] = true
		}
	}
}

// WithCreateResult forces instance creation to return res.
func WithCreateResult(res entities.Result) Option {
	return func(r *Runtime) {
		r.createResult = res
	}
}

// WithEvents queues events returned by PollEvent in order.
func WithEvents(events ...entities.EventDataBuffer) Option {
	return func(r *Runtime) {
		r.events = append(r.events, events...)
	}
}

// New creates a Runtime with no live instances.
func New(opts ...Option) *Runtime {
	r := &Runtime{
		nextHandle: 0x1000,
		instances:  make(map[entities.Instance]*entities.InstanceCreateInfo),
		omitted:    make(map[string]bool),
		calls:      make(map[string]int),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// GetInstanceProcAddr resolves the runtime's entry points. A handle that is
// neither null nor live fails with ErrorHandleInvalid.
func (r *Runtime) GetInstanceProcAddr(instance entities.Instance, name string) (entities.VoidFunction, entities.Result) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.calls[entities.FuncGetInstanceProcAddr]++
	if instance != entities.NullInstance {
		if _, ok := r.instances[instance]; !ok {
			return nil, entities.ErrorHandleInvalid
		}
	}
	if r.omitted[name] {
		return nil, entities.ErrorFunctionUnsupported
	}

	switch name {
	case entities.FuncGetInstanceProcAddr:
		return entities.GetInstanceProcAddrFunc(r.GetInstanceProcAddr), entities.Success
	case entities.FuncDestroyInstance:
		return entities.DestroyInstanceFunc(r.DestroyInstance), entities.Success
	case entities.FuncEndFrame:
		return entities.EndFrameFunc(r.EndFrame), entities.Success
	case entities.FuncPollEvent:
		return entities.PollEventFunc(r.PollEvent), entities.Success
	}
	return nil, entities.ErrorFunctionUnsupported
}

// CreateAPILayerInstance creates an instance. The runtime is the end of the
// chain, so layerInfo must not link any further.
func (r *Runtime) CreateAPILayerInstance(info *entities.InstanceCreateInfo, layerInfo *entities.APILayerCreateInfo) (entities.Instance, entities.Result) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.calls["xrCreateInstance"]++
	if info == nil {
		return entities.NullInstance, entities.ErrorValidationFailure
	}
	if layerInfo != nil && layerInfo.NextInfo != nil {
		return entities.NullInstance, entities.ErrorLayerInvalid
	}
	if r.createResult.Failed() {
		return entities.NullInstance, r.createResult
	}
	for _, ext := range info.EnabledExtensionNames {
		if !slices.Contains(r.extensions, ext) {
			return entities.NullInstance, entities.ErrorExtensionNotPresent
		}
	}

	r.nextHandle++
	handle := r.nextHandle
	r.instances[handle] = info.Clone()
	return handle, entities.Success
}

// DestroyInstance destroys a live instance.
func (r *Runtime) DestroyInstance(instance entities.Instance) entities.Result {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.calls[entities.FuncDestroyInstance]++
	if _, ok := r.instances[instance]; !ok {
		return entities.ErrorHandleInvalid
	}
	delete(r.instances, instance)
	return entities.Success
}

// EndFrame records a frame. A display time that is not positive fails with
// ErrorTimeInvalid.
func (r *Runtime) EndFrame(_ entities.Session, info *entities.FrameEndInfo) entities.Result {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.calls[entities.FuncEndFrame]++
	if info == nil {
		return entities.ErrorValidationFailure
	}
	if info.DisplayTime <= 0 {
		return entities.ErrorTimeInvalid
	}
	r.frames = append(r.frames, *info)
	return entities.Success
}

// PollEvent pops the next queued event, or returns EventUnavailable.
func (r *Runtime) PollEvent(instance entities.Instance, buffer *entities.EventDataBuffer) entities.Result {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.calls[entities.FuncPollEvent]++
	if _, ok := r.instances[instance]; !ok {
		return entities.ErrorHandleInvalid
	}
	if buffer == nil {
		return entities.ErrorValidationFailure
	}
	if len(r.events) == 0 {
		return entities.EventUnavailable
	}
	*buffer = r.events[0]
	r.events = r.events[1:]
	return entities.Success
}

// Live reports whether instance exists.
func (r *Runtime) Live(instance entities.Instance) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.instances[instance]
	return ok
}

// CreateInfo returns the creation parameters that reached the runtime for instance.
func (r *Runtime) CreateInfo(instance entities.Instance) (*entities.InstanceCreateInfo, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	info, ok := r.instances[instance]
	return info.Clone(), ok
}

// Frames returns the frames submitted successfully.
func (r *Runtime) Frames() []entities.FrameEndInfo {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.frames)
}

// Calls returns how many times the named entry point was called.
func (r *Runtime) Calls(name string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls[name]
}
