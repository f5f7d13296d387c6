package ports

import "github.com/reglet-dev/xrlayer/domain/entities"

// Resolver looks up entry points by name, the way a GetInstanceProcAddr does.
type Resolver interface {
	// Resolve returns the entry point for name, or a failure Result.
	Resolve(instance entities.Instance, name string) (entities.VoidFunction, entities.Result)
}

// ResolverFunc adapts a GetInstanceProcAddrFunc to Resolver.
type ResolverFunc entities.GetInstanceProcAddrFunc

// Resolve implements Resolver.
func (f ResolverFunc) Resolve(instance entities.Instance, name string) (entities.VoidFunction, entities.Result) {
	return f(instance, name)
}

// Upstream gives a shim access to the next layer's implementation of a name
// this layer intercepts. Implementations resolve on first use and cache.
type Upstream interface {
	// Next returns the next layer's entry point for a shimmed name.
	Next(name string) (entities.VoidFunction, error)
}
