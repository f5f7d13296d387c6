package layer

import (
	"github.com/reglet-dev/xrlayer/dispatch"
	"github.com/reglet-dev/xrlayer/domain/entities"
	domainerrors "github.com/reglet-dev/xrlayer/domain/errors"
	"github.com/reglet-dev/xrlayer/domain/ports"
	"github.com/reglet-dev/xrlayer/extension"
)

// CreateAPILayerInstance links the layer into a new chain instance:
//
//  1. validate the chain-linkage record,
//  2. advance the record past this layer,
//  3. accept the requested extensions this layer implements and, when
//     filtering is enabled, stop passing them further down,
//  4. build the shim registry and acquire the dispatch context,
//  5. create the instance through the next layer,
//  6. resolve the next layer's implementation of every shimmed name.
//
// A linkage problem or a live dispatch context fails with
// ErrorInitializationFailed and changes nothing. A failure below this layer
// releases the dispatch context and fails with ErrorLayerInvalid.
// info is never modified.
func (l *Layer) CreateAPILayerInstance(info *entities.InstanceCreateInfo, layerInfo *entities.APILayerCreateInfo) (entities.Instance, entities.Result) {
	if err := l.checkLinkage(layerInfo); err != nil {
		l.logger.Warn("chain linkage rejected", "error", err)
		return entities.NullInstance, domainerrors.ResultOf(err)
	}
	if info == nil {
		l.logger.Warn("instance create info is nil")
		return entities.NullInstance, entities.ErrorValidationFailure
	}

	next := layerInfo.NextInfo
	down := layerInfo.Advance()

	outgoing := info.Clone()
	accepted, passthrough := extension.Partition(info.EnabledExtensionNames, l.cfg.ExtensionNames())
	if l.cfg.FilterExtensions {
		outgoing.EnabledExtensionNames = passthrough
	}

	registry, err := l.buildRegistry(accepted)
	if err != nil {
		l.logger.Error("shim registry invalid", "error", err)
		return entities.NullInstance, domainerrors.ResultOf(err)
	}

	ctx, err := l.slot.Acquire(
		ports.ResolverFunc(next.NextGetInstanceProcAddr),
		registry,
		dispatch.WithExtensions(accepted),
		dispatch.WithLogger(l.logger),
		dispatch.WithObserver(l.observer),
	)
	if err != nil {
		l.logger.Error("instance bootstrap refused", "error", err)
		return entities.NullInstance, domainerrors.ResultOf(err)
	}

	instance, res := next.NextCreateAPILayerInstance(outgoing, down)
	if res.Failed() {
		l.slot.Release(ctx)
		err := &domainerrors.DownstreamCreateError{Status: res}
		l.logger.Error("instance creation failed below layer", "error", err)
		return entities.NullInstance, domainerrors.ResultOf(err)
	}

	missing := ctx.LoadDispatchTable(instance)
	l.logger.Info("instance created",
		"instance", uint64(instance),
		"extensions", accepted.Names(),
		"shims", registry.Names(),
		"skipped", registry.Skipped(),
		"unresolved", missing,
	)
	return instance, res
}
