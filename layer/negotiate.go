package layer

import (
	"fmt"

	"github.com/reglet-dev/xrlayer/domain/entities"
	domainerrors "github.com/reglet-dev/xrlayer/domain/errors"
)

// Negotiate is the loader handshake. It checks that both records carry the
// exact compiled tag, version and size, that the loader's interface and API
// windows include what this layer implements, and that layerName is this
// layer's name. On success it fills request with the implemented versions
// and the two bootstrap entry points; on failure request is left untouched
// and ErrorInitializationFailed is returned.
func (l *Layer) Negotiate(loaderInfo *entities.LoaderInfo, layerName string, request *entities.APILayerRequest) entities.Result {
	if err := l.checkNegotiation(loaderInfo, layerName, request); err != nil {
		l.logger.Debug("negotiation rejected", "error", err)
		return domainerrors.ResultOf(err)
	}

	request.LayerInterfaceVersion = entities.CurrentLoaderAPILayerVersion
	request.LayerAPIVersion = entities.CurrentAPIVersion
	request.GetInstanceProcAddr = l.GetInstanceProcAddr
	request.CreateAPILayerInstance = l.CreateAPILayerInstance
	return entities.Success
}

// NegotiateFunc returns Negotiate as the typed loader entry point.
func (l *Layer) NegotiateFunc() entities.NegotiateLoaderAPILayerInterfaceFunc {
	return l.Negotiate
}

func (l *Layer) checkNegotiation(info *entities.LoaderInfo, layerName string, req *entities.APILayerRequest) error {
	if info == nil {
		return reject("loader_info", "record is nil")
	}
	if req == nil {
		return reject("api_layer_request", "record is nil")
	}
	if err := exactHeader("loader_info", info.Header,
		entities.StructureTypeLoaderInfo, entities.LoaderInfoStructVersion, entities.LoaderInfoSize); err != nil {
		return err
	}
	if err := exactHeader("api_layer_request", req.Header,
		entities.StructureTypeAPILayerRequest, entities.APILayerInfoStructVersion, entities.APILayerRequestSize); err != nil {
		return err
	}

	iv := entities.CurrentLoaderAPILayerVersion
	if info.MinInterfaceVersion > iv || info.MaxInterfaceVersion < iv {
		return reject("interface_version",
			fmt.Sprintf("window [%d, %d] does not include %d", info.MinInterfaceVersion, info.MaxInterfaceVersion, iv))
	}
	av := entities.CurrentAPIVersion
	if info.MinAPIVersion > av || info.MaxAPIVersion < av {
		return reject("api_version",
			fmt.Sprintf("window [%s, %s] does not include %s", info.MinAPIVersion, info.MaxAPIVersion, av))
	}

	if layerName != l.cfg.Name {
		return reject("layer_name", fmt.Sprintf("%q is not %q", layerName, l.cfg.Name))
	}
	return nil
}

func reject(field, reason string) error {
	return &domainerrors.NegotiationError{Field: field, Reason: reason}
}

func exactHeader(field string, h entities.Header, typ entities.StructureType, version uint32, size uint64) error {
	switch {
	case h.Type != typ:
		return reject(field, fmt.Sprintf("structure type %d, want %d", h.Type, typ))
	case h.Version != version:
		return reject(field, fmt.Sprintf("structure version %d, want %d", h.Version, version))
	case h.Size != size:
		return reject(field, fmt.Sprintf("structure size %d, want %d", h.Size, size))
	}
	return nil
}

// checkLinkage validates the chain-linkage record passed to
// CreateAPILayerInstance. Versions and sizes may be larger than compiled.
func (l *Layer) checkLinkage(info *entities.APILayerCreateInfo) error {
	if info == nil {
		return unlinked("api_layer_create_info", "record is nil")
	}
	if err := minimumHeader("api_layer_create_info", info.Header,
		entities.StructureTypeAPILayerCreateInfo, entities.APILayerCreateInfoStructVersion, entities.APILayerCreateInfoSize); err != nil {
		return err
	}

	next := info.NextInfo
	if next == nil {
		return unlinked("next_info", "record is nil")
	}
	if err := minimumHeader("next_info", next.Header,
		entities.StructureTypeAPILayerNextInfo, entities.APILayerNextInfoStructVersion, entities.APILayerNextInfoSize); err != nil {
		return err
	}
	if next.LayerName != l.cfg.Name {
		return unlinked("next_info.layer_name", fmt.Sprintf("%q is not %q", next.LayerName, l.cfg.Name))
	}
	if next.NextGetInstanceProcAddr == nil {
		return unlinked("next_info.next_get_instance_proc_addr", "function is nil")
	}
	if next.NextCreateAPILayerInstance == nil {
		return unlinked("next_info.next_create_api_layer_instance", "function is nil")
	}
	return nil
}

func unlinked(field, reason string) error {
	return &domainerrors.LinkageError{Field: field, Reason: reason}
}

func minimumHeader(field string, h entities.Header, typ entities.StructureType, version uint32, size uint64) error {
	switch {
	case h.Type != typ:
		return unlinked(field, fmt.Sprintf("structure type %d, want %d", h.Type, typ))
	case h.Version < version:
		return unlinked(field, fmt.Sprintf("structure version %d, want at least %d", h.Version, version))
	case h.Size < size:
		return unlinked(field, fmt.Sprintf("structure size %d, want at least %d", h.Size, size))
	}
	return nil
}
