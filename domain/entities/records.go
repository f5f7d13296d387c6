package entities

// StructureType tags every loader record.
type StructureType uint32

const (
	StructureTypeUninitialized      StructureType = 0
	StructureTypeLoaderInfo         StructureType = 1
	StructureTypeAPILayerRequest    StructureType = 2
	StructureTypeRuntimeRequest     StructureType = 3
	StructureTypeAPILayerCreateInfo StructureType = 4
	StructureTypeAPILayerNextInfo   StructureType = 5
)

// Compiled record versions.
const (
	LoaderInfoStructVersion         uint32 = 1
	APILayerInfoStructVersion       uint32 = 1
	APILayerCreateInfoStructVersion uint32 = 1
	APILayerNextInfoStructVersion   uint32 = 1
)

// Compiled record sizes, matching the C layout on 64-bit targets.
// Negotiation records must match exactly; creation records may be larger.
const (
	LoaderInfoSize         uint64 = 40
	APILayerRequestSize    uint64 = 48
	APILayerCreateInfoSize uint64 = 552
	APILayerNextInfoSize   uint64 = 296
)

// MaxAPILayerNameSize bounds layer names on the wire, terminator included.
const MaxAPILayerNameSize = 256

// Header is the tag shared by all loader records.
type Header struct {
	Type    StructureType
	Version uint32
	Size    uint64
}

// LoaderInfo is what the loader offers during negotiation.
type LoaderInfo struct {
	Header
	MinInterfaceVersion uint32
	MaxInterfaceVersion uint32
	MinAPIVersion       Version
	MaxAPIVersion       Version
}

// NewLoaderInfo returns a LoaderInfo with a valid header and the given windows.
func NewLoaderInfo(minInterface, maxInterface uint32, minAPI, maxAPI Version) *LoaderInfo {
	return &LoaderInfo{
		Header:              Header{Type: StructureTypeLoaderInfo, Version: LoaderInfoStructVersion, Size: LoaderInfoSize},
		MinInterfaceVersion: minInterface,
		MaxInterfaceVersion: maxInterface,
		MinAPIVersion:       minAPI,
		MaxAPIVersion:       maxAPI,
	}
}

// APILayerRequest is filled in by the layer when negotiation succeeds.
type APILayerRequest struct {
	Header
	LayerInterfaceVersion  uint32
	LayerAPIVersion        Version
	GetInstanceProcAddr    GetInstanceProcAddrFunc
	CreateAPILayerInstance CreateAPILayerInstanceFunc
}

// NewAPILayerRequest returns an empty request with a valid header.
func NewAPILayerRequest() *APILayerRequest {
	return &APILayerRequest{
		Header: Header{Type: StructureTypeAPILayerRequest, Version: APILayerInfoStructVersion, Size: APILayerRequestSize},
	}
}

// APILayerNextInfo is one link of the chain as seen by the layer above it.
type APILayerNextInfo struct {
	Header
	LayerName                  string
	NextGetInstanceProcAddr    GetInstanceProcAddrFunc
	NextCreateAPILayerInstance CreateAPILayerInstanceFunc
	Next                       *APILayerNextInfo
}

// NewAPILayerNextInfo returns a link with a valid header.
func NewAPILayerNextInfo(name string, gipa GetInstanceProcAddrFunc, create CreateAPILayerInstanceFunc, next *APILayerNextInfo) *APILayerNextInfo {
	return &APILayerNextInfo{
		Header:                     Header{Type: StructureTypeAPILayerNextInfo, Version: APILayerNextInfoStructVersion, Size: APILayerNextInfoSize},
		LayerName:                  name,
		NextGetInstanceProcAddr:    gipa,
		NextCreateAPILayerInstance: create,
		Next:                       next,
	}
}

// APILayerCreateInfo is the chain-linkage record passed to CreateAPILayerInstance.
type APILayerCreateInfo struct {
	Header
	LoaderInstance       any
	SettingsFileLocation string
	NextInfo             *APILayerNextInfo
}

// NewAPILayerCreateInfo returns a chain-linkage record with a valid header.
func NewAPILayerCreateInfo(next *APILayerNextInfo) *APILayerCreateInfo {
	return &APILayerCreateInfo{
		Header:   Header{Type: StructureTypeAPILayerCreateInfo, Version: APILayerCreateInfoStructVersion, Size: APILayerCreateInfoSize},
		NextInfo: next,
	}
}

// Advance returns a shallow copy of the record whose NextInfo skips the first link.
// The receiver is not modified.
func (c *APILayerCreateInfo) Advance() *APILayerCreateInfo {
	advanced := *c
	if c.NextInfo != nil {
		advanced.NextInfo = c.NextInfo.Next
	}
	return &advanced
}
