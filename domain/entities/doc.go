// Package entities provides the core domain types of the layer: result codes,
// versions, handles, the tagged loader records exchanged with the host loader,
// and the typed entry-point function signatures that flow through the chain.
//
// These types mirror the fixed loader ABI. Out-parameters of the C interface are
// returned as values, and opaque function pointers are carried as VoidFunction.
package entities
