// Package dispatch implements the per-chain-instance Dispatch Context: the
// table mapping every shimmed name to this layer's implementation and to the
// next layer's implementation, and the resolver used for every other name.
//
// At most one Context is live per Slot. A Slot is created once by whoever
// owns the layer and injected where needed; Acquire and Release are the only
// way a Context comes into or goes out of existence.
//
// # Lifecycle
//
//	slot := dispatch.NewSlot()
//	ctx, err := slot.Acquire(nextResolver, registry)   // fails if one is live
//	instance, res := createBelow(...)
//	ctx.LoadDispatchTable(instance)                    // eager upstream resolution
//	fn, res := ctx.Resolve(instance, "xrEndFrame")     // local shim
//	slot.Release(ctx)                                  // lookups now fail
//
// # Thread Safety
//
// Slot and Context are safe for concurrent use. After LoadDispatchTable the
// table only changes when a shim lazily resolves an entry that was missing.
package dispatch
