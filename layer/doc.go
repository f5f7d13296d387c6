// Package layer implements the API layer's three fixed entry points: the
// negotiation handshake the loader calls first, the instance bootstrap that
// links the layer into a chain, and the name resolution served for the
// lifetime of the chain instance. It also holds the layer's own shims.
//
// A Layer is built once per loaded library:
//
//	l := layer.New(entities.DefaultLayerConfig(), layer.WithLogger(logger))
//	req := entities.NewAPILayerRequest()
//	if res := l.Negotiate(loaderInfo, "ExampleLayer", req); res.Failed() {
//		return res
//	}
//	// the loader now calls req.CreateAPILayerInstance and req.GetInstanceProcAddr
//
// Every entry point reports failure through an entities.Result; none panics
// on host misuse.
package layer
