package entities

import (
	"fmt"
	"reflect"
)

// VoidFunction is an opaque entry point handed out by a GetInstanceProcAddr.
// It holds one of the typed function values below; callers recover the typed
// form with FunctionAs.
type VoidFunction any

// GetInstanceProcAddrFunc resolves an entry point by name.
type GetInstanceProcAddrFunc func(instance Instance, name string) (VoidFunction, Result)

// CreateAPILayerInstanceFunc creates the chain instance below a layer.
type CreateAPILayerInstanceFunc func(info *InstanceCreateInfo, layerInfo *APILayerCreateInfo) (Instance, Result)

// NegotiateLoaderAPILayerInterfaceFunc is the handshake every layer library exports.
type NegotiateLoaderAPILayerInterfaceFunc func(loaderInfo *LoaderInfo, layerName string, request *APILayerRequest) Result

// DestroyInstanceFunc tears down a chain instance.
type DestroyInstanceFunc func(instance Instance) Result

// EndFrameFunc submits a frame.
type EndFrameFunc func(session Session, info *FrameEndInfo) Result

// PollEventFunc polls the next event into buffer.
type PollEventFunc func(instance Instance, buffer *EventDataBuffer) Result

// TestMeFunc is the entry point of the XR_TEST_test_me extension.
type TestMeFunc func(session Session) Result

// Entry-point names used by the built-in shims and the simulated runtime.
const (
	FuncGetInstanceProcAddr = "xrGetInstanceProcAddr"
	FuncDestroyInstance     = "xrDestroyInstance"
	FuncEndFrame            = "xrEndFrame"
	FuncPollEvent           = "xrPollEvent"
	FuncTestMe              = "xrTestMeTEST"
)

// FunctionAs converts an opaque entry point to its typed form.
// It fails when fn is nil or holds a different function type.
func FunctionAs[F any](fn VoidFunction) (F, error) {
	var zero F
	if IsNilFunction(fn) {
		return zero, fmt.Errorf("function is nil")
	}
	typed, ok := fn.(F)
	if !ok {
		return zero, fmt.Errorf("function has type %T, want %T", fn, zero)
	}
	return typed, nil
}

// IsNilFunction reports whether fn is nil, including a nil value of a typed
// function such as EndFrameFunc(nil).
func IsNilFunction(fn VoidFunction) bool {
	if fn == nil {
		return true
	}
	v := reflect.ValueOf(fn)
	switch v.Kind() {
	case reflect.Func, reflect.Pointer, reflect.Map, reflect.Slice, reflect.Chan, reflect.Interface, reflect.UnsafePointer:
		return v.IsNil()
	}
	return false
}
