package entities

import "fmt"

// Result is the status code returned across every entry point of the chain.
// Values follow the OpenXR numbering: zero and positive values are successes,
// negative values are errors.
type Result int32

const (
	Success                    Result = 0
	EventUnavailable           Result = 4
	ErrorValidationFailure     Result = -1
	ErrorRuntimeFailure        Result = -2
	ErrorOutOfMemory           Result = -3
	ErrorAPIVersionUnsupported Result = -4
	ErrorInitializationFailed  Result = -6
	ErrorFunctionUnsupported   Result = -7
	ErrorFeatureUnsupported    Result = -8
	ErrorExtensionNotPresent   Result = -9
	ErrorHandleInvalid         Result = -12
	ErrorInstanceLost          Result = -13
	ErrorLayerInvalid          Result = -23
	ErrorLayerLimitExceeded    Result = -24
	ErrorTimeInvalid           Result = -30
)

var resultNames = map[Result]string{
	Success:                    "XR_SUCCESS",
	EventUnavailable:           "XR_EVENT_UNAVAILABLE",
	ErrorValidationFailure:     "XR_ERROR_VALIDATION_FAILURE",
	ErrorRuntimeFailure:        "XR_ERROR_RUNTIME_FAILURE",
	ErrorOutOfMemory:           "XR_ERROR_OUT_OF_MEMORY",
	ErrorAPIVersionUnsupported: "XR_ERROR_API_VERSION_UNSUPPORTED",
	ErrorInitializationFailed:  "XR_ERROR_INITIALIZATION_FAILED",
	ErrorFunctionUnsupported:   "XR_ERROR_FUNCTION_UNSUPPORTED",
	ErrorFeatureUnsupported:    "XR_ERROR_FEATURE_UNSUPPORTED",
	ErrorExtensionNotPresent:   "XR_ERROR_EXTENSION_NOT_PRESENT",
	ErrorHandleInvalid:         "XR_ERROR_HANDLE_INVALID",
	ErrorInstanceLost:          "XR_ERROR_INSTANCE_LOST",
	ErrorLayerInvalid:          "XR_ERROR_LAYER_INVALID",
	ErrorLayerLimitExceeded:    "XR_ERROR_LAYER_LIMIT_EXCEEDED",
	ErrorTimeInvalid:           "XR_ERROR_TIME_INVALID",
}

// Succeeded reports whether r is a success code.
func (r Result) Succeeded() bool {
	return r >= 0
}

// Failed reports whether r is an error code.
func (r Result) Failed() bool {
	return r < 0
}

// String returns the symbolic name of the code, or its numeric form if unknown.
func (r Result) String() string {
	if name, ok := resultNames[r]; ok {
		return name
	}
	if r.Succeeded() {
		return fmt.Sprintf("XR_UNKNOWN_SUCCESS_%d", int32(r))
	}
	return fmt.Sprintf("XR_UNKNOWN_FAILURE_%d", int32(r))
}
