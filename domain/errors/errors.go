// Package errors provides the layer's error taxonomy.
// Every error type maps to the ABI status code the host receives through
// ResultOf, and all of them support errors.Is and errors.As.
package errors

import (
	stdErrors "errors"
	"fmt"

	"github.com/reglet-dev/xrlayer/domain/entities"
)

// ErrNoLiveContext is returned when a lookup needs the Dispatch Context and
// none exists: before bootstrap, or after the instance was destroyed.
var ErrNoLiveContext = stdErrors.New("no live dispatch context")

// ResultError is implemented by errors that know which status code the host
// should see.
type ResultError interface {
	error
	Result() entities.Result
}

// ResultOf converts an error to the status code returned at the ABI boundary.
// Unknown errors map to ErrorRuntimeFailure.
func ResultOf(err error) entities.Result {
	if err == nil {
		return entities.Success
	}

	var re ResultError
	if stdErrors.As(err, &re) {
		return re.Result()
	}

	if stdErrors.Is(err, ErrNoLiveContext) {
		return entities.ErrorInitializationFailed
	}

	return entities.ErrorRuntimeFailure
}

// NegotiationError reports a loader negotiation record that this layer cannot accept.
type NegotiationError struct {
	Field  string
	Reason string
}

func (e *NegotiationError) Error() string {
	return fmt.Sprintf("negotiation rejected: %s: %s", e.Field, e.Reason)
}

// Result implements ResultError.
func (e *NegotiationError) Result() entities.Result {
	return entities.ErrorInitializationFailed
}

// LinkageError reports an unusable chain-linkage record at instance creation.
type LinkageError struct {
	Field  string
	Reason string
}

func (e *LinkageError) Error() string {
	return fmt.Sprintf("chain linkage rejected: %s: %s", e.Field, e.Reason)
}

// Result implements ResultError.
func (e *LinkageError) Result() entities.Result {
	return entities.ErrorInitializationFailed
}

// DuplicateContextError reports a bootstrap attempted while a Dispatch Context is live.
// It means the host broke the lifecycle protocol.
type DuplicateContextError struct {
	Live entities.Instance
}

func (e *DuplicateContextError) Error() string {
	if e.Live != entities.NullInstance {
		return fmt.Sprintf("dispatch context already live for instance %#x", uint64(e.Live))
	}
	return "dispatch context already live"
}

// Result implements ResultError.
func (e *DuplicateContextError) Result() entities.Result {
	return entities.ErrorInitializationFailed
}

// MissingUpstreamError reports that the next layer has no implementation of a shimmed name.
type MissingUpstreamError struct {
	Name   string
	Status entities.Result
}

func (e *MissingUpstreamError) Error() string {
	if e.Status.Failed() {
		return fmt.Sprintf("next layer does not provide %s: %s", e.Name, e.Status)
	}
	return fmt.Sprintf("next layer does not provide %s", e.Name)
}

// Result implements ResultError.
func (e *MissingUpstreamError) Result() entities.Result {
	return entities.ErrorFunctionUnsupported
}

// UnknownShimError reports an upstream lookup for a name this layer never registered.
type UnknownShimError struct {
	Name string
}

func (e *UnknownShimError) Error() string {
	return fmt.Sprintf("no shim registered for %s", e.Name)
}

// Result implements ResultError.
func (e *UnknownShimError) Result() entities.Result {
	return entities.ErrorFunctionUnsupported
}

// DownstreamCreateError reports that the next link failed to create its instance.
// The host sees ErrorLayerInvalid regardless of the code returned below.
type DownstreamCreateError struct {
	Status entities.Result
}

func (e *DownstreamCreateError) Error() string {
	return fmt.Sprintf("next layer failed to create instance: %s", e.Status)
}

// Result implements ResultError.
func (e *DownstreamCreateError) Result() entities.Result {
	return entities.ErrorLayerInvalid
}

// RegistrationError reports an invalid shim registration.
type RegistrationError struct {
	Err  error
	Name string
}

func (e *RegistrationError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("shim %q: %v", e.Name, e.Err)
	}
	return fmt.Sprintf("shim registration: %v", e.Err)
}

func (e *RegistrationError) Unwrap() error {
	return e.Err
}

// Result implements ResultError.
func (e *RegistrationError) Result() entities.Result {
	return entities.ErrorInitializationFailed
}

// ConfigError represents a configuration validation error.
type ConfigError struct {
	Err   error
	Field string
}

func (e *ConfigError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("config validation failed for field '%s': %v", e.Field, e.Err)
	}
	return fmt.Sprintf("config validation failed: %v", e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// Result implements ResultError.
func (e *ConfigError) Result() entities.Result {
	return entities.ErrorInitializationFailed
}
