package shim

import (
	"fmt"
	"log/slog"
	"reflect"
	"time"

	"github.com/reglet-dev/xrlayer/domain/entities"
	"github.com/reglet-dev/xrlayer/domain/ports"
)

// Middleware wraps a registered entry point to add cross-cutting behavior.
// It receives the entry name and the typed function, and must return a
// function of the same type. Middleware executes in FIFO order (first
// registered wraps first, onion model).
//
// Example usage:
//
//	tracing := func(name string, next entities.VoidFunction) entities.VoidFunction {
//	    return Around(next, func(call func() []reflect.Value) []reflect.Value {
//	        log.Printf("calling %s", name)
//	        return call()
//	    })
//	}
type Middleware func(name string, next entities.VoidFunction) entities.VoidFunction

var resultType = reflect.TypeOf(entities.Result(0))

// Around returns a function of the same type as fn that runs around for every
// call. around must invoke call to reach fn and return its outputs.
// Values that are not non-nil funcs are returned unchanged.
func Around(fn entities.VoidFunction, around func(call func() []reflect.Value) []reflect.Value) entities.VoidFunction {
	v := reflect.ValueOf(fn)
	if v.Kind() != reflect.Func || v.IsNil() {
		return fn
	}
	variadic := v.Type().IsVariadic()
	return reflect.MakeFunc(v.Type(), func(args []reflect.Value) []reflect.Value {
		return around(func() []reflect.Value {
			if variadic {
				return v.CallSlice(args)
			}
			return v.Call(args)
		})
	}).Interface()
}

// returnsResult reports whether a function type's last output is a Result.
func returnsResult(t reflect.Type) bool {
	return t.NumOut() > 0 && t.Out(t.NumOut()-1) == resultType
}

// resultOf extracts the trailing Result from call outputs.
func resultOf(out []reflect.Value) (entities.Result, bool) {
	if len(out) == 0 {
		return 0, false
	}
	last := out[len(out)-1]
	if last.Type() != resultType {
		return 0, false
	}
	return last.Interface().(entities.Result), true
}

// ObserverMiddleware reports every call's duration and Result to obs.
// Calls of functions without a trailing Result are reported as Success.
func ObserverMiddleware(obs ports.Observer) Middleware {
	return func(name string, next entities.VoidFunction) entities.VoidFunction {
		return Around(next, func(call func() []reflect.Value) []reflect.Value {
			start := time.Now()
			out := call()
			res, _ := resultOf(out)
			obs.ObserveInvocation(name, time.Since(start), res)
			return out
		})
	}
}

// RecoveryMiddleware catches panics raised inside an entry point and returns
// ErrorRuntimeFailure instead of unwinding into the host. Only functions whose
// last output is a Result are wrapped; others are returned unchanged.
func RecoveryMiddleware(logger *slog.Logger) Middleware {
	if logger == nil {
		logger = slog.Default()
	}
	return func(name string, next entities.VoidFunction) entities.VoidFunction {
		v := reflect.ValueOf(next)
		if v.Kind() != reflect.Func || v.IsNil() || !returnsResult(v.Type()) {
			return next
		}
		t := v.Type()
		return Around(next, func(call func() []reflect.Value) (out []reflect.Value) {
			defer func() {
				if r := recover(); r != nil {
					logger.Error("shim panicked", "function", name, "panic", fmt.Sprint(r))
					out = make([]reflect.Value, t.NumOut())
					for i := range out {
						out[i] = reflect.Zero(t.Out(i))
					}
					out[len(out)-1] = reflect.ValueOf(entities.ErrorRuntimeFailure)
				}
			}()
			return call()
		})
	}
}

// LoggingMiddleware logs every invocation and its Result at debug level.
func LoggingMiddleware(logger *slog.Logger) Middleware {
	if logger == nil {
		logger = slog.Default()
	}
	return func(name string, next entities.VoidFunction) entities.VoidFunction {
		return Around(next, func(call func() []reflect.Value) []reflect.Value {
			out := call()
			if res, ok := resultOf(out); ok {
				logger.Debug("shim invoked", "function", name, "result", res.String())
			} else {
				logger.Debug("shim invoked", "function", name)
			}
			return out
		})
	}
}
