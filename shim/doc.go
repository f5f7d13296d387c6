// Package shim holds the registry of entry points this layer implements locally.
//
// A Registry is built once per chain instance from bundles of entries. Entries
// gated on an extension are only registered when that extension was accepted
// for the instance. Middleware wraps every registered entry point regardless of
// its signature.
package shim
