// Package ports defines the interfaces the layer depends on.
// These ports enable dependency inversion - the dispatch engine depends on
// abstractions, and the loader, runtime, config and metrics adapters
// implement these interfaces.
package ports
