package entities

import "slices"

// ExtensionConfig declares one instance extension implemented by the layer.
type ExtensionConfig struct {
	// Name is the extension name the application requests, compared byte for byte.
	Name string `json:"name" yaml:"name" validate:"required,max=127" jsonschema:"required,minLength=1,maxLength=127"`

	// Version is the extension spec version.
	Version uint32 `json:"extension_version" yaml:"extension_version" validate:"gte=1" jsonschema:"minimum=1"`

	// Entrypoints lists the functions the extension adds. Shims with these
	// names are registered only when the extension is enabled.
	Entrypoints []string `json:"entrypoints,omitempty" yaml:"entrypoints,omitempty" validate:"dive,required"`
}

// LayerConfig describes one API layer: its identity, the extensions it
// implements, and how it behaves at instance creation.
type LayerConfig struct {
	// Name is the layer name the loader must negotiate with, compared byte for byte.
	Name string `json:"name" yaml:"name" validate:"required,max=255" jsonschema:"required,minLength=1,maxLength=255"`

	// Description is informational.
	Description string `json:"description,omitempty" yaml:"description,omitempty"`

	// ImplementationVersion is informational.
	ImplementationVersion uint32 `json:"implementation_version" yaml:"implementation_version"`

	// Extensions are the extensions this layer implements.
	Extensions []ExtensionConfig `json:"instance_extensions,omitempty" yaml:"instance_extensions,omitempty" validate:"dive"`

	// FilterExtensions removes the layer's own extensions from the list passed down the chain.
	FilterExtensions bool `json:"filter_extensions" yaml:"filter_extensions"`

	// DisabledShims holds glob patterns of shim names that are never registered.
	DisabledShims []string `json:"disabled_shims,omitempty" yaml:"disabled_shims,omitempty" validate:"dive,required"`

	// LogLevel is the logging verbosity level (e.g., "debug", "info", "warn", "error").
	// Empty leaves the choice to the host; it means "info" when parsed.
	LogLevel string `json:"log_level,omitempty" yaml:"log_level,omitempty" validate:"omitempty,oneof=debug info warn error" jsonschema:"enum=debug,enum=info,enum=warn,enum=error"`
}

// DefaultLayerName is the layer name used when no configuration is supplied.
const DefaultLayerName = "ExampleLayer"

// TestExtensionName is the demonstration extension implemented by the layer.
const TestExtensionName = "XR_TEST_test_me"

// DefaultLayerConfig returns the default layer configuration: the example layer
// implementing the test extension with filtering enabled.
func DefaultLayerConfig() LayerConfig {
	return LayerConfig{
		Name:                  DefaultLayerName,
		Description:           "Example API layer",
		ImplementationVersion: 1,
		Extensions: []ExtensionConfig{
			{Name: TestExtensionName, Version: 1, Entrypoints: []string{FuncTestMe}},
		},
		FilterExtensions: true,
	}
}

// ExtensionNames returns the declared extension names in declaration order.
func (c LayerConfig) ExtensionNames() []string {
	names := make([]string, 0, len(c.Extensions))
	for _, ext := range c.Extensions {
		names = append(names, ext.Name)
	}
	return names
}

// HasExtensions reports whether the layer declares any extension.
func (c LayerConfig) HasExtensions() bool {
	return len(c.Extensions) > 0
}

// ExtensionFor returns the first declared extension listing fn among its
// entry points.
func (c LayerConfig) ExtensionFor(fn string) (string, bool) {
	for _, ext := range c.Extensions {
		if slices.Contains(ext.Entrypoints, fn) {
			return ext.Name, true
		}
	}
	return "", false
}

// LayerConfigOption is a functional option for configuring a LayerConfig.
type LayerConfigOption func(*LayerConfig)

// WithLayerName sets the layer name.
func WithLayerName(name string) LayerConfigOption {
	return func(c *LayerConfig) {
		c.Name = name
	}
}

// WithExtensions replaces the declared extensions. Filtering is turned on
// when at least one extension is declared and off otherwise; a later
// WithFilterExtensions overrides that.
func WithExtensions(exts ...ExtensionConfig) LayerConfigOption {
	return func(c *LayerConfig) {
		c.Extensions = slices.Clone(exts)
		c.FilterExtensions = c.HasExtensions()
	}
}

// WithFilterExtensions enables or disables extension filtering.
func WithFilterExtensions(enabled bool) LayerConfigOption {
	return func(c *LayerConfig) {
		c.FilterExtensions = enabled
	}
}

// WithDisabledShims adds glob patterns of shims that must not be registered.
func WithDisabledShims(patterns ...string) LayerConfigOption {
	return func(c *LayerConfig) {
		c.DisabledShims = append(c.DisabledShims, patterns...)
	}
}

// WithLogLevel sets the logging verbosity level.
func WithLogLevel(level string) LayerConfigOption {
	return func(c *LayerConfig) {
		c.LogLevel = level
	}
}

// NewLayerConfig creates a LayerConfig from the defaults and the given options.
func NewLayerConfig(opts ...LayerConfigOption) LayerConfig {
	cfg := DefaultLayerConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}
