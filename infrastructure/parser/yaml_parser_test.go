package parser

import (
	"testing"

	"github.com/reglet-dev/xrlayer/domain/entities"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestYamlConfigParser_Parse(t *testing.T) {
	doc := `
name: ValidationLayer
description: checks frame timing
implementation_version: 3
instance_extensions:
  - name: XR_TEST_test_me
    extension_version: 2
    entrypoints: [xrTestMeTEST]
  - name: XR_EXT_other
    extension_version: 1
filter_extensions: false
disabled_shims:
  - "xrPoll*"
log_level: debug
`
	cfg, err := NewYamlConfigParser().Parse([]byte(doc))
	require.NoError(t, err)

	assert.Equal(t, "ValidationLayer", cfg.Name)
	assert.Equal(t, "checks frame timing", cfg.Description)
	assert.Equal(t, uint32(3), cfg.ImplementationVersion)
	assert.Equal(t, []string{"XR_TEST_test_me", "XR_EXT_other"}, cfg.ExtensionNames())
	assert.Equal(t, uint32(2), cfg.Extensions[0].Version)
	assert.Equal(t, []string{"xrTestMeTEST"}, cfg.Extensions[0].Entrypoints)
	assert.False(t, cfg.FilterExtensions)
	assert.Equal(t, []string{"xrPoll*"}, cfg.DisabledShims)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestYamlConfigParser_Defaults(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"empty", ""},
		{"comment only", "# nothing here\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := NewYamlConfigParser().Parse([]byte(tt.doc))
			require.NoError(t, err)
			assert.Equal(t, entities.DefaultLayerConfig(), *cfg)
		})
	}
}

func TestYamlConfigParser_PartialKeepsDefaults(t *testing.T) {
	cfg, err := NewYamlConfigParser().Parse([]byte("log_level: warn\n"))
	require.NoError(t, err)

	assert.Equal(t, entities.DefaultLayerName, cfg.Name)
	assert.True(t, cfg.FilterExtensions)
	assert.Equal(t, []string{entities.TestExtensionName}, cfg.ExtensionNames())
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestYamlConfigParser_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"unknown key", "nmae: typo\n"},
		{"wrong type", "filter_extensions: [1, 2]\n"},
		{"malformed", "name: [unclosed\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewYamlConfigParser().Parse([]byte(tt.doc))
			assert.Error(t, err)
		})
	}
}
