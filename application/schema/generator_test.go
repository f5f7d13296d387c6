package schema

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeSchema(t *testing.T) map[string]interface{} {
	t.Helper()
	data, err := LayerConfigSchema()
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))
	return decoded
}

func property(t *testing.T, obj map[string]interface{}, name string) map[string]interface{} {
	t.Helper()
	properties, ok := obj["properties"].(map[string]interface{})
	require.True(t, ok, "properties should be a map")
	prop, ok := properties[name].(map[string]interface{})
	require.True(t, ok, "property %q should be an object", name)
	return prop
}

func TestLayerConfigSchema(t *testing.T) {
	decoded := decodeSchema(t)

	assert.Equal(t, LayerConfigID, decoded["$id"])
	assert.Equal(t, "API layer configuration", decoded["title"])
	assert.Equal(t, false, decoded["additionalProperties"])

	properties, ok := decoded["properties"].(map[string]interface{})
	require.True(t, ok, "properties should be a map")
	for _, key := range []string{"name", "instance_extensions", "filter_extensions", "disabled_shims", "log_level"} {
		assert.Contains(t, properties, key)
	}

	required, ok := decoded["required"].([]interface{})
	require.True(t, ok, "required should be an array")
	assert.Equal(t, []interface{}{"name"}, required)
}

func TestLayerConfigSchema_FieldConstraints(t *testing.T) {
	decoded := decodeSchema(t)

	name := property(t, decoded, "name")
	assert.Equal(t, "string", name["type"])
	assert.EqualValues(t, 1, name["minLength"])
	assert.EqualValues(t, 255, name["maxLength"])

	level := property(t, decoded, "log_level")
	assert.Equal(t, []interface{}{"debug", "info", "warn", "error"}, level["enum"])

	assert.Equal(t, "boolean", property(t, decoded, "filter_extensions")["type"])
	assert.Equal(t, "array", property(t, decoded, "disabled_shims")["type"])
}

func TestLayerConfigSchema_ExtensionItems(t *testing.T) {
	decoded := decodeSchema(t)

	exts := property(t, decoded, "instance_extensions")
	assert.Equal(t, "array", exts["type"])

	items, ok := exts["items"].(map[string]interface{})
	require.True(t, ok, "items should be an object")

	// Nested structs are emitted as references into $defs.
	ref, ok := items["$ref"].(string)
	require.True(t, ok, "items should reference a definition")
	assert.Equal(t, "#/$defs/ExtensionConfig", ref)

	defs, ok := decoded["$defs"].(map[string]interface{})
	require.True(t, ok, "$defs should be a map")
	ext, ok := defs["ExtensionConfig"].(map[string]interface{})
	require.True(t, ok)

	assert.Equal(t, []interface{}{"name"}, ext["required"])
	assert.EqualValues(t, 127, property(t, ext, "name")["maxLength"])
	assert.EqualValues(t, 1, property(t, ext, "extension_version")["minimum"])
}
