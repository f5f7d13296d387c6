// Package schema provides JSON schema generation for layer configuration.
package schema

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
	"github.com/reglet-dev/xrlayer/domain/entities"
)

// LayerConfigID is the schema identifier used when compiling the layer schema.
const LayerConfigID = "https://reglet.dev/schemas/xrlayer/layer-config.json"

// LayerConfigSchema returns the schema a layer configuration document must
// satisfy. Only fields tagged `jsonschema:"required"` are required, since
// the parser fills every other field from the defaults, and unknown keys are
// rejected.
func LayerConfigSchema() ([]byte, error) {
	reflector := jsonschema.Reflector{
		ExpandedStruct:             true,
		RequiredFromJSONSchemaTags: true,
	}
	s := reflector.Reflect(&entities.LayerConfig{})
	s.ID = jsonschema.ID(LayerConfigID)
	s.Title = "API layer configuration"
	return marshal(s)
}

func marshal(s *jsonschema.Schema) ([]byte, error) {
	jsonBytes, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schema: %w", err)
	}
	return jsonBytes, nil
}
