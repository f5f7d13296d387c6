// Package parser decodes layer configuration documents.
package parser

import (
	"bytes"
	"errors"
	"io"

	"github.com/reglet-dev/xrlayer/domain/entities"
	"github.com/reglet-dev/xrlayer/domain/ports"
	"gopkg.in/yaml.v3"
)

// YamlConfigParser implements ConfigParser for YAML.
type YamlConfigParser struct{}

// NewYamlConfigParser creates a new YamlConfigParser.
func NewYamlConfigParser() ports.ConfigParser {
	return &YamlConfigParser{}
}

// Parse decodes YAML bytes over the default configuration, so keys the
// document omits keep their default values. Unknown keys are rejected.
// An empty document yields the defaults.
func (p *YamlConfigParser) Parse(data []byte) (*entities.LayerConfig, error) {
	cfg := entities.DefaultLayerConfig()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return &cfg, nil
}
