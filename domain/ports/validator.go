package ports

import "github.com/reglet-dev/xrlayer/domain/entities"

// ConfigValidator validates layer configuration documents.
type ConfigValidator interface {
	// ValidateDocument checks a raw document against the configuration schema.
	ValidateDocument(data []byte) (*entities.ValidationResult, error)

	// ValidateConfig checks a decoded configuration's field constraints.
	ValidateConfig(cfg *entities.LayerConfig) (*entities.ValidationResult, error)
}
