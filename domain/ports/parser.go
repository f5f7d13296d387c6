package ports

import "github.com/reglet-dev/xrlayer/domain/entities"

// ConfigParser parses raw configuration bytes into a LayerConfig.
type ConfigParser interface {
	// Parse unmarshals the raw document.
	Parse(data []byte) (*entities.LayerConfig, error)
}
