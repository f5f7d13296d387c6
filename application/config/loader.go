// Package config loads, validates and interprets layer configuration.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/reglet-dev/xrlayer/application/validation"
	"github.com/reglet-dev/xrlayer/domain/entities"
	"github.com/reglet-dev/xrlayer/domain/errors"
	"github.com/reglet-dev/xrlayer/domain/ports"
	"github.com/reglet-dev/xrlayer/infrastructure/parser"
)

// Loader turns configuration documents into validated LayerConfigs.
type Loader struct {
	parser    ports.ConfigParser
	validator ports.ConfigValidator
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithParser overrides the document parser.
func WithParser(p ports.ConfigParser) LoaderOption {
	return func(l *Loader) {
		l.parser = p
	}
}

// WithValidator overrides the validator.
func WithValidator(v ports.ConfigValidator) LoaderOption {
	return func(l *Loader) {
		l.validator = v
	}
}

// NewLoader creates a Loader using the YAML parser and the schema validator.
func NewLoader(opts ...LoaderOption) *Loader {
	l := &Loader{
		parser:    parser.NewYamlConfigParser(),
		validator: validation.NewConfigValidator(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load reads and loads the file at path.
func (l *Loader) Load(path string) (*entities.LayerConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &errors.ConfigError{Err: fmt.Errorf("read config: %w", err)}
	}
	return l.LoadBytes(data)
}

// LoadBytes validates the raw document, decodes it over the defaults and
// validates the result. Any failure is a *errors.ConfigError.
func (l *Loader) LoadBytes(data []byte) (*entities.LayerConfig, error) {
	if len(strings.TrimSpace(string(data))) > 0 {
		res, err := l.validator.ValidateDocument(data)
		if err != nil {
			return nil, &errors.ConfigError{Err: err}
		}
		if err := resultError(res); err != nil {
			return nil, err
		}
	}

	cfg, err := l.parser.Parse(data)
	if err != nil {
		return nil, &errors.ConfigError{Err: err}
	}

	res, err := l.validator.ValidateConfig(cfg)
	if err != nil {
		return nil, &errors.ConfigError{Err: err}
	}
	if err := resultError(res); err != nil {
		return nil, err
	}
	return cfg, nil
}

func resultError(res *entities.ValidationResult) error {
	if res == nil || res.Valid {
		return nil
	}
	msgs := make([]string, 0, len(res.Errors))
	for _, e := range res.Errors {
		if e.Field != "" {
			msgs = append(msgs, e.Field+": "+e.Message)
		} else {
			msgs = append(msgs, e.Message)
		}
	}
	field := ""
	if len(res.Errors) > 0 {
		field = res.Errors[0].Field
	}
	return &errors.ConfigError{
		Field: field,
		Err:   fmt.Errorf("invalid configuration: %s", strings.Join(msgs, "; ")),
	}
}

// ShimFilter returns a predicate reporting whether a shim name matches one of
// the configured disabled patterns. Patterns use doublestar glob syntax.
func ShimFilter(cfg *entities.LayerConfig) func(name string) bool {
	if cfg == nil || len(cfg.DisabledShims) == 0 {
		return func(string) bool { return false }
	}
	patterns := append([]string(nil), cfg.DisabledShims...)
	return func(name string) bool {
		for _, pattern := range patterns {
			if matched, _ := doublestar.Match(pattern, name); matched {
				return true
			}
		}
		return false
	}
}
