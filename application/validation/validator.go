// Package validation checks layer configuration against its JSON schema and
// its field constraints.
package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/go-playground/validator/v10"
	"github.com/reglet-dev/xrlayer/application/schema"
	"github.com/reglet-dev/xrlayer/domain/entities"
	"github.com/reglet-dev/xrlayer/domain/ports"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

// validate is a package-level singleton; building a validator caches struct
// metadata, so it is created once.
var validate = newStructValidator()

func newStructValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ConfigValidator implements ports.ConfigValidator.
type ConfigValidator struct {
	once   sync.Once
	schema *jsonschema.Schema
	err    error
}

// NewConfigValidator creates a new validator. The schema is compiled on first use.
func NewConfigValidator() ports.ConfigValidator {
	return &ConfigValidator{}
}

func (v *ConfigValidator) compiled() (*jsonschema.Schema, error) {
	v.once.Do(func() {
		doc, err := schema.LayerConfigSchema()
		if err != nil {
			v.err = err
			return
		}
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource(schema.LayerConfigID, bytes.NewReader(doc)); err != nil {
			v.err = fmt.Errorf("failed to add schema resource: %w", err)
			return
		}
		v.schema, v.err = compiler.Compile(schema.LayerConfigID)
	})
	return v.schema, v.err
}

// ValidateDocument checks a raw YAML or JSON document against the layer
// configuration schema. A malformed document is reported as an error, a
// well-formed document that violates the schema as an invalid result.
func (v *ConfigValidator) ValidateDocument(data []byte) (*entities.ValidationResult, error) {
	sch, err := v.compiled()
	if err != nil {
		return nil, err
	}

	var raw interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode document: %w", err)
	}
	if raw == nil {
		raw = map[string]interface{}{}
	}

	// Round-trip through JSON so numbers and maps take the shapes the
	// schema validator expects.
	b, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare validation object: %w", err)
	}
	var obj interface{}
	if err := json.Unmarshal(b, &obj); err != nil {
		return nil, fmt.Errorf("failed to prepare validation object: %w", err)
	}

	result := &entities.ValidationResult{Valid: true}
	if err := sch.Validate(obj); err != nil {
		result.Valid = false
		var ve *jsonschema.ValidationError
		if !errors.As(err, &ve) {
			result.Errors = append(result.Errors, entities.ValidationError{Message: err.Error()})
			return result, nil
		}
		for _, e := range ve.BasicOutput().Errors {
			if e.Error == "" || strings.HasPrefix(e.Error, "doesn't validate with") {
				continue
			}
			result.Errors = append(result.Errors, entities.ValidationError{
				Field:   fieldFromPointer(e.InstanceLocation),
				Message: e.Error,
			})
		}
		if len(result.Errors) == 0 {
			result.Errors = append(result.Errors, entities.ValidationError{Message: ve.Error()})
		}
	}
	return result, nil
}

// ValidateConfig checks a decoded configuration: struct tag constraints,
// unique extension names and entry points, and well-formed disabled shim
// patterns.
func (v *ConfigValidator) ValidateConfig(cfg *entities.LayerConfig) (*entities.ValidationResult, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	result := &entities.ValidationResult{Valid: true}

	if err := validate.Struct(cfg); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return nil, fmt.Errorf("config validation failed: %w", err)
		}
		for _, fe := range fieldErrs {
			result.Errors = append(result.Errors, entities.ValidationError{
				Field:   trimRoot(fe.Namespace()),
				Message: describe(fe),
			})
		}
	}

	seen := make(map[string]bool, len(cfg.Extensions))
	for i, ext := range cfg.Extensions {
		if ext.Name == "" {
			continue
		}
		if seen[ext.Name] {
			result.Errors = append(result.Errors, entities.ValidationError{
				Field:   fmt.Sprintf("instance_extensions[%d].name", i),
				Message: fmt.Sprintf("duplicate extension %q", ext.Name),
			})
		}
		seen[ext.Name] = true
	}

	owner := make(map[string]string)
	for i, ext := range cfg.Extensions {
		for j, fn := range ext.Entrypoints {
			if prev, ok := owner[fn]; ok && prev != ext.Name {
				result.Errors = append(result.Errors, entities.ValidationError{
					Field:   fmt.Sprintf("instance_extensions[%d].entrypoints[%d]", i, j),
					Message: fmt.Sprintf("entry point %q already declared by %q", fn, prev),
				})
				continue
			}
			owner[fn] = ext.Name
		}
	}

	for i, pattern := range cfg.DisabledShims {
		if pattern != "" && !doublestar.ValidatePattern(pattern) {
			result.Errors = append(result.Errors, entities.ValidationError{
				Field:   fmt.Sprintf("disabled_shims[%d]", i),
				Message: fmt.Sprintf("invalid glob pattern %q", pattern),
			})
		}
	}

	result.Valid = len(result.Errors) == 0
	return result, nil
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "gte":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of [%s]", fe.Param())
	default:
		return fmt.Sprintf("failed %q constraint", fe.Tag())
	}
}

// trimRoot drops the struct name validator prefixes to every namespace.
func trimRoot(ns string) string {
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

// fieldFromPointer turns a JSON pointer like /instance_extensions/0/name
// into instance_extensions[0].name.
func fieldFromPointer(ptr string) string {
	ptr = strings.TrimPrefix(ptr, "/")
	if ptr == "" {
		return ""
	}
	var b strings.Builder
	for i, part := range strings.Split(ptr, "/") {
		if isIndex(part) {
			b.WriteString("[" + part + "]")
			continue
		}
		if i > 0 {
			b.WriteByte('.')
		}
		b.WriteString(part)
	}
	return b.String()
}

func isIndex(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
