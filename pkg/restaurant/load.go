package restaurant

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid restaurant descriptor")

// file is the on-disk layout: a top-level "restaurants" list.
type file struct {
	Restaurants []Descriptor `json:"restaurants" yaml:"restaurants"`
}

// FromFile loads descriptors from a JSON or YAML file.
func FromFile(path string) ([]Descriptor, error) {
	data, err := os.ReadFile(path) //#nosec G304 -- path comes from the operator's config
	if err != nil {
		return nil, fmt.Errorf("failed to read restaurants file: %w", err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		return FromJSON(data)
	case ".yaml", ".yml":
		return FromYAML(data)
	default:
		return nil, fmt.Errorf("unsupported restaurants file format: %s", ext)
	}
}

// FromJSON parses and validates descriptors from JSON data.
func FromJSON(data []byte) ([]Descriptor, error) {
	var f file
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse JSON restaurants: %w", err)
	}
	if err := Validate(f.Restaurants); err != nil {
		return nil, err
	}
	return f.Restaurants, nil
}

// FromYAML parses and validates descriptors from YAML data.
func FromYAML(data []byte) ([]Descriptor, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse YAML restaurants: %w", err)
	}
	if err := Validate(f.Restaurants); err != nil {
		return nil, err
	}
	return f.Restaurants, nil
}

// Validate checks struct constraints and name uniqueness.
// An undeclared structural type is not a validation error: it is reported
// per restaurant at extraction time so the rest of the list still runs.
func Validate(ds []Descriptor) error {
	if len(ds) == 0 {
		return fmt.Errorf("%w: no restaurants defined", ErrInvalid)
	}

	v := validator.New(validator.WithRequiredStructEnabled())
	seen := make(map[string]bool, len(ds))
	var errs []error
	for i, d := range ds {
		if err := v.Struct(d); err != nil {
			errs = append(errs, fmt.Errorf("%w: restaurant %d (%q): %s", ErrInvalid, i, d.Name, describe(err)))
			continue
		}
		key := strings.ToLower(d.Name)
		if seen[key] {
			errs = append(errs, fmt.Errorf("%w: duplicate restaurant name %q", ErrInvalid, d.Name))
		}
		seen[key] = true
	}
	return errors.Join(errs...)
}

// describe flattens validator errors into "field: rule" pairs.
func describe(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, fmt.Sprintf("%s: %s", fe.Namespace(), fe.Tag()))
	}
	return strings.Join(parts, ", ")
}
