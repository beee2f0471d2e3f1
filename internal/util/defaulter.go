package util

import (
	"gopkg.in/yaml.v3"
)

// ApplyDefaults overlays obj onto defaults and stores the result in obj.
// Fields obj leaves out of its YAML form (omitempty zero values) keep the
// default. Maps merge key by key; slices are replaced whole.
func ApplyDefaults[T any](obj *T, defaults T) error {
	var merged T

	b, err := yaml.Marshal(defaults)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(b, &merged); err != nil {
		return err
	}

	b2, err := yaml.Marshal(obj)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(b2, &merged); err != nil {
		return err
	}

	*obj = merged
	return nil
}
