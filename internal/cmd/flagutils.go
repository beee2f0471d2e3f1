package cmd

import (
	"fmt"
	"slices"
	"strings"
)

// FlagEnum is a pflag.Value restricted to a fixed set of lowercase values.
type FlagEnum struct {
	Allowed []string
	Value   string
}

func NewEnum(allowed []string, d string) *FlagEnum {
	return &FlagEnum{
		Allowed: allowed,
		Value:   d,
	}
}

func (a FlagEnum) String() string {
	return a.Value
}

// Set accepts any casing, so -o JSON works like -o json.
func (a *FlagEnum) Set(p string) error {
	v := strings.ToLower(strings.TrimSpace(p))
	if !slices.Contains(a.Allowed, v) {
		return fmt.Errorf("invalid value %q, must be one of %s", p, strings.Join(a.Allowed, "|"))
	}
	a.Value = v
	return nil
}

func (a *FlagEnum) Type() string {
	return "string"
}
