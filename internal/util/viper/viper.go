// Package viper builds the file backed viper instances behind the casectl
// configuration.
package viper

import (
	"strings"

	"github.com/legaldesk/casectl/internal/meta"
	"github.com/legaldesk/casectl/internal/util"
	v "github.com/spf13/viper"
)

var envKeyReplacer = strings.NewReplacer(".", "_", "-", "_")

// InitializeDefaultViper loads path, creating its directory first. A file
// that is missing or holds no settings is seeded with defaults and written.
func InitializeDefaultViper(defaults map[string]any, path string) (*v.Viper, error) {
	if err := util.InitDir(path, 0o755); err != nil {
		return nil, err
	}

	vip := NewViper(path)
	if len(vip.AllSettings()) > 0 {
		return vip, nil
	}
	if err := vip.MergeConfigMap(defaults); err != nil {
		return nil, err
	}
	if err := vip.WriteConfig(); err != nil {
		return nil, err
	}
	return vip, nil
}

// NewViperE reads path and fails when it cannot be parsed.
func NewViperE(path string) (*v.Viper, error) {
	vip := newFileViper(path)
	if err := vip.ReadInConfig(); err != nil {
		return nil, err
	}
	return vip, nil
}

// NewViper is NewViperE that ignores read errors, leaving the instance empty.
func NewViper(path string) *v.Viper {
	vip := newFileViper(path)
	_ = vip.ReadInConfig()
	return vip
}

func newFileViper(path string) *v.Viper {
	vip := v.New()
	vip.SetConfigFile(path)
	ConfigureEnvVars(vip, meta.CLIName)
	return vip
}

// ConfigureEnvVars makes vip resolve keys from environment variables named
// PREFIX_KEY, with "." and "-" in keys mapped to "_".
func ConfigureEnvVars(vip *v.Viper, prefix string) {
	vip.SetEnvPrefix(prefix)
	vip.SetEnvKeyReplacer(envKeyReplacer)
	vip.AutomaticEnv()
}
