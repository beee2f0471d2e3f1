package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/legaldesk/casectl/internal/cmd/common"
	"github.com/legaldesk/casectl/internal/meta"
	"github.com/legaldesk/casectl/internal/util/viper"
	"github.com/spf13/pflag"
	v "github.com/spf13/viper"
)

var defaultConfigFileName = "config.yaml"

// Returns the expanded default config path depending on what
// environment variables are set. If XDG_CONFIG_HOME is set,
// the default is $XDG_CONFIG_HOME/casectl,
// otherwise the default is os.UserHomeDir()/.config/casectl.
// If these values are not set, an error is returned.
func GetDefaultConfigPath() (string, error) {
	val, set := os.LookupEnv("XDG_CONFIG_HOME")
	if !set || val == "" {
		var err error
		val, err = os.UserHomeDir()
		if err != nil {
			return "", err
		}
		val = filepath.Join(val, ".config")
	}
	val = filepath.Join(val, meta.CLIName)
	return os.ExpandEnv(val), nil
}

// ExpandDefaultConfigFilePath returns the default config file path or an
// empty string when the home directory cannot be resolved.
func ExpandDefaultConfigFilePath() string {
	path, err := GetDefaultConfigFilePath()
	if err != nil {
		return ""
	}
	return path
}

func GetDefaultConfigFilePath() (string, error) {
	path, err := GetDefaultConfigPath()
	if err != nil {
		return "", err
	}
	return filepath.Join(path, defaultConfigFileName), nil
}

// GetConfig returns the configuration for this instance of the CLI
func GetConfig(path string, profile string, defaultConfigFilePath string) (*ProfiledConfig, error) {
	var rv *ProfiledConfig
	var err error

	path = os.ExpandEnv(path)

	_, err = os.Stat(path)
	if err == nil {
		// If the user provides a valid file path, we should strictly load it or fail immediately
		vip, e := viper.NewViperE(path)
		if e == nil {
			rv = BuildProfiledConfig(profile, path, vip)
		} else {
			err = e
		}
	} else if path == defaultConfigFilePath {
		// If the default given config file path does not exist, and it matches the defaultConfigFilePath
		// then we should initialize the default configuration including creating the directory and file
		var vip *v.Viper
		vip, err = viper.InitializeDefaultViper(getDefaultConfig(profile, path), path)
		if err == nil {
			rv = BuildProfiledConfig(profile, path, vip)
		}
	} else {
		err = fmt.Errorf("the provided config file path does not exist")
	}
	return rv, err
}

type Key struct{}

// ConfigKey carries the active Hook on a command context.
var ConfigKey = Key{}

// Hook is the profile scoped view of the configuration that commands read
// from. Keys are relative to the active profile.
type Hook interface {
	GetString(key string) string
	GetBool(key string) bool
	GetIntOrElse(key string, orElse int) int
	// GetDurationOrElse returns orElse when the key is unset, empty or not a
	// positive duration.
	GetDurationOrElse(key string, orElse time.Duration) time.Duration
	Set(k string, v any)
	Get(key string) any
	BindFlag(configPath string, f *pflag.Flag) error
	GetProfile() string
	GetPath() string
}

// ProfiledConfig wraps the file level viper and the sub tree of the
// selected profile.
type ProfiledConfig struct {
	*v.Viper
	subViper    *v.Viper
	ProfileName string
	Path        string
}

func (p *ProfiledConfig) GetProfile() string {
	return p.ProfileName
}

func (p *ProfiledConfig) GetString(key string) string {
	return p.subViper.GetString(key)
}

func (p *ProfiledConfig) GetBool(key string) bool {
	return p.subViper.GetBool(key)
}

func (p *ProfiledConfig) GetIntOrElse(key string, orElse int) int {
	if p.subViper.IsSet(key) {
		return p.subViper.GetInt(key)
	}
	return orElse
}

func (p *ProfiledConfig) GetDurationOrElse(key string, orElse time.Duration) time.Duration {
	if !p.subViper.IsSet(key) {
		return orElse
	}
	raw := strings.TrimSpace(p.subViper.GetString(key))
	if raw == "" {
		return orElse
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return orElse
	}
	return d
}

func (p *ProfiledConfig) Get(key string) any {
	return p.subViper.Get(key)
}

func (p *ProfiledConfig) BindFlag(configPath string, f *pflag.Flag) error {
	return p.subViper.BindPFlag(configPath, f)
}

func (p *ProfiledConfig) Set(k string, v any) {
	p.subViper.Set(k, v)
}

func (p *ProfiledConfig) GetPath() string {
	return p.Path
}

func BuildProfiledConfig(profile string, path string, mainv *v.Viper) *ProfiledConfig {
	// Sub keeps the profile name as a parent key, so CASECTL_<PROFILE>_<KEY>
	// resolves with the plain CLI prefix. A profile missing from the file has
	// no parent and carries the profile in its prefix instead.
	subv := mainv.Sub(profile)
	if subv == nil {
		subv = v.New()
		viper.ConfigureEnvVars(subv, ProfileEnvPrefix(profile))
	} else {
		viper.ConfigureEnvVars(subv, meta.CLIName)
	}
	for key, val := range profileDefaults(filepath.Dir(path)) {
		subv.SetDefault(key, val)
	}

	rv := &ProfiledConfig{
		Viper:       mainv,
		ProfileName: profile,
		subViper:    subv,
		Path:        path,
	}
	return rv
}

// ProfileEnvPrefix returns the environment variable prefix for a profile.
func ProfileEnvPrefix(profile string) string {
	return strings.ToUpper(meta.CLIName + "_" + strings.ReplaceAll(profile, "-", "_"))
}

// profileDefaults are applied to every profile so keys missing from an older
// config file still resolve.
func profileDefaults(configDir string) map[string]any {
	return map[string]any{
		common.OutputConfigPath:           common.DefaultOutputFormat,
		common.LogLevelConfigPath:         common.DefaultLogLevel,
		common.LogFileConfigPath:          filepath.Join(configDir, "logs", meta.CLIName+".log"),
		common.ColorThemeConfigPath:       common.DefaultColorTheme,
		common.BaseURLConfigPath:          meta.DefaultBaseURL,
		common.TimeoutConfigPath:          common.DefaultTimeout,
		common.CacheTTLConfigPath:         common.DefaultCacheTTL,
		common.CacheSizeConfigPath:        common.DefaultCacheSize,
		common.StoragePathConfigPath:      filepath.Join(configDir, meta.CLIName+".db"),
		common.ExportDirConfigPath:        ".",
		common.ExportFilenameTemplatePath: common.DefaultExportFilenameTmpl,
		common.TableLocaleConfigPath:      common.DefaultTableLocale,
	}
}

func getDefaultConfig(profileName, configFilePath string) map[string]any {
	configDir := filepath.Dir(configFilePath)
	defaults := profileDefaults(configDir)

	// the file only gets the flat keys users most often edit
	defaultConfig := map[string]any{
		profileName: map[string]any{
			common.OutputConfigPath:     defaults[common.OutputConfigPath],
			common.LogFileConfigPath:    defaults[common.LogFileConfigPath],
			common.ColorThemeConfigPath: defaults[common.ColorThemeConfigPath],
			"api": map[string]any{
				common.BaseURLFlagName: meta.DefaultBaseURL,
			},
		},
	}
	return defaultConfig
}
