// Package common holds the flag names, config paths and defaults shared by
// casectl commands.
package common

import (
	"fmt"
	"slices"
)

// OutputFormat selects how command results are printed.
type OutputFormat int

const (
	JSON OutputFormat = iota
	YAML
	TEXT
)

var outputFormatNames = []string{"json", "yaml", "text"}

// ColorMode controls ANSI coloring of JSON output.
type ColorMode int

const (
	ColorModeAuto ColorMode = iota
	ColorModeAlways
	ColorModeNever
)

var colorModeNames = []string{"auto", "always", "never"}

const (
	// related to the --output flag
	DefaultOutputFormat = "text"
	OutputFlagName      = "output"
	OutputFlagShort     = "o"
	OutputConfigPath    = OutputFlagName

	// related to the --color flag
	DefaultColorMode = "auto"

	// related to the --color-theme flag
	ColorThemeFlagName   = "color-theme"
	ColorThemeConfigPath = ColorThemeFlagName
	DefaultColorTheme    = "desk-light"

	// related to the --profile flag
	ProfileFlagName  = "profile"
	ProfileFlagShort = "p"

	// related to the --config-file flag
	ConfigFilePathFlagName = "config-file"

	// related to the --log-level flag
	LogLevelFlagName   = "log-level"
	DefaultLogLevel    = "info"
	LogLevelConfigPath = LogLevelFlagName

	// related to the --log-file flag
	LogFileFlagName   = "log-file"
	LogFileConfigPath = LogFileFlagName

	// related to the --base-url flag
	BaseURLFlagName   = "base-url"
	BaseURLConfigPath = "api." + BaseURLFlagName

	// related to the --timeout flag
	TimeoutFlagName   = "timeout"
	TimeoutConfigPath = "api." + TimeoutFlagName
	DefaultTimeout    = "60s"

	CacheTTLConfigPath  = "cache.ttl"
	DefaultCacheTTL     = "10m"
	CacheSizeConfigPath = "cache.size"
	DefaultCacheSize    = 128

	StoragePathConfigPath = "storage.path"

	// related to the --dir flag of export commands
	ExportDirFlagName          = "dir"
	ExportDirConfigPath        = "export." + ExportDirFlagName
	ExportFilenameTemplatePath = "export.filename-template"
	DefaultExportFilenameTmpl  = `{{ .Report }}_{{ .Now | date "2006-01-02_150405" }}.xlsx`
	TableLocaleConfigPath      = "table.locale"
	DefaultTableLocale         = "ru"
	TablePresetsFileConfigPath = "table.presets-file"
)

func (of OutputFormat) String() string {
	if of < 0 || int(of) >= len(outputFormatNames) {
		return DefaultOutputFormat
	}
	return outputFormatNames[of]
}

func OutputFormatStringToIota(format string) (OutputFormat, error) {
	if i := slices.Index(outputFormatNames, format); i >= 0 {
		return OutputFormat(i), nil
	}
	return TEXT, fmt.Errorf("invalid output format %q, must be one of %v", format, outputFormatNames)
}

func (cm ColorMode) String() string {
	if cm < 0 || int(cm) >= len(colorModeNames) {
		return DefaultColorMode
	}
	return colorModeNames[cm]
}

// ColorModeStringToIota parses a color mode, treating "" as auto.
func ColorModeStringToIota(mode string) (ColorMode, error) {
	if mode == "" {
		return ColorModeAuto, nil
	}
	if i := slices.Index(colorModeNames, mode); i >= 0 {
		return ColorMode(i), nil
	}
	return ColorModeAuto, fmt.Errorf("invalid color mode %q, must be one of %v", mode, colorModeNames)
}
