package profile

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/viper"

	"github.com/legaldesk/casectl/internal/cmd/common"
	"github.com/legaldesk/casectl/internal/meta"
)

const (
	DefaultProfile = "default"
)

// Summary is what a profile points the client at.
type Summary struct {
	Name        string `json:"name"                   yaml:"name"`
	BaseURL     string `json:"baseUrl"                yaml:"baseUrl"`
	Timeout     string `json:"timeout"                yaml:"timeout"`
	Output      string `json:"output,omitempty"       yaml:"output,omitempty"`
	StoragePath string `json:"storagePath,omitempty"  yaml:"storagePath,omitempty"`
	ExportDir   string `json:"exportDir,omitempty"    yaml:"exportDir,omitempty"`
}

type Manager interface {
	// GetProfiles returns the sorted profile names in the configuration file.
	GetProfiles() []string
	Describe(name string) (Summary, error)
}

type profileManager struct {
	config *viper.Viper
}

// Empty type to represent the _type_ Manager. Genesis is to support a key in a Context
type Key struct{}

// Global instance of the ProfileManagerKey type
var ProfileManagerKey = Key{}

func (v *profileManager) GetProfiles() []string {
	names := make([]string, 0)
	for _, key := range v.config.AllKeys() {
		top, _, _ := strings.Cut(key, ".")
		if !slices.Contains(names, top) {
			names = append(names, top)
		}
	}
	slices.Sort(names)
	return names
}

func (v *profileManager) Describe(name string) (Summary, error) {
	sub := v.config.Sub(name)
	if sub == nil {
		return Summary{}, fmt.Errorf("profile %q is not defined", name)
	}
	rv := Summary{
		Name:        name,
		BaseURL:     sub.GetString(common.BaseURLConfigPath),
		Timeout:     sub.GetString(common.TimeoutConfigPath),
		Output:      sub.GetString(common.OutputConfigPath),
		StoragePath: sub.GetString(common.StoragePathConfigPath),
		ExportDir:   sub.GetString(common.ExportDirConfigPath),
	}
	if rv.BaseURL == "" {
		rv.BaseURL = meta.DefaultBaseURL
	}
	if rv.Timeout == "" {
		rv.Timeout = common.DefaultTimeout
	}
	return rv, nil
}

func NewManager(config *viper.Viper) Manager {
	return &profileManager{
		config: config,
	}
}
