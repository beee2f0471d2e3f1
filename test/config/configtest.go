package config

import (
	"time"

	"github.com/spf13/pflag"
)

// MockConfigHook implements config.Hook with optional per-method overrides.
// Unset getters fall back to zero values, Set and Get use an in-memory map.
type MockConfigHook struct {
	GetStringMock         func(key string) string
	GetBoolMock           func(key string) bool
	GetIntOrElseMock      func(key string, orElse int) int
	GetDurationOrElseMock func(key string, orElse time.Duration) time.Duration
	BindFlagMock          func(string, *pflag.Flag) error
	GetProfileMock        func() string
	SetMock               func(k string, v any)
	GetMock               func(k string) any
	Path                  string

	values map[string]any
}

func (m *MockConfigHook) GetString(key string) string {
	if m.GetStringMock == nil {
		if s, ok := m.values[key].(string); ok {
			return s
		}
		return ""
	}
	return m.GetStringMock(key)
}

func (m *MockConfigHook) GetBool(key string) bool {
	if m.GetBoolMock == nil {
		b, _ := m.values[key].(bool)
		return b
	}
	return m.GetBoolMock(key)
}

func (m *MockConfigHook) GetIntOrElse(key string, orElse int) int {
	if m.GetIntOrElseMock != nil {
		return m.GetIntOrElseMock(key, orElse)
	}
	return orElse
}

func (m *MockConfigHook) GetDurationOrElse(key string, orElse time.Duration) time.Duration {
	if m.GetDurationOrElseMock != nil {
		return m.GetDurationOrElseMock(key, orElse)
	}
	return orElse
}

func (m *MockConfigHook) BindFlag(configPath string, f *pflag.Flag) error {
	if m.BindFlagMock == nil {
		return nil
	}
	return m.BindFlagMock(configPath, f)
}

func (m *MockConfigHook) GetProfile() string {
	if m.GetProfileMock == nil {
		return "default"
	}
	return m.GetProfileMock()
}

func (m *MockConfigHook) Set(k string, v any) {
	if m.SetMock != nil {
		m.SetMock(k, v)
		return
	}
	if m.values == nil {
		m.values = map[string]any{}
	}
	m.values[k] = v
}

func (m *MockConfigHook) Get(k string) any {
	if m.GetMock != nil {
		return m.GetMock(k)
	}
	return m.values[k]
}

func (m *MockConfigHook) GetPath() string {
	return m.Path
}
