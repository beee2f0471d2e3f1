package cmd

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/legaldesk/casectl/internal/build"
	"github.com/legaldesk/casectl/internal/cmd/common"
	"github.com/legaldesk/casectl/internal/cmd/root/verbs"
	"github.com/legaldesk/casectl/internal/config"
	"github.com/legaldesk/casectl/internal/iostreams"
	"github.com/legaldesk/casectl/internal/reporting/services"
	"github.com/legaldesk/casectl/internal/store"
	"github.com/legaldesk/casectl/internal/transform"
)

type MockHelper struct {
	GetCmdMock          func() *cobra.Command
	GetArgsMock         func() []string
	GetVerbMock         func() (verbs.VerbValue, error)
	GetStreamsMock      func() *iostreams.IOStreams
	GetConfigMock       func() (config.Hook, error)
	GetOutputFormatMock func() (common.OutputFormat, error)
	IsInteractiveMock   func() bool
	GetLoggerMock       func() *slog.Logger
	GetBuildInfoMock    func() (*build.Info, error)
	GetContextMock      func() context.Context
	GetServicesMock     func() (*services.Services, error)
	OpenStoreMock       func() (*store.Store, error)
	GetPresetsMock      func() (transform.Presets, error)
}

func (m *MockHelper) GetCmd() *cobra.Command {
	return m.GetCmdMock()
}

func (m *MockHelper) GetArgs() []string {
	if m.GetArgsMock == nil {
		return nil
	}
	return m.GetArgsMock()
}

func (m *MockHelper) GetVerb() (verbs.VerbValue, error) {
	return m.GetVerbMock()
}

func (m *MockHelper) GetStreams() *iostreams.IOStreams {
	return m.GetStreamsMock()
}

func (m *MockHelper) GetConfig() (config.Hook, error) {
	return m.GetConfigMock()
}

func (m *MockHelper) GetOutputFormat() (common.OutputFormat, error) {
	return m.GetOutputFormatMock()
}

func (m *MockHelper) IsInteractive() bool {
	if m.IsInteractiveMock == nil {
		return false
	}
	return m.IsInteractiveMock()
}

func (m *MockHelper) GetLogger() *slog.Logger {
	if m.GetLoggerMock == nil {
		return slog.New(slog.DiscardHandler)
	}
	return m.GetLoggerMock()
}

func (m *MockHelper) GetBuildInfo() (*build.Info, error) {
	return m.GetBuildInfoMock()
}

func (m *MockHelper) GetContext() context.Context {
	if m.GetContextMock == nil {
		return context.Background()
	}
	return m.GetContextMock()
}

func (m *MockHelper) GetServices() (*services.Services, error) {
	return m.GetServicesMock()
}

func (m *MockHelper) OpenStore() (*store.Store, error) {
	return m.OpenStoreMock()
}

func (m *MockHelper) GetPresets() (transform.Presets, error) {
	if m.GetPresetsMock == nil {
		return transform.DefaultPresets(), nil
	}
	return m.GetPresetsMock()
}
