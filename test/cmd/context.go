package cmd

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"

	"github.com/legaldesk/casectl/internal/build"
	"github.com/legaldesk/casectl/internal/cmd/common"
	"github.com/legaldesk/casectl/internal/config"
	"github.com/legaldesk/casectl/internal/iostreams"
	"github.com/legaldesk/casectl/internal/log"
	"github.com/legaldesk/casectl/internal/profile"
	"github.com/legaldesk/casectl/internal/reporting/services"
)

// Env is what a command under test sees through its context.
type Env struct {
	Ctx    context.Context
	Config *config.ProfiledConfig
	In     *bytes.Buffer
	Out    *bytes.Buffer
	ErrOut *bytes.Buffer
}

// NewEnv builds a command context for the default profile with the backend at
// baseURL, test streams, a discarding logger and a store in a temp dir.
// settings override profile config keys.
func NewEnv(t testing.TB, baseURL string, settings map[string]any) *Env {
	t.Helper()

	dir := t.TempDir()
	v := viper.New()
	cfg := config.BuildProfiledConfig(profile.DefaultProfile, filepath.Join(dir, "config.yaml"), v)
	cfg.Set(common.BaseURLConfigPath, baseURL)
	cfg.Set(common.OutputConfigPath, common.DefaultOutputFormat)
	cfg.Set(common.StoragePathConfigPath, filepath.Join(dir, "casectl.db"))
	cfg.Set(common.ExportDirConfigPath, filepath.Join(dir, "exports"))
	for k, val := range settings {
		cfg.Set(k, val)
	}

	streams, in, out, errOut := iostreams.NewTestIOStreams()

	ctx := context.WithValue(context.Background(), config.ConfigKey, config.Hook(cfg))
	ctx = context.WithValue(ctx, iostreams.StreamsKey, streams)
	ctx = context.WithValue(ctx, log.LoggerKey, log.Discard())
	ctx = context.WithValue(ctx, profile.ProfileManagerKey, profile.NewManager(v))
	ctx = context.WithValue(ctx, build.InfoKey, &build.Info{Version: "test", Commit: "none", Date: "unknown"})
	ctx = context.WithValue(ctx, services.FactoryKey, services.Factory(services.DefaultFactory))

	return &Env{Ctx: ctx, Config: cfg, In: in, Out: out, ErrOut: errOut}
}
