package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/legaldesk/casectl/internal/build"
	"github.com/legaldesk/casectl/internal/cmd/common"
	"github.com/legaldesk/casectl/internal/cmd/root/verbs"
	"github.com/legaldesk/casectl/internal/config"
	"github.com/legaldesk/casectl/internal/iostreams"
	"github.com/legaldesk/casectl/internal/log"
	"github.com/legaldesk/casectl/internal/reporting/services"
	"github.com/legaldesk/casectl/internal/store"
	"github.com/legaldesk/casectl/internal/transform"
)

type Helper interface {
	GetCmd() *cobra.Command
	GetArgs() []string
	GetVerb() (verbs.VerbValue, error)
	GetStreams() *iostreams.IOStreams
	GetConfig() (config.Hook, error)
	GetOutputFormat() (common.OutputFormat, error)
	IsInteractive() bool
	GetLogger() *slog.Logger
	GetBuildInfo() (*build.Info, error)
	GetContext() context.Context
	GetServices() (*services.Services, error)
	OpenStore() (*store.Store, error)
	GetPresets() (transform.Presets, error)
}

type CommandHelper struct {
	// Cmd is a pointer to the command that is being executed
	Cmd *cobra.Command
	// Args are the arguments (not flags) passed to the command
	Args []string

	svc *services.Services
}

func (r *CommandHelper) GetCmd() *cobra.Command {
	return r.Cmd
}

func (r *CommandHelper) GetArgs() []string {
	return r.Args
}

func (r *CommandHelper) GetBuildInfo() (*build.Info, error) {
	val := r.Cmd.Context().Value(build.InfoKey)
	if val == nil {
		return nil, &ConfigurationError{
			Err: fmt.Errorf("no build info configured"),
		}
	}

	info, ok := val.(*build.Info)
	if !ok || info == nil {
		return nil, &ConfigurationError{
			Err: fmt.Errorf("invalid build info configured"),
		}
	}

	return info, nil
}

// GetLogger returns the logger from the command context, or one that
// discards everything.
func (r *CommandHelper) GetLogger() *slog.Logger {
	if rv, ok := r.Cmd.Context().Value(log.LoggerKey).(*slog.Logger); ok && rv != nil {
		return rv
	}
	return log.Discard()
}

func (r *CommandHelper) GetVerb() (verbs.VerbValue, error) {
	verbVal := r.Cmd.Context().Value(verbs.Verb)
	if verbVal == nil {
		return "", PrepareExecutionErrorMsg(r, "no verb found in context")
	}
	return verbVal.(verbs.VerbValue), nil
}

func (r *CommandHelper) GetStreams() *iostreams.IOStreams {
	return r.Cmd.Context().Value(iostreams.StreamsKey).(*iostreams.IOStreams)
}

func (r *CommandHelper) GetConfig() (config.Hook, error) {
	cfgVal := r.Cmd.Context().Value(config.ConfigKey)
	if cfgVal == nil {
		return nil, PrepareExecutionErrorMsg(r, "no config found in context")
	}
	return cfgVal.(config.Hook), nil
}

func (r *CommandHelper) GetOutputFormat() (common.OutputFormat, error) {
	c, e := r.GetConfig()
	if e != nil {
		return common.TEXT, e
	}
	s := c.GetString(common.OutputConfigPath)
	rv, e := common.OutputFormatStringToIota(s)
	if e != nil {
		return common.TEXT, e
	}
	return rv, nil
}

// IsInteractive reports whether the command talks to a terminal on both
// input and output.
func (r *CommandHelper) IsInteractive() bool {
	return r.GetStreams().IsInteractive()
}

func (r *CommandHelper) GetContext() context.Context {
	return r.Cmd.Context()
}

// GetServices builds the reporting services with the factory stored in the
// command context. The result is memoized per helper.
func (r *CommandHelper) GetServices() (*services.Services, error) {
	if r.svc != nil {
		return r.svc, nil
	}
	factory, ok := r.Cmd.Context().Value(services.FactoryKey).(services.Factory)
	if !ok || factory == nil {
		return nil, &ConfigurationError{Err: fmt.Errorf("no reporting services configured")}
	}
	cfg, err := r.GetConfig()
	if err != nil {
		return nil, err
	}
	svc, err := factory(cfg, r.GetLogger())
	if err != nil {
		return nil, &ConfigurationError{Err: err}
	}
	r.svc = svc
	return svc, nil
}

// OpenStore opens the local analysis store configured for the profile. The
// caller closes it.
func (r *CommandHelper) OpenStore() (*store.Store, error) {
	cfg, err := r.GetConfig()
	if err != nil {
		return nil, err
	}
	s, err := store.Open(cfg.GetString(common.StoragePathConfigPath))
	if err != nil {
		return nil, PrepareExecutionError("failed to open the local store", err, r.Cmd)
	}
	return s, nil
}

// GetPresets loads the column presets, applying the profile's overrides file.
func (r *CommandHelper) GetPresets() (transform.Presets, error) {
	cfg, err := r.GetConfig()
	if err != nil {
		return nil, err
	}
	p, err := transform.LoadPresets(cfg.GetString(common.TablePresetsFileConfigPath))
	if err != nil {
		return nil, &ConfigurationError{Err: err}
	}
	return p, nil
}

func BuildHelper(cmd *cobra.Command, args []string) Helper {
	return &CommandHelper{
		Cmd:  cmd,
		Args: args,
	}
}
