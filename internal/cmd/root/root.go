package root

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/segmentio/cli"
	"github.com/spf13/cobra"

	"github.com/legaldesk/casectl/internal/build"
	"github.com/legaldesk/casectl/internal/cmd"
	"github.com/legaldesk/casectl/internal/cmd/common"
	jqoutput "github.com/legaldesk/casectl/internal/cmd/output/jq"
	"github.com/legaldesk/casectl/internal/cmd/root/verbs/analyze"
	"github.com/legaldesk/casectl/internal/cmd/root/verbs/anonymize"
	"github.com/legaldesk/casectl/internal/cmd/root/verbs/del"
	"github.com/legaldesk/casectl/internal/cmd/root/verbs/export"
	"github.com/legaldesk/casectl/internal/cmd/root/verbs/get"
	"github.com/legaldesk/casectl/internal/cmd/root/verbs/help"
	"github.com/legaldesk/casectl/internal/cmd/root/verbs/upload"
	"github.com/legaldesk/casectl/internal/cmd/root/verbs/view"
	"github.com/legaldesk/casectl/internal/cmd/root/version"
	"github.com/legaldesk/casectl/internal/config"
	"github.com/legaldesk/casectl/internal/iostreams"
	"github.com/legaldesk/casectl/internal/log"
	"github.com/legaldesk/casectl/internal/meta"
	"github.com/legaldesk/casectl/internal/profile"
	"github.com/legaldesk/casectl/internal/reporting/services"
	"github.com/legaldesk/casectl/internal/theme"
	"github.com/legaldesk/casectl/internal/util"
	"github.com/legaldesk/casectl/internal/util/i18n"
	"github.com/legaldesk/casectl/internal/util/normalizers"
)

var (
	rootLong = normalizers.LongDesc(i18n.T("root.rootLong", `
  casectl is the terminal client for the legal case reporting backend.

  Upload the detailed and documents reports, run the analysis and browse
  the rainbow, lawsuit and court order deadline checks, documents and
  tasks as charts and sortable tables.`))

	rootShort = i18n.T("root.rootShort", fmt.Sprintf("%s reports on legal cases", meta.CLIName))

	rootCmd *cobra.Command

	// Stores the global runtime value for the Configuration file path,
	configFilePath = config.ExpandDefaultConfigFilePath()
	currProfile    = profile.DefaultProfile

	currConfig   config.Hook
	streams      *iostreams.IOStreams
	pMgr         profile.Manager
	outputFormat = cmd.NewEnum([]string{"json", "yaml", "text"}, common.DefaultOutputFormat)
	logLevel     = cmd.NewEnum([]string{"trace", "debug", "info", "warn", "error"}, common.DefaultLogLevel)
	colorTheme   = theme.NewFlag(common.DefaultColorTheme)

	logger      = log.Discard()
	closeLogger = func() error { return nil }

	buildInfo *build.Info
)

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           meta.CLIName,
		Short:         rootShort,
		Long:          rootLong,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			ctx := context.WithValue(cmd.Context(), config.ConfigKey, currConfig)
			ctx = context.WithValue(ctx, iostreams.StreamsKey, streams)
			ctx = context.WithValue(ctx, profile.ProfileManagerKey, pMgr)
			ctx = context.WithValue(ctx, build.InfoKey, buildInfo)
			ctx = context.WithValue(ctx, log.LoggerKey, logger)
			ctx = context.WithValue(ctx, services.FactoryKey, services.Factory(services.DefaultFactory))
			ctx = theme.ContextWithPalette(ctx, theme.Current())
			cmd.SetContext(ctx)
		},
		PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
			return closeLogger()
		},
	}

	// parses all flags not just the target command
	rootCmd.TraverseChildren = true

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configFilePath, common.ConfigFilePathFlagName,
		config.ExpandDefaultConfigFilePath(),
		i18n.T("root."+common.ConfigFilePathFlagName, "Path to the configuration file to load."))

	flags.StringVarP(&currProfile, common.ProfileFlagName, common.ProfileFlagShort,
		profile.DefaultProfile,
		"Specify the profile to use for this command.")

	flags.VarP(outputFormat, common.OutputFlagName, common.OutputFlagShort,
		fmt.Sprintf(`Configures the output format.
- Config path: [ %s ]
- Allowed    : [ %s ]`,
			common.OutputConfigPath, strings.Join(outputFormat.Allowed, "|")))

	flags.Var(logLevel, common.LogLevelFlagName,
		fmt.Sprintf(`Configures the logging level.
- Config path: [ %s ]
- Allowed    : [ %s ]`,
			common.LogLevelConfigPath, strings.Join(logLevel.Allowed, "|")))

	flags.String(common.LogFileFlagName, "",
		fmt.Sprintf(`Write JSON log records to this file.
- Config path: [ %s ]`, common.LogFileConfigPath))

	flags.Var(colorTheme, common.ColorThemeFlagName,
		fmt.Sprintf(`Color theme for tables and charts.
- Config path: [ %s ]
- Allowed    : [ %s ]`,
			common.ColorThemeConfigPath, strings.Join(theme.Available(), "|")))

	flags.String(common.BaseURLFlagName, "",
		fmt.Sprintf(`Base URL of the reporting backend.
- Config path: [ %s ]
- Default   : [ %s ]`,
			common.BaseURLConfigPath, meta.DefaultBaseURL))

	flags.String(common.TimeoutFlagName, "",
		fmt.Sprintf(`Timeout for a single backend request, for example 90s.
- Config path: [ %s ]
- Default   : [ %s ]`,
			common.TimeoutConfigPath, common.DefaultTimeout))

	jqoutput.AddFlags(flags)

	return rootCmd
}

// addCommands adds the root subcommands to the command.
func addCommands() error {
	rootCmd.AddCommand(version.NewVersionCmd())
	rootCmd.SetHelpCommand(help.NewHelpCmd())

	for _, newCmd := range []func() (*cobra.Command, error){
		get.NewGetCmd,
		upload.NewUploadCmd,
		del.NewDeleteCmd,
		analyze.NewAnalyzeCmd,
		export.NewExportCmd,
		anonymize.NewAnonymizeCmd,
		view.NewViewCmd,
	} {
		c, e := newCmd()
		if e != nil {
			return e
		}
		rootCmd.AddCommand(c)
	}
	return nil
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd = newRootCmd()
	err := addCommands()
	util.CheckError(err)

	// Because the profile is not part of the configuration, we can't use viper
	// to read it following it's built in priorities.  So here we look for a well known
	// profile variable and set our package level variable if it's set before
	// continuing to process the command run.  This creates a ENV_VAR < CLI_FLAG priority
	profileEnvVar, found := os.LookupEnv(fmt.Sprintf("%s_PROFILE", strings.ToUpper(meta.CLIName)))
	if found && !rootCmd.PersistentFlags().Changed(common.ProfileFlagName) {
		currProfile = profileEnvVar
	}
}

func initConfig() {
	cfg, e1 := config.GetConfig(configFilePath, currProfile, config.ExpandDefaultConfigFilePath())
	util.CheckError(e1)
	currConfig = cfg

	pMgr = profile.NewManager(cfg.Viper)

	flags := rootCmd.PersistentFlags()
	for flagName, path := range map[string]string{
		common.OutputFlagName:     common.OutputConfigPath,
		common.LogLevelFlagName:   common.LogLevelConfigPath,
		common.LogFileFlagName:    common.LogFileConfigPath,
		common.ColorThemeFlagName: common.ColorThemeConfigPath,
		common.BaseURLFlagName:    common.BaseURLConfigPath,
		common.TimeoutFlagName:    common.TimeoutConfigPath,
	} {
		util.CheckError(cfg.BindFlag(path, flags.Lookup(flagName)))
	}
	util.CheckError(jqoutput.BindFlags(cfg, flags))

	initTheme(cfg)
	initLogger(cfg)
}

func initTheme(cfg config.Hook) {
	name := cfg.GetString(common.ColorThemeConfigPath)
	if err := theme.SetCurrent(name); err != nil {
		fmt.Fprintf(streams.ErrOut, "unknown color theme %q, using %s\n", name, theme.CurrentName())
	}
}

func initLogger(cfg config.Hook) {
	l, closer, err := log.New(log.Options{
		Level:    cfg.GetString(common.LogLevelConfigPath),
		FilePath: cfg.GetString(common.LogFileConfigPath),
		Console:  streams.ErrOut,
	})
	if err != nil {
		// keep going without a log file
		fmt.Fprintf(streams.ErrOut, "logging disabled: %v\n", err)
		l, closer, _ = log.New(log.Options{Console: streams.ErrOut})
	}
	logger = l.With("profile", cfg.GetProfile())
	closeLogger = closer
}

func Execute(ctx context.Context, s *iostreams.IOStreams, bi *build.Info) {
	buildInfo = bi
	cobra.EnableTraverseRunHooks = true
	streams = s
	err := rootCmd.ExecuteContext(ctx)
	if err == nil {
		return
	}

	logger.Debug("command failed", "error", err)
	format := outputFormat.String()
	if currConfig != nil {
		format = currConfig.GetString(common.OutputConfigPath)
	}
	printer, perr := cli.Format(format, s.ErrOut)
	if perr != nil {
		printer, _ = cli.Format(common.DefaultOutputFormat, s.ErrOut)
	}

	var executionError *cmd.ExecutionError
	var configError *cmd.ConfigurationError
	switch {
	case errors.As(err, &executionError):
		printer.Print(executionError)
	case errors.As(err, &configError):
		printer.Print(configError)
	default:
		fmt.Fprintf(s.ErrOut, "Error: %v\nRun '%s --help' for usage.\n", err, meta.CLIName)
	}
	printer.Flush()
	_ = closeLogger()
	os.Exit(1)
}
