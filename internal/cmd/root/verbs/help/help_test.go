package help

import (
	"errors"
	"io"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cmdpkg "github.com/legaldesk/casectl/internal/cmd"
	cmdtest "github.com/legaldesk/casectl/test/cmd"
)

func newTree() *cobra.Command {
	root := &cobra.Command{Use: "casectl"}
	root.AddCommand(
		&cobra.Command{Use: "analyze", Short: "Run the analysis", Run: func(*cobra.Command, []string) {}},
		&cobra.Command{Use: "version", Short: "Print the version", Run: func(*cobra.Command, []string) {}},
	)
	root.SetHelpCommand(NewHelpCmd())
	return root
}

func run(t *testing.T, args ...string) (*cmdtest.Env, error) {
	t.Helper()
	env := cmdtest.NewEnv(t, "http://127.0.0.1:1", nil)
	root := newTree()
	root.SetArgs(append([]string{"help"}, args...))
	root.SetOut(env.Out)
	root.SetErr(io.Discard)
	return env, root.ExecuteContext(env.Ctx)
}

func TestHelpRendersTemplate(t *testing.T) {
	env, err := run(t, "analyze")
	require.NoError(t, err)
	assert.Contains(t, env.Out.String(), "casectl analyze")
	assert.Contains(t, env.Out.String(), "Exit status")
}

func TestHelpFallsBackToCommandHelp(t *testing.T) {
	env, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, env.Out.String(), "Print the version")
}

func TestHelpWithoutArgsShowsRootHelp(t *testing.T) {
	env, err := run(t)
	require.NoError(t, err)
	assert.Contains(t, env.Out.String(), "Run the analysis")
}

func TestHelpUnknownCommand(t *testing.T) {
	_, err := run(t, "nope")
	var cfgErr *cmdpkg.ConfigurationError
	assert.True(t, errors.As(err, &cfgErr))
}

func TestEveryTemplateLoads(t *testing.T) {
	for _, name := range []string{"analyze", "export", "view", "anonymize", "upload", "delete"} {
		content, err := loadHelpTemplate(name)
		require.NoError(t, err, name)
		assert.Contains(t, content, "# casectl "+name)
	}
}
