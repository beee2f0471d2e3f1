package help

import (
	"bytes"
	"embed"
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"
	"strings"

	"github.com/spf13/cobra"

	"github.com/legaldesk/casectl/internal/cmd"
	"github.com/legaldesk/casectl/internal/cmd/root/reporting"
	"github.com/legaldesk/casectl/internal/iostreams"
	"github.com/legaldesk/casectl/internal/meta"
	"github.com/legaldesk/casectl/internal/util/i18n"
	"github.com/legaldesk/casectl/internal/util/normalizers"
)

//go:embed templates/*
var helpTemplates embed.FS

var (
	helpUse = "help"

	helpShort = i18n.T("root.verbs.help.helpShort", "Display extended help for a command")

	helpLong = normalizers.LongDesc(i18n.T("root.verbs.help.helpLong",
		`Display extended help documentation for a command.

This provides more detailed information than the standard --help flag,
with workflows and examples. Commands without extended help show their
regular help.`))

	helpExamples = normalizers.Examples(i18n.T("root.verbs.help.helpExamples",
		fmt.Sprintf(`
  # Show extended help for the analyze command
  %[1]s help analyze

  # Show extended help for the export command
  %[1]s help export`, meta.CLIName)))
)

// NewHelpCmd creates a new help command
func NewHelpCmd() *cobra.Command {
	return &cobra.Command{
		Use:     helpUse + " [command]",
		Short:   helpShort,
		Long:    helpLong,
		Example: helpExamples,
		Args:    cobra.MaximumNArgs(1),
		RunE:    runHelp,
	}
}

func runHelp(c *cobra.Command, args []string) error {
	if len(args) == 0 {
		return c.Root().Help()
	}
	helper := cmd.BuildHelper(c, args)

	target, _, err := c.Root().Find([]string{args[0]})
	if err != nil || target == c.Root() {
		return &cmd.ConfigurationError{Err: fmt.Errorf("unknown command %q", args[0])}
	}

	content, err := loadHelpTemplate(target.Name())
	if err != nil {
		return target.Help()
	}

	streams := helper.GetStreams()
	var buf bytes.Buffer
	if err := reporting.WriteMarkdown(helper, &buf, content); err != nil {
		return err
	}

	if streams.IsInteractive() {
		if err := displayWithPager(buf.String(), streams); err == nil {
			return nil
		}
	}
	_, err = io.Copy(streams.Out, &buf)
	return err
}

func loadHelpTemplate(command string) (string, error) {
	content, err := helpTemplates.ReadFile(fmt.Sprintf("templates/%s.md", command))
	if err != nil {
		return "", err
	}
	return string(content), nil
}

func displayWithPager(content string, streams *iostreams.IOStreams) error {
	pager := os.Getenv("PAGER")
	if pager == "" {
		for _, p := range []string{"less", "more"} {
			if _, err := exec.LookPath(p); err == nil {
				pager = p
				break
			}
		}
	}
	if pager == "" {
		return fmt.Errorf("no pager found")
	}

	if strings.Contains(pager, "less") {
		pager = "less -R"
	}

	var pagerCmd *exec.Cmd
	if runtime.GOOS == "windows" {
		pagerCmd = exec.Command("cmd", "/c", pager)
	} else {
		pagerCmd = exec.Command("sh", "-c", pager)
	}
	pagerCmd.Stdin = strings.NewReader(content)
	pagerCmd.Stdout = streams.Out
	pagerCmd.Stderr = streams.ErrOut

	return pagerCmd.Run()
}
