package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

type confirmKey struct{}

// YesFlagName skips confirmation prompts on destructive commands.
const YesFlagName = "yes"

// SetAutoApprove records --yes on the command context so nested handlers can
// skip prompts without re-reading flags.
func SetAutoApprove(cmd *cobra.Command, approved bool) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(context.WithValue(ctx, confirmKey{}, approved))
}

// AutoApproved reports whether prompts should be skipped.
func AutoApproved(helper Helper) bool {
	if helper == nil || helper.GetCmd() == nil || helper.GetCmd().Context() == nil {
		return false
	}
	approved, _ := helper.GetCmd().Context().Value(confirmKey{}).(bool)
	return approved
}

// Confirm asks the user to type "yes" before a destructive action. Anything
// else, EOF or a cancelled context aborts with an ExecutionError.
func Confirm(helper Helper, action string, warnings ...string) error {
	if AutoApproved(helper) {
		return nil
	}
	streams := helper.GetStreams()
	fmt.Fprintf(streams.Out, "\nYou are about to %s\n", action)
	for _, w := range warnings {
		if strings.TrimSpace(w) != "" {
			fmt.Fprintln(streams.Out, w)
		}
	}
	fmt.Fprint(streams.Out, "\nType 'yes' to continue: ")

	var in io.Reader = streams.In
	if f, ok := in.(*os.File); ok && f.Fd() == os.Stdin.Fd() {
		if tty, err := os.OpenFile("/dev/tty", os.O_RDONLY, 0); err == nil {
			defer tty.Close()
			in = tty
		}
	}

	answer := make(chan string, 1)
	go func() {
		line, err := bufio.NewReader(in).ReadString('\n')
		if err != nil && line == "" {
			close(answer)
			return
		}
		answer <- line
	}()

	ctx := helper.GetContext()
	if ctx == nil {
		ctx = context.Background()
	}
	select {
	case <-ctx.Done():
	case line, ok := <-answer:
		if ok && strings.EqualFold(strings.TrimSpace(line), "yes") {
			return nil
		}
	}
	return PrepareExecutionErrorMsg(helper, "operation cancelled")
}
