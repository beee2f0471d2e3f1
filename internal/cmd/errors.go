package cmd

import (
	"errors"

	"github.com/spf13/cobra"
)

// ConfigurationError reports bad usage: invalid flags or arguments, a broken
// config file, an unknown profile. The root command prints it together with
// a hint to run --help.
type ConfigurationError struct {
	Err error
}

func (e *ConfigurationError) Error() string { return e.Err.Error() }

func (e *ConfigurationError) Unwrap() error { return e.Err }

// ExecutionError reports a failure after validation succeeded, such as an
// unreachable backend, a rejected upload or a failed analysis run.
type ExecutionError struct {
	// Msg is shown to the user instead of Err.
	Msg string
	Err error
	// Attrs are logged alongside the error as slog key/value pairs.
	Attrs []any
}

func (e *ExecutionError) Error() string { return e.Err.Error() }

func (e *ExecutionError) Unwrap() error { return e.Err }

// PrepareExecutionErrorWithHelper is PrepareExecutionError for the helper's
// command.
func PrepareExecutionErrorWithHelper(helper Helper, msg string, err error, attrs ...any) *ExecutionError {
	if helper == nil {
		return PrepareExecutionError(msg, err, nil, attrs...)
	}
	return PrepareExecutionError(msg, err, helper.GetCmd(), attrs...)
}

// PrepareExecutionErrorMsg builds an ExecutionError whose cause is msg itself.
func PrepareExecutionErrorMsg(helper Helper, msg string, attrs ...any) *ExecutionError {
	cause := msg
	if cause == "" {
		cause = "an unknown error occurred"
	}
	return PrepareExecutionErrorWithHelper(helper, msg, errors.New(cause), attrs...)
}

// PrepareExecutionError wraps err and silences cobra's own usage and error
// output on cmd, leaving reporting to the root command.
func PrepareExecutionError(msg string, err error, cmd *cobra.Command, attrs ...any) *ExecutionError {
	if cmd != nil {
		cmd.SilenceUsage = true
		cmd.SilenceErrors = true
	}
	return &ExecutionError{Msg: msg, Err: err, Attrs: attrs}
}
