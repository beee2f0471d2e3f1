package util

import (
	"fmt"
	"os"

	"github.com/legaldesk/casectl/internal/meta"
)

// CheckError stops the program when start up fails, before any command has
// streams or a logger to report through.
func CheckError(err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "%s: %v\n", meta.CLIName, err)
	os.Exit(1)
}
