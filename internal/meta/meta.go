package meta

const (
	// CLIName is the binary name used in help text, config paths and env prefixes.
	CLIName = "casectl"
	// DefaultBaseURL points at the reporting backend started locally.
	DefaultBaseURL = "http://localhost:8000"
)
