// Package jq filters command payloads with jq expressions before they are
// printed as JSON or YAML.
package jq

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/itchyny/gojq"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	cmdpkg "github.com/legaldesk/casectl/internal/cmd"
	cmdcommon "github.com/legaldesk/casectl/internal/cmd/common"
	"github.com/legaldesk/casectl/internal/config"
)

const (
	FlagName           = "jq"
	ColorFlagName      = "jq-color"
	ThemeFlagName      = "jq-theme"
	RawFlagName        = "raw-output"
	RawFlagShort       = "r"
	ExpressionConfig   = "jq.expression"
	ColorConfigPath    = "jq.color.enabled"
	ThemeConfigPath    = "jq.color.theme"
	RawConfigPath      = "jq.raw-output"
	DefaultChromaTheme = "friendly"
)

var compiled sync.Map

// Settings is the resolved jq behaviour of one command invocation.
type Settings struct {
	Filter    string
	ColorMode cmdcommon.ColorMode
	Theme     string
	Raw       bool
}

// Active reports whether a filter will be applied.
func (s Settings) Active() bool {
	return strings.TrimSpace(s.Filter) != ""
}

// AddFlags registers the jq flags on a command.
func AddFlags(flags *pflag.FlagSet) {
	flags.String(FlagName, "", "Filter the JSON or YAML payload with a jq expression.")

	color := cmdpkg.NewEnum([]string{
		cmdcommon.ColorModeAuto.String(),
		cmdcommon.ColorModeAlways.String(),
		cmdcommon.ColorModeNever.String(),
	}, cmdcommon.DefaultColorMode)
	flags.Var(color, ColorFlagName, fmt.Sprintf(`Colorize jq results.
- Config path: [ %s ]
- Allowed    : [ auto|always|never ]`, ColorConfigPath))

	flags.String(ThemeFlagName, DefaultChromaTheme, fmt.Sprintf(`Color theme for jq results.
- Config path: [ %s ]`, ThemeConfigPath))

	flags.BoolP(RawFlagName, RawFlagShort, false, fmt.Sprintf(`Print string results without quotes.
- Config path: [ %s ]`, RawConfigPath))
}

// BindFlags ties the jq flags to their config paths.
func BindFlags(cfg config.Hook, flags *pflag.FlagSet) error {
	if cfg == nil || flags == nil {
		return nil
	}
	for flag, path := range map[string]string{
		ColorFlagName: ColorConfigPath,
		ThemeFlagName: ThemeConfigPath,
		RawFlagName:   RawConfigPath,
	} {
		if f := flags.Lookup(flag); f != nil {
			if err := cfg.BindFlag(path, f); err != nil {
				return err
			}
		}
	}
	return nil
}

// ResolveSettings reads the jq flags of command, falling back to cfg. A bare
// --jq means the identity filter. Commands without the flag never filter.
func ResolveSettings(command *cobra.Command, cfg config.Hook) (Settings, error) {
	s := Settings{Theme: DefaultChromaTheme, ColorMode: cmdcommon.ColorModeAuto}
	if command == nil || command.Flags().Lookup(FlagName) == nil {
		return s, nil
	}
	flags := command.Flags()

	filter, err := flags.GetString(FlagName)
	if err != nil {
		return Settings{}, err
	}
	s.Filter = strings.TrimSpace(filter)
	if flags.Changed(FlagName) && s.Filter == "" {
		s.Filter = "."
	}

	if cfg != nil {
		if expr := strings.TrimSpace(cfg.GetString(ExpressionConfig)); expr != "" && !flags.Changed(FlagName) {
			s.Filter = expr
		}
		mode, err := cmdcommon.ColorModeStringToIota(strings.ToLower(strings.TrimSpace(cfg.GetString(ColorConfigPath))))
		if err != nil {
			return Settings{}, err
		}
		s.ColorMode = mode
		if theme := strings.TrimSpace(cfg.GetString(ThemeConfigPath)); theme != "" {
			s.Theme = theme
		}
		s.Raw = cfg.GetBool(RawConfigPath)
	}

	// explicit flags win over config, bound or not
	if flags.Changed(ColorFlagName) {
		if s.ColorMode, err = cmdcommon.ColorModeStringToIota(flags.Lookup(ColorFlagName).Value.String()); err != nil {
			return Settings{}, err
		}
	}
	if flags.Changed(ThemeFlagName) {
		s.Theme = flags.Lookup(ThemeFlagName).Value.String()
	}
	if flags.Changed(RawFlagName) {
		if s.Raw, err = flags.GetBool(RawFlagName); err != nil {
			return Settings{}, err
		}
	}
	return s, nil
}

// Validate rejects output formats a filter cannot be combined with.
func Validate(outType cmdcommon.OutputFormat, s Settings) error {
	switch {
	case s.Raw && !s.Active():
		return &cmdpkg.ConfigurationError{Err: fmt.Errorf("--%s requires --%s", RawFlagName, FlagName)}
	case s.Raw && outType != cmdcommon.JSON:
		return &cmdpkg.ConfigurationError{
			Err: fmt.Errorf("--%s is only supported with --output json", RawFlagName),
		}
	case s.Active() && outType == cmdcommon.TEXT:
		return &cmdpkg.ConfigurationError{
			Err: fmt.Errorf("--%s is only supported with --output json or --output yaml", FlagName),
		}
	}
	return nil
}

// Apply runs the filter over payload. When the result was written to out
// directly (raw or colorized output) handled is true; otherwise the filtered
// value is returned for the caller's printer.
func Apply(payload any, outType cmdcommon.OutputFormat, s Settings, out io.Writer) (result any, handled bool, err error) {
	if !s.Active() {
		return payload, false, nil
	}
	if err := Validate(outType, s); err != nil {
		return nil, false, err
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, false, fmt.Errorf("failed to encode payload for jq: %w", err)
	}
	results, err := Evaluate(body, s.Filter)
	if err != nil {
		return nil, false, err
	}

	if s.Raw {
		for _, r := range results {
			line, ok := r.(string)
			if !ok {
				b, err := json.Marshal(r)
				if err != nil {
					return nil, false, err
				}
				line = string(b)
			}
			if _, err := fmt.Fprintln(out, line); err != nil {
				return nil, false, err
			}
		}
		return nil, true, nil
	}

	value := collapse(results)
	if outType == cmdcommon.JSON && UseColor(s.ColorMode, out) {
		pretty, err := json.MarshalIndent(value, "", "  ")
		if err != nil {
			return nil, false, err
		}
		if _, err := fmt.Fprintln(out, Colorize(string(pretty), s.Theme)); err != nil {
			return nil, false, err
		}
		return nil, true, nil
	}
	return value, false, nil
}

// Evaluate runs filter over a JSON document and returns every result.
func Evaluate(body []byte, filter string) ([]any, error) {
	if strings.TrimSpace(filter) == "" {
		filter = "."
	}
	if len(body) == 0 {
		return nil, errors.New("payload is empty, cannot apply jq filter")
	}
	var doc any
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("payload is not valid JSON: %w", err)
	}
	code, err := compile(filter)
	if err != nil {
		return nil, err
	}

	var results []any
	iter := code.Run(doc)
	for {
		v, ok := iter.Next()
		if !ok {
			break
		}
		if err, isErr := v.(error); isErr {
			var halt *gojq.HaltError
			if errors.As(err, &halt) && halt.Value() == nil {
				break
			}
			return nil, fmt.Errorf("jq filter failed: %w", err)
		}
		results = append(results, v)
	}
	return results, nil
}

func collapse(results []any) any {
	switch len(results) {
	case 0:
		return nil
	case 1:
		return results[0]
	}
	return results
}

func compile(filter string) (*gojq.Code, error) {
	if c, ok := compiled.Load(filter); ok {
		return c.(*gojq.Code), nil
	}
	q, err := gojq.Parse(filter)
	if err != nil {
		return nil, fmt.Errorf("invalid jq expression: %w", err)
	}
	c, err := gojq.Compile(q)
	if err != nil {
		return nil, fmt.Errorf("failed to compile jq expression: %w", err)
	}
	compiled.Store(filter, c)
	return c, nil
}

var isTerminal = func(fd uintptr) bool {
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// UseColor decides whether jq results written to out get colorized.
func UseColor(mode cmdcommon.ColorMode, out io.Writer) bool {
	switch mode {
	case cmdcommon.ColorModeAlways:
		return true
	case cmdcommon.ColorModeNever:
		return false
	}
	if _, set := os.LookupEnv("NO_COLOR"); set {
		return false
	}
	f, ok := out.(interface{ Fd() uintptr })
	return ok && isTerminal(f.Fd())
}

// Colorize highlights a JSON document for the terminal. It returns the input
// unchanged when highlighting is not possible.
func Colorize(doc, theme string) string {
	lexer := lexers.Get("json")
	formatter := formatters.Get("terminal256")
	if lexer == nil || formatter == nil {
		return doc
	}
	style := styles.Get(theme)
	if style == nil {
		style = styles.Fallback
	}
	it, err := lexer.Tokenise(nil, doc)
	if err != nil {
		return doc
	}
	var buf bytes.Buffer
	if err := formatter.Format(&buf, style, it); err != nil {
		return doc
	}
	return buf.String()
}
