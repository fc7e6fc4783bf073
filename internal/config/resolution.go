package config

import (
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/dkoosis/cargo2junit/pkg/libtest"
	"github.com/dkoosis/cargo2junit/pkg/render"
)

// Source records which layer supplied a resolved value.
type Source string

const (
	SourceCLI     Source = "cli"
	SourceEnv     Source = "env"
	SourceFile    Source = "file"
	SourceDefault Source = "default"
)

// Setting names, shared by the Sources map and error messages.
const (
	SettingSuitePrefix   = "suite_prefix"
	SettingMaxOutputLen  = "max_output_len"
	SettingFormat        = "format"
	SettingSummary       = "summary"
	SettingTheme         = "theme"
	SettingFailOnFailure = "fail_on_failure"
	SettingNoColor       = "no_color"
	SettingDebug         = "debug"
)

// Environment variable names.
const (
	EnvSuitePrefix   = "CARGO2JUNIT_SUITE_PREFIX"
	EnvMaxOutputLen  = "TEST_STDOUT_MAX_LEN"
	EnvFormat        = "CARGO2JUNIT_FORMAT"
	EnvSummary       = "CARGO2JUNIT_SUMMARY"
	EnvTheme         = "CARGO2JUNIT_THEME"
	EnvFailOnFailure = "CARGO2JUNIT_FAIL_ON_FAILURE"
	EnvNoColor       = "NO_COLOR"
	EnvDebug         = "CARGO2JUNIT_DEBUG"
)

// Report formats.
const (
	FormatXML  = "xml"
	FormatJSON = "json"
)

// Summary modes.
const (
	SummaryAuto     = "auto"
	SummaryTerminal = "terminal"
	SummaryLLM      = "llm"
	SummaryJSON     = "json"
	SummaryNone     = "none"
)

var (
	validFormats   = []string{FormatXML, FormatJSON}
	validSummaries = []string{SummaryAuto, SummaryTerminal, SummaryLLM, SummaryJSON, SummaryNone}
)

// CliFlags holds the values of command-line flags.
type CliFlags struct {
	SuitePrefix   string
	MaxOutputLen  int
	Format        string
	Summary       string
	Theme         string
	FailOnFailure bool
	NoColor       bool
	Debug         bool

	// Flags to track if they were explicitly set by the user
	SuitePrefixSet   bool
	MaxOutputLenSet  bool
	FormatSet        bool
	SummarySet       bool
	ThemeSet         bool
	FailOnFailureSet bool
	NoColorSet       bool
	DebugSet         bool
}

// ResolvedConfig holds the final configuration after applying all priority rules.
type ResolvedConfig struct {
	SuitePrefix   string
	MaxOutputLen  int
	Format        string
	Summary       string
	Theme         string
	FailOnFailure bool
	NoColor       bool
	Debug         bool

	// Resolution metadata (for debugging)
	ConfigPath string
	Sources    map[string]Source
}

// ParseOptions returns the parser options carried by the resolved config.
func (c *ResolvedConfig) ParseOptions() libtest.Options {
	return libtest.Options{SuitePrefix: c.SuitePrefix, MaxOutputLen: c.MaxOutputLen}
}

// WriteDebug dumps each resolved value and its source.
func (c *ResolvedConfig) WriteDebug(w io.Writer) {
	values := map[string]any{
		SettingSuitePrefix:   c.SuitePrefix,
		SettingMaxOutputLen:  c.MaxOutputLen,
		SettingFormat:        c.Format,
		SettingSummary:       c.Summary,
		SettingTheme:         c.Theme,
		SettingFailOnFailure: c.FailOnFailure,
		SettingNoColor:       c.NoColor,
		SettingDebug:         c.Debug,
	}
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		debugf(w, "ResolveConfig", "%s = %v (%s)", k, values[k], c.Sources[k])
	}
}

// ResolveConfig loads the config file and resolves every setting with
// priority CLI > environment > file > default. debug, when non-nil,
// receives trace lines about config file discovery.
func ResolveConfig(cli CliFlags, debug io.Writer) (*ResolvedConfig, error) {
	file, path, err := LoadConfig(debug)
	if err != nil {
		return nil, err
	}
	resolved, err := Resolve(cli, file, os.Getenv)
	if err != nil {
		return nil, err
	}
	resolved.ConfigPath = path
	return resolved, nil
}

// Resolve merges the layers without touching the filesystem. getenv is
// usually os.Getenv.
func Resolve(cli CliFlags, file *FileConfig, getenv func(string) string) (*ResolvedConfig, error) {
	if file == nil {
		file = &FileConfig{}
	}
	r := &ResolvedConfig{Sources: make(map[string]Source)}
	env := envReader{getenv: getenv}

	r.SuitePrefix = resolve(r, SettingSuitePrefix, libtest.DefaultSuitePrefix,
		layer(file.SuitePrefix, file.SuitePrefix != "", SourceFile),
		env.str(EnvSuitePrefix),
		layer(cli.SuitePrefix, cli.SuitePrefixSet, SourceCLI))

	r.MaxOutputLen = resolve(r, SettingMaxOutputLen, libtest.DefaultMaxOutputLen,
		layer(file.MaxOutputLen, file.MaxOutputLen != 0, SourceFile),
		env.positiveInt(EnvMaxOutputLen),
		layer(cli.MaxOutputLen, cli.MaxOutputLenSet, SourceCLI))

	r.Format = resolve(r, SettingFormat, FormatXML,
		layer(file.Format, file.Format != "", SourceFile),
		env.str(EnvFormat),
		layer(cli.Format, cli.FormatSet, SourceCLI))

	r.Summary = resolve(r, SettingSummary, SummaryAuto,
		layer(file.Summary, file.Summary != "", SourceFile),
		env.str(EnvSummary),
		layer(cli.Summary, cli.SummarySet, SourceCLI))

	r.Theme = resolve(r, SettingTheme, "default",
		layer(file.Theme, file.Theme != "", SourceFile),
		env.str(EnvTheme),
		layer(cli.Theme, cli.ThemeSet, SourceCLI))

	r.FailOnFailure = resolve(r, SettingFailOnFailure, false,
		boolLayer(file.FailOnFailure),
		env.boolean(EnvFailOnFailure),
		layer(cli.FailOnFailure, cli.FailOnFailureSet, SourceCLI))

	r.NoColor = resolve(r, SettingNoColor, false,
		boolLayer(file.NoColor),
		env.present(EnvNoColor),
		layer(cli.NoColor, cli.NoColorSet, SourceCLI))

	r.Debug = resolve(r, SettingDebug, false,
		boolLayer(file.Debug),
		env.present(EnvDebug),
		layer(cli.Debug, cli.DebugSet, SourceCLI))

	if env.err != nil {
		return nil, fmt.Errorf("config validation failed: %w", env.err)
	}
	if err := validateResolvedConfig(r); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return r, nil
}

// candidate is one layer's value for a setting.
type candidate[T any] struct {
	val T
	ok  bool
	src Source
}

func layer[T any](val T, ok bool, src Source) candidate[T] {
	return candidate[T]{val: val, ok: ok, src: src}
}

func boolLayer(p *bool) candidate[bool] {
	if p == nil {
		return candidate[bool]{}
	}
	return layer(*p, true, SourceFile)
}

// resolve applies layers in ascending priority; the last one that is set wins.
func resolve[T any](r *ResolvedConfig, key string, def T, layers ...candidate[T]) T {
	val, src := def, SourceDefault
	for _, l := range layers {
		if l.ok {
			val, src = l.val, l.src
		}
	}
	r.Sources[key] = src
	return val
}

// envReader reads typed environment values and keeps the first parse error.
type envReader struct {
	getenv func(string) string
	err    error
}

func (e *envReader) str(key string) candidate[string] {
	v := strings.TrimSpace(e.getenv(key))
	return layer(v, v != "", SourceEnv)
}

func (e *envReader) positiveInt(key string) candidate[int] {
	raw := strings.TrimSpace(e.getenv(key))
	if raw == "" {
		return candidate[int]{}
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		e.fail(fmt.Errorf("%s must be a positive integer, got %q", key, raw))
		return candidate[int]{}
	}
	return layer(n, true, SourceEnv)
}

func (e *envReader) boolean(key string) candidate[bool] {
	raw := strings.TrimSpace(e.getenv(key))
	if raw == "" {
		return candidate[bool]{}
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		e.fail(fmt.Errorf("%s must be a boolean, got %q", key, raw))
		return candidate[bool]{}
	}
	return layer(b, true, SourceEnv)
}

// present treats any non-empty value as true, following the NO_COLOR convention.
func (e *envReader) present(key string) candidate[bool] {
	return layer(true, e.getenv(key) != "", SourceEnv)
}

func (e *envReader) fail(err error) {
	if e.err == nil {
		e.err = err
	}
}

// validateResolvedConfig validates the resolved configuration and returns errors for invalid states.
func validateResolvedConfig(cfg *ResolvedConfig) error {
	if strings.TrimSpace(cfg.SuitePrefix) == "" {
		return fmt.Errorf("suite prefix cannot be empty")
	}
	if cfg.MaxOutputLen <= 0 {
		return fmt.Errorf("max output length must be positive, got: %d", cfg.MaxOutputLen)
	}
	if !slices.Contains(validFormats, cfg.Format) {
		return fmt.Errorf("invalid format %q (must be: %s)", cfg.Format, strings.Join(validFormats, ", "))
	}
	if !slices.Contains(validSummaries, cfg.Summary) {
		return fmt.Errorf("invalid summary mode %q (must be: %s)", cfg.Summary, strings.Join(validSummaries, ", "))
	}
	if _, err := render.ThemeByName(cfg.Theme); err != nil {
		return err
	}
	return nil
}
