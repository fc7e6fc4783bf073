// cargo2junit converts the JSON event stream of cargo test into a JUnit
// XML report.
//
// Usage:
//
//	cargo test -- -Z unstable-options --format json --report-time | cargo2junit > junit.xml
//	cargo test --no-fail-fast -- -Z unstable-options --format json | cargo2junit --output junit.xml --fail-on-failure
//
// The report goes to stdout (or --output). A human-readable run summary
// goes to stderr:
//
//	terminal  styled Unicode output (default when stderr is a TTY)
//	llm       terse plain text for AI consumption
//	json      structured JSON for automation
//	none      no summary (default when stderr is piped)
//
// Exit codes: 0 report written, 1 report written with failures and
// --fail-on-failure set, 2 usage, configuration, input or output error.
package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/dkoosis/cargo2junit/internal/config"
	"github.com/dkoosis/cargo2junit/internal/detect"
	"github.com/dkoosis/cargo2junit/internal/version"
	"github.com/dkoosis/cargo2junit/pkg/junit"
	"github.com/dkoosis/cargo2junit/pkg/libtest"
	"github.com/dkoosis/cargo2junit/pkg/mapper"
	"github.com/dkoosis/cargo2junit/pkg/render"
)

const sniffSize = 8 * 1024

// now stamps every suite of a run; tests pin it.
var now = time.Now

func main() {
	// The summary is written to stderr, so colors follow stderr's terminal.
	lipgloss.SetDefaultRenderer(lipgloss.NewRenderer(os.Stderr))
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cli, output, code := parseFlags(args, stdout, stderr)
	if code >= 0 {
		return code
	}

	var debugOut io.Writer
	if cli.Debug || os.Getenv(config.EnvDebug) != "" {
		debugOut = stderr
	}
	cfg, err := config.ResolveConfig(cli, debugOut)
	if err != nil {
		fmt.Fprintf(stderr, "cargo2junit: %v\n", err)
		return 2
	}
	if cfg.Debug {
		cfg.WriteDebug(stderr)
	}

	br := bufio.NewReaderSize(stdin, 64*1024)
	// A short or failed peek still sniffs what arrived; read errors resurface in Parse.
	peeked, _ := br.Peek(sniffSize)
	format := detect.Sniff(peeked)
	debugf(cfg, stderr, "sniffed input format: %s", format)
	if format == detect.GoTestJSON {
		fmt.Fprintf(stderr, "cargo2junit: warning: input looks like go test -json; expected cargo test --format json\n")
	}

	opts := cfg.ParseOptions()
	opts.Timestamp = now().UTC()
	report, err := libtest.Parse(br, opts)
	if err != nil {
		fmt.Fprintf(stderr, "cargo2junit: %v\n", err)
		return 2
	}
	stats := report.Stats()
	debugf(cfg, stderr, "parsed %d suites, %d tests (%d failed, %d skipped)",
		stats.Suites, stats.TotalTests, stats.Failed, stats.Skipped)

	if err := writeReport(report, cfg.Format, output, stdout); err != nil {
		fmt.Fprintf(stderr, "cargo2junit: %v\n", err)
		return 2
	}

	if r := selectRenderer(cfg, stderr); r != nil {
		fmt.Fprint(stderr, r.Render(mapper.FromReport(report)))
	}

	if cfg.FailOnFailure && report.HasFailures() {
		return 1
	}
	return 0
}

// parseFlags returns (flags, output path, -1) on success; otherwise an exit code.
func parseFlags(args []string, stdout, stderr io.Writer) (config.CliFlags, string, int) {
	var cli config.CliFlags
	fs := flag.NewFlagSet("cargo2junit", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&cli.SuitePrefix, "prefix", libtest.DefaultSuitePrefix, "Suite name prefix; suites are named \"<prefix> #<n>\"")
	fs.IntVar(&cli.MaxOutputLen, "max-output-len", libtest.DefaultMaxOutputLen, "Bytes of captured output kept per failed test")
	fs.StringVar(&cli.Format, "format", config.FormatXML, "Report format: xml, json")
	output := fs.String("output", "", "Write the report to `file` instead of stdout")
	fs.StringVar(&cli.Summary, "summary", config.SummaryAuto, "Summary on stderr: auto, terminal, llm, json, none")
	fs.StringVar(&cli.Theme, "theme", "default", "Theme: default, orca, mono")
	fs.BoolVar(&cli.FailOnFailure, "fail-on-failure", false, "Exit 1 when any test failed")
	fs.BoolVar(&cli.NoColor, "no-color", false, "Disable colors in the summary")
	fs.BoolVar(&cli.Debug, "debug", false, "Print debug traces to stderr")
	showVersion := fs.Bool("version", false, "Print version and exit")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return cli, "", 0
		}
		return cli, "", 2
	}
	if fs.NArg() > 0 {
		fmt.Fprintf(stderr, "cargo2junit: unexpected argument %q (input is read from stdin)\n", fs.Arg(0))
		return cli, "", 2
	}
	if *showVersion {
		fmt.Fprintln(stdout, version.String())
		return cli, "", 0
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "prefix":
			cli.SuitePrefixSet = true
		case "max-output-len":
			cli.MaxOutputLenSet = true
		case "format":
			cli.FormatSet = true
		case "summary":
			cli.SummarySet = true
		case "theme":
			cli.ThemeSet = true
		case "fail-on-failure":
			cli.FailOnFailureSet = true
		case "no-color":
			cli.NoColorSet = true
		case "debug":
			cli.DebugSet = true
		}
	})
	return cli, *output, -1
}

// writeReport serializes the report to path, or to stdout when path is empty.
func writeReport(r *junit.Report, format, path string, stdout io.Writer) error {
	write := junit.WriteXML
	if format == config.FormatJSON {
		write = junit.WriteJSON
	}

	if path == "" {
		if err := write(stdout, r); err != nil {
			return fmt.Errorf("writing report: %w", err)
		}
		return nil
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating report directory: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating report: %w", err)
	}
	if err := write(f, r); err != nil {
		_ = f.Close()
		return fmt.Errorf("writing report %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing report %s: %w", path, err)
	}
	return nil
}

// selectRenderer returns nil when no summary should be printed.
func selectRenderer(cfg *config.ResolvedConfig, w io.Writer) render.Renderer {
	mode := cfg.Summary
	if mode == config.SummaryAuto {
		mode = config.SummaryNone
		if isTTYWriter(w) {
			mode = config.SummaryTerminal
		}
	}

	switch mode {
	case config.SummaryJSON:
		return render.NewJSON()
	case config.SummaryLLM:
		return render.NewLLM()
	case config.SummaryTerminal:
		theme, err := render.ThemeByName(cfg.Theme)
		if err != nil || cfg.NoColor {
			theme = render.MonoTheme()
		}
		return render.NewTerminal(theme, termWidth(w))
	default:
		return nil
	}
}

// isTTYWriter reports whether w is a terminal.
func isTTYWriter(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// termWidth returns the terminal width for w, defaulting to 80.
func termWidth(w io.Writer) int {
	if f, ok := w.(*os.File); ok {
		if tw, _, err := term.GetSize(int(f.Fd())); err == nil && tw > 0 {
			return tw
		}
	}
	return 80
}

func debugf(cfg *config.ResolvedConfig, w io.Writer, format string, args ...any) {
	if cfg.Debug {
		fmt.Fprintf(w, "[DEBUG run] "+format+"\n", args...)
	}
}
