// Package config handles configuration loading and merging for cargo2junit.
//
// # Configuration Precedence
//
// Configuration values are resolved in the following order (highest to lowest priority):
//
//  1. CLI flags (--prefix, --max-output-len, --format, --summary, --theme, etc.)
//  2. Environment variables (CARGO2JUNIT_*, TEST_STDOUT_MAX_LEN, NO_COLOR)
//  3. YAML config file (.cargo2junit.yaml in the working directory or
//     ~/.config/cargo2junit/.cargo2junit.yaml)
//  4. Hardcoded defaults
//
// When a higher-priority source sets a value, it overrides any lower-priority values.
// The config file is checked against an embedded JSON schema before it is merged,
// so unknown keys and wrongly typed values are reported rather than ignored.
//
// # Environment Variables
//
//   - CARGO2JUNIT_SUITE_PREFIX: suite name prefix ("cargo test")
//   - TEST_STDOUT_MAX_LEN: bytes of captured output kept per failed test
//   - CARGO2JUNIT_FORMAT: report format, "xml" or "json"
//   - CARGO2JUNIT_SUMMARY: summary mode, "auto", "terminal", "llm", "json" or "none"
//   - CARGO2JUNIT_THEME: terminal theme, "default", "orca" or "mono"
//   - CARGO2JUNIT_FAIL_ON_FAILURE: "true" or "1" to exit 1 when tests failed
//   - NO_COLOR: any non-empty value disables colors
//   - CARGO2JUNIT_DEBUG: any non-empty value enables debug output
package config
