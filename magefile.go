//go:build mage

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	modulePath = "github.com/dkoosis/cargo2junit"
	binPath    = "./bin/cargo2junit"
)

// Default target - build the binary
var Default = Build

// Build builds the cargo2junit binary with version metadata
func Build() error {
	date := time.Now().UTC().Format(time.RFC3339)
	ldflags := fmt.Sprintf("-s -w -X '%[1]s/internal/version.Version=%[2]s' -X '%[1]s/internal/version.CommitHash=%[3]s' -X '%[1]s/internal/version.BuildDate=%[4]s'",
		modulePath, gitVersion(), gitCommit(), date)

	fmt.Println("Building cargo2junit...")
	if err := sh.RunV("go", "build", "-ldflags", ldflags, "-o", binPath, "./cmd/cargo2junit"); err != nil {
		return fmt.Errorf("build failed: %w", err)
	}
	fmt.Println("Built:", binPath)
	return nil
}

// Clean removes build artifacts
func Clean() error {
	for _, p := range []string{"./bin", "coverage.out"} {
		if err := sh.Rm(p); err != nil {
			return err
		}
	}
	return nil
}

// Lint namespace for linting commands
type Lint mg.Namespace

// All runs all linters
func (l Lint) All() error {
	for _, check := range []func() error{l.Format, l.Vet, l.Golangci} {
		if err := check(); err != nil {
			return err
		}
	}
	return nil
}

// Format checks code formatting
func (Lint) Format() error {
	out, err := sh.Output("gofmt", "-l", ".")
	if err != nil {
		return err
	}
	if out != "" {
		return fmt.Errorf("files need formatting:\n%s", out)
	}
	return nil
}

// Vet runs go vet
func (Lint) Vet() error {
	return sh.RunV("go", "vet", "./...")
}

// Golangci runs golangci-lint when it is installed
func (Lint) Golangci() error {
	err := sh.RunV("golangci-lint", "run", "--timeout=5m", "./...")
	if err != nil && sh.ExitStatus(err) == 127 {
		fmt.Fprintln(os.Stderr, "golangci-lint not found (install: go install github.com/golangci/golangci-lint/cmd/golangci-lint@latest)")
		return nil
	}
	return err
}

// Test namespace for testing commands
type Test mg.Namespace

// All runs all tests
func (Test) All() error {
	return sh.RunV("go", "test", "./...")
}

// Coverage runs tests with coverage
func (Test) Coverage() error {
	if err := sh.RunV("go", "test", "-coverprofile=coverage.out", "./..."); err != nil {
		return err
	}
	return sh.RunV("go", "tool", "cover", "-func=coverage.out")
}

// Race runs tests with race detector
func (Test) Race() error {
	return sh.RunV("go", "test", "-race", "./...")
}

// Fixtures converts every libtest fixture with the built binary into bin/fixtures
func (Test) Fixtures() error {
	mg.Deps(Build)

	fixtures, err := filepath.Glob("pkg/libtest/testdata/*.json")
	if err != nil {
		return err
	}
	if err := os.MkdirAll("bin/fixtures", 0o755); err != nil {
		return err
	}
	for _, in := range fixtures {
		out := filepath.Join("bin/fixtures", strings.TrimSuffix(filepath.Base(in), ".json")+".xml")
		script := fmt.Sprintf("%s --summary llm --output %s < %s", binPath, out, in)
		if err := sh.RunV("sh", "-c", script); err != nil {
			return fmt.Errorf("%s: %w", in, err)
		}
	}
	return nil
}

func gitVersion() string {
	out, err := sh.Output("git", "describe", "--tags", "--always", "--dirty", "--match=v*")
	if err != nil {
		return "dev"
	}
	return strings.TrimSpace(out)
}

func gitCommit() string {
	out, err := sh.Output("git", "rev-parse", "--short", "HEAD")
	if err != nil {
		return "unknown"
	}
	return strings.TrimSpace(out)
}
