package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ConfigFileName is looked up in the working directory, then in the user
// config directory under "cargo2junit/".
const ConfigFileName = ".cargo2junit.yaml"

// FileConfig mirrors .cargo2junit.yaml. Pointer fields distinguish an
// explicit false from an absent key.
type FileConfig struct {
	SuitePrefix   string `yaml:"suite_prefix,omitempty"`
	MaxOutputLen  int    `yaml:"max_output_len,omitempty"`
	Format        string `yaml:"format,omitempty"`
	Summary       string `yaml:"summary,omitempty"`
	Theme         string `yaml:"theme,omitempty"`
	FailOnFailure *bool  `yaml:"fail_on_failure,omitempty"`
	NoColor       *bool  `yaml:"no_color,omitempty"`
	Debug         *bool  `yaml:"debug,omitempty"`
}

// LoadConfig finds and parses the config file. It returns an empty config
// and an empty path when no file exists.
func LoadConfig(debug io.Writer) (*FileConfig, string, error) {
	path := getConfigPath(debug)
	if path == "" {
		return &FileConfig{}, "", nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, path, fmt.Errorf("reading config file %s: %w", path, err)
	}
	cfg, err := ParseConfig(data)
	if err != nil {
		return nil, path, fmt.Errorf("config file %s: %w", path, err)
	}
	debugf(debug, "LoadConfig", "loaded config from %s", path)
	return cfg, path, nil
}

// ParseConfig validates YAML config data against the schema and decodes it.
func ParseConfig(data []byte) (*FileConfig, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("invalid YAML: %w", err)
	}
	if doc == nil {
		// Empty or comment-only file.
		return &FileConfig{}, nil
	}
	if err := validateDocument(doc); err != nil {
		return nil, err
	}

	var cfg FileConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	return &cfg, nil
}

// getConfigPath tries to find the config file: the working directory first,
// then the user config directory.
func getConfigPath(debug io.Writer) string {
	if _, err := os.Stat(ConfigFileName); err == nil {
		abs, _ := filepath.Abs(ConfigFileName)
		debugf(debug, "getConfigPath", "using local config file: %s", abs)
		return ConfigFileName
	}

	configHome, err := os.UserConfigDir()
	if err != nil || configHome == "" || configHome == "/" {
		debugf(debug, "getConfigPath", "user config dir unusable (err: %v, path: %q)", err, configHome)
		return ""
	}

	xdgPath := filepath.Join(configHome, "cargo2junit", ConfigFileName)
	if _, err := os.Stat(xdgPath); err == nil {
		debugf(debug, "getConfigPath", "using XDG config file: %s", xdgPath)
		return xdgPath
	} else if !errors.Is(err, os.ErrNotExist) {
		debugf(debug, "getConfigPath", "cannot stat %s: %v", xdgPath, err)
	}

	debugf(debug, "getConfigPath", "no config file found, using defaults")
	return ""
}

// debugf writes a "[DEBUG scope] ..." trace line when debug output is on.
func debugf(w io.Writer, scope, format string, args ...any) {
	if w == nil {
		return
	}
	fmt.Fprintf(w, "[DEBUG %s] "+format+"\n", append([]any{scope}, args...)...)
}
