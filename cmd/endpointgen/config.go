// Copyright 2025 The Rivaas Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/goccy/go-yaml"

	"rivaas.dev/logging"

	"rivaas.dev/endpoint/gen"
)

// Config errors.
var (
	ErrConfigFormat = errors.New("unsupported config file format")
	ErrInvalidFlag  = errors.New("invalid configuration")
)

// Config is the configuration of a run. It is read from an optional config
// file; flags set on the command line override the file.
type Config struct {
	Dir       string   `yaml:"dir" toml:"dir" json:"dir"`
	Output    string   `yaml:"output" toml:"output" json:"output"`
	Tags      []string `yaml:"tags" toml:"tags" json:"tags"`
	Intercept bool     `yaml:"intercept" toml:"intercept" json:"intercept"`
	Watch     bool     `yaml:"watch" toml:"watch" json:"watch"`
	Check     bool     `yaml:"check" toml:"check" json:"check"`
	LogLevel  string   `yaml:"log_level" toml:"log_level" json:"log_level"`
	LogFormat string   `yaml:"log_format" toml:"log_format" json:"log_format"`
}

func defaultConfig() Config {
	return Config{
		Dir:       ".",
		Output:    gen.DefaultOutput,
		Intercept: true,
		LogLevel:  "info",
		LogFormat: "console",
	}
}

// parseArgs builds the configuration from the command line.
func parseArgs(args []string, output io.Writer) (Config, error) {
	fs := flag.NewFlagSet("endpointgen", flag.ContinueOnError)
	fs.SetOutput(output)
	fs.Usage = func() {
		fmt.Fprint(output, `
endpointgen - compiles endpoint declarations into static route registrations.

Usage:
  endpointgen [options]

Typically run from a go:generate directive in the package to compile:
  //go:generate go run rivaas.dev/endpoint/cmd/endpointgen

Options:
`)
		fs.PrintDefaults()
	}

	def := defaultConfig()
	var (
		configPath = fs.String("config", "", "Path to a .yaml, .yml, .toml or .json config file.")
		dir        = fs.String("dir", def.Dir, "Directory of the package to compile.")
		out        = fs.String("output", def.Output, "Generated file name, relative to -dir.")
		tags       = fs.String("tags", "", "Comma separated build tags.")
		intercept  = fs.Bool("intercept", def.Intercept, "Install interceptors for endpoint.MapAll calls.")
		watch      = fs.Bool("watch", false, "Regenerate whenever a source file changes.")
		check      = fs.Bool("check", false, "Fail when the generated file is stale instead of writing it.")
		logLevel   = fs.String("log-level", def.LogLevel, "Log level: debug, info, warn or error.")
		logFormat  = fs.String("log-format", def.LogFormat, "Log format: console, text or json.")
	)
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	if fs.NArg() > 0 {
		return Config{}, fmt.Errorf("%w: unexpected argument %q", ErrInvalidFlag, fs.Arg(0))
	}

	cfg := def
	if *configPath != "" {
		if err := loadFile(*configPath, &cfg); err != nil {
			return Config{}, err
		}
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "dir":
			cfg.Dir = *dir
		case "output":
			cfg.Output = *out
		case "tags":
			cfg.Tags = splitTags(*tags)
		case "intercept":
			cfg.Intercept = *intercept
		case "watch":
			cfg.Watch = *watch
		case "check":
			cfg.Check = *check
		case "log-level":
			cfg.LogLevel = *logLevel
		case "log-format":
			cfg.LogFormat = *logFormat
		}
	})

	return cfg, cfg.validate()
}

// loadFile decodes the config file at path into cfg, keeping the values of
// cfg for keys the file does not set. The format follows the extension.
func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, cfg)
	case ".toml":
		_, err = toml.NewDecoder(bytes.NewReader(data)).Decode(cfg)
	case ".json":
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		err = dec.Decode(cfg)
	default:
		return fmt.Errorf("%w: %q", ErrConfigFormat, ext)
	}
	if err != nil {
		return fmt.Errorf("decode config %s: %w", path, err)
	}

	return nil
}

func (c Config) validate() error {
	if c.Dir == "" {
		return fmt.Errorf("%w: empty dir", ErrInvalidFlag)
	}
	if !strings.HasSuffix(c.Output, ".go") || strings.HasSuffix(c.Output, "_test.go") {
		return fmt.Errorf("%w: output %q must be a non-test .go file", ErrInvalidFlag, c.Output)
	}
	if c.Watch && c.Check {
		return fmt.Errorf("%w: -watch and -check are exclusive", ErrInvalidFlag)
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		return err
	}
	switch c.LogFormat {
	case "console", "text", "json":
	default:
		return fmt.Errorf("%w: log format %q", ErrInvalidFlag, c.LogFormat)
	}

	return nil
}

// outputPath returns the path the generated file is written to.
func (c Config) outputPath() string {
	if filepath.IsAbs(c.Output) {
		return c.Output
	}

	return filepath.Join(c.Dir, c.Output)
}

func parseLevel(s string) (logging.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return logging.LevelDebug, nil
	case "info":
		return logging.LevelInfo, nil
	case "warn":
		return logging.LevelWarn, nil
	case "error":
		return logging.LevelError, nil
	default:
		return 0, fmt.Errorf("%w: log level %q", ErrInvalidFlag, s)
	}
}

func splitTags(s string) []string {
	var tags []string
	for _, t := range strings.Split(s, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}

	return tags
}
