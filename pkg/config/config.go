// Package config loads default merge and diff settings from a TOML file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/hashicorp/go-multierror"
	"github.com/samber/lo"

	"github.com/odvcencio/xmerge/pkg/diff"
	"github.com/odvcencio/xmerge/pkg/diff3"
)

const (
	// EnvVar names a config file when --config is not given.
	EnvVar = "XMERGE_CONFIG"
	// LocalFile is read from the working directory when present.
	LocalFile = ".xmerge.toml"
	// DefaultContext is the number of context lines around diff hunks.
	DefaultContext = 3
)

// Config is the content of a config file.
type Config struct {
	Merge Merge `toml:"merge"`
	Diff  Diff  `toml:"diff"`
}

// Merge holds defaults for merge-file. Empty strings keep the built-in
// defaults.
type Merge struct {
	Algorithm  string `toml:"algorithm"`
	Style      string `toml:"style"`
	Favor      string `toml:"favor"`
	Level      string `toml:"level"`
	MarkerSize int    `toml:"marker_size"`
}

// Diff holds defaults for the diff command. An empty algorithm falls back
// to the merge algorithm.
type Diff struct {
	Algorithm string `toml:"algorithm"`
	Context   int    `toml:"context"`
}

// Default returns the settings used when no config file exists.
func Default() *Config {
	return &Config{
		Merge: Merge{MarkerSize: diff3.DefaultMarkerSize},
		Diff:  Diff{Context: DefaultContext},
	}
}

// Locate picks the config file: explicit if set, then $XMERGE_CONFIG, then
// ./.xmerge.toml. required is false only for the local file, which may be
// absent.
func Locate(explicit string, getenv func(string) string) (path string, required bool) {
	switch {
	case explicit != "":
		return explicit, true
	case getenv(EnvVar) != "":
		return getenv(EnvVar), true
	default:
		return LocalFile, false
	}
}

// Load reads the config file chosen by Locate. It returns the defaults and
// an empty path when the optional local file does not exist.
func Load(explicit string) (*Config, string, error) {
	path, required := Locate(explicit, os.Getenv)
	data, err := os.ReadFile(path)
	if err != nil {
		if !required && errors.Is(err, fs.ErrNotExist) {
			return Default(), "", nil
		}
		return nil, "", fmt.Errorf("load config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, "", fmt.Errorf("load config %s: %w", path, err)
	}
	return cfg, path, nil
}

// Parse decodes TOML over the defaults. Unknown keys and unknown option
// values are errors.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	md, err := toml.Decode(string(data), cfg)
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := lo.Map(undecoded, func(k toml.Key, _ int) string { return k.String() })
		return nil, fmt.Errorf("parse: unknown keys: %s", strings.Join(keys, ", "))
	}
	if _, err := cfg.MergeOptions(); err != nil {
		return nil, err
	}
	if _, err := cfg.DiffAlgorithm(); err != nil {
		return nil, err
	}
	if cfg.Diff.Context < 0 {
		return nil, fmt.Errorf("parse: negative diff context %d", cfg.Diff.Context)
	}
	return cfg, nil
}

// MergeOptions converts the merge section into engine options.
func (c *Config) MergeOptions() (diff3.MergeOptions, error) {
	opts := diff3.DefaultOptions()
	var result *multierror.Error
	var err error

	if c.Merge.Algorithm != "" {
		if opts.Algorithm, err = diff.ParseAlgorithm(c.Merge.Algorithm); err != nil {
			result = multierror.Append(result, err)
		}
	}
	if c.Merge.Style != "" {
		if opts.Style, err = diff3.ParseStyle(c.Merge.Style); err != nil {
			result = multierror.Append(result, err)
		}
	}
	if opts.Favor, err = diff3.ParseFavor(c.Merge.Favor); err != nil {
		result = multierror.Append(result, err)
	}
	if c.Merge.Level != "" {
		if opts.Level, err = diff3.ParseLevel(c.Merge.Level); err != nil {
			result = multierror.Append(result, err)
		}
	}
	opts.MarkerSize = c.Merge.MarkerSize
	if err := result.ErrorOrNil(); err != nil {
		return opts, err
	}
	return opts, opts.Validate()
}

// DiffAlgorithm returns the algorithm for the diff command.
func (c *Config) DiffAlgorithm() (diff.Algorithm, error) {
	name := c.Diff.Algorithm
	if name == "" {
		name = c.Merge.Algorithm
	}
	return diff.ParseAlgorithm(name)
}
