// Package config loads the settings shared by the jparse command and the
// language server: compiler levels, output, logging and server options.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/dhamidi/javaparse/java/parser"
)

// Sentinel validation errors.
var (
	ErrInvalidSourceLevel     = errors.New("invalid source level")
	ErrInvalidComplianceLevel = errors.New("invalid compliance level")
	ErrInvalidTargetLevel     = errors.New("invalid target level")
	ErrComplianceBelowSource  = errors.New("compliance level below source level")
	ErrInvalidFormat          = errors.New("invalid output format")
	ErrInvalidColorMode       = errors.New("invalid color mode")
	ErrInvalidVerbosity       = errors.New("verbosity must not be negative")
	ErrInvalidWorkers         = errors.New("scan workers must be positive")
	ErrInvalidWatchInterval   = errors.New("watch interval must not be negative")
)

// EnvPrefix prefixes the environment variables that override settings,
// as in JPARSE_COMPILER_SOURCE.
const EnvPrefix = "JPARSE"

// Output formats understood by the encoders.
var Formats = []string{"json", "java", "tree", "line"}

// Color modes for problem output.
var ColorModes = []string{"auto", "always", "never"}

type Config struct {
	Compiler CompilerConfig `mapstructure:"compiler" yaml:"compiler"`
	Output   OutputConfig   `mapstructure:"output" yaml:"output"`
	Log      LogConfig      `mapstructure:"log" yaml:"log"`
	LSP      LSPConfig      `mapstructure:"lsp" yaml:"lsp"`
	Scan     ScanConfig     `mapstructure:"scan" yaml:"scan"`
}

// CompilerConfig holds the levels and switches handed to the parser.
type CompilerConfig struct {
	Source        string `mapstructure:"source" yaml:"source"`
	Compliance    string `mapstructure:"compliance" yaml:"compliance"`
	Target        string `mapstructure:"target" yaml:"target"`
	EnablePreview bool   `mapstructure:"enable_preview" yaml:"enable_preview"`
	FoldLiterals  bool   `mapstructure:"fold_literals" yaml:"fold_literals"`
}

type OutputConfig struct {
	Format    string `mapstructure:"format" yaml:"format"`
	Color     string `mapstructure:"color" yaml:"color"`
	Positions bool   `mapstructure:"positions" yaml:"positions"`
	Comments  bool   `mapstructure:"comments" yaml:"comments"`
}

// LogConfig configures commonlog. Verbosity 0 logs errors only; a path
// of "" logs to stderr.
type LogConfig struct {
	Verbosity int    `mapstructure:"verbosity" yaml:"verbosity"`
	Path      string `mapstructure:"path" yaml:"path"`
}

// LSPConfig configures the language server. A zero WatchInterval turns
// the file watcher off.
type LSPConfig struct {
	Name              string        `mapstructure:"name" yaml:"name"`
	TriggerCharacters []string      `mapstructure:"trigger_characters" yaml:"trigger_characters"`
	ScanWorkspace     bool          `mapstructure:"scan_workspace" yaml:"scan_workspace"`
	WatchInterval     time.Duration `mapstructure:"watch_interval" yaml:"watch_interval"`
}

// ScanConfig controls batch parsing of source trees and archives.
type ScanConfig struct {
	Workers  int  `mapstructure:"workers" yaml:"workers"`
	Archives bool `mapstructure:"archives" yaml:"archives"`
}

// Load reads the configuration from path, or from .jparse.yaml in the
// working directory or the user config directory when path is empty.
// A missing default file is not an error; a missing explicit file is.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(".jparse")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, "jparse"))
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Default returns the configuration used when nothing is configured.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	// Defaults always decode.
	_ = v.Unmarshal(&cfg)
	return &cfg
}

func setDefaults(v *viper.Viper) {
	latest := parser.LatestJava.String()
	v.SetDefault("compiler.source", latest)
	v.SetDefault("compiler.compliance", latest)
	v.SetDefault("compiler.target", latest)
	v.SetDefault("compiler.enable_preview", false)
	v.SetDefault("compiler.fold_literals", true)

	v.SetDefault("output.format", "java")
	v.SetDefault("output.color", "auto")
	v.SetDefault("output.positions", false)
	v.SetDefault("output.comments", false)

	v.SetDefault("log.verbosity", 0)
	v.SetDefault("log.path", "")

	v.SetDefault("lsp.name", "jparse")
	v.SetDefault("lsp.trigger_characters", []string{".", "(", "@"})
	v.SetDefault("lsp.scan_workspace", true)
	v.SetDefault("lsp.watch_interval", time.Second)

	v.SetDefault("scan.workers", 4)
	v.SetDefault("scan.archives", true)
}

// Validate checks every setting and reports the first violation.
func (c *Config) Validate() error {
	if _, err := c.Options(); err != nil {
		return err
	}
	if !slices.Contains(Formats, c.Output.Format) {
		return fmt.Errorf("%w: %q (want one of %s)", ErrInvalidFormat, c.Output.Format, strings.Join(Formats, ", "))
	}
	if !slices.Contains(ColorModes, c.Output.Color) {
		return fmt.Errorf("%w: %q (want one of %s)", ErrInvalidColorMode, c.Output.Color, strings.Join(ColorModes, ", "))
	}
	if c.Log.Verbosity < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidVerbosity, c.Log.Verbosity)
	}
	if c.LSP.WatchInterval < 0 {
		return fmt.Errorf("%w: %s", ErrInvalidWatchInterval, c.LSP.WatchInterval)
	}
	if c.Scan.Workers <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidWorkers, c.Scan.Workers)
	}
	return nil
}

// Options converts the compiler settings to parser options.
func (c *Config) Options() (parser.Options, error) {
	opts := parser.DefaultOptions()

	source, err := parser.ParseJavaVersion(c.Compiler.Source)
	if err != nil {
		return opts, fmt.Errorf("%w: %w", ErrInvalidSourceLevel, err)
	}
	compliance, err := parser.ParseJavaVersion(c.Compiler.Compliance)
	if err != nil {
		return opts, fmt.Errorf("%w: %w", ErrInvalidComplianceLevel, err)
	}
	target, err := parser.ParseJavaVersion(c.Compiler.Target)
	if err != nil {
		return opts, fmt.Errorf("%w: %w", ErrInvalidTargetLevel, err)
	}
	if compliance < source {
		return opts, fmt.Errorf("%w: compliance %s, source %s", ErrComplianceBelowSource, compliance, source)
	}

	opts.Source = source
	opts.Compliance = compliance
	opts.Target = target
	opts.EnablePreview = c.Compiler.EnablePreview
	opts.FoldLiterals = c.Compiler.FoldLiterals
	return opts, nil
}

// ParserOptions returns the parser options for a unit named file,
// including the output switches that affect parsing.
func (c *Config) ParserOptions(file string) ([]parser.Option, error) {
	opts, err := c.Options()
	if err != nil {
		return nil, err
	}
	out := []parser.Option{parser.WithOptions(opts)}
	if file != "" {
		out = append(out, parser.WithFile(file))
	}
	if c.Output.Comments {
		out = append(out, parser.WithComments())
	}
	if c.Output.Positions {
		out = append(out, parser.WithPositions())
	}
	return out, nil
}

// Dump writes the configuration as YAML.
func (c *Config) Dump(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return enc.Close()
}
