package reader

import (
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/tsawler/pdfnative/core"
)

// Default limits applied by Load.
const (
	DefaultMaxResolveDepth = 32
	DefaultMaxPageDepth    = 64
	DefaultMaxXRefSections = 512
)

// Options control how a Document is loaded.
type Options struct {
	// Logger receives reports about recoverable problems. Nil discards them.
	Logger *slog.Logger `yaml:"-"`

	// MaxResolveDepth bounds the length of a reference chain.
	MaxResolveDepth int `yaml:"max_resolve_depth"`

	// MaxPageDepth bounds the nesting of the page tree.
	MaxPageDepth int `yaml:"max_page_depth"`

	// MaxXRefSections bounds the number of xref sections followed via /Prev.
	MaxXRefSections int `yaml:"max_xref_sections"`

	// LogLevel is only used when options come from a file; see Level.
	LogLevel string `yaml:"log_level"`

	// Filters decode stream payloads. Nil means core.DefaultFilters.
	Filters core.FilterSet `yaml:"-"`
}

// DefaultOptions returns the options used when Load gets none.
func DefaultOptions() Options {
	return Options{
		MaxResolveDepth: DefaultMaxResolveDepth,
		MaxPageDepth:    DefaultMaxPageDepth,
		MaxXRefSections: DefaultMaxXRefSections,
		LogLevel:        "warn",
		Filters:         core.DefaultFilters,
	}
}

// Option is a functional option for Load.
type Option func(*Options)

// WithLogger sets the logger for load and lookup reports.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Options) {
		o.Logger = logger
	}
}

// WithMaxResolveDepth sets the maximum reference chain length.
func WithMaxResolveDepth(depth int) Option {
	return func(o *Options) {
		if depth > 0 {
			o.MaxResolveDepth = depth
		}
	}
}

// WithMaxPageDepth sets the maximum page tree depth.
func WithMaxPageDepth(depth int) Option {
	return func(o *Options) {
		if depth > 0 {
			o.MaxPageDepth = depth
		}
	}
}

// WithMaxXRefSections sets the maximum number of xref sections read.
func WithMaxXRefSections(n int) Option {
	return func(o *Options) {
		if n > 0 {
			o.MaxXRefSections = n
		}
	}
}

// WithFilters replaces the stream decoders.
func WithFilters(set core.FilterSet) Option {
	return func(o *Options) {
		if set != nil {
			o.Filters = set
		}
	}
}

// WithOptions applies every non-zero field of opts, typically read with
// LoadOptionsFile.
func WithOptions(opts Options) Option {
	return func(o *Options) {
		if opts.Logger != nil {
			o.Logger = opts.Logger
		}
		WithMaxResolveDepth(opts.MaxResolveDepth)(o)
		WithMaxPageDepth(opts.MaxPageDepth)(o)
		WithMaxXRefSections(opts.MaxXRefSections)(o)
		if opts.LogLevel != "" {
			o.LogLevel = opts.LogLevel
		}
		WithFilters(opts.Filters)(o)
	}
}

// Level parses LogLevel. An empty value means warn.
func (o Options) Level() (slog.Level, error) {
	var level slog.Level
	if o.LogLevel == "" {
		return slog.LevelWarn, nil
	}
	if err := level.UnmarshalText([]byte(o.LogLevel)); err != nil {
		return slog.LevelWarn, fmt.Errorf("invalid log_level %q: %w", o.LogLevel, err)
	}
	return level, nil
}

// ParseOptions reads options from YAML. Keys that are absent keep their
// default value.
func ParseOptions(data []byte) (Options, error) {
	opts := DefaultOptions()
	if err := yaml.Unmarshal(data, &opts); err != nil {
		return Options{}, fmt.Errorf("failed to parse options: %w", err)
	}
	if opts.MaxResolveDepth < 0 || opts.MaxPageDepth < 0 || opts.MaxXRefSections < 0 {
		return Options{}, fmt.Errorf("limits must not be negative")
	}
	if _, err := opts.Level(); err != nil {
		return Options{}, err
	}
	return opts, nil
}

// LoadOptionsFile reads options from a YAML file.
func LoadOptionsFile(path string) (Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Options{}, fmt.Errorf("failed to read options file: %w", err)
	}
	return ParseOptions(data)
}
