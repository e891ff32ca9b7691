package parser

import (
	"log/slog"

	"github.com/dbnlang/dbn/core/invariant"
	"github.com/dbnlang/dbn/core/logging"
	"github.com/dbnlang/dbn/runtime/scope"
)

// Opt configures Parse.
type Opt func(*Config)

// Config holds parser configuration.
type Config struct {
	scope    *scope.Scope
	logger   *slog.Logger
	maxDepth int
}

// WithScope starts interpretation in s instead of an empty scope. Top-level
// Set, Repeat and Command statements write into s, so the caller can read
// the final bindings afterwards.
func WithScope(s *scope.Scope) Opt {
	invariant.NotNil(s, "scope")
	return func(c *Config) {
		c.scope = s
	}
}

// WithLogger overrides the package-wide logger for one call.
func WithLogger(l *slog.Logger) Opt {
	return func(c *Config) {
		c.logger = l
	}
}

// WithMaxDepth limits how deeply command invocations may nest. Zero, the
// default, means no limit.
func WithMaxDepth(n int) Opt {
	invariant.Precondition(n >= 0, "max depth must not be negative, got %d", n)
	return func(c *Config) {
		c.maxDepth = n
	}
}

func newConfig(opts []Opt) *Config {
	cfg := &Config{logger: logging.Get()}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.scope == nil {
		cfg.scope = scope.New()
	}
	return cfg
}
