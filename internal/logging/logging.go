// Package logging provides the category-scoped debug logging facade for the
// response compiler. The pipeline never writes to the terminal on its own:
// everything defaults to a nop logger, and hosts that want to watch the
// compiler work (dropped extraction candidates, scrub decisions) call
// EnableDebug at startup.
package logging

import (
	"sync"

	"go.uber.org/zap"
)

// Category names a subsystem of the compiler pipeline.
type Category string

const (
	CategoryLexer     Category = "lexer"
	CategoryParser    Category = "parser"
	CategoryAnalyzer  Category = "analyzer"
	CategoryOptimizer Category = "optimizer"
	CategoryRenderer  Category = "renderer"
	CategoryCompiler  Category = "compiler"
)

var (
	mu   sync.RWMutex
	root = zap.NewNop()
)

// EnableDebug installs a development zap core so category loggers emit.
// Returns an error only if zap refuses to build its config.
func EnableDebug() error {
	cfg := zap.NewDevelopmentConfig()
	logger, err := cfg.Build()
	if err != nil {
		return err
	}
	SetLogger(logger)
	return nil
}

// SetLogger replaces the root logger. Hosts embedding the compiler can
// route its debug output into their own zap tree.
func SetLogger(logger *zap.Logger) {
	if logger == nil {
		logger = zap.NewNop()
	}
	mu.Lock()
	root = logger
	mu.Unlock()
}

// Get returns the sugared logger for a category.
func Get(cat Category) *zap.SugaredLogger {
	mu.RLock()
	defer mu.RUnlock()
	return root.Sugar().Named(string(cat))
}

// Debug logs a formatted debug message under the given category.
func Debug(cat Category, format string, args ...any) {
	Get(cat).Debugf(format, args...)
}
