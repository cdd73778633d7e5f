// Package engine ties the model analysis pipeline together: it discovers AST
// files, picks out Active Record models, loads the schema once through a
// cache and runs lint rules over every model in parallel.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"

	"github.com/leapstack-labs/recordlint/pkg/ast"
	"github.com/leapstack-labs/recordlint/pkg/lint"
	"github.com/leapstack-labs/recordlint/pkg/model"
	"github.com/leapstack-labs/recordlint/pkg/schema"
)

// Engine analyzes model files against one schema source.
type Engine struct {
	cache         *schema.Cache // nil when no loader is configured
	namer         model.TableNamer
	targetVersion string
	concurrency   int
	lintConfig    *lint.Config
	only          []string

	// Structured logger
	logger *slog.Logger
}

// Config holds engine configuration.
type Config struct {
	// Loader reads the schema. Nil runs without a schema.
	Loader schema.Loader
	// Namer resolves table names.
	Namer model.TableNamer
	// TargetVersion is forwarded to the loader, e.g. "3.3".
	TargetVersion string
	// Concurrency bounds parallel file analysis. Zero means GOMAXPROCS.
	Concurrency int
	// Lint configures rule selection, severities and options.
	Lint *lint.Config
	// Only restricts the run to these rule IDs.
	Only []string
	// Logger is the structured logger (optional, uses discard if nil)
	Logger *slog.Logger
}

// New creates an engine. The schema is not read until first needed.
func New(cfg Config) (*Engine, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	if cfg.TargetVersion != "" {
		if err := schema.ValidateTargetVersion(cfg.TargetVersion); err != nil {
			return nil, err
		}
	}
	if cfg.Concurrency < 0 {
		return nil, fmt.Errorf("concurrency must not be negative, got %d", cfg.Concurrency)
	}
	concurrency := cfg.Concurrency
	if concurrency == 0 {
		concurrency = runtime.GOMAXPROCS(0)
	}

	var cache *schema.Cache
	if cfg.Loader != nil {
		cache = schema.NewCache(cfg.Loader, logger)
	}

	logger.Debug("initializing engine",
		"target_version", cfg.TargetVersion,
		"concurrency", concurrency,
		"schema", cache != nil)

	return &Engine{
		cache:         cache,
		namer:         cfg.Namer,
		targetVersion: cfg.TargetVersion,
		concurrency:   concurrency,
		lintConfig:    cfg.Lint,
		only:          cfg.Only,
		logger:        logger,
	}, nil
}

// Schema returns the cached schema, loading it on first use. It is nil
// without error when no schema source exists.
func (e *Engine) Schema(ctx context.Context) (*schema.Schema, error) {
	if e.cache == nil {
		return nil, nil
	}
	return e.cache.Schema(ctx, e.targetVersion)
}

// Checksum returns the schema file digest, if the source is a file.
func (e *Engine) Checksum() (string, bool) {
	if e.cache == nil {
		return "", false
	}
	return e.cache.Checksum()
}

// ResetSchema drops the cached schema and checksum so the next run reloads
// them.
func (e *Engine) ResetSchema() {
	if e.cache == nil {
		return
	}
	e.logger.Debug("schema cache reset")
	e.cache.Reset()
}

// SchemaPath returns the schema source file, if any.
func (e *Engine) SchemaPath() (string, bool) {
	if e.cache == nil {
		return "", false
	}
	return e.cache.Path()
}

// loadSchema fetches the schema for a run. Load errors degrade to "no
// schema" so schema-aware rules are skipped instead of failing the run.
func (e *Engine) loadSchema(ctx context.Context, logger *slog.Logger) *schema.Schema {
	s, err := e.Schema(ctx)
	switch {
	case err != nil:
		logger.Warn("schema unavailable, schema-aware rules are skipped", "error", err)
		return nil
	case s == nil:
		logger.Info("no schema source found, schema-aware rules are skipped")
		return nil
	default:
		logger.Debug("schema loaded", "tables", s.Len(), "version", s.Version)
		return s
	}
}

// Model is one Active Record class found in an AST file.
type Model struct {
	FilePath  string
	Class     *ast.Class
	TableName string
}

// Models decodes an AST file and returns the classes that inherit from the
// ORM base, in document order.
func (e *Engine) Models(path string) ([]Model, error) {
	root, err := ast.ParseFile(path)
	if err != nil {
		return nil, err
	}

	var models []Model
	for class := range ast.Classes(root) {
		if !model.InheritsFromBase(class.Node()) {
			continue
		}
		models = append(models, Model{
			FilePath:  path,
			Class:     class,
			TableName: e.namer.Resolve(class),
		})
	}
	return models, nil
}
