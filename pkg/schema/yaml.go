package schema

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultYAMLPaths are searched, relative to the project root, when no
// schema path is configured.
var DefaultYAMLPaths = []string{"db/schema.yml", "db/schema.yaml"}

func init() {
	Register("yaml", func(cfg Config, logger *slog.Logger) (Loader, error) {
		return NewYAMLLoader(cfg, logger), nil
	})
}

// yamlDocument is the on-disk layout of a YAML schema file:
//
//	version: 2024_05_01_120000
//	tables:
//	  posts:
//	    columns: [id, title, author_id]
//	    indexes:
//	      - name: index_posts_on_author_id
//	        columns: [author_id]
//	        unique: true
type yamlDocument struct {
	Version any                  `yaml:"version"`
	Tables  map[string]yamlTable `yaml:"tables"`
}

type yamlTable struct {
	Columns []string `yaml:"columns"`
	Indexes []Index  `yaml:"indexes"`
}

// YAMLLoader loads a YAML projection of the application schema.
type YAMLLoader struct {
	path   string
	logger *slog.Logger
}

// NewYAMLLoader resolves the schema file from cfg. A configured path is
// taken relative to the project root; otherwise DefaultYAMLPaths are tried.
func NewYAMLLoader(cfg Config, logger *slog.Logger) *YAMLLoader {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &YAMLLoader{path: findSchemaFile(cfg), logger: logger}
}

func findSchemaFile(cfg Config) string {
	if cfg.Path != "" {
		if filepath.IsAbs(cfg.Path) || cfg.ProjectRoot == "" {
			return cfg.Path
		}
		return filepath.Join(cfg.ProjectRoot, cfg.Path)
	}
	for _, candidate := range DefaultYAMLPaths {
		path := filepath.Join(cfg.ProjectRoot, candidate)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// Path returns the schema file when one exists.
func (l *YAMLLoader) Path() (string, bool) {
	if l.path == "" {
		return "", false
	}
	if _, err := os.Stat(l.path); err != nil {
		return "", false
	}
	return l.path, true
}

// Load parses the schema file. The YAML layout has no version-dependent
// syntax, so version is only recorded.
func (l *YAMLLoader) Load(_ context.Context, version string) (*Schema, error) {
	if l.path == "" {
		l.logger.Debug("no schema file found")
		return nil, nil
	}
	data, err := os.ReadFile(l.path)
	if errors.Is(err, fs.ErrNotExist) {
		l.logger.Debug("schema file does not exist", slog.String("path", l.path))
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read schema file %s: %w", l.path, err)
	}

	s, err := ParseYAML(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse schema file %s: %w", l.path, err)
	}
	s.TargetVersion = version

	l.logger.Debug("loaded schema",
		slog.String("path", l.path),
		slog.Int("tables", s.Len()),
		slog.String("target_version", version))
	return s, nil
}

// ParseYAML parses a YAML schema document.
func ParseYAML(data []byte) (*Schema, error) {
	var doc yamlDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}

	tables := make([]*Table, 0, len(doc.Tables))
	for name, t := range doc.Tables {
		tables = append(tables, NewTable(name, t.Columns, t.Indexes...))
	}
	s := New(tables...)
	if doc.Version != nil {
		s.Version = fmt.Sprint(doc.Version)
	}
	return s, nil
}
