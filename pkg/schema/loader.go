package schema

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"sort"
	"sync"
)

// Loader reads a schema from its source.
type Loader interface {
	// Path returns the schema source file, if the source is a file. The
	// cache checksums this file.
	Path() (string, bool)

	// Load reads and parses the schema for the given target version. A
	// missing source yields (nil, nil).
	Load(ctx context.Context, version string) (*Schema, error)
}

// Config selects and configures a loader.
type Config struct {
	Type        string // Loader type, e.g. "yaml", "sqlite", "postgres"
	Path        string // Schema file or database file
	DSN         string // Connection string for server databases
	ProjectRoot string // Base directory for file discovery
}

// Factory creates a loader from configuration.
type Factory func(cfg Config, logger *slog.Logger) (Loader, error)

var (
	registryMu sync.RWMutex
	registry   = make(map[string]Factory)
)

// Register adds a loader factory to the registry.
// Called by loader implementations in their init() functions.
func Register(name string, factory Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[name] = factory
}

// NewLoader creates a loader based on config type.
// The logger is passed to the loader (nil uses a discard logger).
func NewLoader(cfg Config, logger *slog.Logger) (Loader, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if cfg.Type == "" {
		cfg.Type = "yaml"
	}

	registryMu.RLock()
	factory, ok := registry[cfg.Type]
	registryMu.RUnlock()
	if !ok {
		return nil, &UnknownLoaderError{Type: cfg.Type, Available: ListLoaders()}
	}
	return factory(cfg, logger)
}

// ListLoaders returns all registered loader names (sorted).
func ListLoaders() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// UnknownLoaderError is returned when an unknown loader type is requested.
type UnknownLoaderError struct {
	Type      string
	Available []string
}

func (e *UnknownLoaderError) Error() string {
	return fmt.Sprintf("unknown schema loader %q\nAvailable loaders: %v\nHint: Check schema.type in recordlint.yaml", e.Type, e.Available)
}

var targetVersionPattern = regexp.MustCompile(`^\d+\.\d+$`)

// ValidateTargetVersion checks that version looks like "major.minor".
func ValidateTargetVersion(version string) error {
	if !targetVersionPattern.MatchString(version) {
		return fmt.Errorf("invalid target version %q: expected major.minor, e.g. 3.3", version)
	}
	return nil
}
