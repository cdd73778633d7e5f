package schema

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	"golang.org/x/sync/singleflight"
)

// Cache memoizes the schema checksum and the loaded schema in a single slot
// each. The first caller performs the I/O; concurrent first callers share its
// result and later callers read the slot. Load errors are returned to every
// waiting caller but not memoized, so a later call retries. Reset empties
// both slots; a load that was in flight during Reset returns its result to
// its callers without filling the slot.
type Cache struct {
	loader Loader
	logger *slog.Logger
	group  singleflight.Group

	mu          sync.Mutex
	checksum    string
	hasChecksum bool
	checksumSet bool
	schema      *Schema
	schemaSet   bool
	// generation is bumped by Reset. Results computed under an older
	// generation are not stored.
	generation uint64
}

type checksumResult struct {
	sum string
	ok  bool
}

// NewCache creates an empty cache over loader.
func NewCache(loader Loader, logger *slog.Logger) *Cache {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Cache{loader: loader, logger: logger}
}

// Checksum returns the SHA-256 hex digest of the schema source file. It is
// absent when the loader has no file or the file cannot be read. Computed at
// most once between resets.
func (c *Cache) Checksum() (string, bool) {
	c.mu.Lock()
	if c.checksumSet {
		defer c.mu.Unlock()
		return c.checksum, c.hasChecksum
	}
	c.mu.Unlock()

	v, _, _ := c.group.Do("checksum", func() (any, error) {
		c.mu.Lock()
		if c.checksumSet {
			defer c.mu.Unlock()
			return checksumResult{c.checksum, c.hasChecksum}, nil
		}
		gen := c.generation
		c.mu.Unlock()

		sum, ok := c.computeChecksum()
		c.mu.Lock()
		if c.generation == gen {
			c.checksum, c.hasChecksum, c.checksumSet = sum, ok, true
		}
		c.mu.Unlock()
		return checksumResult{sum, ok}, nil
	})
	r, _ := v.(checksumResult)
	return r.sum, r.ok
}

func (c *Cache) computeChecksum() (string, bool) {
	path, ok := c.loader.Path()
	if !ok {
		return "", false
	}
	f, err := os.Open(path) //nolint:gosec // schema path comes from configuration
	if err != nil {
		c.logger.Warn("failed to open schema file for checksum", slog.String("path", path), slog.Any("error", err))
		return "", false
	}
	defer func() { _ = f.Close() }()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		c.logger.Warn("failed to read schema file for checksum", slog.String("path", path), slog.Any("error", err))
		return "", false
	}
	return hex.EncodeToString(h.Sum(nil)), true
}

// Schema returns the cached schema, loading it on first use for version. The
// slot holds one schema: a later call with a different version still gets
// the first result until Reset. A missing schema source is cached as
// (nil, nil).
func (c *Cache) Schema(ctx context.Context, version string) (*Schema, error) {
	c.mu.Lock()
	if c.schemaSet {
		defer c.mu.Unlock()
		return c.schema, nil
	}
	c.mu.Unlock()

	v, err, shared := c.group.Do("schema", func() (any, error) {
		c.mu.Lock()
		if c.schemaSet {
			defer c.mu.Unlock()
			return c.schema, nil
		}
		gen := c.generation
		c.mu.Unlock()

		s, err := c.loader.Load(ctx, version)
		if err != nil {
			return nil, fmt.Errorf("schema unavailable: %w", err)
		}

		c.mu.Lock()
		if c.generation == gen {
			c.schema, c.schemaSet = s, true
		} else {
			c.logger.Debug("schema reset during load, result not cached")
		}
		c.mu.Unlock()
		return s, nil
	})
	if err != nil {
		return nil, err
	}
	if shared {
		c.logger.Debug("schema load shared with concurrent caller")
	}
	s, _ := v.(*Schema)
	return s, nil
}

// Reset empties both slots. The next Checksum and Schema calls read the
// source again.
func (c *Cache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.checksum, c.hasChecksum, c.checksumSet = "", false, false
	c.schema, c.schemaSet = nil, false
	c.generation++
	c.group.Forget("checksum")
	c.group.Forget("schema")
}

// Path returns the schema source file of the underlying loader, if any.
func (c *Cache) Path() (string, bool) {
	return c.loader.Path()
}
