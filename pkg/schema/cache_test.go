package schema

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubLoader returns a fixed result and counts calls to Load.
type stubLoader struct {
	path   string
	schema *Schema
	err    error
	delay  time.Duration
	loads  atomic.Int32
}

func (l *stubLoader) Path() (string, bool) { return l.path, l.path != "" }

func (l *stubLoader) Load(ctx context.Context, _ string) (*Schema, error) {
	l.loads.Add(1)
	if l.delay > 0 {
		select {
		case <-time.After(l.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return l.schema, l.err
}

func TestCache_Checksum(t *testing.T) {
	path := writeSchema(t, t.TempDir(), "db/schema.yml", "tables: {}\n")
	c := NewCache(&stubLoader{path: path}, nil)

	sum, ok := c.Checksum()
	require.True(t, ok)
	assert.Len(t, sum, 64)

	// The digest is memoized: removing the file does not change it.
	require.NoError(t, os.Remove(path))
	again, ok := c.Checksum()
	require.True(t, ok)
	assert.Equal(t, sum, again)

	c.Reset()
	_, ok = c.Checksum()
	assert.False(t, ok, "reset recomputes against the missing file")
}

func TestCache_ChecksumChangesAfterReset(t *testing.T) {
	path := writeSchema(t, t.TempDir(), "db/schema.yml", "tables: {}\n")
	c := NewCache(&stubLoader{path: path}, nil)

	before, _ := c.Checksum()
	require.NoError(t, os.WriteFile(path, []byte("tables: {users: {columns: [id]}}\n"), 0o600))

	stale, _ := c.Checksum()
	assert.Equal(t, before, stale)

	c.Reset()
	after, ok := c.Checksum()
	require.True(t, ok)
	assert.NotEqual(t, before, after)
}

func TestCache_ChecksumWithoutFile(t *testing.T) {
	c := NewCache(&stubLoader{}, nil)
	sum, ok := c.Checksum()
	assert.False(t, ok)
	assert.Empty(t, sum)

	c = NewCache(&stubLoader{path: filepath.Join(t.TempDir(), "missing.yml")}, nil)
	_, ok = c.Checksum()
	assert.False(t, ok)
}

func TestCache_SchemaLoadedOnce(t *testing.T) {
	loader := &stubLoader{schema: New(NewTable("users", []string{"id"}))}
	c := NewCache(loader, nil)

	first, err := c.Schema(t.Context(), "3.3")
	require.NoError(t, err)
	second, err := c.Schema(t.Context(), "2.7")
	require.NoError(t, err)

	assert.Same(t, first, second, "one slot regardless of version")
	assert.Equal(t, int32(1), loader.loads.Load())

	c.Reset()
	_, err = c.Schema(t.Context(), "3.3")
	require.NoError(t, err)
	assert.Equal(t, int32(2), loader.loads.Load())
}

func TestCache_MissingSchemaIsCached(t *testing.T) {
	loader := &stubLoader{}
	c := NewCache(loader, nil)

	for range 3 {
		s, err := c.Schema(t.Context(), "3.3")
		require.NoError(t, err)
		assert.Nil(t, s)
	}
	assert.Equal(t, int32(1), loader.loads.Load())
}

func TestCache_ErrorsAreNotCached(t *testing.T) {
	loader := &stubLoader{err: errors.New("connection refused")}
	c := NewCache(loader, nil)

	_, err := c.Schema(t.Context(), "3.3")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "schema unavailable")
	assert.Contains(t, err.Error(), "connection refused")

	_, err = c.Schema(t.Context(), "3.3")
	require.Error(t, err)
	assert.Equal(t, int32(2), loader.loads.Load())
}

func TestCache_ConcurrentFirstCallersShareLoad(t *testing.T) {
	loader := &stubLoader{
		schema: New(NewTable("users", []string{"id"})),
		delay:  50 * time.Millisecond,
	}
	c := NewCache(loader, nil)

	const callers = 16
	results := make([]*Schema, callers)
	var wg sync.WaitGroup
	for i := range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s, err := c.Schema(t.Context(), "3.3")
			assert.NoError(t, err)
			results[i] = s
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), loader.loads.Load())
	for _, s := range results {
		assert.Same(t, results[0], s)
	}
}

// gatedLoader blocks its first Load until release is closed and serves a
// different schema on every call.
type gatedLoader struct {
	started chan struct{}
	release chan struct{}
	loads   atomic.Int32
}

func (l *gatedLoader) Path() (string, bool) { return "", false }

func (l *gatedLoader) Load(context.Context, string) (*Schema, error) {
	if l.loads.Add(1) == 1 {
		close(l.started)
		<-l.release
	}
	return New(NewTable("users", []string{"id"})), nil
}

func TestCache_ResetDuringLoadDiscardsResult(t *testing.T) {
	loader := &gatedLoader{started: make(chan struct{}), release: make(chan struct{})}
	c := NewCache(loader, nil)

	inFlight := make(chan *Schema, 1)
	go func() {
		s, err := c.Schema(t.Context(), "3.3")
		assert.NoError(t, err)
		inFlight <- s
	}()

	<-loader.started
	c.Reset()
	close(loader.release)
	stale := <-inFlight
	require.NotNil(t, stale, "the in-flight caller still gets its result")

	fresh, err := c.Schema(t.Context(), "3.3")
	require.NoError(t, err)
	assert.NotSame(t, stale, fresh)
	assert.Equal(t, int32(2), loader.loads.Load())

	again, err := c.Schema(t.Context(), "3.3")
	require.NoError(t, err)
	assert.Same(t, fresh, again)
}

func TestCache_Path(t *testing.T) {
	c := NewCache(&stubLoader{path: "/srv/app/db/schema.yml"}, nil)
	path, ok := c.Path()
	assert.True(t, ok)
	assert.Equal(t, "/srv/app/db/schema.yml", path)
}
