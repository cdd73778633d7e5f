package schema

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListLoaders(t *testing.T) {
	assert.Equal(t, []string{"duckdb", "postgres", "sqlite", "yaml"}, ListLoaders())
}

func TestNewLoader(t *testing.T) {
	l, err := NewLoader(Config{}, nil)
	require.NoError(t, err)
	assert.IsType(t, &YAMLLoader{}, l, "yaml is the default")

	_, err = NewLoader(Config{Type: "mysql"}, nil)
	var unknown *UnknownLoaderError
	require.True(t, errors.As(err, &unknown))
	assert.Equal(t, "mysql", unknown.Type)
	assert.Contains(t, unknown.Available, "sqlite")
	assert.Contains(t, err.Error(), `unknown schema loader "mysql"`)
}

func TestNewLoader_DatabaseConfig(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{"sqlite needs path", Config{Type: "sqlite"}, "schema.path is required"},
		{"duckdb needs path", Config{Type: "duckdb"}, "schema.path is required"},
		{"postgres needs dsn", Config{Type: "postgres", Path: "ignored.db"}, "schema.dsn is required"},
		{"sqlite", Config{Type: "sqlite", Path: "db/development.sqlite3"}, ""},
		{"postgres", Config{Type: "postgres", DSN: "postgres://localhost/app"}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := NewLoader(tt.cfg, nil)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.IsType(t, &DatabaseLoader{}, l)
		})
	}
}

func TestValidateTargetVersion(t *testing.T) {
	for _, v := range []string{"3.3", "2.7", "10.0"} {
		assert.NoError(t, ValidateTargetVersion(v), v)
	}
	for _, v := range []string{"", "3", "3.3.0", "v3.3", "three"} {
		assert.Error(t, ValidateTargetVersion(v), v)
	}
}
