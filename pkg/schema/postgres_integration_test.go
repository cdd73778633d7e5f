//go:build integration

package schema

import (
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

func startPostgres(t *testing.T) string {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping integration test in short mode (requires Docker)")
	}

	ctx := t.Context()
	container, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("app"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = testcontainers.TerminateContainer(container) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)
	return dsn
}

func TestDatabaseLoader_Postgres(t *testing.T) {
	dsn := startPostgres(t)

	db, err := sql.Open("pgx", dsn)
	require.NoError(t, err)
	for _, stmt := range []string{
		`CREATE TABLE users (id bigserial PRIMARY KEY, email text NOT NULL, account_id bigint)`,
		`CREATE UNIQUE INDEX index_users_on_account_id_and_email ON users (account_id, email)`,
		`CREATE TABLE blog_posts (id bigserial PRIMARY KEY, title text, owner_id bigint, owner_type text)`,
	} {
		_, err := db.ExecContext(t.Context(), stmt)
		require.NoError(t, err, stmt)
	}
	require.NoError(t, db.Close())

	l, err := NewLoader(Config{Type: "postgres", DSN: dsn}, nil)
	require.NoError(t, err)

	_, ok := l.Path()
	assert.False(t, ok)

	s, err := l.Load(t.Context(), "3.3")
	require.NoError(t, err)

	users, ok := s.Table("users")
	require.True(t, ok)
	assert.Equal(t, []string{"id", "email", "account_id"}, users.Columns())
	assert.True(t, users.HasUniqueIndexCovering([]string{"email", "account_id"}))
	assert.True(t, users.HasUniqueIndexCovering([]string{"id"}), "primary key index is unique")

	posts, ok := s.Table("blog_posts")
	require.True(t, ok)
	assert.True(t, posts.HasColumn("owner_type"))
}
