package schema

import (
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDatabaseLoader_Mock(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectQuery("FROM sqlite_master m\\s+JOIN pragma_table_info").
		WillReturnRows(sqlmock.NewRows([]string{"table", "column"}).
			AddRow("posts", "id").
			AddRow("posts", "title").
			AddRow("users", "id").
			AddRow("users", "email").
			AddRow("users", "account_id"))
	mock.ExpectQuery("JOIN pragma_index_list").
		WillReturnRows(sqlmock.NewRows([]string{"table", "index", "unique", "column"}).
			AddRow("users", "index_users_on_account_id_and_email", int64(1), "account_id").
			AddRow("users", "index_users_on_account_id_and_email", int64(1), "email").
			AddRow("users", "index_users_on_email", int64(0), "email"))

	l := NewDatabaseLoaderFromDB(db, DialectSQLite, nil)
	_, ok := l.Path()
	assert.False(t, ok, "an open database has no file to checksum")

	s, err := l.Load(t.Context(), "3.3")
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())

	assert.Equal(t, 2, s.Len())
	assert.Equal(t, "3.3", s.TargetVersion)

	users, ok := s.Table("users")
	require.True(t, ok)
	assert.Equal(t, []string{"id", "email", "account_id"}, users.Columns())
	assert.Equal(t, []Index{
		{Name: "index_users_on_account_id_and_email", Columns: []string{"account_id", "email"}, Unique: true},
		{Name: "index_users_on_email", Columns: []string{"email"}},
	}, users.Indexes)

	posts, ok := s.Table("posts")
	require.True(t, ok)
	assert.Empty(t, posts.Indexes)
}

func TestDatabaseLoader_MockErrors(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(mock sqlmock.Sqlmock)
		wantErr string
	}{
		{
			name: "column query fails",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("pragma_table_info").WillReturnError(errors.New("disk I/O error"))
			},
			wantErr: "failed to query column metadata",
		},
		{
			name: "index query fails",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("pragma_table_info").
					WillReturnRows(sqlmock.NewRows([]string{"table", "column"}).AddRow("users", "id"))
				mock.ExpectQuery("pragma_index_list").WillReturnError(errors.New("locked"))
			},
			wantErr: "failed to query index metadata",
		},
		{
			name: "row error",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("pragma_table_info").
					WillReturnRows(sqlmock.NewRows([]string{"table", "column"}).
						AddRow("users", "id").
						RowError(0, errors.New("corrupt page")))
			},
			wantErr: "error iterating column metadata",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer func() { _ = db.Close() }()
			tt.setup(mock)

			_, err = NewDatabaseLoaderFromDB(db, DialectSQLite, nil).Load(t.Context(), "3.3")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestDatabaseLoader_DuckDBSkipsIndexes(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectQuery("FROM information_schema.columns").
		WithArgs("main").
		WillReturnRows(sqlmock.NewRows([]string{"table_name", "column_name"}).AddRow("events", "id"))

	s, err := NewDatabaseLoaderFromDB(db, DialectDuckDB, nil).Load(t.Context(), "3.3")
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())

	events, ok := s.Table("events")
	require.True(t, ok)
	assert.Empty(t, events.Indexes)
}

func TestDatabaseLoader_SQLite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "db", "development.sqlite3")
	writeSchema(t, dir, "db/.keep", "")

	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	for _, stmt := range []string{
		`CREATE TABLE users (id INTEGER PRIMARY KEY, email TEXT NOT NULL, account_id INTEGER)`,
		`CREATE UNIQUE INDEX index_users_on_account_id_and_email ON users (account_id, email)`,
		`CREATE TABLE posts (id INTEGER PRIMARY KEY, title TEXT, author_id INTEGER)`,
		`CREATE INDEX index_posts_on_author_id ON posts (author_id)`,
	} {
		_, err := db.ExecContext(t.Context(), stmt)
		require.NoError(t, err, stmt)
	}
	require.NoError(t, db.Close())

	l, err := NewLoader(Config{Type: "sqlite", Path: "db/development.sqlite3", ProjectRoot: dir}, nil)
	require.NoError(t, err)

	got, ok := l.Path()
	require.True(t, ok)
	assert.Equal(t, path, got)

	s, err := l.Load(t.Context(), "3.3")
	require.NoError(t, err)
	assert.Equal(t, 2, s.Len())

	users, ok := s.Table("users")
	require.True(t, ok)
	assert.Equal(t, []string{"id", "email", "account_id"}, users.Columns())
	assert.True(t, users.HasUniqueIndexCovering([]string{"email", "account_id"}))
	assert.False(t, users.HasUniqueIndexCovering([]string{"email"}))

	posts, ok := s.Table("posts")
	require.True(t, ok)
	assert.False(t, posts.HasUniqueIndexCovering([]string{"author_id"}))
}

func TestDatabaseLoader_MissingFile(t *testing.T) {
	dir := t.TempDir()
	l, err := NewDatabaseLoader(DialectSQLite, Config{Path: "db/missing.sqlite3", ProjectRoot: dir}, nil)
	require.NoError(t, err)

	_, ok := l.Path()
	assert.False(t, ok)

	s, err := l.Load(t.Context(), "3.3")
	require.NoError(t, err)
	assert.Nil(t, s)
	assert.NoFileExists(t, filepath.Join(dir, "db", "missing.sqlite3"), "the driver must not create it")
}
