package schema

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	_ "github.com/jackc/pgx/v5/stdlib"  // postgres driver
	_ "github.com/marcboeker/go-duckdb" // duckdb driver
	_ "modernc.org/sqlite"              // SQLite driver (pure Go)
)

// Dialect identifies the catalog queries a DatabaseLoader runs.
type Dialect string

// Supported database dialects.
const (
	DialectSQLite   Dialect = "sqlite"
	DialectDuckDB   Dialect = "duckdb"
	DialectPostgres Dialect = "postgres"
)

func init() {
	for _, d := range []Dialect{DialectSQLite, DialectDuckDB, DialectPostgres} {
		Register(string(d), func(cfg Config, logger *slog.Logger) (Loader, error) {
			return NewDatabaseLoader(d, cfg, logger)
		})
	}
}

// catalog holds the two queries a dialect needs. Both return rows ordered so
// that columns and index columns come out in declaration order:
//
//	columns: table_name, column_name
//	indexes: table_name, index_name, is_unique (0/1), column_name
type catalog struct {
	driver  string
	columns string
	indexes string // empty when the dialect exposes no index columns
	args    []any
}

var catalogs = map[Dialect]catalog{
	DialectSQLite: {
		driver: "sqlite",
		columns: `
			SELECT m.name, p.name
			FROM sqlite_master m
			JOIN pragma_table_info(m.name) p
			WHERE m.type = 'table' AND m.name NOT LIKE 'sqlite_%'
			ORDER BY m.name, p.cid`,
		indexes: `
			SELECT m.name, il.name, il."unique", ii.name
			FROM sqlite_master m
			JOIN pragma_index_list(m.name) il
			JOIN pragma_index_info(il.name) ii
			WHERE m.type = 'table' AND m.name NOT LIKE 'sqlite_%'
			ORDER BY m.name, il.name, ii.seqno`,
	},
	DialectDuckDB: {
		driver: "duckdb",
		columns: `
			SELECT table_name, column_name
			FROM information_schema.columns
			WHERE table_schema = ?
			ORDER BY table_name, ordinal_position`,
		args: []any{"main"},
	},
	DialectPostgres: {
		driver: "pgx",
		columns: `
			SELECT table_name, column_name
			FROM information_schema.columns
			WHERE table_schema = $1
			ORDER BY table_name, ordinal_position`,
		indexes: `
			SELECT t.relname, i.relname, CASE WHEN ix.indisunique THEN 1 ELSE 0 END, a.attname
			FROM pg_index ix
			JOIN pg_class t ON t.oid = ix.indrelid
			JOIN pg_class i ON i.oid = ix.indexrelid
			JOIN pg_namespace n ON n.oid = t.relnamespace
			JOIN LATERAL unnest(ix.indkey) WITH ORDINALITY AS k(attnum, ord) ON true
			JOIN pg_attribute a ON a.attrelid = t.oid AND a.attnum = k.attnum
			WHERE n.nspname = $1
			ORDER BY t.relname, i.relname, k.ord`,
		args: []any{"public"},
	},
}

// DatabaseLoader reads table and index columns from a database catalog.
type DatabaseLoader struct {
	dialect Dialect
	cat     catalog
	path    string // database file for file-backed dialects
	dsn     string
	db      *sql.DB
	logger  *slog.Logger
}

// NewDatabaseLoader configures a loader for dialect. File-backed dialects
// use cfg.Path (relative to the project root); postgres uses cfg.DSN. No
// connection is opened until Load.
func NewDatabaseLoader(dialect Dialect, cfg Config, logger *slog.Logger) (*DatabaseLoader, error) {
	cat, ok := catalogs[dialect]
	if !ok {
		return nil, fmt.Errorf("unsupported database dialect %q", dialect)
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	l := &DatabaseLoader{dialect: dialect, cat: cat, dsn: cfg.DSN, logger: logger}
	if dialect == DialectPostgres {
		if cfg.DSN == "" {
			return nil, fmt.Errorf("schema.dsn is required for the postgres loader")
		}
		return l, nil
	}

	if cfg.Path == "" {
		return nil, fmt.Errorf("schema.path is required for the %s loader", dialect)
	}
	l.path = cfg.Path
	if !filepath.IsAbs(l.path) && cfg.ProjectRoot != "" {
		l.path = filepath.Join(cfg.ProjectRoot, l.path)
	}
	return l, nil
}

// NewDatabaseLoaderFromDB wraps an already open database. The caller keeps
// ownership of db.
func NewDatabaseLoaderFromDB(db *sql.DB, dialect Dialect, logger *slog.Logger) *DatabaseLoader {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &DatabaseLoader{dialect: dialect, cat: catalogs[dialect], db: db, logger: logger}
}

// Path returns the database file for file-backed dialects.
func (l *DatabaseLoader) Path() (string, bool) {
	if l.path == "" {
		return "", false
	}
	if _, err := os.Stat(l.path); err != nil {
		return "", false
	}
	return l.path, true
}

// Load reads the catalog. A file-backed database that does not exist yields
// (nil, nil) rather than being created by the driver.
func (l *DatabaseLoader) Load(ctx context.Context, version string) (*Schema, error) {
	db := l.db
	if db == nil {
		if l.path != "" {
			if _, err := os.Stat(l.path); err != nil {
				l.logger.Debug("schema database does not exist", slog.String("path", l.path))
				return nil, nil
			}
		}
		source := l.dsn
		if source == "" {
			source = l.path
		}

		l.logger.Debug("opening schema database", slog.String("dialect", string(l.dialect)))
		opened, err := sql.Open(l.cat.driver, source)
		if err != nil {
			return nil, fmt.Errorf("failed to open %s database: %w", l.dialect, err)
		}
		defer func() { _ = opened.Close() }()
		if err := opened.PingContext(ctx); err != nil {
			return nil, fmt.Errorf("failed to ping %s database: %w", l.dialect, err)
		}
		db = opened
	}

	columns, order, err := l.readColumns(ctx, db)
	if err != nil {
		return nil, err
	}
	indexes, err := l.readIndexes(ctx, db)
	if err != nil {
		return nil, err
	}

	tables := make([]*Table, 0, len(order))
	for _, name := range order {
		tables = append(tables, NewTable(name, columns[name], indexes[name]...))
	}
	s := New(tables...)
	s.TargetVersion = version

	l.logger.Debug("loaded schema from database",
		slog.String("dialect", string(l.dialect)),
		slog.Int("tables", s.Len()))
	return s, nil
}

func (l *DatabaseLoader) readColumns(ctx context.Context, db *sql.DB) (map[string][]string, []string, error) {
	rows, err := db.QueryContext(ctx, l.cat.columns, l.cat.args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query column metadata: %w", err)
	}
	defer func() { _ = rows.Close() }()

	columns := make(map[string][]string)
	var order []string
	for rows.Next() {
		var table, column string
		if err := rows.Scan(&table, &column); err != nil {
			return nil, nil, fmt.Errorf("failed to scan column metadata: %w", err)
		}
		if _, seen := columns[table]; !seen {
			order = append(order, table)
		}
		columns[table] = append(columns[table], column)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating column metadata: %w", err)
	}
	return columns, order, nil
}

func (l *DatabaseLoader) readIndexes(ctx context.Context, db *sql.DB) (map[string][]Index, error) {
	indexes := make(map[string][]Index)
	if l.cat.indexes == "" {
		return indexes, nil
	}

	rows, err := db.QueryContext(ctx, l.cat.indexes, l.cat.args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query index metadata: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var table, index, column string
		var unique int64
		if err := rows.Scan(&table, &index, &unique, &column); err != nil {
			return nil, fmt.Errorf("failed to scan index metadata: %w", err)
		}
		list := indexes[table]
		if n := len(list); n > 0 && list[n-1].Name == index {
			list[n-1].Columns = append(list[n-1].Columns, column)
		} else {
			list = append(list, Index{Name: index, Columns: []string{column}, Unique: unique != 0})
		}
		indexes[table] = list
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating index metadata: %w", err)
	}
	return indexes, nil
}
