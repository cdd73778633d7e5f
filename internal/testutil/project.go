package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// SchemaYAML is the schema of the project created by SetupTestProject.
const SchemaYAML = `version: 2024_05_01_120000
tables:
  users:
    columns: [id, email, name, account_id]
    indexes:
      - name: index_users_on_email
        columns: [email]
        unique: true
  blog_posts:
    columns: [id, title, slug, author_id, owner_id, owner_type]
    indexes:
      - name: index_blog_posts_on_author_id
        columns: [author_id]
`

// ClassJSON renders `class <name> < <superclass>` in parser JSON with the
// given body statements. An empty superclass omits it.
func ClassJSON(name, superclass string, body ...string) string {
	super := "null"
	if superclass != "" {
		super = constJSON(superclass)
	}
	b := "null"
	switch len(body) {
	case 0:
	case 1:
		b = body[0]
	default:
		b = `["begin", ` + strings.Join(body, ", ") + `]`
	}
	return `{"type": "class", "loc": {"line": 1, "column": 0}, "children": [` +
		constJSON(name) + `, ` + super + `, ` + b + `]}`
}

// ModuleJSON renders `module <name>` wrapping body statements.
func ModuleJSON(name string, body ...string) string {
	b := "null"
	switch len(body) {
	case 0:
	case 1:
		b = body[0]
	default:
		b = `["begin", ` + strings.Join(body, ", ") + `]`
	}
	return `["module", ` + constJSON(name) + `, ` + b + `]`
}

// constJSON renders a constant path such as "Blog::Post" or "::Base".
func constJSON(path string) string {
	scope := "null"
	if strings.HasPrefix(path, "::") {
		scope = `["cbase"]`
		path = strings.TrimPrefix(path, "::")
	}
	out := scope
	for _, seg := range strings.Split(path, "::") {
		out = `["const", ` + out + `, "` + seg + `"]`
	}
	return out
}

// WriteFile writes content under dir, creating parent directories.
func WriteFile(t testing.TB, dir, rel, content string) string {
	t.Helper()
	path := filepath.Join(dir, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		t.Fatalf("failed to create directory for %s: %v", rel, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write %s: %v", rel, err)
	}
	return path
}

// SetupTestProject creates a temporary project with a config file, a YAML
// schema and three model files:
//
//	app/models/user.json       User, unique validation on an unindexed column
//	app/models/blog/post.json  Blog::Post, redundant foreign key
//	app/models/broken.json     not valid JSON
func SetupTestProject(t testing.TB) string {
	t.Helper()
	dir := t.TempDir()

	WriteFile(t, dir, "recordlint.yaml", "models_dir: app/models\nschema:\n  type: yaml\n  path: db/schema.yml\n")
	WriteFile(t, dir, "db/schema.yml", SchemaYAML)

	WriteFile(t, dir, "app/models/user.json", ClassJSON("User", "ApplicationRecord",
		`["send", null, "validates", ["sym", "email"], ["hash", ["pair", ["sym", "uniqueness"], ["true"]]]]`,
		`{"type": "send", "loc": {"line": 3, "column": 2}, "children": [null, "validates_uniqueness_of", ["sym", "name"]]}`,
	))
	WriteFile(t, dir, "app/models/blog/post.json", ModuleJSON("Blog", ClassJSON("Post", "ApplicationRecord",
		`{"type": "send", "loc": {"line": 3, "column": 4}, "children": [null, "belongs_to", ["sym", "author"],
			["hash", ["pair", ["sym", "foreign_key"], ["sym", "author_id"]]]]}`,
		`["send", null, "belongs_to", ["sym", "owner"], ["hash", ["pair", ["sym", "polymorphic"], ["true"]]]]`,
	)))
	WriteFile(t, dir, "app/models/broken.json", `["class", `)

	return dir
}
