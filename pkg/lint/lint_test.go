package lint

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/recordlint/pkg/ast"
	"github.com/leapstack-labs/recordlint/pkg/model"
	"github.com/leapstack-labs/recordlint/pkg/schema"
)

// withRules replaces the global registry for the duration of a test.
func withRules(t *testing.T, rules ...RuleDef) {
	t.Helper()
	saved := GetAll()
	Clear()
	for _, r := range rules {
		Register(r)
	}
	t.Cleanup(func() {
		Clear()
		for _, r := range saved {
			Register(r)
		}
	})
}

// fixedRule reports one diagnostic with only a message, leaving the analyzer
// to fill in the rest.
func fixedRule(id, group string, needsSchema bool) RuleDef {
	return RuleDef{
		ID:          id,
		Name:        "test." + id,
		Group:       group,
		Severity:    SeverityWarning,
		NeedsSchema: needsSchema,
		Check: func(ctx *Context, opts map[string]any) []Diagnostic {
			msg := id + " on " + ctx.TableName
			if v, ok := opts["suffix"].(string); ok {
				msg += v
			}
			return []Diagnostic{{RuleID: id, Severity: SeverityWarning, Message: msg}}
		},
	}
}

func testContext(t *testing.T, s *schema.Schema) *Context {
	t.Helper()
	root, err := ast.Decode([]byte(`["module", ["const", null, "Blog"],
	  {"type": "class", "children": [["const", null, "Post"], ["const", null, "ApplicationRecord"], null],
	   "loc": {"line": 2, "column": 2}}]`))
	require.NoError(t, err)
	for c := range ast.Classes(root) {
		return NewContext("app/models/blog/post.json", c, s, model.TableNamer{})
	}
	t.Fatal("no class")
	return nil
}

func TestRegistry(t *testing.T) {
	withRules(t,
		fixedRule("RS02", "schema", true),
		fixedRule("RS01", "schema", true),
		fixedRule("RS04", "association", false),
	)

	assert.Equal(t, 3, Count())

	ids := make([]string, 0, 3)
	for _, r := range GetAll() {
		ids = append(ids, r.ID)
	}
	assert.Equal(t, []string{"RS01", "RS02", "RS04"}, ids)

	r, ok := GetByID("RS04")
	require.True(t, ok)
	assert.Equal(t, "association", r.Group)
	_, ok = GetByID("RS99")
	assert.False(t, ok)

	assert.Len(t, GetByGroup("schema"), 2)
	assert.Empty(t, GetByGroup("missing"))

	infos := AllRules()
	require.Len(t, infos, 3)
	assert.Equal(t, "test.RS01", infos[0].Name)
	assert.True(t, infos[0].NeedsSchema)
	assert.Equal(t, SeverityWarning, infos[0].DefaultSeverity)
}

func TestAnalyzer_FillsDiagnosticFields(t *testing.T) {
	withRules(t, fixedRule("RS04", "association", false))

	diags := NewAnalyzer(nil).Analyze(testContext(t, nil))
	require.Len(t, diags, 1)
	d := diags[0]
	assert.Equal(t, "RS04 on blog_posts", d.Message)
	assert.Equal(t, "app/models/blog/post.json", d.FilePath)
	assert.Equal(t, "Blog::Post", d.Class)
	assert.Equal(t, ast.Position{Line: 2, Column: 2}, d.Pos)
}

func TestAnalyzer_SkipsSchemaRulesWithoutSchema(t *testing.T) {
	withRules(t,
		fixedRule("RS01", "schema", true),
		fixedRule("RS04", "association", false),
	)

	diags := NewAnalyzer(nil).Analyze(testContext(t, nil))
	require.Len(t, diags, 1)
	assert.Equal(t, "RS04", diags[0].RuleID)

	s := schema.New(schema.NewTable("blog_posts", []string{"id"}))
	ctx := testContext(t, s)
	require.NotNil(t, ctx.Table)
	assert.Len(t, NewAnalyzer(nil).Analyze(ctx), 2)
}

func TestAnalyzer_ConfigAndOnly(t *testing.T) {
	withRules(t,
		fixedRule("RS01", "schema", false),
		fixedRule("RS02", "schema", false),
		fixedRule("RS04", "association", false),
	)

	cfg := NewConfig().
		Disable("RS02").
		SetSeverity("RS01", SeverityError).
		SetRuleOptions("RS04", map[string]any{"suffix": "!"})

	diags := NewAnalyzer(cfg).Analyze(testContext(t, nil))
	require.Len(t, diags, 2)
	assert.Equal(t, "RS01", diags[0].RuleID)
	assert.Equal(t, SeverityError, diags[0].Severity)
	assert.Equal(t, "RS04 on blog_posts!", diags[1].Message)
	assert.Equal(t, SeverityWarning, diags[1].Severity)

	a := NewAnalyzer(cfg).Only("RS02", "RS04")
	ids := make([]string, 0)
	for _, r := range a.Rules() {
		ids = append(ids, r.ID)
	}
	assert.Equal(t, []string{"RS04"}, ids, "disabled wins over only")

	assert.Nil(t, NewAnalyzer(nil).Analyze(nil))
	assert.Nil(t, NewAnalyzer(nil).Analyze(&Context{}))
}

func TestConfig_NilSafe(t *testing.T) {
	var cfg *Config
	assert.False(t, cfg.IsDisabled("RS01"))
	assert.Equal(t, SeverityHint, cfg.GetSeverity("RS01", SeverityHint))
	assert.Nil(t, cfg.GetRuleOptions("RS01"))
}

func TestSeverity(t *testing.T) {
	tests := []struct {
		in   string
		want Severity
		ok   bool
	}{
		{"error", SeverityError, true},
		{" Warning ", SeverityWarning, true},
		{"INFO", SeverityInfo, true},
		{"hint", SeverityHint, true},
		{"fatal", SeverityWarning, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseSeverity(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}

	assert.True(t, SeverityError.AtLeast(SeverityWarning))
	assert.True(t, SeverityWarning.AtLeast(SeverityWarning))
	assert.False(t, SeverityHint.AtLeast(SeverityInfo))
	assert.Equal(t, "unknown", Severity(42).String())

	var s Severity
	require.NoError(t, s.UnmarshalText([]byte("info")))
	assert.Equal(t, SeverityInfo, s)
	require.Error(t, s.UnmarshalText([]byte("loud")))

	text, err := SeverityHint.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "hint", string(text))
}

func TestDecodeOptions(t *testing.T) {
	type opts struct {
		Columns []string `mapstructure:"columns"`
		Limit   int      `mapstructure:"limit"`
		Strict  bool     `mapstructure:"strict"`
	}

	out := opts{Limit: 10}
	require.NoError(t, DecodeOptions(map[string]any{"columns": []any{"a", "b"}, "strict": "true"}, &out))
	assert.Equal(t, []string{"a", "b"}, out.Columns)
	assert.Equal(t, 10, out.Limit, "missing keys keep their default")
	assert.True(t, out.Strict)

	require.NoError(t, DecodeOptions(map[string]any{"limit": "3"}, &out))
	assert.Equal(t, 3, out.Limit)

	require.NoError(t, DecodeOptions(nil, &out))

	err := DecodeOptions(map[string]any{"limit": "many"}, &out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid rule options")
}

func TestGetStringSliceOption(t *testing.T) {
	def := []string{"x"}
	assert.Equal(t, def, GetStringSliceOption(nil, "k", def))
	assert.Equal(t, def, GetStringSliceOption(map[string]any{}, "k", def))
	assert.Equal(t, []string{"a"}, GetStringSliceOption(map[string]any{"k": []string{"a"}}, "k", def))
	assert.Equal(t, []string{"a", "c"}, GetStringSliceOption(map[string]any{"k": []any{"a", 1, "c"}}, "k", def))
	assert.Equal(t, def, GetStringSliceOption(map[string]any{"k": "a"}, "k", def))
}

func TestDocsBaseURL(t *testing.T) {
	withRules(t, fixedRule("RS01", "schema", true), fixedRule("RS04", "association", false))
	t.Cleanup(ResetDocsBaseURL)

	assert.Equal(t, DefaultDocsBaseURL+"/schema#RS01", BuildDocURL("RS01"))
	assert.Equal(t, DefaultDocsBaseURL+"#XX99", BuildDocURL("XX99"), "unregistered rules link to the index")

	SetDocsBaseURL("http://localhost:8080/rules/")
	assert.Equal(t, "http://localhost:8080/rules/association#RS04", BuildDocURL("RS04"))

	ResetDocsBaseURL()
	assert.Equal(t, DefaultDocsBaseURL, DocsBaseURL)
	assert.Equal(t, 70, ImpactHigh.Int())
}
