package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMode(t *testing.T) {
	tests := []struct {
		in      string
		want    Mode
		wantErr bool
	}{
		{"", ModeAuto, false},
		{"auto", ModeAuto, false},
		{"text", ModeText, false},
		{"md", ModeMarkdown, false},
		{"markdown", ModeMarkdown, false},
		{"json", ModeJSON, false},
		{"yaml", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseMode(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEffectiveMode(t *testing.T) {
	tests := []struct {
		name  string
		mode  Mode
		isTTY bool
		want  Mode
	}{
		{"auto on terminal", ModeAuto, true, ModeText},
		{"auto when piped", ModeAuto, false, ModeMarkdown},
		{"empty is auto", "", false, ModeMarkdown},
		{"explicit text when piped", ModeText, false, ModeText},
		{"json on terminal", ModeJSON, true, ModeJSON},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRendererWithTTY(&bytes.Buffer{}, &bytes.Buffer{}, tt.isTTY, tt.mode)
			assert.Equal(t, tt.want, r.EffectiveMode())
		})
	}
}

func TestNewRenderer_BufferIsNotTerminal(t *testing.T) {
	r := NewRenderer(&bytes.Buffer{}, &bytes.Buffer{}, ModeAuto)
	assert.False(t, r.IsTTY())
	assert.Equal(t, ModeMarkdown, r.EffectiveMode())
}

func TestStyles_PlainWhenPiped(t *testing.T) {
	out := &bytes.Buffer{}
	r := NewRendererWithTTY(out, &bytes.Buffer{}, false, ModeText)
	r.Println(r.Styles().Error.Render("boom"))
	assert.Equal(t, "boom\n", out.String())
}

func TestSuccess(t *testing.T) {
	tests := []struct {
		mode Mode
		want string
	}{
		{ModeText, "✓ done\n"},
		{ModeMarkdown, "done\n"},
		{ModeJSON, ""},
	}
	for _, tt := range tests {
		t.Run(string(tt.mode), func(t *testing.T) {
			out := &bytes.Buffer{}
			r := NewRendererWithTTY(out, &bytes.Buffer{}, false, tt.mode)
			r.Success("done")
			assert.Equal(t, tt.want, out.String())
		})
	}
}

func TestJSON(t *testing.T) {
	out := &bytes.Buffer{}
	r := NewRendererWithTTY(out, &bytes.Buffer{}, false, ModeJSON)
	require.NoError(t, r.JSON(LintSummary{TotalIssues: 2, Warnings: 2}))
	assert.Contains(t, out.String(), `"total_issues": 2`)
	assert.Contains(t, out.String(), `"warnings": 2`)
}

func TestTable(t *testing.T) {
	rows := [][]string{{"User", "users"}, {"Blog::Post", "blog_posts"}}

	t.Run("markdown", func(t *testing.T) {
		out := &bytes.Buffer{}
		r := NewRendererWithTTY(out, &bytes.Buffer{}, false, ModeMarkdown)
		r.Table([]string{"Class", "Table"}, rows)
		lines := strings.Split(strings.TrimSpace(out.String()), "\n")
		require.Len(t, lines, 4)
		assert.Contains(t, strings.ToLower(lines[0]), "| class")
		assert.Contains(t, lines[3], "blog_posts")
	})

	t.Run("text", func(t *testing.T) {
		out := &bytes.Buffer{}
		r := NewRendererWithTTY(out, &bytes.Buffer{}, false, ModeText)
		r.Table([]string{"Class", "Table"}, rows)
		assert.Contains(t, out.String(), "┌")
		assert.Contains(t, out.String(), "Blog::Post")
	})
}

func TestWarnGoesToStderr(t *testing.T) {
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	r := NewRendererWithTTY(out, errOut, false, ModeMarkdown)
	r.Warn("no schema")
	assert.Empty(t, out.String())
	assert.Equal(t, "warning: no schema\n", errOut.String())
}
