package commands

import (
	"regexp"
	"strings"
	"testing"

	"github.com/goccy/go-json"

	"github.com/leapstack-labs/recordlint/pkg/ast"
	"github.com/leapstack-labs/recordlint/pkg/lint"
)

func decodeJSON(s string, v any) error {
	return json.NewDecoder(strings.NewReader(s)).Decode(v)
}

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

func stripANSI(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}

func lintPos(line, column int) ast.Position {
	return ast.Position{Line: line, Column: column}
}

func indexOf(s, sub string) int {
	return strings.Index(s, sub)
}

func allRuleInfos(t *testing.T) []lint.RuleInfo {
	t.Helper()
	infos := lint.AllRules()
	if len(infos) == 0 {
		t.Fatal("no rules registered")
	}
	return infos
}
