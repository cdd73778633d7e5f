package lint

import (
	"strings"
)

// DefaultDocsBaseURL is the rule reference on the hosted documentation site.
const DefaultDocsBaseURL = "https://recordlint.dev/docs/rules"

// DocsBaseURL is where diagnostics link to. The lint.docs_base_url setting
// points it at a local copy of the generated docs.
var DocsBaseURL = DefaultDocsBaseURL

// BuildDocURL links a rule to its section of the generated reference. Rules
// are documented one page per group with an anchor per rule ID, so RS01 in
// the schema group becomes <base>/schema#RS01. An unregistered ID links to
// the index page.
func BuildDocURL(ruleID string) string {
	if rule, ok := GetByID(ruleID); ok && rule.Group != "" {
		return DocsBaseURL + "/" + strings.ToLower(rule.Group) + "#" + rule.ID
	}
	return DocsBaseURL + "#" + ruleID
}

// SetDocsBaseURL overrides the documentation base URL. A trailing slash is
// dropped.
func SetDocsBaseURL(url string) {
	DocsBaseURL = strings.TrimSuffix(url, "/")
}

// ResetDocsBaseURL restores DefaultDocsBaseURL.
func ResetDocsBaseURL() {
	DocsBaseURL = DefaultDocsBaseURL
}

// ImpactLevel is a coarse impact score attached to diagnostics so reports can
// rank model problems.
type ImpactLevel int

const (
	// ImpactLow for redundant options and stale ignore lists (0-30)
	ImpactLow ImpactLevel = 20
	// ImpactMedium for models whose table is missing from the schema (31-60)
	ImpactMedium ImpactLevel = 50
	// ImpactHigh for constraints the database does not enforce (61-80)
	ImpactHigh ImpactLevel = 70
	// ImpactCritical for issues that break the model at runtime (81-100)
	ImpactCritical ImpactLevel = 90
)

// Int returns the impact score as an integer.
func (l ImpactLevel) Int() int {
	return int(l)
}
