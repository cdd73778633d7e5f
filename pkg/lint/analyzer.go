package lint

// Analyzer runs registered lint rules against model classes.
type Analyzer struct {
	config *Config
	only   map[string]bool // restrict to these rule IDs (empty = all)
}

// NewAnalyzer creates a new analyzer with optional configuration.
func NewAnalyzer(config *Config) *Analyzer {
	if config == nil {
		config = NewConfig()
	}
	return &Analyzer{config: config}
}

// Only restricts the analyzer to the given rule IDs.
func (a *Analyzer) Only(ids ...string) *Analyzer {
	if len(ids) == 0 {
		return a
	}
	a.only = make(map[string]bool, len(ids))
	for _, id := range ids {
		a.only[id] = true
	}
	return a
}

// Rules returns the rules this analyzer will run, sorted by ID.
func (a *Analyzer) Rules() []RuleDef {
	var rules []RuleDef
	for _, rule := range GetAll() {
		if a.config.IsDisabled(rule.ID) {
			continue
		}
		if len(a.only) > 0 && !a.only[rule.ID] {
			continue
		}
		rules = append(rules, rule)
	}
	return rules
}

// Analyze runs every enabled rule against one model class. Rules that need
// a schema are skipped when ctx carries none.
func (a *Analyzer) Analyze(ctx *Context) []Diagnostic {
	if ctx == nil || ctx.Class == nil {
		return nil
	}

	var diagnostics []Diagnostic
	for _, rule := range a.Rules() {
		if rule.NeedsSchema && ctx.Schema == nil {
			continue
		}

		diags := rule.Check(ctx, a.config.GetRuleOptions(rule.ID))

		for i := range diags {
			diags[i].Severity = a.config.GetSeverity(rule.ID, diags[i].Severity)
			if diags[i].FilePath == "" {
				diags[i].FilePath = ctx.FilePath
			}
			if diags[i].Class == "" {
				diags[i].Class = ctx.Class.QualifiedName()
			}
			if !diags[i].Pos.IsValid() {
				diags[i].Pos = ctx.Class.Pos()
			}
		}

		diagnostics = append(diagnostics, diags...)
	}

	return diagnostics
}
