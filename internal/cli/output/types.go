package output

// LintSummary counts the diagnostics of a lint run.
type LintSummary struct {
	FilesAnalyzed int `json:"files_analyzed"`
	Models        int `json:"models"`
	TotalIssues   int `json:"total_issues"`
	Errors        int `json:"errors"`
	Warnings      int `json:"warnings"`
	Info          int `json:"info"`
	Hints         int `json:"hints"`
	FilesFailed   int `json:"files_failed"`
}

// LintDiagnostic is one finding in JSON output.
type LintDiagnostic struct {
	RuleID           string `json:"rule_id"`
	Severity         string `json:"severity"`
	Message          string `json:"message"`
	Class            string `json:"class,omitempty"`
	Line             int    `json:"line"`
	Column           int    `json:"column"`
	DocumentationURL string `json:"documentation_url,omitempty"`
}

// LintFileResult groups the findings of one file.
type LintFileResult struct {
	Path        string           `json:"path"`
	Error       string           `json:"error,omitempty"`
	Diagnostics []LintDiagnostic `json:"diagnostics"`
}

// LintOutput is the JSON document printed by `lint --format json`.
type LintOutput struct {
	RunID   string           `json:"run_id"`
	Schema  bool             `json:"schema"`
	Summary LintSummary      `json:"summary"`
	Files   []LintFileResult `json:"files"`
}

// TableInfo is one model-to-table mapping in JSON output.
type TableInfo struct {
	Class     string `json:"class"`
	Table     string `json:"table"`
	FilePath  string `json:"file_path"`
	Line      int    `json:"line"`
	Explicit  bool   `json:"explicit"`
	Abstract  bool   `json:"abstract"`
	InSchema  bool   `json:"in_schema"`
}

// TablesOutput is the JSON document printed by `tables --format json`.
type TablesOutput struct {
	Schema bool             `json:"schema"`
	Tables []TableInfo      `json:"tables"`
	Errors []LintFileResult `json:"errors,omitempty"`
}

// RelationInfo is the resolution of a relation name in one class.
type RelationInfo struct {
	Class   string   `json:"class"`
	Table   string   `json:"table"`
	Name    string   `json:"name"`
	Found   bool     `json:"found"`
	Columns []string `json:"columns"`
}

// SchemaTableInfo summarizes one schema table.
type SchemaTableInfo struct {
	Name          string   `json:"name"`
	Columns       []string `json:"columns"`
	Indexes       int      `json:"indexes"`
	UniqueIndexes int      `json:"unique_indexes"`
}

// SchemaInfo describes the loaded schema.
type SchemaInfo struct {
	Loaded        bool              `json:"loaded"`
	Source        string            `json:"source,omitempty"`
	Checksum      string            `json:"checksum,omitempty"`
	Version       string            `json:"version,omitempty"`
	TargetVersion string            `json:"target_version,omitempty"`
	Tables        []SchemaTableInfo `json:"tables"`
}
