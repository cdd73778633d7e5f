package engine

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/leapstack-labs/recordlint/pkg/lint"
	"github.com/leapstack-labs/recordlint/pkg/schema"
)

// FileResult holds the outcome for one AST file.
type FileResult struct {
	Path        string
	Models      int
	Diagnostics []lint.Diagnostic
	// Err is set when the file could not be decoded. Other files are
	// analyzed regardless.
	Err error
}

// Result summarizes one lint run.
type Result struct {
	RunID    string
	Files    []FileResult
	Models   int
	Schema   bool // a schema was available to schema-aware rules
	Duration time.Duration
}

// Diagnostics returns every diagnostic of the run in file order.
func (r *Result) Diagnostics() []lint.Diagnostic {
	var all []lint.Diagnostic
	for _, f := range r.Files {
		all = append(all, f.Diagnostics...)
	}
	return all
}

// Errors returns the files that failed to decode.
func (r *Result) Errors() []FileResult {
	var failed []FileResult
	for _, f := range r.Files {
		if f.Err != nil {
			failed = append(failed, f)
		}
	}
	return failed
}

// Lint discovers AST files under paths and runs the configured rules on
// every model they define. Files are analyzed in parallel; results come back
// sorted by path. Only discovery errors and cancellation fail the run.
func (e *Engine) Lint(ctx context.Context, paths ...string) (*Result, error) {
	start := time.Now()
	runID := uuid.NewString()
	logger := e.logger.With("run_id", runID)

	files, err := Discover(paths...)
	if err != nil {
		return nil, err
	}
	logger.Info("starting lint", "files", len(files))

	s := e.loadSchema(ctx, logger)
	analyzer := lint.NewAnalyzer(e.lintConfig).Only(e.only...)

	results := make([]FileResult, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.concurrency)

	for i, path := range files {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
				results[i] = e.lintFile(path, s, analyzer)
				return nil
			}
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := &Result{
		RunID:    runID,
		Files:    results,
		Schema:   s != nil,
		Duration: time.Since(start),
	}
	for _, f := range results {
		result.Models += f.Models
		if f.Err != nil {
			logger.Warn("skipping undecodable file", "path", f.Path, "error", f.Err)
		}
	}

	logger.Info("lint completed",
		"files", len(files),
		"models", result.Models,
		"diagnostics", len(result.Diagnostics()),
		"duration_ms", result.Duration.Milliseconds())

	return result, nil
}

func (e *Engine) lintFile(path string, s *schema.Schema, analyzer *lint.Analyzer) FileResult {
	res := FileResult{Path: path}

	models, err := e.Models(path)
	if err != nil {
		res.Err = err
		return res
	}
	res.Models = len(models)

	for _, m := range models {
		ctx := lint.NewContext(path, m.Class, s, e.namer)
		res.Diagnostics = append(res.Diagnostics, analyzer.Analyze(ctx)...)
	}

	sort.SliceStable(res.Diagnostics, func(i, j int) bool {
		a, b := res.Diagnostics[i], res.Diagnostics[j]
		if a.Pos.Line != b.Pos.Line {
			return a.Pos.Line < b.Pos.Line
		}
		if a.Pos.Column != b.Pos.Column {
			return a.Pos.Column < b.Pos.Column
		}
		return a.RuleID < b.RuleID
	})
	return res
}

// FilterBySeverity keeps diagnostics at or above threshold and drops files
// left without any, unless they failed to decode.
func FilterBySeverity(files []FileResult, threshold lint.Severity) []FileResult {
	var filtered []FileResult
	for _, f := range files {
		var diags []lint.Diagnostic
		for _, d := range f.Diagnostics {
			if d.Severity.AtLeast(threshold) {
				diags = append(diags, d)
			}
		}
		if len(diags) > 0 || f.Err != nil {
			f.Diagnostics = diags
			filtered = append(filtered, f)
		}
	}
	return filtered
}
