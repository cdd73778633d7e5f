package config

import (
	"errors"
	"fmt"
	"slices"

	"github.com/leapstack-labs/recordlint/pkg/lint"
	"github.com/leapstack-labs/recordlint/pkg/schema"
)

var outputModes = []string{"auto", "text", "markdown", "json"}

// Validate checks the loaded configuration. All problems are reported at
// once.
func (c *Config) Validate() error {
	var errs []error

	if c.ModelsDir == "" {
		errs = append(errs, errors.New("models_dir is required"))
	}
	if c.Concurrency < 0 {
		errs = append(errs, fmt.Errorf("concurrency must not be negative, got %d", c.Concurrency))
	}
	if c.OutputFormat != "" && !slices.Contains(outputModes, c.OutputFormat) {
		errs = append(errs, fmt.Errorf("unknown output format %q (valid: %v)", c.OutputFormat, outputModes))
	}
	if c.TargetVersion != "" {
		if err := schema.ValidateTargetVersion(c.TargetVersion); err != nil {
			errs = append(errs, err)
		}
	}
	if c.Schema.Type != "" && !slices.Contains(schema.ListLoaders(), c.Schema.Type) {
		errs = append(errs, &schema.UnknownLoaderError{Type: c.Schema.Type, Available: schema.ListLoaders()})
	}
	if c.Lint != nil {
		for id, sev := range c.Lint.Severity {
			if _, ok := lint.ParseSeverity(sev); !ok {
				errs = append(errs, fmt.Errorf("lint.severity.%s: unknown severity %q", id, sev))
			}
		}
	}

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}
