package commands

import (
	"fmt"
	"log/slog"

	"github.com/leapstack-labs/recordlint/internal/cli/output"
	"github.com/leapstack-labs/recordlint/internal/config"
	"github.com/leapstack-labs/recordlint/internal/engine"
	"github.com/leapstack-labs/recordlint/pkg/lint"
	"github.com/leapstack-labs/recordlint/pkg/schema"
	"github.com/spf13/cobra"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Engine   *engine.Engine
	Renderer *output.Renderer
}

// NewCommandContext creates a CommandContext with engine and renderer.
// A non-empty format overrides the configured output mode.
func NewCommandContext(cmd *cobra.Command, format string) (*CommandContext, error) {
	cmdCtx, err := NewCommandContextWithoutEngine(cmd, format)
	if err != nil {
		return nil, err
	}
	eng, err := createEngine(cmdCtx.Cfg, cmdCtx.Logger, cmdCtx.Cfg.BuildLintConfig(), nil)
	if err != nil {
		return nil, err
	}
	cmdCtx.Engine = eng
	return cmdCtx, nil
}

// NewCommandContextWithoutEngine creates a CommandContext without an engine.
// Useful for commands that never read models or the schema.
func NewCommandContextWithoutEngine(cmd *cobra.Command, format string) (*CommandContext, error) {
	cfg, err := getConfig()
	if err != nil {
		return nil, err
	}

	if format == "" {
		format = cfg.OutputFormat
	}
	mode, err := output.ParseMode(format)
	if err != nil {
		return nil, err
	}

	return &CommandContext{
		Cfg:      cfg,
		Logger:   config.GetLogger(cmd.Context()),
		Renderer: output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode),
	}, nil
}

// getConfig returns the configuration loaded by the root command. Commands
// run on their own (as in tests) load it from the working directory.
func getConfig() (*config.Config, error) {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg, nil
	}
	return config.LoadConfig("", nil)
}

func createEngine(cfg *config.Config, logger *slog.Logger, lintCfg *lint.Config, only []string) (*engine.Engine, error) {
	loader, err := schema.NewLoader(cfg.SchemaLoaderConfig(), logger)
	if err != nil {
		return nil, err
	}

	eng, err := engine.New(engine.Config{
		Loader:        loader,
		Namer:         cfg.TableNamer(),
		TargetVersion: cfg.TargetVersion,
		Concurrency:   cfg.Concurrency,
		Lint:          lintCfg,
		Only:          only,
		Logger:        logger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create engine: %w", err)
	}
	return eng, nil
}

// targetPaths defaults to the configured models directory.
func targetPaths(cfg *config.Config, args []string) []string {
	if len(args) > 0 {
		return args
	}
	return []string{cfg.ModelsDir}
}
