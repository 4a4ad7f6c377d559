package main

import (
	"fmt"

	"github.com/spf13/cobra"

	plmcheck "github.com/reoring/plmcheck"
	"github.com/reoring/plmcheck/internal/config"
	"github.com/reoring/plmcheck/internal/runner"
	"github.com/reoring/plmcheck/source"
)

// addBatchFlags registers the flags shared by validate and lint.
func addBatchFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.Int("workers", 0, "files checked in parallel (default: number of CPUs)")
	f.String("duplicate-keys", "", "duplicate JSON keys: ignore, warn or error (default warn)")
	f.Int("max-depth", 0, "maximum JSON nesting depth, 0 disables (default 256)")
	f.StringSlice("include", nil, "doublestar patterns selecting files in directories (default *.json)")
	f.BoolP("recursive", "r", false, "descend into subdirectories")
	f.Bool("fail-on-load-error", false, "exit 1 when a manifest cannot be read or decoded")
}

func newValidateCmd(g *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <file-or-dir>...",
		Short: "Validate manifests against the schema and report lint warnings",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, g)
			if err != nil {
				return err
			}
			return runBatch(cmd, args, cfg, modeValidate)
		},
	}
	addBatchFlags(cmd)
	cmd.Flags().StringP("schema", "s", "", "schema file (default "+config.DefaultSchemaPath+")")
	cmd.Flags().Bool("no-warnings", false, "skip the metadata linter")
	return cmd
}

func newLintCmd(g *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lint <file-or-dir>...",
		Short: "Report metadata warnings without schema validation",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, g)
			if err != nil {
				return err
			}
			return runBatch(cmd, args, cfg, modeLint)
		},
	}
	addBatchFlags(cmd)
	return cmd
}

type mode int

const (
	modeValidate mode = iota
	modeLint
)

func runBatch(cmd *cobra.Command, targets []string, cfg *config.Config, m mode) error {
	logger := runner.NewLogger(cmd.ErrOrStderr(), cfg.Verbose)
	loadOpt := source.Options{
		OnDuplicateKey: cfg.DuplicateKeySeverity(),
		MaxDepth:       cfg.MaxDepth,
	}

	var (
		v   *plmcheck.Validator
		err error
	)
	if m == modeValidate {
		v, err = runner.LoadSchema(cfg.Schema, loadOpt)
		if err != nil {
			return &ExitError{Code: ExitUsage, Err: fmt.Errorf("schema error: %w", err)}
		}
		logger.Debug("schema loaded", "path", cfg.Schema)
	} else {
		// Every document matches the boolean schema true, leaving only lint.
		v, _ = plmcheck.NewValidator(true)
	}

	// Targets that cannot be expanded are reported like unloadable files.
	var (
		files  []string
		failed []runner.Result
	)
	for _, t := range targets {
		found, err := runner.Discover(t, cfg.Include, cfg.Recursive)
		if err != nil {
			logger.Error("could not read target", "path", t, "error", err)
			failed = append(failed, runner.Result{Path: t, LoadErr: &source.LoadError{Path: t, Op: "read", Err: err}})
			continue
		}
		logger.Debug("discovered files", "target", t, "count", len(found))
		files = append(files, found...)
	}

	results, err := runner.Run(cmd.Context(), v, files, runner.Options{
		Workers:    cfg.Workers,
		Load:       loadOpt,
		NoWarnings: cfg.NoWarnings && m == modeValidate,
		Linter:     cfg.Linter(),
		Logger:     logger,
	})
	if err != nil {
		if _, ok := plmcheck.AsSchemaError(err); ok {
			return &ExitError{Code: ExitUsage, Err: fmt.Errorf("schema error: %w", err)}
		}
		return err
	}
	results = append(results, failed...)

	out := cmd.OutOrStdout()
	if cfg.Format == config.FormatJSON {
		if err := writeJSONReport(out, results, m); err != nil {
			return err
		}
	} else {
		writeTextReport(out, results, m)
	}

	sum := runner.Summarize(results)
	failLoad := cfg.FailOnLoadError && sum.LoadFailed > 0
	switch {
	case sum.Invalid > 0 && failLoad:
		return &ExitError{Code: ExitInvalid, Err: fmt.Errorf("%d of %d manifests invalid, %d could not be loaded", sum.Invalid, sum.Files, sum.LoadFailed)}
	case sum.Invalid > 0:
		return &ExitError{Code: ExitInvalid, Err: fmt.Errorf("%d of %d manifests invalid", sum.Invalid, sum.Files)}
	case failLoad:
		return &ExitError{Code: ExitInvalid, Err: fmt.Errorf("%d of %d manifests could not be loaded", sum.LoadFailed, sum.Files)}
	}
	if sum.LoadFailed > 0 {
		logger.Warn("some manifests could not be loaded", "count", sum.LoadFailed)
	}
	return nil
}
