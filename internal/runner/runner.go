// Package runner drives batch checks: it loads the schema once, then loads,
// validates and lints every manifest on a bounded worker pool. Results come
// back in input order whatever the completion order.
package runner

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	plmcheck "github.com/reoring/plmcheck"
	"github.com/reoring/plmcheck/lint"
	"github.com/reoring/plmcheck/source"
)

// Options configures a batch run.
type Options struct {
	// Workers bounds the number of files processed concurrently. Values below
	// one mean one.
	Workers int
	// Load is applied to every manifest.
	Load source.Options
	// NoWarnings skips the linter.
	NoWarnings bool
	// Linter is applied when NoWarnings is false. The zero value runs the
	// built-in rules.
	Linter lint.Linter
	// Logger receives progress and per-file diagnostics. Nil discards them.
	Logger *log.Logger
}

// Result is the outcome for one manifest.
type Result struct {
	Path   string
	Report plmcheck.Report
	// LoadErr is set when the file could not be read or decoded; Report is
	// then empty.
	LoadErr error
	// Issues are non-fatal loader findings such as duplicate keys.
	Issues  []source.Issue
	Elapsed time.Duration
}

// OK reports whether the manifest loaded and passed validation.
func (r Result) OK() bool { return r.LoadErr == nil && r.Report.Valid() }

// NewLogger returns the CLI logger writing to w.
func NewLogger(w io.Writer, verbose bool) *log.Logger {
	if w == nil {
		w = os.Stderr
	}
	logger := log.NewWithOptions(w, log.Options{
		Prefix: "plmcheck",
	})
	if verbose {
		logger.SetLevel(log.DebugLevel)
	}
	return logger
}

func discard() *log.Logger { return log.New(io.Discard) }

// LoadSchema reads and compiles the schema at path. Load failures are
// returned as *source.LoadError and unusable schemas as *plmcheck.SchemaError.
func LoadSchema(path string, opt source.Options) (*plmcheck.Validator, error) {
	raw, err := source.LoadFile(path, opt)
	if err != nil {
		return nil, err
	}
	v, err := plmcheck.NewValidator(raw)
	if err != nil {
		return nil, fmt.Errorf("schema %s: %w", path, err)
	}
	return v, nil
}

// Run checks every file with v. A load failure is recorded on the file's
// Result and does not stop the batch; a schema error aborts the run and is
// returned. Cancelling ctx stops scheduling new files.
func Run(ctx context.Context, v *plmcheck.Validator, files []string, opt Options) ([]Result, error) {
	logger := opt.Logger
	if logger == nil {
		logger = discard()
	}
	workers := max(opt.Workers, 1)

	results := make([]Result, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, path := range files {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := checkFile(v, path, opt, logger)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

func checkFile(v *plmcheck.Validator, path string, opt Options, logger *log.Logger) (Result, error) {
	start := time.Now()
	res := Result{Path: path}

	load := opt.Load
	load.OnIssue = func(is source.Issue) {
		res.Issues = append(res.Issues, is)
		logger.Warn("loader issue", "file", path, "code", is.Code, "at", is.Path)
	}
	doc, err := source.LoadFile(path, load)
	if err != nil {
		logger.Error("could not load manifest", "file", path, "error", err)
		res.LoadErr = err
		res.Elapsed = time.Since(start)
		return res, nil
	}

	vs, err := v.Validate(doc)
	if err != nil {
		return Result{}, err
	}
	res.Report.Violations = vs
	if !opt.NoWarnings {
		res.Report.Warnings = opt.Linter.LintDocument(doc)
	}
	res.Elapsed = time.Since(start)
	logger.Debug("checked manifest", "file", path,
		"violations", len(vs), "warnings", len(res.Report.Warnings), "elapsed", res.Elapsed)
	return res, nil
}

// Summary aggregates counts over a batch.
type Summary struct {
	Files      int
	Valid      int
	Invalid    int
	LoadFailed int
	Violations int
	Warnings   int
}

// OK reports whether every file loaded and validated.
func (s Summary) OK() bool { return s.Invalid == 0 && s.LoadFailed == 0 }

// Summarize counts the outcomes of results.
func Summarize(results []Result) Summary {
	s := Summary{Files: len(results)}
	for _, r := range results {
		switch {
		case r.LoadErr != nil:
			s.LoadFailed++
		case r.Report.Valid():
			s.Valid++
		default:
			s.Invalid++
		}
		s.Violations += len(r.Report.Violations)
		s.Warnings += len(r.Report.Warnings)
	}
	return s
}
