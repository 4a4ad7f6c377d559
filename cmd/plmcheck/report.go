package main

import (
	"fmt"
	"io"

	json "github.com/goccy/go-json"

	"github.com/reoring/plmcheck/internal/runner"
)

// writeTextReport prints one block per file: a status line, the violations as
// "<path>: message", then indented warnings, followed by a summary line.
func writeTextReport(w io.Writer, results []runner.Result, m mode) {
	for _, r := range results {
		switch {
		case r.LoadErr != nil:
			fmt.Fprintf(w, "%s %s\n\n", ErrorStyle.Render("❗ Error in "+r.Path+":"), r.LoadErr)
			continue
		case m == modeLint && len(r.Report.Warnings) > 0:
			fmt.Fprintln(w, WarningStyle.Render("⚠️  "+r.Path))
		case r.Report.Valid():
			fmt.Fprintln(w, SuccessStyle.Render("✅ "+r.Path))
		default:
			fmt.Fprintln(w, ErrorStyle.Render("❌ "+r.Path))
			for _, v := range r.Report.Violations {
				fmt.Fprintf(w, "  - %s: %s\n", PathStyle.Render(v.Path.String()), v.Message)
			}
		}
		if len(r.Report.Warnings) > 0 {
			fmt.Fprintln(w, "  Warnings:")
			for _, warn := range r.Report.Warnings {
				fmt.Fprintf(w, "    %s\n", WarningStyle.Render("⚠️  "+warn.Message))
			}
		}
		for _, is := range r.Issues {
			fmt.Fprintf(w, "    %s\n", WarningStyle.Render("⚠️  "+is.Message+" (at "+is.Path+")"))
		}
		fmt.Fprintln(w)
	}

	s := runner.Summarize(results)
	var line string
	if m == modeLint {
		line = fmt.Sprintf("%d files, %d warnings, %d could not be loaded", s.Files, s.Warnings, s.LoadFailed)
	} else {
		line = fmt.Sprintf("%d files: %d valid, %d invalid, %d could not be loaded, %d warnings",
			s.Files, s.Valid, s.Invalid, s.LoadFailed, s.Warnings)
	}
	fmt.Fprintln(w, SubtitleStyle.Render(line))
}

type jsonReport struct {
	Files   []jsonFile  `json:"files"`
	Summary jsonSummary `json:"summary"`
}

type jsonFile struct {
	Path       string          `json:"path"`
	Valid      bool            `json:"valid"`
	Error      string          `json:"error,omitempty"`
	Violations []jsonViolation `json:"violations,omitempty"`
	Warnings   []jsonWarning   `json:"warnings,omitempty"`
	Issues     []jsonIssue     `json:"issues,omitempty"`
}

type jsonViolation struct {
	Path    string         `json:"path"`
	Code    string         `json:"code"`
	Keyword string         `json:"keyword"`
	Message string         `json:"message"`
	Params  map[string]any `json:"params,omitempty"`
}

type jsonWarning struct {
	Code        string `json:"code"`
	ComponentID string `json:"componentId,omitempty"`
	Message     string `json:"message"`
}

type jsonIssue struct {
	Code    string `json:"code"`
	Path    string `json:"path"`
	Message string `json:"message"`
}

type jsonSummary struct {
	Files      int `json:"files"`
	Valid      int `json:"valid"`
	Invalid    int `json:"invalid"`
	LoadFailed int `json:"loadFailed"`
	Warnings   int `json:"warnings"`
}

// writeJSONReport emits a machine-readable report. Paths are JSON Pointers.
func writeJSONReport(w io.Writer, results []runner.Result, m mode) error {
	rep := jsonReport{Files: make([]jsonFile, 0, len(results))}
	for _, r := range results {
		f := jsonFile{Path: r.Path, Valid: r.OK()}
		if r.LoadErr != nil {
			f.Error = r.LoadErr.Error()
		}
		if m == modeValidate {
			for _, v := range r.Report.Violations {
				f.Violations = append(f.Violations, jsonViolation{
					Path:    v.Pointer(),
					Code:    v.Code,
					Keyword: v.Keyword,
					Message: v.Message,
					Params:  v.Params,
				})
			}
		}
		for _, warn := range r.Report.Warnings {
			f.Warnings = append(f.Warnings, jsonWarning{Code: warn.Code, ComponentID: warn.ComponentID, Message: warn.Message})
		}
		for _, is := range r.Issues {
			f.Issues = append(f.Issues, jsonIssue{Code: is.Code, Path: is.Path, Message: is.Message})
		}
		rep.Files = append(rep.Files, f)
	}
	s := runner.Summarize(results)
	rep.Summary = jsonSummary{Files: s.Files, Valid: s.Valid, Invalid: s.Invalid, LoadFailed: s.LoadFailed, Warnings: s.Warnings}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rep)
}
