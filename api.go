package plmcheck

import "github.com/reoring/plmcheck/lint"

// Warning is an advisory finding produced by the metadata linter.
type Warning = lint.Warning

// ValidateDocument compiles schema and matches doc against it. schema may be a
// decoded schema document or an already compiled *jsonschema.Schema. A non-nil
// error is always a *SchemaError and means the schema could not be evaluated;
// it says nothing about doc.
func ValidateDocument(doc, schema any) (Violations, error) {
	v, err := NewValidator(schema)
	if err != nil {
		return nil, err
	}
	return v.Validate(doc)
}

// LintDocument runs the advisory metadata rules over the components of doc.
// It never fails; documents of an unrecognized shape produce no warnings.
func LintDocument(doc any) []Warning {
	return lint.LintDocument(doc)
}

// Report bundles the structural and advisory results for one document.
type Report struct {
	Violations Violations
	Warnings   []Warning
}

// Valid reports whether the document passed structural validation. Warnings
// do not affect validity.
func (r Report) Valid() bool { return len(r.Violations) == 0 }

// Check validates and lints doc. The two passes are independent.
func Check(v *Validator, doc any) (Report, error) {
	vs, err := v.Validate(doc)
	if err != nil {
		return Report{}, err
	}
	return Report{Violations: vs, Warnings: LintDocument(doc)}, nil
}
