package plmcheck

// Package plmcheck validates UI manifest documents (pages and reusable
// components) in two layers:
//
// - Structural validation against a draft-07 JSON Schema subset (type, enum,
//   pattern, numeric/length bounds, required, properties, additionalProperties,
//   items, allOf/anyOf/oneOf and local $ref), producing ordered Violations
//   addressed by Path.
// - Advisory linting (naming conventions, known component types, recommended
//   metadata fields), producing Warnings that never fail validation.
//
// Design policy:
// - The core works on already decoded values and performs no I/O. Loading
//   lives in source/, the batch driver in internal/runner and the CLI under
//   cmd/plmcheck.
// - Schema problems surface as *SchemaError, never as Violations.
// - Output order is deterministic: violations sort by path, warnings follow
//   component order.
//
// Typical usage:
//
//  v, err := plmcheck.NewValidator(schemaDoc)
//  report, err := plmcheck.Check(v, manifestDoc)
//  for _, vi := range report.Violations { fmt.Println(vi) }
//
//  warnings := plmcheck.LintDocument(manifestDoc)
