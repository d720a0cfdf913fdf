// Package pipeline composes the end-to-end imprint flows: expand sketchy
// input into a full definition, gate it on schema and consistency checks,
// derive the artifact bundle, and persist the draft. It also hosts the
// maintenance operations that re-run the gates or rebuild artifacts for
// stored records. Persistence is all-or-nothing; a failed gate or generator
// leaves the store untouched.
package pipeline
