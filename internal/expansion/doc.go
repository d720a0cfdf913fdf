// Package expansion turns sketchy input (free text or a partial field
// mapping) into a fully populated imprint definition by combining the
// external generation capability with industry-standard defaults.
//
// The engine never leaves a required field empty: model output is merged
// under any caller-supplied fields, defaults fill the remainder when
// assume_defaults is set, and a single fill-in retry targets fields the model
// skipped. If required fields remain empty after the retry the engine fails
// with IncompleteExpansionError naming every gap.
//
// Expansion has no side effects beyond the generation call; it never touches
// the store, so downstream validation decides whether the candidate persists.
package expansion
