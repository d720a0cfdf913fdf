// Package artifacts derives the deliverable bundle from a validated imprint
// definition: interior and cover LaTeX templates, the content-generation
// prompt set, the prepress workflow config, and the launch schedule.
//
// Generators are pure functions of the definition (plus upstream artifacts)
// declared in an explicit dependency graph and evaluated in topological
// order: templates feed the prepress workflow, which feeds the schedule; the
// prompt set stands alone. A generator whose prerequisites are absent fails
// with MissingDependencyError; defaults belong to the expansion engine, never
// here.
//
// Artifact content is deterministic for a given definition (timestamps live
// in metadata only), so regeneration is byte-identical and replacing the
// stored set wholesale never leaves stale pieces behind.
package artifacts
