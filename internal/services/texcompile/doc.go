// Package texcompile wraps the external LaTeX compiler as a pass/fail oracle
// with diagnostics. Template artifacts must compile cleanly before an imprint
// may leave the draft tier; nothing here inspects template semantics beyond
// what the compiler reports.
package texcompile
