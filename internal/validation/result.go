// Package validation defines the structural schema check for imprint
// definitions and the shared ValidationResult shape that the consistency
// checker reuses. Checks here are pure and deterministic: no network, no
// generation calls, same input always yields the same ordered result set.
package validation

import (
	"fmt"
	"sort"
	"strings"
)

// Severity ranks a validation finding.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Result is a single finding against a definition. It reports; it never
// mutates the definition it describes.
type Result struct {
	Field        string   `json:"field"`
	Severity     Severity `json:"severity"`
	Message      string   `json:"message"`
	SuggestedFix string   `json:"suggested_fix,omitempty"`
}

func (r Result) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s: %s", r.Severity, r.Field, r.Message)
	if r.SuggestedFix != "" {
		fmt.Fprintf(&b, " (fix: %s)", r.SuggestedFix)
	}
	return b.String()
}

// Results is an ordered finding set.
type Results []Result

// Errors returns only error-severity findings.
func (rs Results) Errors() Results {
	var out Results
	for _, r := range rs {
		if r.Severity == SeverityError {
			out = append(out, r)
		}
	}
	return out
}

// Warnings returns only warning-severity findings.
func (rs Results) Warnings() Results {
	var out Results
	for _, r := range rs {
		if r.Severity == SeverityWarning {
			out = append(out, r)
		}
	}
	return out
}

// HasErrors reports whether any finding blocks downstream processing.
func (rs Results) HasErrors() bool {
	return len(rs.Errors()) > 0
}

// Sort orders findings by field then message so result sets are stable
// regardless of rule evaluation order.
func (rs Results) Sort() {
	sort.SliceStable(rs, func(i, j int) bool {
		if rs[i].Field != rs[j].Field {
			return rs[i].Field < rs[j].Field
		}
		return rs[i].Message < rs[j].Message
	})
}

// SchemaError carries the complete error-level result set from a failed
// structural check. The full set is always reported, never just the first.
type SchemaError struct {
	Results Results
}

func (e *SchemaError) Error() string {
	errs := e.Results.Errors()
	lines := make([]string, 0, len(errs))
	for _, r := range errs {
		lines = append(lines, r.String())
	}
	return fmt.Sprintf("schema validation failed (%d errors): %s", len(errs), strings.Join(lines, "; "))
}
