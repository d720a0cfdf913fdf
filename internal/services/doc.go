// Package services defines shared utilities consumed by the pipeline stages
// and external integrations (generation capability, compiler oracle).
//
// Key responsibilities:
//   - Context helpers that stamp imprint names, pipeline stage names, and
//     correlation identifiers for logging.
//   - Structured error markers plus the Wrap helper that keep failure
//     classification (user-correctable vs fatal) uniform across stages.
package services
