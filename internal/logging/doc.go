// Package logging builds the slog loggers used across the pipeline: a
// human-oriented console handler for interactive use and a JSON handler for
// log files, with standardized field keys and helpers for context-derived
// attributes (imprint name, pipeline stage, correlation id).
package logging
