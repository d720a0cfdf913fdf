// Package sketch models the raw, loosely structured imprint concept a user
// supplies before expansion. Input is a tagged union so the expansion engine
// handles each kind exhaustively instead of sniffing shapes at runtime. The
// input is consumed once; it is never persisted beyond the audit log.
package sketch

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Kind discriminates the input union.
type Kind string

const (
	KindFreeText Kind = "free_text"
	KindPartial  Kind = "partial"
)

// Completeness selects how far expansion fills beyond the required fields.
type Completeness string

const (
	CompletenessMinimal  Completeness = "minimal"
	CompletenessStandard Completeness = "standard"
	CompletenessFull     Completeness = "full"
)

// ParseCompleteness validates a completeness value, defaulting empty input to
// standard.
func ParseCompleteness(value string) (Completeness, error) {
	switch Completeness(strings.ToLower(strings.TrimSpace(value))) {
	case "", CompletenessStandard:
		return CompletenessStandard, nil
	case CompletenessMinimal:
		return CompletenessMinimal, nil
	case CompletenessFull:
		return CompletenessFull, nil
	default:
		return "", fmt.Errorf("completeness: unsupported value %q", value)
	}
}

// Options is the recognized expansion option set.
type Options struct {
	AssumeDefaults bool
	Completeness   Completeness
}

// DefaultOptions returns the documented defaults: assume_defaults=true,
// target_completeness=standard.
func DefaultOptions() Options {
	return Options{AssumeDefaults: true, Completeness: CompletenessStandard}
}

// Input is either free text or a partial structured mapping.
type Input struct {
	Kind   Kind
	Text   string
	Fields map[string]any
}

// FreeText wraps a concept description.
func FreeText(text string) Input {
	return Input{Kind: KindFreeText, Text: strings.TrimSpace(text)}
}

// Partial wraps a partially populated field mapping.
func Partial(fields map[string]any) Input {
	return Input{Kind: KindPartial, Fields: fields}
}

// Validate checks the union invariants for the declared kind.
func (in Input) Validate() error {
	switch in.Kind {
	case KindFreeText:
		if strings.TrimSpace(in.Text) == "" {
			return errors.New("sketch: free text input is empty")
		}
	case KindPartial:
		if len(in.Fields) == 0 {
			return errors.New("sketch: partial input has no fields")
		}
	default:
		return fmt.Errorf("sketch: unknown input kind %q", in.Kind)
	}
	return nil
}

// StringField returns a trimmed string field from partial input.
func (in Input) StringField(key string) (string, bool) {
	if in.Kind != KindPartial {
		return "", false
	}
	value, ok := in.Fields[key].(string)
	if !ok {
		return "", false
	}
	trimmed := strings.TrimSpace(value)
	return trimmed, trimmed != ""
}

// StringsField returns a string-slice field from partial input, tolerating
// both []string and []any payloads (JSON decoding produces the latter).
func (in Input) StringsField(key string) ([]string, bool) {
	if in.Kind != KindPartial {
		return nil, false
	}
	switch value := in.Fields[key].(type) {
	case []string:
		return cleanStrings(value), true
	case []any:
		out := make([]string, 0, len(value))
		for _, entry := range value {
			if s, ok := entry.(string); ok {
				out = append(out, s)
			}
		}
		return cleanStrings(out), true
	default:
		return nil, false
	}
}

func cleanStrings(values []string) []string {
	out := values[:0]
	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// ParsePartialJSON decodes a JSON object into a partial input.
func ParsePartialJSON(data []byte) (Input, error) {
	fields := map[string]any{}
	if err := json.Unmarshal(data, &fields); err != nil {
		return Input{}, fmt.Errorf("sketch: parse partial json: %w", err)
	}
	in := Partial(fields)
	if err := in.Validate(); err != nil {
		return Input{}, err
	}
	return in, nil
}

// Summary renders a short audit-log description without echoing the full
// payload into every log line.
func (in Input) Summary() string {
	switch in.Kind {
	case KindFreeText:
		text := strings.Join(strings.Fields(in.Text), " ")
		if len(text) > 120 {
			text = text[:120] + "..."
		}
		return fmt.Sprintf("free text (%d chars): %s", len(in.Text), text)
	case KindPartial:
		keys := make([]string, 0, len(in.Fields))
		for key := range in.Fields {
			keys = append(keys, key)
		}
		return fmt.Sprintf("partial mapping (%d fields)", len(keys))
	default:
		return "unknown input"
	}
}
