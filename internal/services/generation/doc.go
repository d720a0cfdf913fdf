// Package generation wraps the external text-generation capability behind a
// function-shaped interface: given a prompt pair and an expected JSON shape,
// return structured text. Providers occasionally return malformed or fenced
// payloads, so DecodeJSON tolerates code fences and stray prose; callers must
// still validate the decoded content before trusting it.
//
// The HTTP client targets an OpenRouter/OpenAI-compatible chat-completions
// endpoint with JSON-only responses, bounded timeouts, and exponential
// backoff that honors Retry-After.
package generation
