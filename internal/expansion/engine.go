package expansion

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"imprint/internal/imprint"
	"imprint/internal/logging"
	"imprint/internal/services/generation"
	"imprint/internal/sketch"
)

// IncompleteExpansionError reports the required fields still empty after the
// generation capability was given one fill-in retry.
type IncompleteExpansionError struct {
	Missing []string
}

func (e *IncompleteExpansionError) Error() string {
	return fmt.Sprintf("expansion incomplete: generation returned no usable content for required fields: %s",
		strings.Join(e.Missing, ", "))
}

// Engine expands sketchy input into imprint definition candidates.
type Engine struct {
	client generation.Client
	logger *slog.Logger
	now    func() time.Time
}

// Option customizes the engine.
type Option func(*Engine)

// WithLogger attaches a structured logger for the audit trail.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithClock overrides the timestamp source (useful for tests).
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// NewEngine constructs an expansion engine around a generation client.
func NewEngine(client generation.Client, opts ...Option) *Engine {
	engine := &Engine{
		client: client,
		logger: logging.NewNop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(engine)
	}
	return engine
}

// Expand produces a fully populated definition candidate. It does not write
// to the store; callers run the validators and decide persistence.
func (e *Engine) Expand(ctx context.Context, input sketch.Input, opts sketch.Options) (imprint.Definition, error) {
	if err := input.Validate(); err != nil {
		return imprint.Definition{}, err
	}
	if opts.Completeness == "" {
		opts.Completeness = sketch.CompletenessStandard
	}

	e.logger.Info("expansion started",
		logging.String("input", input.Summary()),
		logging.Bool("assume_defaults", opts.AssumeDefaults),
		logging.String("completeness", string(opts.Completeness)),
	)

	userPrompt, err := buildUserPrompt(input, opts)
	if err != nil {
		return imprint.Definition{}, err
	}

	var payload expansionPayload
	raw, err := e.client.GenerateJSON(ctx, expansionSystemPrompt, userPrompt)
	if err != nil {
		return imprint.Definition{}, fmt.Errorf("expansion: generation call: %w", err)
	}
	if err := generation.DecodeJSON(raw, &payload); err != nil {
		// Malformed output is "no usable content"; the fill-in retry below
		// gets one chance to recover whatever defaults cannot cover.
		e.logger.Warn("expansion payload unusable", logging.Error(err))
		payload = expansionPayload{}
	}

	candidate := e.assemble(payload, input, opts)

	if missing := missingRequired(candidate); len(missing) > 0 {
		e.logger.Info("expansion retrying for missing fields", logging.Any("missing", missing))
		raw, err := e.client.GenerateJSON(ctx, fillSystemPrompt, buildFillPrompt(missing, candidate))
		if err != nil {
			return imprint.Definition{}, fmt.Errorf("expansion: fill-in call: %w", err)
		}
		var fill expansionPayload
		if err := generation.DecodeJSON(raw, &fill); err != nil {
			e.logger.Warn("fill-in payload unusable", logging.Error(err))
		} else {
			candidate = mergePayload(candidate, fill)
		}
		if still := missingRequired(candidate); len(still) > 0 {
			return imprint.Definition{}, &IncompleteExpansionError{Missing: still}
		}
	}

	e.logger.Info("expansion completed",
		logging.String("imprint", candidate.Name),
		logging.Int("genres", len(candidate.Focus.Genres)),
		logging.Int("prompts", len(candidate.Prompts)),
	)
	return candidate, nil
}

// assemble builds the candidate by layering, lowest precedence first:
// defaults (when assume_defaults), model output, caller-supplied fields.
func (e *Engine) assemble(payload expansionPayload, input sketch.Input, opts sketch.Options) imprint.Definition {
	def := imprint.Definition{
		CreatedAt: e.now().UTC(),
		Prompts:   map[imprint.PromptPurpose]string{},
	}

	def = mergePayload(def, payload)
	def = overlayPartial(def, input)

	if def.Name == "" && input.Kind == sketch.KindFreeText {
		def.Name = slugFromConcept(input.Text)
	}

	if opts.AssumeDefaults {
		def = applyDefaults(def)
	}
	if def.Design.Margins == (imprint.Margins{}) {
		def.Design.Margins = defaultMargins
	}

	for i, genre := range def.Focus.Genres {
		def.Focus.Genres[i] = imprint.NormalizeGenre(genre)
	}
	return def
}

// mergePayload fills empty definition fields from a model payload without
// overwriting anything already set.
func mergePayload(def imprint.Definition, payload expansionPayload) imprint.Definition {
	setString(&def.Name, imprint.Slugify(payload.Name))
	setString(&def.Tagline, payload.Tagline)
	setString(&def.Mission, payload.Mission)
	if !def.Design.TrimSize.Valid() {
		if trim, ok := imprint.ParseTrimSize(payload.TrimSize); ok {
			def.Design.TrimSize = trim
		}
	}
	setString(&def.Design.BodyFont, payload.BodyFont)
	setString(&def.Design.DisplayFont, payload.DisplayFont)
	setColor(&def.Design.Palette.Primary, payload.Palette.Primary)
	setColor(&def.Design.Palette.Secondary, payload.Palette.Secondary)
	setColor(&def.Design.Palette.Accent, payload.Palette.Accent)
	if def.Design.PageCountTarget == 0 && payload.PageCountTarget > 0 {
		def.Design.PageCountTarget = payload.PageCountTarget
	}
	if len(def.Focus.Genres) == 0 {
		def.Focus.Genres = cleanList(payload.Genres)
	}
	setString(&def.Focus.Audience, payload.Audience)
	setString(&def.Focus.Tone, payload.Tone)
	if len(def.Focus.Themes) == 0 {
		def.Focus.Themes = cleanList(payload.Themes)
	}
	if len(def.CodexTypes) == 0 {
		def.CodexTypes = cleanList(payload.CodexTypes)
	}
	if def.Prompts == nil {
		def.Prompts = map[imprint.PromptPurpose]string{}
	}
	for purpose, tmpl := range payload.Prompts {
		key := imprint.PromptPurpose(strings.ToLower(strings.TrimSpace(purpose)))
		if strings.TrimSpace(def.Prompts[key]) == "" && strings.TrimSpace(tmpl) != "" {
			def.Prompts[key] = strings.TrimSpace(tmpl)
		}
	}
	return def
}

// overlayPartial forces caller-supplied partial fields over whatever the
// model produced; user input always wins.
func overlayPartial(def imprint.Definition, input sketch.Input) imprint.Definition {
	if input.Kind != sketch.KindPartial {
		return def
	}
	if name, ok := input.StringField("name"); ok {
		def.Name = imprint.Slugify(name)
	}
	if tagline, ok := input.StringField("tagline"); ok {
		def.Tagline = tagline
	}
	if mission, ok := input.StringField("mission"); ok {
		def.Mission = mission
	}
	if trimRaw, ok := input.StringField("trim_size"); ok {
		if trim, ok := imprint.ParseTrimSize(trimRaw); ok {
			def.Design.TrimSize = trim
		}
	}
	if font, ok := input.StringField("body_font"); ok {
		def.Design.BodyFont = font
	}
	if font, ok := input.StringField("display_font"); ok {
		def.Design.DisplayFont = font
	}
	if genres, ok := input.StringsField("genres"); ok && len(genres) > 0 {
		def.Focus.Genres = genres
	}
	if audience, ok := input.StringField("audience"); ok {
		def.Focus.Audience = audience
	}
	if tone, ok := input.StringField("tone"); ok {
		def.Focus.Tone = tone
	}
	if themes, ok := input.StringsField("themes"); ok && len(themes) > 0 {
		def.Focus.Themes = themes
	}
	return def
}

// applyDefaults fills whatever the model and caller left empty with the
// genre-family house defaults. Defaults live here and nowhere else; artifact
// generators refuse missing fields instead of guessing.
func applyDefaults(def imprint.Definition) imprint.Definition {
	if len(def.Focus.Genres) == 0 {
		def.Focus.Genres = []string{"literary fiction"}
	}
	house := defaultsForGenres(def.Focus.Genres)

	if !def.Design.TrimSize.Valid() {
		def.Design.TrimSize = house.trim
	}
	setString(&def.Design.BodyFont, house.bodyFont)
	setString(&def.Design.DisplayFont, house.display)
	if !def.Design.Palette.Primary.Valid() {
		def.Design.Palette.Primary = house.palette.Primary
	}
	if !def.Design.Palette.Secondary.Valid() {
		def.Design.Palette.Secondary = house.palette.Secondary
	}
	if !def.Design.Palette.Accent.Valid() {
		def.Design.Palette.Accent = house.palette.Accent
	}
	if def.Design.PageCountTarget == 0 {
		def.Design.PageCountTarget = house.pageCount
	}
	setString(&def.Focus.Audience, "general adult readers")
	setString(&def.Focus.Tone, "confident, engaging")
	if len(def.CodexTypes) == 0 {
		def.CodexTypes = []string{defaultCodexType}
	}
	for _, purpose := range imprint.StandardPromptPurposes() {
		if !def.HasPrompt(purpose) {
			def.Prompts[purpose] = stockPromptTemplate(purpose, def.Focus)
		}
	}
	return def
}

// missingRequired lists the required fields still empty, sorted for stable
// error messages.
func missingRequired(def imprint.Definition) []string {
	var missing []string
	if def.Name == "" {
		missing = append(missing, "name")
	}
	if !def.Design.TrimSize.Valid() {
		missing = append(missing, "trim_size")
	}
	if strings.TrimSpace(def.Design.BodyFont) == "" {
		missing = append(missing, "body_font")
	}
	if strings.TrimSpace(def.Design.DisplayFont) == "" {
		missing = append(missing, "display_font")
	}
	if !def.Design.Palette.Valid() {
		missing = append(missing, "palette")
	}
	if def.Design.PageCountTarget <= 0 {
		missing = append(missing, "page_count_target")
	}
	if len(def.Focus.Genres) == 0 {
		missing = append(missing, "genres")
	}
	if strings.TrimSpace(def.Focus.Audience) == "" {
		missing = append(missing, "audience")
	}
	if strings.TrimSpace(def.Focus.Tone) == "" {
		missing = append(missing, "tone")
	}
	for _, purpose := range imprint.StandardPromptPurposes() {
		if !def.HasPrompt(purpose) {
			missing = append(missing, "prompts."+string(purpose))
		}
	}
	sort.Strings(missing)
	return missing
}

func slugFromConcept(text string) string {
	words := strings.Fields(text)
	if len(words) > 4 {
		words = words[:4]
	}
	return imprint.Slugify(strings.Join(words, " "))
}

func setString(dst *string, value string) {
	if strings.TrimSpace(*dst) == "" && strings.TrimSpace(value) != "" {
		*dst = strings.TrimSpace(value)
	}
}

func setColor(dst *imprint.Color, value string) {
	if dst.Valid() {
		return
	}
	if color, ok := imprint.ParseColor(value); ok {
		*dst = color
	}
}

func cleanList(values []string) []string {
	var out []string
	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
