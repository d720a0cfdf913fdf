package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"imprint/internal/artifacts"
	"imprint/internal/consistency"
	"imprint/internal/expansion"
	"imprint/internal/imprint"
	"imprint/internal/locking"
	"imprint/internal/logging"
	"imprint/internal/services"
	"imprint/internal/sketch"
	"imprint/internal/store"
	"imprint/internal/validation"
)

// Pipeline runs the create and maintenance flows for imprint definitions:
// expansion, the validation gates, artifact generation, and persistence.
type Pipeline struct {
	engine     *expansion.Engine
	store      *store.Store
	logger     *slog.Logger
	lockDir    string
	now        func() time.Time
	newVersion func() string
}

// Option customizes the pipeline.
type Option func(*Pipeline)

// WithClock overrides the timestamp source (useful for tests).
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) {
		if now != nil {
			p.now = now
		}
	}
}

// WithVersionSource overrides version tag generation (useful for tests).
func WithVersionSource(newVersion func() string) Option {
	return func(p *Pipeline) {
		if newVersion != nil {
			p.newVersion = newVersion
		}
	}
}

// New wires a pipeline around an expansion engine and a store. lockDir holds
// the per-name lock files shared with the promotion manager.
func New(engine *expansion.Engine, st *store.Store, lockDir string, logger *slog.Logger, opts ...Option) *Pipeline {
	if logger == nil {
		logger = logging.NewNop()
	}
	p := &Pipeline{
		engine:     engine,
		store:      st,
		logger:     logger,
		lockDir:    lockDir,
		now:        time.Now,
		newVersion: uuid.NewString,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// CreateResult is the outcome of a successful create: the stored draft
// record plus any non-blocking warnings the gates raised.
type CreateResult struct {
	Record   *store.Record
	Warnings validation.Results
}

// Create expands sketchy input into a full definition, runs it through the
// schema and consistency gates, generates the artifact bundle, and stores
// the result as a new draft. Nothing is persisted when any step fails.
func (p *Pipeline) Create(ctx context.Context, input sketch.Input, opts sketch.Options) (*CreateResult, error) {
	ctx = services.WithRequestID(ctx, uuid.NewString())
	logger := logging.WithContext(ctx, p.logger).With(logging.String(logging.FieldComponent, "pipeline"))

	logger.Info("create started", logging.String("input", input.Summary()))

	def, err := p.engine.Expand(ctx, input, opts)
	if err != nil {
		return nil, err
	}

	// The lock is taken only after expansion so a slow generation call never
	// holds other operations on the same name hostage.
	lock, err := locking.AcquireName(p.lockDir, def.Name)
	if err != nil {
		return nil, err
	}
	defer lock.Release()

	warnings, err := runGates(def)
	if err != nil {
		return nil, err
	}

	version := p.newVersion()
	set, err := artifacts.GenerateAll(def, version, p.now())
	if err != nil {
		return nil, err
	}

	rec, err := p.store.SaveDraft(ctx, def, version, set)
	if err != nil {
		return nil, err
	}

	logger.Info("draft created",
		logging.String(logging.FieldImprint, rec.Name),
		logging.String(logging.FieldVersion, rec.Version),
		logging.Int("warnings", len(warnings)),
	)
	return &CreateResult{Record: rec, Warnings: warnings}, nil
}

// Regenerate rebuilds the artifact bundle for a stored record from its
// definition, keeping the version tag. Generation is deterministic, so an
// unchanged definition yields a byte-identical bundle; the stored set is
// replaced wholesale either way.
func (p *Pipeline) Regenerate(ctx context.Context, name string, tier store.Tier) (*store.Record, error) {
	if !imprint.ValidName(name) {
		return nil, services.Wrap(services.ErrValidation, "pipeline", "regenerate", fmt.Sprintf("invalid imprint name %q", name), nil)
	}

	// The lock spans the read and the write so the bundle never lands on a
	// record other than the one it was generated from.
	lock, err := locking.AcquireName(p.lockDir, name)
	if err != nil {
		return nil, err
	}
	defer lock.Release()

	rec, err := p.requireRecord(ctx, name, tier)
	if err != nil {
		return nil, err
	}

	set, err := artifacts.GenerateAll(rec.Definition, rec.Version, p.now())
	if err != nil {
		return nil, err
	}

	changed := false
	for _, t := range artifacts.AllTypes() {
		if !bytes.Equal(set[t].Content, rec.Artifacts[t].Content) {
			changed = true
			break
		}
	}

	if err := p.store.ReplaceArtifacts(ctx, rec.Name, rec.Tier, rec.Version, set); err != nil {
		return nil, err
	}

	logging.WithContext(ctx, p.logger).Info("artifacts regenerated",
		logging.String(logging.FieldImprint, rec.Name),
		logging.String(logging.FieldVersion, rec.Version),
		logging.Bool("changed", changed),
	)
	return p.store.Get(ctx, rec.Name, rec.Tier)
}

// Validate re-runs the schema and consistency gates against a stored record
// and returns every finding, errors and warnings both, without blocking.
func (p *Pipeline) Validate(ctx context.Context, name string, tier store.Tier) (validation.Results, error) {
	rec, err := p.requireRecord(ctx, name, tier)
	if err != nil {
		return nil, err
	}
	return CheckDefinition(rec.Definition), nil
}

// CheckDefinition runs both gates and returns the combined findings sorted.
func CheckDefinition(def imprint.Definition) validation.Results {
	results := validation.CheckSchema(def)
	results = append(results, consistency.Check(def)...)
	results.Sort()
	return results
}

// runGates enforces the blocking gates in order: schema first, then
// consistency. Warnings from both gates pass through to the caller.
func runGates(def imprint.Definition) (validation.Results, error) {
	schema := validation.CheckSchema(def)
	if schema.HasErrors() {
		return nil, &validation.SchemaError{Results: schema}
	}
	conflicts := consistency.Check(def)
	if conflicts.HasErrors() {
		return nil, &consistency.Error{Results: conflicts}
	}

	warnings := append(schema.Warnings(), conflicts.Warnings()...)
	warnings.Sort()
	return warnings, nil
}

func (p *Pipeline) requireRecord(ctx context.Context, name string, tier store.Tier) (*store.Record, error) {
	if !imprint.ValidName(name) {
		return nil, services.Wrap(services.ErrValidation, "pipeline", "lookup", fmt.Sprintf("invalid imprint name %q", name), nil)
	}

	var (
		rec *store.Record
		err error
	)
	if tier == "" {
		rec, err = p.store.Current(ctx, name)
	} else {
		rec, err = p.store.Get(ctx, name, tier)
	}
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, services.Wrap(services.ErrNotFound, "pipeline", "lookup", fmt.Sprintf("no record for imprint %q", name), nil)
	}
	return rec, nil
}
