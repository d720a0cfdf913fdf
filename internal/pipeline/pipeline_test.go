package pipeline_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"imprint/internal/artifacts"
	"imprint/internal/expansion"
	"imprint/internal/imprint"
	"imprint/internal/locking"
	"imprint/internal/pipeline"
	"imprint/internal/services"
	"imprint/internal/sketch"
	"imprint/internal/store"
	"imprint/internal/testsupport"
)

const cleanPayload = `{
    "name": "driftwood press",
    "tagline": "Quiet stories from the edge of the map",
    "trim_size": "5.5x8.5",
    "body_font": "Sabon LT Pro",
    "display_font": "Eurostile Next",
    "palette": {"primary": "#101c2e", "secondary": "#3a6ea5", "accent": "#c0c6d4"},
    "page_count_target": 320,
    "genres": ["science fiction"],
    "audience": "adult readers of literary sf",
    "tone": "contemplative, precise",
    "themes": ["memory", "distance"],
    "prompts": {
        "manuscript": "Write a chapter.",
        "back_cover": "Write back cover copy.",
        "marketing": "Write marketing copy."
    }
}`

func newPipeline(t *testing.T, responses ...string) (*pipeline.Pipeline, *store.Store) {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	s := testsupport.MustOpenStore(t, cfg)
	engine := expansion.NewEngine(&testsupport.StubGenerator{Responses: responses})
	p := pipeline.New(engine, s, cfg.LockDir(), nil,
		pipeline.WithClock(func() time.Time { return time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC) }),
		pipeline.WithVersionSource(func() string { return "v1" }),
	)
	return p, s
}

func TestCreateStoresDraftWithArtifacts(t *testing.T) {
	p, s := newPipeline(t, cleanPayload)

	result, err := p.Create(context.Background(),
		sketch.FreeText("quiet literary science fiction"), sketch.DefaultOptions())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	rec := result.Record
	if rec.Name != "driftwood-press" {
		t.Fatalf("name = %q", rec.Name)
	}
	if rec.Tier != store.TierDraft || rec.Version != "v1" {
		t.Fatalf("record = %+v", rec)
	}
	if !rec.Artifacts.Complete() {
		t.Fatal("artifact bundle incomplete")
	}
	if len(result.Warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", result.Warnings)
	}

	stored, err := s.Get(context.Background(), rec.Name, store.TierDraft)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if stored == nil || stored.Version != "v1" {
		t.Fatalf("stored = %+v", stored)
	}
}

func TestCreateBlockedGatePersistsNothing(t *testing.T) {
	// Duplicate body and display font blocks at the consistency gate.
	blocked := `{
        "name": "clashing house",
        "trim_size": "6x9",
        "body_font": "Sabon LT Pro",
        "display_font": "Sabon LT Pro",
        "palette": {"primary": "#101c2e", "secondary": "#3a6ea5", "accent": "#c0c6d4"},
        "page_count_target": 320,
        "genres": ["literary fiction"],
        "audience": "adult readers",
        "tone": "warm",
        "themes": ["belonging"],
        "prompts": {
            "manuscript": "Write a chapter.",
            "back_cover": "Write back cover copy.",
            "marketing": "Write marketing copy."
        }
    }`
	p, s := newPipeline(t, blocked)

	_, err := p.Create(context.Background(),
		sketch.FreeText("a clashing concept"), sketch.DefaultOptions())
	if err == nil {
		t.Fatal("expected gate failure")
	}

	current, lookupErr := s.Current(context.Background(), "clashing-house")
	if lookupErr != nil {
		t.Fatalf("Current: %v", lookupErr)
	}
	if current != nil {
		t.Fatalf("blocked create must persist nothing, got %+v", current)
	}
}

func TestRegenerateIsStable(t *testing.T) {
	p, _ := newPipeline(t, cleanPayload)
	ctx := context.Background()

	result, err := p.Create(ctx, sketch.FreeText("quiet literary science fiction"), sketch.DefaultOptions())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	regenerated, err := p.Regenerate(ctx, result.Record.Name, store.TierDraft)
	if err != nil {
		t.Fatalf("Regenerate: %v", err)
	}
	for _, artifactType := range artifacts.AllTypes() {
		before := result.Record.Artifacts[artifactType]
		after := regenerated.Artifacts[artifactType]
		if before.Checksum != after.Checksum {
			t.Errorf("%s checksum changed across regeneration", artifactType)
		}
		if after.Version != result.Record.Version {
			t.Errorf("%s version = %q", artifactType, after.Version)
		}
	}
}

func TestMutationsConflictWhileLockHeld(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	s := testsupport.MustOpenStore(t, cfg)
	engine := expansion.NewEngine(&testsupport.StubGenerator{Responses: []string{cleanPayload}})
	p := pipeline.New(engine, s, cfg.LockDir(), nil,
		pipeline.WithVersionSource(func() string { return "v1" }),
	)
	ctx := context.Background()

	result, err := p.Create(ctx, sketch.FreeText("quiet literary science fiction"), sketch.DefaultOptions())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	held, err := locking.AcquireName(cfg.LockDir(), result.Record.Name)
	if err != nil {
		t.Fatalf("AcquireName: %v", err)
	}
	defer held.Release()

	var conflict *locking.ConflictError
	if _, err := p.Regenerate(ctx, result.Record.Name, store.TierDraft); !errors.As(err, &conflict) {
		t.Fatalf("Regenerate while locked: expected ConflictError, got %v", err)
	}
	if _, err := p.Create(ctx, sketch.FreeText("quiet literary science fiction"), sketch.DefaultOptions()); !errors.As(err, &conflict) {
		t.Fatalf("Create while locked: expected ConflictError, got %v", err)
	}
}

func TestValidateReturnsFindingsWithoutBlocking(t *testing.T) {
	p, s := newPipeline(t, cleanPayload)
	ctx := context.Background()

	result, err := p.Create(ctx, sketch.FreeText("quiet literary science fiction"), sketch.DefaultOptions())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	findings, err := p.Validate(ctx, result.Record.Name, "")
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if len(findings) != 0 {
		t.Fatalf("clean record should have no findings: %v", findings)
	}

	// Validate surfaces conflicts on stored records without refusing.
	def := result.Record.Definition
	def.Design.DisplayFont = def.Design.BodyFont
	set, genErr := artifacts.GenerateAll(result.Record.Definition, "v2", time.Now())
	if genErr != nil {
		t.Fatalf("GenerateAll: %v", genErr)
	}
	if _, saveErr := s.SaveDraft(ctx, def, "v2", set); saveErr != nil {
		t.Fatalf("SaveDraft: %v", saveErr)
	}
	findings, err = p.Validate(ctx, result.Record.Name, store.TierDraft)
	if err != nil {
		t.Fatalf("Validate conflicted: %v", err)
	}
	if !findings.HasErrors() {
		t.Fatalf("expected conflict findings, got %v", findings)
	}
}

func TestLookupsRejectUnknownImprints(t *testing.T) {
	p, _ := newPipeline(t, cleanPayload)
	ctx := context.Background()

	if _, err := p.Validate(ctx, "no-such-imprint", ""); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, err := p.Regenerate(ctx, "Not A Slug", ""); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCheckDefinitionCombinesGates(t *testing.T) {
	def := testsupport.Definition(t, func(d *imprint.Definition) {
		d.Focus.Themes = nil
		d.Design.DisplayFont = d.Design.BodyFont
	})
	findings := pipeline.CheckDefinition(def)
	if !findings.HasErrors() {
		t.Fatal("expected a blocking conflict")
	}
	if len(findings.Warnings()) == 0 {
		t.Fatal("expected the themes warning to pass through")
	}
}
