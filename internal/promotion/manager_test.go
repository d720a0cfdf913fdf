package promotion

import (
	"context"
	"errors"
	"testing"
	"time"

	"imprint/internal/artifacts"
	"imprint/internal/imprint"
	"imprint/internal/locking"
	"imprint/internal/services"
	"imprint/internal/store"
	"imprint/internal/testsupport"
)

func seedDraft(t *testing.T, s *store.Store, opts ...func(*imprint.Definition)) *store.Record {
	t.Helper()
	def := testsupport.Definition(t, opts...)
	set, err := artifacts.GenerateAll(def, "v1", time.Date(2026, 1, 20, 10, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("GenerateAll: %v", err)
	}
	rec, err := s.SaveDraft(context.Background(), def, "v1", set)
	if err != nil {
		t.Fatalf("SaveDraft: %v", err)
	}
	return rec
}

func TestPromoteDraftToStagingCompilesTemplates(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	s := testsupport.MustOpenStore(t, cfg)
	rec := seedDraft(t, s)

	oracle := &testsupport.StubOracle{}
	mgr := NewManager(s, oracle, cfg.LockDir(), nil)

	promoted, err := mgr.Promote(context.Background(), rec.Name, Options{})
	if err != nil {
		t.Fatalf("Promote: %v", err)
	}
	if promoted.Tier != store.TierStaging {
		t.Fatalf("tier = %q", promoted.Tier)
	}
	if len(oracle.Compiled) != 2 {
		t.Fatalf("compiled templates = %v", oracle.Compiled)
	}
}

func TestPromoteToProductionRequiresConfirmation(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	s := testsupport.MustOpenStore(t, cfg)
	rec := seedDraft(t, s)

	mgr := NewManager(s, &testsupport.StubOracle{}, cfg.LockDir(), nil)
	ctx := context.Background()

	if _, err := mgr.Promote(ctx, rec.Name, Options{}); err != nil {
		t.Fatalf("Promote to staging: %v", err)
	}
	if _, err := mgr.Promote(ctx, rec.Name, Options{}); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected confirmation requirement, got %v", err)
	}

	promoted, err := mgr.Promote(ctx, rec.Name, Options{Confirm: true})
	if err != nil {
		t.Fatalf("Promote to production: %v", err)
	}
	if promoted.Tier != store.TierProduction {
		t.Fatalf("tier = %q", promoted.Tier)
	}
}

func TestPromoteToProductionSupersedesOccupant(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	s := testsupport.MustOpenStore(t, cfg)
	def := testsupport.Definition(t)
	ctx := context.Background()

	mgr := NewManager(s, &testsupport.StubOracle{}, cfg.LockDir(), nil)
	when := time.Date(2026, 1, 20, 10, 0, 0, 0, time.UTC)

	for _, version := range []string{"v1", "v2"} {
		set, err := artifacts.GenerateAll(def, version, when)
		if err != nil {
			t.Fatalf("GenerateAll %s: %v", version, err)
		}
		if _, err := s.SaveDraft(ctx, def, version, set); err != nil {
			t.Fatalf("SaveDraft %s: %v", version, err)
		}
		if _, err := mgr.Promote(ctx, def.Name, Options{}); err != nil {
			t.Fatalf("Promote %s to staging: %v", version, err)
		}
		if _, err := mgr.Promote(ctx, def.Name, Options{Confirm: true}); err != nil {
			t.Fatalf("Promote %s to production: %v", version, err)
		}
	}

	live, err := s.List(ctx, store.TierProduction)
	if err != nil {
		t.Fatalf("List production: %v", err)
	}
	if len(live) != 1 || live[0].Version != "v2" {
		t.Fatalf("production records = %+v", live)
	}

	history, err := s.History(ctx, def.Name)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	var displaced *store.ArchiveEntry
	for i := range history {
		if history[i].Tier == store.TierProduction && history[i].Version == "v1" {
			displaced = &history[i]
		}
	}
	if displaced == nil {
		t.Fatalf("displaced production record not archived: %+v", history)
	}
	if displaced.Reason != store.ReasonSuperseded {
		t.Fatalf("archive reason = %q", displaced.Reason)
	}
	if !displaced.Artifacts.Complete() {
		t.Fatal("archived bundle incomplete")
	}
	for artifactType, artifact := range displaced.Artifacts {
		if artifact.Version != "v1" {
			t.Fatalf("archived %s carries version %q", artifactType, artifact.Version)
		}
	}
}

func TestPromoteBlockedByCompileFailure(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	s := testsupport.MustOpenStore(t, cfg)
	rec := seedDraft(t, s)

	oracle := &testsupport.StubOracle{FailFor: map[string][]string{
		string(artifacts.TypeCoverTemplate): {"! Undefined control sequence."},
	}}
	mgr := NewManager(s, oracle, cfg.LockDir(), nil)

	if _, err := mgr.Promote(context.Background(), rec.Name, Options{}); err == nil {
		t.Fatal("expected compile failure to block promotion")
	}
	if draft, _ := s.Get(context.Background(), rec.Name, store.TierDraft); draft == nil {
		t.Fatal("blocked promotion must leave the draft in place")
	}
}

func TestPromoteBlockedByStaleArtifactVersion(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	s := testsupport.MustOpenStore(t, cfg)
	rec := seedDraft(t, s)

	stale := rec.Artifacts.Clone()
	for artifactType, artifact := range stale {
		artifact.Version = "v0"
		stale[artifactType] = artifact
	}
	if err := s.ReplaceArtifacts(context.Background(), rec.Name, store.TierDraft, rec.Version, stale); err != nil {
		t.Fatalf("ReplaceArtifacts: %v", err)
	}

	mgr := NewManager(s, &testsupport.StubOracle{}, cfg.LockDir(), nil)
	if _, err := mgr.Promote(context.Background(), rec.Name, Options{}); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected stale artifact rejection, got %v", err)
	}
}

func TestPromoteBlockedByChecksumMismatch(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	s := testsupport.MustOpenStore(t, cfg)
	rec := seedDraft(t, s)

	tampered := rec.Artifacts.Clone()
	artifact := tampered[artifacts.TypePromptSet]
	artifact.Content = append(artifact.Content, '#')
	tampered[artifacts.TypePromptSet] = artifact
	if err := s.ReplaceArtifacts(context.Background(), rec.Name, store.TierDraft, rec.Version, tampered); err != nil {
		t.Fatalf("ReplaceArtifacts: %v", err)
	}

	mgr := NewManager(s, &testsupport.StubOracle{}, cfg.LockDir(), nil)
	if _, err := mgr.Promote(context.Background(), rec.Name, Options{}); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected checksum rejection, got %v", err)
	}
}

func TestPromoteConflictsWhileLockHeld(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	s := testsupport.MustOpenStore(t, cfg)
	rec := seedDraft(t, s)

	held, err := locking.AcquireName(cfg.LockDir(), rec.Name)
	if err != nil {
		t.Fatalf("AcquireName: %v", err)
	}
	defer held.Release()

	mgr := NewManager(s, &testsupport.StubOracle{}, cfg.LockDir(), nil)
	_, err = mgr.Promote(context.Background(), rec.Name, Options{})

	var conflict *locking.ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("expected ConflictError, got %v", err)
	}
	if conflict.Name != rec.Name {
		t.Fatalf("conflict name = %q", conflict.Name)
	}
}

func TestPromoteRejectsInvalidSource(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	s := testsupport.MustOpenStore(t, cfg)
	rec := seedDraft(t, s)

	mgr := NewManager(s, &testsupport.StubOracle{}, cfg.LockDir(), nil)

	var transition *TransitionError
	_, err := mgr.Promote(context.Background(), rec.Name, Options{From: store.TierProduction})
	if !errors.As(err, &transition) {
		t.Fatalf("expected TransitionError, got %v", err)
	}

	if _, err := mgr.Promote(context.Background(), "no-such-imprint", Options{}); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestDeprecateDefaultsToMostPromotedTier(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	s := testsupport.MustOpenStore(t, cfg)
	rec := seedDraft(t, s)

	mgr := NewManager(s, &testsupport.StubOracle{}, cfg.LockDir(), nil)
	ctx := context.Background()

	if _, err := mgr.Promote(ctx, rec.Name, Options{}); err != nil {
		t.Fatalf("Promote: %v", err)
	}

	tier, err := mgr.Deprecate(ctx, rec.Name, "")
	if err != nil {
		t.Fatalf("Deprecate: %v", err)
	}
	if tier != store.TierStaging {
		t.Fatalf("deprecated tier = %q", tier)
	}

	if _, err := mgr.Deprecate(ctx, rec.Name, ""); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not found after deprecation, got %v", err)
	}
}
