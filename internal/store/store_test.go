package store_test

import (
	"context"
	"testing"
	"time"

	"imprint/internal/artifacts"
	"imprint/internal/imprint"
	"imprint/internal/store"
	"imprint/internal/testsupport"
)

func mustArtifacts(t *testing.T, def imprint.Definition, version string) artifacts.Set {
	t.Helper()
	set, err := artifacts.GenerateAll(def, version, time.Date(2026, 1, 20, 10, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("GenerateAll: %v", err)
	}
	return set
}

func TestSaveDraftAndGet(t *testing.T) {
	ctx := context.Background()
	s := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	def := testsupport.Definition(t)

	saved, err := s.SaveDraft(ctx, def, "v1", mustArtifacts(t, def, "v1"))
	if err != nil {
		t.Fatalf("SaveDraft: %v", err)
	}
	if saved.Tier != store.TierDraft || saved.Version != "v1" {
		t.Fatalf("saved = %+v", saved)
	}
	if saved.Definition.Name != def.Name {
		t.Fatalf("definition name = %q", saved.Definition.Name)
	}
	if !saved.Artifacts.Complete() {
		t.Fatal("artifacts not round-tripped")
	}

	got, err := s.Get(ctx, def.Name, store.TierDraft)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got == nil || got.ID != saved.ID {
		t.Fatalf("Get = %+v", got)
	}

	missing, err := s.Get(ctx, "no-such-imprint", store.TierDraft)
	if err != nil {
		t.Fatalf("Get missing: %v", err)
	}
	if missing != nil {
		t.Fatalf("expected nil for missing record, got %+v", missing)
	}
}

func TestSaveDraftArchivesPriorDraft(t *testing.T) {
	ctx := context.Background()
	s := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	def := testsupport.Definition(t)

	if _, err := s.SaveDraft(ctx, def, "v1", mustArtifacts(t, def, "v1")); err != nil {
		t.Fatalf("SaveDraft v1: %v", err)
	}
	if _, err := s.SaveDraft(ctx, def, "v2", mustArtifacts(t, def, "v2")); err != nil {
		t.Fatalf("SaveDraft v2: %v", err)
	}

	draft, err := s.Get(ctx, def.Name, store.TierDraft)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if draft.Version != "v2" {
		t.Fatalf("live draft version = %q", draft.Version)
	}

	history, err := s.History(ctx, def.Name)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(history) != 1 {
		t.Fatalf("history = %+v", history)
	}
	if history[0].Version != "v1" || history[0].Reason != store.ReasonSuperseded {
		t.Fatalf("archived entry = %+v", history[0])
	}
}

func TestCommitPromotionMovesAndArchivesOccupant(t *testing.T) {
	ctx := context.Background()
	s := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	def := testsupport.Definition(t)

	if _, err := s.SaveDraft(ctx, def, "v1", mustArtifacts(t, def, "v1")); err != nil {
		t.Fatalf("SaveDraft: %v", err)
	}
	promoted, err := s.CommitPromotion(ctx, def.Name, "v1", store.TierDraft, store.TierStaging)
	if err != nil {
		t.Fatalf("CommitPromotion: %v", err)
	}
	if promoted.Tier != store.TierStaging {
		t.Fatalf("tier = %q", promoted.Tier)
	}

	if draft, _ := s.Get(ctx, def.Name, store.TierDraft); draft != nil {
		t.Fatalf("draft tier should be vacant, got %+v", draft)
	}

	// A second draft promoted into staging displaces the occupant.
	if _, err := s.SaveDraft(ctx, def, "v2", mustArtifacts(t, def, "v2")); err != nil {
		t.Fatalf("SaveDraft v2: %v", err)
	}
	if _, err := s.CommitPromotion(ctx, def.Name, "v2", store.TierDraft, store.TierStaging); err != nil {
		t.Fatalf("CommitPromotion v2: %v", err)
	}

	staging, err := s.Get(ctx, def.Name, store.TierStaging)
	if err != nil {
		t.Fatalf("Get staging: %v", err)
	}
	if staging.Version != "v2" {
		t.Fatalf("staging version = %q", staging.Version)
	}

	history, err := s.History(ctx, def.Name)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	var superseded bool
	for _, entry := range history {
		if entry.Version == "v1" && entry.Tier == store.TierStaging && entry.Reason == store.ReasonSuperseded {
			superseded = true
		}
	}
	if !superseded {
		t.Fatalf("displaced staging record not archived: %+v", history)
	}
}

func TestCommitPromotionRequiresPinnedVersion(t *testing.T) {
	ctx := context.Background()
	s := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	def := testsupport.Definition(t)

	if _, err := s.SaveDraft(ctx, def, "v1", mustArtifacts(t, def, "v1")); err != nil {
		t.Fatalf("SaveDraft: %v", err)
	}
	// Draft replaced after validation; the stale promotion must fail.
	if _, err := s.SaveDraft(ctx, def, "v2", mustArtifacts(t, def, "v2")); err != nil {
		t.Fatalf("SaveDraft v2: %v", err)
	}
	if _, err := s.CommitPromotion(ctx, def.Name, "v1", store.TierDraft, store.TierStaging); err == nil {
		t.Fatal("expected stale version commit to fail")
	}
	if draft, _ := s.Get(ctx, def.Name, store.TierDraft); draft == nil || draft.Version != "v2" {
		t.Fatalf("draft should be untouched, got %+v", draft)
	}
}

func TestDeprecate(t *testing.T) {
	ctx := context.Background()
	s := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	def := testsupport.Definition(t)

	if _, err := s.SaveDraft(ctx, def, "v1", mustArtifacts(t, def, "v1")); err != nil {
		t.Fatalf("SaveDraft: %v", err)
	}
	archived, err := s.Deprecate(ctx, def.Name, store.TierDraft)
	if err != nil {
		t.Fatalf("Deprecate: %v", err)
	}
	if !archived {
		t.Fatal("expected a record to be archived")
	}
	if rec, _ := s.Get(ctx, def.Name, store.TierDraft); rec != nil {
		t.Fatalf("record should leave the live table, got %+v", rec)
	}

	history, err := s.History(ctx, def.Name)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(history) != 1 || history[0].Reason != store.ReasonDeprecated {
		t.Fatalf("history = %+v", history)
	}

	again, err := s.Deprecate(ctx, def.Name, store.TierDraft)
	if err != nil {
		t.Fatalf("Deprecate vacant: %v", err)
	}
	if again {
		t.Fatal("vacant tier should report nothing archived")
	}
}

func TestCurrentPicksMostPromoted(t *testing.T) {
	ctx := context.Background()
	s := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	def := testsupport.Definition(t)

	if _, err := s.SaveDraft(ctx, def, "v1", mustArtifacts(t, def, "v1")); err != nil {
		t.Fatalf("SaveDraft: %v", err)
	}
	if _, err := s.CommitPromotion(ctx, def.Name, "v1", store.TierDraft, store.TierStaging); err != nil {
		t.Fatalf("CommitPromotion: %v", err)
	}
	if _, err := s.SaveDraft(ctx, def, "v2", mustArtifacts(t, def, "v2")); err != nil {
		t.Fatalf("SaveDraft v2: %v", err)
	}

	current, err := s.Current(ctx, def.Name)
	if err != nil {
		t.Fatalf("Current: %v", err)
	}
	if current == nil || current.Tier != store.TierStaging || current.Version != "v1" {
		t.Fatalf("current = %+v", current)
	}
}

func TestListFiltersByTier(t *testing.T) {
	ctx := context.Background()
	s := testsupport.MustOpenStore(t, testsupport.NewConfig(t))

	first := testsupport.Definition(t)
	second := testsupport.Definition(t, func(d *imprint.Definition) {
		d.Name = "night-forge"
	})
	if _, err := s.SaveDraft(ctx, first, "v1", mustArtifacts(t, first, "v1")); err != nil {
		t.Fatalf("SaveDraft: %v", err)
	}
	if _, err := s.SaveDraft(ctx, second, "v1", mustArtifacts(t, second, "v1")); err != nil {
		t.Fatalf("SaveDraft second: %v", err)
	}
	if _, err := s.CommitPromotion(ctx, first.Name, "v1", store.TierDraft, store.TierStaging); err != nil {
		t.Fatalf("CommitPromotion: %v", err)
	}

	all, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("List all = %d records", len(all))
	}

	staged, err := s.List(ctx, store.TierStaging)
	if err != nil {
		t.Fatalf("List staging: %v", err)
	}
	if len(staged) != 1 || staged[0].Name != first.Name {
		t.Fatalf("List staging = %+v", staged)
	}

	stats, err := s.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats[store.TierDraft] != 1 || stats[store.TierStaging] != 1 {
		t.Fatalf("stats = %v", stats)
	}
}

func TestHistoryOldestFirst(t *testing.T) {
	ctx := context.Background()
	s := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	def := testsupport.Definition(t)

	for _, version := range []string{"v1", "v2", "v3"} {
		if _, err := s.SaveDraft(ctx, def, version, mustArtifacts(t, def, version)); err != nil {
			t.Fatalf("SaveDraft %s: %v", version, err)
		}
	}

	history, err := s.History(ctx, def.Name)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("history = %+v", history)
	}
	if history[0].Version != "v1" || history[1].Version != "v2" {
		t.Fatalf("history not oldest first: %+v", history)
	}
	if history[1].ArchivedAt.Before(history[0].ArchivedAt) {
		t.Fatal("archive timestamps out of order")
	}
}

func TestReplaceArtifacts(t *testing.T) {
	ctx := context.Background()
	s := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	def := testsupport.Definition(t)

	if _, err := s.SaveDraft(ctx, def, "v1", mustArtifacts(t, def, "v1")); err != nil {
		t.Fatalf("SaveDraft: %v", err)
	}
	fresh := mustArtifacts(t, def, "v1")
	if err := s.ReplaceArtifacts(ctx, def.Name, store.TierDraft, "v1", fresh); err != nil {
		t.Fatalf("ReplaceArtifacts: %v", err)
	}
	if err := s.ReplaceArtifacts(ctx, "no-such-imprint", store.TierDraft, "v1", fresh); err == nil {
		t.Fatal("expected error for missing record")
	}
}

func TestReplaceArtifactsRejectsDisplacedVersion(t *testing.T) {
	ctx := context.Background()
	s := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	def := testsupport.Definition(t)

	if _, err := s.SaveDraft(ctx, def, "v1", mustArtifacts(t, def, "v1")); err != nil {
		t.Fatalf("SaveDraft: %v", err)
	}
	v1Set := mustArtifacts(t, def, "v1")

	// A newer draft lands between generation and the write.
	if _, err := s.SaveDraft(ctx, def, "v2", mustArtifacts(t, def, "v2")); err != nil {
		t.Fatalf("SaveDraft v2: %v", err)
	}

	if err := s.ReplaceArtifacts(ctx, def.Name, store.TierDraft, "v1", v1Set); err == nil {
		t.Fatal("expected replace pinned to v1 to fail after v2 landed")
	}

	draft, err := s.Get(ctx, def.Name, store.TierDraft)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if draft.Version != "v2" {
		t.Fatalf("draft version = %q", draft.Version)
	}
	for artifactType, artifact := range draft.Artifacts {
		if artifact.Version != "v2" {
			t.Fatalf("%s carries version %q", artifactType, artifact.Version)
		}
	}
}
