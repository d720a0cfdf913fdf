package promotion

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"

	"imprint/internal/artifacts"
	"imprint/internal/consistency"
	"imprint/internal/imprint"
	"imprint/internal/locking"
	"imprint/internal/logging"
	"imprint/internal/services"
	"imprint/internal/services/texcompile"
	"imprint/internal/store"
	"imprint/internal/validation"
)

// nextTier is the single-step promotion table. Anything not listed is
// rejected; archive is reached through Deprecate, never Promote.
var nextTier = map[store.Tier]store.Tier{
	store.TierDraft:   store.TierStaging,
	store.TierStaging: store.TierProduction,
}

// Options controls a single promotion request.
type Options struct {
	// From pins the source tier. When empty the most promoted non-production
	// record is used.
	From store.Tier
	// Confirm acknowledges a production promotion. Required for
	// staging to production; ignored elsewhere.
	Confirm bool
}

// Manager drives tier transitions. Every promotion revalidates the
// definition and its artifacts before the store commits the move, so a
// record that passed checks last week cannot ride into production on stale
// credentials.
type Manager struct {
	store    *store.Store
	compiler texcompile.Oracle
	logger   *slog.Logger
	lockDir  string
}

// NewManager wires a promotion manager.
func NewManager(st *store.Store, compiler texcompile.Oracle, lockDir string, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Manager{store: st, compiler: compiler, logger: logger, lockDir: lockDir}
}

// Promote moves the named imprint one tier forward after its gates pass.
// Concurrent mutations for the same name conflict; the loser gets
// locking.ConflictError without touching the store.
func (m *Manager) Promote(ctx context.Context, name string, opts Options) (*store.Record, error) {
	if !imprint.ValidName(name) {
		return nil, services.Wrap(services.ErrValidation, "promotion", "promote", fmt.Sprintf("invalid imprint name %q", name), nil)
	}

	lock, err := locking.AcquireName(m.lockDir, name)
	if err != nil {
		return nil, err
	}
	defer lock.Release()

	rec, err := m.sourceRecord(ctx, name, opts.From)
	if err != nil {
		return nil, err
	}
	target, ok := nextTier[rec.Tier]
	if !ok {
		return nil, &TransitionError{Name: name, From: rec.Tier, To: rec.Tier}
	}
	if target == store.TierProduction && !opts.Confirm {
		return nil, services.Wrap(services.ErrValidation, "promotion", "promote",
			fmt.Sprintf("promoting %q to production requires confirmation", name), nil)
	}

	logger := logging.WithContext(ctx, m.logger).With(
		logging.String(logging.FieldImprint, name),
		logging.String(logging.FieldVersion, rec.Version),
	)
	logger.Info("promotion gates starting",
		logging.String("from", string(rec.Tier)),
		logging.String("to", string(target)))

	if err := m.runGates(ctx, rec, target); err != nil {
		logger.Warn("promotion blocked", logging.Error(err))
		return nil, err
	}

	promoted, err := m.store.CommitPromotion(ctx, name, rec.Version, rec.Tier, target)
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, "promotion", "commit", "", err)
	}
	logger.Info("promotion committed", logging.String(logging.FieldTier, string(target)))
	return promoted, nil
}

// Deprecate archives the named imprint from the given tier, or from its most
// promoted tier when none is specified.
func (m *Manager) Deprecate(ctx context.Context, name string, tier store.Tier) (store.Tier, error) {
	if !imprint.ValidName(name) {
		return "", services.Wrap(services.ErrValidation, "promotion", "deprecate", fmt.Sprintf("invalid imprint name %q", name), nil)
	}

	lock, err := locking.AcquireName(m.lockDir, name)
	if err != nil {
		return "", err
	}
	defer lock.Release()

	if tier == "" {
		current, err := m.store.Current(ctx, name)
		if err != nil {
			return "", err
		}
		if current == nil {
			return "", services.Wrap(services.ErrNotFound, "promotion", "deprecate", fmt.Sprintf("no records for imprint %q", name), nil)
		}
		tier = current.Tier
	}

	archived, err := m.store.Deprecate(ctx, name, tier)
	if err != nil {
		return "", err
	}
	if !archived {
		return "", services.Wrap(services.ErrNotFound, "promotion", "deprecate",
			fmt.Sprintf("no %s record for imprint %q", tier, name), nil)
	}
	logging.WithContext(ctx, m.logger).Info("imprint deprecated",
		logging.String(logging.FieldImprint, name),
		logging.String(logging.FieldTier, string(tier)))
	return tier, nil
}

func (m *Manager) sourceRecord(ctx context.Context, name string, from store.Tier) (*store.Record, error) {
	if from != "" {
		if _, ok := nextTier[from]; !ok {
			return nil, &TransitionError{Name: name, From: from, To: from}
		}
		rec, err := m.store.Get(ctx, name, from)
		if err != nil {
			return nil, err
		}
		if rec == nil {
			return nil, services.Wrap(services.ErrNotFound, "promotion", "promote",
				fmt.Sprintf("no %s record for imprint %q", from, name), nil)
		}
		return rec, nil
	}

	for _, tier := range []store.Tier{store.TierStaging, store.TierDraft} {
		rec, err := m.store.Get(ctx, name, tier)
		if err != nil {
			return nil, err
		}
		if rec != nil {
			return rec, nil
		}
	}
	return nil, services.Wrap(services.ErrNotFound, "promotion", "promote",
		fmt.Sprintf("no promotable record for imprint %q", name), nil)
}

// runGates re-checks everything the target tier demands. Schema and
// consistency run on every move; template compilation gates entry into
// staging so a broken template never reaches an operator.
func (m *Manager) runGates(ctx context.Context, rec *store.Record, target store.Tier) error {
	schema := validation.CheckSchema(rec.Definition)
	if schema.HasErrors() {
		return &validation.SchemaError{Results: schema}
	}
	if results := consistency.Check(rec.Definition); results.HasErrors() {
		return &consistency.Error{Results: results}
	}
	if err := verifyArtifacts(rec); err != nil {
		return err
	}
	if target == store.TierStaging {
		if err := m.compileTemplates(ctx, rec); err != nil {
			return err
		}
	}
	return nil
}

// verifyArtifacts confirms the bundle is complete, tagged with the record's
// version, and byte-for-byte what its checksums claim.
func verifyArtifacts(rec *store.Record) error {
	if !rec.Artifacts.Complete() {
		for _, t := range artifacts.AllTypes() {
			if _, ok := rec.Artifacts[t]; !ok {
				return services.Wrap(services.ErrValidation, "promotion", "verify artifacts",
					fmt.Sprintf("artifact %s is missing; regenerate before promoting", t), nil)
			}
		}
	}
	for _, t := range artifacts.AllTypes() {
		artifact := rec.Artifacts[t]
		if artifact.Version != rec.Version {
			return services.Wrap(services.ErrValidation, "promotion", "verify artifacts",
				fmt.Sprintf("artifact %s was generated for version %s, record is %s; regenerate before promoting", t, artifact.Version, rec.Version), nil)
		}
		sum := sha256.Sum256(artifact.Content)
		if hex.EncodeToString(sum[:]) != artifact.Checksum {
			return services.Wrap(services.ErrValidation, "promotion", "verify artifacts",
				fmt.Sprintf("artifact %s content does not match its checksum; regenerate before promoting", t), nil)
		}
	}
	return nil
}

func (m *Manager) compileTemplates(ctx context.Context, rec *store.Record) error {
	if m.compiler == nil {
		return services.Wrap(services.ErrConfiguration, "promotion", "compile templates", "no compiler configured", nil)
	}
	for _, t := range []artifacts.Type{artifacts.TypeInteriorTemplate, artifacts.TypeCoverTemplate} {
		artifact := rec.Artifacts[t]
		if err := m.compiler.Compile(ctx, string(t), artifact.Content); err != nil {
			return err
		}
	}
	return nil
}
