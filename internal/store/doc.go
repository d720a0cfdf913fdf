// Package store persists imprint definitions and their artifact bundles in
// SQLite. Live records occupy one of three tiers (draft, staging,
// production) with at most one record per name per tier; everything that
// leaves a live tier lands in an append-only archive table with a reason.
//
// Tier moves and draft replacement run inside single transactions so the
// invariants hold under concurrent readers: a name never shows two records
// at one tier, and a superseded record is archived in the same commit that
// replaces it.
package store
