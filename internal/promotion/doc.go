// Package promotion moves imprint records through the tier state machine:
// draft to staging to production, one step at a time, with archive reachable
// from any tier via deprecation.
//
// Each step re-runs the validation gates against the stored record rather
// than trusting earlier results. Entry into staging additionally compiles
// both LaTeX templates; entry into production requires explicit operator
// confirmation and supersedes any existing production record by archiving it
// in the same store transaction that flips the tier.
//
// Promotions for one name are serialized by a file lock; a contender fails
// fast with ConflictError instead of queueing.
package promotion
