// Package analysis defines the canonical analysis result types and the
// normalizer that produces them from raw server replies.
//
// The remote service's reply format is not contractually fixed: partial
// rollouts return detection lists without a summary, cold instances return
// warming notices in at least three shapes, and a misbehaving deployment can
// return anything at all. Normalize is the single defense against a
// half-formed payload reaching rendering code; every component downstream of
// the transport client assumes it has already run.
//
// Normalize is pure and free of side effects, which keeps the fallback
// branches directly testable. Diagnostic logging of odd payloads belongs to
// the caller.
package analysis
