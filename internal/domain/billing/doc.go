// Package billing provides domain models for due date metering in a
// multi-tenant application.
//
// Firms consume a single metered resource: due dates. Each subscription plan
// carries a due date limit for one billing period, and every firm owns one
// usage counter per billing period. The package is responsible for:
//   - Deriving billing period keys from a firm's billing anchor day
//   - Deciding, at write time, whether a firm may create one more due date
//   - Projecting the firm's current quota status for display
//
// Key types:
//   - Plan: immutable plan definition with a due date limit (-1 = unlimited)
//   - UsageCounter: per (firm, period) count of due dates created
//   - Decision: the ALLOW/DENY outcome of a write-time quota check
//   - QuotaStatus: derived, never persisted status projection
//
// The write-time decision is authoritative and race-safe; any cached status
// shown to clients is advisory only.
package billing
