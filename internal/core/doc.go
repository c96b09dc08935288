// Package core provides the business logic for CSV quality auditing,
// cleaning, and export formatting. This package has no UI dependencies
// and can be used by any frontend.
//
// # Architecture
//
// The package is built around three pure operations on Table values:
//
//   - Score computes a 0-100 data health score with summary metrics.
//   - Clean applies an ordered, independently toggleable sequence of
//     cleaning steps (deduplication, empty-row removal, whitespace
//     trimming, name title-casing, email filtering).
//   - Format renames column headers for a registered export target
//     such as Salesforce.
//
// None of these mutate their input; each returns a new Table. Ordering
// of cleaning steps is fixed and significant: deduplication runs before
// empty-row removal, which runs before the per-cell transforms, which
// run before email filtering.
//
// # Sessions
//
// Service wraps the pure operations with the per-upload state a host
// needs: each uploaded file becomes a session holding the original
// table and the most recent cleaned table. Cleaning always starts from
// the original table, so re-running with a different configuration is
// never cumulative. Sessions expire after an idle TTL.
//
// # Export targets
//
// Export targets self-register via RegisterTarget, typically from
// init() functions in the targets subpackage. Import that package for
// its side effects:
//
//	import _ "github.com/datascrub/datascrub/internal/core/targets"
package core
