// Package journal is the entry-aggregate synchronization core.
//
// # Overview
//
// An aggregate is one diary entry plus its optional location row and its
// media attachments. The backend persists each table independently and
// offers no multi-table transaction to the client, so this package
// sequences the dependent remote writes itself and makes the accepted
// partial-failure states explicit.
//
// # Key Types
//
//   - type AggregateWriter     — create/update/delete of the whole aggregate
//   - type AttachmentPipeline  — blob upload + metadata row, and the inverse
//   - type Collection          — in-memory snapshot + publish/subscribe stream
//   - EntryFromRow             — normalization of raw joined rows
//
// # Consistency
//
// Critical-path failures (entry insert, final entry deletion, any attachment
// step) are returned to the caller as typed errors. Best-effort side steps
// (location writes, per-attachment cleanup during delete) are logged and
// swallowed. No compensation is performed: an entry can outlive a failed
// location write, and a blob can outlive a failed metadata insert.
//
// # Concurrency
//
// Within one writer call all remote operations run strictly sequentially.
// Collection.Load is idempotent; concurrent loads are not deduplicated and
// the last one to complete wins.
package journal
