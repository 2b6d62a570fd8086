package journal

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/daybook-app/daybook/internal/gateway"
	"github.com/daybook-app/daybook/internal/logging"
	"github.com/daybook-app/daybook/internal/models"
)

// Reloader is notified after every write so the collection can re-query the
// backend and republish. The collection satisfies it.
type Reloader interface {
	Reload(ctx context.Context)
}

// AggregateWriter orchestrates create, update and delete of an entry
// together with its location row and media attachments. The backend offers
// no multi-table transaction, so the writer sequences the dependent writes
// itself: the entry row first (fatal on failure), the location row as a
// best-effort side step, then each pending attachment strictly in order.
// Steps already committed before a failure are never rolled back.
type AggregateWriter struct {
	rows     gateway.Rows
	pipeline *AttachmentPipeline
	reloader Reloader
	log      logging.Logger
}

// NewAggregateWriter wires the writer to its collaborators.
func NewAggregateWriter(rows gateway.Rows, pipeline *AttachmentPipeline, reloader Reloader, log logging.Logger) *AggregateWriter {
	return &AggregateWriter{rows: rows, pipeline: pipeline, reloader: reloader, log: log}
}

// Create persists a draft aggregate. On success the draft carries the
// server-assigned id and timestamps. A failed entry insert aborts the whole
// call; a failed location insert is logged and the entry kept without it; a
// failed attachment upload is fatal but leaves earlier attachments in place.
func (w *AggregateWriter) Create(ctx context.Context, draft *models.Entry) error {
	if err := validate(draft); err != nil {
		return err
	}
	if draft.OfflineID == "" {
		draft.OfflineID = uuid.NewString()
	}

	row, err := w.rows.Insert(ctx, tableEntries, map[string]any{
		"title":      draft.Title,
		"content":    draft.Content,
		"mood":       draft.Mood,
		"offline_id": draft.OfflineID,
	})
	if err != nil {
		// Nothing dependent was attempted, so there is nothing to reload.
		return &PersistenceError{Op: "insert", Table: tableEntries, Err: err}
	}
	defer w.reloader.Reload(ctx)

	stored := EntryFromRow(row)
	draft.ID = stored.ID
	draft.CreatedAt = stored.CreatedAt
	draft.UpdatedAt = stored.UpdatedAt
	draft.Synced = stored.Synced

	w.writeLocation(ctx, draft, false)

	return w.uploadPending(ctx, draft)
}

// Update rewrites the entry row in place, upserts the location by entry
// reference, and uploads any attachments still carrying a pending payload.
// Already-persisted attachments are left untouched.
func (w *AggregateWriter) Update(ctx context.Context, entry *models.Entry) error {
	if entry.ID == 0 {
		return &ValidationError{Field: "id", Reason: "entry was never persisted"}
	}
	if err := validate(entry); err != nil {
		return err
	}

	err := w.rows.Update(ctx, tableEntries, entry.ID, map[string]any{
		"title":   entry.Title,
		"content": entry.Content,
		"mood":    entry.Mood,
	})
	if err != nil {
		return &PersistenceError{Op: "update", Table: tableEntries, Err: err}
	}
	defer w.reloader.Reload(ctx)

	w.writeLocation(ctx, entry, true)

	return w.uploadPending(ctx, entry)
}

// Delete removes the aggregate: every attachment (blob then metadata row),
// the location rows, and finally the entry row. Each sub-step failure is
// logged and the next sub-step still attempted; only a failed entry-row
// deletion is surfaced to the caller.
func (w *AggregateWriter) Delete(ctx context.Context, entryID int64) error {
	defer w.reloader.Reload(ctx)

	media, err := w.rows.Select(ctx, gateway.SelectQuery{
		Table:  tableMediaFiles,
		Filter: &gateway.Filter{Column: columnEntryRef, Value: entryID},
	})
	if err != nil {
		w.log.Warn(ctx, "listing attachments failed, skipping media cleanup", "entry", entryID, "error", err)
	}
	for _, row := range media {
		file := mediaFileFromRow(row)
		if err := w.pipeline.Remove(ctx, file.ID); err != nil {
			w.log.Warn(ctx, "attachment cleanup failed", "media_file", file.ID, "error", err)
		}
	}

	locations, err := w.rows.Select(ctx, gateway.SelectQuery{
		Table:  tableLocations,
		Filter: &gateway.Filter{Column: columnEntryRef, Value: entryID},
	})
	if err != nil {
		w.log.Warn(ctx, "listing locations failed, skipping location cleanup", "entry", entryID, "error", err)
	}
	for _, row := range locations {
		loc := locationFromRow(row)
		if err := w.rows.Delete(ctx, tableLocations, loc.ID); err != nil {
			w.log.Warn(ctx, "location cleanup failed", "location", loc.ID, "error", err)
		}
	}

	if err := w.rows.Delete(ctx, tableEntries, entryID); err != nil {
		return &PersistenceError{Op: "delete", Table: tableEntries, Err: err}
	}
	return nil
}

// RemoveAttachment deletes a single attachment outside a full update, the
// way the edit screen removes one photo or clip.
func (w *AggregateWriter) RemoveAttachment(ctx context.Context, mediaFileID int64) error {
	defer w.reloader.Reload(ctx)
	return w.pipeline.Remove(ctx, mediaFileID)
}

// writeLocation inserts or upserts the location row. Failures here are
// logged and swallowed: the entry without its location is an accepted
// partial state.
func (w *AggregateWriter) writeLocation(ctx context.Context, entry *models.Entry, upsert bool) {
	if entry.Location == nil || entry.Location.Name == "" {
		return
	}
	name := entry.Location.Name

	if upsert {
		existing, err := w.rows.Select(ctx, gateway.SelectQuery{
			Table:  tableLocations,
			Filter: &gateway.Filter{Column: columnEntryRef, Value: entry.ID},
		})
		if err != nil {
			w.log.Warn(ctx, "location lookup failed, keeping entry without location update", "entry", entry.ID, "error", err)
			return
		}
		if len(existing) > 0 {
			loc := locationFromRow(existing[0])
			if err := w.rows.Update(ctx, tableLocations, loc.ID, map[string]any{"name": name}); err != nil {
				w.log.Warn(ctx, "location update failed", "entry", entry.ID, "error", err)
			}
			return
		}
	}

	if _, err := w.rows.Insert(ctx, tableLocations, map[string]any{
		columnEntryRef: entry.ID,
		"name":         name,
	}); err != nil {
		w.log.Warn(ctx, "location insert failed, keeping entry without location", "entry", entry.ID, "error", err)
	}
}

// uploadPending drives the attachment pipeline for every media file that
// still carries a local payload, one at a time in slice order so failure
// attribution stays unambiguous. The first failure stops the loop; earlier
// attachments remain persisted.
func (w *AggregateWriter) uploadPending(ctx context.Context, entry *models.Entry) error {
	for i := range entry.MediaFiles {
		file := &entry.MediaFiles[i]
		if file.Pending == nil {
			continue
		}

		url, err := w.pipeline.Upload(ctx, file, entry.ID)
		if err != nil {
			return err
		}

		stored, err := w.pipeline.Register(ctx, entry.ID, url, file.FileType, file.Pending.Name)
		if err != nil {
			return err
		}
		*file = stored
	}
	return nil
}

func validate(entry *models.Entry) error {
	if strings.TrimSpace(entry.Title) == "" {
		return &ValidationError{Field: "title", Reason: "required"}
	}
	return nil
}
