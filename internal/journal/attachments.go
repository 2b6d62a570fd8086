package journal

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/daybook-app/daybook/internal/gateway"
	"github.com/daybook-app/daybook/internal/logging"
	"github.com/daybook-app/daybook/internal/models"
)

const (
	tableEntries    = "entries"
	tableLocations  = "locations"
	tableMediaFiles = "media_files"

	// columnEntryRef is the foreign-reference column on child tables.
	columnEntryRef = "entry"
)

// AttachmentPipeline moves a pending local file into the blob store and
// registers its metadata row, and performs the inverse removal. Upload and
// registration are separate steps on purpose: a failed registration leaves
// an orphaned blob, which the writer accepts rather than compensating.
type AttachmentPipeline struct {
	rows   gateway.Rows
	blobs  gateway.Blobs
	bucket string
	log    logging.Logger

	// now is injectable for deterministic storage keys in tests.
	now func() time.Time
}

// NewAttachmentPipeline builds a pipeline writing blobs into bucket.
func NewAttachmentPipeline(rows gateway.Rows, blobs gateway.Blobs, bucket string, log logging.Logger) *AttachmentPipeline {
	return &AttachmentPipeline{rows: rows, blobs: blobs, bucket: bucket, log: log, now: time.Now}
}

// Upload stores the pending payload of f under a collision-resistant key
// and returns the public URL. The caller must not register a metadata row
// if this fails.
func (p *AttachmentPipeline) Upload(ctx context.Context, f *models.MediaFile, entryID int64) (string, error) {
	if f.Pending == nil {
		return "", &ValidationError{Field: "attachment", Reason: "no pending payload to upload"}
	}

	key := p.storageKey(entryID, f.FileType, f.Pending.Name)

	if err := p.blobs.Upload(ctx, p.bucket, key, f.Pending.Data, f.Pending.ContentType); err != nil {
		return "", &UploadError{Key: key, Err: err}
	}

	return p.blobs.PublicURL(p.bucket, key), nil
}

// Register inserts the metadata row pointing at an uploaded URL and returns
// the stored attachment with its server-assigned id.
func (p *AttachmentPipeline) Register(ctx context.Context, entryID int64, url string, fileType models.FileType, filePath string) (models.MediaFile, error) {
	row, err := p.rows.Insert(ctx, tableMediaFiles, map[string]any{
		columnEntryRef: entryID,
		"file_type":    string(fileType),
		"file_url":     url,
		"file_path":    filePath,
	})
	if err != nil {
		return models.MediaFile{}, &PersistenceError{Op: "insert", Table: tableMediaFiles, Err: err}
	}
	return mediaFileFromRow(row), nil
}

// Remove deletes an attachment: blob first (best-effort, a missing blob is
// only logged), then the metadata row (fatal if it fails).
func (p *AttachmentPipeline) Remove(ctx context.Context, mediaFileID int64) error {
	rows, err := p.rows.Select(ctx, gateway.SelectQuery{
		Table:  tableMediaFiles,
		Filter: &gateway.Filter{Column: "id", Value: mediaFileID},
	})
	if err != nil {
		return &PersistenceError{Op: "select", Table: tableMediaFiles, Err: err}
	}
	if len(rows) == 0 {
		return &NotFoundError{Table: tableMediaFiles, ID: mediaFileID}
	}

	file := mediaFileFromRow(rows[0])

	if key, ok := p.keyFromURL(file.FileURL); ok {
		if err := p.blobs.Remove(ctx, p.bucket, key); err != nil {
			p.log.Warn(ctx, "blob removal failed, leaving orphan", "key", key, "error", err)
		}
	} else {
		p.log.Warn(ctx, "cannot derive storage key, skipping blob removal", "url", file.FileURL)
	}

	if err := p.rows.Delete(ctx, tableMediaFiles, mediaFileID); err != nil {
		return &PersistenceError{Op: "delete", Table: tableMediaFiles, Err: err}
	}
	return nil
}

// storageKey embeds entry id, media type, a timestamp and the sanitized
// original filename, keeping keys both collision-resistant and traceable.
func (p *AttachmentPipeline) storageKey(entryID int64, fileType models.FileType, filename string) string {
	return fmt.Sprintf("%d/%s/%d_%s", entryID, fileType, p.now().UnixMilli(), sanitizeFilename(filename))
}

// keyFromURL recovers the storage key from a public URL produced by the
// blob gateway ("…/<bucket>/<key>").
func (p *AttachmentPipeline) keyFromURL(url string) (string, bool) {
	marker := "/" + p.bucket + "/"
	i := strings.Index(url, marker)
	if i < 0 {
		return "", false
	}
	key := url[i+len(marker):]
	return key, key != ""
}

// sanitizeFilename replaces anything outside [A-Za-z0-9._-] so the name is
// safe inside an object key.
func sanitizeFilename(name string) string {
	if name == "" {
		return "file"
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.' || r == '_' || r == '-':
			return r
		default:
			return '_'
		}
	}, name)
}
