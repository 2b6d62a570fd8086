package models

import "time"

// FileType classifies a media attachment.
type FileType string

const (
	FileTypeImage FileType = "image"
	FileTypeAudio FileType = "audio"
)

// MediaFile is one attachment of an entry. Persisted rows carry ID and
// FileURL; a freshly captured attachment instead carries Pending, which is
// consumed by the attachment pipeline and must never reach the row gateway.
type MediaFile struct {
	// ID is the server-assigned identifier, 0 before the metadata row exists.
	ID int64

	// EntryID references the owning entry row.
	EntryID int64

	// FileType is exactly "image" or "audio".
	FileType FileType

	// FileURL is the blob-store public URL, set only after upload.
	FileURL string

	// FilePath is the original local-relative file name, optional.
	FilePath string

	CreatedAt time.Time

	// Pending holds the not-yet-uploaded local payload. Transient.
	Pending *PendingFile
}

// PendingFile is a local payload waiting to be uploaded.
type PendingFile struct {
	// Name is the original file name, used when deriving the storage key.
	Name string

	// ContentType is the MIME type preserved through the upload.
	ContentType string

	Data []byte
}

// Persisted reports whether the metadata row for this attachment exists.
func (m *MediaFile) Persisted() bool { return m.ID != 0 }
