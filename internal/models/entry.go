// Package models defines the client-side value objects of the journal:
// entries, their optional locations, and attached media files.
package models

import "time"

// Moods is the advisory vocabulary offered by the UI. The mood field itself
// is an open string set; anything the backend stored is accepted.
var Moods = []string{"Happy", "Sad", "Excited", "Thoughtful", "Anxious", "Calm"}

// Entry is one diary entry together with its optional location and media
// attachments, treated as a single aggregate by the writer.
//
// An Entry with ID == 0 has never been persisted. The server assigns ID,
// CreatedAt and UpdatedAt on the first insert.
type Entry struct {
	// ID is the server-assigned identifier, 0 before the first persist.
	ID int64

	// Title is required for creation.
	Title string

	// Content is the free-text body, optional.
	Content string

	// Mood is an optional label, open string set (see Moods).
	Mood string

	// CreatedAt / UpdatedAt are server-assigned timestamps.
	CreatedAt time.Time
	UpdatedAt time.Time

	// Synced mirrors the backend is_synced column.
	Synced bool

	// OfflineID is a client-generated identifier assigned when the draft is
	// built. It is carried to the backend but not used for offline queuing.
	OfflineID string

	// Location is the optional place label owned by this entry.
	Location *Location

	// MediaFiles are the attachments; order is not significant.
	MediaFiles []MediaFile
}

// Location is a free-text place label, 1:1 with its owning entry and
// addressed by a foreign reference to the entry row.
type Location struct {
	ID   int64
	Name string
}
