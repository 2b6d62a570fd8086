package journal

import (
	"encoding/json"
	"time"

	"github.com/daybook-app/daybook/internal/gateway"
	"github.com/daybook-app/daybook/internal/models"
)

// The backend's relationship expansion is not consistent about shape: a
// related row can arrive as an array, a bare object, or be missing
// entirely, and numeric fields vary with the JSON decoder in use. The
// functions below fold all of that into the canonical models. They are
// pure and total: a malformed row degrades to zero values, never panics.

// EntryFromRow converts one raw joined row into a canonical Entry.
func EntryFromRow(row gateway.Row) models.Entry {
	e := models.Entry{
		ID:        intField(row, "id"),
		Title:     stringField(row, "title"),
		Content:   stringField(row, "content"),
		Mood:      stringField(row, "mood"),
		CreatedAt: timeField(row, "created_at"),
		UpdatedAt: timeField(row, "updated_at"),
		Synced:    boolField(row, "is_synced"),
		OfflineID: stringField(row, "offline_id"),
	}
	e.Location = locationFromValue(row["locations"])
	e.MediaFiles = mediaFilesFromValue(row["media_files"])
	return e
}

// locationFromValue maps the related-location field to an optional single
// Location: array yields its first element or absent, a bare object yields
// itself, anything else yields absent.
func locationFromValue(v any) *models.Location {
	switch t := v.(type) {
	case []any:
		if len(t) == 0 {
			return nil
		}
		if m, ok := t[0].(gateway.Row); ok {
			loc := locationFromRow(m)
			return &loc
		}
		return nil
	case gateway.Row:
		loc := locationFromRow(t)
		return &loc
	default:
		return nil
	}
}

func locationFromRow(row gateway.Row) models.Location {
	return models.Location{
		ID:   intField(row, "id"),
		Name: stringField(row, "name"),
	}
}

// mediaFilesFromValue maps the related-media field, an array or absent, to a
// possibly-empty slice. Elements that are not objects are dropped.
func mediaFilesFromValue(v any) []models.MediaFile {
	arr, ok := v.([]any)
	if !ok {
		return nil
	}
	files := make([]models.MediaFile, 0, len(arr))
	for _, item := range arr {
		if m, ok := item.(gateway.Row); ok {
			files = append(files, mediaFileFromRow(m))
		}
	}
	return files
}

func mediaFileFromRow(row gateway.Row) models.MediaFile {
	return models.MediaFile{
		ID:        intField(row, "id"),
		EntryID:   intField(row, "entry"),
		FileType:  models.FileType(stringField(row, "file_type")),
		FileURL:   stringField(row, "file_url"),
		FilePath:  stringField(row, "file_path"),
		CreatedAt: timeField(row, "created_at"),
	}
}

func stringField(row gateway.Row, key string) string {
	s, _ := row[key].(string)
	return s
}

func boolField(row gateway.Row, key string) bool {
	b, _ := row[key].(bool)
	return b
}

// intField accepts the numeric representations produced by encoding/json
// (float64, json.Number) as well as plain integers from in-memory fakes.
func intField(row gateway.Row, key string) int64 {
	switch t := row[key].(type) {
	case float64:
		return int64(t)
	case int64:
		return t
	case int:
		return int64(t)
	case json.Number:
		n, err := t.Int64()
		if err != nil {
			return 0
		}
		return n
	default:
		return 0
	}
}

// timeField parses a timestamp field, defaulting to the current time when
// the value is missing or unparseable so a malformed row stays usable.
func timeField(row gateway.Row, key string) time.Time {
	s, ok := row[key].(string)
	if !ok {
		return time.Now()
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05.999999"} {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts
		}
	}
	return time.Now()
}
