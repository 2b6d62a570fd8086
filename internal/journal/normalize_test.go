package journal

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/daybook-app/daybook/internal/gateway"
	"github.com/daybook-app/daybook/internal/models"
)

func TestEntryFromRow_LocationShapes(t *testing.T) {
	tests := []struct {
		name     string
		location any
		want     *models.Location
	}{
		{
			name:     "empty array",
			location: []any{},
			want:     nil,
		},
		{
			name:     "bare object",
			location: gateway.Row{"id": int64(1), "name": "x"},
			want:     &models.Location{ID: 1, Name: "x"},
		},
		{
			name:     "one-element array",
			location: []any{gateway.Row{"id": int64(1), "name": "x"}},
			want:     &models.Location{ID: 1, Name: "x"},
		},
		{
			name:     "absent",
			location: nil,
			want:     nil,
		},
		{
			name:     "scalar garbage",
			location: "bogus",
			want:     nil,
		},
		{
			name:     "array of garbage",
			location: []any{42},
			want:     nil,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			row := gateway.Row{"id": int64(7), "title": "t"}
			if tc.location != nil {
				row["locations"] = tc.location
			}

			entry := EntryFromRow(row)

			if tc.want == nil {
				require.Nil(t, entry.Location)
			} else {
				require.NotNil(t, entry.Location)
				require.Equal(t, *tc.want, *entry.Location)
			}
		})
	}
}

func TestEntryFromRow_MediaShapes(t *testing.T) {
	t.Run("absent yields empty", func(t *testing.T) {
		entry := EntryFromRow(gateway.Row{"id": int64(1)})
		require.Empty(t, entry.MediaFiles)
	})

	t.Run("non-object elements dropped", func(t *testing.T) {
		entry := EntryFromRow(gateway.Row{
			"id": int64(1),
			"media_files": []any{
				gateway.Row{"id": int64(2), "entry": int64(1), "file_type": "image", "file_url": "http://x/1"},
				"noise",
			},
		})
		require.Len(t, entry.MediaFiles, 1)
		require.Equal(t, models.FileTypeImage, entry.MediaFiles[0].FileType)
		require.Equal(t, int64(1), entry.MediaFiles[0].EntryID)
	})
}

func TestEntryFromRow_ScalarDefaulting(t *testing.T) {
	entry := EntryFromRow(gateway.Row{})

	require.Equal(t, int64(0), entry.ID)
	require.Equal(t, "", entry.Title)
	require.WithinDuration(t, time.Now(), entry.CreatedAt, time.Minute)
	require.WithinDuration(t, time.Now(), entry.UpdatedAt, time.Minute)
	require.False(t, entry.Synced)
}

// Rows decoded by encoding/json carry float64 ids; the normalizer must
// accept them the same as integers from in-memory fakes.
func TestEntryFromRow_JSONDecodedRow(t *testing.T) {
	doc := `{
		"id": 42,
		"title": "Trip",
		"content": "Great day",
		"mood": "Happy",
		"is_synced": true,
		"offline_id": "abc-123",
		"created_at": "2024-05-01T10:00:00.123456+00:00",
		"locations": [{"id": 3, "name": "Paris"}],
		"media_files": [{"id": 9, "entry": 42, "file_type": "audio", "file_url": "http://x/a.wav"}]
	}`

	row := gateway.Row{}
	require.NoError(t, json.Unmarshal([]byte(doc), &row))

	entry := EntryFromRow(row)

	require.Equal(t, int64(42), entry.ID)
	require.Equal(t, "Trip", entry.Title)
	require.Equal(t, "Great day", entry.Content)
	require.Equal(t, "Happy", entry.Mood)
	require.True(t, entry.Synced)
	require.Equal(t, "abc-123", entry.OfflineID)
	require.Equal(t, 2024, entry.CreatedAt.Year())

	require.NotNil(t, entry.Location)
	require.Equal(t, int64(3), entry.Location.ID)
	require.Equal(t, "Paris", entry.Location.Name)

	require.Len(t, entry.MediaFiles, 1)
	require.Equal(t, int64(9), entry.MediaFiles[0].ID)
	require.Equal(t, models.FileTypeAudio, entry.MediaFiles[0].FileType)
}
