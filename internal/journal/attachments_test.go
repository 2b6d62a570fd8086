package journal

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/daybook-app/daybook/internal/models"
)

func newTestPipeline(t *testing.T) (*AttachmentPipeline, *fakeRows, *fakeBlobs) {
	t.Helper()
	rows := newFakeRows()
	blobs := newFakeBlobs()
	p := NewAttachmentPipeline(rows, blobs, "media", testLogger())
	p.now = func() time.Time { return time.UnixMilli(1714557600000) }
	return p, rows, blobs
}

func TestUpload_KeyEmbedsEntryTypeTimestampAndName(t *testing.T) {
	p, _, blobs := newTestPipeline(t)

	file := pendingImage("my photo!.jpg")
	url, err := p.Upload(context.Background(), &file, 7)
	require.NoError(t, err)

	require.Equal(t, "http://blobs.local/media/7/image/1714557600000_my_photo_.jpg", url)
	require.Contains(t, blobs.objects, "media/7/image/1714557600000_my_photo_.jpg")
	require.Equal(t, "image/jpeg", blobs.contentTypes["media/7/image/1714557600000_my_photo_.jpg"])
}

func TestUpload_KeysStaySafe(t *testing.T) {
	p, _, blobs := newTestPipeline(t)
	safe := regexp.MustCompile(`^[A-Za-z0-9._/-]+$`)

	for _, name := range []string{"väderkvarn.png", "a b c.wav", "..//etc", ""} {
		file := models.MediaFile{
			FileType: models.FileTypeAudio,
			Pending:  &models.PendingFile{Name: name, ContentType: "audio/wav", Data: []byte("x")},
		}
		_, err := p.Upload(context.Background(), &file, 1)
		require.NoError(t, err)
	}

	for key := range blobs.objects {
		require.Regexp(t, safe, key)
	}
}

func TestUpload_NoPendingPayload(t *testing.T) {
	p, _, _ := newTestPipeline(t)

	file := models.MediaFile{FileType: models.FileTypeImage}
	_, err := p.Upload(context.Background(), &file, 1)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestUpload_StorageFault(t *testing.T) {
	p, _, blobs := newTestPipeline(t)
	blobs.failSubstr = "photo"

	file := pendingImage("photo.jpg")
	_, err := p.Upload(context.Background(), &file, 1)

	var uerr *UploadError
	require.ErrorAs(t, err, &uerr)
	require.Contains(t, uerr.Key, "photo.jpg")
}

func TestRegister_ReturnsStoredRow(t *testing.T) {
	p, rows, _ := newTestPipeline(t)

	stored, err := p.Register(context.Background(), 7, "http://blobs.local/media/k", models.FileTypeImage, "photo.jpg")
	require.NoError(t, err)

	require.NotZero(t, stored.ID)
	require.Equal(t, int64(7), stored.EntryID)
	require.Equal(t, "http://blobs.local/media/k", stored.FileURL)
	require.Equal(t, 1, rows.count(tableMediaFiles))
}

func TestRemove_NotFound(t *testing.T) {
	p, _, _ := newTestPipeline(t)

	err := p.Remove(context.Background(), 99)

	var nerr *NotFoundError
	require.ErrorAs(t, err, &nerr)
	require.Equal(t, int64(99), nerr.ID)
}

func TestRemove_MissingBlobStillDeletesRow(t *testing.T) {
	p, rows, blobs := newTestPipeline(t)
	row := rows.seed(tableMediaFiles, map[string]any{
		"entry": int64(1), "file_type": "image", "file_url": "http://blobs.local/media/1/image/x.jpg",
	})
	blobs.failRemove = errors.New("no such object")

	require.NoError(t, p.Remove(context.Background(), row["id"].(int64)))
	require.Zero(t, rows.count(tableMediaFiles))
}

func TestRemove_RowDeleteFails(t *testing.T) {
	p, rows, _ := newTestPipeline(t)
	row := rows.seed(tableMediaFiles, map[string]any{
		"entry": int64(1), "file_type": "image", "file_url": "http://blobs.local/media/1/image/x.jpg",
	})
	rows.failDelete[tableMediaFiles] = errors.New("db down")

	err := p.Remove(context.Background(), row["id"].(int64))

	var perr *PersistenceError
	require.ErrorAs(t, err, &perr)
	require.Equal(t, "delete", perr.Op)
}

func TestRemove_UnparseableURLSkipsBlob(t *testing.T) {
	p, rows, blobs := newTestPipeline(t)
	row := rows.seed(tableMediaFiles, map[string]any{
		"entry": int64(1), "file_type": "image", "file_url": "http://elsewhere/unrelated",
	})

	require.NoError(t, p.Remove(context.Background(), row["id"].(int64)))
	require.Empty(t, blobs.removed)
	require.Zero(t, rows.count(tableMediaFiles))
}
