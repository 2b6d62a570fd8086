package cli

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path/filepath"

	"github.com/daybook-app/daybook/internal/models"
)

// audioExtensions marks which attachments are recorded clips rather than
// photos. Everything else is treated as an image.
var audioExtensions = map[string]bool{
	".wav": true, ".mp3": true, ".m4a": true, ".ogg": true, ".aac": true,
}

func (a *App) attach(ctx context.Context, args []string) {
	id, ok := parseID(args)
	if !ok || len(args) < 2 {
		fmt.Println("Usage: attach <id> <file>")
		return
	}
	path := args[1]

	entry, err := a.collection.Get(id)
	if err != nil {
		fmt.Println("not found:", id)
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Println("cannot read file:", err)
		return
	}

	ext := filepath.Ext(path)
	fileType := models.FileTypeImage
	if audioExtensions[ext] {
		fileType = models.FileTypeAudio
	}
	contentType := mime.TypeByExtension(ext)
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	entry.MediaFiles = append(entry.MediaFiles, models.MediaFile{
		FileType: fileType,
		FilePath: filepath.Base(path),
		Pending: &models.PendingFile{
			Name:        filepath.Base(path),
			ContentType: contentType,
			Data:        data,
		},
	})

	if err := a.writer.Update(ctx, &entry); err != nil {
		fmt.Println("attach failed:", err)
		return
	}
	fmt.Println("Attached.")
}

func (a *App) detach(ctx context.Context, args []string) {
	id, ok := parseID(args)
	if !ok {
		fmt.Println("Usage: detach <media-id>")
		return
	}

	if err := a.writer.RemoveAttachment(ctx, id); err != nil {
		fmt.Println("detach failed:", err)
		return
	}
	fmt.Println("Detached.")
}
