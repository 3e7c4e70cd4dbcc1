// Package drive uploads exported episodes to Google Drive.
package drive

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path/filepath"

	gdrive "google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"

	"github.com/fsmatos/nl2audio-cli/pkg/logger"
)

// Uploader uploads local files to a Google Drive folder.
type Uploader struct {
	srv      *gdrive.Service
	folderID string
}

func NewUploader(srv *gdrive.Service, folderID string) *Uploader {
	return &Uploader{srv: srv, folderID: folderID}
}

// UploadFile uploads the file at localPath to the configured folder.
// dstFileName overrides the name; empty uses the base name of localPath.
// Returns the Drive file ID and the webViewLink.
func (u *Uploader) UploadFile(ctx context.Context, localPath, dstFileName string) (string, string, error) {
	if dstFileName == "" {
		dstFileName = filepath.Base(localPath)
	}
	f, err := os.Open(localPath)
	if err != nil {
		return "", "", err
	}
	defer f.Close()

	mimeType := mime.TypeByExtension(filepath.Ext(dstFileName))
	if mimeType == "" {
		mimeType = "audio/mpeg"
	}

	file := &gdrive.File{
		Name:     dstFileName,
		MimeType: mimeType,
	}
	if u.folderID != "" {
		file.Parents = []string{u.folderID}
	}

	mediaOpts := []googleapi.MediaOption{googleapi.ChunkSize(2 * 1024 * 1024)}
	created, err := u.srv.Files.Create(file).Context(ctx).Media(f, mediaOpts...).Do()
	if err != nil {
		return "", "", fmt.Errorf("drive upload failed: %w", err)
	}
	logger.Info("uploaded episode to drive", "name", dstFileName, "id", created.Id)

	got, err := u.srv.Files.Get(created.Id).Fields("id,webViewLink").Context(ctx).Do()
	if err != nil {
		return created.Id, "", nil
	}
	return got.Id, got.WebViewLink, nil
}
