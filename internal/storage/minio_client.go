package storage

import (
	"context"
	"fmt"
	"io"
	"mime"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/voicenative/backend/internal/config"
)

// Uploader stores listing media (logos, screenshots) and returns the public
// URL a submission later references.
type Uploader interface {
	UploadImage(ctx context.Context, userID uuid.UUID, kind, fileName string, file io.Reader, size int64) (string, error)
}

// MinIOClient serves the app-assets bucket behind the public storage host.
type MinIOClient struct {
	client *minio.Client
	cfg    *config.Config
}

func NewMinIOClient(cfg *config.Config) (*MinIOClient, error) {
	client, err := minio.New(cfg.StorageEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.StorageAccessKey, cfg.StorageSecretKey, ""),
		Secure: cfg.StorageUseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}
	return &MinIOClient{client: client, cfg: cfg}, nil
}

var allowedImageExts = map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".webp": true}

func (m *MinIOClient) UploadImage(ctx context.Context, userID uuid.UUID, kind, fileName string, file io.Reader, size int64) (string, error) {
	fileExt := strings.ToLower(filepath.Ext(fileName))
	if !allowedImageExts[fileExt] {
		return "", fmt.Errorf("unsupported image type %q", fileExt)
	}

	contentType := mime.TypeByExtension(fileExt)
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	objectName := fmt.Sprintf("%s/%s-%s%s", userID, kind, uuid.New().String(), fileExt)

	_, err := m.client.PutObject(ctx, m.cfg.StorageBucket, objectName, file, size,
		minio.PutObjectOptions{
			ContentType: contentType,
			UserMetadata: map[string]string{
				"original-filename": fileName,
				"uploaded-by":       userID.String(),
			},
		})
	if err != nil {
		return "", fmt.Errorf("failed to upload image: %w", err)
	}

	return m.PublicURL(objectName), nil
}

// PublicURL builds the CDN-facing URL for an object; the same shape the
// URLValidator accepts. The configured host is normalized the same way
// NewURLValidator normalizes it, so a missing leading dot cannot produce a
// URL the validator would then reject.
func (m *MinIOClient) PublicURL(objectName string) string {
	suffix := m.cfg.StoragePublicHost
	if !strings.HasPrefix(suffix, ".") {
		suffix = "." + suffix
	}
	return fmt.Sprintf("https://assets%s/%s/%s", suffix, m.cfg.StorageBucket, objectName)
}
