package services

import (
	"context"
	"errors"
	"fmt"
	"io"

	"cloud.google.com/go/storage"
	firebase "firebase.google.com/go/v4"
)

// GCSAvatarService holds avatar objects in the Firebase app's GCS bucket.
// Writes overwrite any existing object for the key, so an avatar re-upload
// replaces the previous one in place.
type GCSAvatarService struct {
	bucket     *storage.BucketHandle
	bucketName string
}

func NewGCSAvatarService(ctx context.Context, app *firebase.App, bucketName string) (*GCSAvatarService, error) {
	stg, err := app.Storage(ctx)
	if err != nil {
		return nil, fmt.Errorf("storage client: %w", err)
	}
	bucket, err := stg.Bucket(bucketName)
	if err != nil {
		return nil, fmt.Errorf("bucket %q: %w", bucketName, err)
	}
	return &GCSAvatarService{bucket: bucket, bucketName: bucketName}, nil
}

func (s *GCSAvatarService) Upload(ctx context.Context, key, contentType string, data io.Reader) (string, error) {
	w := s.bucket.Object(key).NewWriter(ctx)
	w.ContentType = contentType

	if _, err := io.Copy(w, data); err != nil {
		w.Close()
		return "", fmt.Errorf("upload %q: %w", key, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("upload %q: %w", key, err)
	}

	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", s.bucketName, key), nil
}

func (s *GCSAvatarService) Delete(ctx context.Context, key string) error {
	err := s.bucket.Object(key).Delete(ctx)
	if err != nil && !errors.Is(err, storage.ErrObjectNotExist) {
		return err
	}
	return nil
}
