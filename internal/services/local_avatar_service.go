package services

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// LocalAvatarService stores avatars on the local filesystem for the
// development backend. Files are served statically under /uploads/.
type LocalAvatarService struct {
	uploadDir string
}

func NewLocalAvatarService(uploadDir string) *LocalAvatarService {
	os.MkdirAll(uploadDir, 0o755)
	return &LocalAvatarService{uploadDir: uploadDir}
}

func (s *LocalAvatarService) Upload(ctx context.Context, key, contentType string, data io.Reader) (string, error) {
	path := filepath.Join(s.uploadDir, key)

	dst, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create %q: %w", path, err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, data); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("save %q: %w", path, err)
	}

	return "/uploads/" + key, nil
}

func (s *LocalAvatarService) Delete(ctx context.Context, key string) error {
	if err := os.Remove(filepath.Join(s.uploadDir, key)); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
