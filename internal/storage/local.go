package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// LocalDocumentStore keeps documents on the local filesystem. Suitable for
// development and single-node deployments; the reference is the file name
// relative to the base directory.
type LocalDocumentStore struct {
	baseDir string
}

func NewLocalDocumentStore(baseDir string) (*LocalDocumentStore, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create document directory: %w", err)
	}
	return &LocalDocumentStore{baseDir: baseDir}, nil
}

func (s *LocalDocumentStore) Store(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	if strings.Contains(key, "..") {
		return "", fmt.Errorf("invalid document key: %s", key)
	}
	path := filepath.Join(s.baseDir, key)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write document %s: %w", key, err)
	}
	return key, nil
}

func (s *LocalDocumentStore) Retrieve(ctx context.Context, reference string) ([]byte, error) {
	if strings.Contains(reference, "..") {
		return nil, fmt.Errorf("invalid document reference: %s", reference)
	}
	return os.ReadFile(filepath.Join(s.baseDir, reference))
}

func (s *LocalDocumentStore) Exists(ctx context.Context, reference string) (bool, error) {
	if strings.Contains(reference, "..") {
		return false, fmt.Errorf("invalid document reference: %s", reference)
	}
	_, err := os.Stat(filepath.Join(s.baseDir, reference))
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
