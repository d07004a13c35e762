package upload

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// LocalPublicPath is the URL prefix local images are served under
const LocalPublicPath = "/receipt-images"

// LocalProvider stores files on the local filesystem
type LocalProvider struct {
	basePath string // Base directory for uploads
	baseURL  string // Base URL to access files
}

// NewLocalProvider creates a new local file storage provider
func NewLocalProvider(basePath, baseURL string) (*LocalProvider, error) {
	if basePath == "" {
		return nil, fmt.Errorf("local image path is empty")
	}
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}

	return &LocalProvider{
		basePath: basePath,
		baseURL:  strings.TrimRight(baseURL, "/"),
	}, nil
}

// BasePath returns the directory files are written to
func (p *LocalProvider) BasePath() string {
	return p.basePath
}

// Save writes data to basePath/key
func (p *LocalProvider) Save(ctx context.Context, key string, data []byte, contentType string) (*Object, error) {
	filePath, err := p.path(key)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(filepath.Dir(filePath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create folder: %w", err)
	}

	// Write through a temp file so readers never see a partial image
	tmp := filePath + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return nil, fmt.Errorf("failed to write file: %w", err)
	}
	if err := os.Rename(tmp, filePath); err != nil {
		_ = os.Remove(tmp)
		return nil, fmt.Errorf("failed to write file: %w", err)
	}

	return &Object{
		Key:         key,
		URL:         p.GetURL(key),
		Size:        int64(len(data)),
		ContentType: contentType,
	}, nil
}

// Delete deletes a file from local filesystem
func (p *LocalProvider) Delete(ctx context.Context, key string) error {
	filePath, err := p.path(key)
	if err != nil {
		return err
	}

	if err := os.Remove(filePath); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("file not found: %s", key)
		}
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// GetURL gets the public URL for a file
func (p *LocalProvider) GetURL(key string) string {
	return p.baseURL + LocalPublicPath + "/" + key
}

// GetProviderName returns the provider name
func (p *LocalProvider) GetProviderName() string {
	return "Local Storage"
}

// path resolves key inside basePath, rejecting keys that escape it
func (p *LocalProvider) path(key string) (string, error) {
	if !filepath.IsLocal(filepath.FromSlash(key)) {
		return "", fmt.Errorf("invalid key: %s", key)
	}
	return filepath.Join(p.basePath, filepath.FromSlash(key)), nil
}
