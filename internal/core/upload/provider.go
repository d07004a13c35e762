package upload

import (
	"context"
	"fmt"
	"strings"
)

// Storage backends
const (
	ProviderNone       = "none"
	ProviderLocal      = "local"
	ProviderS3         = "s3"
	ProviderCloudinary = "cloudinary"
)

// Object is a stored file
type Object struct {
	Key         string `json:"key"` // provider-specific identifier
	URL         string `json:"url"`
	Size        int64  `json:"size"`
	ContentType string `json:"content_type"`
}

// Provider stores receipt images
type Provider interface {
	// Save stores data under key, replacing any previous object
	Save(ctx context.Context, key string, data []byte, contentType string) (*Object, error)

	// Delete removes the object stored under key
	Delete(ctx context.Context, key string) error

	// GetURL returns the public URL of key
	GetURL(key string) string

	// GetProviderName returns the provider name
	GetProviderName() string
}

// ProviderConfig selects and configures a storage provider
type ProviderConfig struct {
	Type string

	// Local
	LocalPath    string
	LocalBaseURL string

	// S3 or any S3-compatible store
	S3AccessKeyID     string
	S3SecretAccessKey string
	S3Region          string
	S3Bucket          string
	S3Endpoint        string // optional, e.g. MinIO; enables path-style addressing

	// Cloudinary
	CloudinaryCloudName string
	CloudinaryAPIKey    string
	CloudinaryAPISecret string
}

// NewProvider creates the configured provider. It returns nil, nil when
// image storage is disabled.
func NewProvider(ctx context.Context, cfg ProviderConfig) (Provider, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Type)) {
	case "", ProviderNone:
		return nil, nil
	case ProviderLocal:
		provider, err := NewLocalProvider(cfg.LocalPath, cfg.LocalBaseURL)
		if err != nil {
			return nil, err
		}
		return provider, nil
	case ProviderS3:
		provider, err := NewS3Provider(ctx, S3Config{
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretAccessKey,
			Region:          cfg.S3Region,
			Bucket:          cfg.S3Bucket,
			Endpoint:        cfg.S3Endpoint,
		})
		if err != nil {
			return nil, err
		}
		return provider, nil
	case ProviderCloudinary:
		provider, err := NewCloudinaryProvider(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret)
		if err != nil {
			return nil, err
		}
		return provider, nil
	default:
		return nil, fmt.Errorf("unknown image store: %s", cfg.Type)
	}
}

// extensionFor maps an accepted image content type to its file extension
func extensionFor(contentType string) string {
	switch contentType {
	case "image/jpeg", "image/jpg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	default:
		return ".bin"
	}
}
