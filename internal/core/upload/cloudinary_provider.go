package upload

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// CloudinaryProvider stores images in Cloudinary
type CloudinaryProvider struct {
	cld       *cloudinary.Cloudinary
	cloudName string
}

// NewCloudinaryProvider creates a new Cloudinary provider
func NewCloudinaryProvider(cloudName, apiKey, apiSecret string) (*CloudinaryProvider, error) {
	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Cloudinary: %w", err)
	}

	return &CloudinaryProvider{
		cld:       cld,
		cloudName: cloudName,
	}, nil
}

// Save uploads an image. Cloudinary public IDs carry no extension, so the
// returned key is the key without it.
func (p *CloudinaryProvider) Save(ctx context.Context, key string, data []byte, contentType string) (*Object, error) {
	publicID := strings.TrimSuffix(key, path.Ext(key))

	result, err := p.cld.Upload.Upload(ctx, bytes.NewReader(data), uploader.UploadParams{
		PublicID:     publicID,
		ResourceType: "image",
		Overwrite:    api.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload to Cloudinary: %w", err)
	}
	if result.Error.Message != "" {
		return nil, fmt.Errorf("Cloudinary upload failed: %s", result.Error.Message)
	}

	url := result.SecureURL
	if url == "" {
		url = p.GetURL(result.PublicID)
	}

	return &Object{
		Key:         result.PublicID,
		URL:         url,
		Size:        int64(result.Bytes),
		ContentType: contentType,
	}, nil
}

// Delete deletes an image from Cloudinary
func (p *CloudinaryProvider) Delete(ctx context.Context, key string) error {
	result, err := p.cld.Upload.Destroy(ctx, uploader.DestroyParams{
		PublicID:     strings.TrimSuffix(key, path.Ext(key)),
		ResourceType: "image",
	})
	if err != nil {
		return fmt.Errorf("failed to delete from Cloudinary: %w", err)
	}

	if result.Result != "ok" {
		return fmt.Errorf("Cloudinary delete failed: %s", result.Result)
	}
	return nil
}

// GetURL gets the public URL for an image
func (p *CloudinaryProvider) GetURL(key string) string {
	return fmt.Sprintf("https://res.cloudinary.com/%s/image/upload/%s", p.cloudName, key)
}

// GetProviderName returns the provider name
func (p *CloudinaryProvider) GetProviderName() string {
	return "Cloudinary"
}
