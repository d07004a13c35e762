package upload

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const receiptFolder = "receipts"

// Archive keeps the original image of every processed receipt
type Archive struct {
	provider Provider
}

// NewArchive creates a receipt image archive on provider
func NewArchive(provider Provider) *Archive {
	return &Archive{provider: provider}
}

// ReceiptKey returns the storage key of a receipt image,
// e.g. receipts/2025/08/<id>.jpg
func ReceiptKey(id uuid.UUID, contentType string, at time.Time) string {
	return fmt.Sprintf("%s/%s/%s%s", receiptFolder, at.UTC().Format("2006/01"), id, extensionFor(contentType))
}

// SaveReceipt stores the image of receipt id
func (a *Archive) SaveReceipt(ctx context.Context, id uuid.UUID, image []byte, contentType string, at time.Time) (*Object, error) {
	if len(image) == 0 {
		return nil, fmt.Errorf("image is empty")
	}
	return a.provider.Save(ctx, ReceiptKey(id, contentType, at), image, contentType)
}

// Delete removes a stored receipt image
func (a *Archive) Delete(ctx context.Context, key string) error {
	return a.provider.Delete(ctx, key)
}

// GetProviderName returns the current provider name
func (a *Archive) GetProviderName() string {
	return a.provider.GetProviderName()
}
