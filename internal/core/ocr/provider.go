package ocr

import (
	"context"
	"fmt"
	"strings"

	"github.com/MuhamadAgungGumelar/struk-scanner-be/internal/core/receipt"
)

// Provider interface for OCR services
type Provider interface {
	// ExtractText extracts text from image
	ExtractText(ctx context.Context, imageData []byte) (*OCRResult, error)

	// GetProviderName returns the provider name
	GetProviderName() string
}

// OCRResult contains the extracted text and metadata
type OCRResult struct {
	Text       string  `json:"text"`       // Raw extracted text
	Confidence float64 `json:"confidence"` // OCR confidence score (0-1)
}

// Input converts the result into parser input. A nil result is empty input.
func (r *OCRResult) Input() receipt.OCRInput {
	if r == nil {
		return receipt.OCRInput{}
	}
	return receipt.OCRInput{Text: r.Text, Confidence: r.Confidence}
}

// Provider names accepted by NewProvider
const (
	ProviderGoogle    = "google"
	ProviderOCRSpace  = "ocrspace"
	ProviderTesseract = "tesseract"
)

// ProviderConfig selects and configures an OCR provider
type ProviderConfig struct {
	Type              string
	GoogleAPIKey      string
	OCRSpaceAPIKey    string
	TesseractLanguage string
}

// NewProvider creates the configured OCR provider
func NewProvider(cfg ProviderConfig) (Provider, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Type)) {
	case ProviderGoogle:
		if cfg.GoogleAPIKey == "" {
			return nil, fmt.Errorf("GOOGLE_VISION_API_KEY is required")
		}
		return NewGoogleVisionProvider(cfg.GoogleAPIKey), nil
	case ProviderOCRSpace:
		if cfg.OCRSpaceAPIKey == "" {
			return nil, fmt.Errorf("OCRSPACE_API_KEY is required")
		}
		return NewOCRSpaceProvider(cfg.OCRSpaceAPIKey), nil
	case ProviderTesseract, "":
		return NewTesseractProvider(cfg.TesseractLanguage), nil
	default:
		return nil, fmt.Errorf("unknown OCR provider: %s", cfg.Type)
	}
}

// Service wraps the OCR provider
type Service struct {
	provider Provider
}

// NewService creates a new OCR service with the given provider
func NewService(provider Provider) *Service {
	return &Service{provider: provider}
}

// ExtractText extracts text from image using the configured provider
func (s *Service) ExtractText(ctx context.Context, imageData []byte) (*OCRResult, error) {
	if len(imageData) == 0 {
		return nil, fmt.Errorf("empty image")
	}
	return s.provider.ExtractText(ctx, imageData)
}

// GetProviderName returns the name of the current provider
func (s *Service) GetProviderName() string {
	return s.provider.GetProviderName()
}
