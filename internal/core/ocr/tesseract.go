package ocr

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// Tesseract prints no page confidence on stdout
const tesseractConfidence = 0.90

// TesseractProvider implements OCR using Tesseract OCR engine
type TesseractProvider struct {
	tesseractPath string
	language      string
}

// NewTesseractProvider creates a new Tesseract OCR provider.
// language is a tesseract language spec such as "ind+eng".
func NewTesseractProvider(language string) *TesseractProvider {
	if language == "" {
		language = "ind+eng"
	}

	return &TesseractProvider{
		tesseractPath: "tesseract", // Assumes tesseract is in PATH
		language:      language,
	}
}

// ExtractText extracts text from an image using Tesseract
func (p *TesseractProvider) ExtractText(ctx context.Context, imageData []byte) (*OCRResult, error) {
	imageFile, err := os.CreateTemp("", "receipt-*.img")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp image: %w", err)
	}
	defer os.Remove(imageFile.Name())

	if _, err := imageFile.Write(imageData); err != nil {
		imageFile.Close()
		return nil, fmt.Errorf("failed to write temp image: %w", err)
	}
	if err := imageFile.Close(); err != nil {
		return nil, fmt.Errorf("failed to write temp image: %w", err)
	}

	// "stdout" as the output base makes tesseract print instead of writing a .txt file
	cmd := exec.CommandContext(ctx, p.tesseractPath, imageFile.Name(), "stdout", "-l", p.language, "--psm", "6")

	var stderr strings.Builder
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("tesseract command failed: %w, output: %s", err, stderr.String())
	}

	text := strings.TrimSpace(string(out))
	confidence := tesseractConfidence
	if text == "" {
		confidence = 0
	}

	return &OCRResult{
		Text:       text,
		Confidence: confidence,
	}, nil
}

// GetProviderName returns the name of the provider
func (p *TesseractProvider) GetProviderName() string {
	return "Tesseract OCR"
}
