package ocr

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
)

const (
	ocrSpaceEndpoint = "https://api.ocr.space/parse/image"

	// OCR.space reports no confidence
	ocrSpaceConfidence = 0.85
)

// OCRSpaceProvider implements OCR using OCR.space API
type OCRSpaceProvider struct {
	apiKey   string
	language string
	endpoint string
	client   *http.Client
}

// NewOCRSpaceProvider creates a new OCR.space provider
func NewOCRSpaceProvider(apiKey string, opts ...HTTPOption) *OCRSpaceProvider {
	o := buildHTTPOptions(ocrSpaceEndpoint, opts)
	return &OCRSpaceProvider{
		apiKey:   apiKey,
		language: "eng",
		endpoint: o.endpoint,
		client:   o.client,
	}
}

// GetProviderName returns the provider name
func (p *OCRSpaceProvider) GetProviderName() string {
	return "OCR.space"
}

type ocrSpaceResponse struct {
	ParsedResults []struct {
		ParsedText        string `json:"ParsedText"`
		FileParseExitCode int    `json:"FileParseExitCode"`
	} `json:"ParsedResults"`
	OCRExitCode           int      `json:"OCRExitCode"`
	IsErroredOnProcessing bool     `json:"IsErroredOnProcessing"`
	ErrorMessage          []string `json:"ErrorMessage,omitempty"`
}

// ExtractText extracts text from image using OCR.space API
func (p *OCRSpaceProvider) ExtractText(ctx context.Context, imageData []byte) (*OCRResult, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("file", "receipt.jpg")
	if err != nil {
		return nil, fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := part.Write(imageData); err != nil {
		return nil, fmt.Errorf("failed to write image data: %w", err)
	}

	fields := map[string]string{
		"apikey":            p.apiKey,
		"language":          p.language,
		"isTable":           "true",
		"scale":             "true",
		"OCREngine":         "2",
		"detectOrientation": "true",
	}
	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", key, err)
		}
	}

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to close writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, &buf)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ocrspace request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ocrspace error (status: %d): %s", resp.StatusCode, string(body))
	}

	var ocrResp ocrSpaceResponse
	if err := json.Unmarshal(body, &ocrResp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if ocrResp.IsErroredOnProcessing {
		errMsg := "unknown error"
		if len(ocrResp.ErrorMessage) > 0 {
			errMsg = ocrResp.ErrorMessage[0]
		}
		return nil, fmt.Errorf("ocrspace processing error: %s", errMsg)
	}

	if ocrResp.OCRExitCode != 1 {
		return nil, fmt.Errorf("ocrspace exit code: %d", ocrResp.OCRExitCode)
	}

	if len(ocrResp.ParsedResults) == 0 || ocrResp.ParsedResults[0].ParsedText == "" {
		return &OCRResult{Text: "", Confidence: 0}, nil
	}

	return &OCRResult{
		Text:       ocrResp.ParsedResults[0].ParsedText,
		Confidence: ocrSpaceConfidence,
	}, nil
}
