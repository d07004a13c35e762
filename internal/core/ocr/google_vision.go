package ocr

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

const (
	googleVisionEndpoint = "https://vision.googleapis.com/v1/images:annotate"

	// used when the API omits a score
	googleDefaultConfidence = 0.95
)

// GoogleVisionProvider implements OCR using Google Cloud Vision API
type GoogleVisionProvider struct {
	apiKey   string
	endpoint string
	client   *http.Client
}

// NewGoogleVisionProvider creates a new Google Vision OCR provider
func NewGoogleVisionProvider(apiKey string, opts ...HTTPOption) *GoogleVisionProvider {
	o := buildHTTPOptions(googleVisionEndpoint, opts)
	return &GoogleVisionProvider{
		apiKey:   apiKey,
		endpoint: o.endpoint,
		client:   o.client,
	}
}

// GetProviderName returns the provider name
func (p *GoogleVisionProvider) GetProviderName() string {
	return "Google Cloud Vision"
}

type visionRequest struct {
	Requests []visionRequestItem `json:"requests"`
}

type visionRequestItem struct {
	Image        visionImage        `json:"image"`
	Features     []visionFeature    `json:"features"`
	ImageContext visionImageContext `json:"imageContext"`
}

type visionImage struct {
	Content string `json:"content"` // base64 encoded image
}

type visionFeature struct {
	Type       string `json:"type"`
	MaxResults int    `json:"maxResults,omitempty"`
}

type visionImageContext struct {
	LanguageHints []string `json:"languageHints,omitempty"`
}

type visionResponse struct {
	Responses []struct {
		TextAnnotations []struct {
			Description string  `json:"description"`
			Score       float64 `json:"score,omitempty"`
		} `json:"textAnnotations"`
		FullTextAnnotation *struct {
			Pages []struct {
				Confidence float64 `json:"confidence"`
			} `json:"pages"`
		} `json:"fullTextAnnotation,omitempty"`
		Error *struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
		} `json:"error,omitempty"`
	} `json:"responses"`
}

// ExtractText extracts text from image using Google Cloud Vision API
func (p *GoogleVisionProvider) ExtractText(ctx context.Context, imageData []byte) (*OCRResult, error) {
	reqBody := visionRequest{
		Requests: []visionRequestItem{
			{
				Image: visionImage{
					Content: base64.StdEncoding.EncodeToString(imageData),
				},
				Features: []visionFeature{
					{Type: "TEXT_DETECTION", MaxResults: 1},
				},
				ImageContext: visionImageContext{LanguageHints: []string{"id", "en"}},
			},
		},
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	reqURL := fmt.Sprintf("%s?key=%s", p.endpoint, url.QueryEscape(p.apiKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("google vision request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("google vision error (status: %d): %s", resp.StatusCode, string(body))
	}

	var visionResp visionResponse
	if err := json.Unmarshal(body, &visionResp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if len(visionResp.Responses) == 0 {
		return nil, fmt.Errorf("no response from Google Vision")
	}

	first := visionResp.Responses[0]
	if first.Error != nil {
		return nil, fmt.Errorf("google vision API error: %s", first.Error.Message)
	}

	if len(first.TextAnnotations) == 0 {
		return &OCRResult{Text: "", Confidence: 0}, nil
	}

	// First annotation contains the full text
	confidence := first.TextAnnotations[0].Score
	if confidence == 0 && first.FullTextAnnotation != nil && len(first.FullTextAnnotation.Pages) > 0 {
		confidence = first.FullTextAnnotation.Pages[0].Confidence
	}
	if confidence == 0 {
		confidence = googleDefaultConfidence
	}

	return &OCRResult{
		Text:       first.TextAnnotations[0].Description,
		Confidence: confidence,
	}, nil
}
