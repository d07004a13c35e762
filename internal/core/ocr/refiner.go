package ocr

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/MuhamadAgungGumelar/struk-scanner-be/internal/core/llm"
	"github.com/MuhamadAgungGumelar/struk-scanner-be/internal/core/receipt"
)

// LLMRefiner asks an LLM to fill fields the regex parser could not find.
// Extracted values are never overwritten.
type LLMRefiner struct {
	llmService *llm.Service
	logger     zerolog.Logger
}

// NewLLMRefiner creates a new LLM-backed receipt refiner
func NewLLMRefiner(llmService *llm.Service) *LLMRefiner {
	return &LLMRefiner{
		llmService: llmService,
		logger:     log.With().Str("component", "llm_refiner").Logger(),
	}
}

type llmReceipt struct {
	Merchant     *string  `json:"merchant"`
	TotalAmount  *float64 `json:"total_amount"`
	PurchaseDate *string  `json:"purchase_date"`
}

// Refine returns parsed with its missing fields filled from the LLM answer.
// Receipts that already pass validation are returned unchanged, as is the
// input on any LLM or decoding failure.
func (r *LLMRefiner) Refine(ctx context.Context, input receipt.OCRInput, parsed receipt.ParsedReceipt) receipt.ParsedReceipt {
	if len(receipt.ValidateParsedReceipt(&parsed)) == 0 || !hasMissingField(parsed) {
		return parsed
	}

	userPrompt := fmt.Sprintf("Parse this Indonesian receipt OCR text:\n\n%s", input.Text)
	response, err := r.llmService.GenerateResponse(ctx, refinerSystemPrompt, userPrompt)
	if err != nil {
		r.logger.Warn().Err(err).Str("provider", r.llmService.GetProviderName()).Msg("LLM refinement failed")
		return parsed
	}

	answer, err := decodeLLMReceipt(response)
	if err != nil {
		r.logger.Warn().Err(err).Msg("LLM returned unusable JSON")
		return parsed
	}

	refined := parsed
	filled := []string{}
	if refined.Merchant == nil && answer.Merchant != nil {
		if m := strings.TrimSpace(*answer.Merchant); m != "" {
			refined.Merchant = &m
			filled = append(filled, "merchant")
		}
	}
	if refined.TotalAmount == nil && answer.TotalAmount != nil && *answer.TotalAmount > 0 {
		total := *answer.TotalAmount
		refined.TotalAmount = &total
		filled = append(filled, "total_amount")
	}
	if refined.PurchaseDate == nil && answer.PurchaseDate != nil {
		if _, err := time.Parse("2006-01-02", *answer.PurchaseDate); err == nil {
			date := *answer.PurchaseDate
			refined.PurchaseDate = &date
			filled = append(filled, "purchase_date")
		}
	}

	if len(filled) == 0 {
		return parsed
	}

	refined.Confidence = receipt.ScoreConfidence(refined.Merchant, refined.TotalAmount, refined.PurchaseDate, input.Confidence)
	r.logger.Info().Strs("filled", filled).Float64("overall", refined.Confidence.Overall).Msg("✅ receipt refined by LLM")
	return refined
}

func hasMissingField(r receipt.ParsedReceipt) bool {
	return r.Merchant == nil || r.TotalAmount == nil || r.PurchaseDate == nil
}

func decodeLLMReceipt(response string) (*llmReceipt, error) {
	// Models sometimes wrap JSON in markdown fences
	cleaned := strings.TrimSpace(response)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	var out llmReceipt
	if err := json.Unmarshal([]byte(cleaned), &out); err != nil {
		return nil, fmt.Errorf("failed to decode LLM response: %w", err)
	}
	return &out, nil
}

const refinerSystemPrompt = `You extract fields from Indonesian retail receipts.

Return ONLY a JSON object, no markdown and no explanation:

{
  "merchant": "store name or null",
  "total_amount": 0,
  "purchase_date": "YYYY-MM-DD or null"
}

Rules:
1. total_amount is the amount paid in Rupiah as a plain number. "Rp 1.234.567" is 1234567.
2. Prefer TOTAL, GRAND TOTAL, TOTAL BAYAR or JUMLAH over SUBTOTAL, TUNAI and KEMBALI.
3. Indonesian dates are day first: 15/08/2025 is 2025-08-15.
4. Use null for anything you cannot read. Never guess.`
