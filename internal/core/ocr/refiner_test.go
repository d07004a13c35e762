package ocr

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MuhamadAgungGumelar/struk-scanner-be/internal/core/llm"
	"github.com/MuhamadAgungGumelar/struk-scanner-be/internal/core/receipt"
)

type fakeLLM struct {
	response string
	err      error
	calls    int
}

func (f *fakeLLM) GenerateResponse(ctx context.Context, systemPrompt, userMessage string) (string, error) {
	f.calls++
	return f.response, f.err
}

func (f *fakeLLM) GetProviderName() string { return "fake" }

func newRefiner(f *fakeLLM) *LLMRefiner {
	return NewLLMRefiner(llm.NewServiceWithProvider(f))
}

func parseText(t *testing.T, text string, confidence float64) (receipt.OCRInput, receipt.ParsedReceipt) {
	t.Helper()
	input := receipt.OCRInput{Text: text, Confidence: confidence}
	outcome := receipt.ParseReceipt(input)
	require.True(t, outcome.Success)
	return input, *outcome.Data
}

func TestRefineFillsOnlyMissingFields(t *testing.T) {
	f := &fakeLLM{response: "```json\n{\"merchant\":\"SOMETHING ELSE\",\"total_amount\":25500,\"purchase_date\":\"2025-08-15\"}\n```"}
	input, parsed := parseText(t, "WARUNG BU SRI\nJl Kenanga 4\nterima kasih", 0.9)
	require.Nil(t, parsed.TotalAmount)
	require.Nil(t, parsed.PurchaseDate)

	refined := newRefiner(f).Refine(context.Background(), input, parsed)

	assert.Equal(t, 1, f.calls)
	assert.Equal(t, "WARUNG BU SRI", refined.MerchantValue())
	assert.Equal(t, 25500.0, refined.TotalValue())
	assert.Equal(t, "2025-08-15", refined.DateValue())
	assert.Equal(t, receipt.ScoreConfidence(refined.Merchant, refined.TotalAmount, refined.PurchaseDate, 0.9), refined.Confidence)
}

func TestRefineSkipsValidReceipts(t *testing.T) {
	f := &fakeLLM{}
	input, parsed := parseText(t, "ALFAMART\nTanggal 15/08/2025\nTOTAL Rp 5.500", 0.9)
	require.Empty(t, receipt.ValidateParsedReceipt(&parsed))

	refined := newRefiner(f).Refine(context.Background(), input, parsed)

	assert.Zero(t, f.calls)
	assert.Equal(t, parsed, refined)
}

func TestRefineKeepsParseOnFailure(t *testing.T) {
	tests := []struct {
		name string
		llm  *fakeLLM
	}{
		{name: "llm error", llm: &fakeLLM{err: errors.New("rate limited")}},
		{name: "not json", llm: &fakeLLM{response: "Sorry, I cannot read this receipt."}},
		{name: "nothing usable", llm: &fakeLLM{response: `{"merchant":null,"total_amount":-5,"purchase_date":"15 Agustus"}`}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input, parsed := parseText(t, "WARUNG BU SRI\nJl Kenanga 4", 0.9)

			refined := newRefiner(tt.llm).Refine(context.Background(), input, parsed)

			assert.Equal(t, parsed, refined)
		})
	}
}
