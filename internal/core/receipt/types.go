package receipt

// CurrencyIDR is the only currency receipts are parsed in
const CurrencyIDR = "IDR"

// OCRInput is the text produced by an OCR engine for one image or frame.
// Confidence is the engine's own score in [0,1]; zero means the engine gave none.
type OCRInput struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
}

// ConfidenceReport holds per-field trust scores, each in [0,1]
type ConfidenceReport struct {
	Merchant float64 `json:"merchant"`
	Total    float64 `json:"total"`
	Date     float64 `json:"date"`
	Overall  float64 `json:"overall"`
}

// ParsedReceipt represents structured receipt information extracted from OCR text.
// A nil field means the value could not be extracted.
type ParsedReceipt struct {
	Merchant     *string          `json:"merchant"`
	TotalAmount  *float64         `json:"total_amount"`
	PurchaseDate *string          `json:"purchase_date"` // YYYY-MM-DD
	Currency     string           `json:"currency"`
	Confidence   ConfidenceReport `json:"confidence"`
	RawText      string           `json:"raw_text"`
}

// ParseOutcome wraps a single parse attempt. It is returned even on failure.
type ParseOutcome struct {
	Success          bool           `json:"success"`
	Data             *ParsedReceipt `json:"data"`
	Errors           []string       `json:"errors"`
	ProcessingTimeMs float64        `json:"processing_time_ms"`
}

// MerchantValue returns the merchant or an empty string
func (r *ParsedReceipt) MerchantValue() string {
	if r == nil || r.Merchant == nil {
		return ""
	}
	return *r.Merchant
}

// TotalValue returns the total amount or zero
func (r *ParsedReceipt) TotalValue() float64 {
	if r == nil || r.TotalAmount == nil {
		return 0
	}
	return *r.TotalAmount
}

// DateValue returns the ISO purchase date or an empty string
func (r *ParsedReceipt) DateValue() string {
	if r == nil || r.PurchaseDate == nil {
		return ""
	}
	return *r.PurchaseDate
}

func stringPtr(s string) *string { return &s }

func floatPtr(f float64) *float64 { return &f }
