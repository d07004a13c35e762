package receipt

import "unicode/utf8"

// Validation messages shown by review screens
const (
	MsgMerchantTooShort = "Merchant name too short or missing"
	MsgTotalTooSmall    = "Total amount missing or too small"
	MsgDateMissing      = "Purchase date missing"
	MsgLowConfidence    = "Overall confidence too low"
)

const (
	minMerchantLength    = 3
	minValidTotal        = 100
	minOverallConfidence = 0.5
)

// ValidateParsedReceipt checks a parsed receipt before it is confirmed.
// An empty slice means the receipt passes.
func ValidateParsedReceipt(r *ParsedReceipt) []string {
	errs := []string{}
	if r == nil {
		return append(errs, MsgMerchantTooShort, MsgTotalTooSmall, MsgDateMissing, MsgLowConfidence)
	}

	if r.Merchant == nil || utf8.RuneCountInString(*r.Merchant) < minMerchantLength {
		errs = append(errs, MsgMerchantTooShort)
	}
	if r.TotalAmount == nil || *r.TotalAmount < minValidTotal {
		errs = append(errs, MsgTotalTooSmall)
	}
	if r.PurchaseDate == nil || *r.PurchaseDate == "" {
		errs = append(errs, MsgDateMissing)
	}
	if r.Confidence.Overall < minOverallConfidence {
		errs = append(errs, MsgLowConfidence)
	}

	return errs
}
