package receipt

import "math"

// Fixed per-field scores. Validation thresholds downstream are calibrated
// against these exact values.
const (
	MerchantConfidence = 0.8
	TotalConfidence    = 0.9
)

// ScoreConfidence combines field extraction success with the OCR engine's own
// confidence. Overall is the mean of the four inputs, clamped to [0,1].
func ScoreConfidence(merchant *string, total *float64, date *string, ocrConfidence float64) ConfidenceReport {
	report := ConfidenceReport{}
	if merchant != nil {
		report.Merchant = MerchantConfidence
	}
	if total != nil {
		report.Total = TotalConfidence
	}
	if date != nil {
		report.Date = DateConfidence
	}

	report.Overall = clamp01((report.Merchant + report.Total + report.Date + clamp01(ocrConfidence)) / 4)
	return report
}

func clamp01(v float64) float64 {
	switch {
	case math.IsNaN(v), v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
