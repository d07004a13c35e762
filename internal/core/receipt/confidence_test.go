package receipt

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScoreConfidence(t *testing.T) {
	merchant := "ALFAMART"
	total := 5500.0
	date := "2025-08-15"

	t.Run("all fields present", func(t *testing.T) {
		report := ScoreConfidence(&merchant, &total, &date, 0.9)

		assert.Equal(t, 0.8, report.Merchant)
		assert.Equal(t, 0.9, report.Total)
		assert.Equal(t, 0.85, report.Date)
		assert.InDelta(t, 0.8625, report.Overall, 1e-9)
	})

	t.Run("nothing extracted", func(t *testing.T) {
		report := ScoreConfidence(nil, nil, nil, 0.3)

		assert.Zero(t, report.Merchant)
		assert.Zero(t, report.Total)
		assert.Zero(t, report.Date)
		assert.InDelta(t, 0.075, report.Overall, 1e-9)
	})

	t.Run("ocr confidence is clamped", func(t *testing.T) {
		assert.InDelta(t, 0.25, ScoreConfidence(nil, nil, nil, 5).Overall, 1e-9)
		assert.Zero(t, ScoreConfidence(nil, nil, nil, -1).Overall)
		assert.Zero(t, ScoreConfidence(nil, nil, nil, math.NaN()).Overall)
	})
}
