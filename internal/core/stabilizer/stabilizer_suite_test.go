package stabilizer

import (
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/MuhamadAgungGumelar/struk-scanner-be/internal/core/receipt"
)

func TestStabilizer(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Stabilizer Suite")
}

// fakeParser returns whatever respond produces and counts invocations
type fakeParser struct {
	calls   int
	respond func(receipt.OCRInput) receipt.ParseOutcome
}

func (p *fakeParser) Parse(input receipt.OCRInput) receipt.ParseOutcome {
	p.calls++
	return p.respond(input)
}

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func parsed(merchant string, total float64, date string, overall float64) receipt.ParsedReceipt {
	r := receipt.ParsedReceipt{
		Currency:   receipt.CurrencyIDR,
		Confidence: receipt.ConfidenceReport{Overall: overall},
	}
	if merchant != "" {
		r.Merchant = &merchant
	}
	if total > 0 {
		r.TotalAmount = &total
	}
	if date != "" {
		r.PurchaseDate = &date
	}
	return r
}

func success(r receipt.ParsedReceipt) receipt.ParseOutcome {
	return receipt.ParseOutcome{Success: true, Data: &r, Errors: []string{}, ProcessingTimeMs: 2}
}
