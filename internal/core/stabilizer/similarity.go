package stabilizer

import (
	"math"
	"regexp"
	"strings"

	"github.com/MuhamadAgungGumelar/struk-scanner-be/internal/core/receipt"
)

// totalTolerance is the relative difference under which two totals agree
const totalTolerance = 0.05

var merchantStripRe = regexp.MustCompile(`\W+`)

// Similar reports whether two parses agree on at least two of merchant,
// total and purchase date. Two missing values count as agreeing.
func Similar(a, b receipt.ParsedReceipt) bool {
	matches := 0
	if sameMerchant(a.Merchant, b.Merchant) {
		matches++
	}
	if sameTotal(a.TotalAmount, b.TotalAmount) {
		matches++
	}
	if sameDate(a.PurchaseDate, b.PurchaseDate) {
		matches++
	}
	return matches >= 2
}

func normalizeMerchant(m *string) string {
	if m == nil {
		return ""
	}
	return merchantStripRe.ReplaceAllString(strings.ToLower(*m), "")
}

func sameMerchant(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return normalizeMerchant(a) == normalizeMerchant(b)
}

func sameTotal(a, b *float64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if *a == *b {
		return true
	}
	largest := math.Max(math.Abs(*a), math.Abs(*b))
	return math.Abs(*a-*b)/largest <= totalTolerance
}

func sameDate(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// requiredAgreement is ceil(0.7 * n), computed in integers
func requiredAgreement(n int) int {
	return (7*n + 9) / 10
}

// converged reports whether the latest entry agrees with enough of the last
// window entries, the latest included. A single entry never converges.
func converged(entries []receipt.ParsedReceipt, window int) bool {
	if len(entries) < 2 {
		return false
	}

	latest := entries[len(entries)-1]
	start := len(entries) - window
	if start < 0 {
		start = 0
	}
	comparisons := entries[start:]

	agreeing := 0
	for _, entry := range comparisons {
		if Similar(latest, entry) {
			agreeing++
		}
	}
	return agreeing >= requiredAgreement(len(comparisons))
}
