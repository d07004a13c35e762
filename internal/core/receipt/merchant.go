package receipt

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	// merchantScanLines is how many top lines may hold the merchant name
	merchantScanLines = 3

	DefaultMaxMerchantLength = 80
)

var (
	digitRunRe      = regexp.MustCompile(`\d{2,}`)
	merchantNoiseRe = regexp.MustCompile(`(?i)RP|IDR|TOTAL|TANGGAL|JAM|KASIR`)
	nonWordRe       = regexp.MustCompile(`[^\w\s]`)
	multiWhitespace = regexp.MustCompile(`\s+`)
)

// ExtractMerchant picks the merchant name from the first lines of a receipt.
// Lines carrying digit runs or price/date/cashier labels are skipped. A lone
// line is a text fragment, not a receipt header, and yields no merchant.
func ExtractMerchant(lines []string, maxLength int) (*string, float64) {
	if maxLength <= 0 {
		maxLength = DefaultMaxMerchantLength
	}
	if len(lines) < 2 {
		return nil, 0
	}

	for i := 0; i < len(lines) && i < merchantScanLines; i++ {
		line := lines[i]
		if digitRunRe.MatchString(line) || merchantNoiseRe.MatchString(line) {
			continue
		}

		name := cleanMerchant(line, maxLength)
		if name == "" {
			continue
		}

		confidence := 0.4
		if utf8.RuneCountInString(name) > 3 {
			confidence = 0.8
		}
		return &name, confidence
	}

	return nil, 0
}

func cleanMerchant(line string, maxLength int) string {
	name := nonWordRe.ReplaceAllString(line, " ")
	name = multiWhitespace.ReplaceAllString(name, " ")
	name = strings.TrimSpace(name)

	if utf8.RuneCountInString(name) > maxLength {
		name = strings.TrimSpace(string([]rune(name)[:maxLength]))
	}
	return name
}
