package receipt

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// minBareAmount is the smallest plain integer accepted as a price.
// Anything below it is usually a quantity, item count or OCR noise.
const minBareAmount = 100

var (
	currencyMarkerRe = regexp.MustCompile(`(?i)RUPIAH|IDR|RP`)
	nonAmountCharRe  = regexp.MustCompile(`[^\d,.\s]`)

	// Tried in order against each token, first successful parse wins
	amountShapes = []*regexp.Regexp{
		regexp.MustCompile(`^\d{1,3}(?:\.\d{3})*(?:,\d{2})?$`), // 12.345,67
		regexp.MustCompile(`^\d{1,3}(?:,\d{3})*(?:\.\d{2})?$`), // 12,345.67
		regexp.MustCompile(`^\d{3,}$`),                         // 12345
	}

	hasCurrencyMarkerRe = regexp.MustCompile(`(?i)\b(?:rp\.?|idr|rupiah)`)

	// A total label preceded by SUB or followed by one of these words names
	// something other than the amount paid
	subPrefixRe      = regexp.MustCompile(`(?i)\bSUB[\s.-]*$`)
	totalQualifierRe = regexp.MustCompile(`(?i)^[\s.-]*(?:DISKON|DISC|DISCOUNT|POTONGAN|HEMAT|ITEM|ITEMS|QTY|PCS|PPN|PAJAK|TAX|POIN|POINT|KEMBALI|KEMBALIAN)\b`)
)

// ExtractAmount parses a free-text line into a monetary value.
// Returns nil when no plausible amount is found.
//
// Examples:
//   - "TOTAL Rp 12.345,67" -> 12345.67
//   - "Grand Total: Rp 25.500" -> 25500
//   - "JUMLAH: 12,345" -> 12345
func ExtractAmount(line string) *float64 {
	cleaned := currencyMarkerRe.ReplaceAllString(line, " ")
	cleaned = nonAmountCharRe.ReplaceAllString(cleaned, " ")

	for _, token := range strings.Fields(cleaned) {
		token = strings.Trim(token, ".,")
		if token == "" {
			continue
		}
		for _, shape := range amountShapes {
			if !shape.MatchString(token) {
				continue
			}
			if amount, ok := normalizeAmount(token); ok {
				return &amount
			}
		}
	}

	return nil
}

// normalizeAmount resolves thousand/decimal separators by punctuation pattern
func normalizeAmount(raw string) (float64, bool) {
	hasDot := strings.Contains(raw, ".")
	hasComma := strings.Contains(raw, ",")

	var digits string
	switch {
	case hasDot && hasComma:
		// The last separator is the decimal point
		if strings.LastIndex(raw, ",") > strings.LastIndex(raw, ".") {
			parts := strings.SplitN(raw, ",", 2)
			digits = strings.ReplaceAll(parts[0], ".", "") + "." + parts[1]
		} else {
			idx := strings.LastIndex(raw, ".")
			digits = strings.ReplaceAll(raw[:idx], ",", "") + "." + raw[idx+1:]
		}
	case hasDot:
		// Indonesian grouping: 12.345 is twelve thousand
		digits = strings.ReplaceAll(raw, ".", "")
	case hasComma:
		digits = strings.ReplaceAll(raw, ",", "")
	default:
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil || value < minBareAmount {
			return 0, false
		}
		return value, true
	}

	value, err := strconv.ParseFloat(digits, 64)
	if err != nil || math.IsNaN(value) || value < 0 {
		return 0, false
	}
	return value, true
}

// ExtractTotal finds the total amount on a receipt.
// Keywords are tried in priority order and matched as whole words, so "TOTAL"
// never picks up a "Subtotal" line. Qualified labels such as "SUB TOTAL",
// "TOTAL DISKON" or "TOTAL ITEM" do not count as a match. When no keyword line
// carries an amount, the largest amount on a line with a currency marker is used.
func ExtractTotal(lines []string, keywords []string) *float64 {
	for _, keyword := range keywords {
		keywordRe, err := keywordPattern(keyword)
		if err != nil {
			continue
		}
		for _, line := range lines {
			if !labelsTotal(keywordRe, line) {
				continue
			}
			if amount := ExtractAmount(keywordRe.ReplaceAllString(line, " ")); amount != nil {
				return amount
			}
		}
	}

	var best *float64
	for _, line := range lines {
		if !hasCurrencyMarkerRe.MatchString(line) {
			continue
		}
		if amount := ExtractAmount(line); amount != nil && (best == nil || *amount > *best) {
			best = amount
		}
	}
	return best
}

func keywordPattern(keyword string) (*regexp.Regexp, error) {
	words := strings.Fields(keyword)
	if len(words) == 0 {
		return nil, fmt.Errorf("empty total keyword")
	}
	for i, w := range words {
		words[i] = regexp.QuoteMeta(w)
	}
	return regexp.Compile(`(?i)\b` + strings.Join(words, `\s*`) + `\b`)
}

// labelsTotal reports whether line carries keywordRe as an unqualified total label
func labelsTotal(keywordRe *regexp.Regexp, line string) bool {
	for _, loc := range keywordRe.FindAllStringIndex(line, -1) {
		if subPrefixRe.MatchString(line[:loc[0]]) || totalQualifierRe.MatchString(line[loc[1]:]) {
			continue
		}
		return true
	}
	return false
}
