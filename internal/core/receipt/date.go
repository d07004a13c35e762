package receipt

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DateConfidence is the flat trust assigned to a pattern-extracted date
const DateConfidence = 0.85

// minReceiptYear is the earliest purchase year accepted
const minReceiptYear = 2020

var (
	dateKeywordRe = regexp.MustCompile(`(?i)\b(?:TANGGAL|TGL|DATE)\b`)

	dmyLongRe  = regexp.MustCompile(`\b(\d{1,2})[/-](\d{1,2})[/-](\d{4})\b`)
	dmyShortRe = regexp.MustCompile(`\b(\d{1,2})[/-](\d{1,2})[/-](\d{2})\b`)
	dMonthYRe  = regexp.MustCompile(`\b(\d{1,2})\s+([A-Za-z]{3,9})\.?\s+(\d{4})\b`)
	ymdRe      = regexp.MustCompile(`\b(\d{4})[/-](\d{1,2})[/-](\d{1,2})\b`)
)

// indonesianMonths maps month names and abbreviations to month numbers.
// A few English spellings common on receipts are included.
var indonesianMonths = map[string]int{
	"JANUARI": 1, "JAN": 1,
	"FEBRUARI": 2, "FEB": 2, "PEBRUARI": 2,
	"MARET": 3, "MAR": 3,
	"APRIL": 4, "APR": 4,
	"MEI": 5, "MAY": 5,
	"JUNI": 6, "JUN": 6,
	"JULI": 7, "JUL": 7,
	"AGUSTUS": 8, "AGU": 8, "AGT": 8, "AGS": 8, "AUG": 8,
	"SEPTEMBER": 9, "SEP": 9, "SEPT": 9,
	"OKTOBER": 10, "OKT": 10, "OCT": 10,
	"NOVEMBER": 11, "NOV": 11, "NOPEMBER": 11,
	"DESEMBER": 12, "DES": 12, "DEC": 12,
}

type datePattern struct {
	re    *regexp.Regexp
	parse func(m []string) (day, month, year int, ok bool)
}

// Fixed priority order
var datePatterns = []datePattern{
	{re: dmyLongRe, parse: func(m []string) (int, int, int, bool) {
		return atoi(m[1]), atoi(m[2]), atoi(m[3]), true
	}},
	{re: dmyShortRe, parse: func(m []string) (int, int, int, bool) {
		return atoi(m[1]), atoi(m[2]), 2000 + atoi(m[3]), true
	}},
	{re: dMonthYRe, parse: func(m []string) (int, int, int, bool) {
		month, ok := indonesianMonths[strings.ToUpper(m[2])]
		return atoi(m[1]), month, atoi(m[3]), ok
	}},
	{re: ymdRe, parse: func(m []string) (int, int, int, bool) {
		return atoi(m[3]), atoi(m[2]), atoi(m[1]), true
	}},
}

// ExtractDate scans lines for the first valid purchase date and returns it
// formatted as YYYY-MM-DD with its confidence, or nil and 0.
// Only lines with a date keyword or a date-shaped token are considered, which
// keeps phone numbers and prices out of the way. An invalid date (day 32, year
// 2019) does not stop the scan.
func ExtractDate(lines []string, now time.Time) (*string, float64) {
	maxYear := now.Year() + 1

	for _, line := range lines {
		if !isDateCandidate(line) {
			continue
		}
		for _, pattern := range datePatterns {
			for _, m := range pattern.re.FindAllStringSubmatch(line, -1) {
				day, month, year, ok := pattern.parse(m)
				if !ok || !validDate(day, month, year, maxYear) {
					continue
				}
				iso := fmt.Sprintf("%04d-%02d-%02d", year, month, day)
				return &iso, DateConfidence
			}
		}
	}

	return nil, 0
}

func isDateCandidate(line string) bool {
	if dateKeywordRe.MatchString(line) {
		return true
	}
	for _, pattern := range datePatterns {
		if pattern.re.MatchString(line) {
			return true
		}
	}
	return false
}

func validDate(day, month, year, maxYear int) bool {
	return day >= 1 && day <= 31 &&
		month >= 1 && month <= 12 &&
		year >= minReceiptYear && year <= maxYear
}

func atoi(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return -1
	}
	return n
}
