package receipt

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// MsgNoText is the single unconditional parse failure message
const MsgNoText = "No text detected in OCR result"

// DefaultTotalKeywords lists total labels in priority order
var DefaultTotalKeywords = []string{
	"TOTAL",
	"GRAND TOTAL",
	"JUMLAH",
	"TAGIHAN",
	"SUBTOTAL",
	"PEMBAYARAN",
	"TOTAL BAYAR",
}

// Config tunes the receipt parser
type Config struct {
	MaxMerchantLength int
	TotalKeywords     []string
}

// DefaultConfig returns the parser defaults
func DefaultConfig() Config {
	return Config{
		MaxMerchantLength: DefaultMaxMerchantLength,
		TotalKeywords:     append([]string(nil), DefaultTotalKeywords...),
	}
}

// Parser extracts merchant, total and purchase date from OCR text
type Parser struct {
	cfg Config
	now func() time.Time
}

// ParserOption configures a Parser
type ParserOption func(*Parser)

// WithClock overrides the clock used to bound plausible purchase years
func WithClock(now func() time.Time) ParserOption {
	return func(p *Parser) {
		p.now = now
	}
}

// NewParser creates a receipt parser. Zero config values fall back to defaults.
func NewParser(cfg Config, opts ...ParserOption) *Parser {
	if cfg.MaxMerchantLength <= 0 {
		cfg.MaxMerchantLength = DefaultMaxMerchantLength
	}
	if len(cfg.TotalKeywords) == 0 {
		cfg.TotalKeywords = append([]string(nil), DefaultTotalKeywords...)
	}

	p := &Parser{cfg: cfg, now: time.Now}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Config returns a copy of the parser configuration
func (p *Parser) Config() Config {
	cfg := p.cfg
	cfg.TotalKeywords = append([]string(nil), p.cfg.TotalKeywords...)
	return cfg
}

// ParseReceipt parses OCR text with the default configuration, or cfg when given
func ParseReceipt(input OCRInput, cfg ...Config) ParseOutcome {
	c := DefaultConfig()
	if len(cfg) > 0 {
		c = cfg[0]
	}
	return NewParser(c).Parse(input)
}

// Parse converts OCR text into a ParsedReceipt.
// Missing fields are nil rather than errors; only empty text fails. Internal
// panics are recovered and reported as a failed outcome.
func (p *Parser) Parse(input OCRInput) (outcome ParseOutcome) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			outcome = ParseOutcome{
				Success: false,
				Errors:  []string{fmt.Sprint(r)},
			}
		}
		outcome.ProcessingTimeMs = float64(time.Since(start).Microseconds()) / 1000
	}()

	lines := SplitLines(input.Text)
	if len(lines) == 0 {
		return ParseOutcome{
			Success: false,
			Errors:  []string{MsgNoText},
		}
	}

	merchant, _ := ExtractMerchant(lines, p.cfg.MaxMerchantLength)
	total := ExtractTotal(lines, p.cfg.TotalKeywords)
	date, _ := ExtractDate(lines, p.now())

	return ParseOutcome{
		Success: true,
		Data: &ParsedReceipt{
			Merchant:     merchant,
			TotalAmount:  total,
			PurchaseDate: date,
			Currency:     CurrencyIDR,
			Confidence:   ScoreConfidence(merchant, total, date, input.Confidence),
			RawText:      input.Text,
		},
		Errors: []string{},
	}
}

var (
	crlfRe = regexp.MustCompile(`\r\n?`)
	tabRe  = regexp.MustCompile(`\t+`)
)

// SplitLines normalises line endings and returns the trimmed, non-empty lines
func SplitLines(text string) []string {
	text = crlfRe.ReplaceAllString(text, "\n")
	text = tabRe.ReplaceAllString(text, " ")

	raw := strings.Split(text, "\n")
	lines := make([]string, 0, len(raw))
	for _, line := range raw {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
