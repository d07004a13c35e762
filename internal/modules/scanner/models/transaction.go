package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/MuhamadAgungGumelar/struk-scanner-be/internal/core/export"
	"github.com/MuhamadAgungGumelar/struk-scanner-be/internal/core/receipt"
)

// Where a transaction came from
const (
	SourceOCR    = "ocr"    // single uploaded image
	SourceScan   = "scan"   // stabilized live scan session
	SourceManual = "manual" // entered or corrected by hand
)

// ErrInvalidPurchaseDate marks a purchase date that is not a real calendar day, such as 2025-02-31
var ErrInvalidPurchaseDate = errors.New("invalid purchase date")

// Transaction is a confirmed receipt
type Transaction struct {
	ID                uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	SessionID         *uuid.UUID     `gorm:"type:uuid;index:idx_scan_transactions_session" json:"session_id,omitempty"`
	Merchant          *string        `gorm:"type:varchar(255)" json:"merchant"`
	TotalAmount       *float64       `gorm:"type:decimal(15,2)" json:"total_amount"`
	PurchaseDate      *time.Time     `gorm:"type:date" json:"purchase_date"`
	Currency          string         `gorm:"type:varchar(3);not null" json:"currency"`
	Confidence        datatypes.JSON `gorm:"type:jsonb" json:"confidence"`
	OverallConfidence float64        `gorm:"not null" json:"overall_confidence"`
	CreatedFrom       string         `gorm:"type:varchar(20);not null" json:"created_from"`
	OCRRawText        string         `gorm:"type:text" json:"ocr_raw_text,omitempty"`
	ImageKey          *string        `gorm:"type:varchar(255)" json:"image_key,omitempty"`
	ImageURL          *string        `gorm:"type:text" json:"image_url,omitempty"`
	CreatedAt         time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName specifies the table name
func (Transaction) TableName() string {
	return "scan_transactions"
}

// BeforeCreate sets UUID before creating
func (t *Transaction) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// FromParsedReceipt converts a parser result into a transaction
func FromParsedReceipt(r receipt.ParsedReceipt, source string) (*Transaction, error) {
	confidence, err := json.Marshal(r.Confidence)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal confidence: %w", err)
	}

	t := &Transaction{
		Merchant:          r.Merchant,
		TotalAmount:       r.TotalAmount,
		Currency:          r.Currency,
		Confidence:        datatypes.JSON(confidence),
		OverallConfidence: r.Confidence.Overall,
		CreatedFrom:       source,
		OCRRawText:        r.RawText,
	}
	if t.Currency == "" {
		t.Currency = receipt.CurrencyIDR
	}

	if r.PurchaseDate != nil {
		date, err := time.Parse("2006-01-02", *r.PurchaseDate)
		if err != nil {
			return nil, fmt.Errorf("%w %q: %w", ErrInvalidPurchaseDate, *r.PurchaseDate, err)
		}
		t.PurchaseDate = &date
	}

	return t, nil
}

// ExportRow flattens the transaction for spreadsheet and PDF exports
func (t *Transaction) ExportRow() export.ReceiptRow {
	row := export.ReceiptRow{
		ID:         t.ID.String(),
		Confidence: t.OverallConfidence,
		Source:     t.CreatedFrom,
		CreatedAt:  t.CreatedAt,
	}
	if t.Merchant != nil {
		row.Merchant = *t.Merchant
	}
	if t.TotalAmount != nil {
		row.TotalAmount = *t.TotalAmount
	}
	if t.PurchaseDate != nil {
		row.PurchaseDate = t.PurchaseDate.Format("2006-01-02")
	}
	return row
}
