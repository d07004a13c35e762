package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/MuhamadAgungGumelar/struk-scanner-be/internal/core/audit"
	"github.com/MuhamadAgungGumelar/struk-scanner-be/internal/core/receipt"
	"github.com/MuhamadAgungGumelar/struk-scanner-be/internal/modules/scanner/models"
)

// ErrTransactionNotFound is returned when no transaction matches
var ErrTransactionNotFound = errors.New("transaction not found")

// TransactionRepo interface defines transaction operations
type TransactionRepo interface {
	Create(ctx context.Context, transaction *models.Transaction) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Transaction, error)
	List(ctx context.Context, limit int) ([]models.Transaction, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type transactionRepo struct {
	db *gorm.DB
}

// NewTransactionRepo creates a new transaction repository
func NewTransactionRepo(db *gorm.DB) TransactionRepo {
	return &transactionRepo{db: db}
}

// Create inserts a new transaction
func (r *transactionRepo) Create(ctx context.Context, transaction *models.Transaction) error {
	return r.db.WithContext(ctx).Create(transaction).Error
}

// GetByID retrieves a transaction by ID
func (r *transactionRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Transaction, error) {
	var transaction models.Transaction
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&transaction).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrTransactionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &transaction, nil
}

// List returns the most recent transactions first. limit <= 0 returns all.
func (r *transactionRepo) List(ctx context.Context, limit int) ([]models.Transaction, error) {
	var transactions []models.Transaction
	query := r.db.WithContext(ctx).Order("created_at DESC")

	if limit > 0 {
		query = query.Limit(limit)
	}

	if err := query.Find(&transactions).Error; err != nil {
		return nil, err
	}

	return transactions, nil
}

// Delete removes a transaction
func (r *transactionRepo) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Transaction{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTransactionNotFound
	}
	return nil
}

// ScanSink stores receipts that live scan sessions stabilize on
type ScanSink struct {
	repo     TransactionRepo
	recorder audit.Recorder
}

// NewScanSink creates a sink writing to repo. recorder may be nil.
func NewScanSink(repo TransactionRepo, recorder audit.Recorder) *ScanSink {
	return &ScanSink{repo: repo, recorder: recorder}
}

// SaveStable persists a stabilized receipt as a scan transaction.
// A purchase date that is not a real calendar day is dropped, not the receipt.
func (s *ScanSink) SaveStable(ctx context.Context, sessionID uuid.UUID, result receipt.ParsedReceipt) error {
	transaction, err := models.FromParsedReceipt(result, models.SourceScan)
	if errors.Is(err, models.ErrInvalidPurchaseDate) {
		log.Warn().Err(err).Str("session_id", sessionID.String()).Msg("⚠️ Storing scan transaction without purchase date")
		result.PurchaseDate = nil
		transaction, err = models.FromParsedReceipt(result, models.SourceScan)
	}
	if err != nil {
		return err
	}
	transaction.SessionID = &sessionID
	if err := s.repo.Create(ctx, transaction); err != nil {
		return err
	}

	if s.recorder != nil {
		err := s.recorder.RecordChange(ctx, audit.Request{
			Method:   "SCAN",
			Endpoint: "/scan-sessions/" + sessionID.String(),
		}, audit.Change{
			Action:      audit.ActionCreate,
			Entity:      audit.EntityTransaction,
			EntityID:    transaction.ID.String(),
			NewValue:    transaction,
			Description: "stabilized live scan",
		})
		if err != nil {
			log.Warn().Err(err).Str("session_id", sessionID.String()).Msg("⚠️ Failed to audit scan transaction")
		}
	}
	return nil
}
