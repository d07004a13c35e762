package repositories

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/MuhamadAgungGumelar/struk-scanner-be/internal/core/audit"
	"github.com/MuhamadAgungGumelar/struk-scanner-be/internal/core/receipt"
	"github.com/MuhamadAgungGumelar/struk-scanner-be/internal/modules/scanner/models"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db, mock
}

var transactionColumns = []string{
	"id", "session_id", "merchant", "total_amount", "purchase_date", "currency",
	"confidence", "overall_confidence", "created_from", "ocr_raw_text", "created_at", "updated_at",
}

func TestCreate(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTransactionRepo(db)

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "scan_transactions"`)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	merchant := "ALFAMART"
	tx := &models.Transaction{Merchant: &merchant, Currency: "IDR", CreatedFrom: models.SourceManual}
	require.NoError(t, repo.Create(context.Background(), tx))

	assert.NotEqual(t, uuid.Nil, tx.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTransactionRepo(db)
	id := uuid.New()
	now := time.Date(2025, 8, 15, 10, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "scan_transactions" WHERE id = $1`)).
		WillReturnRows(sqlmock.NewRows(transactionColumns).
			AddRow(id.String(), nil, "ALFAMART", 5500.0, now, "IDR", []byte(`{"overall":0.86}`), 0.86, "scan", "ALFAMART", now, now))

	tx, err := repo.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, id, tx.ID)
	assert.Equal(t, "ALFAMART", *tx.Merchant)
	assert.Equal(t, 5500.0, *tx.TotalAmount)
	assert.Nil(t, tx.SessionID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByIDNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTransactionRepo(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "scan_transactions"`)).
		WillReturnRows(sqlmock.NewRows(transactionColumns))

	_, err := repo.GetByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrTransactionNotFound)
}

func TestList(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTransactionRepo(db)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "scan_transactions" ORDER BY created_at DESC LIMIT`)).
		WillReturnRows(sqlmock.NewRows(transactionColumns).
			AddRow(uuid.NewString(), nil, "A", 100.0, nil, "IDR", []byte(`{}`), 0.5, "ocr", "", now, now).
			AddRow(uuid.NewString(), nil, nil, nil, nil, "IDR", []byte(`{}`), 0.2, "scan", "", now, now))

	list, err := repo.List(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Nil(t, list[1].Merchant)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDelete(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTransactionRepo(db)
	id := uuid.New()

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "scan_transactions" WHERE id = $1`)).
		WithArgs(id).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "scan_transactions" WHERE id = $1`)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.Delete(context.Background(), id))
	assert.ErrorIs(t, repo.Delete(context.Background(), uuid.New()), ErrTransactionNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

type memoryRepo struct {
	created []*models.Transaction
}

func (m *memoryRepo) Create(ctx context.Context, t *models.Transaction) error {
	t.ID = uuid.New()
	m.created = append(m.created, t)
	return nil
}

func (m *memoryRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Transaction, error) {
	return nil, ErrTransactionNotFound
}

func (m *memoryRepo) List(ctx context.Context, limit int) ([]models.Transaction, error) {
	return nil, nil
}

func (m *memoryRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return ErrTransactionNotFound
}

type recordingAuditor struct {
	requests []audit.Request
	changes  []audit.Change
	err      error
}

func (r *recordingAuditor) RecordChange(ctx context.Context, req audit.Request, change audit.Change) error {
	r.requests = append(r.requests, req)
	r.changes = append(r.changes, change)
	return r.err
}

func TestScanSink(t *testing.T) {
	repo := &memoryRepo{}
	sessionID := uuid.New()
	merchant := "ALFAMART"
	total := 5500.0

	err := NewScanSink(repo, nil).SaveStable(context.Background(), sessionID, receipt.ParsedReceipt{
		Merchant:    &merchant,
		TotalAmount: &total,
		Currency:    receipt.CurrencyIDR,
	})
	require.NoError(t, err)

	require.Len(t, repo.created, 1)
	assert.Equal(t, models.SourceScan, repo.created[0].CreatedFrom)
	assert.Equal(t, sessionID, *repo.created[0].SessionID)
}

func TestScanSinkRecordsAudit(t *testing.T) {
	repo := &memoryRepo{}
	auditor := &recordingAuditor{err: errors.New("audit table missing")}
	sessionID := uuid.New()
	total := 12000.0

	err := NewScanSink(repo, auditor).SaveStable(context.Background(), sessionID, receipt.ParsedReceipt{
		TotalAmount: &total,
		Currency:    receipt.CurrencyIDR,
	})
	require.NoError(t, err)

	require.Len(t, auditor.changes, 1)
	assert.Equal(t, audit.ActionCreate, auditor.changes[0].Action)
	assert.Equal(t, audit.EntityTransaction, auditor.changes[0].Entity)
	assert.Equal(t, repo.created[0].ID.String(), auditor.changes[0].EntityID)
	assert.Equal(t, "/scan-sessions/"+sessionID.String(), auditor.requests[0].Endpoint)
}

func TestScanSinkKeepsReceiptWithImpossibleDate(t *testing.T) {
	repo := &memoryRepo{}
	sessionID := uuid.New()

	outcome := receipt.ParseReceipt(receipt.OCRInput{
		Text:       "ALFAMART\nTanggal 31/02/2025\nTOTAL Rp 5.500",
		Confidence: 0.9,
	})
	require.True(t, outcome.Success)

	err := NewScanSink(repo, nil).SaveStable(context.Background(), sessionID, *outcome.Data)
	require.NoError(t, err)

	require.Len(t, repo.created, 1)
	saved := repo.created[0]
	assert.Equal(t, "ALFAMART", *saved.Merchant)
	assert.Equal(t, 5500.0, *saved.TotalAmount)
	assert.Nil(t, saved.PurchaseDate)
	assert.Equal(t, sessionID, *saved.SessionID)
}
