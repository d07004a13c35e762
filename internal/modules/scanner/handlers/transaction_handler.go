package handlers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/MuhamadAgungGumelar/struk-scanner-be/internal/core/analytics"
	"github.com/MuhamadAgungGumelar/struk-scanner-be/internal/core/audit"
	"github.com/MuhamadAgungGumelar/struk-scanner-be/internal/core/export"
	"github.com/MuhamadAgungGumelar/struk-scanner-be/internal/core/receipt"
	"github.com/MuhamadAgungGumelar/struk-scanner-be/internal/modules/scanner/models"
	"github.com/MuhamadAgungGumelar/struk-scanner-be/internal/modules/scanner/repositories"
	"github.com/MuhamadAgungGumelar/struk-scanner-be/internal/shared/utils"
)

const (
	defaultListLimit = 50
	exportTitle      = "Laporan Struk Belanja"
)

// Summarizer builds spending reports
type Summarizer interface {
	Summarize(ctx context.Context, period string, now time.Time) (*analytics.Summary, error)
}

// TransactionHandler serves confirmed receipts
type TransactionHandler struct {
	transactionRepo repositories.TransactionRepo
	exportService   *export.Service
	summaries       Summarizer
	archive         ImageArchive
	auditor         audit.Recorder
	now             func() time.Time
}

// NewTransactionHandler creates a new transaction handler. archive and auditor may be nil.
func NewTransactionHandler(transactionRepo repositories.TransactionRepo, exportService *export.Service, summaries Summarizer, archive ImageArchive, auditor audit.Recorder) *TransactionHandler {
	return &TransactionHandler{
		transactionRepo: transactionRepo,
		exportService:   exportService,
		summaries:       summaries,
		archive:         archive,
		auditor:         auditor,
		now:             time.Now,
	}
}

// ListTransactions godoc
// @Summary List transactions
// @Description Most recent confirmed receipts first
// @Tags Transactions
// @Produce json
// @Param limit query int false "Maximum number of transactions" default(50)
// @Success 200 {object} map[string]interface{}
// @Router /transactions [get]
func (h *TransactionHandler) ListTransactions(c *fiber.Ctx) error {
	transactions, err := h.transactionRepo.List(c.UserContext(), c.QueryInt("limit", defaultListLimit))
	if err != nil {
		utils.LogError("❌ Failed to list transactions", err, nil)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to list transactions",
		})
	}
	return c.JSON(fiber.Map{
		"transactions": transactions,
		"count":        len(transactions),
	})
}

// GetTransaction godoc
// @Summary Get a transaction
// @Tags Transactions
// @Produce json
// @Param id path string true "Transaction ID"
// @Success 200 {object} models.Transaction
// @Failure 404 {object} map[string]string
// @Router /transactions/{id} [get]
func (h *TransactionHandler) GetTransaction(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return invalidID(c)
	}

	transaction, err := h.transactionRepo.GetByID(c.UserContext(), id)
	if errors.Is(err, repositories.ErrTransactionNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to get transaction",
		})
	}
	return c.JSON(transaction)
}

// CreateTransaction godoc
// @Summary Confirm a receipt manually
// @Description Store a receipt the user reviewed or corrected. It must pass validation.
// @Tags Transactions
// @Accept json
// @Produce json
// @Param request body receipt.ParsedReceipt true "Confirmed receipt"
// @Success 201 {object} models.Transaction
// @Failure 400 {object} map[string]string
// @Failure 422 {object} map[string]interface{}
// @Router /transactions [post]
func (h *TransactionHandler) CreateTransaction(c *fiber.Ctx) error {
	var parsed receipt.ParsedReceipt
	if err := c.BodyParser(&parsed); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	if errs := receipt.ValidateParsedReceipt(&parsed); len(errs) > 0 {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error":  "receipt is not valid",
			"errors": errs,
		})
	}

	transaction, err := models.FromParsedReceipt(parsed, models.SourceManual)
	if errors.Is(err, models.ErrInvalidPurchaseDate) {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error":  "receipt is not valid",
			"errors": []string{msgInvalidCalendarDate},
		})
	}
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if err := h.transactionRepo.Create(c.UserContext(), transaction); err != nil {
		utils.LogError("❌ Failed to save transaction", err, nil)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to save transaction",
		})
	}
	recordChange(c, h.auditor, audit.Change{
		Action:      audit.ActionCreate,
		Entity:      audit.EntityTransaction,
		EntityID:    transaction.ID.String(),
		NewValue:    transaction,
		Description: "confirmed by hand",
	})
	return c.Status(fiber.StatusCreated).JSON(transaction)
}

// DeleteTransaction godoc
// @Summary Delete a transaction
// @Description Remove a stored receipt together with its archived image
// @Tags Transactions
// @Param id path string true "Transaction ID"
// @Success 204
// @Failure 404 {object} map[string]string
// @Router /transactions/{id} [delete]
func (h *TransactionHandler) DeleteTransaction(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return invalidID(c)
	}

	transaction, err := h.transactionRepo.GetByID(c.UserContext(), id)
	if err == nil {
		err = h.transactionRepo.Delete(c.UserContext(), id)
	}
	if errors.Is(err, repositories.ErrTransactionNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	}
	if err != nil {
		utils.LogError("❌ Failed to delete transaction", err, map[string]interface{}{"transaction_id": id.String()})
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to delete transaction",
		})
	}

	if h.archive != nil && transaction.ImageKey != nil {
		if err := h.archive.Delete(c.UserContext(), *transaction.ImageKey); err != nil {
			utils.LogWarn("⚠️ Failed to delete receipt image", map[string]interface{}{
				"transaction_id": id.String(),
				"key":            *transaction.ImageKey,
				"error":          err.Error(),
			})
		}
	}

	recordChange(c, h.auditor, audit.Change{
		Action:   audit.ActionDelete,
		Entity:   audit.EntityTransaction,
		EntityID: id.String(),
		OldValue: transaction,
	})
	return c.SendStatus(fiber.StatusNoContent)
}

// ExportTransactions godoc
// @Summary Export transactions
// @Description Download confirmed receipts as an Excel workbook or a PDF report
// @Tags Transactions
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Produce application/pdf
// @Param format query string false "excel or pdf" default(excel)
// @Param limit query int false "Maximum number of transactions, 0 for all" default(0)
// @Success 200 {file} binary
// @Failure 400 {object} map[string]string
// @Router /transactions/export [get]
func (h *TransactionHandler) ExportTransactions(c *fiber.Ctx) error {
	format, err := export.ParseFormat(c.Query("format"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	transactions, err := h.transactionRepo.List(c.UserContext(), c.QueryInt("limit", 0))
	if err != nil {
		utils.LogError("❌ Failed to list transactions", err, nil)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to list transactions",
		})
	}

	rows := make([]export.ReceiptRow, 0, len(transactions))
	for i := range transactions {
		rows = append(rows, transactions[i].ExportRow())
	}

	now := h.now()
	file, err := h.exportService.Export(export.ReceiptReport(exportTitle, rows, now), format)
	if err != nil {
		utils.LogError("❌ Export failed", err, map[string]interface{}{"format": string(format)})
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to export transactions",
		})
	}

	recordChange(c, h.auditor, audit.Change{
		Action:   audit.ActionExport,
		Entity:   audit.EntityTransaction,
		NewValue: map[string]interface{}{
			"format": string(format),
			"count":  len(rows),
		},
	})

	filename := fmt.Sprintf("struk-%s%s", now.Format("20060102-150405"), file.Extension)
	c.Set(fiber.HeaderContentType, file.ContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
	return c.Send(file.Content)
}

// GetSummary godoc
// @Summary Spending summary
// @Description Totals, top merchants and daily spend by purchase date, compared with the previous period
// @Tags Transactions
// @Produce json
// @Param period query string false "today, yesterday, this_week, last_week, this_month, last_month, this_year, last_30_days or last_90_days" default(this_month)
// @Success 200 {object} analytics.Summary
// @Failure 400 {object} map[string]string
// @Router /transactions/summary [get]
func (h *TransactionHandler) GetSummary(c *fiber.Ctx) error {
	period := c.Query("period")
	if _, err := analytics.GetDateRange(period, h.now()); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   err.Error(),
			"periods": analytics.Periods,
		})
	}

	summary, err := h.summaries.Summarize(c.UserContext(), period, h.now())
	if err != nil {
		utils.LogError("❌ Failed to build summary", err, map[string]interface{}{"period": period})
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to build summary",
		})
	}
	return c.JSON(summary)
}
