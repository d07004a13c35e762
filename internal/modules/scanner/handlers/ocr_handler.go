package handlers

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/MuhamadAgungGumelar/struk-scanner-be/internal/core/audit"
	"github.com/MuhamadAgungGumelar/struk-scanner-be/internal/core/ocr"
	"github.com/MuhamadAgungGumelar/struk-scanner-be/internal/core/receipt"
	"github.com/MuhamadAgungGumelar/struk-scanner-be/internal/core/upload"
	"github.com/MuhamadAgungGumelar/struk-scanner-be/internal/modules/scanner/models"
	"github.com/MuhamadAgungGumelar/struk-scanner-be/internal/modules/scanner/repositories"
	"github.com/MuhamadAgungGumelar/struk-scanner-be/internal/shared/utils"
)

// msgInvalidCalendarDate reports a purchase date such as 31/02 that passed the date shape checks
const msgInvalidCalendarDate = "Purchase date is not a valid calendar date"

// ImageArchive keeps the original image of stored receipts
type ImageArchive interface {
	SaveReceipt(ctx context.Context, id uuid.UUID, image []byte, contentType string, at time.Time) (*upload.Object, error)
	Delete(ctx context.Context, key string) error
}

// OCRHandler handles single-image receipt uploads
type OCRHandler struct {
	ocrService      *ocr.Service
	parser          *receipt.Parser
	refiner         Refiner
	transactionRepo repositories.TransactionRepo
	archive         ImageArchive
	auditor         audit.Recorder
	maxUploadSize   int64
}

// NewOCRHandler creates a new OCR handler. refiner, archive and auditor may be nil.
func NewOCRHandler(ocrService *ocr.Service, parser *receipt.Parser, refiner Refiner, transactionRepo repositories.TransactionRepo, archive ImageArchive, auditor audit.Recorder, maxUploadSize int64) *OCRHandler {
	return &OCRHandler{
		ocrService:      ocrService,
		parser:          parser,
		refiner:         refiner,
		transactionRepo: transactionRepo,
		archive:         archive,
		auditor:         auditor,
		maxUploadSize:   maxUploadSize,
	}
}

// ProcessReceipt godoc
// @Summary Process receipt image and create transaction
// @Description Upload a receipt image, extract text using OCR, parse it, and store the result when it passes validation
// @Tags OCR
// @Accept multipart/form-data
// @Produce json
// @Param image formData file true "Receipt image file"
// @Success 201 {object} map[string]interface{}
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Failure 502 {object} map[string]string
// @Router /ocr/process-receipt [post]
func (h *OCRHandler) ProcessReceipt(c *fiber.Ctx) error {
	imageData, contentType, status, msg := readImage(c, h.maxUploadSize)
	if status != 0 {
		return c.Status(status).JSON(fiber.Map{"error": msg})
	}

	ocrResult, err := h.ocrService.ExtractText(c.UserContext(), imageData)
	if err != nil {
		utils.LogError("❌ OCR extraction failed", err, map[string]interface{}{"provider": h.ocrService.GetProviderName()})
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": "failed to extract text from image",
		})
	}

	outcome, _ := parseAndRefine(c.UserContext(), h.parser, h.refiner, ocrResult.Input(), h.refiner != nil)
	if !outcome.Success {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error":   "no receipt found in image",
			"outcome": outcome,
		})
	}

	validationErrors := receipt.ValidateParsedReceipt(outcome.Data)
	if len(validationErrors) > 0 {
		// Incomplete receipts go back to the client for review instead of being stored
		return c.JSON(fiber.Map{
			"saved":             false,
			"outcome":           outcome,
			"validation_errors": validationErrors,
		})
	}

	transaction, err := models.FromParsedReceipt(*outcome.Data, models.SourceOCR)
	if errors.Is(err, models.ErrInvalidPurchaseDate) {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"saved":             false,
			"outcome":           outcome,
			"validation_errors": []string{msgInvalidCalendarDate},
		})
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	transaction.ID = uuid.New()
	h.archiveImage(c.UserContext(), transaction, imageData, contentType)
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
		Description: "uploaded receipt image via " + h.ocrService.GetProviderName(),
	})

	utils.LogInfo("✅ Receipt processed", map[string]interface{}{
		"transaction_id": transaction.ID.String(),
		"overall":        outcome.Data.Confidence.Overall,
	})

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"saved":             true,
		"transaction":       transaction,
		"outcome":           outcome,
		"validation_errors": validationErrors,
	})
}

// archiveImage stores the receipt image. Failures only cost the image link.
func (h *OCRHandler) archiveImage(ctx context.Context, transaction *models.Transaction, image []byte, contentType string) {
	if h.archive == nil {
		return
	}

	obj, err := h.archive.SaveReceipt(ctx, transaction.ID, image, contentType, time.Now())
	if err != nil {
		utils.LogWarn("⚠️ Failed to archive receipt image", map[string]interface{}{
			"transaction_id": transaction.ID.String(),
			"error":          err.Error(),
		})
		return
	}
	transaction.ImageKey = &obj.Key
	transaction.ImageURL = &obj.URL
}

// readImage pulls the "image" form file, returning a status and message on failure
func readImage(c *fiber.Ctx, maxSize int64) ([]byte, string, int, string) {
	file, err := c.FormFile("image")
	if err != nil {
		return nil, "", fiber.StatusBadRequest, "image file is required"
	}

	contentType := file.Header.Get("Content-Type")
	if contentType != "image/jpeg" && contentType != "image/jpg" && contentType != "image/png" && contentType != "image/webp" {
		return nil, "", fiber.StatusBadRequest, "only JPEG, PNG and WebP images are supported"
	}

	if maxSize > 0 && file.Size > maxSize {
		return nil, "", fiber.StatusRequestEntityTooLarge, "image is too large"
	}

	fileHandle, err := file.Open()
	if err != nil {
		return nil, "", fiber.StatusInternalServerError, "failed to read image file"
	}
	defer fileHandle.Close()

	imageData, err := io.ReadAll(fileHandle)
	if err != nil {
		return nil, "", fiber.StatusInternalServerError, "failed to read image file"
	}
	if len(imageData) == 0 {
		return nil, "", fiber.StatusBadRequest, "image file is empty"
	}
	return imageData, contentType, 0, ""
}
