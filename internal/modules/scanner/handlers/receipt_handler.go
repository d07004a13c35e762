package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/MuhamadAgungGumelar/struk-scanner-be/internal/core/receipt"
)

// Refiner fills fields the regex parser missed
type Refiner interface {
	Refine(ctx context.Context, input receipt.OCRInput, parsed receipt.ParsedReceipt) receipt.ParsedReceipt
}

// ReceiptHandler exposes the receipt parser and validator
type ReceiptHandler struct {
	parser  *receipt.Parser
	refiner Refiner
}

// NewReceiptHandler creates a new receipt handler. refiner may be nil.
func NewReceiptHandler(parser *receipt.Parser, refiner Refiner) *ReceiptHandler {
	return &ReceiptHandler{parser: parser, refiner: refiner}
}

// ParseResponse is a parse outcome plus validation of the parsed data
type ParseResponse struct {
	receipt.ParseOutcome
	ValidationErrors []string `json:"validation_errors"`
	Refined          bool     `json:"refined"`
}

// ParseReceipt godoc
// @Summary Parse OCR text into a receipt
// @Description Extract merchant, total and purchase date from raw OCR text
// @Tags Receipts
// @Accept json
// @Produce json
// @Param request body receipt.OCRInput true "OCR output"
// @Param refine query bool false "Ask the LLM to fill missing fields"
// @Success 200 {object} ParseResponse
// @Failure 400 {object} map[string]string
// @Router /receipts/parse [post]
func (h *ReceiptHandler) ParseReceipt(c *fiber.Ctx) error {
	var input receipt.OCRInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	outcome, refined := parseAndRefine(c.UserContext(), h.parser, h.refiner, input, c.QueryBool("refine"))

	resp := ParseResponse{ParseOutcome: outcome, ValidationErrors: []string{}, Refined: refined}
	if outcome.Data != nil {
		resp.ValidationErrors = receipt.ValidateParsedReceipt(outcome.Data)
	}
	return c.JSON(resp)
}

// ValidateReceipt godoc
// @Summary Validate a parsed receipt
// @Description Check a (possibly user-edited) receipt before it is confirmed
// @Tags Receipts
// @Accept json
// @Produce json
// @Param request body receipt.ParsedReceipt true "Parsed receipt"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Router /receipts/validate [post]
func (h *ReceiptHandler) ValidateReceipt(c *fiber.Ctx) error {
	var parsed receipt.ParsedReceipt
	if err := c.BodyParser(&parsed); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	errs := receipt.ValidateParsedReceipt(&parsed)
	return c.JSON(fiber.Map{
		"valid":  len(errs) == 0,
		"errors": errs,
	})
}

// parseAndRefine parses input and, when asked and possible, refines the result
func parseAndRefine(ctx context.Context, parser *receipt.Parser, refiner Refiner, input receipt.OCRInput, refine bool) (receipt.ParseOutcome, bool) {
	outcome := parser.Parse(input)
	if !refine || refiner == nil || !outcome.Success || outcome.Data == nil {
		return outcome, false
	}

	refined := refiner.Refine(ctx, input, *outcome.Data)
	changed := refined.Confidence != outcome.Data.Confidence
	outcome.Data = &refined
	return outcome, changed
}
