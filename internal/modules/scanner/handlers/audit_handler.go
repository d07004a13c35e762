package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/MuhamadAgungGumelar/struk-scanner-be/internal/core/audit"
	"github.com/MuhamadAgungGumelar/struk-scanner-be/internal/shared/utils"
)

// AuditReader queries the audit trail
type AuditReader interface {
	List(ctx context.Context, filter audit.Filter) (*audit.Page, error)
	History(ctx context.Context, entity, entityID string) ([]audit.AuditLog, error)
}

// AuditHandler exposes the audit trail of stored receipts
type AuditHandler struct {
	reader AuditReader
}

// NewAuditHandler creates a new audit handler
func NewAuditHandler(reader AuditReader) *AuditHandler {
	return &AuditHandler{reader: reader}
}

// ListAuditLogs godoc
// @Summary List audit logs
// @Description Recorded creates, deletes and exports, newest first
// @Tags Audit
// @Produce json
// @Param action query string false "create, delete or export"
// @Param entity query string false "Entity name, e.g. transaction"
// @Param entity_id query string false "Entity ID"
// @Param start_date query string false "YYYY-MM-DD"
// @Param end_date query string false "YYYY-MM-DD"
// @Param page query int false "Page number" default(1)
// @Param page_size query int false "Page size" default(50)
// @Success 200 {object} audit.Page
// @Failure 400 {object} map[string]string
// @Router /audit-logs [get]
func (h *AuditHandler) ListAuditLogs(c *fiber.Ctx) error {
	filter := audit.Filter{
		Action:   c.Query("action"),
		Entity:   c.Query("entity"),
		EntityID: c.Query("entity_id"),
		Page:     c.QueryInt("page", 1),
		PageSize: c.QueryInt("page_size", 0),
	}

	if v := c.Query("start_date"); v != "" {
		start, err := time.Parse("2006-01-02", v)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "start_date must be YYYY-MM-DD"})
		}
		filter.StartDate = &start
	}
	if v := c.Query("end_date"); v != "" {
		end, err := time.Parse("2006-01-02", v)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "end_date must be YYYY-MM-DD"})
		}
		// whole day, inclusive
		end = end.Add(24*time.Hour - time.Nanosecond)
		filter.EndDate = &end
	}

	page, err := h.reader.List(c.UserContext(), filter)
	if err != nil {
		utils.LogError("❌ Failed to list audit logs", err, nil)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to list audit logs",
		})
	}
	return c.JSON(page)
}

// TransactionHistory godoc
// @Summary Transaction history
// @Description Every recorded change to one transaction, including deleted ones
// @Tags Audit
// @Produce json
// @Param id path string true "Transaction ID"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Router /transactions/{id}/history [get]
func (h *AuditHandler) TransactionHistory(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return invalidID(c)
	}

	logs, err := h.reader.History(c.UserContext(), audit.EntityTransaction, id.String())
	if err != nil {
		utils.LogError("❌ Failed to get transaction history", err, map[string]interface{}{"transaction_id": id.String()})
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to get transaction history",
		})
	}
	return c.JSON(fiber.Map{
		"history": logs,
		"count":   len(logs),
	})
}

// recordChange writes an audit entry for the current request. Failures are logged only.
func recordChange(c *fiber.Ctx, recorder audit.Recorder, change audit.Change) {
	if recorder == nil {
		return
	}

	req := audit.Request{
		IPAddress: c.IP(),
		UserAgent: c.Get(fiber.HeaderUserAgent),
		Method:    c.Method(),
		Endpoint:  c.Path(),
	}
	if err := recorder.RecordChange(c.UserContext(), req, change); err != nil {
		utils.LogWarn("⚠️ Failed to record audit log", map[string]interface{}{
			"action":    change.Action,
			"entity_id": change.EntityID,
			"error":     err.Error(),
		})
	}
}
