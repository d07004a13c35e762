package handlers

import (
	"github.com/gofiber/fiber/v2"
)

// Handlers groups every scanner handler for route registration
type Handlers struct {
	Health      *HealthHandler
	Receipt     *ReceiptHandler
	OCR         *OCRHandler
	Session     *SessionHandler
	Transaction *TransactionHandler
	Audit       *AuditHandler
}

// RegisterRoutes mounts the scanner API. Nil handlers are skipped.
func RegisterRoutes(router fiber.Router, h Handlers) {
	if h.Health != nil {
		router.Get("/health", h.Health.GetHealth)
	}

	if h.Receipt != nil {
		receipts := router.Group("/receipts")
		receipts.Post("/parse", h.Receipt.ParseReceipt)
		receipts.Post("/validate", h.Receipt.ValidateReceipt)
	}

	if h.OCR != nil {
		router.Post("/ocr/process-receipt", h.OCR.ProcessReceipt)
	}

	if h.Session != nil {
		sessions := router.Group("/scan-sessions")
		sessions.Post("/", h.Session.CreateSession)
		sessions.Get("/", h.Session.ListSessions)
		sessions.Get("/:id", h.Session.GetSession)
		sessions.Delete("/:id", h.Session.DeleteSession)
		sessions.Post("/:id/start", h.Session.StartSession)
		sessions.Post("/:id/stop", h.Session.StopSession)
		sessions.Post("/:id/reset", h.Session.ResetSession)
		sessions.Post("/:id/frames", h.Session.FeedFrame)
		sessions.Post("/:id/images", h.Session.FeedImage)
		sessions.Get("/:id/events", h.Session.ListEvents)
		sessions.Get("/:id/qr", h.Session.GetQRCode)
	}

	if h.Transaction != nil {
		transactions := router.Group("/transactions")
		transactions.Get("/", h.Transaction.ListTransactions)
		transactions.Post("/", h.Transaction.CreateTransaction)
		// static paths must be registered before :id
		transactions.Get("/export", h.Transaction.ExportTransactions)
		transactions.Get("/summary", h.Transaction.GetSummary)
		transactions.Get("/:id", h.Transaction.GetTransaction)
		transactions.Delete("/:id", h.Transaction.DeleteTransaction)
	}

	if h.Audit != nil {
		router.Get("/audit-logs", h.Audit.ListAuditLogs)
		router.Get("/transactions/:id/history", h.Audit.TransactionHistory)
	}
}
