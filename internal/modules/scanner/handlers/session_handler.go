package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/MuhamadAgungGumelar/struk-scanner-be/internal/core/receipt"
	"github.com/MuhamadAgungGumelar/struk-scanner-be/internal/core/session"
	"github.com/MuhamadAgungGumelar/struk-scanner-be/internal/shared/utils"
)

const defaultEventLimit = 100

// SessionHandler drives live scan sessions
type SessionHandler struct {
	manager       *session.Manager
	maxUploadSize int64
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(manager *session.Manager, maxUploadSize int64) *SessionHandler {
	return &SessionHandler{manager: manager, maxUploadSize: maxUploadSize}
}

// CreateSession godoc
// @Summary Create a scan session
// @Description Create an idle live scan session. Call start before feeding frames.
// @Tags Scan Sessions
// @Produce json
// @Success 201 {object} map[string]interface{}
// @Router /scan-sessions [post]
func (h *SessionHandler) CreateSession(c *fiber.Ctx) error {
	info := h.manager.Create()
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"session": info,
		"url":     h.manager.URL(info.ID),
	})
}

// ListSessions godoc
// @Summary List scan sessions
// @Tags Scan Sessions
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /scan-sessions [get]
func (h *SessionHandler) ListSessions(c *fiber.Ctx) error {
	sessions := h.manager.List()
	return c.JSON(fiber.Map{
		"sessions": sessions,
		"count":    len(sessions),
	})
}

// GetSession godoc
// @Summary Get a scan session
// @Tags Scan Sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} session.Info
// @Failure 404 {object} map[string]string
// @Router /scan-sessions/{id} [get]
func (h *SessionHandler) GetSession(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return invalidID(c)
	}
	info, err := h.manager.Get(id)
	if err != nil {
		return sessionError(c, err)
	}
	return c.JSON(info)
}

// DeleteSession godoc
// @Summary Delete a scan session
// @Tags Scan Sessions
// @Param id path string true "Session ID"
// @Success 204
// @Failure 404 {object} map[string]string
// @Router /scan-sessions/{id} [delete]
func (h *SessionHandler) DeleteSession(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return invalidID(c)
	}
	if err := h.manager.Delete(id); err != nil {
		return sessionError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// StartSession godoc
// @Summary Start scanning
// @Tags Scan Sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} session.Info
// @Failure 404 {object} map[string]string
// @Router /scan-sessions/{id}/start [post]
func (h *SessionHandler) StartSession(c *fiber.Ctx) error {
	return h.control(c, h.manager.Start)
}

// StopSession godoc
// @Summary Stop scanning
// @Description Stop accepting frames. The last stable result is kept.
// @Tags Scan Sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} session.Info
// @Failure 404 {object} map[string]string
// @Router /scan-sessions/{id}/stop [post]
func (h *SessionHandler) StopSession(c *fiber.Ctx) error {
	return h.control(c, h.manager.Stop)
}

// ResetSession godoc
// @Summary Reset a scan session
// @Description Discard buffered frames, counters, metrics and the last stable result
// @Tags Scan Sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} session.Info
// @Failure 404 {object} map[string]string
// @Router /scan-sessions/{id}/reset [post]
func (h *SessionHandler) ResetSession(c *fiber.Ctx) error {
	return h.control(c, h.manager.Reset)
}

func (h *SessionHandler) control(c *fiber.Ctx, action func(uuid.UUID) (session.Info, error)) error {
	id, ok := parseID(c)
	if !ok {
		return invalidID(c)
	}
	info, err := action(id)
	if err != nil {
		return sessionError(c, err)
	}
	return c.JSON(info)
}

// FeedFrame godoc
// @Summary Feed OCR text for one frame
// @Description Push one camera frame's OCR output into the stabilizer
// @Tags Scan Sessions
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param request body receipt.OCRInput true "Frame OCR output"
// @Success 200 {object} session.FeedResult
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /scan-sessions/{id}/frames [post]
func (h *SessionHandler) FeedFrame(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return invalidID(c)
	}

	var input receipt.OCRInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}
	if input.Confidence < 0 || input.Confidence > 1 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "confidence must be between 0 and 1",
		})
	}

	result, err := h.manager.Feed(id, input)
	if err != nil {
		return sessionError(c, err)
	}
	return c.JSON(result)
}

// FeedImage godoc
// @Summary Feed a camera frame image
// @Description Run a camera frame through the quality gate and OCR, then feed it to the stabilizer
// @Tags Scan Sessions
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Session ID"
// @Param image formData file true "Camera frame"
// @Success 200 {object} session.FeedResult
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 503 {object} map[string]string
// @Router /scan-sessions/{id}/images [post]
func (h *SessionHandler) FeedImage(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return invalidID(c)
	}

	imageData, _, status, msg := readImage(c, h.maxUploadSize)
	if status != 0 {
		return c.Status(status).JSON(fiber.Map{"error": msg})
	}

	result, err := h.manager.FeedImage(c.UserContext(), id, imageData)
	if err != nil {
		return sessionError(c, err)
	}
	return c.JSON(result)
}

// ListEvents godoc
// @Summary List session events
// @Description Journal of a session, oldest first. History survives session deletion.
// @Tags Scan Sessions
// @Produce json
// @Param id path string true "Session ID"
// @Param limit query int false "Maximum number of events" default(100)
// @Success 200 {object} map[string]interface{}
// @Router /scan-sessions/{id}/events [get]
func (h *SessionHandler) ListEvents(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return invalidID(c)
	}

	events, err := h.manager.Events(c.UserContext(), id, c.QueryInt("limit", defaultEventLimit))
	if err != nil {
		utils.LogError("❌ Failed to list session events", err, map[string]interface{}{"session_id": id.String()})
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to list events",
		})
	}
	return c.JSON(fiber.Map{
		"events": events,
		"count":  len(events),
	})
}

// GetQRCode godoc
// @Summary Session QR code
// @Description PNG QR code of the session URL so a phone can join it
// @Tags Scan Sessions
// @Produce png
// @Param id path string true "Session ID"
// @Param size query int false "Image size in pixels" default(256)
// @Success 200 {file} binary
// @Failure 404 {object} map[string]string
// @Router /scan-sessions/{id}/qr [get]
func (h *SessionHandler) GetQRCode(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return invalidID(c)
	}

	png, err := h.manager.QRCode(id, c.QueryInt("size", 0))
	if err != nil {
		return sessionError(c, err)
	}
	c.Set(fiber.HeaderContentType, "image/png")
	return c.Send(png)
}

func parseID(c *fiber.Ctx) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

func invalidID(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error": "invalid ID",
	})
}

func sessionError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, session.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, session.ErrNoOCR):
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
}
