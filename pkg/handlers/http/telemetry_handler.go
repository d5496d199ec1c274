package http

import (
	"github.com/edgecloak/edgecloak/pkg/domain/telemetry"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type telemetryHandler struct {
	logger *logrus.Logger
	store  telemetry.Store
}

// NewTelemetryHandler accepts the browser collector payload and keeps it for
// a later classification of the same client.
func NewTelemetryHandler(logger *logrus.Logger, store telemetry.Store) Handler {
	return &telemetryHandler{logger: logger, store: store}
}

func (h *telemetryHandler) Handle(c *fiber.Ctx) error {
	var payload telemetry.ClientTelemetry
	if err := c.BodyParser(&payload); err != nil {
		h.logger.WithError(err).Debug("rejecting malformed telemetry payload")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid payload"})
	}

	ip := clientIP(c)
	if err := h.store.SaveTelemetry(c.Context(), ip, &payload); err != nil {
		h.logger.WithError(err).WithField("ip", ip).Error("failed to save telemetry")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
	}

	return c.SendStatus(fiber.StatusNoContent)
}
