package http

import (
	"github.com/edgecloak/edgecloak/pkg/botdetect"
	"github.com/edgecloak/edgecloak/pkg/domain/telemetry"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type assessHandler struct {
	logger   *logrus.Logger
	assessor *botdetect.Assessor
	store    telemetry.Store
}

// NewAssessHandler exposes the bot score for the calling client. Diagnostic
// only; the classification pipeline does not consult it.
func NewAssessHandler(logger *logrus.Logger, assessor *botdetect.Assessor, store telemetry.Store) Handler {
	return &assessHandler{logger: logger, assessor: assessor, store: store}
}

func (h *assessHandler) Handle(c *fiber.Ctx) error {
	req := buildRequestContext(c, h.store, h.logger)
	assessment := h.assessor.Assess(c.Context(), req)
	return c.Status(fiber.StatusOK).JSON(assessment)
}
