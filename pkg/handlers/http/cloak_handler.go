package http

import (
	"github.com/edgecloak/edgecloak/pkg/cloak"
	"github.com/edgecloak/edgecloak/pkg/common"
	"github.com/edgecloak/edgecloak/pkg/domain/policy"
	"github.com/edgecloak/edgecloak/pkg/domain/telemetry"
	"github.com/edgecloak/edgecloak/pkg/infra/content"
	"github.com/edgecloak/edgecloak/pkg/types"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type cloakHandler struct {
	logger     *logrus.Logger
	classifier cloak.Classifier
	store      telemetry.Store
	contents   *content.Store
}

// NewCloakHandler serves the catch-all route: every visit to a managed
// hostname ends in either a redirect or substitute content.
func NewCloakHandler(
	logger *logrus.Logger,
	classifier cloak.Classifier,
	store telemetry.Store,
	contents *content.Store,
) Handler {
	return &cloakHandler{
		logger:     logger,
		classifier: classifier,
		store:      store,
		contents:   contents,
	}
}

func (h *cloakHandler) Handle(c *fiber.Ctx) error {
	pol, ok := c.Locals(common.PolicyContextKey).(*policy.DomainPolicy)
	if !ok || pol == nil {
		h.logger.Error("domain policy not found in context")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
	}

	req := buildRequestContext(c, h.store, h.logger)

	decision, err := h.classifier.Classify(c.Context(), pol, req)
	if err != nil {
		h.logger.WithError(err).WithField("policy_id", pol.ID).Error("classification failed")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
	}

	h.logger.WithFields(logrus.Fields{
		"policy_id": pol.ID,
		"ip":        req.ClientIP,
		"country":   decision.Country,
		"action":    decision.Action(),
	}).Info("visit classified")

	if decision.Outcome == types.OutcomeRedirected {
		return c.Redirect(decision.RedirectURL, fiber.StatusFound)
	}

	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.Status(fiber.StatusOK).SendString(h.contents.Get(decision.ContentRef))
}
