package http

import (
	"errors"
	"strings"

	apppolicy "github.com/edgecloak/edgecloak/pkg/app/policy"
	"github.com/edgecloak/edgecloak/pkg/cloak"
	"github.com/edgecloak/edgecloak/pkg/domain/policy"
	"github.com/edgecloak/edgecloak/pkg/domain/telemetry"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type inspectHandler struct {
	logger     *logrus.Logger
	finder     apppolicy.Finder
	classifier cloak.Classifier
	store      telemetry.Store
}

// NewInspectHandler dry-runs the classification for the calling request and
// reports what the pipeline saw. Nothing is written to the access log.
func NewInspectHandler(
	logger *logrus.Logger,
	finder apppolicy.Finder,
	classifier cloak.Classifier,
	store telemetry.Store,
) Handler {
	return &inspectHandler{
		logger:     logger,
		finder:     finder,
		classifier: classifier,
		store:      store,
	}
}

func (h *inspectHandler) Handle(c *fiber.Ctx) error {
	host := c.Query("host")
	if host == "" {
		host = c.Get("Host")
		if host == "" {
			host = string(c.Request().Host())
		}
	}
	hostname := strings.ToLower(strings.Split(host, ":")[0])

	pol, err := h.finder.FindByHostname(c.Context(), hostname)
	if err != nil {
		if errors.Is(err, policy.ErrPolicyNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Domain not found"})
		}
		h.logger.WithError(err).WithField("hostname", hostname).Error("failed to load domain policy")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
	}

	req := buildRequestContext(c, h.store, h.logger)

	decision, err := h.classifier.Inspect(c.Context(), pol, req)
	if err != nil {
		h.logger.WithError(err).WithField("policy_id", pol.ID).Error("inspection failed")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"hostname":      hostname,
		"policy_id":     pol.ID,
		"client_ip":     req.ClientIP,
		"user_agent":    req.UserAgent,
		"country_hint":  req.CountryHint,
		"has_telemetry": req.Telemetry != nil,
		"decision": fiber.Map{
			"action":       decision.Action(),
			"redirect_url": decision.RedirectURL,
			"content_ref":  decision.ContentRef,
			"country":      decision.Country,
			"state":        decision.State,
			"asn":          decision.ASN,
		},
	})
}
