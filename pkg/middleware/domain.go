package middleware

import (
	"context"
	"errors"
	"strings"
	"time"

	apppolicy "github.com/edgecloak/edgecloak/pkg/app/policy"
	"github.com/edgecloak/edgecloak/pkg/common"
	"github.com/edgecloak/edgecloak/pkg/domain/policy"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type domainMiddleware struct {
	logger *logrus.Logger
	finder apppolicy.Finder
}

// NewDomainMiddleware resolves the Host header to a domain policy and places
// it in the request context. System endpoints are exempt.
func NewDomainMiddleware(logger *logrus.Logger, finder apppolicy.Finder) Middleware {
	return &domainMiddleware{
		logger: logger,
		finder: finder,
	}
}

func (m *domainMiddleware) Middleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		if strings.HasPrefix(ctx.Path(), common.SystemPathPrefix) {
			return ctx.Next()
		}

		host := ctx.Get("Host")
		if host == "" {
			host = string(ctx.Request().Host())
		}
		if host == "" {
			m.logger.Error("No host header found")
			return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Host header required"})
		}
		hostname := strings.ToLower(strings.Split(host, ":")[0])

		ctx.Locals(common.LatencyContextKey, time.Now())

		pol, err := m.finder.FindByHostname(ctx.Context(), hostname)
		if err != nil {
			if errors.Is(err, policy.ErrPolicyNotFound) {
				m.logger.WithField("hostname", hostname).Debug("no policy for hostname")
				return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Domain not found"})
			}
			m.logger.WithError(err).WithField("hostname", hostname).Error("failed to load domain policy")
			return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
		}

		ctx.Locals(common.PolicyContextKey, pol)
		ctx.Locals(common.PolicyIdContextKey, pol.ID.String())

		c := context.WithValue(ctx.Context(), common.PolicyContextKey, pol)
		c = context.WithValue(c, common.PolicyIdContextKey, pol.ID.String())
		ctx.SetUserContext(c)

		return ctx.Next()
	}
}
