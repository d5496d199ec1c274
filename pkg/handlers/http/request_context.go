package http

import (
	"net/textproto"
	"net/url"
	"strings"

	"github.com/edgecloak/edgecloak/pkg/common"
	"github.com/edgecloak/edgecloak/pkg/domain/telemetry"
	"github.com/edgecloak/edgecloak/pkg/types"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// clientIP extracts the real client address. Edge-network headers win over
// proxy headers, which win over the socket peer.
func clientIP(c *fiber.Ctx) string {
	if ip := strings.TrimSpace(c.Get(common.ConnectingIPHeader)); ip != "" {
		return ip
	}
	if fwd := c.Get(common.ForwardedForHeader); fwd != "" {
		if ip := strings.TrimSpace(strings.Split(fwd, ",")[0]); ip != "" {
			return ip
		}
	}
	if ip := strings.TrimSpace(c.Get(common.RealIPHeader)); ip != "" {
		return ip
	}
	return c.IP()
}

// countryHint returns the edge-supplied country code, empty when the edge
// could not geolocate the client.
func countryHint(c *fiber.Ctx) string {
	hint := strings.ToUpper(strings.TrimSpace(c.Get(common.CountryHintHeader)))
	if hint == "" || hint == common.UnknownCountryHint {
		return ""
	}
	return hint
}

func queryParams(c *fiber.Ctx) url.Values {
	params := make(url.Values)
	c.Request().URI().QueryArgs().VisitAll(func(k, v []byte) {
		params.Add(string(k), string(v))
	})
	return params
}

// requestHeaders stores keys in canonical MIME form so lookups are immune to
// the casing fasthttp normalized them to on the wire.
func requestHeaders(c *fiber.Ctx) map[string]string {
	headers := make(map[string]string)
	c.Request().Header.VisitAll(func(k, v []byte) {
		headers[textproto.CanonicalMIMEHeaderKey(string(k))] = string(v)
	})
	return headers
}

// buildRequestContext assembles the classification input from a fiber request
// and any stored telemetry for the client. Telemetry lookup failure is not
// fatal; classification proceeds without it.
func buildRequestContext(
	c *fiber.Ctx,
	store telemetry.Store,
	logger *logrus.Logger,
) *types.RequestContext {
	req := &types.RequestContext{
		ClientIP:    clientIP(c),
		UserAgent:   c.Get(fiber.HeaderUserAgent),
		CountryHint: countryHint(c),
		Query:       queryParams(c),
		Headers:     requestHeaders(c),
	}

	if store != nil {
		data, err := store.GetTelemetry(c.Context(), req.ClientIP)
		if err != nil {
			logger.WithError(err).WithField("ip", req.ClientIP).Warn("failed to load client telemetry")
		} else {
			req.Telemetry = data
		}
	}

	return req
}
