package router

import (
	"net/http"
	"time"

	"github.com/edgecloak/edgecloak/pkg/config"
	handlers "github.com/edgecloak/edgecloak/pkg/handlers/http"
	"github.com/edgecloak/edgecloak/pkg/middleware"
	"github.com/gofiber/fiber/v2"
)

const (
	HealthPath  = "/health"
	PingPath    = "/__/ping"
	CollectPath = "/__/collect"
	AssessPath  = "/__/assess"
	InspectPath = "/__/inspect"
)

type edgeRouter struct {
	middlewareTransport *middleware.Transport
	handlerTransport    handlers.HandlerTransport
	config              *config.Config
}

func NewEdgeRouter(
	middlewareTransport *middleware.Transport,
	handlerTransport handlers.HandlerTransport,
	cfg *config.Config,
) ServerRouter {
	return &edgeRouter{
		middlewareTransport: middlewareTransport,
		handlerTransport:    handlerTransport,
		config:              cfg,
	}
}

// BuildRoutes wires system endpoints first, then the policy middleware chain,
// then the catch-all classification handler.
func (r *edgeRouter) BuildRoutes(router *fiber.App) error {
	router.Get(HealthPath, func(ctx *fiber.Ctx) error {
		return ctx.Status(http.StatusOK).JSON(fiber.Map{
			"status": "ok",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	router.Get(PingPath, func(ctx *fiber.Ctx) error {
		return ctx.Status(http.StatusOK).JSON(fiber.Map{
			"message": "pong",
		})
	})

	router.Post(CollectPath, r.handlerTransport.TelemetryHandler.Handle)
	router.Get(AssessPath, r.handlerTransport.AssessHandler.Handle)
	router.Get(InspectPath, r.handlerTransport.InspectHandler.Handle)

	router.Use(
		r.middlewareTransport.DomainMiddleware.Middleware(),
		r.middlewareTransport.MetricsMiddleware.Middleware(),
	)

	router.Use(r.handlerTransport.CloakHandler.Handle)

	return nil
}
