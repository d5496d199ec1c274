package server

import (
	"fmt"

	"github.com/edgecloak/edgecloak/pkg/cache"
	"github.com/edgecloak/edgecloak/pkg/config"
	handlers "github.com/edgecloak/edgecloak/pkg/handlers/http"
	"github.com/edgecloak/edgecloak/pkg/middleware"
	"github.com/edgecloak/edgecloak/pkg/server/router"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/sirupsen/logrus"
)

type (
	EdgeServerDI struct {
		Config              *config.Config
		Cache               *cache.Cache
		Logger              *logrus.Logger
		MiddlewareTransport *middleware.Transport
		HandlerTransport    handlers.HandlerTransport
	}
	EdgeServer struct {
		*BaseServer
	}
)

func NewEdgeServer(di EdgeServerDI) Server {
	s := &EdgeServer{
		BaseServer: NewBaseServer(di.Config, di.Logger),
	}

	s.Router.Use(recover.New())
	s.WithRouters(router.NewEdgeRouter(di.MiddlewareTransport, di.HandlerTransport, di.Config))
	s.setupMetricsEndpoint()

	return s
}

func (s *EdgeServer) Run() error {
	addr := fmt.Sprintf("%s:%d", s.Config.Server.Host, s.Config.Server.Port)
	s.Logger.WithField("addr", addr).Info("Starting edge server")
	return s.Router.Listen(addr)
}

func (s *EdgeServer) Shutdown() error {
	return s.Router.Shutdown()
}
