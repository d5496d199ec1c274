package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	appaccesslog "github.com/edgecloak/edgecloak/pkg/app/accesslog"
	apppolicy "github.com/edgecloak/edgecloak/pkg/app/policy"
	"github.com/edgecloak/edgecloak/pkg/botdetect"
	"github.com/edgecloak/edgecloak/pkg/cache"
	"github.com/edgecloak/edgecloak/pkg/cloak"
	"github.com/edgecloak/edgecloak/pkg/common"
	"github.com/edgecloak/edgecloak/pkg/config"
	handlers "github.com/edgecloak/edgecloak/pkg/handlers/http"
	"github.com/edgecloak/edgecloak/pkg/infra/content"
	"github.com/edgecloak/edgecloak/pkg/infra/database"
	kafkaExport "github.com/edgecloak/edgecloak/pkg/infra/export/kafka"
	"github.com/edgecloak/edgecloak/pkg/infra/geoip"
	infraLogger "github.com/edgecloak/edgecloak/pkg/infra/logger"
	"github.com/edgecloak/edgecloak/pkg/infra/repository"
	"github.com/edgecloak/edgecloak/pkg/middleware"
	"github.com/edgecloak/edgecloak/pkg/server"
	"github.com/joho/godotenv"
)

func main() {
	envFile := os.Getenv("ENV_FILE")
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil {
		log.Println("no .env file found, using system environment variables")
	}

	logger := infraLogger.NewLogger()

	if err := config.Load("./config"); err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}
	cfg := config.GetConfig()

	db, err := database.NewDB(logger, &database.Config{
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		DBName:   cfg.Database.DBName,
		SSLMode:  cfg.Database.SSLMode,
	})
	if err != nil {
		logger.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	cacheInstance, err := cache.NewCache(common.CacheConfig{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		TLS:      cfg.Redis.TLS,
	})
	if err != nil {
		logger.Fatalf("Failed to initialize cache: %v", err)
	}

	// repository
	policyRepository := repository.NewPolicyRepository(db.DB)
	accessLogRepository := repository.NewAccessLogRepository(db.DB)

	// infra
	resolver := geoip.NewIPInfoResolver(logger, geoip.Config{
		BaseURL:   cfg.Resolver.BaseURL,
		Timeout:   cfg.Resolver.Timeout,
		CacheSize: cfg.Resolver.CacheSize,
		CacheTTL:  cfg.Resolver.CacheTTL,
	})
	contentStore := content.NewStore(logger, cfg.Cloak.TemplatesDir)

	var exporter appaccesslog.Exporter
	if cfg.Kafka.Enabled {
		if err := kafkaExport.ValidateConfig(cfg.Kafka.Settings); err != nil {
			logger.Fatalf("Invalid kafka config: %v", err)
		}
		exporter, err = kafkaExport.NewExporter(cfg.Kafka.Settings)
		if err != nil {
			logger.Fatalf("Failed to initialize kafka exporter: %v", err)
		}
		defer exporter.Close()
	}

	// service
	policyFinder := apppolicy.NewFinder(policyRepository, cacheInstance, logger)
	recorder := appaccesslog.NewRecorder(logger, accessLogRepository, exporter)
	classifier := cloak.NewPipeline(logger, policyRepository, resolver, recorder, cfg.Cloak.ClickIDParam)
	assessor := botdetect.NewAssessor(logger, resolver)

	middlewareTransport := &middleware.Transport{
		DomainMiddleware:  middleware.NewDomainMiddleware(logger, policyFinder),
		MetricsMiddleware: middleware.NewMetricsMiddleware(logger),
	}

	handlerTransport := handlers.HandlerTransport{
		CloakHandler:     handlers.NewCloakHandler(logger, classifier, cacheInstance, contentStore),
		TelemetryHandler: handlers.NewTelemetryHandler(logger, cacheInstance),
		AssessHandler:    handlers.NewAssessHandler(logger, assessor, cacheInstance),
		InspectHandler:   handlers.NewInspectHandler(logger, policyFinder, classifier, cacheInstance),
	}

	srv := server.NewEdgeServer(server.EdgeServerDI{
		Config:              cfg,
		Cache:               cacheInstance,
		Logger:              logger,
		MiddlewareTransport: middlewareTransport,
		HandlerTransport:    handlerTransport,
	})

	go func() {
		if err := srv.Run(); err != nil {
			logger.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	<-quit
	fmt.Println("shutting down server...")
	if err := srv.Shutdown(); err != nil {
		fmt.Println("error shutting down server:", err)
		os.Exit(1)
	}
	fmt.Println("server gracefully stopped")
}
