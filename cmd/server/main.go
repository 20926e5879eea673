package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	apicontrollers "github.com/agentfleet/watcher/internal/api/controllers"
	apiwebsocket "github.com/agentfleet/watcher/internal/api/websocket"
	"github.com/agentfleet/watcher/internal/domain/interfaces"
	"github.com/agentfleet/watcher/internal/domain/services"
	"github.com/agentfleet/watcher/internal/impl/config"
	"github.com/agentfleet/watcher/internal/impl/database"
	repositories_json "github.com/agentfleet/watcher/internal/impl/repositories/json"
	repositories_mongo "github.com/agentfleet/watcher/internal/impl/repositories/mongo"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

func main() {
	logger, _ := zap.NewDevelopment()
	defer logger.Sync()

	cfg, err := config.InitConfig()
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	var (
		agentRepo    interfaces.AgentRepository
		channelRepo  interfaces.ChannelRepository
		projectRepo  interfaces.ProjectRepository
		userRepo     interfaces.UserRepository
		securityRepo interfaces.SecurityRepository
		expandSource interfaces.ExpandDataSource
	)

	switch cfg.RepoMode {
	case config.RepoModeMongo:
		db, err := database.NewMongoDB(cfg.MongoURI, cfg.DBName, logger)
		if err != nil {
			logger.Fatal("Failed to connect to MongoDB", zap.Error(err))
		}
		defer db.Disconnect(context.Background())

		agentRepo = repositories_mongo.NewMongoAgentRepository(db.Collection("agents"))
		channelRepo = repositories_mongo.NewMongoChannelRepository(db.Collection("channels"))
		projectRepo = repositories_mongo.NewMongoProjectRepository(db.Collection("projects"))
		userRepo = repositories_mongo.NewMongoUserRepository(db.Collection("users"))
		securityRepo = repositories_mongo.NewMongoSecurityRepository(db.Collection("security_profiles"), db.Collection("security_assignments"))
		expandSource = repositories_mongo.NewMongoExpandSource(db.Collection("skills"), db.Collection("knowledge"))

	case config.RepoModeJSON:
		agentRepo, err = repositories_json.NewJSONAgentRepository(cfg.DataDir)
		if err != nil {
			logger.Fatal("Failed to initialize agent repository", zap.Error(err))
		}
		channelRepo, err = repositories_json.NewJSONChannelRepository(cfg.DataDir)
		if err != nil {
			logger.Fatal("Failed to initialize channel repository", zap.Error(err))
		}
		projectRepo, err = repositories_json.NewJSONProjectRepository(cfg.DataDir)
		if err != nil {
			logger.Fatal("Failed to initialize project repository", zap.Error(err))
		}
		userRepo, err = repositories_json.NewJSONUserRepository(cfg.DataDir)
		if err != nil {
			logger.Fatal("Failed to initialize user repository", zap.Error(err))
		}
		securityRepo, err = repositories_json.NewJSONSecurityRepository(cfg.DataDir)
		if err != nil {
			logger.Fatal("Failed to initialize security repository", zap.Error(err))
		}
		expandSource, err = repositories_json.NewJSONExpandSource(cfg.DataDir)
		if err != nil {
			logger.Fatal("Failed to initialize expand data source", zap.Error(err))
		}
	}

	batchService := services.NewBatchService(agentRepo, channelRepo, projectRepo, userRepo, securityRepo, logger)
	sessionService := services.NewSessionService(batchService, expandSource, logger)

	hub := apiwebsocket.NewGraphHub(logger)
	go hub.Run()

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus: true,
		LogURI:    true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			logger.Debug("request", zap.String("uri", v.URI), zap.Int("status", v.Status))
			return nil
		},
	}))

	apicontrollers.NewHealthController().RegisterRoutes(e)
	api := e.Group("/api")
	apicontrollers.NewGraphController(logger, sessionService).RegisterRoutes(api)
	apicontrollers.NewActivityController(logger).RegisterRoutes(api)
	e.GET("/ws", echo.WrapHandler(apiwebsocket.Handler(hub, logger)))

	go func() {
		if err := e.Start(cfg.ListenAddr); err != nil {
			logger.Info("server stopped", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	if err := e.Shutdown(context.Background()); err != nil {
		logger.Error("shutdown failed", zap.Error(err))
	}
}
