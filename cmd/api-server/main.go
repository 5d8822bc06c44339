package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/fieldworks/parts-order-api/api/swagger"
	"github.com/fieldworks/parts-order-api/internal/handler"
	"github.com/fieldworks/parts-order-api/internal/middleware"
	"github.com/fieldworks/parts-order-api/internal/models"
	"github.com/fieldworks/parts-order-api/internal/service"
	"github.com/fieldworks/parts-order-api/internal/workbook"
	"github.com/fieldworks/parts-order-api/pkg/config"
	"github.com/fieldworks/parts-order-api/pkg/logger"
	corsmiddleware "github.com/fieldworks/parts-order-api/pkg/middleware/cors"
	reqidmiddleware "github.com/fieldworks/parts-order-api/pkg/middleware/requestid"
	"github.com/fieldworks/parts-order-api/pkg/storage"
)

// @title Parts Order API
// @version 1.0.0
// @description Consumables and parts ordering workflow backed by a shared workbook
// @BasePath /api/v1
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	store := workbook.NewStore(cfg.Workbook.Path(), logr)
	if err := store.EnsureExists(); err != nil {
		logr.Sugar().Fatalw("failed to provision workbook", "path", store.Path(), "error", err)
	}

	attachments, err := storage.NewAttachmentStore(cfg.Attachments.Dir)
	if err != nil {
		logr.Sugar().Fatalw("failed to prepare attachment storage", "error", err)
	}

	metricsSvc := service.NewMetricsService()
	store.SetObserver(metricsSvc.ObserveWorkbookOp)

	authSvc := service.NewAuthService(store, logr, service.AuthServiceConfig{
		Secret:   cfg.JWT.Secret,
		TokenTTL: cfg.JWT.Expiration,
	})
	requestSvc := service.NewRequestService(store, attachments, logr, service.RequestServiceConfig{
		UrgentAfter:  cfg.Dashboard.UrgentAfter,
		DelayedAfter: cfg.Dashboard.DelayedAfter,
		MaxPhotoSize: cfg.Attachments.MaxFileSize,
		APIPrefix:    cfg.APIPrefix,
	})
	requestSvc.SetTransitionObserver(func(to string) {
		metricsSvc.RecordTransition(to)
	})
	masterSvc := service.NewMasterService(store, validator.New(), logr, service.MasterServiceConfig{
		DefaultPassword: cfg.Import.DefaultPassword,
	})

	authHandler := handler.NewAuthHandler(authSvc)
	requestHandler := handler.NewRequestHandler(requestSvc)
	dashboardHandler := handler.NewDashboardHandler(requestSvc)
	codeHandler := handler.NewCodeHandler(masterSvc)
	adminHandler := handler.NewAdminHandler(masterSvc)
	attachmentHandler := handler.NewAttachmentHandler(attachments)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "metrics": metricsSvc.Snapshot()})
	})
	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	auth := api.Group("/auth")
	{
		auth.POST("/login", authHandler.Login)
		auth.POST("/change-password", middleware.JWT(authSvc), authHandler.ChangePassword)
		auth.GET("/me", middleware.JWT(authSvc), authHandler.Me)
	}

	protected := api.Group("")
	protected.Use(middleware.JWT(authSvc))
	{
		protected.POST("/requests", requestHandler.Create)
		protected.GET("/requests", middleware.RequireRoles(models.RoleAdmin), requestHandler.List)
		protected.GET("/requests/my", requestHandler.My)
		protected.GET("/requests/:requestNo", requestHandler.Get)
		protected.PATCH("/requests/:requestNo/status", requestHandler.UpdateStatus)
		protected.POST("/requests/:requestNo/cancel", requestHandler.Cancel)
		protected.POST("/requests/:requestNo/receipt", requestHandler.ConfirmReceipt)

		protected.GET("/dashboard", dashboardHandler.Get)

		protected.GET("/codes/regions", codeHandler.Regions)
		protected.GET("/codes/teams", codeHandler.Teams)
		protected.GET("/codes/delivery-places", codeHandler.DeliveryPlaces)

		protected.GET("/attachments/:requestNo/:fileName", attachmentHandler.Download)
	}

	admin := api.Group("/admin")
	admin.Use(middleware.JWT(authSvc), middleware.RequireRoles(models.RoleAdmin))
	{
		admin.GET("/users", adminHandler.ListUsers)
		admin.POST("/users", adminHandler.CreateUser)
		admin.PATCH("/users/:userId", adminHandler.UpdateUser)
		admin.POST("/delivery-places", adminHandler.CreateDeliveryPlace)
		admin.PATCH("/delivery-places", adminHandler.UpdateDeliveryPlace)
		admin.POST("/import", adminHandler.Import)
		admin.GET("/export", adminHandler.Export)
		admin.GET("/report", adminHandler.Report)
		admin.GET("/logs", adminHandler.Logs)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env, "workbook", store.Path())
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
