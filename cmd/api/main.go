package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"visio-hr/hr-portal-backend/internal/auth"
	"visio-hr/hr-portal-backend/internal/config"
	"visio-hr/hr-portal-backend/internal/documents"
	"visio-hr/hr-portal-backend/internal/engineering"
	"visio-hr/hr-portal-backend/internal/formation"
	"visio-hr/hr-portal-backend/internal/hr"
	"visio-hr/hr-portal-backend/internal/notifications"
	"visio-hr/hr-portal-backend/internal/projects"
	"visio-hr/hr-portal-backend/pkg/storage"
)

func main() {
	// Initialize logger
	logger, _ := zap.NewDevelopment()
	defer logger.Sync()

	if err := godotenv.Load(); err != nil {
		logger.Debug("No .env file found, relying on environment")
	}

	// Load configuration
	cfg, err := config.LoadConfig("config.json")
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}
	if cfg.Auth.JWTSecret == "" {
		logger.Fatal("JWT_SECRET is required")
	}

	// Connect to database
	db, err := sqlx.Connect("postgres", cfg.Database.GetDatabaseURL())
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if cfg.Database.MaxConnections > 0 {
		db.SetMaxOpenConns(cfg.Database.MaxConnections)
	}
	if cfg.Database.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	}

	// Notifications keep their own gorm handle over the same database.
	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: db.DB}), &gorm.Config{TranslateError: true})
	if err != nil {
		logger.Fatal("Failed to open gorm connection", zap.Error(err))
	}

	// Object store for documents
	store, err := storage.NewS3Client(context.Background(), storage.Options{
		Endpoint:  cfg.Storage.Endpoint,
		Region:    cfg.Storage.Region,
		AccessKey: cfg.Storage.AccessKey,
		SecretKey: cfg.Storage.SecretKey,
	})
	if err != nil {
		logger.Fatal("Failed to initialize object store", zap.Error(err))
	}

	// Auth
	authService := auth.NewService(auth.NewRepository(db), auth.TokenConfig{
		Secret:     cfg.Auth.JWTSecret,
		AccessTTL:  cfg.Auth.AccessTTL,
		RefreshTTL: cfg.Auth.RefreshTTL,
	}, logger)
	authHandler := auth.NewHandler(authService, logger)

	// HR
	hrService := hr.NewService(hr.NewRepository(db), logger)
	hrHandler := hr.NewHandler(hrService, logger)

	// Projects, engineering, training
	projectsHandler := projects.NewHandler(projects.NewService(projects.NewRepository(db), logger), logger)
	engineeringHandler := engineering.NewHandler(engineering.NewService(engineering.NewRepository(db), logger), logger)
	formationHandler := formation.NewHandler(formation.NewService(formation.NewRepository(db), logger), logger)

	// Documents
	documentsService := documents.NewService(documents.NewRepository(db), store, cfg.Storage.Bucket, logger)
	documentsHandler := documents.NewHandler(documentsService, logger)

	// Notifications: websocket hub + scheduled dispatcher
	hub := notifications.NewHub(logger)
	notificationsService, err := notifications.NewService(gormDB, hub, logger)
	if err != nil {
		logger.Fatal("Failed to initialize notifications", zap.Error(err))
	}
	notificationsHandler := notifications.NewHandler(notificationsService, hub, logger)

	scheduler := notifications.NewScheduler(notificationsService, logger)
	if err := scheduler.Start(); err != nil {
		logger.Fatal("Failed to start notification dispatcher", zap.Error(err))
	}
	defer scheduler.Stop()

	// Setup Router
	gin.SetMode(gin.ReleaseMode)
	router := gin.Default()

	// CORS Middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	// Register Routes
	authHandler.RegisterRoutes(router)

	api := router.Group("/api/v1", auth.RequireAuth(authService))
	{
		hrHandler.RegisterRoutes(api)
		projectsHandler.RegisterRoutes(api)
		engineeringHandler.RegisterRoutes(api)
		formationHandler.RegisterRoutes(api)
		documentsHandler.RegisterRoutes(api)
		notificationsHandler.RegisterRoutes(api)
	}

	// Health Check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":    "healthy",
			"timestamp": time.Now(),
		})
	})

	// Start Server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("listen failed", zap.Error(err))
		}
	}()

	logger.Info("Server started", zap.Int("port", cfg.Server.Port))

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exiting")
}
