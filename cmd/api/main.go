package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/inkwell/inkwell/internal/config"
	"github.com/inkwell/inkwell/internal/handlers"
	"github.com/inkwell/inkwell/internal/middleware"
	"github.com/inkwell/inkwell/internal/repository"
	"github.com/inkwell/inkwell/internal/services"
	"github.com/inkwell/inkwell/pkg/cache"
	"github.com/inkwell/inkwell/pkg/logger"
	"github.com/inkwell/inkwell/pkg/mailer"
	"github.com/inkwell/inkwell/pkg/queue"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := logger.NewLogger(cfg.Log.Level)
	logger.Info("Starting Inkwell API server...")

	db, err := repository.NewDatabase(&cfg.Database)
	if err != nil {
		logger.WithError(err).Fatal("Failed to connect to database")
	}
	defer db.Close()

	if err := db.AutoMigrate(); err != nil {
		logger.WithError(err).Fatal("Failed to migrate database")
	}

	redisClient := cache.NewRedisClient(
		cfg.Redis.Addr(),
		cfg.Redis.Password,
		cfg.Redis.DB,
		cfg.Redis.PoolSize,
		cfg.Redis.MinIdleConns,
	)
	defer redisClient.Close()

	ctx := context.Background()
	if err := redisClient.Ping(ctx); err != nil {
		logger.WithError(err).Fatal("Failed to connect to Redis")
	}

	activityProducer := queue.NewKafkaProducer(cfg.Kafka.Brokers, cfg.Kafka.Topics.Activity)
	defer activityProducer.Close()

	mail := mailer.NewMailer(
		cfg.Mail.Host,
		cfg.Mail.Port,
		cfg.Mail.Username,
		cfg.Mail.Password,
		cfg.Mail.From,
		cfg.Mail.Sender,
	)

	userRepo := repository.NewUserRepository(db.DB)
	followRepo := repository.NewFollowRepository(db.DB)
	postRepo := repository.NewPostRepository(db.DB)
	commentRepo := repository.NewCommentRepository(db.DB)
	likeRepo := repository.NewLikeRepository(db.DB)
	notificationRepo := repository.NewNotificationRepository(db.DB)

	authService := services.NewAuthService(userRepo, redisClient, mail, activityProducer, logger, cfg.Server.ClientURL, cfg.Google.ClientID)
	userService := services.NewUserService(userRepo, followRepo, notificationRepo, activityProducer, logger)
	postService := services.NewPostService(postRepo, userRepo, likeRepo, notificationRepo, activityProducer, logger, cfg.Storage.UploadDir)
	commentService := services.NewCommentService(postRepo, commentRepo, likeRepo, notificationRepo, activityProducer, logger)
	notificationService := services.NewNotificationService(notificationRepo, logger)

	authHandler := handlers.NewAuthHandler(authService, cfg.JWT.Secret, cfg.JWT.ExpireTime)
	userHandler := handlers.NewUserHandler(userService)
	postHandler := handlers.NewPostHandler(postService)
	commentHandler := handlers.NewCommentHandler(commentService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())

	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "healthy",
			"time":   time.Now().Unix(),
		})
	})

	api := router.Group("/api/v1")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/google", authHandler.GoogleLogin)
			auth.POST("/forgot-password", authHandler.ForgotPassword)
			auth.POST("/reset-password/:token", authHandler.ResetPassword)
		}

		api.GET("/posts", postHandler.List)
		api.GET("/posts/search", postHandler.Search)
		api.GET("/posts/slug/:slug", postHandler.GetBySlug)
		api.GET("/posts/:id", postHandler.GetByID)
		api.GET("/users/search", userHandler.Search)
		api.GET("/users/username/:username", userHandler.GetProfileByUsername)
		api.GET("/users/:id", userHandler.GetProfile)
		api.GET("/users/:id/followers", userHandler.GetFollowers)
		api.GET("/users/:id/following", userHandler.GetFollowing)
		api.GET("/users/:id/posts", postHandler.GetByUser)
		api.GET("/users/username/:username/posts", postHandler.GetByUsername)
		api.GET("/comments/:postId", commentHandler.GetByPost)
		api.GET("/comments/:postId/thread", commentHandler.GetThread)

		protected := api.Group("")
		protected.Use(middleware.NewJWTAuth(&middleware.JWTConfig{Secret: cfg.JWT.Secret}))
		{
			protected.POST("/posts", postHandler.Create)
			protected.PUT("/posts/:id", postHandler.Update)
			protected.DELETE("/posts/:id", postHandler.Delete)
			protected.PUT("/posts/:id/like", postHandler.ToggleLike)

			protected.POST("/comments", commentHandler.Create)
			protected.DELETE("/comments/:id", commentHandler.Delete)
			protected.PATCH("/comments/:id/like", commentHandler.ToggleLike)

			protected.PUT("/users/:id/follow", userHandler.Follow)
			protected.PUT("/users/:id/unfollow", userHandler.Unfollow)
			protected.PUT("/users/:id", userHandler.UpdateProfile)
			protected.DELETE("/users/:id", userHandler.DeleteAccount)

			protected.GET("/notifications", notificationHandler.List)
			protected.GET("/notifications/unread-count", notificationHandler.UnreadCount)
			protected.PATCH("/notifications/mark-all/read", notificationHandler.MarkAllRead)
			protected.PATCH("/notifications/:id/read", notificationHandler.MarkRead)
		}
	}

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.WithField("port", cfg.Server.Port).Info("Starting HTTP server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Fatal("Failed to start HTTP server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("Server forced to shutdown")
	}

	logger.Info("Server exited")
}

func init() {
	dirs := []string{"uploads", "configs"}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			log.Printf("Failed to create directory %s: %v", dir, err)
		}
	}

	configPath := "configs/config.yaml"
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		if err := createDefaultConfig(configPath); err != nil {
			log.Printf("Failed to create default config: %v", err)
		}
	}
}

func createDefaultConfig(path string) error {
	defaultConfig := `server:
  port: ":8080"
  mode: "debug"
  client_url: "http://localhost:5173"
  read_timeout: 30s
  write_timeout: 30s

database:
  host: "localhost"
  port: 5432
  user: "inkwell"
  password: "inkwell"
  dbname: "inkwell"
  sslmode: "disable"
  max_open_conns: 100
  max_idle_conns: 10

redis:
  host: "localhost"
  port: 6379
  password: ""
  db: 0
  pool_size: 100
  min_idle_conns: 10

kafka:
  brokers:
    - "localhost:9092"
  topics:
    activity: "activity-events"

jwt:
  secret: "your-secret-key-change-in-production"
  expire_time: 168h

mail:
  host: "localhost"
  port: 587
  username: ""
  password: ""
  from: "noreply@inkwell.local"
  sender: "Inkwell"

storage:
  upload_dir: "uploads"
  base_url: "/uploads"

google:
  client_id: ""

log:
  level: "info"`

	return os.WriteFile(path, []byte(defaultConfig), 0644)
}
