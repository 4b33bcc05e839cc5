package internal

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"geekplay/pkg/cache"
	"geekplay/pkg/config"
	"geekplay/pkg/database"
	"geekplay/pkg/jwt"
	"geekplay/pkg/logger"
	"geekplay/pkg/metrics"
	"geekplay/pkg/middleware"
	"geekplay/pkg/notify"
	"geekplay/pkg/queue"
	forumHTTP "geekplay/services/forum/internal/controller/http"
	countcache "geekplay/services/forum/internal/repo/cache"
	"geekplay/services/forum/internal/repo/persistent"
	"geekplay/services/forum/internal/usecase"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const serviceName = "forum"

type App struct {
	cfg         *config.Config
	log         *logger.Logger
	db          *gorm.DB
	redisClient *redis.Client
	jwtService  *jwt.Service
	queueClient *queue.Client
	notifier    notify.DrainingDispatcher
	httpServer  *http.Server
}

func NewApp(cfg *config.Config) (*App, error) {
	log := logger.NewWithOptions(cfg.Environment, cfg.LogLevel, os.Stdout).WithField("service", serviceName)

	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		log.Error("Failed to connect to database: %v", err)
		return nil, err
	}

	redisClient, err := cache.NewRedisClient(cfg)
	if err != nil {
		log.Warn("Failed to connect to redis: %v (comment count cache and rate limiting disabled)", err)
		redisClient = nil
	}

	var queueClient *queue.Client
	if cfg.NotificationTransport == notify.TransportRabbitMQ {
		queueClient, err = queue.NewRabbitMQClient(cfg, log)
		if err != nil {
			log.Error("Failed to connect to RabbitMQ: %v (continuing without queue)", err)
			queueClient = nil
		}
	}

	var publisher notify.Publisher
	if queueClient != nil {
		publisher = queueClient
	}
	notifier := notify.New(cfg.NotificationTransport, notify.HTTPConfig{
		URL:     cfg.NotificationServiceURL,
		Timeout: cfg.NotificationTimeout,
	}, publisher, log)

	metrics.Register()

	return &App{
		cfg:         cfg,
		log:         log,
		db:          db,
		redisClient: redisClient,
		jwtService:  jwt.NewServiceWithTTL(cfg.JWTSecret, cfg.JWTTTL),
		queueClient: queueClient,
		notifier:    notifier,
	}, nil
}

func (a *App) Run() error {
	commentRepo := persistent.NewCommentRepository(a.db)
	postRepo := persistent.NewPostRepository(a.db)

	var countCache countcache.CommentCountCache
	if a.redisClient != nil {
		countCache = countcache.NewCommentCountCache(a.redisClient, countcache.DefaultTTL)
	}

	commentUseCase := usecase.NewCommentUseCase(commentRepo, postRepo, countCache, a.notifier, a.log)
	commentHandler := forumHTTP.NewCommentHandler(commentUseCase, a.log)

	if a.cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	a.httpServer = &http.Server{
		Addr:    ":" + a.cfg.ServerPort,
		Handler: newRouter(commentHandler, a.jwtService, a.redisClient, a.cfg, a.log),
	}

	go func() {
		a.log.Info("Forum service starting on port %s", a.cfg.ServerPort)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.log.Error("Failed to start server: %v", err)
			panic(err)
		}
	}()

	return nil
}

func newRouter(h *forumHTTP.CommentHandler, jwtService *jwt.Service, redisClient *redis.Client, cfg *config.Config, log *logger.Logger) *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://127.0.0.1:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
	}))
	r.Use(middleware.RequestID())
	r.Use(middleware.Metrics(serviceName))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": serviceName})
	})
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	api := r.Group("/api/v1")
	{
		api.GET("/posts/:post_id/comments", h.ListComments)
		api.GET("/posts/:post_id/comments/count", h.CountComments)

		protected := api.Group("")
		protected.Use(middleware.AuthMiddleware(jwtService))
		protected.Use(middleware.RateLimitMiddleware(redisClient, cfg.RateLimitRequests, cfg.RateLimitWindow, log))
		{
			protected.POST("/posts/:post_id/comments", h.CreateComment)
			protected.PUT("/comments/:comment_id", h.UpdateComment)
			protected.DELETE("/comments/:comment_id", h.DeleteComment)
		}
	}

	return r
}

func (a *App) Wait() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	a.log.Info("Shutting down forum service...")
}

func (a *App) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := a.httpServer.Shutdown(ctx); err != nil {
		a.log.Error("Server forced to shutdown: %v", err)
		return err
	}

	a.notifier.Wait()

	if a.queueClient != nil {
		if err := a.queueClient.Close(); err != nil {
			a.log.Error("Error closing RabbitMQ: %v", err)
		}
	}

	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.log.Error("Error closing Redis: %v", err)
		}
	}

	sqlDB, err := a.db.DB()
	if err == nil {
		if err := sqlDB.Close(); err != nil {
			a.log.Error("Error closing database: %v", err)
		}
	}

	a.log.Info("Forum service exited")
	return nil
}
