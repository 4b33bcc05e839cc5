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
	"geekplay/pkg/password"
	"geekplay/pkg/queue"
	"geekplay/pkg/s3"
	authHTTP "geekplay/services/auth/internal/controller/http"
	"geekplay/services/auth/internal/repo/persistent"
	"geekplay/services/auth/internal/repo/webapi"
	"geekplay/services/auth/internal/usecase"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const serviceName = "auth"

type App struct {
	cfg         *config.Config
	log         *logger.Logger
	db          *gorm.DB
	redisClient *redis.Client
	s3Client    *s3.Client
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
		log.Warn("Failed to connect to redis: %v (rate limiting disabled)", err)
		redisClient = nil
	}

	// Avatar upload is the only S3 consumer; the service runs without it.
	s3Client, err := s3.NewClient(cfg)
	if err != nil {
		log.Warn("Failed to create S3 client: %v (avatar upload disabled)", err)
		s3Client = nil
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
		s3Client:    s3Client,
		jwtService:  jwt.NewServiceWithTTL(cfg.JWTSecret, cfg.JWTTTL),
		queueClient: queueClient,
		notifier:    notifier,
	}, nil
}

func (a *App) Run() error {
	userRepo := persistent.NewUserRepository(a.db)
	profileClient := webapi.NewProfileClient(a.cfg.ProfileServiceURL, a.cfg.ProfileTimeout)

	var storage usecase.AvatarStorage
	if a.s3Client != nil {
		storage = a.s3Client
	}

	authUseCase := usecase.NewAuthUseCase(
		usecase.AuthConfig{
			AdminSecretKey:   a.cfg.AdminSecretKey,
			AdminEmailSuffix: a.cfg.AdminEmailSuffix,
		},
		userRepo,
		password.NewBcrypt(bcrypt.DefaultCost),
		a.jwtService,
		profileClient,
		a.notifier,
		storage,
		a.log,
	)

	authHandler := authHTTP.NewAuthHandler(authUseCase, a.log)

	if a.cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	a.httpServer = &http.Server{
		Addr:    ":" + a.cfg.ServerPort,
		Handler: newRouter(authHandler, a.jwtService, a.redisClient, a.cfg, a.log),
	}

	go func() {
		a.log.Info("Auth service starting on port %s", a.cfg.ServerPort)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.log.Error("Failed to start server: %v", err)
			panic(err)
		}
	}()

	return nil
}

func newRouter(h *authHTTP.AuthHandler, jwtService *jwt.Service, redisClient *redis.Client, cfg *config.Config, log *logger.Logger) *gin.Engine {
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
		public := api.Group("")
		public.Use(middleware.RateLimitMiddleware(redisClient, cfg.RateLimitRequests, cfg.RateLimitWindow, log))
		{
			public.POST("/register", h.Register)
			public.POST("/login", h.Login)
		}

		protected := api.Group("")
		protected.Use(middleware.AuthMiddleware(jwtService))
		{
			protected.GET("/me", h.Me)
			protected.POST("/avatar", h.UploadAvatar)
		}
	}

	return r
}

func (a *App) Wait() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	a.log.Info("Shutting down auth service...")
}

func (a *App) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Stop accepting requests first so no new notifications are started.
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

	a.log.Info("Auth service exited")
	return nil
}
