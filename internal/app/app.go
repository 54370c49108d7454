package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "notificationservice/docs"
	"notificationservice/internal/config"
	"notificationservice/internal/handlers"
	"notificationservice/internal/logging"
	"notificationservice/internal/metrics"
	"notificationservice/internal/queue"
	"notificationservice/internal/repositories"
	"notificationservice/internal/routes"
	"notificationservice/internal/services"
	"notificationservice/internal/templates"
	"notificationservice/internal/utils"
)

// OpenDB opens the postgres pool and checks it is reachable.
func OpenDB(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}
	return db, nil
}

// Run wires the service and serves HTTP until ctx is cancelled.
func Run(ctx context.Context, cfg *config.Config, log *zap.Logger) error {
	db, err := OpenDB(ctx, cfg.Database.DSN)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Warn("close db", zap.Error(err))
		}
	}()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m, err := metrics.New(reg)
	if err != nil {
		return err
	}

	publisher, closer, err := newPublisher(cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := closer.Close(); err != nil {
			log.Warn("close queue", zap.Error(err))
		}
	}()
	publisher = queue.Instrumented(publisher, cfg.Queue.Driver, m)

	// === Repos ===
	notificationRepo := repositories.NewNotificationRepository(db)
	otpRepo := repositories.NewOtpRepository(db, cfg.Otp.CodeHashCost)
	resetRepo := repositories.NewPasswordResetRepository(db)
	businessRepo := repositories.NewBusinessVerificationRepository(db)
	paramsRepo := repositories.NewNotificationParamsRepository(db)

	// === Services ===
	engine := templates.NewEngine(templates.NewFSStore(os.DirFS(cfg.Templates.Dir)))

	notificationService := services.NewNotificationService(notificationRepo, publisher, m, log)
	resetService := services.NewPasswordResetService(resetRepo, cfg.PasswordResetTTL(), log)
	verificationService := services.NewBusinessVerificationService(businessRepo, log)
	otpService := services.NewOtpService(
		otpRepo,
		services.NewOtpFunctionHandler(verificationService, resetService),
		cfg.OtpTTL(),
		m,
		log,
	)
	paramsService := services.NewNotificationParamsService(paramsRepo, cfg.ParamsCacheTTL(), log)
	emailService := services.NewEmailService(services.SMTPSettings{
		Host:      cfg.Email.SMTPHost,
		Port:      cfg.Email.SMTPPort,
		User:      cfg.Email.SMTPUser,
		Password:  cfg.Email.SMTPPassword,
		FromEmail: cfg.Email.FromEmail,
		FromName:  cfg.Email.FromName,
	}, engine, log)
	gateway := utils.NewClient(cfg.Sms.BaseURL, cfg.Sms.DryRun, cfg.SmsTimeout(), log)
	smsService := services.NewSmsService(paramsService, engine, gateway, log)

	// === Handlers ===
	h := routes.Handlers{
		Notification:  handlers.NewNotificationHandler(notificationService, log),
		Otp:           handlers.NewOtpHandler(otpService, log),
		Communication: handlers.NewCommunicationHandler(emailService, smsService, log),
		PasswordReset: handlers.NewPasswordResetHandler(resetService, log),
		Admin:         handlers.NewAdminHandler(paramsService, log),
	}
	router := NewRouter(h, m, db.PingContext, []byte(cfg.Auth.JWTSecret), log)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening", zap.String("addr", srv.Addr), zap.String("queue", cfg.Queue.Driver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout())
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// NewRouter builds the gin engine: request logging, recovery, metrics, CORS,
// ops endpoints and the API routes.
func NewRouter(h routes.Handlers, m *metrics.Registry, ping func(context.Context) error, jwtSecret []byte, log *zap.Logger) *gin.Engine {
	router := gin.New()
	router.Use(logging.GinLogger(log))
	router.Use(gin.Recovery())
	router.Use(m.Middleware())
	router.Use(corsMiddleware())

	router.GET("/healthz", func(c *gin.Context) {
		if err := ping(c.Request.Context()); err != nil {
			log.Warn("health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(m.Handler()))
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return routes.SetupRoutes(router, h, jwtSecret)
}

// newPublisher picks the delivery queue transport from config. The returned
// closer releases the underlying client.
func newPublisher(cfg *config.Config, log *zap.Logger) (queue.Publisher, io.Closer, error) {
	switch cfg.Queue.Driver {
	case queue.DriverKafka:
		p := queue.NewKafkaPublisher(cfg.Queue.Brokers, cfg.Queue.Name)
		log.Info("kafka queue", zap.Strings("brokers", cfg.Queue.Brokers), zap.String("topic", cfg.Queue.Name))
		return p, p, nil
	case queue.DriverRedis:
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		log.Info("redis queue", zap.String("addr", cfg.Redis.Addr), zap.String("queue", cfg.Queue.Name))
		return queue.NewRedisPublisher(rdb, cfg.Queue.Name), rdb, nil
	default:
		return nil, nil, fmt.Errorf("unknown queue driver %q", cfg.Queue.Driver)
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
