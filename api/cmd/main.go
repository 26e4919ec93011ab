package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	zlog "github.com/rs/zerolog/log"

	"github.com/samyukta/registration-service/internal/application/capacity"
	"github.com/samyukta/registration-service/internal/application/export"
	"github.com/samyukta/registration-service/internal/application/notify"
	"github.com/samyukta/registration-service/internal/application/registration"
	"github.com/samyukta/registration-service/internal/config"
	"github.com/samyukta/registration-service/internal/domain"
	rediscache "github.com/samyukta/registration-service/internal/infrastructure/caching/redis"
	"github.com/samyukta/registration-service/internal/infrastructure/db/postgres"
	"github.com/samyukta/registration-service/internal/infrastructure/email"
	rabbitpub "github.com/samyukta/registration-service/internal/infrastructure/messaging/rabbitmq"
	"github.com/samyukta/registration-service/internal/infrastructure/push"
	"github.com/samyukta/registration-service/internal/infrastructure/sheets"
	"github.com/samyukta/registration-service/internal/infrastructure/storage"
	"github.com/samyukta/registration-service/internal/logger"
	"github.com/samyukta/registration-service/internal/transport/http/handlers"
	authmw "github.com/samyukta/registration-service/internal/transport/http/middleware"
	"github.com/samyukta/registration-service/internal/transport/http/router"
)

// sysClock implements the application Clock interfaces using system time
type sysClock struct{}

func (sysClock) Now() time.Time { return time.Now().UTC() }

// App holds all dependencies for the service
type App struct {
	Config *config.Config
	Server *http.Server
	DB     *sql.DB

	Publisher *rabbitpub.Publisher
	Redis     *rediscache.Client
}

func main() {
	logger.Init()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	if u, err := url.Parse(cfg.DatabaseURL); err == nil {
		zlog.Info().
			Str("db_user", u.User.Username()).
			Str("db_host", u.Host).
			Str("db_db", u.Path).
			Msg("db config loaded")
	}

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		zlog.Fatal().Err(err).Msg("db open failed")
	}
	defer db.Close()

	{
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			zlog.Fatal().Err(err).Msg("db ping failed")
		}
	}

	app := NewApp(cfg, db)
	defer app.Close()

	go func() {
		zlog.Info().Str("addr", cfg.HTTPAddr).Msg("listening")
		if err := app.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Fatal().Err(err).Msg("server crashed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	zlog.Info().Msg("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.Server.Shutdown(ctx); err != nil {
		zlog.Error().Err(err).Msg("graceful shutdown failed")
	}
}

func NewApp(cfg *config.Config, db *sql.DB) *App {
	lg := logger.Logger
	clock := sysClock{}

	// 1) Infrastructure
	repo := postgres.New(db)

	// publisher wiring
	var rabbit *rabbitpub.Publisher
	var pub registration.EventPublisher = registration.NoopPublisher{}
	if cfg.RabbitURL != "" {
		p, err := rabbitpub.NewPublisher(cfg.RabbitURL, cfg.RabbitExchange)
		if err != nil {
			zlog.Fatal().Err(err).Msg("rabbit publisher init failed")
		}
		rabbit = p
		pub = p
		zlog.Info().Str("exchange", cfg.RabbitExchange).Msg("rabbit publisher ready")
	} else {
		zlog.Warn().Msg("RABBIT_URL empty: domain events will not be published")
	}

	// redis backs the shared rate limit and notification dedupe; both degrade without it
	var (
		rdb     *rediscache.Client
		limiter authmw.RateLimiter
		idem    notify.IdempotencyStore
	)
	if cfg.RedisURL != "" {
		c, err := rediscache.New(cfg.RedisURL)
		if err != nil {
			zlog.Warn().Err(err).Msg("redis unavailable: using in-process rate limit, no delivery dedupe")
		} else {
			rdb = c
			limiter = c
			idem = c
		}
	}

	var mailer notify.EmailSender
	if cfg.SMTP.Enabled() {
		mailer = notify.GuardEmail(email.NewSMTPSender(email.SMTPConfig{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			Username: cfg.SMTP.Username,
			Password: cfg.SMTP.Password,
			From:     cfg.SMTP.From,
			Timeout:  cfg.SMTP.Timeout,
			Insecure: cfg.SMTP.Insecure,
		}, lg))
	} else {
		zlog.Warn().Msg("SMTP_HOST empty: emails are logged, not sent")
		mailer = email.NewFakeSender(lg, "")
	}

	var pusher notify.PushSender
	vapidKey := ""
	if cfg.Push.Enabled() {
		pusher = notify.GuardPush(push.NewWebPushSender(push.Config{
			VAPIDPublicKey:  cfg.Push.VAPIDPublicKey,
			VAPIDPrivateKey: cfg.Push.VAPIDPrivateKey,
			Subject:         cfg.Push.Subject,
		}, lg))
		vapidKey = cfg.Push.VAPIDPublicKey
	} else {
		zlog.Warn().Msg("VAPID keys empty: push channel disabled")
	}

	var presigner registration.Presigner
	if cfg.S3.Enabled() {
		p, err := storage.NewS3Presigner(context.Background(), storage.Config{
			Endpoint:        cfg.S3.Endpoint,
			Region:          cfg.S3.Region,
			AccessKeyID:     cfg.S3.AccessKeyID,
			SecretAccessKey: cfg.S3.SecretAccessKey,
			Bucket:          cfg.S3.Bucket,
			UsePathStyle:    cfg.S3.UsePathStyle,
			PresignTTL:      cfg.S3.PresignTTL,
		}, lg)
		if err != nil {
			zlog.Fatal().Err(err).Msg("s3 presigner init failed")
		}
		presigner = p
	} else {
		zlog.Warn().Msg("S3_BUCKET empty: pitch deck uploads disabled")
	}

	var sheetWriter export.SheetWriter
	if cfg.Sheet.Enabled() {
		c, err := sheets.New(cfg.Sheet.CredentialsFile, cfg.Sheet.SpreadsheetID)
		if err != nil {
			zlog.Fatal().Err(err).Msg("sheets client init failed")
		}
		sheetWriter = c
	}

	// 2) Application
	capSvc := capacity.New(repo, cfg.Capacity)
	regSvc := registration.New(repo, capSvc, pub, presigner, clock, registration.Options{
		Limits:       cfg.Capacity,
		Prices:       domain.DefaultPricingTable(),
		MaxDeckBytes: cfg.S3.PitchDeckMaxBytes,
	})
	notifySvc := notify.New(repo, mailer, pusher, idem, clock, cfg.NotifyIdempotencyTTL, lg)
	exportSvc := export.New(repo, sheetWriter)

	// 3) Transport
	checks := map[string]handlers.CheckFunc{"postgres": db.PingContext}
	if rdb != nil {
		checks["redis"] = rdb.Ping
	}
	h := router.Handlers{
		Health:        handlers.NewHealthHandler(checks),
		Slots:         handlers.NewSlotsHandler(capSvc),
		Pricing:       handlers.NewPricingHandler(regSvc),
		Registrations: handlers.NewRegistrationsHandler(regSvc, capSvc),
		Notifications: handlers.NewNotificationsHandler(notifySvc, vapidKey),
		Export:        handlers.NewExportHandler(exportSvc, clock),
	}
	auth := authmw.NewAuth(cfg.JWTSecret, cfg.JWTIssuer)

	// 4) Router
	httpHandler := router.New(h, auth, limiter, cfg)

	// 5) Server
	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      httpHandler,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	return &App{
		Config:    cfg,
		Server:    srv,
		DB:        db,
		Publisher: rabbit,
		Redis:     rdb,
	}
}

func (a *App) Close() {
	if a.Publisher != nil {
		_ = a.Publisher.Close()
	}
	if a.Redis != nil {
		_ = a.Redis.Close()
	}
}
