package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"dojohub/internal/account"
	"dojohub/internal/captcha"
	"dojohub/internal/crm"
	"dojohub/internal/dojo"
	"dojohub/internal/email"
	"dojohub/internal/platform/config"
	"dojohub/internal/platform/httpserver"
	"dojohub/internal/platform/logger"
	"dojohub/internal/platform/postgres"
	platformredis "dojohub/internal/platform/redis"
	profilecache "dojohub/internal/profile/cache"
	profilehandler "dojohub/internal/profile/handler"
	profilemetrics "dojohub/internal/profile/metrics"
	profileservice "dojohub/internal/profile/service"
	profilestore "dojohub/internal/profile/store"
	userhandler "dojohub/internal/user/handler"
	usermetrics "dojohub/internal/user/metrics"
	userservice "dojohub/internal/user/service"
	userstore "dojohub/internal/user/store"
	"dojohub/pkg/platform/middleware/auth"
	"dojohub/pkg/platform/middleware/device"
	"dojohub/pkg/platform/middleware/requestid"
	"dojohub/pkg/platform/middleware/requesttime"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in the internal feature
// packages.
func main() {
	_ = godotenv.Load()
	cfg := config.FromEnv()
	log := logger.New(slog.LevelInfo)

	db, err := postgres.Open(cfg.Postgres.URL)
	if err != nil {
		log.Error("postgres connection failed", "error", err)
		os.Exit(1)
	}
	if db != nil {
		defer db.Close()
	}

	var (
		profiles profileservice.ProfileStore
		users    userservice.UserStore
		accUsers account.UserStore
		resets   account.ResetStore
	)
	if db != nil {
		profiles = profilestore.NewPostgres(db)
		pgUsers := userstore.NewPostgresUserStore(db)
		users, accUsers = pgUsers, pgUsers
		resets = userstore.NewPostgresResetStore(db)
		log.Info("using postgres stores")
	} else {
		profiles = profilestore.NewMemory()
		memUsers := userstore.NewMemoryUserStore()
		users, accUsers = memUsers, memUsers
		resets = userstore.NewMemoryResetStore()
		log.Info("using in-memory stores")
	}

	var dojos dojo.Service
	if cfg.Dojo.ServiceURL != "" {
		dojos = dojo.NewClient(cfg.Dojo.ServiceURL)
	} else {
		dojos = dojo.NewMemory()
		log.Info("dojo service not configured, using in-process fake")
	}

	accounts := account.NewService(accUsers, resets, log)

	profileOpts := []profileservice.Option{
		profileservice.WithMetrics(profilemetrics.New()),
	}
	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		log.Error("redis connection failed", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
		viewCache := profilecache.NewRedis(redisClient.Client, cfg.Redis.ViewTTL, log)
		profileOpts = append(profileOpts, profileservice.WithCache(viewCache))
		log.Info("profile view cache enabled", "ttl", cfg.Redis.ViewTTL)
	}
	profileSvc := profileservice.NewService(profiles, dojos, accounts, log, profileOpts...)

	var captchaVerifier userservice.CaptchaVerifier
	if cfg.Captcha.Secret != "" {
		captchaVerifier = captcha.NewClient(cfg.Captcha.VerifyURL, cfg.Captcha.Secret)
	} else {
		captchaVerifier = captcha.AlwaysPass{}
		log.Warn("captcha secret not configured, verification disabled")
	}

	var sender userservice.EmailSender
	if cfg.Email.SendEmail && cfg.Email.ServiceURL != "" {
		sender = email.NewClient(cfg.Email.ServiceURL)
	} else {
		sender = email.Noop{}
	}

	var crmPublisher userservice.CRMPublisher
	if cfg.CRM.Enabled && len(cfg.Kafka.Brokers) > 0 {
		sink, err := crm.NewKafkaSink(context.Background(), cfg.Kafka.Brokers, cfg.Kafka.CRMTopic)
		if err != nil {
			log.Error("crm kafka sink failed", "error", err)
			os.Exit(1)
		}
		defer sink.Close()
		pub := crm.NewPublisher(sink, log, crm.WithAsyncBuffer(256))
		defer pub.Close()
		crmPublisher = pub
		log.Info("crm sync enabled", "topic", cfg.Kafka.CRMTopic)
	}

	userSvc := userservice.NewService(
		users, accounts, profileSvc, dojos,
		captchaVerifier, sender, crmPublisher,
		userservice.Config{
			ResetPeriod: cfg.Reset.Period,
			SendEmail:   cfg.Email.SendEmail,
			CRMEnabled:  cfg.CRM.Enabled,
			PlatformURL: cfg.CRM.PlatformURL,
		},
		log,
		userservice.WithMetrics(usermetrics.New()),
	)

	validator := auth.NewJWTValidator(cfg.Server.JWTSigningKey)

	router := chi.NewRouter()
	router.Use(requestid.Middleware)
	router.Use(requesttime.Middleware)
	router.Use(device.Middleware)
	router.Use(auth.Authenticate(validator, log))

	profilehandler.New(profileSvc, log).Register(router)
	userhandler.New(userSvc, log).Register(router)
	router.Handle("/metrics", promhttp.Handler())
	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	srv := httpserver.New(cfg.Server.Addr, router)

	go func() {
		log.Info("starting dojohub", "addr", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}
	log.Info("server stopped")
}
