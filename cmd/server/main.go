package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpadapter "resume-builder/internal/adapter/http"
	repo "resume-builder/internal/adapter/repository"
	"resume-builder/internal/config"
	"resume-builder/internal/infrastructure/migration"
	"resume-builder/internal/logger"
	"resume-builder/internal/plan"
	"resume-builder/internal/usecase"
	"resume-builder/internal/validator"
	"resume-builder/pkg/ai"
	infra "resume-builder/pkg/infrastructure"
	"resume-builder/pkg/parser"
	"resume-builder/pkg/payment"
)

func main() {
	cfg := config.Load()
	logger.Init(cfg.Server.Env)

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := infra.NewPool(ctx, cfg.Database.URL)
	if err != nil {
		slog.Error("database not available", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := migration.RunMigrations(ctx, pool); err != nil {
		os.Exit(1)
	}

	catalog := plan.Default()

	users := repo.NewUsersRepo(pool)
	resumes := repo.NewResumesRepo(pool)
	subs := repo.NewSubscriptionsRepo(pool)
	payments := repo.NewPaymentsRepo(pool)

	renderer := infra.NewChromedpRenderer(cfg.Render.ChromePath, cfg.Render.Timeout)
	gateway := payment.NewGateway(payment.Config{KeyID: cfg.Payment.KeyID, KeySecret: cfg.Payment.KeySecret})

	aiClient := ai.NewClient(cfg.AI.URL)
	aiClient.DefaultLanguage = cfg.AI.Language
	enhancer := ai.NewEnhancer(aiClient)

	var resumeParser usecase.ResumeParser
	if cfg.ParserEnabled() {
		resumeParser = parser.NewClient(cfg.Parser.URL, cfg.Parser.APIKey)
	} else {
		slog.Warn("PARSER_API_URL not set, resume upload parsing is disabled")
	}

	var store usecase.ObjectStore
	if cfg.StorageEnabled() {
		s, err := infra.NewObjectStorage(infra.StorageConfig{
			Endpoint:  cfg.Storage.Endpoint,
			Bucket:    cfg.Storage.Bucket,
			Region:    cfg.Storage.Region,
			AccessKey: cfg.Storage.AccessKey,
			SecretKey: cfg.Storage.SecretKey,
			PublicURL: cfg.Storage.PublicURL,
		})
		if err != nil {
			slog.Error("object storage not available", "error", err)
			os.Exit(1)
		}
		store = s
	} else {
		slog.Warn("object storage not configured, photo uploads are disabled")
	}

	var mailer usecase.Mailer
	if cfg.MailEnabled() {
		mailer = infra.NewMailer(infra.MailConfig{
			Host:     cfg.Mail.Host,
			Port:     cfg.Mail.Port,
			User:     cfg.Mail.User,
			Password: cfg.Mail.Password,
			From:     cfg.Mail.From,
		})
	} else {
		slog.Warn("SMTP not configured, payment receipts will not be sent")
	}

	var limiter httpadapter.Limiter
	if cfg.RedisEnabled() {
		rdb, err := infra.NewRedis(ctx, cfg.Redis.Addr, cfg.Redis.Password)
		if err != nil {
			slog.Warn("redis not available, rate limiting disabled", "error", err)
		} else {
			defer rdb.Close()
			limiter = infra.NewRateLimiter(rdb, cfg.Redis.RequestsPerMin, time.Minute)
		}
	} else {
		slog.Warn("REDIS_ADDR not set, rate limiting disabled")
	}

	h := httpadapter.NewHandler(httpadapter.Services{
		Auth:          usecase.NewAuthService(users, cfg.JWT.Secret, cfg.JWT.TTL),
		Resumes:       usecase.NewResumeService(resumes),
		Subscriptions: usecase.NewSubscriptionService(subs, payments, users, gateway, mailer, catalog),
		Export:        usecase.NewExportService(resumes, subs, catalog, renderer, enhancer),
		Enhance:       usecase.NewEnhanceService(resumes, enhancer),
		Uploads:       usecase.NewUploadService(resumes, resumeParser, store, cfg.Upload.MaxBytes, cfg.Upload.MaxPhotoBytes),
		Catalog:       catalog,
		Validator:     validator.New(catalog),
		Limiter:       limiter,
	})
	app := httpadapter.NewApp(h, int(cfg.Upload.MaxBytes)+1<<20)

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening", "port", cfg.Server.Port, "env", cfg.Server.Env)
		errCh <- app.Listen(":" + cfg.Server.Port)
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			slog.Error("server failed", "error", err)
		}
	}

	slog.Info("shutting down")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		slog.Error("shutdown failed", "error", err)
	}
}
