package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"biolink-saas/internal/config"
	"biolink-saas/internal/domain/ports/adapter"
	mailAdapters "biolink-saas/internal/infra/adapters/mail"
	payAdapters "biolink-saas/internal/infra/adapters/payment"
	pg "biolink-saas/internal/infra/db/postgres"
	"biolink-saas/internal/infra/i18n"
	"biolink-saas/internal/infra/logging"
	"biolink-saas/internal/infra/metrics"
	red "biolink-saas/internal/infra/redis"
	"biolink-saas/internal/infra/sched"
	"biolink-saas/internal/infra/web"
	"biolink-saas/internal/usecase"
)

var (
	version = "dev"
	commit  = "none"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.LoadConfig()
	if err != nil {
		// logging is not configured yet
		logging.New(config.LogConfig{Level: "error"}, false).Fatal().Err(err).Msg("config")
	}
	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	if cfg.Runtime.Dev {
		logger.Warn().Msg("[DEV MODE] Enabled")
	}

	metrics.MustRegister()
	metrics.SetBuildInfo(version, commit)

	// ---- Postgres ----
	pool, err := pg.NewPgxPool(ctx, cfg.Database)
	if err != nil {
		logger.Fatal().Err(err).Msg("postgres")
	}
	defer pool.Close()
	if cfg.Database.Migrate {
		if err := pg.Migrate(ctx, pool, logger); err != nil {
			logger.Fatal().Err(err).Msg("migrate")
		}
	}
	go pg.ReportPoolStats(ctx, pool, 15*time.Second)

	// ---- Redis ----
	redisClient, err := red.NewClient(ctx, &cfg.Redis)
	if err != nil {
		logger.Fatal().Err(err).Msg("redis")
	}
	defer redisClient.Close()
	tagCache := red.NewTagCache(redisClient)
	rateLimiter := red.NewRateLimiter(redisClient)
	locker := red.NewLocker(redisClient)

	// ---- Repositories ----
	userRepo := pg.NewUserRepoCacheDecorator(pg.NewPostgresUserRepo(pool), tagCache, cfg.Redis.TTL)
	planRepo := pg.NewPlanRepoCacheDecorator(pg.NewPostgresPlanRepo(pool), redisClient, cfg.Redis.TTL)
	codeRepo := pg.NewPostgresCodeRepo(pool)
	taxRepo := pg.NewPostgresTaxRepo(pool)
	txManager := pg.NewTxManager(pool)

	// ---- Adapters ----
	bundle, err := i18n.NewBundle(i18n.LocalesFS, cfg.I18n.DefaultLanguage)
	if err != nil {
		logger.Fatal().Err(err).Msg("i18n")
	}

	providers := []adapter.BillingProvider{payAdapters.NewNoopProvider("")}
	if cfg.Payment.Paddle.APIKey != "" {
		paddle, err := payAdapters.NewPaddleProvider(cfg.Payment.Paddle)
		if err != nil {
			logger.Fatal().Err(err).Msg("paddle")
		}
		providers = append(providers, paddle)
	}

	var mailer adapter.Mailer
	if cfg.Mail.PostmarkServerToken != "" {
		mailer, err = mailAdapters.NewPostmarkMailer(cfg.Mail)
		if err != nil {
			logger.Fatal().Err(err).Msg("postmark")
		}
	} else {
		logger.Warn().Msg("mail.postmark_server_token not set; emails are only logged")
		mailer = mailAdapters.NewLogMailer(logger)
	}

	// ---- Use cases ----
	planUC := usecase.NewPlanUseCase(planRepo)
	subUC := usecase.NewSubscriptionUseCase(userRepo, providers, tagCache, logger)
	redemptionUC := usecase.NewRedemptionUseCase(userRepo, codeRepo, planUC, subUC, txManager, tagCache, cfg.Payment.CodesActive(), logger)
	accountUC := usecase.NewAccountUseCase(userRepo, planUC)
	biolinkUC := usecase.NewBiolinkUseCase(userRepo, bundle)
	taxUC := usecase.NewTaxUseCase(taxRepo, logger)
	reminderUC := usecase.NewReminderUseCase(userRepo, planUC, mailer, tagCache, bundle, 4, logger)

	// ---- Reminder worker ----
	if cfg.Reminder.Enabled {
		worker := sched.NewReminderWorker(cfg.Reminder.Interval, cfg.Reminder.Days, reminderUC, locker, logger)
		go func() { _ = worker.Run(ctx) }()
	}

	// ---- HTTP ----
	auth := web.NewAuthManager(cfg.Auth.JWTSecret, cfg.Auth.CookieName, !cfg.Runtime.Dev, "", cfg.Auth.TTL)
	server := web.NewServer(redemptionUC, subUC, accountUC, biolinkUC, taxUC, auth, rateLimiter, bundle, *cfg, logger)
	errc := make(chan error, 1)
	go func() { errc <- server.Start(cfg.HTTP.Addr) }()

	// ---- Graceful shutdown ----
	select {
	case <-ctx.Done():
		logger.Info().Msg("shutdown requested")
	case err := <-errc:
		if err != nil {
			logger.Error().Err(err).Msg("http server stopped")
		}
	}
	shutdownCtx, stop := context.WithTimeout(context.Background(), 10*time.Second)
	defer stop()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("http shutdown")
	}
}
