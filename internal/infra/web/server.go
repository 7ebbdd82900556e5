package web

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"biolink-saas/internal/config"
	"biolink-saas/internal/infra/i18n"
	red "biolink-saas/internal/infra/redis"
	"biolink-saas/internal/usecase"
)

type Server struct {
	redemptionUC usecase.RedemptionUseCase
	subUC        usecase.SubscriptionUseCase
	accountUC    usecase.AccountUseCase
	biolinkUC    usecase.BiolinkUseCase
	taxUC        usecase.TaxUseCase
	auth         *AuthManager
	limiter      *red.RateLimiter
	bundle       *i18n.Bundle
	cfg          config.Config
	log          *zerolog.Logger
	srv          *http.Server
}

func NewServer(
	redemptionUC usecase.RedemptionUseCase,
	subUC usecase.SubscriptionUseCase,
	accountUC usecase.AccountUseCase,
	biolinkUC usecase.BiolinkUseCase,
	taxUC usecase.TaxUseCase,
	auth *AuthManager,
	limiter *red.RateLimiter,
	bundle *i18n.Bundle,
	cfg config.Config,
	logger *zerolog.Logger,
) *Server {
	l := logger.With().Str("component", "web").Logger()
	return &Server{
		redemptionUC: redemptionUC,
		subUC:        subUC,
		accountUC:    accountUC,
		biolinkUC:    biolinkUC,
		taxUC:        taxUC,
		auth:         auth,
		limiter:      limiter,
		bundle:       bundle,
		cfg:          cfg,
		log:          &l,
	}
}

// Routes builds the chi router with every endpoint.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RealIP)
	r.Use(TraceID())
	r.Use(RequestLog(s.log))
	r.Use(Recover(s.log))
	if s.cfg.HTTP.RequestTimeout > 0 {
		r.Use(Timeout(s.cfg.HTTP.RequestTimeout))
	}

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	r.Handle("/metrics", promhttp.Handler())

	rl := s.cfg.RateLimit
	r.Group(func(r chi.Router) {
		r.Use(RequireUser(s.auth))

		r.Get("/account-plan", s.handleAccountPlan)
		r.Post("/account-plan/cancel-subscription", s.handleCancelSubscription)
		r.With(RateLimit(s.limiter, "redeem_code", rl.CodeAttempts, rl.Window, s.log, s.redeemLimited)).
			Post("/account-plan/redeem-code", s.handleRedeemCode)
		r.With(RateLimit(s.limiter, "check_code", rl.CodeAttempts, rl.Window, s.log, s.checkLimited)).
			Post("/account-plan/code", s.handleCheckCode)
		r.Get("/biolink/blocks", s.handleBiolinkBlocks)

		r.Route("/admin", func(r chi.Router) {
			r.Use(RequireAdmin())
			r.Get("/taxes", s.handleTaxList)
			r.Post("/taxes", s.handleTaxCreate)
		})
	})
	return r
}

// Start serves until Shutdown is called.
func (s *Server) Start(addr string) error {
	s.srv = &http.Server{
		Addr:              addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.log.Info().Str("addr", addr).Msg("http server listening")
	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.srv == nil {
		return nil
	}
	return s.srv.Shutdown(ctx)
}
