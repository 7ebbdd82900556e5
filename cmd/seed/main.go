package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"time"

	"biolink-saas/internal/config"
	"biolink-saas/internal/domain"
	"biolink-saas/internal/domain/model"
	pg "biolink-saas/internal/infra/db/postgres"
	"biolink-saas/internal/infra/logging"
	"biolink-saas/internal/infra/web"
	"biolink-saas/internal/usecase"
)

func main() {
	code := flag.String("code", "WELCOME30", "redeemable code to seed (empty to skip)")
	codeDays := flag.Int("code-days", 30, "days granted by the seeded code")
	codeQty := flag.Int("code-quantity", 100, "how many times the seeded code can be redeemed")

	// ---- Config ----
	cfg, err := config.LoadConfig()
	if err != nil {
		logging.New(config.LogConfig{Level: "error"}, false).Fatal().Err(err).Msg("load config")
	}
	logger := logging.New(cfg.Log, true)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := pg.NewPgxPool(ctx, cfg.Database)
	if err != nil {
		logger.Fatal().Err(err).Msg("postgres")
	}
	defer pool.Close()
	if err := pg.Migrate(ctx, pool, logger); err != nil {
		logger.Fatal().Err(err).Msg("migrate")
	}

	planRepo := pg.NewPostgresPlanRepo(pool)
	planUC := usecase.NewPlanUseCase(planRepo)

	// If plans already exist, leave the catalog alone
	plans, err := planUC.List(ctx)
	if err != nil {
		logger.Fatal().Err(err).Msg("list plans")
	}
	if len(plans) > 0 {
		fmt.Printf("%d plans already present. No changes.\n", len(plans))
		for _, p := range plans {
			fmt.Printf("  - %s (id=%s, biolinks=%d)\n", p.Name, p.ID, p.Settings.BiolinksLimit)
		}
	} else {
		for _, p := range defaultPlans() {
			if err := planRepo.Save(ctx, nil, p); err != nil {
				logger.Fatal().Err(err).Str("plan", p.ID).Msg("create plan")
			}
			fmt.Printf("seeded plan: %s (id=%s)\n", p.Name, p.ID)
		}
	}

	if *code != "" {
		c, err := model.NewRedeemableCode(*code, "pro", *codeDays, 0, *codeQty)
		if err != nil {
			logger.Fatal().Err(err).Msg("build code")
		}
		switch err := pg.NewPostgresCodeRepo(pool).Save(ctx, nil, c); {
		case errors.Is(err, domain.ErrAlreadyExists):
			fmt.Printf("code %s already present.\n", c.Code)
		case err != nil:
			logger.Fatal().Err(err).Msg("create code")
		default:
			fmt.Printf("seeded code: %s (plan=pro, days=%d, quantity=%d)\n", c.Code, c.Days, c.Quantity)
		}
	}

	// Demo accounts with ready-to-use bearer tokens for local testing
	users := pg.NewPostgresUserRepo(pool)
	auth := web.NewAuthManager(cfg.Auth.JWTSecret, cfg.Auth.CookieName, false, "", cfg.Auth.TTL)
	for _, acc := range []struct{ id, email, role string }{
		{"00000000-0000-0000-0000-000000000001", "demo@example.com", web.RoleUser},
		{"00000000-0000-0000-0000-000000000002", "admin@example.com", web.RoleAdmin},
	} {
		u, err := model.NewUser(acc.id, acc.email, "")
		if err != nil {
			logger.Fatal().Err(err).Msg("build user")
		}
		if err := users.Save(ctx, nil, u); err != nil && !errors.Is(err, domain.ErrAlreadyExists) {
			logger.Fatal().Err(err).Str("email", acc.email).Msg("create user")
		}
		tok, err := auth.Token(acc.id, acc.role)
		if err != nil {
			logger.Fatal().Err(err).Msg("mint token")
		}
		fmt.Printf("%s (%s): Bearer %s\n", acc.email, acc.role, tok)
	}

	fmt.Println("Seeding complete.")
}

func defaultPlans() []*model.Plan {
	pro := model.DefaultPlanSettings()
	pro.BiolinksLimit = 10
	pro.LinksLimit = 100
	pro.DomainsLimit = 1
	pro.NoAds = true
	pro.Analytics = true
	for _, b := range []string{model.BlockAvatar, model.BlockImage, model.BlockSocials, model.BlockYoutube, model.BlockSpotify, model.BlockDivider} {
		pro.EnabledBiolinkBlocks[b] = true
	}

	business := pro.Clone()
	business.BiolinksLimit = -1
	business.LinksLimit = -1
	business.DomainsLimit = 10
	for _, b := range model.BiolinkBlocks {
		business.EnabledBiolinkBlocks[b.ID] = true
	}

	var out []*model.Plan
	for _, p := range []struct {
		id, name string
		s        model.PlanSettings
	}{{"pro", "Pro", pro}, {"business", "Business", business}} {
		plan, err := model.NewPlan(p.id, p.name, p.s)
		if err != nil {
			panic(err)
		}
		out = append(out, plan)
	}
	return out
}
