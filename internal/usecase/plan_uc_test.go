//go:build !integration

package usecase_test

import (
	"context"
	"errors"
	"testing"

	"biolink-saas/internal/domain"
	"biolink-saas/internal/domain/model"
	"biolink-saas/internal/usecase"
)

func TestPlanUseCase(t *testing.T) {
	ctx := context.Background()
	s := newMemStore()
	repo := NewMockPlanRepo(s)
	for _, id := range []string{"pro", "business"} {
		p, err := model.NewPlan(id, id, model.DefaultPlanSettings())
		if err != nil {
			t.Fatalf("new plan: %v", err)
		}
		_ = repo.Save(ctx, nil, p)
	}
	uc := usecase.NewPlanUseCase(repo)

	p, err := uc.GetPlanByID(ctx, "pro")
	if err != nil || p.ID != "pro" {
		t.Fatalf("GetPlanByID(pro) = %v, %v", p, err)
	}
	if _, err := uc.GetPlanByID(ctx, "gold"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	all, err := uc.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 2 || all[0].ID != "business" || all[1].ID != "pro" {
		t.Errorf("unexpected plans: %+v", all)
	}
}
