package usecase

import (
	"context"

	"biolink-saas/internal/domain/model"
	"biolink-saas/internal/domain/ports/repository"
)

// PlanUseCase is the read side of the plan catalog.
type PlanUseCase interface {
	// GetPlanByID returns the plan or domain.ErrNotFound.
	GetPlanByID(ctx context.Context, id string) (*model.Plan, error)
	List(ctx context.Context) ([]*model.Plan, error)
}

var _ PlanUseCase = (*planUC)(nil)

type planUC struct {
	repo repository.PlanRepository
}

// NewPlanUseCase constructs a PlanUseCase.
func NewPlanUseCase(repo repository.PlanRepository) PlanUseCase {
	return &planUC{repo: repo}
}

func (uc *planUC) GetPlanByID(ctx context.Context, id string) (*model.Plan, error) {
	return uc.repo.FindByID(ctx, repository.NoTX, id)
}

func (uc *planUC) List(ctx context.Context) ([]*model.Plan, error) {
	return uc.repo.ListAll(ctx, repository.NoTX)
}
