package repository

import (
	"context"

	"biolink-saas/internal/domain/model"
)

type TaxRepository interface {
	Create(ctx context.Context, tx Tx, t *model.Tax) error
	List(ctx context.Context, tx Tx) ([]*model.Tax, error)
}
