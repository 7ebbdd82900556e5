package usecase

import (
	"context"
	"strings"

	"biolink-saas/internal/domain/model"
	"biolink-saas/internal/domain/ports/repository"
	"biolink-saas/internal/infra/i18n"

	"golang.org/x/text/cases"
)

// BlockView is a biolink block as shown in the block chooser.
type BlockView struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Icon    string `json:"icon"`
	Color   string `json:"color"`
	Enabled bool   `json:"enabled"`
}

type BiolinkUseCase interface {
	// ListBlocks returns the block catalog localized for the user, flagging
	// blocks the user's plan snapshot does not enable. A non-empty search
	// keeps only blocks whose localized name contains it, ignoring case.
	ListBlocks(ctx context.Context, userID, search, acceptLanguage string) ([]BlockView, error)
}

var _ BiolinkUseCase = (*biolinkUC)(nil)

type biolinkUC struct {
	users  repository.UserRepository
	bundle *i18n.Bundle
}

func NewBiolinkUseCase(users repository.UserRepository, bundle *i18n.Bundle) BiolinkUseCase {
	return &biolinkUC{users: users, bundle: bundle}
}

func (b *biolinkUC) ListBlocks(ctx context.Context, userID, search, acceptLanguage string) ([]BlockView, error) {
	user, err := b.users.FindByID(ctx, repository.NoTX, userID)
	if err != nil {
		return nil, err
	}
	tr := b.bundle.Match(user.Language, acceptLanguage)

	fold := cases.Fold()
	needle := fold.String(strings.TrimSpace(search))

	out := make([]BlockView, 0, len(model.BiolinkBlocks))
	for _, blk := range model.BiolinkBlocks {
		name := tr.T("biolink.block." + blk.ID)
		if needle != "" && !strings.Contains(fold.String(name), needle) {
			continue
		}
		out = append(out, BlockView{
			ID:      blk.ID,
			Name:    name,
			Icon:    blk.Icon,
			Color:   blk.Color,
			Enabled: user.PlanSettings.BlockEnabled(blk.ID),
		})
	}
	return out, nil
}
