package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode"

	"biolink-saas/internal/domain"
	"biolink-saas/internal/domain/model"
	"biolink-saas/internal/domain/ports/repository"
	"biolink-saas/internal/infra/logging"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/text/language"
)

const (
	maxTaxNameLen        = 64
	maxTaxDescriptionLen = 256
)

// TaxInput is the raw admin form. Enum fields fall back to defaults when
// they hold anything unexpected.
type TaxInput struct {
	InternalName string
	Name         string
	Description  string
	Value        int
	ValueType    string
	Type         string
	BillingType  string
	Countries    []string
}

// TaxUseCase manages admin tax rules.
type TaxUseCase interface {
	Create(ctx context.Context, in TaxInput) (*model.Tax, error)
	List(ctx context.Context) ([]*model.Tax, error)
}

var _ TaxUseCase = (*taxUC)(nil)

type taxUC struct {
	taxes repository.TaxRepository
	log   *zerolog.Logger
}

func NewTaxUseCase(taxes repository.TaxRepository, logger *zerolog.Logger) TaxUseCase {
	return &taxUC{taxes: taxes, log: logger}
}

func (t *taxUC) Create(ctx context.Context, in TaxInput) (*model.Tax, error) {
	defer logging.TraceDuration(t.log, "TaxUC.Create")()

	tax, err := sanitizeTax(in)
	if err != nil {
		return nil, err
	}
	tax.ID = uuid.NewString()
	tax.CreatedAt = time.Now()
	if err := t.taxes.Create(ctx, repository.NoTX, tax); err != nil {
		return nil, err
	}
	logging.With(ctx, t.log).Info().Str("tax_id", tax.ID).Str("internal_name", tax.InternalName).Msg("tax created")
	return tax, nil
}

func (t *taxUC) List(ctx context.Context) ([]*model.Tax, error) {
	return t.taxes.List(ctx, repository.NoTX)
}

func sanitizeTax(in TaxInput) (*model.Tax, error) {
	tax := &model.Tax{
		InternalName: cleanString(in.InternalName, maxTaxNameLen),
		Name:         cleanString(in.Name, maxTaxNameLen),
		Description:  cleanString(in.Description, maxTaxDescriptionLen),
		Value:        in.Value,
		ValueType:    model.TaxValueFixed,
		Type:         model.TaxInclusive,
		BillingType:  model.TaxBillingBoth,
	}
	if tax.InternalName == "" || tax.Name == "" {
		return nil, fmt.Errorf("%w: internal name and name are required", domain.ErrInvalidArgument)
	}
	if tax.Value < 0 {
		return nil, fmt.Errorf("%w: negative tax value", domain.ErrInvalidArgument)
	}

	switch v := model.TaxValueType(in.ValueType); v {
	case model.TaxValuePercentage, model.TaxValueFixed:
		tax.ValueType = v
	}
	switch v := model.TaxType(in.Type); v {
	case model.TaxInclusive, model.TaxExclusive:
		tax.Type = v
	}
	switch v := model.TaxBillingType(in.BillingType); v {
	case model.TaxBillingPersonal, model.TaxBillingBusiness, model.TaxBillingBoth:
		tax.BillingType = v
	}

	countries, err := cleanCountries(in.Countries)
	if err != nil {
		return nil, err
	}
	tax.Countries = countries
	return tax, nil
}

// cleanString trims, drops control characters and caps the rune length.
func cleanString(s string, max int) string {
	s = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
	s = strings.TrimSpace(s)
	if r := []rune(s); len(r) > max {
		s = strings.TrimSpace(string(r[:max]))
	}
	return s
}

// cleanCountries uppercases and deduplicates ISO 3166-1 alpha-2 codes.
func cleanCountries(in []string) ([]string, error) {
	if len(in) == 0 {
		return nil, nil
	}
	seen := make(map[string]struct{}, len(in))
	var out []string
	for _, c := range in {
		c = strings.ToUpper(strings.TrimSpace(c))
		if c == "" {
			continue
		}
		region, err := language.ParseRegion(c)
		if err != nil || len(c) != 2 || !region.IsCountry() {
			return nil, fmt.Errorf("%w: unknown country %q", domain.ErrInvalidArgument, c)
		}
		if _, dup := seen[c]; dup {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out, nil
}
