package model

import (
	"strings"
	"time"

	"biolink-saas/internal/domain"
)

// Built-in plan identifiers.
const (
	PlanFree   = "free"
	PlanCustom = "custom"
)

type PlanStatus string

const (
	PlanStatusActive   PlanStatus = "active"
	PlanStatusDisabled PlanStatus = "disabled"
)

// PlanSettings is the feature bundle granted by a plan. It is serialized as
// JSON both in the plan catalog and as a snapshot on the user record.
type PlanSettings struct {
	BiolinksLimit        int             `json:"biolinks_limit"`
	LinksLimit           int             `json:"links_limit"`
	DomainsLimit         int             `json:"domains_limit"`
	NoAds                bool            `json:"no_ads"`
	Analytics            bool            `json:"analytics_is_enabled"`
	EnabledBiolinkBlocks map[string]bool `json:"enabled_biolink_blocks"`
}

// DefaultPlanSettings is what a user holds before any plan was granted.
func DefaultPlanSettings() PlanSettings {
	return PlanSettings{
		BiolinksLimit: 1,
		LinksLimit:    5,
		EnabledBiolinkBlocks: map[string]bool{
			BlockLink:      true,
			BlockHeading:   true,
			BlockParagraph: true,
		},
	}
}

// BlockEnabled reports whether the settings allow the given biolink block type.
func (s PlanSettings) BlockEnabled(blockID string) bool {
	return s.EnabledBiolinkBlocks[blockID]
}

// Clone returns a deep copy so snapshots never share the catalog's map.
func (s PlanSettings) Clone() PlanSettings {
	out := s
	if s.EnabledBiolinkBlocks != nil {
		out.EnabledBiolinkBlocks = make(map[string]bool, len(s.EnabledBiolinkBlocks))
		for k, v := range s.EnabledBiolinkBlocks {
			out.EnabledBiolinkBlocks[k] = v
		}
	}
	return out
}

// Plan is an immutable catalog entry.
type Plan struct {
	ID        string
	Name      string
	Settings  PlanSettings
	Status    PlanStatus
	CreatedAt time.Time
}

func (p *Plan) IsZero() bool { return p == nil || p.ID == "" }

// NewPlan validates and constructs a plan.
func NewPlan(id, name string, settings PlanSettings) (*Plan, error) {
	id = strings.TrimSpace(id)
	name = strings.TrimSpace(name)
	if id == "" || name == "" {
		return nil, domain.ErrInvalidArgument
	}
	if settings.BiolinksLimit < -1 || settings.LinksLimit < -1 || settings.DomainsLimit < -1 {
		return nil, domain.ErrInvalidArgument
	}
	return &Plan{
		ID:        id,
		Name:      name,
		Settings:  settings,
		Status:    PlanStatusActive,
		CreatedAt: time.Now(),
	}, nil
}
