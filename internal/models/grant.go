package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type GrantStatus string

const (
	GrantOpen   GrantStatus = "open"
	GrantClosed GrantStatus = "closed"
	GrantDraft  GrantStatus = "draft"
)

// StateWildcard in a grant's state list means the grant is available in
// every state.
const StateWildcard = "*"

type Grant struct {
	ID       uuid.UUID   `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	SourceID string      `gorm:"type:text;uniqueIndex" json:"source_id"`
	Title    string      `gorm:"type:text;not null" json:"title"`
	Status   GrantStatus `gorm:"type:text;not null;default:'draft'" json:"status"`

	Agency      string `gorm:"type:text" json:"agency"`
	Summary     string `gorm:"type:text" json:"summary"`
	ExternalURL string `gorm:"type:text" json:"external_url"`

	// Eligibility criteria. Empty type/operator sets mean unrestricted;
	// States may contain StateWildcard.
	States        []string       `gorm:"serializer:json" json:"states"`
	FarmTypes     []FarmType     `gorm:"serializer:json" json:"farm_types"`
	OperatorTypes []OperatorType `gorm:"serializer:json" json:"operator_types"`
	Goals         []FundingGoal  `gorm:"serializer:json" json:"goals"`
	County        string         `gorm:"type:text" json:"county,omitempty"`

	MinAcres     *float64 `json:"min_acres,omitempty"`
	MaxAcres     *float64 `json:"max_acres,omitempty"`
	MinEmployees *int     `json:"min_employees,omitempty"`
	MaxEmployees *int     `json:"max_employees,omitempty"`

	AmountMin *float64   `json:"amount_min,omitempty"`
	AmountMax *float64   `json:"amount_max,omitempty"`
	Deadline  *time.Time `json:"deadline,omitempty"`
	Rolling   bool       `gorm:"not null;default:false" json:"rolling"`

	CreatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Grant) TableName() string {
	return "grants"
}

// Validate is the loader's per-record check. A grant failing it is skipped
// at load time rather than aborting the whole catalog load.
func (g *Grant) Validate() error {
	if g.ID == uuid.Nil {
		return fmt.Errorf("grant has no id")
	}
	if g.Title == "" {
		return fmt.Errorf("grant %s has no title", g.ID)
	}
	switch g.Status {
	case GrantOpen, GrantClosed, GrantDraft:
	default:
		return fmt.Errorf("grant %s has unknown status %q", g.ID, g.Status)
	}
	if g.MinAcres != nil && g.MaxAcres != nil && *g.MinAcres > *g.MaxAcres {
		return fmt.Errorf("grant %s has inverted acreage range", g.ID)
	}
	return nil
}

// AllowsState reports whether the grant is open to the given state, either
// by listing it or by carrying the wildcard.
func (g *Grant) AllowsState(state string) bool {
	for _, s := range g.States {
		if s == StateWildcard || s == state {
			return true
		}
	}
	return false
}

// AllowsFarmType treats an empty set as unrestricted.
func (g *Grant) AllowsFarmType(t FarmType) bool {
	if len(g.FarmTypes) == 0 {
		return true
	}
	for _, ft := range g.FarmTypes {
		if ft == t {
			return true
		}
	}
	return false
}

// AllowsOperatorType treats an empty set as unrestricted.
func (g *Grant) AllowsOperatorType(t OperatorType) bool {
	if len(g.OperatorTypes) == 0 {
		return true
	}
	for _, ot := range g.OperatorTypes {
		if ot == t {
			return true
		}
	}
	return false
}

// HasGoal reports whether the grant funds the given goal.
func (g *Grant) HasGoal(goal FundingGoal) bool {
	for _, gg := range g.Goals {
		if gg == goal {
			return true
		}
	}
	return false
}
