package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type FarmType string

const (
	FarmTypeCrop      FarmType = "crop"
	FarmTypeLivestock FarmType = "livestock"
	FarmTypeDairy     FarmType = "dairy"
	FarmTypeOrchard   FarmType = "orchard"
	FarmTypeVineyard  FarmType = "vineyard"
	FarmTypePoultry   FarmType = "poultry"
	FarmTypeMixed     FarmType = "mixed"
)

// ParseFarmType normalizes a raw farm type value. Unknown and legacy values
// become FarmTypeMixed so a profile never carries an invalid member.
func ParseFarmType(s string) FarmType {
	switch FarmType(s) {
	case FarmTypeCrop, FarmTypeLivestock, FarmTypeDairy, FarmTypeOrchard,
		FarmTypeVineyard, FarmTypePoultry, FarmTypeMixed:
		return FarmType(s)
	}
	return FarmTypeMixed
}

func (t FarmType) Valid() bool {
	return t == ParseFarmType(string(t))
}

type AcresBand string

const (
	AcresUnder10  AcresBand = "under_10"
	Acres10To50   AcresBand = "10_50"
	Acres50To100  AcresBand = "50_100"
	Acres100To500 AcresBand = "100_500"
	AcresOver500  AcresBand = "over_500"
)

var acresMidpoints = map[AcresBand]float64{
	AcresUnder10:  5,
	Acres10To50:   30,
	Acres50To100:  75,
	Acres100To500: 300,
	AcresOver500:  750,
}

// ParseAcresBand normalizes a raw acreage band. Unknown values default to
// the 10-50 band, the most common operation size in the catalog.
func ParseAcresBand(s string) AcresBand {
	if _, ok := acresMidpoints[AcresBand(s)]; ok {
		return AcresBand(s)
	}
	return Acres10To50
}

func (b AcresBand) Valid() bool {
	_, ok := acresMidpoints[b]
	return ok
}

// Midpoint returns the representative acreage used when a grant restricts
// eligibility to an acreage range.
func (b AcresBand) Midpoint() float64 {
	if mid, ok := acresMidpoints[b]; ok {
		return mid
	}
	return acresMidpoints[Acres10To50]
}

type OperatorType string

const (
	OperatorIndividual  OperatorType = "individual"
	OperatorPartnership OperatorType = "partnership"
	OperatorLLC         OperatorType = "llc"
	OperatorCooperative OperatorType = "cooperative"
	OperatorNonprofit   OperatorType = "nonprofit"
	OperatorCorporation OperatorType = "corporation"
)

// ParseOperatorType normalizes a raw operator type. Unknown values default
// to individual.
func ParseOperatorType(s string) OperatorType {
	switch OperatorType(s) {
	case OperatorIndividual, OperatorPartnership, OperatorLLC,
		OperatorCooperative, OperatorNonprofit, OperatorCorporation:
		return OperatorType(s)
	}
	return OperatorIndividual
}

func (t OperatorType) Valid() bool {
	return t == ParseOperatorType(string(t))
}

type FundingGoal string

const (
	GoalEquipment    FundingGoal = "equipment"
	GoalIrrigation   FundingGoal = "irrigation"
	GoalExpansion    FundingGoal = "expansion"
	GoalConservation FundingGoal = "conservation"
	GoalOrganicCert  FundingGoal = "organic_certification"
	GoalMarketing    FundingGoal = "marketing"
	GoalEnergy       FundingGoal = "energy"
	GoalInfra        FundingGoal = "infrastructure"
)

// ParseFundingGoals normalizes a raw goal list, dropping unknown values and
// duplicates. Order is irrelevant to matching.
func ParseFundingGoals(raw []string) []FundingGoal {
	seen := make(map[FundingGoal]bool, len(raw))
	var goals []FundingGoal
	for _, s := range raw {
		g := FundingGoal(s)
		switch g {
		case GoalEquipment, GoalIrrigation, GoalExpansion, GoalConservation,
			GoalOrganicCert, GoalMarketing, GoalEnergy, GoalInfra:
			if !seen[g] {
				seen[g] = true
				goals = append(goals, g)
			}
		}
	}
	return goals
}

const ProfileSchemaVersion = 2

type FarmProfile struct {
	ID            uuid.UUID     `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	UserID        uuid.UUID     `gorm:"type:uuid;not null;index" json:"user_id"`
	State         string        `gorm:"type:text;not null" json:"state"`
	County        string        `gorm:"type:text" json:"county,omitempty"`
	FarmType      FarmType      `gorm:"type:text;not null" json:"farm_type"`
	AcresBand     AcresBand     `gorm:"type:text;not null" json:"acres_band"`
	OperatorType  OperatorType  `gorm:"type:text;not null" json:"operator_type"`
	EmployeeCount int           `gorm:"not null;default:0" json:"employee_count"`
	Goals         []FundingGoal `gorm:"serializer:json" json:"goals"`
	SchemaVersion int           `gorm:"not null;default:2" json:"schema_version"`
	CreatedAt     time.Time     `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt     time.Time     `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (FarmProfile) TableName() string {
	return "farm_profiles"
}

// Validate enforces the profile invariants the matching engine relies on.
// Profiles built through ProfileFromAttributes always pass.
func (p *FarmProfile) Validate() error {
	if p.State == "" {
		return fmt.Errorf("profile state is required")
	}
	if !p.FarmType.Valid() {
		return fmt.Errorf("invalid farm type %q", p.FarmType)
	}
	if !p.AcresBand.Valid() {
		return fmt.Errorf("invalid acres band %q", p.AcresBand)
	}
	if !p.OperatorType.Valid() {
		return fmt.Errorf("invalid operator type %q", p.OperatorType)
	}
	if p.EmployeeCount < 0 {
		return fmt.Errorf("employee count must be non-negative")
	}
	return nil
}

// HasGoal reports whether the profile carries the given funding goal.
func (p *FarmProfile) HasGoal(g FundingGoal) bool {
	for _, pg := range p.Goals {
		if pg == g {
			return true
		}
	}
	return false
}

// ProfileAttributes is the loosely-typed attribute bag persisted alongside
// user accounts by the upstream profile store.
type ProfileAttributes map[string]interface{}

func (a ProfileAttributes) str(key string) string {
	if v, ok := a[key].(string); ok {
		return v
	}
	return ""
}

func (a ProfileAttributes) strs(key string) []string {
	raw, ok := a[key].([]interface{})
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func (a ProfileAttributes) count(key string) int {
	switch v := a[key].(type) {
	case float64:
		if v > 0 {
			return int(v)
		}
	case int:
		if v > 0 {
			return v
		}
	}
	return 0
}

// ProfileFromAttributes builds a fully-typed, normalized profile from the
// attribute bag. Every enum field ends up holding a valid member; missing
// and unknown values take their documented defaults.
func ProfileFromAttributes(userID uuid.UUID, attrs ProfileAttributes) *FarmProfile {
	now := time.Now()
	return &FarmProfile{
		ID:            uuid.New(),
		UserID:        userID,
		State:         attrs.str("state"),
		County:        attrs.str("county"),
		FarmType:      ParseFarmType(attrs.str("farm_type")),
		AcresBand:     ParseAcresBand(attrs.str("acres_band")),
		OperatorType:  ParseOperatorType(attrs.str("operator_type")),
		EmployeeCount: attrs.count("employee_count"),
		Goals:         ParseFundingGoals(attrs.strs("goals")),
		SchemaVersion: ProfileSchemaVersion,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// ApplyAttributes overwrites the profile's matching fields from the bag,
// normalizing the same way ProfileFromAttributes does. Fields absent from
// the bag are left unchanged.
func (p *FarmProfile) ApplyAttributes(attrs ProfileAttributes) {
	if _, ok := attrs["state"]; ok {
		p.State = attrs.str("state")
	}
	if _, ok := attrs["county"]; ok {
		p.County = attrs.str("county")
	}
	if _, ok := attrs["farm_type"]; ok {
		p.FarmType = ParseFarmType(attrs.str("farm_type"))
	}
	if _, ok := attrs["acres_band"]; ok {
		p.AcresBand = ParseAcresBand(attrs.str("acres_band"))
	}
	if _, ok := attrs["operator_type"]; ok {
		p.OperatorType = ParseOperatorType(attrs.str("operator_type"))
	}
	if _, ok := attrs["employee_count"]; ok {
		p.EmployeeCount = attrs.count("employee_count")
	}
	if _, ok := attrs["goals"]; ok {
		p.Goals = ParseFundingGoals(attrs.strs("goals"))
	}
	p.SchemaVersion = ProfileSchemaVersion
	p.UpdatedAt = time.Now()
}
