package matching

import (
	"math"
	"strings"

	"farmfund/grant-matcher/internal/models"
)

// Soft match dimensions reported in MatchResult.MatchedOn.
const (
	DimFarmType    = "farm_type"
	DimGoals       = "goals"
	DimOperator    = "operator_type"
	DimCounty      = "county"
	DimEmployeeFit = "employee_fit"
)

// ScoreWeights is the scoring table. Baseline applies to every grant that
// passed hard eligibility; the dimension weights cap each soft dimension's
// contribution. The defaults sum to exactly 100.
type ScoreWeights struct {
	Baseline     int
	FarmType     int
	GoalOverlap  int
	OperatorType int
	County       int
	EmployeeFit  int
}

var DefaultScoreWeights = ScoreWeights{
	Baseline:     40,
	FarmType:     15,
	GoalOverlap:  25,
	OperatorType: 10,
	County:       5,
	EmployeeFit:  5,
}

// Score rates one eligible grant against the profile. It returns a value in
// [0, 100] plus the dimensions that contributed. Scoring never excludes a
// grant; a fully unrestricted grant scores the baseline alone.
func Score(p *models.FarmProfile, g *models.Grant, w ScoreWeights) (int, []string) {
	score := w.Baseline
	var matched []string

	// A non-empty farm-type set already passed the filter, so this rewards
	// grants that target the profile's type deliberately rather than being
	// unrestricted.
	if len(g.FarmTypes) > 0 && g.AllowsFarmType(p.FarmType) {
		score += w.FarmType
		matched = append(matched, DimFarmType)
	}

	if pts := goalOverlapPoints(p, g, w.GoalOverlap); pts > 0 {
		score += pts
		matched = append(matched, DimGoals)
	}

	// Operator bonus only when the grant is restrictive about it.
	if len(g.OperatorTypes) == 1 && g.OperatorTypes[0] == p.OperatorType {
		score += w.OperatorType
		matched = append(matched, DimOperator)
	}

	if g.County != "" && p.County != "" && strings.EqualFold(g.County, p.County) {
		score += w.County
		matched = append(matched, DimCounty)
	}

	if employeeFits(p.EmployeeCount, g) {
		score += w.EmployeeFit
		matched = append(matched, DimEmployeeFit)
	}

	if score > 100 {
		score = 100
	}
	if score < 0 {
		score = 0
	}
	return score, matched
}

// goalOverlapPoints scales the weight by the fraction of the profile's
// goals the grant funds.
func goalOverlapPoints(p *models.FarmProfile, g *models.Grant, weight int) int {
	if len(p.Goals) == 0 || len(g.Goals) == 0 {
		return 0
	}
	overlap := 0
	for _, goal := range p.Goals {
		if g.HasGoal(goal) {
			overlap++
		}
	}
	if overlap == 0 {
		return 0
	}
	frac := float64(overlap) / float64(len(p.Goals))
	return int(math.Round(frac * float64(weight)))
}

// employeeFits awards the bonus only when the grant actually states an
// employee-count bound and the profile satisfies it.
func employeeFits(count int, g *models.Grant) bool {
	if g.MinEmployees == nil && g.MaxEmployees == nil {
		return false
	}
	if g.MinEmployees != nil && count < *g.MinEmployees {
		return false
	}
	if g.MaxEmployees != nil && count > *g.MaxEmployees {
		return false
	}
	return true
}
