package matching

import (
	"time"

	"farmfund/grant-matcher/internal/models"
)

// EligibleGrants applies the hard eligibility cuts to every grant in the
// snapshot and returns the survivors in snapshot order. A grant failing any
// cut is excluded outright and never scored.
func EligibleGrants(profile *models.FarmProfile, snap *Snapshot, now time.Time) []models.Grant {
	var eligible []models.Grant
	for _, g := range snap.Grants() {
		if isEligible(profile, &g, now) {
			eligible = append(eligible, g)
		}
	}
	return eligible
}

func isEligible(p *models.FarmProfile, g *models.Grant, now time.Time) bool {
	if g.Status != models.GrantOpen {
		return false
	}
	if !deadlineOpen(g, now) {
		return false
	}
	if !g.AllowsState(p.State) {
		return false
	}
	if !g.AllowsFarmType(p.FarmType) {
		return false
	}
	if !g.AllowsOperatorType(p.OperatorType) {
		return false
	}
	return acreageFits(p.AcresBand, g)
}

// deadlineOpen passes grants whose deadline is absent, in the future, or
// marked rolling.
func deadlineOpen(g *models.Grant, now time.Time) bool {
	if g.Rolling || g.Deadline == nil {
		return true
	}
	return g.Deadline.After(now)
}

// acreageFits checks the band midpoint against the grant's optional
// [min, max] range, inclusive on both ends. An absent bound is unbounded
// on that side.
func acreageFits(band models.AcresBand, g *models.Grant) bool {
	if g.MinAcres == nil && g.MaxAcres == nil {
		return true
	}
	mid := band.Midpoint()
	if g.MinAcres != nil && mid < *g.MinAcres {
		return false
	}
	if g.MaxAcres != nil && mid > *g.MaxAcres {
		return false
	}
	return true
}
