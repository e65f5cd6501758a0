package matching

import (
	"sort"
	"strings"
	"time"

	"farmfund/grant-matcher/internal/models"
)

// Rank applies the inclusive minScore cutoff, orders the survivors, and
// truncates to the limit. TotalMatches counts everything after the cutoff
// but before the limit. The sort is stable: score descending, then nearest
// deadline ascending with absent deadlines last, then title ascending
// case-insensitively.
func Rank(scored []models.MatchResult, opts models.MatchOptions) models.MatchResponse {
	kept := make([]models.MatchResult, 0, len(scored))
	for _, r := range scored {
		if r.Score >= opts.MinScore {
			kept = append(kept, r)
		}
	}

	total := len(kept)

	sort.SliceStable(kept, func(i, j int) bool {
		a, b := kept[i], kept[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		ad, bd := effectiveDeadline(&a.Grant), effectiveDeadline(&b.Grant)
		switch {
		case ad != nil && bd != nil && !ad.Equal(*bd):
			return ad.Before(*bd)
		case ad != nil && bd == nil:
			return true
		case ad == nil && bd != nil:
			return false
		}
		return strings.ToLower(a.Grant.Title) < strings.ToLower(b.Grant.Title)
	})

	if opts.Limit > 0 && len(kept) > opts.Limit {
		kept = kept[:opts.Limit]
	}

	return models.MatchResponse{
		Results:      kept,
		TotalMatches: total,
		Options:      opts,
	}
}

// effectiveDeadline treats rolling grants as having no deadline for
// ordering purposes.
func effectiveDeadline(g *models.Grant) *time.Time {
	if g.Rolling {
		return nil
	}
	return g.Deadline
}
