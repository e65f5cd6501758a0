package matching

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"farmfund/grant-matcher/internal/models"
)

// Version is the engine marker the HTTP layer reports alongside results.
const Version = "matcher/1"

// ErrInvalidProfile means the profile failed the enum/range invariants even
// after upstream normalization. Matching is not attempted.
var ErrInvalidProfile = errors.New("invalid farm profile")

// Engine runs the deterministic filter, score, and rank pipeline over the
// current catalog snapshot. It is stateless between calls and safe for any
// number of concurrent callers; a reload running concurrently never affects
// a call that already captured its snapshot.
type Engine struct {
	catalog *Catalog
	weights ScoreWeights
	logger  *zap.Logger
}

func NewEngine(catalog *Catalog, weights ScoreWeights, logger *zap.Logger) *Engine {
	return &Engine{
		catalog: catalog,
		weights: weights,
		logger:  logger,
	}
}

// Match returns the ranked, bounded result set for the profile, or a typed
// error. It never returns a partially filled response.
func (e *Engine) Match(_ context.Context, profile *models.FarmProfile, opts models.MatchOptions) (*models.MatchResponse, error) {
	start := time.Now()

	if err := profile.Validate(); err != nil {
		matchRequestsTotal.WithLabelValues("invalid_profile").Inc()
		return nil, fmt.Errorf("%w: %v", ErrInvalidProfile, err)
	}

	snap := e.catalog.Current()
	if snap == nil {
		matchRequestsTotal.WithLabelValues("no_snapshot").Inc()
		return nil, ErrNoSnapshot
	}

	eligible := EligibleGrants(profile, snap, start)

	scored := make([]models.MatchResult, 0, len(eligible))
	for i := range eligible {
		score, matched := Score(profile, &eligible[i], e.weights)
		scored = append(scored, models.MatchResult{
			GrantID:   eligible[i].ID,
			Score:     score,
			MatchedOn: matched,
			Grant:     eligible[i],
		})
	}

	resp := Rank(scored, opts)

	matchRequestsTotal.WithLabelValues("ok").Inc()
	matchDuration.Observe(time.Since(start).Seconds())

	e.logger.Debug("match completed",
		zap.String("profile_id", profile.ID.String()),
		zap.Int("eligible", len(eligible)),
		zap.Int("total_matches", resp.TotalMatches),
		zap.Int("returned", len(resp.Results)),
	)
	return &resp, nil
}

// Health exposes the catalog freshness view for the health endpoint.
func (e *Engine) Health() Health {
	return e.catalog.Health()
}
