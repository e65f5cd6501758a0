package models

import "github.com/google/uuid"

// MatchOptions are the caller-supplied controls on a ranked result. Defaults
// and the maximum limit are configuration, applied at the HTTP layer before
// the engine runs.
type MatchOptions struct {
	Limit    int `json:"limit"`
	MinScore int `json:"min_score"`
}

// MatchResult is one scored grant in a response. MatchedOn lists the soft
// dimensions that contributed to the score.
type MatchResult struct {
	GrantID   uuid.UUID `json:"grant_id"`
	Score     int       `json:"score"`
	MatchedOn []string  `json:"matched_on"`
	Grant     Grant     `json:"grant"`
}

// MatchResponse is built fresh per call and never persisted. TotalMatches
// counts everything that survived the minScore cutoff, before Limit.
type MatchResponse struct {
	Results      []MatchResult `json:"results"`
	TotalMatches int           `json:"total_matches"`
	Options      MatchOptions  `json:"options"`
}

type MatchRequest struct {
	ProfileID string `json:"profile_id" validate:"required,uuid"`
	Limit     *int   `json:"limit,omitempty"`
	MinScore  *int   `json:"min_score,omitempty"`
}

// MatchAPIResponse wraps the engine result with the request metadata the
// HTTP layer adds.
type MatchAPIResponse struct {
	Results       []MatchResult `json:"results"`
	TotalMatches  int           `json:"total_matches"`
	Options       MatchOptions  `json:"options"`
	DurationMs    int64         `json:"duration_ms"`
	EngineVersion string        `json:"engine_version"`
}

// HealthResponse reports catalog freshness. LastLoaded is RFC3339 or the
// literal "never" before the first successful load.
type HealthResponse struct {
	Status     string `json:"status"`
	Count      int    `json:"count"`
	LastLoaded string `json:"last_loaded"`
}

type ProfileRequest struct {
	UserID     string            `json:"user_id" validate:"required,uuid"`
	Attributes ProfileAttributes `json:"attributes"`
}

type GrantSearchResult struct {
	Grant Grant   `json:"grant"`
	Score float32 `json:"score"`
}
