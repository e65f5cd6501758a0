package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"farmfund/grant-matcher/internal/config"
	"farmfund/grant-matcher/internal/matching"
	"farmfund/grant-matcher/internal/models"
)

type stubGrantSource struct {
	grants []models.Grant
}

func (s *stubGrantSource) FindAll(_ context.Context) ([]models.Grant, error) {
	return s.grants, nil
}

type stubProfileService struct {
	profiles map[uuid.UUID]*models.FarmProfile
}

func (s *stubProfileService) Create(userID uuid.UUID, attrs models.ProfileAttributes) (*models.FarmProfile, error) {
	p := models.ProfileFromAttributes(userID, attrs)
	s.profiles[p.ID] = p
	return p, nil
}

func (s *stubProfileService) GetByID(_ context.Context, id uuid.UUID) (*models.FarmProfile, error) {
	p, ok := s.profiles[id]
	if !ok {
		return nil, fmt.Errorf("profile not found")
	}
	return p, nil
}

func (s *stubProfileService) Update(_ context.Context, id uuid.UUID, attrs models.ProfileAttributes) (*models.FarmProfile, error) {
	p, ok := s.profiles[id]
	if !ok {
		return nil, fmt.Errorf("profile not found")
	}
	p.ApplyAttributes(attrs)
	return p, nil
}

var testMatchingConfig = config.MatchingConfig{
	DefaultLimit:    10,
	MaxLimit:        50,
	DefaultMinScore: 40,
}

func openTestGrant(title string) models.Grant {
	return models.Grant{
		ID:     uuid.New(),
		Title:  title,
		Status: models.GrantOpen,
		States: []string{models.StateWildcard},
	}
}

func setupMatchApp(t *testing.T, loadCatalog bool, grants ...models.Grant) (*fiber.App, *stubProfileService) {
	t.Helper()

	catalog := matching.NewCatalog(&stubGrantSource{grants: grants}, zap.NewNop())
	if loadCatalog {
		require.NoError(t, catalog.Load(context.Background()))
	}
	engine := matching.NewEngine(catalog, matching.DefaultScoreWeights, zap.NewNop())

	profiles := &stubProfileService{profiles: make(map[uuid.UUID]*models.FarmProfile)}
	handler := NewMatchHandler(engine, profiles, testMatchingConfig)

	app := fiber.New()
	app.Post("/api/v1/match", handler.HandleMatch)
	return app, profiles
}

func seedProfile(t *testing.T, profiles *stubProfileService) *models.FarmProfile {
	t.Helper()
	p, err := profiles.Create(uuid.New(), models.ProfileAttributes{
		"state":     "CA",
		"county":    "Fresno",
		"farm_type": "orchard",
		"goals":     []interface{}{"equipment"},
	})
	require.NoError(t, err)
	return p
}

func postMatch(t *testing.T, app *fiber.App, body map[string]interface{}) *http.Response {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/match", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func TestHandleMatch_Success(t *testing.T) {
	app, profiles := setupMatchApp(t, true,
		openTestGrant("General Farm Fund"),
		openTestGrant("Another Open Program"),
	)
	profile := seedProfile(t, profiles)

	resp := postMatch(t, app, map[string]interface{}{
		"profile_id": profile.ID.String(),
		"min_score":  0,
	})
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body models.MatchAPIResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, 2, body.TotalMatches)
	assert.Len(t, body.Results, 2)
	assert.Equal(t, matching.Version, body.EngineVersion)
}

func TestHandleMatch_DefaultMinScoreFiltersBaseline(t *testing.T) {
	app, profiles := setupMatchApp(t, true, openTestGrant("Baseline Grant"))
	profile := seedProfile(t, profiles)

	// Default minScore is 40, baseline scores exactly 40: inclusive cutoff.
	resp := postMatch(t, app, map[string]interface{}{
		"profile_id": profile.ID.String(),
	})
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body models.MatchAPIResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, 1, body.TotalMatches)
}

func TestHandleMatch_ValidationErrors(t *testing.T) {
	app, profiles := setupMatchApp(t, true, openTestGrant("Any"))
	profile := seedProfile(t, profiles)

	tests := []struct {
		name string
		body map[string]interface{}
	}{
		{
			name: "missing profile_id",
			body: map[string]interface{}{},
		},
		{
			name: "malformed profile_id",
			body: map[string]interface{}{"profile_id": "not-a-uuid"},
		},
		{
			name: "zero limit",
			body: map[string]interface{}{"profile_id": profile.ID.String(), "limit": 0},
		},
		{
			name: "negative limit",
			body: map[string]interface{}{"profile_id": profile.ID.String(), "limit": -3},
		},
		{
			name: "min_score above 100",
			body: map[string]interface{}{"profile_id": profile.ID.String(), "min_score": 101},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := postMatch(t, app, tt.body)
			defer resp.Body.Close()
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		})
	}
}

func TestHandleMatch_UnknownProfile(t *testing.T) {
	app, _ := setupMatchApp(t, true, openTestGrant("Any"))

	resp := postMatch(t, app, map[string]interface{}{
		"profile_id": uuid.New().String(),
	})
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestHandleMatch_CatalogNotLoaded(t *testing.T) {
	app, profiles := setupMatchApp(t, false)
	profile := seedProfile(t, profiles)

	resp := postMatch(t, app, map[string]interface{}{
		"profile_id": profile.ID.String(),
	})
	defer resp.Body.Close()

	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestHandleMatch_LimitCappedAtMax(t *testing.T) {
	grants := make([]models.Grant, 0, 60)
	for i := 0; i < 60; i++ {
		grants = append(grants, openTestGrant(fmt.Sprintf("Grant %03d", i)))
	}
	app, profiles := setupMatchApp(t, true, grants...)
	profile := seedProfile(t, profiles)

	resp := postMatch(t, app, map[string]interface{}{
		"profile_id": profile.ID.String(),
		"limit":      500,
		"min_score":  0,
	})
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body models.MatchAPIResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, 60, body.TotalMatches)
	assert.Len(t, body.Results, testMatchingConfig.MaxLimit)
}
