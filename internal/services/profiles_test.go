package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"farmfund/grant-matcher/internal/models"
)

type fakeProfileRepo struct {
	byID map[uuid.UUID]*models.FarmProfile
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{byID: make(map[uuid.UUID]*models.FarmProfile)}
}

func (f *fakeProfileRepo) Create(profile *models.FarmProfile) error {
	f.byID[profile.ID] = profile
	return nil
}

func (f *fakeProfileRepo) FindByID(id uuid.UUID) (*models.FarmProfile, error) {
	p, ok := f.byID[id]
	if !ok {
		return nil, fmt.Errorf("profile not found")
	}
	copied := *p
	return &copied, nil
}

func (f *fakeProfileRepo) FindByUserID(userID uuid.UUID) (*models.FarmProfile, error) {
	for _, p := range f.byID {
		if p.UserID == userID {
			copied := *p
			return &copied, nil
		}
	}
	return nil, fmt.Errorf("profile not found")
}

func (f *fakeProfileRepo) Update(profile *models.FarmProfile) error {
	if _, ok := f.byID[profile.ID]; !ok {
		return fmt.Errorf("profile not found")
	}
	f.byID[profile.ID] = profile
	return nil
}

func newTestProfileService(repo *fakeProfileRepo) ProfileService {
	return NewProfileService(repo, nil, 0, zap.NewNop())
}

func TestProfileServiceCreate(t *testing.T) {
	repo := newFakeProfileRepo()
	svc := newTestProfileService(repo)
	userID := uuid.New()

	profile, err := svc.Create(userID, models.ProfileAttributes{
		"state":          "CA",
		"county":         "Fresno",
		"farm_type":      "orchard",
		"acres_band":     "50_100",
		"operator_type":  "llc",
		"employee_count": float64(3),
		"goals":          []interface{}{"equipment"},
	})

	require.NoError(t, err)
	assert.Equal(t, userID, profile.UserID)
	assert.Equal(t, models.FarmTypeOrchard, profile.FarmType)
	assert.Equal(t, models.OperatorLLC, profile.OperatorType)
	assert.Contains(t, repo.byID, profile.ID)
}

func TestProfileServiceCreate_RejectsMissingState(t *testing.T) {
	svc := newTestProfileService(newFakeProfileRepo())

	_, err := svc.Create(uuid.New(), models.ProfileAttributes{
		"farm_type": "dairy",
	})

	assert.Error(t, err)
}

func TestProfileServiceGetByID_NormalizesLegacyValues(t *testing.T) {
	repo := newFakeProfileRepo()
	stored := &models.FarmProfile{
		ID:            uuid.New(),
		UserID:        uuid.New(),
		State:         "CA",
		FarmType:      models.FarmType("ranch"),   // legacy value
		AcresBand:     models.AcresBand("medium"), // legacy value
		OperatorType:  models.OperatorIndividual,
		EmployeeCount: -2,
		SchemaVersion: 1,
	}
	repo.byID[stored.ID] = stored

	svc := newTestProfileService(repo)
	profile, err := svc.GetByID(context.Background(), stored.ID)

	require.NoError(t, err)
	assert.Equal(t, models.FarmTypeMixed, profile.FarmType)
	assert.Equal(t, models.Acres10To50, profile.AcresBand)
	assert.Equal(t, 0, profile.EmployeeCount)
}

func TestProfileServiceUpdate_PartialAttributes(t *testing.T) {
	repo := newFakeProfileRepo()
	svc := newTestProfileService(repo)

	profile, err := svc.Create(uuid.New(), models.ProfileAttributes{
		"state":     "CA",
		"county":    "Fresno",
		"farm_type": "orchard",
		"goals":     []interface{}{"equipment"},
	})
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), profile.ID, models.ProfileAttributes{
		"goals": []interface{}{"irrigation", "conservation"},
	})

	require.NoError(t, err)
	assert.Equal(t, "CA", updated.State)
	assert.Equal(t, models.FarmTypeOrchard, updated.FarmType)
	assert.Equal(t, []models.FundingGoal{models.GoalIrrigation, models.GoalConservation}, updated.Goals)
}

func TestProfileServiceUpdate_UnknownProfile(t *testing.T) {
	svc := newTestProfileService(newFakeProfileRepo())

	_, err := svc.Update(context.Background(), uuid.New(), models.ProfileAttributes{"state": "CA"})

	assert.Error(t, err)
}
