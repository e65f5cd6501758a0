package matching

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"farmfund/grant-matcher/internal/models"
)

// ==========================
// Test Helper Functions
// ==========================

type fakeGrantSource struct {
	grants []models.Grant
	err    error
}

func (f *fakeGrantSource) FindAll(_ context.Context) ([]models.Grant, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.grants, nil
}

func loadedSnapshot(t *testing.T, grants ...models.Grant) *Snapshot {
	t.Helper()
	catalog := NewCatalog(&fakeGrantSource{grants: grants}, zap.NewNop())
	require.NoError(t, catalog.Load(context.Background()))
	snap := catalog.Current()
	require.NotNil(t, snap)
	return snap
}

func testProfile() *models.FarmProfile {
	return &models.FarmProfile{
		ID:            uuid.New(),
		UserID:        uuid.New(),
		State:         "CA",
		County:        "Fresno",
		FarmType:      models.FarmTypeOrchard,
		AcresBand:     models.Acres50To100,
		OperatorType:  models.OperatorIndividual,
		EmployeeCount: 4,
		Goals:         []models.FundingGoal{models.GoalEquipment},
		SchemaVersion: models.ProfileSchemaVersion,
	}
}

func openGrant(title string) models.Grant {
	return models.Grant{
		ID:     uuid.New(),
		Title:  title,
		Status: models.GrantOpen,
		States: []string{models.StateWildcard},
	}
}

func futureTime(d time.Duration) *time.Time {
	t := time.Now().Add(d)
	return &t
}

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int           { return &v }

// ==========================
// Eligibility Tests
// ==========================

func TestEligibleGrants_HardCuts(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name     string
		grant    func() models.Grant
		eligible bool
	}{
		{
			name: "open wildcard grant passes",
			grant: func() models.Grant {
				return openGrant("Anything Goes")
			},
			eligible: true,
		},
		{
			name: "targeted grant passes on all dimensions",
			grant: func() models.Grant {
				g := openGrant("Orchard Renewal")
				g.States = []string{"CA"}
				g.FarmTypes = []models.FarmType{models.FarmTypeOrchard, models.FarmTypeMixed}
				g.Goals = []models.FundingGoal{models.GoalEquipment, models.GoalIrrigation}
				return g
			},
			eligible: true,
		},
		{
			name: "closed grant is excluded",
			grant: func() models.Grant {
				g := openGrant("Closed Program")
				g.Status = models.GrantClosed
				return g
			},
			eligible: false,
		},
		{
			name: "draft grant is excluded",
			grant: func() models.Grant {
				g := openGrant("Draft Program")
				g.Status = models.GrantDraft
				return g
			},
			eligible: false,
		},
		{
			name: "out-of-state grant is excluded entirely",
			grant: func() models.Grant {
				g := openGrant("Texas Only")
				g.States = []string{"TX"}
				return g
			},
			eligible: false,
		},
		{
			name: "wrong farm type is excluded",
			grant: func() models.Grant {
				g := openGrant("Dairy Modernization")
				g.FarmTypes = []models.FarmType{models.FarmTypeDairy}
				return g
			},
			eligible: false,
		},
		{
			name: "wrong operator type is excluded",
			grant: func() models.Grant {
				g := openGrant("Cooperative Fund")
				g.OperatorTypes = []models.OperatorType{models.OperatorCooperative}
				return g
			},
			eligible: false,
		},
		{
			name: "past deadline is excluded",
			grant: func() models.Grant {
				g := openGrant("Expired Program")
				g.Deadline = futureTime(-24 * time.Hour)
				return g
			},
			eligible: false,
		},
		{
			name: "future deadline passes",
			grant: func() models.Grant {
				g := openGrant("Upcoming Program")
				g.Deadline = futureTime(24 * time.Hour)
				return g
			},
			eligible: true,
		},
		{
			name: "rolling grant passes despite past deadline",
			grant: func() models.Grant {
				g := openGrant("Rolling Program")
				g.Deadline = futureTime(-24 * time.Hour)
				g.Rolling = true
				return g
			},
			eligible: true,
		},
		{
			name: "acreage midpoint inside range passes",
			grant: func() models.Grant {
				// 50_100 band midpoint is 75
				g := openGrant("Mid-Size Farms")
				g.MinAcres = floatPtr(50)
				g.MaxAcres = floatPtr(100)
				return g
			},
			eligible: true,
		},
		{
			name: "acreage midpoint on inclusive bound passes",
			grant: func() models.Grant {
				g := openGrant("Exactly 75")
				g.MinAcres = floatPtr(75)
				g.MaxAcres = floatPtr(75)
				return g
			},
			eligible: true,
		},
		{
			name: "acreage midpoint below min is excluded",
			grant: func() models.Grant {
				g := openGrant("Large Farms Only")
				g.MinAcres = floatPtr(200)
				return g
			},
			eligible: false,
		},
		{
			name: "acreage midpoint above max is excluded",
			grant: func() models.Grant {
				g := openGrant("Small Farms Only")
				g.MaxAcres = floatPtr(50)
				return g
			},
			eligible: false,
		},
		{
			name: "absent min bound is unbounded below",
			grant: func() models.Grant {
				g := openGrant("Up To 500")
				g.MaxAcres = floatPtr(500)
				return g
			},
			eligible: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap := loadedSnapshot(t, tt.grant())
			eligible := EligibleGrants(testProfile(), snap, now)
			if tt.eligible {
				assert.Len(t, eligible, 1)
			} else {
				assert.Empty(t, eligible)
			}
		})
	}
}

func TestEligibleGrants_PreservesSnapshotOrder(t *testing.T) {
	a := openGrant("Alpha")
	b := openGrant("Beta")
	c := openGrant("Gamma")
	b.States = []string{"TX"} // filtered out

	snap := loadedSnapshot(t, a, b, c)
	eligible := EligibleGrants(testProfile(), snap, time.Now())

	assert.Len(t, eligible, 2)
	assert.Equal(t, "Alpha", eligible[0].Title)
	assert.Equal(t, "Gamma", eligible[1].Title)
}

func TestEligibleGrants_WildcardMatchesEveryState(t *testing.T) {
	snap := loadedSnapshot(t, openGrant("Nationwide"))

	for _, state := range []string{"CA", "TX", "VT", "HI"} {
		p := testProfile()
		p.State = state
		assert.Len(t, EligibleGrants(p, snap, time.Now()), 1, "state %s", state)
	}
}
