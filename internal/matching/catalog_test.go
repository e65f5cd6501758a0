package matching

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"farmfund/grant-matcher/internal/models"
)

func TestCatalogLoad_BuildsSnapshot(t *testing.T) {
	a := openGrant("Alpha")
	b := openGrant("Beta")
	catalog := NewCatalog(&fakeGrantSource{grants: []models.Grant{a, b}}, zap.NewNop())

	require.Nil(t, catalog.Current())
	require.NoError(t, catalog.Load(context.Background()))

	snap := catalog.Current()
	require.NotNil(t, snap)
	assert.Equal(t, 2, snap.Count())
	assert.False(t, snap.LoadedAt().IsZero())

	got, ok := snap.Get(b.ID)
	require.True(t, ok)
	assert.Equal(t, "Beta", got.Title)

	_, ok = snap.Get(uuid.New())
	assert.False(t, ok)
}

func TestCatalogLoad_SkipsMalformedRecords(t *testing.T) {
	good := openGrant("Good Grant")
	noTitle := openGrant("")
	badStatus := openGrant("Bad Status")
	badStatus.Status = models.GrantStatus("abandoned")
	inverted := openGrant("Inverted Acreage")
	inverted.MinAcres = floatPtr(500)
	inverted.MaxAcres = floatPtr(10)

	source := &fakeGrantSource{grants: []models.Grant{noTitle, good, badStatus, inverted}}
	catalog := NewCatalog(source, zap.NewNop())

	require.NoError(t, catalog.Load(context.Background()))

	snap := catalog.Current()
	require.NotNil(t, snap)
	assert.Equal(t, 1, snap.Count())
	assert.Equal(t, "Good Grant", snap.Grants()[0].Title)
}

func TestCatalogLoad_FailureKeepsPreviousSnapshot(t *testing.T) {
	source := &fakeGrantSource{grants: []models.Grant{openGrant("Survivor")}}
	catalog := NewCatalog(source, zap.NewNop())
	require.NoError(t, catalog.Load(context.Background()))

	source.err = errors.New("connection refused")
	err := catalog.Load(context.Background())

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCatalogUnavailable)

	snap := catalog.Current()
	require.NotNil(t, snap)
	assert.Equal(t, 1, snap.Count())
	assert.Equal(t, "Survivor", snap.Grants()[0].Title)
}

func TestCatalogHealth(t *testing.T) {
	catalog := NewCatalog(&fakeGrantSource{grants: []models.Grant{openGrant("Only")}}, zap.NewNop())

	health := catalog.Health()
	assert.Equal(t, 0, health.Count)
	assert.Nil(t, health.LastLoaded)

	require.NoError(t, catalog.Load(context.Background()))

	health = catalog.Health()
	assert.Equal(t, 1, health.Count)
	require.NotNil(t, health.LastLoaded)
	assert.False(t, health.LastLoaded.IsZero())
}

func TestCatalogReload_SwapsWholeSnapshot(t *testing.T) {
	source := &fakeGrantSource{grants: []models.Grant{openGrant("First")}}
	catalog := NewCatalog(source, zap.NewNop())
	require.NoError(t, catalog.Load(context.Background()))

	old := catalog.Current()

	source.grants = []models.Grant{openGrant("Second"), openGrant("Third")}
	require.NoError(t, catalog.Load(context.Background()))

	// The old snapshot a reader captured is untouched by the reload.
	assert.Equal(t, 1, old.Count())
	assert.Equal(t, "First", old.Grants()[0].Title)

	fresh := catalog.Current()
	assert.Equal(t, 2, fresh.Count())
}
