package edbo

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		// http.Transport keeps idle connections alive briefly after tests.
		goleak.IgnoreTopFunction("internal/poll.runtime_pollWait"),
		goleak.IgnoreTopFunction("net/http.(*persistConn).writeLoop"),
		goleak.IgnoreTopFunction("net/http.(*persistConn).readLoop"),
		// Cache janitors live for the client's lifetime.
		goleak.IgnoreAnyFunction("github.com/edbo-tools/edbo-go/internal/cache.(*janitor).run"),
	)
}

func TestUniversitiesByRegionsPreservesOrder(t *testing.T) {
	mock := NewMockServer()
	defer mock.Close()

	mock.AddUniversities(RegionLviv, CategoryHigherEducation, []UniversityBrief{
		{ID: "300", Name: "Львівський національний університет імені Івана Франка"},
	})
	mock.AddUniversities(RegionKharkiv, CategoryHigherEducation, []UniversityBrief{
		{ID: "400", Name: "Харківський національний університет імені В. Н. Каразіна"},
	})

	c := newTestClient(t, mock.URL)
	regions := []Region{RegionLviv, RegionKyivCity, RegionKharkiv}

	results, err := c.UniversitiesByRegions(context.Background(), CategoryHigherEducation, regions, 2)
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, RegionLviv, results[0].Region)
	assert.Equal(t, RegionKyivCity, results[1].Region)
	assert.Equal(t, RegionKharkiv, results[2].Region)

	assert.Len(t, results[0].Universities, 1)
	assert.Len(t, results[1].Universities, 2) // default fixture
	assert.Len(t, results[2].Universities, 1)
}

func TestUniversitiesByRegionsPropagatesFailure(t *testing.T) {
	mock := NewMockServer()
	defer mock.Close()

	// Fail beyond retry budget so the batch sees the error.
	mock.SetFailures("/api/universities", 100)

	c := newTestClient(t, mock.URL)
	_, err := c.UniversitiesByRegions(context.Background(), CategoryHigherEducation,
		[]Region{RegionKyivCity, RegionLviv}, 1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUpstream))
}

func TestUniversitiesByRegionsValidatesCategory(t *testing.T) {
	c := newTestClient(t, "http://127.0.0.1:0")

	_, err := c.UniversitiesByRegions(context.Background(), UniversityCategory(0),
		[]Region{RegionKyivCity}, 0)

	var missing *MissingParamError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "university_category", missing.Field)
}

func TestInstitutionsByRegions(t *testing.T) {
	mock := NewMockServer()
	defer mock.Close()

	c := newTestClient(t, mock.URL)
	results, err := c.InstitutionsByRegions(context.Background(), CategoryGeneralSecondary,
		[]Region{RegionLviv, RegionSumy}, 0)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Len(t, results[0].Institutions, 1)
	assert.Empty(t, results[1].Institutions)
}
