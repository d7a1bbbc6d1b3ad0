package snapshot

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	edbo "github.com/edbo-tools/edbo-go"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, s.Close())
	})
	return s
}

func TestUniversityRoundTrip(t *testing.T) {
	s := openTestStore(t)

	rec := &UniversityRecord{
		Region:    edbo.RegionKyivCity,
		Category:  edbo.CategoryHigherEducation,
		FetchedAt: time.Now().Truncate(time.Second),
		Universities: []edbo.UniversityBrief{
			{ID: "41", Name: "Київський національний університет імені Тараса Шевченка"},
		},
	}
	require.NoError(t, s.PutUniversities(rec))

	got, err := s.GetUniversities(edbo.RegionKyivCity, edbo.CategoryHigherEducation)
	require.NoError(t, err)
	assert.Equal(t, rec.Region, got.Region)
	require.Len(t, got.Universities, 1)
	assert.Equal(t, edbo.FlexString("41"), got.Universities[0].ID)
	assert.True(t, rec.FetchedAt.Equal(got.FetchedAt))
}

func TestInstitutionRoundTrip(t *testing.T) {
	s := openTestStore(t)

	rec := &InstitutionRecord{
		Region:    edbo.RegionLviv,
		Category:  edbo.CategoryGeneralSecondary,
		FetchedAt: time.Now(),
		Institutions: []edbo.Institution{
			{ID: "9001", Name: "Львівська гімназія №1"},
		},
	}
	require.NoError(t, s.PutInstitutions(rec))

	got, err := s.GetInstitutions(edbo.RegionLviv, edbo.CategoryGeneralSecondary)
	require.NoError(t, err)
	require.Len(t, got.Institutions, 1)
	assert.Equal(t, "Львівська гімназія №1", got.Institutions[0].Name)
}

func TestGetMissingReturnsNotFound(t *testing.T) {
	s := openTestStore(t)

	_, err := s.GetUniversities(edbo.RegionSumy, edbo.CategoryHigherEducation)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestKeysSeparateNamespaces(t *testing.T) {
	s := openTestStore(t)

	require.NoError(t, s.PutUniversities(&UniversityRecord{
		Region:   edbo.RegionKyivCity,
		Category: edbo.CategoryHigherEducation,
	}))
	require.NoError(t, s.PutInstitutions(&InstitutionRecord{
		Region:   edbo.RegionKyivCity,
		Category: edbo.CategoryGeneralSecondary,
	}))

	keys, err := s.Keys()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"uni:80:1", "inst:80:3"}, keys)
}

func TestPutOverwrites(t *testing.T) {
	s := openTestStore(t)

	first := &UniversityRecord{
		Region:       edbo.RegionLviv,
		Category:     edbo.CategoryHigherEducation,
		Universities: []edbo.UniversityBrief{{ID: "1"}},
	}
	require.NoError(t, s.PutUniversities(first))

	second := &UniversityRecord{
		Region:       edbo.RegionLviv,
		Category:     edbo.CategoryHigherEducation,
		Universities: []edbo.UniversityBrief{{ID: "1"}, {ID: "2"}},
	}
	require.NoError(t, s.PutUniversities(second))

	got, err := s.GetUniversities(edbo.RegionLviv, edbo.CategoryHigherEducation)
	require.NoError(t, err)
	assert.Len(t, got.Universities, 2)
}
