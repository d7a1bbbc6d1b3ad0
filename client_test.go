package edbo

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

func newTestClient(t *testing.T, base string) *Client {
	t.Helper()
	c, err := NewWithOptions(Options{
		BaseURL:        base,
		Timeout:        2 * time.Second,
		Backoff:        time.Millisecond,
		MaxBackoff:     5 * time.Millisecond,
		RateLimit:      rate.Inf,
		RateLimitBurst: 1,
	})
	require.NoError(t, err)
	return c
}

func TestUniversitiesListsFixture(t *testing.T) {
	mock := NewMockServer()
	defer mock.Close()

	c := newTestClient(t, mock.URL)
	params := NewSearchParams().
		WithRegion(RegionKyivCity).
		WithUniversityCategory(CategoryHigherEducation)

	list, err := c.Universities(context.Background(), params)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, FlexString("41"), list[0].ID)
	assert.Equal(t, "Taras Shevchenko National University of Kyiv", list[0].NameEN)
}

func TestUniversitiesEmptyRegion(t *testing.T) {
	mock := NewMockServer()
	defer mock.Close()

	c := newTestClient(t, mock.URL)
	params := NewSearchParams().
		WithRegion(RegionSumy).
		WithUniversityCategory(CategoryHigherEducation)

	list, err := c.Universities(context.Background(), params)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestUniversityByIDDetail(t *testing.T) {
	mock := NewMockServer()
	defer mock.Close()

	c := newTestClient(t, mock.URL)
	u, err := c.UniversityByID(context.Background(), 41)
	require.NoError(t, err)
	assert.Equal(t, FlexString("41"), u.ID)
	assert.Len(t, u.Faculties, 2)
	assert.Len(t, u.Branches, 1)
	require.Len(t, u.SpecialityLicenses, 1)
	assert.Equal(t, "121", u.SpecialityLicenses[0].SpecialityCode)
}

func TestUniversityByIDNotFound(t *testing.T) {
	mock := NewMockServer()
	defer mock.Close()

	c := newTestClient(t, mock.URL)
	_, err := c.UniversityByID(context.Background(), 999999)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
	assert.Equal(t, "university", apiErr.Operation)
}

func TestInstitutionsAndSchool(t *testing.T) {
	mock := NewMockServer()
	defer mock.Close()

	c := newTestClient(t, mock.URL)
	params := NewSearchParams().
		WithRegion(RegionLviv).
		WithInstitutionCategory(CategoryGeneralSecondary)

	list, err := c.Institutions(context.Background(), params)
	require.NoError(t, err)
	require.Len(t, list, 1)

	inst, err := c.SchoolByID(context.Background(), 9001)
	require.NoError(t, err)
	assert.Equal(t, "Львівська гімназія №1", inst.Name)
}

func TestParamValidationBeforeNetwork(t *testing.T) {
	// Base URL points nowhere; validation must reject before dialing.
	c := newTestClient(t, "http://127.0.0.1:0")

	tests := []struct {
		name      string
		call      func() error
		wantField string
	}{
		{
			name: "missing university category",
			call: func() error {
				_, err := c.Universities(context.Background(), NewSearchParams().WithRegion(RegionLviv))
				return err
			},
			wantField: "university_category",
		},
		{
			name: "missing region",
			call: func() error {
				_, err := c.Universities(context.Background(),
					NewSearchParams().WithUniversityCategory(CategoryHigherEducation))
				return err
			},
			wantField: "region",
		},
		{
			name: "missing institution category",
			call: func() error {
				_, err := c.Institutions(context.Background(), NewSearchParams().WithRegion(RegionLviv))
				return err
			},
			wantField: "institution_category",
		},
		{
			name: "missing id",
			call: func() error {
				_, err := c.UniversityByID(context.Background(), 0)
				return err
			},
			wantField: "id",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.call()
			var missing *MissingParamError
			require.ErrorAs(t, err, &missing)
			assert.Equal(t, tt.wantField, missing.Field)
		})
	}
}

func TestNegativeIDRejected(t *testing.T) {
	c := newTestClient(t, "http://127.0.0.1:0")

	_, err := c.UniversityByID(context.Background(), -5)
	var invalid *InvalidParamError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "id", invalid.Field)

	_, err = c.SchoolByID(context.Background(), -1)
	require.ErrorAs(t, err, &invalid)
}

func TestUnknownRegionRejected(t *testing.T) {
	c := newTestClient(t, "http://127.0.0.1:0")

	params := NewSearchParams().
		WithRegion(Region(99)).
		WithUniversityCategory(CategoryHigherEducation)
	_, err := c.Universities(context.Background(), params)

	var invalid *InvalidParamError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "region", invalid.Field)
}

func TestRetryRecoversAfter5xx(t *testing.T) {
	mock := NewMockServer()
	defer mock.Close()

	mock.SetFailures("/api/universities", 1)

	c := newTestClient(t, mock.URL)
	params := NewSearchParams().
		WithRegion(RegionKyivCity).
		WithUniversityCategory(CategoryHigherEducation)

	list, err := c.Universities(context.Background(), params)
	require.NoError(t, err)
	assert.Len(t, list, 2)
	assert.Equal(t, 2, mock.Hits("/api/universities"))
}

func TestRetriesExhaustedMapsToUpstream(t *testing.T) {
	mock := NewMockServer()
	defer mock.Close()

	// More failures than maxRetries+1 attempts.
	mock.SetFailures("/api/universities", 10)

	c := newTestClient(t, mock.URL)
	params := NewSearchParams().
		WithRegion(RegionKyivCity).
		WithUniversityCategory(CategoryHigherEducation)

	_, err := c.Universities(context.Background(), params)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUpstream))
	assert.Equal(t, 3, mock.Hits("/api/universities")) // default: 2 retries
}

func TestClientErrorNotRetried(t *testing.T) {
	hits := 0
	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits++
		http.Error(w, "forbidden", http.StatusForbidden)
	}))
	defer s.Close()

	c := newTestClient(t, s.URL)
	_, err := c.UniversityByID(context.Background(), 41)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrForbidden))
	assert.Equal(t, 1, hits)
}

func TestRateLimitedStatus(t *testing.T) {
	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "slow down", http.StatusTooManyRequests)
	}))
	defer s.Close()

	c := newTestClient(t, s.URL)
	_, err := c.UniversityByID(context.Background(), 41)
	assert.True(t, errors.Is(err, ErrRateLimited))
}

func TestInvalidJSONMapsToBadResponse(t *testing.T) {
	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("{not-json"))
	}))
	defer s.Close()

	c := newTestClient(t, s.URL)
	_, err := c.UniversityByID(context.Background(), 41)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrBadResponse))
}

func TestTimeoutMapsToSentinel(t *testing.T) {
	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(5 * time.Second):
		}
	}))
	defer s.Close()

	c, err := NewWithOptions(Options{
		BaseURL:        s.URL,
		Timeout:        100 * time.Millisecond,
		MaxRetries:     1,
		Backoff:        time.Millisecond,
		RateLimit:      rate.Inf,
		RateLimitBurst: 1,
	})
	require.NoError(t, err)

	_, err = c.UniversityByID(context.Background(), 41)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTimeout))
}

func TestUnreachableHostMapsToUnavailable(t *testing.T) {
	c := newTestClient(t, "http://127.0.0.1:4") // nothing listens here

	_, err := c.UniversityByID(context.Background(), 41)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnavailable))
}

func TestContextCancellation(t *testing.T) {
	mock := NewMockServer()
	defer mock.Close()

	c := newTestClient(t, mock.URL)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.UniversityByID(ctx, 41)
	require.Error(t, err)
}

func TestResponseCacheServesSecondCall(t *testing.T) {
	mock := NewMockServer()
	defer mock.Close()

	c, err := NewWithOptions(Options{
		BaseURL:        mock.URL,
		CacheTTL:       time.Minute,
		RateLimit:      rate.Inf,
		RateLimitBurst: 1,
	})
	require.NoError(t, err)

	params := NewSearchParams().
		WithRegion(RegionKyivCity).
		WithUniversityCategory(CategoryHigherEducation)

	for i := 0; i < 3; i++ {
		list, err := c.Universities(context.Background(), params)
		require.NoError(t, err)
		require.Len(t, list, 2)
	}

	assert.Equal(t, 1, mock.Hits("/api/universities"))

	stats := c.CacheStats()
	assert.Equal(t, int64(2), stats.Hits)
	assert.Equal(t, int64(1), stats.Misses)
}

func TestCacheKeyDistinguishesQueries(t *testing.T) {
	mock := NewMockServer()
	defer mock.Close()

	c, err := NewWithOptions(Options{
		BaseURL:        mock.URL,
		CacheTTL:       time.Minute,
		RateLimit:      rate.Inf,
		RateLimitBurst: 1,
	})
	require.NoError(t, err)

	kyiv := NewSearchParams().
		WithRegion(RegionKyivCity).
		WithUniversityCategory(CategoryHigherEducation)
	lviv := NewSearchParams().
		WithRegion(RegionLviv).
		WithUniversityCategory(CategoryHigherEducation)

	_, err = c.Universities(context.Background(), kyiv)
	require.NoError(t, err)
	_, err = c.Universities(context.Background(), lviv)
	require.NoError(t, err)

	assert.Equal(t, 2, mock.Hits("/api/universities"))
}

func TestUniversitiesRawPreservesBody(t *testing.T) {
	// Unknown fields and numeric wire forms must survive a raw fetch.
	const payload = `[{"university_name":"X","university_id":41,"new_registry_field":"kept"}]`
	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(payload))
	}))
	defer s.Close()

	c := newTestClient(t, s.URL)
	params := NewSearchParams().
		WithRegion(RegionKyivCity).
		WithUniversityCategory(CategoryHigherEducation)

	body, err := c.UniversitiesRaw(context.Background(), params)
	require.NoError(t, err)
	assert.Equal(t, payload, string(body))

	// Raw lookups validate parameters like their typed counterparts.
	_, err = c.UniversitiesRaw(context.Background(), NewSearchParams())
	var missing *MissingParamError
	require.ErrorAs(t, err, &missing)
}

func TestNegativeMaxRetriesDisablesRetries(t *testing.T) {
	mock := NewMockServer()
	defer mock.Close()
	mock.SetFailures("/api/universities", 10)

	c, err := NewWithOptions(Options{
		BaseURL:        mock.URL,
		MaxRetries:     -1,
		Backoff:        time.Millisecond,
		RateLimit:      rate.Inf,
		RateLimitBurst: 1,
	})
	require.NoError(t, err)

	params := NewSearchParams().
		WithRegion(RegionKyivCity).
		WithUniversityCategory(CategoryHigherEducation)

	_, err = c.Universities(context.Background(), params)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUpstream))
	assert.Equal(t, 1, mock.Hits("/api/universities"))
}

func TestRequestShapeMatchesRegistry(t *testing.T) {
	var gotPath, gotQuery string
	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		_, _ = w.Write([]byte("[]"))
	}))
	defer s.Close()

	c := newTestClient(t, s.URL)
	params := NewSearchParams().
		WithRegion(RegionKyivCity).
		WithUniversityCategory(CategoryHigherEducation)
	_, err := c.Universities(context.Background(), params)
	require.NoError(t, err)

	assert.Equal(t, "/api/universities", gotPath)
	assert.Equal(t, "exp=json&lc=80&ut=1", gotQuery)
}
