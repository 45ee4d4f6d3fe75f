package geo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockGeocoder struct {
	candidates []Candidate
	err        error
	calls      int
}

func (m *mockGeocoder) Search(_ context.Context, _ string) ([]Candidate, error) {
	m.calls++
	return m.candidates, m.err
}

func londonCandidate() Candidate {
	return Candidate{
		Lat:         51.5074,
		Lon:         -0.1278,
		Importance:  0.9,
		DisplayName: "London, Greater London, England, United Kingdom",
		Address: map[string]string{
			"city":    "London",
			"state":   "England",
			"country": "United Kingdom",
		},
	}
}

func TestResolve_ExactSubstringMatch(t *testing.T) {
	r := NewFuzzyResolver(&mockGeocoder{candidates: []Candidate{londonCandidate()}})

	place, err := r.Resolve(context.Background(), "london")
	require.NoError(t, err)

	assert.Equal(t, 51.5074, place.Lat)
	assert.Equal(t, -0.1278, place.Lon)
	assert.Equal(t, "London", place.Name)
	assert.Equal(t, "England", place.Region)
	assert.Equal(t, "United Kingdom", place.Country)
}

func TestResolve_TypoWithinSimilarityThreshold(t *testing.T) {
	r := NewFuzzyResolver(&mockGeocoder{candidates: []Candidate{londonCandidate()}})

	// "lonndon" vs "london": ratio 12/13 ≈ 0.92, well above 0.65.
	place, err := r.Resolve(context.Background(), "Lonndon")
	require.NoError(t, err)
	assert.Equal(t, "London", place.Name)
}

func TestResolve_BelowThresholdNotFound(t *testing.T) {
	r := NewFuzzyResolver(&mockGeocoder{candidates: []Candidate{
		{
			Lat:         48.8566,
			Lon:         2.3522,
			Importance:  0.8,
			DisplayName: "Paris",
			Address:     map[string]string{"city": "Paris", "country": "France"},
		},
	}})

	_, err := r.Resolve(context.Background(), "Zzqxw")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestResolve_EmptyQuery(t *testing.T) {
	geocoder := &mockGeocoder{}
	r := NewFuzzyResolver(geocoder)

	_, err := r.Resolve(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Zero(t, geocoder.calls, "empty query must not hit the geocoder")
}

func TestResolve_ProviderErrorBecomesNotFound(t *testing.T) {
	r := NewFuzzyResolver(&mockGeocoder{err: errors.New("connection refused")})

	_, err := r.Resolve(context.Background(), "London")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestResolve_NoCandidates(t *testing.T) {
	r := NewFuzzyResolver(&mockGeocoder{})

	_, err := r.Resolve(context.Background(), "Atlantis")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestResolve_PrefersHigherImportance(t *testing.T) {
	low := Candidate{
		Lat: 42.98, Lon: -81.24, Importance: 0.4,
		DisplayName: "London, Ontario, Canada",
		Address:     map[string]string{"city": "London", "state": "Ontario", "country": "Canada"},
	}
	r := NewFuzzyResolver(&mockGeocoder{candidates: []Candidate{low, londonCandidate()}})

	place, err := r.Resolve(context.Background(), "London")
	require.NoError(t, err)
	assert.Equal(t, "United Kingdom", place.Country)
}

func TestResolve_ImportanceTiesKeepProviderOrder(t *testing.T) {
	first := Candidate{
		Lat: 1, Lon: 1, Importance: 0.5,
		DisplayName: "Springfield, Illinois",
		Address:     map[string]string{"city": "Springfield", "state": "Illinois", "country": "United States"},
	}
	second := Candidate{
		Lat: 2, Lon: 2, Importance: 0.5,
		DisplayName: "Springfield, Missouri",
		Address:     map[string]string{"city": "Springfield", "state": "Missouri", "country": "United States"},
	}
	r := NewFuzzyResolver(&mockGeocoder{candidates: []Candidate{first, second}})

	place, err := r.Resolve(context.Background(), "Springfield")
	require.NoError(t, err)
	assert.Equal(t, "Illinois", place.Region)
}

func TestResolve_DisplayNameFallback(t *testing.T) {
	r := NewFuzzyResolver(&mockGeocoder{candidates: []Candidate{
		{
			Lat: 27.175, Lon: 78.042, Importance: 0.7,
			DisplayName: "Taj Mahal, Agra, Uttar Pradesh, India",
			Address:     map[string]string{"state": "Uttar Pradesh", "country": "India"},
		},
	}})

	place, err := r.Resolve(context.Background(), "Taj Mahal")
	require.NoError(t, err)
	assert.Equal(t, "Taj Mahal, Agra, Uttar Pradesh, India", place.Name)
	assert.Equal(t, "Uttar Pradesh", place.Region)
}

func TestSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, similarity("london", "london"), 1e-9)
	assert.GreaterOrEqual(t, similarity("lonndon", "london"), 0.65)
	assert.Less(t, similarity("zzqxw", "paris"), 0.65)
}

func TestCachingResolver_MemoizesSuccess(t *testing.T) {
	geocoder := &mockGeocoder{candidates: []Candidate{londonCandidate()}}
	cached := NewCachingResolver(NewFuzzyResolver(geocoder), 16, time.Minute)

	for i := 0; i < 3; i++ {
		place, err := cached.Resolve(context.Background(), "London")
		require.NoError(t, err)
		assert.Equal(t, "London", place.Name)
	}
	assert.Equal(t, 1, geocoder.calls)
}

func TestCachingResolver_DoesNotCacheNotFound(t *testing.T) {
	geocoder := &mockGeocoder{}
	cached := NewCachingResolver(NewFuzzyResolver(geocoder), 16, time.Minute)

	for i := 0; i < 2; i++ {
		_, err := cached.Resolve(context.Background(), "Atlantis")
		assert.ErrorIs(t, err, ErrNotFound)
	}
	assert.Equal(t, 2, geocoder.calls)
}
