package prefs_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"weather-aggregator-api/internal/prefs"
	"weather-aggregator-api/internal/store"
)

func TestLogSearch_RanksByFrequency(t *testing.T) {
	ranker := prefs.NewRanker(store.NewMemoryStore())
	ctx := context.Background()

	require.NoError(t, ranker.LogSearch(ctx, "u1", "Paris"))
	require.NoError(t, ranker.LogSearch(ctx, "u1", "Rome"))
	require.NoError(t, ranker.LogSearch(ctx, "u1", "Paris"))
	require.NoError(t, ranker.LogSearch(ctx, "u1", "Paris"))

	top, err := ranker.TopSearches(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, []string{"Paris", "Rome"}, top)
}

func TestTopSearches_TiesKeepFirstSearchedOrder(t *testing.T) {
	ranker := prefs.NewRanker(store.NewMemoryStore())
	ctx := context.Background()

	require.NoError(t, ranker.LogSearch(ctx, "u1", "Rome"))
	require.NoError(t, ranker.LogSearch(ctx, "u1", "Paris"))
	require.NoError(t, ranker.LogSearch(ctx, "u1", "Paris"))
	require.NoError(t, ranker.LogSearch(ctx, "u1", "Rome"))

	top, err := ranker.TopSearches(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, []string{"Rome", "Paris"}, top)
}

func TestTopSearches_CappedAtFive(t *testing.T) {
	ranker := prefs.NewRanker(store.NewMemoryStore())
	ctx := context.Background()

	cities := []string{"Paris", "Rome", "Oslo", "Lima", "Cairo", "Tokyo", "Sydney"}
	for i, city := range cities {
		// Searching each city a decreasing number of times fixes the order.
		for n := 0; n <= len(cities)-i; n++ {
			require.NoError(t, ranker.LogSearch(ctx, "u1", city))
		}
	}

	top, err := ranker.TopSearches(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, []string{"Paris", "Rome", "Oslo", "Lima", "Cairo"}, top)
}

func TestTopSearches_PerUser(t *testing.T) {
	ranker := prefs.NewRanker(store.NewMemoryStore())
	ctx := context.Background()

	require.NoError(t, ranker.LogSearch(ctx, "u1", "Paris"))
	require.NoError(t, ranker.LogSearch(ctx, "u2", "Tokyo"))

	top, err := ranker.TopSearches(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, []string{"Paris"}, top)
}

func TestDefaultLocation_PrefersProvided(t *testing.T) {
	ranker := prefs.NewRanker(store.NewMemoryStore())
	ctx := context.Background()

	require.NoError(t, ranker.LogSearch(ctx, "u1", "Paris"))

	loc, err := ranker.DefaultLocation(ctx, "u1", "Berlin")
	require.NoError(t, err)
	assert.Equal(t, "Berlin", loc)
}

func TestDefaultLocation_FallsBackToTopSearch(t *testing.T) {
	ranker := prefs.NewRanker(store.NewMemoryStore())
	ctx := context.Background()

	require.NoError(t, ranker.LogSearch(ctx, "u1", "Rome"))
	require.NoError(t, ranker.LogSearch(ctx, "u1", "Paris"))
	require.NoError(t, ranker.LogSearch(ctx, "u1", "Paris"))

	loc, err := ranker.DefaultLocation(ctx, "u1", "")
	require.NoError(t, err)
	assert.Equal(t, "Paris", loc)
}

func TestDefaultLocation_NoHistory(t *testing.T) {
	ranker := prefs.NewRanker(store.NewMemoryStore())

	_, err := ranker.DefaultLocation(context.Background(), "u1", "")
	assert.ErrorIs(t, err, prefs.ErrNoDefaultLocation)
}

func TestHomeLocation(t *testing.T) {
	ranker := prefs.NewRanker(store.NewMemoryStore())
	ctx := context.Background()

	_, err := ranker.HomeLocation(ctx, "u1")
	assert.ErrorIs(t, err, prefs.ErrNotFound)

	msg, err := ranker.SetHomeLocation(ctx, "u1", "Lisbon")
	require.NoError(t, err)
	assert.Equal(t, "User u1's location updated to Lisbon.", msg)

	loc, err := ranker.HomeLocation(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "Lisbon", loc)

	// Setting again overwrites.
	_, err = ranker.SetHomeLocation(ctx, "u1", "Porto")
	require.NoError(t, err)
	loc, err = ranker.HomeLocation(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "Porto", loc)
}

func TestSubmitFeedback(t *testing.T) {
	ranker := prefs.NewRanker(store.NewMemoryStore())
	ctx := context.Background()

	msg, err := ranker.SubmitFeedback(ctx, "u1", 4, "forecast was spot on")
	require.NoError(t, err)
	assert.Equal(t, "Feedback from user u1 recorded.", msg)

	for _, bad := range []int{0, 6, -1} {
		_, err := ranker.SubmitFeedback(ctx, "u1", bad, "")
		assert.Error(t, err, "rating %d", bad)
	}
}
