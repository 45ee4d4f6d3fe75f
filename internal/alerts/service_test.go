package alerts_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"weather-aggregator-api/internal/alerts"
	"weather-aggregator-api/internal/store"
	"weather-aggregator-api/internal/weather"
)

func floatPtr(v float64) *float64 { return &v }

func TestSubscribeNormal(t *testing.T) {
	svc := alerts.NewService(store.NewMemoryStore())

	msg, err := svc.SubscribeNormal(context.Background(), "u1", "London", 2)
	require.NoError(t, err)
	assert.Equal(t, "User u1 subscribed to alert type 2 (High temperature warning (Temperature > 30°C)) for London.", msg)
}

func TestSubscribeNormal_InvalidKind(t *testing.T) {
	svc := alerts.NewService(store.NewMemoryStore())

	_, err := svc.SubscribeNormal(context.Background(), "u1", "London", 9)
	var verr *alerts.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "alert_kind", verr.Field)
}

func TestSubscribeNormal_DuplicateRejected(t *testing.T) {
	svc := alerts.NewService(store.NewMemoryStore())
	ctx := context.Background()

	_, err := svc.SubscribeNormal(ctx, "u1", "London", 1)
	require.NoError(t, err)

	_, err = svc.SubscribeNormal(ctx, "u1", "London", 1)
	assert.ErrorIs(t, err, alerts.ErrDuplicateSubscription)

	// The original subscription survives the rejected retry.
	subs, err := svc.ListSubscriptions(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, subs, 1)
}

func TestSubscribeNormal_SameKindDifferentLocation(t *testing.T) {
	svc := alerts.NewService(store.NewMemoryStore())
	ctx := context.Background()

	_, err := svc.SubscribeNormal(ctx, "u1", "London", 1)
	require.NoError(t, err)
	_, err = svc.SubscribeNormal(ctx, "u1", "Paris", 1)
	require.NoError(t, err)
	_, err = svc.SubscribeNormal(ctx, "u2", "London", 1)
	require.NoError(t, err)
}

func TestSubscribeCustom_DuplicateRejected(t *testing.T) {
	svc := alerts.NewService(store.NewMemoryStore())
	ctx := context.Background()

	_, err := svc.SubscribeCustom(ctx, "u1", "Madrid", "temperature", ">", "30")
	require.NoError(t, err)

	_, err = svc.SubscribeCustom(ctx, "u1", "Madrid", "temperature", ">", "30")
	assert.ErrorIs(t, err, alerts.ErrDuplicateSubscription)

	// A different threshold is a distinct subscription.
	_, err = svc.SubscribeCustom(ctx, "u1", "Madrid", "temperature", ">", "35")
	require.NoError(t, err)
}

func TestCancelNormal(t *testing.T) {
	svc := alerts.NewService(store.NewMemoryStore())
	ctx := context.Background()

	_, err := svc.SubscribeNormal(ctx, "u1", "London", 2)
	require.NoError(t, err)

	msg, err := svc.CancelNormal(ctx, "u1", "London", 2)
	require.NoError(t, err)
	assert.Equal(t, "Cancelled normal alert type 2 (High temperature warning (Temperature > 30°C)) for London.", msg)

	subs, err := svc.ListSubscriptions(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, subs)
}

func TestCancelNormal_NoMatch(t *testing.T) {
	svc := alerts.NewService(store.NewMemoryStore())

	_, err := svc.CancelNormal(context.Background(), "u1", "London", 2)
	assert.ErrorIs(t, err, alerts.ErrNoMatch)
}

func TestCancelCustom_DifferentThresholdLeavesOriginal(t *testing.T) {
	svc := alerts.NewService(store.NewMemoryStore())
	ctx := context.Background()

	_, err := svc.SubscribeCustom(ctx, "u1", "Madrid", "temperature", ">", "30")
	require.NoError(t, err)

	// Cancel differing only in threshold must miss, not cancel the 30 row.
	_, err = svc.CancelCustom(ctx, "u1", "Madrid", "temperature", ">", "35")
	assert.ErrorIs(t, err, alerts.ErrNoMatch)

	subs, err := svc.ListSubscriptions(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, "Temperature > 30°C", subs[0].Description)
}

func TestCancelCustom_NormalizedSpelling(t *testing.T) {
	svc := alerts.NewService(store.NewMemoryStore())
	ctx := context.Background()

	_, err := svc.SubscribeCustom(ctx, "u1", "London", "precipitation", "", "Cloudy")
	require.NoError(t, err)

	// "sunny" normalizes to the same "no rain" category as "Cloudy".
	msg, err := svc.CancelCustom(ctx, "u1", "London", "Precipitation", "", "sunny")
	require.NoError(t, err)
	assert.Equal(t, "Cancelled custom precipitation alert at London.", msg)
}

func TestListSubscriptions(t *testing.T) {
	svc := alerts.NewService(store.NewMemoryStore())
	ctx := context.Background()

	_, err := svc.SubscribeNormal(ctx, "u1", "London", 8)
	require.NoError(t, err)
	_, err = svc.SubscribeCustom(ctx, "u1", "Madrid", "wind_speed", "<", "10")
	require.NoError(t, err)
	_, err = svc.SubscribeNormal(ctx, "u2", "Tokyo", 1)
	require.NoError(t, err)

	subs, err := svc.ListSubscriptions(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, subs, 2)

	assert.Equal(t, "London", subs[0].Location)
	assert.Equal(t, "8", subs[0].AlertType)
	assert.Equal(t, "Heavy rain and thunderstorms warning (heavy rain)", subs[0].Description)

	assert.Equal(t, "Madrid", subs[1].Location)
	assert.Equal(t, "wind_speed (custom)", subs[1].AlertType)
	assert.Equal(t, "Wind speed < 10 km/h", subs[1].Description)
}

func TestActiveAlerts_IndependentEvaluation(t *testing.T) {
	svc := alerts.NewService(store.NewMemoryStore())
	ctx := context.Background()

	_, err := svc.SubscribeNormal(ctx, "u1", "Cairo", 1)
	require.NoError(t, err)
	_, err = svc.SubscribeNormal(ctx, "u1", "Cairo", 2)
	require.NoError(t, err)
	_, err = svc.SubscribeCustom(ctx, "u1", "Cairo", "temperature", ">", "33")
	require.NoError(t, err)
	_, err = svc.SubscribeNormal(ctx, "u1", "Cairo", 3)
	require.NoError(t, err)

	reading := weather.CurrentReading{TemperatureC: floatPtr(36)}
	msgs, err := svc.ActiveAlerts(ctx, "u1", "Cairo", reading)
	require.NoError(t, err)

	// Both overlapping heat kinds and the custom threshold fire; the cold
	// kind does not.
	assert.Equal(t, []string{
		"Alert: Temperature at Cairo is 36°C, exceeding 35°C.",
		"Alert: Temperature at Cairo is 36°C, exceeding 30°C.",
		"Temperature at Cairo is 36°C, exceeding 33°C.",
	}, msgs)
}

func TestActiveAlerts_ScopedToUserAndLocation(t *testing.T) {
	svc := alerts.NewService(store.NewMemoryStore())
	ctx := context.Background()

	_, err := svc.SubscribeNormal(ctx, "u1", "Cairo", 1)
	require.NoError(t, err)
	_, err = svc.SubscribeNormal(ctx, "u2", "Cairo", 1)
	require.NoError(t, err)
	_, err = svc.SubscribeNormal(ctx, "u1", "Luxor", 1)
	require.NoError(t, err)

	reading := weather.CurrentReading{TemperatureC: floatPtr(40)}
	msgs, err := svc.ActiveAlerts(ctx, "u1", "Cairo", reading)
	require.NoError(t, err)
	assert.Len(t, msgs, 1)
}
