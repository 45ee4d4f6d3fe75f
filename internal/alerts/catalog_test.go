package alerts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyPrecipitation(t *testing.T) {
	cases := []struct {
		description string
		want        PrecipitationCategory
	}{
		{"Clear sky", PrecipNoRain},
		{"Partly cloudy", PrecipNoRain},
		{"Depositing rime fog", PrecipNoRain},
		{"Light drizzle", PrecipLight},
		{"Slight rain showers", PrecipLight},
		{"Snow grains", PrecipLight},
		{"Moderate rain", PrecipModerate},
		{"Slight or moderate thunderstorm", PrecipModerate},
		{"Thunderstorm with slight hail", PrecipModerate},
		{"Heavy rain", PrecipHeavy},
		{"Dense freezing drizzle", PrecipHeavy},
		{"Thunderstorm with heavy hail", PrecipHeavy},
		{"Unknown", PrecipUnknown},
		{"", PrecipUnknown},
		{"volcanic ash", PrecipUnknown},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, ClassifyPrecipitation(tc.description), "description %q", tc.description)
	}
}

func TestClassifyPrecipitation_BucketOrder(t *testing.T) {
	// A description hitting both a no_rain and a light keyword resolves to
	// no_rain because that bucket is checked first.
	got := ClassifyPrecipitation("mainly clear with light drizzle nearby")
	assert.Equal(t, PrecipNoRain, got)

	// Same for light before moderate.
	got = ClassifyPrecipitation("slight rain turning to moderate rain")
	assert.Equal(t, PrecipLight, got)
}

func TestValidKind(t *testing.T) {
	for kind := 1; kind <= 8; kind++ {
		assert.True(t, ValidKind(kind), "kind %d", kind)
	}
	assert.False(t, ValidKind(0))
	assert.False(t, ValidKind(9))
	assert.False(t, ValidKind(-1))
}

func TestValidateCustom_Temperature(t *testing.T) {
	cond, op, thresh, err := ValidateCustom("Temperature", " > ", "35")
	require.NoError(t, err)
	assert.Equal(t, CondTemperature, cond)
	assert.Equal(t, OpGreater, op)
	assert.Equal(t, "35", thresh)
}

func TestValidateCustom_TemperatureRequiresOperator(t *testing.T) {
	_, _, _, err := ValidateCustom("temperature", "", "35")
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "operator", verr.Field)
}

func TestValidateCustom_RejectsEqualsOperator(t *testing.T) {
	_, _, _, err := ValidateCustom("wind_speed", "=", "40")
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "operator", verr.Field)
}

func TestValidateCustom_ThresholdMustBeFinite(t *testing.T) {
	for _, bad := range []string{"", "abc", "Inf", "-Inf", "NaN"} {
		_, _, _, err := ValidateCustom("temperature", ">", bad)
		var verr *ValidationError
		require.ErrorAs(t, err, &verr, "threshold %q", bad)
		assert.Equal(t, "threshold", verr.Field)
	}
}

func TestValidateCustom_PrecipitationSynonyms(t *testing.T) {
	cases := map[string]string{
		"no rain":  "no rain",
		"Clear":    "no rain",
		"cloud":    "no rain",
		"clouds":   "no rain",
		"CLOUDY":   "no rain",
		"sunny":    "no rain",
		" light ":  "light",
		"moderate": "moderate",
		"Heavy":    "heavy",
	}
	for input, want := range cases {
		cond, op, thresh, err := ValidateCustom("precipitation", "", input)
		require.NoError(t, err, "threshold %q", input)
		assert.Equal(t, CondPrecipitation, cond)
		assert.Empty(t, op, "operator must be absent for precipitation")
		assert.Equal(t, want, thresh)
	}
}

func TestValidateCustom_PrecipitationDropsOperator(t *testing.T) {
	_, op, _, err := ValidateCustom("precipitation", ">", "heavy")
	require.NoError(t, err)
	assert.Empty(t, op)
}

func TestValidateCustom_PrecipitationRejectsUnknownLevel(t *testing.T) {
	_, _, _, err := ValidateCustom("precipitation", "", "torrential")
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "threshold", verr.Field)
}

func TestValidateCustom_UnknownCondition(t *testing.T) {
	_, _, _, err := ValidateCustom("humidity", ">", "80")
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "condition", verr.Field)
}
