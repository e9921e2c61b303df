package report

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncodeFieldsProducesExactlyFourKeys(t *testing.T) {
	t.Parallel()

	fields := EncodeFields(Report{
		Title:       "Pothole",
		Description: "Deep pothole on the main road",
		Latitude:    48.2082,
		Longitude:   16.3738,
	})

	require.Len(t, fields, 4)
	require.Equal(t, "Pothole", fields["title"])
	require.Equal(t, "Deep pothole on the main road", fields["description"])
	require.Equal(t, 48.2082, fields["latitude"])
	require.Equal(t, 16.3738, fields["longitude"])
}

func TestTokenRoundTrip(t *testing.T) {
	t.Parallel()

	reports := []Report{
		{Title: "Fire", Description: "Smoke seen", Latitude: 12.34, Longitude: 56.78},
		{Title: "Flood", Description: "Water rising", Latitude: -33.8688, Longitude: 151.2093},
		{Title: "Edge", Description: "at the poles", Latitude: -90, Longitude: 180},
		{Title: "Origin", Description: "null island", Latitude: 0, Longitude: 0},
		{Title: `Quotes "and" commas,`, Description: "tricky {json} text\nwith a newline", Latitude: 1.0000000001, Longitude: -0.000001},
	}

	for _, want := range reports {
		token, err := EncodeToken(want)
		require.NoError(t, err)

		got, err := DecodeToken(token)
		require.NoError(t, err)
		require.Equal(t, want, got)
	}
}

func TestDecodeFieldsRejectsMissingKey(t *testing.T) {
	t.Parallel()

	_, err := DecodeFields(map[string]any{
		"title":    "Fire",
		"latitude": 1.0,
		// description and longitude absent
	})
	require.ErrorIs(t, err, ErrMalformedRecord)
}

func TestDecodeFieldsRejectsMistypedValues(t *testing.T) {
	t.Parallel()

	_, err := DecodeFields(map[string]any{
		"title":       "Fire",
		"description": "Smoke",
		"latitude":    "not-a-number",
		"longitude":   2.0,
	})
	require.ErrorIs(t, err, ErrMalformedRecord)

	_, err = DecodeFields(map[string]any{
		"title":       7,
		"description": "Smoke",
		"latitude":    1.0,
		"longitude":   2.0,
	})
	require.ErrorIs(t, err, ErrMalformedRecord)
}

func TestDecodeFieldsAcceptsIntegerCoordinates(t *testing.T) {
	t.Parallel()

	r, err := DecodeFields(map[string]any{
		"title":       "Fire",
		"description": "Smoke",
		"latitude":    12,
		"longitude":   int64(-56),
	})
	require.NoError(t, err)
	require.Equal(t, 12.0, r.Latitude)
	require.Equal(t, -56.0, r.Longitude)
}

func TestDecodeTokenRejectsInvalidPayloads(t *testing.T) {
	t.Parallel()

	for _, token := range []string{
		"",
		"not json at all",
		`["a", "list"]`,
		`{"title": "Fire"}`,
		`{"title": "Fire", "description": "Smoke", "latitude": "12", "longitude": 56.78}`,
	} {
		_, err := DecodeToken(token)
		require.ErrorIsf(t, err, ErrMalformedRecord, "token %q", token)
	}
}
