package intake

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeDate_Formats(t *testing.T) {
	cases := []struct {
		raw  string
		want string
	}{
		{"2025-07-15", "2025-07-15"},
		{"2025-7-3", "2025-07-03"},
		{"7/15/2025", "2025-07-15"},
		{"07/15/2025", "2025-07-15"},
		{"7-15-2025", "2025-07-15"},
		{"2025/7/15", "2025-07-15"},
		{"  2025-07-15  ", "2025-07-15"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, NormalizeDate(tc.raw), "raw=%q", tc.raw)
	}
}

func TestNormalizeDate_UnknownMarkers(t *testing.T) {
	for _, raw := range []string{"", "   ", "unknown", "UNKNOWN", "Not Found", "not found"} {
		assert.Equal(t, UnknownDate, NormalizeDate(raw), "raw=%q", raw)
	}
}

func TestNormalizeDate_Unparseable(t *testing.T) {
	for _, raw := range []string{"July 15th", "sometime last week", "15.07.2025", "2025-07"} {
		assert.Equal(t, UnknownDate, NormalizeDate(raw), "raw=%q", raw)
	}
}

func TestNormalizeDate_RejectsImpossibleDates(t *testing.T) {
	// time.Date would normalize these into the next period; they must be
	// rejected instead.
	cases := []string{
		"2025-04-31", // April has 30 days
		"2025-02-30",
		"2025-13-01", // month 13
		"13/32/2025",
		"2/29/2025", // 2025 is not a leap year
	}
	for _, raw := range cases {
		assert.Equal(t, UnknownDate, NormalizeDate(raw), "raw=%q", raw)
	}
}

func TestNormalizeDate_AcceptsLeapDay(t *testing.T) {
	assert.Equal(t, "2024-02-29", NormalizeDate("2024-02-29"))
	assert.Equal(t, "2024-02-29", NormalizeDate("2/29/2024"))
}

func TestParseNormalizedDate(t *testing.T) {
	got, ok := ParseNormalizedDate("2025-07-15")
	require.True(t, ok)
	assert.Equal(t, time.Date(2025, 7, 15, 0, 0, 0, 0, time.UTC), got)

	_, ok = ParseNormalizedDate(UnknownDate)
	assert.False(t, ok)

	_, ok = ParseNormalizedDate("garbage")
	assert.False(t, ok)
}
