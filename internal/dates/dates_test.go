package dates

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeISO(t *testing.T) {
	got, ok := Normalize("2024-03-05")
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), got)
}

func TestNormalizeTwoDigitYear(t *testing.T) {
	got, ok := Normalize("15-03-24")
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), got)
}

func TestNormalizeDayFirstFourDigitYear(t *testing.T) {
	got, ok := Normalize("15-03-2024")
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), got)
}

func TestNormalizeExcelSerial(t *testing.T) {
	// 45000 days in the 1900 date system lands in March 2023.
	got, ok := Normalize("45000")
	require.True(t, ok)
	assert.Equal(t, time.Date(2023, 3, 15, 0, 0, 0, 0, time.UTC), got)
	assert.Equal(t, got, Midnight(got))
}

func TestNormalizeSerialAtEpochBoundary(t *testing.T) {
	// Serials at or below the 1970 offset are not treated as dates.
	_, ok := Normalize("25569")
	assert.False(t, ok)

	got, ok := Normalize("25570")
	require.True(t, ok)
	assert.Equal(t, time.Date(1970, 1, 2, 0, 0, 0, 0, time.UTC), got)
}

func TestNormalizeGenericLayouts(t *testing.T) {
	for _, raw := range []string{
		"2024-03-05T10:30:00Z",
		"5 Mar 2024",
		"2024/03/05",
	} {
		got, ok := Normalize(raw)
		require.True(t, ok, "input %q", raw)
		assert.Equal(t, time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), got, "input %q", raw)
	}
}

func TestNormalizeFailure(t *testing.T) {
	for _, raw := range []string{"", "   ", "not-a-date", "??-??-??", "123"} {
		_, ok := Normalize(raw)
		assert.False(t, ok, "input %q", raw)
	}
}

func TestNormalizeInvalidCalendarDate(t *testing.T) {
	_, ok := Normalize("2024-13-40")
	assert.False(t, ok)
}

func TestDisplay(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"2024-03-05", "05-03-2024"},
		{"15-03-24", "15-03-2024"},
		{"45000", "15-03-2023"},
		{"not-a-date", "not-a-date"},
		{"", "-"},
		{"   ", "-"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Display(tt.raw), "input %q", tt.raw)
	}
}

func TestMidnightStripsTimeOfDay(t *testing.T) {
	in := time.Date(2024, 6, 1, 23, 59, 59, 999, time.UTC)
	assert.Equal(t, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), Midnight(in))
}

func TestFormatZeroPads(t *testing.T) {
	assert.Equal(t, "01-02-0099", Format(time.Date(99, 2, 1, 0, 0, 0, 0, time.UTC)))
}
