package timezone

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocation_FallsBackToDefault(t *testing.T) {
	loc := Location("Not/AZone")
	require.NotNil(t, loc)
	assert.Equal(t, DefaultTimezone, loc.String())
}

func TestParseDateTime(t *testing.T) {
	loc := Location(DefaultTimezone)

	got, err := ParseDateTime("2030-03-04T10:30:00", loc)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2030, 3, 4, 10, 30, 0, 0, loc), got)

	got, err = ParseDateTime("2030-03-04T10:30", loc)
	require.NoError(t, err)
	assert.Equal(t, 30, got.Minute())

	_, err = ParseDateTime("04/03/2030 10:30", loc)
	assert.Error(t, err)
}

func TestDayBounds(t *testing.T) {
	day := time.Date(2030, 3, 4, 15, 0, 0, 0, time.UTC)
	start, end := DayBounds(day)

	assert.Equal(t, time.Date(2030, 3, 4, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2030, 3, 4, 23, 59, 59, 0, time.UTC), end)
	assert.Equal(t, "2030-03-04T15:00:00", FormatDateTime(day))
}

func TestFormatDateTime_UseLocation(t *testing.T) {
	loc := Location(DefaultTimezone)
	UseLocation(loc)
	t.Cleanup(func() { UseLocation(nil) })

	utc := time.Date(2030, 3, 4, 13, 0, 0, 0, time.UTC)
	assert.Equal(t, "2030-03-04T10:00:00", FormatDateTime(utc))
}
