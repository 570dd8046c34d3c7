package availability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medplus/clinic-scheduler/internal/httperr"
	"github.com/medplus/clinic-scheduler/internal/models"
)

func TestParseWeekday(t *testing.T) {
	d, err := ParseWeekday("monday")
	require.NoError(t, err)
	assert.Equal(t, time.Monday, d)
	assert.Equal(t, "MONDAY", WeekdayName(d))

	_, err = ParseWeekday("SEGUNDA")
	assert.True(t, httperr.IsBusiness(err, "invalid_weekday"))
}

func TestParseClock(t *testing.T) {
	got, err := ParseClock("9:05")
	require.NoError(t, err)
	assert.Equal(t, "09:05", got)

	_, err = ParseClock("25:00")
	assert.Error(t, err)
}

func TestValidateRange(t *testing.T) {
	assert.NoError(t, ValidateRange("09:00", "12:00"))
	assert.Error(t, ValidateRange("12:00", "12:00"))
	assert.Error(t, ValidateRange("13:00", "12:00"))
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name                       string
		aStart, aEnd, bStart, bEnd string
		want                       bool
	}{
		{"partial", "09:00", "12:00", "11:00", "13:00", true},
		{"contained", "09:00", "12:00", "10:00", "11:00", true},
		{"adjacent after", "09:00", "12:00", "12:00", "13:00", false},
		{"adjacent before", "09:00", "12:00", "08:00", "09:00", false},
		{"disjoint", "09:00", "10:00", "14:00", "15:00", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Overlaps(tt.aStart, tt.aEnd, tt.bStart, tt.bEnd))
		})
	}
}

func TestFits(t *testing.T) {
	// 2030-01-07 is a Monday.
	slot := models.AvailabilitySlot{Weekday: int(time.Monday), StartTime: "09:00", EndTime: "12:00", Active: true}
	at := func(h, m int) time.Time { return time.Date(2030, 1, 7, h, m, 0, 0, time.UTC) }

	assert.True(t, Fits(slot, at(9, 0)), "starts at slot start")
	assert.True(t, Fits(slot, at(11, 30)), "ends exactly at slot end")
	assert.False(t, Fits(slot, at(11, 31)), "runs past slot end")
	assert.False(t, Fits(slot, at(11, 30).Add(30*time.Second)), "seconds push the end past slot end")
	assert.False(t, Fits(slot, at(8, 59).Add(59*time.Second)), "seconds before slot start")
	assert.True(t, Fits(slot, at(9, 0).Add(30*time.Second)), "seconds inside the slot")
	assert.False(t, Fits(slot, at(8, 59)), "starts before slot")
	assert.False(t, Fits(slot, at(9, 0).AddDate(0, 0, 1)), "other weekday")

	slot.Active = false
	assert.False(t, Fits(slot, at(10, 0)), "inactive slot")

	late := models.AvailabilitySlot{Weekday: int(time.Monday), StartTime: "22:00", EndTime: "23:59", Active: true}
	assert.False(t, Fits(late, at(23, 45)), "crosses midnight")
}

func TestClockOn(t *testing.T) {
	day := time.Date(2030, 1, 7, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2030, 1, 7, 14, 30, 0, 0, time.UTC), ClockOn(day, "14:30"))
}
