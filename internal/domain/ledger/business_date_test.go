package ledger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBusinessDate_TimezoneBoundary(t *testing.T) {
	ist, err := time.LoadLocation("Asia/Kolkata")
	require.NoError(t, err)

	// 20:00 UTC on the 29th is already 01:30 on the 30th in IST
	instant := time.Date(2026, 8, 29, 20, 0, 0, 0, time.UTC)
	assert.Equal(t, BusinessDate("2026-08-30"), NewBusinessDate(instant, ist))
	assert.Equal(t, BusinessDate("2026-08-29"), NewBusinessDate(instant, time.UTC))
}

func TestSetBusinessLocation_DrivesToday(t *testing.T) {
	t.Cleanup(func() { SetBusinessLocation(nil) })

	// Two zones on opposite sides of the date line cannot both agree with a
	// hardcoded clock; Today must follow whatever was configured.
	for _, name := range []string{"Pacific/Kiritimati", "Pacific/Midway", "America/New_York"} {
		loc, err := time.LoadLocation(name)
		require.NoError(t, err)

		SetBusinessLocation(loc)
		assert.Equal(t, loc, BusinessLocation())
		assert.Equal(t, NewBusinessDate(time.Now(), loc), Today())
	}
}

func TestBusinessLocation_DefaultsToIST(t *testing.T) {
	t.Cleanup(func() { SetBusinessLocation(nil) })
	SetBusinessLocation(nil)

	assert.Equal(t, DefaultTimezone, BusinessLocation().String())
}

func TestParseBusinessDate(t *testing.T) {
	d, err := ParseBusinessDate("2026-08-30")
	require.NoError(t, err)
	assert.Equal(t, "2026-08-30", d.String())

	_, err = ParseBusinessDate("30/08/2026")
	assert.Error(t, err)

	_, err = ParseBusinessDate("2026-13-01")
	assert.Error(t, err)
}

func TestBusinessDate_Next(t *testing.T) {
	assert.Equal(t, BusinessDate("2026-08-31"), BusinessDate("2026-08-30").Next())
	// Month and year rollovers
	assert.Equal(t, BusinessDate("2026-09-01"), BusinessDate("2026-08-31").Next())
	assert.Equal(t, BusinessDate("2027-01-01"), BusinessDate("2026-12-31").Next())
	// Leap day
	assert.Equal(t, BusinessDate("2028-02-29"), BusinessDate("2028-02-28").Next())
}

func TestBusinessDate_Before(t *testing.T) {
	assert.True(t, BusinessDate("2026-08-29").Before("2026-08-30"))
	assert.False(t, BusinessDate("2026-08-30").Before("2026-08-30"))
}
