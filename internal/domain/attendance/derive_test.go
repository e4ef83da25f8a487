package attendance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimeOfDay(t *testing.T) {
	tod, err := ParseTimeOfDay("08:30")
	require.NoError(t, err)
	assert.Equal(t, 8, tod.Hour)
	assert.Equal(t, 30, tod.Minute)
	assert.Equal(t, "08:30", tod.String())

	for _, bad := range []string{"", "8:00am", "25:00", "08:61", "0800"} {
		_, err := ParseTimeOfDay(bad)
		assert.Error(t, err, "input %q", bad)
	}
}

func TestTimeOfDay_At(t *testing.T) {
	date := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	at := TimeOfDay{Hour: 8, Minute: 15}.At(date)
	assert.Equal(t, time.Date(2024, 3, 15, 8, 15, 0, 0, time.UTC), at)
}

func TestComputeLateness(t *testing.T) {
	date := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	expected := TimeOfDay{Hour: 8}

	cases := []struct {
		name        string
		clockIn     time.Time
		wantLate    bool
		wantMinutes int
	}{
		{"well before start", time.Date(2024, 3, 15, 7, 30, 0, 0, time.UTC), false, 0},
		{"exactly on time", time.Date(2024, 3, 15, 8, 0, 0, 0, time.UTC), false, 0},
		{"one second past", time.Date(2024, 3, 15, 8, 0, 1, 0, time.UTC), true, 0},
		{"fifteen minutes late", time.Date(2024, 3, 15, 8, 15, 0, 0, time.UTC), true, 15},
		{"partial minute truncates", time.Date(2024, 3, 15, 8, 15, 59, 0, time.UTC), true, 15},
		{"hours late", time.Date(2024, 3, 15, 10, 5, 0, 0, time.UTC), true, 125},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			isLate, delay := ComputeLateness(date, c.clockIn, expected)
			assert.Equal(t, c.wantLate, isLate)
			assert.Equal(t, c.wantMinutes, delay)
		})
	}
}

func TestComputeWorkedHours(t *testing.T) {
	date := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	cutoff := TimeOfDay{Hour: 18}
	at := func(h, m int) time.Time {
		return time.Date(2024, 3, 15, h, m, 0, 0, time.UTC)
	}

	cases := []struct {
		name     string
		clockIn  time.Time
		clockOut time.Time
		want     float64
	}{
		{"full day", at(8, 0), at(17, 0), 9},
		{"half hour", at(9, 0), at(9, 30), 0.5},
		{"clipped at cutoff", at(8, 0), at(21, 30), 10},
		{"out exactly at cutoff", at(8, 0), at(18, 0), 10},
		{"out before in yields zero", at(17, 0), at(9, 0), 0},
		{"in after cutoff yields zero", at(19, 0), at(20, 0), 0},
		{"rounds to two decimals", at(8, 0), at(8, 10), 0.17},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := ComputeWorkedHours(date, c.clockIn, c.clockOut, cutoff)
			assert.InDelta(t, c.want, got, 0.001)
		})
	}
}
