package timemath_test

import (
	"testing"
	"time"

	"hrms/internal/timemath"

	"github.com/stretchr/testify/assert"
)

func TestParseClock(t *testing.T) {
	cases := []struct {
		name    string
		input   string
		minutes int
		ok      bool
	}{
		{"morning", "08:00 AM", 480, true},
		{"afternoon", "01:30 PM", 810, true},
		{"noon", "12:00 PM", 720, true},
		{"midnight", "12:00 AM", 0, true},
		{"lowercase meridiem", "09:15 am", 555, true},
		{"extra spaces", "  09:15 AM ", 555, true},
		{"empty", "", 0, false},
		{"no meridiem", "09:15", 0, false},
		{"bad meridiem", "09:15 XM", 0, false},
		{"hour out of range", "13:00 PM", 0, false},
		{"minute out of range", "09:60 AM", 0, false},
		{"not a number", "ab:cd AM", 0, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			minutes, ok := timemath.ParseClock(tc.input)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.minutes, minutes)
		})
	}
}

func TestTardiness(t *testing.T) {
	t.Run("late by fifteen minutes", func(t *testing.T) {
		assert.Equal(t, 15, timemath.Tardiness("09:00 AM", "09:15 AM"))
	})

	t.Run("early is zero", func(t *testing.T) {
		assert.Equal(t, 0, timemath.Tardiness("09:00 AM", "08:50 AM"))
	})

	t.Run("exactly on time is zero", func(t *testing.T) {
		assert.Equal(t, 0, timemath.Tardiness("09:00 AM", "09:00 AM"))
	})

	t.Run("missing actual is zero", func(t *testing.T) {
		assert.Equal(t, 0, timemath.Tardiness("09:00 AM", ""))
	})

	t.Run("malformed schedule is zero", func(t *testing.T) {
		assert.Equal(t, 0, timemath.Tardiness("garbage", "09:15 AM"))
	})
}

func TestHoursRendered(t *testing.T) {
	t.Run("full day", func(t *testing.T) {
		assert.Equal(t, 540, timemath.HoursRendered("08:00 AM", "05:00 PM"))
	})

	t.Run("check out before check in is zero", func(t *testing.T) {
		assert.Equal(t, 0, timemath.HoursRendered("05:00 PM", "08:00 AM"))
	})

	t.Run("missing check out is zero", func(t *testing.T) {
		assert.Equal(t, 0, timemath.HoursRendered("08:00 AM", ""))
	})
}

func TestFormatMinutes(t *testing.T) {
	assert.Equal(t, "08:30", timemath.FormatMinutes(510))
	assert.Equal(t, "00:15", timemath.FormatMinutes(15))
	assert.Equal(t, "", timemath.FormatMinutes(0))
	assert.Equal(t, "", timemath.FormatMinutes(-5))
}

func TestFormatClock(t *testing.T) {
	at := time.Date(2025, 6, 2, 9, 15, 0, 0, time.UTC)
	assert.Equal(t, "09:15 AM", timemath.FormatClock(at))

	pm := time.Date(2025, 6, 2, 17, 5, 0, 0, time.UTC)
	assert.Equal(t, "05:05 PM", timemath.FormatClock(pm))
}

func TestDaysInclusive(t *testing.T) {
	from := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 6, 4, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, 3, timemath.DaysInclusive(from, to))
	assert.Equal(t, 1, timemath.DaysInclusive(from, from))
	assert.Equal(t, 0, timemath.DaysInclusive(to, from))
}
