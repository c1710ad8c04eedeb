// Package timemath holds the pure clock arithmetic behind tardiness and
// rendered-hours computation. Every function is total: bad input degrades
// to a zero value instead of an error, matching the display semantics the
// attendance views rely on.
package timemath

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ParseClock parses a 12-hour clock string ("hh:mm AM" / "hh:mm PM") into
// minutes since midnight. Noon is 720, midnight is 0. ok is false for
// empty or unparseable input.
func ParseClock(s string) (minutes int, ok bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}

	fields := strings.Fields(strings.ToUpper(s))
	if len(fields) != 2 {
		return 0, false
	}
	meridiem := fields[1]
	if meridiem != "AM" && meridiem != "PM" {
		return 0, false
	}

	hm := strings.Split(fields[0], ":")
	if len(hm) != 2 {
		return 0, false
	}
	hour, err := strconv.Atoi(hm[0])
	if err != nil {
		return 0, false
	}
	minute, err := strconv.Atoi(hm[1])
	if err != nil {
		return 0, false
	}
	if hour < 1 || hour > 12 || minute < 0 || minute > 59 {
		return 0, false
	}

	if hour == 12 {
		hour = 0
	}
	if meridiem == "PM" {
		hour += 12
	}
	return hour*60 + minute, true
}

// Tardiness returns how many minutes actual check-in exceeds the scheduled
// start. Zero when the employee is early, on time, or when either clock
// string is missing or malformed.
func Tardiness(scheduledStart, actualCheckIn string) int {
	scheduled, ok := ParseClock(scheduledStart)
	if !ok {
		return 0
	}
	actual, ok := ParseClock(actualCheckIn)
	if !ok {
		return 0
	}
	if actual <= scheduled {
		return 0
	}
	return actual - scheduled
}

// HoursRendered returns the minutes between check-in and check-out.
// A missing bound or a check-out before check-in counts as zero, never
// negative.
func HoursRendered(checkIn, checkOut string) int {
	in, ok := ParseClock(checkIn)
	if !ok {
		return 0
	}
	out, ok := ParseClock(checkOut)
	if !ok {
		return 0
	}
	if out < in {
		return 0
	}
	return out - in
}

// FormatMinutes renders a minute count as "HH:MM". Returns "" for zero or
// negative input so templates can treat it as absent.
func FormatMinutes(minutes int) string {
	if minutes <= 0 {
		return ""
	}
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// MinutesOfDay returns the minutes since midnight of t in its location.
func MinutesOfDay(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}

// FormatClock renders t as a 12-hour clock string, e.g. "09:15 AM".
func FormatClock(t time.Time) string {
	return t.Format("03:04 PM")
}

// DaysInclusive counts the calendar days in [from, to], both ends included.
// Returns 0 when to precedes from.
func DaysInclusive(from, to time.Time) int {
	from = time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	to = time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)
	if to.Before(from) {
		return 0
	}
	return int(to.Sub(from).Hours()/24) + 1
}
