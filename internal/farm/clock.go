package farm

import (
	"math"
	"time"
)

const (
	DefaultDayLength = 180 * time.Second
	DaysPerYear      = 365
)

// Clock maps wall time onto in-game days. Day 1 starts at Start.
type Clock struct {
	Start     time.Time
	DayLength time.Duration
}

func NewClock(start time.Time, dayLength time.Duration) Clock {
	if dayLength <= 0 {
		dayLength = DefaultDayLength
	}
	return Clock{Start: start, DayLength: dayLength}
}

func (c Clock) Day(now time.Time) int {
	elapsed := now.Sub(c.Start)
	if elapsed < 0 || c.DayLength <= 0 {
		return 1
	}
	return int(math.Floor(float64(elapsed)/float64(c.DayLength))) + 1
}

// UntilNextDay returns the wall time left before the next day starts.
func (c Clock) UntilNextDay(now time.Time) time.Duration {
	if c.DayLength <= 0 {
		return 0
	}
	elapsed := now.Sub(c.Start)
	if elapsed < 0 {
		return -elapsed + c.DayLength
	}
	return c.DayLength - elapsed%c.DayLength
}

// DayOfYear folds a day number into 1..365. Day 366 maps back to 1.
func DayOfYear(day int) int {
	if day < 1 {
		day = 1
	}
	return (day-1)%DaysPerYear + 1
}

// DayTracker fires once per distinct day number and never moves backwards.
type DayTracker struct {
	last int
}

func (d *DayTracker) Observe(day int) bool {
	if day <= d.last {
		return false
	}
	d.last = day
	return true
}

func (d *DayTracker) Current() int {
	return d.last
}

// Set makes day the current day without firing Observe for it.
func (d *DayTracker) Set(day int) {
	d.last = max(0, day)
}
