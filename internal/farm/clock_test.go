package farm

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestClockDay(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewClock(start, 180*time.Second)

	assert.Equal(t, 1, c.Day(start))
	assert.Equal(t, 1, c.Day(start.Add(179*time.Second)))
	assert.Equal(t, 2, c.Day(start.Add(180*time.Second)))
	assert.Equal(t, 1, c.Day(start.Add(-time.Hour)))
}

func TestClockDefaultsDayLength(t *testing.T) {
	c := NewClock(time.Unix(0, 0), 0)
	assert.Equal(t, DefaultDayLength, c.DayLength)
}

func TestDayOfYearWraps(t *testing.T) {
	assert.Equal(t, 1, DayOfYear(1))
	assert.Equal(t, 365, DayOfYear(365))
	assert.Equal(t, 1, DayOfYear(366))
	assert.Equal(t, 2, DayOfYear(367))
	assert.Equal(t, 1, DayOfYear(0))
}

func TestDayTrackerFiresOncePerDay(t *testing.T) {
	var d DayTracker
	assert.True(t, d.Observe(1))
	assert.False(t, d.Observe(1))
	assert.True(t, d.Observe(2))
	assert.False(t, d.Observe(1), "day must not move backwards")
	assert.Equal(t, 2, d.Current())

	d.Set(5)
	assert.False(t, d.Observe(5))
	assert.True(t, d.Observe(6))

	d.Set(0)
	assert.True(t, d.Observe(1))
}

func TestClockUntilNextDay(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewClock(start, 180*time.Second)

	assert.Equal(t, 180*time.Second, c.UntilNextDay(start))
	assert.Equal(t, 30*time.Second, c.UntilNextDay(start.Add(150*time.Second)))
	assert.Equal(t, 180*time.Second, c.UntilNextDay(start.Add(360*time.Second)))
}
