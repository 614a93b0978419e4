package globe

import (
	"fmt"
	"math"
)

// FormatDMS renders a coordinate as degrees, minutes and tenths of seconds
// with a hemisphere letter, e.g. 36°07'12.0"N.
func FormatDMS(value float64, isLat bool) string {
	hemi := "E"
	if isLat {
		hemi = "N"
		if value < 0 {
			hemi = "S"
		}
	} else if value < 0 {
		hemi = "W"
	}

	a := math.Abs(value)
	deg := int(a)
	minF := (a - float64(deg)) * 60
	mins := int(minF)
	sec := math.Round((minF-float64(mins))*60*10) / 10
	if sec >= 60 {
		sec -= 60
		mins++
	}
	if mins >= 60 {
		mins -= 60
		deg++
	}
	return fmt.Sprintf("%d°%02d'%04.1f\"%s", deg, mins, sec, hemi)
}

// String formats c as a latitude/longitude pair.
func (c Coordinates) String() string {
	return FormatDMS(c.Latitude, true) + " " + FormatDMS(c.Longitude, false)
}
