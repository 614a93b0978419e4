package climate

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/appengine-ltd/agrodm/internal/farm"
)

// fillValue marks a missing measurement in POWER responses.
const fillValue = -999.0

// Measure is an optional numeric field. It accepts JSON numbers, numeric
// strings and null; anything unparsable decodes as missing.
type Measure struct {
	Value float64
	Valid bool
}

func Known(v float64) Measure {
	return Measure{Value: v, Valid: true}
}

func parseMeasure(raw string) Measure {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Measure{}
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v <= fillValue {
		return Measure{}
	}
	return Known(v)
}

func (m Measure) MarshalJSON() ([]byte, error) {
	if !m.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(m.Value)
}

func (m *Measure) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*m = Measure{}
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			*m = Measure{}
			return nil
		}
		*m = parseMeasure(s)
		return nil
	}
	*m = parseMeasure(string(data))
	return nil
}

func (m Measure) ptr() *float64 {
	if !m.Valid {
		return nil
	}
	v := m.Value
	return &v
}

// DayRecord is one row of the daily point dataset. JSON keys match the
// POWER column names so exported files stay readable by other tools.
type DayRecord struct {
	Year     int     `json:"YEAR"`
	DOY      int     `json:"DOY"`
	Month    int     `json:"MO,omitempty"`
	Day      int     `json:"DY,omitempty"`
	T2M      Measure `json:"T2M"`
	AllSkySW Measure `json:"ALLSKY_SFC_SW_DWN"`
	Precip   Measure `json:"PRECTOTCORR"`
	GWETTOP  Measure `json:"GWETTOP"`
}

// Dataset is a year of daily records.
type Dataset []DayRecord

// Reading returns the first record for the day of year.
func (d Dataset) Reading(dayOfYear int) (farm.Reading, bool) {
	for _, rec := range d {
		if rec.DOY == dayOfYear {
			return farm.Reading{
				TemperatureC:    rec.T2M.ptr(),
				TopLayerWetness: rec.GWETTOP.ptr(),
			}, true
		}
	}
	return farm.Reading{}, false
}

var _ farm.EnvironmentSource = Dataset(nil)
