package farm

const defaultTopLayerWetness = 0.5

// Environment is the ambient snapshot refreshed once per in-game day.
type Environment struct {
	TemperatureC    float64
	HumidityPct     float64
	SoilMoisturePct float64
}

func DefaultEnvironment() Environment {
	return Environment{TemperatureC: 20, HumidityPct: 50, SoilMoisturePct: 100}
}

// Reading is one day's climate record. Nil fields were missing upstream.
type Reading struct {
	TemperatureC    *float64
	TopLayerWetness *float64
}

// EnvironmentSource looks up the climate record for a day of year (1..365).
type EnvironmentSource interface {
	Reading(dayOfYear int) (Reading, bool)
}

// Apply derives the next snapshot from r. Temperature is kept when absent;
// wetness defaults to 0.5 and is mapped onto 0..100.
func (e Environment) Apply(r Reading) Environment {
	next := e
	if r.TemperatureC != nil {
		next.TemperatureC = *r.TemperatureC
	}
	wet := defaultTopLayerWetness
	if r.TopLayerWetness != nil {
		wet = *r.TopLayerWetness
	}
	next.SoilMoisturePct = clamp(wet*100, 0, 100)
	next.HumidityPct = 50
	return next
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
