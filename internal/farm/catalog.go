package farm

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"time"

	"gopkg.in/yaml.v3"
)

const MaxHumidity = 100.0

const (
	CurrencyMoney  = "Money"
	CurrencyEnergy = "Energy"
)

type Rules struct {
	DryRatePerSecond  float64       `yaml:"dry_rate_per_second"`
	WaterAmount       float64       `yaml:"water_amount"`
	PlantMinHumidity  float64       `yaml:"plant_min_humidity"`
	GrowthMinHumidity float64       `yaml:"growth_min_humidity"`
	Stage1After       float64       `yaml:"stage1_after_seconds"`
	Stage2After       float64       `yaml:"stage2_after_seconds"`
	DryLookBelow      float64       `yaml:"dry_look_below"`
	NotificationTTL   time.Duration `yaml:"notification_ttl"`
}

func DefaultRules() Rules {
	return Rules{
		DryRatePerSecond:  5,
		WaterAmount:       20,
		PlantMinHumidity:  20,
		GrowthMinHumidity: 20,
		Stage1After:       15,
		Stage2After:       30,
		DryLookBelow:      30,
		NotificationTTL:   3 * time.Second,
	}
}

type EffectKind string

const (
	EffectCurrency  EffectKind = "currency"
	EffectFertilize EffectKind = "fertilize"
)

type SeedSpec struct {
	Price  int `yaml:"price"`
	Payout int `yaml:"payout"`
}

type BuildingSpec struct {
	Price    int        `yaml:"price"`
	Interval float64    `yaml:"interval_seconds"`
	Effect   EffectKind `yaml:"effect"`
	Currency string     `yaml:"currency,omitempty"`
	Amount   int        `yaml:"amount"`
	Radius   int        `yaml:"radius,omitempty"`
	Message  string     `yaml:"message"`
}

// Catalog holds everything the shop sells and what it yields.
type Catalog struct {
	Rules            Rules                        `yaml:"rules"`
	Seeds            map[SeedTag]SeedSpec         `yaml:"seeds"`
	Buildings        map[BuildingTag]BuildingSpec `yaml:"buildings"`
	DefaultPayout    int                          `yaml:"default_payout"`
	StartingBalances map[string]int               `yaml:"starting_balances"`
}

func DefaultCatalog() Catalog {
	return Catalog{
		Rules: DefaultRules(),
		Seeds: map[SeedTag]SeedSpec{
			SeedWheat: {Price: 5, Payout: 10},
		},
		Buildings: map[BuildingTag]BuildingSpec{
			BuildingMoney: {
				Price: 70, Interval: 5, Effect: EffectCurrency, Currency: CurrencyMoney, Amount: 5,
				Message: "Money Factory produced $5!",
			},
			BuildingEnergy: {
				Price: 50, Interval: 8, Effect: EffectCurrency, Currency: CurrencyEnergy, Amount: 10,
				Message: "Energy Factory produced 10 Energy!",
			},
			BuildingFertilizer: {
				Price: 40, Interval: 6, Effect: EffectFertilize, Amount: 10, Radius: 1,
				Message: "Fertilizer increased soil humidity nearby!",
			},
		},
		DefaultPayout: 5,
		StartingBalances: map[string]int{
			CurrencyMoney:  100,
			CurrencyEnergy: 50,
		},
	}
}

// LoadCatalog overlays a YAML tuning file on the built-in catalog. An empty
// path returns the defaults unchanged.
func LoadCatalog(path string) (Catalog, error) {
	c := DefaultCatalog()
	if path == "" {
		return c, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return c, nil
		}
		return Catalog{}, fmt.Errorf("read tuning: %w", err)
	}
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Catalog{}, fmt.Errorf("parse tuning: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Catalog{}, err
	}
	return c, nil
}

func (c Catalog) Validate() error {
	if c.DefaultPayout < 0 {
		return errors.New("default_payout must be >= 0")
	}
	for tag, s := range c.Seeds {
		if s.Price < 0 || s.Payout < 0 {
			return fmt.Errorf("seed %s: price and payout must be >= 0", tag)
		}
	}
	for tag, b := range c.Buildings {
		if b.Interval <= 0 {
			return fmt.Errorf("building %s: interval_seconds must be > 0", tag)
		}
		if b.Price < 0 {
			return fmt.Errorf("building %s: price must be >= 0", tag)
		}
		switch b.Effect {
		case EffectCurrency:
			if b.Currency == "" {
				return fmt.Errorf("building %s: currency effect needs a currency", tag)
			}
		case EffectFertilize:
			if b.Radius < 0 {
				return fmt.Errorf("building %s: radius must be >= 0", tag)
			}
		default:
			return fmt.Errorf("building %s: unknown effect %q", tag, b.Effect)
		}
	}
	if c.Rules.Stage1After < 0 || c.Rules.Stage2After < c.Rules.Stage1After {
		return errors.New("rules: stage thresholds must satisfy 0 <= stage1 <= stage2")
	}
	return nil
}

func (c Catalog) Payout(seed SeedTag) int {
	if s, ok := c.Seeds[seed]; ok {
		return s.Payout
	}
	return c.DefaultPayout
}

type PriceEntry struct {
	Tag   string
	Price int
}

func (c Catalog) SeedPrices() []PriceEntry {
	out := make([]PriceEntry, 0, len(c.Seeds))
	for tag, s := range c.Seeds {
		out = append(out, PriceEntry{Tag: string(tag), Price: s.Price})
	}
	sortPrices(out)
	return out
}

func (c Catalog) BuildingPrices() []PriceEntry {
	out := make([]PriceEntry, 0, len(c.Buildings))
	for tag, b := range c.Buildings {
		out = append(out, PriceEntry{Tag: string(tag), Price: b.Price})
	}
	sortPrices(out)
	return out
}

// sortPrices orders by price descending, then tag, matching the shop layout.
func sortPrices(entries []PriceEntry) {
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Price == entries[j].Price {
			return entries[i].Tag < entries[j].Tag
		}
		return entries[i].Price > entries[j].Price
	})
}
