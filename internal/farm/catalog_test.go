package farm

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadCatalogDefaults(t *testing.T) {
	c, err := LoadCatalog("")
	require.NoError(t, err)
	assert.Equal(t, DefaultCatalog(), c)

	c, err = LoadCatalog(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 5, c.Seeds[SeedWheat].Price)
}

func TestLoadCatalogOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tuning.yaml")
	doc := `
rules:
  dry_rate_per_second: 2.5
  notification_ttl: 5s
seeds:
  carrot:
    price: 8
    payout: 20
buildings:
  MoneyFactory:
    price: 90
    interval_seconds: 4
    effect: currency
    currency: Money
    amount: 6
    message: "Money Factory produced $6!"
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))

	c, err := LoadCatalog(path)
	require.NoError(t, err)
	assert.Equal(t, 2.5, c.Rules.DryRatePerSecond)
	assert.Equal(t, 5*time.Second, c.Rules.NotificationTTL)
	assert.Equal(t, 20.0, c.Rules.WaterAmount, "unset rules keep defaults")
	assert.Equal(t, SeedSpec{Price: 8, Payout: 20}, c.Seeds["carrot"])
	assert.Equal(t, 10, c.Payout(SeedWheat))
	assert.Equal(t, 90, c.Buildings[BuildingMoney].Price)
	assert.Equal(t, 50, c.Buildings[BuildingEnergy].Price)
}

func TestLoadCatalogRejectsBadBuilding(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tuning.yaml")
	doc := `
buildings:
  Windmill:
    price: 10
    interval_seconds: 0
    effect: currency
    currency: Energy
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))
	_, err := LoadCatalog(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Windmill")
}

func TestCatalogPriceListings(t *testing.T) {
	c := DefaultCatalog()
	assert.Equal(t, []PriceEntry{
		{Tag: "MoneyFactory", Price: 70},
		{Tag: "EnergyFactory", Price: 50},
		{Tag: "FertilizerFactory", Price: 40},
	}, c.BuildingPrices())
	assert.Equal(t, []PriceEntry{{Tag: "wheat", Price: 5}}, c.SeedPrices())
	assert.Equal(t, 5, c.Payout("unknown"))
}
