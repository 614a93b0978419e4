package farm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLedgerDeductIsAtomic(t *testing.T) {
	l := NewLedger(map[string]int{CurrencyMoney: 100})

	assert.False(t, l.Deduct(CurrencyMoney, 150))
	assert.Equal(t, 100, l.Balance(CurrencyMoney))

	assert.True(t, l.Deduct(CurrencyMoney, 100))
	assert.Equal(t, 0, l.Balance(CurrencyMoney))

	assert.False(t, l.Deduct("Gold", 1))
	assert.True(t, l.Deduct("Gold", 0))
	assert.False(t, l.Deduct(CurrencyMoney, -5))
}

func TestLedgerAddIgnoresNegative(t *testing.T) {
	l := NewLedger(nil)
	l.Add(CurrencyEnergy, 10)
	l.Add(CurrencyEnergy, -4)
	assert.Equal(t, 10, l.Balance(CurrencyEnergy))
}

func TestLedgerBalancesIsACopy(t *testing.T) {
	l := NewLedger(map[string]int{CurrencyMoney: 5})
	b := l.Balances()
	b[CurrencyMoney] = 999
	assert.Equal(t, 5, l.Balance(CurrencyMoney))
}

func TestInventoryRemovesEmptyEntries(t *testing.T) {
	inv := NewInventory()
	inv.AddSeed(SeedWheat, 2)
	inv.AddBuilding(BuildingMoney, 1)

	require.True(t, inv.UseSeed(SeedWheat))
	require.True(t, inv.UseSeed(SeedWheat))
	assert.False(t, inv.UseSeed(SeedWheat))
	assert.Empty(t, inv.Seeds())

	require.True(t, inv.UseBuilding(BuildingMoney))
	assert.False(t, inv.UseBuilding(BuildingMoney))
	assert.True(t, inv.Empty())
}

func TestInventoryListingsAreSorted(t *testing.T) {
	inv := NewInventory()
	inv.AddBuilding(BuildingMoney, 1)
	inv.AddBuilding(BuildingEnergy, 3)
	inv.AddBuilding(BuildingFertilizer, 2)
	inv.AddSeed("", 4)
	inv.AddSeed(SeedWheat, 0)

	assert.Equal(t, []Stack{
		{Tag: "EnergyFactory", Count: 3},
		{Tag: "FertilizerFactory", Count: 2},
		{Tag: "MoneyFactory", Count: 1},
	}, inv.Buildings())
	assert.Empty(t, inv.Seeds())
}

func TestShopDeductsBeforeGranting(t *testing.T) {
	econ := NewEconomy(map[string]int{CurrencyMoney: 60})
	shop := NewShop(DefaultCatalog())

	price, ok := shop.BuyBuilding(econ, BuildingMoney)
	assert.False(t, ok)
	assert.Equal(t, 70, price)
	assert.Equal(t, 0, econ.Inventory.BuildingCount(BuildingMoney))
	assert.Equal(t, 60, econ.Ledger.Balance(CurrencyMoney))

	price, ok = shop.BuyBuilding(econ, BuildingEnergy)
	require.True(t, ok)
	assert.Equal(t, 50, price)
	assert.Equal(t, 1, econ.Inventory.BuildingCount(BuildingEnergy))
	assert.Equal(t, 10, econ.Ledger.Balance(CurrencyMoney))

	_, ok = shop.BuySeed(econ, SeedWheat)
	require.True(t, ok)
	assert.Equal(t, 5, econ.Ledger.Balance(CurrencyMoney))

	_, ok = shop.BuySeed(econ, "corn")
	assert.False(t, ok)
	assert.Equal(t, 5, econ.Ledger.Balance(CurrencyMoney))
}

func TestShopSells(t *testing.T) {
	shop := NewShop(DefaultCatalog())
	kind, ok := shop.Sells("wheat")
	assert.True(t, ok)
	assert.Equal(t, SelectSeed, kind)
	kind, ok = shop.Sells("FertilizerFactory")
	assert.True(t, ok)
	assert.Equal(t, SelectBuilding, kind)
	_, ok = shop.Sells("tractor")
	assert.False(t, ok)
}
