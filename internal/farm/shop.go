package farm

// Shop sells catalog items for Money. Inventory changes only after a
// successful deduction.
type Shop struct {
	catalog Catalog
}

func NewShop(c Catalog) *Shop {
	return &Shop{catalog: c}
}

func (s *Shop) BuySeed(econ *Economy, tag SeedTag) (int, bool) {
	spec, ok := s.catalog.Seeds[tag]
	if !ok {
		return 0, false
	}
	if !econ.Ledger.Deduct(CurrencyMoney, spec.Price) {
		return spec.Price, false
	}
	econ.Inventory.AddSeed(tag, 1)
	return spec.Price, true
}

func (s *Shop) BuyBuilding(econ *Economy, tag BuildingTag) (int, bool) {
	spec, ok := s.catalog.Buildings[tag]
	if !ok {
		return 0, false
	}
	if !econ.Ledger.Deduct(CurrencyMoney, spec.Price) {
		return spec.Price, false
	}
	econ.Inventory.AddBuilding(tag, 1)
	return spec.Price, true
}

func (s *Shop) SeedPrices() []PriceEntry {
	return s.catalog.SeedPrices()
}

func (s *Shop) BuildingPrices() []PriceEntry {
	return s.catalog.BuildingPrices()
}

// Sells reports whether tag names a seed or building in the catalog.
func (s *Shop) Sells(tag string) (SelectionKind, bool) {
	if _, ok := s.catalog.Seeds[SeedTag(tag)]; ok {
		return SelectSeed, true
	}
	if _, ok := s.catalog.Buildings[BuildingTag(tag)]; ok {
		return SelectBuilding, true
	}
	return SelectNone, false
}
