package farm

import "sort"

// Ledger tracks named currency balances. A balance never goes negative
// through Deduct.
type Ledger struct {
	balances map[string]int
}

func NewLedger(initial map[string]int) *Ledger {
	l := &Ledger{balances: make(map[string]int, len(initial))}
	for k, v := range initial {
		l.balances[k] = v
	}
	return l
}

func (l *Ledger) Balance(currency string) int {
	return l.balances[currency]
}

// Add credits amount to currency. Negative amounts are ignored; use Deduct.
func (l *Ledger) Add(currency string, amount int) {
	if amount < 0 {
		return
	}
	l.balances[currency] += amount
}

// Deduct subtracts amount only if the balance covers it.
func (l *Ledger) Deduct(currency string, amount int) bool {
	if amount < 0 {
		return false
	}
	if l.balances[currency] < amount {
		return false
	}
	l.balances[currency] -= amount
	return true
}

func (l *Ledger) Balances() map[string]int {
	out := make(map[string]int, len(l.balances))
	for k, v := range l.balances {
		out[k] = v
	}
	return out
}

// replace swaps in restored balances. Negative amounts are floored at 0.
func (l *Ledger) replace(balances map[string]int) {
	l.balances = make(map[string]int, len(balances))
	for k, v := range balances {
		l.balances[k] = max(0, v)
	}
}

type Stack struct {
	Tag   string
	Count int
}

// Inventory holds owned seeds and buildings. Entries that reach zero are
// removed so listings only show what can be placed.
type Inventory struct {
	seeds     map[SeedTag]int
	buildings map[BuildingTag]int
}

func NewInventory() *Inventory {
	return &Inventory{
		seeds:     make(map[SeedTag]int),
		buildings: make(map[BuildingTag]int),
	}
}

func (inv *Inventory) AddSeed(tag SeedTag, n int) {
	if n <= 0 || tag == "" {
		return
	}
	inv.seeds[tag] += n
}

func (inv *Inventory) AddBuilding(tag BuildingTag, n int) {
	if n <= 0 || tag == "" {
		return
	}
	inv.buildings[tag] += n
}

func (inv *Inventory) UseSeed(tag SeedTag) bool {
	if inv.seeds[tag] <= 0 {
		return false
	}
	inv.seeds[tag]--
	if inv.seeds[tag] == 0 {
		delete(inv.seeds, tag)
	}
	return true
}

func (inv *Inventory) UseBuilding(tag BuildingTag) bool {
	if inv.buildings[tag] <= 0 {
		return false
	}
	inv.buildings[tag]--
	if inv.buildings[tag] == 0 {
		delete(inv.buildings, tag)
	}
	return true
}

func (inv *Inventory) SeedCount(tag SeedTag) int {
	return inv.seeds[tag]
}

func (inv *Inventory) BuildingCount(tag BuildingTag) int {
	return inv.buildings[tag]
}

func (inv *Inventory) Seeds() []Stack {
	out := make([]Stack, 0, len(inv.seeds))
	for tag, n := range inv.seeds {
		out = append(out, Stack{Tag: string(tag), Count: n})
	}
	sortStacks(out)
	return out
}

func (inv *Inventory) Buildings() []Stack {
	out := make([]Stack, 0, len(inv.buildings))
	for tag, n := range inv.buildings {
		out = append(out, Stack{Tag: string(tag), Count: n})
	}
	sortStacks(out)
	return out
}

func (inv *Inventory) Empty() bool {
	return len(inv.seeds) == 0 && len(inv.buildings) == 0
}

func sortStacks(s []Stack) {
	sort.Slice(s, func(i, j int) bool { return s[i].Tag < s[j].Tag })
}

// Economy groups the ledger and inventory owned by one farm session.
type Economy struct {
	Ledger    *Ledger
	Inventory *Inventory
}

func NewEconomy(starting map[string]int) *Economy {
	return &Economy{Ledger: NewLedger(starting), Inventory: NewInventory()}
}
