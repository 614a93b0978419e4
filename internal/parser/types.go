package parser

type IntentKind int

const (
	Command IntentKind = iota
	Query
	Help
	Unknown
)

// Quantity is a count parsed from the arguments, e.g. "buy 3 wheat".
// N is -1 for "all".
type Quantity struct {
	Raw string
	N   int
}

type Intent struct {
	Raw        string
	Normalised string
	Kind       IntentKind
	Verb       string
	Args       []string
	Quantity   *Quantity
	Confidence float64
	Clarify    *ClarifyQuestion
}

type ClarifyQuestion struct {
	Prompt  string
	Options []Intent
}

// ParseContext carries the names the console can resolve item arguments
// against. Items is everything the shop sells; Inventory is what the
// player currently holds.
type ParseContext struct {
	Items     []string
	Inventory []string
	LastItem  string
}

// ArgKind says what a command's first argument resolves against.
type ArgKind int

const (
	ArgNone ArgKind = iota
	ArgShopItem
	ArgInventoryItem
)

type CommandDef struct {
	Canonical  string
	Aliases    []string
	MinArgs    int
	MaxArgs    int
	Arg        ArgKind
	Summary    string
	HandlerKey string
}
