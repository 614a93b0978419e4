// Package console runs typed commands against a farm session.
package console

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/appengine-ltd/agrodm/internal/farm"
	"github.com/appengine-ltd/agrodm/internal/parser"
)

const maxLog = 200

type Console struct {
	parser   *parser.Parser
	farm     *farm.Farm
	savePath string

	lastItem string
	pending  *parser.ClarifyQuestion
	log      []string
}

func New(f *farm.Farm, savePath string) *Console {
	return &Console{parser: parser.New(), farm: f, savePath: savePath}
}

// SetFarm swaps the session the console drives, e.g. after a new game.
func (c *Console) SetFarm(f *farm.Farm) {
	c.farm = f
	c.pending = nil
}

func (c *Console) Log() []string {
	return append([]string(nil), c.log...)
}

// Pending reports whether the console is waiting for a numbered answer to
// a clarify question.
func (c *Console) Pending() *parser.ClarifyQuestion {
	return c.pending
}

// Submit parses raw and runs it. A bare number answers a pending clarify
// question. The reply lines are also appended to the log.
func (c *Console) Submit(raw string) []string {
	raw = strings.TrimSpace(raw)
	c.append("> " + raw)

	if c.pending != nil {
		if n, err := strconv.Atoi(raw); err == nil {
			q := c.pending
			c.pending = nil
			if n < 1 || n > len(q.Options) {
				return c.reply("No such option.")
			}
			return c.Execute(q.Options[n-1])
		}
		c.pending = nil
	}

	intent := c.parser.Parse(c.context(), raw)
	if intent.Clarify != nil {
		return c.clarify(intent.Clarify)
	}
	return c.Execute(intent)
}

func (c *Console) clarify(q *parser.ClarifyQuestion) []string {
	lines := []string{q.Prompt}
	if len(q.Options) > 0 {
		c.pending = q
		for i, opt := range q.Options {
			lines = append(lines, fmt.Sprintf("  %d) %s", i+1, parser.IntentToCommandString(opt)))
		}
	}
	return c.reply(lines...)
}

// Execute applies a resolved intent. Farm actions report through the
// farm's notifier; the returned lines echo the latest notification.
func (c *Console) Execute(intent parser.Intent) []string {
	c.pending = nil
	f := c.farm
	if f == nil {
		return c.reply("No farm loaded.")
	}
	switch intent.Verb {
	case "help":
		return c.reply(c.help()...)
	case "status":
		return c.reply(c.status()...)
	case "plow":
		f.Control.SetMode(farm.ModePlow)
	case "water":
		f.Control.SetMode(farm.ModeWater)
	case "cursor":
		f.Control.SetMode(farm.ModeCursor)
	case "shop":
		f.Control.TogglePanel(farm.PanelShop)
	case "inventory":
		f.Control.TogglePanel(farm.PanelInventory)
	case "info":
		f.Control.TogglePanel(farm.PanelInfo)
	case "save":
		_ = f.Save(c.savePath)
	case "load":
		_ = f.Load(c.savePath)
	case "buy":
		return c.buy(intent)
	case "select":
		return c.selectItem(intent)
	default:
		return c.reply(fmt.Sprintf("Unknown command %q.", intent.Verb))
	}
	return c.reply(f.Notes.Last())
}

// Choose runs an option picked from a clarify prompt, echoing it to the log
// as if it had been typed.
func (c *Console) Choose(intent parser.Intent) []string {
	c.append("> " + parser.IntentToCommandString(intent))
	return c.Execute(intent)
}

func (c *Console) buy(intent parser.Intent) []string {
	f := c.farm
	tag := firstArg(intent)
	kind, ok := f.Shop.Sells(tag)
	if !ok {
		return c.reply(fmt.Sprintf("The shop doesn't sell %q.", tag))
	}
	n := 1
	if intent.Quantity != nil {
		n = intent.Quantity.N
	}

	bought := 0
	for n < 0 || bought < n {
		var done bool
		if kind == farm.SelectSeed {
			done = f.Control.BuySeed(farm.SeedTag(tag))
		} else {
			done = f.Control.BuyBuilding(farm.BuildingTag(tag))
		}
		if !done {
			break
		}
		bought++
	}
	c.lastItem = tag
	if n == 1 {
		return c.reply(f.Notes.Last())
	}
	lines := []string{fmt.Sprintf("Bought %d x %s.", bought, tag)}
	if n < 0 || bought < n {
		lines = append(lines, f.Notes.Last())
	}
	return c.reply(lines...)
}

func (c *Console) selectItem(intent parser.Intent) []string {
	f := c.farm
	tag := firstArg(intent)
	kind, ok := f.Shop.Sells(tag)
	if !ok {
		return c.reply(fmt.Sprintf("Unknown item %q.", tag))
	}
	if kind == farm.SelectSeed {
		f.Control.SelectSeed(farm.SeedTag(tag))
	} else {
		f.Control.SelectBuilding(farm.BuildingTag(tag))
	}
	c.lastItem = tag
	return c.reply(f.Notes.Last())
}

func (c *Console) help() []string {
	lines := []string{"Commands:"}
	for _, def := range c.parser.Commands() {
		line := "  " + def.Canonical
		if def.Summary != "" {
			line += " - " + def.Summary
		}
		lines = append(lines, line)
	}
	return lines
}

func (c *Console) status() []string {
	f := c.farm
	bal := f.Economy.Ledger.Balances()
	names := make([]string, 0, len(bal))
	for k := range bal {
		names = append(names, k)
	}
	sort.Strings(names)
	parts := make([]string, 0, len(names))
	for _, k := range names {
		parts = append(parts, fmt.Sprintf("%s %d", k, bal[k]))
	}
	return []string{
		fmt.Sprintf("Day %d, mode %s", f.Day(), f.Control.Mode()),
		strings.Join(parts, ", "),
		fmt.Sprintf("Temp %.1fC, humidity %.0f%%, soil %.0f%%", f.Env.TemperatureC, f.Env.HumidityPct, f.Env.SoilMoisturePct),
	}
}

func (c *Console) context() parser.ParseContext {
	ctx := parser.ParseContext{LastItem: c.lastItem}
	if c.farm == nil {
		return ctx
	}
	for _, e := range c.farm.Shop.SeedPrices() {
		ctx.Items = append(ctx.Items, e.Tag)
	}
	for _, e := range c.farm.Shop.BuildingPrices() {
		ctx.Items = append(ctx.Items, e.Tag)
	}
	for _, s := range c.farm.Economy.Inventory.Seeds() {
		ctx.Inventory = append(ctx.Inventory, s.Tag)
	}
	for _, s := range c.farm.Economy.Inventory.Buildings() {
		ctx.Inventory = append(ctx.Inventory, s.Tag)
	}
	return ctx
}

func (c *Console) reply(lines ...string) []string {
	for _, l := range lines {
		c.append(l)
	}
	return lines
}

func (c *Console) append(line string) {
	c.log = append(c.log, line)
	if len(c.log) > maxLog {
		c.log = append([]string(nil), c.log[len(c.log)-maxLog:]...)
	}
}

func firstArg(intent parser.Intent) string {
	if len(intent.Args) == 0 {
		return ""
	}
	return intent.Args[0]
}
