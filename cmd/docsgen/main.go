package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/appengine-ltd/agrodm/internal/farm"
	"github.com/appengine-ltd/agrodm/internal/parser"
)

type docFile struct {
	Name    string
	Title   string
	Content string
}

func main() {
	tuning := flag.String("tuning", "", "YAML tuning file to document instead of the built-in catalog")
	out := flag.String("out", filepath.Join("docs", "reference"), "output directory")
	flag.Parse()

	catalog, err := farm.LoadCatalog(*tuning)
	if err != nil {
		fatal(err)
	}
	if err := os.MkdirAll(*out, 0o755); err != nil {
		fatal(err)
	}

	files := []docFile{
		generateSeedsDoc(catalog),
		generateBuildingsDoc(catalog),
		generateRulesDoc(catalog),
		generateCommandsDoc(parser.New().Commands()),
	}
	for _, f := range files {
		path := filepath.Join(*out, f.Name)
		if err := os.WriteFile(path, []byte(f.Content), 0o644); err != nil {
			fatal(err)
		}
		fmt.Printf("wrote %s\n", path)
	}

	index := generateIndex(files)
	indexPath := filepath.Join(*out, "README.md")
	if err := os.WriteFile(indexPath, []byte(index), 0o644); err != nil {
		fatal(err)
	}
	fmt.Printf("wrote %s\n", indexPath)
}

func generateIndex(files []docFile) string {
	var b strings.Builder
	b.WriteString("# Reference\n\n")
	b.WriteString("Generated from the current Go source using `go run ./cmd/docsgen`.\n\n")
	for _, f := range files {
		b.WriteString(fmt.Sprintf("- [%s](./%s)\n", f.Title, f.Name))
	}
	return b.String()
}

func generateSeedsDoc(c farm.Catalog) docFile {
	tags := make([]string, 0, len(c.Seeds))
	for tag := range c.Seeds {
		tags = append(tags, string(tag))
	}
	sort.Strings(tags)

	var b strings.Builder
	b.WriteString("# Seeds\n\n")
	b.WriteString(fmt.Sprintf("Harvesting an unlisted seed pays $%d.\n\n", c.DefaultPayout))
	b.WriteString("| Seed | Price | Harvest payout | Profit |\n")
	b.WriteString("|---|---:|---:|---:|\n")
	for _, tag := range tags {
		s := c.Seeds[farm.SeedTag(tag)]
		b.WriteString(fmt.Sprintf("| %s | %d | %d | %d |\n", escape(tag), s.Price, s.Payout, s.Payout-s.Price))
	}
	return docFile{Name: "seeds.md", Title: "Seeds", Content: b.String()}
}

func generateBuildingsDoc(c farm.Catalog) docFile {
	entries := c.BuildingPrices()

	var b strings.Builder
	b.WriteString("# Buildings\n\n")
	b.WriteString("| Building | Price | Interval (s) | Effect | Amount | Radius | Message |\n")
	b.WriteString("|---|---:|---:|---|---:|---:|---|\n")
	for _, e := range entries {
		spec := c.Buildings[farm.BuildingTag(e.Tag)]
		effect := string(spec.Effect)
		if spec.Effect == farm.EffectCurrency {
			effect = fmt.Sprintf("%s +%s", effect, spec.Currency)
		}
		radius := ""
		if spec.Effect == farm.EffectFertilize {
			radius = strconv.Itoa(spec.Radius)
		}
		b.WriteString(fmt.Sprintf("| %s | %d | %s | %s | %d | %s | %s |\n",
			escape(e.Tag), spec.Price, formatFloat(spec.Interval), escape(effect), spec.Amount, radius, escape(spec.Message)))
	}
	return docFile{Name: "buildings.md", Title: "Buildings", Content: b.String()}
}

func generateRulesDoc(c farm.Catalog) docFile {
	r := c.Rules
	rows := [][2]string{
		{"Humidity lost per second", formatFloat(r.DryRatePerSecond)},
		{"Humidity added by watering", formatFloat(r.WaterAmount)},
		{"Minimum humidity to plant", formatFloat(r.PlantMinHumidity)},
		{"Minimum humidity to grow", formatFloat(r.GrowthMinHumidity)},
		{"Seconds to sprout", formatFloat(r.Stage1After)},
		{"Seconds to ripen", formatFloat(r.Stage2After)},
		{"Soil looks dry below", formatFloat(r.DryLookBelow)},
		{"Notification lifetime", r.NotificationTTL.String()},
		{"Maximum humidity", formatFloat(farm.MaxHumidity)},
	}

	currencies := make([]string, 0, len(c.StartingBalances))
	for name := range c.StartingBalances {
		currencies = append(currencies, name)
	}
	sort.Strings(currencies)

	var b strings.Builder
	b.WriteString("# Rules\n\n")
	b.WriteString("| Rule | Value |\n")
	b.WriteString("|---|---:|\n")
	for _, row := range rows {
		b.WriteString(fmt.Sprintf("| %s | %s |\n", row[0], row[1]))
	}
	b.WriteString("\n## Starting balances\n\n")
	b.WriteString("| Currency | Amount |\n")
	b.WriteString("|---|---:|\n")
	for _, name := range currencies {
		b.WriteString(fmt.Sprintf("| %s | %d |\n", escape(name), c.StartingBalances[name]))
	}
	return docFile{Name: "rules.md", Title: "Rules", Content: b.String()}
}

func generateCommandsDoc(cmds []parser.CommandDef) docFile {
	var b strings.Builder
	b.WriteString("# Console Commands\n\n")
	b.WriteString("Open the console with `/` on the farm screen. Commands tolerate typos and unique prefixes.\n\n")
	b.WriteString("| Command | Aliases | Argument | Summary |\n")
	b.WriteString("|---|---|---|---|\n")
	for _, c := range cmds {
		aliases := append([]string(nil), c.Aliases...)
		sort.Strings(aliases)
		b.WriteString(fmt.Sprintf("| `%s` | %s | %s | %s |\n",
			c.Canonical, escape(strings.Join(aliases, ", ")), argLabel(c), escape(c.Summary)))
	}
	return docFile{Name: "commands.md", Title: "Console Commands", Content: b.String()}
}

func argLabel(c parser.CommandDef) string {
	var label string
	switch c.Arg {
	case parser.ArgShopItem:
		label = "shop item"
	case parser.ArgInventoryItem:
		label = "inventory item"
	default:
		return ""
	}
	if c.MinArgs == 0 {
		label += " (optional)"
	}
	return label
}

func formatFloat(v float64) string {
	if v == 0 {
		return "0"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func escape(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return ""
	}
	v = strings.ReplaceAll(v, "|", "\\|")
	v = strings.ReplaceAll(v, "\n", "<br>")
	return v
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
