package parser

import (
	"fmt"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
)

type Parser struct {
	registry *Registry
}

func New() *Parser {
	return &Parser{registry: DefaultRegistry()}
}

func (p *Parser) RegisterCommand(c CommandDef) {
	p.registry.RegisterCommand(c)
}

func (p *Parser) Commands() []CommandDef {
	return p.registry.Commands()
}

func (p *Parser) Parse(ctx ParseContext, raw string) Intent {
	intent := Intent{
		Raw:        raw,
		Normalised: normaliseInput(raw),
		Kind:       Unknown,
		Confidence: 0,
	}
	if intent.Normalised == "" {
		intent.Clarify = &ClarifyQuestion{Prompt: "Enter a command. Type help for a list."}
		return intent
	}

	tokens := tokenise(intent.Normalised)
	cmdMatch, alternates := p.registry.matchCommand(tokens)
	if cmdMatch.Canonical == "" || cmdMatch.Score < 0.5 {
		if inferred := inferFreeTextIntent(ctx, intent.Raw, intent.Normalised); inferred != nil {
			return *inferred
		}
		intent.Clarify = &ClarifyQuestion{
			Prompt: "I couldn't map that to a command. Try help, buy, select, plow, water, shop, inventory, save.",
		}
		return intent
	}

	if len(alternates) > 0 && (cmdMatch.Score-alternates[0].Score) < 0.05 && alternates[0].Score > 0.65 {
		intent.Clarify = &ClarifyQuestion{
			Prompt: "Did you mean:",
			Options: []Intent{
				{Raw: raw, Normalised: cmdMatch.Canonical, Kind: commandKind(cmdMatch.Canonical), Verb: cmdMatch.Canonical, Confidence: cmdMatch.Score},
				{Raw: raw, Normalised: alternates[0].Canonical, Kind: commandKind(alternates[0].Canonical), Verb: alternates[0].Canonical, Confidence: alternates[0].Score},
			},
		}
		return intent
	}

	intent.Verb = cmdMatch.Canonical
	intent.Kind = commandKind(intent.Verb)
	intent.Confidence = clampScore(cmdMatch.Score)

	argsTokens := tokens
	if cmdMatch.Consumed > 0 && len(tokens) >= cmdMatch.Consumed {
		argsTokens = tokens[cmdMatch.Consumed:]
	}
	argsTokens, q := splitQuantity(argsTokens)
	intent.Quantity = q

	def, _ := p.registry.command(intent.Verb)
	resolvedArgs, clarify, argScore := resolveArgs(ctx, def, argsTokens)
	if clarify != nil {
		intent.Clarify = clarify
		intent.Confidence = 0.45
		return intent
	}
	intent.Args = resolvedArgs
	if len(argsTokens) > 0 {
		intent.Confidence = clampScore((intent.Confidence * 0.75) + (argScore * 0.25))
	}

	if len(intent.Args) < def.MinArgs {
		if options := buildItemOptions(ctx, def, 5); len(options) > 0 {
			intent.Clarify = &ClarifyQuestion{
				Prompt:  fmt.Sprintf("What should I %s?", def.Canonical),
				Options: options,
			}
			intent.Confidence = 0.46
			return intent
		}
		intent.Clarify = &ClarifyQuestion{Prompt: fmt.Sprintf("%s needs an item.", def.Canonical)}
		intent.Confidence = 0.42
		return intent
	}

	if len(intent.Args) > def.MaxArgs {
		intent.Args = append([]string(nil), intent.Args[:def.MaxArgs]...)
		intent.Confidence = clampScore(intent.Confidence - 0.05)
	}

	if intent.Confidence < 0.52 && intent.Clarify == nil {
		intent.Clarify = &ClarifyQuestion{Prompt: "I have low confidence in that parse. Please rephrase."}
	}
	return intent
}

func commandKind(verb string) IntentKind {
	switch verb {
	case "help":
		return Help
	case "status":
		return Query
	default:
		return Command
	}
}

func splitQuantity(tokens []string) ([]string, *Quantity) {
	if len(tokens) == 0 {
		return nil, nil
	}
	out := make([]string, 0, len(tokens))
	var q *Quantity
	for _, token := range tokens {
		if q == nil {
			if candidate := parseQuantityToken(token); candidate != nil {
				q = candidate
				continue
			}
		}
		if isFiller(token) {
			continue
		}
		out = append(out, token)
	}
	return out, q
}

// resolveArgs maps the argument tokens onto a known item tag. Multi-word
// input is folded, so "money factory" resolves to MoneyFactory.
func resolveArgs(ctx ParseContext, def CommandDef, args []string) ([]string, *ClarifyQuestion, float64) {
	if len(args) == 0 {
		return nil, nil, 0.9
	}
	if def.Arg == ArgNone {
		return args, nil, 0.9
	}

	if len(args) == 1 && isPronoun(args[0]) {
		if strings.TrimSpace(ctx.LastItem) == "" {
			return nil, &ClarifyQuestion{Prompt: "Which item do you mean?"}, 0.4
		}
		return []string{ctx.LastItem}, nil, 0.82
	}

	pool, boost := itemPool(ctx, def.Arg)
	joined := strings.Join(args, " ")
	matches, confidence, tie := bestMatches(itemKey(joined), pool, boost)
	if tie && len(matches) >= 2 {
		options := make([]Intent, 0, 2)
		for idx := 0; idx < 2; idx++ {
			options = append(options, Intent{
				Kind:       commandKind(def.Canonical),
				Verb:       def.Canonical,
				Args:       []string{matches[idx]},
				Confidence: confidence - float64(idx)*0.01,
			})
		}
		return nil, &ClarifyQuestion{
			Prompt:  fmt.Sprintf("Did you mean %s:", def.Canonical),
			Options: options,
		}, 0.52
	}
	if len(matches) == 1 {
		return matches, nil, confidence
	}
	return []string{joined}, nil, 0.5
}

// itemPool returns the candidate tags for an argument kind keyed by their
// folded form, plus the tags that get a held-item boost.
func itemPool(ctx ParseContext, kind ArgKind) (map[string]string, map[string]bool) {
	pool := map[string]string{}
	boost := map[string]bool{}
	add := func(list []string, held bool) {
		for _, tag := range list {
			k := itemKey(tag)
			if k == "" {
				continue
			}
			if _, ok := pool[k]; !ok {
				pool[k] = tag
			}
			if held {
				boost[k] = true
			}
		}
	}
	switch kind {
	case ArgShopItem:
		add(ctx.Items, false)
	case ArgInventoryItem:
		add(ctx.Inventory, true)
		add(ctx.Items, false)
	}
	return pool, boost
}

func bestMatches(token string, pool map[string]string, boost map[string]bool) ([]string, float64, bool) {
	if token == "" || len(pool) == 0 {
		return nil, 0, false
	}
	type scored struct {
		val   string
		score float64
	}
	results := make([]scored, 0, len(pool))
	for key, tag := range pool {
		score := 0.0
		switch {
		case token == key:
			score = 1.0
		case strings.HasPrefix(key, token) && len(token) >= 2:
			score = 0.9
		default:
			dist := levenshtein.ComputeDistance(token, key)
			if dist > levenshteinLimit(len(key)) {
				continue
			}
			score = 0.72 - (0.08 * float64(dist))
		}
		if boost[key] {
			score += 0.08
		}
		results = append(results, scored{val: tag, score: clampScore(score)})
	}
	if len(results) == 0 {
		return nil, 0, false
	}
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].score == results[j].score {
			return results[i].val < results[j].val
		}
		return results[i].score > results[j].score
	})

	best := results[0]
	tie := len(results) > 1 && (best.score-results[1].score) < 0.05 && results[1].score > 0.6
	if tie {
		return []string{best.val, results[1].val}, best.score, true
	}
	return []string{best.val}, best.score, false
}

func buildItemOptions(ctx ParseContext, def CommandDef, maxOptions int) []Intent {
	var pool []string
	switch def.Arg {
	case ArgShopItem:
		pool = ctx.Items
	case ArgInventoryItem:
		pool = ctx.Inventory
	}
	seen := map[string]bool{}
	options := make([]Intent, 0, maxOptions)
	for _, tag := range pool {
		k := itemKey(tag)
		if k == "" || seen[k] {
			continue
		}
		seen[k] = true
		options = append(options, Intent{
			Kind:       commandKind(def.Canonical),
			Verb:       def.Canonical,
			Args:       []string{tag},
			Confidence: 0.88,
		})
		if len(options) >= maxOptions {
			break
		}
	}
	return options
}

func inferFreeTextIntent(ctx ParseContext, raw string, normalised string) *Intent {
	n := normalised
	makeIntent := func(kind IntentKind, verb string, args []string, confidence float64) *Intent {
		return &Intent{
			Raw:        raw,
			Normalised: normalised,
			Kind:       kind,
			Verb:       verb,
			Args:       args,
			Confidence: clampScore(confidence),
		}
	}

	if containsAnyPhrase(n, "what do i have", "what have i got", "my inventory", "open bag", "check my bag") {
		return makeIntent(Command, "inventory", nil, 0.92)
	}
	if containsAnyPhrase(n, "how much money", "what day", "how am i doing", "my balance") {
		return makeIntent(Query, "status", nil, 0.88)
	}
	if containsAnyPhrase(n, "what is the weather", "whats the weather", "how hot", "soil moisture") {
		return makeIntent(Command, "info", nil, 0.84)
	}

	// "i want to plant wheat" -> select wheat
	if containsAnyPhrase(n, "plant", "place", "put down") {
		tokens := tokenise(n)
		for i, tok := range tokens {
			if tok != "plant" && tok != "place" && tok != "down" {
				continue
			}
			rest, _ := splitQuantity(tokens[i+1:])
			if len(rest) == 0 {
				break
			}
			pool, boost := itemPool(ctx, ArgInventoryItem)
			m, confidence, tie := bestMatches(itemKey(strings.Join(rest, " ")), pool, boost)
			if len(m) >= 1 && !tie {
				return makeIntent(Command, "select", m[:1], confidence-0.06)
			}
			break
		}
	}

	return nil
}

func containsAnyPhrase(value string, phrases ...string) bool {
	for _, phrase := range phrases {
		if containsPhrase(value, phrase) {
			return true
		}
	}
	return false
}

func containsPhrase(value, phrase string) bool {
	p := normaliseInput(phrase)
	if p == "" {
		return false
	}
	return strings.Contains(" "+value+" ", " "+p+" ")
}

func clampScore(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// IntentToCommandString renders an intent back into console syntax, used
// to echo a chosen clarify option.
func IntentToCommandString(intent Intent) string {
	verb := normaliseInput(intent.Verb)
	if verb == "" {
		return ""
	}
	parts := []string{verb}
	if intent.Quantity != nil && intent.Quantity.Raw != "" {
		parts = append(parts, intent.Quantity.Raw)
	}
	for _, arg := range intent.Args {
		if a := strings.TrimSpace(arg); a != "" {
			parts = append(parts, a)
		}
	}
	return strings.Join(parts, " ")
}
