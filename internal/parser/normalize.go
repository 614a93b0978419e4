package parser

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var multiSpaceRE = regexp.MustCompile(`\s+`)

// foldAccents strips combining marks, so "blé" and "ble" match.
func foldAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

func normaliseInput(raw string) string {
	raw = strings.TrimSpace(strings.ToLower(foldAccents(raw)))
	if raw == "" {
		return ""
	}
	var b strings.Builder
	lastSpace := false
	for _, r := range raw {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			lastSpace = false
			continue
		}
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == '-' || r == '_' || r == '/' || r == '\'' {
			if !lastSpace {
				b.WriteByte(' ')
			}
			lastSpace = true
		}
	}
	return strings.TrimSpace(multiSpaceRE.ReplaceAllString(b.String(), " "))
}

func tokenise(normalised string) []string {
	if strings.TrimSpace(normalised) == "" {
		return nil
	}
	return strings.Fields(normalised)
}

// itemKey folds an item tag so "MoneyFactory", "money factory" and
// "money-factory" compare equal.
func itemKey(s string) string {
	return strings.ReplaceAll(normaliseInput(s), " ", "")
}

func parseQuantityToken(token string) *Quantity {
	token = strings.TrimSpace(strings.ToLower(token))
	if token == "" {
		return nil
	}
	switch token {
	case "all":
		return &Quantity{Raw: token, N: -1}
	case "a", "an", "one":
		return &Quantity{Raw: token, N: 1}
	}
	token = strings.TrimPrefix(token, "x")
	if n, err := strconv.Atoi(token); err == nil && n > 0 {
		return &Quantity{Raw: token, N: n}
	}
	return nil
}

func isPronoun(token string) bool {
	switch strings.ToLower(strings.TrimSpace(token)) {
	case "it", "that", "them", "this", "those", "another", "more":
		return true
	default:
		return false
	}
}

func isFiller(token string) bool {
	switch token {
	case "the", "some", "seed", "seeds", "of", "please":
		return true
	default:
		return false
	}
}
