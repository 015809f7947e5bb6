// Package fuzzy implements order-insensitive token-set similarity on top of
// an Indel (insert/delete) edit distance.
package fuzzy

import (
	"math"
	"slices"
	"strings"

	lev "github.com/texttheater/golang-levenshtein/levenshtein"
)

// MaxScore is the score of two identical (non-empty) token sets.
const MaxScore = 100

// Ratio returns the normalised Indel similarity of a and b in [0,100]:
// (len(a)+len(b)-dist) / (len(a)+len(b)), lengths in runes. Two empty
// strings are identical.
//
// lev.DefaultOptions weighs a substitution as a delete plus an insert, which
// is exactly the Indel distance.
func Ratio(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	if len(ra)+len(rb) == 0 {
		return MaxScore
	}
	return lev.RatioForStrings(ra, rb, lev.DefaultOptions) * MaxScore
}

// TokenSetRatio scores a against b in [0,100], ignoring token order and
// duplicates. Tokens are whitespace separated.
//
// With sect the sorted shared tokens and diffAB/diffBA the sorted leftovers,
// the score is the best Ratio among
//
//	sect            vs sect+diffAB
//	sect            vs sect+diffBA
//	sect+diffAB     vs sect+diffBA
//
// rounded to the nearest integer. The first two pairs are skipped when
// nothing is shared. Either side without tokens scores 0.
func TokenSetRatio(a, b string) int {
	return int(math.Round(tokenSetRatio(a, b)))
}

func tokenSetRatio(a, b string) float64 {
	ta, tb := tokenSet(a), tokenSet(b)
	if len(ta) == 0 || len(tb) == 0 {
		return 0
	}

	var sect, diffAB, diffBA []string
	for tok := range ta {
		if _, ok := tb[tok]; ok {
			sect = append(sect, tok)
		} else {
			diffAB = append(diffAB, tok)
		}
	}
	for tok := range tb {
		if _, ok := ta[tok]; !ok {
			diffBA = append(diffBA, tok)
		}
	}
	slices.Sort(sect)
	slices.Sort(diffAB)
	slices.Sort(diffBA)

	base := strings.Join(sect, " ")
	withAB := joinNonEmpty(base, strings.Join(diffAB, " "))
	withBA := joinNonEmpty(base, strings.Join(diffBA, " "))

	best := Ratio(withAB, withBA)
	if base == "" {
		return best
	}
	return max(best, Ratio(base, withAB), Ratio(base, withBA))
}

func tokenSet(s string) map[string]struct{} {
	fields := strings.Fields(s)
	set := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		set[f] = struct{}{}
	}
	return set
}

func joinNonEmpty(a, b string) string {
	switch {
	case a == "":
		return b
	case b == "":
		return a
	default:
		return a + " " + b
	}
}
