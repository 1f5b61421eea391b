package notify

import (
	"fmt"
	"sort"
	"strings"
)

// OddsFormat selects a display convention for moneyline odds.
type OddsFormat string

const (
	OddsAmerican   OddsFormat = "american"
	OddsDecimal    OddsFormat = "decimal"
	OddsFractional OddsFormat = "fractional"
)

// FormatOdds renders an American moneyline value in the requested convention.
// american == 0 is ambiguous in every convention; callers skip formatting
// instead of passing it. An unknown format falls back to american.
func FormatOdds(american int, format OddsFormat) string {
	switch format {
	case OddsDecimal:
		var dec float64
		if american > 0 {
			dec = float64(american)/100 + 1
		} else {
			dec = 1 - 100/float64(american)
		}
		return fmt.Sprintf("%.2f", dec)
	case OddsFractional:
		var num, den int
		if american > 0 {
			num, den = american, 100
		} else {
			num, den = 100, -american
		}
		d := gcd(num, den)
		return fmt.Sprintf("%d/%d", num/d, den/d)
	default:
		if american > 0 {
			return fmt.Sprintf("+%d", american)
		}
		return fmt.Sprintf("%d", american)
	}
}

// gcd is the iterative Euclidean algorithm. Inputs are normalized to be
// non-negative; gcd(n, 0) = n so a zero operand cannot divide by zero later.
func gcd(a, b int) int {
	if a < 0 {
		a = -a
	}
	if b < 0 {
		b = -b
	}
	for b != 0 {
		a, b = b, a%b
	}
	if a == 0 {
		return 1
	}
	return a
}

// FormatStats renders a stat bundle to display text. The bundle's "type" key
// selects the layout: player lines, team records, or generic key/value pairs.
// Missing player fields default to 0.
func FormatStats(stats map[string]string) string {
	switch stats["type"] {
	case "player":
		return fmt.Sprintf("%s pts, %s reb, %s ast",
			statOr(stats, "points"), statOr(stats, "rebounds"), statOr(stats, "assists"))
	case "team":
		return fmt.Sprintf("%s-%s", statOr(stats, "wins"), statOr(stats, "losses"))
	default:
		keys := make([]string, 0, len(stats))
		for k := range stats {
			if k == "type" {
				continue
			}
			keys = append(keys, k)
		}
		sort.Strings(keys)
		pairs := make([]string, 0, len(keys))
		for _, k := range keys {
			pairs = append(pairs, fmt.Sprintf("%s: %s", k, stats[k]))
		}
		return strings.Join(pairs, ", ")
	}
}

func statOr(stats map[string]string, key string) string {
	if v, ok := stats[key]; ok && v != "" {
		return v
	}
	return "0"
}
