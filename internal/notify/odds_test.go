package notify

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatOddsAmerican(t *testing.T) {
	assert.Equal(t, "+150", FormatOdds(150, OddsAmerican))
	assert.Equal(t, "-200", FormatOdds(-200, OddsAmerican))
	// Unknown format falls back to american
	assert.Equal(t, "+137", FormatOdds(137, OddsFormat("martian")))
}

func TestFormatOddsDecimal(t *testing.T) {
	assert.Equal(t, "2.50", FormatOdds(150, OddsDecimal))
	assert.Equal(t, "1.50", FormatOdds(-200, OddsDecimal))
	assert.Equal(t, "3.00", FormatOdds(200, OddsDecimal))
}

func TestFormatOddsFractional(t *testing.T) {
	assert.Equal(t, "2/1", FormatOdds(200, OddsFractional))
	assert.Equal(t, "2/3", FormatOdds(-150, OddsFractional))
	assert.Equal(t, "3/2", FormatOdds(150, OddsFractional))
	// Coprime with 100 — unreduced but valid
	assert.Equal(t, "137/100", FormatOdds(137, OddsFractional))
	assert.Equal(t, "100/137", FormatOdds(-137, OddsFractional))
}

func TestGCD(t *testing.T) {
	assert.Equal(t, 100, gcd(200, 100))
	assert.Equal(t, 1, gcd(137, 100))
	assert.Equal(t, 50, gcd(-150, 100))
	assert.Equal(t, 7, gcd(0, 7))
	assert.Equal(t, 1, gcd(0, 0))
}

func TestFormatStatsPlayer(t *testing.T) {
	got := FormatStats(map[string]string{
		"type": "player", "points": "31", "rebounds": "8", "assists": "11",
	})
	assert.Equal(t, "31 pts, 8 reb, 11 ast", got)

	// Missing fields default to 0
	got = FormatStats(map[string]string{"type": "player", "points": "12"})
	assert.Equal(t, "12 pts, 0 reb, 0 ast", got)
}

func TestFormatStatsTeam(t *testing.T) {
	got := FormatStats(map[string]string{"type": "team", "wins": "42", "losses": "18"})
	assert.Equal(t, "42-18", got)
}

func TestFormatStatsGeneric(t *testing.T) {
	got := FormatStats(map[string]string{"type": "model", "accuracy": "61%", "roi": "4.2%"})
	assert.Equal(t, "accuracy: 61%, roi: 4.2%", got)
}
