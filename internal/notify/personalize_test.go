package notify

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func newPersonalizer() *Personalizer {
	return NewPersonalizer(NewTemplateStore(DefaultTemplates))
}

func TestPersonalizeFavoriteWins(t *testing.T) {
	p := newPersonalizer()
	profile := &UserProfile{
		ID:          "u1",
		Favorites:   Favorites{Teams: []string{"BOS"}},
		Preferences: Preferences{IncludeOdds: true},
	}
	event := Event{
		Type:          TypePrediction,
		AffectedTeams: []string{"BOS"},
		Payload:       map[string]string{"teamName": "Celtics", "winner": "Celtics", "confidence": "72", "odds": "150"},
	}

	n := p.Personalize(event, profile)
	assert.Equal(t, VariantWithFavorite, n.Variant)
	assert.Equal(t, "Celtics Game Prediction", n.Title)
	// Body resolves the withFavorite specialization before withOdds
	assert.Contains(t, n.Body, "Celtics")
}

func TestPersonalizeOddsVariant(t *testing.T) {
	p := newPersonalizer()
	profile := &UserProfile{
		ID:          "u1",
		Preferences: Preferences{IncludeOdds: true, OddsFormat: OddsDecimal},
	}
	event := Event{
		Type:    TypeValueBet,
		Payload: map[string]string{"team": "Celtics", "edge": "6", "market": "moneyline", "odds": "150"},
	}

	n := p.Personalize(event, profile)
	assert.Equal(t, VariantWithOdds, n.Variant)
	// Odds rendered in the user's preferred format
	assert.Equal(t, "Celtics at 2.50, 6% edge on moneyline", n.Body)
	// valueBet defines no withOdds title: default title half
	assert.Equal(t, "Value Bet Alert", n.Title)
}

func TestPersonalizeOddsRequiresOptIn(t *testing.T) {
	p := newPersonalizer()
	profile := &UserProfile{ID: "u1"}
	event := Event{
		Type:    TypeValueBet,
		Payload: map[string]string{"team": "Celtics", "edge": "6", "market": "moneyline", "odds": "150"},
	}

	n := p.Personalize(event, profile)
	assert.Equal(t, VariantDefault, n.Variant)
	assert.Equal(t, "Celtics has 6% edge on moneyline", n.Body)
}

func TestPersonalizeZeroOddsSkipped(t *testing.T) {
	p := newPersonalizer()
	profile := &UserProfile{ID: "u1", Preferences: Preferences{IncludeOdds: true}}
	event := Event{
		Type:    TypeValueBet,
		Payload: map[string]string{"team": "Celtics", "edge": "6", "market": "moneyline", "odds": "0"},
	}

	n := p.Personalize(event, profile)
	assert.Equal(t, VariantDefault, n.Variant)
}

func TestPersonalizeStatsVariant(t *testing.T) {
	p := newPersonalizer()
	profile := &UserProfile{ID: "u1", Preferences: Preferences{IncludeStats: true}}
	event := Event{
		Type: TypePlayerUpdate,
		Payload: map[string]string{
			"playerName": "Tatum", "update": "questionable",
			"stat.type": "player", "stat.points": "31", "stat.rebounds": "8", "stat.assists": "11",
		},
	}

	n := p.Personalize(event, profile)
	assert.Equal(t, VariantWithStats, n.Variant)
	assert.Equal(t, "Tatum tonight: 31 pts, 8 reb, 11 ast", n.Body)
}

func TestPersonalizeTitleBodyIndependent(t *testing.T) {
	p := newPersonalizer()
	// Favorite match AND stats opt-in: valueBet has a withFavorite title but
	// no withFavorite/withStats body, so the body falls through to withOdds
	// (not requested here) and finally default.
	profile := &UserProfile{
		ID:          "u1",
		Favorites:   Favorites{Teams: []string{"BOS"}},
		Preferences: Preferences{IncludeStats: true},
	}
	event := Event{
		Type:          TypeValueBet,
		AffectedTeams: []string{"BOS"},
		Payload: map[string]string{
			"teamName": "Celtics", "team": "Celtics", "edge": "6", "market": "moneyline",
			"stat.accuracy": "61%",
		},
	}

	n := p.Personalize(event, profile)
	assert.Equal(t, VariantWithFavorite, n.Variant)
	assert.Equal(t, "Value Bet: Celtics", n.Title)
	// No withFavorite or withStats body defined for valueBet — default body
	assert.Equal(t, "Celtics has 6% edge on moneyline", n.Body)
}

func TestPersonalizeDataPayload(t *testing.T) {
	p := newPersonalizer()
	profile := &UserProfile{ID: "u1"}
	event := Event{
		Type:    TypeGameReminder,
		Payload: map[string]string{"gameId": "g42", "homeTeam": "Celtics", "awayTeam": "Lakers", "startTime": "19:30"},
	}

	n := p.Personalize(event, profile)
	assert.Equal(t, "gameReminder", n.Data["type"])
	assert.Equal(t, "g42", n.Data["gameId"])
	// Original payload is not mutated
	_, hasType := event.Payload["type"]
	assert.False(t, hasType)
}

func TestPersonalizeFavoriteFallsBackToTeamID(t *testing.T) {
	p := newPersonalizer()
	profile := &UserProfile{ID: "u1", Favorites: Favorites{Teams: []string{"BOS"}}}
	event := Event{
		Type:          TypePrediction,
		AffectedTeams: []string{"BOS"},
		Payload:       map[string]string{"winner": "BOS", "confidence": "70"},
	}

	n := p.Personalize(event, profile)
	// No teamName in payload: the raw id is injected rather than nothing
	assert.Equal(t, "BOS Game Prediction", n.Title)
}
