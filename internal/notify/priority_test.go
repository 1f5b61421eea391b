package notify

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScoreAdditivity(t *testing.T) {
	profile := &UserProfile{
		ID:        "u1",
		Favorites: Favorites{Teams: []string{"BOS"}},
	}
	event := Event{Type: TypeValueBet, AffectedTeams: []string{"BOS", "LAL"}}

	// Base 5 + favorite team 3, no history
	assert.Equal(t, 8.0, Score(event, profile))
}

func TestScoreBaseByType(t *testing.T) {
	profile := &UserProfile{ID: "u1"}
	cases := map[Type]float64{
		TypeValueBet:         5,
		TypePrediction:       4,
		TypeLocalOdds:        4,
		TypeLocalTeam:        4,
		TypeGameReminder:     3,
		TypeLocalGame:        3,
		TypeModelPerformance: 2,
		TypeNews:             1,
		TypeSystem:           0,
		Type("unknown"):      0,
	}
	for typ, want := range cases {
		assert.Equal(t, want, Score(Event{Type: typ}, profile), "type %s", typ)
	}
}

func TestScorePlayerAndLocalBoosts(t *testing.T) {
	profile := &UserProfile{
		ID:          "u1",
		Favorites:   Favorites{Players: []string{"tatum"}},
		Preferences: Preferences{LocalAlerts: true},
	}
	event := Event{
		Type:            TypeGameReminder,
		AffectedPlayers: []string{"tatum"},
		IsLocal:         true,
	}

	// Base 3 + player 2 + local 3
	assert.Equal(t, 8.0, Score(event, profile))

	// Local boost requires the user opt-in
	profile.Preferences.LocalAlerts = false
	assert.Equal(t, 5.0, Score(event, profile))
}

func TestScoreEngagementContribution(t *testing.T) {
	profile := &UserProfile{
		ID:              "u1",
		EngagementStats: map[Type]float64{TypeNews: 0.5},
	}

	// Base 1 + 2×0.5
	assert.Equal(t, 2.0, Score(Event{Type: TypeNews}, profile))

	// Full engagement caps the history boost at +2
	profile.EngagementStats[TypeNews] = 1
	assert.Equal(t, 3.0, Score(Event{Type: TypeNews}, profile))
}

func TestScoreBoostsApplyOncePerKind(t *testing.T) {
	profile := &UserProfile{
		ID:        "u1",
		Favorites: Favorites{Teams: []string{"BOS", "LAL"}},
	}
	// Two favorite matches still boost once
	event := Event{Type: TypePrediction, AffectedTeams: []string{"BOS", "LAL"}}
	assert.Equal(t, 7.0, Score(event, profile))
}

func TestScoreDeterminism(t *testing.T) {
	profile := &UserProfile{
		ID:              "u1",
		Favorites:       Favorites{Teams: []string{"BOS"}, Players: []string{"tatum"}},
		Preferences:     Preferences{LocalAlerts: true},
		EngagementStats: map[Type]float64{TypeValueBet: 0.73},
	}
	event := Event{
		Type:            TypeValueBet,
		AffectedTeams:   []string{"BOS"},
		AffectedPlayers: []string{"tatum"},
		IsLocal:         true,
	}
	first := Score(event, profile)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Score(event, profile))
	}
}
