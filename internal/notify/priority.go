package notify

// --------------------------------------------------------------------------
// Priority scoring
// --------------------------------------------------------------------------

// Base urgency by notification type. Types not listed score 0 base.
var baseScores = map[Type]float64{
	TypeValueBet:         5,
	TypePrediction:       4,
	TypeLocalOdds:        4,
	TypeLocalTeam:        4,
	TypeGameReminder:     3,
	TypeLocalGame:        3,
	TypeModelPerformance: 2,
	TypeNews:             1,
}

// Affinity and history boosts.
const (
	favoriteTeamBoost   = 3
	favoritePlayerBoost = 2
	localBoost          = 3
	engagementWeight    = 2 // × rate ∈ [0,1], so at most +2
)

// priorityThreshold is the minimum score delivered to users who opted into
// priority-only notifications.
const priorityThreshold = 5

// Score computes the urgency of an event for one user. Additive and
// deterministic: base by type, +3 favorite-team match, +2 favorite-player
// match, +3 local event for a user with local alerts on, +2×engagement rate.
// Unbounded above zero — no clamp.
func Score(event Event, profile *UserProfile) float64 {
	score := baseScores[event.Type]

	for _, team := range event.AffectedTeams {
		if profile.Favorites.HasTeam(team) {
			score += favoriteTeamBoost
			break
		}
	}
	for _, player := range event.AffectedPlayers {
		if profile.Favorites.HasPlayer(player) {
			score += favoritePlayerBoost
			break
		}
	}
	if event.IsLocal && profile.Preferences.LocalAlerts {
		score += localBoost
	}
	score += engagementWeight * profile.EngagementStats[event.Type]

	return score
}
