package notify

// DefaultTemplates is the production template set. Injected rather than read
// as a package-level global by the store, so tests can swap in fixtures.
var DefaultTemplates = Templates{
	TypePrediction: {
		Titles: map[Variant]string{
			VariantDefault:      "New Prediction: {homeTeam} vs {awayTeam}",
			VariantWithFavorite: "{favoriteTeam} Game Prediction",
		},
		Bodies: map[Variant]string{
			VariantDefault:      "{winner} predicted to win with {confidence}% confidence",
			VariantWithFavorite: "{favoriteTeam} {outcome} predicted ({confidence}% confidence)",
			VariantWithOdds:     "{winner} to win at {odds} ({confidence}% confidence)",
			VariantWithStats:    "{winner} predicted to win. Key stats: {stats}",
		},
	},
	TypeValueBet: {
		Titles: map[Variant]string{
			VariantDefault:      "Value Bet Alert",
			VariantWithFavorite: "Value Bet: {favoriteTeam}",
		},
		Bodies: map[Variant]string{
			VariantDefault:  "{team} has {edge}% edge on {market}",
			VariantWithOdds: "{team} at {odds}, {edge}% edge on {market}",
		},
	},
	TypeGameReminder: {
		Titles: map[Variant]string{
			VariantDefault:      "Game Starting Soon",
			VariantWithFavorite: "{favoriteTeam} Tips Off Soon",
		},
		Bodies: map[Variant]string{
			VariantDefault:  "{homeTeam} vs {awayTeam} starts at {startTime}",
			VariantWithOdds: "{homeTeam} vs {awayTeam} at {startTime}. Line: {odds}",
		},
	},
	TypeModelPerformance: {
		Titles: map[Variant]string{
			VariantDefault: "Model Performance Update",
		},
		Bodies: map[Variant]string{
			VariantDefault:   "The model went {record} this week ({accuracy}% accuracy)",
			VariantWithStats: "This week: {stats}",
		},
	},
	TypeNews: {
		Titles: map[Variant]string{
			VariantDefault: "Sports News",
		},
		Bodies: map[Variant]string{
			VariantDefault:    "{headline}",
			VariantWithSource: "{headline} ({source})",
		},
	},
	TypePlayerUpdate: {
		Titles: map[Variant]string{
			VariantDefault: "Player Update: {playerName}",
		},
		Bodies: map[Variant]string{
			VariantDefault:   "{playerName}: {update}",
			VariantWithStats: "{playerName} tonight: {stats}",
		},
	},
	TypeLocalTeam: {
		Titles: map[Variant]string{
			VariantDefault: "{teamName} Update",
		},
		Bodies: map[Variant]string{
			VariantDefault: "Your local team {teamName}: {update}",
		},
	},
	TypeLocalGame: {
		Titles: map[Variant]string{
			VariantDefault: "Game Near You",
		},
		Bodies: map[Variant]string{
			VariantDefault:  "{homeTeam} vs {awayTeam} tonight at {venue}",
			VariantWithOdds: "{homeTeam} vs {awayTeam} at {venue}. Line: {odds}",
		},
	},
	TypeLocalOdds: {
		Titles: map[Variant]string{
			VariantDefault: "Odds Movement Near You",
		},
		Bodies: map[Variant]string{
			VariantDefault:  "{market} moved for {team}",
			VariantWithOdds: "{market} moved to {odds} for {team}",
		},
	},
	TypeReferralJoined: {
		Titles: map[Variant]string{
			VariantDefault: "Your Friend Joined!",
		},
		Bodies: map[Variant]string{
			VariantDefault: "{friendName} signed up with your referral link",
		},
	},
	TypeReferralReward: {
		Titles: map[Variant]string{
			VariantDefault: "Referral Reward Unlocked",
		},
		Bodies: map[Variant]string{
			VariantDefault: "You earned {reward} for referring {count} friends",
		},
	},
	TypeSystem: {
		Titles: map[Variant]string{
			VariantDefault: "SportsEdge",
		},
		Bodies: map[Variant]string{
			VariantDefault: "{message}",
		},
	},
}
