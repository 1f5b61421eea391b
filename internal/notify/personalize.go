package notify

import (
	"strconv"
)

// Personalizer composes template, formatter, and user favorites into final
// notification content for one (event, user) pair.
type Personalizer struct {
	templates *TemplateStore
}

// NewPersonalizer creates a Personalizer over the given template store.
func NewPersonalizer(templates *TemplateStore) *Personalizer {
	return &Personalizer{templates: templates}
}

// Personalize builds the notification content for one user. Variant
// precedence is fixed: withFavorite (favorite team in the event), then
// withOdds (user opted in and the event carries odds), then withStats, then
// default. The title and body walk the same candidate list but resolve
// independently: a type with no withStats body still renders its withFavorite
// title when one is defined.
//
// Priority is attached by the orchestrator after scoring, not here.
func (p *Personalizer) Personalize(event Event, profile *UserProfile) *Notification {
	vars := make(map[string]string, len(event.Payload)+3)
	for k, v := range event.Payload {
		vars[k] = v
	}

	var candidates []Variant

	if team := p.matchFavoriteTeam(event, profile); team != "" {
		candidates = append(candidates, VariantWithFavorite)
		if name, ok := event.Payload["teamName"]; ok && name != "" {
			vars["favoriteTeam"] = name
		} else {
			vars["favoriteTeam"] = team
		}
	}
	if profile.Preferences.IncludeOdds {
		if odds, ok := eventOdds(event); ok {
			candidates = append(candidates, VariantWithOdds)
			vars["odds"] = FormatOdds(odds, oddsFormatOr(profile.Preferences.OddsFormat))
		}
	}
	if profile.Preferences.IncludeStats {
		if stats, ok := eventStats(event); ok {
			candidates = append(candidates, VariantWithStats)
			vars["stats"] = FormatStats(stats)
		}
	}
	candidates = append(candidates, VariantDefault)

	title, body := p.templates.ResolveHalves(event.Type, candidates, candidates, vars)

	data := make(map[string]string, len(event.Payload)+1)
	for k, v := range event.Payload {
		data[k] = v
	}
	data["type"] = string(event.Type)

	return &Notification{
		Title:   title,
		Body:    body,
		Data:    data,
		Variant: candidates[0],
	}
}

// matchFavoriteTeam returns the first affected team the user follows.
func (p *Personalizer) matchFavoriteTeam(event Event, profile *UserProfile) string {
	for _, team := range event.AffectedTeams {
		if profile.Favorites.HasTeam(team) {
			return team
		}
	}
	return ""
}

// eventOdds extracts the American odds value from the payload. Zero odds are
// skipped — no display convention renders them meaningfully.
func eventOdds(event Event) (int, bool) {
	raw, ok := event.Payload["odds"]
	if !ok {
		return 0, false
	}
	odds, err := strconv.Atoi(raw)
	if err != nil || odds == 0 {
		return 0, false
	}
	return odds, true
}

// eventStats collects stat fields from the payload. Stats travel as
// "stat.<key>" entries plus an optional "stat.type" selector.
func eventStats(event Event) (map[string]string, bool) {
	stats := make(map[string]string)
	for k, v := range event.Payload {
		if len(k) > 5 && k[:5] == "stat." {
			stats[k[5:]] = v
		}
	}
	if len(stats) == 0 {
		return nil, false
	}
	return stats, true
}

func oddsFormatOr(f OddsFormat) OddsFormat {
	if f == "" {
		return OddsAmerican
	}
	return f
}
