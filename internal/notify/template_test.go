package notify

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

var fixtureTemplates = Templates{
	TypePrediction: {
		Titles: map[Variant]string{
			VariantDefault:      "Prediction: {homeTeam} vs {awayTeam}",
			VariantWithFavorite: "{favoriteTeam} prediction",
		},
		Bodies: map[Variant]string{
			VariantDefault:  "{winner} to win",
			VariantWithOdds: "{winner} to win at {odds}",
		},
	},
}

func TestResolveSubstitution(t *testing.T) {
	s := NewTemplateStore(fixtureTemplates)

	title, body := s.Resolve(TypePrediction, VariantDefault, map[string]string{
		"homeTeam": "Celtics", "awayTeam": "Lakers", "winner": "Celtics",
	})
	assert.Equal(t, "Prediction: Celtics vs Lakers", title)
	assert.Equal(t, "Celtics to win", body)
}

func TestResolveUnknownTokenStaysLiteral(t *testing.T) {
	s := NewTemplateStore(fixtureTemplates)

	title, _ := s.Resolve(TypePrediction, VariantDefault, map[string]string{"homeTeam": "Celtics"})
	assert.Equal(t, "Prediction: Celtics vs {awayTeam}", title)
}

func TestResolveUnknownTypeFallsBack(t *testing.T) {
	s := NewTemplateStore(fixtureTemplates)

	title, body := s.Resolve(Type("mystery"), VariantDefault, nil)
	assert.Equal(t, fallbackTitle, title)
	assert.Equal(t, fallbackBody, body)
}

func TestResolveIndependentHalfFallback(t *testing.T) {
	s := NewTemplateStore(fixtureTemplates)

	// withOdds has a body specialization but no title: title falls back to
	// default while the body uses the variant.
	title, body := s.Resolve(TypePrediction, VariantWithOdds, map[string]string{
		"homeTeam": "Celtics", "awayTeam": "Lakers", "winner": "Celtics", "odds": "+150",
	})
	assert.Equal(t, "Prediction: Celtics vs Lakers", title)
	assert.Equal(t, "Celtics to win at +150", body)

	// withFavorite has a title but no body: the reverse.
	title, body = s.Resolve(TypePrediction, VariantWithFavorite, map[string]string{
		"favoriteTeam": "Celtics", "winner": "Celtics",
	})
	assert.Equal(t, "Celtics prediction", title)
	assert.Equal(t, "Celtics to win", body)
}

func TestResolveHalvesWalksCandidates(t *testing.T) {
	s := NewTemplateStore(fixtureTemplates)

	// Title list prefers withFavorite, body list lands on withOdds — the
	// halves pick different variants from the same candidate order.
	order := []Variant{VariantWithFavorite, VariantWithOdds, VariantDefault}
	title, body := s.ResolveHalves(TypePrediction, order, order, map[string]string{
		"favoriteTeam": "Celtics", "winner": "Celtics", "odds": "2/1",
	})
	assert.Equal(t, "Celtics prediction", title)
	assert.Equal(t, "Celtics to win at 2/1", body)
}

func TestDefaultTemplatesCoverKnownTypes(t *testing.T) {
	s := NewTemplateStore(DefaultTemplates)
	for _, typ := range KnownTypes {
		assert.True(t, s.Known(typ), "missing template family for %s", typ)
		title, body := s.Resolve(typ, VariantDefault, nil)
		assert.NotEmpty(t, title, "empty default title for %s", typ)
		assert.NotEmpty(t, body, "empty default body for %s", typ)
	}
}
