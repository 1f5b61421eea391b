package notify

import (
	"regexp"
	"strings"
)

// --------------------------------------------------------------------------
// Variants
// --------------------------------------------------------------------------

// Variant names an alternative rendering of a template family.
type Variant string

const (
	VariantDefault      Variant = "default"
	VariantWithFavorite Variant = "withFavorite"
	VariantWithOdds     Variant = "withOdds"
	VariantWithStats    Variant = "withStats"
	VariantWithSource   Variant = "withSource"
)

// Family holds the title and body templates for one notification type.
// A missing variant entry falls back to the default for that half — title and
// body fall back independently.
type Family struct {
	Titles map[Variant]string
	Bodies map[Variant]string
}

// Templates is the immutable template configuration injected into the store
// at construction. Keys are notification types.
type Templates map[Type]Family

// --------------------------------------------------------------------------
// Template store
// --------------------------------------------------------------------------

const (
	fallbackTitle = "SportsEdge"
	fallbackBody  = "You have a new update"
)

// TemplateStore resolves notification content from an injected template set.
// Pure: no I/O, deterministic given inputs.
type TemplateStore struct {
	templates Templates
}

// NewTemplateStore creates a store over the given template set. Pass
// DefaultTemplates for the production set or a fixture map in tests.
func NewTemplateStore(t Templates) *TemplateStore {
	return &TemplateStore{templates: t}
}

// Known reports whether a template family exists for the type.
func (s *TemplateStore) Known(t Type) bool {
	_, ok := s.templates[t]
	return ok
}

// Resolve returns the substituted title and body for (type, variant).
// Unknown types render the generic fallback rather than failing; the caller
// logs the omission. A variant missing its title or body specialization falls
// back to the default for that half independently.
func (s *TemplateStore) Resolve(t Type, variant Variant, vars map[string]string) (title, body string) {
	fam, ok := s.templates[t]
	if !ok {
		return substitute(fallbackTitle, vars), substitute(fallbackBody, vars)
	}
	title = pick(fam.Titles, variant)
	body = pick(fam.Bodies, variant)
	return substitute(title, vars), substitute(body, vars)
}

// ResolveHalves resolves the title and body with separately chosen variants.
// Used by personalization, where the title and body candidate lists can land
// on different variants.
func (s *TemplateStore) ResolveHalves(t Type, titleVariants, bodyVariants []Variant, vars map[string]string) (title, body string) {
	fam, ok := s.templates[t]
	if !ok {
		return substitute(fallbackTitle, vars), substitute(fallbackBody, vars)
	}
	title = pickFirst(fam.Titles, titleVariants)
	body = pickFirst(fam.Bodies, bodyVariants)
	return substitute(title, vars), substitute(body, vars)
}

func pick(m map[Variant]string, v Variant) string {
	if s, ok := m[v]; ok {
		return s
	}
	return m[VariantDefault]
}

// pickFirst returns the first variant in order that has a specialization,
// falling back to default when none match.
func pickFirst(m map[Variant]string, order []Variant) string {
	for _, v := range order {
		if s, ok := m[v]; ok {
			return s
		}
	}
	return m[VariantDefault]
}

// --------------------------------------------------------------------------
// Substitution
// --------------------------------------------------------------------------

var placeholderRe = regexp.MustCompile(`\{([A-Za-z0-9_]+)\}`)

// substitute replaces every {name} token with vars[name] when present.
// Unknown tokens stay literal — never blanked, never an error.
func substitute(template string, vars map[string]string) string {
	if template == "" || !strings.Contains(template, "{") {
		return template
	}
	return placeholderRe.ReplaceAllStringFunc(template, func(tok string) string {
		name := tok[1 : len(tok)-1]
		if v, ok := vars[name]; ok {
			return v
		}
		return tok
	})
}
