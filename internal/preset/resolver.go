package preset

import (
	"strings"

	"codeberg.org/mutker/ryzenctl/internal/cpu"
	"codeberg.org/mutker/ryzenctl/internal/errors"
)

type predicate func(model string) bool

type rule struct {
	match predicate
	group GroupID
}

func anyOf(subs ...string) predicate {
	return func(model string) bool {
		for _, s := range subs {
			if strings.Contains(model, s) {
				return true
			}
		}
		return false
	}
}

func allOf(subs ...string) predicate {
	return func(model string) bool {
		for _, s := range subs {
			if !strings.Contains(model, s) {
				return false
			}
		}
		return true
	}
}

// Rule lists are evaluated first match wins.
var (
	apuPreMatisse = []rule{
		{anyOf("U", "e", "Ce"), APUPreMatisseUeCe},
		{anyOf("H"), APUPreMatisseH},
		{anyOf("GE"), APUPreMatisseGE},
		{anyOf("G"), APUPreMatisseG},
	}

	apuPostMatisse = []rule{
		{anyOf("U"), APUPostMatisseU},
		{anyOf("HX"), APUPostMatisseHX},
		{anyOf("HS"), APUPostMatisseHS},
		{anyOf("H"), APUPostMatisseH},
		{anyOf("GE"), APUPostMatisseGE},
		{anyOf("G"), APUPostMatisseG},
	}

	cpuPreRaphael = []rule{
		{anyOf("E"), CPUPreRaphaelE},
		{anyOf("X3D"), CPUPreRaphaelX3D},
		{allOf("X", "9"), CPUPreRaphaelX9},
		{anyOf("X"), CPUPreRaphaelX},
	}

	cpuRaphael = []rule{
		{anyOf("E"), CPUE},
		{anyOf("X3D"), CPUX3D},
		{allOf("X", "9"), CPUX9},
	}
)

func firstMatch(rules []rule, model string, fallback GroupID) GroupID {
	for _, r := range rules {
		if r.match(model) {
			return r.group
		}
	}

	return fallback
}

// ResolveGroup picks the preset group for a classification. cleanedModel
// must already have gone through CleanModelName.
func ResolveGroup(c cpu.Classification, cleanedModel string) GroupID {
	switch c.Category {
	case cpu.CategoryAMDAPU:
		switch {
		case c.Codename.Before(cpu.Matisse):
			return firstMatch(apuPreMatisse, cleanedModel, CPU)
		case c.Codename.After(cpu.Matisse):
			return firstMatch(apuPostMatisse, cleanedModel, CPU)
		default:
			return CPU
		}
	case cpu.CategoryAMDDesktop:
		if c.Codename.Before(cpu.Raphael) {
			return firstMatch(cpuPreRaphael, cleanedModel, CPUPreRaphael)
		}
		return firstMatch(cpuRaphael, cleanedModel, CPU)
	default:
		return CPU
	}
}

// marketingWords are removed in order, wherever they occur.
var marketingWords = []string{"AMD", "with", "Mobile", "Ryzen", "Radeon", "Graphics", "Vega", "Gfx"}

// CleanModelName drops vendor and marketing words from a model name so that
// only the model number, its suffix letters and any trailing description
// remain, e.g. "AMD Ryzen 7 5800H with Radeon Graphics" becomes "7 5800H".
// Words such as "Eight-Core Processor" are kept and take part in matching.
func CleanModelName(name string) string {
	for _, w := range marketingWords {
		name = strings.ReplaceAll(name, w, "")
	}

	return strings.Join(strings.Fields(name), " ")
}

// Resolver resolves classifications against a catalog.
type Resolver struct {
	catalog *Catalog
}

func NewResolver(catalog *Catalog) *Resolver {
	return &Resolver{catalog: catalog}
}

// Resolve returns the preset group for a classification and raw model name.
func (r *Resolver) Resolve(c cpu.Classification, modelName string) (Group, error) {
	id := ResolveGroup(c, CleanModelName(modelName))

	group, ok := r.catalog.Group(id)
	if !ok {
		return Group{}, errors.New().WithData(errors.ErrUnresolvedPreset, string(id))
	}

	return group, nil
}

// Catalog returns the catalog the resolver reads from.
func (r *Resolver) Catalog() *Catalog {
	return r.catalog
}
