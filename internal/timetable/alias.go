package timetable

import (
	"strings"

	"github.com/acadops/timetable-api/internal/models"
)

// aliasPlaceholder marks an elective-group slot that carries no real course.
const aliasPlaceholder = "new"

// BuildAliasMap constructs the raw-code to primary-code mapping once per
// run. Two alias notations are recognised:
//
//	"CS201 / EC201"          cross-listed; every variant maps to the first
//	"B1(ASD151/HS151/New)"   elective group; the outer label is primary and
//	                         every inner variant maps to it, except the
//	                         placeholder term
//
// Any other code maps to itself. Insertion is first-mapping-wins, so a code
// claimed by one group is never silently re-keyed by a later one.
func BuildAliasMap(courses []models.Course) map[string]string {
	aliases := make(map[string]string)
	for _, course := range courses {
		raw := strings.TrimSpace(course.Code)
		if raw == "" {
			continue
		}

		if open := strings.Index(raw, "("); open >= 0 && strings.HasSuffix(raw, ")") {
			registerGroup(aliases, raw, raw[:open], raw[open+1:len(raw)-1])
			continue
		}

		if strings.Contains(raw, "/") {
			registerCrossListed(aliases, raw)
			continue
		}

		put(aliases, raw, raw)
	}
	return aliases
}

func registerGroup(aliases map[string]string, raw, base, inner string) {
	base = strings.TrimSpace(base)
	put(aliases, raw, raw)
	if base != "" {
		put(aliases, base, raw)
	}
	for _, variant := range strings.Split(inner, "/") {
		variant = strings.TrimSpace(variant)
		if variant == "" || strings.EqualFold(variant, aliasPlaceholder) {
			continue
		}
		put(aliases, variant, raw)
		if base != "" {
			put(aliases, base+"_"+variant, raw)
		}
	}
}

func registerCrossListed(aliases map[string]string, raw string) {
	variants := strings.Split(raw, "/")
	primary := strings.TrimSpace(variants[0])
	if primary == "" {
		return
	}
	put(aliases, raw, primary)
	for _, variant := range variants {
		variant = strings.TrimSpace(variant)
		if variant == "" {
			continue
		}
		put(aliases, variant, primary)
	}
}

func put(aliases map[string]string, code, primary string) {
	if _, ok := aliases[code]; !ok {
		aliases[code] = primary
	}
}

// ResolveAlias maps a raw code to its primary code. Unknown codes resolve
// to themselves, and resolution is idempotent.
func ResolveAlias(aliases map[string]string, code string) string {
	if primary, ok := aliases[strings.TrimSpace(code)]; ok {
		return primary
	}
	return strings.TrimSpace(code)
}
