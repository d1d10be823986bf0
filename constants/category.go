package constants

import (
	"strings"
)

// DefaultCategory is assigned when a candidate carries no category at all.
const DefaultCategory = "lunch"

// operational categories the catalog is organized around. Novel tokens coming
// out of a menu survive as-is; this set only anchors aliasing and display meta.
var operationalCategories = []string{
	"starters",
	"main_course",
	"breads",
	"rice",
	"desserts",
	"beverages",
	"breakfast_items",
	"snacks",
	"soups",
	"salads",
	"sides",
	"indian",
	"chinese",
	"continental",
	"lunch",
	"dinner",
}

var operationalSet = func() map[string]struct{} {
	m := make(map[string]struct{}, len(operationalCategories))
	for _, c := range operationalCategories {
		m[c] = struct{}{}
	}
	return m
}()

// aliases collapses the section names restaurants actually print onto the
// operational set. Keys and values are cleaned snake_case tokens; every value
// must be stable under Canonicalize so repeated normalization cannot drift.
var aliases = map[string]string{
	"mains":            "main_course",
	"main":             "main_course",
	"maincourse":       "main_course",
	"main_courses":     "main_course",
	"entrees":          "main_course",
	"curries":          "main_course",
	"starter":          "starters",
	"appetizers":       "starters",
	"appetisers":       "starters",
	"small_plates":     "starters",
	"tandoori":         "starters",
	"cold_drinks":      "beverages",
	"hot_drinks":       "beverages",
	"drinks":           "beverages",
	"mocktails":        "beverages",
	"shakes":           "beverages",
	"juices":           "beverages",
	"dessert":          "desserts",
	"sweets":           "desserts",
	"ice_creams":       "desserts",
	"north_indian":     "indian",
	"south_indian":     "indian",
	"indo_chinese":     "chinese",
	"noodles":          "chinese",
	"roti":             "breads",
	"rotis":            "breads",
	"naan":             "breads",
	"rice_and_noodles": "rice",
	"biryani":          "rice",
	"biryanis":         "rice",
	"pulao":            "rice",
	"breakfast":        "breakfast_items",
	"soup":             "soups",
	"salad":            "salads",
	"accompaniments":   "sides",
	"extras":           "sides",
}

// Canonicalize resolves a cleaned snake_case token to its operational
// category. Unmapped tokens are returned unchanged so menu-specific sections
// survive; singular/plural variants of known tokens fold together.
func Canonicalize(token string) string {
	if token == "" {
		return DefaultCategory
	}
	if canon, ok := aliases[token]; ok {
		return canon
	}
	if _, ok := operationalSet[token]; ok {
		return token
	}
	// fold singular/plural variants of known tokens
	for _, variant := range []string{token + "s", strings.TrimSuffix(token, "s")} {
		if variant == token {
			continue
		}
		if canon, ok := aliases[variant]; ok {
			return canon
		}
		if _, ok := operationalSet[variant]; ok {
			return variant
		}
	}
	return token
}

// IsOperational reports whether the token is part of the operational set.
func IsOperational(token string) bool {
	_, ok := operationalSet[token]
	return ok
}
