package pipeline

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/hotelmate/menuscan/constants"
	"github.com/hotelmate/menuscan/internal/entity"
	"github.com/hotelmate/menuscan/internal/llm"
)

// Normalize cleans, types, and canonicalizes untrusted candidates into final
// records. Pure and total over its input: malformed individual fields degrade
// to defaults instead of rejecting the record. The one structural filter is
// the name: a candidate whose trimmed name is a single character or less is
// dropped outright, since a nameless item cannot be displayed or matched.
//
// Idempotent: running an already-normalized set through again yields the
// identical set.
func Normalize(candidates []llm.Candidate) []entity.MenuItem {
	items := make([]entity.MenuItem, 0, len(candidates))
	for _, c := range candidates {
		name := strings.TrimSpace(asString(c["name"]))
		if len(name) <= 1 {
			continue
		}
		category := normalizeCategory(c["category"])
		items = append(items, entity.MenuItem{
			Name:        name,
			Description: normalizeDescription(c["description"], name, category),
			Price:       normalizePrice(c["price"]),
			Category:    category,
			IsVeg:       normalizeVeg(c["isVeg"]),
		})
	}
	return items
}

// asString renders strings and numbers; anything else is unusable.
func asString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	default:
		return ""
	}
}

var rePriceJunk = regexp.MustCompile(`[^0-9.]`)

// normalizePrice coerces currency-formatted strings ("₹1,250.50") and raw
// numbers to a positive amount rounded to two decimals. Anything non-numeric,
// non-finite, or not strictly positive becomes nil; "no price shown" and
// "invalid price" are deliberately indistinguishable in the output.
func normalizePrice(v any) *float64 {
	var f float64
	switch t := v.(type) {
	case float64:
		f = t
	case string:
		s := rePriceJunk.ReplaceAllString(t, "")
		if s == "" {
			return nil
		}
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil
		}
		f = parsed
	default:
		return nil
	}
	if math.IsNaN(f) || math.IsInf(f, 0) || f <= 0 {
		return nil
	}
	f = math.Round(f*100) / 100
	return &f
}

var (
	reSeparators = regexp.MustCompile(`[\s\-]+`)
	reNonToken   = regexp.MustCompile(`[^a-z0-9_]`)
	reUnderscore = regexp.MustCompile(`_+`)
)

// normalizeCategory cleans free-form section names to a snake_case token and
// resolves it through the alias table. Empty input falls back to the default
// category rather than losing the item.
func normalizeCategory(v any) string {
	s := strings.ToLower(strings.TrimSpace(asString(v)))
	s = reSeparators.ReplaceAllString(s, "_")
	s = reNonToken.ReplaceAllString(s, "")
	s = reUnderscore.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if s == "" {
		return constants.DefaultCategory
	}
	return constants.Canonicalize(s)
}

// normalizeVeg passes through only strict booleans; everything else is
// unknown. Guessing "non-veg" for an item the menu never labelled would be
// worse than admitting ignorance.
func normalizeVeg(v any) *bool {
	if b, ok := v.(bool); ok {
		return &b
	}
	return nil
}

// per-category templates used when the model supplied no description. The
// record never ships with an empty description.
var descriptionTemplates = map[string]string{
	"starters":        "Crisp and flavourful %s to open the meal.",
	"main_course":     "Hearty %s cooked in the house style.",
	"breads":          "Soft %s served fresh from the tandoor.",
	"rice":            "Fragrant %s tossed with aromatic spices.",
	"desserts":        "Indulgent %s, a delightful sweet ending.",
	"beverages":       "Refreshing %s, served chilled or hot to order.",
	"breakfast_items": "Classic %s to start the day right.",
	"snacks":          "Quick and satisfying %s for any time of day.",
	"soups":           "A comforting bowl of %s, simmered slow.",
	"salads":          "Fresh and light %s with a zesty dressing.",
}

const genericDescription = "Freshly prepared %s made with quality ingredients."

func normalizeDescription(v any, name, category string) string {
	if d := strings.TrimSpace(asString(v)); d != "" {
		return d
	}
	tpl, ok := descriptionTemplates[category]
	if !ok {
		tpl = genericDescription
	}
	return fmt.Sprintf(tpl, name)
}
