package constants

import (
	"hash/fnv"
	"strings"
)

// CategoryMeta is the display identity of a category token: an icon name, an
// accent color token, and a short subtitle. Presentation only; the pipeline
// never reads it back.
type CategoryMeta struct {
	Key      string
	Icon     string
	Accent   string
	Subtitle string
}

var metaTable = map[string]CategoryMeta{
	"starters":        {Key: "starters", Icon: "tapas", Accent: "#E07A5F", Subtitle: "Small plates to open the meal"},
	"main_course":     {Key: "main_course", Icon: "dinner_dining", Accent: "#B5543B", Subtitle: "Hearty mains from the kitchen"},
	"breads":          {Key: "breads", Icon: "bakery_dining", Accent: "#C19A6B", Subtitle: "Fresh from the tandoor"},
	"rice":            {Key: "rice", Icon: "rice_bowl", Accent: "#D4A937", Subtitle: "Biryanis and fragrant rice"},
	"desserts":        {Key: "desserts", Icon: "icecream", Accent: "#C86FA8", Subtitle: "Sweet endings"},
	"beverages":       {Key: "beverages", Icon: "local_cafe", Accent: "#4F86C6", Subtitle: "Drinks, shakes and brews"},
	"breakfast_items": {Key: "breakfast_items", Icon: "free_breakfast", Accent: "#E8A23D", Subtitle: "Start the day right"},
	"snacks":          {Key: "snacks", Icon: "lunch_dining", Accent: "#7FB069", Subtitle: "Quick bites any time"},
	"soups":           {Key: "soups", Icon: "soup_kitchen", Accent: "#6B8F71", Subtitle: "Simmered slow and warm"},
	"salads":          {Key: "salads", Icon: "eco", Accent: "#58A05C", Subtitle: "Fresh and light"},
	"sides":           {Key: "sides", Icon: "restaurant", Accent: "#8D99AE", Subtitle: "Accompaniments and extras"},
	"indian":          {Key: "indian", Icon: "ramen_dining", Accent: "#D1495B", Subtitle: "Classics across the subcontinent"},
	"chinese":         {Key: "chinese", Icon: "takeout_dining", Accent: "#BC4749", Subtitle: "Wok-fired favourites"},
	"continental":     {Key: "continental", Icon: "brunch_dining", Accent: "#5E6472", Subtitle: "European table staples"},
	"lunch":           {Key: "lunch", Icon: "restaurant_menu", Accent: "#3D8361", Subtitle: "Midday plates"},
	"dinner":          {Key: "dinner", Icon: "nightlife", Accent: "#52528C", Subtitle: "Evening spreads"},
}

// pools for novel tokens; selection is hash-based so the same key always
// resolves to the same identity.
var (
	iconPool = []string{
		"restaurant", "fastfood", "set_meal", "kebab_dining", "flatware",
		"skillet", "outdoor_grill", "local_dining", "room_service", "cooking",
	}
	accentPool = []string{
		"#E07A5F", "#4F86C6", "#7FB069", "#C86FA8", "#D4A937",
		"#6B8F71", "#BC4749", "#8D99AE", "#52528C", "#3D8361",
	}
)

// ResolveCategoryMeta maps any category token to a display identity. Known
// operational categories get curated meta; everything else is synthesized
// deterministically so novel sections still render consistently.
func ResolveCategoryMeta(key string) CategoryMeta {
	if m, ok := metaTable[key]; ok {
		return m
	}
	h := fnv.New32a()
	h.Write([]byte(key))
	sum := h.Sum32()
	return CategoryMeta{
		Key:      key,
		Icon:     iconPool[sum%uint32(len(iconPool))],
		Accent:   accentPool[(sum/uint32(len(iconPool)))%uint32(len(accentPool))],
		Subtitle: "Freshly prepared " + titleWords(key),
	}
}

func titleWords(token string) string {
	words := strings.Split(token, "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
