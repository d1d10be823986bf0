package llm

import (
	"strings"
)

// BuildStructurePrompt composes the extraction prompt for a menu text dump.
// The input is clipped to maxChars; very long menus lose their tail rather
// than blowing the model's context budget.
func BuildStructurePrompt(menuText string, maxChars int) string {
	text := strings.TrimSpace(menuText)
	if maxChars > 0 && len(text) > maxChars {
		text = text[:maxChars]
	}

	parts := []string{
		"You are a menu digitization engine. Extract EVERY item from the menu text below.",
		"Return a bare JSON array of objects and nothing else: no prose, no markdown, no code fences.",
		"Each object has exactly these keys:",
		`- "name": the item name as printed.`,
		`- "description": the printed description; if the menu shows none, write one short appetizing sentence yourself.`,
		`- "price": the numeric amount only (no currency symbols); null if no price is shown.`,
		`- "category": the literal section heading the item appears under, lowercased with underscores instead of spaces (e.g. "Breakfast Items" becomes "breakfast_items"). Do not invent categories.`,
		`- "isVeg": true if clearly vegetarian, false if clearly non-vegetarian, null if the menu does not say.`,
		"",
		"Menu text:",
		text,
	}
	return strings.Join(parts, "\n")
}

// BuildRewritePrompt composes the rewrite assistant's prompt for a single
// item. Style hints are interpolated only when present.
func BuildRewritePrompt(name, category string, prefs *Preferences) string {
	var b strings.Builder
	b.WriteString("Rewrite the name and description of one restaurant menu item to be more appealing.\n")
	b.WriteString("Item: ")
	b.WriteString(name)
	b.WriteString("\nCategory: ")
	b.WriteString(category)
	b.WriteString("\n")
	if prefs != nil {
		if s := strings.TrimSpace(prefs.TitleStyle); s != "" {
			b.WriteString("Title style hints: ")
			b.WriteString(s)
			b.WriteString("\n")
		}
		if s := strings.TrimSpace(prefs.DescriptionStyle); s != "" {
			b.WriteString("Description style hints: ")
			b.WriteString(s)
			b.WriteString("\n")
		}
	}
	b.WriteString(`Respond with a single JSON object: {"title": "...", "description": "..."}. `)
	b.WriteString("Keep the title under 6 words and the description under 25 words. No other text.")
	return b.String()
}
