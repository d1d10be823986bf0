package entity

// MenuItem is the validated record the pipeline hands to callers, ready for
// bulk insertion into a catalog.
//
// Invariants: Name is trimmed and longer than one character; Description is
// never empty (real or synthesized); Price is nil or a finite value > 0
// rounded to two decimals; Category is a canonical snake_case token; IsVeg is
// a strict tri-state (nil means unknown, never a guessed default).
type MenuItem struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       *float64 `json:"price"`
	Category    string   `json:"category"`
	IsVeg       *bool    `json:"isVeg"`
}
