package recipe

// Ingredient is a single requested item within a group.
type Ingredient struct {
	Amount string `json:"amount,omitempty"`
	Name   string `json:"name"`
}

// IngredientGroup is a labeled list of ingredients ("dough", "topping").
// The label may be empty.
type IngredientGroup struct {
	Group string       `json:"group,omitempty"`
	Items []Ingredient `json:"items"`
}

// Recipe mirrors the recipe collection schema. Fields not needed for
// shopping-list generation are carried so records round-trip untouched.
type Recipe struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Ingredients []IngredientGroup `json:"ingredients,omitempty"`
	Steps       []string          `json:"steps,omitempty"`
	Tags        []string          `json:"tags,omitempty"`
	Links       []string          `json:"links,omitempty"`
	Thumbnail   string            `json:"thumbnail,omitempty"`
}

// HasIngredients reports whether at least one group contains an item.
func (r *Recipe) HasIngredients() bool {
	for _, g := range r.Ingredients {
		if len(g.Items) > 0 {
			return true
		}
	}
	return false
}
