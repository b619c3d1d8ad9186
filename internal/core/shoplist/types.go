// Package shoplist builds consolidated shopping lists from selected
// recipes: aggregation, normalization, consolidation and document
// generation are orchestrated here.
package shoplist

// IngredientLine is one requested item, tagged with the 1-based display
// indices of the recipes that contributed it.
type IngredientLine struct {
	Amount  string `json:"amount"`
	Name    string `json:"name"`
	Recipes []int  `json:"recipes"`
}

// ConsolidatedLine is a post-merge entry: canonical ingredient name,
// merged amount and deduplicated provenance.
type ConsolidatedLine struct {
	Amount     string `json:"amount"`
	Ingredient string `json:"ingredient"`
	Recipes    []int  `json:"recipes"`
}
