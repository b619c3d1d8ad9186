package shoplist

import (
	"errors"

	"shoplist-generator/internal/core/recipe"
)

// ErrNoValidRecipes is returned when no selected recipe carries a
// non-empty ingredient group.
var ErrNoValidRecipes = errors.New("no valid recipes with ingredients found")

// Aggregation is the flattened ingredient list plus the filtered recipes
// that produced it. Display indices are 1-based positions in Recipes.
type Aggregation struct {
	Recipes []recipe.Recipe
	Lines   []IngredientLine
}

// Aggregate flattens the ingredient groups of the selected recipes into a
// single provenance-tagged line list. Recipes without ingredients are
// filtered out first and do not consume a display index. Order is
// preserved: recipes as given, groups as stored, items as stored.
func Aggregate(selected []recipe.Recipe) (*Aggregation, error) {
	filtered := make([]recipe.Recipe, 0, len(selected))
	for _, r := range selected {
		if r.HasIngredients() {
			filtered = append(filtered, r)
		}
	}
	if len(filtered) == 0 {
		return nil, ErrNoValidRecipes
	}

	var lines []IngredientLine
	for i, r := range filtered {
		displayIndex := i + 1
		for _, group := range r.Ingredients {
			for _, item := range group.Items {
				lines = append(lines, IngredientLine{
					Amount:  item.Amount,
					Name:    item.Name,
					Recipes: []int{displayIndex},
				})
			}
		}
	}

	return &Aggregation{Recipes: filtered, Lines: lines}, nil
}
