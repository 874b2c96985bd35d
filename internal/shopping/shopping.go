// Package shopping builds a user's shopping list from the recipes in their
// cart and renders it into downloadable documents.
package shopping

import (
	"context"
	"sort"
)

// CartEntry marks a recipe as wanted for a user's shopping list.
type CartEntry struct {
	UserID   int64
	RecipeID int64
}

// IngredientLine is one ingredient requirement of a single recipe.
type IngredientLine struct {
	RecipeID int64
	Name     string
	Unit     string
	Amount   int
}

// AggregatedLine is one summed ingredient requirement across a whole cart.
type AggregatedLine struct {
	Name   string
	Unit   string
	Amount int
}

// CartRepository supplies the recipes a user has put in their cart.
type CartRepository interface {
	EntriesFor(ctx context.Context, userID int64) ([]CartEntry, error)
}

// IngredientRepository supplies the ingredient lines of a set of recipes.
type IngredientRepository interface {
	LinesFor(ctx context.Context, recipeIDs []int64) ([]IngredientLine, error)
}

// Aggregate sums ingredient quantities over every line whose recipe appears
// in the cart, grouped by (name, unit). The same ingredient appearing in two
// cart recipes adds up rather than overwrites. Entries come back sorted by
// name, ties broken by unit. An empty cart yields an empty list.
func Aggregate(entries []CartEntry, lines []IngredientLine) []AggregatedLine {
	inCart := make(map[int64]bool, len(entries))
	for _, e := range entries {
		inCart[e.RecipeID] = true
	}

	type key struct{ name, unit string }
	totals := make(map[key]int)
	for _, l := range lines {
		if !inCart[l.RecipeID] {
			continue
		}
		totals[key{l.Name, l.Unit}] += l.Amount
	}

	var out []AggregatedLine
	for k, amount := range totals {
		out = append(out, AggregatedLine{Name: k.name, Unit: k.unit, Amount: amount})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].Unit < out[j].Unit
	})
	return out
}

// BuildList loads a user's cart and returns the aggregated shopping list.
func BuildList(ctx context.Context, carts CartRepository, ingredients IngredientRepository, userID int64) ([]AggregatedLine, error) {
	entries, err := carts.EntriesFor(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, nil
	}

	ids := make([]int64, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.RecipeID)
	}

	lines, err := ingredients.LinesFor(ctx, ids)
	if err != nil {
		return nil, err
	}
	return Aggregate(entries, lines), nil
}
