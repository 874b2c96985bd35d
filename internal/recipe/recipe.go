// Package recipe holds recipes, their ingredient lines and the per-user
// favorite and shopping-cart marks.
package recipe

import (
	"errors"
	"time"
)

// Ingredient is a reference ingredient with its measurement unit.
// Identity for aggregation purposes is the (name, unit) pair.
type Ingredient struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
}

// IngredientAmount is one ingredient line of a recipe.
type IngredientAmount struct {
	Ingredient
	Amount int `json:"amount"`
}

// Recipe is a published recipe with its ingredient lines. Image is a path
// relative to the media directory.
type Recipe struct {
	ID          int64              `json:"id"`
	AuthorID    int64              `json:"-"`
	Name        string             `json:"name"`
	Text        string             `json:"text"`
	CookingTime int                `json:"cooking_time"`
	Image       string             `json:"-"`
	CreatedAt   time.Time          `json:"-"`
	Ingredients []IngredientAmount `json:"ingredients"`
}

// Filter narrows recipe listings. Zero values mean "no constraint".
type Filter struct {
	AuthorID    int64
	FavoritedBy int64
	InCartOf    int64
}

var (
	// ErrNotFound is returned when a referenced recipe does not exist.
	ErrNotFound = errors.New("recipe: not found")
	// ErrAlreadyMarked is returned on a duplicate favorite or cart add.
	ErrAlreadyMarked = errors.New("recipe: already marked")
	// ErrNotMarked is returned when removing an absent favorite or cart mark.
	ErrNotMarked = errors.New("recipe: not marked")
	// ErrUnknownIngredient is returned when a recipe references an
	// ingredient ID that does not exist.
	ErrUnknownIngredient = errors.New("recipe: unknown ingredient")
)
