package api

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"foodgram/internal/recipe"
	"foodgram/internal/user"
)

type userPayload struct {
	ID           int64   `json:"id"`
	Email        string  `json:"email"`
	Username     string  `json:"username"`
	FirstName    string  `json:"first_name"`
	LastName     string  `json:"last_name"`
	IsSubscribed bool    `json:"is_subscribed"`
	Avatar       *string `json:"avatar"`
}

type recipeShort struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Image       *string `json:"image"`
	CookingTime int     `json:"cooking_time"`
}

type recipePayload struct {
	ID               int64                     `json:"id"`
	Author           userPayload               `json:"author"`
	Ingredients      []recipe.IngredientAmount `json:"ingredients"`
	IsFavorited      bool                      `json:"is_favorited"`
	IsInShoppingCart bool                      `json:"is_in_shopping_cart"`
	Name             string                    `json:"name"`
	Image            *string                   `json:"image"`
	Text             string                    `json:"text"`
	CookingTime      int                       `json:"cooking_time"`
}

type followPayload struct {
	userPayload
	Recipes      []recipeShort `json:"recipes"`
	RecipesCount int           `json:"recipes_count"`
}

// mediaURL builds an absolute URL for a stored media path, nil when unset.
func (s *Server) mediaURL(relPath string) *string {
	if relPath == "" {
		return nil
	}
	u := s.baseURL + "/media/" + relPath
	return &u
}

func (s *Server) userPayload(ctx context.Context, u, viewer *user.User) (userPayload, error) {
	p := userPayload{
		ID:        u.ID,
		Email:     u.Email,
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Avatar:    s.mediaURL(u.Avatar),
	}
	if viewer != nil && viewer.ID != u.ID {
		following, err := s.users.IsFollowing(ctx, viewer.ID, u.ID)
		if err != nil {
			return p, err
		}
		p.IsSubscribed = following
	}
	return p, nil
}

func (s *Server) recipeShort(rec *recipe.Recipe) recipeShort {
	return recipeShort{
		ID:          rec.ID,
		Name:        rec.Name,
		Image:       s.mediaURL(rec.Image),
		CookingTime: rec.CookingTime,
	}
}

func (s *Server) recipePayload(ctx context.Context, rec *recipe.Recipe, viewer *user.User) (recipePayload, error) {
	author, err := s.users.Get(ctx, rec.AuthorID)
	if err != nil {
		return recipePayload{}, err
	}
	if author == nil {
		return recipePayload{}, fmt.Errorf("recipe %d has no author row", rec.ID)
	}

	authorPayload, err := s.userPayload(ctx, author, viewer)
	if err != nil {
		return recipePayload{}, err
	}

	p := recipePayload{
		ID:          rec.ID,
		Author:      authorPayload,
		Ingredients: rec.Ingredients,
		Name:        rec.Name,
		Image:       s.mediaURL(rec.Image),
		Text:        rec.Text,
		CookingTime: rec.CookingTime,
	}
	if p.Ingredients == nil {
		p.Ingredients = []recipe.IngredientAmount{}
	}

	if viewer != nil {
		if p.IsFavorited, err = s.recipes.IsFavorited(ctx, viewer.ID, rec.ID); err != nil {
			return p, err
		}
		if p.IsInShoppingCart, err = s.recipes.IsInCart(ctx, viewer.ID, rec.ID); err != nil {
			return p, err
		}
	}
	return p, nil
}

// followPayload renders a followed user together with a portion of their
// recipes, honoring the recipes_limit query parameter.
func (s *Server) followPayload(ctx context.Context, followed, viewer *user.User, r *http.Request) (followPayload, error) {
	base, err := s.userPayload(ctx, followed, viewer)
	if err != nil {
		return followPayload{}, err
	}

	limit := 3
	if raw := r.URL.Query().Get("recipes_limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n >= 0 {
			limit = n
		}
	}

	recipes, total, err := s.recipes.List(ctx, recipe.Filter{AuthorID: followed.ID}, limit, 0)
	if err != nil {
		return followPayload{}, err
	}

	shorts := make([]recipeShort, 0, len(recipes))
	for i := range recipes {
		shorts = append(shorts, s.recipeShort(&recipes[i]))
	}
	return followPayload{userPayload: base, Recipes: shorts, RecipesCount: total}, nil
}
