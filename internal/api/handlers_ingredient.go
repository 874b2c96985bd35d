package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"foodgram/internal/recipe"
)

// Ingredient listing is unpaginated: clients use it to autocomplete while
// typing, filtered by name prefix.
func (s *Server) handleListIngredients(w http.ResponseWriter, r *http.Request) {
	ingredients, err := s.recipes.SearchIngredients(r.Context(), r.URL.Query().Get("name"))
	if err != nil {
		s.serverError(w, err)
		return
	}
	if ingredients == nil {
		ingredients = []recipe.Ingredient{}
	}
	sendJSON(w, http.StatusOK, ingredients)
}

func (s *Server) handleGetIngredient(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		sendError(w, "Страница не найдена.", http.StatusNotFound)
		return
	}

	ing, err := s.recipes.GetIngredient(r.Context(), id)
	if err != nil {
		s.serverError(w, err)
		return
	}
	if ing == nil {
		sendError(w, "Страница не найдена.", http.StatusNotFound)
		return
	}
	sendJSON(w, http.StatusOK, ing)
}
