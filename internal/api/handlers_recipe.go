package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"foodgram/internal/recipe"
	"foodgram/internal/shopping"
	"foodgram/internal/shortlink"
	"foodgram/internal/storage"
)

func (s *Server) handleListRecipes(w http.ResponseWriter, r *http.Request) {
	p := parsePageParams(r)
	viewer := currentUser(r)

	var f recipe.Filter
	q := r.URL.Query()
	if raw := q.Get("author"); raw != "" {
		if id, err := strconv.ParseInt(raw, 10, 64); err == nil {
			f.AuthorID = id
		}
	}
	// The favorited/cart filters only make sense for an authenticated viewer.
	if viewer != nil {
		if q.Get("is_favorited") == "1" {
			f.FavoritedBy = viewer.ID
		}
		if q.Get("is_in_shopping_cart") == "1" {
			f.InCartOf = viewer.ID
		}
	}

	recipes, total, err := s.recipes.List(r.Context(), f, p.limit, p.offset())
	if err != nil {
		s.serverError(w, err)
		return
	}

	results := make([]recipePayload, 0, len(recipes))
	for i := range recipes {
		payload, err := s.recipePayload(r.Context(), &recipes[i], viewer)
		if err != nil {
			s.serverError(w, err)
			return
		}
		results = append(results, payload)
	}
	sendJSON(w, http.StatusOK, paginate(r, p, total, results))
}

type recipeRequest struct {
	Name        string `json:"name"`
	Text        string `json:"text"`
	CookingTime int    `json:"cooking_time"`
	Image       string `json:"image"`
	Ingredients []struct {
		ID     int64 `json:"id"`
		Amount int   `json:"amount"`
	} `json:"ingredients"`
}

func (req *recipeRequest) validate() map[string][]string {
	fields := map[string][]string{}
	if req.Name == "" {
		fields["name"] = []string{"Это поле обязательно."}
	}
	if req.Text == "" {
		fields["text"] = []string{"Это поле обязательно."}
	}
	if req.CookingTime < 1 {
		fields["cooking_time"] = []string{"Убедитесь, что это значение больше либо равно 1."}
	}
	if len(req.Ingredients) == 0 {
		fields["ingredients"] = []string{"Это поле обязательно."}
	}
	for _, ing := range req.Ingredients {
		if ing.Amount < 1 {
			fields["ingredients"] = []string{"Убедитесь, что количество больше либо равно 1."}
			break
		}
	}
	if len(fields) == 0 {
		return nil
	}
	return fields
}

func (req *recipeRequest) lines() []recipe.IngredientAmount {
	out := make([]recipe.IngredientAmount, 0, len(req.Ingredients))
	for _, ing := range req.Ingredients {
		out = append(out, recipe.IngredientAmount{
			Ingredient: recipe.Ingredient{ID: ing.ID},
			Amount:     ing.Amount,
		})
	}
	return out
}

func (s *Server) handleCreateRecipe(w http.ResponseWriter, r *http.Request) {
	viewer := currentUser(r)

	var req recipeRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if fields := req.validate(); fields != nil {
		sendFieldErrors(w, fields)
		return
	}

	var imagePath string
	if req.Image != "" {
		var err error
		imagePath, err = s.media.SaveDataURI(req.Image)
		if err != nil {
			if errors.Is(err, storage.ErrInvalidDataURI) {
				sendFieldErrors(w, map[string][]string{"image": {"Некорректное изображение."}})
				return
			}
			s.serverError(w, err)
			return
		}
	}

	rec := &recipe.Recipe{
		AuthorID:    viewer.ID,
		Name:        req.Name,
		Text:        req.Text,
		CookingTime: req.CookingTime,
		Image:       imagePath,
		Ingredients: req.lines(),
	}

	id, err := s.recipes.Create(r.Context(), rec)
	if err != nil {
		if errors.Is(err, recipe.ErrUnknownIngredient) {
			sendFieldErrors(w, map[string][]string{"ingredients": {"Несуществующий ингредиент."}})
			return
		}
		s.serverError(w, err)
		return
	}

	created, err := s.recipes.Get(r.Context(), id)
	if err != nil {
		s.serverError(w, err)
		return
	}
	payload, err := s.recipePayload(r.Context(), created, viewer)
	if err != nil {
		s.serverError(w, err)
		return
	}
	sendJSON(w, http.StatusCreated, payload)
}

// loadRecipe resolves the {id} route param; a response is already written
// when it returns nil.
func (s *Server) loadRecipe(w http.ResponseWriter, r *http.Request) *recipe.Recipe {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		sendError(w, "Страница не найдена.", http.StatusNotFound)
		return nil
	}

	rec, err := s.recipes.Get(r.Context(), id)
	if err != nil {
		s.serverError(w, err)
		return nil
	}
	if rec == nil {
		sendError(w, "Страница не найдена.", http.StatusNotFound)
		return nil
	}
	return rec
}

func (s *Server) handleGetRecipe(w http.ResponseWriter, r *http.Request) {
	rec := s.loadRecipe(w, r)
	if rec == nil {
		return
	}

	payload, err := s.recipePayload(r.Context(), rec, currentUser(r))
	if err != nil {
		s.serverError(w, err)
		return
	}
	sendJSON(w, http.StatusOK, payload)
}

func (s *Server) handleUpdateRecipe(w http.ResponseWriter, r *http.Request) {
	viewer := currentUser(r)

	rec := s.loadRecipe(w, r)
	if rec == nil {
		return
	}
	if rec.AuthorID != viewer.ID {
		sendError(w, "У вас недостаточно прав для выполнения данного действия.", http.StatusForbidden)
		return
	}

	var req recipeRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if fields := req.validate(); fields != nil {
		sendFieldErrors(w, fields)
		return
	}

	imagePath := rec.Image
	if req.Image != "" {
		var err error
		imagePath, err = s.media.SaveDataURI(req.Image)
		if err != nil {
			if errors.Is(err, storage.ErrInvalidDataURI) {
				sendFieldErrors(w, map[string][]string{"image": {"Некорректное изображение."}})
				return
			}
			s.serverError(w, err)
			return
		}
		if err := s.media.Remove(rec.Image); err != nil {
			s.serverError(w, err)
			return
		}
	}

	updated := &recipe.Recipe{
		ID:          rec.ID,
		AuthorID:    rec.AuthorID,
		Name:        req.Name,
		Text:        req.Text,
		CookingTime: req.CookingTime,
		Image:       imagePath,
		Ingredients: req.lines(),
	}
	if err := s.recipes.Update(r.Context(), updated); err != nil {
		if errors.Is(err, recipe.ErrUnknownIngredient) {
			sendFieldErrors(w, map[string][]string{"ingredients": {"Несуществующий ингредиент."}})
			return
		}
		s.serverError(w, err)
		return
	}

	fresh, err := s.recipes.Get(r.Context(), rec.ID)
	if err != nil {
		s.serverError(w, err)
		return
	}
	payload, err := s.recipePayload(r.Context(), fresh, viewer)
	if err != nil {
		s.serverError(w, err)
		return
	}
	sendJSON(w, http.StatusOK, payload)
}

func (s *Server) handleDeleteRecipe(w http.ResponseWriter, r *http.Request) {
	viewer := currentUser(r)

	rec := s.loadRecipe(w, r)
	if rec == nil {
		return
	}
	if rec.AuthorID != viewer.ID {
		sendError(w, "У вас недостаточно прав для выполнения данного действия.", http.StatusForbidden)
		return
	}

	if err := s.recipes.Delete(r.Context(), rec.ID); err != nil {
		s.serverError(w, err)
		return
	}
	if err := s.media.Remove(rec.Image); err != nil {
		s.serverError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGetLink(w http.ResponseWriter, r *http.Request) {
	rec := s.loadRecipe(w, r)
	if rec == nil {
		return
	}

	link := fmt.Sprintf("%s/s/%s", s.baseURL, shortlink.Encode(rec.ID))
	sendJSON(w, http.StatusOK, map[string]string{"short-link": link})
}

// handleShortLink resolves /s/{token} back to the recipe page.
func (s *Server) handleShortLink(w http.ResponseWriter, r *http.Request) {
	id, err := shortlink.Decode(chi.URLParam(r, "token"))
	if err != nil {
		sendError(w, "Страница не найдена.", http.StatusNotFound)
		return
	}

	rec, err := s.recipes.Get(r.Context(), id)
	if err != nil {
		s.serverError(w, err)
		return
	}
	if rec == nil {
		sendError(w, "Страница не найдена.", http.StatusNotFound)
		return
	}

	http.Redirect(w, r, fmt.Sprintf("/recipes/%d", rec.ID), http.StatusFound)
}

func (s *Server) handleDownloadShoppingCart(w http.ResponseWriter, r *http.Request) {
	viewer := currentUser(r)

	formatParam := r.URL.Query().Get("format")
	if formatParam == "" {
		formatParam = "txt"
	}
	format, err := shopping.ParseFormat(formatParam)
	if err != nil {
		sendError(w, "Неподдерживаемый формат файла", http.StatusBadRequest)
		return
	}

	list, err := shopping.BuildList(r.Context(), s.recipes, s.recipes, viewer.ID)
	if err != nil {
		s.serverError(w, err)
		return
	}

	export, err := shopping.Render(format, list)
	if err != nil {
		s.serverError(w, err)
		return
	}

	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.Filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(export.Content)
}

// markCommand is the explicit create/delete command dispatched by the
// routes, instead of branching on the request method inside the handler.
type markCommand int

const (
	markCreate markCommand = iota
	markDelete
)

// markKind selects which user×recipe mark a route manipulates.
type markKind int

const (
	markFavorite markKind = iota
	markCart
)

func (s *Server) markHandler(cmd markCommand, kind markKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		viewer := currentUser(r)

		rec := s.loadRecipe(w, r)
		if rec == nil {
			return
		}

		var err error
		switch {
		case kind == markFavorite && cmd == markCreate:
			err = s.recipes.AddFavorite(r.Context(), viewer.ID, rec.ID)
		case kind == markFavorite && cmd == markDelete:
			err = s.recipes.RemoveFavorite(r.Context(), viewer.ID, rec.ID)
		case kind == markCart && cmd == markCreate:
			err = s.recipes.AddToCart(r.Context(), viewer.ID, rec.ID)
		default:
			err = s.recipes.RemoveFromCart(r.Context(), viewer.ID, rec.ID)
		}

		switch {
		case err == nil:
		case errors.Is(err, recipe.ErrAlreadyMarked):
			sendError(w, "Рецепт уже добавлен.", http.StatusBadRequest)
			return
		case errors.Is(err, recipe.ErrNotMarked):
			sendError(w, "Рецепт не был добавлен.", http.StatusBadRequest)
			return
		default:
			s.serverError(w, err)
			return
		}

		if cmd == markDelete {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		sendJSON(w, http.StatusCreated, s.recipeShort(rec))
	}
}
