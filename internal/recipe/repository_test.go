package recipe

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"foodgram/internal/database"
	"foodgram/internal/user"
)

func newTestRepo(t *testing.T) (*Repository, *user.Repository) {
	t.Helper()
	db, err := database.NewDB(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewRepository(db.SQL), user.NewRepository(db.SQL)
}

func createAuthor(t *testing.T, users *user.Repository, username string) int64 {
	t.Helper()
	id, err := users.Create(context.Background(), &user.User{
		Email:        username + "@example.com",
		Username:     username,
		PasswordHash: "x",
	})
	require.NoError(t, err)
	return id
}

func TestRepositoryCRUD(t *testing.T) {
	ctx := context.Background()
	repo, users := newTestRepo(t)
	authorID := createAuthor(t, users, "chef")

	saltID, err := repo.CreateIngredient(ctx, "Salt", "g")
	require.NoError(t, err)
	flourID, err := repo.CreateIngredient(ctx, "Flour", "g")
	require.NoError(t, err)

	rec := &Recipe{
		AuthorID:    authorID,
		Name:        "Bread",
		Text:        "Mix and bake.",
		CookingTime: 90,
		Ingredients: []IngredientAmount{
			{Ingredient: Ingredient{ID: flourID}, Amount: 500},
			{Ingredient: Ingredient{ID: saltID}, Amount: 10},
		},
	}

	id, err := repo.Create(ctx, rec)
	require.NoError(t, err)

	t.Run("Get", func(t *testing.T) {
		got, err := repo.Get(ctx, id)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "Bread", got.Name)
		require.Len(t, got.Ingredients, 2)
		// Lines come back ordered by ingredient name.
		assert.Equal(t, "Flour", got.Ingredients[0].Name)
		assert.Equal(t, 500, got.Ingredients[0].Amount)
	})

	t.Run("GetMissing", func(t *testing.T) {
		got, err := repo.Get(ctx, 9999)
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("UnknownIngredient", func(t *testing.T) {
		_, err := repo.Create(ctx, &Recipe{
			AuthorID:    authorID,
			Name:        "Mystery",
			Text:        "?",
			CookingTime: 1,
			Ingredients: []IngredientAmount{{Ingredient: Ingredient{ID: 777}, Amount: 1}},
		})
		assert.ErrorIs(t, err, ErrUnknownIngredient)
	})

	t.Run("Update", func(t *testing.T) {
		updated := &Recipe{
			ID:          id,
			AuthorID:    authorID,
			Name:        "Sourdough",
			Text:        "Ferment, then bake.",
			CookingTime: 120,
			Ingredients: []IngredientAmount{
				{Ingredient: Ingredient{ID: flourID}, Amount: 600},
			},
		}
		require.NoError(t, repo.Update(ctx, updated))

		got, err := repo.Get(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "Sourdough", got.Name)
		require.Len(t, got.Ingredients, 1)
		assert.Equal(t, 600, got.Ingredients[0].Amount)
	})

	t.Run("UpdateMissing", func(t *testing.T) {
		err := repo.Update(ctx, &Recipe{ID: 9999, Name: "x", Text: "x", CookingTime: 1})
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, id))
		got, err := repo.Get(ctx, id)
		require.NoError(t, err)
		assert.Nil(t, got)

		assert.ErrorIs(t, repo.Delete(ctx, id), ErrNotFound)
	})
}

func TestRepositoryListFilters(t *testing.T) {
	ctx := context.Background()
	repo, users := newTestRepo(t)
	alice := createAuthor(t, users, "alice")
	bob := createAuthor(t, users, "bob")

	ingID, err := repo.CreateIngredient(ctx, "Salt", "g")
	require.NoError(t, err)

	newRecipe := func(author int64, name string) int64 {
		id, err := repo.Create(ctx, &Recipe{
			AuthorID:    author,
			Name:        name,
			Text:        "t",
			CookingTime: 5,
			Ingredients: []IngredientAmount{{Ingredient: Ingredient{ID: ingID}, Amount: 1}},
		})
		require.NoError(t, err)
		return id
	}

	r1 := newRecipe(alice, "first")
	r2 := newRecipe(bob, "second")
	newRecipe(bob, "third")

	require.NoError(t, repo.AddFavorite(ctx, alice, r2))
	require.NoError(t, repo.AddToCart(ctx, alice, r1))

	t.Run("All", func(t *testing.T) {
		recipes, total, err := repo.List(ctx, Filter{}, 10, 0)
		require.NoError(t, err)
		assert.Equal(t, 3, total)
		assert.Len(t, recipes, 3)
	})

	t.Run("ByAuthor", func(t *testing.T) {
		recipes, total, err := repo.List(ctx, Filter{AuthorID: bob}, 10, 0)
		require.NoError(t, err)
		assert.Equal(t, 2, total)
		for _, rec := range recipes {
			assert.Equal(t, bob, rec.AuthorID)
		}
	})

	t.Run("Favorited", func(t *testing.T) {
		recipes, total, err := repo.List(ctx, Filter{FavoritedBy: alice}, 10, 0)
		require.NoError(t, err)
		assert.Equal(t, 1, total)
		require.Len(t, recipes, 1)
		assert.Equal(t, r2, recipes[0].ID)
	})

	t.Run("InCart", func(t *testing.T) {
		recipes, total, err := repo.List(ctx, Filter{InCartOf: alice}, 10, 0)
		require.NoError(t, err)
		assert.Equal(t, 1, total)
		require.Len(t, recipes, 1)
		assert.Equal(t, r1, recipes[0].ID)
	})

	t.Run("Paging", func(t *testing.T) {
		recipes, total, err := repo.List(ctx, Filter{}, 2, 0)
		require.NoError(t, err)
		assert.Equal(t, 3, total)
		assert.Len(t, recipes, 2)
	})
}

func TestRepositoryMarks(t *testing.T) {
	ctx := context.Background()
	repo, users := newTestRepo(t)
	alice := createAuthor(t, users, "alice")

	ingID, err := repo.CreateIngredient(ctx, "Salt", "g")
	require.NoError(t, err)
	recID, err := repo.Create(ctx, &Recipe{
		AuthorID:    alice,
		Name:        "Soup",
		Text:        "t",
		CookingTime: 10,
		Ingredients: []IngredientAmount{{Ingredient: Ingredient{ID: ingID}, Amount: 3}},
	})
	require.NoError(t, err)

	t.Run("FavoriteLifecycle", func(t *testing.T) {
		require.NoError(t, repo.AddFavorite(ctx, alice, recID))
		assert.ErrorIs(t, repo.AddFavorite(ctx, alice, recID), ErrAlreadyMarked)

		fav, err := repo.IsFavorited(ctx, alice, recID)
		require.NoError(t, err)
		assert.True(t, fav)

		require.NoError(t, repo.RemoveFavorite(ctx, alice, recID))
		assert.ErrorIs(t, repo.RemoveFavorite(ctx, alice, recID), ErrNotMarked)
	})

	t.Run("CartFeedsAggregator", func(t *testing.T) {
		require.NoError(t, repo.AddToCart(ctx, alice, recID))

		entries, err := repo.EntriesFor(ctx, alice)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, recID, entries[0].RecipeID)

		lines, err := repo.LinesFor(ctx, []int64{recID})
		require.NoError(t, err)
		require.Len(t, lines, 1)
		assert.Equal(t, "Salt", lines[0].Name)
		assert.Equal(t, "g", lines[0].Unit)
		assert.Equal(t, 3, lines[0].Amount)
	})
}

func TestSearchIngredients(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestRepo(t)

	for _, ing := range [][2]string{{"Salt", "g"}, {"Saffron", "g"}, {"Pepper", "g"}} {
		_, err := repo.CreateIngredient(ctx, ing[0], ing[1])
		require.NoError(t, err)
	}

	t.Run("Prefix", func(t *testing.T) {
		got, err := repo.SearchIngredients(ctx, "sa")
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "Saffron", got[0].Name)
		assert.Equal(t, "Salt", got[1].Name)
	})

	t.Run("NoMatch", func(t *testing.T) {
		got, err := repo.SearchIngredients(ctx, "zz")
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("EmptyPrefixListsAll", func(t *testing.T) {
		got, err := repo.SearchIngredients(ctx, "")
		require.NoError(t, err)
		assert.Len(t, got, 3)
	})
}
