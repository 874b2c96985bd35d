package recipe

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"foodgram/internal/shopping"
)

// Repository is a database-backed repository for recipes, ingredients and
// the favorite/cart marks. It also feeds the shopping aggregator.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new Repository.
func NewRepository(d *sql.DB) *Repository {
	return &Repository{db: d}
}

// Create inserts a recipe with its ingredient lines and returns its ID.
func (r *Repository) Create(ctx context.Context, rec *Recipe) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO recipes (author_id, name, text, cooking_time, image)
		 VALUES (?, ?, ?, ?, ?)`,
		rec.AuthorID, rec.Name, rec.Text, rec.CookingTime, rec.Image,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert recipe: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read inserted recipe id: %w", err)
	}

	if err := insertLines(ctx, tx, id, rec.Ingredients); err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit recipe: %w", err)
	}
	return id, nil
}

// Update rewrites a recipe's fields and replaces its ingredient lines.
func (r *Repository) Update(ctx context.Context, rec *Recipe) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE recipes SET name = ?, text = ?, cooking_time = ?, image = ? WHERE id = ?`,
		rec.Name, rec.Text, rec.CookingTime, rec.Image, rec.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update recipe: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM recipe_ingredients WHERE recipe_id = ?", rec.ID); err != nil {
		return fmt.Errorf("failed to clear ingredient lines: %w", err)
	}
	if err := insertLines(ctx, tx, rec.ID, rec.Ingredients); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit recipe update: %w", err)
	}
	return nil
}

func insertLines(ctx context.Context, tx *sql.Tx, recipeID int64, lines []IngredientAmount) error {
	for _, line := range lines {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO recipe_ingredients (recipe_id, ingredient_id, amount) VALUES (?, ?, ?)`,
			recipeID, line.ID, line.Amount,
		)
		if err != nil {
			if isForeignKeyViolation(err) {
				return fmt.Errorf("%w: id %d", ErrUnknownIngredient, line.ID)
			}
			return fmt.Errorf("failed to insert ingredient line: %w", err)
		}
	}
	return nil
}

// Delete removes a recipe; its lines and marks cascade.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM recipes WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete recipe: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Get retrieves a recipe with its ingredient lines, or nil when missing.
func (r *Repository) Get(ctx context.Context, id int64) (*Recipe, error) {
	var rec Recipe
	err := r.db.QueryRowContext(ctx,
		`SELECT id, author_id, name, text, cooking_time, image, created_at
		 FROM recipes WHERE id = ?`, id,
	).Scan(&rec.ID, &rec.AuthorID, &rec.Name, &rec.Text, &rec.CookingTime, &rec.Image, &rec.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get recipe by ID: %w", err)
	}

	if err := r.loadLines(ctx, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *Repository) loadLines(ctx context.Context, rec *Recipe) error {
	rows, err := r.db.QueryContext(ctx,
		`SELECT i.id, i.name, i.measurement_unit, ri.amount
		 FROM recipe_ingredients ri
		 JOIN ingredients i ON i.id = ri.ingredient_id
		 WHERE ri.recipe_id = ?
		 ORDER BY i.name`, rec.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to load ingredient lines: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var ia IngredientAmount
		if err := rows.Scan(&ia.ID, &ia.Name, &ia.MeasurementUnit, &ia.Amount); err != nil {
			return fmt.Errorf("failed to scan ingredient line: %w", err)
		}
		rec.Ingredients = append(rec.Ingredients, ia)
	}
	return rows.Err()
}

// List returns one page of recipes matching the filter, newest first, plus
// the total count of matches.
func (r *Repository) List(ctx context.Context, f Filter, limit, offset int) ([]Recipe, int, error) {
	where, args := buildFilter(f)

	var total int
	if err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM recipes r"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count recipes: %w", err)
	}

	query := `SELECT r.id, r.author_id, r.name, r.text, r.cooking_time, r.image, r.created_at
	 FROM recipes r` + where + ` ORDER BY r.created_at DESC, r.id DESC LIMIT ? OFFSET ?`
	rows, err := r.db.QueryContext(ctx, query, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list recipes: %w", err)
	}
	defer rows.Close()

	var recipes []Recipe
	for rows.Next() {
		var rec Recipe
		if err := rows.Scan(&rec.ID, &rec.AuthorID, &rec.Name, &rec.Text, &rec.CookingTime, &rec.Image, &rec.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("failed to scan recipe row: %w", err)
		}
		recipes = append(recipes, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate recipe rows: %w", err)
	}

	for i := range recipes {
		if err := r.loadLines(ctx, &recipes[i]); err != nil {
			return nil, 0, err
		}
	}
	return recipes, total, nil
}

func buildFilter(f Filter) (string, []any) {
	var conds []string
	var args []any
	if f.AuthorID != 0 {
		conds = append(conds, "r.author_id = ?")
		args = append(args, f.AuthorID)
	}
	if f.FavoritedBy != 0 {
		conds = append(conds, "r.id IN (SELECT recipe_id FROM favorites WHERE user_id = ?)")
		args = append(args, f.FavoritedBy)
	}
	if f.InCartOf != 0 {
		conds = append(conds, "r.id IN (SELECT recipe_id FROM shopping_carts WHERE user_id = ?)")
		args = append(args, f.InCartOf)
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// markTable names the two user×recipe mark tables.
type markTable string

const (
	tableFavorites markTable = "favorites"
	tableCarts     markTable = "shopping_carts"
)

func (r *Repository) addMark(ctx context.Context, table markTable, userID, recipeID int64) error {
	_, err := r.db.ExecContext(ctx,
		fmt.Sprintf("INSERT INTO %s (user_id, recipe_id) VALUES (?, ?)", table),
		userID, recipeID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrAlreadyMarked
		}
		if isForeignKeyViolation(err) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to insert into %s: %w", table, err)
	}
	return nil
}

func (r *Repository) removeMark(ctx context.Context, table markTable, userID, recipeID int64) error {
	res, err := r.db.ExecContext(ctx,
		fmt.Sprintf("DELETE FROM %s WHERE user_id = ? AND recipe_id = ?", table),
		userID, recipeID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete from %s: %w", table, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return ErrNotMarked
	}
	return nil
}

func (r *Repository) hasMark(ctx context.Context, table markTable, userID, recipeID int64) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE user_id = ? AND recipe_id = ?", table),
		userID, recipeID,
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("failed to check %s: %w", table, err)
	}
	return n > 0, nil
}

// AddFavorite marks a recipe as a user's favorite.
func (r *Repository) AddFavorite(ctx context.Context, userID, recipeID int64) error {
	return r.addMark(ctx, tableFavorites, userID, recipeID)
}

// RemoveFavorite removes a favorite mark.
func (r *Repository) RemoveFavorite(ctx context.Context, userID, recipeID int64) error {
	return r.removeMark(ctx, tableFavorites, userID, recipeID)
}

// IsFavorited reports whether the user has favorited the recipe.
func (r *Repository) IsFavorited(ctx context.Context, userID, recipeID int64) (bool, error) {
	return r.hasMark(ctx, tableFavorites, userID, recipeID)
}

// AddToCart puts a recipe into a user's shopping cart.
func (r *Repository) AddToCart(ctx context.Context, userID, recipeID int64) error {
	return r.addMark(ctx, tableCarts, userID, recipeID)
}

// RemoveFromCart removes a recipe from a user's shopping cart.
func (r *Repository) RemoveFromCart(ctx context.Context, userID, recipeID int64) error {
	return r.removeMark(ctx, tableCarts, userID, recipeID)
}

// IsInCart reports whether the recipe is in the user's shopping cart.
func (r *Repository) IsInCart(ctx context.Context, userID, recipeID int64) (bool, error) {
	return r.hasMark(ctx, tableCarts, userID, recipeID)
}

// EntriesFor returns the user's cart entries for the shopping aggregator.
func (r *Repository) EntriesFor(ctx context.Context, userID int64) ([]shopping.CartEntry, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT user_id, recipe_id FROM shopping_carts WHERE user_id = ?", userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart entries: %w", err)
	}
	defer rows.Close()

	var entries []shopping.CartEntry
	for rows.Next() {
		var e shopping.CartEntry
		if err := rows.Scan(&e.UserID, &e.RecipeID); err != nil {
			return nil, fmt.Errorf("failed to scan cart entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// LinesFor returns the ingredient lines of the given recipes for the
// shopping aggregator.
func (r *Repository) LinesFor(ctx context.Context, recipeIDs []int64) ([]shopping.IngredientLine, error) {
	if len(recipeIDs) == 0 {
		return nil, nil
	}

	placeholders := strings.Repeat("?,", len(recipeIDs))
	placeholders = placeholders[:len(placeholders)-1]
	args := make([]any, len(recipeIDs))
	for i, id := range recipeIDs {
		args[i] = id
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT ri.recipe_id, i.name, i.measurement_unit, ri.amount
		 FROM recipe_ingredients ri
		 JOIN ingredients i ON i.id = ri.ingredient_id
		 WHERE ri.recipe_id IN (`+placeholders+`)`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to load ingredient lines: %w", err)
	}
	defer rows.Close()

	var lines []shopping.IngredientLine
	for rows.Next() {
		var l shopping.IngredientLine
		if err := rows.Scan(&l.RecipeID, &l.Name, &l.Unit, &l.Amount); err != nil {
			return nil, fmt.Errorf("failed to scan ingredient line: %w", err)
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

// GetIngredient retrieves one reference ingredient, or nil when missing.
func (r *Repository) GetIngredient(ctx context.Context, id int64) (*Ingredient, error) {
	var ing Ingredient
	err := r.db.QueryRowContext(ctx,
		"SELECT id, name, measurement_unit FROM ingredients WHERE id = ?", id,
	).Scan(&ing.ID, &ing.Name, &ing.MeasurementUnit)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get ingredient by ID: %w", err)
	}
	return &ing, nil
}

// SearchIngredients lists ingredients whose name starts with the prefix,
// case-insensitively. An empty prefix lists everything.
func (r *Repository) SearchIngredients(ctx context.Context, prefix string) ([]Ingredient, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, measurement_unit FROM ingredients
		 WHERE name LIKE ? ESCAPE '\' COLLATE NOCASE
		 ORDER BY name`, escapeLike(prefix)+"%",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to search ingredients: %w", err)
	}
	defer rows.Close()

	var out []Ingredient
	for rows.Next() {
		var ing Ingredient
		if err := rows.Scan(&ing.ID, &ing.Name, &ing.MeasurementUnit); err != nil {
			return nil, fmt.Errorf("failed to scan ingredient: %w", err)
		}
		out = append(out, ing)
	}
	return out, rows.Err()
}

// CreateIngredient inserts a reference ingredient and returns its ID.
func (r *Repository) CreateIngredient(ctx context.Context, name, unit string) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO ingredients (name, measurement_unit) VALUES (?, ?)", name, unit)
	if err != nil {
		return 0, fmt.Errorf("failed to insert ingredient: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read inserted ingredient id: %w", err)
	}
	return id, nil
}

func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "%", `\%`)
	return strings.ReplaceAll(s, "_", `\_`)
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func isForeignKeyViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}
