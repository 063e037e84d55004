package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"bitewise-api/internal/models"
)

// RecipeStore persists recipes
type RecipeStore struct {
	db DB
}

// NewRecipeStore creates a new RecipeStore instance
func NewRecipeStore(db DB) *RecipeStore {
	return &RecipeStore{db: db}
}

// Create inserts a new recipe row
func (s *RecipeStore) Create(ctx context.Context, recipe *models.Recipe) error {
	query := `INSERT INTO recipes (id, title, prep_time, servings, difficulty, ingredients, steps, tips, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := s.db.Exec(ctx, query,
		recipe.ID, recipe.Title, recipe.PrepTime, recipe.Servings, recipe.Difficulty,
		recipe.Ingredients, recipe.Steps, recipe.Tips, recipe.CreatedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

// GetByID returns the recipe with the given id
func (s *RecipeStore) GetByID(ctx context.Context, id uuid.UUID) (*models.Recipe, error) {
	query := `SELECT id, title, prep_time, servings, difficulty, ingredients, steps, tips, created_at
	          FROM recipes WHERE id = $1`

	recipe := &models.Recipe{}
	err := s.db.QueryRow(ctx, query, id).Scan(
		&recipe.ID, &recipe.Title, &recipe.PrepTime, &recipe.Servings, &recipe.Difficulty,
		&recipe.Ingredients, &recipe.Steps, &recipe.Tips, &recipe.CreatedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return recipe, nil
}
