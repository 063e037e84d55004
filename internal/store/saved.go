package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"bitewise-api/internal/models"
)

// SavedRecipeRow is a saved-recipe link joined with the recipe it points to
type SavedRecipeRow struct {
	ID         uuid.UUID
	RecipeID   uuid.UUID
	Title      string
	Difficulty string
	SavedAt    time.Time
}

// SavedRecipeStore persists the many-to-many links between users and the
// recipes they saved
type SavedRecipeStore struct {
	db DB
}

// NewSavedRecipeStore creates a new SavedRecipeStore instance
func NewSavedRecipeStore(db DB) *SavedRecipeStore {
	return &SavedRecipeStore{db: db}
}

// Create inserts a new saved-recipe link
func (s *SavedRecipeStore) Create(ctx context.Context, link *models.SavedRecipe) error {
	query := `INSERT INTO saved_recipes (id, user_id, recipe_id, saved_at)
	          VALUES ($1, $2, $3, $4)`

	_, err := s.db.Exec(ctx, query, link.ID, link.UserID, link.RecipeID, link.SavedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

// ListByUser returns the user's saved recipes, most recent first
func (s *SavedRecipeStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]SavedRecipeRow, error) {
	query := `SELECT sr.id, sr.recipe_id, r.title, r.difficulty, sr.saved_at
	          FROM saved_recipes sr
	          JOIN recipes r ON r.id = sr.recipe_id
	          WHERE sr.user_id = $1
	          ORDER BY sr.saved_at DESC`

	rows, err := s.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	items := []SavedRecipeRow{}
	for rows.Next() {
		var item SavedRecipeRow
		if err := rows.Scan(&item.ID, &item.RecipeID, &item.Title, &item.Difficulty, &item.SavedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return items, nil
}

// GetByID returns the saved-recipe link with the given id
func (s *SavedRecipeStore) GetByID(ctx context.Context, id uuid.UUID) (*models.SavedRecipe, error) {
	query := `SELECT id, user_id, recipe_id, saved_at FROM saved_recipes WHERE id = $1`

	link := &models.SavedRecipe{}
	err := s.db.QueryRow(ctx, query, id).Scan(&link.ID, &link.UserID, &link.RecipeID, &link.SavedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return link, nil
}

// Delete removes a saved-recipe link
func (s *SavedRecipeStore) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM saved_recipes WHERE id = $1`

	ct, err := s.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}
