package models

import (
	"time"

	"github.com/google/uuid"
)

// SavedRecipe links a user to a recipe they bookmarked
type SavedRecipe struct {
	ID       uuid.UUID `json:"id" db:"id"`
	UserID   uuid.UUID `json:"user_id" db:"user_id"`
	RecipeID uuid.UUID `json:"recipe_id" db:"recipe_id"`
	SavedAt  time.Time `json:"saved_at" db:"saved_at"`
}
