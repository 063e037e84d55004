package models

import (
	"time"

	"github.com/google/uuid"
)

// Recipe is a persisted recipe row. Ingredients, steps and tips are stored
// as ordered text[] columns.
type Recipe struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Title       string    `json:"title" db:"title"`
	PrepTime    string    `json:"prep_time" db:"prep_time"`
	Servings    int       `json:"servings" db:"servings"`
	Difficulty  string    `json:"difficulty" db:"difficulty"`
	Ingredients []string  `json:"ingredients" db:"ingredients"`
	Steps       []string  `json:"steps" db:"steps"`
	Tips        []string  `json:"tips" db:"tips"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}
