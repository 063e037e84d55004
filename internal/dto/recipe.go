package dto

// GenerateRecipeRequest asks the AI orchestrator for a new recipe. At least
// three ingredients are required.
type GenerateRecipeRequest struct {
	Ingredients []string `json:"ingredients" validate:"required,min=3"`
}

// ModifyRecipeRequest asks the AI orchestrator to rework an existing recipe
type ModifyRecipeRequest struct {
	OriginalRecipeJSON      string `json:"originalRecipeJson"`
	ModificationInstruction string `json:"modificationInstruction" validate:"required"`
}

// NutritionFacts is the per-recipe nutrition summary produced by the AI
type NutritionFacts struct {
	Calories     float64 `json:"calories"`
	ProteinGrams float64 `json:"proteinGrams"`
	FatGrams     float64 `json:"fatGrams"`
	CarbsGrams   float64 `json:"carbsGrams"`
}

// RecipeResponse is the recipe schema the AI providers must return and the
// payload served to clients. Image is a data URI, empty when image
// generation failed or was skipped.
type RecipeResponse struct {
	Title       string          `json:"title"`
	PrepTime    string          `json:"prepTime"`
	Servings    int             `json:"servings"`
	Difficulty  string          `json:"difficulty"`
	Ingredients []string        `json:"ingredients"`
	Steps       []string        `json:"steps"`
	Tips        []string        `json:"tips"`
	Nutrition   *NutritionFacts `json:"nutrition"`
	Image       string          `json:"image,omitempty"`
}

// SaveRecipeRequest persists a generated recipe for the current user
type SaveRecipeRequest struct {
	Title       string   `json:"title"`
	PrepTime    string   `json:"prepTime"`
	Servings    *int     `json:"servings" validate:"required"`
	Difficulty  string   `json:"difficulty"`
	Ingredients []string `json:"ingredients"`
	Steps       []string `json:"steps"`
	Tips        []string `json:"tips"`
}

// SavedRecipeItem is one entry in the current user's saved-recipes list
type SavedRecipeItem struct {
	ID         string `json:"id"`
	RecipeID   string `json:"recipeId"`
	Title      string `json:"title"`
	Difficulty string `json:"difficulty"`
	SavedAt    string `json:"savedAt"`
}
