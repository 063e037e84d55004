package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"bitewise-api/internal/ai"
	"bitewise-api/internal/dto"
	"bitewise-api/internal/middleware"
	"bitewise-api/internal/models"
	"bitewise-api/internal/utils"
)

// RecipeStore is the persistence surface for recipe rows
type RecipeStore interface {
	Create(ctx context.Context, recipe *models.Recipe) error
}

// RecipeGenerator produces and reworks recipes through the AI providers
type RecipeGenerator interface {
	Generate(ctx context.Context, ingredients []string, model string) (*dto.RecipeResponse, error)
	Modify(ctx context.Context, originalRecipeJSON, instruction, model string) (*dto.RecipeResponse, error)
}

// RecipeHandler handles recipe generation and persistence HTTP requests
type RecipeHandler struct {
	recipes   RecipeStore
	saved     SavedRecipeStore
	generator RecipeGenerator
	logger    *slog.Logger
}

// NewRecipeHandler creates a new RecipeHandler instance
func NewRecipeHandler(recipes RecipeStore, saved SavedRecipeStore, generator RecipeGenerator, logger *slog.Logger) *RecipeHandler {
	return &RecipeHandler{recipes: recipes, saved: saved, generator: generator, logger: logger}
}

// Generate creates a recipe from a list of ingredients
// @Summary Generate a recipe
// @Description Generate a recipe from at least 3 ingredients using the selected AI provider
// @Tags recipes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param aiModel query string false "AI provider" Enums(auto, gpt, gemini) default(auto)
// @Param request body dto.GenerateRecipeRequest true "Ingredient list"
// @Success 200 {object} dto.RecipeResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "AI generation failed"
// @Router /api/recipes/generate [post]
func (h *RecipeHandler) Generate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		utils.WriteErrorResponse(w, http.StatusUnauthorized, "Unauthorized", "User not authenticated")
		return
	}

	var req dto.GenerateRecipeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}
	if len(req.Ingredients) < 3 {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Invalid request body", "At least 3 ingredients are required")
		return
	}

	model := r.URL.Query().Get("aiModel")
	if model == "" {
		model = ai.ModelAuto
	}

	h.logger.Info("generating recipe", "user_id", userID, "model", model, "ingredients", len(req.Ingredients))

	recipe, err := h.generator.Generate(r.Context(), req.Ingredients, model)
	if err != nil {
		h.writeGenerationError(w, err)
		return
	}

	h.logger.Info("recipe generated", "user_id", userID, "title", recipe.Title)

	utils.WriteJSONResponse(w, http.StatusOK, recipe)
}

// Modify reworks an existing recipe according to an instruction
// @Summary Modify a recipe
// @Description Create a new recipe from an existing one and a modification instruction
// @Tags recipes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param aiModel query string false "AI provider" Enums(auto, gpt, gemini) default(gemini)
// @Param request body dto.ModifyRecipeRequest true "Original recipe and instruction"
// @Success 200 {object} dto.RecipeResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "AI modification failed"
// @Router /api/recipes/modify [post]
func (h *RecipeHandler) Modify(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		utils.WriteErrorResponse(w, http.StatusUnauthorized, "Unauthorized", "User not authenticated")
		return
	}

	var req dto.ModifyRecipeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}
	if req.ModificationInstruction == "" {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Invalid request body", "The modification instruction is required")
		return
	}

	// Modification historically runs on Gemini unless the caller asks
	// otherwise.
	model := r.URL.Query().Get("aiModel")
	if model == "" {
		model = ai.ModelGemini
	}

	h.logger.Info("modifying recipe", "user_id", userID, "model", model)

	recipe, err := h.generator.Modify(r.Context(), req.OriginalRecipeJSON, req.ModificationInstruction, model)
	if err != nil {
		h.writeGenerationError(w, err)
		return
	}

	utils.WriteJSONResponse(w, http.StatusOK, recipe)
}

// Save persists a generated recipe and links it to the current user
// @Summary Save a recipe
// @Description Persist a recipe and create a saved-recipe link for the current user
// @Tags recipes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.SaveRecipeRequest true "Recipe to save"
// @Success 200 {object} dto.MessageResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /api/recipes/save [post]
func (h *RecipeHandler) Save(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		utils.WriteErrorResponse(w, http.StatusUnauthorized, "Unauthorized", "User not authenticated")
		return
	}

	var req dto.SaveRecipeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}
	if req.Servings == nil {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Missing required fields", "Servings is required")
		return
	}

	recipe := &models.Recipe{
		ID:          uuid.New(),
		Title:       req.Title,
		PrepTime:    req.PrepTime,
		Servings:    *req.Servings,
		Difficulty:  req.Difficulty,
		Ingredients: req.Ingredients,
		Steps:       req.Steps,
		Tips:        req.Tips,
		CreatedAt:   time.Now(),
	}

	if err := h.recipes.Create(r.Context(), recipe); err != nil {
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Failed to save recipe", err.Error())
		return
	}

	link := &models.SavedRecipe{
		ID:       uuid.New(),
		UserID:   userID,
		RecipeID: recipe.ID,
		SavedAt:  time.Now(),
	}

	if err := h.saved.Create(r.Context(), link); err != nil {
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Failed to save recipe", err.Error())
		return
	}

	h.logger.Info("recipe saved", "user_id", userID, "recipe_id", recipe.ID, "title", recipe.Title)

	utils.WriteJSONResponse(w, http.StatusOK, dto.MessageResponse{
		Message: fmt.Sprintf("Recipe '%s' saved successfully!", recipe.Title),
	})
}

// writeGenerationError maps AI failures to a generic client response; the
// upstream status and body stay in the logs only.
func (h *RecipeHandler) writeGenerationError(w http.ResponseWriter, err error) {
	var provErr *ai.ProviderError
	var malformedErr *ai.MalformedResponseError

	switch {
	case errors.Is(err, ai.ErrProviderUnavailable):
		h.logger.Error("no AI provider available")
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "AI generation failed", "No AI provider is configured")
	case errors.As(err, &provErr):
		h.logger.Error("AI provider call failed", "provider", provErr.Provider, "status", provErr.StatusCode, "body", provErr.Body)
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "AI generation failed", "Failed to communicate with the AI provider")
	case errors.As(err, &malformedErr):
		h.logger.Error("AI provider returned malformed response", "provider", malformedErr.Provider, "reason", malformedErr.Reason)
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "AI generation failed", "Failed to process the AI response")
	default:
		h.logger.Error("AI generation failed", "error", err)
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "AI generation failed", "Failed to generate recipe with AI")
	}
}
