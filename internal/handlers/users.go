package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"bitewise-api/internal/dto"
	"bitewise-api/internal/middleware"
	"bitewise-api/internal/models"
	"bitewise-api/internal/store"
	"bitewise-api/internal/utils"
)

// SavedRecipeStore is the persistence surface for saved-recipe links
type SavedRecipeStore interface {
	Create(ctx context.Context, link *models.SavedRecipe) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]store.SavedRecipeRow, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.SavedRecipe, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

const savedRecipesPath = "/api/users/me/saved-recipes"

// UserHandler handles profile and saved-recipe HTTP requests
type UserHandler struct {
	users  UserStore
	saved  SavedRecipeStore
	logger *slog.Logger
}

// NewUserHandler creates a new UserHandler instance
func NewUserHandler(users UserStore, saved SavedRecipeStore, logger *slog.Logger) *UserHandler {
	return &UserHandler{users: users, saved: saved, logger: logger}
}

// Me dispatches /api/users/me by method
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.getProfile(w, r)
	case http.MethodPut:
		h.updateProfile(w, r)
	default:
		utils.WriteErrorResponse(w, http.StatusMethodNotAllowed, "Method Not Allowed", "only GET and PUT are allowed")
	}
}

// getProfile returns the current user's profile
// @Summary Get user profile
// @Description Get the current authenticated user's profile information
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.UserProfileResponse
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Router /api/users/me [get]
func (h *UserHandler) getProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		utils.WriteErrorResponse(w, http.StatusUnauthorized, "Unauthorized", "User not authenticated")
		return
	}

	user, err := h.users.GetByID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			utils.WriteErrorResponse(w, http.StatusNotFound, "User not found", "No account for the authenticated user")
			return
		}
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Internal Server Error", err.Error())
		return
	}

	utils.WriteJSONResponse(w, http.StatusOK, dto.UserProfileResponse{
		ID:    user.ID.String(),
		Name:  user.Name,
		Email: user.Email,
	})
}

// updateProfile updates the current user's name and email
// @Summary Update user profile
// @Description Update the current user's display name and email
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.UpdateProfileRequest true "Profile update payload"
// @Success 200 {object} dto.UserProfileResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 409 {object} dto.ErrorResponse "Email already in use"
// @Router /api/users/me [put]
func (h *UserHandler) updateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		utils.WriteErrorResponse(w, http.StatusUnauthorized, "Unauthorized", "User not authenticated")
		return
	}

	var req dto.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}
	if req.Name == "" || req.Email == "" {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Missing required fields", "Name and email are required")
		return
	}

	currentEmail, _ := middleware.EmailFromContext(r.Context())
	if req.Email != currentEmail {
		taken, err := h.users.EmailTaken(r.Context(), req.Email)
		if err != nil {
			utils.WriteErrorResponse(w, http.StatusInternalServerError, "Internal Server Error", err.Error())
			return
		}
		if taken {
			utils.WriteErrorResponse(w, http.StatusConflict, "Conflict", "The new email is already used by another account")
			return
		}
	}

	user, err := h.users.UpdateProfile(r.Context(), userID, req.Name, req.Email)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrDuplicateEmail):
			utils.WriteErrorResponse(w, http.StatusConflict, "Conflict", "The new email is already used by another account")
		case errors.Is(err, store.ErrNotFound):
			utils.WriteErrorResponse(w, http.StatusNotFound, "User not found", "No account for the authenticated user")
		default:
			utils.WriteErrorResponse(w, http.StatusInternalServerError, "Internal Server Error", err.Error())
		}
		return
	}

	h.logger.Info("profile updated", "user_id", user.ID)

	utils.WriteJSONResponse(w, http.StatusOK, dto.UserProfileResponse{
		ID:    user.ID.String(),
		Name:  user.Name,
		Email: user.Email,
	})
}

// SavedRecipes dispatches /api/users/me/saved-recipes and
// /api/users/me/saved-recipes/{id}
func (h *UserHandler) SavedRecipes(w http.ResponseWriter, r *http.Request) {
	suffix := strings.Trim(strings.TrimPrefix(r.URL.Path, savedRecipesPath), "/")

	switch {
	case suffix == "" && r.Method == http.MethodGet:
		h.listSavedRecipes(w, r)
	case suffix != "" && r.Method == http.MethodDelete:
		h.deleteSavedRecipe(w, r, suffix)
	default:
		utils.WriteErrorResponse(w, http.StatusMethodNotAllowed, "Method Not Allowed", "unsupported method for this route")
	}
}

// listSavedRecipes returns the current user's saved recipes
// @Summary List saved recipes
// @Description List the recipes saved by the current user, most recent first
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.SavedRecipeItem
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Router /api/users/me/saved-recipes [get]
func (h *UserHandler) listSavedRecipes(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		utils.WriteErrorResponse(w, http.StatusUnauthorized, "Unauthorized", "User not authenticated")
		return
	}

	rows, err := h.saved.ListByUser(r.Context(), userID)
	if err != nil {
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Internal Server Error", err.Error())
		return
	}

	items := make([]dto.SavedRecipeItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, dto.SavedRecipeItem{
			ID:         row.ID.String(),
			RecipeID:   row.RecipeID.String(),
			Title:      row.Title,
			Difficulty: row.Difficulty,
			SavedAt:    row.SavedAt.UTC().Format(time.RFC3339),
		})
	}

	utils.WriteJSONResponse(w, http.StatusOK, items)
}

// deleteSavedRecipe removes one of the current user's saved-recipe links
// @Summary Delete a saved recipe
// @Description Remove a saved-recipe link owned by the current user
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path string true "Saved recipe link id"
// @Success 200 {object} dto.MessageResponse
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Link owned by another user"
// @Failure 404 {object} dto.ErrorResponse "Link not found"
// @Router /api/users/me/saved-recipes/{id} [delete]
func (h *UserHandler) deleteSavedRecipe(w http.ResponseWriter, r *http.Request, rawID string) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		utils.WriteErrorResponse(w, http.StatusUnauthorized, "Unauthorized", "User not authenticated")
		return
	}

	linkID, err := uuid.Parse(rawID)
	if err != nil {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Invalid id", "Saved recipe id must be a UUID")
		return
	}

	link, err := h.saved.GetByID(r.Context(), linkID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			utils.WriteErrorResponse(w, http.StatusNotFound, "Not Found", "Saved recipe not found")
			return
		}
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Internal Server Error", err.Error())
		return
	}

	// Ownership check before deletion
	if link.UserID != userID {
		utils.WriteErrorResponse(w, http.StatusForbidden, "Forbidden", "This saved recipe does not belong to the logged-in user")
		return
	}

	if err := h.saved.Delete(r.Context(), linkID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			utils.WriteErrorResponse(w, http.StatusNotFound, "Not Found", "Saved recipe not found")
			return
		}
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Internal Server Error", err.Error())
		return
	}

	h.logger.Info("saved recipe deleted", "user_id", userID, "link_id", linkID)

	utils.WriteJSONResponse(w, http.StatusOK, dto.MessageResponse{Message: "Saved recipe removed successfully."})
}
