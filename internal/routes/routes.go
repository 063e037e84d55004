package routes

import (
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"bitewise-api/internal/handlers"
)

// SetupRoutes configures all application routes. protect wraps a handler
// with the authentication middleware; handlers still decide authorization
// themselves.
func SetupRoutes(
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	recipeHandler *handlers.RecipeHandler,
	healthHandler *handlers.HealthHandler,
	protect func(http.HandlerFunc) http.HandlerFunc,
) {
	// Health check routes
	http.HandleFunc("/health", healthHandler.Health)
	http.HandleFunc("/healthz", healthHandler.HealthCheck)
	http.HandleFunc("/readyz", healthHandler.ReadinessCheck)

	// Authentication routes (public)
	http.HandleFunc("/api/auth/register", authHandler.Register)
	http.HandleFunc("/api/auth/login", authHandler.Login)

	// Recipe routes
	http.HandleFunc("/api/recipes/generate", protect(recipeHandler.Generate))
	http.HandleFunc("/api/recipes/modify", protect(recipeHandler.Modify))
	http.HandleFunc("/api/recipes/save", protect(recipeHandler.Save))

	// User routes
	http.HandleFunc("/api/users/me", protect(userHandler.Me))
	http.HandleFunc("/api/users/me/saved-recipes", protect(userHandler.SavedRecipes))
	http.HandleFunc("/api/users/me/saved-recipes/", protect(userHandler.SavedRecipes))

	// Swagger UI
	http.HandleFunc("/swagger/", httpSwagger.WrapHandler)

	// Root route
	http.HandleFunc("/", rootHandler)
}

func rootHandler(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte("BiteWise backend is running."))
}
