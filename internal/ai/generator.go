package ai

import (
	"context"
	"log/slog"
	"strings"

	"bitewise-api/internal/dto"
)

// Recognized values for the aiModel selector. Anything else routes to Gemini.
const (
	ModelAuto   = "auto"
	ModelGPT    = "gpt"
	ModelGemini = "gemini"
)

// TextProvider is a remote text-generation API able to produce recipes
type TextProvider interface {
	Available() bool
	GenerateRecipe(ctx context.Context, ingredients []string) (*dto.RecipeResponse, error)
	ModifyRecipe(ctx context.Context, originalRecipeJSON, instruction string) (*dto.RecipeResponse, error)
}

// ImageProvider is a remote image-generation API. It reports failures as an
// empty string, never as an error.
type ImageProvider interface {
	GenerateImage(ctx context.Context, recipeTitle string) string
}

// Generator orchestrates the two text providers and the image provider.
//
// Selection policy:
//   - "gpt":  GPT when a key is configured, otherwise fall back to Gemini.
//   - "auto": GPT when configured; any error during the GPT call falls back
//     to Gemini. No GPT key means Gemini directly.
//   - anything else: Gemini.
//
// Availability is purely "is a credential configured", not a live check.
// After a text result the image provider is always attempted; a missing
// image is not an error.
type Generator struct {
	gpt    TextProvider
	gemini TextProvider
	images ImageProvider
	logger *slog.Logger
}

// NewGenerator creates a new Generator instance
func NewGenerator(gpt TextProvider, gemini TextProvider, images ImageProvider, logger *slog.Logger) *Generator {
	return &Generator{gpt: gpt, gemini: gemini, images: images, logger: logger}
}

// Generate produces a recipe from the ingredient list using the selected
// provider
func (g *Generator) Generate(ctx context.Context, ingredients []string, model string) (*dto.RecipeResponse, error) {
	recipe, err := g.run(ctx, model, func(p TextProvider) (*dto.RecipeResponse, error) {
		return p.GenerateRecipe(ctx, ingredients)
	})
	if err != nil {
		return nil, err
	}

	g.attachImage(ctx, recipe)
	return recipe, nil
}

// Modify reworks an existing recipe according to the instruction using the
// selected provider
func (g *Generator) Modify(ctx context.Context, originalRecipeJSON, instruction, model string) (*dto.RecipeResponse, error) {
	recipe, err := g.run(ctx, model, func(p TextProvider) (*dto.RecipeResponse, error) {
		return p.ModifyRecipe(ctx, originalRecipeJSON, instruction)
	})
	if err != nil {
		return nil, err
	}

	g.attachImage(ctx, recipe)
	return recipe, nil
}

func (g *Generator) run(ctx context.Context, model string, call func(TextProvider) (*dto.RecipeResponse, error)) (*dto.RecipeResponse, error) {
	switch strings.ToLower(model) {
	case ModelGPT:
		if !g.gpt.Available() {
			g.logger.Warn("GPT not available, falling back to Gemini")
			return g.callGemini(call)
		}
		g.logger.Info("using GPT model")
		return call(g.gpt)

	case ModelAuto:
		if !g.gpt.Available() {
			g.logger.Info("auto mode: GPT not available, using Gemini")
			return g.callGemini(call)
		}
		g.logger.Info("auto mode: using GPT")
		recipe, err := call(g.gpt)
		if err != nil {
			g.logger.Warn("GPT failed in auto mode, falling back to Gemini", "error", err)
			return g.callGemini(call)
		}
		return recipe, nil

	default:
		g.logger.Info("using Gemini model")
		return g.callGemini(call)
	}
}

func (g *Generator) callGemini(call func(TextProvider) (*dto.RecipeResponse, error)) (*dto.RecipeResponse, error) {
	if !g.gemini.Available() {
		return nil, ErrProviderUnavailable
	}
	return call(g.gemini)
}

func (g *Generator) attachImage(ctx context.Context, recipe *dto.RecipeResponse) {
	image := g.images.GenerateImage(ctx, recipe.Title)
	if image == "" {
		g.logger.Warn("recipe generated without image", "title", recipe.Title)
		return
	}
	recipe.Image = image
}
