package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"bitewise-api/internal/config"
	"bitewise-api/internal/dto"
)

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiRequest struct {
	Contents         []geminiContent `json:"contents"`
	GenerationConfig map[string]any  `json:"generationConfig"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []geminiPart `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	PromptFeedback struct {
		BlockReason string `json:"blockReason"`
	} `json:"promptFeedback"`
}

// geminiRecipeSchema constrains the model output to the recipe shape.
var geminiRecipeSchema = map[string]any{
	"type": "OBJECT",
	"properties": map[string]any{
		"title":       map[string]any{"type": "string"},
		"prepTime":    map[string]any{"type": "string"},
		"servings":    map[string]any{"type": "integer"},
		"difficulty":  map[string]any{"type": "string"},
		"ingredients": map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
		"steps":       map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
		"tips":        map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
		"nutrition": map[string]any{
			"type": "object",
			"properties": map[string]any{
				"calories":     map[string]any{"type": "number"},
				"proteinGrams": map[string]any{"type": "number"},
				"fatGrams":     map[string]any{"type": "number"},
				"carbsGrams":   map[string]any{"type": "number"},
			},
		},
	},
}

// GeminiClient calls the Gemini generateContent API for recipe text.
type GeminiClient struct {
	cfg    config.GeminiConfig
	client *http.Client
	logger *slog.Logger
}

// NewGeminiClient creates a new GeminiClient instance
func NewGeminiClient(cfg config.GeminiConfig, logger *slog.Logger) *GeminiClient {
	return &GeminiClient{
		cfg:    cfg,
		client: &http.Client{Timeout: 120 * time.Second},
		logger: logger,
	}
}

// Available reports whether an API key is configured. No live check is made.
func (c *GeminiClient) Available() bool {
	return strings.TrimSpace(c.cfg.APIKey) != ""
}

// GenerateRecipe asks the model for a complete recipe built from the given
// ingredients
func (c *GeminiClient) GenerateRecipe(ctx context.Context, ingredients []string) (*dto.RecipeResponse, error) {
	prompt := fmt.Sprintf(
		"Generate a complete recipe. It is MANDATORY to fill ALL fields. "+
			"Use ONLY the following main ingredients: %s. Use common seasonings and basic ingredients if needed.",
		strings.Join(ingredients, ", "))

	return c.executeGenerate(ctx, prompt)
}

// ModifyRecipe asks the model to rework an existing recipe according to the
// given instruction. Only the original ingredient list is fed back to the
// model, not the whole recipe.
func (c *GeminiClient) ModifyRecipe(ctx context.Context, originalRecipeJSON, instruction string) (*dto.RecipeResponse, error) {
	originalIngredients := "unable to extract original ingredients"
	var original struct {
		Ingredients []string `json:"ingredients"`
	}
	if err := json.Unmarshal([]byte(originalRecipeJSON), &original); err != nil {
		c.logger.Error("original recipe JSON does not parse", "error", err)
	} else if original.Ingredients != nil {
		encoded, _ := json.Marshal(original.Ingredients)
		originalIngredients = "original ingredient list: " + string(encoded)
	}

	prompt := fmt.Sprintf(
		"You are an AI chef specialized in recipe modification. Your task is to create a NEW recipe JSON "+
			"that satisfies the modification instruction. Keep the JSON structure IDENTICAL. "+
			"Instruction: '%s'. The new recipe must be based on: %s. "+
			"It is MANDATORY to fill ALL fields and to provide the new nutrition analysis.",
		instruction, originalIngredients)

	return c.executeGenerate(ctx, prompt)
}

func (c *GeminiClient) executeGenerate(ctx context.Context, prompt string) (*dto.RecipeResponse, error) {
	if !c.Available() {
		return nil, ErrProviderUnavailable
	}

	// Keys pasted with stray brackets or whitespace are cleaned up rather
	// than rejected.
	cleanKey := strings.NewReplacer("[", "", "]", "", "(", "", ")", "", " ", "").Replace(strings.TrimSpace(c.cfg.APIKey))

	endpoint, err := url.Parse(c.cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse Gemini base URL: %w", err)
	}
	query := endpoint.Query()
	query.Set("key", cleanKey)
	endpoint.RawQuery = query.Encode()

	reqBody := geminiRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
		GenerationConfig: map[string]any{
			"responseMimeType": "application/json",
			"temperature":      0.7,
			"responseSchema":   geminiRecipeSchema,
		},
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint.String(), bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	c.logger.Info("calling Gemini API", "url", strings.Replace(endpoint.String(), cleanKey, "***", 1))

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &ProviderError{Provider: "gemini", Body: err.Error()}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &ProviderError{Provider: "gemini", StatusCode: resp.StatusCode, Body: err.Error()}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Error("Gemini API error", "status", resp.StatusCode, "body", string(body))
		return nil, &ProviderError{Provider: "gemini", StatusCode: resp.StatusCode, Body: string(body)}
	}

	if strings.TrimSpace(string(body)) == "" {
		return nil, ErrEmptyResponse
	}

	var genResp geminiResponse
	if err := json.Unmarshal(body, &genResp); err != nil {
		return nil, &MalformedResponseError{Provider: "gemini", Reason: err.Error()}
	}

	if len(genResp.Candidates) == 0 {
		if genResp.PromptFeedback.BlockReason != "" {
			c.logger.Error("prompt blocked by safety policy", "reason", genResp.PromptFeedback.BlockReason)
			return nil, &MalformedResponseError{Provider: "gemini", Reason: "prompt blocked: " + genResp.PromptFeedback.BlockReason}
		}
		return nil, &MalformedResponseError{Provider: "gemini", Reason: "response does not contain candidates"}
	}

	parts := genResp.Candidates[0].Content.Parts
	if len(parts) == 0 {
		return nil, &MalformedResponseError{Provider: "gemini", Reason: "candidate content has no parts"}
	}

	recipeText := strings.TrimSpace(parts[0].Text)
	if recipeText == "" {
		return nil, &MalformedResponseError{Provider: "gemini", Reason: "empty text in parts"}
	}

	// The model occasionally wraps its JSON in markdown fences despite the
	// response mime type.
	recipeText = strings.ReplaceAll(recipeText, "```json", "")
	recipeText = strings.ReplaceAll(recipeText, "```", "")
	recipeText = strings.TrimSpace(recipeText)

	recipe := &dto.RecipeResponse{}
	if err := json.Unmarshal([]byte(recipeText), recipe); err != nil {
		return nil, &MalformedResponseError{Provider: "gemini", Reason: "recipe does not parse: " + err.Error()}
	}

	if recipe.Nutrition == nil {
		recipe.Nutrition = &dto.NutritionFacts{}
	}

	return recipe, nil
}
