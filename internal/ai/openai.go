package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"bitewise-api/internal/config"
	"bitewise-api/internal/dto"
)

// recipeJSONSchema is the exact structure both text providers are instructed
// to return.
const recipeJSONSchema = `{ "title": "string", "prepTime": "string", "servings": number, "difficulty": "string", ` +
	`"ingredients": ["string"], "steps": ["string"], "tips": ["string"], ` +
	`"nutrition": { "calories": number, "proteinGrams": number, "fatGrams": number, "carbsGrams": number } }`

type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIChatRequest struct {
	Model          string          `json:"model"`
	Messages       []openAIMessage `json:"messages"`
	Temperature    float64         `json:"temperature"`
	ResponseFormat struct {
		Type string `json:"type"`
	} `json:"response_format"`
}

type openAIChatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

type openAIImageRequest struct {
	Model          string `json:"model"`
	Prompt         string `json:"prompt"`
	N              int    `json:"n"`
	Size           string `json:"size"`
	Quality        string `json:"quality"`
	ResponseFormat string `json:"response_format"`
}

type openAIImageResponse struct {
	Data []struct {
		B64JSON string `json:"b64_json"`
	} `json:"data"`
}

// OpenAIClient calls the OpenAI chat-completions API for recipe text and the
// images API for recipe photos.
type OpenAIClient struct {
	cfg    config.OpenAIConfig
	client *http.Client
	logger *slog.Logger
}

// NewOpenAIClient creates a new OpenAIClient instance
func NewOpenAIClient(cfg config.OpenAIConfig, logger *slog.Logger) *OpenAIClient {
	return &OpenAIClient{
		cfg:    cfg,
		client: &http.Client{Timeout: 120 * time.Second},
		logger: logger,
	}
}

// Available reports whether an API key is configured. No live check is made.
func (c *OpenAIClient) Available() bool {
	return strings.TrimSpace(c.cfg.APIKey) != ""
}

// GenerateRecipe asks the model for a complete recipe built from the given
// ingredients
func (c *OpenAIClient) GenerateRecipe(ctx context.Context, ingredients []string) (*dto.RecipeResponse, error) {
	prompt := fmt.Sprintf(
		"You are a chef specialized in recipes. Generate a COMPLETE recipe in JSON with ALL fields filled. "+
			"Main ingredients: %s. Use common seasonings and basic ingredients if needed. "+
			"Return valid JSON with this exact structure: %s",
		strings.Join(ingredients, ", "), recipeJSONSchema)

	return c.executeChat(ctx, prompt)
}

// ModifyRecipe asks the model to rework an existing recipe according to the
// given instruction
func (c *OpenAIClient) ModifyRecipe(ctx context.Context, originalRecipeJSON, instruction string) (*dto.RecipeResponse, error) {
	prompt := fmt.Sprintf(
		"You are an AI chef specialized in recipe modification. Your task is to create a NEW recipe JSON "+
			"that satisfies the modification instruction. Keep the JSON structure IDENTICAL. "+
			"Instruction: '%s'. Original recipe: %s. "+
			"Return valid JSON with this exact structure: %s",
		instruction, originalRecipeJSON, recipeJSONSchema)

	return c.executeChat(ctx, prompt)
}

func (c *OpenAIClient) executeChat(ctx context.Context, prompt string) (*dto.RecipeResponse, error) {
	if !c.Available() {
		return nil, ErrProviderUnavailable
	}

	reqBody := openAIChatRequest{
		Model:       c.cfg.Model,
		Messages:    []openAIMessage{{Role: "user", Content: prompt}},
		Temperature: 0.7,
	}
	reqBody.ResponseFormat.Type = "json_object"

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.APIURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+strings.TrimSpace(c.cfg.APIKey))

	c.logger.Info("calling OpenAI chat API", "model", c.cfg.Model)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &ProviderError{Provider: "openai", Body: err.Error()}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &ProviderError{Provider: "openai", StatusCode: resp.StatusCode, Body: err.Error()}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Error("OpenAI API error", "status", resp.StatusCode, "body", string(body))
		return nil, &ProviderError{Provider: "openai", StatusCode: resp.StatusCode, Body: string(body)}
	}

	if strings.TrimSpace(string(body)) == "" {
		return nil, ErrEmptyResponse
	}

	var chatResp openAIChatResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return nil, &MalformedResponseError{Provider: "openai", Reason: err.Error()}
	}
	if len(chatResp.Choices) == 0 {
		return nil, &MalformedResponseError{Provider: "openai", Reason: "response does not contain choices"}
	}

	content := strings.TrimSpace(chatResp.Choices[0].Message.Content)
	if content == "" {
		return nil, &MalformedResponseError{Provider: "openai", Reason: "empty message content"}
	}

	recipe := &dto.RecipeResponse{}
	if err := json.Unmarshal([]byte(content), recipe); err != nil {
		return nil, &MalformedResponseError{Provider: "openai", Reason: "recipe does not parse: " + err.Error()}
	}

	if recipe.Nutrition == nil {
		recipe.Nutrition = &dto.NutritionFacts{}
	}

	return recipe, nil
}

// GenerateImage produces a photographic image for the recipe title and
// returns it as a data URI. Image generation is best effort: every failure
// returns an empty string instead of an error.
func (c *OpenAIClient) GenerateImage(ctx context.Context, recipeTitle string) string {
	if !c.Available() {
		c.logger.Warn("OpenAI API key not available, skipping image generation")
		return ""
	}

	imagePrompt := fmt.Sprintf(
		"Ultra high-quality, hyper-realistic professional food photography of: %s. "+
			"Shot with a professional DSLR camera with perfect lighting, golden hour illumination, and macro lens. "+
			"Extremely detailed textures, perfect composition, vibrant colors, appetizing presentation. "+
			"Sharp focus on the main dish, blurred background with neutral tones. "+
			"Garnished beautifully, steam rising if applicable, fresh ingredients visible. "+
			"High resolution, studio lighting, professional color grading, Michelin-star restaurant quality. "+
			"No cartoon, no drawings, no watermarks. Pure photorealism with cinematic depth of field.",
		recipeTitle)

	reqBody := openAIImageRequest{
		Model:          c.cfg.ImageModel,
		Prompt:         imagePrompt,
		N:              1,
		Size:           "1024x1024",
		Quality:        "standard",
		ResponseFormat: "b64_json",
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		c.logger.Error("marshal image request failed", "error", err)
		return ""
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.ImageAPIURL, bytes.NewReader(payload))
	if err != nil {
		c.logger.Error("build image request failed", "error", err)
		return ""
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+strings.TrimSpace(c.cfg.APIKey))

	c.logger.Info("calling OpenAI image API", "model", c.cfg.ImageModel, "title", recipeTitle)

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Error("image API transport error", "error", err)
		return ""
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.logger.Error("image API read error", "error", err)
		return ""
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Error("image API error", "status", resp.StatusCode, "body", string(body))
		return ""
	}
	if strings.TrimSpace(string(body)) == "" {
		c.logger.Error("image API returned empty response")
		return ""
	}

	var imageResp openAIImageResponse
	if err := json.Unmarshal(body, &imageResp); err != nil {
		c.logger.Error("image API response does not parse", "error", err)
		return ""
	}
	if len(imageResp.Data) == 0 || imageResp.Data[0].B64JSON == "" {
		c.logger.Error("image API response missing b64_json data")
		return ""
	}

	c.logger.Info("image generated", "title", recipeTitle, "size", len(imageResp.Data[0].B64JSON))
	return "data:image/png;base64," + imageResp.Data[0].B64JSON
}
