package ai

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"bitewise-api/internal/config"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

const sampleRecipeJSON = `{
	"title": "Simple Pancakes",
	"prepTime": "20 minutes",
	"servings": 4,
	"difficulty": "Easy",
	"ingredients": ["2 eggs", "1 cup flour", "1 cup milk"],
	"steps": ["Whisk everything", "Fry in a hot pan"],
	"tips": ["Rest the batter"],
	"nutrition": {"calories": 250, "proteinGrams": 8, "fatGrams": 6, "carbsGrams": 38}
}`

func chatEnvelope(content string) string {
	env := map[string]any{
		"choices": []map[string]any{
			{"message": map[string]any{"content": content}},
		},
	}
	encoded, _ := json.Marshal(env)
	return string(encoded)
}

func newOpenAIForTest(t *testing.T, handler http.HandlerFunc) *OpenAIClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewOpenAIClient(config.OpenAIConfig{
		APIKey:      "test-key",
		APIURL:      srv.URL,
		Model:       "gpt-4-turbo",
		ImageAPIURL: srv.URL,
		ImageModel:  "dall-e-3",
	}, testLogger())
}

func TestOpenAIGenerateRecipe_Success(t *testing.T) {
	t.Parallel()

	var gotAuth string
	var gotReq openAIChatRequest
	client := newOpenAIForTest(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decode request: %v", err)
		}
		io.WriteString(w, chatEnvelope(sampleRecipeJSON))
	})

	recipe, err := client.GenerateRecipe(context.Background(), []string{"egg", "flour", "milk"})
	if err != nil {
		t.Fatalf("GenerateRecipe error: %v", err)
	}

	if gotAuth != "Bearer test-key" {
		t.Errorf("unexpected auth header: %q", gotAuth)
	}
	if gotReq.Model != "gpt-4-turbo" {
		t.Errorf("unexpected model: %q", gotReq.Model)
	}
	if gotReq.ResponseFormat.Type != "json_object" {
		t.Errorf("unexpected response format: %q", gotReq.ResponseFormat.Type)
	}
	if len(gotReq.Messages) != 1 || !strings.Contains(gotReq.Messages[0].Content, "egg, flour, milk") {
		t.Errorf("prompt does not list the ingredients: %+v", gotReq.Messages)
	}

	if recipe.Title != "Simple Pancakes" {
		t.Errorf("unexpected title: %q", recipe.Title)
	}
	if recipe.Servings != 4 {
		t.Errorf("unexpected servings: %d", recipe.Servings)
	}
	if recipe.Nutrition == nil || recipe.Nutrition.Calories != 250 {
		t.Errorf("unexpected nutrition: %+v", recipe.Nutrition)
	}
}

func TestOpenAIGenerateRecipe_MissingNutritionBecomesZero(t *testing.T) {
	t.Parallel()

	content := `{"title": "Plain Rice", "servings": 2, "ingredients": ["rice"], "steps": ["boil"]}`
	client := newOpenAIForTest(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, chatEnvelope(content))
	})

	recipe, err := client.GenerateRecipe(context.Background(), []string{"rice", "water", "salt"})
	if err != nil {
		t.Fatalf("GenerateRecipe error: %v", err)
	}
	if recipe.Nutrition == nil {
		t.Fatalf("expected zero-value nutrition, got nil")
	}
}

func TestOpenAIGenerateRecipe_NoKey(t *testing.T) {
	t.Parallel()

	client := NewOpenAIClient(config.OpenAIConfig{APIKey: "  "}, testLogger())
	if client.Available() {
		t.Fatalf("blank key should not be available")
	}

	_, err := client.GenerateRecipe(context.Background(), []string{"a", "b", "c"})
	if !errors.Is(err, ErrProviderUnavailable) {
		t.Fatalf("want ErrProviderUnavailable, got %v", err)
	}
}

func TestOpenAIGenerateRecipe_UpstreamError(t *testing.T) {
	t.Parallel()

	client := newOpenAIForTest(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		io.WriteString(w, `{"error": {"message": "rate limited"}}`)
	})

	_, err := client.GenerateRecipe(context.Background(), []string{"a", "b", "c"})

	var provErr *ProviderError
	if !errors.As(err, &provErr) {
		t.Fatalf("want ProviderError, got %v", err)
	}
	if provErr.Provider != "openai" || provErr.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("unexpected provider error: %+v", provErr)
	}
	if !strings.Contains(provErr.Body, "rate limited") {
		t.Fatalf("upstream body not preserved: %q", provErr.Body)
	}
}

func TestOpenAIGenerateRecipe_NoChoices(t *testing.T) {
	t.Parallel()

	client := newOpenAIForTest(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"choices": []}`)
	})

	_, err := client.GenerateRecipe(context.Background(), []string{"a", "b", "c"})

	var malformed *MalformedResponseError
	if !errors.As(err, &malformed) {
		t.Fatalf("want MalformedResponseError, got %v", err)
	}
}

func TestOpenAIGenerateRecipe_ContentNotJSON(t *testing.T) {
	t.Parallel()

	client := newOpenAIForTest(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, chatEnvelope("sorry, I cannot do that"))
	})

	_, err := client.GenerateRecipe(context.Background(), []string{"a", "b", "c"})

	var malformed *MalformedResponseError
	if !errors.As(err, &malformed) {
		t.Fatalf("want MalformedResponseError, got %v", err)
	}
}

func TestOpenAIModifyRecipe_PromptCarriesOriginal(t *testing.T) {
	t.Parallel()

	var gotReq openAIChatRequest
	client := newOpenAIForTest(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&gotReq)
		io.WriteString(w, chatEnvelope(sampleRecipeJSON))
	})

	_, err := client.ModifyRecipe(context.Background(), sampleRecipeJSON, "make it vegan")
	if err != nil {
		t.Fatalf("ModifyRecipe error: %v", err)
	}

	prompt := gotReq.Messages[0].Content
	if !strings.Contains(prompt, "make it vegan") {
		t.Errorf("prompt does not carry the instruction")
	}
	if !strings.Contains(prompt, "Simple Pancakes") {
		t.Errorf("prompt does not carry the original recipe")
	}
}

func TestOpenAIGenerateImage_Success(t *testing.T) {
	t.Parallel()

	var gotReq openAIImageRequest
	client := newOpenAIForTest(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&gotReq)
		io.WriteString(w, `{"data": [{"b64_json": "aGVsbG8="}]}`)
	})

	image := client.GenerateImage(context.Background(), "Simple Pancakes")
	if image != "data:image/png;base64,aGVsbG8=" {
		t.Fatalf("unexpected image: %q", image)
	}
	if gotReq.Model != "dall-e-3" || gotReq.ResponseFormat != "b64_json" || gotReq.N != 1 {
		t.Fatalf("unexpected image request: %+v", gotReq)
	}
	if !strings.Contains(gotReq.Prompt, "Simple Pancakes") {
		t.Fatalf("image prompt does not mention the recipe title")
	}
}

// Image generation failures are swallowed: the recipe ships without a photo.
func TestOpenAIGenerateImage_FailuresReturnEmpty(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "upstream error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadRequest)
				io.WriteString(w, `{"error": {"message": "bad prompt"}}`)
			},
		},
		{
			name: "empty data",
			handler: func(w http.ResponseWriter, r *http.Request) {
				io.WriteString(w, `{"data": []}`)
			},
		},
		{
			name: "not JSON",
			handler: func(w http.ResponseWriter, r *http.Request) {
				io.WriteString(w, "<html>oops</html>")
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			client := newOpenAIForTest(t, tc.handler)
			if image := client.GenerateImage(context.Background(), "Anything"); image != "" {
				t.Fatalf("expected empty image, got %q", image)
			}
		})
	}
}

func TestOpenAIGenerateImage_NoKey(t *testing.T) {
	t.Parallel()

	client := NewOpenAIClient(config.OpenAIConfig{}, testLogger())
	if image := client.GenerateImage(context.Background(), "Anything"); image != "" {
		t.Fatalf("expected empty image without a key, got %q", image)
	}
}
