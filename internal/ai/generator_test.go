package ai

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bitewise-api/internal/dto"
)

type fakeTextProvider struct {
	available bool
	recipe    *dto.RecipeResponse
	err       error
	calls     int
}

func (f *fakeTextProvider) Available() bool { return f.available }

func (f *fakeTextProvider) GenerateRecipe(_ context.Context, _ []string) (*dto.RecipeResponse, error) {
	f.calls++
	return f.recipe, f.err
}

func (f *fakeTextProvider) ModifyRecipe(_ context.Context, _, _ string) (*dto.RecipeResponse, error) {
	f.calls++
	return f.recipe, f.err
}

type fakeImageProvider struct {
	image string
	calls int
}

func (f *fakeImageProvider) GenerateImage(_ context.Context, _ string) string {
	f.calls++
	return f.image
}

func gptRecipe() *dto.RecipeResponse {
	return &dto.RecipeResponse{Title: "GPT Omelette", Nutrition: &dto.NutritionFacts{}}
}

func geminiRecipe() *dto.RecipeResponse {
	return &dto.RecipeResponse{Title: "Gemini Omelette", Nutrition: &dto.NutritionFacts{}}
}

func TestGeneratorGenerate_ExplicitGPT(t *testing.T) {
	t.Parallel()

	gpt := &fakeTextProvider{available: true, recipe: gptRecipe()}
	gemini := &fakeTextProvider{available: true, recipe: geminiRecipe()}
	g := NewGenerator(gpt, gemini, &fakeImageProvider{}, testLogger())

	recipe, err := g.Generate(context.Background(), []string{"a", "b", "c"}, ModelGPT)
	require.NoError(t, err)
	assert.Equal(t, "GPT Omelette", recipe.Title)
	assert.Equal(t, 1, gpt.calls)
	assert.Equal(t, 0, gemini.calls)
}

func TestGeneratorGenerate_ExplicitGPTWithoutKeyFallsBack(t *testing.T) {
	t.Parallel()

	gpt := &fakeTextProvider{available: false}
	gemini := &fakeTextProvider{available: true, recipe: geminiRecipe()}
	g := NewGenerator(gpt, gemini, &fakeImageProvider{}, testLogger())

	recipe, err := g.Generate(context.Background(), []string{"a", "b", "c"}, ModelGPT)
	require.NoError(t, err)
	assert.Equal(t, "Gemini Omelette", recipe.Title)
	assert.Equal(t, 0, gpt.calls)
}

func TestGeneratorGenerate_AutoFallsBackOnGPTError(t *testing.T) {
	t.Parallel()

	gpt := &fakeTextProvider{available: true, err: &ProviderError{Provider: "openai", StatusCode: 500}}
	gemini := &fakeTextProvider{available: true, recipe: geminiRecipe()}
	g := NewGenerator(gpt, gemini, &fakeImageProvider{}, testLogger())

	recipe, err := g.Generate(context.Background(), []string{"a", "b", "c"}, ModelAuto)
	require.NoError(t, err)
	assert.Equal(t, "Gemini Omelette", recipe.Title)
	assert.Equal(t, 1, gpt.calls)
	assert.Equal(t, 1, gemini.calls)
}

func TestGeneratorGenerate_AutoPrefersGPT(t *testing.T) {
	t.Parallel()

	gpt := &fakeTextProvider{available: true, recipe: gptRecipe()}
	gemini := &fakeTextProvider{available: true, recipe: geminiRecipe()}
	g := NewGenerator(gpt, gemini, &fakeImageProvider{}, testLogger())

	recipe, err := g.Generate(context.Background(), []string{"a", "b", "c"}, ModelAuto)
	require.NoError(t, err)
	assert.Equal(t, "GPT Omelette", recipe.Title)
	assert.Equal(t, 0, gemini.calls)
}

func TestGeneratorGenerate_UnknownModelUsesGemini(t *testing.T) {
	t.Parallel()

	gpt := &fakeTextProvider{available: true, recipe: gptRecipe()}
	gemini := &fakeTextProvider{available: true, recipe: geminiRecipe()}
	g := NewGenerator(gpt, gemini, &fakeImageProvider{}, testLogger())

	for _, model := range []string{ModelGemini, "", "llama"} {
		recipe, err := g.Generate(context.Background(), []string{"a", "b", "c"}, model)
		require.NoError(t, err)
		assert.Equal(t, "Gemini Omelette", recipe.Title, "model %q", model)
	}
	assert.Equal(t, 0, gpt.calls)
}

func TestGeneratorGenerate_NoProviderConfigured(t *testing.T) {
	t.Parallel()

	g := NewGenerator(&fakeTextProvider{}, &fakeTextProvider{}, &fakeImageProvider{}, testLogger())

	for _, model := range []string{ModelAuto, ModelGPT, ModelGemini} {
		_, err := g.Generate(context.Background(), []string{"a", "b", "c"}, model)
		require.ErrorIs(t, err, ErrProviderUnavailable, "model %q", model)
	}
}

func TestGeneratorGenerate_GeminiErrorSurfaces(t *testing.T) {
	t.Parallel()

	wantErr := &ProviderError{Provider: "gemini", StatusCode: 403}
	gemini := &fakeTextProvider{available: true, err: wantErr}
	g := NewGenerator(&fakeTextProvider{}, gemini, &fakeImageProvider{}, testLogger())

	_, err := g.Generate(context.Background(), []string{"a", "b", "c"}, ModelGemini)

	var provErr *ProviderError
	require.ErrorAs(t, err, &provErr)
	assert.Equal(t, "gemini", provErr.Provider)
}

func TestGeneratorGenerate_AttachesImage(t *testing.T) {
	t.Parallel()

	images := &fakeImageProvider{image: "data:image/png;base64,aGVsbG8="}
	g := NewGenerator(&fakeTextProvider{}, &fakeTextProvider{available: true, recipe: geminiRecipe()}, images, testLogger())

	recipe, err := g.Generate(context.Background(), []string{"a", "b", "c"}, ModelGemini)
	require.NoError(t, err)
	assert.Equal(t, "data:image/png;base64,aGVsbG8=", recipe.Image)
	assert.Equal(t, 1, images.calls)
}

// A missing image never fails the generation.
func TestGeneratorGenerate_MissingImageIsNotAnError(t *testing.T) {
	t.Parallel()

	g := NewGenerator(&fakeTextProvider{}, &fakeTextProvider{available: true, recipe: geminiRecipe()}, &fakeImageProvider{}, testLogger())

	recipe, err := g.Generate(context.Background(), []string{"a", "b", "c"}, ModelGemini)
	require.NoError(t, err)
	assert.Empty(t, recipe.Image)
}

func TestGeneratorModify_DefaultsToGemini(t *testing.T) {
	t.Parallel()

	gpt := &fakeTextProvider{available: true, recipe: gptRecipe()}
	gemini := &fakeTextProvider{available: true, recipe: geminiRecipe()}
	g := NewGenerator(gpt, gemini, &fakeImageProvider{}, testLogger())

	recipe, err := g.Modify(context.Background(), `{"ingredients": ["egg"]}`, "make it vegan", ModelGemini)
	require.NoError(t, err)
	assert.Equal(t, "Gemini Omelette", recipe.Title)
	assert.Equal(t, 0, gpt.calls)
	assert.Equal(t, 1, gemini.calls)
}

func TestGeneratorModify_ErrorSkipsImage(t *testing.T) {
	t.Parallel()

	images := &fakeImageProvider{image: "data:image/png;base64,xxx"}
	gemini := &fakeTextProvider{available: true, err: errors.New("boom")}
	g := NewGenerator(&fakeTextProvider{}, gemini, images, testLogger())

	_, err := g.Modify(context.Background(), "{}", "anything", ModelGemini)
	require.Error(t, err)
	assert.Equal(t, 0, images.calls)
}
