package handlers

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"bitewise-api/internal/config"
	"bitewise-api/internal/dto"
	"bitewise-api/internal/middleware"
	"bitewise-api/internal/models"
	"bitewise-api/internal/store"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testJWTConfig() *config.JWTConfig {
	return &config.JWTConfig{Secret: "test-secret", AccessTokenTTL: time.Hour}
}

// fakeUserStore is an in-memory UserStore
type fakeUserStore struct {
	users     map[uuid.UUID]*models.User
	createErr error
	updateErr error
}

func newFakeUserStore(users ...*models.User) *fakeUserStore {
	f := &fakeUserStore{users: map[uuid.UUID]*models.User{}}
	for _, u := range users {
		f.users[u.ID] = u
	}
	return f
}

func (f *fakeUserStore) Create(_ context.Context, user *models.User) error {
	if f.createErr != nil {
		return f.createErr
	}
	for _, existing := range f.users {
		if existing.Email == user.Email {
			return store.ErrDuplicateEmail
		}
	}
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserStore) GetByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, store.ErrNotFound
}

func (f *fakeUserStore) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, store.ErrNotFound
}

func (f *fakeUserStore) EmailTaken(_ context.Context, email string) (bool, error) {
	_, err := f.GetByEmail(context.Background(), email)
	return err == nil, nil
}

func (f *fakeUserStore) UpdateProfile(_ context.Context, id uuid.UUID, name, email string) (*models.User, error) {
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	u, ok := f.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	u.Name = name
	u.Email = email
	u.UpdatedAt = time.Now()
	return u, nil
}

// fakeSavedStore is an in-memory SavedRecipeStore
type fakeSavedStore struct {
	links map[uuid.UUID]*models.SavedRecipe
	rows  []store.SavedRecipeRow
}

func newFakeSavedStore() *fakeSavedStore {
	return &fakeSavedStore{links: map[uuid.UUID]*models.SavedRecipe{}}
}

func (f *fakeSavedStore) Create(_ context.Context, link *models.SavedRecipe) error {
	f.links[link.ID] = link
	return nil
}

func (f *fakeSavedStore) ListByUser(_ context.Context, userID uuid.UUID) ([]store.SavedRecipeRow, error) {
	return f.rows, nil
}

func (f *fakeSavedStore) GetByID(_ context.Context, id uuid.UUID) (*models.SavedRecipe, error) {
	if link, ok := f.links[id]; ok {
		return link, nil
	}
	return nil, store.ErrNotFound
}

func (f *fakeSavedStore) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := f.links[id]; !ok {
		return store.ErrNotFound
	}
	delete(f.links, id)
	return nil
}

// fakeRecipeStore records created recipe rows
type fakeRecipeStore struct {
	created []*models.Recipe
	err     error
}

func (f *fakeRecipeStore) Create(_ context.Context, recipe *models.Recipe) error {
	if f.err != nil {
		return f.err
	}
	f.created = append(f.created, recipe)
	return nil
}

// fakeGenerator records the arguments of the last call
type fakeGenerator struct {
	recipe      *dto.RecipeResponse
	err         error
	gotModel    string
	gotIngr     []string
	gotOriginal string
	gotInstr    string
}

func (f *fakeGenerator) Generate(_ context.Context, ingredients []string, model string) (*dto.RecipeResponse, error) {
	f.gotIngr = ingredients
	f.gotModel = model
	return f.recipe, f.err
}

func (f *fakeGenerator) Modify(_ context.Context, originalRecipeJSON, instruction, model string) (*dto.RecipeResponse, error) {
	f.gotOriginal = originalRecipeJSON
	f.gotInstr = instruction
	f.gotModel = model
	return f.recipe, f.err
}

// serveAs runs the request through the real auth middleware with a token for
// the given user before it reaches the handler.
func serveAs(t *testing.T, handler http.HandlerFunc, users middleware.UserLookup, user *models.User, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()

	cfg := testJWTConfig()
	tok, err := middleware.GenerateToken(user.ID, user.Email, cfg)
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}
	req.Header.Set("Authorization", "Bearer "+tok)

	rec := httptest.NewRecorder()
	middleware.Authenticate(handler, cfg, users, testLogger())(rec, req)
	return rec
}
