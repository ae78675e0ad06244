package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mealcraft/v1/internal/domain/mealplan"
	"github.com/mealcraft/v1/internal/infrastructure/persistence/memory"
	"github.com/mealcraft/v1/internal/ports/inbound"
	"github.com/mealcraft/v1/internal/ports/outbound"
	apperrors "github.com/mealcraft/v1/pkg/errors"
)

// stubService is a canned RecommendationService for handler tests; the
// orchestrator has its own tests.
type stubService struct {
	recommendation *inbound.Recommendation
	scanResult     *inbound.ScanResult
	analysis       *outbound.RecipeAnalysis
	info           inbound.ServiceInfo
	err            error
}

func (s *stubService) Recommend(_ context.Context, _ inbound.RecommendCommand) (*inbound.Recommendation, error) {
	return s.recommendation, s.err
}

func (s *stubService) ScanImage(_ context.Context, _ int, _ string) (*inbound.ScanResult, error) {
	return s.scanResult, s.err
}

func (s *stubService) AnalyzeRecipe(_ context.Context, _ string, _ []string) (*outbound.RecipeAnalysis, error) {
	return s.analysis, s.err
}

func (s *stubService) Info(_ context.Context) inbound.ServiceInfo {
	return s.info
}

type testEnv struct {
	store   *memory.Store
	service *stubService
	router  chi.Router
	ownerID int
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store := memory.NewSeededStore()
	owner, err := store.GetUserByUsername(context.Background(), "alex")
	require.NoError(t, err)
	require.NotNil(t, owner)

	service := &stubService{}
	h := New(store, service, zap.NewNop(), owner.ID)

	r := chi.NewRouter()
	r.Route("/api/v1", func(api chi.Router) {
		api.Get("/ingredients", h.ListIngredients)
		api.Post("/ingredients", h.CreateIngredient)
		api.Delete("/ingredients/{id}", h.DeleteIngredient)
		api.Get("/recipes", h.ListRecipes)
		api.Get("/recipes/{id}", h.GetRecipe)
		api.Patch("/recipes/{id}/save", h.SaveRecipe)
		api.Get("/grocery-items", h.ListGroceryItems)
		api.Post("/grocery-items", h.CreateGroceryItem)
		api.Patch("/grocery-items/{id}/toggle", h.ToggleGroceryItem)
		api.Delete("/grocery-items/{id}", h.DeleteGroceryItem)
		api.Get("/nutrition", h.GetNutrition)
		api.Post("/nutrition", h.UpsertNutrition)
		api.Post("/recipe-recommendations", h.RecommendRecipes)
		api.Post("/scan-ingredients", h.ScanIngredients)
		api.Post("/recipe-analysis", h.AnalyzeRecipe)
		api.Get("/service-info", h.ServiceInfo)
	})

	return &testEnv{store: store, service: service, router: r, ownerID: owner.ID}
}

func (e *testEnv) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decodeList[T any](t *testing.T, rec *httptest.ResponseRecorder) []T {
	t.Helper()
	var out []T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&out))
	return out
}

func TestIngredientEndpoints(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/v1/ingredients", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	seeded := decodeList[mealplan.Ingredient](t, rec)
	assert.Len(t, seeded, 5)

	rec = env.do(t, http.MethodPost, "/api/v1/ingredients", map[string]string{"name": "Kale"})
	require.Equal(t, http.StatusCreated, rec.Code)
	var created mealplan.Ingredient
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&created))
	assert.Equal(t, "Kale", created.Name)
	assert.Equal(t, env.ownerID, created.OwnerID)

	rec = env.do(t, http.MethodGet, "/api/v1/ingredients", nil)
	assert.Len(t, decodeList[mealplan.Ingredient](t, rec), 6)

	// Missing name fails validation.
	rec = env.do(t, http.MethodPost, "/api/v1/ingredients", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Deletes are idempotent, including for unknown ids.
	rec = env.do(t, http.MethodDelete, fmt.Sprintf("/api/v1/ingredients/%d", created.ID), nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = env.do(t, http.MethodDelete, fmt.Sprintf("/api/v1/ingredients/%d", created.ID), nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = env.do(t, http.MethodDelete, "/api/v1/ingredients/9999", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = env.do(t, http.MethodDelete, "/api/v1/ingredients/not-a-number", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRecipeEndpoints(t *testing.T) {
	env := newTestEnv(t)

	recipe, err := env.store.AddRecipe(context.Background(), mealplan.Recipe{
		Title:    "Stuffed Peppers",
		MealType: mealplan.MealDinner,
	})
	require.NoError(t, err)

	rec := env.do(t, http.MethodGet, "/api/v1/recipes", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeList[mealplan.Recipe](t, rec), 1)

	rec = env.do(t, http.MethodGet, fmt.Sprintf("/api/v1/recipes/%d", recipe.ID), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/v1/recipes/9999", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// Saving is a bodyless toggle; calling twice round-trips the flag.
	rec = env.do(t, http.MethodPatch, fmt.Sprintf("/api/v1/recipes/%d/save", recipe.ID), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var saved mealplan.Recipe
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&saved))
	assert.True(t, saved.Saved)
	assert.Equal(t, "Stuffed Peppers", saved.Title)

	rec = env.do(t, http.MethodPatch, fmt.Sprintf("/api/v1/recipes/%d/save", recipe.ID), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&saved))
	assert.False(t, saved.Saved)

	rec = env.do(t, http.MethodPatch, "/api/v1/recipes/9999/save", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGroceryEndpoints(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/v1/grocery-items", map[string]string{"name": "Brown rice (2 lb)"})
	require.Equal(t, http.StatusCreated, rec.Code)
	var created mealplan.GroceryItem
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&created))
	assert.Equal(t, mealplan.CategoryGrain, created.Category)
	assert.False(t, created.Completed)

	rec = env.do(t, http.MethodPatch, fmt.Sprintf("/api/v1/grocery-items/%d/toggle", created.ID), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var toggled mealplan.GroceryItem
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&toggled))
	assert.True(t, toggled.Completed)

	rec = env.do(t, http.MethodPatch, fmt.Sprintf("/api/v1/grocery-items/%d/toggle", created.ID), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&toggled))
	assert.False(t, toggled.Completed)

	rec = env.do(t, http.MethodPatch, "/api/v1/grocery-items/9999/toggle", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(t, http.MethodDelete, fmt.Sprintf("/api/v1/grocery-items/%d", created.ID), nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = env.do(t, http.MethodDelete, "/api/v1/grocery-items/9999", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestNutritionEndpoints(t *testing.T) {
	env := newTestEnv(t)
	today := time.Now().Format("2006-01-02")

	// The seed includes today's snapshot.
	rec := env.do(t, http.MethodGet, "/api/v1/nutrition", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var snapshot mealplan.NutritionSnapshot
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&snapshot))
	assert.Equal(t, today, snapshot.Date)
	assert.Equal(t, 1500, snapshot.Calories)

	// A date with no data yields a zeroed snapshot with default goals.
	rec = env.do(t, http.MethodGet, "/api/v1/nutrition?date=2026-01-15", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&snapshot))
	assert.Zero(t, snapshot.Calories)
	assert.Equal(t, mealplan.DefaultCaloriesGoal, snapshot.CaloriesGoal)

	rec = env.do(t, http.MethodGet, "/api/v1/nutrition?date=15-01-2026", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Posting twice for one date keeps a single row; the second write
	// wins.
	payload := map[string]interface{}{
		"date": "2026-01-15", "calories": 900, "protein": 40,
		"carbs": 80, "fat": 20, "caloriesGoal": 2000,
		"proteinGoal": 90, "carbsGoal": 200, "fatGoal": 60,
	}
	rec = env.do(t, http.MethodPost, "/api/v1/nutrition", payload)
	require.Equal(t, http.StatusCreated, rec.Code)
	var first mealplan.NutritionSnapshot
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&first))

	payload["calories"] = 1400
	rec = env.do(t, http.MethodPost, "/api/v1/nutrition", payload)
	require.Equal(t, http.StatusCreated, rec.Code)
	var second mealplan.NutritionSnapshot
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&second))
	assert.Equal(t, first.ID, second.ID)

	rec = env.do(t, http.MethodGet, "/api/v1/nutrition?date=2026-01-15", nil)
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&snapshot))
	assert.Equal(t, 1400, snapshot.Calories)

	rec = env.do(t, http.MethodPost, "/api/v1/nutrition", map[string]interface{}{"calories": 100})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRecommendationEndpoint(t *testing.T) {
	env := newTestEnv(t)
	env.service.recommendation = &inbound.Recommendation{
		Recipes: []mealplan.Recipe{
			{ID: 1, Title: "Pantry Pasta", MealType: mealplan.MealDinner},
		},
		Provider: inbound.ProvenancePrimary,
	}

	rec := env.do(t, http.MethodPost, "/api/v1/recipe-recommendations", map[string]interface{}{
		"ingredients": []string{"Pasta", "Garlic"},
		"diet":        "vegetarian",
		"mealType":    "dinner",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var result inbound.Recommendation
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&result))
	assert.Equal(t, inbound.ProvenancePrimary, result.Provider)
	require.Len(t, result.Recipes, 1)
	assert.Equal(t, "Pantry Pasta", result.Recipes[0].Title)

	// Missing ingredients list fails validation before the service.
	rec = env.do(t, http.MethodPost, "/api/v1/recipe-recommendations", map[string]interface{}{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/v1/recipe-recommendations", map[string]interface{}{
		"ingredients": []string{},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestScanEndpoint(t *testing.T) {
	env := newTestEnv(t)
	env.service.scanResult = &inbound.ScanResult{
		Ingredients: []string{"Tomato"},
		Added:       []mealplan.Ingredient{{ID: 10, Name: "Tomato", OwnerID: env.ownerID}},
		Provider:    inbound.ProvenancePrimary,
	}

	rec := env.do(t, http.MethodPost, "/api/v1/scan-ingredients", map[string]string{"image": "QUJDRA=="})
	require.Equal(t, http.StatusOK, rec.Code)

	var result inbound.ScanResult
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&result))
	assert.Equal(t, []string{"Tomato"}, result.Ingredients)

	rec = env.do(t, http.MethodPost, "/api/v1/scan-ingredients", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Provider failures map onto 500 with the standard envelope.
	env.service.err = apperrors.NewExternalServiceError("nebius", fmt.Errorf("down"))
	env.service.scanResult = nil
	rec = env.do(t, http.MethodPost, "/api/v1/scan-ingredients", map[string]string{"image": "QUJDRA=="})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var envelope apperrors.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&envelope))
	assert.Equal(t, apperrors.CodeExternalServiceError, envelope.Error.Code)
	assert.NotContains(t, envelope.Error.Message, "nebius")
}

func TestAnalysisAndInfoEndpoints(t *testing.T) {
	env := newTestEnv(t)
	env.service.analysis = &outbound.RecipeAnalysis{
		NutritionalInfo: outbound.NutritionalInfo{Calories: 450},
	}
	env.service.info = inbound.ServiceInfo{
		Services: inbound.ServiceAvailability{PrimaryAvailable: true},
	}

	rec := env.do(t, http.MethodPost, "/api/v1/recipe-analysis", map[string]interface{}{
		"title":       "Fried Rice",
		"ingredients": []string{"Rice", "Egg"},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	var analysis outbound.RecipeAnalysis
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&analysis))
	assert.Equal(t, 450, analysis.NutritionalInfo.Calories)

	rec = env.do(t, http.MethodPost, "/api/v1/recipe-analysis", map[string]interface{}{"title": "No Ingredients"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// The availability flags are nested under a services key.
	rec = env.do(t, http.MethodGet, "/api/v1/service-info", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var raw map[string]map[string]bool
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&raw))
	services, ok := raw["services"]
	require.True(t, ok)
	assert.True(t, services["primaryAvailable"])
	assert.False(t, services["secondaryAvailable"])
}
