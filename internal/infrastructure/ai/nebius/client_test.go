package nebius

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mealcraft/v1/internal/domain/mealplan"
	"github.com/mealcraft/v1/internal/infrastructure/config"
	"github.com/mealcraft/v1/internal/ports/outbound"
	apperrors "github.com/mealcraft/v1/pkg/errors"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := NewClient(config.AIConfig{
		NebiusAPIKey:   "test-key",
		NebiusEndpoint: server.URL,
		RequestTimeout: time.Second,
	}, zap.NewNop())
	return client, server
}

func TestAvailability(t *testing.T) {
	withKey := NewClient(config.AIConfig{NebiusAPIKey: "k", RequestTimeout: time.Second}, zap.NewNop())
	assert.True(t, withKey.Available())
	assert.Equal(t, "nebius", withKey.Name())

	withoutKey := NewClient(config.AIConfig{RequestTimeout: time.Second}, zap.NewNop())
	assert.False(t, withoutKey.Available())

	_, err := withoutKey.RecommendRecipes(context.Background(), []string{"Rice"}, outbound.RecipePreferences{})
	assert.True(t, apperrors.Is(err, apperrors.CodeExternalServiceError))
}

func TestRecommendRecipes(t *testing.T) {
	var gotPath string
	var gotAuth string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")

		inner, _ := json.Marshal(map[string]interface{}{
			"recipes": []map[string]interface{}{
				{
					"title":       "Miso Soup",
					"description": "Light soup with tofu.",
					"prepTime":    10,
					"calories":    120,
					"mealType":    "lunch",
					"ingredients": []string{"Miso paste", "Tofu"},
				},
			},
		})
		json.NewEncoder(w).Encode(map[string]interface{}{
			"output": map[string]string{"text": string(inner)},
		})
	})

	candidates, err := client.RecommendRecipes(context.Background(), []string{"Tofu"}, outbound.RecipePreferences{
		Diet:     mealplan.DietVegetarian,
		MealType: mealplan.MealLunch,
	})

	require.NoError(t, err)
	assert.Equal(t, "/ai/generate", gotPath)
	assert.Equal(t, "Bearer test-key", gotAuth)
	require.Len(t, candidates, 1)
	assert.Equal(t, "Miso Soup", candidates[0].Title)
	assert.Equal(t, 10, candidates[0].PrepTimeMinutes)
	assert.Equal(t, mealplan.MealLunch, candidates[0].MealType)
}

func TestRecommendRecipesWrappedOutput(t *testing.T) {
	// Model output sometimes carries prose around the JSON object.
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		text := "Here you go:\n" + `{"recipes":[{"title":"Plain Rice"}]}` + "\nEnjoy!"
		json.NewEncoder(w).Encode(map[string]interface{}{
			"output": map[string]string{"text": text},
		})
	})

	candidates, err := client.RecommendRecipes(context.Background(), []string{"Rice"}, outbound.RecipePreferences{})

	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, "Plain Rice", candidates[0].Title)
}

func TestRecommendRecipesAPIError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := client.RecommendRecipes(context.Background(), []string{"Rice"}, outbound.RecipePreferences{})
	assert.True(t, apperrors.Is(err, apperrors.CodeExternalServiceError))
}

func TestRecommendRecipesUnparsableOutput(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"output": map[string]string{"text": "no json here"},
		})
	})

	_, err := client.RecommendRecipes(context.Background(), []string{"Rice"}, outbound.RecipePreferences{})
	assert.True(t, apperrors.Is(err, apperrors.CodeExternalServiceError))
}

func TestAnalyzeImage(t *testing.T) {
	var gotRequest visionRequest
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotRequest))
		json.NewEncoder(w).Encode(map[string]interface{}{
			"labels": []map[string]interface{}{
				{"label": "Tomato", "confidence": 0.93},
				{"label": "Table", "confidence": 0.4},
			},
		})
	})

	labels, err := client.AnalyzeImage(context.Background(), "data:image/jpeg;base64,QUJDRA==")

	require.NoError(t, err)
	// The data URL prefix is stripped before upload.
	assert.Equal(t, "QUJDRA==", gotRequest.Image.Content)
	require.Len(t, gotRequest.Features, 2)
	assert.Equal(t, "OBJECT_DETECTION", gotRequest.Features[0].Type)
	require.Len(t, labels, 2)
	assert.Equal(t, "Tomato", labels[0].Label)
	assert.InDelta(t, 0.93, labels[0].Confidence, 1e-9)
}

func TestAnalyzeRecipe(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		inner, _ := json.Marshal(map[string]interface{}{
			"nutritionalInfo": map[string]interface{}{
				"calories": 380,
				"protein":  22,
			},
			"allergens": []string{"soy"},
			"dietaryConsiderations": map[string]interface{}{
				"isVegetarian": true,
			},
		})
		json.NewEncoder(w).Encode(map[string]interface{}{
			"output": map[string]string{"text": string(inner)},
		})
	})

	analysis, err := client.AnalyzeRecipe(context.Background(), "Miso Soup", []string{"Miso paste", "Tofu"})

	require.NoError(t, err)
	assert.Equal(t, 380, analysis.NutritionalInfo.Calories)
	assert.Equal(t, []string{"soy"}, analysis.Allergens)
	assert.True(t, analysis.DietaryConsiderations.IsVegetarian)
}

func TestExtractJSON(t *testing.T) {
	out, err := extractJSON(`prefix {"a":1} suffix`)
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, out)

	_, err = extractJSON("no braces at all")
	assert.Error(t, err)

	_, err = extractJSON("} reversed {")
	assert.Error(t, err)
}
