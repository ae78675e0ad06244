// Package nebius provides the Nebius AI integration: recipe generation
// plus vision-based ingredient detection. It implements the
// RecipeProvider interface as the primary adapter.
package nebius

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/mealcraft/v1/internal/domain/mealplan"
	"github.com/mealcraft/v1/internal/infrastructure/config"
	"github.com/mealcraft/v1/internal/ports/outbound"
	apperrors "github.com/mealcraft/v1/pkg/errors"
	"go.uber.org/zap"
)

const providerName = "nebius"

// Client implements the RecipeProvider interface using the Nebius API.
type Client struct {
	apiKey  string
	baseURL string
	client  *http.Client
	logger  *zap.Logger
}

// NewClient creates a new Nebius client. Without an API key the client
// reports itself unavailable and every call fails fast.
func NewClient(cfg config.AIConfig, logger *zap.Logger) *Client {
	baseURL := cfg.NebiusEndpoint
	if baseURL == "" {
		baseURL = "https://api.nebius.cloud/v1"
	}
	if !strings.HasPrefix(baseURL, "http") {
		baseURL = "https://" + baseURL
	}

	if cfg.NebiusAPIKey == "" {
		logger.Warn("Nebius API key not set, primary provider disabled")
	} else {
		logger.Info("Nebius client initialized", zap.String("base_url", baseURL))
	}

	return &Client{
		apiKey:  cfg.NebiusAPIKey,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client: &http.Client{
			Timeout: cfg.RequestTimeout,
		},
		logger: logger.Named("nebius-client"),
	}
}

// Name identifies the provider in logs and provenance reporting.
func (c *Client) Name() string { return providerName }

// Available reports whether credentials are configured.
func (c *Client) Available() bool { return c.apiKey != "" }

// Nebius API structures
type generateRequest struct {
	Prompt       promptSpec `json:"prompt"`
	OutputFormat string     `json:"outputFormat"`
}

type promptSpec struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Output struct {
		Text string `json:"text"`
	} `json:"output"`
}

type visionRequest struct {
	Image    imageSpec     `json:"image"`
	Features []featureSpec `json:"features"`
}

type imageSpec struct {
	Content string `json:"content"`
}

type featureSpec struct {
	Type string `json:"type"`
}

type visionResponse struct {
	Labels []struct {
		Label      string  `json:"label"`
		Confidence float64 `json:"confidence"`
	} `json:"labels"`
}

// recipeListPayload is the decoded recipe list inside a generation
// response.
type recipeListPayload struct {
	Recipes []rawRecipe `json:"recipes"`
}

type rawRecipe struct {
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Instructions string   `json:"instructions"`
	ImageURL     string   `json:"imageUrl"`
	PrepTime     int      `json:"prepTime"`
	Calories     int      `json:"calories"`
	MealType     string   `json:"mealType"`
	Ingredients  []string `json:"ingredients"`
}

// RecommendRecipes asks Nebius to generate recipes for the ingredients.
func (c *Client) RecommendRecipes(ctx context.Context, ingredients []string, prefs outbound.RecipePreferences) ([]outbound.RecipeCandidate, error) {
	prompt := buildRecommendPrompt(ingredients, prefs)

	body, err := c.post(ctx, "/ai/generate", generateRequest{
		Prompt:       promptSpec{Text: prompt},
		OutputFormat: "JSON",
	})
	if err != nil {
		return nil, err
	}

	var genResp generateResponse
	if err := json.Unmarshal(body, &genResp); err != nil {
		return nil, apperrors.NewExternalServiceError(providerName, fmt.Errorf("failed to unmarshal response: %w", err))
	}

	payload, err := parseRecipeList(genResp.Output.Text)
	if err != nil {
		return nil, apperrors.NewExternalServiceError(providerName, err)
	}

	candidates := make([]outbound.RecipeCandidate, 0, len(payload.Recipes))
	for _, r := range payload.Recipes {
		candidates = append(candidates, outbound.RecipeCandidate{
			Title:           r.Title,
			Description:     r.Description,
			Instructions:    r.Instructions,
			ImageURL:        r.ImageURL,
			PrepTimeMinutes: r.PrepTime,
			Calories:        r.Calories,
			MealType:        mealplan.ParseMealType(r.MealType),
			Ingredients:     r.Ingredients,
		})
	}

	c.logger.Info("Nebius recommendation successful", zap.Int("recipes", len(candidates)))
	return candidates, nil
}

// AnalyzeImage detects ingredient labels in a base64 image payload.
func (c *Client) AnalyzeImage(ctx context.Context, imageBase64 string) ([]outbound.ImageLabel, error) {
	// Strip a data URL prefix if present
	if idx := strings.Index(imageBase64, "base64,"); idx != -1 {
		imageBase64 = imageBase64[idx+len("base64,"):]
	}

	body, err := c.post(ctx, "/vision/analyze", visionRequest{
		Image: imageSpec{Content: imageBase64},
		Features: []featureSpec{
			{Type: "OBJECT_DETECTION"},
			{Type: "LABEL_DETECTION"},
		},
	})
	if err != nil {
		return nil, err
	}

	var visResp visionResponse
	if err := json.Unmarshal(body, &visResp); err != nil {
		return nil, apperrors.NewExternalServiceError(providerName, fmt.Errorf("failed to unmarshal response: %w", err))
	}

	labels := make([]outbound.ImageLabel, 0, len(visResp.Labels))
	for _, l := range visResp.Labels {
		labels = append(labels, outbound.ImageLabel{
			Label:      l.Label,
			Confidence: l.Confidence,
		})
	}

	c.logger.Debug("Nebius image analysis complete", zap.Int("labels", len(labels)))
	return labels, nil
}

// AnalyzeRecipe produces a nutritional analysis for a recipe.
func (c *Client) AnalyzeRecipe(ctx context.Context, title string, ingredients []string) (*outbound.RecipeAnalysis, error) {
	prompt := fmt.Sprintf(
		"Analyze this recipe: %q with ingredients: %s. Provide a nutritional breakdown "+
			"including calories, protein, carbs, fat, fiber, sodium, vitamins, and minerals. "+
			"Also include potential allergens and dietary considerations. Format as JSON.",
		title, strings.Join(ingredients, ", "))

	body, err := c.post(ctx, "/ai/generate", generateRequest{
		Prompt:       promptSpec{Text: prompt},
		OutputFormat: "JSON",
	})
	if err != nil {
		return nil, err
	}

	var genResp generateResponse
	if err := json.Unmarshal(body, &genResp); err != nil {
		return nil, apperrors.NewExternalServiceError(providerName, fmt.Errorf("failed to unmarshal response: %w", err))
	}

	jsonStr, err := extractJSON(genResp.Output.Text)
	if err != nil {
		return nil, apperrors.NewExternalServiceError(providerName, err)
	}

	var analysis outbound.RecipeAnalysis
	if err := json.Unmarshal([]byte(jsonStr), &analysis); err != nil {
		return nil, apperrors.NewExternalServiceError(providerName, fmt.Errorf("failed to parse analysis: %w", err))
	}

	return &analysis, nil
}

// post sends an authenticated JSON request and returns the raw body.
func (c *Client) post(ctx context.Context, path string, payload interface{}) ([]byte, error) {
	if c.apiKey == "" {
		return nil, apperrors.NewExternalServiceError(providerName, fmt.Errorf("no API key configured"))
	}

	jsonBody, err := json.Marshal(payload)
	if err != nil {
		return nil, apperrors.NewExternalServiceError(providerName, fmt.Errorf("failed to marshal request: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewBuffer(jsonBody))
	if err != nil {
		return nil, apperrors.NewExternalServiceError(providerName, fmt.Errorf("failed to create request: %w", err))
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, apperrors.NewExternalServiceError(providerName, fmt.Errorf("API request failed: %w", err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperrors.NewExternalServiceError(providerName, fmt.Errorf("failed to read response: %w", err))
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.Error("Nebius API error",
			zap.String("path", path),
			zap.Int("status", resp.StatusCode))
		return nil, apperrors.NewExternalServiceError(providerName, fmt.Errorf("API error %d", resp.StatusCode))
	}

	return body, nil
}

// buildRecommendPrompt creates the generation prompt.
func buildRecommendPrompt(ingredients []string, prefs outbound.RecipePreferences) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Generate 3 diverse recipes using these ingredients: %s.", strings.Join(ingredients, ", "))
	if prefs.Diet != mealplan.DietNone {
		fmt.Fprintf(&sb, " Suggest %s recipes only.", prefs.Diet)
	}
	if prefs.MealType != mealplan.MealAny {
		fmt.Fprintf(&sb, " The recipes should suit %s.", prefs.MealType)
	}
	sb.WriteString(` Return JSON with a "recipes" array; each recipe has title, description, ` +
		`instructions, imageUrl (empty string), prepTime in minutes, calories per serving, ` +
		`mealType, and an ingredients array.`)
	return sb.String()
}

// parseRecipeList decodes the recipe list from raw model output.
func parseRecipeList(text string) (*recipeListPayload, error) {
	jsonStr, err := extractJSON(text)
	if err != nil {
		return nil, err
	}

	var payload recipeListPayload
	if err := json.Unmarshal([]byte(jsonStr), &payload); err != nil {
		return nil, fmt.Errorf("failed to parse recipe list: %w", err)
	}
	if payload.Recipes == nil {
		return nil, fmt.Errorf("response contains no recipe list")
	}
	return &payload, nil
}

// extractJSON finds the JSON object in model output, which sometimes
// carries extra text around it.
func extractJSON(response string) (string, error) {
	response = strings.TrimSpace(response)

	start := strings.Index(response, "{")
	end := strings.LastIndex(response, "}")
	if start == -1 || end == -1 || end <= start {
		return "", fmt.Errorf("no valid JSON found in response")
	}
	return response[start : end+1], nil
}
