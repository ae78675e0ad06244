// Package openai provides the OpenAI GPT integration for recipe
// generation, vision-based ingredient detection and nutrition
// analysis. It implements the RecipeProvider interface as the
// secondary adapter.
package openai

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

const (
	providerName   = "openai"
	defaultBaseURL = "https://api.openai.com/v1"
)

// Client implements the RecipeProvider interface using the OpenAI API.
type Client struct {
	apiKey  string
	baseURL string
	model   string
	client  *http.Client
	logger  *zap.Logger
}

// NewClient creates a new OpenAI client. Without an API key the client
// reports itself unavailable and every call fails fast.
func NewClient(cfg config.AIConfig, logger *zap.Logger) *Client {
	model := cfg.OpenAIModel
	if model == "" {
		model = "gpt-4o"
	}

	if cfg.OpenAIKey == "" {
		logger.Warn("OpenAI API key not set, secondary provider disabled")
	} else {
		logger.Info("OpenAI client initialized", zap.String("model", model))
	}

	return &Client{
		apiKey:  cfg.OpenAIKey,
		baseURL: defaultBaseURL,
		model:   model,
		client: &http.Client{
			Timeout: cfg.RequestTimeout,
		},
		logger: logger.Named("openai-client"),
	}
}

// Name identifies the provider in logs and provenance reporting.
func (c *Client) Name() string { return providerName }

// Available reports whether credentials are configured.
func (c *Client) Available() bool { return c.apiKey != "" }

// OpenAI API structures
type chatCompletionRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type responseFormat struct {
	Type string `json:"type"`
}

// chatMessage content is either a plain string or, for vision
// requests, a list of content parts.
type chatMessage struct {
	Role    string      `json:"role"`
	Content interface{} `json:"content"`
}

type contentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageURL `json:"image_url,omitempty"`
}

type imageURL struct {
	URL string `json:"url"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}

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

type labelListPayload struct {
	Labels []struct {
		Label      string  `json:"label"`
		Confidence float64 `json:"confidence"`
	} `json:"labels"`
}

// RecommendRecipes asks GPT for recipes that use the given ingredients.
func (c *Client) RecommendRecipes(ctx context.Context, ingredients []string, prefs outbound.RecipePreferences) ([]outbound.RecipeCandidate, error) {
	systemPrompt := "You are a culinary expert who provides recipe recommendations based on " +
		"available ingredients. Create recipes that maximize the ingredients provided and keep " +
		"suggestions practical. Return a JSON object with a 'recipes' array. Each recipe should " +
		"have: title, description, instructions (step by step), imageUrl (leave empty string), " +
		"prepTime (realistic estimate in minutes), calories (realistic estimate per serving), " +
		"mealType, and an ingredients array."

	var user strings.Builder
	fmt.Fprintf(&user, "I have these ingredients: %s.", strings.Join(ingredients, ", "))
	if prefs.Diet != mealplan.DietNone {
		fmt.Fprintf(&user, " Please suggest %s recipes only.", prefs.Diet)
	}
	if prefs.MealType != mealplan.MealAny {
		fmt.Fprintf(&user, " The recipes should be suitable for %s.", prefs.MealType)
	}
	user.WriteString(" Suggest 3 diverse recipes I can make with these ingredients. Provide detailed cooking instructions.")

	content, err := c.chatCompletion(ctx, []chatMessage{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: user.String()},
	})
	if err != nil {
		return nil, err
	}

	payload, err := parseRecipeList(content)
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

	c.logger.Info("OpenAI recommendation successful", zap.Int("recipes", len(candidates)))
	return candidates, nil
}

// AnalyzeImage detects ingredient labels using the vision-capable chat
// endpoint.
func (c *Client) AnalyzeImage(ctx context.Context, imageBase64 string) ([]outbound.ImageLabel, error) {
	dataURL := imageBase64
	if !strings.HasPrefix(dataURL, "data:") {
		dataURL = "data:image/jpeg;base64," + imageBase64
	}

	content, err := c.chatCompletion(ctx, []chatMessage{
		{
			Role: "system",
			Content: "You identify food ingredients in photos. Return a JSON object with a " +
				"'labels' array; each entry has 'label' (ingredient name) and 'confidence' " +
				"(a number between 0 and 1).",
		},
		{
			Role: "user",
			Content: []contentPart{
				{Type: "text", Text: "List the food ingredients visible in this image."},
				{Type: "image_url", ImageURL: &imageURL{URL: dataURL}},
			},
		},
	})
	if err != nil {
		return nil, err
	}

	jsonStr, err := extractJSON(content)
	if err != nil {
		return nil, apperrors.NewExternalServiceError(providerName, err)
	}

	var payload labelListPayload
	if err := json.Unmarshal([]byte(jsonStr), &payload); err != nil {
		return nil, apperrors.NewExternalServiceError(providerName, fmt.Errorf("failed to parse labels: %w", err))
	}

	labels := make([]outbound.ImageLabel, 0, len(payload.Labels))
	for _, l := range payload.Labels {
		labels = append(labels, outbound.ImageLabel{
			Label:      l.Label,
			Confidence: l.Confidence,
		})
	}

	c.logger.Debug("OpenAI image analysis complete", zap.Int("labels", len(labels)))
	return labels, nil
}

// AnalyzeRecipe produces a nutritional analysis for a recipe.
func (c *Client) AnalyzeRecipe(ctx context.Context, title string, ingredients []string) (*outbound.RecipeAnalysis, error) {
	systemPrompt := "You are a nutrition expert who analyzes recipes and provides accurate " +
		"nutritional information. Return detailed nutritional analysis in JSON format with " +
		"nutritionalInfo (calories, protein, carbs, fat, fiber, sodium, vitamins, minerals), " +
		"allergens, and dietaryConsiderations."

	userPrompt := fmt.Sprintf(
		"Analyze this recipe: %q with ingredients: %s. Provide a nutritional breakdown "+
			"including calories, protein, carbs, fat, fiber, sodium, vitamins, and minerals. "+
			"Also include information about potential allergens and dietary considerations. "+
			"Format as JSON.",
		title, strings.Join(ingredients, ", "))

	content, err := c.chatCompletion(ctx, []chatMessage{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: userPrompt},
	})
	if err != nil {
		return nil, err
	}

	jsonStr, err := extractJSON(content)
	if err != nil {
		return nil, apperrors.NewExternalServiceError(providerName, err)
	}

	var analysis outbound.RecipeAnalysis
	if err := json.Unmarshal([]byte(jsonStr), &analysis); err != nil {
		return nil, apperrors.NewExternalServiceError(providerName, fmt.Errorf("failed to parse analysis: %w", err))
	}

	return &analysis, nil
}

// chatCompletion makes a chat completion call and returns the first
// choice's content.
func (c *Client) chatCompletion(ctx context.Context, messages []chatMessage) (string, error) {
	if c.apiKey == "" {
		return "", apperrors.NewExternalServiceError(providerName, fmt.Errorf("no API key configured"))
	}

	reqBody := chatCompletionRequest{
		Model:          c.model,
		Messages:       messages,
		ResponseFormat: &responseFormat{Type: "json_object"},
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", apperrors.NewExternalServiceError(providerName, fmt.Errorf("failed to marshal request: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewBuffer(jsonBody))
	if err != nil {
		return "", apperrors.NewExternalServiceError(providerName, fmt.Errorf("failed to create request: %w", err))
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", apperrors.NewExternalServiceError(providerName, fmt.Errorf("API request failed: %w", err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", apperrors.NewExternalServiceError(providerName, fmt.Errorf("failed to read response: %w", err))
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.Error("OpenAI API error", zap.Int("status", resp.StatusCode))
		return "", apperrors.NewExternalServiceError(providerName, fmt.Errorf("API error %d", resp.StatusCode))
	}

	var chatResp chatCompletionResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return "", apperrors.NewExternalServiceError(providerName, fmt.Errorf("failed to unmarshal response: %w", err))
	}

	if len(chatResp.Choices) == 0 {
		return "", apperrors.NewExternalServiceError(providerName, fmt.Errorf("no response choices returned"))
	}

	c.logger.Debug("OpenAI API call successful",
		zap.Int("prompt_tokens", chatResp.Usage.PromptTokens),
		zap.Int("completion_tokens", chatResp.Usage.CompletionTokens),
	)

	return chatResp.Choices[0].Message.Content, nil
}

// parseRecipeList decodes the recipe list from model output.
func parseRecipeList(content string) (*recipeListPayload, error) {
	jsonStr, err := extractJSON(content)
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
