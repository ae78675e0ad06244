// Package outbound defines the interfaces for outbound ports (driven
// adapters): the AI recipe providers and the record store the
// application depends on.
package outbound

import (
	"context"

	"github.com/mealcraft/v1/internal/domain/mealplan"
)

// RecipePreferences is the normalized preference set passed to every
// provider, independent of any provider's request shape.
type RecipePreferences struct {
	Diet     mealplan.Diet
	MealType mealplan.MealType
}

// RecipeCandidate is the normalized form of one provider-suggested
// recipe before defaults are applied and the record is persisted.
type RecipeCandidate struct {
	Title           string
	Description     string
	Instructions    string
	ImageURL        string
	PrepTimeMinutes int
	Calories        int
	MealType        mealplan.MealType
	Ingredients     []string
}

// ImageLabel is one detected ingredient label from image analysis.
type ImageLabel struct {
	Label      string
	Confidence float64 // in [0, 1]
}

// NutrientAmount is a named nutrient with a human-readable amount.
type NutrientAmount struct {
	Name   string `json:"name"`
	Amount string `json:"amount"`
}

// NutritionalInfo is the macro breakdown of an analyzed recipe.
type NutritionalInfo struct {
	Calories int              `json:"calories"`
	Protein  int              `json:"protein"`
	Carbs    int              `json:"carbs"`
	Fat      int              `json:"fat"`
	Fiber    int              `json:"fiber"`
	Sodium   int              `json:"sodium"`
	Vitamins []NutrientAmount `json:"vitamins"`
	Minerals []NutrientAmount `json:"minerals"`
}

// DietaryConsiderations flags diet compatibility for an analyzed recipe.
type DietaryConsiderations struct {
	IsVegetarian bool   `json:"isVegetarian"`
	IsVegan      bool   `json:"isVegan"`
	IsGlutenFree bool   `json:"isGlutenFree"`
	Notes        string `json:"notes"`
}

// RecipeAnalysis is a nutritional analysis of a single recipe.
type RecipeAnalysis struct {
	NutritionalInfo       NutritionalInfo       `json:"nutritionalInfo"`
	Allergens             []string              `json:"allergens"`
	DietaryConsiderations DietaryConsiderations `json:"dietaryConsiderations"`
}

// RecipeProvider is the two-way contract every AI integration must
// satisfy. The orchestrator depends only on this interface, so
// providers can be added, removed or reordered without touching
// orchestration logic.
type RecipeProvider interface {
	// Name identifies the provider in logs and provenance reporting.
	Name() string

	// Available reports whether the provider is configured with
	// credentials. Unavailable providers are skipped, not errored.
	Available() bool

	// RecommendRecipes asks the provider for recipes that use the
	// given ingredients. It returns an error on network failure,
	// a non-2xx response, or a body without a decodable recipe list.
	RecommendRecipes(ctx context.Context, ingredients []string, prefs RecipePreferences) ([]RecipeCandidate, error)

	// AnalyzeImage detects candidate ingredient labels in a base64
	// image payload.
	AnalyzeImage(ctx context.Context, imageBase64 string) ([]ImageLabel, error)

	// AnalyzeRecipe produces a nutritional analysis for a recipe.
	AnalyzeRecipe(ctx context.Context, title string, ingredients []string) (*RecipeAnalysis, error)
}
