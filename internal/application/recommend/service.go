// Package recommend implements the recommendation orchestrator: it
// drives the provider fallback chain, the image-scan pipeline and
// recipe analysis, persisting results through the record store.
package recommend

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mealcraft/v1/internal/domain/mealplan"
	"github.com/mealcraft/v1/internal/ports/inbound"
	"github.com/mealcraft/v1/internal/ports/outbound"
	apperrors "github.com/mealcraft/v1/pkg/errors"
	"go.uber.org/zap"
)

const (
	// Labels at or below this confidence are discarded; the
	// comparison is strictly greater-than.
	confidenceThreshold = 0.7

	// Minimum viable base64 payload length for an image scan.
	minImagePayloadLength = 100

	// Defaults applied to provider candidates with missing fields.
	defaultPrepTimeMinutes = 30
	defaultCalories        = 300
)

// Service orchestrates recipe recommendation across an ordered list of
// providers with a static catalog as the terminal fallback.
type Service struct {
	store     outbound.RecordStore
	providers []outbound.RecipeProvider
	timeout   time.Duration
	logger    *zap.Logger
}

// NewService creates the orchestrator. Providers are tried in the
// given order; position determines the provenance tag.
func NewService(
	store outbound.RecordStore,
	providers []outbound.RecipeProvider,
	timeout time.Duration,
	logger *zap.Logger,
) inbound.RecommendationService {
	return &Service{
		store:     store,
		providers: providers,
		timeout:   timeout,
		logger:    logger.Named("recommend-service"),
	}
}

// provenanceForIndex maps a provider's position to its provenance tag.
func provenanceForIndex(i int) inbound.Provenance {
	if i == 0 {
		return inbound.ProvenancePrimary
	}
	return inbound.ProvenanceSecondary
}

// Recommend runs the fallback chain: each available provider is tried
// at most once, in order, and the static catalog terminates the chain.
// The only caller-visible error path is input validation; provider
// exhaustion cannot fail.
func (s *Service) Recommend(ctx context.Context, cmd inbound.RecommendCommand) (*inbound.Recommendation, error) {
	ingredients := trimNonEmpty(cmd.Ingredients)
	if len(ingredients) == 0 {
		return nil, apperrors.NewValidationError("at least one ingredient is required")
	}

	prefs := outbound.RecipePreferences{
		Diet:     mealplan.ParseDiet(string(cmd.Diet)),
		MealType: mealplan.ParseMealType(string(cmd.MealType)),
	}

	for i, provider := range s.providers {
		if !provider.Available() {
			s.logger.Debug("Skipping unavailable provider", zap.String("provider", provider.Name()))
			continue
		}

		candidates, err := s.callProvider(ctx, provider, ingredients, prefs)
		if err != nil {
			s.logger.Warn("Provider failed, advancing to next stage",
				zap.String("provider", provider.Name()),
				zap.Error(err),
			)
			continue
		}

		recipes, err := s.persistCandidates(ctx, candidates, ingredients)
		if err != nil {
			return nil, err
		}

		provenance := provenanceForIndex(i)
		s.logger.Info("Recommendation satisfied",
			zap.String("provider", provider.Name()),
			zap.String("provenance", string(provenance)),
			zap.Int("recipes", len(recipes)),
		)
		return &inbound.Recommendation{Recipes: recipes, Provider: provenance}, nil
	}

	// Terminal stage: the catalog always yields at least one recipe.
	recipes, err := s.persistCandidates(ctx, catalogForMealType(prefs.MealType), ingredients)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Recommendation satisfied from fallback catalog",
		zap.Int("recipes", len(recipes)))
	return &inbound.Recommendation{Recipes: recipes, Provider: inbound.ProvenanceFallback}, nil
}

// callProvider issues one bounded provider call and shape-validates the
// result. A timeout counts as a provider failure.
func (s *Service) callProvider(
	ctx context.Context,
	provider outbound.RecipeProvider,
	ingredients []string,
	prefs outbound.RecipePreferences,
) ([]outbound.RecipeCandidate, error) {
	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	candidates, err := provider.RecommendRecipes(callCtx, ingredients, prefs)
	if err != nil {
		return nil, err
	}
	if err := validateShape(candidates); err != nil {
		return nil, err
	}
	return candidates, nil
}

// validateShape enforces the normalized result contract: a non-empty
// list where every element carries a title. A violation is treated the
// same as a provider failure.
func validateShape(candidates []outbound.RecipeCandidate) error {
	if len(candidates) == 0 {
		return fmt.Errorf("provider returned an empty recipe list")
	}
	for _, c := range candidates {
		if strings.TrimSpace(c.Title) == "" {
			return fmt.Errorf("provider returned a recipe without a title")
		}
	}
	return nil
}

// persistCandidates writes every candidate as a new recipe record,
// applying defaults for missing optional fields.
func (s *Service) persistCandidates(
	ctx context.Context,
	candidates []outbound.RecipeCandidate,
	requestIngredients []string,
) ([]mealplan.Recipe, error) {
	recipes := make([]mealplan.Recipe, 0, len(candidates))
	for _, c := range candidates {
		recipe := mealplan.Recipe{
			Title:           c.Title,
			Description:     c.Description,
			Instructions:    c.Instructions,
			ImageURL:        c.ImageURL,
			PrepTimeMinutes: c.PrepTimeMinutes,
			Calories:        c.Calories,
			MealType:        c.MealType,
			Ingredients:     c.Ingredients,
		}
		if recipe.PrepTimeMinutes <= 0 {
			recipe.PrepTimeMinutes = defaultPrepTimeMinutes
		}
		if recipe.Calories <= 0 {
			recipe.Calories = defaultCalories
		}
		if recipe.MealType == "" {
			recipe.MealType = mealplan.MealAny
		}
		if len(recipe.Ingredients) == 0 {
			recipe.Ingredients = append([]string(nil), requestIngredients...)
		}

		stored, err := s.store.AddRecipe(ctx, recipe)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to store recipe")
		}
		recipes = append(recipes, stored)
	}
	return recipes, nil
}

// ScanImage runs the image-to-ingredient pipeline. Unlike Recommend,
// provider failure surfaces to the caller; there is no fallback
// catalog for vision.
func (s *Service) ScanImage(ctx context.Context, ownerID int, imageBase64 string) (*inbound.ScanResult, error) {
	if len(imageBase64) < minImagePayloadLength {
		return nil, apperrors.NewValidationError("image payload is missing or too short")
	}

	for i, provider := range s.providers {
		if !provider.Available() {
			continue
		}

		callCtx, cancel := context.WithTimeout(ctx, s.timeout)
		labels, err := provider.AnalyzeImage(callCtx, imageBase64)
		cancel()
		if err != nil {
			s.logger.Error("Image analysis failed",
				zap.String("provider", provider.Name()),
				zap.Error(err),
			)
			return nil, apperrors.NewExternalServiceError(provider.Name(), err)
		}

		result := &inbound.ScanResult{
			Ingredients: []string{},
			Added:       []mealplan.Ingredient{},
			Provider:    provenanceForIndex(i),
		}
		for _, label := range labels {
			if label.Confidence <= confidenceThreshold {
				continue
			}
			stored, err := s.store.AddIngredient(ctx, mealplan.Ingredient{
				Name:    label.Label,
				OwnerID: ownerID,
			})
			if err != nil {
				return nil, apperrors.Wrap(err, "failed to store ingredient")
			}
			result.Ingredients = append(result.Ingredients, label.Label)
			result.Added = append(result.Added, stored)
		}

		s.logger.Info("Image scan complete",
			zap.String("provider", provider.Name()),
			zap.Int("detected", len(labels)),
			zap.Int("accepted", len(result.Ingredients)),
		)
		return result, nil
	}

	return nil, apperrors.NewExternalServiceError("vision", fmt.Errorf("no provider configured"))
}

// AnalyzeRecipe tries each provider in order and falls back to the
// fixed-shape static analysis when all of them fail.
func (s *Service) AnalyzeRecipe(ctx context.Context, title string, ingredients []string) (*outbound.RecipeAnalysis, error) {
	if strings.TrimSpace(title) == "" || len(trimNonEmpty(ingredients)) == 0 {
		return nil, apperrors.NewValidationError("title and ingredients are required")
	}

	for _, provider := range s.providers {
		if !provider.Available() {
			continue
		}

		callCtx, cancel := context.WithTimeout(ctx, s.timeout)
		analysis, err := provider.AnalyzeRecipe(callCtx, title, ingredients)
		cancel()
		if err != nil {
			s.logger.Warn("Recipe analysis failed, advancing to next stage",
				zap.String("provider", provider.Name()),
				zap.Error(err),
			)
			continue
		}
		return analysis, nil
	}

	s.logger.Info("Using static fallback analysis", zap.String("title", title))
	return staticAnalysis(ingredients), nil
}

// Info reports provider credential presence by position.
func (s *Service) Info(ctx context.Context) inbound.ServiceInfo {
	var info inbound.ServiceInfo
	for i, provider := range s.providers {
		switch i {
		case 0:
			info.Services.PrimaryAvailable = provider.Available()
		case 1:
			info.Services.SecondaryAvailable = provider.Available()
		}
	}
	return info
}

// trimNonEmpty drops empty and whitespace-only entries.
func trimNonEmpty(values []string) []string {
	result := make([]string, 0, len(values))
	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
