// Package inbound defines the interfaces for inbound ports: the use
// cases the HTTP layer drives.
package inbound

import (
	"context"

	"github.com/mealcraft/v1/internal/domain/mealplan"
	"github.com/mealcraft/v1/internal/ports/outbound"
)

// Provenance identifies which stage of the fallback chain satisfied a
// request.
type Provenance string

const (
	ProvenancePrimary   Provenance = "primary"
	ProvenanceSecondary Provenance = "secondary"
	ProvenanceFallback  Provenance = "fallback"
)

// RecommendCommand is a normalized recommendation request.
type RecommendCommand struct {
	OwnerID     int
	Ingredients []string
	Diet        mealplan.Diet
	MealType    mealplan.MealType
}

// Recommendation is the result of a recommendation request: the
// persisted recipes plus the stage that produced them.
type Recommendation struct {
	Recipes  []mealplan.Recipe `json:"recipes"`
	Provider Provenance        `json:"provider"`
}

// ScanResult is the outcome of an image scan: accepted labels and the
// ingredient records created from them.
type ScanResult struct {
	Ingredients []string              `json:"ingredients"`
	Added       []mealplan.Ingredient `json:"added"`
	Provider    Provenance            `json:"provider"`
}

// ServiceInfo reports which providers are configured. The wire shape
// nests the flags under a services key.
type ServiceInfo struct {
	Services ServiceAvailability `json:"services"`
}

// ServiceAvailability holds the per-provider credential flags.
type ServiceAvailability struct {
	PrimaryAvailable   bool `json:"primaryAvailable"`
	SecondaryAvailable bool `json:"secondaryAvailable"`
}

// RecommendationService is the orchestration use-case surface.
type RecommendationService interface {
	// Recommend never fails for provider-side reasons; the only error
	// path is input validation.
	Recommend(ctx context.Context, cmd RecommendCommand) (*Recommendation, error)

	// ScanImage fails on invalid payloads and on provider failure;
	// there is no fallback catalog for this path.
	ScanImage(ctx context.Context, ownerID int, imageBase64 string) (*ScanResult, error)

	// AnalyzeRecipe falls back to a fixed-shape static analysis when
	// every provider fails.
	AnalyzeRecipe(ctx context.Context, title string, ingredients []string) (*outbound.RecipeAnalysis, error)

	// Info reports provider credential presence.
	Info(ctx context.Context) ServiceInfo
}
