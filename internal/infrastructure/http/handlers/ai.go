package handlers

import (
	"net/http"

	"github.com/mealcraft/v1/internal/domain/mealplan"
	"github.com/mealcraft/v1/internal/ports/inbound"
)

type recommendRequest struct {
	Ingredients []string `json:"ingredients" validate:"required,min=1"`
	Diet        string   `json:"diet"`
	MealType    string   `json:"mealType"`
}

type scanRequest struct {
	Image string `json:"image" validate:"required"`
}

type analyzeRequest struct {
	Title       string   `json:"title" validate:"required"`
	Ingredients []string `json:"ingredients" validate:"required,min=1"`
}

// RecommendRecipes runs the recommendation chain and returns the
// persisted recipes with their provenance.
func (h *Handlers) RecommendRecipes(w http.ResponseWriter, r *http.Request) {
	var req recommendRequest
	if err := h.decodeAndValidate(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	result, err := h.recommender.Recommend(r.Context(), inbound.RecommendCommand{
		OwnerID:     h.ownerID,
		Ingredients: req.Ingredients,
		Diet:        mealplan.ParseDiet(req.Diet),
		MealType:    mealplan.ParseMealType(req.MealType),
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, result)
}

// ScanIngredients detects ingredients in an uploaded image and adds the
// confident ones to the owner's pantry.
func (h *Handlers) ScanIngredients(w http.ResponseWriter, r *http.Request) {
	var req scanRequest
	if err := h.decodeAndValidate(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	result, err := h.recommender.ScanImage(r.Context(), h.ownerID, req.Image)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, result)
}

// AnalyzeRecipe returns a nutritional analysis for an ad-hoc recipe.
func (h *Handlers) AnalyzeRecipe(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := h.decodeAndValidate(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	analysis, err := h.recommender.AnalyzeRecipe(r.Context(), req.Title, req.Ingredients)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, analysis)
}

// ServiceInfo reports which AI providers have credentials configured.
func (h *Handlers) ServiceInfo(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.recommender.Info(r.Context()))
}
