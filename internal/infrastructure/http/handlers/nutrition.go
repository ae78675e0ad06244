package handlers

import (
	"net/http"
	"time"

	"github.com/mealcraft/v1/internal/domain/mealplan"
	apperrors "github.com/mealcraft/v1/pkg/errors"
)

type upsertNutritionRequest struct {
	Date         string `json:"date" validate:"required"`
	Calories     int    `json:"calories" validate:"min=0"`
	Protein      int    `json:"protein" validate:"min=0"`
	Carbs        int    `json:"carbs" validate:"min=0"`
	Fat          int    `json:"fat" validate:"min=0"`
	CaloriesGoal int    `json:"caloriesGoal" validate:"min=0"`
	ProteinGoal  int    `json:"proteinGoal" validate:"min=0"`
	CarbsGoal    int    `json:"carbsGoal" validate:"min=0"`
	FatGoal      int    `json:"fatGoal" validate:"min=0"`
}

const dateLayout = "2006-01-02"

// GetNutrition returns the snapshot for the requested date, or today's
// when the query parameter is absent. A date without data yields a
// zeroed snapshot with default goals instead of 404.
func (h *Handlers) GetNutrition(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		date = time.Now().Format(dateLayout)
	} else if _, err := time.Parse(dateLayout, date); err != nil {
		h.writeError(w, r, apperrors.NewBadRequestError("Date must be in YYYY-MM-DD format"))
		return
	}

	snapshot, err := h.store.GetNutrition(r.Context(), h.ownerID, date)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if snapshot == nil {
		fallback := mealplan.DefaultSnapshot(h.ownerID, date)
		h.writeJSON(w, http.StatusOK, fallback)
		return
	}
	h.writeJSON(w, http.StatusOK, snapshot)
}

// UpsertNutrition writes the day's snapshot, overwriting any existing
// row for the same date. At most one snapshot exists per owner per day.
func (h *Handlers) UpsertNutrition(w http.ResponseWriter, r *http.Request) {
	var req upsertNutritionRequest
	if err := h.decodeAndValidate(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	if _, err := time.Parse(dateLayout, req.Date); err != nil {
		h.writeError(w, r, apperrors.NewBadRequestError("Date must be in YYYY-MM-DD format"))
		return
	}

	snapshot, err := h.store.UpsertNutrition(r.Context(), mealplan.NutritionSnapshot{
		OwnerID:      h.ownerID,
		Date:         req.Date,
		Calories:     req.Calories,
		Protein:      req.Protein,
		Carbs:        req.Carbs,
		Fat:          req.Fat,
		CaloriesGoal: req.CaloriesGoal,
		ProteinGoal:  req.ProteinGoal,
		CarbsGoal:    req.CarbsGoal,
		FatGoal:      req.FatGoal,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, snapshot)
}
