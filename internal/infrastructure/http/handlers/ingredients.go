package handlers

import (
	"net/http"

	"github.com/mealcraft/v1/internal/domain/mealplan"
)

type createIngredientRequest struct {
	Name string `json:"name" validate:"required"`
}

// ListIngredients returns the owner's pantry in insertion order.
func (h *Handlers) ListIngredients(w http.ResponseWriter, r *http.Request) {
	ingredients, err := h.store.GetUserIngredients(r.Context(), h.ownerID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, ingredients)
}

// CreateIngredient adds one pantry entry. Duplicate names are allowed.
func (h *Handlers) CreateIngredient(w http.ResponseWriter, r *http.Request) {
	var req createIngredientRequest
	if err := h.decodeAndValidate(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	ingredient, err := h.store.AddIngredient(r.Context(), mealplan.Ingredient{
		Name:    req.Name,
		OwnerID: h.ownerID,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, ingredient)
}

// DeleteIngredient removes a pantry entry. Deleting an unknown id still
// returns 204 so the operation is idempotent.
func (h *Handlers) DeleteIngredient(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	if err := h.store.RemoveIngredient(r.Context(), id); err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusNoContent, nil)
}
