package handlers

import (
	"net/http"

	apperrors "github.com/mealcraft/v1/pkg/errors"
)

// ListRecipes returns every generated recipe.
func (h *Handlers) ListRecipes(w http.ResponseWriter, r *http.Request) {
	recipes, err := h.store.GetAllRecipes(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, recipes)
}

// GetRecipe returns one recipe by id.
func (h *Handlers) GetRecipe(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	recipe, err := h.store.GetRecipe(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if recipe == nil {
		h.writeError(w, r, apperrors.NewNotFoundError("Recipe"))
		return
	}
	h.writeJSON(w, http.StatusOK, recipe)
}

// SaveRecipe toggles the saved flag on a recipe. The request carries
// no body; each call flips the current state. Only the flag changes;
// the rest of the record is preserved.
func (h *Handlers) SaveRecipe(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	recipe, err := h.store.GetRecipe(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if recipe == nil {
		h.writeError(w, r, apperrors.NewNotFoundError("Recipe"))
		return
	}

	recipe.Saved = !recipe.Saved
	updated, err := h.store.UpdateRecipe(r.Context(), id, *recipe)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, updated)
}
