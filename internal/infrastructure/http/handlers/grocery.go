package handlers

import (
	"net/http"

	"github.com/mealcraft/v1/internal/domain/mealplan"
	apperrors "github.com/mealcraft/v1/pkg/errors"
)

type createGroceryItemRequest struct {
	Name string `json:"name" validate:"required"`
}

// ListGroceryItems returns the owner's shopping list in insertion
// order. Category grouping happens client-side.
func (h *Handlers) ListGroceryItems(w http.ResponseWriter, r *http.Request) {
	items, err := h.store.GetUserGroceryItems(r.Context(), h.ownerID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, items)
}

// CreateGroceryItem adds a shopping-list entry. The category is derived
// from the name once, here, and stored with the item.
func (h *Handlers) CreateGroceryItem(w http.ResponseWriter, r *http.Request) {
	var req createGroceryItemRequest
	if err := h.decodeAndValidate(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	item, err := h.store.AddGroceryItem(r.Context(), mealplan.GroceryItem{
		Name:     req.Name,
		Category: mealplan.Categorize(req.Name),
		OwnerID:  h.ownerID,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, item)
}

// ToggleGroceryItem flips an item's completed flag.
func (h *Handlers) ToggleGroceryItem(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	item, err := h.store.GetGroceryItem(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if item == nil {
		h.writeError(w, r, apperrors.NewNotFoundError("Grocery item"))
		return
	}

	item.Completed = !item.Completed
	updated, err := h.store.UpdateGroceryItem(r.Context(), id, *item)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, updated)
}

// DeleteGroceryItem removes a shopping-list entry. Deleting an unknown
// id still returns 204 so the operation is idempotent.
func (h *Handlers) DeleteGroceryItem(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	if err := h.store.RemoveGroceryItem(r.Context(), id); err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusNoContent, nil)
}
